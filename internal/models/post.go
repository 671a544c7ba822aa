// Package models contains data structures for the application's domain models.
package models

import "time"

// Field limits, counted in runes after trimming.
const (
	MaxUsernameLength = 100
	MaxMessageLength  = 500
)

// Post is a single user-submitted message on the wall.
type Post struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;not null" json:"userId"`
	Username  string    `gorm:"column:username;not null" json:"username"`
	Message   string    `gorm:"column:message;not null" json:"message"`
	Timestamp time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	Region    string    `gorm:"column:region" json:"region"`
	// UpdatedAt and UpdatedRegion are either both nil or both set.
	UpdatedAt     *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	UpdatedRegion *string    `gorm:"column:updated_region" json:"updatedRegion"`
}

// TableName pins the table name used by GORM.
func (Post) TableName() string {
	return "posts"
}

// Clone returns a copy that shares no pointers with p.
func (p *Post) Clone() *Post {
	c := *p
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	if p.UpdatedRegion != nil {
		r := *p.UpdatedRegion
		c.UpdatedRegion = &r
	}
	return &c
}

// MarkUpdated records an edit made by the given region at the given time.
func (p *Post) MarkUpdated(message, region string, at time.Time) {
	p.Message = message
	p.UpdatedAt = &at
	p.UpdatedRegion = &region
}
