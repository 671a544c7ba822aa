// Package repository provides the storage adapters behind the post service.
package repository

import (
	"context"
	"time"

	"socialwall/internal/models"
)

// Storage modes reported by PostStore.Mode.
const (
	ModePersistent = "persistent"
	ModeVolatile   = "volatile"
)

// PostStore defines the storage contract shared by the persistent and the
// volatile adapters. List is ordered by descending creation timestamp.
// UpdateMessage and DeleteOne return models.ErrPostNotFound for unknown ids.
type PostStore interface {
	List(ctx context.Context) ([]*models.Post, error)
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	UpdateMessage(ctx context.Context, id, message, updaterRegion string, at time.Time) (*models.Post, error)
	DeleteOne(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Mode() string
}
