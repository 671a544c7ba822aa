// Package notifications publishes post write events for other regional
// instances and dashboards.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types published on the post channels.
const (
	EventPostCreated  = "post.created"
	EventPostUpdated  = "post.updated"
	EventPostDeleted  = "post.deleted"
	EventPostsCleared = "posts.cleared"
)

// BroadcastChannel receives every event from every region.
const BroadcastChannel = "posts:events"

// PostEvent describes a single write to the wall.
type PostEvent struct {
	Type   string    `json:"type"`
	PostID string    `json:"postId,omitempty"`
	Region string    `json:"region"`
	At     time.Time `json:"at"`
}

// RegionChannel returns the channel carrying events written by region.
func RegionChannel(region string) string {
	return fmt.Sprintf("%s:%s", BroadcastChannel, region)
}

// Notifier provides helpers to publish post events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client yields a notifier whose publishes are no-ops.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishPostEvent sends ev to the broadcast channel and to its region channel.
func (n *Notifier) PublishPostEvent(ctx context.Context, ev PostEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal post event: %w", err)
	}

	pipe := n.rdb.Pipeline()
	pipe.Publish(ctx, BroadcastChannel, payload)
	pipe.Publish(ctx, RegionChannel(ev.Region), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish post event: %w", err)
	}
	return nil
}
