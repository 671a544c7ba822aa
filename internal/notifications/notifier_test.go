package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilClientIsNoop(t *testing.T) {
	var n *Notifier
	assert.NoError(t, n.PublishPostEvent(context.Background(), PostEvent{Type: EventPostCreated}))

	n = NewNotifier(nil)
	assert.NoError(t, n.PublishPostEvent(context.Background(), PostEvent{Type: EventPostCreated}))
}

func TestNotifier_PublishPostEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, BroadcastChannel, RegionChannel("East US"))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	ev := PostEvent{
		Type:   EventPostCreated,
		PostID: "4f1c6a2e-8d9b-4a51-9a0e-2b7c1d3e5f60",
		Region: "East US",
		At:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewNotifier(rdb).PublishPostEvent(ctx, ev))

	channels := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-sub.Channel():
			channels[msg.Channel] = true
			var got PostEvent
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
			assert.Equal(t, ev, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for post event")
		}
	}
	assert.True(t, channels[BroadcastChannel])
	assert.True(t, channels["posts:events:East US"])
}

func TestNotifier_PublishFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	mr.Close()

	err := NewNotifier(rdb).PublishPostEvent(context.Background(), PostEvent{Type: EventPostsCleared, Region: "East US"})
	assert.Error(t, err)
}
