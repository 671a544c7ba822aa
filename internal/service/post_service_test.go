package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"socialwall/internal/models"
	"socialwall/internal/notifications"
	"socialwall/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []notifications.PostEvent
	err    error
}

func (p *recordingPublisher) PublishPostEvent(_ context.Context, ev notifications.PostEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type failingStore struct {
	repository.PostStore
	err error
}

func (f failingStore) List(context.Context) ([]*models.Post, error) { return nil, f.err }
func (f failingStore) Insert(context.Context, *models.Post) (*models.Post, error) {
	return nil, f.err
}
func (f failingStore) DeleteAll(context.Context) error { return f.err }
func (f failingStore) Mode() string                    { return repository.ModePersistent }

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
	}
}

func newTestService(t *testing.T, region string) (*PostService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewPostService(
		repository.NewMemoryPostStore(),
		region,
		pub,
		WithClock(fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))),
		WithIDGenerator(sequentialIDs()),
	)
	return svc, pub
}

func TestCreatePost(t *testing.T) {
	svc, pub := newTestService(t, "East US")
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostInput{Username: "  alice ", Message: " hello world\n"})
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-4000-8000-000000000001", post.ID)
	assert.Equal(t, "user-00000000", post.UserID)
	assert.Equal(t, "alice", post.Username)
	assert.Equal(t, "hello world", post.Message)
	assert.Equal(t, "East US", post.Region)
	assert.Equal(t, time.UTC, post.Timestamp.Location())
	assert.Nil(t, post.UpdatedAt)
	assert.Nil(t, post.UpdatedRegion)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, notifications.EventPostCreated, pub.events[0].Type)
	assert.Equal(t, post.ID, pub.events[0].PostID)
	assert.Equal(t, "East US", pub.events[0].Region)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreatePostInput
		message string
	}{
		{"empty username", CreatePostInput{Username: "", Message: "x"}, "Username and message are required"},
		{"empty message", CreatePostInput{Username: "bob", Message: ""}, "Username and message are required"},
		{"whitespace only", CreatePostInput{Username: "   ", Message: "\t"}, "Username and message are required"},
		{"username too long", CreatePostInput{Username: strings.Repeat("u", 101), Message: "x"}, "Username must be at most 100 characters"},
		{"message too long", CreatePostInput{Username: "bob", Message: strings.Repeat("m", 501)}, "Message must be at most 500 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub := newTestService(t, "East US")
			post, err := svc.CreatePost(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, post)
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, pub.events)

			posts, err := svc.ListPosts(context.Background())
			require.NoError(t, err)
			assert.Empty(t, posts)
		})
	}
}

func TestCreatePost_LengthCountsRunes(t *testing.T) {
	svc, _ := newTestService(t, "East US")

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Username: strings.Repeat("é", 100),
		Message:  strings.Repeat("🎉", 500),
	})
	assert.NoError(t, err)
}

func TestListPosts_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t, "East US")
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, CreatePostInput{Username: "alice", Message: "first"})
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, CreatePostInput{Username: "bob", Message: "second"})
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryPostStore()
	writer := NewPostService(store, "East US", nil)
	editor := NewPostService(store, "West Europe", nil)

	post, err := writer.CreatePost(ctx, CreatePostInput{Username: "alice", Message: "hi"})
	require.NoError(t, err)

	updated, err := editor.UpdatePost(ctx, post.ID, UpdatePostInput{Message: "  hi again  "})
	require.NoError(t, err)
	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, "hi again", updated.Message)
	assert.Equal(t, "East US", updated.Region)
	assert.Equal(t, post.Timestamp, updated.Timestamp)
	require.NotNil(t, updated.UpdatedAt)
	require.NotNil(t, updated.UpdatedRegion)
	assert.Equal(t, "West Europe", *updated.UpdatedRegion)
	assert.False(t, updated.UpdatedAt.Before(post.Timestamp))
}

func TestUpdatePost_Errors(t *testing.T) {
	svc, pub := newTestService(t, "East US")
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostInput{Username: "alice", Message: "hi"})
	require.NoError(t, err)
	pub.events = nil

	_, err = svc.UpdatePost(ctx, post.ID, UpdatePostInput{Message: "   "})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	assert.Equal(t, "Message is required", err.Error())

	_, err = svc.UpdatePost(ctx, post.ID, UpdatePostInput{Message: strings.Repeat("m", 501)})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = svc.UpdatePost(ctx, "unknown-id", UpdatePostInput{Message: "x"})
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	assert.Empty(t, pub.events)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", posts[0].Message)
	assert.Nil(t, posts[0].UpdatedAt)
}

func TestDeletePost(t *testing.T) {
	svc, pub := newTestService(t, "East US")
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, CreatePostInput{Username: "alice", Message: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), models.ErrPostNotFound)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.Len(t, pub.events, 2)
	assert.Equal(t, notifications.EventPostDeleted, pub.events[1].Type)
	assert.Equal(t, post.ID, pub.events[1].PostID)
}

func TestDeleteAllPosts(t *testing.T) {
	svc, pub := newTestService(t, "East US")
	ctx := context.Background()

	require.NoError(t, svc.DeleteAllPosts(ctx))

	for i := 0; i < 3; i++ {
		_, err := svc.CreatePost(ctx, CreatePostInput{Username: "alice", Message: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
	}
	require.NoError(t, svc.DeleteAllPosts(ctx))

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, notifications.EventPostsCleared, pub.events[len(pub.events)-1].Type)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := NewPostService(repository.NewMemoryPostStore(), "East US", pub)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{Username: "alice", Message: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Len(t, pub.events, 1)
}

func TestStorageErrorsPropagate(t *testing.T) {
	storeErr := models.NewStorageError("insert post", errors.New("connection refused"))
	svc := NewPostService(failingStore{err: storeErr}, "East US", nil)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, CreatePostInput{Username: "alice", Message: "hi"})
	assert.Equal(t, models.CodeStorage, models.ErrorCode(err))

	_, err = svc.ListPosts(ctx)
	assert.Equal(t, models.CodeStorage, models.ErrorCode(err))

	assert.Equal(t, models.CodeStorage, models.ErrorCode(svc.DeleteAllPosts(ctx)))
}

func TestUserToken(t *testing.T) {
	assert.Equal(t, "user-4f1c6a2e", userToken("4f1c6a2e-8d9b-4a51-9a0e-2b7c1d3e5f60"))
	assert.Equal(t, "user-abc", userToken("abc"))
}
