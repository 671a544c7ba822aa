// Package service contains the business logic sitting between HTTP handlers
// and storage.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"socialwall/internal/middleware"
	"socialwall/internal/models"
	"socialwall/internal/notifications"
	"socialwall/internal/observability"
	"socialwall/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// EventPublisher receives post write events. *notifications.Notifier
// satisfies it.
type EventPublisher interface {
	PublishPostEvent(ctx context.Context, ev notifications.PostEvent) error
}

// PostService validates post requests, stamps identity and region and
// delegates to the configured store.
type PostService struct {
	store  repository.PostStore
	region string
	events EventPublisher
	now    func() time.Time
	newID  func() string
}

// CreatePostInput is the payload for a new post.
type CreatePostInput struct {
	Username string `json:"username" form:"username"`
	Message  string `json:"message" form:"message"`
}

// UpdatePostInput is the payload for editing a post.
type UpdatePostInput struct {
	Message string `json:"message" form:"message"`
}

// Option customizes a PostService.
type Option func(*PostService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *PostService) { s.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *PostService) { s.newID = newID }
}

// NewPostService builds a PostService writing as region. events may be nil.
func NewPostService(store repository.PostStore, region string, events EventPublisher, opts ...Option) *PostService {
	s := &PostService{
		store:  store,
		region: region,
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Region returns the region label stamped onto writes.
func (s *PostService) Region() string {
	return s.region
}

// StorageMode reports which store variant backs the service.
func (s *PostService) StorageMode() string {
	return s.store.Mode()
}

// Ping probes the backing store.
func (s *PostService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *PostService) ListPosts(ctx context.Context) (posts []*models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.ListPosts")
	defer func() {
		observability.EndSpan(span, err)
		record("list", err)
	}()

	posts, err = s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("posts.count", len(posts)))
	return posts, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CreatePost")
	defer func() {
		observability.EndSpan(span, err)
		record("create", err)
	}()

	username := strings.TrimSpace(in.Username)
	message := strings.TrimSpace(in.Message)
	if username == "" || message == "" {
		return nil, models.NewValidationError("Username and message are required")
	}
	if utf8.RuneCountInString(username) > models.MaxUsernameLength {
		return nil, models.NewValidationError(fmt.Sprintf("Username must be at most %d characters", models.MaxUsernameLength))
	}
	if err := validateMessageLength(message); err != nil {
		return nil, err
	}

	post = &models.Post{
		ID:        s.newID(),
		UserID:    userToken(s.newID()),
		Username:  username,
		Message:   message,
		Timestamp: s.now().UTC(),
		Region:    s.region,
	}

	post, err = s.store.Insert(ctx, post)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("post.id", post.ID))
	s.publish(ctx, notifications.EventPostCreated, post.ID)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.UpdatePost", attribute.String("post.id", id))
	defer func() {
		observability.EndSpan(span, err)
		record("update", err)
	}()

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if err := validateMessageLength(message); err != nil {
		return nil, err
	}

	post, err = s.store.UpdateMessage(ctx, id, message, s.region, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notifications.EventPostUpdated, post.ID)
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.DeletePost", attribute.String("post.id", id))
	defer func() {
		observability.EndSpan(span, err)
		record("delete", err)
	}()

	if err = s.store.DeleteOne(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, notifications.EventPostDeleted, id)
	return nil
}

func (s *PostService) DeleteAllPosts(ctx context.Context) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.DeleteAllPosts")
	defer func() {
		observability.EndSpan(span, err)
		record("delete_all", err)
	}()

	if err = s.store.DeleteAll(ctx); err != nil {
		return err
	}

	s.publish(ctx, notifications.EventPostsCleared, "")
	return nil
}

// publish is best-effort; a failed publish never fails the write.
func (s *PostService) publish(ctx context.Context, eventType, postID string) {
	if s.events == nil {
		return
	}
	ev := notifications.PostEvent{
		Type:   eventType,
		PostID: postID,
		Region: s.region,
		At:     s.now().UTC(),
	}
	if err := s.events.PublishPostEvent(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish post event",
			slog.String("type", eventType),
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
	}
}

func validateMessageLength(message string) error {
	if utf8.RuneCountInString(message) > models.MaxMessageLength {
		return models.NewValidationError(fmt.Sprintf("Message must be at most %d characters", models.MaxMessageLength))
	}
	return nil
}

// userToken derives the short user identifier from a random token.
func userToken(token string) string {
	token = strings.ReplaceAll(token, "-", "")
	if len(token) > 8 {
		token = token[:8]
	}
	return "user-" + token
}

func record(operation string, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(models.ErrorCode(err))
		if result == "" {
			result = "error"
		}
	}
	middleware.PostOperations.WithLabelValues(operation, result).Inc()
}
