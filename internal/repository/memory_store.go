package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialwall/internal/models"
)

// memoryPostStore is the volatile PostStore. Posts are kept newest first and
// all read-modify-write sequences run under the write lock.
type memoryPostStore struct {
	mu    sync.RWMutex
	posts []*models.Post
}

// NewMemoryPostStore creates a volatile post store holding copies of seed.
func NewMemoryPostStore(seed ...*models.Post) PostStore {
	s := &memoryPostStore{}
	for _, p := range seed {
		s.posts = append(s.posts, p.Clone())
	}
	return s
}

func (s *memoryPostStore) Mode() string {
	return ModeVolatile
}

func (s *memoryPostStore) List(_ context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *memoryPostStore) Insert(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = append([]*models.Post{post.Clone()}, s.posts...)
	return post.Clone(), nil
}

func (s *memoryPostStore) UpdateMessage(_ context.Context, id, message, updaterRegion string, at time.Time) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, models.ErrPostNotFound
	}
	s.posts[i].MarkUpdated(message, updaterRegion, at)
	return s.posts[i].Clone(), nil
}

func (s *memoryPostStore) DeleteOne(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.ErrPostNotFound
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return nil
}

func (s *memoryPostStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	return nil
}

func (s *memoryPostStore) Ping(_ context.Context) error {
	return nil
}

// indexOf must be called with s.mu held.
func (s *memoryPostStore) indexOf(id string) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}
