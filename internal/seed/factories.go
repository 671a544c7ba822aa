// Package seed fills the wall with fake posts for demos and load drills.
package seed

import (
	"context"
	"fmt"
	"time"

	"socialwall/internal/models"
	"socialwall/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Seeder creates fake posts through the post service so they carry the same
// identity, region and validation as real ones.
type Seeder struct {
	posts *service.PostService
	faker *gofakeit.Faker
}

// NewSeeder returns a Seeder. A zero seed picks a time-based one.
func NewSeeder(posts *service.PostService, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{posts: posts, faker: gofakeit.New(seed)}
}

// FakePost builds a random, valid post payload.
func (s *Seeder) FakePost() service.CreatePostInput {
	var message string
	switch s.faker.Number(0, 2) {
	case 0:
		message = s.faker.HackerPhrase()
	case 1:
		message = s.faker.Sentence(s.faker.Number(4, 16))
	default:
		message = fmt.Sprintf("%s %s", s.faker.Emoji(), s.faker.Quote())
	}

	return service.CreatePostInput{
		Username: truncate(s.faker.Username(), models.MaxUsernameLength),
		Message:  truncate(message, models.MaxMessageLength),
	}
}

// SeedPosts inserts n fake posts and returns them in creation order.
func (s *Seeder) SeedPosts(ctx context.Context, n int) ([]*models.Post, error) {
	created := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post, err := s.posts.CreatePost(ctx, s.FakePost())
		if err != nil {
			return created, fmt.Errorf("seed post %d: %w", i+1, err)
		}
		created = append(created, post)
	}
	return created, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
