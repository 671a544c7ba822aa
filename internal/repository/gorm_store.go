package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialwall/internal/models"
	"socialwall/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgInvalidTextRepresentation is raised by Postgres when a malformed UUID is
// compared against the id column.
const pgInvalidTextRepresentation = "22P02"

// gormPostStore is the persistent PostStore. Every operation is a single
// statement on the shared pool.
type gormPostStore struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewGormPostStore creates the persistent post store.
func NewGormPostStore(db *gorm.DB) PostStore {
	return &gormPostStore{
		db:      db,
		metrics: observability.NewDatabaseMetrics(models.Post{}.TableName()),
	}
}

func (r *gormPostStore) Mode() string {
	return ModePersistent
}

func (r *gormPostStore) List(ctx context.Context) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("list")()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order("id").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageError("list posts", err)
	}
	return posts, nil
}

func (r *gormPostStore) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	defer r.metrics.TrackQuery("insert")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, models.NewStorageError("insert post", err)
	}
	return post, nil
}

func (r *gormPostStore) UpdateMessage(ctx context.Context, id, message, updaterRegion string, at time.Time) (*models.Post, error) {
	if !validID(id) {
		return nil, models.ErrPostNotFound
	}

	defer r.metrics.TrackQuery("update")()

	var post models.Post
	result := r.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"message":        message,
			"updated_at":     at,
			"updated_region": updaterRegion,
		})
	if result.Error != nil {
		return nil, classify("update post", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrPostNotFound
	}
	return &post, nil
}

func (r *gormPostStore) DeleteOne(ctx context.Context, id string) error {
	if !validID(id) {
		return models.ErrPostNotFound
	}

	defer r.metrics.TrackQuery("delete")()

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		return classify("delete post", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

func (r *gormPostStore) DeleteAll(ctx context.Context) error {
	defer r.metrics.TrackQuery("delete_all")()

	err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Post{}).Error
	if err != nil {
		return models.NewStorageError("delete all posts", err)
	}
	return nil
}

// Ping performs a trivial round-trip query so mid-life connectivity loss is
// visible to the health check.
func (r *gormPostStore) Ping(ctx context.Context) error {
	var one int
	if err := r.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// validID reports whether id can exist in the table. Ids are always UUIDs,
// so anything else is unknown by definition.
func validID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return models.ErrPostNotFound
	}
	return models.NewStorageError(op, err)
}
