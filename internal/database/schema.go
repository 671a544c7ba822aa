package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

var createPostsTable = map[string]string{
	"postgres": `CREATE TABLE IF NOT EXISTS posts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id VARCHAR(50) NOT NULL,
	username VARCHAR(100) NOT NULL,
	message VARCHAR(500) NOT NULL,
	"timestamp" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	region VARCHAR(50),
	updated_at TIMESTAMPTZ NULL,
	updated_region VARCHAR(50) NULL
)`,
	"sqlite": `CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY NOT NULL DEFAULT (lower(hex(randomblob(16)))),
	user_id TEXT NOT NULL,
	username TEXT NOT NULL,
	message TEXT NOT NULL,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	region TEXT,
	updated_at DATETIME NULL,
	updated_region TEXT NULL
)`,
}

// EnsureSchema creates the posts table when it is missing. It never alters an
// existing table.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	name := db.Dialector.Name()
	stmt, ok := createPostsTable[name]
	if !ok {
		return fmt.Errorf("no posts schema for dialect %q", name)
	}
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create posts table: %w", err)
	}
	return nil
}
