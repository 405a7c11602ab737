package storage

import (
	"context"
	"fmt"

	"postfeed/feedproxy/internal/database"
	"postfeed/feedproxy/internal/models"
)

// Source provides the raw placeholder data the API is built from.
type Source interface {
	FetchPosts(ctx context.Context, start, limit int) ([]models.BasePost, error)
	FetchPhotos(ctx context.Context, albumID int64) ([]models.Photo, error)
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// sqlxSource implements Source on top of the SQLite mirror.
type sqlxSource struct {
	db *database.DB
}

// NewSQLiteSource creates a Source reading from an imported mirror.
func NewSQLiteSource(db *database.DB) Source {
	return &sqlxSource{db: db}
}

// FetchPosts returns posts ordered by id using offset pagination.
func (s *sqlxSource) FetchPosts(ctx context.Context, start, limit int) ([]models.BasePost, error) {
	posts := []models.BasePost{}
	err := s.db.SelectContext(ctx, &posts,
		`SELECT id, user_id, title, body FROM posts ORDER BY id ASC LIMIT ? OFFSET ?`, limit, start)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return posts, nil
}

// FetchPhotos returns the photos of one album in id order.
func (s *sqlxSource) FetchPhotos(ctx context.Context, albumID int64) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := s.db.SelectContext(ctx, &photos,
		`SELECT id, album_id, title, url, thumbnail_url FROM photos WHERE album_id = ? ORDER BY id ASC`, albumID)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return photos, nil
}

// FetchUsers returns all users in id order.
func (s *sqlxSource) FetchUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT id, name, username, email, phone, website FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return users, nil
}
