package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"postfeed/feedproxy/internal/database"
	"postfeed/feedproxy/internal/models"
)

func setupTestSource(t *testing.T) Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirror.db")

	db, err := database.NewDB(database.NewConfig(path))
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	snap := database.Snapshot{
		Users: []models.User{{ID: 1, Name: "Leanne Graham", Email: "leanne@example.com"}},
	}
	for i := int64(1); i <= 5; i++ {
		snap.Posts = append(snap.Posts, models.BasePost{ID: i, UserID: 1, Title: fmt.Sprintf("post %d", i)})
	}
	// Inserted out of order to check ORDER BY.
	snap.Photos = []models.Photo{
		{ID: 12, AlbumID: 2, URL: "https://img/12"},
		{ID: 11, AlbumID: 2, URL: "https://img/11"},
		{ID: 21, AlbumID: 3, URL: "https://img/21"},
	}
	if err := db.ReplaceAll(context.Background(), snap); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	return NewSQLiteSource(db)
}

func TestFetchPostsOffsetLimit(t *testing.T) {
	src := setupTestSource(t)
	ctx := context.Background()

	tests := []struct {
		start, limit int
		wantIDs      []int64
	}{
		{0, 2, []int64{1, 2}},
		{2, 2, []int64{3, 4}},
		{4, 2, []int64{5}},
		{6, 2, []int64{}},
	}
	for _, tt := range tests {
		posts, err := src.FetchPosts(ctx, tt.start, tt.limit)
		if err != nil {
			t.Fatalf("FetchPosts(%d, %d) failed: %v", tt.start, tt.limit, err)
		}
		if len(posts) != len(tt.wantIDs) {
			t.Fatalf("FetchPosts(%d, %d) returned %d posts, want %d", tt.start, tt.limit, len(posts), len(tt.wantIDs))
		}
		for i, p := range posts {
			if p.ID != tt.wantIDs[i] {
				t.Errorf("FetchPosts(%d, %d)[%d].ID = %d, want %d", tt.start, tt.limit, i, p.ID, tt.wantIDs[i])
			}
		}
	}
}

func TestFetchPhotosByAlbum(t *testing.T) {
	src := setupTestSource(t)

	photos, err := src.FetchPhotos(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchPhotos failed: %v", err)
	}
	if len(photos) != 2 || photos[0].ID != 11 || photos[1].ID != 12 {
		t.Errorf("photos = %+v, want ids [11 12]", photos)
	}

	none, err := src.FetchPhotos(context.Background(), 99)
	if err != nil {
		t.Fatalf("FetchPhotos(99) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no photos for unknown album, got %d", len(none))
	}
}

func TestFetchUsers(t *testing.T) {
	src := setupTestSource(t)

	users, err := src.FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("FetchUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].Email != "leanne@example.com" {
		t.Errorf("users = %+v", users)
	}
}
