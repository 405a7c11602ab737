package database

import (
	"context"
	"path/filepath"
	"testing"

	"postfeed/feedproxy/internal/database/migrations"
	"postfeed/feedproxy/internal/models"
)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirror.db")

	db, err := NewDB(NewConfig(path))
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestReplaceAllOverwrites(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	first := Snapshot{
		Users: []models.User{{ID: 1, Name: "Leanne Graham"}},
		Posts: []models.BasePost{{ID: 1, UserID: 1, Title: "a", Body: "b"}},
		Photos: []models.Photo{
			{ID: 1, AlbumID: 1, URL: "https://img/1"},
			{ID: 2, AlbumID: 1, URL: "https://img/2"},
		},
	}
	if err := db.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	second := Snapshot{
		Posts: []models.BasePost{{ID: 9, UserID: 2, Title: "z", Body: "y"}},
	}
	if err := db.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("second ReplaceAll failed: %v", err)
	}

	var posts, photos, users int
	if err := db.Get(&posts, "SELECT COUNT(*) FROM posts"); err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if err := db.Get(&photos, "SELECT COUNT(*) FROM photos"); err != nil {
		t.Fatalf("count photos: %v", err)
	}
	if err := db.Get(&users, "SELECT COUNT(*) FROM users"); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if posts != 1 || photos != 0 || users != 0 {
		t.Errorf("counts = posts %d photos %d users %d, want 1 0 0", posts, photos, users)
	}
}

func TestReadOnlyRequiresExistingFile(t *testing.T) {
	cfg := NewConfig(filepath.Join(t.TempDir(), "missing.db"))
	cfg.ReadOnly = true

	if _, err := NewDB(cfg); err == nil {
		t.Fatal("expected error opening a missing read-only database")
	}
}

func TestMigrationsRollback(t *testing.T) {
	db, _ := setupTestDB(t)

	files, err := migrations.LoadMigrations(migrations.Files)
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if len(files) == 0 || files[0].Down == "" {
		t.Fatalf("expected an initial migration with a down script, got %+v", files)
	}

	if err := migrations.RollbackMigrations(db.DB.DB, files, 1); err != nil {
		t.Fatalf("RollbackMigrations failed: %v", err)
	}

	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts'"); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 0 {
		t.Errorf("posts table still present after rollback")
	}

	if err := migrations.RunMigrations(db.DB.DB, files); err != nil {
		t.Fatalf("RunMigrations after rollback failed: %v", err)
	}
	if err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts'"); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 1 {
		t.Errorf("posts table missing after re-running migrations")
	}
}
