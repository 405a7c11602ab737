package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"postfeed/feedproxy/internal/database/migrations"
	"postfeed/feedproxy/internal/models"
)

// DB represents the placeholder mirror connection
type DB struct {
	*sqlx.DB
}

// Snapshot is a full copy of the placeholder data set.
type Snapshot struct {
	Users  []models.User
	Posts  []models.BasePost
	Photos []models.Photo
}

// NewDB opens the SQLite mirror. Read-write connections run migrations.
func NewDB(cfg *Config) (*DB, error) {
	if !cfg.ReadOnly {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory for database: %w", err)
			}
		}
	} else if _, err := os.Stat(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("database %s is not available (run import first): %w", cfg.DBPath, err)
	}

	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}

	dsn := fmt.Sprintf("file:%s?_journal=WAL&_synchronous=NORMAL&_busy_timeout=%d",
		cfg.DBPath, cfg.BusyTimeoutMS)
	if cfg.ReadOnly {
		dsn += "&mode=ro"
	}
	log.Info().Str("path", cfg.DBPath).Str("mode", modeStr(cfg.ReadOnly)).Msg("Opening database")

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if !cfg.ReadOnly {
		migrationFiles, err := migrations.LoadMigrations(migrations.Files)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load migrations: %w", err)
		}
		if err := migrations.RunMigrations(db.DB, migrationFiles); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db (%s): %w", modeStr(cfg.ReadOnly), err)
	}

	log.Info().Str("mode", modeStr(cfg.ReadOnly)).Msg("Database connection successful")
	return &DB{db}, nil
}

func modeStr(readOnly bool) string {
	if readOnly {
		return "read-only"
	}
	return "read-write"
}

// ReplaceAll swaps the mirror contents for snap in a single transaction.
func (db *DB) ReplaceAll(ctx context.Context, snap Snapshot) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"photos", "posts", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	inserts := []struct {
		query string
		rows  any
		count int
	}{
		{`INSERT INTO users (id, name, username, email, phone, website)
			VALUES (:id, :name, :username, :email, :phone, :website)`, snap.Users, len(snap.Users)},
		{`INSERT INTO posts (id, user_id, title, body)
			VALUES (:id, :user_id, :title, :body)`, snap.Posts, len(snap.Posts)},
		{`INSERT INTO photos (id, album_id, title, url, thumbnail_url)
			VALUES (:id, :album_id, :title, :url, :thumbnail_url)`, snap.Photos, len(snap.Photos)},
	}
	for _, ins := range inserts {
		if ins.count == 0 {
			continue
		}
		stmt, err := tx.PrepareNamedContext(ctx, ins.query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		if err := execEach(ctx, stmt, ins.rows); err != nil {
			stmt.Close()
			return err
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	log.Info().
		Int("users", len(snap.Users)).
		Int("posts", len(snap.Posts)).
		Int("photos", len(snap.Photos)).
		Msg("Snapshot stored")
	return nil
}

func execEach(ctx context.Context, stmt *sqlx.NamedStmt, rows any) error {
	switch rs := rows.(type) {
	case []models.User:
		for _, r := range rs {
			if _, err := stmt.ExecContext(ctx, r); err != nil {
				return fmt.Errorf("failed to insert user %d: %w", r.ID, err)
			}
		}
	case []models.BasePost:
		for _, r := range rs {
			if _, err := stmt.ExecContext(ctx, r); err != nil {
				return fmt.Errorf("failed to insert post %d: %w", r.ID, err)
			}
		}
	case []models.Photo:
		for _, r := range rs {
			if _, err := stmt.ExecContext(ctx, r); err != nil {
				return fmt.Errorf("failed to insert photo %d: %w", r.ID, err)
			}
		}
	default:
		return fmt.Errorf("unsupported row type %T", rows)
	}
	return nil
}

// DeleteDB removes the database file if it exists
func DeleteDB(dbPath string) error {
	if _, err := os.Stat(dbPath); err == nil {
		return os.Remove(dbPath)
	}
	return nil
}
