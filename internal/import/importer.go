package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"postfeed/feedproxy/internal/database"
	"postfeed/feedproxy/internal/models"
)

// Upstream is the full-dump view of the placeholder API.
type Upstream interface {
	FetchAllPosts(ctx context.Context) ([]models.BasePost, error)
	FetchAllPhotos(ctx context.Context) ([]models.Photo, error)
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// Store receives the downloaded snapshot.
type Store interface {
	ReplaceAll(ctx context.Context, snap database.Snapshot) error
}

// Importer copies the placeholder data set into the local mirror.
type Importer struct {
	upstream Upstream
	store    Store
}

// NewImporter creates a new importer
func NewImporter(upstream Upstream, store Store) *Importer {
	return &Importer{upstream: upstream, store: store}
}

// Import downloads users, posts and photos and replaces the mirror contents.
// Nothing is written unless all three downloads succeed.
func (i *Importer) Import(ctx context.Context) (database.Snapshot, error) {
	log.Info().Msg("Starting placeholder import")

	var snap database.Snapshot
	var err error

	if snap.Users, err = i.upstream.FetchUsers(ctx); err != nil {
		return database.Snapshot{}, fmt.Errorf("failed to download users: %w", err)
	}
	log.Debug().Int("count", len(snap.Users)).Msg("Downloaded users")

	if snap.Posts, err = i.upstream.FetchAllPosts(ctx); err != nil {
		return database.Snapshot{}, fmt.Errorf("failed to download posts: %w", err)
	}
	log.Debug().Int("count", len(snap.Posts)).Msg("Downloaded posts")

	if snap.Photos, err = i.upstream.FetchAllPhotos(ctx); err != nil {
		return database.Snapshot{}, fmt.Errorf("failed to download photos: %w", err)
	}
	log.Debug().Int("count", len(snap.Photos)).Msg("Downloaded photos")

	if err := i.store.ReplaceAll(ctx, snap); err != nil {
		return database.Snapshot{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	log.Info().Msg("Import completed successfully")
	return snap, nil
}
