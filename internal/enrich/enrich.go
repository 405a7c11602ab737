// Package enrich attaches album photos to posts.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"postfeed/feedproxy/internal/models"
	"postfeed/feedproxy/internal/server/storage"
)

// Enricher fans out one photo lookup per post and merges the results.
type Enricher struct {
	source storage.Source
}

// NewEnricher creates an Enricher reading posts and photos from source.
func NewEnricher(source storage.Source) *Enricher {
	return &Enricher{source: source}
}

// Page fetches a page of posts and enriches it. Only a failure of the
// primary post fetch is returned; photo failures degrade per post.
func (e *Enricher) Page(ctx context.Context, start, limit int) ([]models.Post, error) {
	base, err := e.source.FetchPosts(ctx, start, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return e.Enrich(ctx, base), nil
}

// Enrich returns one Post per input post, in input order. A post whose
// photos cannot be fetched gets an empty image list.
func (e *Enricher) Enrich(ctx context.Context, posts []models.BasePost) []models.Post {
	logger := zerolog.Ctx(ctx)
	results := make([]models.Post, len(posts))
	startTime := time.Now()

	var g errgroup.Group
	for i, post := range posts {
		g.Go(func() error {
			photos, err := e.source.FetchPhotos(ctx, post.ID)
			if err != nil {
				logger.Warn().
					Err(err).
					Int64("post_id", post.ID).
					Msg("Error fetching images for post")
				results[i] = models.NewPost(post, nil)
				return nil
			}
			results[i] = models.NewPost(post, models.ImagesFromPhotos(photos))
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug().
		Int("posts", len(posts)).
		Dur("duration", time.Since(startTime)).
		Msg("Posts enriched")
	return results
}
