package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"postfeed/feedproxy/internal/models"
)

type fakeSource struct {
	posts      []models.BasePost
	postsErr   error
	failAlbums map[int64]bool
	delay      func(albumID int64) time.Duration
	inFlight   atomic.Int32
	maxFlight  atomic.Int32
}

func (f *fakeSource) FetchPosts(ctx context.Context, start, limit int) ([]models.BasePost, error) {
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	if start >= len(f.posts) {
		return []models.BasePost{}, nil
	}
	end := min(start+limit, len(f.posts))
	return f.posts[start:end], nil
}

func (f *fakeSource) FetchPhotos(ctx context.Context, albumID int64) ([]models.Photo, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay != nil {
		time.Sleep(f.delay(albumID))
	}
	if f.failAlbums[albumID] {
		return nil, errors.New("upstream unavailable")
	}
	return []models.Photo{
		{ID: albumID*10 + 1, AlbumID: albumID, URL: fmt.Sprintf("https://img/%d/a", albumID)},
		{ID: albumID*10 + 2, AlbumID: albumID, URL: fmt.Sprintf("https://img/%d/b", albumID)},
	}, nil
}

func (f *fakeSource) FetchUsers(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

func basePosts(ids ...int64) []models.BasePost {
	posts := make([]models.BasePost, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, models.BasePost{ID: id, Title: fmt.Sprintf("post %d", id)})
	}
	return posts
}

func TestEnrichDegradesFailedPost(t *testing.T) {
	src := &fakeSource{failAlbums: map[int64]bool{2: true}}
	e := NewEnricher(src)

	got := e.Enrich(context.Background(), basePosts(1, 2, 3))

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, id := range []int64{1, 2, 3} {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
		}
	}
	if len(got[0].Images) != 2 || got[0].Images[0].URL != "https://img/1/a" {
		t.Errorf("post 1 images = %+v", got[0].Images)
	}
	if got[1].Images == nil || len(got[1].Images) != 0 {
		t.Errorf("post 2 images = %#v, want empty non-nil slice", got[1].Images)
	}
	if len(got[2].Images) != 2 || got[2].Images[1].URL != "https://img/3/b" {
		t.Errorf("post 3 images = %+v", got[2].Images)
	}
}

func TestEnrichLogsFailedPost(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	e := NewEnricher(&fakeSource{failAlbums: map[int64]bool{2: true}})

	e.Enrich(ctx, basePosts(1, 2, 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var warnings []string
	for _, line := range lines {
		if strings.Contains(line, `"level":"warn"`) {
			warnings = append(warnings, line)
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %q, want exactly one", warnings)
	}
	if !strings.Contains(warnings[0], `"post_id":2`) || !strings.Contains(warnings[0], "upstream unavailable") {
		t.Errorf("warning = %q, want post_id 2 and the cause", warnings[0])
	}
}

func TestEnrichPreservesOrderRegardlessOfCompletion(t *testing.T) {
	src := &fakeSource{
		// Earlier posts finish last.
		delay: func(albumID int64) time.Duration {
			return time.Duration(6-albumID) * 10 * time.Millisecond
		},
	}
	e := NewEnricher(src)

	got := e.Enrich(context.Background(), basePosts(1, 2, 3, 4, 5))

	for i, p := range got {
		if p.ID != int64(i+1) {
			t.Fatalf("got[%d].ID = %d, want %d", i, p.ID, i+1)
		}
	}
	if src.maxFlight.Load() < 2 {
		t.Errorf("expected concurrent photo fetches, max in flight = %d", src.maxFlight.Load())
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	e := NewEnricher(&fakeSource{})

	got := e.Enrich(context.Background(), nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Enrich(nil) = %#v, want empty slice", got)
	}
}

func TestPagePrimaryFailure(t *testing.T) {
	e := NewEnricher(&fakeSource{postsErr: errors.New("boom")})

	if _, err := e.Page(context.Background(), 0, 2); err == nil {
		t.Fatal("expected primary fetch error")
	}
}

func TestPageSlices(t *testing.T) {
	e := NewEnricher(&fakeSource{posts: basePosts(1, 2, 3, 4, 5)})

	got, err := e.Page(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != 5 {
		t.Errorf("Page(4, 2) = %+v, want only post 5", got)
	}
}
