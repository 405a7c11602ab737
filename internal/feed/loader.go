// Package feed holds the client-side incremental post loader.
package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"postfeed/feedproxy/internal/models"
	"postfeed/feedproxy/internal/server/pagination"
)

// Status is the loader's position in its state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// State is a snapshot of the loader. Slices are copies owned by the caller.
type State struct {
	AllPosts       []models.Post
	DisplayedPosts []models.Post
	Page           int
	PostsPerPage   int
	HasMorePosts   bool
	IsLoading      bool
	Status         Status
}

// Loader fetches pages on demand, deduplicates posts by id and tracks
// which prefix of them is displayed.
//
// Transitions happen under mu; the fetch itself runs unlocked, so a second
// LoadMore during a fetch sees StatusLoading and returns without fetching.
type Loader struct {
	fetcher PageFetcher
	logger  zerolog.Logger

	mu        sync.Mutex
	viewport  Viewport
	status    Status
	all       []models.Post
	seen      map[int64]struct{}
	displayed []models.Post
	page      int
	loaded    bool
	closed    bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates an idle loader with no posts.
func NewLoader(fetcher PageFetcher, viewport Viewport, opts ...Option) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		logger:   log.Logger,
		viewport: viewport,
		seen:     make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetViewport updates the viewport. Only page sizes of later fetches change;
// posts already displayed stay displayed.
func (l *Loader) SetViewport(v Viewport) {
	l.mu.Lock()
	l.viewport = v
	l.mu.Unlock()
}

// Close detaches the loader. Fetches completing afterwards are discarded.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// LoadMore requests the next page: page 0 on first use, then page+1.
// It reports false without fetching when the loader is loading, exhausted
// or closed. A failed fetch leaves the page unchanged and the loader idle.
func (l *Loader) LoadMore(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.closed || l.status != StatusIdle {
		l.mu.Unlock()
		return false, nil
	}
	target := l.page
	if l.loaded {
		target++
	}
	size := PageSize(l.viewport)
	l.status = StatusLoading
	l.mu.Unlock()

	request := pagination.Offset{Start: target * size, Limit: size}
	posts, err := l.fetcher.FetchPage(ctx, request)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return true, err
	}

	if err != nil {
		l.logger.Error().Err(err).
			Int("page", target).
			Int("start", request.Start).
			Int("limit", request.Limit).
			Msg("Error fetching posts")
		l.status = StatusIdle
		return true, err
	}

	fresh := l.appendUnseen(posts)
	l.page = target
	l.loaded = true

	if len(posts) < size || fresh == 0 {
		l.status = StatusExhausted
		l.logger.Debug().Int("page", target).Int("received", len(posts)).Int("new", fresh).Msg("Feed exhausted")
	} else {
		l.status = StatusIdle
	}

	l.recomputeDisplayed()
	return true, nil
}

// appendUnseen appends posts whose id is not yet known and returns how many.
func (l *Loader) appendUnseen(posts []models.Post) int {
	n := 0
	for _, p := range posts {
		if _, ok := l.seen[p.ID]; ok {
			continue
		}
		l.seen[p.ID] = struct{}{}
		l.all = append(l.all, p)
		n++
	}
	return n
}

// recomputeDisplayed sets displayed to the prefix of all of length
// (page+1)*postsPerPage, capped at len(all). It never shrinks the prefix,
// so a narrower viewport does not hide posts already shown.
func (l *Loader) recomputeDisplayed() {
	n := min((l.page+1)*PageSize(l.viewport), len(l.all))
	n = max(n, len(l.displayed))
	l.displayed = l.all[:n:n]
}

// State returns a snapshot of the loader.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return State{
		AllPosts:       append([]models.Post(nil), l.all...),
		DisplayedPosts: append([]models.Post(nil), l.displayed...),
		Page:           l.page,
		PostsPerPage:   PageSize(l.viewport),
		HasMorePosts:   l.status != StatusExhausted,
		IsLoading:      l.status == StatusLoading,
		Status:         l.status,
	}
}
