package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"postfeed/feedproxy/internal/carousel"
	"postfeed/feedproxy/internal/feed"
	"postfeed/feedproxy/internal/models"
)

const helpText = "commands: m (load more), n <post#> (next image), p <post#> (previous image), r (redraw), q (quit)"

// UserFetcher loads the identities shown next to posts.
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
}

// Session drives a Loader from line commands and redraws after each one.
type Session struct {
	loader    *feed.Loader
	users     UserFetcher
	in        io.Reader
	out       io.Writer
	userList  []models.User
	carousels map[int64]*carousel.Controller
}

// NewSession creates a session reading commands from in and drawing to out.
func NewSession(loader *feed.Loader, users UserFetcher, in io.Reader, out io.Writer) *Session {
	return &Session{
		loader:    loader,
		users:     users,
		in:        in,
		out:       out,
		carousels: make(map[int64]*carousel.Controller),
	}
}

// Run loads users and the first page, then processes commands until q,
// end of input or ctx is done, even if a read from in is still pending.
// The loader is closed on return.
func (s *Session) Run(ctx context.Context) error {
	defer s.loader.Close()

	users, err := s.users.FetchUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching users")
	}
	s.userList = users

	s.loadMore(ctx)
	if err := s.draw(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, helpText)

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines, readErr := s.readLines(readCtx)
	for {
		fmt.Fprint(s.out, "> ")

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = l
		}

		quit, err := s.handle(ctx, line)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		if quit {
			return nil
		}
		if err := s.draw(); err != nil {
			return err
		}
	}
}

// readLines scans s.in on its own goroutine so Run can stop on ctx while a
// read is still blocked. lines is closed at end of input; readErr then holds
// the scanner error (nil on EOF).
func (s *Session) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

func (s *Session) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "m", "more":
		s.loadMore(ctx)
		return false, nil
	case "r":
		return false, nil
	case "n", "p":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: %s <post#>", fields[0])
		}
		c, err := s.carouselAt(fields[1])
		if err != nil {
			return false, err
		}
		var scroll int
		if fields[0] == "n" {
			scroll = c.Next()
		} else {
			scroll = c.Previous()
		}
		if cue := ScrollCue(scroll); cue != "" {
			fmt.Fprintf(s.out, "%s post #%s image %d/%d\n", cue, fields[1], c.Index()+1, c.Count())
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q; %s", fields[0], helpText)
	}
}

// loadMore triggers the loader and drops its error: a failed page stays
// retryable and is already logged by the loader.
func (s *Session) loadMore(ctx context.Context) {
	if started, _ := s.loader.LoadMore(ctx); !started {
		log.Debug().Msg("Load more ignored")
	}
}

// carouselAt returns the controller of the 1-based displayed post number.
func (s *Session) carouselAt(arg string) (*carousel.Controller, error) {
	n, err := strconv.Atoi(arg)
	displayed := s.loader.State().DisplayedPosts
	if err != nil || n < 1 || n > len(displayed) {
		return nil, fmt.Errorf("no post #%s on screen", arg)
	}
	return s.carouselFor(displayed[n-1]), nil
}

func (s *Session) carouselFor(post models.Post) *carousel.Controller {
	c, ok := s.carousels[post.ID]
	if !ok {
		c = carousel.ForPost(post)
		s.carousels[post.ID] = c
	}
	return c
}

func (s *Session) draw() error {
	state := s.loader.State()
	for _, p := range state.DisplayedPosts {
		s.carouselFor(p)
	}
	return Render(s.out, state, s.userList, s.carousels)
}
