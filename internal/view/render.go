// Package view renders the feed for a terminal.
package view

import (
	"fmt"
	"io"
	"strings"

	"postfeed/feedproxy/internal/carousel"
	"postfeed/feedproxy/internal/feed"
	"postfeed/feedproxy/internal/models"
)

const (
	loadMoreLabel  = "[ Load More ]"
	loadingLabel   = "[ Loading... ]"
	caughtUpLabel  = "You are all caught up!!!"
	separatorWidth = 40
)

// UserAt pairs a displayed post with a user by list position. Positions past
// the end of users have no identity.
func UserAt(users []models.User, position int) (models.User, bool) {
	if position < 0 || position >= len(users) {
		return models.User{}, false
	}
	return users[position], true
}

// Render writes the displayed posts and the load-more affordance to w.
// carousels is keyed by post id; posts without an entry show their first image.
func Render(w io.Writer, state feed.State, users []models.User, carousels map[int64]*carousel.Controller) error {
	var b strings.Builder

	for i, post := range state.DisplayedPosts {
		if user, ok := UserAt(users, i); ok {
			fmt.Fprintf(&b, "(%s) %s <%s>\n", user.Initials(), user.Name, user.Email)
		}
		fmt.Fprintf(&b, "#%d %s\n", i+1, post.Title)
		writeImage(&b, post, carousels[post.ID])
		if post.Body != "" {
			for _, line := range strings.Split(post.Body, "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
		b.WriteString(strings.Repeat("-", separatorWidth))
		b.WriteByte('\n')
	}

	switch {
	case !state.HasMorePosts:
		b.WriteString(caughtUpLabel)
	case state.IsLoading:
		b.WriteString(loadingLabel)
	default:
		b.WriteString(loadMoreLabel)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func writeImage(b *strings.Builder, post models.Post, c *carousel.Controller) {
	if len(post.Images) == 0 {
		b.WriteString("    [no images]\n")
		return
	}
	if c == nil {
		c = carousel.ForPost(post)
	}
	img, ok := c.Current(post)
	if !ok {
		b.WriteString("    [no images]\n")
		return
	}
	fmt.Fprintf(b, "    < %d/%d > %s\n", c.Index()+1, c.Count(), img.URL)
}

// ScrollCue draws a carousel navigation cue: one arrow per ten columns of
// scroll, pointing in the direction of travel. A zero scroll draws nothing.
func ScrollCue(scroll int) string {
	switch {
	case scroll > 0:
		return strings.Repeat(">", scroll/10)
	case scroll < 0:
		return strings.Repeat("<", -scroll/10)
	}
	return ""
}
