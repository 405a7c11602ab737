// Package carousel tracks which image of a post is shown.
package carousel

import "postfeed/feedproxy/internal/models"

// Scroll offsets emitted with navigation, in columns. They only drive the
// visual cue; the index is the source of truth.
const (
	NextScroll     = 50
	PreviousScroll = -70
)

// Controller cycles through the images of one post. Each post owns its own
// Controller; the zero value is a disabled carousel.
type Controller struct {
	index int
	count int
}

// New creates a Controller over count images, showing the first.
func New(count int) *Controller {
	if count < 0 {
		count = 0
	}
	return &Controller{count: count}
}

// ForPost creates a Controller bound to post's images.
func ForPost(post models.Post) *Controller {
	return New(len(post.Images))
}

// Enabled reports whether there is anything to navigate.
func (c *Controller) Enabled() bool {
	return c.count > 0
}

// Index returns the current image index.
func (c *Controller) Index() int {
	return c.index
}

// Count returns the number of images.
func (c *Controller) Count() int {
	return c.count
}

// Next moves to the following image, wrapping to the first.
// It returns the scroll cue, or 0 when the carousel is empty.
func (c *Controller) Next() int {
	if c.count == 0 {
		return 0
	}
	c.index = (c.index + 1 + c.count) % c.count
	return NextScroll
}

// Previous moves to the preceding image, wrapping to the last.
func (c *Controller) Previous() int {
	if c.count == 0 {
		return 0
	}
	c.index = (c.index - 1 + c.count) % c.count
	return PreviousScroll
}

// Current returns the image at the current index of post.
func (c *Controller) Current(post models.Post) (models.Image, bool) {
	if c.index < 0 || c.index >= len(post.Images) {
		return models.Image{}, false
	}
	return post.Images[c.index], true
}
