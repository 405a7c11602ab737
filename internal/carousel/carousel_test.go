package carousel

import (
	"testing"

	"postfeed/feedproxy/internal/models"
)

func TestNextThenPreviousRestoresIndex(t *testing.T) {
	for k := 1; k <= 12; k++ {
		for start := 0; start < k; start++ {
			c := New(k)
			for i := 0; i < start; i++ {
				c.Next()
			}
			if c.Index() != start {
				t.Fatalf("k=%d: index after %d nexts = %d", k, start, c.Index())
			}

			c.Next()
			c.Previous()
			if c.Index() != start {
				t.Errorf("k=%d start=%d: next+previous gave %d", k, start, c.Index())
			}
		}
	}
}

func TestWraparound(t *testing.T) {
	c := New(3)

	c.Previous()
	if c.Index() != 2 {
		t.Errorf("previous from 0 = %d, want 2", c.Index())
	}
	c.Next()
	if c.Index() != 0 {
		t.Errorf("next from 2 = %d, want 0", c.Index())
	}
}

func TestEmptyCarouselIsNoop(t *testing.T) {
	c := New(0)

	if cue := c.Next(); cue != 0 {
		t.Errorf("Next cue = %d, want 0", cue)
	}
	if cue := c.Previous(); cue != 0 {
		t.Errorf("Previous cue = %d, want 0", cue)
	}
	if c.Index() != 0 || c.Enabled() {
		t.Errorf("empty carousel index = %d enabled = %v", c.Index(), c.Enabled())
	}

	var zero Controller
	zero.Next()
	if zero.Index() != 0 {
		t.Errorf("zero value index = %d, want 0", zero.Index())
	}
}

func TestCurrentImage(t *testing.T) {
	post := models.NewPost(models.BasePost{ID: 1}, []models.Image{{URL: "a"}, {URL: "b"}})
	c := ForPost(post)

	img, ok := c.Current(post)
	if !ok || img.URL != "a" {
		t.Errorf("Current = %+v, %v; want a", img, ok)
	}
	if cue := c.Next(); cue != NextScroll {
		t.Errorf("Next cue = %d, want %d", cue, NextScroll)
	}
	img, _ = c.Current(post)
	if img.URL != "b" {
		t.Errorf("Current after Next = %q, want b", img.URL)
	}

	empty := models.NewPost(models.BasePost{ID: 2}, nil)
	if _, ok := ForPost(empty).Current(empty); ok {
		t.Error("Current on empty post should report false")
	}
}

func TestControllersAreIndependent(t *testing.T) {
	a, b := New(4), New(4)
	a.Next()
	a.Next()
	if b.Index() != 0 {
		t.Errorf("b moved with a: %d", b.Index())
	}
}
