package feed

const (
	// NarrowWidth is the terminal width (columns) below which the layout collapses.
	NarrowWidth = 100

	narrowPageSize = 1
	widePageSize   = 4
)

// Viewport is the display size signal the page size is derived from.
// A zero Width means unknown and is treated as wide.
type Viewport struct {
	Width int
}

// Narrow reports whether the viewport uses the collapsed layout.
func (v Viewport) Narrow() bool {
	return v.Width > 0 && v.Width < NarrowWidth
}

// PageSize returns the number of posts requested per page for v.
func PageSize(v Viewport) int {
	if v.Narrow() {
		return narrowPageSize
	}
	return widePageSize
}
