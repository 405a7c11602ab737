package models

// BasePost is a post as returned by the placeholder source, before enrichment.
type BasePost struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"userId"`
	Title  string `db:"title" json:"title"`
	Body   string `db:"body" json:"body"`
}

// Image is a single carousel entry. Order within a post is significant.
type Image struct {
	URL string `json:"url"`
}

// Post is a BasePost merged with its album photos.
type Post struct {
	BasePost
	Images []Image `json:"images"`
}

// NewPost merges a base post with its images. A nil image slice is stored as
// an empty one so the post always serialises with "images": [].
func NewPost(base BasePost, images []Image) Post {
	if images == nil {
		images = []Image{}
	}
	return Post{BasePost: base, Images: images}
}
