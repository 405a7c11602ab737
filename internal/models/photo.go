package models

// Photo represents a row in the 'photos' table (and the upstream photo shape).
type Photo struct {
	ID           int64  `db:"id" json:"id"`
	AlbumID      int64  `db:"album_id" json:"albumId"`
	Title        string `db:"title" json:"title"`
	URL          string `db:"url" json:"url"`
	ThumbnailURL string `db:"thumbnail_url" json:"thumbnailUrl"`
}

// ImagesFromPhotos keeps only the photo URLs, preserving order.
func ImagesFromPhotos(photos []Photo) []Image {
	images := make([]Image, 0, len(photos))
	for _, p := range photos {
		images = append(images, Image{URL: p.URL})
	}
	return images
}
