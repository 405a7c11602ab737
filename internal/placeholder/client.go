// Package placeholder reads posts, album photos and users from a
// JSONPlaceholder-compatible API.
package placeholder

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"postfeed/feedproxy/internal/httpclient"
	"postfeed/feedproxy/internal/models"
)

// Client implements storage.Source over HTTP.
type Client struct {
	http    *httpclient.Client
	limiter *rate.Limiter
}

// NewClient wraps an httpclient.Client. rps <= 0 disables throttling.
func NewClient(hc *httpclient.Client, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// FetchPosts returns up to limit posts starting at offset start.
func (c *Client) FetchPosts(ctx context.Context, start, limit int) ([]models.BasePost, error) {
	query := url.Values{}
	query.Set("_start", strconv.Itoa(start))
	query.Set("_limit", strconv.Itoa(limit))

	var posts []models.BasePost
	if err := c.get(ctx, "/posts", query, &posts); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, nil
}

// FetchAllPosts returns every post the API exposes.
func (c *Client) FetchAllPosts(ctx context.Context) ([]models.BasePost, error) {
	var posts []models.BasePost
	if err := c.get(ctx, "/posts", nil, &posts); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, nil
}

// FetchPhotos returns the photos of the album with the given id, in API order.
func (c *Client) FetchPhotos(ctx context.Context, albumID int64) ([]models.Photo, error) {
	path := fmt.Sprintf("/albums/%d/photos", albumID)

	var photos []models.Photo
	if err := c.get(ctx, path, nil, &photos); err != nil {
		return nil, fmt.Errorf("failed to fetch photos for album %d: %w", albumID, err)
	}
	return photos, nil
}

// FetchAllPhotos returns every photo the API exposes.
func (c *Client) FetchAllPhotos(ctx context.Context) ([]models.Photo, error) {
	var photos []models.Photo
	if err := c.get(ctx, "/photos", nil, &photos); err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}
	return photos, nil
}

// FetchUsers returns all users.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.http.GetJSON(ctx, path, query, out)
}
