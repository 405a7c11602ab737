package feed

import (
	"context"
	"fmt"

	"postfeed/feedproxy/internal/httpclient"
	"postfeed/feedproxy/internal/models"
	"postfeed/feedproxy/internal/server/pagination"
)

// PageFetcher retrieves one offset/limit page of enriched posts.
type PageFetcher interface {
	FetchPage(ctx context.Context, page pagination.Offset) ([]models.Post, error)
}

// APIClient talks to the feedproxy /api/v1 endpoints.
type APIClient struct {
	http *httpclient.Client
}

// NewAPIClient wraps an httpclient.Client pointed at a feedproxy server.
func NewAPIClient(hc *httpclient.Client) *APIClient {
	return &APIClient{http: hc}
}

// FetchPage implements PageFetcher.
func (c *APIClient) FetchPage(ctx context.Context, page pagination.Offset) ([]models.Post, error) {
	var posts []models.Post
	if err := c.http.GetJSON(ctx, "/api/v1/posts", page.Values(), &posts); err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return posts, nil
}

// FetchUsers returns the display identities paired with posts by position.
func (c *APIClient) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.http.GetJSON(ctx, "/api/v1/users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}
