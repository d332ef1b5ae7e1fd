// Package viewer is a terminal rendition of the post list: it fetches
// /api/posts once on start and shows the result in a bubbles list.
package viewer

import (
	"blog-app/models"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Client reads posts from a running blog server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

// FetchPosts issues GET /api/posts and decodes the JSON array.
func (c *Client) FetchPosts(ctx context.Context) ([]models.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/posts", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch posts")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET /api/posts returned %d", resp.StatusCode)
	}

	var posts []models.Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, errors.Wrap(err, "failed to decode posts")
	}
	return posts, nil
}
