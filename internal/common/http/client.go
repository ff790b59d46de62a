// internal/common/http/client.go
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a small JSON client for the activity API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Response is a decoded API reply.
type Response struct {
	StatusCode int
	Body       map[string]interface{}
}

// ListActivities calls GET /activities.
func (c *Client) ListActivities(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/activities")
}

// Signup calls POST /activities/{name}/signup?email=...
func (c *Client) Signup(ctx context.Context, activity, email string) (*Response, error) {
	return c.do(ctx, http.MethodPost, rosterPath(activity, "signup", email))
}

// Unregister calls DELETE /activities/{name}/unregister?email=...
func (c *Client) Unregister(ctx context.Context, activity, email string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, rosterPath(activity, "unregister", email))
}

func rosterPath(activity, action, email string) string {
	return fmt.Sprintf("/activities/%s/%s?email=%s", url.PathEscape(activity), action, url.QueryEscape(email))
}

func (c *Client) do(ctx context.Context, method, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	out := &Response{StatusCode: resp.StatusCode}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out.Body); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
	}
	return out, nil
}
