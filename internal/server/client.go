package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/naka-gawa/github-grader/internal/domain"
)

// Client is a typed HTTP client for the metric services exposed by a running
// grader server. Any non-success response is an error; callers decide whether
// that aborts the whole report.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// GetActivityData fetches the activity metric bundle for username.
func (c *Client) GetActivityData(ctx context.Context, username string) (domain.ActivityMetrics, error) {
	var m domain.ActivityMetrics
	err := c.get(ctx, "/api/v1/metrics/activity/"+url.PathEscape(username), &m)
	return m, err
}

// GetPopularityData fetches the popularity metric bundle for username.
func (c *Client) GetPopularityData(ctx context.Context, username string) (domain.PopularityMetrics, error) {
	var m domain.PopularityMetrics
	err := c.get(ctx, "/api/v1/metrics/popularity/"+url.PathEscape(username), &m)
	return m, err
}

// GetCodeQualityData fetches the code quality metric bundle for username.
func (c *Client) GetCodeQualityData(ctx context.Context, username string) (domain.CodeQualityMetrics, error) {
	var m domain.CodeQualityMetrics
	err := c.get(ctx, "/api/v1/metrics/code-quality/"+url.PathEscape(username), &m)
	return m, err
}

// GetCollaborationData fetches the collaboration metric bundle for username.
func (c *Client) GetCollaborationData(ctx context.Context, username string) (domain.CollaborationMetrics, error) {
	var m domain.CollaborationMetrics
	err := c.get(ctx, "/api/v1/metrics/collaboration/"+url.PathEscape(username), &m)
	return m, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request to %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
