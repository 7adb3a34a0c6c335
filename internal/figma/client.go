// Package figma fetches published styles from the Figma REST API.
package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/HartBrook/figstyle/internal/errors"
)

const (
	defaultBaseURL = "https://api.figma.com/v1"
	maxAttempts    = 3
	nodesPerBatch  = 100
)

// Client is a Figma API client. Requests are retried on transport errors,
// rate limiting and server errors.
type Client struct {
	accessToken string
	baseURL     string
	backoff     time.Duration
	httpClient  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBackoff sets the base delay between attempts. Attempt n waits n times
// this delay.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a client authenticated with a personal access token.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		// HTTP/2 streams are reset on very large node payloads.
		ForceAttemptHTTP2: false,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		backoff:     2 * time.Second,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	fileURLPattern = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design)/([A-Za-z0-9]+)(?:[/?#]|$)`)
	fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]{10,}$`)
)

// ExtractFileKey returns the file key from a figma.com /file/ or /design/
// URL. A bare file key is returned unchanged.
func ExtractFileKey(figmaURL string) (string, error) {
	figmaURL = strings.TrimSpace(figmaURL)
	if fileKeyPattern.MatchString(figmaURL) {
		return figmaURL, nil
	}
	matches := fileURLPattern.FindStringSubmatch(figmaURL)
	if len(matches) < 2 {
		return "", errors.InvalidFileURL(figmaURL)
	}
	return matches[1], nil
}

// GetFileStyles retrieves metadata for every published style in a file.
func (c *Client) GetFileStyles(ctx context.Context, fileKey string) (*StylesResponse, error) {
	var resp StylesResponse
	if err := c.get(ctx, fileKey, fmt.Sprintf("/files/%s/styles", url.PathEscape(fileKey)), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetNodes retrieves node documents by id, batching large id lists.
func (c *Client) GetNodes(ctx context.Context, fileKey string, ids []string) (*NodesResponse, error) {
	result := &NodesResponse{Nodes: make(map[string]*NodeData, len(ids))}

	for start := 0; start < len(ids); start += nodesPerBatch {
		end := min(start+nodesPerBatch, len(ids))

		query := url.Values{"ids": {strings.Join(ids[start:end], ",")}}
		var batch NodesResponse
		if err := c.get(ctx, fileKey, fmt.Sprintf("/files/%s/nodes", url.PathEscape(fileKey)), query, &batch); err != nil {
			return nil, err
		}

		result.Name = batch.Name
		result.LastModified = batch.LastModified
		result.Version = batch.Version
		for id, node := range batch.Nodes {
			result.Nodes[id] = node
		}
	}
	return result, nil
}

// get performs a GET request with retries and decodes the JSON response.
func (c *Client) get(ctx context.Context, fileKey, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx, attempt-1); err != nil {
				return errors.FigmaFetchFailed(fileKey, err)
			}
		}

		body, status, err := c.do(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return errors.FigmaFetchFailed(fileKey, err)
			}
			lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
			continue
		}

		switch {
		case status == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return errors.FigmaFetchFailed(fileKey, fmt.Errorf("failed to parse response: %w", err))
			}
			return nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return errors.FigmaAuthFailed(statusError(status, body))
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = statusError(status, body)
			continue
		default:
			return errors.FigmaFetchFailed(fileKey, statusError(status, body))
		}
	}

	return errors.FigmaFetchFailed(fileKey, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) wait(ctx context.Context, n int) error {
	timer := time.NewTimer(time.Duration(n) * c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func statusError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Err != "" {
		return fmt.Errorf("API request failed with status %d: %s", status, apiErr.Err)
	}
	return fmt.Errorf("API request failed with status %d", status)
}
