// Package registry talks to a Tether application registry over HTTP.
package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Client pushes and pulls application packages. Transient failures (network
// errors, 5xx responses) are retried with exponential backoff.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	retries  uint64
	interval time.Duration
}

// NewClient creates a registry client for the given base URL. An empty token
// sends unauthenticated requests.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:  baseURL,
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
		retries:  4,
		interval: 500 * time.Millisecond,
	}
}

// Push uploads the packaged application and returns the registry reference.
func (c *Client) Push(ctx context.Context, name, version string, pkg []byte) (string, error) {
	ref := fmt.Sprintf("%s:%s", name, version)
	url := fmt.Sprintf("%s/v1/apps/%s/versions/%s", c.baseURL, name, version)

	err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(pkg))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/vnd.tether.app.v1+yaml")
		return req, nil
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to push %s: %w", ref, err)
	}
	return ref, nil
}

// Pull downloads the packaged application identified by ref ("name:version").
func (c *Client) Pull(ctx context.Context, ref string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/apps/%s", c.baseURL, ref)

	var body []byte
	err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, func(resp *http.Response) error {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read registry response: %w", err)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pull %s: %w", ref, err)
	}
	return body, nil
}

// do executes a request with retry. newReq builds a fresh request per
// attempt; onSuccess, if set, consumes the 2xx response body.
func (c *Client) do(ctx context.Context, newReq func() (*http.Request, error), onSuccess func(*http.Response) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.interval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), ctx)

	return backoff.Retry(func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("X-Request-Id", uuid.NewString())
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if onSuccess != nil {
				return backoff.Permanent(onSuccess(resp))
			}
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("registry returned %s", resp.Status)
		default:
			return backoff.Permanent(fmt.Errorf("registry returned %s", resp.Status))
		}
	}, policy)
}
