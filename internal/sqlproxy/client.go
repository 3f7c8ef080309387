// Package sqlproxy carries raw SQL over HTTP: a client that sends
// {query, params} to the local proxy and the proxy server that runs the
// statements against Postgres.
package sqlproxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ErrQueryFailed marks a failure reported by the proxy or the transport.
var ErrQueryFailed = errors.New("query failed")

// Executor runs one statement and returns the JSON array of result rows.
type Executor interface {
	Execute(ctx context.Context, query string, params ...any) ([]byte, error)
}

// Request is the body the proxy accepts.
type Request struct {
	Query  string `json:"query"`
	Params []any  `json:"params"`
}

// ErrorResponse is the body the proxy answers with when a statement fails.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Client talks to the proxy over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the proxy at url. A zero timeout keeps the
// http.Client default of waiting indefinitely.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Execute posts the statement and returns the raw rows array.
func (c *Client) Execute(ctx context.Context, query string, params ...any) ([]byte, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(Request{Query: query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrQueryFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		var e ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, msg)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var e ErrorResponse
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", ErrQueryFailed, err)
		}
		if e.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrQueryFailed, e.Error)
		}
		return nil, fmt.Errorf("%w: expected a row array", ErrQueryFailed)
	}

	return trimmed, nil
}

// Query runs a statement and decodes the rows into T.
func Query[T any](ctx context.Context, exec Executor, query string, params ...any) ([]T, error) {
	data, err := exec.Execute(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
