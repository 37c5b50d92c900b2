// Package client fetches alert batches from the generator API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/leoorbiters/leoorbiters/internal/types"
	"github.com/rs/zerolog"
)

// APIError is a non-2xx reply from the generator
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("alert API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("alert API returned %d: %s", e.StatusCode, e.Message)
}

// Options tunes the underlying HTTP client
type Options struct {
	Timeout  time.Duration
	RetryMax int
}

// Client talks to GET /api/alerts
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// New creates a client for the generator at baseURL
func New(baseURL string, opts Options, logger zerolog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = leveledLogger{logger.With().Str("component", "alert-client").Logger()}
	// Hand non-2xx responses back to the caller instead of a generic error
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
	}
}

// FetchAlerts returns the batch for the generator's current time
func (c *Client) FetchAlerts(ctx context.Context) (*types.AlertsResponse, error) {
	return c.get(ctx, c.baseURL+"/api/alerts")
}

// FetchAlertsAt returns the batch for the given date string
func (c *Client) FetchAlertsAt(ctx context.Context, date string) (*types.AlertsResponse, error) {
	return c.get(ctx, c.baseURL+"/api/alerts/"+url.PathEscape(date))
}

func (c *Client) get(ctx context.Context, endpoint string) (*types.AlertsResponse, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er types.ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}

	var out types.AlertsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return &out, nil
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Error().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
