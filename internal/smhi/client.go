package smhi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/vaderkoll/smhi-dashboard/internal/common"
	"github.com/vaderkoll/smhi-dashboard/internal/geo"
)

const (
	// DefaultBaseURL is the SMHI point forecast endpoint (pmp3g model,
	// version 2). A coordinate path and data.json are appended per request.
	DefaultBaseURL = "https://opendata-download-metfcst.smhi.se/api/category/pmp3g/version/2/geotype/point"

	// userAgent identifies this client to the upstream service.
	userAgent = "smhi-dashboard/1.0 (+https://github.com/vaderkoll/smhi-dashboard)"

	// maxBodyBytes caps how much of a response body is read. Point
	// forecast payloads are well under this.
	maxBodyBytes = 10 << 20
)

// BackoffConfig controls exponential backoff behaviour of the retry loop.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client fetches raw forecast payloads for a coordinate with bounded
// retries, a circuit breaker, and outbound rate limiting.
type Client struct {
	baseURL string
	client  *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter

	// sleep, when non-nil, replaces the context-aware backoff wait.
	// Tests inject it to make the retry loop deterministic.
	sleep func(time.Duration)
}

// NewClient creates a Client. A nil http.Client gets a 15 second timeout;
// an empty baseURL falls back to the public SMHI endpoint.
func NewClient(client *http.Client, baseURL string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smhi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL: baseURL,
		client:  client,
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// ForecastURL returns the request URL for a coordinate. Both axes are
// rendered with six decimals, matching the upstream path convention.
func (c *Client) ForecastURL(coord geo.Coordinate) string {
	return fmt.Sprintf("%s/lon/%.6f/lat/%.6f/data.json", c.baseURL, coord.Lon, coord.Lat)
}

// retryable reports whether a status code is worth another GET attempt.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetch issues the GET for the coordinate and decodes the payload.
// Transient upstream statuses are retried up to MaxRetries times with
// exponential backoff; all other failures propagate immediately as one of
// StatusError, ContentTypeError, or DecodeError.
func (c *Client) Fetch(ctx context.Context, coord geo.Coordinate) (*Payload, error) {
	url := c.ForecastURL(coord)

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}

		payload, err := c.attempt(ctx, url)
		if err == nil {
			return payload, nil
		}

		var statusErr *StatusError
		canRetry := errors.As(err, &statusErr) && retryable(statusErr.Status)
		if !canRetry || attempt >= c.backoff.MaxRetries {
			return nil, err
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}
		if err := c.wait(ctx, delay); err != nil {
			return nil, err
		}

		attempt++
	}
}

// attempt performs a single round trip through the circuit breaker.
func (c *Client) attempt(ctx context.Context, url string) (*Payload, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Status: resp.StatusCode, BodySample: bodySample(body)}
		}

		ct := resp.Header.Get("Content-Type")
		if !common.HasAny(ct, "application/json", "+json") {
			return nil, &ContentTypeError{ContentType: ct, BodySample: bodySample(body)}
		}

		var payload Payload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, &DecodeError{Err: err, BodySample: bodySample(body)}
		}
		return &payload, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("smhi circuit breaker open: %w", err)
		}
		return nil, err
	}

	payload, ok := result.(*Payload)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return payload, nil
}

// wait sleeps for the backoff delay, honouring context cancellation.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		c.sleep(d)
		return nil
	}
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
