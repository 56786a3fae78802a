package smhi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vaderkoll/smhi-dashboard/internal/geo"
)

const validPayload = `{
	"approvedTime": "2025-11-04T08:00:00Z",
	"timeSeries": [
		{
			"validTime": "2025-11-04T09:00:00Z",
			"parameters": [
				{"name": "t", "unit": "Cel", "values": [4.2]},
				{"name": "ws", "unit": "m/s", "values": [3.1]}
			]
		}
	]
}`

// newTestClient points a client at the test server and disables the real
// backoff sleep so retry tests run instantly.
func newTestClient(t *testing.T, srv *httptest.Server) (*Client, *[]time.Duration) {
	t.Helper()

	var delays []time.Duration
	c := NewClient(srv.Client(), srv.URL)
	c.sleep = func(d time.Duration) {
		delays = append(delays, d)
	}
	return c, &delays
}

func mustCoordinate(t *testing.T) geo.Coordinate {
	t.Helper()
	coord, err := geo.NewCoordinate(59.3293, 18.0686)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return coord
}

func TestForecastURL(t *testing.T) {
	c := NewClient(nil, "")
	coord := mustCoordinate(t)

	want := DefaultBaseURL + "/lon/18.068600/lat/59.329300/data.json"
	if got := c.ForecastURL(coord); got != want {
		t.Errorf("ForecastURL() = %q, want %q", got, want)
	}
}

func TestFetchSuccess(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "smhi-dashboard/") {
			t.Errorf("unexpected User-Agent %q", got)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	payload, err := c.Fetch(context.Background(), mustCoordinate(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if payload.ApprovedTime != "2025-11-04T08:00:00Z" {
		t.Errorf("unexpected approvedTime %q", payload.ApprovedTime)
	}
	if len(payload.TimeSeries) != 1 || len(payload.TimeSeries[0].Parameters) != 2 {
		t.Fatalf("unexpected payload shape: %+v", payload)
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 3 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validPayload))
	}))
	defer srv.Close()

	c, delays := newTestClient(t, srv)
	if _, err := c.Fetch(context.Background(), mustCoordinate(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attempts != 4 {
		t.Errorf("expected 4 attempts (3 retries), got %d", attempts)
	}
	wantDelays := []time.Duration{
		500 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
	}
	if len(*delays) != len(wantDelays) {
		t.Fatalf("expected %d backoff sleeps, got %d", len(wantDelays), len(*delays))
	}
	for i, want := range wantDelays {
		if (*delays)[i] != want {
			t.Errorf("delay[%d] = %v, want %v", i, (*delays)[i], want)
		}
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "still broken", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), mustCoordinate(t))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", statusErr.Status, http.StatusServiceUnavailable)
	}
	if attempts != 4 {
		t.Errorf("expected exactly 4 attempts, got %d", attempts)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "no such point", http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), mustCoordinate(t))

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", statusErr.Status, http.StatusNotFound)
	}
	if attempts != 1 {
		t.Errorf("404 must not be retried; got %d attempts", attempts)
	}
}

func TestFetchWrongContentType(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>maintenance page</body></html>"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), mustCoordinate(t))

	var ctErr *ContentTypeError
	if !errors.As(err, &ctErr) {
		t.Fatalf("expected *ContentTypeError, got %T: %v", err, err)
	}
	if ctErr.ContentType != "text/html" {
		t.Errorf("ContentType = %q", ctErr.ContentType)
	}
	if !strings.Contains(ctErr.BodySample, "maintenance") {
		t.Errorf("BodySample should carry the body start, got %q", ctErr.BodySample)
	}
	if attempts != 1 {
		t.Errorf("content-type failures must not be retried; got %d attempts", attempts)
	}
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"approvedTime": `))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), mustCoordinate(t))

	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decErr.Unwrap() == nil {
		t.Error("DecodeError should wrap the underlying parse error")
	}
}

func TestBodySampleTruncation(t *testing.T) {
	long := strings.Repeat("x", 150) + "\nsecond line\r\n" + strings.Repeat("y", 150)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(long))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Fetch(context.Background(), mustCoordinate(t))

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if len(statusErr.BodySample) > 200 {
		t.Errorf("BodySample length = %d, want <= 200", len(statusErr.BodySample))
	}
	if strings.ContainsAny(statusErr.BodySample, "\r\n") {
		t.Error("BodySample must have newlines collapsed")
	}
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Fetch(ctx, mustCoordinate(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
