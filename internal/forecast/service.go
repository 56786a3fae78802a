package forecast

import (
	"context"
	"time"

	"github.com/vaderkoll/smhi-dashboard/internal/geo"
	"github.com/vaderkoll/smhi-dashboard/internal/smhi"
)

// Fetcher is the upstream client contract.
type Fetcher interface {
	Fetch(ctx context.Context, coord geo.Coordinate) (*smhi.Payload, error)
	ForecastURL(coord geo.Coordinate) string
}

// Cache holds raw payloads keyed by coordinate. It is owned by the shell
// and injected here so the pipeline itself stays stateless.
type Cache interface {
	Get(key string) (*smhi.Payload, bool)
	Set(key string, payload *smhi.Payload)
	Invalidate(key string)
}

// Service runs the retrieval pipeline: fetch (through the cache) and
// normalize. Coordinates are validated by the caller via geo.NewCoordinate
// before they reach this point.
type Service struct {
	fetcher Fetcher
	cache   Cache
}

// NewService creates a new Service.
func NewService(fetcher Fetcher, cache Cache) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
	}
}

// Result bundles a normalized table with upstream metadata.
type Result struct {
	Coordinate   geo.Coordinate
	ApprovedTime time.Time // zero when upstream omitted or garbled it
	Table        ObservationTable
}

// Forecast returns the normalized observation table for a coordinate,
// fetching from upstream on a cache miss. Fetch failures propagate
// unchanged; the HTTP layer is the sole recovery point.
func (s *Service) Forecast(ctx context.Context, coord geo.Coordinate) (Result, error) {
	payload, ok := s.cache.Get(coord.Key())
	if !ok {
		fresh, err := s.fetcher.Fetch(ctx, coord)
		if err != nil {
			return Result{}, err
		}
		s.cache.Set(coord.Key(), fresh)
		payload = fresh
	}

	res := Result{
		Coordinate: coord,
		Table:      Normalize(payload),
	}
	if payload.ApprovedTime != "" {
		if ts, err := ParseTimestamp(payload.ApprovedTime); err == nil {
			res.ApprovedTime = ts
		}
	}
	return res, nil
}

// Refresh drops any cached payload for the coordinate so the next call hits
// upstream again.
func (s *Service) Refresh(coord geo.Coordinate) {
	s.cache.Invalidate(coord.Key())
}

// URL exposes the upstream request URL for a coordinate, used in error
// diagnostics.
func (s *Service) URL(coord geo.Coordinate) string {
	return s.fetcher.ForecastURL(coord)
}
