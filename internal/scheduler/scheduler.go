package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vaderkoll/smhi-dashboard/internal/forecast"
	"github.com/vaderkoll/smhi-dashboard/internal/geo"
)

// Scheduler periodically pre-fetches forecasts for the preset locations so
// the payload cache stays warm between interactive requests.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *forecast.Service
	presets   []geo.Preset
	interval  time.Duration
}

// New creates a new Scheduler.
func New(presets []geo.Preset, interval time.Duration, service *forecast.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		presets:   presets,
		interval:  interval,
	}
}

// Start schedules the periodic prefetch job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	if len(s.presets) == 0 {
		log.Println("scheduler: no preset locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running forecast prefetch job")

		var wg sync.WaitGroup
		for _, preset := range s.presets {
			preset := preset
			wg.Add(1)
			go func() {
				defer wg.Done()

				coord, err := geo.NewCoordinate(preset.Lat, preset.Lon)
				if err != nil {
					log.Printf("scheduler: bad preset %s: %v", preset.Name, err)
					return
				}

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if _, err := s.service.Forecast(ctx, coord); err != nil {
					log.Printf("scheduler: prefetch failed for %s: %v", preset.Name, err)
				}
			}()
		}
		wg.Wait()
		log.Println("scheduler: completed forecast prefetch job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
