package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kelvins/geocoder"

	"github.com/vaderkoll/smhi-dashboard/internal/export"
	"github.com/vaderkoll/smhi-dashboard/internal/forecast"
	"github.com/vaderkoll/smhi-dashboard/internal/geo"
	"github.com/vaderkoll/smhi-dashboard/internal/smhi"
)

var validate = validator.New()

// Options carries shell-level settings into the handlers.
type Options struct {
	// DefaultWindowHours applies when the request omits `hours`.
	DefaultWindowHours int

	// GeocodingEnabled allows `place=` lookups beyond the preset names.
	// Requires geocoder.ApiKey to be set by the caller.
	GeocodingEnabled bool
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service, opts Options) {
	if opts.DefaultWindowHours <= 0 {
		opts.DefaultWindowHours = 48
	}

	v1 := app.Group("/api/v1")

	v1.Get("/presets", func(c *fiber.Ctx) error {
		return c.JSON(geo.DefaultPresets())
	})

	v1.Get("/forecast", forecastHandler(service, opts, renderJSON))
	v1.Get("/forecast.csv", forecastHandler(service, opts, renderCSV))

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c, opts.DefaultWindowHours); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		coord, err := resolveCoordinate(q, opts)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		service.Refresh(coord)
		return c.JSON(fiber.Map{
			"refreshed": true,
			"location":  coord,
		})
	})
}

// renderFunc turns a pipeline result into an HTTP response.
type renderFunc func(c *fiber.Ctx, res forecast.Result, windowed forecast.ObservationTable, now time.Time, hours int) error

func forecastHandler(service *forecast.Service, opts Options, render renderFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c, opts.DefaultWindowHours); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coord, err := resolveCoordinate(q, opts)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := service.Forecast(c.Context(), coord)
		if err != nil {
			return pipelineError(c, service.URL(coord), err)
		}

		now := forecast.Now()
		windowed := forecast.Window(res.Table, now, time.Duration(q.Hours)*time.Hour)
		return render(c, res, windowed, now, q.Hours)
	}
}

// renderJSON answers with the current row plus the windowed table. An empty
// normalized table is a valid "no data" outcome, not an error.
func renderJSON(c *fiber.Ctx, res forecast.Result, windowed forecast.ObservationTable, now time.Time, hours int) error {
	body := fiber.Map{
		"location":    res.Coordinate,
		"windowHours": hours,
		"rows":        windowed,
	}
	if !res.ApprovedTime.IsZero() {
		body["approvedTime"] = res.ApprovedTime.Format("2006-01-02 15:04")
	}

	current, err := forecast.PickCurrent(res.Table, now)
	if errors.Is(err, forecast.ErrEmptyTable) {
		body["message"] = "no time series data from SMHI"
		return c.JSON(body)
	}

	body["current"] = currentView{
		ObservationRow: current,
		WindCardinal:   forecast.Cardinal(current.WindDirection),
	}
	return c.JSON(body)
}

// renderCSV streams the windowed table as a CSV download.
func renderCSV(c *fiber.Ctx, res forecast.Result, windowed forecast.ObservationTable, _ time.Time, _ int) error {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, windowed); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename(res.Coordinate)))
	return c.Send(buf.Bytes())
}

// currentView decorates the nearest row with its cardinal wind direction.
type currentView struct {
	forecast.ObservationRow
	WindCardinal string `json:"windCardinal"`
}

// pipelineError converts a fetch failure into a diagnostic JSON response
// carrying the attempted upstream URL.
func pipelineError(c *fiber.Ctx, url string, err error) error {
	status := fiber.StatusInternalServerError

	var statusErr *smhi.StatusError
	var ctErr *smhi.ContentTypeError
	var decErr *smhi.DecodeError
	switch {
	case errors.As(err, &statusErr), errors.As(err, &ctErr), errors.As(err, &decErr):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"message": fmt.Sprintf("failed to read SMHI data: %v", err),
		"url":     url,
	})
}

// forecastQuery holds query parameters shared by the forecast handlers.
// Either lat/lon or a place name must be supplied. The hours cap is wider
// than the original 12-72 slider; the pipeline takes any non-negative span.
type forecastQuery struct {
	Lat   *float64 `validate:"required_without=Place"`
	Lon   *float64 `validate:"required_without=Place"`
	Place string
	Hours int `validate:"gte=0,lte=240"`
}

func (q *forecastQuery) bind(c *fiber.Ctx, defaultHours int) error {
	q.Place = c.Query("place")

	if s := c.Query("lat"); s != "" {
		lat, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("lat must be a number")
		}
		q.Lat = &lat
	}
	if s := c.Query("lon"); s != "" {
		lon, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("lon must be a number")
		}
		q.Lon = &lon
	}

	q.Hours = defaultHours
	if s := c.Query("hours"); s != "" {
		hours, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("hours must be an integer")
		}
		q.Hours = hours
	}
	return nil
}

// resolveCoordinate turns the query into a validated coordinate. Lat/lon
// take precedence; a place name matches the presets first and falls back to
// geocoding when enabled.
func resolveCoordinate(q forecastQuery, opts Options) (geo.Coordinate, error) {
	if q.Lat != nil && q.Lon != nil {
		return geo.NewCoordinate(*q.Lat, *q.Lon)
	}
	if q.Lat != nil || q.Lon != nil {
		return geo.Coordinate{}, errors.New("lat and lon must be provided together")
	}

	for _, preset := range geo.DefaultPresets() {
		if strings.EqualFold(preset.Name, q.Place) {
			return geo.NewCoordinate(preset.Lat, preset.Lon)
		}
	}

	if !opts.GeocodingEnabled {
		return geo.Coordinate{}, fmt.Errorf("unknown place %q and geocoding is not configured", q.Place)
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: q.Place})
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocoding %q failed: %w", q.Place, err)
	}
	return geo.NewCoordinate(loc.Latitude, loc.Longitude)
}
