package forecast

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/vaderkoll/smhi-dashboard/internal/smhi"
)

// SMHI parameter names tracked by the dashboard.
const (
	paramTemperature   = "t"
	paramWindSpeed     = "ws"
	paramGustSpeed     = "gust"
	paramPrecipitation = "pmean"
	paramCloudCover    = "tcc_mean"
	paramPressure      = "msl"
	paramHumidity      = "r"
	paramWindDirection = "wd"
)

// Normalize flattens a raw payload into a time-ordered observation table in
// the presentation time zone. A nil payload or missing time series yields an
// empty table, not an error. Entries whose validity timestamp cannot be
// parsed are logged and skipped.
func Normalize(payload *smhi.Payload) ObservationTable {
	if payload == nil || len(payload.TimeSeries) == 0 {
		return ObservationTable{}
	}

	rows := make(ObservationTable, 0, len(payload.TimeSeries))
	for _, entry := range payload.TimeSeries {
		ts, err := ParseTimestamp(entry.ValidTime)
		if err != nil {
			log.Printf("forecast: skipping entry with bad validTime %q: %v", entry.ValidTime, err)
			continue
		}

		rows = append(rows, ObservationRow{
			Time:          ts,
			Temperature:   firstValue(entry.Parameters, paramTemperature),
			WindSpeed:     firstValue(entry.Parameters, paramWindSpeed),
			GustSpeed:     firstValue(entry.Parameters, paramGustSpeed),
			Precipitation: valueOrZero(firstValue(entry.Parameters, paramPrecipitation)),
			CloudCover:    firstValue(entry.Parameters, paramCloudCover),
			Pressure:      firstValue(entry.Parameters, paramPressure),
			Humidity:      firstValue(entry.Parameters, paramHumidity),
			WindDirection: firstValue(entry.Parameters, paramWindDirection),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time.Before(rows[j].Time)
	})
	return rows
}

// ParseTimestamp parses an upstream timestamp, with or without an explicit
// zone offset. Naive timestamps are assumed UTC. The result is converted to
// the presentation time zone.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(stockholm), nil
	}
	// time.Parse without a zone layout yields UTC, which is the assumption
	// we want for naive upstream timestamps.
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.In(stockholm), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// firstValue returns the first value of the named parameter, or nil when
// the parameter is absent or carries an empty values array.
func firstValue(params []smhi.Parameter, name string) *float64 {
	for _, p := range params {
		if p.Name == name {
			if len(p.Values) == 0 {
				return nil
			}
			v := p.Values[0]
			return &v
		}
	}
	return nil
}

// valueOrZero coerces a missing value to 0. SMHI sometimes omits pmean or
// ships it with an empty values array; either way it means no precipitation.
func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
