package forecast

import "time"

// ObservationRow is one normalized, time-stamped weather reading. Optional
// numeric fields are nil when the source parameter was absent, so they
// serialize as JSON null rather than a NaN sentinel. Precipitation is the
// exception: an absent value means no precipitation, never unknown.
type ObservationRow struct {
	Time          time.Time `json:"time"`
	Temperature   *float64  `json:"tempC"`
	WindSpeed     *float64  `json:"windMs"`
	GustSpeed     *float64  `json:"gustMs"`
	Precipitation float64   `json:"precipMmH"`
	CloudCover    *float64  `json:"cloudOkta"`
	Pressure      *float64  `json:"mslHpa"`
	Humidity      *float64  `json:"rhPct"`
	WindDirection *float64  `json:"windDeg"`
}

// ObservationTable is a sequence of observation rows ordered ascending by
// time. Normalize always returns it sorted; duplicate timestamps are
// allowed.
type ObservationTable []ObservationRow
