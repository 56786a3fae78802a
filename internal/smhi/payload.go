package smhi

// Payload is the raw forecast document returned by the SMHI point forecast
// API. It is kept opaque to callers; the forecast package flattens it.
type Payload struct {
	ApprovedTime  string            `json:"approvedTime"`
	ReferenceTime string            `json:"referenceTime"`
	TimeSeries    []TimeSeriesEntry `json:"timeSeries"`
}

// TimeSeriesEntry is one forecast step with its validity timestamp and the
// parameter values predicted for it.
type TimeSeriesEntry struct {
	ValidTime  string      `json:"validTime"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter is a named numeric forecast parameter. Values usually holds a
// single element but may be empty.
type Parameter struct {
	Name   string    `json:"name"`
	Unit   string    `json:"unit,omitempty"`
	Values []float64 `json:"values"`
}
