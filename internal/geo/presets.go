package geo

// Preset is a named location offered as a quick pick by the dashboard.
type Preset struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// DefaultPresets returns the Swedish locations the dashboard ships with.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "Stockholm", Lat: 59.3293, Lon: 18.0686},
		{Name: "Göteborg", Lat: 57.7089, Lon: 11.9746},
		{Name: "Malmö", Lat: 55.60498, Lon: 13.00382},
		{Name: "Umeå", Lat: 63.8258, Lon: 20.2630},
		{Name: "Östersund", Lat: 63.1792, Lon: 14.6357},
	}
}
