package forecast

import "math"

// cardinalLabels are the 16 Swedish compass points, clockwise from north.
var cardinalLabels = [16]string{
	"N", "NNO", "NO", "ONO", "O", "OSO", "SO", "SSO",
	"S", "SSV", "SV", "VSV", "V", "VNV", "NV", "NNV",
}

// CardinalMissing is rendered when no wind direction is available.
const CardinalMissing = "—"

// Cardinal maps a wind direction in degrees to the nearest of 16 compass
// labels. Sector boundaries sit halfway between points (11.25° offset) and
// the index wraps modulo 16. A nil or NaN direction renders as a dash.
func Cardinal(deg *float64) string {
	if deg == nil || math.IsNaN(*deg) {
		return CardinalMissing
	}
	ix := int(math.Floor((*deg+11.25)/22.5)) % 16
	if ix < 0 {
		ix += 16
	}
	return cardinalLabels[ix]
}
