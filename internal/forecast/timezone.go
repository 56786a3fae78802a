package forecast

import (
	"time"
	// Embedded tz database so Europe/Stockholm resolves on minimal images.
	_ "time/tzdata"
)

// stockholm is the fixed presentation time zone for all normalized rows.
var stockholm = mustLoadLocation("Europe/Stockholm")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Now returns the current time in the presentation time zone.
func Now() time.Time {
	return time.Now().In(stockholm)
}
