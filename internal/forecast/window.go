package forecast

import (
	"errors"
	"time"
)

// ErrEmptyTable is returned when a current row is requested from an empty
// observation table.
var ErrEmptyTable = errors.New("empty observation table")

// PickCurrent returns the row whose time is nearest to now. Ties resolve to
// the earlier-indexed row.
func PickCurrent(table ObservationTable, now time.Time) (ObservationRow, error) {
	if len(table) == 0 {
		return ObservationRow{}, ErrEmptyTable
	}

	best := 0
	bestDiff := absDuration(table[0].Time.Sub(now))
	for i := 1; i < len(table); i++ {
		if d := absDuration(table[i].Time.Sub(now)); d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return table[best], nil
}

// Window returns the rows with time in [now, now+span], both bounds
// inclusive. The result may be empty.
func Window(table ObservationTable, now time.Time, span time.Duration) ObservationTable {
	end := now.Add(span)
	out := ObservationTable{}
	for _, row := range table {
		if row.Time.Before(now) || row.Time.After(end) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
