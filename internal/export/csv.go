package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vaderkoll/smhi-dashboard/internal/forecast"
	"github.com/vaderkoll/smhi-dashboard/internal/geo"
)

// csvHeader mirrors the localized column names of the dashboard table. The
// last column is the cardinal wind direction label.
var csvHeader = []string{
	"Tid (lokal)",
	"Temp (°C)",
	"Vind (m/s)",
	"Byvind (m/s)",
	"Vindriktning (°)",
	"Nederbörd (mm/h)",
	"Moln (0–8)",
	"Tryck (hPa)",
	"RF (%)",
	"Vind",
}

// timeLayout renders row times in local wall-clock form.
const timeLayout = "2006-01-02 15:04"

// WriteCSV writes the observation table as UTF-8 comma-separated values,
// one row per observation, with a localized header row. Missing values
// render as empty cells.
func WriteCSV(w io.Writer, table forecast.ObservationTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range table {
		rec := []string{
			row.Time.Format(timeLayout),
			formatOptional(row.Temperature, 1),
			formatOptional(row.WindSpeed, 1),
			formatOptional(row.GustSpeed, 1),
			formatOptional(row.WindDirection, 0),
			strconv.FormatFloat(row.Precipitation, 'f', 2, 64),
			formatOptional(row.CloudCover, 0),
			formatOptional(row.Pressure, 1),
			formatOptional(row.Humidity, 0),
			forecast.Cardinal(row.WindDirection),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the download name for a coordinate's export.
func Filename(coord geo.Coordinate) string {
	return fmt.Sprintf("smhi_forecast_%.4f_%.4f.csv", coord.Lat, coord.Lon)
}

func formatOptional(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}
