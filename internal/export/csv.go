package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"augmentstats/internal/session"
	"augmentstats/internal/stats"
)

// ErrNoData is returned when there are no statistics to export.
var ErrNoData = errors.New("no data to export")

var csvHeader = []string{"Augment", "Games", "Avg Placement", "Win Rate", "Pick Rate"}

// WriteCSV writes the per-augment statistics as CSV.
func WriteCSV(w io.Writer, rows []stats.AugmentStat) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range rows {
		record := []string{
			s.Name,
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.AvgPlace, 'f', 2, 64),
			percent(s.WinRate),
			percent(s.PickRate),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFileName returns the default export name for a scope on the given day.
func CSVFileName(scope session.Class, now time.Time) string {
	return fmt.Sprintf("tft_augment_stats_%s_%s.csv", scope, now.UTC().Format("2006-01-02"))
}

func percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
