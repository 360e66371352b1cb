// Package report renders station reports as plain text lines.
package report

import (
	"fmt"
	"io"

	"github.com/bbernstein/normals/backend-go/internal/models"
)

// Write renders any report produced by the station analyzer.
func Write(w io.Writer, report any) error {
	switch r := report.(type) {
	case *models.OverlapReport:
		return WriteOverlap(w, r)
	case *models.LineCountReport:
		return WriteLineCounts(w, r)
	case *models.InventoryReport:
		return WriteInventory(w, r)
	case *models.ComfortReport:
		return WriteComfort(w, r)
	default:
		return fmt.Errorf("unsupported report type %T", report)
	}
}

func WriteOverlap(w io.Writer, r *models.OverlapReport) error {
	label := stationLabel(r.Prefix)
	return writeLines(w,
		fmt.Sprintf("Number of %s with zip code: %d", label, r.ZipcodeStations),
		fmt.Sprintf("Number of %s tracking temperatures: %d", label, r.TemperatureStations),
		fmt.Sprintf("Number of %s with both zip code and temperature data: %d", label, r.CommonStations),
	)
}

func WriteLineCounts(w io.Writer, r *models.LineCountReport) error {
	label := "lines"
	if r.Prefix != "" {
		label = r.Prefix + " lines"
	}
	return writeLines(w,
		fmt.Sprintf("Number of %s in zip code file: %d", label, r.ZipcodeLines),
		fmt.Sprintf("Number of %s in temperature file: %d", label, r.TemperatureLines),
	)
}

func WriteInventory(w io.Writer, r *models.InventoryReport) error {
	label := stationLabel(r.Prefix)
	return writeLines(w,
		fmt.Sprintf("Loaded %d total %s", r.TotalStations, label),
		fmt.Sprintf("  - %d %s with zip code data", r.ZipcodeStations, label),
		fmt.Sprintf("  - %d %s with temperature data", r.TemperatureStations, label),
		fmt.Sprintf("  - %d %s with both zip code and temperature data", r.CommonStations, label),
	)
}

// WriteComfort lists the ranked stations, one per line, after a summary.
func WriteComfort(w io.Writer, r *models.ComfortReport) error {
	lines := make([]string, 0, len(r.Stations)+1)
	lines = append(lines, fmt.Sprintf("Top %d of %d scored %s", len(r.Stations), r.ScoredStations, stationLabel(r.Prefix)))
	for i, s := range r.Stations {
		zipcode := s.Zipcode
		if zipcode == "" {
			zipcode = "-----"
		}
		lines = append(lines, fmt.Sprintf("%3d. %s %s temperature %6.2f precipitation %6.2f total %6.2f",
			i+1, s.ID, zipcode, s.TemperatureScore, s.PrecipitationScore, s.TotalScore))
	}
	return writeLines(w, lines...)
}

func stationLabel(prefix string) string {
	if prefix == "" {
		return "stations"
	}
	return prefix + " stations"
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
