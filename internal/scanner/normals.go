package scanner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bbernstein/normals/backend-go/internal/models"
)

// missingValue marks a day without a normal, e.g. February 30th.
const missingValue = "-8888"

// flagLetters are the completeness flags NOAA appends to each value.
const flagLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DailyMaxLine is one month of daily maximum temperature normals for a
// station. Values are in °F.
type DailyMaxLine struct {
	Station models.StationCode
	Month   int // 1-12
	Values  [models.DaysPerMonth]*float64
}

// ParseTenths converts a flagged value in tenths of a degree, such as
// "834C", to degrees. It returns nil for the missing marker and for values
// that do not parse.
func ParseTenths(value string) *float64 {
	if strings.HasPrefix(value, missingValue) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimRight(value, flagLetters), 64)
	if err != nil {
		return nil
	}
	degrees := f / 10
	return &degrees
}

// ParseDailyMaxLine parses a line of dly-tmax-normal.txt. Lines with fewer
// than a station, a month and 31 values are skipped with ok false.
func ParseDailyMaxLine(line string) (DailyMaxLine, bool, error) {
	fields := strings.Fields(line)
	if len(fields) < 2+models.DaysPerMonth {
		return DailyMaxLine{}, false, nil
	}

	month, err := strconv.Atoi(fields[1])
	if err != nil {
		return DailyMaxLine{}, false, fmt.Errorf("parsing month of %s: %w", fields[0], err)
	}
	if month < 1 || month > models.MonthsPerYear {
		return DailyMaxLine{}, false, fmt.Errorf("month %d of %s out of range", month, fields[0])
	}

	parsed := DailyMaxLine{
		Station: models.StationCode(fields[0]),
		Month:   month,
	}
	for day := range parsed.Values {
		parsed.Values[day] = ParseTenths(fields[day+2])
	}
	return parsed, true, nil
}

// ForEachDailyMax calls fn for every well formed matching line of a daily
// maximum temperature file.
func (s *Scanner) ForEachDailyMax(r io.Reader, fn func(DailyMaxLine) error) error {
	return s.ForEachMatch(r, func(line string) error {
		parsed, ok, err := ParseDailyMaxLine(line)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return fn(parsed)
	})
}

// ZipcodeLine splits a line of zipcodes-normals-stations.txt into its
// station code and zip code. The zip code is empty when the line has none.
func ZipcodeLine(line string) (models.StationCode, string, bool) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return "", "", false
	case 1:
		return models.StationCode(fields[0]), "", true
	default:
		return models.StationCode(fields[0]), fields[1], true
	}
}

// Columns of the per-station monthly normals CSV files.
const (
	columnDate      = "DATE"
	columnRainyDays = "MLY-PRCP-AVGNDS-GE050HI"
	columnLatitude  = "LATITUDE"
	columnLongitude = "LONGITUDE"
)

// MonthlyPrecipitation is what a per-station monthly normals CSV file says
// about rain.
type MonthlyPrecipitation struct {
	// RainyDays is the average number of days per month with at least half
	// an inch of rain. Months without a value stay zero.
	RainyDays []float64
	Latitude  *float64
	Longitude *float64
}

// ParseMonthlyPrecipitation reads a monthly normals CSV file. The rainy day
// column holds a thirty year total, so values are divided by 30. Rows with
// an unusable month are skipped, as are "S" and "P" values.
func ParseMonthlyPrecipitation(r io.Reader) (*MonthlyPrecipitation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading header: empty file")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns[columnDate]; !ok {
		return nil, fmt.Errorf("missing %s column", columnDate)
	}

	result := &MonthlyPrecipitation{RainyDays: make([]float64, models.MonthsPerYear)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		month, err := strconv.Atoi(strings.TrimSpace(cell(row, columns, columnDate)))
		if err != nil || month < 1 || month > models.MonthsPerYear {
			continue
		}

		if value := strings.TrimSpace(cell(row, columns, columnRainyDays)); value != "" && value != "S" && value != "P" {
			if total, err := strconv.ParseFloat(value, 64); err == nil {
				result.RainyDays[month-1] = total / 30
			}
		}

		if month == 1 {
			result.Latitude = parseCoordinate(cell(row, columns, columnLatitude))
			result.Longitude = parseCoordinate(cell(row, columns, columnLongitude))
		}
	}
	return result, nil
}

func cell(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseCoordinate(value string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil
	}
	return &f
}
