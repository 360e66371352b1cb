package station

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/bbernstein/normals/backend-go/internal/scanner"
	"github.com/rs/zerolog/log"
)

// StationMap indexes stations by code.
type StationMap map[models.StationCode]*models.Station

// LoadZipcodeStations reads every prefixed station of a zip code file. A
// station listed with several zip codes keeps the first one.
func (a *Analyzer) LoadZipcodeStations(ctx context.Context, location, prefix string) (StationMap, error) {
	stations := make(StationMap)
	err := a.withReader(ctx, location, func(r io.Reader) error {
		return scanner.New(prefix).ForEachMatch(r, func(line string) error {
			code, zipcode, ok := scanner.ZipcodeLine(line)
			if !ok {
				return nil
			}
			st, seen := stations[code]
			if !seen {
				st = &models.Station{ID: code}
				stations[code] = st
			}
			if st.Zipcode == nil && zipcode != "" {
				st.Zipcode = &zipcode
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("location", location).Int("station_count", len(stations)).Msg("Loaded zip code stations")
	return stations, nil
}

// LoadTemperatureStations reads the daily maximum temperature normals of
// every prefixed station.
func (a *Analyzer) LoadTemperatureStations(ctx context.Context, location, prefix string) (StationMap, error) {
	stations := make(StationMap)
	err := a.withReader(ctx, location, func(r io.Reader) error {
		return scanner.New(prefix).ForEachDailyMax(r, func(line scanner.DailyMaxLine) error {
			st, seen := stations[line.Station]
			if !seen {
				st = &models.Station{ID: line.Station, MaxTemperatures: &models.DailyTemperatures{}}
				stations[line.Station] = st
			}
			st.MaxTemperatures[line.Month-1] = line.Values
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("location", location).Int("station_count", len(stations)).Msg("Loaded temperature stations")
	return stations, nil
}

// LoadStations merges the zip code and temperature stations of req by code.
func (a *Analyzer) LoadStations(ctx context.Context, req models.ReportRequest) (StationMap, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	zipcodes, err := a.LoadZipcodeStations(ctx, req.ZipcodesLocation, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("loading zip code stations: %w", err)
	}

	temperatures, err := a.LoadTemperatureStations(ctx, req.TemperatureLocation, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("loading temperature stations: %w", err)
	}

	return MergeStations(zipcodes, temperatures), nil
}

// MergeStations combines two station maps into a new one. Temperatures of a
// station present in both are added to the zip code station. The inputs
// are not modified.
func MergeStations(zipcodes, temperatures StationMap) StationMap {
	merged := make(StationMap, len(zipcodes)+len(temperatures))
	for code, st := range zipcodes {
		cp := *st
		merged[code] = &cp
	}

	for code, st := range temperatures {
		if existing, ok := merged[code]; ok {
			existing.MaxTemperatures = st.MaxTemperatures
			continue
		}
		cp := *st
		merged[code] = &cp
	}
	return merged
}

// LoadPrecipitationStations reads every <station>.csv file at the top of
// fsys whose station code starts with prefix. Stations whose rainy day
// averages are out of range are skipped.
func LoadPrecipitationStations(fsys fs.FS, prefix string) (StationMap, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing precipitation files: %w", err)
	}

	stations := make(StationMap)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".csv" {
			continue
		}
		code := models.StationCode(strings.TrimSuffix(name, ".csv"))
		if !scanner.HasPrefix(string(code), prefix) {
			continue
		}

		precip, err := readPrecipitation(fsys, name)
		if err != nil {
			return nil, err
		}

		st := &models.Station{ID: code, Latitude: precip.Latitude, Longitude: precip.Longitude}
		if err := st.SetRainyDaysPerMonth(precip.RainyDays); err != nil {
			log.Debug().Err(err).Str("station", string(code)).Msg("Skipping precipitation station")
			continue
		}
		stations[code] = st
	}

	log.Debug().Int("station_count", len(stations)).Msg("Loaded precipitation stations")
	return stations, nil
}

func readPrecipitation(fsys fs.FS, name string) (*scanner.MonthlyPrecipitation, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	precip, err := scanner.ParseMonthlyPrecipitation(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return precip, nil
}

// MergePrecipitation adds rainy day averages and coordinates to the
// stations already in stations. Precipitation-only stations are ignored.
func MergePrecipitation(stations, precipitation StationMap) {
	for code, precip := range precipitation {
		st, ok := stations[code]
		if !ok {
			continue
		}
		st.RainyDaysPerMonth = precip.RainyDaysPerMonth
		st.Latitude = precip.Latitude
		st.Longitude = precip.Longitude
	}
}

// Inventory counts the merged stations and what data they carry.
func (a *Analyzer) Inventory(ctx context.Context, req models.ReportRequest) (*models.InventoryReport, error) {
	stations, err := a.LoadStations(ctx, req)
	if err != nil {
		return nil, err
	}

	report := &models.InventoryReport{
		Prefix:        req.Prefix,
		TotalStations: len(stations),
		GeneratedAt:   a.now().Unix(),
	}
	for _, st := range stations {
		hasZipcode, hasTemperatures := st.HasZipcode(), st.HasTemperatures()
		if hasZipcode {
			report.ZipcodeStations++
		}
		if hasTemperatures {
			report.TemperatureStations++
		}
		if hasZipcode && hasTemperatures {
			report.CommonStations++
		}
	}
	return report, nil
}

// Comfort scores every station with temperature normals and lists the
// req.ComfortLimit() best, highest total score first.
func (a *Analyzer) Comfort(ctx context.Context, req models.ReportRequest) (*models.ComfortReport, error) {
	stations, err := a.LoadStations(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.PrecipitationLocation != "" {
		precipitation, err := LoadPrecipitationStations(a.dirFS(req.PrecipitationLocation), req.Prefix)
		if err != nil {
			return nil, fmt.Errorf("loading precipitation stations: %w", err)
		}
		MergePrecipitation(stations, precipitation)
	}

	scores := make([]models.StationScore, 0, len(stations))
	for _, st := range stations {
		if !st.HasTemperatures() {
			continue
		}
		scores = append(scores, st.Score())
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].ID < scores[j].ID
	})

	report := &models.ComfortReport{
		Prefix:         req.Prefix,
		ScoredStations: len(scores),
		GeneratedAt:    a.now().Unix(),
	}
	if limit := req.ComfortLimit(); len(scores) > limit {
		scores = scores[:limit]
	}
	report.Stations = scores
	return report, nil
}

func defaultDirFS(dir string) fs.FS {
	return os.DirFS(dir)
}
