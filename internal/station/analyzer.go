package station

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/bbernstein/normals/backend-go/internal/cache"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/bbernstein/normals/backend-go/internal/scanner"
	"github.com/bbernstein/normals/backend-go/internal/source"
	"github.com/rs/zerolog/log"
)

// Analyzer builds station reports from the NOAA normals files.
type Analyzer struct {
	opener   source.Opener
	memCache *cache.StationSetCache
	store    cache.StationSetStore
	now      func() time.Time
	dirFS    func(dir string) fs.FS
}

var _ models.ReportRunner = (*Analyzer)(nil)

type Option func(*Analyzer)

// WithMemoryCache keeps scanned station sets in an in-process LRU cache
func WithMemoryCache(memCache *cache.StationSetCache) Option {
	return func(a *Analyzer) {
		a.memCache = memCache
	}
}

// WithStationSetStore keeps scanned station sets in a persistent store
func WithStationSetStore(store cache.StationSetStore) Option {
	return func(a *Analyzer) {
		a.store = store
	}
}

func NewAnalyzer(opener source.Opener, opts ...Option) *Analyzer {
	if opener == nil {
		opener = source.LocalOpener{}
	}

	a := &Analyzer{
		opener: opener,
		now:    time.Now,
		dirFS:  defaultDirFS,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadStationSet returns the distinct station codes of all prefixed lines at
// location. Cached sets are shared and must not be modified.
func (a *Analyzer) LoadStationSet(ctx context.Context, location, prefix string) (*models.StationSet, error) {
	if a.memCache != nil {
		if set, ok := a.memCache.Get(location, prefix); ok {
			log.Debug().Str("location", location).Msg("Cache HIT for station set")
			return set, nil
		}
	}

	if a.store != nil {
		set, err := a.store.GetStationSet(ctx, location, prefix)
		if err != nil {
			log.Warn().Err(err).Str("location", location).Msg("Error reading station set store")
		} else if set != nil {
			log.Debug().Str("location", location).Msg("Store HIT for station set")
			a.remember(location, prefix, set)
			return set, nil
		}
	}

	log.Debug().Str("location", location).Msg("Cache MISS for station set, scanning file")

	var set *models.StationSet
	err := a.withReader(ctx, location, func(r io.Reader) error {
		var err error
		set, err = scanner.New(prefix).StationSet(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("location", location).
		Int("station_count", set.Len()).
		Msg("Scanned station set")

	a.remember(location, prefix, set)
	if a.store != nil {
		if err := a.store.SaveStationSet(ctx, location, prefix, set); err != nil {
			log.Warn().Err(err).Str("location", location).Msg("Error saving station set")
		}
	}

	return set, nil
}

func (a *Analyzer) remember(location, prefix string, set *models.StationSet) {
	if a.memCache != nil {
		a.memCache.Add(location, prefix, set)
	}
}

// CountLines returns the number of prefixed lines at location.
func (a *Analyzer) CountLines(ctx context.Context, location, prefix string) (int, error) {
	var count int
	err := a.withReader(ctx, location, func(r io.Reader) error {
		var err error
		count, err = scanner.New(prefix).CountLines(r)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.Debug().Str("location", location).Int("line_count", count).Msg("Counted station lines")
	return count, nil
}

func (a *Analyzer) withReader(ctx context.Context, location string, fn func(io.Reader) error) (err error) {
	rc, err := a.opener.Open(ctx, location)
	if err != nil {
		return fmt.Errorf("opening station file: %w", err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing station file: %w", closeErr)
		}
	}()

	if err := fn(rc); err != nil {
		return fmt.Errorf("scanning %s: %w", location, err)
	}
	return nil
}

// Overlap reports the number of distinct stations in each file and how many
// appear in both.
func (a *Analyzer) Overlap(ctx context.Context, req models.ReportRequest) (*models.OverlapReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	zipcodeStations, err := a.LoadStationSet(ctx, req.ZipcodesLocation, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("loading zip code stations: %w", err)
	}

	temperatureStations, err := a.LoadStationSet(ctx, req.TemperatureLocation, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("loading temperature stations: %w", err)
	}

	common := zipcodeStations.Intersection(temperatureStations)

	return &models.OverlapReport{
		Prefix:              req.Prefix,
		ZipcodeStations:     zipcodeStations.Len(),
		TemperatureStations: temperatureStations.Len(),
		CommonStations:      common.Len(),
		GeneratedAt:         a.now().Unix(),
	}, nil
}

// LineCounts reports the raw number of prefixed lines in each file.
func (a *Analyzer) LineCounts(ctx context.Context, req models.ReportRequest) (*models.LineCountReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	zipcodeLines, err := a.CountLines(ctx, req.ZipcodesLocation, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("counting zip code lines: %w", err)
	}

	temperatureLines, err := a.CountLines(ctx, req.TemperatureLocation, req.Prefix)
	if err != nil {
		return nil, fmt.Errorf("counting temperature lines: %w", err)
	}

	return &models.LineCountReport{
		Prefix:           req.Prefix,
		ZipcodeLines:     zipcodeLines,
		TemperatureLines: temperatureLines,
		GeneratedAt:      a.now().Unix(),
	}, nil
}

// Run builds the report selected by mode.
func (a *Analyzer) Run(ctx context.Context, mode models.ReportMode, req models.ReportRequest) (any, error) {
	var (
		report any
		err    error
	)
	switch mode {
	case models.ReportModeOverlap:
		report, err = a.Overlap(ctx, req)
	case models.ReportModeCounts:
		report, err = a.LineCounts(ctx, req)
	case models.ReportModeInventory:
		report, err = a.Inventory(ctx, req)
	case models.ReportModeComfort:
		report, err = a.Comfort(ctx, req)
	default:
		return nil, models.InvalidModeError{Mode: string(mode)}
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}
