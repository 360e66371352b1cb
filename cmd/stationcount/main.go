// Command stationcount prints how many station codes with a given prefix
// appear in the NOAA zip code and temperature normals files, and how many
// appear in both. REPORT_MODE selects line counts, the merged station
// inventory or a comfort ranking instead.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bbernstein/normals/backend-go/internal/config"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/bbernstein/normals/backend-go/internal/report"
	"github.com/bbernstein/normals/backend-go/internal/source"
	"github.com/bbernstein/normals/backend-go/internal/station"
	"github.com/bbernstein/normals/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx := context.Background()

	httpClient := client.New(client.Options{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	opener, err := source.NewRouterForLocations(ctx, httpClient, cfg.ZipcodesFile, cfg.TemperatureFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up station sources")
	}

	if err := run(ctx, cfg, opener, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Station count failed")
	}
}

func run(ctx context.Context, cfg *config.Config, opener source.Opener, out io.Writer) error {
	mode, err := models.ParseReportMode(cfg.ReportMode)
	if err != nil {
		return err
	}

	req := models.ReportRequest{
		ZipcodesLocation:      cfg.ZipcodesFile,
		TemperatureLocation:   cfg.TemperatureFile,
		PrecipitationLocation: cfg.PrecipitationDir,
		Prefix:                cfg.Prefix,
		Limit:                 cfg.ComfortLimit,
	}

	log.Debug().
		Str("mode", string(mode)).
		Str("prefix", req.Prefix).
		Str("zipcodes", req.ZipcodesLocation).
		Str("temperature", req.TemperatureLocation).
		Msg("Counting stations")

	result, err := station.NewAnalyzer(opener).Run(ctx, mode, req)
	if err != nil {
		return fmt.Errorf("building %s report: %w", mode, err)
	}

	return report.Write(out, result)
}
