package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/normals/backend-go/internal/cache"
	"github.com/bbernstein/normals/backend-go/internal/config"
	"github.com/bbernstein/normals/backend-go/internal/handler"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/bbernstein/normals/backend-go/internal/source"
	"github.com/bbernstein/normals/backend-go/internal/station"
	"github.com/bbernstein/normals/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart    = lambda.Start // Allow mocking of lambda.Start in tests
	reportsHandler *handler.ReportsHandler
	setupOnce      sync.Once

	newDynamoClient = func(ctx context.Context, opts cache.ReportTableOptions) (cache.DynamoDBClient, error) {
		return cache.NewReportTableClient(ctx, opts)
	}
	newStationSetS3Client = func(ctx context.Context) (cache.S3Client, error) {
		return source.NewS3Client(ctx)
	}
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		h, err := initHandler(context.Background(), cfg, config.GetCacheConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize reports handler")
		}
		reportsHandler = h
	})
}

func initHandler(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*handler.ReportsHandler, error) {
	httpClient := client.New(client.Options{
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	opener, err := source.NewRouterForLocations(ctx, httpClient, cfg.ZipcodesFile, cfg.TemperatureFile)
	if err != nil {
		return nil, err
	}

	var opts []station.Option
	if cacheCfg.EnableLRUCache {
		memCache, err := cache.NewStationSetCache(cacheCfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, station.WithMemoryCache(memCache))
	}

	if cfg.StationSetBucket != "" {
		s3Client, err := newStationSetS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating station set S3 client: %w", err)
		}
		opts = append(opts, station.WithStationSetStore(
			cache.NewS3StationSetCache(s3Client, cfg.StationSetBucket, cacheCfg.GetStationSetS3TTL()),
		))
	}

	var reports handler.ReportCache
	if cacheCfg.EnableDynamoCache && cfg.ReportTable != "" {
		dynamoClient, err := newDynamoClient(ctx, cache.ReportTableOptions{
			Table:       cfg.ReportTable,
			Endpoint:    cfg.DynamoEndpoint,
			MaxAttempts: cfg.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		reports = cache.NewReportStore(dynamoClient, cfg.ReportTable, cacheCfg)
	}

	log.Info().
		Str("zipcodes", cfg.ZipcodesFile).
		Str("temperature", cfg.TemperatureFile).
		Str("precipitation", cfg.PrecipitationDir).
		Bool("lru_cache", cacheCfg.EnableLRUCache).
		Bool("station_set_store", cfg.StationSetBucket != "").
		Bool("report_store", reports != nil).
		Msg("Reports handler initialized")

	analyzer := station.NewAnalyzer(opener, opts...)
	return handler.NewReportsHandler(analyzer, reports, models.ReportRequest{
		ZipcodesLocation:      cfg.ZipcodesFile,
		TemperatureLocation:   cfg.TemperatureFile,
		PrecipitationLocation: cfg.PrecipitationDir,
		Prefix:                cfg.Prefix,
		Limit:                 cfg.ComfortLimit,
	}), nil
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return reportsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
