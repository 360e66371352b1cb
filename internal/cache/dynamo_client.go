package cache

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog/log"
)

// DynamoDBClient defines the DynamoDB operations the report store needs
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// ReportTableOptions describes where stored reports live.
type ReportTableOptions struct {
	Table string
	// Endpoint points at DynamoDB Local; empty uses the AWS default resolver
	Endpoint string
	// MaxAttempts caps SDK retries per call; zero keeps the SDK default
	MaxAttempts int
}

var ErrNoReportTable = errors.New("report table name is required")

// NewReportTableClient creates the DynamoDB client backing a ReportStore.
func NewReportTableClient(ctx context.Context, opts ReportTableOptions) (*dynamodb.Client, error) {
	if opts.Table == "" {
		return nil, ErrNoReportTable
	}

	var loadOptions []func(*config.LoadOptions) error
	if opts.MaxAttempts > 0 {
		loadOptions = append(loadOptions, config.WithRetryMaxAttempts(opts.MaxAttempts))
	}
	if opts.Endpoint != "" {
		loadOptions = append(loadOptions,
			config.WithRegion("local"),
			config.WithClientLogMode(aws.LogRetries),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
		)
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, err
	}

	logger := log.With().Str("table", opts.Table).Logger()
	if opts.Endpoint == "" {
		logger.Debug().Str("region", cfg.Region).Msg("Using DynamoDB report table")
		return dynamodb.NewFromConfig(cfg), nil
	}

	logger.Debug().Str("endpoint", opts.Endpoint).Msg("Using local DynamoDB report table")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}), nil
}
