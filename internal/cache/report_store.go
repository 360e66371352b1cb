package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bbernstein/normals/backend-go/internal/config"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const DefaultReportTable = "station-overlap-reports"

// ReportRecord is the DynamoDB item holding the last report for a request.
// The report field matching Mode is set.
type ReportRecord struct {
	ReportKey   string                  `dynamodbav:"reportKey"`
	Mode        models.ReportMode       `dynamodbav:"mode"`
	Overlap     *models.OverlapReport   `dynamodbav:"overlap,omitempty"`
	LineCounts  *models.LineCountReport `dynamodbav:"lineCounts,omitempty"`
	Inventory   *models.InventoryReport `dynamodbav:"inventory,omitempty"`
	Comfort     *models.ComfortReport   `dynamodbav:"comfort,omitempty"`
	LastUpdated int64                   `dynamodbav:"lastUpdated"`
	TTL         int64                   `dynamodbav:"ttl"`
}

// Report returns the report stored for the record's mode, or nil when that
// field is empty.
func (r *ReportRecord) Report() any {
	switch {
	case r.Mode == models.ReportModeOverlap && r.Overlap != nil:
		return r.Overlap
	case r.Mode == models.ReportModeCounts && r.LineCounts != nil:
		return r.LineCounts
	case r.Mode == models.ReportModeInventory && r.Inventory != nil:
		return r.Inventory
	case r.Mode == models.ReportModeComfort && r.Comfort != nil:
		return r.Comfort
	}
	return nil
}

// ReportStore persists computed reports in DynamoDB
type ReportStore struct {
	client    DynamoDBClient
	tableName string
	config    *config.CacheConfig
	clock     clock
}

func NewReportStore(client DynamoDBClient, tableName string, cacheConfig *config.CacheConfig) *ReportStore {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	if tableName == "" {
		tableName = DefaultReportTable
	}
	return &ReportStore{
		client:    client,
		tableName: tableName,
		config:    cacheConfig,
		clock:     systemClock{},
	}
}

// ReportKey builds the partition key for a report request. Comfort keys
// also carry the precipitation location and the limit.
func ReportKey(mode models.ReportMode, req models.ReportRequest) string {
	parts := []string{
		string(mode),
		req.Prefix,
		req.ZipcodesLocation,
		req.TemperatureLocation,
	}
	if mode == models.ReportModeComfort {
		parts = append(parts, req.PrecipitationLocation, strconv.Itoa(req.ComfortLimit()))
	}
	return strings.Join(parts, "|")
}

// GetReport returns the stored report for the request, or nil when there is
// none or it has expired.
func (s *ReportStore) GetReport(ctx context.Context, mode models.ReportMode, req models.ReportRequest) (*ReportRecord, error) {
	key := ReportKey(mode, req)

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"reportKey": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting report from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record ReportRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling report record: %w", err)
	}

	if s.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("report_key", key).Msg("Stored report expired")
		return nil, nil
	}

	if record.Mode != mode || record.Report() == nil {
		log.Warn().
			Str("report_key", key).
			Str("stored_mode", string(record.Mode)).
			Msg("Stored report does not hold a report for this mode")
		return nil, nil
	}

	return &record, nil
}

// SaveReport stores an *models.OverlapReport, *models.LineCountReport,
// *models.InventoryReport or *models.ComfortReport.
func (s *ReportStore) SaveReport(ctx context.Context, req models.ReportRequest, report any) error {
	record := ReportRecord{}
	switch r := report.(type) {
	case *models.OverlapReport:
		record.Mode = models.ReportModeOverlap
		record.Overlap = r
	case *models.LineCountReport:
		record.Mode = models.ReportModeCounts
		record.LineCounts = r
	case *models.InventoryReport:
		record.Mode = models.ReportModeInventory
		record.Inventory = r
	case *models.ComfortReport:
		record.Mode = models.ReportModeComfort
		record.Comfort = r
	default:
		return fmt.Errorf("unsupported report type %T", report)
	}

	now := s.clock.Now().Unix()
	record.ReportKey = ReportKey(record.Mode, req)
	record.LastUpdated = now
	record.TTL = now + int64(s.config.GetReportTTL().Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling report record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting report in DynamoDB: %w", err)
	}

	log.Debug().
		Str("report_key", record.ReportKey).
		Msg("Saved report to DynamoDB")

	return nil
}
