package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const stationSetKeyPrefix = "station-sets/"

// S3StationSetCache stores scanned station sets in S3 so cold starts do not
// have to download and scan the NOAA files again.
type S3StationSetCache struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

// StationSetCacheRecord represents the cached station set with metadata
type StationSetCacheRecord struct {
	Location    string               `json:"location"`
	Prefix      string               `json:"prefix"`
	Codes       []models.StationCode `json:"codes"`
	LastUpdated int64                `json:"lastUpdated"`
	TTL         int64                `json:"ttl"`
}

// StationSetStore is a persistent station set cache
type StationSetStore interface {
	GetStationSet(ctx context.Context, location, prefix string) (*models.StationSet, error)
	SaveStationSet(ctx context.Context, location, prefix string, set *models.StationSet) error
}

var _ StationSetStore = (*S3StationSetCache)(nil)

func NewS3StationSetCache(client S3Client, bucketName string, ttl time.Duration) *S3StationSetCache {
	return &S3StationSetCache{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

func s3ObjectKey(location, prefix string) string {
	sum := sha256.Sum256([]byte(stationSetKey(location, prefix)))
	return stationSetKeyPrefix + hex.EncodeToString(sum[:]) + ".json"
}

// GetStationSet retrieves a station set from S3 if available and valid
func (c *S3StationSetCache) GetStationSet(ctx context.Context, location, prefix string) (*models.StationSet, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(s3ObjectKey(location, prefix)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting station set from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record StationSetCacheRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding cache record: %w", err)
	}

	if c.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("location", location).Msg("Station set cache expired")
		return nil, nil
	}

	return models.NewStationSet(record.Codes...), nil
}

// SaveStationSet saves a station set to S3
func (c *S3StationSetCache) SaveStationSet(ctx context.Context, location, prefix string, set *models.StationSet) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := c.clock.Now().Unix()
	record := StationSetCacheRecord{
		Location:    location,
		Prefix:      prefix,
		Codes:       set.Codes(),
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding cache record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(s3ObjectKey(location, prefix)),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().
		Str("location", location).
		Int("station_count", set.Len()).
		Msg("Saved station set to S3 cache")
	return nil
}
