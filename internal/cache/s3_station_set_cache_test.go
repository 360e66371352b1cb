package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bbernstein/normals/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLocation = "s3://noaa-normals-pds/dly-tmax-normal.txt"

// Helper function to create a test S3StationSetCache with mocks
func createTestS3Cache(s3Client *mockS3Client, clock clock) *S3StationSetCache {
	if clock == nil {
		clock = &fakeClock{now: time.Now()}
	}
	cache := NewS3StationSetCache(s3Client, "test-bucket", 24*time.Hour)
	cache.clock = clock
	return cache
}

func TestS3StationSetCache_GetStationSet(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mockS3Client, *fakeClock)
		want      []models.StationCode
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "successful retrieval of valid cache",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				record := StationSetCacheRecord{
					Location:    testLocation,
					Prefix:      "US",
					Codes:       []models.StationCode{"USW001", "USW002"},
					LastUpdated: clock.now.Unix(),
					TTL:         clock.now.Add(24 * time.Hour).Unix(),
				}

				recordBytes, _ := json.Marshal(record)
				s3Client.getObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return &s3.GetObjectOutput{
						Body: io.NopCloser(bytes.NewReader(recordBytes)),
					}, nil
				}
			},
			want: []models.StationCode{"USW001", "USW002"},
		},
		{
			name: "expired cache",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				record := StationSetCacheRecord{
					Codes:       []models.StationCode{"USW001"},
					LastUpdated: clock.now.Add(-48 * time.Hour).Unix(),
					TTL:         clock.now.Add(-24 * time.Hour).Unix(),
				}

				recordBytes, _ := json.Marshal(record)
				s3Client.getObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return &s3.GetObjectOutput{
						Body: io.NopCloser(bytes.NewReader(recordBytes)),
					}, nil
				}
			},
			wantNil: true,
		},
		{
			name: "record expires at its TTL",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				record := StationSetCacheRecord{
					Codes:       []models.StationCode{"USW001"},
					LastUpdated: clock.now.Add(-24 * time.Hour).Unix(),
					TTL:         clock.now.Unix(),
				}

				recordBytes, _ := json.Marshal(record)
				s3Client.getObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return &s3.GetObjectOutput{
						Body: io.NopCloser(bytes.NewReader(recordBytes)),
					}, nil
				}
			},
			wantNil: true,
		},
		{
			name: "missing object",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				s3Client.getObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return nil, &types.NoSuchKey{}
				}
			},
			wantNil: true,
		},
		{
			name: "s3 error",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				s3Client.getObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return nil, errors.New("throttled")
				}
			},
			wantErr: true,
		},
		{
			name: "invalid json",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				s3Client.getObjectFunc = func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return &s3.GetObjectOutput{
						Body: io.NopCloser(strings.NewReader("invalid json")),
					}, nil
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockS3 := &mockS3Client{}
			clock := &fakeClock{now: time.Now()}
			tt.setupMock(mockS3, clock)

			cache := createTestS3Cache(mockS3, clock)
			got, err := cache.GetStationSet(context.Background(), testLocation, "US")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Codes())
		})
	}
}

func TestS3StationSetCache_SaveStationSet(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mockS3Client, *fakeClock)
		wantErr   bool
	}{
		{
			name: "successful save",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				s3Client.putObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
					assert.Equal(t, s3ObjectKey(testLocation, "US"), aws.ToString(params.Key))
					assert.Equal(t, "application/json", aws.ToString(params.ContentType))

					body, _ := io.ReadAll(params.Body)
					var record StationSetCacheRecord
					err := json.Unmarshal(body, &record)
					require.NoError(t, err)

					assert.Equal(t, testLocation, record.Location)
					assert.Equal(t, "US", record.Prefix)
					assert.Equal(t, clock.Now().Unix(), record.LastUpdated)
					assert.Equal(t, clock.Now().Add(24*time.Hour).Unix(), record.TTL)
					assert.Equal(t, []models.StationCode{"USW001", "USW002"}, record.Codes)

					return &s3.PutObjectOutput{}, nil
				}
			},
		},
		{
			name: "s3 error",
			setupMock: func(s3Client *mockS3Client, clock *fakeClock) {
				s3Client.putObjectFunc = func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					return nil, &types.NoSuchBucket{}
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockS3 := &mockS3Client{}
			clock := &fakeClock{now: time.Now()}
			tt.setupMock(mockS3, clock)

			cache := createTestS3Cache(mockS3, clock)
			err := cache.SaveStationSet(context.Background(), testLocation, "US", models.NewStationSet("USW002", "USW001"))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestS3StationSetCache_RoundTrip(t *testing.T) {
	now := time.Now()
	clock := &fakeClock{now: now}

	var savedData []byte
	mockS3 := &mockS3Client{
		putObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			data, err := io.ReadAll(params.Body)
			if err != nil {
				return nil, err
			}
			savedData = data
			return &s3.PutObjectOutput{}, nil
		},
		getObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			if savedData == nil {
				return nil, &types.NoSuchKey{}
			}
			return &s3.GetObjectOutput{
				Body: io.NopCloser(bytes.NewReader(savedData)),
			}, nil
		},
	}

	cache := createTestS3Cache(mockS3, clock)
	ctx := context.Background()
	set := models.NewStationSet("USW001", "USW002", "USC003")

	miss, err := cache.GetStationSet(ctx, testLocation, "US")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.SaveStationSet(ctx, testLocation, "US", set))

	got, err := cache.GetStationSet(ctx, testLocation, "US")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, set.Codes(), got.Codes())

	// Advance clock past TTL
	clock.now = now.Add(25 * time.Hour)

	expired, err := cache.GetStationSet(ctx, testLocation, "US")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestS3StationSetCache_BucketValidation(t *testing.T) {
	cache := NewS3StationSetCache(&mockS3Client{}, "", 24*time.Hour)

	err := cache.SaveStationSet(context.Background(), testLocation, "US", models.NewStationSet())
	assert.EqualError(t, err, "empty bucket name")

	set, err := cache.GetStationSet(context.Background(), testLocation, "US")
	assert.EqualError(t, err, "empty bucket name")
	assert.Nil(t, set)
}

func TestS3ObjectKey(t *testing.T) {
	key := s3ObjectKey(testLocation, "US")

	assert.True(t, strings.HasPrefix(key, "station-sets/"))
	assert.True(t, strings.HasSuffix(key, ".json"))
	assert.Equal(t, key, s3ObjectKey(testLocation, "US"))
	assert.NotEqual(t, key, s3ObjectKey(testLocation, "CA"))
	assert.NotEqual(t, key, s3ObjectKey("dly-tmax-normal.txt", "US"))
}
