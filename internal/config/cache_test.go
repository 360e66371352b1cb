package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCacheConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected *CacheConfig
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			expected: &CacheConfig{
				StationSetLRUSize:       16,
				StationSetLRUTTLMinutes: 60,
				StationSetS3TTLDays:     7,
				ReportTTLDays:           7,
				EnableLRUCache:          true,
				EnableDynamoCache:       true,
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"CACHE_STATION_SET_LRU_SIZE":    "4",
				"CACHE_STATION_SET_TTL_MINUTES": "5",
				"CACHE_STATION_SET_S3_TTL_DAYS": "3",
				"CACHE_REPORT_TTL_DAYS":         "1",
				"CACHE_ENABLE_LRU":              "false",
				"CACHE_ENABLE_DYNAMO":           "yes",
			},
			expected: &CacheConfig{
				StationSetLRUSize:       4,
				StationSetLRUTTLMinutes: 5,
				StationSetS3TTLDays:     3,
				ReportTTLDays:           1,
				EnableLRUCache:          false,
				EnableDynamoCache:       true,
			},
		},
		{
			name: "invalid integer uses default",
			envVars: map[string]string{
				"CACHE_STATION_SET_LRU_SIZE": "many",
			},
			expected: &CacheConfig{
				StationSetLRUSize:       16,
				StationSetLRUTTLMinutes: 60,
				StationSetS3TTLDays:     7,
				ReportTTLDays:           7,
				EnableLRUCache:          true,
				EnableDynamoCache:       true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			assert.Equal(t, tt.expected, GetCacheConfig())
		})
	}
}

func TestCacheConfigDurations(t *testing.T) {
	cfg := &CacheConfig{
		StationSetLRUTTLMinutes: 15,
		StationSetS3TTLDays:     1,
		ReportTTLDays:           2,
	}

	assert.Equal(t, 15*time.Minute, cfg.GetStationSetTTL())
	assert.Equal(t, 24*time.Hour, cfg.GetStationSetS3TTL())
	assert.Equal(t, 48*time.Hour, cfg.GetReportTTL())
}
