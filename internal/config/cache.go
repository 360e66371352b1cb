package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU cache of parsed station sets
	StationSetLRUSize       int
	StationSetLRUTTLMinutes int

	// S3 station set cache
	StationSetS3TTLDays int

	// DynamoDB report store
	ReportTTLDays int

	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	defaultStationSetLRUSize    = 16
	defaultStationSetTTLMinutes = 60
	defaultStationSetS3TTLDays  = 7
	defaultReportTTLDays        = 7
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		StationSetLRUSize:       getEnvInt("CACHE_STATION_SET_LRU_SIZE", defaultStationSetLRUSize),
		StationSetLRUTTLMinutes: getEnvInt("CACHE_STATION_SET_TTL_MINUTES", defaultStationSetTTLMinutes),
		StationSetS3TTLDays:     getEnvInt("CACHE_STATION_SET_S3_TTL_DAYS", defaultStationSetS3TTLDays),
		ReportTTLDays:           getEnvInt("CACHE_REPORT_TTL_DAYS", defaultReportTTLDays),
		EnableLRUCache:          getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:       getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("StationSetLRUSize", config.StationSetLRUSize).
		Int("StationSetLRUTTLMinutes", config.StationSetLRUTTLMinutes).
		Int("StationSetS3TTLDays", config.StationSetS3TTLDays).
		Int("ReportTTLDays", config.ReportTTLDays).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetStationSetTTL() time.Duration {
	return time.Duration(c.StationSetLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStationSetS3TTL() time.Duration {
	return time.Duration(c.StationSetS3TTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetReportTTL() time.Duration {
	return time.Duration(c.ReportTTLDays) * 24 * time.Hour
}
