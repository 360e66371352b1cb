package config

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultZipcodesFile    = "zipcodes-normals-stations.txt"
	DefaultTemperatureFile = "dly-tmax-normal.txt"
	DefaultPrefix          = "US"
	DefaultReportMode      = "overlap"
	DefaultComfortLimit    = 10
)

type Config struct {
	Environment     string
	LogLevel        zerolog.Level
	HTTPTimeout     time.Duration
	MaxRetries      int
	ZipcodesFile    string
	TemperatureFile string
	Prefix          string
	ReportMode      string
	ReportTable     string
	// DynamoEndpoint points the report table at DynamoDB Local
	DynamoEndpoint string
	// PrecipitationDir holds one monthly precipitation CSV per station
	PrecipitationDir string
	ComfortLimit     int
	// StationSetBucket holds scanned station sets between cold starts
	StationSetBucket string
	// LogOutput receives log lines; stdout is reserved for reports
	LogOutput io.Writer
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		if retries > 0 {
			c.MaxRetries = retries
		}
	}
}

// WithStationFiles sets the locations of the zip code and temperature files.
// Empty values keep the defaults.
func WithStationFiles(zipcodes, temperature string) Option {
	return func(c *Config) {
		if zipcodes != "" {
			c.ZipcodesFile = zipcodes
		}
		if temperature != "" {
			c.TemperatureFile = temperature
		}
	}
}

// WithPrefix sets the station code prefix. An empty prefix matches every line.
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

func WithReportMode(mode string) Option {
	return func(c *Config) {
		c.ReportMode = mode
	}
}

func WithReportTable(table string) Option {
	return func(c *Config) {
		c.ReportTable = table
	}
}

func WithDynamoEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.DynamoEndpoint = endpoint
	}
}

func WithPrecipitationDir(dir string) Option {
	return func(c *Config) {
		c.PrecipitationDir = dir
	}
}

// WithComfortLimit sets how many stations a comfort report lists.
// Non-positive values keep the default.
func WithComfortLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.ComfortLimit = limit
		}
	}
}

func WithStationSetBucket(bucket string) Option {
	return func(c *Config) {
		c.StationSetBucket = bucket
	}
}

func WithLogOutput(w io.Writer) Option {
	return func(c *Config) {
		c.LogOutput = w
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:     "production",
		LogLevel:        zerolog.InfoLevel,
		HTTPTimeout:     30 * time.Second,
		MaxRetries:      3,
		ZipcodesFile:    DefaultZipcodesFile,
		TemperatureFile: DefaultTemperatureFile,
		Prefix:          DefaultPrefix,
		ReportMode:      DefaultReportMode,
		ComfortLimit:    DefaultComfortLimit,
		LogOutput:       os.Stderr,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: c.LogOutput})
		return
	}

	log.Logger = zerolog.New(c.LogOutput).
		With().
		Timestamp().
		Logger()
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	opts := []Option{
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 30*time.Second)),
		WithMaxRetries(getEnvInt("HTTP_MAX_RETRIES", 3)),
		WithStationFiles(os.Getenv("ZIPCODES_STATIONS_FILE"), os.Getenv("TEMPERATURE_STATIONS_FILE")),
		WithReportMode(getEnvOrDefault("REPORT_MODE", DefaultReportMode)),
		WithReportTable(os.Getenv("REPORT_TABLE")),
		WithStationSetBucket(os.Getenv("STATION_SET_BUCKET")),
		WithDynamoEndpoint(os.Getenv("DYNAMODB_ENDPOINT")),
		WithPrecipitationDir(os.Getenv("PRECIPITATION_DIR")),
		WithComfortLimit(getEnvInt("COMFORT_LIMIT", DefaultComfortLimit)),
	}

	// An explicitly empty STATION_PREFIX disables the prefix filter
	if prefix, ok := os.LookupEnv("STATION_PREFIX"); ok {
		opts = append(opts, WithPrefix(prefix))
	}

	return New(opts...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
