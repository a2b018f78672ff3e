package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Source connection modes for SOURCE_CONNECT_MODE.
const (
	ConnectModeSimulated = "simulated"
	ConnectModeProbe     = "probe"
	ConnectModeOff       = "off"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Catalog and views.
	CatalogPath         string
	SummaryEnabled      bool
	RawFormat           string
	AutoRefreshInterval time.Duration
	ProjectionCacheSize int

	// API rate limiting, requests per second and burst.
	APIRateLimit float64
	APIRateBurst int

	// Source registry status.
	SourceConnectMode  string
	SourceConnectDelay time.Duration
	SourceSuccessRatio float64
	SourceProbeTimeout time.Duration

	// Working set publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// CSV export archive; disabled when the bucket is empty.
	ExportS3Bucket    string
	ExportS3Region    string
	ExportS3Endpoint  string
	ExportS3PathStyle bool
	ExportS3Prefix    string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogPath: sharedcfg.EnvOrDefault("CATALOG_PATH", ""),
		RawFormat:   strings.ToLower(sharedcfg.EnvOrDefault("RAW_FORMAT", "structured")),

		SourceConnectMode: strings.ToLower(sharedcfg.EnvOrDefault("SOURCE_CONNECT_MODE", ConnectModeSimulated)),

		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "notam-working-set"),

		ExportS3Bucket:   sharedcfg.EnvOrDefault("EXPORT_S3_BUCKET", ""),
		ExportS3Region:   sharedcfg.EnvOrDefault("EXPORT_S3_REGION", "us-east-1"),
		ExportS3Endpoint: sharedcfg.EnvOrDefault("EXPORT_S3_ENDPOINT", ""),
		ExportS3Prefix:   sharedcfg.EnvOrDefault("EXPORT_S3_PREFIX", "exports/"),
	}

	if cfg.SummaryEnabled, err = parseBool("AI_SUMMARY_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled, err = parseBool("KAFKA_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.ExportS3PathStyle, err = parseBool("EXPORT_S3_PATH_STYLE", false); err != nil {
		return nil, err
	}
	if cfg.AutoRefreshInterval, err = parseDuration("AUTO_REFRESH_INTERVAL", "0s", true); err != nil {
		return nil, err
	}
	if cfg.SourceConnectDelay, err = parseDuration("SOURCE_CONNECT_DELAY", "0s", true); err != nil {
		return nil, err
	}
	if cfg.SourceProbeTimeout, err = parseDuration("SOURCE_PROBE_TIMEOUT", "5s", false); err != nil {
		return nil, err
	}
	if cfg.ProjectionCacheSize, err = parseInt("PROJECTION_CACHE_SIZE", 256, 0); err != nil {
		return nil, err
	}
	if cfg.APIRateBurst, err = parseInt("API_RATE_BURST", 40, 1); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit, err = parseFloat("API_RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit <= 0 {
		return nil, errors.New("API_RATE_LIMIT must be positive")
	}
	if cfg.SourceSuccessRatio, err = parseFloat("SOURCE_SUCCESS_RATIO", 0.85); err != nil {
		return nil, err
	}
	if cfg.SourceSuccessRatio < 0 || cfg.SourceSuccessRatio > 1 {
		return nil, errors.New("SOURCE_SUCCESS_RATIO must be between 0 and 1")
	}

	switch cfg.RawFormat {
	case "structured", "raw":
	default:
		return nil, fmt.Errorf("RAW_FORMAT must be structured or raw, got %q", cfg.RawFormat)
	}
	switch cfg.SourceConnectMode {
	case ConnectModeSimulated, ConnectModeProbe, ConnectModeOff:
	default:
		return nil, fmt.Errorf("SOURCE_CONNECT_MODE must be simulated, probe or off, got %q", cfg.SourceConnectMode)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parseBool(name string, def bool) (bool, error) {
	s := sharedcfg.EnvOrDefault(name, strconv.FormatBool(def))
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, s)
	}
	return v, nil
}

func parseDuration(name, def string, allowZero bool) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(name, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return d, nil
}

func parseInt(name string, def, minimum int) (int, error) {
	s := sharedcfg.EnvOrDefault(name, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return n, nil
}

func parseFloat(name string, def float64) (float64, error) {
	s := sharedcfg.EnvOrDefault(name, strconv.FormatFloat(def, 'f', -1, 64))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return f, nil
}
