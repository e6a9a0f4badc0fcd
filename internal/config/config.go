package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

// Config holds all run settings, populated from environment variables.
// Anything wrong here is fatal: extraction never starts on a bad config.
type Config struct {
	InputDir   string
	OutputDir  string
	PointFile  string // vector point layer, .gpkg or .shp, under InputDir
	RasterFile string // multi-band monthly raster under InputDir

	Variable   domain.VariableKind
	StartMonth domain.MonthKey   // month of band 1
	DateFormat domain.DateFormat // observation-date disambiguation

	// Attribute column names in the point layer.
	IDField   string
	NameField string
	DateField string

	LogLevel        string
	LogFormat       string
	MetricsAddr     string // empty disables the metrics HTTP endpoint
	ShutdownTimeout time.Duration

	// Optional Kafka row sink.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	variable, err := domain.ParseVariableKind(sharedcfg.EnvOrDefault("VARIABLE", "temperature"))
	if err != nil {
		return nil, fmt.Errorf("VARIABLE: %w", err)
	}

	startRaw := os.Getenv("START_MONTH")
	if startRaw == "" {
		return nil, errors.New("START_MONTH is required (YYYY-MM of the raster's first band)")
	}
	startMonth, err := domain.ParseMonthKey(startRaw)
	if err != nil {
		return nil, fmt.Errorf("START_MONTH: %w", err)
	}

	dateFormat, err := domain.ParseDateFormat(sharedcfg.EnvOrDefault("DATE_FORMAT", "auto"))
	if err != nil {
		return nil, fmt.Errorf("DATE_FORMAT: %w", err)
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		InputDir:   sharedcfg.EnvOrDefault("INPUT_DIR", "input"),
		OutputDir:  sharedcfg.EnvOrDefault("OUTPUT_DIR", "output"),
		PointFile:  os.Getenv("POINT_FILE"),
		RasterFile: os.Getenv("RASTER_FILE"),

		Variable:   variable,
		StartMonth: startMonth,
		DateFormat: dateFormat,

		IDField:   sharedcfg.EnvOrDefault("ID_FIELD", "OBS_NUM"),
		NameField: sharedcfg.EnvOrDefault("NAME_FIELD", "OBS_NAME"),
		DateField: sharedcfg.EnvOrDefault("DATE_FIELD", "OBS_DATE"),

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "climate-point-extracts"),
	}

	if cfg.PointFile == "" {
		return nil, errors.New("POINT_FILE is required")
	}
	if cfg.RasterFile == "" {
		return nil, errors.New("RASTER_FILE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// PointPath returns the point layer location under the input directory.
func (c *Config) PointPath() string { return filepath.Join(c.InputDir, c.PointFile) }

// RasterPath returns the raster location under the input directory.
func (c *Config) RasterPath() string { return filepath.Join(c.InputDir, c.RasterFile) }
