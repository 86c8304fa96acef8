package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/journal-sift/internal/common"
)

// Keys read from viper.
const (
	KeyMateriality  = "audit.materiality"
	KeyWorkers      = "audit.workers"
	KeyHolidaysFile = "audit.holidays_file"
	KeyDatabasePath = "database.path"
	KeyLogLevel     = "logging.level"
	KeyLogFormat    = "logging.format"
)

// Defaults applied when a key is unset.
const (
	DefaultMateriality  = 170000.0
	DefaultWorkers      = 4
	DefaultDatabasePath = "$HOME/.local/share/sift/sift.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// Config is the validated runtime configuration.
type Config struct {
	HolidaysFile string
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Materiality  float64
	Workers      int
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMateriality, DefaultMateriality)
	v.SetDefault(KeyWorkers, DefaultWorkers)
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
}

// Load reads and validates settings from v. Paths come back expanded.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		Materiality:  v.GetFloat64(KeyMateriality),
		Workers:      v.GetInt(KeyWorkers),
		HolidaysFile: ExpandPath(v.GetString(KeyHolidaysFile)),
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:     strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	if math.IsNaN(c.Materiality) || math.IsInf(c.Materiality, 0) || c.Materiality <= 0 {
		return fmt.Errorf("%w: %s must be greater than zero, got %v", common.ErrInvalidConfig, KeyMateriality, c.Materiality)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %s must be at least 1, got %d", common.ErrInvalidConfig, KeyWorkers, c.Workers)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
