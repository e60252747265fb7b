// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Store backends.
const (
	BackendFile    = "file"
	BackendLevelDB = "leveldb"
)

// DateLayout is the cutoff date format.
const DateLayout = "2006-01-02"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath points at the historical hourly data file.
	DataPath string `koanf:"data_path"`

	// DataFormat is csv or parquet; empty means infer from the extension.
	DataFormat string `koanf:"data_format"`

	// StoreBackend selects the artifact store: file or leveldb.
	StoreBackend string `koanf:"store_backend"`

	// ArtifactPath is the artifact file, or the database directory for leveldb.
	ArtifactPath string `koanf:"artifact_path"`

	// CutoffDate excludes records on or after this date from training.
	CutoffDate string `koanf:"cutoff_date"`

	// Forest hyperparameters. Zero depth and zero max features mean unlimited.
	ForestTrees           int   `koanf:"forest_trees"`
	ForestMaxDepth        int   `koanf:"forest_max_depth"`
	ForestMinSamplesSplit int   `koanf:"forest_min_samples_split"`
	ForestMinSamplesLeaf  int   `koanf:"forest_min_samples_leaf"`
	ForestMaxFeatures     int   `koanf:"forest_max_features"`
	ForestSeed            int64 `koanf:"forest_seed"`
	ForestWorkers         int   `koanf:"forest_workers"`

	// ClipNegative floors predictions at zero before rounding.
	ClipNegative bool `koanf:"clip_negative"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		DataPath:              "data/hour.csv",
		StoreBackend:          BackendFile,
		ArtifactPath:          "model/demand.gob",
		CutoffDate:            "2012-10-01",
		ForestTrees:           100,
		ForestMinSamplesSplit: 2,
		ForestMinSamplesLeaf:  1,
		ForestSeed:            42,
		ForestWorkers:         runtime.NumCPU(),
		ShutdownTimeout:       10 * time.Second,
	}
}

// Cutoff parses CutoffDate.
func (c *Config) Cutoff() (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(c.CutoffDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cutoff_date %q: want YYYY-MM-DD", ErrInvalidConfig, c.CutoffDate)
	}
	return t, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	add := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Addr == "" {
		add("addr must not be empty")
	}
	if c.ArtifactPath == "" {
		add("artifact_path must not be empty")
	}
	switch c.StoreBackend {
	case BackendFile, BackendLevelDB:
	default:
		add("store_backend %q: want %s or %s", c.StoreBackend, BackendFile, BackendLevelDB)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		add("log_format %q: want text or json", c.LogFormat)
	}
	if _, err := c.Cutoff(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.ForestTrees < 1 {
		add("forest_trees must be at least 1, got %d", c.ForestTrees)
	}
	if c.ForestMaxDepth < 0 {
		add("forest_max_depth must not be negative, got %d", c.ForestMaxDepth)
	}
	if c.ForestMinSamplesSplit < 2 {
		add("forest_min_samples_split must be at least 2, got %d", c.ForestMinSamplesSplit)
	}
	if c.ForestMinSamplesLeaf < 1 {
		add("forest_min_samples_leaf must be at least 1, got %d", c.ForestMinSamplesLeaf)
	}
	if c.ForestMaxFeatures < 0 {
		add("forest_max_features must not be negative, got %d", c.ForestMaxFeatures)
	}
	return result.ErrorOrNil()
}
