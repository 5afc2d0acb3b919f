// Package config assembles the converter's configuration from defaults,
// PLATO_* environment variables, and command line flags, in that order of
// precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB
	DefaultMaxPages    = 20
	DefaultCacheSize   = 128
	DefaultTimezone    = "America/Toronto"

	// DefaultWeightTarget and its tolerances bound assessment selection.
	DefaultWeightTarget        = 100.0
	DefaultIdealTolerance      = 10.0
	DefaultAcceptableTolerance = 20.0

	// Confidence gates for review and confirmation flags.
	DefaultReviewThreshold  = 0.75
	DefaultConfirmThreshold = 0.5
)

// Config holds all configuration for the outline converter.
type Config struct {
	// Input configuration
	InputPath   string
	OutputPath  string // empty means stdout
	MaxFileSize int64
	MaxPages    int

	// Extraction tunables
	DefaultYear         int // 0 means current year
	Timezone            string
	WeightTarget        float64
	IdealTolerance      float64
	AcceptableTolerance float64
	ReviewThreshold     float64
	ConfirmThreshold    float64

	// Application configuration
	Version   string
	LogLevel  string
	CacheSize int
	NoCache   bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:         DefaultMaxFileSize,
		MaxPages:            DefaultMaxPages,
		Timezone:            DefaultTimezone,
		WeightTarget:        DefaultWeightTarget,
		IdealTolerance:      DefaultIdealTolerance,
		AcceptableTolerance: DefaultAcceptableTolerance,
		ReviewThreshold:     DefaultReviewThreshold,
		ConfirmThreshold:    DefaultConfirmThreshold,
		Version:             "1.0.0",
		LogLevel:            DefaultLogLevel,
		CacheSize:           DefaultCacheSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// The input path may also be given as the first positional argument.
	if cfg.InputPath == "" && pflag.NArg() > 0 {
		cfg.InputPath = pflag.Arg(0)
	}
	if cfg.InputPath != "" {
		if expandedPath, err := filepath.Abs(cfg.InputPath); err == nil {
			cfg.InputPath = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PLATO")
	viper.AutomaticEnv()

	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("maxpages", cfg.MaxPages)
	viper.SetDefault("year", cfg.DefaultYear)
	viper.SetDefault("timezone", cfg.Timezone)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("cachesize", cfg.CacheSize)
	viper.SetDefault("nocache", cfg.NoCache)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("input", cfg.InputPath, "Path to the course outline PDF")
	pflag.String("output", cfg.OutputPath, "Path for the JSON result (default stdout)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int("maxpages", cfg.MaxPages, "Maximum number of pages to analyze")
	pflag.Int("year", cfg.DefaultYear, "Year assumed for dates written without one (0 = current)")
	pflag.String("timezone", cfg.Timezone, "IANA timezone for resolved datetimes")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int("cachesize", cfg.CacheSize, "Number of extraction results kept in the cache")
	pflag.Bool("nocache", cfg.NoCache, "Disable the extraction result cache")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("maxpages", pflag.Lookup("maxpages"))
	_ = viper.BindPFlag("year", pflag.Lookup("year"))
	_ = viper.BindPFlag("timezone", pflag.Lookup("timezone"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("cachesize", pflag.Lookup("cachesize"))
	_ = viper.BindPFlag("nocache", pflag.Lookup("nocache"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPlato - converts a course outline PDF into structured calendar data\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s outline.pdf                            # result to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=outline.pdf --output=out.json  # result to a file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s outline.pdf --year=2025 --loglevel=debug\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PLATO_INPUT        Input PDF path\n")
		fmt.Fprintf(os.Stderr, "  PLATO_OUTPUT       Output JSON path\n")
		fmt.Fprintf(os.Stderr, "  PLATO_MAXFILESIZE  Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  PLATO_MAXPAGES     Maximum pages analyzed\n")
		fmt.Fprintf(os.Stderr, "  PLATO_YEAR         Default year for bare dates\n")
		fmt.Fprintf(os.Stderr, "  PLATO_TIMEZONE     IANA timezone\n")
		fmt.Fprintf(os.Stderr, "  PLATO_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  PLATO_CACHESIZE    Cache entry count\n")
		fmt.Fprintf(os.Stderr, "  PLATO_NOCACHE      Disable the cache\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.MaxPages = viper.GetInt("maxpages")
	cfg.DefaultYear = viper.GetInt("year")
	cfg.Timezone = viper.GetString("timezone")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.CacheSize = viper.GetInt("cachesize")
	cfg.NoCache = viper.GetBool("nocache")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input PDF path is required")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.MaxPages <= 0 {
		return errors.New("maximum page count must be positive")
	}

	if c.DefaultYear != 0 && (c.DefaultYear < 1900 || c.DefaultYear > 2200) {
		return fmt.Errorf("implausible default year: %d", c.DefaultYear)
	}

	if c.CacheSize <= 0 && !c.NoCache {
		return errors.New("cache size must be positive unless the cache is disabled")
	}

	if c.AcceptableTolerance < c.IdealTolerance {
		return errors.New("acceptable tolerance cannot be tighter than the ideal tolerance")
	}

	if c.ReviewThreshold < 0 || c.ReviewThreshold > 1 || c.ConfirmThreshold < 0 || c.ConfirmThreshold > 1 {
		return errors.New("confidence thresholds must be within [0, 1]")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Input: %s, Output: %s, MaxPages: %d, Timezone: %s, LogLevel: %s, MaxFileSize: %d}",
		c.InputPath, c.OutputPath, c.MaxPages, c.Timezone, c.LogLevel, c.MaxFileSize)
}
