package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("PLATO_INPUT")
	os.Unsetenv("PLATO_OUTPUT")
	os.Unsetenv("PLATO_MAXFILESIZE")
	os.Unsetenv("PLATO_MAXPAGES")
	os.Unsetenv("PLATO_YEAR")
	os.Unsetenv("PLATO_TIMEZONE")
	os.Unsetenv("PLATO_LOGLEVEL")
	os.Unsetenv("PLATO_CACHESIZE")
	os.Unsetenv("PLATO_NOCACHE")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"plato", "outline.pdf"})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Verify default values
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50*1024*1024)
	}
	if cfg.MaxPages != DefaultMaxPages {
		t.Errorf("LoadFromFlags() MaxPages = %v, want %v", cfg.MaxPages, DefaultMaxPages)
	}
	if cfg.Timezone != DefaultTimezone {
		t.Errorf("LoadFromFlags() Timezone = %v, want %v", cfg.Timezone, DefaultTimezone)
	}
	// The positional argument becomes the input path, expanded to absolute.
	if cfg.InputPath == "" {
		t.Error("LoadFromFlags() InputPath should not be empty")
	}
	if !strings.HasSuffix(cfg.InputPath, "outline.pdf") {
		t.Errorf("LoadFromFlags() InputPath = %v, want suffix outline.pdf", cfg.InputPath)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		wantYear        int
		wantTimezone    string
		wantLogLevel    string
		wantMaxFileSize int64
		wantOutput      string
		wantNoCache     bool
	}{
		{
			name:            "input flag only",
			args:            []string{"plato", "--input=outline.pdf"},
			wantTimezone:    DefaultTimezone,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
		},
		{
			name:            "explicit year and output",
			args:            []string{"plato", "--input=outline.pdf", "--year=2025", "--output=out.json"},
			wantYear:        2025,
			wantTimezone:    DefaultTimezone,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantOutput:      "out.json",
		},
		{
			name:            "debug logging",
			args:            []string{"plato", "--input=outline.pdf", "--loglevel=debug"},
			wantTimezone:    DefaultTimezone,
			wantLogLevel:    "debug",
			wantMaxFileSize: 50 * 1024 * 1024,
		},
		{
			name:            "custom timezone and max file size",
			args:            []string{"plato", "--input=outline.pdf", "--timezone=America/Vancouver", "--maxfilesize=10000000"},
			wantTimezone:    "America/Vancouver",
			wantLogLevel:    "info",
			wantMaxFileSize: 10000000,
		},
		{
			name:            "cache disabled",
			args:            []string{"plato", "--input=outline.pdf", "--nocache"},
			wantTimezone:    DefaultTimezone,
			wantLogLevel:    "info",
			wantMaxFileSize: 50 * 1024 * 1024,
			wantNoCache:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original args and environment
			originalArgs := os.Args
			defer func() {
				os.Args = originalArgs
				resetFlags()
				clearEnvVars()
			}()

			setArgs(tt.args)
			resetFlags()
			clearEnvVars()

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.DefaultYear != tt.wantYear {
				t.Errorf("LoadFromFlags() DefaultYear = %v, want %v", cfg.DefaultYear, tt.wantYear)
			}
			if cfg.Timezone != tt.wantTimezone {
				t.Errorf("LoadFromFlags() Timezone = %v, want %v", cfg.Timezone, tt.wantTimezone)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.MaxFileSize != tt.wantMaxFileSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxFileSize)
			}
			if cfg.OutputPath != tt.wantOutput {
				t.Errorf("LoadFromFlags() OutputPath = %v, want %v", cfg.OutputPath, tt.wantOutput)
			}
			if cfg.NoCache != tt.wantNoCache {
				t.Errorf("LoadFromFlags() NoCache = %v, want %v", cfg.NoCache, tt.wantNoCache)
			}
			// InputPath should be expanded to absolute path
			if cfg.InputPath == "" {
				t.Error("LoadFromFlags() InputPath should not be empty")
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Setenv("PLATO_INPUT", "env-outline.pdf")
	os.Setenv("PLATO_YEAR", "2026")
	os.Setenv("PLATO_TIMEZONE", "America/Halifax")
	os.Setenv("PLATO_LOGLEVEL", "warn")
	os.Setenv("PLATO_MAXFILESIZE", "20000000")

	setArgs([]string{"plato"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if !strings.HasSuffix(cfg.InputPath, "env-outline.pdf") {
		t.Errorf("LoadFromFlags() InputPath = %v, want suffix env-outline.pdf", cfg.InputPath)
	}
	if cfg.DefaultYear != 2026 {
		t.Errorf("LoadFromFlags() DefaultYear = %v, want %v", cfg.DefaultYear, 2026)
	}
	if cfg.Timezone != "America/Halifax" {
		t.Errorf("LoadFromFlags() Timezone = %v, want %v", cfg.Timezone, "America/Halifax")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 20000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 20000000)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	os.Setenv("PLATO_YEAR", "2024")
	os.Setenv("PLATO_LOGLEVEL", "warn")

	// Set args that should override environment
	setArgs([]string{"plato", "--input=outline.pdf", "--year=2026", "--loglevel=debug"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Flags should override environment variables
	if cfg.DefaultYear != 2026 {
		t.Errorf("LoadFromFlags() DefaultYear = %v, want %v (should override env)", cfg.DefaultYear, 2026)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v (should override env)", cfg.LogLevel, "debug")
	}
}

func TestLoadFromFlags_MissingInput(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"plato"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for missing input path")
	}
	if err != nil && !strings.Contains(err.Error(), "input PDF path is required") {
		t.Errorf("LoadFromFlags() error = %v, want error about missing input", err)
	}
}

func TestLoadFromFlags_InvalidLogLevel(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"plato", "--input=outline.pdf", "--loglevel=invalid"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid log level")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid log level", err)
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"plato", "--version"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected version error")
	}
	if err != nil && err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
