package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/KalpKan/Plato/internal/cache"
	"github.com/KalpKan/Plato/internal/config"
	"github.com/KalpKan/Plato/internal/pdfio"
	"github.com/KalpKan/Plato/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds a zap logger at the configured level. Output goes to
// stderr so the JSON result on stdout stays machine readable.
func setupLogging(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	switch cfg.LogLevel {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		zapCfg.Development = true
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return zapCfg.Build()
}

// buildCache constructs the extraction result cache.
func buildCache(cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.NoCache {
		return cache.Nop{}
	}
	store, err := cache.NewMemory(cfg.CacheSize)
	if err != nil {
		logger.Warn("cache disabled", zap.Error(err))
		return cache.Nop{}
	}
	return store
}

// run executes one extraction end to end.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loader := pdfio.NewLoader(pdfio.Config{
		MaxFileSize: cfg.MaxFileSize,
		MaxPages:    cfg.MaxPages,
	}, logger)

	pages, err := loader.Load(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to load PDF: %w", err)
	}

	content, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}

	engineCfg := pipeline.DefaultConfig()
	engineCfg.DefaultYear = cfg.DefaultYear
	engineCfg.Timezone = cfg.Timezone
	engineCfg.Assessment.Scorer.ReviewThreshold = cfg.ReviewThreshold
	engineCfg.Assessment.Scorer.ConfirmThreshold = cfg.ConfirmThreshold
	engineCfg.Assessment.Selector.Target = cfg.WeightTarget
	engineCfg.Assessment.Selector.IdealTolerance = cfg.IdealTolerance
	engineCfg.Assessment.Selector.AcceptableTolerance = cfg.AcceptableTolerance

	engine := pipeline.NewEngineWithConfig(engineCfg, buildCache(cfg, logger), logger)

	result, err := engine.Run(ctx, content, pages)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	return writeResult(cfg.OutputPath, result)
}

// writeResult emits the result as indented JSON to a file or stdout.
func writeResult(path string, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		logger.Debug("starting", zap.String("config", cfg.String()))
	}

	// Cancel on SIGINT/SIGTERM so a stuck parse does not hang the caller.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		logger.Info("received signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Plato Course Outline Converter\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
