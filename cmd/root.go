package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/mhdash/internal/config"
	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/KaramelBytes/mhdash/internal/logging"
	"github.com/KaramelBytes/mhdash/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "mhdash",
	Short:         "mhdash: clean, aggregate and chart the mental-health survey dataset",
	Long:          `mhdash explores the raw mental-health survey CSV, drops records with a missing condition after reviewing how they differ, aggregates the cleaned data and serves an interactive dashboard over it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.mhdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if p, err := utils.ExpandHome(cfgFile); err == nil {
		cfgFile = p
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands can still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{
			ConditionColumn: dataset.ColCondition,
			NAValues:        dataset.DefaultNAValues,
			HeadRows:        5,
			ServerAddr:      ":8501",
			GinMode:         "release",
			LogLevel:        "info",
			DBTable:         "mental_health_clean",
		}
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
}

// loadDataset reads a survey file with the configured null tokens.
func loadDataset(path, sheet string) (*dataset.Dataset, error) {
	ds, err := dataset.Load(path, dataset.LoadOptions{NAValues: cfg.NAValues, Sheet: sheet})
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded dataset",
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", len(ds.Header())))
	return ds, nil
}
