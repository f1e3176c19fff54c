// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the antibiotic-ph CLI. It samples the
// pharmacochemical model over pH and prints curves for the drug catalog.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/antibiotic-ph/internal/catalog"
	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE once flags are parsed.
var logger = zap.NewNop()

// rootCmd is the base command for the antibiotic-ph CLI.
var rootCmd = &cobra.Command{
	Use:   "antibiotic-ph",
	Short: "Model how pH shifts antibiotic ionization, activity, and MIC",
	Long: `antibiotic-ph evaluates a Henderson-Hasselbalch model of antibiotic
ionization. For each drug it reports the ionized fraction, the fraction in the
pharmacologically active form, and an MIC estimate at a given pH, or sampled
across a pH range.

Drugs come from a built-in reference catalog or from a YAML catalog file
passed with --catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./antibiotic-ph.yaml or ~/.config/antibiotic-ph/antibiotic-ph.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML drug catalog (default: built-in reference catalog)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))

	viper.SetDefault("sweep.ph_min", types.DefaultPHMin)
	viper.SetDefault("sweep.ph_max", types.DefaultPHMax)
	viper.SetDefault("sweep.points", types.DefaultPoints)
	viper.SetDefault("sweep.workers", types.DefaultWorkers)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("antibiotic-ph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "antibiotic-ph"))
		}
	}

	viper.SetEnvPrefix("ANTIBIOTIC_PH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}
}

// newLogger returns a console logger on stderr. Only warnings and errors
// are shown unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig reads the typed configuration from viper.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// loadCatalog returns the catalog named by cfg, or the reference catalog.
func loadCatalog(cfg types.Config) (*catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded catalog", zap.String("path", cfg.Catalog), zap.Int("drugs", c.Len()))
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
