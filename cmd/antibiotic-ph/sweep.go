// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/antibiotic-ph/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [drug...]",
	Short: "Sample the model across a pH range",
	Long: `Sweep evaluates every selected drug at evenly spaced pH values between
--ph-min and --ph-max (default 100 points from pH 3 to 11) and prints the
ionization ratio, active fraction, and MIC at each point.

With no drug arguments every catalog entry is sampled. Use --format csv or
json to hand the curves to a plotting tool; MIC is best drawn on a log axis.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Sweep.Validate(); err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := sweep.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	drugs, err := cat.Select(args...)
	if err != nil {
		return err
	}

	sampler := sweep.NewSampler(cfg.Sweep, logger)
	curves, err := sampler.SampleAll(cmd.Context(), drugs)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		return sweep.Write(cmd.OutOrStdout(), curves, format)
	}

	if err := writeSweepFile(outputPath, curves, format); err != nil {
		return err
	}
	logger.Info("wrote sweep", zap.String("path", outputPath), zap.Int("drugs", len(curves)))
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d curve(s) to %s\n", len(curves), outputPath)
	return nil
}

// writeSweepFile renders curves into path. A failed close is reported, since
// it can mean the rendered output never reached disk.
func writeSweepFile(path string, curves []sweep.Curve, format sweep.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := sweep.Write(f, curves, format); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func init() {
	sweepCmd.Flags().Float64("ph-min", 3.0, "first pH sampled")
	sweepCmd.Flags().Float64("ph-max", 11.0, "last pH sampled")
	sweepCmd.Flags().Int("points", 100, "number of evenly spaced samples")
	sweepCmd.Flags().Int("workers", 4, "drugs sampled concurrently")
	sweepCmd.Flags().String("format", "table", "output format: table, csv, json, or yaml")
	sweepCmd.Flags().StringP("output", "o", "", "write output to a file instead of stdout")

	_ = viper.BindPFlag("sweep.ph_min", sweepCmd.Flags().Lookup("ph-min"))
	_ = viper.BindPFlag("sweep.ph_max", sweepCmd.Flags().Lookup("ph-max"))
	_ = viper.BindPFlag("sweep.points", sweepCmd.Flags().Lookup("points"))
	_ = viper.BindPFlag("sweep.workers", sweepCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(sweepCmd)
}
