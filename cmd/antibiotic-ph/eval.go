// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/antibiotic-ph/internal/model"
	"github.com/pdiddy/antibiotic-ph/internal/sweep"
)

var evalCmd = &cobra.Command{
	Use:   "eval <drug>",
	Short: "Evaluate the model for one drug at one pH",
	Long: `Eval prints the ionization ratio, active-form fraction, and MIC estimate
for a single drug at the pH given with --ph.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	d, err := cat.Get(args[0])
	if err != nil {
		return err
	}

	pH, _ := cmd.Flags().GetFloat64("ph")
	ev, err := model.Evaluate(d, pH)
	if err != nil {
		logger.Error("evaluation failed", zap.String("drug", d.Name), zap.Float64("ph", pH), zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Drug string `json:"drug"`
			model.Evaluation
		}{d.Name, ev})
	}
	return sweep.WriteEvaluation(out, d, ev)
}

func init() {
	evalCmd.Flags().Float64("ph", 7.4, "environmental pH")
	evalCmd.Flags().Bool("json", false, "output the evaluation as JSON")

	rootCmd.AddCommand(evalCmd)
}
