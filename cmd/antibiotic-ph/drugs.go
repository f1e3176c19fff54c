// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pdiddy/antibiotic-ph/internal/sweep"
)

var drugsCmd = &cobra.Command{
	Use:   "drugs",
	Short: "List the drugs in the catalog",
	Long: `Drugs prints every catalog entry with its dissociation constants, active
form, maximum activity, and baseline MIC. Entries with several pKa values are
marked: only the first is used by the model.`,
	Args: cobra.NoArgs,
	RunE: runDrugs,
}

func runDrugs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cat.All())
	}
	return sweep.WriteCatalog(out, cat.All())
}

func init() {
	drugsCmd.Flags().Bool("json", false, "output the catalog as JSON")

	rootCmd.AddCommand(drugsCmd)
}
