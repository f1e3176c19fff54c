// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/antibiotic-ph/internal/catalog"
	"github.com/pdiddy/antibiotic-ph/internal/sweep"
	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

// execute runs the root command with args. Flags keep their values across
// runs, so each call spells out the flags it depends on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvalCommand_JSON(t *testing.T) {
	out, err := execute(t, "eval", "ampicillin", "--ph", "7.2", "--json=true")
	require.NoError(t, err)

	var got struct {
		Drug            string  `json:"drug"`
		PH              float64 `json:"ph"`
		IonizationRatio float64 `json:"ionization_ratio"`
		ActiveFraction  float64 `json:"active_fraction"`
		MIC             float64 `json:"mic"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Ampicillin", got.Drug)
	assert.Equal(t, 7.2, got.PH)
	assert.InDelta(t, 0.5, got.IonizationRatio, 1e-12)
	assert.InDelta(t, 1.0, got.MIC, 1e-5)
}

func TestEvalCommand_UnknownDrug(t *testing.T) {
	_, err := execute(t, "eval", "penicillin", "--ph", "7", "--json=false")
	assert.ErrorIs(t, err, catalog.ErrUnknownDrug)
}

func TestDrugsCommand(t *testing.T) {
	out, err := execute(t, "drugs", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Tetracycline")
	assert.Contains(t, out, "4 drugs")
}

func TestSweepCommand_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curves.csv")
	_, err := execute(t, "sweep", "Kanamycin", "Erythromycin",
		"--ph-min", "3", "--ph-max", "11", "--points", "5", "--workers", "2",
		"--format", "csv", "--output", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+2*5)
	assert.Equal(t, "Kanamycin", records[1][0])
	assert.Equal(t, "Erythromycin", records[10][0])
}

func TestSweepCommand_BadRange(t *testing.T) {
	_, err := execute(t, "sweep", "--ph-min", "9", "--ph-max", "4", "--points", "10",
		"--format", "table", "--output", "")
	assert.ErrorContains(t, err, "range is empty")
}

func TestSweepCommand_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drugs:\n  - name: Testmycin\n    pka: [6.0]\n    active_form: ionized\n"), 0o644))

	out, err := execute(t, "sweep", "--catalog", path,
		"--ph-min", "5", "--ph-max", "7", "--points", "3", "--workers", "1",
		"--format", "json", "--output", "")
	require.NoError(t, err)

	var curves []struct {
		Drug   string `json:"drug"`
		Points []struct {
			IonizationRatio float64 `json:"ionization_ratio"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &curves))
	require.Len(t, curves, 1)
	assert.Equal(t, "Testmycin", curves[0].Drug)
	require.Len(t, curves[0].Points, 3)
	assert.InDelta(t, 0.5, curves[0].Points[1].IonizationRatio, 1e-12)

	_, err = execute(t, "drugs", "--catalog", "", "--json=false")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "antibiotic-ph "+version+"\n", out)
}

func TestWriteSweepFile(t *testing.T) {
	d, err := catalog.Default().Get("Ampicillin")
	require.NoError(t, err)
	c, err := sweep.Sample(d, types.SweepConfig{PHMin: 6, PHMax: 8, Points: 3})
	require.NoError(t, err)
	curves := []sweep.Curve{c}

	dir := t.TempDir()
	tests := []struct {
		name   string
		path   string
		format sweep.Format
		errMsg string
	}{
		{"writes csv", filepath.Join(dir, "ok.csv"), sweep.FormatCSV, ""},
		{"missing directory", filepath.Join(dir, "missing", "out.csv"), sweep.FormatCSV, "creating"},
		{"render failure", filepath.Join(dir, "bad.out"), "svg", "writing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeSweepFile(tt.path, curves, tt.format)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			data, err := os.ReadFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, 4, bytes.Count(data, []byte("\n")))
		})
	}
}
