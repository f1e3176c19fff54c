// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sweep

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/antibiotic-ph/internal/model"
	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

// Format selects a curve renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts s to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unsupported format %q: use table, csv, json, or yaml", s)
}

// Write renders curves to w in the given format.
func Write(w io.Writer, curves []Curve, format Format) error {
	switch format {
	case FormatTable, "":
		return WriteTable(w, curves)
	case FormatCSV:
		return WriteCSV(w, curves)
	case FormatJSON:
		return WriteJSON(w, curves)
	case FormatYAML:
		return WriteYAML(w, curves)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// WriteTable renders one fixed-width block per curve.
func WriteTable(w io.Writer, curves []Curve) error {
	for i, c := range curves {
		if i > 0 {
			fmt.Fprintln(w)
		}
		lo, hi := c.MICRange()
		fmt.Fprintf(w, "%s (%s active, pKa %.2f, baseline MIC %g)\n", c.Drug, c.ActiveForm, c.PKa, c.BaselineMIC)
		fmt.Fprintf(w, "%-6s  %-10s  %-10s  %s\n", "pH", "Ionized", "Active", "MIC")
		fmt.Fprintln(w, strings.Repeat("-", 44))
		for _, p := range c.Points {
			writeRow(w, p)
		}
		fmt.Fprintf(w, "\nMIC range %.4g to %.4g over %d points\n", lo, hi, len(c.Points))
		if ph, ok := c.Crossover(); ok {
			fmt.Fprintf(w, "Half ionized near pH %.2f\n", ph)
		}
	}
	return nil
}

// WriteEvaluation renders a single model evaluation.
func WriteEvaluation(w io.Writer, d types.DrugDescriptor, ev model.Evaluation) error {
	fmt.Fprintf(w, "%s (%s active, pKa %.2f)\n", d.Name, d.ActiveForm, d.PKa[0])
	fmt.Fprintf(w, "%-6s  %-10s  %-10s  %s\n", "pH", "Ionized", "Active", "MIC")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	writeRow(w, ev)
	return nil
}

func writeRow(w io.Writer, p model.Evaluation) {
	fmt.Fprintf(w, "%-6.2f  %-10.4f  %-10.4f  %.4g\n", p.PH, p.IonizationRatio, p.ActiveFraction, p.MIC)
}

// WriteCSV renders curves in long format, one row per drug and pH, ready
// for an external plotting tool.
func WriteCSV(w io.Writer, curves []Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"drug", "active_form", "ph", "ionization_ratio", "active_fraction", "mic"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, c := range curves {
		for _, p := range c.Points {
			rec := []string{
				c.Drug,
				string(c.ActiveForm),
				formatFloat(p.PH),
				formatFloat(p.IonizationRatio),
				formatFloat(p.ActiveFraction),
				formatFloat(p.MIC),
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing csv row for %s: %w", c.Drug, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON renders curves as an indented JSON array.
func WriteJSON(w io.Writer, curves []Curve) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(curves)
}

// WriteYAML renders curves as a YAML sequence.
func WriteYAML(w io.Writer, curves []Curve) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(curves); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteCatalog lists drug descriptors. Entries carrying more than one pKa
// are marked, since only the first is modeled.
func WriteCatalog(w io.Writer, drugs []types.DrugDescriptor) error {
	fmt.Fprintf(w, "%-14s  %-8s  %-16s  %-12s  %s\n", "Drug", "Form", "pKa", "Max activity", "Baseline MIC")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	multi := false
	for _, d := range drugs {
		pkas := make([]string, len(d.PKa))
		for i, v := range d.PKa {
			pkas[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		pka := strings.Join(pkas, ", ")
		if len(d.PKa) > 1 {
			pka += " *"
			multi = true
		}
		fmt.Fprintf(w, "%-14s  %-8s  %-16s  %-12g  %g\n", d.Name, d.ActiveForm, pka, d.MaxActivity, d.BaselineMIC)
	}

	fmt.Fprintf(w, "\n%d drugs\n", len(drugs))
	if multi {
		fmt.Fprintln(w, "* only the first pKa is used by the model")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
