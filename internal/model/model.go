// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model computes pH-dependent ionization, active-form fraction and
// MIC estimates for an antibiotic from its first dissociation constant.
//
// Every function is pure and safe for concurrent use.
package model

import (
	"fmt"
	"math"

	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

// Stabilizer is added to the driving fraction before dividing into the
// baseline MIC. It bounds MIC above by BaselineMIC / Stabilizer.
const Stabilizer = 1e-6

var (
	minRatio = math.Nextafter(0, 1)
	maxRatio = math.Nextafter(1, 0)
)

// Evaluation holds the three model outputs at one pH.
type Evaluation struct {
	PH              float64 `json:"ph" yaml:"ph"`
	IonizationRatio float64 `json:"ionization_ratio" yaml:"ionization_ratio"`
	ActiveFraction  float64 `json:"active_fraction" yaml:"active_fraction"`
	MIC             float64 `json:"mic" yaml:"mic"`
}

// IonizationRatio returns the Henderson–Hasselbalch ratio for d at pH.
// For a neutral-active drug it is 1/(1+10^(pH−pKa)); for an ionized-active
// drug 1/(1+10^(pKa−pH)). The result lies strictly inside (0, 1).
func IonizationRatio(d types.DrugDescriptor, pH float64) (float64, error) {
	pKa, err := checkInputs(d, pH)
	if err != nil {
		return 0, err
	}
	var delta float64
	switch d.ActiveForm {
	case types.FormNeutral:
		delta = pH - pKa
	case types.FormIonized:
		delta = pKa - pH
	default:
		return 0, invalidForm(d)
	}
	return clampRatio(logistic(-math.Ln10 * delta)), nil
}

// ActiveFraction returns the fraction of d in its active form at pH,
// scaled by MaxActivity.
func ActiveFraction(d types.DrugDescriptor, pH float64) (float64, error) {
	ratio, err := IonizationRatio(d, pH)
	if err != nil {
		return 0, err
	}
	return activeFraction(d, ratio), nil
}

// MIC estimates the minimum inhibitory concentration of d at pH. It is
// inversely proportional to the driving fraction and always positive and
// finite.
func MIC(d types.DrugDescriptor, pH float64) (float64, error) {
	ratio, err := IonizationRatio(d, pH)
	if err != nil {
		return 0, err
	}
	return mic(d, ratio), nil
}

// Evaluate computes all three outputs for d at pH.
func Evaluate(d types.DrugDescriptor, pH float64) (Evaluation, error) {
	ratio, err := IonizationRatio(d, pH)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{
		PH:              pH,
		IonizationRatio: ratio,
		ActiveFraction:  activeFraction(d, ratio),
		MIC:             mic(d, ratio),
	}, nil
}

// MaxMIC returns the largest MIC the model can report for d.
func MaxMIC(d types.DrugDescriptor) float64 {
	return d.BaselineMIC / Stabilizer
}

// activeFraction and mic assume ratio came from IonizationRatio, which has
// already rejected unknown forms.
func activeFraction(d types.DrugDescriptor, ratio float64) float64 {
	if d.ActiveForm == types.FormIonized {
		return d.MaxActivity * ratio
	}
	return d.MaxActivity * (1 - ratio)
}

func mic(d types.DrugDescriptor, ratio float64) float64 {
	if d.ActiveForm == types.FormIonized {
		return d.BaselineMIC / (ratio + Stabilizer)
	}
	return d.BaselineMIC / (activeFraction(d, ratio) + Stabilizer)
}

// logistic returns 1/(1+e^-x) without overflowing for large |x|.
func logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func clampRatio(r float64) float64 {
	return math.Min(math.Max(r, minRatio), maxRatio)
}

func checkInputs(d types.DrugDescriptor, pH float64) (float64, error) {
	if math.IsNaN(pH) || math.IsInf(pH, 0) {
		return 0, fmt.Errorf("%w: %v", types.ErrInvalidPH, pH)
	}
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return d.PrimaryPKa()
}

func invalidForm(d types.DrugDescriptor) error {
	return fmt.Errorf("%w: %s: active form %q must be %q or %q",
		types.ErrInvalidConfiguration, d.Name, d.ActiveForm, types.FormNeutral, types.FormIonized)
}
