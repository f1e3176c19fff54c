// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfiguration reports a drug descriptor that the model cannot
// evaluate: an unknown active form, an empty pKa list, or a non-positive
// activity or MIC constant. It is a configuration defect and is never retried.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidPH reports a pH that is NaN or infinite.
var ErrInvalidPH = errors.New("invalid pH")

// ActiveForm identifies which chemical species of a drug is
// pharmacologically active.
type ActiveForm string

const (
	FormNeutral ActiveForm = "neutral"
	FormIonized ActiveForm = "ionized"
)

// ParseActiveForm converts s to an ActiveForm. Matching ignores case and
// surrounding whitespace.
func ParseActiveForm(s string) (ActiveForm, error) {
	switch ActiveForm(strings.ToLower(strings.TrimSpace(s))) {
	case FormNeutral:
		return FormNeutral, nil
	case FormIonized:
		return FormIonized, nil
	}
	return "", fmt.Errorf("%w: active form %q must be %q or %q",
		ErrInvalidConfiguration, s, FormNeutral, FormIonized)
}

// Valid reports whether f is one of the recognized forms.
func (f ActiveForm) Valid() bool {
	return f == FormNeutral || f == FormIonized
}

// UnmarshalText lets catalog files and JSON input reject unknown forms while
// decoding.
func (f *ActiveForm) UnmarshalText(text []byte) error {
	parsed, err := ParseActiveForm(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// DrugDescriptor describes one antibiotic. Values are created once and
// treated as read-only.
//
// PKa may hold several dissociation constants, but only the first is used
// by the model; multi-equilibrium ionization is not modeled.
type DrugDescriptor struct {
	// Name identifies the drug within a catalog.
	Name string `json:"name" yaml:"name"`

	// PKa lists the acid-dissociation constants in order.
	PKa []float64 `json:"pka" yaml:"pka"`

	// ActiveForm is the pharmacologically active species.
	ActiveForm ActiveForm `json:"active_form" yaml:"active_form"`

	// MaxActivity is the activity approached when the active fraction tends to 1.
	MaxActivity float64 `json:"max_activity" yaml:"max_activity"`

	// BaselineMIC is the MIC floor approached when the active fraction
	// tends to 1. Smaller is more potent.
	BaselineMIC float64 `json:"baseline_mic" yaml:"baseline_mic"`
}

// NewDrugDescriptor builds a validated descriptor. The pKa slice is copied.
func NewDrugDescriptor(name string, pKa []float64, form ActiveForm, maxActivity, baselineMIC float64) (DrugDescriptor, error) {
	d := DrugDescriptor{
		Name:        name,
		PKa:         append([]float64(nil), pKa...),
		ActiveForm:  form,
		MaxActivity: maxActivity,
		BaselineMIC: baselineMIC,
	}
	if err := d.Validate(); err != nil {
		return DrugDescriptor{}, err
	}
	return d, nil
}

// Validate checks every descriptor invariant. Errors wrap
// ErrInvalidConfiguration.
func (d DrugDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: drug name is empty", ErrInvalidConfiguration)
	}
	if len(d.PKa) == 0 {
		return fmt.Errorf("%w: %s: no pKa values", ErrInvalidConfiguration, d.Name)
	}
	for i, v := range d.PKa {
		if !finite(v) {
			return fmt.Errorf("%w: %s: pKa[%d] is not finite", ErrInvalidConfiguration, d.Name, i)
		}
	}
	if !d.ActiveForm.Valid() {
		return fmt.Errorf("%w: %s: active form %q must be %q or %q",
			ErrInvalidConfiguration, d.Name, d.ActiveForm, FormNeutral, FormIonized)
	}
	if !finite(d.MaxActivity) || d.MaxActivity <= 0 {
		return fmt.Errorf("%w: %s: max activity must be positive, got %v", ErrInvalidConfiguration, d.Name, d.MaxActivity)
	}
	if !finite(d.BaselineMIC) || d.BaselineMIC <= 0 {
		return fmt.Errorf("%w: %s: baseline MIC must be positive, got %v", ErrInvalidConfiguration, d.Name, d.BaselineMIC)
	}
	return nil
}

// PrimaryPKa returns the dissociation constant the model uses.
func (d DrugDescriptor) PrimaryPKa() (float64, error) {
	if len(d.PKa) == 0 {
		return 0, fmt.Errorf("%w: %s: no pKa values", ErrInvalidConfiguration, d.Name)
	}
	return d.PKa[0], nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
