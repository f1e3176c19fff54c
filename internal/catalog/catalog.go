// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog maps drug names to descriptors. A Catalog is built once,
// either from the built-in reference table or from a YAML file, and is
// read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

var (
	// ErrUnknownDrug is returned when a name is not in the catalog.
	ErrUnknownDrug = errors.New("unknown drug")

	// ErrDuplicateDrug is returned when two entries share a name.
	ErrDuplicateDrug = errors.New("duplicate drug")
)

// Catalog is an ordered, case-insensitive set of drug descriptors.
type Catalog struct {
	drugs []types.DrugDescriptor
	index map[string]int
}

// New validates drugs and builds a catalog preserving their order.
func New(drugs ...types.DrugDescriptor) (*Catalog, error) {
	c := &Catalog{
		drugs: make([]types.DrugDescriptor, 0, len(drugs)),
		index: make(map[string]int, len(drugs)),
	}
	for _, d := range drugs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		key := normalize(d.Name)
		if _, ok := c.index[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDrug, d.Name)
		}
		d = clone(d)
		c.index[key] = len(c.drugs)
		c.drugs = append(c.drugs, d)
	}
	return c, nil
}

// Default returns the reference catalog.
func Default() *Catalog {
	c, err := New(
		types.DrugDescriptor{Name: "Ampicillin", PKa: []float64{7.2}, ActiveForm: types.FormNeutral, MaxActivity: 1.0, BaselineMIC: 0.5},
		types.DrugDescriptor{Name: "Kanamycin", PKa: []float64{8.2}, ActiveForm: types.FormIonized, MaxActivity: 1.0, BaselineMIC: 1.0},
		types.DrugDescriptor{Name: "Tetracycline", PKa: []float64{3.3, 7.7, 9.7}, ActiveForm: types.FormNeutral, MaxActivity: 1.0, BaselineMIC: 1.0},
		types.DrugDescriptor{Name: "Erythromycin", PKa: []float64{8.8}, ActiveForm: types.FormNeutral, MaxActivity: 1.0, BaselineMIC: 0.004},
	)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid reference table: %v", err))
	}
	return c
}

// Get returns the descriptor registered under name.
func (c *Catalog) Get(name string) (types.DrugDescriptor, error) {
	i, ok := c.index[normalize(name)]
	if !ok {
		return types.DrugDescriptor{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownDrug, name, strings.Join(c.Names(), ", "))
	}
	return clone(c.drugs[i]), nil
}

// Select resolves names in order. An empty list selects every drug.
func (c *Catalog) Select(names ...string) ([]types.DrugDescriptor, error) {
	if len(names) == 0 {
		return c.All(), nil
	}
	out := make([]types.DrugDescriptor, 0, len(names))
	for _, name := range names {
		d, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Names returns drug names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.drugs))
	for i, d := range c.drugs {
		names[i] = d.Name
	}
	return names
}

// All returns a copy of every descriptor in catalog order.
func (c *Catalog) All() []types.DrugDescriptor {
	out := make([]types.DrugDescriptor, len(c.drugs))
	for i, d := range c.drugs {
		out[i] = clone(d)
	}
	return out
}

// Len returns the number of drugs.
func (c *Catalog) Len() int {
	return len(c.drugs)
}

// clone detaches the returned descriptor's pKa slice from catalog storage.
func clone(d types.DrugDescriptor) types.DrugDescriptor {
	d.PKa = append([]float64(nil), d.PKa...)
	return d
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// --- YAML catalog files ---

// file is the on-disk catalog layout. Pointer fields distinguish omitted
// values from zeros so defaults can be applied.
type file struct {
	Drugs []entry `yaml:"drugs"`
}

type entry struct {
	Name        string            `yaml:"name"`
	PKa         []float64         `yaml:"pka"`
	ActiveForm  *types.ActiveForm `yaml:"active_form"`
	MaxActivity *float64          `yaml:"max_activity"`
	BaselineMIC *float64          `yaml:"baseline_mic"`
}

// Defaults applied to omitted catalog fields.
const (
	DefaultActiveForm  = types.FormNeutral
	DefaultMaxActivity = 1.0
	DefaultBaselineMIC = 1.0
)

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Drugs) == 0 {
		return nil, fmt.Errorf("%w: catalog lists no drugs", types.ErrInvalidConfiguration)
	}

	drugs := make([]types.DrugDescriptor, 0, len(f.Drugs))
	for i, e := range f.Drugs {
		d := types.DrugDescriptor{
			Name:        e.Name,
			PKa:         e.PKa,
			ActiveForm:  DefaultActiveForm,
			MaxActivity: DefaultMaxActivity,
			BaselineMIC: DefaultBaselineMIC,
		}
		if e.ActiveForm != nil {
			d.ActiveForm = *e.ActiveForm
		}
		if e.MaxActivity != nil {
			d.MaxActivity = *e.MaxActivity
		}
		if e.BaselineMIC != nil {
			d.BaselineMIC = *e.BaselineMIC
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("drug #%d: %w", i+1, err)
		}
		drugs = append(drugs, d)
	}
	return New(drugs...)
}

// Marshal encodes c in the layout Parse reads.
func (c *Catalog) Marshal() ([]byte, error) {
	f := struct {
		Drugs []types.DrugDescriptor `yaml:"drugs"`
	}{Drugs: c.drugs}
	return yaml.Marshal(&f)
}
