// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/antibiotic-ph/pkg/types"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"Ampicillin", "Kanamycin", "Tetracycline", "Erythromycin"}, c.Names())
	assert.Equal(t, 4, c.Len())

	tests := []struct {
		name     string
		pka      []float64
		form     types.ActiveForm
		baseline float64
	}{
		{"Ampicillin", []float64{7.2}, types.FormNeutral, 0.5},
		{"Kanamycin", []float64{8.2}, types.FormIonized, 1.0},
		{"Tetracycline", []float64{3.3, 7.7, 9.7}, types.FormNeutral, 1.0},
		{"Erythromycin", []float64{8.8}, types.FormNeutral, 0.004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := c.Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.pka, d.PKa)
			assert.Equal(t, tt.form, d.ActiveForm)
			assert.Equal(t, 1.0, d.MaxActivity)
			assert.Equal(t, tt.baseline, d.BaselineMIC)
		})
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	d, err := Default().Get("  kanaMYCIN ")
	require.NoError(t, err)
	assert.Equal(t, "Kanamycin", d.Name)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Default().Get("Penicillin")
	require.ErrorIs(t, err, ErrUnknownDrug)
	assert.Contains(t, err.Error(), "Ampicillin")
}

func TestSelect(t *testing.T) {
	c := Default()

	all, err := c.Select()
	require.NoError(t, err)
	assert.Len(t, all, 4)

	picked, err := c.Select("erythromycin", "Ampicillin")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "Erythromycin", picked[0].Name)
	assert.Equal(t, "Ampicillin", picked[1].Name)

	_, err = c.Select("Ampicillin", "Nope")
	assert.ErrorIs(t, err, ErrUnknownDrug)
}

func TestNew_Errors(t *testing.T) {
	valid := types.DrugDescriptor{Name: "A", PKa: []float64{7}, ActiveForm: types.FormNeutral, MaxActivity: 1, BaselineMIC: 1}

	tests := []struct {
		name    string
		drugs   []types.DrugDescriptor
		wantErr error
	}{
		{"duplicate name", []types.DrugDescriptor{valid, {Name: "a", PKa: []float64{8}, ActiveForm: types.FormIonized, MaxActivity: 1, BaselineMIC: 1}}, ErrDuplicateDrug},
		{"bad form", []types.DrugDescriptor{{Name: "B", PKa: []float64{7}, ActiveForm: "other", MaxActivity: 1, BaselineMIC: 1}}, types.ErrInvalidConfiguration},
		{"zero baseline", []types.DrugDescriptor{{Name: "B", PKa: []float64{7}, ActiveForm: types.FormNeutral, MaxActivity: 1}}, types.ErrInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.drugs...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_CopiesPKa(t *testing.T) {
	pka := []float64{7.0}
	c, err := New(types.DrugDescriptor{Name: "A", PKa: pka, ActiveForm: types.FormNeutral, MaxActivity: 1, BaselineMIC: 1})
	require.NoError(t, err)
	pka[0] = 1.0

	d, err := c.Get("A")
	require.NoError(t, err)
	assert.Equal(t, 7.0, d.PKa[0])
}

func TestGetAndAll_ReturnCopies(t *testing.T) {
	c := Default()

	d, err := c.Get("Tetracycline")
	require.NoError(t, err)
	d.PKa[0] = 99

	all := c.All()
	all[0].PKa[0] = -5

	picked, err := c.Select("Kanamycin")
	require.NoError(t, err)
	picked[0].PKa[0] = 0

	tet, err := c.Get("Tetracycline")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.3, 7.7, 9.7}, tet.PKa)

	amp, err := c.Get("Ampicillin")
	require.NoError(t, err)
	assert.Equal(t, []float64{7.2}, amp.PKa)

	kan, err := c.Get("Kanamycin")
	require.NoError(t, err)
	assert.Equal(t, []float64{8.2}, kan.PKa)
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ampicillin", "Kanamycin", "Tetracycline", "Erythromycin", "Ciprofloxacin"}, c.Names())

	tet, err := c.Get("Tetracycline")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxActivity, tet.MaxActivity)
	assert.Equal(t, DefaultBaselineMIC, tet.BaselineMIC)

	ery, err := c.Get("Erythromycin")
	require.NoError(t, err)
	assert.Equal(t, DefaultActiveForm, ery.ActiveForm)
	assert.Equal(t, 0.004, ery.BaselineMIC)

	cip, err := c.Get("Ciprofloxacin")
	require.NoError(t, err)
	assert.Equal(t, types.FormNeutral, cip.ActiveForm)
	assert.Equal(t, 0.9, cip.MaxActivity)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		errMsg  string
	}{
		{
			name:    "unknown active form",
			doc:     "drugs:\n  - name: X\n    pka: [7]\n    active_form: zwitterion\n",
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name:    "missing pka",
			doc:     "drugs:\n  - name: X\n",
			wantErr: types.ErrInvalidConfiguration,
			errMsg:  "drug #1",
		},
		{
			name:    "negative max activity",
			doc:     "drugs:\n  - name: X\n    pka: [7]\n    max_activity: -1\n",
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name:    "empty document",
			doc:     "drugs: []\n",
			wantErr: types.ErrInvalidConfiguration,
		},
		{
			name:    "duplicate",
			doc:     "drugs:\n  - name: X\n    pka: [7]\n  - name: x\n    pka: [8]\n",
			wantErr: ErrDuplicateDrug,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, tt.wantErr)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("drugs: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing catalog")
}

func TestMarshal_ParsesBack(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), c.All())
}
