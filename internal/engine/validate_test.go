package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arraylab/beamtune/pkg/types"
)

func TestValidateLinearDefaults(t *testing.T) {
	p, vs := ValidateLinear(DefaultLinearDraft())
	require.Empty(t, vs)
	assert.Equal(t, 8, p.NumElem)
	assert.Equal(t, 0.5, p.Spacing)
	assert.Equal(t, 0.0, p.ScanAngle)
	assert.True(t, p.ElementPattern)
	assert.Nil(t, p.Window, "uniform taper must not send a window name")
	assert.Nil(t, p.SLL)
}

func TestValidateLinearViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LinearDraft)
		field  string
	}{
		{"non-numeric count", func(d *LinearDraft) { d.NumElem = "abc" }, "NumElem"},
		{"count too large", func(d *LinearDraft) { d.NumElem = "1001" }, "NumElem"},
		{"count zero", func(d *LinearDraft) { d.NumElem = "0" }, "NumElem"},
		{"spacing too small", func(d *LinearDraft) { d.Spacing = "0.05" }, "Spacing"},
		{"scan out of range", func(d *LinearDraft) { d.ScanAngle = "95" }, "ScanAngle"},
		{"gain out of range", func(d *LinearDraft) { d.ElementGain = "40" }, "ElementGain"},
		{"unknown window", func(d *LinearDraft) { d.Window = "kaiser9000" }, "Window"},
		{"empty count", func(d *LinearDraft) { d.NumElem = "" }, "NumElem"},
		{"bad plot type", func(d *LinearDraft) { d.PlotType = "sparkline" }, "PlotType"},
		{"NaN spacing", func(d *LinearDraft) { d.Spacing = "NaN" }, "Spacing"},
		{"infinite scan", func(d *LinearDraft) { d.ScanAngle = "+Inf" }, "ScanAngle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultLinearDraft()
			tt.mutate(&d)
			_, vs := ValidateLinear(d)
			require.NotEmpty(t, vs)
			assert.Equal(t, tt.field, vs[0].Field)
		})
	}
}

func TestValidateLinearGainSkippedWithoutElementPattern(t *testing.T) {
	d := DefaultLinearDraft()
	d.ElementPattern = false
	d.ElementGain = "not a number"
	_, vs := ValidateLinear(d)
	assert.Empty(t, vs, "gain is ignored while the element pattern is off")
}

func TestValidateLinearTaperSLL(t *testing.T) {
	d := DefaultLinearDraft()
	d.Taper = TaperSLL
	d.SLL = "30"
	p, vs := ValidateLinear(d)
	require.Empty(t, vs)
	require.NotNil(t, p.SLL)
	assert.Equal(t, 30.0, *p.SLL)
	assert.Nil(t, p.Window, "SLL taper and window name are mutually exclusive")
}

func TestValidateLinearNamedWindow(t *testing.T) {
	d := DefaultLinearDraft()
	d.Window = "hamming"
	p, vs := ValidateLinear(d)
	require.Empty(t, vs)
	require.NotNil(t, p.Window)
	assert.Equal(t, "hamming", *p.Window)
}

func TestValidatePlanarRect(t *testing.T) {
	p, vs := ValidatePlanar(DefaultPlanarDraft())
	require.Empty(t, vs)
	assert.Equal(t, types.ArrayRect, p.ArrayType)
	assert.Equal(t, 8, p.NumX)
	assert.Equal(t, 8, p.NumY)
	assert.False(t, p.Incomplete())

	req := p.Request()
	assert.Equal(t, []int{8, 8}, req.NumElem)
	assert.Equal(t, []float64{0.5, 0.5}, req.ElementSpacing)
}

func TestValidatePlanarCircLists(t *testing.T) {
	d := DefaultPlanarDraft()
	d.ArrayType = types.ArrayCirc
	d.RingCounts = "8, 16, 24"
	d.RingRadii = "0.5, 1.0, 1.5"
	p, vs := ValidatePlanar(d)
	require.Empty(t, vs)
	assert.Equal(t, []int{8, 16, 24}, p.RingCounts)
	assert.Equal(t, []float64{0.5, 1.0, 1.5}, p.RingRadii)
	assert.False(t, p.Incomplete())

	req := p.Request()
	assert.Equal(t, []int{8, 16, 24}, req.NumElem)
	assert.Equal(t, []float64{0.5, 1.0, 1.5}, req.Radius)
	assert.Empty(t, req.ElementSpacing)
}

func TestValidatePlanarCircMismatchIsIncompleteNotInvalid(t *testing.T) {
	d := DefaultPlanarDraft()
	d.ArrayType = types.ArrayCirc
	d.RingCounts = "8, 16, 24"
	d.RingRadii = "0.5, 1.0"
	p, vs := ValidatePlanar(d)
	assert.Empty(t, vs, "a length mismatch is in-progress typing, not a violation")
	assert.True(t, p.Incomplete())
}

func TestValidatePlanarCircBadListEntries(t *testing.T) {
	d := DefaultPlanarDraft()
	d.ArrayType = types.ArrayCirc
	d.RingCounts = "8, x, 24"
	d.RingRadii = "0.5, 1.0, 1.5"
	_, vs := ValidatePlanar(d)
	require.NotEmpty(t, vs)
	assert.Equal(t, "RingCounts", vs[0].Field)
}

func TestValidatePlanarCircNonFiniteRadius(t *testing.T) {
	d := DefaultPlanarDraft()
	d.ArrayType = types.ArrayCirc
	d.RingCounts = "8, 16, 24"
	d.RingRadii = "0.5, Inf, 1.5"
	_, vs := ValidatePlanar(d)
	require.NotEmpty(t, vs)
	assert.Equal(t, "RingRadii", vs[0].Field)
}

func TestValidatePlanarAzimuthRange(t *testing.T) {
	d := DefaultPlanarDraft()
	d.ScanPhi = "-360"
	_, vs := ValidatePlanar(d)
	assert.Empty(t, vs, "azimuth accepts the full ±360° range")

	d.ScanPhi = "361"
	_, vs = ValidatePlanar(d)
	require.NotEmpty(t, vs)
	assert.Equal(t, "ScanPhi", vs[0].Field)
}

func TestValidatePlanarCutAngleOnlyForPatternCut(t *testing.T) {
	d := DefaultPlanarDraft()
	d.PlotType = types.PlotPolar3D
	d.CutAngle = "garbage"
	_, vs := ValidatePlanar(d)
	assert.Empty(t, vs, "cut angle is ignored for non-cut plot types")
}

func TestLinearLabelDeterministic(t *testing.T) {
	p1, vs := ValidateLinear(DefaultLinearDraft())
	require.Empty(t, vs)
	p2, _ := ValidateLinear(DefaultLinearDraft())
	assert.Equal(t, p1.Label(), p2.Label())
	assert.Equal(t, "N=8, d=0.50λ, scan 0.0°, uniform", p1.Label())
}

func TestPlanarLabelFormats(t *testing.T) {
	d := DefaultPlanarDraft()
	d.Taper = TaperSLL
	d.SLL = "30"
	p, vs := ValidatePlanar(d)
	require.Empty(t, vs)
	assert.Equal(t, "rect 8×8, d=0.50×0.50λ, scan (0.0°, 0.0°), SLL 30 dB", p.Label())

	d = DefaultPlanarDraft()
	d.ArrayType = types.ArrayCirc
	p, vs = ValidatePlanar(d)
	require.Empty(t, vs)
	assert.Equal(t, "circ [8,16,24], scan (0.0°, 0.0°), uniform", p.Label())
}
