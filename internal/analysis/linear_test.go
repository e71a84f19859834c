package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

func linReq() types.LinearRequest {
	return types.LinearRequest{
		NumElem:        8,
		ElementSpacing: 0.5,
		ElementPattern: true,
		PlotType:       types.PlotCartesian,
	}
}

func TestLinearBroadsideUniform(t *testing.T) {
	res, err := AnalyzeLinear(linReq())
	require.NoError(t, err)

	// 8 half-wavelength elements: directivity near 10log10(2Nd) ≈ 9 dBi,
	// first side lobe near -13.2 dB, beamwidth around 12.7 degrees.
	assert.InDelta(t, 0, res.PeakAngle, 0.51)
	assert.InDelta(t, 9.0, res.Gain, 1.5)
	assert.InDelta(t, 13.2, res.SLL, 1.0)
	assert.InDelta(t, 12.7, res.HPBW, 2.5)
	require.Equal(t, len(res.Theta), len(res.Pattern))
	assert.Equal(t, -90.0, res.Theta[0])
	assert.Equal(t, 90.0, res.Theta[len(res.Theta)-1])
}

func TestLinearScanMovesPeak(t *testing.T) {
	req := linReq()
	req.ScanAngle = 30
	res, err := AnalyzeLinear(req)
	require.NoError(t, err)
	assert.InDelta(t, 30, res.PeakAngle, 1.5)
}

func TestLinearTaperLowersSideLobes(t *testing.T) {
	uniform, err := AnalyzeLinear(linReq())
	require.NoError(t, err)

	req := linReq()
	w := "hamming"
	req.Window = &w
	tapered, err := AnalyzeLinear(req)
	require.NoError(t, err)
	assert.Greater(t, tapered.SLL, uniform.SLL+5,
		"a hamming taper must push side lobes well below uniform")

	req = linReq()
	req.NumElem = 16
	sll := 30.0
	req.SLL = &sll
	res, err := AnalyzeLinear(req)
	require.NoError(t, err)
	assert.InDelta(t, 30, res.SLL, 5, "a Taylor taper lands near its design SLL")
}

func TestLinearAdaptiveThetaGrid(t *testing.T) {
	res, err := AnalyzeLinear(linReq())
	require.NoError(t, err)
	assert.Equal(t, 181, len(res.Theta), "short arrays use the 1-degree floor")

	req := linReq()
	req.NumElem = 100
	res, err = AnalyzeLinear(req)
	require.NoError(t, err)
	assert.Greater(t, len(res.Theta), 181, "long arrays need a denser grid")
	assert.Equal(t, 1, len(res.Theta)%2, "grid size stays odd so broadside is sampled")
}

func TestLinearPatternFloor(t *testing.T) {
	res, err := AnalyzeLinear(linReq())
	require.NoError(t, err)
	for _, v := range res.Pattern {
		assert.GreaterOrEqual(t, v, -100.0)
		assert.False(t, math.IsNaN(v))
	}
}

func TestLinearAxisLaw(t *testing.T) {
	res, err := AnalyzeLinear(linReq())
	require.NoError(t, err)
	peak := maxOf(res.Pattern)
	assert.Equal(t, 5*(math.Trunc(peak/5)+1), res.YMax)
	assert.Equal(t, res.YMax-40, res.YMin)
}

func TestLinearManifold(t *testing.T) {
	req := linReq()
	req.ShowManifold = true
	res, err := AnalyzeLinear(req)
	require.NoError(t, err)
	require.Len(t, res.Manifold, 8)
	// Centered: symmetric about zero, half-wavelength apart.
	assert.InDelta(t, -res.Manifold[7], res.Manifold[0], 1e-9)
	assert.InDelta(t, 0.5, res.Manifold[1]-res.Manifold[0], 1e-9)

	res, err = AnalyzeLinear(linReq())
	require.NoError(t, err)
	assert.Nil(t, res.Manifold)
}

func TestLinearAnnotations(t *testing.T) {
	req := linReq()
	req.Annotate = true
	res, err := AnalyzeLinear(req)
	require.NoError(t, err)
	require.Len(t, res.Annotations, 3)
	assert.Contains(t, res.Annotations[0].Text, "Peak")
	assert.True(t, res.Annotations[0].ShowArrow)
	assert.Contains(t, res.Annotations[1].Text, "HPBW")
	assert.Contains(t, res.Annotations[2].Text, "SLL")
}

func TestLinearElementGain(t *testing.T) {
	req := linReq()
	req.ElementGain = 6
	withGain, err := AnalyzeLinear(req)
	require.NoError(t, err)
	plain, err := AnalyzeLinear(linReq())
	require.NoError(t, err)
	assert.InDelta(t, plain.Gain+6, withGain.Gain, 0.01)
}

func TestLinearValidation(t *testing.T) {
	req := linReq()
	req.NumElem = 0
	_, err := AnalyzeLinear(req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

	req = linReq()
	req.ElementSpacing = 0
	_, err = AnalyzeLinear(req)
	require.Error(t, err)

	req = linReq()
	req.PlotType = "sparkline"
	_, err = AnalyzeLinear(req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBadPlotType))
}

func TestLinearSingleElement(t *testing.T) {
	req := linReq()
	req.NumElem = 1
	res, err := AnalyzeLinear(req)
	require.NoError(t, err)
	assert.Equal(t, 181, len(res.Theta), "degenerate aperture falls back to the 1-degree grid")
}
