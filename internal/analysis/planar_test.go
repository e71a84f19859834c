package analysis

import (
	"encoding/base64"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

func rectReq() types.PlanarRequest {
	return types.PlanarRequest{
		ArrayType:      types.ArrayRect,
		NumElem:        []int{8, 8},
		ElementSpacing: []float64{0.5, 0.5},
		ElementPattern: true,
		PlotType:       types.PlotPatternCut,
	}
}

func circReq() types.PlanarRequest {
	return types.PlanarRequest{
		ArrayType:      types.ArrayCirc,
		NumElem:        []int{4, 8},
		Radius:         []float64{0.5, 1.0},
		ElementPattern: true,
		PlotType:       types.PlotPatternCut,
	}
}

func TestPlanarRectBroadside(t *testing.T) {
	res, err := AnalyzePlanar(rectReq())
	require.NoError(t, err)

	// An 8x8 half-wavelength aperture runs around 22 dBi of directivity.
	assert.InDelta(t, 0, res.PeakAngle, 1.0)
	assert.InDelta(t, 22, res.Gain, 4)
	assert.Greater(t, res.SLL, 10.0)
	require.Equal(t, len(res.Theta), len(res.Pattern))

	// The cut spans the full -180..180 range, stitched from both phi halves.
	assert.Equal(t, -180.0, res.Theta[0])
	assert.Equal(t, 180.0, res.Theta[len(res.Theta)-1])
	require.NotNil(t, res.CutAngle)
	assert.Equal(t, 64, len(res.ManifoldX))
	assert.Equal(t, 5*(math.Trunc(maxOf(res.Pattern)/5)+1), res.YMax)
}

func TestPlanarScanMovesPeak(t *testing.T) {
	req := rectReq()
	req.ScanAngle = [2]float64{30, 0}
	req.CutAngle = 0
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	assert.InDelta(t, 30, res.PeakAngle, 2.0)
}

func TestPlanarTriLattice(t *testing.T) {
	req := rectReq()
	req.ArrayType = types.ArrayTri
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	assert.Equal(t, 64, len(res.ManifoldX))
	// Alternate rows are offset by half a column spacing, so x coordinates
	// take more distinct values than the rect lattice's 8.
	distinct := map[float64]bool{}
	for _, x := range res.ManifoldX {
		distinct[math.Round(x*1000)] = true
	}
	assert.Greater(t, len(distinct), 8)
}

func TestPlanarCircGeometry(t *testing.T) {
	res, err := AnalyzePlanar(circReq())
	require.NoError(t, err)
	require.Len(t, res.ManifoldX, 12, "ring counts of 4 and 8 give 12 elements")

	// Each ring's elements sit at its radius.
	var mean float64
	for _, x := range res.ManifoldX {
		mean += x
	}
	assert.InDelta(t, 0, mean/12, 1e-9, "manifold coordinates are centered")
}

func TestPlanarManifoldOnly(t *testing.T) {
	req := rectReq()
	req.PlotType = types.PlotManifold
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	assert.Len(t, res.ManifoldX, 64)
	assert.Len(t, res.ManifoldY, 64)
	assert.Empty(t, res.Theta)
	assert.False(t, res.HasPattern())
}

func TestPlanarPolar3DPayload(t *testing.T) {
	req := rectReq()
	req.PlotType = types.PlotPolar3D
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	require.NotNil(t, res.Polar3D)
	d := res.Polar3D

	require.Equal(t, len(d.X), len(d.Intensity))
	require.Equal(t, len(d.X[0]), len(d.Z[0]))
	assert.Len(t, d.ArrayX, 64)
	assert.Equal(t, gRangeDB, d.GRange)
	for _, row := range d.Intensity {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, gRangeDB+1e-9)
		}
	}
	assert.Nil(t, res.Contour)
	assert.Empty(t, res.Theta, "surface payloads carry no cut arrays")
}

func TestPlanarContourPayload(t *testing.T) {
	req := rectReq()
	req.PlotType = types.PlotContour
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	require.NotNil(t, res.Contour)
	d := res.Contour

	assert.Equal(t, -180.0, d.Theta[0])
	assert.Equal(t, 180.0, d.Theta[len(d.Theta)-1])
	assert.Equal(t, -360.0, d.Phi[0])
	require.Len(t, d.Intensity, len(d.Phi))
	require.Len(t, d.Intensity[0], len(d.Theta))

	floor := d.Peak - d.GRange
	var sawPeak bool
	for _, row := range d.Intensity {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, floor-1e-9)
			if v == d.Peak {
				sawPeak = true
			}
		}
	}
	assert.True(t, sawPeak)
}

func TestPlanarPolarSurfRaster(t *testing.T) {
	req := rectReq()
	req.PlotType = types.PlotPolarSurf
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	require.NotEmpty(t, res.PlotPNG)

	raw, err := base64.StdEncoding.DecodeString(res.PlotPNG)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), raw[:4])
}

func TestPlanarValidation(t *testing.T) {
	req := rectReq()
	req.ArrayType = "hexagonal"
	_, err := AnalyzePlanar(req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBadTopology))

	req = circReq()
	req.Radius = req.Radius[:1]
	_, err = AnalyzePlanar(req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

	req = rectReq()
	req.NumElem = []int{8}
	_, err = AnalyzePlanar(req)
	require.Error(t, err)

	req = rectReq()
	req.PlotType = "hologram"
	_, err = AnalyzePlanar(req)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBadPlotType))
}

func TestPlanarCutAngleWraps(t *testing.T) {
	req := rectReq()
	req.CutAngle = 360
	res, err := AnalyzePlanar(req)
	require.NoError(t, err)
	req.CutAngle = 0
	res0, err := AnalyzePlanar(req)
	require.NoError(t, err)
	assert.Equal(t, res0.Pattern, res.Pattern, "cut angles are taken modulo 360")
}

func TestPlanarMetricsRounded(t *testing.T) {
	res, err := AnalyzePlanar(rectReq())
	require.NoError(t, err)
	for _, v := range []float64{res.Gain, res.PeakAngle, res.SLL, res.HPBW} {
		assert.InDelta(t, v, math.Round(v*10)/10, 1e-9)
	}
}
