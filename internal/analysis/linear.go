package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

// LinearArray evaluates the array factor of a uniformly spaced linear array.
type LinearArray struct {
	positions []float64 // element x positions, centered (wavelengths)
	theta     []float64 // evaluation angles (deg), broadside = 0
	pattern   []float64 // field pattern in dB, aligned with theta
}

// NewLinearArray validates the request, builds the geometry, and evaluates
// the pattern over an adaptive theta grid (at least 1-degree resolution,
// denser for long arrays so the main beam is always resolved).
func NewLinearArray(req types.LinearRequest) (*LinearArray, error) {
	if req.NumElem < 1 {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "num_elem must be positive")
	}
	if req.ElementSpacing <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "element_spacing must be positive")
	}

	n := req.NumElem
	a := &LinearArray{positions: make([]float64, n)}
	for i := range a.positions {
		a.positions[i] = (float64(i) - float64(n-1)/2) * req.ElementSpacing
	}

	weights, err := taperWeights(n, req.Window, req.SLL)
	if err != nil {
		return nil, err
	}

	arrayLength := float64(n-1) * req.ElementSpacing
	nt := 181
	if arrayLength > 0 {
		nt = int(180 / (51 / arrayLength / 2))
		if nt%2 == 0 {
			nt++
		}
		if nt < 181 {
			nt = 181
		}
	}
	a.theta = linspace(-90, 90, nt)

	// Progressive phase steers the beam to the scan angle.
	scanRad := req.ScanAngle * math.Pi / 180
	phase := make([]float64, n)
	for i, x := range a.positions {
		phase[i] = -2 * math.Pi * x * math.Sin(scanRad)
	}

	af := make([]complex128, nt)
	for t, thetaDeg := range a.theta {
		sinT := math.Sin(thetaDeg * math.Pi / 180)
		var sum complex128
		for i, x := range a.positions {
			sum += complex(weights[i], 0) * cmplx.Exp(complex(0, phase[i]+2*math.Pi*sinT*x))
		}
		af[t] = sum
	}

	// Normalize so the integral of |AF|^2 over the visible region is one,
	// making the peak value a directivity in dBi.
	deltaTheta := (a.theta[1] - a.theta[0]) * math.Pi / 180
	var integral float64
	for t, v := range af {
		integral += 0.5 * (real(v)*real(v) + imag(v)*imag(v)) *
			math.Sin((a.theta[t]+90)*math.Pi/180) * deltaTheta
	}
	norm := math.Sqrt(integral)

	gainScale := 1.0
	if req.ElementPattern && req.ElementGain != 0 {
		gainScale = math.Pow(10, req.ElementGain/20)
	}
	a.pattern = make([]float64, nt)
	for t, v := range af {
		mag := cmplx.Abs(v) / norm
		if req.ElementPattern {
			mag *= math.Cos(a.theta[t]*math.Pi/180) * gainScale
		}
		a.pattern[t] = db20(mag)
	}
	return a, nil
}

// Theta returns the evaluation angles in degrees.
func (a *LinearArray) Theta() []float64 { return a.theta }

// Pattern returns the pattern in dB, clamped at the wire floor.
func (a *LinearArray) Pattern() []float64 {
	out := make([]float64, len(a.pattern))
	for i, v := range a.pattern {
		if v < patternFloorDB || math.IsNaN(v) || math.IsInf(v, -1) {
			v = patternFloorDB
		}
		out[i] = v
	}
	return out
}

// Manifold returns the centered element positions.
func (a *LinearArray) Manifold() []float64 {
	return append([]float64(nil), a.positions...)
}

// Metrics extracts peak gain and angle, side lobe level, and half-power
// beamwidth from the unclamped pattern.
func (a *LinearArray) Metrics() patternMetrics {
	return extractMetrics(a.theta, a.pattern, 0, 100)
}

// AnalyzeLinear serves one linear analyze request end to end.
func AnalyzeLinear(req types.LinearRequest) (*types.AnalysisResult, error) {
	switch req.PlotType {
	case types.PlotCartesian, types.PlotPolar, "":
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeBadPlotType, "unknown plot type %q", req.PlotType)
	}

	arr, err := NewLinearArray(req)
	if err != nil {
		return nil, err
	}
	m := arr.Metrics()
	pattern := arr.Pattern()
	ymax := yAxisMax(pattern)

	res := &types.AnalysisResult{
		Theta:     arr.Theta(),
		Pattern:   pattern,
		Gain:      m.Gain,
		PeakAngle: m.PeakAngle,
		SLL:       m.SLL,
		HPBW:      m.HPBW,
		YMax:      ymax,
		YMin:      ymax - 40,
	}
	if req.ShowManifold {
		res.Manifold = arr.Manifold()
	}
	if req.Annotate && req.PlotType != types.PlotPolar {
		res.Annotations = linearAnnotations(m)
	}
	return res, nil
}

// yAxisMax rounds the pattern peak up to the next 5 dB gridline.
func yAxisMax(pattern []float64) float64 {
	return 5 * (math.Trunc(maxOf(pattern)/5) + 1)
}

func linearAnnotations(m patternMetrics) []types.Annotation {
	return []types.Annotation{
		{
			X:         m.PeakAngle,
			Y:         m.Gain,
			Text:      fmt.Sprintf("Peak: %.1f dB @ %.1f°", m.Gain, m.PeakAngle),
			ShowArrow: true,
		},
		{
			X:    m.PeakAngle,
			Y:    m.Gain - 3,
			Text: fmt.Sprintf("HPBW: %.1f°", m.HPBW),
		},
		{
			X:    m.PeakAngle - 2*m.HPBW,
			Y:    m.Gain - m.SLL/2,
			Text: fmt.Sprintf("SLL: %.1f dB", m.SLL),
		},
	}
}
