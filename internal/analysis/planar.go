package analysis

import (
	"math"
	"math/cmplx"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

// gRangeDB is the dynamic range of the surface payloads (polar3d, contour,
// polarsurf); everything deeper than gRangeDB below the peak is clipped.
const gRangeDB = 30.0

// PlanarArray evaluates the array factor of a rect, tri, or circ planar
// array over a full theta 0..180 / phi 0..360 grid.
type PlanarArray struct {
	x, y    []float64   // element positions (wavelengths), as built
	theta   []float64   // deg, 0..180
	phi     []float64   // deg, 0..360
	pattern [][]float64 // dB, indexed [phi][theta]
}

// NewPlanarArray validates the request, builds the element lattice, and
// evaluates the pattern.  Rect arrays use the separable row/column product
// with per-axis tapers; tri and circ lattices are evaluated element by
// element with uniform weights, as tapers have no canonical per-axis
// factorization there.
func NewPlanarArray(req types.PlanarRequest) (*PlanarArray, error) {
	a := &PlanarArray{}
	var rows, cols []float64

	switch req.ArrayType {
	case types.ArrayRect, types.ArrayTri:
		if len(req.NumElem) != 2 || len(req.ElementSpacing) != 2 {
			return nil, apperrors.New(apperrors.ErrCodeValidation,
				"rect and tri arrays need two element counts and two spacings")
		}
		nx, ny := req.NumElem[0], req.NumElem[1]
		if nx < 1 || ny < 1 {
			return nil, apperrors.New(apperrors.ErrCodeValidation, "element counts must be positive")
		}
		if req.ElementSpacing[0] <= 0 || req.ElementSpacing[1] <= 0 {
			return nil, apperrors.New(apperrors.ErrCodeValidation, "element spacing must be positive")
		}
		rows = make([]float64, nx)
		for i := range rows {
			rows[i] = float64(i) * req.ElementSpacing[0]
		}
		cols = make([]float64, ny)
		for j := range cols {
			cols[j] = float64(j) * req.ElementSpacing[1]
		}
		// Tri lattices shift every other row by half a column spacing.
		shift := 0.0
		if req.ArrayType == types.ArrayTri {
			shift = 0.5 * req.ElementSpacing[1]
		}
		for j := range cols {
			for i := range rows {
				x := cols[j]
				if i%2 == 0 {
					x += shift
				}
				a.x = append(a.x, x)
				a.y = append(a.y, rows[i])
			}
		}

	case types.ArrayCirc:
		if len(req.NumElem) == 0 || len(req.NumElem) != len(req.Radius) {
			return nil, apperrors.New(apperrors.ErrCodeValidation,
				"circ arrays need matching ring count and radius lists")
		}
		for ring, n := range req.NumElem {
			if n < 1 {
				return nil, apperrors.New(apperrors.ErrCodeValidation, "ring counts must be positive")
			}
			r := req.Radius[ring]
			if r <= 0 {
				return nil, apperrors.New(apperrors.ErrCodeValidation, "ring radii must be positive")
			}
			for k := 0; k < n; k++ {
				ang := 2 * math.Pi * float64(k) / float64(n)
				a.x = append(a.x, r*math.Cos(ang))
				a.y = append(a.y, r*math.Sin(ang))
			}
		}

	default:
		return nil, apperrors.Newf(apperrors.ErrCodeBadTopology, "%q is not a valid planar array type", req.ArrayType)
	}

	a.buildGrid()
	if req.ArrayType == types.ArrayRect {
		if err := a.evalSeparable(rows, cols, req); err != nil {
			return nil, err
		}
	} else {
		a.evalGeneral(req)
	}
	return a, nil
}

// buildGrid sizes the theta/phi evaluation grid from the array aperture so
// the main beam is resolved, with at least 1-degree theta resolution.
func (a *PlanarArray) buildGrid() {
	spanX := maxOf(a.x) - minOf(a.x)
	spanY := maxOf(a.y) - minOf(a.y)
	arrayLength := math.Hypot(spanX, spanY)

	nt := 181
	if arrayLength > 0 {
		nt = int(180 / (51 / arrayLength / 4))
		nt += (nt + 1) % 2
		if nt < 181 {
			nt = 181
		}
	}
	a.theta = linspace(0, 180, nt)
	a.phi = linspace(0, 360, 2*nt-1)
}

// evalSeparable computes the rect-lattice pattern as the product of row and
// column factors, applying the requested taper along each axis.
func (a *PlanarArray) evalSeparable(rows, cols []float64, req types.PlanarRequest) error {
	wRow, err := taperWeights(len(rows), req.Window, req.SLL)
	if err != nil {
		return err
	}
	wCol, err := taperWeights(len(cols), req.Window, req.SLL)
	if err != nil {
		return err
	}

	sinT0 := math.Sin(rad(req.ScanAngle[0]))
	phaseRow := make([]float64, len(rows))
	for i, y := range rows {
		phaseRow[i] = -2 * math.Pi * y * sinT0 * math.Sin(rad(req.ScanAngle[1]))
	}
	phaseCol := make([]float64, len(cols))
	for j, x := range cols {
		phaseCol[j] = -2 * math.Pi * x * sinT0 * math.Cos(rad(req.ScanAngle[1]))
	}

	field := make([][]complex128, len(a.phi))
	for p, phiDeg := range a.phi {
		field[p] = make([]complex128, len(a.theta))
		cosP, sinP := math.Cos(rad(phiDeg)), math.Sin(rad(phiDeg))
		for t, thetaDeg := range a.theta {
			sinT := math.Sin(rad(thetaDeg))
			var afRow, afCol complex128
			for i, y := range rows {
				afRow += complex(wRow[i], 0) * cmplx.Exp(complex(0, phaseRow[i]+2*math.Pi*y*sinP*sinT))
			}
			for j, x := range cols {
				afCol += complex(wCol[j], 0) * cmplx.Exp(complex(0, phaseCol[j]+2*math.Pi*x*cosP*sinT))
			}
			field[p][t] = afRow * afCol
		}
	}
	a.finishPattern(field, req.ElementPattern, 89.0)
	return nil
}

// evalGeneral computes the pattern element by element for tri and circ
// lattices, uniform weights.
func (a *PlanarArray) evalGeneral(req types.PlanarRequest) {
	sinT0 := math.Sin(rad(req.ScanAngle[0]))
	phase := make([]float64, len(a.x))
	for i := range a.x {
		phase[i] = -2 * math.Pi * sinT0 *
			(a.x[i]*math.Cos(rad(req.ScanAngle[1])) + a.y[i]*math.Sin(rad(req.ScanAngle[1])))
	}

	field := make([][]complex128, len(a.phi))
	for p, phiDeg := range a.phi {
		field[p] = make([]complex128, len(a.theta))
		cosP, sinP := math.Cos(rad(phiDeg)), math.Sin(rad(phiDeg))
		for t, thetaDeg := range a.theta {
			sinT := math.Sin(rad(thetaDeg))
			var sum complex128
			for i := range a.x {
				sum += cmplx.Exp(complex(0, phase[i]+2*math.Pi*sinT*(a.x[i]*cosP+a.y[i]*sinP)))
			}
			field[p][t] = sum
		}
	}
	a.finishPattern(field, req.ElementPattern, 89.5)
}

// finishPattern applies the element envelope, normalizes |AF|^2 to unit
// integral over the sphere, and stores the pattern in dB.  The cosine
// envelope is clamped near the horizon so back-hemisphere values stay
// finite.
func (a *PlanarArray) finishPattern(field [][]complex128, elementPattern bool, clampDeg float64) {
	cosClamp := math.Cos(rad(clampDeg))
	if elementPattern {
		for p := range field {
			for t, thetaDeg := range a.theta {
				c := math.Cos(rad(thetaDeg))
				if thetaDeg > 89 {
					c = cosClamp
				}
				field[p][t] *= complex(c, 0)
			}
		}
	}

	deltaTheta := rad(a.theta[1] - a.theta[0])
	deltaPhi := rad(a.phi[1] - a.phi[0])
	var integral float64
	for p := range field {
		for t, v := range field[p] {
			integral += (real(v)*real(v) + imag(v)*imag(v)) * math.Sin(rad(a.theta[t]))
		}
	}
	integral *= deltaTheta * deltaPhi / (4 * math.Pi)
	norm := math.Sqrt(integral)

	a.pattern = make([][]float64, len(field))
	for p := range field {
		a.pattern[p] = make([]float64, len(field[p]))
		for t, v := range field[p] {
			a.pattern[p][t] = db20(cmplx.Abs(v) / norm)
		}
	}
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

func minOf(x []float64) float64 {
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// PatternCut returns the theta -180..180 cut through the given azimuth,
// stitched from the phi slice and its back half.
func (a *PlanarArray) PatternCut(cutAngle float64) (theta, g []float64) {
	cut := math.Mod(cutAngle, 360)
	if cut < 0 {
		cut += 360
	}
	idxFront := nearestIndex(a.phi, cut)
	idxBack := nearestIndex(a.phi, math.Mod(180+cut, 360))

	nt := len(a.theta)
	theta = make([]float64, 0, 2*nt-1)
	g = make([]float64, 0, 2*nt-1)
	for t := nt - 1; t >= 1; t-- {
		theta = append(theta, -a.theta[t])
		g = append(g, a.pattern[idxBack][t])
	}
	for t := 0; t < nt; t++ {
		theta = append(theta, a.theta[t])
		g = append(g, a.pattern[idxFront][t])
	}
	return theta, g
}

func nearestIndex(x []float64, target float64) int {
	return argminAbsDelta(x, 0, len(x), target)
}

// thetaIdx and phiIdx exploit the uniform grids for constant-time nearest
// lookups; the bulk payload builders hit them per cell.
func (a *PlanarArray) thetaIdx(deg float64) int {
	step := a.theta[1] - a.theta[0]
	i := int(math.Round(deg / step))
	if i < 0 {
		i = 0
	}
	if i >= len(a.theta) {
		i = len(a.theta) - 1
	}
	return i
}

func (a *PlanarArray) phiIdx(deg float64) int {
	step := a.phi[1] - a.phi[0]
	i := int(math.Round(deg/step)) % (len(a.phi) - 1)
	if i < 0 {
		i += len(a.phi) - 1
	}
	return i
}

// Metrics extracts the pattern summary from the cut, restricted to the
// ±90 degree front hemisphere, values rounded to 0.1.
func (a *PlanarArray) Metrics(cutAngle float64) patternMetrics {
	theta, g := a.PatternCut(cutAngle)
	lo := nearestIndex(theta, -90)
	hi := nearestIndex(theta, 90)
	m := extractMetrics(theta[lo:hi+1], g[lo:hi+1], -1, -100)
	m.Gain = round1(m.Gain)
	m.PeakAngle = round1(m.PeakAngle)
	m.SLL = round1(m.SLL)
	m.HPBW = round1(m.HPBW)
	return m
}

// ManifoldXY returns the centered element coordinates.
func (a *PlanarArray) ManifoldXY() (x, y []float64) {
	return centered(a.x), centered(a.y)
}

func centered(v []float64) []float64 {
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x - mean
	}
	return out
}

// Polar3DData builds the 3-D surface payload: the pattern mapped to a radial
// surface clipped to the top gRangeDB, plus normalized element positions for
// the manifold overlay.
func (a *PlanarArray) Polar3DData() *types.Polar3DData {
	peak := patternPeak(a.pattern)

	np, nt := len(a.phi), len(a.theta)
	d := &types.Polar3DData{
		X:         make([][]float64, np),
		Y:         make([][]float64, np),
		Z:         make([][]float64, np),
		Intensity: make([][]float64, np),
		Peak:      peak,
		GRange:    gRangeDB,
	}
	for p := range a.pattern {
		d.X[p] = make([]float64, nt)
		d.Y[p] = make([]float64, nt)
		d.Z[p] = make([]float64, nt)
		d.Intensity[p] = make([]float64, nt)
		sinP, cosP := math.Sin(rad(a.phi[p])), math.Cos(rad(a.phi[p]))
		for t := range a.pattern[p] {
			g := a.pattern[p][t] - peak + gRangeDB
			if g < 0 {
				g = 0
			}
			sinT, cosT := math.Sin(rad(a.theta[t])), math.Cos(rad(a.theta[t]))
			d.X[p][t] = g * sinT * cosP
			d.Y[p][t] = g * sinT * sinP
			d.Z[p][t] = g * cosT
			d.Intensity[p][t] = g
		}
	}

	cx, cy := a.ManifoldXY()
	scale := math.Max(math.Max(maxOf(cx), maxOf(cy)), 0.1)
	d.ArrayX = make([]float64, len(cx))
	d.ArrayY = make([]float64, len(cy))
	for i := range cx {
		d.ArrayX[i] = cx[i] / scale * gRangeDB / 2
		d.ArrayY[i] = cy[i] / scale * gRangeDB / 2
	}
	return d
}

// ContourData builds the full-sphere intensity grid, mirrored to theta and
// phi -180..180 ranges and floored at the display dynamic range.
func (a *PlanarArray) ContourData() *types.ContourData {
	nt, np := len(a.theta), len(a.phi)

	thetaT := make([]float64, 0, 2*nt-1)
	for t := nt - 1; t >= 1; t-- {
		thetaT = append(thetaT, -a.theta[t])
	}
	thetaT = append(thetaT, a.theta...)

	phiT := make([]float64, 0, 2*np-1)
	for p := np - 1; p >= 1; p-- {
		phiT = append(phiT, -a.phi[p])
	}
	phiT = append(phiT, a.phi...)

	// Negative theta at azimuth phi is the same direction as positive theta
	// at azimuth phi+180; negative phi wraps modulo 360.
	grid := make([][]float64, len(phiT))
	for pi, phiDeg := range phiT {
		grid[pi] = make([]float64, len(thetaT))
		for ti, thetaDeg := range thetaT {
			phi := phiDeg
			theta := thetaDeg
			if theta < 0 {
				theta = -theta
				phi += 180
			}
			grid[pi][ti] = a.pattern[a.phiIdx(phi)][a.thetaIdx(theta)]
		}
	}

	peak := patternPeak(grid)
	floor := peak - gRangeDB
	for pi := range grid {
		for ti := range grid[pi] {
			if grid[pi][ti] < floor {
				grid[pi][ti] = floor
			}
		}
	}
	return &types.ContourData{
		Theta:     thetaT,
		Phi:       phiT,
		Intensity: grid,
		Peak:      peak,
		GRange:    gRangeDB,
	}
}

func patternPeak(g [][]float64) float64 {
	peak := math.Inf(-1)
	for _, row := range g {
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
	}
	return peak
}

// AnalyzePlanar serves one planar analyze request end to end.
func AnalyzePlanar(req types.PlanarRequest) (*types.AnalysisResult, error) {
	switch req.PlotType {
	case types.PlotPatternCut, types.PlotManifold, types.PlotPolar3D,
		types.PlotContour, types.PlotPolarSurf, "":
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeBadPlotType, "unknown plot type %q", req.PlotType)
	}

	arr, err := NewPlanarArray(req)
	if err != nil {
		return nil, err
	}

	if req.PlotType == types.PlotManifold {
		mx, my := arr.ManifoldXY()
		return &types.AnalysisResult{ManifoldX: mx, ManifoldY: my}, nil
	}

	m := arr.Metrics(req.CutAngle)
	res := &types.AnalysisResult{
		Gain:      m.Gain,
		PeakAngle: m.PeakAngle,
		SLL:       m.SLL,
		HPBW:      m.HPBW,
	}

	switch req.PlotType {
	case types.PlotPatternCut, "":
		theta, g := arr.PatternCut(req.CutAngle)
		for i, v := range g {
			if v < patternFloorDB || math.IsNaN(v) || math.IsInf(v, -1) {
				g[i] = patternFloorDB
			}
		}
		res.Theta = theta
		res.Pattern = g
		res.ManifoldX, res.ManifoldY = arr.ManifoldXY()
		cut := req.CutAngle
		res.CutAngle = &cut
		res.YMax = yAxisMax(g)
		res.YMin = res.YMax - 40
	case types.PlotPolar3D:
		res.Polar3D = arr.Polar3DData()
	case types.PlotContour:
		res.Contour = arr.ContourData()
	case types.PlotPolarSurf:
		res.PlotPNG = arr.polarSurfPNG()
	}
	return res, nil
}
