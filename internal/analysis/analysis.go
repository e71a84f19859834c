// Package analysis computes antenna array factor patterns for the bundled
// demo backend: linear and planar geometries, amplitude tapers, pattern
// metrics (peak, side-lobe level, half-power beamwidth), and the derived
// plot payloads of the analyze endpoints.  The synchronization engine never
// imports this package; it talks to whatever service answers the HTTP
// contract.
package analysis

import "math"

// db20 converts a field magnitude to dB.
func db20(x float64) float64 {
	return 20 * math.Log10(math.Abs(x))
}

// patternFloorDB is the clamp applied to pattern values before they go on
// the wire; deep nulls below it carry no visual information.
const patternFloorDB = -100

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

func argmax(x []float64) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}

// argminAbsDelta returns the index in x[lo:hi] whose value is closest to
// target, as an absolute index.
func argminAbsDelta(x []float64, lo, hi int, target float64) int {
	best := lo
	for i := lo; i < hi; i++ {
		if math.Abs(x[i]-target) < math.Abs(x[best]-target) {
			best = i
		}
	}
	return best
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func maxOf(x []float64) float64 {
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// patternMetrics is the peak/SLL/HPBW summary of a one-dimensional cut.
type patternMetrics struct {
	Gain      float64
	PeakAngle float64
	SLL       float64
	HPBW      float64
}

// extractMetrics derives the pattern summary from a dB cut, assuming a
// single main beam.  It locates the nulls bracketing the peak by derivative
// sign changes, measures the -3 dB width between them, and takes the side
// lobe level from the regions outside.  Degenerate patterns (peak on a
// plateau or at the scan edge) fall back to the given sentinel values, the
// same ones the service has always reported for them.
func extractMetrics(thetaDeg, g []float64, hpbwFallback, sllFallback float64) patternMetrics {
	idxPeak := argmax(g)
	m := patternMetrics{
		Gain:      g[idxPeak],
		PeakAngle: thetaDeg[idxPeak],
		SLL:       sllFallback,
		HPBW:      hpbwFallback,
	}
	n := len(g)
	if n < 3 {
		return m
	}

	// Indices of derivative sign changes (local peaks and nulls), with both
	// endpoints always included.
	csIdx := []int{0}
	for i := 1; i < n-1; i++ {
		if -sign(g[i]-g[i-1])*sign(g[i+1]-g[i]) == 1 {
			csIdx = append(csIdx, i)
		}
	}
	csIdx = append(csIdx, n-1)

	pos := -1
	for i, idx := range csIdx {
		if idx == idxPeak {
			pos = i
			break
		}
	}
	if pos <= 0 || pos >= len(csIdx)-1 {
		return m
	}
	nullL, nullR := csIdx[pos-1], csIdx[pos+1]

	if nullL < idxPeak && idxPeak < nullR {
		idx3L := argminAbsDelta(g, nullL, idxPeak, m.Gain-3)
		idx3R := argminAbsDelta(g, idxPeak, nullR, m.Gain-3)
		m.HPBW = thetaDeg[idx3R] - thetaDeg[idx3L]
	}
	if nullL > 0 {
		m.SLL = m.Gain - math.Max(maxOf(g[:nullL]), maxOf(g[nullR:]))
	}
	return m
}
