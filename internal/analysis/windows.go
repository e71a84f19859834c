package analysis

import (
	"math"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
)

// taperWeights resolves the optional window/SLL taper selectors to element
// amplitude weights.  An SLL target below 50 dB synthesizes a Taylor taper
// (nbar=5); 50 dB and above uses Dolph-Chebyshev, whose equiripple side
// lobes hold the deeper targets better.
func taperWeights(n int, window *string, sll *float64) ([]float64, error) {
	if sll != nil && *sll != 0 {
		if *sll < 50 {
			return taylorTaper(n, 5, *sll), nil
		}
		return chebyshevTaper(n, *sll), nil
	}
	if window != nil && *window != "" {
		return namedWindow(*window, n)
	}
	return uniformWeights(n), nil
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// namedWindow returns the symmetric cosine-sum window of the given name.
func namedWindow(name string, n int) ([]float64, error) {
	var a []float64
	switch name {
	case "boxcar":
		return uniformWeights(n), nil
	case "hamming":
		a = []float64{0.54, 0.46}
	case "hann":
		a = []float64{0.5, 0.5}
	case "blackman":
		a = []float64{0.42, 0.5, 0.08}
	case "blackmanharris":
		a = []float64{0.35875, 0.48829, 0.14128, 0.01168}
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeBadWindow, "unknown window %q", name)
	}
	if n == 1 {
		return []float64{1}, nil
	}
	w := make([]float64, n)
	for k := range w {
		x := 2 * math.Pi * float64(k) / float64(n-1)
		for j, c := range a {
			if j%2 == 0 {
				w[k] += c * math.Cos(float64(j)*x)
			} else {
				w[k] -= c * math.Cos(float64(j)*x)
			}
		}
	}
	return w, nil
}

// taylorTaper synthesizes a Taylor n-bar amplitude taper for the given side
// lobe level in dB.
func taylorTaper(n, nbar int, sllDB float64) []float64 {
	if n == 1 {
		return []float64{1}
	}
	b := math.Pow(10, sllDB/20)
	a := math.Acosh(b) / math.Pi
	s2 := float64(nbar*nbar) / (a*a + (float64(nbar)-0.5)*(float64(nbar)-0.5))

	// F(m) coefficients of the space factor.
	fm := make([]float64, nbar)
	for m := 1; m < nbar; m++ {
		num, den := 1.0, 1.0
		for i := 1; i < nbar; i++ {
			num *= 1 - float64(m*m)/(s2*(a*a+(float64(i)-0.5)*(float64(i)-0.5)))
			if i != m {
				den *= 1 - float64(m*m)/float64(i*i)
			}
		}
		if m%2 == 0 {
			num = -num
		}
		fm[m] = num / (2 * den)
	}

	w := make([]float64, n)
	peak := 0.0
	for k := range w {
		xi := (float64(k) - float64(n-1)/2) / float64(n)
		v := 1.0
		for m := 1; m < nbar; m++ {
			v += 2 * fm[m] * math.Cos(2*math.Pi*float64(m)*xi)
		}
		w[k] = v
		if v > peak {
			peak = v
		}
	}
	for k := range w {
		w[k] /= peak
	}
	return w
}

// chebyshevTaper synthesizes a Dolph-Chebyshev taper with the given side
// lobe attenuation in dB, via the frequency-sampling construction.
func chebyshevTaper(n int, attDB float64) []float64 {
	if n == 1 {
		return []float64{1}
	}
	order := n - 1
	r := math.Pow(10, attDB/20)
	beta := math.Cosh(math.Acosh(r) / float64(order))

	p := make([]float64, n)
	for k := range p {
		p[k] = chebyshevT(order, beta*math.Cos(math.Pi*float64(k)/float64(n)))
	}

	// Inverse-transform the frequency samples; even lengths need the
	// half-sample phase shift.
	w := make([]float64, n)
	half := 0.0
	if n%2 == 0 {
		half = 0.5
	}
	peak := 0.0
	for i := range w {
		m := float64(i) - float64(n-1)/2
		v := 0.0
		for k := range p {
			v += p[k] * math.Cos(2*math.Pi*float64(k)*(m+half)/float64(n))
		}
		w[i] = v
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	for i := range w {
		w[i] = math.Abs(w[i]) / peak
	}
	return w
}

// chebyshevT evaluates the Chebyshev polynomial of the first kind.
func chebyshevT(order int, x float64) float64 {
	switch {
	case x > 1:
		return math.Cosh(float64(order) * math.Acosh(x))
	case x < -1:
		v := math.Cosh(float64(order) * math.Acosh(-x))
		if order%2 == 1 {
			return -v
		}
		return v
	default:
		return math.Cos(float64(order) * math.Acos(x))
	}
}
