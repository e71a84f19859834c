package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
)

func TestNamedWindowShapes(t *testing.T) {
	w, err := namedWindow("boxcar", 8)
	require.NoError(t, err)
	for _, v := range w {
		assert.Equal(t, 1.0, v)
	}

	w, err = namedWindow("hamming", 9)
	require.NoError(t, err)
	assert.InDelta(t, 0.08, w[0], 1e-9)
	assert.InDelta(t, 0.08, w[8], 1e-9)
	assert.InDelta(t, 1.0, w[4], 1e-9)

	w, err = namedWindow("hann", 9)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, w[0], 1e-9)
	assert.InDelta(t, 1.0, w[4], 1e-9)
}

func TestNamedWindowSymmetric(t *testing.T) {
	for _, name := range []string{"hamming", "hann", "blackman", "blackmanharris"} {
		w, err := namedWindow(name, 12)
		require.NoError(t, err)
		for i := range w {
			assert.InDelta(t, w[len(w)-1-i], w[i], 1e-9, "%s not symmetric at %d", name, i)
		}
	}
}

func TestNamedWindowUnknown(t *testing.T) {
	_, err := namedWindow("kaiser9000", 8)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBadWindow))
}

func TestNamedWindowSingleElement(t *testing.T) {
	w, err := namedWindow("hann", 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, w)
}

func TestTaylorTaper(t *testing.T) {
	w := taylorTaper(16, 5, 30)
	require.Len(t, w, 16)
	// Peak in the middle, normalized to one, symmetric, edges tapered.
	for i := range w {
		assert.InDelta(t, w[len(w)-1-i], w[i], 1e-9)
		assert.LessOrEqual(t, w[i], 1.0+1e-12)
		assert.Greater(t, w[i], 0.0)
	}
	assert.InDelta(t, 1.0, (w[7]+w[8])/2, 0.01)
	assert.Less(t, w[0], w[7])
}

func TestChebyshevTaper(t *testing.T) {
	w := chebyshevTaper(16, 60)
	require.Len(t, w, 16)
	peak := 0.0
	for i := range w {
		assert.InDelta(t, w[len(w)-1-i], w[i], 1e-9)
		assert.LessOrEqual(t, w[i], 1.0+1e-9)
		assert.Greater(t, w[i], 0.0)
		if w[i] > peak {
			peak = w[i]
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-9, "weights are normalized to a unit peak")
	// Deeper side lobe targets taper the edges harder.
	w80 := chebyshevTaper(16, 80)
	assert.Less(t, w80[0]/w80[7], w[0]/w[7])
}

func TestTaperWeightsSelection(t *testing.T) {
	name := "hamming"
	sll := 25.0
	deep := 60.0

	w, err := taperWeights(8, &name, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.08, w[0], 1e-9)

	// SLL below 50 → Taylor; 50 and above → Chebyshev; both taper edges.
	w, err = taperWeights(8, nil, &sll)
	require.NoError(t, err)
	assert.Less(t, w[0], 1.0)

	w, err = taperWeights(8, nil, &deep)
	require.NoError(t, err)
	assert.Less(t, w[0], 1.0)

	w, err = taperWeights(8, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uniformWeights(8), w)
}
