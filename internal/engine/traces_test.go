package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

func patternResult(ymax float64) *types.AnalysisResult {
	return &types.AnalysisResult{
		Theta:   []float64{-90, 0, 90},
		Pattern: []float64{-40, 0, -40},
		YMax:    ymax,
		YMin:    ymax - 40,
	}
}

func testParams(n int) LinearParams {
	return LinearParams{NumElem: n, Spacing: 0.5, PlotType: types.PlotCartesian}
}

func TestTraceKeepAssignsPaletteInOrder(t *testing.T) {
	m := NewTraceManager()
	for i := 0; i < 12; i++ {
		require.NoError(t, m.Keep(patternResult(5), testParams(i+1)))
	}
	traces := m.Traces()
	require.Len(t, traces, 12)
	for i, tr := range traces {
		assert.Equal(t, PaletteColor(i), tr.Color, "trace %d", i)
		assert.True(t, tr.Visible)
	}
	// The palette wraps after ten traces.
	assert.Equal(t, traces[0].Color, traces[10].Color)
	assert.Equal(t, traces[1].Color, traces[11].Color)
}

func TestTraceKeepRequiresPattern(t *testing.T) {
	m := NewTraceManager()
	err := m.Keep(nil, testParams(8))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoResult))

	err = m.Keep(&types.AnalysisResult{}, testParams(8))
	require.Error(t, err)
	assert.Zero(t, m.Len())
}

func TestTraceSnapshotIsImmutable(t *testing.T) {
	m := NewTraceManager()
	res := patternResult(10)
	require.NoError(t, m.Keep(res, testParams(8)))

	res.Pattern[1] = 99
	assert.Equal(t, 0.0, m.Traces()[0].Pattern[1], "kept trace must not alias the live result")
}

func TestTraceRemoveAdjustsHighlight(t *testing.T) {
	m := NewTraceManager()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Keep(patternResult(5), testParams(i+1)))
	}
	require.NoError(t, m.Highlight(2))

	require.NoError(t, m.Remove(0))
	assert.Equal(t, 1, m.Highlighted(), "highlight follows its trace left")

	require.NoError(t, m.Remove(1))
	assert.Equal(t, -1, m.Highlighted(), "removing the highlighted trace clears the highlight")

	assert.Error(t, m.Remove(5))
}

func TestTraceColorsNotRecycledOnRemoval(t *testing.T) {
	m := NewTraceManager()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Keep(patternResult(5), testParams(i+1)))
	}
	require.NoError(t, m.Remove(1))
	// Survivors keep their colors; the next keep is indexed by the new count.
	traces := m.Traces()
	assert.Equal(t, PaletteColor(0), traces[0].Color)
	assert.Equal(t, PaletteColor(2), traces[1].Color)

	require.NoError(t, m.Keep(patternResult(5), testParams(9)))
	assert.Equal(t, PaletteColor(2), m.Traces()[2].Color)
}

func TestTraceVisibilityAndYMax(t *testing.T) {
	m := NewTraceManager()
	require.NoError(t, m.Keep(patternResult(5), testParams(4)))
	require.NoError(t, m.Keep(patternResult(15), testParams(16)))

	max, ok := m.VisibleYMax()
	require.True(t, ok)
	assert.Equal(t, 15.0, max)

	require.NoError(t, m.SetVisible(1, false))
	max, ok = m.VisibleYMax()
	require.True(t, ok)
	assert.Equal(t, 5.0, max, "hidden traces stop contributing to bounds")

	tr := m.Traces()[1]
	assert.False(t, tr.Visible)
	assert.NotEmpty(t, tr.Label, "hidden traces keep slot and label")

	require.NoError(t, m.SetVisible(0, false))
	_, ok = m.VisibleYMax()
	assert.False(t, ok)
}

func TestTraceClear(t *testing.T) {
	m := NewTraceManager()
	require.NoError(t, m.Keep(patternResult(5), testParams(4)))
	require.NoError(t, m.Highlight(0))
	m.Clear()
	assert.Zero(t, m.Len())
	assert.Equal(t, -1, m.Highlighted())
}

func TestTraceLabelsComeFromParams(t *testing.T) {
	m := NewTraceManager()
	for i := 0; i < 2; i++ {
		p := testParams(8)
		require.NoError(t, m.Keep(patternResult(5), p))
	}
	traces := m.Traces()
	assert.Equal(t, traces[0].Label, traces[1].Label, "identical parameters produce identical labels")
	assert.Equal(t, fmt.Sprintf("N=%d, d=0.50λ, scan 0.0°, uniform", 8), traces[0].Label)
}
