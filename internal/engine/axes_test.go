package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisAutoTracksWhileUntouched(t *testing.T) {
	a := NewAxisRange()
	assert.False(t, a.Y.Max.IsSet())

	require.True(t, a.AutoY(-30, 10))
	assert.Equal(t, BoundAuto, a.Y.Max.State())
	assert.Equal(t, 10.0, a.Y.Max.Value())
	assert.Equal(t, -30.0, a.Y.Min.Value())

	// A later auto value keeps tracking.
	require.True(t, a.AutoY(-25, 15))
	assert.Equal(t, 15.0, a.Y.Max.Value())

	// Same value again reports no change.
	assert.False(t, a.AutoY(-25, 15))
}

func TestAxisUserValueIsSticky(t *testing.T) {
	a := NewAxisRange()
	a.AutoY(-30, 10)
	a.SetUserYMax(20)

	a.AutoY(-35, 5)
	assert.Equal(t, 20.0, a.Y.Max.Value(), "user-typed max must survive auto updates")
	assert.Equal(t, BoundUser, a.Y.Max.State())
	assert.Equal(t, -35.0, a.Y.Min.Value(), "untouched min keeps tracking")
}

func TestAxisUserValueEqualToOldAutoStillSticky(t *testing.T) {
	a := NewAxisRange()
	a.AutoY(-30, 10)
	// The user types the same number the engine had auto-set.
	a.SetUserYMax(10)

	a.AutoY(-25, 15)
	assert.Equal(t, 10.0, a.Y.Max.Value(), "provenance, not value equality, decides ownership")
}

func TestAxisClearRestoresTracking(t *testing.T) {
	a := NewAxisRange()
	a.SetUserYMax(20)
	a.SetUserYMin(-50)
	a.ClearY()
	assert.False(t, a.Y.Max.IsSet())

	a.AutoY(-30, 10)
	assert.Equal(t, 10.0, a.Y.Max.Value())
	assert.Equal(t, -30.0, a.Y.Min.Value())
}

func TestAxisLockSuppressesAuto(t *testing.T) {
	a := NewAxisRange()
	a.AutoY(-30, 10)
	a.LockY(true)

	assert.False(t, a.AutoY(-40, 0))
	assert.Equal(t, 10.0, a.Y.Max.Value())

	a.LockY(false)
	require.True(t, a.AutoY(-40, 0))
	assert.Equal(t, 0.0, a.Y.Max.Value())
}

func TestAxisStepsResetToDefaults(t *testing.T) {
	a := NewAxisRange()
	a.SetYStep(2)
	a.SetXStep(30)
	a.ResetSteps()
	assert.Equal(t, DefaultYStep, a.Y.Step)
	assert.Equal(t, DefaultXStep, a.X.Step)
}

func TestAxisXIndependentOfY(t *testing.T) {
	a := NewAxisRange()
	a.LockY(true)
	require.True(t, a.AutoX(-90, 90))
	assert.Equal(t, -90.0, a.X.Min.Value())
	assert.Equal(t, 90.0, a.X.Max.Value())
}
