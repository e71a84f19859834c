package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStoreLifecycle(t *testing.T) {
	s := NewResultStore()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Nil(t, s.Result())

	s.StartLoading()
	assert.Equal(t, PhaseLoading, s.Phase())

	res := patternResult(10)
	s.SetResult(res)
	assert.Equal(t, PhaseOK, s.Phase())
	assert.Same(t, res, s.Result())
}

func TestResultStoreErrorRetainsLastGood(t *testing.T) {
	s := NewResultStore()
	res := patternResult(10)
	s.SetResult(res)

	s.StartLoading()
	s.SetError("boom")
	assert.Equal(t, PhaseError, s.Phase())
	assert.Equal(t, "boom", s.Err())
	assert.Same(t, res, s.Result(), "a failure must not evict the last good result")

	// Starting the next request clears the banner.
	s.StartLoading()
	assert.Empty(t, s.Err())
	assert.Equal(t, PhaseLoading, s.Phase())
}

func TestResultStoreEndLoading(t *testing.T) {
	s := NewResultStore()
	s.StartLoading()
	s.EndLoading()
	assert.Equal(t, PhaseIdle, s.Phase(), "no retained result falls back to idle")

	s.SetResult(patternResult(10))
	s.StartLoading()
	s.EndLoading()
	assert.Equal(t, PhaseOK, s.Phase(), "a retained result falls back to ok")

	// Not loading: no-op.
	s.SetError("x")
	s.EndLoading()
	require.Equal(t, PhaseError, s.Phase())
}
