package engine

import "github.com/arraylab/beamtune/pkg/types"

// Phase is the request lifecycle phase shown for one analysis mode.
type Phase int

const (
	// PhaseIdle means no request has been issued yet.
	PhaseIdle Phase = iota
	// PhaseLoading means a request is in flight.
	PhaseLoading
	// PhaseOK means the displayed result is current.
	PhaseOK
	// PhaseError means the latest request failed; the previous good result,
	// if any, is still retained for display.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseOK:
		return "ok"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ResultStore holds the most recent settled result for one mode.  A failed
// request records its message but never evicts the last good result, so the
// view keeps rendering stale-but-valid data next to the error banner.
//
// The store is not safe for concurrent use; the Engine guards it.
type ResultStore struct {
	phase  Phase
	result *types.AnalysisResult
	errMsg string
}

// NewResultStore returns an idle store.
func NewResultStore() *ResultStore { return &ResultStore{phase: PhaseIdle} }

// Phase returns the current lifecycle phase.
func (s *ResultStore) Phase() Phase { return s.phase }

// Result returns the last good result, or nil if none has arrived yet.
func (s *ResultStore) Result() *types.AnalysisResult { return s.result }

// Err returns the error message from the latest failed request, or "".
func (s *ResultStore) Err() string { return s.errMsg }

// StartLoading marks a new request in flight and clears any previous error.
func (s *ResultStore) StartLoading() {
	s.phase = PhaseLoading
	s.errMsg = ""
}

// SetResult records a successful settlement.
func (s *ResultStore) SetResult(r *types.AnalysisResult) {
	s.phase = PhaseOK
	s.result = r
	s.errMsg = ""
}

// SetError records a failed settlement, retaining the last good result.
func (s *ResultStore) SetError(msg string) {
	s.phase = PhaseError
	s.errMsg = msg
}

// EndLoading resolves a request that settled without data or error, such as
// one cancelled at teardown.  The phase falls back to what the retained
// content supports.
func (s *ResultStore) EndLoading() {
	if s.phase != PhaseLoading {
		return
	}
	if s.result != nil {
		s.phase = PhaseOK
	} else {
		s.phase = PhaseIdle
	}
}
