package engine

import (
	"github.com/arraylab/beamtune/pkg/types"

	apperrors "github.com/arraylab/beamtune/pkg/errors"
)

// palette is the ten-color categorical cycle assigned to kept traces.
// Assignment is palette[count%len] at keep time; removing a trace does not
// recolor the survivors, so colors may repeat after interleaved removals.
var palette = [...]string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// PaletteColor returns the color a trace kept at the given count receives.
func PaletteColor(count int) string { return palette[count%len(palette)] }

// Labeler is implemented by canonical parameter sets; the label identifies
// the parameters a trace was computed from.
type Labeler interface {
	Label() string
}

// Trace is an immutable snapshot of one kept result.  Later edits and
// results never mutate it; the only mutable attribute is visibility.
type Trace struct {
	Label   string
	Color   string
	Visible bool
	Theta   []float64
	Pattern []float64
	YMax    float64
	HasYMax bool
	Params  Labeler
}

// TraceManager owns the pinned comparison traces for one analysis mode.
// Not safe for concurrent use; the Engine guards it.
type TraceManager struct {
	traces      []Trace
	highlighted int
}

// NewTraceManager returns an empty manager with no highlight.
func NewTraceManager() *TraceManager { return &TraceManager{highlighted: -1} }

// Keep pins the given result under the given parameters.  The result must
// carry pattern data; keeping a resultless state is rejected so the trace
// list never contains empty curves.
func (m *TraceManager) Keep(res *types.AnalysisResult, params Labeler) error {
	if res == nil || !res.HasPattern() {
		return apperrors.New(apperrors.ErrCodeNoResult, "no result to keep")
	}
	t := Trace{
		Label:   params.Label(),
		Color:   PaletteColor(len(m.traces)),
		Visible: true,
		Theta:   append([]float64(nil), res.Theta...),
		Pattern: append([]float64(nil), res.Pattern...),
		Params:  params,
	}
	t.YMax = res.YMax
	t.HasYMax = true
	m.traces = append(m.traces, t)
	return nil
}

// Clear removes all traces and the highlight.
func (m *TraceManager) Clear() {
	m.traces = nil
	m.highlighted = -1
}

// Remove deletes the trace at the given index.  The highlight follows the
// trace it pointed at, or clears if that trace was removed.
func (m *TraceManager) Remove(i int) error {
	if i < 0 || i >= len(m.traces) {
		return apperrors.Newf(apperrors.ErrCodeBadRequest, "trace index %d out of range", i)
	}
	m.traces = append(m.traces[:i], m.traces[i+1:]...)
	switch {
	case m.highlighted == i:
		m.highlighted = -1
	case m.highlighted > i:
		m.highlighted--
	}
	return nil
}

// SetVisible toggles whether the trace at the given index is drawn.  Hidden
// traces keep their slot, color, and label.
func (m *TraceManager) SetVisible(i int, visible bool) error {
	if i < 0 || i >= len(m.traces) {
		return apperrors.Newf(apperrors.ErrCodeBadRequest, "trace index %d out of range", i)
	}
	m.traces[i].Visible = visible
	return nil
}

// Highlight marks the trace at the given index for emphasis, or clears the
// highlight when the index is negative.
func (m *TraceManager) Highlight(i int) error {
	if i >= len(m.traces) {
		return apperrors.Newf(apperrors.ErrCodeBadRequest, "trace index %d out of range", i)
	}
	if i < 0 {
		i = -1
	}
	m.highlighted = i
	return nil
}

// Highlighted returns the highlighted index, or -1 when none.
func (m *TraceManager) Highlighted() int { return m.highlighted }

// Len returns the number of kept traces.
func (m *TraceManager) Len() int { return len(m.traces) }

// Traces returns a copy of the trace list safe to hand to the view.
func (m *TraceManager) Traces() []Trace {
	out := make([]Trace, len(m.traces))
	copy(out, m.traces)
	return out
}

// VisibleYMax returns the largest recorded Y-max among visible traces.
func (m *TraceManager) VisibleYMax() (float64, bool) {
	var best float64
	found := false
	for _, t := range m.traces {
		if !t.Visible || !t.HasYMax {
			continue
		}
		if !found || t.YMax > best {
			best = t.YMax
			found = true
		}
	}
	return best, found
}
