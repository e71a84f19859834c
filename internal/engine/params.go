// Package engine implements the live analysis synchronization core: parameter
// drafts and validation, debounced single-flight request scheduling against
// the analysis service, result reconciliation, pinned comparison traces, and
// auto-versus-manual axis range tracking.
//
// All state is owned by the Engine and mutated under one mutex.  Asynchronous
// settlements (debounce timers, HTTP responses) re-enter through the same
// lock and are discarded when a newer request has superseded them, so the
// externally observable request/result order always matches issuance order.
package engine

import (
	"fmt"
	"strings"

	"github.com/arraylab/beamtune/pkg/types"
)

// TaperMode selects how the amplitude taper is specified.
type TaperMode string

const (
	// TaperWindow selects a named window function.
	TaperWindow TaperMode = "window"
	// TaperSLL selects a taper synthesized for a target side-lobe level.
	TaperSLL TaperMode = "SLL"
)

// WindowUniform is the draft value for an untapered aperture; it maps to a
// nil window in the request body.
const WindowUniform = "uniform"

// LinearDraft holds the linear-mode fields exactly as last edited.  Numeric
// fields stay raw strings until the gate parses them, so in-progress typing
// never corrupts canonical state.
type LinearDraft struct {
	NumElem        string
	Spacing        string
	ScanAngle      string
	ElementPattern bool
	ElementGain    string
	Taper          TaperMode
	Window         string
	SLL            string
	PlotType       string
	ShowManifold   bool
}

// PlanarDraft holds the planar-mode fields as last edited.  RingCounts and
// RingRadii are comma-separated lists used only for the circ topology.
type PlanarDraft struct {
	ArrayType      string
	NumX           string
	NumY           string
	SpacingX       string
	SpacingY       string
	RingCounts     string
	RingRadii      string
	ScanTheta      string
	ScanPhi        string
	CutAngle       string
	ElementPattern bool
	Taper          TaperMode
	Window         string
	SLL            string
	PlotType       string
}

// DefaultLinearDraft returns the field values a fresh linear session starts
// with: an 8-element half-wavelength broadside array.
func DefaultLinearDraft() LinearDraft {
	return LinearDraft{
		NumElem:        "8",
		Spacing:        "0.5",
		ScanAngle:      "0",
		ElementPattern: true,
		ElementGain:    "0",
		Taper:          TaperWindow,
		Window:         WindowUniform,
		SLL:            "25",
		PlotType:       types.PlotCartesian,
	}
}

// DefaultPlanarDraft returns the field values a fresh planar session starts
// with: an 8×8 rectangular array at broadside.
func DefaultPlanarDraft() PlanarDraft {
	return PlanarDraft{
		ArrayType:      types.ArrayRect,
		NumX:           "8",
		NumY:           "8",
		SpacingX:       "0.5",
		SpacingY:       "0.5",
		RingCounts:     "8, 16, 24",
		RingRadii:      "0.5, 1.0, 1.5",
		ScanTheta:      "0",
		ScanPhi:        "0",
		CutAngle:       "0",
		ElementPattern: true,
		Taper:          TaperWindow,
		Window:         WindowUniform,
		SLL:            "25",
		PlotType:       types.PlotPatternCut,
	}
}

// LinearParams is the canonical, validated linear parameter set.
type LinearParams struct {
	NumElem        int
	Spacing        float64
	ScanAngle      float64
	ElementPattern bool
	ElementGain    float64
	Window         *string
	SLL            *float64
	PlotType       string
	ShowManifold   bool
}

// Request builds the wire body for this parameter set.
func (p LinearParams) Request() types.LinearRequest {
	return types.LinearRequest{
		NumElem:        p.NumElem,
		ElementSpacing: p.Spacing,
		ScanAngle:      p.ScanAngle,
		ElementPattern: p.ElementPattern,
		ElementGain:    p.ElementGain,
		Window:         p.Window,
		SLL:            p.SLL,
		PlotType:       p.PlotType,
		ShowManifold:   p.ShowManifold,
	}
}

// Label derives the display label used when the result of this parameter set
// is kept as a trace.  Identical parameters always produce identical labels.
func (p LinearParams) Label() string {
	return fmt.Sprintf("N=%d, d=%.2fλ, scan %.1f°, %s", p.NumElem, p.Spacing, p.ScanAngle, taperLabel(p.Window, p.SLL))
}

// PlanarParams is the canonical, validated planar parameter set.  For circ
// topology RingCounts/RingRadii are used; NumX/NumY/SpacingX/SpacingY apply
// to rect and tri.
type PlanarParams struct {
	ArrayType      string
	NumX, NumY     int
	SpacingX       float64
	SpacingY       float64
	RingCounts     []int
	RingRadii      []float64
	ScanTheta      float64
	ScanPhi        float64
	CutAngle       float64
	ElementPattern bool
	Window         *string
	SLL            *float64
	PlotType       string
}

// Incomplete reports whether the parameter set must be withheld from the
// scheduler: a circ topology whose ring-count and radius lists differ in
// length usually reflects in-progress typing, not invalid input.
func (p PlanarParams) Incomplete() bool {
	return p.ArrayType == types.ArrayCirc && len(p.RingCounts) != len(p.RingRadii)
}

// Request builds the wire body for this parameter set.
func (p PlanarParams) Request() types.PlanarRequest {
	req := types.PlanarRequest{
		ArrayType:      p.ArrayType,
		ScanAngle:      [2]float64{p.ScanTheta, p.ScanPhi},
		ElementPattern: p.ElementPattern,
		Window:         p.Window,
		SLL:            p.SLL,
		PlotType:       p.PlotType,
		CutAngle:       p.CutAngle,
	}
	if p.ArrayType == types.ArrayCirc {
		req.NumElem = append([]int(nil), p.RingCounts...)
		req.Radius = append([]float64(nil), p.RingRadii...)
	} else {
		req.NumElem = []int{p.NumX, p.NumY}
		req.ElementSpacing = []float64{p.SpacingX, p.SpacingY}
	}
	return req
}

// Label derives the trace display label for this parameter set.
func (p PlanarParams) Label() string {
	taper := taperLabel(p.Window, p.SLL)
	if p.ArrayType == types.ArrayCirc {
		counts := make([]string, len(p.RingCounts))
		for i, n := range p.RingCounts {
			counts[i] = fmt.Sprintf("%d", n)
		}
		return fmt.Sprintf("circ [%s], scan (%.1f°, %.1f°), %s",
			strings.Join(counts, ","), p.ScanTheta, p.ScanPhi, taper)
	}
	return fmt.Sprintf("%s %d×%d, d=%.2f×%.2fλ, scan (%.1f°, %.1f°), %s",
		p.ArrayType, p.NumX, p.NumY, p.SpacingX, p.SpacingY, p.ScanTheta, p.ScanPhi, taper)
}

// taperLabel renders the taper part of a trace label.
func taperLabel(window *string, sll *float64) string {
	switch {
	case sll != nil:
		return fmt.Sprintf("SLL %.0f dB", *sll)
	case window != nil:
		return *window
	default:
		return WindowUniform
	}
}

// ParameterStore holds the current drafts for both analysis modes.  Drafts
// are created with defaults at construction and mutated in place for the
// session lifetime; switching modes never resets the other mode's fields.
type ParameterStore struct {
	linear LinearDraft
	planar PlanarDraft
}

// NewParameterStore returns a store populated with the per-mode defaults.
func NewParameterStore() *ParameterStore {
	return &ParameterStore{
		linear: DefaultLinearDraft(),
		planar: DefaultPlanarDraft(),
	}
}

// Linear returns the current linear draft.
func (s *ParameterStore) Linear() LinearDraft { return s.linear }

// Planar returns the current planar draft.
func (s *ParameterStore) Planar() PlanarDraft { return s.planar }

// SetLinear replaces the linear draft.
func (s *ParameterStore) SetLinear(d LinearDraft) { s.linear = d }

// SetPlanar replaces the planar draft.
func (s *ParameterStore) SetPlanar(d PlanarDraft) { s.planar = d }
