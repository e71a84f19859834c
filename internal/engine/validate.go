package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arraylab/beamtune/pkg/types"
)

// Validation limits.  Geometry bounds keep the demo backend's dense-grid
// evaluation tractable; angle bounds match the physical steering range.
const (
	minLinearElements = 1
	maxLinearElements = 1000
	minPlanarElements = 1
	maxPlanarElements = 100
	minSpacing        = 0.1
	maxSpacing        = 10.0
	minElevation      = -90.0
	maxElevation      = 90.0
	minAzimuth        = -360.0
	maxAzimuth        = 360.0
	minGainDB         = -30.0
	maxGainDB         = 30.0
	minSLLdB          = 5.0
	maxSLLdB          = 100.0
	maxRingRadius     = 100.0
)

// Violation describes a single failed field check.  Field names match the
// draft field they refer to so the view can attach messages to inputs.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string { return v.Field + ": " + v.Message }

// violations accumulates checks while parsing a draft.
type violations []Violation

func (vs *violations) addf(field, format string, args ...interface{}) {
	*vs = append(*vs, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (vs *violations) parseInt(field, raw string, min, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		vs.addf(field, "must be a whole number")
		return 0
	}
	if n < min || n > max {
		vs.addf(field, "must be between %d and %d", min, max)
	}
	return n
}

func (vs *violations) parseFloat(field, raw string, min, max float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		vs.addf(field, "must be a number")
		return 0
	}
	// ParseFloat accepts "NaN" and "Inf", and NaN compares false against
	// both bounds below.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		vs.addf(field, "must be a finite number")
		return 0
	}
	if f < min || f > max {
		vs.addf(field, "must be between %g and %g", min, max)
	}
	return f
}

// parseIntList parses a comma-separated list of positive integers.  An empty
// string yields an empty list without a violation; list lengths are judged by
// the scheduler, not the gate.
func (vs *violations) parseIntList(field, raw string, min, max int) []int {
	var out []int
	for _, tok := range splitList(raw) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			vs.addf(field, "%q is not a whole number", tok)
			continue
		}
		if n < min || n > max {
			vs.addf(field, "%d is out of range [%d, %d]", n, min, max)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (vs *violations) parseFloatList(field, raw string, min, max float64) []float64 {
	var out []float64
	for _, tok := range splitList(raw) {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			vs.addf(field, "%q is not a number", tok)
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			vs.addf(field, "%q is not a finite number", tok)
			continue
		}
		if f < min || f > max {
			vs.addf(field, "%g is out of range [%g, %g]", f, min, max)
			continue
		}
		out = append(out, f)
	}
	return out
}

func splitList(raw string) []string {
	var toks []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			toks = append(toks, tok)
		}
	}
	return toks
}

// taperFields resolves the taper selection to the optional window/SLL pair
// carried on the wire.  Exactly one of the two is set for a tapered aperture;
// both stay nil for uniform.
func (vs *violations) taperFields(mode TaperMode, window, sll string) (*string, *float64) {
	switch mode {
	case TaperSLL:
		v := vs.parseFloat("SLL", sll, minSLLdB, maxSLLdB)
		return nil, &v
	case TaperWindow, "":
		w := strings.TrimSpace(window)
		if w == "" || w == WindowUniform {
			return nil, nil
		}
		if !validWindow(w) {
			vs.addf("Window", "unknown window %q", w)
			return nil, nil
		}
		return &w, nil
	default:
		vs.addf("Taper", "unknown taper mode %q", mode)
		return nil, nil
	}
}

func validWindow(name string) bool {
	for _, w := range types.WindowNames {
		if w == name {
			return true
		}
	}
	return false
}

// ValidateLinear parses a linear draft into canonical parameters.  It is pure:
// it touches no engine state and has no side effects.  The returned parameters
// are meaningful only when the violation list is empty.
func ValidateLinear(d LinearDraft) (LinearParams, []Violation) {
	var vs violations
	p := LinearParams{
		ElementPattern: d.ElementPattern,
		ShowManifold:   d.ShowManifold,
		PlotType:       d.PlotType,
	}
	p.NumElem = vs.parseInt("NumElem", d.NumElem, minLinearElements, maxLinearElements)
	p.Spacing = vs.parseFloat("Spacing", d.Spacing, minSpacing, maxSpacing)
	p.ScanAngle = vs.parseFloat("ScanAngle", d.ScanAngle, minElevation, maxElevation)
	if d.ElementPattern {
		p.ElementGain = vs.parseFloat("ElementGain", d.ElementGain, minGainDB, maxGainDB)
	}
	p.Window, p.SLL = vs.taperFields(d.Taper, d.Window, d.SLL)
	switch d.PlotType {
	case types.PlotCartesian, types.PlotPolar:
	default:
		vs.addf("PlotType", "unknown plot type %q", d.PlotType)
	}
	return p, vs
}

// ValidatePlanar parses a planar draft into canonical parameters.  A circ
// draft whose ring lists differ in length is not a violation; the mismatch is
// reported via PlanarParams.Incomplete and the scheduler withholds the
// request until the lists agree.
func ValidatePlanar(d PlanarDraft) (PlanarParams, []Violation) {
	var vs violations
	p := PlanarParams{
		ArrayType:      d.ArrayType,
		ElementPattern: d.ElementPattern,
		PlotType:       d.PlotType,
	}
	switch d.ArrayType {
	case types.ArrayRect, types.ArrayTri:
		p.NumX = vs.parseInt("NumX", d.NumX, minPlanarElements, maxPlanarElements)
		p.NumY = vs.parseInt("NumY", d.NumY, minPlanarElements, maxPlanarElements)
		p.SpacingX = vs.parseFloat("SpacingX", d.SpacingX, minSpacing, maxSpacing)
		p.SpacingY = vs.parseFloat("SpacingY", d.SpacingY, minSpacing, maxSpacing)
	case types.ArrayCirc:
		p.RingCounts = vs.parseIntList("RingCounts", d.RingCounts, minPlanarElements, maxPlanarElements)
		p.RingRadii = vs.parseFloatList("RingRadii", d.RingRadii, minSpacing, maxRingRadius)
		if len(p.RingCounts) == 0 {
			vs.addf("RingCounts", "at least one ring is required")
		}
	default:
		vs.addf("ArrayType", "unknown array type %q", d.ArrayType)
	}
	p.ScanTheta = vs.parseFloat("ScanTheta", d.ScanTheta, minElevation, maxElevation)
	p.ScanPhi = vs.parseFloat("ScanPhi", d.ScanPhi, minAzimuth, maxAzimuth)
	p.Window, p.SLL = vs.taperFields(d.Taper, d.Window, d.SLL)
	switch d.PlotType {
	case types.PlotPatternCut:
		p.CutAngle = vs.parseFloat("CutAngle", d.CutAngle, minAzimuth, maxAzimuth)
	case types.PlotManifold, types.PlotPolar3D, types.PlotContour, types.PlotPolarSurf:
	default:
		vs.addf("PlotType", "unknown plot type %q", d.PlotType)
	}
	return p, vs
}
