// Package types defines the wire-level request and response structures of the
// array analysis HTTP contract.  The SDK client marshals them, the bundled
// demo backend serves them, and the engine consumes them; field names follow
// the service API exactly.
package types

// Analysis mode identifiers.
const (
	ModeLinear = "linear"
	ModePlanar = "planar"
)

// Linear plot coordinate systems.
const (
	PlotCartesian = "cartesian"
	PlotPolar     = "polar"
)

// Planar plot kinds.
const (
	PlotPatternCut = "pattern_cut"
	PlotManifold   = "manifold"
	PlotPolar3D    = "polar3d"
	PlotContour    = "contour"
	PlotPolarSurf  = "polarsurf"
)

// Planar array topologies.
const (
	ArrayRect = "rect"
	ArrayTri  = "tri"
	ArrayCirc = "circ"
)

// WindowNames lists the named amplitude tapers the analysis service accepts.
var WindowNames = []string{"boxcar", "hamming", "hann", "blackman", "blackmanharris"}

// LinearRequest is the body of POST /api/linear-array/analyze.
// Window and SLL are mutually exclusive taper selectors; both nil means a
// uniform taper.
type LinearRequest struct {
	NumElem        int      `json:"num_elem"`
	ElementSpacing float64  `json:"element_spacing"`
	ScanAngle      float64  `json:"scan_angle"`
	ElementPattern bool     `json:"element_pattern"`
	ElementGain    float64  `json:"element_gain"`
	Window         *string  `json:"window"`
	SLL            *float64 `json:"SLL"`
	PlotType       string   `json:"plot_type"`
	ShowManifold   bool     `json:"show_manifold"`
	Annotate       bool     `json:"annotate,omitempty"`
}

// PlanarRequest is the body of POST /api/planar-array/analyze.
// For rect and tri topologies NumElem and ElementSpacing carry one value per
// axis; for circ, NumElem carries one element count per ring and Radius one
// radius per ring, and the two lists must be of equal length.
type PlanarRequest struct {
	ArrayType      string     `json:"array_type"`
	NumElem        []int      `json:"num_elem"`
	ElementSpacing []float64  `json:"element_spacing,omitempty"`
	Radius         []float64  `json:"radius,omitempty"`
	ScanAngle      [2]float64 `json:"scan_angle"`
	ElementPattern bool       `json:"element_pattern"`
	Window         *string    `json:"window"`
	SLL            *float64   `json:"SLL"`
	PlotType       string     `json:"plot_type"`
	CutAngle       float64    `json:"cut_angle"`
}

// Annotation is a plot callout the service attaches to cartesian linear
// responses when Annotate is set (peak, HPBW, SLL markers).
type Annotation struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
}

// Polar3DData is the surface and element-position payload attached to
// polar3d responses.
type Polar3DData struct {
	X         [][]float64 `json:"x"`
	Y         [][]float64 `json:"y"`
	Z         [][]float64 `json:"z"`
	Intensity [][]float64 `json:"intensity"`
	ArrayX    []float64   `json:"array_x"`
	ArrayY    []float64   `json:"array_y"`
	Peak      float64     `json:"peak"`
	GRange    float64     `json:"g_range"`
}

// ContourData is the intensity matrix payload attached to contour responses.
// Theta and Phi are the 1-D axis vectors of the Intensity grid, which is
// indexed [phi][theta].
type ContourData struct {
	Theta     []float64   `json:"theta"`
	Phi       []float64   `json:"phi"`
	Intensity [][]float64 `json:"intensity"`
	Peak      float64     `json:"peak"`
	GRange    float64     `json:"g_range"`
}

// AnalysisResult is the success response of both analyze endpoints.  Which
// fields are populated depends on the requested plot kind; Theta/Pattern are
// present for cartesian, polar, and pattern-cut responses.  Element manifold
// coordinates are always flattened 1-D lists.
type AnalysisResult struct {
	Theta   []float64 `json:"theta,omitempty"`
	Pattern []float64 `json:"pattern,omitempty"`

	Gain      float64 `json:"gain"`
	PeakAngle float64 `json:"peak_angle"`
	SLL       float64 `json:"sll"`
	HPBW      float64 `json:"hpbw"`

	YMin float64 `json:"ymin,omitempty"`
	YMax float64 `json:"ymax,omitempty"`

	Manifold  []float64 `json:"manifold,omitempty"`
	ManifoldX []float64 `json:"manifold_x,omitempty"`
	ManifoldY []float64 `json:"manifold_y,omitempty"`

	CutAngle    *float64     `json:"cut_angle,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`

	Polar3D *Polar3DData `json:"data_polar3d,omitempty"`
	Contour *ContourData `json:"data_contour,omitempty"`

	// PlotPNG is a base64-encoded raster for plot kinds the service renders
	// server-side (polarsurf, and polar when requested as an image).
	PlotPNG string `json:"plot,omitempty"`
}

// HasPattern reports whether the result carries a plottable angle/gain pair.
// Trace keeping and axis derivation require it.
func (r *AnalysisResult) HasPattern() bool {
	return r != nil && len(r.Theta) > 0 && len(r.Pattern) > 0 && len(r.Theta) == len(r.Pattern)
}

// ErrorResponse is the JSON body returned by both endpoints on failure.
type ErrorResponse struct {
	Message string `json:"message"`
}
