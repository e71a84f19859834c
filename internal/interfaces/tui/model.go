// Package tui is the terminal front-end for live array pattern tuning.  It
// renders the parameter form, the current pattern with kept comparison
// traces, and the request status line, and forwards every edit to the
// synchronization engine.  All analysis state lives in the engine; the model
// here holds only presentation state (focus, trace selection, layout).
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arraylab/beamtune/internal/engine"
	"github.com/arraylab/beamtune/internal/logging"
	"github.com/arraylab/beamtune/pkg/types"
)

// Config wires runtime dependencies into the TUI program.
type Config struct {
	Engine *engine.Engine
	Events <-chan engine.Event
	Logger logging.Logger
}

// engineEventMsg carries an engine state-change notification into Update.
type engineEventMsg engine.Event

// linearField binds one text input to a linear draft field.
type linearField struct {
	label string
	get   func(engine.LinearDraft) string
	set   func(*engine.LinearDraft, string)
}

// planarField binds one text input to a planar draft field.
type planarField struct {
	label string
	get   func(engine.PlanarDraft) string
	set   func(*engine.PlanarDraft, string)
	// circOnly / gridOnly fields gray out when the other topology is active.
	circOnly bool
	gridOnly bool
}

var linearFields = []linearField{
	{"Elements", func(d engine.LinearDraft) string { return d.NumElem },
		func(d *engine.LinearDraft, v string) { d.NumElem = v }},
	{"Spacing (λ)", func(d engine.LinearDraft) string { return d.Spacing },
		func(d *engine.LinearDraft, v string) { d.Spacing = v }},
	{"Scan angle (°)", func(d engine.LinearDraft) string { return d.ScanAngle },
		func(d *engine.LinearDraft, v string) { d.ScanAngle = v }},
	{"Element gain (dB)", func(d engine.LinearDraft) string { return d.ElementGain },
		func(d *engine.LinearDraft, v string) { d.ElementGain = v }},
	{"SLL target (dB)", func(d engine.LinearDraft) string { return d.SLL },
		func(d *engine.LinearDraft, v string) { d.SLL = v }},
}

var planarFields = []planarField{
	{label: "Elements X", gridOnly: true,
		get: func(d engine.PlanarDraft) string { return d.NumX },
		set: func(d *engine.PlanarDraft, v string) { d.NumX = v }},
	{label: "Elements Y", gridOnly: true,
		get: func(d engine.PlanarDraft) string { return d.NumY },
		set: func(d *engine.PlanarDraft, v string) { d.NumY = v }},
	{label: "Spacing X (λ)", gridOnly: true,
		get: func(d engine.PlanarDraft) string { return d.SpacingX },
		set: func(d *engine.PlanarDraft, v string) { d.SpacingX = v }},
	{label: "Spacing Y (λ)", gridOnly: true,
		get: func(d engine.PlanarDraft) string { return d.SpacingY },
		set: func(d *engine.PlanarDraft, v string) { d.SpacingY = v }},
	{label: "Ring counts", circOnly: true,
		get: func(d engine.PlanarDraft) string { return d.RingCounts },
		set: func(d *engine.PlanarDraft, v string) { d.RingCounts = v }},
	{label: "Ring radii (λ)", circOnly: true,
		get: func(d engine.PlanarDraft) string { return d.RingRadii },
		set: func(d *engine.PlanarDraft, v string) { d.RingRadii = v }},
	{label: "Scan θ (°)",
		get: func(d engine.PlanarDraft) string { return d.ScanTheta },
		set: func(d *engine.PlanarDraft, v string) { d.ScanTheta = v }},
	{label: "Scan φ (°)",
		get: func(d engine.PlanarDraft) string { return d.ScanPhi },
		set: func(d *engine.PlanarDraft, v string) { d.ScanPhi = v }},
	{label: "Cut angle (°)",
		get: func(d engine.PlanarDraft) string { return d.CutAngle },
		set: func(d *engine.PlanarDraft, v string) { d.CutAngle = v }},
	{label: "SLL target (dB)",
		get: func(d engine.PlanarDraft) string { return d.SLL },
		set: func(d *engine.PlanarDraft, v string) { d.SLL = v }},
}

// Model is the bubbletea model of the tuning screen.
type Model struct {
	eng    *engine.Engine
	events <-chan engine.Event
	logger logging.Logger

	mode     string
	inputs   []textinput.Model
	focus    int
	spin     spinner.Model
	snap     engine.Snapshot
	traceSel int

	width, height int
	showHelp      bool
	quitting      bool
}

// New builds the model around an already-constructed engine.
func New(cfg Config) *Model {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	m := &Model{
		eng:    cfg.Engine,
		events: cfg.Events,
		logger: logger.Named("tui"),
		mode:   cfg.Engine.Mode(),
		spin:   spin,
	}
	m.rebuildInputs()
	m.snap = m.eng.Snapshot(m.mode)
	return m
}

// rebuildInputs recreates the text inputs for the active mode, seeded from
// the engine's current draft.
func (m *Model) rebuildInputs() {
	var labels []string
	var values []string
	if m.mode == types.ModePlanar {
		d := m.eng.PlanarDraft()
		for _, f := range planarFields {
			labels = append(labels, f.label)
			values = append(values, f.get(d))
		}
	} else {
		d := m.eng.LinearDraft()
		for _, f := range linearFields {
			labels = append(labels, f.label)
			values = append(values, f.get(d))
		}
	}

	m.inputs = make([]textinput.Model, len(labels))
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 48
		in.Width = 20
		in.Prompt = ""
		in.SetValue(values[i])
		m.inputs[i] = in
	}
	if m.focus >= len(m.inputs) {
		m.focus = 0
	}
	m.inputs[m.focus].Focus()
}

// Init starts the spinner and the engine event pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForEvent())
}

// waitForEvent blocks on the engine notification channel.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return engineEventMsg(ev)
	}
}

// pushDraft applies the focused input's value to the engine draft.
func (m *Model) pushDraft() {
	if m.mode == types.ModePlanar {
		d := m.eng.PlanarDraft()
		for i, f := range planarFields {
			f.set(&d, m.inputs[i].Value())
		}
		m.eng.UpdatePlanar(d)
	} else {
		d := m.eng.LinearDraft()
		for i, f := range linearFields {
			f.set(&d, m.inputs[i].Value())
		}
		m.eng.UpdateLinear(d)
	}
}

// fieldEnabled reports whether the planar field at i applies to the active
// topology; linear fields are always enabled except the SLL target, which
// only matters in SLL taper mode.
func (m *Model) fieldEnabled(i int) bool {
	if m.mode == types.ModePlanar {
		f := planarFields[i]
		circ := m.eng.PlanarDraft().ArrayType == types.ArrayCirc
		if f.circOnly && !circ {
			return false
		}
		if f.gridOnly && circ {
			return false
		}
		return true
	}
	if linearFields[i].label == "SLL target (dB)" {
		return m.eng.LinearDraft().Taper == engine.TaperSLL
	}
	return true
}

// taperCycle is the order ctrl+w steps the taper selection through: the
// named windows, then the SLL-target mode, then back to uniform.
var taperCycle = append(append([]string{}, types.WindowNames...), "SLL")

func nextTaper(current engine.TaperMode, window string) (engine.TaperMode, string) {
	if current == engine.TaperSLL {
		return engine.TaperWindow, types.WindowNames[0]
	}
	for i, w := range taperCycle {
		if w == window {
			next := taperCycle[(i+1)%len(taperCycle)]
			if next == "SLL" {
				return engine.TaperSLL, window
			}
			return engine.TaperWindow, next
		}
	}
	return engine.TaperWindow, types.WindowNames[0]
}

func nextArrayType(current string) string {
	order := []string{types.ArrayRect, types.ArrayTri, types.ArrayCirc}
	for i, a := range order {
		if a == current {
			return order[(i+1)%len(order)]
		}
	}
	return types.ArrayRect
}

func nextPlotType(mode, current string) string {
	var order []string
	if mode == types.ModePlanar {
		order = []string{types.PlotPatternCut, types.PlotManifold, types.PlotPolar3D,
			types.PlotContour, types.PlotPolarSurf}
	} else {
		order = []string{types.PlotCartesian, types.PlotPolar}
	}
	for i, p := range order {
		if p == current {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

// Run drives the program until the user quits.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

var _ tea.Model = (*Model)(nil)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
