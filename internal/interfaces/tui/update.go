package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arraylab/beamtune/internal/engine"
	"github.com/arraylab/beamtune/internal/logging"
	"github.com/arraylab/beamtune/pkg/types"
)

// Update routes key presses, spinner ticks, and engine notifications.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case engineEventMsg:
		ev := engine.Event(msg)
		if ev.Mode == m.mode {
			m.snap = m.eng.Snapshot(m.mode)
			if m.traceSel >= len(m.snap.Traces) {
				m.traceSel = len(m.snap.Traces) - 1
			}
			if m.traceSel < 0 && len(m.snap.Traces) > 0 {
				m.traceSel = 0
			}
		}
		return m, m.waitForEvent()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		m.eng.Close()
		return m, tea.Quit

	case "tab", "shift+tab":
		m.moveFocus(msg.String() == "tab")
		return m, nil

	case "enter":
		m.pushDraft()
		m.eng.Submit(m.mode)
		return m, nil

	case "ctrl+t":
		if m.mode == types.ModeLinear {
			m.mode = types.ModePlanar
		} else {
			m.mode = types.ModeLinear
		}
		m.eng.SetMode(m.mode)
		m.rebuildInputs()
		m.snap = m.eng.Snapshot(m.mode)
		m.traceSel = 0
		return m, nil

	case "ctrl+k":
		if err := m.eng.Keep(m.mode); err != nil {
			m.logger.Debug("keep rejected", logging.Err(err))
		}
		return m, nil

	case "ctrl+x":
		m.eng.ClearTraces(m.mode)
		return m, nil

	case "up", "down":
		m.moveTraceSel(msg.String() == "down")
		return m, nil

	case "ctrl+v":
		if t := m.selectedTrace(); t != nil {
			m.eng.SetTraceVisible(m.mode, m.traceSel, !t.Visible)
		}
		return m, nil

	case "ctrl+d":
		if m.selectedTrace() != nil {
			m.eng.RemoveTrace(m.mode, m.traceSel)
		}
		return m, nil

	case "ctrl+h":
		if m.selectedTrace() != nil {
			if m.snap.Highlighted == m.traceSel {
				m.eng.HighlightTrace(m.mode, -1)
			} else {
				m.eng.HighlightTrace(m.mode, m.traceSel)
			}
		}
		return m, nil

	case "ctrl+w":
		m.cycleTaper()
		return m, nil

	case "ctrl+a":
		if m.mode == types.ModePlanar {
			d := m.eng.PlanarDraft()
			d.ArrayType = nextArrayType(d.ArrayType)
			m.eng.UpdatePlanar(d)
			if !m.fieldEnabled(m.focus) {
				m.moveFocus(true)
			}
		}
		return m, nil

	case "ctrl+p":
		m.cyclePlotType()
		return m, nil

	case "ctrl+e":
		m.toggleElementPattern()
		return m, nil

	case "ctrl+l":
		m.eng.SetLiveMode(!m.snap.Live)
		return m, nil

	case "ctrl+g":
		m.eng.SetShowCurrent(!m.snap.ShowCurrent)
		return m, nil

	case "ctrl+y":
		m.eng.LockYAxis(m.mode, !m.snap.Axes.Y.Locked)
		return m, nil

	case "ctrl+b":
		m.eng.ClearYBounds(m.mode)
		return m, nil

	case "ctrl+u":
		if m.mode == types.ModeLinear {
			d := m.eng.LinearDraft()
			d.ShowManifold = !d.ShowManifold
			m.eng.UpdateLinear(d)
		}
		return m, nil

	case "ctrl+_":
		m.showHelp = !m.showHelp
		return m, nil
	}

	// Everything else is text editing on the focused field.
	if !m.fieldEnabled(m.focus) {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.pushDraft()
	return m, cmd
}

// moveFocus advances focus to the next enabled field, skipping grayed-out
// inputs so tab never lands on a dead field.
func (m *Model) moveFocus(forward bool) {
	n := len(m.inputs)
	m.inputs[m.focus].Blur()
	for i := 0; i < n; i++ {
		if forward {
			m.focus = (m.focus + 1) % n
		} else {
			m.focus = (m.focus - 1 + n) % n
		}
		if m.fieldEnabled(m.focus) {
			break
		}
	}
	m.inputs[m.focus].Focus()
}

func (m *Model) moveTraceSel(down bool) {
	n := len(m.snap.Traces)
	if n == 0 {
		return
	}
	if down && m.traceSel < n-1 {
		m.traceSel++
	}
	if !down && m.traceSel > 0 {
		m.traceSel--
	}
}

func (m *Model) selectedTrace() *engine.Trace {
	if m.traceSel < 0 || m.traceSel >= len(m.snap.Traces) {
		return nil
	}
	return &m.snap.Traces[m.traceSel]
}

func (m *Model) cycleTaper() {
	if m.mode == types.ModePlanar {
		d := m.eng.PlanarDraft()
		d.Taper, d.Window = nextTaper(d.Taper, d.Window)
		m.eng.UpdatePlanar(d)
	} else {
		d := m.eng.LinearDraft()
		d.Taper, d.Window = nextTaper(d.Taper, d.Window)
		m.eng.UpdateLinear(d)
	}
}

func (m *Model) cyclePlotType() {
	if m.mode == types.ModePlanar {
		d := m.eng.PlanarDraft()
		d.PlotType = nextPlotType(m.mode, d.PlotType)
		m.eng.UpdatePlanar(d)
	} else {
		d := m.eng.LinearDraft()
		d.PlotType = nextPlotType(m.mode, d.PlotType)
		m.eng.UpdateLinear(d)
	}
}

func (m *Model) toggleElementPattern() {
	if m.mode == types.ModePlanar {
		d := m.eng.PlanarDraft()
		d.ElementPattern = !d.ElementPattern
		m.eng.UpdatePlanar(d)
	} else {
		d := m.eng.LinearDraft()
		d.ElementPattern = !d.ElementPattern
		m.eng.UpdateLinear(d)
	}
}
