package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arraylab/beamtune/internal/engine"
	"github.com/arraylab/beamtune/pkg/types"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	modeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the parameter form on the left and the live result pane on
// the right.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	left := paneStyle.Render(m.formView())
	right := paneStyle.Render(m.resultView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m *Model) headerView() string {
	mode := "linear array"
	if m.mode == types.ModePlanar {
		mode = "planar array"
	}
	live := dimStyle.Render("live off")
	if m.snap.Live {
		live = okStyle.Render("live")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("beamtune"), "  ",
		modeStyle.Render(mode), "  ", live)
}

func (m *Model) formView() string {
	var b strings.Builder
	for i := range m.inputs {
		label := m.fieldLabel(i)
		style := labelStyle
		switch {
		case !m.fieldEnabled(i):
			style = disabledStyle
		case i == m.focus:
			style = focusStyle
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render(fmt.Sprintf("%-18s", label)),
			m.inputs[i].View())
	}
	b.WriteString("\n")
	b.WriteString(m.togglesView())

	if len(m.snap.Violations) > 0 {
		b.WriteString("\n")
		for _, v := range m.snap.Violations {
			fmt.Fprintf(&b, "%s\n", warnStyle.Render("⚠ "+v.Field+": "+v.Message))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) fieldLabel(i int) string {
	if m.mode == types.ModePlanar {
		return planarFields[i].label
	}
	return linearFields[i].label
}

func (m *Model) togglesView() string {
	var parts []string
	if m.mode == types.ModePlanar {
		d := m.eng.PlanarDraft()
		parts = append(parts, "array: "+d.ArrayType, "plot: "+d.PlotType,
			"taper: "+taperLabel(d.Taper, d.Window))
		if d.ElementPattern {
			parts = append(parts, "element pattern")
		}
	} else {
		d := m.eng.LinearDraft()
		parts = append(parts, "plot: "+d.PlotType, "taper: "+taperLabel(d.Taper, d.Window))
		if d.ElementPattern {
			parts = append(parts, "element pattern")
		}
		if d.ShowManifold {
			parts = append(parts, "manifold")
		}
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}

func taperLabel(mode engine.TaperMode, window string) string {
	if mode == engine.TaperSLL {
		return "SLL target"
	}
	if window == "" {
		return engine.WindowUniform
	}
	return window
}

func (m *Model) resultView() string {
	var b strings.Builder
	b.WriteString(m.statusView())
	b.WriteString("\n")

	if res := m.snap.Result; res != nil && res.HasPattern() {
		b.WriteString(m.metricsView(res))
		b.WriteString("\n")
		b.WriteString(m.chartView(res))
		b.WriteString("\n")
		b.WriteString(m.axesView())
	}

	if traces := m.snap.Traces; len(traces) > 0 {
		b.WriteString("\n")
		b.WriteString(m.tracesView(traces))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) statusView() string {
	switch m.snap.Phase {
	case engine.PhaseLoading:
		return m.spin.View() + " computing…"
	case engine.PhaseError:
		return errorStyle.Render("✗ " + m.snap.ErrMsg)
	case engine.PhaseOK:
		return okStyle.Render("✓ up to date")
	default:
		return dimStyle.Render("idle")
	}
}

func (m *Model) metricsView(res *types.AnalysisResult) string {
	return fmt.Sprintf("gain %.1f dB   peak %.1f°   SLL %.1f dB   HPBW %.1f°",
		res.Gain, res.PeakAngle, res.SLL, res.HPBW)
}

func (m *Model) chartView(res *types.AnalysisResult) string {
	w := m.width/2 - 8
	if w < 40 {
		w = 40
	}
	ymin, ymax := m.chartBounds(res)
	ch := newChart(w, 12, ymin, ymax)
	for _, t := range m.snap.Traces {
		if t.Visible {
			ch.plot(t.Theta, t.Pattern, lipgloss.Color(t.Color), '·')
		}
	}
	if m.snap.ShowCurrent {
		ch.plot(res.Theta, res.Pattern, lipgloss.Color("231"), '•')
	}
	return ch.render()
}

// chartBounds prefers the controller's resolved Y bounds and falls back to
// the current result's axis suggestion.
func (m *Model) chartBounds(res *types.AnalysisResult) (float64, float64) {
	ymin, ymax := res.YMin, res.YMax
	if m.snap.Axes.Y.Max.IsSet() {
		ymax = m.snap.Axes.Y.Max.Value()
	}
	if m.snap.Axes.Y.Min.IsSet() {
		ymin = m.snap.Axes.Y.Min.Value()
	}
	if ymin >= ymax {
		ymin = ymax - 40
	}
	return ymin, ymax
}

func (m *Model) axesView() string {
	y := m.snap.Axes.Y
	lock := ""
	if y.Locked {
		lock = " 🔒"
	}
	owner := ""
	if y.Max.State() == engine.BoundUser || y.Min.State() == engine.BoundUser {
		owner = " (user)"
	}
	if !y.Max.IsSet() {
		return dimStyle.Render("y: auto" + lock)
	}
	return dimStyle.Render(fmt.Sprintf("y: %.0f … %.0f dB, step %.0f%s%s",
		y.Min.Value(), y.Max.Value(), y.Step, owner, lock))
}

func (m *Model) tracesView(traces []engine.Trace) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("kept traces") + "\n")
	for i, t := range traces {
		cursor := "  "
		if i == m.traceSel {
			cursor = "▸ "
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
		label := t.Label
		if !t.Visible {
			label = dimStyle.Render(label + " (hidden)")
		} else if i == m.snap.Highlighted {
			label = selectedStyle.Render(label + " ◆")
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, swatch, label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) helpView() string {
	if !m.showHelp {
		return helpStyle.Render("tab focus · enter run · ^t mode · ^k keep · ^l live · ^? more")
	}
	lines := []string{
		"tab/shift+tab  move between fields        enter  run analysis now",
		"^t  switch linear/planar                  ^l  toggle live mode",
		"^k  keep current as trace                 ^x  clear all traces",
		"↑/↓  select trace   ^v  show/hide   ^d  remove   ^h  highlight",
		"^w  cycle taper     ^a  array type  ^p  plot kind  ^e  element pattern",
		"^y  lock y axis     ^b  clear y bounds   ^g  overlay current   ^u  manifold",
		"esc  quit",
	}
	return helpStyle.Render(strings.Join(lines, "\n"))
}
