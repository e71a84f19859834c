package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chart is a fixed-size character raster for cartesian pattern cuts.  Series
// plotted later overwrite earlier ones, so the caller draws kept traces
// first and the current pattern last.
type chart struct {
	w, h       int
	ymin, ymax float64
	xmin, xmax float64
	cells      [][]string
}

func newChart(w, h int, ymin, ymax float64) *chart {
	cells := make([][]string, h)
	for r := range cells {
		cells[r] = make([]string, w)
		for c := range cells[r] {
			cells[r][c] = " "
		}
	}
	return &chart{w: w, h: h, ymin: ymin, ymax: ymax, cells: cells}
}

// plot rasters one series.  The first series fixes the x range; later series
// reuse it so overlaid cuts share an angle axis.
func (ch *chart) plot(x, y []float64, color lipgloss.Color, mark rune) {
	if len(x) < 2 || len(y) != len(x) {
		return
	}
	if ch.xmin == ch.xmax {
		ch.xmin, ch.xmax = x[0], x[len(x)-1]
	}
	if ch.xmin == ch.xmax || ch.ymin == ch.ymax {
		return
	}
	style := lipgloss.NewStyle().Foreground(color)
	glyph := style.Render(string(mark))

	// Per column keep the max value falling in that angle bucket, so narrow
	// lobes survive the downsampling.
	colMax := make([]float64, ch.w)
	colHit := make([]bool, ch.w)
	for i := range x {
		c := int((x[i] - ch.xmin) / (ch.xmax - ch.xmin) * float64(ch.w-1))
		if c < 0 || c >= ch.w {
			continue
		}
		if !colHit[c] || y[i] > colMax[c] {
			colMax[c] = y[i]
			colHit[c] = true
		}
	}
	for c := 0; c < ch.w; c++ {
		if !colHit[c] {
			continue
		}
		frac := (colMax[c] - ch.ymin) / (ch.ymax - ch.ymin)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		r := ch.h - 1 - int(frac*float64(ch.h-1))
		ch.cells[r][c] = glyph
	}
}

func (ch *chart) render() string {
	var b strings.Builder
	for r, row := range ch.cells {
		switch r {
		case 0:
			fmt.Fprintf(&b, "%5.0f ┤", ch.ymax)
		case ch.h - 1:
			fmt.Fprintf(&b, "%5.0f ┤", ch.ymin)
		default:
			b.WriteString("      │")
		}
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "      └%s\n", strings.Repeat("─", ch.w))
	fmt.Fprintf(&b, "      %-*.0f%8.0f°", ch.w-7, ch.xmin, ch.xmax)
	return b.String()
}
