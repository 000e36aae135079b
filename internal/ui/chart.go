package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Mohsinsiddi/piggybank/internal/savings"
	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	defaultChartWidth  = 60
	defaultChartHeight = 10
	minPlotWidth       = 12

	// gradientBands is also the number of y-axis intervals, so band edges
	// line up with tick marks.
	gradientBands = 4
)

// ChartOptions controls how the savings chart is laid out.
type ChartOptions struct {
	// Width is the outer width of the panel. 0 uses a default.
	Width int
	// Height is the number of plot rows. 0 uses a default.
	Height int
	// Selected is the index of the point shown in the tooltip, -1 for none.
	Selected int
	Palette  Palette
}

// RenderSavingsChart renders data as a bar chart with a vertical gradient.
// It is a pure function of its arguments.
func RenderSavingsChart(data []savings.Point, opts ChartOptions) string {
	p := opts.Palette
	if p.Background == "" {
		p = LightPalette
	}
	width := opts.Width
	if width <= 0 {
		width = defaultChartWidth
	}
	height := opts.Height
	if height <= 0 {
		height = defaultChartHeight
	}
	inner := max(minPlotWidth, width-4)

	header := chartHeader(data, p, inner)

	var body string
	if len(data) == 0 {
		body = p.MutedStyle().Render("No data available")
	} else {
		body = renderPlot(data, p, inner, height, opts.Selected)
		// More points than columns widen the panel past the request.
		width = max(width, lipgloss.Width(body)+4)
	}

	return p.PanelStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

// chartHeader puts the title on the left and the summary on the right when
// both fit.
func chartHeader(data []savings.Point, p Palette, width int) string {
	title := p.TextStyle().Bold(true).Render("Savings")
	if len(data) == 0 {
		return title
	}

	s := savings.Stats(data)
	sign := "+"
	if s.Change < 0 {
		sign = "-"
	}
	stats := fmt.Sprintf("max %s · latest %s (%s%s)",
		formatValue(s.Max), formatValue(s.Latest), sign, formatValue(math.Abs(s.Change)))

	spacer := width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 2 {
		return title
	}
	return title + strings.Repeat(" ", spacer) + p.MutedStyle().Render(stats)
}

func renderPlot(data []savings.Point, p Palette, width, height, selected int) string {
	yMax := niceCeil(savings.Stats(data).Max)
	ticks := tickLabels(yMax)
	gutter := 0
	for _, t := range ticks {
		gutter = max(gutter, len(t))
	}

	plotWidth := max(minPlotWidth, width-gutter-2)
	barWidth, gap := barLayout(len(data), plotWidth)
	plotWidth = max(plotWidth, len(data)*barWidth+(len(data)-1)*gap)

	bc := barchart.New(plotWidth, height,
		barchart.WithNoAutoBarWidth(),
		barchart.WithBarWidth(barWidth),
		barchart.WithBarGap(gap),
		barchart.WithMaxValue(yMax),
		barchart.WithNoAxis(),
	)
	baseline := yMax / float64(height) / 8
	for _, bar := range buildBars(data, p, yMax, baseline, selected) {
		bc.Push(bar)
	}
	bc.Draw()

	plot := lipgloss.JoinHorizontal(lipgloss.Top, yGutter(ticks, gutter, height, p), bc.View())

	xAxis := strings.Repeat(" ", gutter) + " " + p.MutedStyle().Render("└"+strings.Repeat("╌", plotWidth))
	labels := strings.Repeat(" ", gutter+2) + p.MutedStyle().Render(xLabels(data, barWidth, gap, plotWidth))

	lines := []string{plot, xAxis, labels}
	if selected >= 0 && selected < len(data) {
		lines = append(lines, tooltip(data[selected], p))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// buildBars returns one bar per point. Each bar is stacked from the
// gradient bands it reaches, so the fill fades from the accent at the top of
// the scale toward the background at the bottom. Values below baseline are
// raised to it so every point keeps a visible marker.
func buildBars(data []savings.Point, p Palette, yMax, baseline float64, selected int) []barchart.BarData {
	band := yMax / gradientBands
	styles := bandStyles(p, p.Accent)
	highlight := bandStyles(p, p.Text)

	bars := make([]barchart.BarData, 0, len(data))
	for i, pt := range data {
		st := styles
		if i == selected {
			st = highlight
		}
		values := make([]barchart.BarValue, 0, gradientBands)
		for j := range gradientBands {
			lo := band * float64(j)
			v := math.Min(math.Max(pt.Value-lo, 0), band)
			if v <= 0 {
				break
			}
			values = append(values, barchart.BarValue{
				Name:  fmt.Sprintf("band%d", j),
				Value: v,
				Style: st[j],
			})
		}
		if pt.Value < baseline {
			values = []barchart.BarValue{{Name: "band0", Value: baseline, Style: st[0]}}
		}
		bars = append(bars, barchart.BarData{Label: pt.Date, Values: values})
	}
	return bars
}

func bandStyles(p Palette, top string) []lipgloss.Style {
	out := make([]lipgloss.Style, gradientBands)
	for j := range out {
		c := lipgloss.Color(Blend(p.Panel, top, 0.3+0.7*float64(j+1)/gradientBands))
		out[j] = lipgloss.NewStyle().Foreground(c)
	}
	return out
}

// barLayout picks the widest bars that fit n bars into width. When even
// one-column bars without gaps do not fit, the caller has to widen the plot.
func barLayout(n, width int) (barWidth, gap int) {
	if n <= 0 {
		return 1, 1
	}
	gap = 1
	barWidth = (width - (n-1)*gap) / n
	if barWidth < 1 {
		return 1, 0
	}
	return barWidth, gap
}

// yGutter draws tick labels with dashed tick marks on the rows where each
// gradient band begins.
func yGutter(ticks []string, width, height int, p Palette) string {
	rows := make([]string, height)
	for r := range rows {
		rows[r] = strings.Repeat(" ", width) + " │"
	}
	for j := 1; j < len(ticks); j++ {
		r := height - int(math.Round(float64(height)*float64(j)/gradientBands))
		if r < 0 || r >= height {
			continue
		}
		rows[r] = fmt.Sprintf("%*s ┤", width, ticks[j])
	}
	return p.MutedStyle().Render(strings.Join(rows, "\n"))
}

func tickLabels(yMax float64) []string {
	out := make([]string, gradientBands+1)
	for j := range out {
		out[j] = formatValue(yMax * float64(j) / gradientBands)
	}
	return out
}

// xLabels places short dates under their bars, skipping labels that would
// collide.
func xLabels(data []savings.Point, barWidth, gap, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for i, pt := range data {
		label := []rune(shortDate(pt.Date))
		col := i * (barWidth + gap)
		if col < next || col+len(label) > width {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func tooltip(pt savings.Point, p Palette) string {
	marker := p.AccentStyle().Render("▸ ")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Text)).
		Background(lipgloss.Color(p.Panel)).
		Padding(0, 1).
		Render(pt.Date + " · " + formatValue(pt.Value))
	return marker + body
}

// shortDate drops the year from an M/D/YYYY date.
func shortDate(date string) string {
	if i := strings.LastIndex(date, "/"); i > 0 {
		return date[:i]
	}
	return date
}

func formatValue(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten so ticks land
// on round numbers.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if m*exp >= v {
			return m * exp
		}
	}
	return 10 * exp
}
