package ui

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/Mohsinsiddi/piggybank/internal/savings"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// RenderSavingsChart
// ---------------------------------------------------------------------------

func TestChartEmptyShowsPlaceholder(t *testing.T) {
	for _, data := range [][]savings.Point{nil, {}} {
		out := RenderSavingsChart(data, ChartOptions{Selected: -1})
		assert.Contains(t, out, "Savings")
		assert.Contains(t, out, "No data available")
	}
}

func TestChartRendersTitleAndSummary(t *testing.T) {
	out := RenderSavingsChart(mockData(), ChartOptions{Width: 80, Selected: -1, Palette: DarkPalette})
	assert.Contains(t, out, "Savings")
	assert.Contains(t, out, "max 2,220")
	assert.Contains(t, out, "(+1,220)")
	assert.NotContains(t, out, "No data available")
	assert.NotContains(t, out, "▸", "no tooltip without a selection")
}

func TestChartTooltipForSelectedPoint(t *testing.T) {
	out := RenderSavingsChart(mockData(), ChartOptions{Width: 80, Selected: 11})
	assert.Contains(t, out, "3/5/2024 · 2,220")

	out = RenderSavingsChart(mockData(), ChartOptions{Width: 80, Selected: 0})
	assert.Contains(t, out, "2/23/2024 · 1,000")
}

func TestChartIgnoresOutOfRangeSelection(t *testing.T) {
	assert.NotPanics(t, func() {
		out := RenderSavingsChart(mockData(), ChartOptions{Selected: 99})
		assert.NotContains(t, out, "▸")
	})
}

func TestChartFitsRequestedWidth(t *testing.T) {
	for _, width := range []int{40, 60, 120} {
		out := RenderSavingsChart(mockData(), ChartOptions{Width: width, Selected: 3})
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), width, "width %d", width)
		}
	}
}

func TestChartHasAxisTicks(t *testing.T) {
	out := RenderSavingsChart(mockData(), ChartOptions{Width: 80, Selected: -1})
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "1,250")
	assert.Contains(t, out, "╌")
	assert.Contains(t, out, "3/5")
}

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// plotColumns reports, for every column right of the y-axis, whether any
// plot row above the x-axis has a bar glyph in it.
func plotColumns(t *testing.T, out string) []bool {
	t.Helper()
	lines := strings.Split(ansiSeq.ReplaceAllString(out, ""), "\n")
	axis := -1
	start := 0
	for i, line := range lines {
		if idx := strings.IndexRune(line, '└'); idx >= 0 {
			axis = i
			start = len([]rune(line[:idx])) + 1
			break
		}
	}
	require.GreaterOrEqual(t, axis, 0, "x-axis not found")

	cols := make([]bool, len([]rune(lines[axis]))-start-2)
	for _, line := range lines[:axis] {
		runes := []rune(line)
		for c := range cols {
			if start+c < len(runes) && strings.ContainsRune("▁▂▃▄▅▆▇█", runes[start+c]) {
				cols[c] = true
			}
		}
	}
	return cols
}

// bars counts runs of adjacent filled columns.
func bars(cols []bool) int {
	n := 0
	for i, filled := range cols {
		if filled && (i == 0 || !cols[i-1]) {
			n++
		}
	}
	return n
}

func filled(cols []bool) int {
	n := 0
	for _, f := range cols {
		if f {
			n++
		}
	}
	return n
}

func TestChartDrawsOneBarPerPoint(t *testing.T) {
	out := RenderSavingsChart(mockData(), ChartOptions{Width: 80, Selected: -1})
	assert.Equal(t, 12, bars(plotColumns(t, out)))
}

func TestChartMorePointsThanColumns(t *testing.T) {
	data := make([]savings.Point, 40)
	for i := range data {
		data[i] = savings.Point{Date: "1/1/2024", Value: float64(100 + i)}
	}
	out := RenderSavingsChart(data, ChartOptions{Width: 40, Selected: -1})
	assert.Equal(t, 40, filled(plotColumns(t, out)), "one column per point")
}

func TestChartMarksZeroValues(t *testing.T) {
	data := []savings.Point{
		{Date: "1/1/2024", Value: 0},
		{Date: "1/2/2024", Value: 0},
		{Date: "1/3/2024", Value: 5},
	}
	out := RenderSavingsChart(data, ChartOptions{Width: 60, Selected: -1})
	assert.Equal(t, 3, bars(plotColumns(t, out)))
	assert.Contains(t, out, "▁")
}

// ---------------------------------------------------------------------------
// buildBars
// ---------------------------------------------------------------------------

func TestBuildBarsOnePerPoint(t *testing.T) {
	data := mockData()
	bars := buildBars(data, LightPalette, niceCeil(2220), 0, -1)
	require.Len(t, bars, len(data))

	for i, bar := range bars {
		sum := 0.0
		for _, v := range bar.Values {
			sum += v.Value
		}
		assert.InDelta(t, data[i].Value, sum, 1e-9, "bar %d stacks to its value", i)
		assert.Equal(t, data[i].Date, bar.Label)
	}
}

func TestBuildBarsBandsFollowScale(t *testing.T) {
	// 2,500 scale, 625 per band: 1,000 reaches two bands, 2,220 all four.
	bars := buildBars(mockData(), LightPalette, 2500, 0, -1)
	assert.Len(t, bars[0].Values, 2)
	assert.Len(t, bars[11].Values, 4)
}

func TestBuildBarsRaisesSmallValuesToBaseline(t *testing.T) {
	data := []savings.Point{{Date: "1/1/2024", Value: 0}, {Date: "1/2/2024", Value: 0.01}, {Date: "1/3/2024", Value: 5}}
	bars := buildBars(data, LightPalette, 5, 0.1, -1)
	require.Len(t, bars, 3)
	for i := range 2 {
		require.Len(t, bars[i].Values, 1, "bar %d", i)
		assert.InDelta(t, 0.1, bars[i].Values[0].Value, 1e-9)
	}
	assert.Len(t, bars[2].Values, gradientBands)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func TestNiceCeil(t *testing.T) {
	tests := map[float64]float64{
		2220: 2500,
		1000: 1000,
		1204: 2000,
		4100: 5000,
		9000: 10000,
		0:    1,
		-5:   1,
	}
	for in, want := range tests {
		assert.InDelta(t, want, niceCeil(in), 1e-9, "niceCeil(%v)", in)
	}
}

func TestBarLayout(t *testing.T) {
	w, g := barLayout(12, 49)
	assert.Equal(t, 3, w)
	assert.Equal(t, 1, g)
	assert.LessOrEqual(t, 12*w+11*g, 49)

	w, g = barLayout(100, 20)
	assert.Equal(t, 1, w)
	assert.Equal(t, 0, g)
}

func TestXLabelsDoNotOverlap(t *testing.T) {
	line := xLabels(mockData(), 1, 1, 24)
	assert.LessOrEqual(t, len([]rune(line)), 24)
	assert.True(t, strings.HasPrefix(line, "2/23"))
	for _, f := range strings.Fields(line) {
		assert.Contains(t, f, "/", "every field is a whole label")
	}
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "3/5", shortDate("3/5/2024"))
	assert.Equal(t, "x", shortDate("x"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "2,220", formatValue(2220))
	assert.Equal(t, "0", formatValue(0.2))
	assert.Equal(t, "1,000,000", formatValue(math.Pow(10, 6)))
}
