package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mhollis/fincast/internal/tui/tuistyles"
)

// chartAxisWidth is the space reserved for Y-axis values.
const chartAxisWidth = 10

var seriesMarkers = []rune{'●', '■', '▲'}

// Series is a single named line in a chart
type Series struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// LineChart plots one or more series as a character-cell line chart
type LineChart struct {
	Title   string
	Series  []Series
	XLabels []string
	Width   int
	Height  int
	YFormat func(float64) string
}

// NewLineChart creates a chart with default dimensions
func NewLineChart(title string) *LineChart {
	return &LineChart{
		Title:   title,
		Width:   64,
		Height:  12,
		YFormat: tuistyles.FormatCurrencyShort,
	}
}

// AddSeries appends a line to the chart
func (c *LineChart) AddSeries(name string, points []float64, color lipgloss.Color) *LineChart {
	c.Series = append(c.Series, Series{Name: name, Points: points, Color: color})
	return c
}

// WithXLabels sets the labels drawn under the X axis
func (c *LineChart) WithXLabels(labels []string) *LineChart {
	c.XLabels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *LineChart) WithSize(width, height int) *LineChart {
	c.Width = width
	c.Height = height
	return c
}

// WithYFormat overrides the Y-axis value formatter
func (c *LineChart) WithYFormat(format func(float64) string) *LineChart {
	c.YFormat = format
	return c
}

// Render returns the styled chart
func (c *LineChart) Render() string {
	if len(c.Series) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if c.Title != "" {
		content.WriteString(tuistyles.TitleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	minVal, maxVal := c.bounds()
	content.WriteString(c.renderGrid(minVal, maxVal))

	if len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

// bounds finds the padded value range across all series. A flat or
// empty range is widened so values still map onto distinct rows.
func (c *LineChart) bounds() (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)

	for _, series := range c.Series {
		for _, point := range series.Points {
			minVal = min(minVal, point)
			maxVal = max(maxVal, point)
		}
	}

	if minVal > maxVal {
		return 0, 1
	}
	if minVal == maxVal {
		minVal -= 1
		maxVal += 1
	}

	padding := (maxVal - minVal) * 0.1
	return minVal - padding, maxVal + padding
}

// renderGrid renders the plot area with the Y axis
func (c *LineChart) renderGrid(minVal, maxVal float64) string {
	plotWidth := max(c.Width-chartAxisWidth-3, 8)
	plotHeight := max(c.Height, 3)

	grid := make([][]rune, plotHeight)
	for i := range grid {
		grid[i] = make([]rune, plotWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for idx, series := range c.Series {
		plotSeries(grid, series, idx, minVal, maxVal)
	}

	yAxisStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(chartAxisWidth).
		Align(lipgloss.Right)

	var output strings.Builder
	valueRange := maxVal - minVal

	for i, row := range grid {
		yValue := maxVal - (float64(i)/float64(plotHeight-1))*valueRange
		output.WriteString(yAxisStyle.Render(c.YFormat(yValue)))
		output.WriteString(" │ ")
		output.WriteString(string(row))
		output.WriteString("\n")
	}

	output.WriteString(strings.Repeat(" ", chartAxisWidth))
	output.WriteString(" └")
	output.WriteString(strings.Repeat("─", plotWidth+1))

	if len(c.XLabels) > 0 {
		output.WriteString("\n")
		output.WriteString(c.renderXLabels(plotWidth))
	}

	return output.String()
}

// plotSeries maps one series onto the grid and connects its points.
// A single-point series renders as a lone marker on the left edge.
func plotSeries(grid [][]rune, series Series, idx int, minVal, maxVal float64) {
	if len(series.Points) == 0 {
		return
	}

	plotHeight := len(grid)
	plotWidth := len(grid[0])
	marker := seriesMarkers[idx%len(seriesMarkers)]

	toCell := func(i int, value float64) (int, int) {
		x := 0
		if len(series.Points) > 1 {
			x = i * (plotWidth - 1) / (len(series.Points) - 1)
		}
		y := plotHeight - 1 - int((value-minVal)/(maxVal-minVal)*float64(plotHeight-1))
		return x, y
	}

	prevX, prevY := 0, 0
	for i, point := range series.Points {
		x, y := toCell(i, point)
		if y >= 0 && y < plotHeight && x >= 0 && x < plotWidth {
			grid[y][x] = marker
		}
		if i > 0 {
			drawSegment(grid, prevX, prevY, x, y, marker)
		}
		prevX, prevY = x, y
	}
}

// drawSegment connects two cells using Bresenham's line algorithm,
// skipping cells already holding a marker
func drawSegment(grid [][]rune, x0, y0, x1, y1 int, marker rune) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy
	x, y := x0, y0

	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[0]) {
			if grid[y][x] == ' ' {
				grid[y][x] = marker
			}
		}

		if x == x1 && y == y1 {
			return
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXLabels draws the first, middle, and last label under the axis
func (c *LineChart) renderXLabels(plotWidth int) string {
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	row := make([]rune, plotWidth)
	for i := range row {
		row[i] = ' '
	}

	first := c.XLabels[0]
	last := c.XLabels[len(c.XLabels)-1]
	placeLabel(row, 0, first)
	if len(c.XLabels) > 2 {
		middle := c.XLabels[len(c.XLabels)/2]
		placeLabel(row, (plotWidth-len(middle))/2, middle)
	}
	placeLabel(row, plotWidth-len(last), last)

	return strings.Repeat(" ", chartAxisWidth+3) + labelStyle.Render(string(row))
}

// placeLabel copies text into the label row at the given offset
func placeLabel(row []rune, at int, text string) {
	for i, r := range []rune(text) {
		pos := at + i
		if pos >= 0 && pos < len(row) {
			row[pos] = r
		}
	}
}

// renderLegend lists each series with its marker
func (c *LineChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, series := range c.Series {
		marker := lipgloss.NewStyle().
			Foreground(series.Color).
			Render(string(seriesMarkers[i%len(seriesMarkers)]))
		items = append(items, marker+" "+series.Name)
	}

	return lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Render(strings.Join(items, "  ·  "))
}

// abs returns absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
