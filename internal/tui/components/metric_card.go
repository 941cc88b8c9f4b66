package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mhollis/fincast/internal/tui/tuistyles"
)

// MetricCard displays a single metric with a label, a value, and an
// optional delta line
type MetricCard struct {
	Label    string
	Value    string
	Delta    *Delta
	Footnote string
	Width    int
}

// Delta represents a metric's change direction and amount
type Delta struct {
	Positive bool
	Text     string // e.g., "+$5,234" or "-2.3%"
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// WithDelta adds a delta indicator to the card
func (m *MetricCard) WithDelta(positive bool, text string) *MetricCard {
	m.Delta = &Delta{Positive: positive, Text: text}
	return m
}

// WithFootnote adds a muted line under the value
func (m *MetricCard) WithFootnote(note string) *MetricCard {
	m.Footnote = note
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var delta string
	if m.Delta != nil {
		arrow := tuistyles.TrendIndicator(m.Delta.Positive)
		style := tuistyles.MetricTrendStyle(m.Delta.Positive)
		delta = "\n" + style.Render(fmt.Sprintf("%s %s", arrow, m.Delta.Text))
	}

	var note string
	if m.Footnote != "" {
		note = "\n" + tuistyles.SubtitleStyle.Render(m.Footnote)
	}

	content := label + "\n" + value + delta + note

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 2).
		Width(m.Width)

	return cardStyle.Render(content)
}

// RenderInline returns a compact one-line version without the border
func (m *MetricCard) RenderInline() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label + ":")
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var delta string
	if m.Delta != nil {
		arrow := tuistyles.TrendIndicator(m.Delta.Positive)
		style := tuistyles.MetricTrendStyle(m.Delta.Positive)
		delta = " " + style.Render(fmt.Sprintf("%s %s", arrow, m.Delta.Text))
	}

	return label + " " + value + delta
}

// MetricRow renders cards side by side in a single row
func MetricRow(cards ...*MetricCard) string {
	if len(cards) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		rendered = append(rendered, card.Render())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
