// internal/render/terminal.go
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/ecoaudit/internal/dashboard"
	"github.com/mwiater/ecoaudit/internal/util"
)

const (
	defaultWidth = 100
	minBarWidth  = 10
	cardWidth    = 24
)

// Terminal colours for the component series.
var componentColors = map[string]lipgloss.Color{
	"CPU": lipgloss.Color("204"),
	"GPU": lipgloss.Color("214"),
	"RAM": lipgloss.Color("45"),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	epochColor   = lipgloss.Color("62")
	cumColor     = lipgloss.Color("40")
)

// Terminal renders v as a static dashboard that fits in width cells.
func Terminal(v dashboard.View, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(headerLine(v)))
	b.WriteString("\n")
	if v.EpochMismatch {
		b.WriteString(warnStyle.Render("! " + mismatchNote(v)))
		b.WriteString("\n")
	}

	b.WriteString(cardRow(summaryCards(v), width))
	b.WriteString("\n")
	if cards := infoCards(v.Info); cards != nil {
		b.WriteString(cardRow(cards, width))
		b.WriteString("\n")
	}

	b.WriteString(section(headingEpochs))
	b.WriteString(bars(v.Epochs, epochColor, width, "%.2f"))
	b.WriteString(section(headingCumulative))
	b.WriteString(bars(v.Cumulative, cumColor, width, "%.2f"))

	if len(v.Power) > 0 {
		b.WriteString(section(headingPower))
		b.WriteString(breakdownBars(v.Power.Visible(), width, "%gW"))
	}
	if len(v.Energy) > 0 {
		b.WriteString(section(headingEnergy))
		b.WriteString(breakdownBars(v.Energy, width, "%.2f µWh"))
	}

	b.WriteString(section(headingRecommendations))
	if len(v.Recommendations) == 0 {
		b.WriteString(subtleStyle.Render("No recommendations."))
		b.WriteString("\n")
	}
	for _, rec := range v.Recommendations {
		prefix := fmt.Sprintf("%2d. ", rec.Number)
		text := lipgloss.NewStyle().Width(width - lipgloss.Width(prefix)).Render(rec.Text)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, valueStyle.Render(prefix), text))
		b.WriteString("\n")
	}

	if v.Snapshot != nil {
		b.WriteString(section(headingSnapshot))
		b.WriteString(snapshotTable(*v.Snapshot, width))
	}
	return strings.TrimRight(b.String(), "\n")
}

func section(title string) string {
	return sectionStyle.Render(title) + "\n"
}

// cardRow lays cards side by side, wrapping onto more rows when width is tight.
func cardRow(cards [][2]string, width int) string {
	perRow := width / (cardWidth + 2)
	if perRow < 1 {
		perRow = 1
	}
	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		rendered := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			body := subtleStyle.Render(c[0]) + "\n" + valueStyle.Render(util.TruncateRunes(c[1], cardWidth-1))
			rendered = append(rendered, cardStyle.Width(cardWidth).Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// bars draws one horizontal bar per point, scaled to the largest value.
func bars(points []dashboard.Point, color lipgloss.Color, width int, valueFormat string) string {
	if len(points) == 0 {
		return subtleStyle.Render("No data.") + "\n"
	}
	labelWidth := 0
	maxValue := 0.0
	for _, p := range points {
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
		maxValue = math.Max(maxValue, p.Value)
	}
	style := lipgloss.NewStyle().Foreground(color)

	var b strings.Builder
	for _, p := range points {
		value := fmt.Sprintf(valueFormat, p.Value)
		barWidth := max(width-labelWidth-lipgloss.Width(value)-3, minBarWidth)
		b.WriteString(fmt.Sprintf("%-*s ", labelWidth, p.Label))
		b.WriteString(style.Render(strings.Repeat("█", scaled(p.Value, maxValue, barWidth))))
		b.WriteString(" " + value + "\n")
	}
	return b.String()
}

func breakdownBars(slices dashboard.Breakdown, width int, valueFormat string) string {
	if len(slices) == 0 {
		return subtleStyle.Render("No data.") + "\n"
	}
	maxValue := slices.Max()
	var b strings.Builder
	for _, s := range slices {
		value := fmt.Sprintf(valueFormat, s.Value)
		barWidth := max(width-lipgloss.Width(value)-6, minBarWidth)
		style := lipgloss.NewStyle().Foreground(componentColors[s.Name])
		b.WriteString(fmt.Sprintf("%-3s ", s.Name))
		b.WriteString(style.Render(strings.Repeat("█", scaled(s.Value, maxValue, barWidth))))
		b.WriteString(" " + value + "\n")
	}
	return b.String()
}

// scaled maps v in [0, maxValue] onto [0, cells]. Any positive value gets
// at least one cell.
func scaled(v, maxValue float64, cells int) int {
	if v <= 0 || maxValue <= 0 {
		return 0
	}
	n := int(math.Round(v / maxValue * float64(cells)))
	if n < 1 {
		return 1
	}
	return n
}

func snapshotTable(s dashboard.Snapshot, width int) string {
	fields := s.Fields()
	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(f[0]))
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%-*s", labelWidth, f[0])))
		b.WriteString("  ")
		b.WriteString(util.TruncateRunes(f[1], max(width-labelWidth-2, minBarWidth)))
		b.WriteString("\n")
	}
	return b.String()
}
