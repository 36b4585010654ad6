package compare

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartAxisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chartBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	chartLowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// ChartFormatter renders the success-rate-vs-retirement-age chart for the
// console. Purely derived from the per-age summary.
type ChartFormatter struct {
	Height int
}

// NewChartFormatter creates a chart formatter with the default height.
func NewChartFormatter() *ChartFormatter {
	return &ChartFormatter{Height: 12}
}

// Format renders one column per retirement age, scaled 0-100%.
func (cf *ChartFormatter) Format(compSet *AgeComparisonSet) string {
	if len(compSet.Results) == 0 {
		return ""
	}

	height := cf.Height
	if height <= 0 {
		height = 12
	}

	rates := make([]float64, len(compSet.Results))
	for i, stats := range compSet.Results {
		rate, _ := stats.SuccessRate.Float64()
		rates[i] = rate
	}

	var sb strings.Builder
	sb.WriteString(chartTitleStyle.Render("Success rate by retirement age"))
	sb.WriteString("\n\n")

	const yAxisWidth = 5
	const colWidth = 4

	for row := 0; row < height; row++ {
		// Top row = 100%, bottom row just above 0%.
		threshold := float64(height-row) / float64(height)

		label := "     "
		if row == 0 {
			label = " 100%"
		} else if row == height/2 {
			label = "  50%"
		}
		sb.WriteString(chartAxisStyle.Render(label))
		sb.WriteString(chartAxisStyle.Render(" │"))

		for _, rate := range rates {
			cell := strings.Repeat(" ", colWidth)
			if rate >= threshold-1e-9 {
				bar := " ██" + strings.Repeat(" ", colWidth-3)
				if rate < 0.75 {
					cell = chartLowStyle.Render(bar)
				} else {
					cell = chartBarStyle.Render(bar)
				}
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(chartAxisStyle.Render(strings.Repeat(" ", yAxisWidth) + " └" + strings.Repeat("─", len(rates)*colWidth)))
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", yAxisWidth+2))
	for _, stats := range compSet.Results {
		sb.WriteString(chartAxisStyle.Render(fmt.Sprintf("%*d", colWidth-1, stats.RetirementAge)) + " ")
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", yAxisWidth+2))
	for _, stats := range compSet.Results {
		pct := stats.SuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(0)
		sb.WriteString(fmt.Sprintf("%*s ", colWidth-1, pct+"%"))
	}
	sb.WriteString("\n")

	return sb.String()
}
