package compare

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/retiresim/retiresim/internal/domain"
)

// CSVFormatter produces the two tabular exports: one row per retirement
// age and one row per adjacent-age pair.
type CSVFormatter struct{}

// FormatAges generates the per-age CSV export.
func (cf *CSVFormatter) FormatAges(compSet *AgeComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Retirement Age",
		"Simulations",
		"Successes",
		"Failures",
		"Success Rate",
		"Failure Rate",
		"Median Ending Value",
		"P10 Ending Value",
		"Median Depletion Age",
		"Avg Assets At Retirement",
		"Avg Cash At Retirement",
		"Avg Pension At Retirement",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, stats := range compSet.Results {
		if err := writer.Write(cf.formatAgeRow(&stats)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FormatMarginal generates the adjacent-age-pair CSV export.
func (cf *CSVFormatter) FormatMarginal(compSet *AgeComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"From Age",
		"To Age",
		"Success Rate Delta",
		"Median Ending Value Delta",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, mb := range compSet.MarginalBenefits {
		row := []string{
			formatInt(mb.FromAge),
			formatInt(mb.ToAge),
			mb.SuccessRateDelta.StringFixed(4),
			mb.MedianEndingValueDelta.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatAgeRow(stats *domain.AgeStatistics) []string {
	depletionStr := ""
	if stats.MedianDepletionAge != nil {
		depletionStr = formatInt(*stats.MedianDepletionAge)
	}

	return []string{
		formatInt(stats.RetirementAge),
		formatInt(stats.Simulations),
		formatInt(stats.Successes),
		formatInt(stats.Failures),
		stats.SuccessRate.StringFixed(4),
		stats.FailureRate.StringFixed(4),
		stats.MedianEndingValue.StringFixed(2),
		stats.P10EndingValue.StringFixed(2),
		depletionStr,
		stats.AvgAssetsAtRetirement.StringFixed(2),
		stats.AvgCashAtRetirement.StringFixed(2),
		stats.AvgPensionAtRetirement.StringFixed(2),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
