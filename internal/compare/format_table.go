package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats an age comparison as console tables.
type TableFormatter struct{}

// Format renders the per-age summary, failure table, and marginal-benefit
// table.
func (tf *TableFormatter) Format(compSet *AgeComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("RETIREMENT AGE COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 92) + "\n")
	if compSet.PlanPath != "" {
		sb.WriteString(fmt.Sprintf("Plan: %s\n", compSet.PlanPath))
	}
	sb.WriteString(fmt.Sprintf("Simulations: %d (seed %d)\n", compSet.NumSimulations, compSet.Seed))
	sb.WriteString("\n")

	ageWidth := 5
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*s\n",
		ageWidth, "Age",
		numWidth, "Success",
		numWidth, "Median End",
		numWidth, "P10 End",
		numWidth, "Avg Assets",
		numWidth, "Avg Cash",
		numWidth, "Avg Pension"))
	sb.WriteString(strings.Repeat("-", 92) + "\n")

	for _, stats := range compSet.Results {
		sb.WriteString(fmt.Sprintf("%-*d %*s %*s %*s %*s %*s %*s\n",
			ageWidth, stats.RetirementAge,
			numWidth, stats.SuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(1)+"%",
			numWidth, "$"+tf.formatDecimal(stats.MedianEndingValue),
			numWidth, "$"+tf.formatDecimal(stats.P10EndingValue),
			numWidth, "$"+tf.formatDecimal(stats.AvgAssetsAtRetirement),
			numWidth, "$"+tf.formatDecimal(stats.AvgCashAtRetirement),
			numWidth, "$"+tf.formatDecimal(stats.AvgPensionAtRetirement)))
	}
	sb.WriteString(strings.Repeat("=", 92) + "\n")

	tf.writeFailureTable(&sb, compSet)
	tf.writeMarginalTable(&sb, compSet)

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	}

	return sb.String()
}

func (tf *TableFormatter) writeFailureTable(sb *strings.Builder, compSet *AgeComparisonSet) {
	sb.WriteString("\nFAILURES\n")
	sb.WriteString(strings.Repeat("-", 92) + "\n")
	sb.WriteString(fmt.Sprintf("%-5s %14s %14s %20s\n",
		"Age", "Failures", "Failure Rate", "Median Depletion Age"))

	for _, stats := range compSet.Results {
		depletionStr := "-"
		if stats.MedianDepletionAge != nil {
			depletionStr = fmt.Sprintf("%d", *stats.MedianDepletionAge)
		}
		sb.WriteString(fmt.Sprintf("%-5d %14d %14s %20s\n",
			stats.RetirementAge,
			stats.Failures,
			stats.FailureRate.Mul(decimal.NewFromInt(100)).StringFixed(1)+"%",
			depletionStr))
	}
}

func (tf *TableFormatter) writeMarginalTable(sb *strings.Builder, compSet *AgeComparisonSet) {
	if len(compSet.MarginalBenefits) == 0 {
		return
	}

	sb.WriteString("\nMARGINAL BENEFIT OF ONE MORE WORKING YEAR\n")
	sb.WriteString(strings.Repeat("-", 92) + "\n")
	sb.WriteString(fmt.Sprintf("%-10s %18s %20s\n",
		"Ages", "Success Rate", "Median Ending Value"))

	for _, mb := range compSet.MarginalBenefits {
		sb.WriteString(fmt.Sprintf("%-10s %18s %20s\n",
			fmt.Sprintf("%d -> %d", mb.FromAge, mb.ToAge),
			tf.deltaSymbol(mb.SuccessRateDelta)+mb.SuccessRateDelta.Mul(decimal.NewFromInt(100)).Abs().StringFixed(1)+" pts",
			tf.deltaSymbol(mb.MedianEndingValueDelta)+"$"+tf.formatDecimal(mb.MedianEndingValueDelta.Abs())))
	}
}

// FormatVerbose appends the per-age cumulative ruin-probability
// checkpoints to the standard tables.
func (tf *TableFormatter) FormatVerbose(compSet *AgeComparisonSet) string {
	var sb strings.Builder
	sb.WriteString(tf.Format(compSet))

	sb.WriteString("\nPROBABILITY OF DEPLETION BY CHECKPOINT AGE\n")
	sb.WriteString(strings.Repeat("-", 92) + "\n")

	for _, stats := range compSet.Results {
		if len(stats.RuinByAge) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("Retire at %d:\n", stats.RetirementAge))
		for _, cp := range stats.RuinByAge {
			sb.WriteString(fmt.Sprintf("  by %d: %s%%\n",
				cp.Age, cp.Probability.Mul(decimal.NewFromInt(100)).StringFixed(1)))
		}
	}

	return sb.String()
}

// formatDecimal formats a dollar amount compactly (K/M suffixes).
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}
