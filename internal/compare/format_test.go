package compare

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTableFormatter_Format(t *testing.T) {
	compSet := createTestComparison()
	compSet.Recommendations = GenerateRecommendations(compSet)

	formatter := &TableFormatter{}
	output := formatter.Format(compSet)

	for _, want := range []string{
		"RETIREMENT AGE COMPARISON",
		"Plan: plan.yaml",
		"Simulations: 1000 (seed 42)",
		"Success",
		"Median End",
		"70.0%",
		"93.0%",
		"$250.0K",
		"$560.0K",
		"FAILURES",
		"MARGINAL BENEFIT OF ONE MORE WORKING YEAR",
		"60 -> 61",
		"+14.0 pts",
		"RECOMMENDATIONS",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected table output to contain %q", want)
		}
	}

	// Age 60 depletes at a median of 74; the later ages carry no
	// depletion age and render a dash.
	if !strings.Contains(output, "74") {
		t.Error("Expected median depletion age 74 in failure table")
	}
	if !strings.Contains(output, "-\n") {
		t.Error("Expected dash for ages without a depletion age")
	}
}

func TestTableFormatter_FormatVerbose(t *testing.T) {
	compSet := createTestComparison()

	formatter := &TableFormatter{}
	output := formatter.FormatVerbose(compSet)

	for _, want := range []string{
		"PROBABILITY OF DEPLETION BY CHECKPOINT AGE",
		"Retire at 60:",
		"by 70: 10.0%",
		"by 75: 22.0%",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected verbose output to contain %q", want)
		}
	}

	// Ages without ruin checkpoints are skipped entirely.
	if strings.Contains(output, "Retire at 61:") {
		t.Error("Expected no checkpoint section for ages without ruin data")
	}
}

func TestTableFormatter_FormatDecimal(t *testing.T) {
	formatter := &TableFormatter{}

	tests := []struct {
		value    int64
		expected string
	}{
		{500, "500"},
		{2500, "2.5K"},
		{250000, "250.0K"},
		{1500000, "1.50M"},
	}

	for _, test := range tests {
		got := formatter.formatDecimal(decimal.NewFromInt(test.value))
		if got != test.expected {
			t.Errorf("formatDecimal(%d) = %s, expected %s", test.value, got, test.expected)
		}
	}
}

func TestCSVFormatter_FormatAges(t *testing.T) {
	compSet := createTestComparison()

	formatter := &CSVFormatter{}
	output, err := formatter.FormatAges(compSet)
	if err != nil {
		t.Fatalf("FormatAges failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}

	if !strings.HasPrefix(lines[0], "Retirement Age,Simulations,Successes,Failures") {
		t.Errorf("Unexpected header: %s", lines[0])
	}

	// Age 60 row carries its median depletion age; age 61 leaves the
	// column empty.
	if !strings.Contains(lines[1], "0.7000") || !strings.Contains(lines[1], ",74,") {
		t.Errorf("Unexpected age-60 row: %s", lines[1])
	}
	if !strings.Contains(lines[2], ",,") {
		t.Errorf("Expected empty depletion column for age 61: %s", lines[2])
	}
	if !strings.Contains(lines[3], "560000.00") {
		t.Errorf("Expected median ending value in age-62 row: %s", lines[3])
	}
}

func TestCSVFormatter_FormatMarginal(t *testing.T) {
	compSet := createTestComparison()

	formatter := &CSVFormatter{}
	output, err := formatter.FormatMarginal(compSet)
	if err != nil {
		t.Fatalf("FormatMarginal failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "From Age,To Age,Success Rate Delta,Median Ending Value Delta" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if lines[1] != "60,61,0.1400,160000.00" {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	compSet := createTestComparison()
	compSet.Recommendations = GenerateRecommendations(compSet)

	formatter := &JSONFormatter{}
	output, err := formatter.Format(compSet)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded AgeComparisonSet
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.NumSimulations != 1000 || decoded.Seed != 42 {
		t.Errorf("Round trip lost run parameters: %d/%d", decoded.NumSimulations, decoded.Seed)
	}
	if len(decoded.Results) != 3 {
		t.Errorf("Round trip lost result rows: %d", len(decoded.Results))
	}

	pretty := &JSONFormatter{Pretty: true}
	prettyOutput, err := pretty.Format(compSet)
	if err != nil {
		t.Fatalf("Pretty format failed: %v", err)
	}
	if !strings.Contains(prettyOutput, "\n  ") {
		t.Error("Expected indented output in pretty mode")
	}
}

func TestChartFormatter_Format(t *testing.T) {
	compSet := createTestComparison()

	formatter := NewChartFormatter()
	output := formatter.Format(compSet)

	for _, want := range []string{
		"Success rate by retirement age",
		"100%",
		"50%",
		"60", "61", "62",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected chart output to contain %q", want)
		}
	}
}

func TestChartFormatter_Format_Empty(t *testing.T) {
	formatter := NewChartFormatter()
	if output := formatter.Format(&AgeComparisonSet{}); output != "" {
		t.Errorf("Expected empty output for empty comparison, got %q", output)
	}
}
