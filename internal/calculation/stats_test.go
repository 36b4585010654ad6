package calculation

import (
	"testing"

	"github.com/retiresim/retiresim/internal/domain"
	"github.com/shopspring/decimal"
)

func decimals(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestPercentile(t *testing.T) {
	sorted := decimals(10, 20, 30, 40, 50)

	tests := []struct {
		name     string
		p        float64
		expected decimal.Decimal
	}{
		{"median", 0.5, decimal.NewFromInt(30)},
		{"tenth percentile interpolates", 0.1, decimal.NewFromInt(14)},
		{"minimum", 0.0, decimal.NewFromInt(10)},
		{"maximum", 1.0, decimal.NewFromInt(50)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := percentile(sorted, test.p)
			if !got.Equal(test.expected) {
				t.Errorf("percentile(%v) = %s, expected %s", test.p, got, test.expected)
			}
		})
	}
}

func TestPercentile_Edges(t *testing.T) {
	if !percentile(nil, 0.5).IsZero() {
		t.Error("Expected zero for empty input")
	}

	single := decimals(42)
	if !percentile(single, 0.1).Equal(decimal.NewFromInt(42)) {
		t.Error("Expected the only element for any percentile of a singleton")
	}

	// Even length: median interpolates halfway between the middle pair.
	even := decimals(10, 20, 30, 40)
	if !percentile(even, 0.5).Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected median 25 for even-length input, got %s", percentile(even, 0.5))
	}
}

func TestMedianInt(t *testing.T) {
	if got := medianInt([]int{70, 66, 68}); got != 68 {
		t.Errorf("Expected odd-length median 68, got %d", got)
	}
	if got := medianInt([]int{70, 66, 68, 72}); got != 69 {
		t.Errorf("Expected even-length median 69, got %d", got)
	}
	if got := medianInt([]int{75}); got != 75 {
		t.Errorf("Expected singleton median 75, got %d", got)
	}
}

func TestAgeAccumulator_FoldAndFinalize(t *testing.T) {
	acc := newAgeAccumulator(60)

	depletionAge := 72
	outcomes := []domain.TrialOutcome{
		{RetirementAge: 60, Succeeded: true, EndingPortfolioValue: decimal.NewFromInt(500000), AssetsAtRetirement: decimal.NewFromInt(400000)},
		{RetirementAge: 60, Succeeded: true, EndingPortfolioValue: decimal.NewFromInt(300000), AssetsAtRetirement: decimal.NewFromInt(380000), ShortfallYears: 2},
		{RetirementAge: 60, Succeeded: false, EndingPortfolioValue: decimal.Zero, AssetsAtRetirement: decimal.NewFromInt(360000), DepletionAge: &depletionAge},
		{RetirementAge: 60, Succeeded: true, EndingPortfolioValue: decimal.NewFromInt(400000), AssetsAtRetirement: decimal.NewFromInt(420000)},
	}
	for _, o := range outcomes {
		acc.fold(o)
	}

	stats := acc.finalize([]int{70, 75})

	if stats.RetirementAge != 60 {
		t.Errorf("Expected retirement age 60, got %d", stats.RetirementAge)
	}
	if stats.Simulations != 4 || stats.Successes != 3 || stats.Failures != 1 {
		t.Errorf("Expected 4/3/1 counts, got %d/%d/%d", stats.Simulations, stats.Successes, stats.Failures)
	}
	if !stats.SuccessRate.Equal(decimal.NewFromFloat(0.75)) {
		t.Errorf("Expected success rate 0.75, got %s", stats.SuccessRate)
	}
	if !stats.FailureRate.Equal(decimal.NewFromFloat(0.25)) {
		t.Errorf("Expected failure rate 0.25, got %s", stats.FailureRate)
	}

	// Sorted ending values are [0, 300000, 400000, 500000], median 350000.
	if !stats.MedianEndingValue.Equal(decimal.NewFromInt(350000)) {
		t.Errorf("Expected median ending value 350000, got %s", stats.MedianEndingValue)
	}

	if stats.MedianDepletionAge == nil || *stats.MedianDepletionAge != 72 {
		t.Errorf("Expected median depletion age 72, got %v", stats.MedianDepletionAge)
	}
	if stats.ShortfallTrials != 1 {
		t.Errorf("Expected 1 trial with working-year shortfalls, got %d", stats.ShortfallTrials)
	}

	// Average assets: (400000+380000+360000+420000)/4 = 390000.
	if !stats.AvgAssetsAtRetirement.Equal(decimal.NewFromInt(390000)) {
		t.Errorf("Expected average assets 390000, got %s", stats.AvgAssetsAtRetirement)
	}

	// Ruin checkpoints: nothing depleted by 70, one of four by 75.
	if len(stats.RuinByAge) != 2 {
		t.Fatalf("Expected 2 ruin checkpoints, got %d", len(stats.RuinByAge))
	}
	if !stats.RuinByAge[0].Probability.IsZero() {
		t.Errorf("Expected zero ruin probability at 70, got %s", stats.RuinByAge[0].Probability)
	}
	if !stats.RuinByAge[1].Probability.Equal(decimal.NewFromFloat(0.25)) {
		t.Errorf("Expected ruin probability 0.25 at 75, got %s", stats.RuinByAge[1].Probability)
	}
}

func TestAgeAccumulator_NoDepletions(t *testing.T) {
	acc := newAgeAccumulator(62)
	acc.fold(domain.TrialOutcome{RetirementAge: 62, Succeeded: true, EndingPortfolioValue: decimal.NewFromInt(100)})

	stats := acc.finalize(nil)

	if stats.MedianDepletionAge != nil {
		t.Errorf("Expected no median depletion age without failures, got %d", *stats.MedianDepletionAge)
	}
	if stats.RuinByAge != nil {
		t.Error("Expected no ruin table without checkpoints")
	}
}

func TestAgeAccumulator_MergeOrderIndependent(t *testing.T) {
	outcomes := make([]domain.TrialOutcome, 0, 6)
	for i, value := range []int64{100, 600, 200, 500, 0, 300} {
		o := domain.TrialOutcome{
			RetirementAge:        60,
			Succeeded:            value > 0,
			EndingPortfolioValue: decimal.NewFromInt(value),
		}
		if value == 0 {
			age := 70 + i
			o.DepletionAge = &age
		}
		outcomes = append(outcomes, o)
	}

	// Split the outcomes across two accumulators and merge both ways.
	buildPair := func() (*ageAccumulator, *ageAccumulator) {
		a, b := newAgeAccumulator(60), newAgeAccumulator(60)
		for i, o := range outcomes {
			if i%2 == 0 {
				a.fold(o)
			} else {
				b.fold(o)
			}
		}
		return a, b
	}

	a1, b1 := buildPair()
	a1.merge(b1)
	forward := a1.finalize([]int{75})

	a2, b2 := buildPair()
	b2.merge(a2)
	backward := b2.finalize([]int{75})

	if forward.Successes != backward.Successes || forward.Failures != backward.Failures {
		t.Errorf("Merge order changed counts: %d/%d vs %d/%d",
			forward.Successes, forward.Failures, backward.Successes, backward.Failures)
	}
	if !forward.MedianEndingValue.Equal(backward.MedianEndingValue) {
		t.Errorf("Merge order changed median: %s vs %s", forward.MedianEndingValue, backward.MedianEndingValue)
	}
	if !forward.SuccessRate.Equal(backward.SuccessRate) {
		t.Errorf("Merge order changed success rate: %s vs %s", forward.SuccessRate, backward.SuccessRate)
	}
}

func TestMarginalBenefits(t *testing.T) {
	stats := []domain.AgeStatistics{
		{RetirementAge: 60, SuccessRate: decimal.NewFromFloat(0.70), MedianEndingValue: decimal.NewFromInt(200000)},
		{RetirementAge: 61, SuccessRate: decimal.NewFromFloat(0.78), MedianEndingValue: decimal.NewFromInt(260000)},
		{RetirementAge: 62, SuccessRate: decimal.NewFromFloat(0.85), MedianEndingValue: decimal.NewFromInt(330000)},
	}

	benefits := MarginalBenefits(stats)

	if len(benefits) != 2 {
		t.Fatalf("Expected 2 adjacent-age deltas, got %d", len(benefits))
	}
	if benefits[0].FromAge != 60 || benefits[0].ToAge != 61 {
		t.Errorf("Expected first delta 60->61, got %d->%d", benefits[0].FromAge, benefits[0].ToAge)
	}
	if !benefits[0].SuccessRateDelta.Equal(decimal.NewFromFloat(0.08)) {
		t.Errorf("Expected success delta 0.08, got %s", benefits[0].SuccessRateDelta)
	}
	if !benefits[1].MedianEndingValueDelta.Equal(decimal.NewFromInt(70000)) {
		t.Errorf("Expected median delta 70000, got %s", benefits[1].MedianEndingValueDelta)
	}
}

func TestMarginalBenefits_SingleAge(t *testing.T) {
	stats := []domain.AgeStatistics{{RetirementAge: 60}}
	if got := MarginalBenefits(stats); got != nil {
		t.Errorf("Expected nil for a single age, got %v", got)
	}
}
