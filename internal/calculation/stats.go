package calculation

import (
	"sort"

	"github.com/retiresim/retiresim/internal/domain"
	"github.com/shopspring/decimal"
)

// ageAccumulator collects raw outcomes for one retirement age across all
// simulation runs. Accumulators are merged before finalization; counts,
// exact decimal sums, and unsorted slices make the merge order irrelevant
// to the finalized statistics.
type ageAccumulator struct {
	retirementAge int

	successes int
	failures  int

	endingValues []decimal.Decimal
	depletionAges []int

	sumAssetsAtRetirement  decimal.Decimal
	sumCashAtRetirement    decimal.Decimal
	sumPensionAtRetirement decimal.Decimal

	shortfallTrials int
}

func newAgeAccumulator(retirementAge int) *ageAccumulator {
	return &ageAccumulator{retirementAge: retirementAge}
}

// fold absorbs one trial outcome.
func (acc *ageAccumulator) fold(outcome domain.TrialOutcome) {
	if outcome.Succeeded {
		acc.successes++
	} else {
		acc.failures++
	}
	acc.endingValues = append(acc.endingValues, outcome.EndingPortfolioValue)
	if outcome.DepletionAge != nil {
		acc.depletionAges = append(acc.depletionAges, *outcome.DepletionAge)
	}
	acc.sumAssetsAtRetirement = acc.sumAssetsAtRetirement.Add(outcome.AssetsAtRetirement)
	acc.sumCashAtRetirement = acc.sumCashAtRetirement.Add(outcome.CashAtRetirement)
	acc.sumPensionAtRetirement = acc.sumPensionAtRetirement.Add(outcome.PensionAtRetirement)
	if outcome.ShortfallYears > 0 {
		acc.shortfallTrials++
	}
}

// merge absorbs another accumulator for the same age.
func (acc *ageAccumulator) merge(other *ageAccumulator) {
	acc.successes += other.successes
	acc.failures += other.failures
	acc.endingValues = append(acc.endingValues, other.endingValues...)
	acc.depletionAges = append(acc.depletionAges, other.depletionAges...)
	acc.sumAssetsAtRetirement = acc.sumAssetsAtRetirement.Add(other.sumAssetsAtRetirement)
	acc.sumCashAtRetirement = acc.sumCashAtRetirement.Add(other.sumCashAtRetirement)
	acc.sumPensionAtRetirement = acc.sumPensionAtRetirement.Add(other.sumPensionAtRetirement)
	acc.shortfallTrials += other.shortfallTrials
}

// finalize computes the cross-run statistics for this age. Called exactly
// once, after every simulation has been folded.
func (acc *ageAccumulator) finalize(checkpoints []int) domain.AgeStatistics {
	total := acc.successes + acc.failures
	stats := domain.AgeStatistics{
		RetirementAge:   acc.retirementAge,
		Simulations:     total,
		Successes:       acc.successes,
		Failures:        acc.failures,
		ShortfallTrials: acc.shortfallTrials,
	}
	if total == 0 {
		return stats
	}

	totalDec := decimal.NewFromInt(int64(total))
	stats.SuccessRate = decimal.NewFromInt(int64(acc.successes)).Div(totalDec)
	stats.FailureRate = decimal.NewFromInt(int64(acc.failures)).Div(totalDec)

	sorted := make([]decimal.Decimal, len(acc.endingValues))
	copy(sorted, acc.endingValues)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	stats.MedianEndingValue = percentile(sorted, 0.5)
	stats.P10EndingValue = percentile(sorted, 0.1)

	if len(acc.depletionAges) > 0 {
		medianAge := medianInt(acc.depletionAges)
		stats.MedianDepletionAge = &medianAge
	}

	stats.AvgAssetsAtRetirement = acc.sumAssetsAtRetirement.Div(totalDec)
	stats.AvgCashAtRetirement = acc.sumCashAtRetirement.Div(totalDec)
	stats.AvgPensionAtRetirement = acc.sumPensionAtRetirement.Div(totalDec)

	stats.RuinByAge = ruinCheckpoints(acc.depletionAges, checkpoints, total)

	return stats
}

// percentile computes the p-quantile of an ascending-sorted slice with
// linear interpolation between the closest ranks. For [10,20,30,40,50]
// the median is 30 and the 10th percentile is 14.
func percentile(sorted []decimal.Decimal, p float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}

	index := p * float64(len(sorted)-1)
	lower := int(index)
	if index == float64(lower) {
		return sorted[lower]
	}

	fraction := decimal.NewFromFloat(index - float64(lower))
	return sorted[lower].Add(sorted[lower+1].Sub(sorted[lower]).Mul(fraction))
}

// medianInt returns the median of an integer slice; for even lengths the
// two middle values are averaged.
func medianInt(values []int) int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// ruinCheckpoints computes the cumulative probability of depletion at or
// before each checkpoint age.
func ruinCheckpoints(depletionAges, checkpoints []int, total int) []domain.CheckpointProbability {
	if len(checkpoints) == 0 || total == 0 {
		return nil
	}

	totalDec := decimal.NewFromInt(int64(total))
	probs := make([]domain.CheckpointProbability, 0, len(checkpoints))
	for _, checkpoint := range checkpoints {
		count := 0
		for _, age := range depletionAges {
			if age <= checkpoint {
				count++
			}
		}
		probs = append(probs, domain.CheckpointProbability{
			Age:         checkpoint,
			Probability: decimal.NewFromInt(int64(count)).Div(totalDec),
		})
	}
	return probs
}

// MarginalBenefits derives the adjacent-age deltas from finalized
// statistics ordered by ascending retirement age: what one more working
// year changes in success rate and median ending value.
func MarginalBenefits(stats []domain.AgeStatistics) []domain.MarginalBenefit {
	if len(stats) < 2 {
		return nil
	}

	benefits := make([]domain.MarginalBenefit, 0, len(stats)-1)
	for i := 1; i < len(stats); i++ {
		prev, next := stats[i-1], stats[i]
		benefits = append(benefits, domain.MarginalBenefit{
			FromAge:                prev.RetirementAge,
			ToAge:                  next.RetirementAge,
			SuccessRateDelta:       next.SuccessRate.Sub(prev.SuccessRate),
			MedianEndingValueDelta: next.MedianEndingValue.Sub(prev.MedianEndingValue),
		})
	}
	return benefits
}
