package compare

import (
	"fmt"

	"github.com/retiresim/retiresim/internal/domain"
	"github.com/shopspring/decimal"
)

// AgeComparisonSet is everything the reporting layer needs: finalized
// statistics per candidate retirement age, the marginal benefit of each
// additional working year, and derived recommendations.
type AgeComparisonSet struct {
	PlanPath         string                   `json:"planPath,omitempty"`
	NumSimulations   int                      `json:"numSimulations"`
	Seed             int64                    `json:"seed"`
	Results          []domain.AgeStatistics   `json:"results"`
	MarginalBenefits []domain.MarginalBenefit `json:"marginalBenefits"`
	Recommendations  []string                 `json:"recommendations"`
}

// BuildComparison assembles an AgeComparisonSet from an engine result.
func BuildComparison(result *domain.MonteCarloResult, planPath string) *AgeComparisonSet {
	compSet := &AgeComparisonSet{
		PlanPath:         planPath,
		NumSimulations:   result.NumSimulations,
		Seed:             result.Seed,
		Results:          result.Statistics,
		MarginalBenefits: result.MarginalBenefits,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

// Success-rate thresholds the recommendations report against.
var (
	comfortableSuccessRate = decimal.NewFromFloat(0.90)
	acceptableSuccessRate  = decimal.NewFromFloat(0.75)
)

// GenerateRecommendations derives plain-language guidance from the
// comparison: the earliest ages clearing the success thresholds and the
// single most valuable extra working year.
func GenerateRecommendations(compSet *AgeComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.Results) == 0 {
		return recommendations
	}

	if age, ok := earliestAgeAtRate(compSet.Results, comfortableSuccessRate); ok {
		recommendations = append(recommendations,
			fmt.Sprintf("Retiring at %d is the earliest age with a success rate of at least %s%%",
				age, comfortableSuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(0)))
	} else if age, ok := earliestAgeAtRate(compSet.Results, acceptableSuccessRate); ok {
		recommendations = append(recommendations,
			fmt.Sprintf("No age reaches a %s%% success rate; %d is the earliest above %s%%",
				comfortableSuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(0),
				age,
				acceptableSuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(0)))
	} else {
		last := compSet.Results[len(compSet.Results)-1]
		recommendations = append(recommendations,
			fmt.Sprintf("Even retiring at %d succeeds only %s%% of the time; the plan needs more savings or lower expenses",
				last.RetirementAge,
				last.SuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}

	if best := bestMarginalYear(compSet.MarginalBenefits); best != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("Working from %d to %d buys the most: +%s points of success rate",
				best.FromAge, best.ToAge,
				best.SuccessRateDelta.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}

	return recommendations
}

func earliestAgeAtRate(results []domain.AgeStatistics, rate decimal.Decimal) (int, bool) {
	for _, stats := range results {
		if stats.SuccessRate.GreaterThanOrEqual(rate) {
			return stats.RetirementAge, true
		}
	}
	return 0, false
}

func bestMarginalYear(benefits []domain.MarginalBenefit) *domain.MarginalBenefit {
	var best *domain.MarginalBenefit
	for i := range benefits {
		if best == nil || benefits[i].SuccessRateDelta.GreaterThan(best.SuccessRateDelta) {
			best = &benefits[i]
		}
	}
	if best == nil || !best.SuccessRateDelta.IsPositive() {
		return nil
	}
	return best
}
