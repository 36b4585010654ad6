package domain

import (
	"github.com/shopspring/decimal"
)

// MarketPath is one simulated sequence of blended annual equity returns,
// one entry per simulated year. A path is generated once per simulation
// run and shared by reference across every retirement-age trial of that
// run, never mutated.
type MarketPath []decimal.Decimal

// InflationPath is one simulated sequence of annual inflation rates, the
// same length as its companion MarketPath and shared the same way.
type InflationPath []decimal.Decimal

// TrialOutcome is the immutable result of replaying one market/inflation
// path against one candidate retirement age.
type TrialOutcome struct {
	RetirementAge int  `json:"retirementAge"`
	Succeeded     bool `json:"succeeded"`

	// DepletionAge is set only when the trial failed: the age at which the
	// last account hit zero mid-withdrawal.
	DepletionAge *int `json:"depletionAge,omitempty"`

	EndingPortfolioValue decimal.Decimal `json:"endingPortfolioValue"`

	// Snapshots taken the instant the trial switched from accumulation to
	// decumulation.
	AssetsAtRetirement  decimal.Decimal `json:"assetsAtRetirement"`
	CashAtRetirement    decimal.Decimal `json:"cashAtRetirement"`
	PensionAtRetirement decimal.Decimal `json:"pensionAtRetirement"`

	// ShortfallYears counts working years in which after-tax salary did not
	// cover expenses and savings had to fill the gap. Non-fatal.
	ShortfallYears int `json:"shortfallYears,omitempty"`
}

// AgeStatistics is the finalized cross-run summary for one retirement age.
type AgeStatistics struct {
	RetirementAge int `json:"retirementAge"`
	Simulations   int `json:"simulations"`
	Successes     int `json:"successes"`
	Failures      int `json:"failures"`

	SuccessRate decimal.Decimal `json:"successRate"`
	FailureRate decimal.Decimal `json:"failureRate"`

	MedianEndingValue decimal.Decimal `json:"medianEndingValue"`
	P10EndingValue    decimal.Decimal `json:"p10EndingValue"`

	// MedianDepletionAge is nil when every simulation for this age
	// succeeded.
	MedianDepletionAge *int `json:"medianDepletionAge,omitempty"`

	AvgAssetsAtRetirement  decimal.Decimal `json:"avgAssetsAtRetirement"`
	AvgCashAtRetirement    decimal.Decimal `json:"avgCashAtRetirement"`
	AvgPensionAtRetirement decimal.Decimal `json:"avgPensionAtRetirement"`

	ShortfallTrials int `json:"shortfallTrials,omitempty"`

	// RuinByAge is the cumulative probability of depletion at or before
	// each checkpoint age.
	RuinByAge []CheckpointProbability `json:"ruinByAge,omitempty"`
}

// CheckpointProbability pairs a checkpoint age with the cumulative
// probability of depletion by that age.
type CheckpointProbability struct {
	Age         int             `json:"age"`
	Probability decimal.Decimal `json:"probability"`
}

// MarginalBenefit captures what one additional working year buys: the
// change in success rate and median ending value between two adjacent
// candidate retirement ages.
type MarginalBenefit struct {
	FromAge                int             `json:"fromAge"`
	ToAge                  int             `json:"toAge"`
	SuccessRateDelta       decimal.Decimal `json:"successRateDelta"`
	MedianEndingValueDelta decimal.Decimal `json:"medianEndingValueDelta"`
}

// MonteCarloResult is the full output of an aggregated run: one finalized
// AgeStatistics per candidate retirement age, in ascending age order.
type MonteCarloResult struct {
	NumSimulations   int               `json:"numSimulations"`
	Seed             int64             `json:"seed"`
	Ages             []int             `json:"ages"`
	Statistics       []AgeStatistics   `json:"statistics"`
	MarginalBenefits []MarginalBenefit `json:"marginalBenefits"`
}

// StatisticsForAge returns the finalized statistics for one retirement
// age, or nil if the age was not simulated.
func (r *MonteCarloResult) StatisticsForAge(age int) *AgeStatistics {
	for i := range r.Statistics {
		if r.Statistics[i].RetirementAge == age {
			return &r.Statistics[i]
		}
	}
	return nil
}
