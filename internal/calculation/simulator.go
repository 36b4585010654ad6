package calculation

import (
	"github.com/retiresim/retiresim/internal/domain"
	"github.com/shopspring/decimal"
)

// Simulator replays one market/inflation path against candidate
// retirement ages.
type Simulator struct {
	plan   *domain.Plan
	logger Logger
}

// NewSimulator creates a simulator for the given plan.
func NewSimulator(plan *domain.Plan) *Simulator {
	return &Simulator{plan: plan, logger: NopLogger{}}
}

// SetLogger replaces the simulator's logger.
func (sim *Simulator) SetLogger(logger Logger) {
	if logger != nil {
		sim.logger = logger
	}
}

// RunTrial replays the full horizon year by year for one retirement age,
// applying working-year updates before that age and retirement-year
// updates from it onward. The retirement snapshot is captured the instant
// the trial crosses into decumulation.
func (sim *Simulator) RunTrial(market domain.MarketPath, inflation domain.InflationPath, retirementAge int) domain.TrialOutcome {
	state := NewAccountState(sim.plan)
	outcome := domain.TrialOutcome{RetirementAge: retirementAge}

	inflationFactor := one
	for i, age := 0, sim.plan.CurrentAge; age <= sim.plan.TargetAge; i, age = i+1, age+1 {
		if i > 0 {
			inflationFactor = inflationFactor.Mul(one.Add(inflation[i]))
		}

		if age == retirementAge {
			outcome.AssetsAtRetirement = state.PortfolioValue()
			outcome.CashAtRetirement = state.Cash
			outcome.PensionAtRetirement = state.PensionAccrued(sim.plan, inflationFactor)
		}

		if state.Depleted {
			continue
		}

		if age < retirementAge {
			state.ApplyWorkingYear(sim.plan, market[i], inflationFactor, sim.logger)
		} else {
			state.ApplyRetirementYear(sim.plan, market[i], inflationFactor, age, sim.logger)
		}
	}

	outcome.Succeeded = !state.Depleted
	outcome.ShortfallYears = state.ShortfallYears
	if state.Depleted {
		depletionAge := state.DepletionAge
		outcome.DepletionAge = &depletionAge
		outcome.EndingPortfolioValue = decimal.Zero
	} else {
		outcome.EndingPortfolioValue = state.PortfolioValue()
	}

	return outcome
}

// CompareAges runs one trial per candidate age against the identical
// paths. Every trial gets a fresh AccountState; nothing is shared between
// age trials except the read-only paths, so iteration order cannot affect
// outcomes.
func (sim *Simulator) CompareAges(market domain.MarketPath, inflation domain.InflationPath, ages []int) map[int]domain.TrialOutcome {
	outcomes := make(map[int]domain.TrialOutcome, len(ages))
	for _, age := range ages {
		outcomes[age] = sim.RunTrial(market, inflation, age)
	}
	return outcomes
}
