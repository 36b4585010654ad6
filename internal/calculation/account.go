package calculation

import (
	"github.com/retiresim/retiresim/internal/domain"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// AccountState is the mutable financial state of one trial: one
// (path, retirement age) pair owns exactly one AccountState for the length
// of the replay and discards it once the outcome is recorded.
//
// The trial moves through three phases: accumulating while age is below
// the trial's retirement age, decumulating from that age on, and depleted
// once a retirement-year shortfall cannot be covered. Depleted is terminal
// and absorbing; later years are no-ops.
type AccountState struct {
	Cash          decimal.Decimal
	Taxable       decimal.Decimal
	TaxAdvantaged decimal.Decimal

	// TaxableBasis is the cost basis of the taxable account. The opening
	// balance counts entirely as basis; contributions raise it, growth does
	// not, and withdrawals consume it proportionally. Capital-gains tax
	// applies only to the gain portion of a withdrawal.
	TaxableBasis decimal.Decimal

	YearsOfService int

	ShortfallYears int
	Depleted       bool
	DepletionAge   int
}

// NewAccountState creates the starting state for one trial from the plan's
// configured initial balances.
func NewAccountState(plan *domain.Plan) *AccountState {
	return &AccountState{
		Cash:           plan.InitialCash,
		Taxable:        plan.InitialTaxable,
		TaxableBasis:   plan.InitialTaxable,
		TaxAdvantaged:  plan.InitialTaxAdvantaged,
		YearsOfService: plan.YearsOfService,
	}
}

// PortfolioValue is the sum of all account balances.
func (s *AccountState) PortfolioValue() decimal.Decimal {
	return s.Cash.Add(s.Taxable).Add(s.TaxAdvantaged)
}

// PensionAccrued is the annual pension earned so far: the per-service-year
// amount times accrued years, in today's dollars scaled by the cumulative
// inflation factor. Monotonically non-decreasing in years of service.
func (s *AccountState) PensionAccrued(plan *domain.Plan, inflationFactor decimal.Decimal) decimal.Decimal {
	return plan.PensionPerServiceYear.
		Mul(decimal.NewFromInt(int64(s.YearsOfService))).
		Mul(inflationFactor)
}

// ApplyWorkingYear advances the state through one accumulation year.
// inflationFactor is the cumulative inflation multiplier for the year and
// marketReturn the year's blended equity return.
func (s *AccountState) ApplyWorkingYear(plan *domain.Plan, marketReturn, inflationFactor decimal.Decimal, logger Logger) {
	grossSalary := plan.BaseSalary.Mul(inflationFactor)
	contribution := plan.AnnualContribution.Mul(inflationFactor)
	if contribution.GreaterThan(grossSalary) {
		contribution = grossSalary
	}

	taxableIncome := grossSalary.Sub(contribution)
	afterTaxSalary := taxableIncome.Mul(one.Sub(plan.IncomeTaxRate))
	expenses := plan.AnnualExpenses.Mul(inflationFactor)

	if afterTaxSalary.GreaterThanOrEqual(expenses) {
		leftover := afterTaxSalary.Sub(expenses)
		toCash := leftover.Mul(plan.SavingsSplitCash)
		toTaxable := leftover.Sub(toCash)
		s.Cash = s.Cash.Add(toCash)
		s.Taxable = s.Taxable.Add(toTaxable)
		s.TaxableBasis = s.TaxableBasis.Add(toTaxable)
	} else {
		// Salary does not cover expenses: fill the gap from savings. This
		// is a recorded partial failure, not a terminal one; the salary
		// stream continues next year.
		shortfall := expenses.Sub(afterTaxSalary)
		uncovered := s.withdrawNet(shortfall, plan)
		s.ShortfallYears++
		logger.Debugf("working-year shortfall of %s (uncovered %s) at %d years of service",
			shortfall.StringFixed(2), uncovered.StringFixed(2), s.YearsOfService)
	}

	s.TaxAdvantaged = s.TaxAdvantaged.Add(contribution)

	growth := one.Add(marketReturn)
	s.Taxable = s.Taxable.Mul(growth)
	s.TaxAdvantaged = s.TaxAdvantaged.Mul(growth)

	s.YearsOfService++
}

// ApplyRetirementYear advances the state through one decumulation year at
// the given age. A shortfall that survives the full withdrawal ladder
// marks the trial depleted; balances are clamped to zero and no further
// growth applies.
func (s *AccountState) ApplyRetirementYear(plan *domain.Plan, marketReturn, inflationFactor decimal.Decimal, age int, logger Logger) {
	income := s.PensionAccrued(plan, inflationFactor)
	if age >= plan.SocialSecurityStartAge {
		income = income.Add(plan.SocialSecurityAnnual.Mul(inflationFactor))
	}
	if age < plan.EarnedIncomeStopAge {
		income = income.Add(plan.EarnedIncomeAnnual.Mul(inflationFactor))
	}

	expenses := plan.AnnualExpenses.Mul(inflationFactor)

	if income.GreaterThanOrEqual(expenses) {
		// Surplus is held as cash rather than reinvested.
		s.Cash = s.Cash.Add(income.Sub(expenses))
	} else {
		shortfall := expenses.Sub(income)
		uncovered := s.withdrawNet(shortfall, plan)
		if uncovered.IsPositive() {
			logger.Debugf("depleted at age %d with %s uncovered", age, uncovered.StringFixed(2))
			s.markDepleted(age)
			return
		}
	}

	growth := one.Add(marketReturn)
	s.Taxable = s.Taxable.Mul(growth)
	s.TaxAdvantaged = s.TaxAdvantaged.Mul(growth)
}

// withdrawNet raises the given net amount through the withdrawal ladder:
// cash first (untaxed), then taxable (capital-gains rate on the gain
// portion), then tax-advantaged (ordinary rate on the full withdrawal).
// Each account drains to zero before the next is touched. Returns the net
// amount that could not be covered.
func (s *AccountState) withdrawNet(need decimal.Decimal, plan *domain.Plan) decimal.Decimal {
	remaining := need

	if s.Cash.IsPositive() && remaining.IsPositive() {
		draw := decimal.Min(s.Cash, remaining)
		s.Cash = s.Cash.Sub(draw)
		remaining = remaining.Sub(draw)
	}

	if s.Taxable.IsPositive() && remaining.IsPositive() {
		gainFraction := decimal.Zero
		if s.Taxable.GreaterThan(s.TaxableBasis) {
			gainFraction = s.Taxable.Sub(s.TaxableBasis).Div(s.Taxable)
		}
		netPerGross := one.Sub(gainFraction.Mul(plan.CapitalGainsTaxRate))

		grossNeeded := remaining.Div(netPerGross)
		if grossNeeded.LessThanOrEqual(s.Taxable) {
			s.TaxableBasis = s.TaxableBasis.Sub(grossNeeded.Div(s.Taxable).Mul(s.TaxableBasis))
			s.Taxable = s.Taxable.Sub(grossNeeded)
			remaining = decimal.Zero
		} else {
			net := s.Taxable.Mul(netPerGross)
			s.Taxable = decimal.Zero
			s.TaxableBasis = decimal.Zero
			remaining = remaining.Sub(net)
		}
	}

	if s.TaxAdvantaged.IsPositive() && remaining.IsPositive() {
		netPerGross := one.Sub(plan.IncomeTaxRate)

		grossNeeded := remaining.Div(netPerGross)
		if grossNeeded.LessThanOrEqual(s.TaxAdvantaged) {
			s.TaxAdvantaged = s.TaxAdvantaged.Sub(grossNeeded)
			remaining = decimal.Zero
		} else {
			net := s.TaxAdvantaged.Mul(netPerGross)
			s.TaxAdvantaged = decimal.Zero
			remaining = remaining.Sub(net)
		}
	}

	return remaining
}

// markDepleted enters the terminal depleted state at the given age.
func (s *AccountState) markDepleted(age int) {
	s.Cash = decimal.Zero
	s.Taxable = decimal.Zero
	s.TaxableBasis = decimal.Zero
	s.TaxAdvantaged = decimal.Zero
	s.Depleted = true
	s.DepletionAge = age
}
