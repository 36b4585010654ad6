package domain

import (
	"github.com/shopspring/decimal"
)

// Plan is the complete, immutable configuration for a simulation run.
// It is loaded once by the config package and shared read-only by the
// engine; nothing in the simulation loop mutates it.
type Plan struct {
	// Horizon
	CurrentAge       int `yaml:"current_age" json:"currentAge"`
	TargetAge        int `yaml:"target_age" json:"targetAge"`
	RetirementAgeMin int `yaml:"retirement_age_min" json:"retirementAgeMin"`
	RetirementAgeMax int `yaml:"retirement_age_max" json:"retirementAgeMax"`

	// Starting balances
	InitialCash          decimal.Decimal `yaml:"initial_cash" json:"initialCash"`
	InitialTaxable       decimal.Decimal `yaml:"initial_taxable" json:"initialTaxable"`
	InitialTaxAdvantaged decimal.Decimal `yaml:"initial_tax_advantaged" json:"initialTaxAdvantaged"`

	// Working years
	BaseSalary         decimal.Decimal `yaml:"base_salary" json:"baseSalary"`
	AnnualContribution decimal.Decimal `yaml:"annual_contribution" json:"annualContribution"`
	AnnualExpenses     decimal.Decimal `yaml:"annual_expenses" json:"annualExpenses"`
	SavingsSplitCash   decimal.Decimal `yaml:"savings_split_cash" json:"savingsSplitCash"`
	YearsOfService     int             `yaml:"years_of_service" json:"yearsOfService"`

	// Flat tax rates (this is deliberately not a bracket-aware model)
	IncomeTaxRate       decimal.Decimal `yaml:"income_tax_rate" json:"incomeTaxRate"`
	CapitalGainsTaxRate decimal.Decimal `yaml:"capital_gains_tax_rate" json:"capitalGainsTaxRate"`

	// Retirement income
	PensionPerServiceYear  decimal.Decimal `yaml:"pension_per_service_year" json:"pensionPerServiceYear"`
	SocialSecurityStartAge int             `yaml:"social_security_start_age" json:"socialSecurityStartAge"`
	SocialSecurityAnnual   decimal.Decimal `yaml:"social_security_annual" json:"socialSecurityAnnual"`
	EarnedIncomeAnnual     decimal.Decimal `yaml:"earned_income_annual" json:"earnedIncomeAnnual"`
	EarnedIncomeStopAge    int             `yaml:"earned_income_stop_age" json:"earnedIncomeStopAge"`

	Market     MarketAssumptions  `yaml:"market" json:"market"`
	Simulation SimulationSettings `yaml:"simulation" json:"simulation"`
}

// MarketAssumptions holds the stochastic model parameters: the
// block-bootstrap setup for equity returns and the normal model for
// inflation.
type MarketAssumptions struct {
	LargeCapWeight decimal.Decimal `yaml:"large_cap_weight" json:"largeCapWeight"`
	SmallCapWeight decimal.Decimal `yaml:"small_cap_weight" json:"smallCapWeight"`

	BlockSize     int `yaml:"block_size" json:"blockSize"`
	MaxBlockReuse int `yaml:"max_block_reuse" json:"maxBlockReuse"`

	InflationMean   decimal.Decimal `yaml:"inflation_mean" json:"inflationMean"`
	InflationStdDev decimal.Decimal `yaml:"inflation_std_dev" json:"inflationStdDev"`
	InflationFloor  decimal.Decimal `yaml:"inflation_floor" json:"inflationFloor"`

	// ReturnFloor caps a blended annual loss so a single draw cannot take
	// a balance past zero. Defaults to -95%.
	ReturnFloor decimal.Decimal `yaml:"return_floor" json:"returnFloor"`
}

// SimulationSettings controls the Monte Carlo driver.
type SimulationSettings struct {
	NumSimulations int   `yaml:"num_simulations" json:"numSimulations"`
	Seed           int64 `yaml:"seed" json:"seed"`
	Workers        int   `yaml:"workers" json:"workers"`
}

// HorizonYears is the number of simulated years from current age up to and
// including the final target age.
func (p *Plan) HorizonYears() int {
	return p.TargetAge - p.CurrentAge + 1
}

// RetirementAges returns the candidate retirement ages in ascending order.
func (p *Plan) RetirementAges() []int {
	ages := make([]int, 0, p.RetirementAgeMax-p.RetirementAgeMin+1)
	for age := p.RetirementAgeMin; age <= p.RetirementAgeMax; age++ {
		ages = append(ages, age)
	}
	return ages
}
