package config

import (
	"fmt"
	"os"

	"github.com/retiresim/retiresim/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Default model parameters applied when the plan file omits them.
var (
	defaultReturnFloor    = decimal.NewFromFloat(-0.95)
	defaultInflationFloor = decimal.NewFromFloat(-0.05)
)

const (
	defaultBlockSize     = 5
	defaultMaxBlockReuse = 2
	defaultSimulations   = 10000
)

// InputParser handles parsing of plan configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file, applies defaults, and
// validates it. Validation failures happen here, before any simulation
// runs.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&plan)

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ApplyDefaults fills unset model parameters with their defaults.
func (ip *InputParser) ApplyDefaults(plan *domain.Plan) {
	if plan.Market.ReturnFloor.IsZero() {
		plan.Market.ReturnFloor = defaultReturnFloor
	}
	if plan.Market.InflationFloor.IsZero() {
		plan.Market.InflationFloor = defaultInflationFloor
	}
	if plan.Market.BlockSize == 0 {
		plan.Market.BlockSize = defaultBlockSize
	}
	if plan.Market.MaxBlockReuse == 0 {
		plan.Market.MaxBlockReuse = defaultMaxBlockReuse
	}
	if plan.Simulation.NumSimulations == 0 {
		plan.Simulation.NumSimulations = defaultSimulations
	}
}

// ValidatePlan validates every plan parameter against its semantics.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateHorizon(plan); err != nil {
		return fmt.Errorf("horizon validation failed: %w", err)
	}
	if err := ip.validateFinances(plan); err != nil {
		return fmt.Errorf("financial validation failed: %w", err)
	}
	if err := ip.validateMarket(&plan.Market); err != nil {
		return fmt.Errorf("market assumptions validation failed: %w", err)
	}
	if err := ip.validateSimulation(&plan.Simulation); err != nil {
		return fmt.Errorf("simulation settings validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validateHorizon(plan *domain.Plan) error {
	if plan.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if plan.TargetAge <= plan.CurrentAge {
		return fmt.Errorf("target age must be greater than current age")
	}
	if plan.RetirementAgeMin > plan.RetirementAgeMax {
		return fmt.Errorf("retirement age min cannot exceed retirement age max")
	}
	if plan.RetirementAgeMin < plan.CurrentAge || plan.RetirementAgeMax > plan.TargetAge {
		return fmt.Errorf("retirement age range [%d, %d] must lie within [%d, %d]",
			plan.RetirementAgeMin, plan.RetirementAgeMax, plan.CurrentAge, plan.TargetAge)
	}
	if plan.SocialSecurityStartAge <= 0 {
		return fmt.Errorf("social security start age must be positive")
	}
	if plan.EarnedIncomeAnnual.IsPositive() && plan.EarnedIncomeStopAge <= 0 {
		return fmt.Errorf("earned income stop age is required when earned income is set")
	}
	return nil
}

func (ip *InputParser) validateFinances(plan *domain.Plan) error {
	if plan.InitialCash.IsNegative() {
		return fmt.Errorf("initial cash cannot be negative")
	}
	if plan.InitialTaxable.IsNegative() {
		return fmt.Errorf("initial taxable balance cannot be negative")
	}
	if plan.InitialTaxAdvantaged.IsNegative() {
		return fmt.Errorf("initial tax-advantaged balance cannot be negative")
	}
	if plan.BaseSalary.IsNegative() {
		return fmt.Errorf("base salary cannot be negative")
	}
	if plan.AnnualContribution.IsNegative() {
		return fmt.Errorf("annual contribution cannot be negative")
	}
	if plan.AnnualContribution.GreaterThan(plan.BaseSalary) {
		return fmt.Errorf("annual contribution cannot exceed base salary")
	}
	if plan.AnnualExpenses.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("annual expenses must be positive")
	}
	if plan.SavingsSplitCash.IsNegative() || plan.SavingsSplitCash.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("savings split must be between 0 and 1")
	}
	if plan.YearsOfService < 0 {
		return fmt.Errorf("years of service cannot be negative")
	}
	if plan.IncomeTaxRate.IsNegative() || plan.IncomeTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("income tax rate must be in [0, 1)")
	}
	if plan.CapitalGainsTaxRate.IsNegative() || plan.CapitalGainsTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("capital gains tax rate must be in [0, 1)")
	}
	if plan.PensionPerServiceYear.IsNegative() {
		return fmt.Errorf("pension per service year cannot be negative")
	}
	if plan.SocialSecurityAnnual.IsNegative() {
		return fmt.Errorf("social security amount cannot be negative")
	}
	if plan.EarnedIncomeAnnual.IsNegative() {
		return fmt.Errorf("earned income cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateMarket(market *domain.MarketAssumptions) error {
	weightSum := market.LargeCapWeight.Add(market.SmallCapWeight)
	if !weightSum.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("index blend weights must sum to 1, got %s", weightSum.String())
	}
	if market.LargeCapWeight.IsNegative() || market.SmallCapWeight.IsNegative() {
		return fmt.Errorf("index blend weights cannot be negative")
	}
	if market.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive")
	}
	if market.MaxBlockReuse <= 0 {
		return fmt.Errorf("max block reuse must be positive")
	}
	if market.InflationStdDev.IsNegative() {
		return fmt.Errorf("inflation standard deviation cannot be negative")
	}
	if market.InflationMean.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation mean cannot be less than -10%% (extreme deflation)")
	}
	if market.InflationFloor.GreaterThan(market.InflationMean) {
		return fmt.Errorf("inflation floor cannot exceed the inflation mean")
	}
	if market.ReturnFloor.GreaterThanOrEqual(decimal.Zero) || market.ReturnFloor.LessThan(decimal.NewFromInt(-1)) {
		return fmt.Errorf("return floor must be in [-1, 0)")
	}
	return nil
}

func (ip *InputParser) validateSimulation(sim *domain.SimulationSettings) error {
	if sim.NumSimulations <= 0 {
		return fmt.Errorf("number of simulations must be positive")
	}
	if sim.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	return nil
}
