package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/retiresim/retiresim/internal/domain"
	"github.com/retiresim/retiresim/internal/historical"
)

// MonteCarloEngine drives the full simulation: for each of N repetitions
// it generates one market/inflation path pair, replays it against every
// candidate retirement age, and folds the outcomes into per-age
// statistics.
//
// Repetitions are independent and run in parallel. Repetition i derives
// its RNG from seed+i, so a fixed seed produces identical results
// regardless of worker count. The only shared state is the read-only plan
// and historical dataset; outcomes land in per-repetition slots and are
// folded sequentially afterward.
type MonteCarloEngine struct {
	plan   *domain.Plan
	data   *historical.Dataset
	logger Logger
}

// NewMonteCarloEngine creates an engine for the given plan and historical
// dataset.
func NewMonteCarloEngine(plan *domain.Plan, data *historical.Dataset) *MonteCarloEngine {
	return &MonteCarloEngine{
		plan:   plan,
		data:   data,
		logger: NopLogger{},
	}
}

// SetLogger replaces the engine's logger.
func (e *MonteCarloEngine) SetLogger(logger Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// Run executes the configured number of simulation repetitions and returns
// finalized per-age statistics plus adjacent-age marginal benefits.
func (e *MonteCarloEngine) Run(ctx context.Context) (*domain.MonteCarloResult, error) {
	if e.data == nil || e.data.Len() == 0 {
		return nil, fmt.Errorf("historical data not loaded")
	}

	numSims := e.plan.Simulation.NumSimulations
	ages := e.plan.RetirementAges()
	horizon := e.plan.HorizonYears()

	seed := e.plan.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	workers := e.plan.Simulation.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	e.logger.Infof("running %d simulations across ages %d-%d (seed %d, %d workers)",
		numSims, ages[0], ages[len(ages)-1], seed, workers)

	results := make([]map[int]domain.TrialOutcome, numSims)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < numSims; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation cancelled: %w", err)
		}

		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			rng := rand.New(rand.NewSource(seed + int64(simIndex)))
			pathGen := NewPathGenerator(e.data, e.plan.Market, rng)
			pathGen.SetLogger(e.logger)

			market := pathGen.GenerateMarketPath(horizon)
			inflation := pathGen.GenerateInflationPath(horizon)

			sim := NewSimulator(e.plan)
			results[simIndex] = sim.CompareAges(market, inflation, ages)
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("simulation cancelled: %w", err)
	}

	accumulators := make(map[int]*ageAccumulator, len(ages))
	for _, age := range ages {
		accumulators[age] = newAgeAccumulator(age)
	}
	for _, outcomes := range results {
		for age, outcome := range outcomes {
			accumulators[age].fold(outcome)
		}
	}

	checkpoints := e.checkpointAges()
	stats := make([]domain.AgeStatistics, 0, len(ages))
	for _, age := range ages {
		stats = append(stats, accumulators[age].finalize(checkpoints))
	}

	return &domain.MonteCarloResult{
		NumSimulations:   numSims,
		Seed:             seed,
		Ages:             ages,
		Statistics:       stats,
		MarginalBenefits: MarginalBenefits(stats),
	}, nil
}

// checkpointAges returns the multiples of five inside the simulated
// horizon, used for the cumulative ruin-probability table.
func (e *MonteCarloEngine) checkpointAges() []int {
	var checkpoints []int
	for age := e.plan.CurrentAge; age <= e.plan.TargetAge; age++ {
		if age%5 == 0 {
			checkpoints = append(checkpoints, age)
		}
	}
	return checkpoints
}
