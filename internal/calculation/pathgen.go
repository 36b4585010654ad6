package calculation

import (
	"math/rand"

	"github.com/retiresim/retiresim/internal/domain"
	"github.com/retiresim/retiresim/internal/historical"
	"github.com/shopspring/decimal"
)

// PathGenerator produces simulated market and inflation paths for one
// simulation run. Market returns come from a block bootstrap over the
// historical record: contiguous runs of years are resampled whole, which
// preserves the serial correlation single-year resampling would destroy.
// Inflation is drawn i.i.d. per year from a floored normal distribution.
//
// The generator owns no randomness of its own; the caller injects a
// *rand.Rand so runs are reproducible and parallel tasks can hold
// independent streams.
type PathGenerator struct {
	data   *historical.Dataset
	market domain.MarketAssumptions
	rng    *rand.Rand
	logger Logger
}

// NewPathGenerator creates a path generator over the given historical
// dataset and market assumptions.
func NewPathGenerator(data *historical.Dataset, market domain.MarketAssumptions, rng *rand.Rand) *PathGenerator {
	return &PathGenerator{
		data:   data,
		market: market,
		rng:    rng,
		logger: NopLogger{},
	}
}

// SetLogger replaces the generator's logger.
func (pg *PathGenerator) SetLogger(logger Logger) {
	if logger != nil {
		pg.logger = logger
	}
}

// GenerateMarketPath builds one blended-return sequence of the given
// length. Blocks are overlapping runs of blockSize consecutive historical
// years; each distinct block start may be selected at most maxBlockReuse
// times per path. If every start hits the cap before the horizon is
// filled, the use counts reset and reuse is allowed again; this is the
// documented fallback for short datasets, never an abort.
func (pg *PathGenerator) GenerateMarketPath(horizon int) domain.MarketPath {
	path := make(domain.MarketPath, 0, horizon)

	blockSize := pg.market.BlockSize
	if blockSize > pg.data.Len() {
		blockSize = pg.data.Len()
	}
	numStarts := pg.data.Len() - blockSize + 1
	useCounts := make([]int, numStarts)

	for len(path) < horizon {
		start, ok := pg.pickBlockStart(useCounts)
		if !ok {
			pg.logger.Debugf("block pool exhausted after %d of %d years; allowing reuse", len(path), horizon)
			for i := range useCounts {
				useCounts[i] = 0
			}
			continue
		}
		useCounts[start]++

		for i := start; i < start+blockSize && len(path) < horizon; i++ {
			path = append(path, pg.blendedReturn(pg.data.At(i)))
		}
	}

	return path
}

// GenerateInflationPath draws one inflation rate per year from
// normal(mean, stdDev), clipped below at the configured floor. Inflation
// has no block structure.
func (pg *PathGenerator) GenerateInflationPath(horizon int) domain.InflationPath {
	mean, _ := pg.market.InflationMean.Float64()
	stdDev, _ := pg.market.InflationStdDev.Float64()

	path := make(domain.InflationPath, horizon)
	for i := range path {
		rate := decimal.NewFromFloat(mean + pg.rng.NormFloat64()*stdDev)
		if rate.LessThan(pg.market.InflationFloor) {
			rate = pg.market.InflationFloor
		}
		path[i] = rate
	}
	return path
}

// pickBlockStart selects a random block start among those still under the
// reuse cap. Returns false when the pool is exhausted.
func (pg *PathGenerator) pickBlockStart(useCounts []int) (int, bool) {
	available := make([]int, 0, len(useCounts))
	for start, count := range useCounts {
		if count < pg.market.MaxBlockReuse {
			available = append(available, start)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	return available[pg.rng.Intn(len(available))], true
}

// blendedReturn combines one historical year's index returns using the
// configured weights (which sum to 1), floored at the return floor.
func (pg *PathGenerator) blendedReturn(yr historical.YearReturn) decimal.Decimal {
	blended := yr.LargeCap.Mul(pg.market.LargeCapWeight).
		Add(yr.SmallCap.Mul(pg.market.SmallCapWeight))
	if blended.LessThan(pg.market.ReturnFloor) {
		blended = pg.market.ReturnFloor
	}
	return blended
}
