// Package historical provides the embedded annual-return dataset the path
// generator resamples. The data ships inside the binary and is parsed once;
// the resulting Dataset is read-only and shared across all simulation runs.
package historical

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

//go:embed data/index-returns.csv
var dataFS embed.FS

// YearReturn is one calendar year of index returns. LargeCap and SmallCap
// are annual total returns expressed as decimal rates (0.10 = 10%).
type YearReturn struct {
	Year     int             `json:"year"`
	LargeCap decimal.Decimal `json:"largeCap"`
	SmallCap decimal.Decimal `json:"smallCap"`
}

// Statistics summarizes one return series.
type Statistics struct {
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"stdDev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// Dataset is the full historical record, ordered by ascending year with no
// gaps.
type Dataset struct {
	Years   []YearReturn `json:"years"`
	MinYear int          `json:"minYear"`
	MaxYear int          `json:"maxYear"`

	LargeCapStats Statistics `json:"largeCapStats"`
	SmallCapStats Statistics `json:"smallCapStats"`
}

// Load parses the embedded dataset.
func Load() (*Dataset, error) {
	f, err := dataFS.Open("data/index-returns.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded return data: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a year,large_cap,small_cap CSV with a header row.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("invalid return data: expected 3 columns, got %d", len(header))
	}

	var years []YearReturn
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}

		year, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", record[0], err)
		}
		largeCap, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid large-cap return for %d: %w", year, err)
		}
		smallCap, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("invalid small-cap return for %d: %w", year, err)
		}

		years = append(years, YearReturn{Year: year, LargeCap: largeCap, SmallCap: smallCap})
	}

	if len(years) == 0 {
		return nil, fmt.Errorf("no data points in return dataset")
	}

	ds := &Dataset{
		Years:   years,
		MinYear: years[0].Year,
		MaxYear: years[len(years)-1].Year,
	}

	for i, yr := range years {
		if yr.Year != ds.MinYear+i {
			return nil, fmt.Errorf("return dataset has a gap or is unordered at year %d", yr.Year)
		}
	}

	largeCaps := make([]decimal.Decimal, len(years))
	smallCaps := make([]decimal.Decimal, len(years))
	for i, yr := range years {
		largeCaps[i] = yr.LargeCap
		smallCaps[i] = yr.SmallCap
	}
	ds.LargeCapStats = calculateStatistics(largeCaps)
	ds.SmallCapStats = calculateStatistics(smallCaps)

	return ds, nil
}

// Len returns the number of historical years.
func (ds *Dataset) Len() int {
	return len(ds.Years)
}

// At returns the i-th year of the record (0 = oldest).
func (ds *Dataset) At(i int) YearReturn {
	return ds.Years[i]
}

// ReturnsForYear looks up one calendar year.
func (ds *Dataset) ReturnsForYear(year int) (YearReturn, error) {
	if year < ds.MinYear || year > ds.MaxYear {
		return YearReturn{}, fmt.Errorf("no return data for year %d (have %d-%d)", year, ds.MinYear, ds.MaxYear)
	}
	return ds.Years[year-ds.MinYear], nil
}

func calculateStatistics(values []decimal.Decimal) Statistics {
	if len(values) == 0 {
		return Statistics{}
	}

	var sum decimal.Decimal
	min := values[0]
	max := values[0]
	for _, v := range values {
		sum = sum.Add(v)
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values))))

	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	variance := varianceSum.Div(decimal.NewFromInt(int64(len(values))))
	varianceFloat, _ := variance.Float64()

	return Statistics{
		Mean:   mean,
		StdDev: decimal.NewFromFloat(math.Sqrt(varianceFloat)),
		Min:    min,
		Max:    max,
		Count:  len(values),
	}
}
