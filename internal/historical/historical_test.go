package historical

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDataset(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err, "embedded dataset should parse")

	assert.Equal(t, 1979, ds.MinYear)
	assert.Equal(t, 2024, ds.MaxYear)
	assert.Equal(t, ds.MaxYear-ds.MinYear+1, ds.Len(), "dataset should have no gaps")

	assert.Equal(t, ds.Len(), ds.LargeCapStats.Count)
	assert.Equal(t, ds.Len(), ds.SmallCapStats.Count)
	assert.True(t, ds.LargeCapStats.StdDev.IsPositive())
	assert.True(t, ds.LargeCapStats.Max.GreaterThan(ds.LargeCapStats.Min))
}

func TestLoad_KnownYear(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	yr, err := ds.ReturnsForYear(2008)
	require.NoError(t, err)
	assert.Equal(t, 2008, yr.Year)
	assert.True(t, yr.LargeCap.IsNegative(), "2008 large-cap return should be negative")
	assert.True(t, yr.SmallCap.IsNegative(), "2008 small-cap return should be negative")
}

func TestReturnsForYear_OutOfRange(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	_, err = ds.ReturnsForYear(ds.MinYear - 1)
	assert.Error(t, err)
	_, err = ds.ReturnsForYear(ds.MaxYear + 1)
	assert.Error(t, err)
}

func TestParse_Statistics(t *testing.T) {
	csv := "year,large_cap,small_cap\n2001,0.10,0.20\n2002,0.20,0.40\n2003,0.30,0.60\n"
	ds, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.True(t, ds.LargeCapStats.Mean.Equal(decimal.NewFromFloat(0.2)),
		"mean of 0.10/0.20/0.30 should be 0.20, got %s", ds.LargeCapStats.Mean)
	assert.True(t, ds.LargeCapStats.Min.Equal(decimal.NewFromFloat(0.1)))
	assert.True(t, ds.LargeCapStats.Max.Equal(decimal.NewFromFloat(0.3)))
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"empty", ""},
		{"header only", "year,large_cap,small_cap\n"},
		{"bad year", "year,large_cap,small_cap\nabc,0.1,0.2\n"},
		{"bad return", "year,large_cap,small_cap\n2001,x,0.2\n"},
		{"gap", "year,large_cap,small_cap\n2001,0.1,0.2\n2003,0.1,0.2\n"},
		{"unordered", "year,large_cap,small_cap\n2002,0.1,0.2\n2001,0.1,0.2\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.csv))
			assert.Error(t, err)
		})
	}
}
