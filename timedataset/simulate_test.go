package timedataset

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries(t *testing.T) {
	s := GenerateConstY(7, 3)
	require.Equal(t, Series([]float64{3, 3, 3, 3, 3, 3, 3}), s)

	// 2024-01-04 is a Thursday so the 3rd and 4th points land on the weekend
	start := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	tSeries := make([]time.Time, 7)
	for i := range tSeries {
		tSeries[i] = start.AddDate(0, 0, i)
	}
	s.DampenWeekend(tSeries, 0.5)
	assert.Equal(t, Series([]float64{3, 3, 1.5, 1.5, 3, 3, 3}), s)

	c := s.Copy().Scale(2)
	assert.Equal(t, Series([]float64{6, 6, 3, 3, 6, 6, 6}), c)
	assert.Equal(t, Series([]float64{3, 3, 1.5, 1.5, 3, 3, 3}), s)
}

func TestScaleWhere(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := GenerateHourlyT(start, 4)
	s := GenerateConstY(4, 10)
	s.ScaleWhere(tSeries, func(tPnt time.Time) bool { return tPnt.Hour() >= 2 }, 0.7)
	assert.InDeltaSlice(t, []float64{10, 10, 7, 7}, s, 1e-9)
}

func TestJitter(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := GenerateConstY(1000, 100).Jitter(rng, 0.9, 1.1)
	for i, v := range s {
		assert.GreaterOrEqual(t, v, 90.0, "index %d", i)
		assert.Less(t, v, 110.0, "index %d", i)
	}

	// same seed must reproduce the same draws
	again := GenerateConstY(1000, 100).Jitter(rand.New(rand.NewPCG(1, 2)), 0.9, 1.1)
	assert.Equal(t, s, again)
}

func TestRound(t *testing.T) {
	testData := map[string]struct {
		input    Series
		places   int32
		expected Series
	}{
		"one decimal": {
			input:    Series{1.04, 1.05, 1.26, -2.35},
			places:   1,
			expected: Series{1.0, 1.1, 1.3, -2.4},
		},
		"zero decimals": {
			input:    Series{0.4, 0.5, 99.5},
			places:   0,
			expected: Series{0, 1, 100},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := td.input.Round(td.places)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestRoundFloatNonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(RoundFloat(math.NaN(), 1)))
	assert.True(t, math.IsInf(RoundFloat(math.Inf(1), 1), 1))
}

func TestGenerateUniformY(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := GenerateHourlyT(start, 48)
	y := GenerateUniformY(rng, tSeries, func(tPnt time.Time) (float64, float64) {
		if tPnt.Hour() < 12 {
			return 0, 1
		}
		return 10, 20
	})
	require.Len(t, y, 48)
	for i, v := range y {
		if tSeries[i].Hour() < 12 {
			assert.True(t, v >= 0 && v < 1, "index %d value %f", i, v)
			continue
		}
		assert.True(t, v >= 10 && v < 20, "index %d value %f", i, v)
	}
}
