package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// Series is a slice of values aligned positionally with a time slice. All methods
// modify the series in place and return it so calls can be chained.
type Series []float64

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

// Copy returns a new series with the same values.
func (s Series) Copy() Series {
	dst := make(Series, len(s))
	copy(dst, s)
	return dst
}

// ScaleWhere multiplies every value whose time point satisfies cond by factor.
func (s Series) ScaleWhere(t []time.Time, cond func(tPnt time.Time) bool, factor float64) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if cond(t[i]) {
			s[i] *= factor
		}
	}
	return s
}

// DampenWeekend multiplies every Saturday and Sunday value by factor.
func (s Series) DampenWeekend(t []time.Time, factor float64) Series {
	return s.ScaleWhere(t, IsWeekend, factor)
}

// Jitter multiplies each value by a uniform random draw in [lo, hi).
func (s Series) Jitter(rng *rand.Rand, lo, hi float64) Series {
	for i := range s {
		s[i] *= lo + rng.Float64()*(hi-lo)
	}
	return s
}

// Round rounds every value half away from zero to the given number of decimal places.
// NaN values are left untouched.
func (s Series) Round(places int32) Series {
	for i, v := range s {
		s[i] = RoundFloat(v, places)
	}
	return s
}

// RoundFloat rounds a single value half away from zero to the given number of decimal
// places. NaN and infinite values are returned unchanged.
func RoundFloat(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// GenerateConstY returns a series of n copies of val
func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateUniformY draws every value from bounds(t) where bounds returns the [lo, hi)
// range for that time point.
func GenerateUniformY(rng *rand.Rand, t []time.Time, bounds func(tPnt time.Time) (float64, float64)) Series {
	y := make([]float64, 0, len(t))
	for _, tPnt := range t {
		lo, hi := bounds(tPnt)
		y = append(y, lo+rng.Float64()*(hi-lo))
	}
	return Series(y)
}
