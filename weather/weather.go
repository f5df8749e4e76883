// Package weather simulates outdoor temperature and the extra HVAC load it drives.
package weather

import (
	"math"
	"time"
)

const (
	// warmest day of the year in the northern hemisphere, mid July
	peakDayOfYear = 196
	// warmest hour of the day
	peakHour = 15.0

	DefaultMaxLoadFactor = 1.5
)

// Profile describes a synthetic climate. Temperature follows a yearly cosine around
// BaseTempC plus a daily cosine peaking mid afternoon. Load grows linearly with the
// distance from BalanceTempC, the outdoor temperature needing neither heating nor cooling.
type Profile struct {
	BaseTempC     float64 `json:"base_temp_c"`
	SeasonalAmpC  float64 `json:"seasonal_amp_c"`
	DailyAmpC     float64 `json:"daily_amp_c"`
	BalanceTempC  float64 `json:"balance_temp_c"`
	Sensitivity   float64 `json:"sensitivity"`
	MaxLoadFactor float64 `json:"max_load_factor"`
}

// NewDefaultProfile returns a temperate climate profile
func NewDefaultProfile() Profile {
	return Profile{
		BaseTempC:     14.0,
		SeasonalAmpC:  11.0,
		DailyAmpC:     5.0,
		BalanceTempC:  18.0,
		Sensitivity:   0.02,
		MaxLoadFactor: DefaultMaxLoadFactor,
	}
}

// TemperatureAt returns the simulated outdoor temperature in celsius at tPnt using the
// wall clock of its location.
func (p Profile) TemperatureAt(tPnt time.Time) float64 {
	dayFrac := float64(tPnt.YearDay()-peakDayOfYear) / 365.25
	hour := float64(tPnt.Hour()) + float64(tPnt.Minute())/60.0
	hourFrac := (hour - peakHour) / 24.0

	seasonal := p.SeasonalAmpC * math.Cos(2.0*math.Pi*dayFrac)
	daily := p.DailyAmpC * math.Cos(2.0*math.Pi*hourFrac)
	return p.BaseTempC + seasonal + daily
}

// Temperature returns the simulated outdoor temperature for every time point.
func (p Profile) Temperature(t []time.Time) []float64 {
	temps := make([]float64, len(t))
	for i, tPnt := range t {
		temps[i] = p.TemperatureAt(tPnt)
	}
	return temps
}

// LoadFactor returns the multiplier applied to baseline consumption at the given outdoor
// temperature. It is 1.0 at the balance temperature and never exceeds MaxLoadFactor.
func (p Profile) LoadFactor(tempC float64) float64 {
	maxFactor := p.MaxLoadFactor
	if maxFactor < 1.0 {
		maxFactor = DefaultMaxLoadFactor
	}
	factor := 1.0 + math.Max(p.Sensitivity, 0.0)*math.Abs(tempC-p.BalanceTempC)
	return math.Min(factor, maxFactor)
}

// LoadFactors returns the load factor for every temperature.
func (p Profile) LoadFactors(temps []float64) []float64 {
	factors := make([]float64, len(temps))
	for i, temp := range temps {
		factors[i] = p.LoadFactor(temp)
	}
	return factors
}
