// Package mockseries synthesizes plausible building energy data for dashboards when no
// real backend is available: hourly consumption, intervention scenarios, building
// portfolios and a mock forecast with confidence bands.
//
// Every value is drawn from the random source the Generator was built with, so a fixed
// seed reproduces the same output.
package mockseries

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aouyang1/go-mockseries/timedataset"
)

var ErrInvalidArgument = errors.New("invalid argument")

const (
	MaxSeriesDays = 3660

	ScenarioBaseline   = "baseline"
	ScenarioEfficiency = "efficiency"
	ScenarioEquipment  = "equipment"

	EfficiencyFactor       = 0.85
	EquipmentOffHourFactor = 0.7
	EquipmentOnHourFactor  = 0.9
)

// Generator produces mock series from its own random source. It is not safe for concurrent
// use, give each goroutine its own Generator.
type Generator struct {
	opt *Options
	rng *rand.Rand
	loc *time.Location
}

// New creates a generator drawing from src. If src is nil a PCG source seeded from the
// current time is used. If opt is nil a default is used.
func New(src rand.Source, opt *Options) *Generator {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	opt.Validate()

	if src == nil {
		seed := uint64(time.Now().UnixNano())
		src = rand.NewPCG(seed, seed>>1)
	}

	return &Generator{
		opt: opt,
		rng: rand.New(src),
		loc: opt.Location(),
	}
}

// NewSeeded creates a generator with a PCG source built from seed
func NewSeeded(seed uint64, opt *Options) *Generator {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15), opt)
}

// Options returns the validated options of the generator
func (g *Generator) Options() Options {
	return *g.opt
}

func (g *Generator) today() time.Time {
	return timedataset.StartOfDay(g.opt.NowFunc().In(g.loc))
}

// consumptionBaseRange returns the [lo, hi) range of the hourly base load. Ranges are
// checked in order so the peaks take precedence over general daytime.
func consumptionBaseRange(tPnt time.Time) (float64, float64) {
	hour := tPnt.Hour()
	switch {
	case hour >= 8 && hour <= 10:
		return 80, 100
	case hour >= 13 && hour <= 16:
		return 90, 110
	case hour >= 6 && hour <= 19:
		return 50, 70
	default:
		return 20, 30
	}
}

func (g *Generator) forecastSeries(days int) ([]time.Time, timedataset.Series, error) {
	if days < 0 || days > MaxSeriesDays {
		return nil, nil, fmt.Errorf("days must be within [0, %d], got %d, %w", MaxSeriesDays, days, ErrInvalidArgument)
	}

	t := timedataset.GenerateHourlyT(g.today(), days*24)
	y := timedataset.GenerateUniformY(g.rng, t, consumptionBaseRange).
		Jitter(g.rng, g.opt.JitterMin, g.opt.JitterMax).
		DampenWeekend(t, g.opt.WeekendFactor).
		Round(1)
	return t, y, nil
}

// GenerateForecastSeries returns days*24 hourly points starting at local midnight of the
// current day. Each value is drawn from the hour of day base range, jittered, dampened on
// weekends and rounded to one decimal.
func (g *Generator) GenerateForecastSeries(days int) ([]TimePoint, error) {
	t, y, err := g.forecastSeries(days)
	if err != nil {
		return nil, err
	}

	pts := make([]TimePoint, len(t))
	for i := range t {
		pts[i] = TimePoint{
			Timestamp: NewLocalTime(t[i]),
			Value:     y[i],
		}
	}
	return pts, nil
}

func isEquipmentOffHour(tPnt time.Time) bool {
	hour := tPnt.Hour()
	return hour >= 20 || hour <= 5
}

// GenerateScenarioSet derives baseline, efficiency and equipment scheduling scenarios from a
// single consumption series. Dates are hourly and align with every scenario's values.
func (g *Generator) GenerateScenarioSet(days int) (*ScenarioSet, error) {
	t, baseline, err := g.forecastSeries(days)
	if err != nil {
		return nil, fmt.Errorf("unable to generate baseline series, %w", err)
	}

	efficiency := baseline.Copy().Scale(EfficiencyFactor).Round(1)
	equipment := baseline.Copy().
		ScaleWhere(t, isEquipmentOffHour, EquipmentOffHourFactor).
		ScaleWhere(t, func(tPnt time.Time) bool { return !isEquipmentOffHour(tPnt) }, EquipmentOnHourFactor).
		Round(1)

	set := &ScenarioSet{
		Dates: localTimes(t),
		Scenarios: map[string]Scenario{
			ScenarioBaseline: {
				Name:   "Baseline",
				Values: baseline,
				Color:  "#3b82f6",
			},
			ScenarioEfficiency: {
				Name:   "Efficiency Upgrades",
				Values: efficiency,
				Color:  "#10b981",
			},
			ScenarioEquipment: {
				Name:   "Equipment Scheduling",
				Values: equipment,
				Color:  "#f59e0b",
			},
		},
	}
	return set, nil
}
