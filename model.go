package mockseries

import (
	"fmt"
	"strings"
)

// ModelType selects how the mock forecast presents itself: its display name, the width
// of its confidence band and the reliability it reports when no history overlaps.
type ModelType string

const (
	ModelLinear   ModelType = "linear"
	ModelSeasonal ModelType = "seasonal"
	ModelEnsemble ModelType = "ensemble"

	DefaultModelType = ModelSeasonal
)

type modelSpec struct {
	name               string
	bandWidth          float64
	nominalReliability float64
}

var modelSpecs = map[ModelType]modelSpec{
	ModelLinear:   {name: "Linear Regression", bandWidth: 0.20, nominalReliability: 78.0},
	ModelSeasonal: {name: "Seasonal Profile", bandWidth: 0.15, nominalReliability: 85.0},
	ModelEnsemble: {name: "Gradient Boosted Ensemble", bandWidth: 0.10, nominalReliability: 91.0},
}

// ParseModelType returns the model type matching s ignoring case. An empty string maps to
// DefaultModelType.
func ParseModelType(s string) (ModelType, error) {
	if s == "" {
		return DefaultModelType, nil
	}
	mt := ModelType(strings.ToLower(strings.TrimSpace(s)))
	if _, exists := modelSpecs[mt]; !exists {
		return "", fmt.Errorf("unknown model type %q, %w", s, ErrInvalidArgument)
	}
	return mt, nil
}

// DisplayName returns the human readable model name
func (m ModelType) DisplayName() string {
	return modelSpecs[m].name
}

// BandWidth returns the fractional half width of the confidence band
func (m ModelType) BandWidth() float64 {
	return modelSpecs[m].bandWidth
}

// Metric is the quantity a forecast is expressed in.
type Metric string

const (
	MetricEnergy Metric = "energy"
	MetricPower  Metric = "power"
	MetricCost   Metric = "cost"

	DefaultMetric = MetricEnergy

	// CostPerKWh converts hourly energy into cost
	CostPerKWh = 0.15
)

type metricSpec struct {
	unit  string
	scale float64
}

// hourly energy in kWh is numerically the mean power in kW over that hour
var metricSpecs = map[Metric]metricSpec{
	MetricEnergy: {unit: "kWh", scale: 1.0},
	MetricPower:  {unit: "kW", scale: 1.0},
	MetricCost:   {unit: "USD", scale: CostPerKWh},
}

// ParseMetric returns the metric matching s ignoring case. An empty string maps to
// DefaultMetric.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return DefaultMetric, nil
	}
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if _, exists := metricSpecs[m]; !exists {
		return "", fmt.Errorf("unknown metric %q, %w", s, ErrInvalidArgument)
	}
	return m, nil
}

// Unit returns the unit values of this metric are reported in
func (m Metric) Unit() string {
	return metricSpecs[m].unit
}

func (m Metric) scale() float64 {
	return metricSpecs[m].scale
}
