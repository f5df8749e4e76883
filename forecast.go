package mockseries

import (
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-mockseries/event"
	"github.com/aouyang1/go-mockseries/score"
	"github.com/aouyang1/go-mockseries/stats"
	"github.com/aouyang1/go-mockseries/timedataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MaxForecastHorizon is two years of hourly points
	MaxForecastHorizon = 2 * 366 * 24

	// the first 1/ActualFraction of the horizon carries observed values
	ActualFraction = 4

	ForecastVariationMin = 0.95
	ForecastVariationMax = 1.05

	// relative change over the horizon beyond which a trend is reported
	TrendThreshold = 0.05

	LabelActual     = "Actual"
	LabelForecast   = "Forecast"
	LabelUpperBound = "Upper Bound"
	LabelLowerBound = "Lower Bound"

	FeatureSchedule    = "occupancy_schedule"
	FeatureDayType     = "day_type"
	FeatureTemperature = "temperature"
	FeatureHoliday     = "holiday"
)

// ForecastRequest configures a mock forecast. StartDate defaults to local midnight of the
// current day, Metric to energy and ModelType to seasonal.
type ForecastRequest struct {
	BuildingID      string    `json:"building_id"`
	Metric          Metric    `json:"metric"`
	StartDate       time.Time `json:"start_date"`
	Horizon         int       `json:"horizon"`
	IncludeWeather  bool      `json:"include_weather"`
	IncludeCalendar bool      `json:"include_calendar"`
	ModelType       ModelType `json:"model_type"`
}

// hourly load per time of day band for working days and days off
type loadBand struct {
	lastHour int
	workday  float64
	dayOff   float64
}

var loadBands = []loadBand{
	{lastHour: 5, workday: 30, dayOff: 25},
	{lastHour: 8, workday: 65, dayOff: 35},
	{lastHour: 17, workday: 100, dayOff: 50},
	{lastHour: 21, workday: 70, dayOff: 45},
	{lastHour: 23, workday: 40, dayOff: 30},
}

func bandLoad(hour int, dayOff bool) float64 {
	for _, b := range loadBands {
		if hour <= b.lastHour {
			if dayOff {
				return b.dayOff
			}
			return b.workday
		}
	}
	return 0
}

// GenerateTimeSeriesForecast builds an hourly mock forecast of req.Horizon points with
// confidence bounds, an observed prefix covering the first quarter of the horizon and a
// summary. Weather scales the load by the outdoor temperature, the calendar moves holidays
// onto the day off schedule and the model type sets the band width.
func (g *Generator) GenerateTimeSeriesForecast(req ForecastRequest) (*ForecastResult, error) {
	if req.Horizon <= 0 || req.Horizon > MaxForecastHorizon {
		return nil, fmt.Errorf("horizon must be within [1, %d], got %d, %w", MaxForecastHorizon, req.Horizon, ErrInvalidArgument)
	}
	metric, err := ParseMetric(string(req.Metric))
	if err != nil {
		return nil, err
	}
	modelType, err := ParseModelType(string(req.ModelType))
	if err != nil {
		return nil, err
	}

	start := req.StartDate
	if start.IsZero() {
		start = g.today()
	}
	t := timedataset.GenerateHourlyT(start, req.Horizon)

	var calendar *event.Calendar
	if req.IncludeCalendar {
		ts := timedataset.TimeSlice(t)
		calendar = event.NewCalendar(ts.StartTime(), ts.EndTime())
	}

	schedule := make([]float64, len(t))
	dayType := make([]float64, len(t))
	forecast := make(timedataset.Series, len(t))
	for i, tPnt := range t {
		_, holiday := calendar.IsHoliday(tPnt)
		dayOff := timedataset.IsWeekend(tPnt) || holiday
		if dayOff {
			dayType[i] = 1.0
		}
		schedule[i] = bandLoad(tPnt.Hour(), false)
		forecast[i] = bandLoad(tPnt.Hour(), dayOff)
	}
	forecast.Jitter(g.rng, ForecastVariationMin, ForecastVariationMax)

	var temps []float64
	if req.IncludeWeather {
		temps = g.opt.Weather.Temperature(t)
		floats.Mul(forecast, g.opt.Weather.LoadFactors(temps))
	}
	forecast.Scale(metric.scale()).Round(1)

	band := modelType.BandWidth()
	upper := forecast.Copy().Scale(1.0 + band).Round(1)
	lower := forecast.Copy().Scale(1.0 - band).Round(1)

	nActual := req.Horizon / ActualFraction
	actual := timedataset.GenerateConstY(len(t), math.NaN())
	copy(actual, forecast[:nActual])
	actual[:nActual].Jitter(g.rng, g.opt.JitterMin, g.opt.JitterMax).Round(1)

	features := map[string][]float64{
		FeatureSchedule: schedule,
		FeatureDayType:  dayType,
	}
	if req.IncludeWeather {
		features[FeatureTemperature] = temps
	}
	if req.IncludeCalendar {
		features[FeatureHoliday] = calendar.Mask(t)
	}

	summary, err := g.summarize(req, metric, modelType, t, forecast, actual, features, calendar)
	if err != nil {
		return nil, err
	}

	res := &ForecastResult{
		ChartData: ChartData{
			Timestamps: localTimes(t),
			Datasets: []Dataset{
				{Label: LabelActual, Data: NullableFloats(actual), Color: "#6b7280"},
				{Label: LabelForecast, Data: NullableFloats(forecast), Color: "#3b82f6"},
				{Label: LabelUpperBound, Data: NullableFloats(upper), Color: "#93c5fd"},
				{Label: LabelLowerBound, Data: NullableFloats(lower), Color: "#93c5fd"},
			},
		},
		Results: summary,
	}
	return res, nil
}

func (g *Generator) summarize(
	req ForecastRequest,
	metric Metric,
	modelType ModelType,
	t []time.Time,
	forecast, actual []float64,
	features map[string][]float64,
	calendar *event.Calendar,
) (ForecastSummary, error) {
	peakIdx := floats.MaxIdx(forecast)
	peak := PeakPoint{
		Timestamp: NewLocalTime(t[peakIdx]),
		Value:     forecast[peakIdx],
	}

	observed, err := timedataset.NewUnivariateDataset(t, actual)
	if err != nil {
		return ForecastSummary{}, fmt.Errorf("unable to build observed dataset, %w", err)
	}
	// observed values form a prefix of the horizon
	observed = observed.DropNan()

	reliability := modelSpecs[modelType].nominalReliability
	var outliers []int
	if n := observed.Len(); n > 0 {
		if s, err := score.NewScores(forecast[:n], observed.Y); err == nil {
			reliability = score.Reliability(s)
		}
		ratio := make([]float64, n)
		floats.DivTo(ratio, observed.Y, forecast[:n])
		outliers = stats.DetectOutliers(
			ratio,
			g.opt.OutlierOptions.LowerPercentile,
			g.opt.OutlierOptions.UpperPercentile,
			g.opt.OutlierOptions.TukeyFactor,
		)
	}

	importance, err := stats.FeatureImportance(features, forecast)
	if err != nil {
		importance = []stats.Importance{}
	}

	savingsPct := 1.0 - EfficiencyFactor
	savings := SavingsPotential{
		Percent: timedataset.RoundFloat(savingsPct*100.0, 1),
		Amount:  timedataset.RoundFloat(floats.Sum(forecast)*savingsPct, 1),
		Unit:    metric.Unit(),
	}

	summary := ForecastSummary{
		BuildingID:         req.BuildingID,
		Model:              modelType.DisplayName(),
		Metric:             metric,
		Unit:               metric.Unit(),
		PeakPoint:          peak,
		Average:            timedataset.RoundFloat(stat.Mean(forecast, nil), 1),
		TrendDescription:   describeTrend(forecast, peak.Timestamp.Time),
		ReliabilityScore:   reliability,
		VariableImportance: importance,
		SavingsPotential:   savings,
		Recommendations:    recommend(req, peak, outliers, calendar, t),
	}
	return summary, nil
}

// describeTrend reports the direction of a least squares line through the forecast
func describeTrend(y []float64, peakT time.Time) string {
	peakDesc := fmt.Sprintf("demand peaking around %02d:00", peakT.Hour())
	if len(y) < 2 {
		return fmt.Sprintf("Horizon too short to establish a trend, %s", peakDesc)
	}

	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	_, beta := stat.LinearRegression(x, y, nil, false)
	mean := stat.Mean(y, nil)

	var change float64
	if mean != 0 && !math.IsNaN(beta) {
		change = beta * float64(len(y)-1) / mean
	}

	switch {
	case change > TrendThreshold:
		return fmt.Sprintf("Consumption trends upward, about %.0f%% over the horizon, with %s", change*100.0, peakDesc)
	case change < -TrendThreshold:
		return fmt.Sprintf("Consumption trends downward, about %.0f%% over the horizon, with %s", -change*100.0, peakDesc)
	default:
		return fmt.Sprintf("Consumption follows a stable daily and weekly pattern with %s", peakDesc)
	}
}

var baseRecommendations = []string{
	"Tune HVAC setpoints by 1-2C during occupied hours",
	"Upgrade remaining fluorescent fixtures to LED lighting",
	"Schedule equipment shutdown after 20:00 and before 06:00",
}

func recommend(req ForecastRequest, peak PeakPoint, outliers []int, calendar *event.Calendar, t []time.Time) []string {
	recs := []string{
		fmt.Sprintf("Shift flexible loads away from the %02d:00 peak", peak.Timestamp.Hour()),
	}
	recs = append(recs, baseRecommendations...)

	if len(outliers) > 0 {
		recs = append(recs, fmt.Sprintf("Investigate %d anomalous readings in recent history", len(outliers)))
	}
	if req.IncludeWeather {
		recs = append(recs, "Pre-condition the building ahead of temperature extremes")
	}
	if req.IncludeCalendar {
		ts := timedataset.TimeSlice(t)
		horizonEnd := ts.EndTime().Add(time.Hour)
		for _, ev := range calendar.Events() {
			if !ev.Start.Before(horizonEnd) || !ev.End.After(ts.StartTime()) {
				continue
			}
			recs = append(recs, fmt.Sprintf("Apply a holiday setback schedule on %s", ev.Start.Format("2006-01-02")))
		}
	}
	return recs
}
