package mockseries

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-mockseries/stats"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getDataset(t *testing.T, res *ForecastResult, label string) NullableFloats {
	t.Helper()
	ds, ok := res.ChartData.Dataset(label)
	require.True(t, ok, "missing dataset %s", label)
	return ds.Data
}

func importanceNames(imp []stats.Importance) []string {
	names := make([]string, len(imp))
	for i, v := range imp {
		names[i] = v.Name
	}
	return names
}

func TestGenerateTimeSeriesForecastValidation(t *testing.T) {
	testData := map[string]struct {
		req ForecastRequest
		err error
	}{
		"zero horizon":       {req: ForecastRequest{Horizon: 0}, err: ErrInvalidArgument},
		"negative horizon":   {req: ForecastRequest{Horizon: -5}, err: ErrInvalidArgument},
		"horizon too long":   {req: ForecastRequest{Horizon: MaxForecastHorizon + 1}, err: ErrInvalidArgument},
		"unknown metric":     {req: ForecastRequest{Horizon: 24, Metric: "voltage"}, err: ErrInvalidArgument},
		"unknown model type": {req: ForecastRequest{Horizon: 24, ModelType: "arima"}, err: ErrInvalidArgument},
		"defaults":           {req: ForecastRequest{Horizon: 24}},
		"mixed case inputs":  {req: ForecastRequest{Horizon: 24, Metric: "Cost", ModelType: " Ensemble "}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := newTestGenerator(1).GenerateTimeSeriesForecast(td.req)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Len(t, res.ChartData.Timestamps, td.req.Horizon)
		})
	}
}

func TestGenerateTimeSeriesForecast(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	req := ForecastRequest{
		BuildingID: "BLDG0001",
		StartDate:  start,
		Horizon:    48,
	}

	res, err := newTestGenerator(17).GenerateTimeSeriesForecast(req)
	require.NoError(t, err)

	labels := make([]string, len(res.ChartData.Datasets))
	for i, ds := range res.ChartData.Datasets {
		labels[i] = ds.Label
		assert.Len(t, ds.Data, req.Horizon, ds.Label)
		assert.NotEmpty(t, ds.Color, ds.Label)
	}
	assert.Equal(t, []string{LabelActual, LabelForecast, LabelUpperBound, LabelLowerBound}, labels)

	require.Len(t, res.ChartData.Timestamps, req.Horizon)
	for i, ts := range res.ChartData.Timestamps {
		assert.Equal(t, start.Add(time.Duration(i)*time.Hour), ts.Time)
	}

	actual := getDataset(t, res, LabelActual)
	forecast := getDataset(t, res, LabelForecast)
	upper := getDataset(t, res, LabelUpperBound)
	lower := getDataset(t, res, LabelLowerBound)

	nActual := req.Horizon / ActualFraction
	var nNaN int
	for i := range forecast {
		hour := res.ChartData.Timestamps[i].Hour()
		base := bandLoad(hour, false)
		assert.GreaterOrEqual(t, forecast[i], base*ForecastVariationMin-0.05, "index %d", i)
		assert.LessOrEqual(t, forecast[i], base*ForecastVariationMax+0.05, "index %d", i)
		assertOneDecimal(t, forecast[i], "index %d", i)

		assert.InDelta(t, forecast[i]*1.15, upper[i], 0.05+1e-9, "index %d", i)
		assert.InDelta(t, forecast[i]*0.85, lower[i], 0.05+1e-9, "index %d", i)
		assert.LessOrEqual(t, lower[i], forecast[i])
		assert.GreaterOrEqual(t, upper[i], forecast[i])

		if i >= nActual {
			assert.True(t, math.IsNaN(actual[i]), "index %d", i)
			nNaN++
			continue
		}
		assert.False(t, math.IsNaN(actual[i]), "index %d", i)
		assert.GreaterOrEqual(t, actual[i], forecast[i]*DefaultJitterMin-0.05, "index %d", i)
		assert.LessOrEqual(t, actual[i], forecast[i]*DefaultJitterMax+0.05, "index %d", i)
	}
	assert.Equal(t, req.Horizon-nActual, nNaN)

	summary := res.Results
	assert.Equal(t, "BLDG0001", summary.BuildingID)
	assert.Equal(t, "Seasonal Profile", summary.Model)
	assert.Equal(t, MetricEnergy, summary.Metric)
	assert.Equal(t, "kWh", summary.Unit)

	var maxVal, sum float64
	maxIdx := 0
	for i, v := range forecast {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
		sum += v
	}
	assert.Equal(t, maxVal, summary.PeakPoint.Value)
	assert.Equal(t, res.ChartData.Timestamps[maxIdx], summary.PeakPoint.Timestamp)
	hour := summary.PeakPoint.Timestamp.Hour()
	assert.True(t, hour >= 9 && hour <= 17, "peak at hour %d", hour)
	assert.InDelta(t, sum/float64(len(forecast)), summary.Average, 0.05+1e-9)

	assert.Contains(t, summary.TrendDescription, "demand peaking around")
	assert.GreaterOrEqual(t, summary.ReliabilityScore, 89.0)
	assert.LessOrEqual(t, summary.ReliabilityScore, 100.0)

	assert.Equal(t, 15.0, summary.SavingsPotential.Percent)
	assert.InDelta(t, sum*0.15, summary.SavingsPotential.Amount, 0.05+1e-9)
	assert.Equal(t, "kWh", summary.SavingsPotential.Unit)

	assert.ElementsMatch(t, []string{FeatureSchedule, FeatureDayType}, importanceNames(summary.VariableImportance))

	require.GreaterOrEqual(t, len(summary.Recommendations), 4)
	assert.Contains(t, summary.Recommendations[0], "Shift flexible loads")
	assert.Equal(t, baseRecommendations, summary.Recommendations[1:4])
}

func TestGenerateTimeSeriesForecastDefaultStart(t *testing.T) {
	res, err := newTestGenerator(2).GenerateTimeSeriesForecast(ForecastRequest{Horizon: 24})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04T00:00:00", res.ChartData.Timestamps[0].String())
	assert.Equal(t, "2024-03-04T23:00:00", res.ChartData.Timestamps[23].String())
}

func TestGenerateTimeSeriesForecastSeeded(t *testing.T) {
	req := ForecastRequest{Horizon: 72, IncludeWeather: true, IncludeCalendar: true}
	first, err := newTestGenerator(30).GenerateTimeSeriesForecast(req)
	require.NoError(t, err)

	second, err := newTestGenerator(30).GenerateTimeSeriesForecast(req)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestGenerateTimeSeriesForecastWeekend(t *testing.T) {
	// Saturday
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	res, err := newTestGenerator(6).GenerateTimeSeriesForecast(ForecastRequest{StartDate: start, Horizon: 24})
	require.NoError(t, err)

	forecast := getDataset(t, res, LabelForecast)
	for i, v := range forecast {
		base := bandLoad(i, true)
		assert.GreaterOrEqual(t, v, base*ForecastVariationMin-0.05, "hour %d", i)
		assert.LessOrEqual(t, v, base*ForecastVariationMax+0.05, "hour %d", i)
	}
}

func TestGenerateTimeSeriesForecastWeather(t *testing.T) {
	start := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	plain, err := newTestGenerator(12).GenerateTimeSeriesForecast(ForecastRequest{StartDate: start, Horizon: 96})
	require.NoError(t, err)

	withWeather, err := newTestGenerator(12).GenerateTimeSeriesForecast(ForecastRequest{StartDate: start, Horizon: 96, IncludeWeather: true})
	require.NoError(t, err)

	plainForecast := getDataset(t, plain, LabelForecast)
	weatherForecast := getDataset(t, withWeather, LabelForecast)
	var larger int
	for i := range plainForecast {
		assert.GreaterOrEqual(t, weatherForecast[i], plainForecast[i], "index %d", i)
		if weatherForecast[i] > plainForecast[i] {
			larger++
		}
	}
	assert.Positive(t, larger)

	assert.Contains(t, importanceNames(withWeather.Results.VariableImportance), FeatureTemperature)
	assert.Contains(t, withWeather.Results.Recommendations, "Pre-condition the building ahead of temperature extremes")
	assert.NotContains(t, plain.Results.Recommendations, "Pre-condition the building ahead of temperature extremes")
}

func TestGenerateTimeSeriesForecastCalendar(t *testing.T) {
	// Wednesday
	christmas := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		includeCalendar bool
		base            float64
	}{
		"with calendar":    {includeCalendar: true, base: 50},
		"without calendar": {includeCalendar: false, base: 100},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			req := ForecastRequest{
				StartDate:       christmas,
				Horizon:         48,
				IncludeCalendar: td.includeCalendar,
			}
			res, err := newTestGenerator(8).GenerateTimeSeriesForecast(req)
			require.NoError(t, err)

			forecast := getDataset(t, res, LabelForecast)
			assert.GreaterOrEqual(t, forecast[12], td.base*ForecastVariationMin-0.05)
			assert.LessOrEqual(t, forecast[12], td.base*ForecastVariationMax+0.05)

			// the 26th is a regular working day
			assert.GreaterOrEqual(t, forecast[36], 100*ForecastVariationMin-0.05)

			names := importanceNames(res.Results.VariableImportance)
			setback := "Apply a holiday setback schedule on 2024-12-25"
			if td.includeCalendar {
				assert.Contains(t, names, FeatureHoliday)
				assert.Contains(t, res.Results.Recommendations, setback)
				return
			}
			assert.NotContains(t, names, FeatureHoliday)
			assert.NotContains(t, res.Results.Recommendations, setback)
		})
	}
}

func TestGenerateTimeSeriesForecastModelTypes(t *testing.T) {
	testData := map[string]struct {
		modelType ModelType
		name      string
		band      float64
	}{
		"linear":   {modelType: ModelLinear, name: "Linear Regression", band: 0.20},
		"seasonal": {modelType: ModelSeasonal, name: "Seasonal Profile", band: 0.15},
		"ensemble": {modelType: ModelEnsemble, name: "Gradient Boosted Ensemble", band: 0.10},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := newTestGenerator(3).GenerateTimeSeriesForecast(ForecastRequest{Horizon: 24, ModelType: td.modelType})
			require.NoError(t, err)
			assert.Equal(t, td.name, res.Results.Model)

			forecast := getDataset(t, res, LabelForecast)
			upper := getDataset(t, res, LabelUpperBound)
			lower := getDataset(t, res, LabelLowerBound)
			for i := range forecast {
				assert.InDelta(t, forecast[i]*(1+td.band), upper[i], 0.05+1e-9, "index %d", i)
				assert.InDelta(t, forecast[i]*(1-td.band), lower[i], 0.05+1e-9, "index %d", i)
			}
		})
	}
}

func TestGenerateTimeSeriesForecastMetrics(t *testing.T) {
	testData := map[string]struct {
		metric Metric
		unit   string
		scale  float64
	}{
		"energy": {metric: MetricEnergy, unit: "kWh", scale: 1.0},
		"power":  {metric: MetricPower, unit: "kW", scale: 1.0},
		"cost":   {metric: MetricCost, unit: "USD", scale: CostPerKWh},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
			res, err := newTestGenerator(3).GenerateTimeSeriesForecast(ForecastRequest{StartDate: start, Horizon: 24, Metric: td.metric})
			require.NoError(t, err)
			assert.Equal(t, td.unit, res.Results.Unit)
			assert.Equal(t, td.unit, res.Results.SavingsPotential.Unit)

			forecast := getDataset(t, res, LabelForecast)
			for i, v := range forecast {
				base := bandLoad(i, false) * td.scale
				assert.GreaterOrEqual(t, v, base*ForecastVariationMin-0.05, "hour %d", i)
				assert.LessOrEqual(t, v, base*ForecastVariationMax+0.05, "hour %d", i)
			}
		})
	}
}

func TestGenerateTimeSeriesForecastShortHorizon(t *testing.T) {
	testData := map[string]struct {
		horizon     int
		reliability float64
		trend       string
	}{
		"single point": {horizon: 1, reliability: 85.0, trend: "Horizon too short"},
		"no history":   {horizon: 3, reliability: 85.0, trend: "Consumption"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := newTestGenerator(1).GenerateTimeSeriesForecast(ForecastRequest{Horizon: td.horizon})
			require.NoError(t, err)

			actual := getDataset(t, res, LabelActual)
			for i, v := range actual {
				assert.True(t, math.IsNaN(v), "index %d", i)
			}
			assert.Equal(t, td.reliability, res.Results.ReliabilityScore)
			assert.True(t, strings.HasPrefix(res.Results.TrendDescription, td.trend), res.Results.TrendDescription)
			assert.NotNil(t, res.Results.VariableImportance)
		})
	}
}

func TestGenerateTimeSeriesForecastJSON(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	res, err := newTestGenerator(1).GenerateTimeSeriesForecast(ForecastRequest{StartDate: start, Horizon: 8})
	require.NoError(t, err)

	out, err := json.Marshal(res)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(out, &raw))
	require.Contains(t, raw, "chart_data")
	require.Contains(t, raw, "results")

	timestamps, ok := raw["chart_data"]["timestamps"].([]any)
	require.True(t, ok)
	assert.Equal(t, "2024-03-04T00:00:00", timestamps[0])

	datasets, ok := raw["chart_data"]["datasets"].([]any)
	require.True(t, ok)
	actual, ok := datasets[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, LabelActual, actual["label"])
	data, ok := actual["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 8)
	assert.NotNil(t, data[0])
	assert.NotNil(t, data[1])
	assert.Nil(t, data[2])
	assert.Nil(t, data[7])
}

func TestDescribeTrend(t *testing.T) {
	peak := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	testData := map[string]struct {
		y        []float64
		expected string
	}{
		"empty": {
			y:        nil,
			expected: "Horizon too short to establish a trend, demand peaking around 14:00",
		},
		"upward": {
			y:        []float64{10, 20, 30, 40},
			expected: "Consumption trends upward, about 120% over the horizon, with demand peaking around 14:00",
		},
		"downward": {
			y:        []float64{40, 30, 20, 10},
			expected: "Consumption trends downward, about 120% over the horizon, with demand peaking around 14:00",
		},
		"stable": {
			y:        []float64{50, 51, 50, 51, 50},
			expected: "Consumption follows a stable daily and weekly pattern with demand peaking around 14:00",
		},
		"all zero": {
			y:        []float64{0, 0, 0},
			expected: "Consumption follows a stable daily and weekly pattern with demand peaking around 14:00",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, describeTrend(td.y, peak))
		})
	}
}

func TestBandLoad(t *testing.T) {
	testData := map[string]struct {
		hour     int
		dayOff   bool
		expected float64
	}{
		"night workday":     {hour: 3, expected: 30},
		"night day off":     {hour: 5, dayOff: true, expected: 25},
		"morning workday":   {hour: 6, expected: 65},
		"morning day off":   {hour: 8, dayOff: true, expected: 35},
		"business workday":  {hour: 9, expected: 100},
		"business day off":  {hour: 17, dayOff: true, expected: 50},
		"evening workday":   {hour: 18, expected: 70},
		"evening day off":   {hour: 21, dayOff: true, expected: 45},
		"late workday":      {hour: 22, expected: 40},
		"late day off":      {hour: 23, dayOff: true, expected: 30},
		"out of range hour": {hour: 24, expected: 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, bandLoad(td.hour, td.dayOff))
		})
	}
}
