package mockseries

import (
	"errors"
	"io"
	"math"
	"sort"
	"time"

	"github.com/aouyang1/go-mockseries/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrEmptyDashboard = errors.New("no charts to render in dashboard")

// echarts treats "-" as a missing value and leaves a gap in the line
const missingValue = "-"

func lineData(y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for _, v := range y {
		if math.IsNaN(v) {
			data = append(data, opts.LineData{Value: missingValue})
			continue
		}
		data = append(data, opts.LineData{Value: v})
	}
	return data
}

const dailyLabelLayout = "2006-01-02"

// timeLabels formats the x axis labels, dropping the time of day when points are at least
// a day apart.
func timeLabels(t []LocalTime) []string {
	ts := make(timedataset.TimeSlice, len(t))
	for i, tPnt := range t {
		ts[i] = tPnt.Time
	}

	layout := ISOLocalLayout
	if freq, err := ts.EstimateFreq(); err == nil && freq >= 24*time.Hour {
		layout = dailyLabelLayout
	}

	labels := make([]string, len(t))
	for i, tPnt := range ts {
		labels[i] = tPnt.Format(layout)
	}
	return labels
}

func newLine(title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)
	return line
}

// LineTimePoints generates an echart line chart of a single consumption series
func LineTimePoints(title string, pts []TimePoint) *charts.Line {
	line := newLine(title)

	t := make([]LocalTime, len(pts))
	y := make([]float64, len(pts))
	for i, pt := range pts {
		t[i] = pt.Timestamp
		y[i] = pt.Value
	}

	line.SetXAxis(timeLabels(t)).
		AddSeries("Consumption", lineData(y))
	return line
}

// LineScenarioSet generates an echart multi-line chart with one line per scenario, in
// stable key order, colored with the scenario color.
func LineScenarioSet(set *ScenarioSet) *charts.Line {
	line := newLine("Scenario Comparison")
	if set == nil {
		return line
	}

	keys := make([]string, 0, len(set.Scenarios))
	for key := range set.Scenarios {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	line.SetXAxis(timeLabels(set.Dates))
	for _, key := range keys {
		sc := set.Scenarios[key]
		line.AddSeries(sc.Name, lineData(sc.Values),
			charts.WithLineStyleOpts(opts.LineStyle{Color: sc.Color}),
		)
	}
	return line
}

// LineForecast generates an echart line chart plotting the observed values along with the
// forecasted, upper and lower values.
func LineForecast(res *ForecastResult) *charts.Line {
	line := newLine("Forecast")
	if res == nil {
		return line
	}

	line.SetXAxis(timeLabels(res.ChartData.Timestamps))
	for _, ds := range res.ChartData.Datasets {
		line.AddSeries(ds.Label, lineData(ds.Data),
			charts.WithLineStyleOpts(opts.LineStyle{Color: ds.Color}),
		)
	}
	return line
}

// BarPortfolio generates an echart bar chart of occupancy and floor count per building
func BarPortfolio(buildings []BuildingRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Building Portfolio",
			},
		),
	)

	ids := make([]string, 0, len(buildings))
	occupancy := make([]opts.BarData, 0, len(buildings))
	floors := make([]opts.BarData, 0, len(buildings))
	for _, b := range buildings {
		ids = append(ids, b.ID)
		occupancy = append(occupancy, opts.BarData{Value: b.Occupancy})
		floors = append(floors, opts.BarData{Value: b.Floors})
	}

	bar.SetXAxis(ids).
		AddSeries("Occupancy (%)", occupancy).
		AddSeries("Floors", floors)
	return bar
}

// BarVariableImportance generates an echart bar chart of the forecast variable importance
func BarVariableImportance(s ForecastSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Variable Importance",
			},
		),
	)

	names := make([]string, 0, len(s.VariableImportance))
	scores := make([]opts.BarData, 0, len(s.VariableImportance))
	for _, imp := range s.VariableImportance {
		names = append(names, imp.Name)
		scores = append(scores, opts.BarData{Value: imp.Score})
	}

	bar.SetXAxis(names).
		AddSeries("Importance", scores)
	return bar
}

// Dashboard collects the generated data to render. Unset fields are skipped.
type Dashboard struct {
	Series    []TimePoint
	Scenarios *ScenarioSet
	Portfolio []BuildingRecord
	Forecast  *ForecastResult
}

// Charts returns the charts for every populated field of the dashboard
func (d Dashboard) Charts() []components.Charter {
	var c []components.Charter
	if len(d.Series) > 0 {
		c = append(c, LineTimePoints("Hourly Consumption", d.Series))
	}
	if d.Scenarios != nil {
		c = append(c, LineScenarioSet(d.Scenarios))
	}
	if d.Forecast != nil {
		c = append(c, LineForecast(d.Forecast), BarVariableImportance(d.Forecast.Results))
	}
	if len(d.Portfolio) > 0 {
		c = append(c, BarPortfolio(d.Portfolio))
	}
	return c
}

// PlotDashboard uses the Apache Echarts library to render an html page with a chart for
// every populated field of the dashboard
func PlotDashboard(w io.Writer, d Dashboard) error {
	c := d.Charts()
	if len(c) == 0 {
		return ErrEmptyDashboard
	}
	page := components.NewPage()
	page.AddCharts(c...)
	return page.Render(w)
}
