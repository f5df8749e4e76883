package mockseries

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-mockseries/stats"
	"github.com/goccy/go-json"
)

// ISOLocalLayout is ISO-8601 without a timezone offset. Consumers parse it positionally.
const ISOLocalLayout = "2006-01-02T15:04:05"

// LocalTime is a time that serializes as wall clock time in its own location without an
// offset.
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

func (lt LocalTime) String() string {
	return lt.Format(ISOLocalLayout)
}

func (lt LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(lt.String())
}

// UnmarshalJSON parses the wall clock time as a floating time held in UTC, matching
// the axes produced by the generators
func (lt *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation(ISOLocalLayout, s, time.UTC)
	if err != nil {
		return err
	}
	lt.Time = t
	return nil
}

func localTimes(t []time.Time) []LocalTime {
	res := make([]LocalTime, len(t))
	for i, tPnt := range t {
		res[i] = NewLocalTime(tPnt)
	}
	return res
}

// TimePoint is a single timestamped sample
type TimePoint struct {
	Timestamp LocalTime `json:"timestamp"`
	Value     float64   `json:"value"`
}

// NullableFloats marks missing values with NaN in memory and null when serialized.
type NullableFloats []float64

func (n NullableFloats) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(n))
	for i, v := range n {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		val := v
		vals[i] = &val
	}
	return json.Marshal(vals)
}

func (n *NullableFloats) UnmarshalJSON(data []byte) error {
	var vals []*float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	res := make(NullableFloats, len(vals))
	for i, v := range vals {
		if v == nil {
			res[i] = math.NaN()
			continue
		}
		res[i] = *v
	}
	*n = res
	return nil
}

// Scenario is a named projection of the baseline under a hypothetical intervention
type Scenario struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
}

// ScenarioSet holds scenarios whose values all align positionally with Dates.
type ScenarioSet struct {
	Dates     []LocalTime         `json:"dates"`
	Scenarios map[string]Scenario `json:"scenarios"`
}

// BuildingType is the usage category of a building
type BuildingType string

// BuildingRecord describes a single building of a generated portfolio
type BuildingRecord struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Location         string       `json:"location"`
	Type             BuildingType `json:"type"`
	Area             int          `json:"area"`
	Floors           int          `json:"floors"`
	Occupancy        int          `json:"occupancy"`
	ConstructionYear int          `json:"constructionYear"`
}

// Dataset is one named series of the chart data aligned with its timestamps
type Dataset struct {
	Label string         `json:"label"`
	Data  NullableFloats `json:"data"`
	Color string         `json:"color"`
}

type ChartData struct {
	Timestamps []LocalTime `json:"timestamps"`
	Datasets   []Dataset   `json:"datasets"`
}

// Dataset returns the dataset with the given label
func (c ChartData) Dataset(label string) (Dataset, bool) {
	for _, ds := range c.Datasets {
		if ds.Label == label {
			return ds, true
		}
	}
	return Dataset{}, false
}

type PeakPoint struct {
	Timestamp LocalTime `json:"timestamp"`
	Value     float64   `json:"value"`
}

type SavingsPotential struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
}

// ForecastSummary holds the summary statistics of a forecast
type ForecastSummary struct {
	BuildingID         string             `json:"building_id"`
	Model              string             `json:"model"`
	Metric             Metric             `json:"metric"`
	Unit               string             `json:"unit"`
	PeakPoint          PeakPoint          `json:"peak_point"`
	Average            float64            `json:"average"`
	TrendDescription   string             `json:"trend_description"`
	ReliabilityScore   float64            `json:"reliability_score"`
	VariableImportance []stats.Importance `json:"variable_importance"`
	SavingsPotential   SavingsPotential   `json:"savings_potential"`
	Recommendations    []string           `json:"recommendations"`
}

// TablePrint writes a human readable version of the summary
func (s ForecastSummary) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Model: %s\n", s.Model); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Peak: %.1f %s at %s    Average: %.1f %s    Reliability: %.1f\n",
		s.PeakPoint.Value, s.Unit, s.PeakPoint.Timestamp, s.Average, s.Unit, s.ReliabilityScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Trend: %s\n", s.TrendDescription); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Savings: %.1f%% (%.1f %s)\n", s.SavingsPotential.Percent, s.SavingsPotential.Amount, s.SavingsPotential.Unit); err != nil {
		return err
	}

	noImp := " None"
	if len(s.VariableImportance) > 0 {
		noImp = ""
	}
	if _, err := fmt.Fprintf(w, "  Variable Importance:%s\n", noImp); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	for _, imp := range s.VariableImportance {
		fmt.Fprintf(tbl, "    %s\t%.3f\t\n", imp.Name, imp.Score)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "  Recommendations:"); err != nil {
		return err
	}
	for _, rec := range s.Recommendations {
		if _, err := fmt.Fprintf(w, "    - %s\n", rec); err != nil {
			return err
		}
	}
	return nil
}

// ForecastResult is the chart ready forecast plus its summary
type ForecastResult struct {
	ChartData ChartData       `json:"chart_data"`
	Results   ForecastSummary `json:"results"`
}
