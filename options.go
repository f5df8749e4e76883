package mockseries

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-mockseries/weather"
)

const (
	DefaultWeekendFactor = 0.6
	DefaultJitterMin     = 0.9
	DefaultJitterMax     = 1.1
)

// OutlierOptions configures the Tukey fences used to flag anomalous readings in the
// observed portion of a forecast.
type OutlierOptions struct {
	UpperPercentile float64 `json:"upper_percentile"`
	LowerPercentile float64 `json:"lower_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

func NewDefaultOutlierOptions() OutlierOptions {
	return OutlierOptions{
		UpperPercentile: 0.75,
		LowerPercentile: 0.25,
		TukeyFactor:     1.5,
	}
}

// Options configures a Generator. The zero value of every numeric field is replaced by its
// default during validation.
type Options struct {
	// Timezone is an IANA location name used for the series clock. Empty means the
	// process local timezone.
	Timezone string `json:"timezone"`

	// NowFunc reports the current time. Defaults to time.Now.
	NowFunc func() time.Time `json:"-"`

	WeekendFactor float64 `json:"weekend_factor"`
	JitterMin     float64 `json:"jitter_min"`
	JitterMax     float64 `json:"jitter_max"`

	Weather        weather.Profile `json:"weather"`
	OutlierOptions OutlierOptions  `json:"outlier_options"`
}

// NewDefaultOptions returns a set of default generator options
func NewDefaultOptions() *Options {
	return &Options{
		NowFunc:        time.Now,
		WeekendFactor:  DefaultWeekendFactor,
		JitterMin:      DefaultJitterMin,
		JitterMax:      DefaultJitterMax,
		Weather:        weather.NewDefaultProfile(),
		OutlierOptions: NewDefaultOutlierOptions(),
	}
}

// Validate replaces unset or out of range values with defaults
func (o *Options) Validate() {
	if o.NowFunc == nil {
		o.NowFunc = time.Now
	}
	if o.WeekendFactor <= 0 || o.WeekendFactor > 1 || math.IsNaN(o.WeekendFactor) {
		o.WeekendFactor = DefaultWeekendFactor
	}
	if o.JitterMin <= 0 || o.JitterMax <= 0 || o.JitterMin > o.JitterMax ||
		math.IsNaN(o.JitterMin) || math.IsNaN(o.JitterMax) {
		o.JitterMin = DefaultJitterMin
		o.JitterMax = DefaultJitterMax
	}
	if o.Weather == (weather.Profile{}) {
		o.Weather = weather.NewDefaultProfile()
	}
	if o.OutlierOptions == (OutlierOptions{}) {
		o.OutlierOptions = NewDefaultOutlierOptions()
	}
}

// Location resolves the configured timezone falling back to the process local timezone
func (o *Options) Location() *time.Location {
	if o.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		slog.Warn("invalid timezone, using local timezone", "timezone", o.Timezone, "error", err.Error())
		return time.Local
	}
	return loc
}

// TablePrint writes a human readable summary of the options
func (o *Options) TablePrint(w io.Writer) error {
	tz := o.Timezone
	if tz == "" {
		tz = "Local"
	}
	if _, err := fmt.Fprintf(w, "Generator:\n  Timezone: %s\n", tz); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "  \tWeekend Factor:\t%.3f\t\n", o.WeekendFactor)
	fmt.Fprintf(tbl, "  \tJitter:\t[%.3f, %.3f)\t\n", o.JitterMin, o.JitterMax)
	fmt.Fprintf(tbl, "  \tBalance Temp:\t%.1fC\t\n", o.Weather.BalanceTempC)
	fmt.Fprintf(tbl, "  \tTukey Factor:\t%.3f\t\n", o.OutlierOptions.TukeyFactor)
	return tbl.Flush()
}
