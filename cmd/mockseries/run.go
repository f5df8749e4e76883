package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	mockseries "github.com/aouyang1/go-mockseries"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const startLayout = "2006-01-02"

type globalFlags struct {
	seed     uint64
	timezone string
	indent   bool
	verbose  bool
}

type forecastFlags struct {
	horizon         int
	start           string
	building        string
	metric          string
	model           string
	includeWeather  bool
	includeCalendar bool
}

func (f *forecastFlags) register(cmd *cobra.Command, cfg config) {
	cmd.Flags().IntVar(&f.horizon, "horizon", 7*24, "number of hourly forecast points")
	cmd.Flags().StringVar(&f.start, "start", "", "forecast start date as YYYY-MM-DD (empty = today)")
	cmd.Flags().StringVar(&f.building, "building", "BLDG0001", "building id echoed in the forecast summary")
	cmd.Flags().StringVar(&f.metric, "metric", string(mockseries.DefaultMetric), "forecast metric: energy, power or cost")
	cmd.Flags().StringVar(&f.model, "model", cfg.model, "forecast model type: linear, seasonal or ensemble")
	cmd.Flags().BoolVar(&f.includeWeather, "weather", false, "scale the forecast by outdoor temperature")
	cmd.Flags().BoolVar(&f.includeCalendar, "calendar", false, "run US holidays on the day off schedule")
}

func (f *forecastFlags) request(loc *time.Location) (mockseries.ForecastRequest, error) {
	req := mockseries.ForecastRequest{
		BuildingID:      f.building,
		Metric:          mockseries.Metric(f.metric),
		Horizon:         f.horizon,
		IncludeWeather:  f.includeWeather,
		IncludeCalendar: f.includeCalendar,
		ModelType:       mockseries.ModelType(f.model),
	}
	if f.start != "" {
		start, err := time.ParseInLocation(startLayout, f.start, loc)
		if err != nil {
			return req, fmt.Errorf("unable to parse start date %q, %w", f.start, err)
		}
		req.StartDate = start
	}
	return req, nil
}

// newGenerator seeds the generator when seed is non-zero
func newGenerator(cmd *cobra.Command, flags *globalFlags) (*mockseries.Generator, error) {
	opt := mockseries.NewDefaultOptions()
	opt.Timezone = flags.timezone

	var g *mockseries.Generator
	if flags.seed == 0 {
		g = mockseries.New(nil, opt)
	} else {
		g = mockseries.NewSeeded(flags.seed, opt)
	}

	if flags.verbose {
		genOpt := g.Options()
		if err := genOpt.TablePrint(cmd.ErrOrStderr()); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	var out []byte
	var err error
	if indent {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("unable to encode output, %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func runForecast(cmd *cobra.Command, g *mockseries.Generator, flags *globalFlags, ff *forecastFlags) (*mockseries.ForecastResult, error) {
	genOpt := g.Options()
	req, err := ff.request(genOpt.Location())
	if err != nil {
		return nil, err
	}
	res, err := g.GenerateTimeSeriesForecast(req)
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		if err := res.Results.TablePrint(cmd.ErrOrStderr()); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func seriesCmd(flags *globalFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print hourly consumption starting at local midnight today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGenerator(cmd, flags)
			if err != nil {
				return err
			}
			pts, err := g.GenerateForecastSeries(days)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pts, flags.indent)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days of hourly consumption")
	return cmd
}

func scenariosCmd(flags *globalFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Print baseline, efficiency and equipment scheduling scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGenerator(cmd, flags)
			if err != nil {
				return err
			}
			set, err := g.GenerateScenarioSet(days)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), set, flags.indent)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days of hourly consumption")
	return cmd
}

func portfolioCmd(flags *globalFlags) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Print a portfolio of mock buildings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGenerator(cmd, flags)
			if err != nil {
				return err
			}
			buildings, err := g.GenerateBuildingPortfolio(count)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), buildings, flags.indent)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of buildings in the portfolio")
	return cmd
}

func forecastCmd(flags *globalFlags, cfg config) *cobra.Command {
	ff := &forecastFlags{}

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print an hourly mock forecast with confidence bounds and a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGenerator(cmd, flags)
			if err != nil {
				return err
			}
			res, err := runForecast(cmd, g, flags, ff)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res, flags.indent)
		},
	}

	ff.register(cmd, cfg)
	return cmd
}

func dashboardCmd(flags *globalFlags, cfg config) *cobra.Command {
	var days, count int
	var out string
	ff := &forecastFlags{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render every generator output as an html dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := newGenerator(cmd, flags)
			if err != nil {
				return err
			}

			var d mockseries.Dashboard
			if d.Series, err = g.GenerateForecastSeries(days); err != nil {
				return err
			}
			if d.Scenarios, err = g.GenerateScenarioSet(days); err != nil {
				return err
			}
			if d.Portfolio, err = g.GenerateBuildingPortfolio(count); err != nil {
				return err
			}
			if d.Forecast, err = runForecast(cmd, g, flags, ff); err != nil {
				return err
			}
			return renderDashboard(out, d)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days of hourly consumption")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of buildings in the portfolio")
	cmd.Flags().StringVarP(&out, "out", "o", "dashboard.html", "html output path")
	ff.register(cmd, cfg)
	return cmd
}

func renderDashboard(path string, d mockseries.Dashboard) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create dashboard file, %w", err)
	}
	defer file.Close()

	if err := mockseries.PlotDashboard(file, d); err != nil {
		return fmt.Errorf("unable to render dashboard, %w", err)
	}
	slog.Info("rendered dashboard", "path", path)
	return nil
}
