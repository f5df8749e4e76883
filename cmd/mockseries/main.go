// mockseries prints mock building energy data as JSON or renders it as an html dashboard.
//
// Usage:
//
//	mockseries series --days 7
//	mockseries scenarios --days 3 --seed 42
//	mockseries portfolio --count 25
//	mockseries forecast --horizon 168 --weather --calendar --model ensemble --metric cost
//	mockseries dashboard --out dashboard.html
//
// Defaults for the seed, timezone and model type are read from MOCKSERIES_SEED,
// MOCKSERIES_TZ and MOCKSERIES_MODEL, optionally loaded from a .env file.
package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := configFromEnv()
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "mockseries",
		Short:         "Generate mock building energy series, portfolios and forecasts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.Uint64Var(&flags.seed, "seed", cfg.seed, "random seed (0 = use current time)")
	pf.StringVar(&flags.timezone, "tz", cfg.timezone, "IANA timezone of the generated timestamps (empty = local)")
	pf.BoolVar(&flags.indent, "indent", true, "indent json output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "print generator options and forecast summary to stderr")

	rootCmd.AddCommand(seriesCmd(flags))
	rootCmd.AddCommand(scenariosCmd(flags))
	rootCmd.AddCommand(portfolioCmd(flags))
	rootCmd.AddCommand(forecastCmd(flags, cfg))
	rootCmd.AddCommand(dashboardCmd(flags, cfg))
	return rootCmd
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("unable to load .env file", "error", err.Error())
	}

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		slog.Error("mockseries failed", "error", err.Error())
		os.Exit(1)
	}
}
