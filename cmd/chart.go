package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/worth"
	"github.com/etnz/worth/chart"
	"github.com/google/subcommands"
)

type chartCmd struct {
	beg string
	end string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "write history and forecast charts as PNG files" }
func (*chartCmd) Usage() string {
	return `worth chart [-b <snapshotID>] [-e <snapshotID>]

  Renders the value history (one line per asset class plus the total) and the
  forecast projection to PNG files. Output paths come from worth.toml.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.beg, "b", "", "begin snapshot ID (defaults to the first)")
	f.StringVar(&c.end, "e", "", "end snapshot ID (defaults to the last)")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mr, _, status := buildMatrix(c.beg, c.end, false)
	if status != subcommands.ExitSuccess {
		return status
	}
	cfg := Config().Chart

	png, err := chart.RenderHistoryChart(mr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering history chart: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(cfg.HistoryFile, png, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", cfg.HistoryFile)

	fr := worth.NewForecast(mr.TotalPoints())
	png, err = chart.RenderForecastChart(fr)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping forecast chart")
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(cfg.ForecastFile, png, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", cfg.ForecastFile)
	return subcommands.ExitSuccess
}
