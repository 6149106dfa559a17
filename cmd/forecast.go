package cmd

import (
	"context"
	"flag"

	"github.com/etnz/worth"
	"github.com/etnz/worth/renderer"
	"github.com/google/subcommands"
)

type forecastCmd struct{}

func (*forecastCmd) Name() string     { return "forecast" }
func (*forecastCmd) Synopsis() string { return "project future value from the snapshot history" }
func (*forecastCmd) Usage() string {
	return `worth forecast

  Fits a linear trend through the total market value of every committed
  snapshot and projects round-value milestones with their expected dates.
`
}

func (*forecastCmd) SetFlags(f *flag.FlagSet) {}

func (*forecastCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mr, _, status := buildMatrix("", "", false)
	if status != subcommands.ExitSuccess {
		return status
	}
	fr := worth.NewForecast(mr.TotalPoints())
	printMarkdown(renderer.ForecastMarkdown(fr))
	return subcommands.ExitSuccess
}
