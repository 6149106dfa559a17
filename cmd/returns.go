package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/worth/renderer"
	"github.com/google/subcommands"
)

type returnsCmd struct {
	beg     string
	end     string
	summary string
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "display period returns between two snapshots" }
func (*returnsCmd) Usage() string {
	return `worth returns [-b <snapshotID>] [-e <snapshotID>] [-summary <delta|basis|dietz>]

  Summarizes the period between two committed snapshots: begin and end market
  value, net cash flows, and Modified Dietz returns, grouped by asset class,
  account, and strategy. The range defaults to the full history.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.beg, "b", "", "begin snapshot ID (defaults to the first)")
	f.StringVar(&c.end, "e", "", "end snapshot ID (defaults to the last)")
	f.StringVar(&c.summary, "summary", "", "leading figure: delta, basis, or dietz")
}

func (c *returnsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mr, ax, status := buildMatrix(c.beg, c.end, true)
	if status != subcommands.ExitSuccess {
		return status
	}
	ps := mr.PeriodSummary(ax)
	if ps == nil {
		fmt.Fprintln(os.Stderr, "at least two committed snapshots are required")
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(ps, summarySelection(c.summary), renderer.NewLabels(ax)))
	return subcommands.ExitSuccess
}
