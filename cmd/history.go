package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/worth/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	beg      string
	end      string
	grouping string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display market value history per snapshot" }
func (*historyCmd) Usage() string {
	return `worth history [-b <snapshotID>] [-e <snapshotID>] [-g <asset|account|strategy>]

  Displays the market value of every grouping key at every committed snapshot
  in the range, one row per snapshot.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.beg, "b", "", "begin snapshot ID (defaults to the first)")
	f.StringVar(&c.end, "e", "", "end snapshot ID (defaults to the last)")
	f.StringVar(&c.grouping, "g", "asset", "grouping: asset, account, or strategy")
}

func parseGrouping(s string) (renderer.Grouping, error) {
	switch s {
	case "", "asset":
		return renderer.ByAsset, nil
	case "account":
		return renderer.ByAccount, nil
	case "strategy":
		return renderer.ByStrategy, nil
	default:
		return 0, fmt.Errorf("unknown grouping %q (want asset, account, or strategy)", s)
	}
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := parseGrouping(c.grouping)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	mr, ax, status := buildMatrix(c.beg, c.end, false)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.HistoryMarkdown(mr, g, renderer.NewLabels(ax)))
	return subcommands.ExitSuccess
}
