package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts, strategies, and asset classes" }
func (*accountsCmd) Usage() string {
	return `worth accounts

  Lists the document's reference entities: accounts with their strategy
  assignment and trading flag, strategies, and asset classes.
`
}

func (*accountsCmd) SetFlags(f *flag.FlagSet) {}

func (*accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := DecodeDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println("Accounts:")
	for _, a := range m.Accounts {
		trading := ""
		if a.IsTrading {
			trading = " [trading]"
		}
		fmt.Printf("  %-16s %s (strategy: %s)%s\n", a.ID, a.Title, a.StrategyID, trading)
	}
	fmt.Println("Strategies:")
	for _, s := range m.Strategies {
		fmt.Printf("  %-16s %s\n", s.ID, s.Title)
	}
	fmt.Println("Assets:")
	for _, a := range m.Assets {
		fmt.Printf("  %-16s %s\n", a.ID, a.Title)
	}
	return subcommands.ExitSuccess
}
