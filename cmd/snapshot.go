package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/worth"
	"github.com/etnz/worth/renderer"
	"github.com/google/subcommands"
)

type snapshotCmd struct {
	at      string
	exclude string
	commit  bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "preview or commit a valuation snapshot" }
func (*snapshotCmd) Usage() string {
	return `worth snapshot [-t <time>] [-x <txnID,...>] [-commit]

  Builds a pending valuation snapshot from the live holdings and previews it:
  position deltas against the previous snapshot, cash flow candidates, and
  readiness diagnostics. With -commit, appends it to the document.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.at, "t", "", "capture time (RFC3339 or YYYY-MM-DD), defaults to now")
	f.StringVar(&c.exclude, "x", "", "comma-separated transaction IDs to exclude")
	f.BoolVar(&c.commit, "commit", false, "commit the pending snapshot to the document")
}

// parseTime accepts a full RFC3339 timestamp or a bare date.
func parseTime(s string, tz *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if at, err := time.Parse(time.RFC3339, s); err == nil {
		return at, nil
	}
	at, err := time.ParseInLocation("2006-01-02", s, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse time %q: %w", s, err)
	}
	return at, nil
}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	m, err := DecodeDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ds, err := DecodeSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ax := NewAppContext(m)

	at, err := parseTime(c.at, ax.TimeZone)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	excluded := ds.ExcludedTxnIDs()
	for _, id := range strings.Split(c.exclude, ",") {
		if id = strings.TrimSpace(id); id != "" {
			excluded[id] = true
		}
	}

	ps := ax.NewPendingSnapshot(at, excluded)

	if !c.commit {
		printMarkdown(renderer.PendingMarkdown(ps, renderer.NewLabels(ax)))
		return subcommands.ExitSuccess
	}

	committed, err := m.CommitPendingSnapshot(ps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error committing snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	ds.RetireTransactions(ps.TransactionIDs)

	if err := EncodeDocument(m); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := EncodeSettings(ds); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Committed snapshot %s at %s (market value %s)\n",
		committed.ID, committed.CapturedAt.Format(time.RFC3339), ps.MarketValueTotal())
	return subcommands.ExitSuccess
}

type snapshotsCmd struct{}

func (*snapshotsCmd) Name() string     { return "snapshots" }
func (*snapshotsCmd) Synopsis() string { return "list committed valuation snapshots" }
func (*snapshotsCmd) Usage() string {
	return `worth snapshots

  Lists every committed snapshot with its capture time and total market value.
`
}

func (*snapshotsCmd) SetFlags(f *flag.FlagSet) {}

func (*snapshotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	mr, _, status := buildMatrix("", "", false)
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.SnapshotsMarkdown(mr))
	return subcommands.ExitSuccess
}

type rmSnapshotCmd struct{}

func (*rmSnapshotCmd) Name() string     { return "rm-snapshot" }
func (*rmSnapshotCmd) Synopsis() string { return "delete a committed snapshot" }
func (*rmSnapshotCmd) Usage() string {
	return `worth rm-snapshot <snapshotID>

  Deletes a committed snapshot and every position and cash flow that belongs
  to it.
`
}

func (*rmSnapshotCmd) SetFlags(f *flag.FlagSet) {}

func (*rmSnapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one snapshot ID is required")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	m, err := DecodeDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if !m.DeleteSnapshot(id) {
		fmt.Fprintf(os.Stderr, "unknown snapshot %q\n", id)
		return subcommands.ExitFailure
	}
	if err := EncodeDocument(m); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted snapshot %s\n", id)
	return subcommands.ExitSuccess
}

// buildMatrix loads the document and builds the matrix cache over [begID,
// endID], honoring configured account exclusions.
func buildMatrix(begID, endID string, trackPerformance bool) (*worth.MatrixResult, *worth.Context, subcommands.ExitStatus) {
	m, err := DecodeDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, subcommands.ExitFailure
	}
	ax := NewAppContext(m)
	cache, err := worth.NewMatrixResultCache(ax, begID, endID, ExcludedAccountMap(), nil, trackPerformance)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, subcommands.ExitFailure
	}
	return cache.Main(), ax, subcommands.ExitSuccess
}
