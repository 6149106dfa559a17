package renderer

import (
	"bytes"

	"github.com/etnz/worth"
	md "github.com/nao1215/markdown"
)

// Grouping selects which matrix dimension a history table lays out.
type Grouping int

const (
	ByAsset Grouping = iota
	ByAccount
	ByStrategy
)

func (g Grouping) String() string {
	switch g {
	case ByAccount:
		return "account"
	case ByStrategy:
		return "strategy"
	default:
		return "asset"
	}
}

// HistoryMarkdown renders the matrix window as a table: one row per snapshot,
// one column per key of the chosen grouping, plus the combined total.
func HistoryMarkdown(mr *worth.MatrixResult, g Grouping, labels Labels) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Value History by " + g.String())

	keys, series, titles := groupingSeries(mr, g, labels)

	header := []string{"Date"}
	alignment := []md.TableAlignment{md.AlignLeft}
	for _, key := range keys {
		header = append(header, title(key, titles[key]))
		alignment = append(alignment, md.AlignRight)
	}
	header = append(header, "Total")
	alignment = append(alignment, md.AlignRight)

	table := md.TableSet{Alignment: alignment, Header: header, Rows: [][]string{}}
	total := mr.TotalSeries()
	for i, snap := range mr.Snapshots {
		row := []string{snap.CapturedAt.Format("2006-01-02")}
		for _, key := range keys {
			row = append(row, amount(series(key)[i]))
		}
		row = append(row, amount(total[i]))
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)

	return doc.String()
}

func groupingSeries(mr *worth.MatrixResult, g Grouping, labels Labels) (
	keys []string, series func(string) []float64, titles map[string]string) {

	switch g {
	case ByAccount:
		return mr.OrderedAccountIDs(), mr.AccountSeries, labels.Accounts
	case ByStrategy:
		return mr.OrderedStrategyIDs(), mr.StrategySeries, labels.Strategies
	default:
		return mr.OrderedAssetIDs(), mr.AssetSeries, labels.Assets
	}
}

// SnapshotsMarkdown lists the committed snapshots with their totals.
func SnapshotsMarkdown(mr *worth.MatrixResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Valuation Snapshots")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Key", "Captured At", "Market Value"},
		Rows:      [][]string{},
	}
	total := mr.TotalSeries()
	for i, snap := range mr.Snapshots {
		table.Rows = append(table.Rows, []string{
			snap.ID,
			snap.CapturedAt.Format("2006-01-02 15:04"),
			amount(total[i]),
		})
	}
	doc.Table(table)

	return doc.String()
}
