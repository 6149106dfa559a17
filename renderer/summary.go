package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/worth"
	md "github.com/nao1215/markdown"
)

// Labels maps entity keys to display titles for rendering. Missing entries
// fall back to the raw key.
type Labels struct {
	Assets     map[string]string
	Accounts   map[string]string
	Strategies map[string]string
}

// NewLabels collects display titles from the context.
func NewLabels(ax *worth.Context) Labels {
	l := Labels{
		Assets:     make(map[string]string, len(ax.AssetMap)),
		Accounts:   make(map[string]string, len(ax.AccountMap)),
		Strategies: make(map[string]string, len(ax.StrategyMap)),
	}
	for id, a := range ax.AssetMap {
		l.Assets[id] = a.Title
	}
	for id, a := range ax.AccountMap {
		l.Accounts[id] = a.Title
	}
	for id, s := range ax.StrategyMap {
		l.Strategies[id] = s.Title
	}
	return l
}

// SummaryMarkdown renders the period summary as one table per grouping
// (asset, account, strategy) plus a total row, leading with the selected
// figure.
func SummaryMarkdown(ps *worth.PeriodSummary, sel worth.PeriodSummarySelection, labels Labels) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Period Summary %s to %s",
		ps.Period.Start.Format("2006-01-02"), ps.Period.End.Format("2006-01-02")))

	summaryTable(doc, "By Asset", ps, ps.Assets, sel, labels.Assets)
	summaryTable(doc, "By Account", ps, ps.Accounts, sel, labels.Accounts)
	summaryTable(doc, "By Strategy", ps, ps.Strategies, sel, labels.Strategies)

	doc.H2("Total")
	totals := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Figure", "Value"},
		Rows: [][]string{
			{"Begin Market Value", amount(ps.Total.BegMarketValue)},
			{"End Market Value", amount(ps.Total.EndMarketValue)},
			{"Delta", signedAmount(ps.Total.DeltaMarketValue())},
			{"Net Cash Flow", signedAmount(ps.Total.Dietz.NetCashflowTotal)},
			{"Gain or Loss", signedAmount(ps.Total.Dietz.GainOrLoss())},
			{"Modified Dietz Return", dietzCell(ps.Total.Dietz)},
		},
	}
	if r, ok := ps.AnnualizedReturn(); ok {
		totals.Rows = append(totals.Rows, []string{"Annualized Return", r.SignedString()})
	}
	if d, ok := ps.DeltaPerDay(); ok {
		totals.Rows = append(totals.Rows, []string{"Delta per Day", signedAmount(d)})
	}
	doc.Table(totals)

	return doc.String()
}

func summaryTable(doc *md.Markdown, heading string, ps *worth.PeriodSummary,
	group map[string]*worth.KeySummary, sel worth.PeriodSummarySelection, titles map[string]string) {

	doc.H2(heading)
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Key", "Begin", "End", selectionHeader(sel)},
		Rows:      [][]string{},
	}
	for _, key := range ps.OrderedKeys(group) {
		ks := group[key]
		table.Rows = append(table.Rows, []string{
			title(key, titles[key]),
			amount(ks.BegMarketValue),
			amount(ks.EndMarketValue),
			selectionCell(ks, sel),
		})
	}
	doc.Table(table)
}

func selectionHeader(sel worth.PeriodSummarySelection) string {
	switch sel {
	case worth.DeltaTotalBasis:
		return "Basis Delta"
	case worth.ModifiedDietz:
		return "Dietz Return"
	default:
		return "Delta"
	}
}

func selectionCell(ks *worth.KeySummary, sel worth.PeriodSummarySelection) string {
	switch sel {
	case worth.DeltaTotalBasis:
		return signedAmount(ks.DeltaTotalBasis())
	case worth.ModifiedDietz:
		return dietzCell(ks.Dietz)
	default:
		return signedAmount(ks.DeltaMarketValue())
	}
}
