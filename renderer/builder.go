package renderer

import (
	"bytes"

	"github.com/etnz/worth"
	md "github.com/nao1215/markdown"
)

// PendingMarkdown renders the pending snapshot preview: readiness, position
// deltas against the previous snapshot, and the cash flow candidates.
func PendingMarkdown(ps *worth.PendingSnapshot, labels Labels) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Pending Snapshot " + ps.Snapshot.CapturedAt.Format("2006-01-02 15:04"))

	if d := ps.CanCommit(ps.Snapshot.CapturedAt); d != nil {
		if d.IsError {
			doc.PlainText("Blocked: " + d.Message)
		} else {
			doc.PlainText("Warning: " + d.Message)
		}
	} else {
		doc.PlainText("Ready to commit.")
	}

	doc.H2("Positions")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Account", "Asset", "Previous", "Pending", "Basis"},
		Rows:   [][]string{},
	}
	for _, d := range ps.Diff() {
		table.Rows = append(table.Rows, []string{
			title(d.AccountID, labels.Accounts[d.AccountID]),
			title(d.AssetID, labels.Assets[d.AssetID]),
			d.PrevMarketValue.String(),
			d.MarketValue.String(),
			d.TotalBasis.String(),
		})
	}
	doc.Table(table)
	doc.PlainText("Total market value: " + ps.MarketValueTotal().String())

	if len(ps.Cashflows) > 0 {
		doc.H2("Cash Flows")
		flows := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Date", "Account", "Asset", "Amount"},
			Rows:      [][]string{},
		}
		for _, c := range ps.Cashflows {
			flows.Rows = append(flows.Rows, []string{
				c.TransactedAt.Format("2006-01-02"),
				title(c.AccountID, labels.Accounts[c.AccountID]),
				title(c.AssetID, labels.Assets[c.AssetID]),
				c.Amount.SignedString(),
			})
		}
		doc.Table(flows)
		doc.PlainText("Net cash flow: " + ps.NetCashflowTotal().SignedString())
	}

	return doc.String()
}
