package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/worth"
	md "github.com/nao1215/markdown"
)

// ForecastMarkdown renders the fitted trend and the projected milestones.
func ForecastMarkdown(fr *worth.ForecastResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Forecast")

	formula, ok := fr.FormattedFormula()
	if !ok {
		doc.PlainText("Not enough history to fit a trend: at least two snapshots are required.")
		return doc.String()
	}
	doc.PlainText(formula)

	perDay, _ := fr.GainPerDay()
	perYear, _ := fr.GainPerYear()
	doc.PlainText(fmt.Sprintf("Trend: %s per day, %s per year.",
		signedAmount(perDay), signedAmount(perYear)))

	if len(fr.Milestones) == 0 {
		doc.PlainText("No milestones: the fitted trend is flat or falling.")
		return doc.String()
	}

	doc.H2("Milestones")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft},
		Header:    []string{"Value", "Projected Date"},
		Rows:      [][]string{},
	}
	for _, ms := range fr.Milestones {
		table.Rows = append(table.Rows, []string{
			amount(ms.Value),
			ms.At.Format("2006-01-02"),
		})
	}
	doc.Table(table)

	return doc.String()
}
