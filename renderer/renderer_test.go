package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/worth"
)

func day(n int) time.Time {
	return time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// fixtureModel builds a two-snapshot document with one deposit in between.
func fixtureModel(t *testing.T) *worth.BaseModel {
	t.Helper()
	m := &worth.BaseModel{
		Strategies: []worth.Strategy{{ID: "growth", Title: "Growth"}},
		Assets: []worth.Asset{
			{ID: "equities", Title: "Equities"},
			{ID: worth.CashAssetID, Title: "Cash"},
		},
		Accounts: []worth.Account{
			{ID: "brokerage", Title: "Brokerage", StrategyID: "growth", IsTrading: true},
		},
		ValuationSnapshots: []worth.ValuationSnapshot{
			{ID: "s0", CapturedAt: day(0)},
			{ID: "s1", CapturedAt: day(30)},
		},
		ValuationPositions: []worth.ValuationPosition{
			{SnapshotID: "s0", AccountID: "brokerage", AssetID: "equities",
				TotalBasis: worth.M(9000, "USD"), MarketValue: worth.M(10000, "USD")},
			{SnapshotID: "s1", AccountID: "brokerage", AssetID: "equities",
				TotalBasis: worth.M(9000, "USD"), MarketValue: worth.M(11500, "USD")},
		},
		ValuationCashflows: []worth.ValuationCashflow{
			{SnapshotID: "s1", AccountID: "brokerage", AssetID: worth.CashAssetID,
				TransactedAt: day(15), Amount: worth.M(1000, "USD")},
		},
	}
	require.NoError(t, m.Validate())
	return m
}

func fixtureMatrix(t *testing.T) (*worth.MatrixResult, *worth.Context) {
	t.Helper()
	ax := worth.NewContext(fixtureModel(t), worth.ModelSettings{ActiveStrategyID: "growth"}, time.UTC)
	c, err := worth.NewMatrixResultCache(ax, "", "", nil, nil, true)
	require.NoError(t, err)
	return c.Main(), ax
}

func TestSummaryMarkdown(t *testing.T) {
	mr, ax := fixtureMatrix(t)
	ps := mr.PeriodSummary(ax)
	require.NotNil(t, ps)

	out := SummaryMarkdown(ps, worth.ModifiedDietz, NewLabels(ax))

	assert.Contains(t, out, "Period Summary 2025-03-01 to 2025-03-31")
	assert.Contains(t, out, "By Asset")
	assert.Contains(t, out, "By Account")
	assert.Contains(t, out, "By Strategy")
	assert.Contains(t, out, "Equities")
	assert.Contains(t, out, "Brokerage")
	assert.Contains(t, out, "Growth")
	assert.Contains(t, strings.ToLower(out), "dietz return")
	// worked figures: gain 500 on an adjusted base of 10500
	assert.Contains(t, out, "+500.00")
	assert.Contains(t, out, "+4.76%")
}

func TestSummaryMarkdown_SelectionColumns(t *testing.T) {
	mr, ax := fixtureMatrix(t)
	ps := mr.PeriodSummary(ax)
	require.NotNil(t, ps)
	labels := NewLabels(ax)

	assert.Contains(t, strings.ToLower(SummaryMarkdown(ps, worth.DeltaMarketValue, labels)), "delta")
	assert.Contains(t, strings.ToLower(SummaryMarkdown(ps, worth.DeltaTotalBasis, labels)), "basis delta")
	assert.Contains(t, strings.ToLower(SummaryMarkdown(ps, worth.ModifiedDietz, labels)), "dietz return")
}

func TestHistoryMarkdown(t *testing.T) {
	mr, ax := fixtureMatrix(t)
	out := HistoryMarkdown(mr, ByAsset, NewLabels(ax))

	assert.Contains(t, out, "Value History by asset")
	assert.Contains(t, out, "Equities")
	assert.Contains(t, out, "2025-03-01")
	assert.Contains(t, out, "2025-03-31")
	assert.Contains(t, out, "10000.00")
	assert.Contains(t, out, "11500.00")

	// one row per snapshot
	rows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "| 2025-") {
			rows++
		}
	}
	assert.Equal(t, len(mr.Snapshots), rows)
}

func TestSnapshotsMarkdown(t *testing.T) {
	mr, _ := fixtureMatrix(t)
	out := SnapshotsMarkdown(mr)

	assert.Contains(t, out, "Valuation Snapshots")
	assert.Contains(t, out, "s0")
	assert.Contains(t, out, "s1")
	assert.Contains(t, out, "11500.00")
}

func TestForecastMarkdown(t *testing.T) {
	mr, _ := fixtureMatrix(t)
	fr := worth.NewForecast(mr.TotalPoints())
	out := ForecastMarkdown(fr)

	assert.Contains(t, out, "Forecast")
	assert.Contains(t, out, "value = ")
	assert.Contains(t, out, "Milestones")
	assert.Contains(t, out, "per day")
}

func TestForecastMarkdown_TooFewPoints(t *testing.T) {
	fr := worth.NewForecast(nil)
	out := ForecastMarkdown(fr)
	assert.Contains(t, out, "at least two snapshots")
	assert.NotContains(t, out, "Milestones")
}

func TestPendingMarkdown(t *testing.T) {
	m := fixtureModel(t)
	m.Securities = []worth.Security{
		{ID: "VTI", Title: "Total Market", AssetID: "equities",
			Price: worth.M(200, "USD"), HasPrice: true},
	}
	m.Holdings = []worth.Holding{
		{ID: "h1", AccountID: "brokerage", SecurityID: "VTI",
			ShareCount: worth.Q(60), ShareBasis: worth.M(150, "USD")},
	}
	m.Transactions = []worth.Transaction{
		{ID: "t1", Action: worth.TxnDeposit, AccountID: "brokerage",
			TransactedAt: day(40), Amount: worth.M(500, "USD")},
	}
	require.NoError(t, m.Validate())
	ax := worth.NewContext(m, worth.ModelSettings{}, time.UTC)
	ps := ax.NewPendingSnapshot(day(45), nil)

	out := PendingMarkdown(ps, NewLabels(ax))

	assert.Contains(t, out, "Pending Snapshot")
	assert.Contains(t, out, "Ready to commit.")
	assert.Contains(t, out, "Brokerage")
	assert.Contains(t, out, "Cash Flows")
	assert.Contains(t, out, "+$500.00")
}
