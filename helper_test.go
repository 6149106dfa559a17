package worth

import (
	"math"
	"testing"
	"time"
)

// day returns a timestamp n days after an arbitrary fixed epoch.
func day(n float64) time.Time {
	epoch := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	return epoch.Add(time.Duration(n * 24 * float64(time.Hour)))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// newTestModel builds a small document with two strategies, three accounts,
// two priced securities, and holdings, but no committed snapshots.
func newTestModel(t *testing.T) *BaseModel {
	t.Helper()
	return &BaseModel{
		Strategies: []Strategy{
			{ID: "growth", Title: "Growth"},
			{ID: "income", Title: "Income"},
		},
		Assets: []Asset{
			{ID: "equities", Title: "Equities"},
			{ID: "bonds", Title: "Bonds"},
			{ID: CashAssetID, Title: "Cash"},
		},
		Accounts: []Account{
			{ID: "brokerage", Title: "Brokerage", StrategyID: "growth", IsTrading: true},
			{ID: "ira", Title: "IRA", StrategyID: "growth"},
			{ID: "savings", Title: "Savings", StrategyID: "income"},
		},
		Securities: []Security{
			{ID: "VTI", Title: "Total Market", AssetID: "equities", Price: M(200, "USD"), HasPrice: true},
			{ID: "BND", Title: "Total Bond", AssetID: "bonds", Price: M(80, "USD"), HasPrice: true},
		},
		Holdings: []Holding{
			{ID: "h1", AccountID: "brokerage", SecurityID: "VTI", ShareCount: Q(30), ShareBasis: M(150, "USD")},
			{ID: "h2", AccountID: "brokerage", SecurityID: "VTI", ShareCount: Q(10), ShareBasis: M(180, "USD")},
			{ID: "h3", AccountID: "ira", SecurityID: "BND", ShareCount: Q(25), ShareBasis: M(75, "USD")},
		},
	}
}

// commitSnapshotAt appends a snapshot with explicit positions, bypassing the
// builder, for matrix and summary tests.
func commitSnapshotAt(t *testing.T, m *BaseModel, id string, at time.Time, positions []ValuationPosition, flows []ValuationCashflow) {
	t.Helper()
	m.ValuationSnapshots = append(m.ValuationSnapshots, ValuationSnapshot{ID: id, CapturedAt: at})
	for _, p := range positions {
		p.SnapshotID = id
		m.ValuationPositions = append(m.ValuationPositions, p)
	}
	for _, f := range flows {
		f.SnapshotID = id
		m.ValuationCashflows = append(m.ValuationCashflows, f)
	}
}

// newHistoryModel builds a model with three committed snapshots at day 0,
// 30, and 60 across two accounts and two asset classes, with one deposit in
// each building period.
func newHistoryModel(t *testing.T) *BaseModel {
	t.Helper()
	m := newTestModel(t)
	commitSnapshotAt(t, m, "s0", day(0), []ValuationPosition{
		{AccountID: "brokerage", AssetID: "equities", TotalBasis: M(6300, "USD"), MarketValue: M(7000, "USD")},
		{AccountID: "ira", AssetID: "bonds", TotalBasis: M(1875, "USD"), MarketValue: M(3000, "USD")},
	}, nil)
	commitSnapshotAt(t, m, "s1", day(30), []ValuationPosition{
		{AccountID: "brokerage", AssetID: "equities", TotalBasis: M(6300, "USD"), MarketValue: M(8000, "USD")},
		{AccountID: "ira", AssetID: "bonds", TotalBasis: M(1875, "USD"), MarketValue: M(3100, "USD")},
	}, []ValuationCashflow{
		{AccountID: "brokerage", AssetID: CashAssetID, TransactedAt: day(15), Amount: M(1000, "USD")},
	})
	commitSnapshotAt(t, m, "s2", day(60), []ValuationPosition{
		{AccountID: "brokerage", AssetID: "equities", TotalBasis: M(6300, "USD"), MarketValue: M(9000, "USD")},
		{AccountID: "savings", AssetID: CashAssetID, TotalBasis: M(500, "USD"), MarketValue: M(500, "USD")},
	}, []ValuationCashflow{
		{AccountID: "savings", AssetID: CashAssetID, TransactedAt: day(45), Amount: M(500, "USD")},
	})
	return m
}

func newTestContext(t *testing.T, m *BaseModel) *Context {
	t.Helper()
	return NewContext(m, ModelSettings{ActiveStrategyID: "growth"}, time.UTC)
}
