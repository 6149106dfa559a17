package worth

import (
	"errors"
	"testing"
	"time"
)

func TestBuildPendingSnapshot_Positions(t *testing.T) {
	m := newTestModel(t)
	ax := newTestContext(t, m)
	ps := ax.NewPendingSnapshot(day(0), nil)

	// h1 and h2 are both VTI in brokerage: one aggregated position.
	if got, want := len(ps.Positions), 2; got != want {
		t.Fatalf("len(Positions) = %d, want %d", got, want)
	}
	byPair := map[string]ValuationPosition{}
	for _, p := range ps.Positions {
		byPair[p.AccountID+"/"+p.AssetID] = p
	}

	brokerage := byPair["brokerage/equities"]
	// market value = (30+10) * 200 ; basis = 30*150 + 10*180
	if want := M(8000, "USD"); !brokerage.MarketValue.Equal(want) {
		t.Errorf("brokerage market value = %s, want %s", brokerage.MarketValue, want)
	}
	if want := M(6300, "USD"); !brokerage.TotalBasis.Equal(want) {
		t.Errorf("brokerage basis = %s, want %s", brokerage.TotalBasis, want)
	}

	ira := byPair["ira/bonds"]
	if want := M(2000, "USD"); !ira.MarketValue.Equal(want) {
		t.Errorf("ira market value = %s, want %s", ira.MarketValue, want)
	}
}

func TestBuildPendingSnapshot_Cashflows(t *testing.T) {
	m := newTestModel(t)
	m.Transactions = []Transaction{
		{ID: "t1", Action: TxnDeposit, AccountID: "brokerage", TransactedAt: day(-10), Amount: M(1000, "USD")},
		{ID: "t2", Action: TxnWithdrawal, AccountID: "savings", TransactedAt: day(-5), Amount: M(200, "USD")},
		{ID: "t3", Action: TxnBuy, AccountID: "brokerage", SecurityID: "VTI", TransactedAt: day(-3), Amount: M(500, "USD")},
		{ID: "t4", Action: TxnIncome, AccountID: "ira", SecurityID: "BND", TransactedAt: day(-1), Amount: M(50, "USD")},
	}
	ax := newTestContext(t, m)

	t.Run("all included", func(t *testing.T) {
		ps := ax.NewPendingSnapshot(day(0), nil)
		// the in-kind buy contributes no flow
		if got, want := len(ps.Cashflows), 3; got != want {
			t.Fatalf("len(Cashflows) = %d, want %d", got, want)
		}
		if want := M(850, "USD"); !ps.NetCashflowTotal().Equal(want) {
			t.Errorf("NetCashflowTotal() = %s, want %s", ps.NetCashflowTotal(), want)
		}
		// income on a security inherits the security's asset class
		var income ValuationCashflow
		for _, c := range ps.Cashflows {
			if c.AccountID == "ira" {
				income = c
			}
		}
		if income.AssetID != "bonds" {
			t.Errorf("income asset = %q, want %q", income.AssetID, "bonds")
		}
		if got, want := len(ps.TransactionIDs), 4; got != want {
			t.Errorf("len(TransactionIDs) = %d, want %d (all non-excluded are consumed)", got, want)
		}
	})

	t.Run("user exclusion", func(t *testing.T) {
		ps := ax.NewPendingSnapshot(day(0), map[string]bool{"t1": true})
		if got, want := len(ps.Cashflows), 2; got != want {
			t.Fatalf("len(Cashflows) = %d, want %d", got, want)
		}
		if want := M(-150, "USD"); !ps.NetCashflowTotal().Equal(want) {
			t.Errorf("NetCashflowTotal() = %s, want %s", ps.NetCashflowTotal(), want)
		}
	})
}

func TestPendingSnapshot_CanCommit(t *testing.T) {
	m := newTestModel(t)
	commitSnapshotAt(t, m, "s0", day(0), []ValuationPosition{
		{AccountID: "brokerage", AssetID: "equities", TotalBasis: M(9000, "USD"), MarketValue: M(10000, "USD")},
	}, nil)

	t.Run("ready", func(t *testing.T) {
		ax := newTestContext(t, m)
		ps := ax.NewPendingSnapshot(day(30), nil)
		if d := ps.CanCommit(day(30)); d != nil {
			t.Errorf("CanCommit() = %+v, want nil", d)
		}
	})

	t.Run("stale timestamp", func(t *testing.T) {
		ax := newTestContext(t, m)
		ps := ax.NewPendingSnapshot(day(30), nil)
		for _, at := range []time.Time{day(-1), day(0)} {
			d := ps.CanCommit(at)
			if d == nil || !d.IsError {
				t.Errorf("CanCommit(%s) = %+v, want blocking error", at, d)
			}
		}
	})

	t.Run("missing price", func(t *testing.T) {
		m2 := newTestModel(t)
		for i := range m2.Securities {
			if m2.Securities[i].ID == "VTI" {
				m2.Securities[i].HasPrice = false
			}
		}
		ax := newTestContext(t, m2)
		ps := ax.NewPendingSnapshot(day(30), nil)
		d := ps.CanCommit(day(30))
		if d == nil || !d.IsError {
			t.Fatalf("CanCommit() = %+v, want blocking error", d)
		}
		if got := ps.MissingPriceSecurities(); len(got) != 1 || got[0] != "VTI" {
			t.Errorf("MissingPriceSecurities() = %v, want [VTI]", got)
		}
	})

	t.Run("no positions", func(t *testing.T) {
		m2 := newTestModel(t)
		m2.Holdings = nil
		ax := newTestContext(t, m2)
		ps := ax.NewPendingSnapshot(day(30), nil)
		d := ps.CanCommit(day(30))
		if d == nil || !d.IsError {
			t.Errorf("CanCommit() = %+v, want blocking error", d)
		}
	})

	t.Run("late cash flow is advisory", func(t *testing.T) {
		m2 := newTestModel(t)
		m2.Transactions = []Transaction{
			{ID: "t1", Action: TxnDeposit, AccountID: "brokerage", TransactedAt: day(40), Amount: M(100, "USD")},
		}
		ax := newTestContext(t, m2)
		ps := ax.NewPendingSnapshot(day(30), nil)
		d := ps.CanCommit(day(30))
		if d == nil || d.IsError {
			t.Errorf("CanCommit() = %+v, want non-blocking advisory", d)
		}
	})
}

func TestCommitPendingSnapshot_RoundTrip(t *testing.T) {
	m := newTestModel(t)
	m.Transactions = []Transaction{
		{ID: "t1", Action: TxnDeposit, AccountID: "brokerage", TransactedAt: day(15), Amount: M(1000, "USD")},
	}
	settings := ModelSettings{}
	ds := &DisplaySettings{}

	ax := NewContext(m, settings, time.UTC)
	ps := ax.NewPendingSnapshot(day(30), ds.ExcludedTxnIDs())
	committed, err := m.CommitPendingSnapshot(ps)
	if err != nil {
		t.Fatalf("CommitPendingSnapshot() error = %v", err)
	}
	ds.RetireTransactions(ps.TransactionIDs)

	if got := len(m.SnapshotPositions(committed.ID)); got != 2 {
		t.Fatalf("committed positions = %d, want 2", got)
	}
	if got := len(m.SnapshotCashflows(committed.ID)); got != 1 {
		t.Fatalf("committed cashflows = %d, want 1", got)
	}

	// Rebuilding from the same holdings must produce no differing position
	// and no cash flow candidate (the deposit was consumed).
	ax2 := NewContext(m, settings, time.UTC)
	next := ax2.NewPendingSnapshot(day(60), ds.ExcludedTxnIDs())
	if got := len(next.Cashflows); got != 0 {
		t.Errorf("next pending cashflows = %d, want 0 (consumed transactions excluded)", got)
	}
	for _, d := range next.Diff() {
		if d.Changed() {
			t.Errorf("unexpected position change after no-op rebuild: %+v", d)
		}
	}
}

func TestCommitPendingSnapshot_Atomicity(t *testing.T) {
	m := newTestModel(t)
	commitSnapshotAt(t, m, "s0", day(0), []ValuationPosition{
		{AccountID: "brokerage", AssetID: "equities", TotalBasis: M(9000, "USD"), MarketValue: M(10000, "USD")},
	}, nil)
	snapshots, positions, cashflows := len(m.ValuationSnapshots), len(m.ValuationPositions), len(m.ValuationCashflows)

	ax := newTestContext(t, m)
	ps := ax.NewPendingSnapshot(day(30), nil)
	ps.Snapshot.ID = "s0" // collide with the committed snapshot

	if _, err := m.CommitPendingSnapshot(ps); !errors.Is(err, ErrDuplicateSnapshot) {
		t.Fatalf("CommitPendingSnapshot() error = %v, want ErrDuplicateSnapshot", err)
	}
	if len(m.ValuationSnapshots) != snapshots || len(m.ValuationPositions) != positions || len(m.ValuationCashflows) != cashflows {
		t.Error("failed commit must leave the model unchanged")
	}

	// same capture time as an existing snapshot is also rejected
	ps2 := ax.NewPendingSnapshot(day(30), nil)
	ps2.Snapshot.CapturedAt = day(0)
	if _, err := m.CommitPendingSnapshot(ps2); err == nil {
		t.Error("CommitPendingSnapshot() with duplicate timestamp should fail")
	}
	if len(m.ValuationSnapshots) != snapshots {
		t.Error("failed commit must leave the model unchanged")
	}
}

func TestDeleteSnapshot(t *testing.T) {
	m := newHistoryModel(t)
	if !m.DeleteSnapshot("s1") {
		t.Fatal("DeleteSnapshot(s1) = false, want true")
	}
	if m.DeleteSnapshot("s1") {
		t.Error("DeleteSnapshot(s1) twice should report false")
	}
	for _, p := range m.ValuationPositions {
		if p.SnapshotID == "s1" {
			t.Error("positions of a deleted snapshot must be removed")
		}
	}
	for _, c := range m.ValuationCashflows {
		if c.SnapshotID == "s1" {
			t.Error("cashflows of a deleted snapshot must be removed")
		}
	}
}
