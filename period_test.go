package worth

import (
	"testing"
)

// historySummary builds the full-window summary over the three-snapshot
// history fixture with cash flow tracking on.
func historySummary(t *testing.T) *PeriodSummary {
	t.Helper()
	m := newHistoryModel(t)
	ax := newTestContext(t, m)
	mr, err := buildMatrixResult(ax, "", "", map[string]bool{}, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	ps := mr.PeriodSummary(ax)
	if ps == nil {
		t.Fatal("PeriodSummary() = nil, want a summary over three snapshots")
	}
	return ps
}

func TestPeriodSummary_Total(t *testing.T) {
	ps := historySummary(t)

	total := ps.Total
	if !almostEqual(total.BegMarketValue, 10000) || !almostEqual(total.EndMarketValue, 9500) {
		t.Errorf("total market value = [%v, %v], want [10000, 9500]", total.BegMarketValue, total.EndMarketValue)
	}
	if !almostEqual(total.DeltaMarketValue(), -500) {
		t.Errorf("DeltaMarketValue() = %v, want -500", total.DeltaMarketValue())
	}

	// flows: +1000 at day 15 (weight 0.75) and +500 at day 45 (weight 0.25)
	if !almostEqual(total.Dietz.NetCashflowTotal, 1500) {
		t.Errorf("NetCashflowTotal = %v, want 1500", total.Dietz.NetCashflowTotal)
	}
	if !almostEqual(total.Dietz.AdjustedNetCashflow, 875) {
		t.Errorf("AdjustedNetCashflow = %v, want 875", total.Dietz.AdjustedNetCashflow)
	}
	if !almostEqual(total.Dietz.GainOrLoss(), -2000) {
		t.Errorf("GainOrLoss() = %v, want -2000", total.Dietz.GainOrLoss())
	}
	perf, ok := total.Dietz.Performance()
	if !ok {
		t.Fatal("Performance() should be defined")
	}
	if want := Percent(100 * -2000.0 / 10875.0); !perf.Equal(want) {
		t.Errorf("Performance() = %v, want %v", perf, want)
	}
}

func TestPeriodSummary_Groupings(t *testing.T) {
	ps := historySummary(t)

	t.Run("asset without flows", func(t *testing.T) {
		equities := ps.Assets["equities"]
		if equities == nil {
			t.Fatal("missing equities summary")
		}
		// both deposits landed on the cash asset
		if !almostEqual(equities.Dietz.NetCashflowTotal, 0) {
			t.Errorf("equities NetCashflowTotal = %v, want 0", equities.Dietz.NetCashflowTotal)
		}
		perf, ok := equities.Dietz.Performance()
		if !ok {
			t.Fatal("equities Performance() should be defined")
		}
		if want := Percent(100 * 2000.0 / 7000.0); !perf.Equal(want) {
			t.Errorf("equities Performance() = %v, want %v", perf, want)
		}
	})

	t.Run("account with flow", func(t *testing.T) {
		brokerage := ps.Accounts["brokerage"]
		if !almostEqual(brokerage.Dietz.AdjustedNetCashflow, 750) {
			t.Errorf("brokerage AdjustedNetCashflow = %v, want 750", brokerage.Dietz.AdjustedNetCashflow)
		}
		if !almostEqual(brokerage.Dietz.GainOrLoss(), 1000) {
			t.Errorf("brokerage GainOrLoss() = %v, want 1000", brokerage.Dietz.GainOrLoss())
		}
	})

	t.Run("account sold out during the period", func(t *testing.T) {
		ira := ps.Accounts["ira"]
		if ira == nil {
			t.Fatal("an account present only at the period start must still be summarized")
		}
		if !almostEqual(ira.BegMarketValue, 3000) || !almostEqual(ira.EndMarketValue, 0) {
			t.Errorf("ira market value = [%v, %v], want [3000, 0]", ira.BegMarketValue, ira.EndMarketValue)
		}
	})

	t.Run("strategy via account assignment", func(t *testing.T) {
		growth := ps.Strategies["growth"]
		if !almostEqual(growth.BegMarketValue, 10000) || !almostEqual(growth.EndMarketValue, 9000) {
			t.Errorf("growth market value = [%v, %v], want [10000, 9000]", growth.BegMarketValue, growth.EndMarketValue)
		}
		income := ps.Strategies["income"]
		if !almostEqual(income.EndMarketValue, 500) {
			t.Errorf("income EndMarketValue = %v, want 500", income.EndMarketValue)
		}
	})
}

func TestPeriodSummary_Rates(t *testing.T) {
	ps := historySummary(t)

	perDay, ok := ps.DeltaPerDay()
	if !ok {
		t.Fatal("DeltaPerDay() should be defined")
	}
	if !almostEqual(perDay, -500.0/60) {
		t.Errorf("DeltaPerDay() = %v, want %v", perDay, -500.0/60)
	}

	annual, ok := ps.AnnualizedReturn()
	if !ok {
		t.Fatal("AnnualizedReturn() should be defined")
	}
	// simple return -5% over 60 days, scaled linearly to a 365.25-day year
	if want := Percent(-5 * 365.25 / 60); !annual.Equal(want) {
		t.Errorf("AnnualizedReturn() = %v, want %v", annual, want)
	}
}

func TestPeriodSummary_SingleSnapshotWindow(t *testing.T) {
	m := newTestModel(t)
	commitSnapshotAt(t, m, "s0", day(0), []ValuationPosition{
		{AccountID: "brokerage", AssetID: "equities", TotalBasis: M(6300, "USD"), MarketValue: M(7000, "USD")},
	}, nil)
	ax := newTestContext(t, m)
	mr, err := buildMatrixResult(ax, "", "", map[string]bool{}, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if ps := mr.PeriodSummary(ax); ps != nil {
		t.Errorf("PeriodSummary() = %+v, want nil for a single snapshot", ps)
	}
}

func TestKeySummary_SinglePeriodReturn(t *testing.T) {
	ks := &KeySummary{BegMarketValue: 0, EndMarketValue: 100}
	if _, ok := ks.SinglePeriodReturn(); ok {
		t.Error("SinglePeriodReturn() should be undefined from a zero start")
	}
	ks.BegMarketValue = 400
	r, ok := ks.SinglePeriodReturn()
	if !ok || !r.Equal(Percent(-75)) {
		t.Errorf("SinglePeriodReturn() = %v, %v, want -75%%, true", r, ok)
	}
}
