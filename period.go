package worth

import "slices"

// KeySummary is the period figures for one grouping key (an asset, account,
// or strategy), or for the whole portfolio.
type KeySummary struct {
	BegMarketValue, EndMarketValue float64
	BegTotalBasis, EndTotalBasis   float64
	Dietz                          *Dietz
}

// DeltaMarketValue is the simple value change over the period.
func (ks *KeySummary) DeltaMarketValue() float64 {
	return ks.EndMarketValue - ks.BegMarketValue
}

// DeltaTotalBasis is the basis change over the period.
func (ks *KeySummary) DeltaTotalBasis() float64 {
	return ks.EndTotalBasis - ks.BegTotalBasis
}

// SinglePeriodReturn is the non-Dietz simple return, undefined when the
// period started from zero value.
func (ks *KeySummary) SinglePeriodReturn() (Percent, bool) {
	if ks.BegMarketValue == 0 {
		return 0, false
	}
	return Percent(100 * ks.DeltaMarketValue() / ks.BegMarketValue), true
}

// PeriodSummary aggregates begin/end market value, total basis, and Modified
// Dietz terms per asset, account, and strategy over one interval. It is a
// pure function of its inputs and is never persisted.
type PeriodSummary struct {
	Period Interval

	Assets     map[string]*KeySummary
	Accounts   map[string]*KeySummary
	Strategies map[string]*KeySummary
	Total      *KeySummary
}

// ComputePeriodSummary partitions the boundary positions and the period's
// cash flows by asset, account, and strategy (via each account's assigned
// strategy) and computes the per-key figures.
func ComputePeriodSummary(period Interval,
	begPositions, endPositions []ValuationPosition,
	cashflows []ValuationCashflow,
	accountMap map[string]Account) *PeriodSummary {

	type side int
	const (
		beg side = iota
		end
	)

	ps := &PeriodSummary{
		Period:     period,
		Assets:     map[string]*KeySummary{},
		Accounts:   map[string]*KeySummary{},
		Strategies: map[string]*KeySummary{},
		Total:      &KeySummary{},
	}
	get := func(m map[string]*KeySummary, key string) *KeySummary {
		ks, ok := m[key]
		if !ok {
			ks = &KeySummary{}
			m[key] = ks
		}
		return ks
	}
	add := func(p ValuationPosition, s side, ks *KeySummary) {
		mv, basis := p.MarketValue.AsFloat(), p.TotalBasis.AsFloat()
		if s == beg {
			ks.BegMarketValue += mv
			ks.BegTotalBasis += basis
		} else {
			ks.EndMarketValue += mv
			ks.EndTotalBasis += basis
		}
	}
	accumulate := func(positions []ValuationPosition, s side) {
		for _, p := range positions {
			add(p, s, get(ps.Assets, p.AssetID))
			add(p, s, get(ps.Accounts, p.AccountID))
			if strategyID := accountMap[p.AccountID].StrategyID; strategyID != "" {
				add(p, s, get(ps.Strategies, strategyID))
			}
			add(p, s, ps.Total)
		}
	}
	accumulate(begPositions, beg)
	accumulate(endPositions, end)

	flowsByAsset := map[string][]ValuationCashflow{}
	flowsByAccount := map[string][]ValuationCashflow{}
	flowsByStrategy := map[string][]ValuationCashflow{}
	for _, f := range cashflows {
		flowsByAsset[f.AssetID] = append(flowsByAsset[f.AssetID], f)
		flowsByAccount[f.AccountID] = append(flowsByAccount[f.AccountID], f)
		if strategyID := accountMap[f.AccountID].StrategyID; strategyID != "" {
			flowsByStrategy[strategyID] = append(flowsByStrategy[strategyID], f)
		}
	}
	attach := func(m map[string]*KeySummary, flows map[string][]ValuationCashflow) {
		for key, ks := range m {
			ks.Dietz = NewDietz(period, ks.BegMarketValue, ks.EndMarketValue, flows[key])
		}
	}
	attach(ps.Assets, flowsByAsset)
	attach(ps.Accounts, flowsByAccount)
	attach(ps.Strategies, flowsByStrategy)
	ps.Total.Dietz = NewDietz(period, ps.Total.BegMarketValue, ps.Total.EndMarketValue, cashflows)

	return ps
}

// PeriodSummary derives the summary for the matrix window. It returns nil
// when the window holds fewer than two snapshots: a single observation has
// no period to summarize.
func (mr *MatrixResult) PeriodSummary(ax *Context) *PeriodSummary {
	if len(mr.Snapshots) < 2 {
		return nil
	}
	begSnap := mr.Snapshots[0]
	endSnap := mr.Snapshots[len(mr.Snapshots)-1]
	period := Interval{Start: begSnap.CapturedAt, End: endSnap.CapturedAt}

	keep := func(positions []ValuationPosition) []ValuationPosition {
		res := make([]ValuationPosition, 0, len(positions))
		for _, p := range positions {
			if !mr.excludedAccounts[p.AccountID] {
				res = append(res, p)
			}
		}
		return res
	}
	return ComputePeriodSummary(period,
		keep(ax.Positions(begSnap.ID)),
		keep(ax.Positions(endSnap.ID)),
		mr.PeriodCashflows(),
		ax.AccountMap)
}

// OrderedKeys returns the keys of one grouping map, sorted.
func (ps *PeriodSummary) OrderedKeys(m map[string]*KeySummary) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// DeltaPerDay is the whole-period value change averaged per elapsed day,
// undefined for a zero-length period. Rates are period deltas divided by
// elapsed time, never compounded.
func (ps *PeriodSummary) DeltaPerDay() (float64, bool) {
	days := ps.Period.Days()
	if days <= 0 {
		return 0, false
	}
	return ps.Total.DeltaMarketValue() / days, true
}

// AnnualizedReturn divides the simple period return by the elapsed years
// (365.25-day years), undefined when the period started from zero or has no
// length.
func (ps *PeriodSummary) AnnualizedReturn() (Percent, bool) {
	r, ok := ps.Total.SinglePeriodReturn()
	if !ok {
		return 0, false
	}
	years := ps.Period.Years()
	if years <= 0 {
		return 0, false
	}
	return Percent(float64(r) / years), true
}
