package worth

import (
	"slices"
	"time"
)

// MatrixResult is the cached multi-dimensional time series of market values
// over an ordered window of snapshots: one array per asset, account, and
// strategy key, every array index-aligned to the snapshot list. Missing
// entries are 0, not omitted, so all arrays share the window's length.
type MatrixResult struct {
	Snapshots []ValuationSnapshot

	assetSeries    map[string][]float64
	accountSeries  map[string][]float64
	strategySeries map[string][]float64
	totalSeries    []float64

	orderedAssetIDs []string

	// cash flows per snapshot in range, retained only when the build tracks
	// performance (Dietz mode)
	flows            map[string][]ValuationCashflow
	trackPerformance bool
	excludedAccounts map[string]bool
}

// buildMatrixResult aggregates position market values for every snapshot
// within [begID, endID] (empty IDs default to the full range), grouped by
// asset, account, and strategy, excluding the accounts marked true in
// excludedAccounts.
func buildMatrixResult(ax *Context, begID, endID string, excludedAccounts map[string]bool,
	orderedAssetIDs []string, trackPerformance bool) (*MatrixResult, error) {

	window, err := ax.SnapshotsInRange(begID, endID)
	if err != nil {
		return nil, err
	}

	mr := &MatrixResult{
		Snapshots:        window,
		assetSeries:      make(map[string][]float64),
		accountSeries:    make(map[string][]float64),
		strategySeries:   make(map[string][]float64),
		totalSeries:      make([]float64, len(window)),
		orderedAssetIDs:  slices.Clone(orderedAssetIDs),
		trackPerformance: trackPerformance,
		excludedAccounts: excludedAccounts,
	}
	if trackPerformance {
		mr.flows = make(map[string][]ValuationCashflow, len(window))
	}

	series := func(m map[string][]float64, key string) []float64 {
		s, ok := m[key]
		if !ok {
			s = make([]float64, len(window))
			m[key] = s
		}
		return s
	}

	for i, snap := range window {
		for _, p := range ax.Positions(snap.ID) {
			if excludedAccounts[p.AccountID] {
				continue
			}
			mv := p.MarketValue.AsFloat()
			series(mr.assetSeries, p.AssetID)[i] += mv
			series(mr.accountSeries, p.AccountID)[i] += mv
			if strategyID := ax.StrategyOf(p.AccountID); strategyID != "" {
				series(mr.strategySeries, strategyID)[i] += mv
			}
			mr.totalSeries[i] += mv
		}
		if trackPerformance {
			var kept []ValuationCashflow
			for _, c := range ax.Cashflows(snap.ID) {
				if excludedAccounts[c.AccountID] {
					continue
				}
				kept = append(kept, c)
			}
			mr.flows[snap.ID] = kept
		}
	}
	return mr, nil
}

// AssetSeries returns the market value series for one asset key, aligned to
// Snapshots.
func (mr *MatrixResult) AssetSeries(assetID string) []float64 { return mr.assetSeries[assetID] }

// AccountSeries returns the market value series for one account key.
func (mr *MatrixResult) AccountSeries(accountID string) []float64 {
	return mr.accountSeries[accountID]
}

// StrategySeries returns the market value series for one strategy key.
func (mr *MatrixResult) StrategySeries(strategyID string) []float64 {
	return mr.strategySeries[strategyID]
}

// TotalSeries returns the combined market value per snapshot.
func (mr *MatrixResult) TotalSeries() []float64 { return mr.totalSeries }

// OrderedAssetIDs returns the asset keys present in the window, user order
// first, then any remaining keys sorted.
func (mr *MatrixResult) OrderedAssetIDs() []string {
	return orderedKeys(mr.assetSeries, mr.orderedAssetIDs)
}

// OrderedAccountIDs returns the account keys present in the window, sorted.
func (mr *MatrixResult) OrderedAccountIDs() []string {
	return orderedKeys(mr.accountSeries, nil)
}

// OrderedStrategyIDs returns the strategy keys present in the window, sorted.
func (mr *MatrixResult) OrderedStrategyIDs() []string {
	return orderedKeys(mr.strategySeries, nil)
}

func orderedKeys(m map[string][]float64, preferred []string) []string {
	res := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range preferred {
		if _, ok := m[k]; ok && !seen[k] {
			res = append(res, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(res, rest...)
}

// AssetExtent returns the minimum and maximum value across all asset series.
func (mr *MatrixResult) AssetExtent() (lo, hi float64, ok bool) {
	return extent(mr.assetSeries)
}

// AccountExtent returns the minimum and maximum value across all account
// series.
func (mr *MatrixResult) AccountExtent() (lo, hi float64, ok bool) {
	return extent(mr.accountSeries)
}

// StrategyExtent returns the minimum and maximum value across all strategy
// series.
func (mr *MatrixResult) StrategyExtent() (lo, hi float64, ok bool) {
	return extent(mr.strategySeries)
}

func extent(m map[string][]float64) (lo, hi float64, ok bool) {
	for _, s := range m {
		for _, v := range s {
			if !ok {
				lo, hi, ok = v, v, true
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi, ok
}

// Begin and End return the window boundary snapshots.
func (mr *MatrixResult) Begin() (ValuationSnapshot, bool) {
	if len(mr.Snapshots) == 0 {
		return ValuationSnapshot{}, false
	}
	return mr.Snapshots[0], true
}

func (mr *MatrixResult) End() (ValuationSnapshot, bool) {
	if len(mr.Snapshots) == 0 {
		return ValuationSnapshot{}, false
	}
	return mr.Snapshots[len(mr.Snapshots)-1], true
}

// PeriodCashflows returns the cash flows of the window's period: those
// attached to every snapshot after the first one (a snapshot's flows cover
// the period that produced it). Nil unless the build tracked performance.
func (mr *MatrixResult) PeriodCashflows() []ValuationCashflow {
	if !mr.trackPerformance || len(mr.Snapshots) < 2 {
		return nil
	}
	var res []ValuationCashflow
	for _, snap := range mr.Snapshots[1:] {
		res = append(res, mr.flows[snap.ID]...)
	}
	return res
}

// TimePoint is one observation of a market-value series.
type TimePoint struct {
	At    time.Time
	Value float64
}

// TotalPoints returns the combined market value as dated points, the input
// of the forecast engine.
func (mr *MatrixResult) TotalPoints() []TimePoint {
	res := make([]TimePoint, len(mr.Snapshots))
	for i, s := range mr.Snapshots {
		res[i] = TimePoint{At: s.CapturedAt, Value: mr.totalSeries[i]}
	}
	return res
}

// ResampledTotal returns the combined series resampled to n uniformly spaced
// points over the window's time span.
func (mr *MatrixResult) ResampledTotal(n int) []TimePoint {
	return Resample(mr.TotalPoints(), n)
}

// ResampledAssetSeries resamples one asset series to n uniform points.
func (mr *MatrixResult) ResampledAssetSeries(assetID string, n int) []TimePoint {
	return Resample(mr.points(mr.assetSeries[assetID]), n)
}

func (mr *MatrixResult) points(series []float64) []TimePoint {
	if series == nil {
		return nil
	}
	res := make([]TimePoint, len(mr.Snapshots))
	for i, s := range mr.Snapshots {
		res[i] = TimePoint{At: s.CapturedAt, Value: series[i]}
	}
	return res
}
