package worth

import "time"

// PeriodSummarySelection selects which figure the period summary tables lead
// with.
type PeriodSummarySelection int

const (
	DeltaMarketValue PeriodSummarySelection = iota
	DeltaTotalBasis
	ModifiedDietz
)

// IsDietz reports whether the selection requires cash flow tracking.
func (s PeriodSummarySelection) IsDietz() bool { return s == ModifiedDietz }

func (s PeriodSummarySelection) String() string {
	switch s {
	case DeltaMarketValue:
		return "delta"
	case DeltaTotalBasis:
		return "basis"
	case ModifiedDietz:
		return "dietz"
	default:
		return "delta"
	}
}

// ModelSettings are persisted settings that require a context rebuild when
// they change.
type ModelSettings struct {
	ActiveStrategyID string `json:"activeStrategyID,omitempty"`
}

// DisplaySettings drive which derived results are computed. Any change here
// triggers a wholesale rebuild of the matrix cache and the pending snapshot.
type DisplaySettings struct {
	// Snapshot range for returns; empty IDs default to the full range.
	BegSnapshotID string `json:"begSnapshotID,omitempty"`
	EndSnapshotID string `json:"endSnapshotID,omitempty"`

	// Accounts excluded from matrix aggregation (true = excluded).
	ExcludedAccountMap map[string]bool `json:"excludedAccountMap,omitempty"`

	// Display order for asset series.
	OrderedAssetIDs []string `json:"orderedAssetIDs,omitempty"`

	// Transactions excluded from the next pending snapshot (true = excluded).
	// After a commit, the consumed transactions become this map, so they do
	// not reappear as cash flow candidates.
	PendingExcludedTxnMap map[string]bool `json:"pendingExcludedTxnMap,omitempty"`

	// Proposed timestamp for the next snapshot; zero means "now".
	BuilderCapturedAt time.Time `json:"builderCapturedAt,omitzero"`

	PeriodSummarySelection PeriodSummarySelection `json:"periodSummarySelection,omitempty"`
}

// ExcludedTxnIDs returns the IDs currently excluded from the builder.
func (ds *DisplaySettings) ExcludedTxnIDs() map[string]bool {
	res := make(map[string]bool, len(ds.PendingExcludedTxnMap))
	for k, v := range ds.PendingExcludedTxnMap {
		if v {
			res[k] = true
		}
	}
	return res
}

// RetireTransactions replaces the exclusion map with the given consumed
// transaction IDs. Called after a successful commit.
func (ds *DisplaySettings) RetireTransactions(ids []string) {
	ds.PendingExcludedTxnMap = make(map[string]bool, len(ids))
	for _, id := range ids {
		ds.PendingExcludedTxnMap[id] = true
	}
}
