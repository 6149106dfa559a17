package worth

import (
	"fmt"
	"slices"
	"time"
)

// Context is an immutable view of the document taken at a point in time. All
// derived computations (matrix, summaries, pending snapshot) read the context
// rather than the live model, so a mutation of the model is never visible
// mid-computation: mutate, then build a fresh context.
type Context struct {
	Settings  ModelSettings
	Timestamp time.Time
	TimeZone  *time.Location

	AccountMap  map[string]Account
	AssetMap    map[string]Asset
	StrategyMap map[string]Strategy
	SecurityMap map[string]Security

	Holdings     []Holding
	Transactions []Transaction

	snapshots []ValuationSnapshot // ordered by CapturedAt
	positions map[string][]ValuationPosition
	cashflows map[string][]ValuationCashflow
}

// NewContext captures the model into an immutable context. The slices are
// copied so later model mutation cannot leak into an in-flight computation.
func NewContext(m *BaseModel, settings ModelSettings, tz *time.Location) *Context {
	if tz == nil {
		tz = time.Local
	}
	ax := &Context{
		Settings:     settings,
		Timestamp:    time.Now(),
		TimeZone:     tz,
		AccountMap:   m.AccountMap(),
		AssetMap:     m.AssetMap(),
		StrategyMap:  m.StrategyMap(),
		SecurityMap:  m.SecurityMap(),
		Holdings:     slices.Clone(m.Holdings),
		Transactions: slices.Clone(m.Transactions),
		snapshots:    m.orderedSnapshots(),
		positions:    make(map[string][]ValuationPosition, len(m.ValuationSnapshots)),
		cashflows:    make(map[string][]ValuationCashflow, len(m.ValuationSnapshots)),
	}
	for _, p := range m.ValuationPositions {
		ax.positions[p.SnapshotID] = append(ax.positions[p.SnapshotID], p)
	}
	for _, c := range m.ValuationCashflows {
		ax.cashflows[c.SnapshotID] = append(ax.cashflows[c.SnapshotID], c)
	}
	return ax
}

// Snapshots returns all committed snapshots, ordered by capture time.
func (ax *Context) Snapshots() []ValuationSnapshot { return ax.snapshots }

// FirstSnapshot returns the oldest committed snapshot.
func (ax *Context) FirstSnapshot() (ValuationSnapshot, bool) {
	if len(ax.snapshots) == 0 {
		return ValuationSnapshot{}, false
	}
	return ax.snapshots[0], true
}

// LastSnapshot returns the most recent committed snapshot.
func (ax *Context) LastSnapshot() (ValuationSnapshot, bool) {
	if len(ax.snapshots) == 0 {
		return ValuationSnapshot{}, false
	}
	return ax.snapshots[len(ax.snapshots)-1], true
}

// Snapshot resolves a snapshot by ID.
func (ax *Context) Snapshot(id string) (ValuationSnapshot, bool) {
	for _, s := range ax.snapshots {
		if s.ID == id {
			return s, true
		}
	}
	return ValuationSnapshot{}, false
}

// Positions returns the positions of one snapshot.
func (ax *Context) Positions(snapshotID string) []ValuationPosition {
	return ax.positions[snapshotID]
}

// Cashflows returns the cash flows of one snapshot.
func (ax *Context) Cashflows(snapshotID string) []ValuationCashflow {
	return ax.cashflows[snapshotID]
}

// LastSnapshotPositions returns the positions of the most recent snapshot.
func (ax *Context) LastSnapshotPositions() []ValuationPosition {
	last, ok := ax.LastSnapshot()
	if !ok {
		return nil
	}
	return ax.positions[last.ID]
}

// LastSnapshotCashflows returns the cash flows of the most recent snapshot.
func (ax *Context) LastSnapshotCashflows() []ValuationCashflow {
	last, ok := ax.LastSnapshot()
	if !ok {
		return nil
	}
	return ax.cashflows[last.ID]
}

// SnapshotsInRange returns the ordered sub-sequence of snapshots whose
// capture time lies within [beg, end]. Empty IDs default to the first and
// last available snapshot respectively.
func (ax *Context) SnapshotsInRange(begID, endID string) ([]ValuationSnapshot, error) {
	if len(ax.snapshots) == 0 {
		return nil, nil
	}
	beg := ax.snapshots[0]
	if begID != "" {
		var ok bool
		if beg, ok = ax.Snapshot(begID); !ok {
			return nil, fmt.Errorf("unknown snapshot %q", begID)
		}
	}
	end := ax.snapshots[len(ax.snapshots)-1]
	if endID != "" {
		var ok bool
		if end, ok = ax.Snapshot(endID); !ok {
			return nil, fmt.Errorf("unknown snapshot %q", endID)
		}
	}
	if end.CapturedAt.Before(beg.CapturedAt) {
		beg, end = end, beg
	}
	var res []ValuationSnapshot
	for _, s := range ax.snapshots {
		if s.CapturedAt.Before(beg.CapturedAt) || s.CapturedAt.After(end.CapturedAt) {
			continue
		}
		res = append(res, s)
	}
	return res, nil
}

// StrategyOf resolves the strategy of an account, or "" when the account is
// unassigned.
func (ax *Context) StrategyOf(accountID string) string {
	return ax.AccountMap[accountID].StrategyID
}
