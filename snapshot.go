package worth

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrDuplicateSnapshot is returned when a snapshot key collides with an
	// existing committed snapshot.
	ErrDuplicateSnapshot = errors.New("duplicate snapshot key")
	// ErrStaleTimestamp is returned when a proposed capture time does not
	// strictly follow the last committed snapshot.
	ErrStaleTimestamp = errors.New("capture time not after previous snapshot")
	// ErrNoPositions is returned when committing a snapshot that values
	// nothing.
	ErrNoPositions = errors.New("pending snapshot has no positions")
	// ErrMissingPrice is returned when an included holding has no resolvable
	// price.
	ErrMissingPrice = errors.New("holding without resolvable price")
)

// ValuationSnapshot is an immutable point-in-time marker. Snapshots are
// totally ordered by CapturedAt; no two snapshots share a timestamp.
type ValuationSnapshot struct {
	ID         string    `json:"snapshotID"`
	CapturedAt time.Time `json:"capturedAt"`
}

// ValuationPosition is the market value and total basis of one asset class
// within one account, as of one snapshot. Positions of a snapshot partition
// all represented (account, asset) pairs.
type ValuationPosition struct {
	SnapshotID  string `json:"snapshotID"`
	AccountID   string `json:"accountID"`
	AssetID     string `json:"assetID"`
	TotalBasis  Money  `json:"totalBasis"`
	MarketValue Money  `json:"marketValue"`
}

// ValuationCashflow is a signed dated amount (positive = inflow) attached to
// the snapshot whose building period produced it.
type ValuationCashflow struct {
	SnapshotID   string    `json:"snapshotID"`
	AccountID    string    `json:"accountID"`
	AssetID      string    `json:"assetID"`
	TransactedAt time.Time `json:"transactedAt"`
	Amount       Money     `json:"amount"`
}

// orderedSnapshots returns the committed snapshots sorted by capture time.
func (m *BaseModel) orderedSnapshots() []ValuationSnapshot {
	res := slices.Clone(m.ValuationSnapshots)
	slices.SortFunc(res, func(a, b ValuationSnapshot) int {
		return a.CapturedAt.Compare(b.CapturedAt)
	})
	return res
}

// LastSnapshot returns the most recent committed snapshot, if any.
func (m *BaseModel) LastSnapshot() (ValuationSnapshot, bool) {
	var last ValuationSnapshot
	found := false
	for _, s := range m.ValuationSnapshots {
		if !found || s.CapturedAt.After(last.CapturedAt) {
			last, found = s, true
		}
	}
	return last, found
}

// SnapshotPositions returns the positions belonging to one snapshot.
func (m *BaseModel) SnapshotPositions(snapshotID string) []ValuationPosition {
	var res []ValuationPosition
	for _, p := range m.ValuationPositions {
		if p.SnapshotID == snapshotID {
			res = append(res, p)
		}
	}
	return res
}

// SnapshotCashflows returns the cash flows belonging to one snapshot.
func (m *BaseModel) SnapshotCashflows(snapshotID string) []ValuationCashflow {
	var res []ValuationCashflow
	for _, c := range m.ValuationCashflows {
		if c.SnapshotID == snapshotID {
			res = append(res, c)
		}
	}
	return res
}

// CommitPendingSnapshot appends the pending snapshot with its positions and
// cash flows to the model. The commit is atomic: every validation runs before
// the first append, so an error leaves the model unchanged. On success it
// returns the committed snapshot.
func (m *BaseModel) CommitPendingSnapshot(ps *PendingSnapshot) (ValuationSnapshot, error) {
	if ps == nil {
		return ValuationSnapshot{}, errors.New("nil pending snapshot")
	}
	if d := ps.CanCommit(ps.Snapshot.CapturedAt); d != nil && d.IsError {
		return ValuationSnapshot{}, fmt.Errorf("cannot commit: %s", d.Message)
	}
	for _, s := range m.ValuationSnapshots {
		if s.ID == ps.Snapshot.ID {
			return ValuationSnapshot{}, fmt.Errorf("%w: %q", ErrDuplicateSnapshot, ps.Snapshot.ID)
		}
		if s.CapturedAt.Equal(ps.Snapshot.CapturedAt) {
			return ValuationSnapshot{}, fmt.Errorf("%w: another snapshot captured at %s",
				ErrDuplicateSnapshot, ps.Snapshot.CapturedAt)
		}
	}

	m.ValuationSnapshots = append(m.ValuationSnapshots, ps.Snapshot)
	for _, p := range ps.Positions {
		p.SnapshotID = ps.Snapshot.ID
		m.ValuationPositions = append(m.ValuationPositions, p)
	}
	for _, c := range ps.Cashflows {
		c.SnapshotID = ps.Snapshot.ID
		m.ValuationCashflows = append(m.ValuationCashflows, c)
	}
	return ps.Snapshot, nil
}

// DeleteSnapshot removes a snapshot and every position and cash flow that
// belongs to it. Deleting committed snapshots is a user-editable escape
// hatch, not part of the normal lifecycle.
func (m *BaseModel) DeleteSnapshot(snapshotID string) bool {
	n := len(m.ValuationSnapshots)
	m.ValuationSnapshots = slices.DeleteFunc(m.ValuationSnapshots, func(s ValuationSnapshot) bool {
		return s.ID == snapshotID
	})
	if len(m.ValuationSnapshots) == n {
		return false
	}
	m.ValuationPositions = slices.DeleteFunc(m.ValuationPositions, func(p ValuationPosition) bool {
		return p.SnapshotID == snapshotID
	})
	m.ValuationCashflows = slices.DeleteFunc(m.ValuationCashflows, func(c ValuationCashflow) bool {
		return c.SnapshotID == snapshotID
	})
	return true
}
