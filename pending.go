package worth

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// CommitDiagnostic is a live readiness check result. A nil diagnostic means
// the pending snapshot is ready to commit; IsError false marks an advisory
// that does not block the commit.
type CommitDiagnostic struct {
	Message string
	IsError bool
}

// PositionDelta is the difference for one (account, asset) pair between the
// previous snapshot and the pending one.
type PositionDelta struct {
	AccountID, AssetID          string
	PrevMarketValue, MarketValue Money
	PrevTotalBasis, TotalBasis   Money
}

// Changed reports whether the pair actually moved.
func (d PositionDelta) Changed() bool {
	return !d.PrevMarketValue.Equal(d.MarketValue) || !d.PrevTotalBasis.Equal(d.TotalBasis)
}

// PendingSnapshot is a transient, uncommitted snapshot candidate. It is
// recomputed from scratch whenever holdings, transactions, exclusions, or
// the proposed timestamp change; committing it moves its contents into the
// model and destroys the candidate.
type PendingSnapshot struct {
	Snapshot  ValuationSnapshot
	Positions []ValuationPosition
	Cashflows []ValuationCashflow

	// TransactionIDs are the non-excluded transactions consumed by this
	// candidate. After a commit they become the new default exclusion set.
	TransactionIDs []string

	Previous          *ValuationSnapshot
	PreviousPositions []ValuationPosition
	PreviousCashflows []ValuationCashflow

	// securities that were held but had no resolvable price
	missingPrices []string
}

// BuildPendingSnapshot computes the proposed next snapshot.
//
// Positions aggregate all holdings by (account, asset of security), summing
// cost basis and market value. A price lookup failure is recorded as a
// missing-price condition; the market value contribution is absent, never
// zero. Cash flows are derived from the non-excluded cash-movement
// transactions; in-kind trades contribute no net flow.
func BuildPendingSnapshot(
	capturedAt time.Time,
	holdings []Holding,
	transactions []Transaction,
	previous *ValuationSnapshot,
	previousPositions []ValuationPosition,
	previousCashflows []ValuationCashflow,
	userExcludedTxnIDs map[string]bool,
	accountMap map[string]Account,
	assetMap map[string]Asset,
	securityMap map[string]Security,
) *PendingSnapshot {
	ps := &PendingSnapshot{
		Snapshot:          ValuationSnapshot{ID: uuid.NewString(), CapturedAt: capturedAt},
		Previous:          previous,
		PreviousPositions: previousPositions,
		PreviousCashflows: previousCashflows,
	}

	type pairKey struct{ accountID, assetID string }
	sums := make(map[pairKey]*ValuationPosition)
	var order []pairKey
	missing := make(map[string]bool)

	for _, h := range holdings {
		sec, ok := securityMap[h.SecurityID]
		if !ok || !sec.HasPrice {
			missing[h.SecurityID] = true
			continue
		}
		k := pairKey{h.AccountID, sec.AssetID}
		pos, ok := sums[k]
		if !ok {
			pos = &ValuationPosition{AccountID: h.AccountID, AssetID: sec.AssetID}
			sums[k] = pos
			order = append(order, k)
		}
		pos.TotalBasis = pos.TotalBasis.Add(h.CostBasis())
		pos.MarketValue = pos.MarketValue.Add(sec.Price.Mul(h.ShareCount))
	}
	for _, k := range order {
		ps.Positions = append(ps.Positions, *sums[k])
	}
	for id := range missing {
		ps.missingPrices = append(ps.missingPrices, id)
	}
	slices.Sort(ps.missingPrices)

	for _, t := range transactions {
		if userExcludedTxnIDs[t.ID] {
			continue
		}
		ps.TransactionIDs = append(ps.TransactionIDs, t.ID)
		amount, ok := t.SignedAmount()
		if !ok {
			continue // trades net to zero across the portfolio boundary
		}
		assetID := CashAssetID
		if t.SecurityID != "" {
			if sec, ok := securityMap[t.SecurityID]; ok {
				assetID = sec.AssetID
			}
		}
		ps.Cashflows = append(ps.Cashflows, ValuationCashflow{
			AccountID:    t.AccountID,
			AssetID:      assetID,
			TransactedAt: t.TransactedAt,
			Amount:       amount,
		})
	}

	return ps
}

// MissingPriceSecurities lists the securities that blocked valuation.
func (ps *PendingSnapshot) MissingPriceSecurities() []string {
	return slices.Clone(ps.missingPrices)
}

// CanCommit evaluates whether the candidate could be committed with the given
// capture time. It is a cheap pure check, safe to call on every interaction.
// A nil result means ready.
func (ps *PendingSnapshot) CanCommit(nuCapturedAt time.Time) *CommitDiagnostic {
	if ps.Previous != nil && !nuCapturedAt.After(ps.Previous.CapturedAt) {
		return &CommitDiagnostic{
			Message: fmt.Sprintf("capture time %s does not follow the previous snapshot (%s)",
				nuCapturedAt.Format(time.RFC3339), ps.Previous.CapturedAt.Format(time.RFC3339)),
			IsError: true,
		}
	}
	if len(ps.missingPrices) > 0 {
		return &CommitDiagnostic{
			Message: fmt.Sprintf("no resolvable price for %v", ps.missingPrices),
			IsError: true,
		}
	}
	if len(ps.Positions) == 0 {
		return &CommitDiagnostic{Message: "no positions to value", IsError: true}
	}
	late := 0
	for _, c := range ps.Cashflows {
		if c.TransactedAt.After(nuCapturedAt) {
			late++
		}
	}
	if late > 0 {
		return &CommitDiagnostic{
			Message: fmt.Sprintf("%d cash flow(s) dated after the proposed capture time", late),
			IsError: false,
		}
	}
	return nil
}

// Diff compares the pending positions against the previous snapshot's,
// pairing them by (account, asset). Pairs absent on one side appear with
// zero values on that side.
func (ps *PendingSnapshot) Diff() []PositionDelta {
	type pairKey struct{ accountID, assetID string }
	deltas := make(map[pairKey]*PositionDelta)
	var order []pairKey

	get := func(k pairKey) *PositionDelta {
		d, ok := deltas[k]
		if !ok {
			d = &PositionDelta{AccountID: k.accountID, AssetID: k.assetID}
			deltas[k] = d
			order = append(order, k)
		}
		return d
	}
	for _, p := range ps.PreviousPositions {
		d := get(pairKey{p.AccountID, p.AssetID})
		d.PrevMarketValue = p.MarketValue
		d.PrevTotalBasis = p.TotalBasis
	}
	for _, p := range ps.Positions {
		d := get(pairKey{p.AccountID, p.AssetID})
		d.MarketValue = p.MarketValue
		d.TotalBasis = p.TotalBasis
	}

	res := make([]PositionDelta, 0, len(order))
	for _, k := range order {
		res = append(res, *deltas[k])
	}
	return res
}

// MarketValueTotal sums the market value of all pending positions.
func (ps *PendingSnapshot) MarketValueTotal() Money {
	var total Money
	for _, p := range ps.Positions {
		total = total.Add(p.MarketValue)
	}
	return total
}

// TotalBasisTotal sums the total basis of all pending positions.
func (ps *PendingSnapshot) TotalBasisTotal() Money {
	var total Money
	for _, p := range ps.Positions {
		total = total.Add(p.TotalBasis)
	}
	return total
}

// NetCashflowTotal sums the signed pending cash flows.
func (ps *PendingSnapshot) NetCashflowTotal() Money {
	var total Money
	for _, c := range ps.Cashflows {
		total = total.Add(c.Amount)
	}
	return total
}

// NewPendingSnapshot builds the candidate from the context's live holdings
// and transactions, diffed against the last committed snapshot. A zero
// capturedAt defaults to the context's timestamp.
func (ax *Context) NewPendingSnapshot(capturedAt time.Time, userExcludedTxnIDs map[string]bool) *PendingSnapshot {
	var prev *ValuationSnapshot
	var prevPositions []ValuationPosition
	var prevCashflows []ValuationCashflow
	if last, ok := ax.LastSnapshot(); ok {
		prev = &last
		prevPositions = ax.positions[last.ID]
		prevCashflows = ax.cashflows[last.ID]
	}
	if capturedAt.IsZero() {
		capturedAt = ax.Timestamp
	}
	return BuildPendingSnapshot(capturedAt, ax.Holdings, ax.Transactions,
		prev, prevPositions, prevCashflows,
		userExcludedTxnIDs, ax.AccountMap, ax.AssetMap, ax.SecurityMap)
}
