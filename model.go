package worth

import (
	"fmt"
	"time"
)

// CashAssetID is the asset class assigned to cash movements that are not tied
// to a security (deposits, withdrawals, transfers of plain cash).
const CashAssetID = "cash"

// Account is a brokerage or bank account. Its strategy assignment and trading
// flag come from the document; the engine never infers them.
type Account struct {
	ID         string `json:"accountID"`
	Title      string `json:"title,omitempty"`
	StrategyID string `json:"strategyID,omitempty"`
	IsTrading  bool   `json:"isTrading,omitempty"`
}

// Asset is an asset class (equities, bonds, cash...).
type Asset struct {
	ID    string `json:"assetID"`
	Title string `json:"title,omitempty"`
}

// Strategy groups accounts that are managed with a common goal.
type Strategy struct {
	ID    string `json:"strategyID"`
	Title string `json:"title,omitempty"`
}

// Security is a priced instrument. A security whose price could not be
// resolved has HasPrice false; its market value is absent, never zero.
type Security struct {
	ID       string `json:"securityID"`
	Title    string `json:"title,omitempty"`
	AssetID  string `json:"assetID"`
	Price    Money  `json:"price"`
	HasPrice bool   `json:"hasPrice"`
}

// Holding is a lot of a security held in an account. Holdings are source
// data, mutated by import only.
type Holding struct {
	ID         string   `json:"holdingID"`
	AccountID  string   `json:"accountID"`
	SecurityID string   `json:"securityID"`
	ShareCount Quantity `json:"shareCount"`
	ShareBasis Money    `json:"shareBasis"`
}

// CostBasis is the total acquisition cost of the lot.
func (h Holding) CostBasis() Money {
	return h.ShareBasis.Mul(h.ShareCount)
}

// TxnAction categorizes a transaction. Only cash movements contribute to
// valuation cash flows; in-kind trades exchange value within the portfolio
// boundary and net to zero.
type TxnAction string

const (
	TxnBuy         TxnAction = "buy"
	TxnSell        TxnAction = "sell"
	TxnDeposit     TxnAction = "deposit"
	TxnWithdrawal  TxnAction = "withdrawal"
	TxnTransferIn  TxnAction = "transfer_in"
	TxnTransferOut TxnAction = "transfer_out"
	TxnIncome      TxnAction = "income"
)

// IsCashflow reports whether the action moves money across the portfolio
// boundary.
func (a TxnAction) IsCashflow() bool {
	switch a {
	case TxnDeposit, TxnWithdrawal, TxnTransferIn, TxnTransferOut, TxnIncome:
		return true
	default:
		return false
	}
}

// isInflow reports whether the cash movement is into the portfolio.
func (a TxnAction) isInflow() bool {
	switch a {
	case TxnDeposit, TxnTransferIn, TxnIncome:
		return true
	default:
		return false
	}
}

// Transaction is a dated event on an account, optionally tied to a security.
// The engine only reads transactions to derive cash flows.
type Transaction struct {
	ID           string    `json:"transactionID"`
	Action       TxnAction `json:"action"`
	AccountID    string    `json:"accountID"`
	SecurityID   string    `json:"securityID,omitempty"`
	TransactedAt time.Time `json:"transactedAt"`
	Amount       Money     `json:"amount"`
	ShareCount   Quantity  `json:"shareCount,omitzero"`
}

// SignedAmount returns the cash flow amount of the transaction, positive for
// inflows and negative for outflows, and false for in-kind trades.
func (t Transaction) SignedAmount() (Money, bool) {
	if !t.Action.IsCashflow() {
		return Money{}, false
	}
	if t.Action.isInflow() {
		return t.Amount, true
	}
	return t.Amount.Neg(), true
}

// BaseModel is the portfolio document: reference entities, live source data,
// and the committed valuation ledger. The model owns all committed snapshots,
// positions and cash flows exclusively; derived results (matrix, summaries,
// forecasts) are views reconstructed on demand and never persisted.
type BaseModel struct {
	Accounts     []Account
	Assets       []Asset
	Strategies   []Strategy
	Securities   []Security
	Holdings     []Holding
	Transactions []Transaction

	ValuationSnapshots []ValuationSnapshot
	ValuationPositions []ValuationPosition
	ValuationCashflows []ValuationCashflow
}

// Validate checks referential integrity: every foreign key in the model must
// resolve. A model failing this check is rejected at the document boundary.
func (m *BaseModel) Validate() error {
	accounts := make(map[string]bool, len(m.Accounts))
	for _, a := range m.Accounts {
		accounts[a.ID] = true
	}
	assets := make(map[string]bool, len(m.Assets))
	for _, a := range m.Assets {
		assets[a.ID] = true
	}
	strategies := make(map[string]bool, len(m.Strategies))
	for _, s := range m.Strategies {
		strategies[s.ID] = true
	}
	securities := make(map[string]bool, len(m.Securities))
	for _, s := range m.Securities {
		securities[s.ID] = true
	}
	snapshots := make(map[string]bool, len(m.ValuationSnapshots))
	for _, s := range m.ValuationSnapshots {
		if snapshots[s.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateSnapshot, s.ID)
		}
		snapshots[s.ID] = true
	}

	for _, a := range m.Accounts {
		if a.StrategyID != "" && !strategies[a.StrategyID] {
			return fmt.Errorf("account %q: unknown strategy %q", a.ID, a.StrategyID)
		}
	}
	for _, s := range m.Securities {
		if !assets[s.AssetID] {
			return fmt.Errorf("security %q: unknown asset %q", s.ID, s.AssetID)
		}
	}
	for _, h := range m.Holdings {
		if !accounts[h.AccountID] {
			return fmt.Errorf("holding %q: unknown account %q", h.ID, h.AccountID)
		}
		if !securities[h.SecurityID] {
			return fmt.Errorf("holding %q: unknown security %q", h.ID, h.SecurityID)
		}
	}
	for _, t := range m.Transactions {
		if !accounts[t.AccountID] {
			return fmt.Errorf("transaction %q: unknown account %q", t.ID, t.AccountID)
		}
		if t.SecurityID != "" && !securities[t.SecurityID] {
			return fmt.Errorf("transaction %q: unknown security %q", t.ID, t.SecurityID)
		}
	}
	seen := make(map[positionKey]bool, len(m.ValuationPositions))
	for _, p := range m.ValuationPositions {
		if !snapshots[p.SnapshotID] {
			return fmt.Errorf("position: unknown snapshot %q", p.SnapshotID)
		}
		if !accounts[p.AccountID] {
			return fmt.Errorf("position: unknown account %q", p.AccountID)
		}
		k := positionKey{p.SnapshotID, p.AccountID, p.AssetID}
		if seen[k] {
			return fmt.Errorf("duplicate position for snapshot %q account %q asset %q",
				p.SnapshotID, p.AccountID, p.AssetID)
		}
		seen[k] = true
	}
	for _, c := range m.ValuationCashflows {
		if !snapshots[c.SnapshotID] {
			return fmt.Errorf("cashflow: unknown snapshot %q", c.SnapshotID)
		}
		if !accounts[c.AccountID] {
			return fmt.Errorf("cashflow: unknown account %q", c.AccountID)
		}
	}
	return nil
}

type positionKey struct {
	snapshotID, accountID, assetID string
}

// AccountMap indexes accounts by ID.
func (m *BaseModel) AccountMap() map[string]Account {
	res := make(map[string]Account, len(m.Accounts))
	for _, a := range m.Accounts {
		res[a.ID] = a
	}
	return res
}

// AssetMap indexes assets by ID.
func (m *BaseModel) AssetMap() map[string]Asset {
	res := make(map[string]Asset, len(m.Assets))
	for _, a := range m.Assets {
		res[a.ID] = a
	}
	return res
}

// StrategyMap indexes strategies by ID.
func (m *BaseModel) StrategyMap() map[string]Strategy {
	res := make(map[string]Strategy, len(m.Strategies))
	for _, s := range m.Strategies {
		res[s.ID] = s
	}
	return res
}

// SecurityMap indexes securities by ID.
func (m *BaseModel) SecurityMap() map[string]Security {
	res := make(map[string]Security, len(m.Securities))
	for _, s := range m.Securities {
		res[s.ID] = s
	}
	return res
}
