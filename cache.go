package worth

import "maps"

// MatrixResultCache owns one global MatrixResult for the live snapshot range
// plus derived results keyed by strategy or account, built on demand. There
// is no partial invalidation path: any change to the document, to account
// exclusions, or to the range is handled by constructing a new cache, so a
// stale result can never survive its inputs.
type MatrixResultCache struct {
	ax               *Context
	begID, endID     string
	excludedAccounts map[string]bool
	orderedAssetIDs  []string
	trackPerformance bool

	main       *MatrixResult
	byStrategy map[string]*MatrixResult
	byAccount  map[string]*MatrixResult
	trading    *MatrixResult
	nonTrading *MatrixResult
}

// NewMatrixResultCache builds the cache and its global result. Empty beg/end
// IDs select the full available range.
func NewMatrixResultCache(ax *Context, begID, endID string, excludedAccounts map[string]bool,
	orderedAssetIDs []string, trackPerformance bool) (*MatrixResultCache, error) {

	if excludedAccounts == nil {
		excludedAccounts = map[string]bool{}
	}
	main, err := buildMatrixResult(ax, begID, endID, excludedAccounts, orderedAssetIDs, trackPerformance)
	if err != nil {
		return nil, err
	}
	return &MatrixResultCache{
		ax:               ax,
		begID:            begID,
		endID:            endID,
		excludedAccounts: excludedAccounts,
		orderedAssetIDs:  orderedAssetIDs,
		trackPerformance: trackPerformance,
		main:             main,
		byStrategy:       map[string]*MatrixResult{},
		byAccount:        map[string]*MatrixResult{},
	}, nil
}

// Main returns the global result covering all non-excluded accounts.
func (c *MatrixResultCache) Main() *MatrixResult { return c.main }

// Context returns the context the cache was built from.
func (c *MatrixResultCache) Context() *Context { return c.ax }

// derive rebuilds the matrix with extra accounts excluded by the predicate
// (keep reports whether an account stays included).
func (c *MatrixResultCache) derive(keep func(Account) bool) *MatrixResult {
	excluded := maps.Clone(c.excludedAccounts)
	for id, a := range c.ax.AccountMap {
		if !keep(a) {
			excluded[id] = true
		}
	}
	// the window was validated when the cache was built
	mr, _ := buildMatrixResult(c.ax, c.begID, c.endID, excluded, c.orderedAssetIDs, c.trackPerformance)
	return mr
}

// StrategyMR returns the result restricted to accounts of one strategy.
func (c *MatrixResultCache) StrategyMR(strategyID string) *MatrixResult {
	if mr, ok := c.byStrategy[strategyID]; ok {
		return mr
	}
	mr := c.derive(func(a Account) bool { return a.StrategyID == strategyID })
	c.byStrategy[strategyID] = mr
	return mr
}

// AccountMR returns the result restricted to a single account.
func (c *MatrixResultCache) AccountMR(accountID string) *MatrixResult {
	if mr, ok := c.byAccount[accountID]; ok {
		return mr
	}
	mr := c.derive(func(a Account) bool { return a.ID == accountID })
	c.byAccount[accountID] = mr
	return mr
}

// StrategyTradingMR returns the active strategy's result restricted to
// trading accounts. The trading classification comes from the Account
// entity; the engine never infers it.
func (c *MatrixResultCache) StrategyTradingMR() *MatrixResult {
	if c.trading == nil {
		strategyID := c.ax.Settings.ActiveStrategyID
		c.trading = c.derive(func(a Account) bool {
			return a.StrategyID == strategyID && a.IsTrading
		})
	}
	return c.trading
}

// StrategyNonTradingMR returns the active strategy's result restricted to
// non-trading accounts.
func (c *MatrixResultCache) StrategyNonTradingMR() *MatrixResult {
	if c.nonTrading == nil {
		strategyID := c.ax.Settings.ActiveStrategyID
		c.nonTrading = c.derive(func(a Account) bool {
			return a.StrategyID == strategyID && !a.IsTrading
		})
	}
	return c.nonTrading
}
