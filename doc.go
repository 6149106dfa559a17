// Package worth implements the computation engine of a personal net-worth
// tracker. A portfolio document records reference entities (accounts, assets,
// strategies, securities), live holdings and transactions, and an append-only
// ledger of valuation snapshots. From that data the engine derives:
//
//   - a pending snapshot, proposed from the current holdings and the
//     transactions not yet excluded by the user, ready to be committed
//     atomically into the document;
//   - a matrix of market-value time series, grouped by asset, account, and
//     strategy, over a selected snapshot range;
//   - period summaries with simple delta metrics and Modified Dietz returns;
//   - a linear-regression forecast of future portfolio value with
//     round-number milestones.
//
// Every computation is a pure, synchronous function over an immutable view of
// the document. There is no partial cache invalidation: derived results are
// rebuilt wholesale whenever their inputs change.
package worth
