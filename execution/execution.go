// Package execution routes each trading operation to the external broker or
// the simulated ledger, depending on the symbol's market, and defines the
// uniform surface both paths satisfy.
package execution

import (
	"context"
	"fmt"

	"github.com/hquant/brokerage"
	"github.com/hquant/brokerage/alpaca"
	"github.com/hquant/brokerage/market"
)

// QuoteSource resolves current prices for symbols. Price fails with
// brokerage.ErrNoPrice when it cannot resolve the symbol; Prices is
// best-effort and simply omits unresolvable symbols.
type QuoteSource interface {
	Price(ctx context.Context, symbol string) (brokerage.Money, error)
	Prices(ctx context.Context, symbols []string) map[string]brokerage.Money
}

// Executor is the uniform execution surface: callers submit normalized
// order requests and read back normalized orders, positions and accounts,
// regardless of which path serves the symbol.
type Executor interface {
	SubmitOrder(ctx context.Context, req brokerage.OrderRequest) (brokerage.Order, error)
	Positions(ctx context.Context) ([]brokerage.Position, error)
	ClosePosition(ctx context.Context, symbol string) (brokerage.Order, error)
	CloseAllPositions(ctx context.Context) ([]brokerage.Order, error)
	Account(ctx context.Context) (brokerage.AccountInfo, error)
}

// BacktestRunner is the consumed-only boundary to the backtesting service:
// a symbol, a date range and strategy parameters in, a result record or an
// error out. This core does not implement it.
type BacktestRunner interface {
	Run(ctx context.Context, symbol, startDate, endDate string, params map[string]float64) (map[string]float64, error)
}

// Router dispatches each operation to the broker-backed path or the
// simulated ledger, depending on the symbol's market. The broker-served set
// is policy, not a constant; by default the broker covers US stocks and
// crypto, leaving UK stocks to the ledger.
type Router struct {
	Broker   *alpaca.Client
	Ledger   *brokerage.SimulatedLedger
	Quotes   QuoteSource
	Brokered map[market.Market]bool // nil means the default set
}

var _ Executor = (*Router)(nil)

var defaultBrokered = map[market.Market]bool{
	market.USStocks: true,
	market.Crypto:   true,
}

func (r *Router) brokered(m market.Market) bool {
	if r.Broker == nil {
		// Local-only setup: every market is served by the ledger.
		return false
	}
	set := r.Brokered
	if set == nil {
		set = defaultBrokered
	}
	return set[m]
}

// SubmitOrder routes the request by the symbol's market. On the ledger path
// the fill price is resolved through the quote source first; a symbol with
// no price is rejected before any mutation.
func (r *Router) SubmitOrder(ctx context.Context, req brokerage.OrderRequest) (brokerage.Order, error) {
	if r.brokered(market.Classify(req.Symbol)) {
		return r.Broker.SubmitOrder(ctx, req)
	}
	price, err := r.Quotes.Price(ctx, req.Symbol)
	if err != nil {
		return brokerage.Order{}, fmt.Errorf("cannot fill %s locally: %w", req.Symbol, err)
	}
	return r.Ledger.SubmitOrder(req, price)
}

// Positions merges the broker's positions with the ledger's, ledger last.
func (r *Router) Positions(ctx context.Context) ([]brokerage.Position, error) {
	var positions []brokerage.Position
	if r.Broker != nil {
		var err error
		positions, err = r.Broker.Positions(ctx)
		if err != nil {
			return nil, err
		}
	}
	var symbols []string
	for _, p := range r.Ledger.Positions(nil) {
		symbols = append(symbols, p.Symbol)
	}
	lookup := r.Quotes.Prices(ctx, symbols)
	return append(positions, r.Ledger.Positions(lookup)...), nil
}

// ClosePosition closes the position on whichever path holds it. The broker
// path returns a synthetic filled order carrying the broker's raw
// acknowledgment id, since the broker reports closes as plain text.
func (r *Router) ClosePosition(ctx context.Context, symbol string) (brokerage.Order, error) {
	if r.brokered(market.Classify(symbol)) {
		if _, err := r.Broker.ClosePosition(ctx, symbol); err != nil {
			return brokerage.Order{}, err
		}
		return brokerage.Order{Symbol: symbol, Side: brokerage.Sell, Status: brokerage.StatusFilled}, nil
	}
	price, err := r.Quotes.Price(ctx, symbol)
	if err != nil {
		return brokerage.Order{}, fmt.Errorf("cannot close %s locally: %w", symbol, err)
	}
	return r.Ledger.ClosePosition(symbol, price)
}

// CloseAllPositions closes every position on both paths: the broker gets
// one bulk close call, the ledger closes every symbol the quote source can
// price. Only the ledger's fills are returned as orders; the broker reports
// bulk closes as plain text.
func (r *Router) CloseAllPositions(ctx context.Context) ([]brokerage.Order, error) {
	if r.Broker != nil {
		if _, err := r.Broker.CloseAllPositions(ctx); err != nil {
			return nil, err
		}
	}
	var symbols []string
	for _, p := range r.Ledger.Positions(nil) {
		symbols = append(symbols, p.Symbol)
	}
	return r.Ledger.CloseAllPositions(r.Quotes.Prices(ctx, symbols))
}

// Account reports the broker account. A router configured without a broker
// (local-only setup) reports the ledger's synthesized account instead.
func (r *Router) Account(ctx context.Context) (brokerage.AccountInfo, error) {
	if r.Broker == nil {
		return r.Ledger.Account(), nil
	}
	return r.Broker.Account(ctx)
}
