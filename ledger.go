package brokerage

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SimulatedLedger is the authoritative local record of cash and positions
// for symbols the external broker cannot trade. Orders are filled instantly
// at a caller-supplied price and the whole state is written to a single JSON
// file on every successful mutation, so positions survive restarts.
//
// The ledger assumes single-writer access to its backing file. A mutex
// serializes calls on one instance; two instances over the same file can
// still race. This is a deliberate simplicity trade-off for a low-frequency,
// single-operator trading loop.
type SimulatedLedger struct {
	mu    sync.Mutex
	path  string
	state ledgerState
}

// Fill is one entry of the ledger's append-only order history. The price is
// a raw decimal so the snapshot keeps plain JSON numbers.
type Fill struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Side      Side            `json:"side"`
	Qty       Quantity        `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Timestamp string          `json:"timestamp"`
}

// NewSimulatedLedger opens the ledger backed by the given file. A missing
// file yields a fresh default state; so does a corrupt one. Recovery is
// preferred over failure, a bad snapshot is never an error.
func NewSimulatedLedger(path string) *SimulatedLedger {
	return &SimulatedLedger{path: path, state: loadLedgerState(path)}
}

// SubmitOrder simulates an instant fill of the request at price. Validation
// failures (insufficient cash, no position, oversell) are reported before
// any mutation: either the full mutation happens or none of it does. On
// success the ledger is persisted synchronously and the returned Order has
// status filled with FilledQty equal to the requested quantity.
func (l *SimulatedLedger) SubmitOrder(req OrderRequest, price Money) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submit(req, price)
}

// submit is SubmitOrder without the lock, for internal reuse.
func (l *SimulatedLedger) submit(req OrderRequest, price Money) (Order, error) {
	req = req.normalize()
	if req.Symbol == "" {
		return Order{}, fmt.Errorf("%w: empty symbol", ErrInvalidOrder)
	}
	if !req.Qty.IsPositive() {
		return Order{}, fmt.Errorf("%w: quantity %s must be positive", ErrInvalidOrder, req.Qty)
	}
	if !price.IsPositive() {
		return Order{}, fmt.Errorf("%w: price %s must be positive", ErrInvalidOrder, price)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	cost := price.Mul(req.Qty)

	switch req.Side {
	case Buy:
		if cost.GreaterThan(l.state.cash()) {
			return Order{}, fmt.Errorf("%w: need %s, have %s", ErrInsufficientCash, cost, l.state.cash())
		}
		l.state.Cash = l.state.Cash.Sub(cost.Decimal())
		if pos, ok := l.state.Positions[req.Symbol]; ok {
			// Average in: quantity-weighted mean of the prior and new cost bases.
			oldQty := Q(pos.Qty)
			total := oldQty.Add(req.Qty)
			oldCost := M(pos.AvgEntryPrice, price.Currency()).Mul(oldQty)
			pos.AvgEntryPrice = oldCost.Add(cost).Div(total).Decimal()
			pos.Qty = total.Decimal()
			l.state.Positions[req.Symbol] = pos
		} else {
			l.state.Positions[req.Symbol] = ledgerPosition{
				Symbol:        req.Symbol,
				Qty:           req.Qty.Decimal(),
				AvgEntryPrice: price.Decimal(),
				Side:          "long",
				OpenedAt:      now,
			}
		}

	case Sell:
		pos, ok := l.state.Positions[req.Symbol]
		if !ok {
			return Order{}, fmt.Errorf("%w in %s to sell", ErrNoPosition, req.Symbol)
		}
		if req.Qty.GreaterThan(Q(pos.Qty)) {
			return Order{}, fmt.Errorf("%w: %s of %s, only hold %s", ErrOversell, req.Qty, req.Symbol, Q(pos.Qty))
		}
		l.state.Cash = l.state.Cash.Add(cost.Decimal())
		pos.Qty = Q(pos.Qty).Sub(req.Qty).Decimal()
		// A position is deleted, never zeroed: the average entry price of a
		// partial remainder is unchanged.
		if !pos.Qty.IsPositive() {
			delete(l.state.Positions, req.Symbol)
		} else {
			l.state.Positions[req.Symbol] = pos
		}

	default:
		return Order{}, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, req.Side)
	}

	order := Order{
		ID:             uuid.NewString()[:8],
		Symbol:         req.Symbol,
		Side:           req.Side,
		Qty:            req.Qty,
		FilledQty:      req.Qty,
		Type:           req.Type,
		Status:         StatusFilled,
		SubmittedAt:    now,
		FilledAt:       now,
		FilledAvgPrice: price,
	}
	l.state.Orders = append(l.state.Orders, Fill{
		ID:        order.ID,
		Symbol:    order.Symbol,
		Side:      order.Side,
		Qty:       order.Qty,
		Price:     price.Decimal(),
		Timestamp: now,
	})

	if err := saveLedgerState(l.path, l.state); err != nil {
		return Order{}, fmt.Errorf("could not persist ledger: %w", err)
	}
	log.Printf("ledger: filled %s %s %s @ %s", order.Side, order.Qty, order.Symbol, price)
	return order, nil
}

// Positions derives the current positions from ledger state and the given
// price lookup. A symbol absent from the lookup is valued at its own average
// entry price, so its P&L reports as zero. Symbols are returned in sorted
// order.
func (l *SimulatedLedger) Positions(lookup map[string]Money) []Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	positions := make([]Position, 0, len(l.state.Positions))
	for _, sym := range slices.Sorted(maps.Keys(l.state.Positions)) {
		pos := l.state.Positions[sym]
		avgEntry := M(pos.AvgEntryPrice, l.state.currency())
		current, ok := lookup[sym]
		if !ok {
			current = avgEntry
		}
		qty := Q(pos.Qty)
		entryValue := avgEntry.Mul(qty)
		pl := current.Sub(avgEntry).Mul(qty)
		positions = append(positions, Position{
			Symbol:         sym,
			Qty:            qty,
			Side:           pos.Side,
			MarketValue:    current.Mul(qty),
			AvgEntryPrice:  avgEntry,
			CurrentPrice:   current,
			UnrealizedPL:   pl,
			UnrealizedPLPC: pl.PercentOf(entryValue),
		})
	}
	return positions
}

// ClosePosition sells the full held quantity of symbol at price.
func (l *SimulatedLedger) ClosePosition(symbol string, price Money) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.state.Positions[symbol]
	if !ok {
		return Order{}, fmt.Errorf("%w in %s", ErrNoPosition, symbol)
	}
	return l.submit(OrderRequest{Symbol: symbol, Side: Sell, Qty: Q(pos.Qty)}, price)
}

// CloseAllPositions closes every position that has a price in the lookup.
// Symbols without a price are skipped, not failed: this is a best-effort
// batch, not all-or-nothing.
func (l *SimulatedLedger) CloseAllPositions(lookup map[string]Money) ([]Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var orders []Order
	for _, sym := range slices.Sorted(maps.Keys(l.state.Positions)) {
		price, ok := lookup[sym]
		if !ok {
			continue
		}
		pos := l.state.Positions[sym]
		order, err := l.submit(OrderRequest{Symbol: sym, Side: Sell, Qty: Q(pos.Qty)}, price)
		if err != nil {
			return orders, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Reset replaces the whole state with a fresh default (no positions, cash
// back at the initial balance) and persists it immediately.
func (l *SimulatedLedger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = newLedgerState()
	if err := saveLedgerState(l.path, l.state); err != nil {
		return fmt.Errorf("could not persist ledger: %w", err)
	}
	log.Printf("ledger: reset to %s", l.state.cash())
	return nil
}

// Cash returns the current cash balance.
func (l *SimulatedLedger) Cash() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.cash()
}

// InitialCash returns the balance the ledger started (or was last reset)
// with.
func (l *SimulatedLedger) InitialCash() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return M(l.state.InitialCash, l.state.currency())
}

// PortfolioValue is cash plus the cost basis of all open positions.
func (l *SimulatedLedger) PortfolioValue() Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.portfolioValue()
}

func (l *SimulatedLedger) portfolioValue() Money {
	total := l.state.cash()
	for _, pos := range l.state.Positions {
		total = total.Add(M(pos.AvgEntryPrice, l.state.currency()).Mul(Q(pos.Qty)))
	}
	return total
}

// History returns a copy of the append-only fill history, oldest first.
func (l *SimulatedLedger) History() []Fill {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.state.Orders)
}

// Account synthesizes an account summary in the same shape the broker path
// parses, so callers can treat both execution paths uniformly.
func (l *SimulatedLedger) Account() AccountInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	value := l.portfolioValue()
	return AccountInfo{
		AccountID:      "simulated",
		Cash:           l.state.cash(),
		PortfolioValue: value,
		BuyingPower:    l.state.cash(),
		Equity:         value,
		Currency:       l.state.currency(),
		Paper:          true,
	}
}
