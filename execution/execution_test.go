package execution

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hquant/brokerage"
	"github.com/hquant/brokerage/alpaca"
)

// stubQuotes serves prices from a fixed table.
type stubQuotes map[string]brokerage.Money

func (q stubQuotes) Price(_ context.Context, symbol string) (brokerage.Money, error) {
	price, ok := q[symbol]
	if !ok {
		return brokerage.Money{}, brokerage.ErrNoPrice
	}
	return price, nil
}

func (q stubQuotes) Prices(_ context.Context, symbols []string) map[string]brokerage.Money {
	out := make(map[string]brokerage.Money)
	for _, sym := range symbols {
		if price, ok := q[sym]; ok {
			out[sym] = price
		}
	}
	return out
}

// stubTools answers every broker tool call with one canned text.
type stubTools struct {
	name string
	text string
}

func (s *stubTools) CallTool(_ context.Context, name string, _ map[string]string) (string, error) {
	s.name = name
	return s.text, nil
}

func newTestRouter(t *testing.T, tools alpaca.ToolCaller) *Router {
	t.Helper()
	r := &Router{
		Ledger: brokerage.NewSimulatedLedger(filepath.Join(t.TempDir(), "ledger.json")),
		Quotes: stubQuotes{"VOD.L": brokerage.USD(2.50), "AAPL": brokerage.USD(100)},
	}
	if tools != nil {
		r.Broker = alpaca.NewClient(tools)
	}
	return r
}

func TestRouterSubmitOrderLedgerPath(t *testing.T) {
	tools := &stubTools{text: "unused"}
	r := newTestRouter(t, tools)

	// A London symbol is outside the brokered set: it fills locally.
	order, err := r.SubmitOrder(context.Background(), brokerage.OrderRequest{Symbol: "VOD.L", Side: brokerage.Buy, Qty: brokerage.Q(100)})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if order.Status != brokerage.StatusFilled || !order.FilledAvgPrice.Equal(brokerage.USD(2.50)) {
		t.Errorf("order = %+v", order)
	}
	if tools.name != "" {
		t.Errorf("broker was called (%q) for a ledger symbol", tools.name)
	}
	if got, want := r.Ledger.Cash(), brokerage.USD(9750); !got.Equal(want) {
		t.Errorf("ledger cash = %v, want %v", got, want)
	}
}

func TestRouterSubmitOrderBrokerPath(t *testing.T) {
	tools := &stubTools{text: "Order ID: ord-9\nSymbol: AAPL\nStatus: accepted"}
	r := newTestRouter(t, tools)

	order, err := r.SubmitOrder(context.Background(), brokerage.OrderRequest{Symbol: "AAPL", Side: brokerage.Buy, Qty: brokerage.Q(1)})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if tools.name != "place_order" {
		t.Errorf("tool = %q, want place_order", tools.name)
	}
	if order.ID != "ord-9" {
		t.Errorf("order = %+v", order)
	}
	// The ledger stays untouched on the broker path.
	if got, want := r.Ledger.Cash(), brokerage.USD(10000); !got.Equal(want) {
		t.Errorf("ledger cash = %v, want %v", got, want)
	}
}

func TestRouterSubmitOrderNoPrice(t *testing.T) {
	r := newTestRouter(t, nil)

	_, err := r.SubmitOrder(context.Background(), brokerage.OrderRequest{Symbol: "BARC.L", Side: brokerage.Buy, Qty: brokerage.Q(1)})
	if !errors.Is(err, brokerage.ErrNoPrice) {
		t.Fatalf("err = %v, want ErrNoPrice", err)
	}
	if got := r.Ledger.Positions(nil); len(got) != 0 {
		t.Errorf("positions = %v, want none", got)
	}
}

func TestRouterWithoutBrokerServesEverythingLocally(t *testing.T) {
	r := newTestRouter(t, nil)

	// Even a US symbol fills on the ledger when no broker is configured.
	order, err := r.SubmitOrder(context.Background(), brokerage.OrderRequest{Symbol: "AAPL", Side: brokerage.Buy, Qty: brokerage.Q(10)})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if order.Status != brokerage.StatusFilled {
		t.Errorf("order = %+v", order)
	}

	info, err := r.Account(context.Background())
	if err != nil {
		t.Fatalf("Account: %v", err)
	}
	if info.AccountID != "simulated" {
		t.Errorf("AccountID = %q, want simulated", info.AccountID)
	}
}

func TestRouterPositionsMergesBothPaths(t *testing.T) {
	tools := &stubTools{text: "Symbol: AAPL\nQuantity: 3\nAvg Entry Price: 90"}
	r := newTestRouter(t, tools)

	if _, err := r.Ledger.SubmitOrder(brokerage.OrderRequest{Symbol: "VOD.L", Side: brokerage.Buy, Qty: brokerage.Q(100)}, brokerage.USD(2)); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	positions, err := r.Positions(context.Background())
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(positions))
	}
	if positions[0].Symbol != "AAPL" || positions[1].Symbol != "VOD.L" {
		t.Errorf("symbols = %q, %q", positions[0].Symbol, positions[1].Symbol)
	}
	// The ledger position is valued at the quoted price, not its entry.
	if !positions[1].CurrentPrice.Equal(brokerage.USD(2.50)) {
		t.Errorf("VOD.L current price = %v, want 2.50", positions[1].CurrentPrice)
	}
}

func TestRouterCloseAllPositions(t *testing.T) {
	tools := &stubTools{text: "All positions closed."}
	r := newTestRouter(t, tools)

	if _, err := r.Ledger.SubmitOrder(brokerage.OrderRequest{Symbol: "VOD.L", Side: brokerage.Buy, Qty: brokerage.Q(10)}, brokerage.USD(2)); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	orders, err := r.CloseAllPositions(context.Background())
	if err != nil {
		t.Fatalf("CloseAllPositions: %v", err)
	}
	if tools.name != "close_all_positions" {
		t.Errorf("tool = %q, want close_all_positions", tools.name)
	}
	if len(orders) != 1 || orders[0].Symbol != "VOD.L" || orders[0].Side != brokerage.Sell {
		t.Errorf("orders = %v, want one VOD.L sell", orders)
	}
	if got := r.Ledger.Positions(nil); len(got) != 0 {
		t.Errorf("ledger positions = %v, want none", got)
	}
}

func TestRouterClosePosition(t *testing.T) {
	tools := &stubTools{text: "Position closed."}
	r := newTestRouter(t, tools)

	if _, err := r.Ledger.SubmitOrder(brokerage.OrderRequest{Symbol: "VOD.L", Side: brokerage.Buy, Qty: brokerage.Q(10)}, brokerage.USD(2)); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	order, err := r.ClosePosition(context.Background(), "VOD.L")
	if err != nil {
		t.Fatalf("ClosePosition ledger path: %v", err)
	}
	if order.Side != brokerage.Sell || !order.Qty.Equal(brokerage.Q(10)) {
		t.Errorf("order = %+v", order)
	}
	if tools.name != "" {
		t.Errorf("broker was called (%q) for a ledger close", tools.name)
	}

	if _, err := r.ClosePosition(context.Background(), "AAPL"); err != nil {
		t.Fatalf("ClosePosition broker path: %v", err)
	}
	if tools.name != "close_position" {
		t.Errorf("tool = %q, want close_position", tools.name)
	}
}
