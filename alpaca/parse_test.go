package alpaca

import (
	"testing"

	"github.com/hquant/brokerage"
)

func TestExtractField(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		label string
		def   string
		want  string
	}{
		{"Simple match", "Symbol: AAPL", "Symbol", "", "AAPL"},
		{"Leading whitespace", "   Cash: $1,000.00", "Cash", "", "$1,000.00"},
		{"Value keeps inner spaces", "Status: partially filled", "Status", "", "partially filled"},
		{"First matching line wins", "Qty: 5\nQty: 9", "Qty", "", "5"},
		{"Missing label yields default", "Symbol: AAPL", "Side", "long", "long"},
		{"Label without colon is skipped", "Symbol AAPL\nSymbol: MSFT", "Symbol", "", "MSFT"},
		{"Empty value", "Filled At:", "Filled At", "x", ""},
		{"Colon in value splits once", "Submitted At: 2024-01-10T09:30:00Z", "Submitted At", "", "2024-01-10T09:30:00Z"},
		{"Empty text yields default", "", "Symbol", "unknown", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractField(tc.text, tc.label, tc.def); got != tc.want {
				t.Errorf("extractField(%q, %q, %q) = %q, want %q", tc.text, tc.label, tc.def, got, tc.want)
			}
		})
	}
}

func TestParseAccount(t *testing.T) {
	text := `Account ID: abc-123
Cash: $25,000.50
Portfolio Value: $30,000.00
Buying Power: $50,001.00
Equity: $30,000.00
Currency: USD
Environment: Paper Trading`

	got := ParseAccount(text)
	if got.AccountID != "abc-123" {
		t.Errorf("AccountID = %q, want %q", got.AccountID, "abc-123")
	}
	if !got.Cash.Equal(brokerage.USD(25000.50)) {
		t.Errorf("Cash = %v, want 25000.50", got.Cash)
	}
	if !got.BuyingPower.Equal(brokerage.USD(50001)) {
		t.Errorf("BuyingPower = %v, want 50001", got.BuyingPower)
	}
	if got.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", got.Currency)
	}
	if !got.Paper {
		t.Error("Paper = false, want true")
	}
}

func TestParseAccountDefaults(t *testing.T) {
	got := ParseAccount("some unrelated text")
	if got.AccountID != "unknown" {
		t.Errorf("AccountID = %q, want unknown", got.AccountID)
	}
	if !got.Cash.IsZero() || !got.Equity.IsZero() {
		t.Errorf("monetary defaults not zero: cash=%v equity=%v", got.Cash, got.Equity)
	}
	if got.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", got.Currency)
	}
	if got.Paper {
		t.Error("Paper = true, want false")
	}
}

func TestParseOrder(t *testing.T) {
	text := `Order ID: ord-42
Symbol: AAPL
Side: buy
Quantity: 10
Filled Qty: 10
Type: limit
Status: filled
Submitted At: 2024-01-10T09:31:00Z
Filled At: 2024-01-10T09:31:02Z
Filled Avg Price: $185.20`

	got := ParseOrder(text)
	if got.ID != "ord-42" {
		t.Errorf("ID = %q, want ord-42", got.ID)
	}
	if got.Side != brokerage.Buy {
		t.Errorf("Side = %v, want buy", got.Side)
	}
	if !got.Qty.Equal(brokerage.Q(10)) {
		t.Errorf("Qty = %v, want 10", got.Qty)
	}
	if got.Type != brokerage.Limit {
		t.Errorf("Type = %v, want limit", got.Type)
	}
	if got.Status != brokerage.StatusFilled {
		t.Errorf("Status = %v, want filled", got.Status)
	}
	if !got.FilledAvgPrice.Equal(brokerage.USD(185.20)) {
		t.Errorf("FilledAvgPrice = %v, want 185.20", got.FilledAvgPrice)
	}
	if got.SubmittedAt != "2024-01-10T09:31:00Z" {
		t.Errorf("SubmittedAt = %q", got.SubmittedAt)
	}
}

func TestParseOrderFallbackLabels(t *testing.T) {
	text := `ID: ord-7
Symbol: MSFT
Qty: 3
Created At: yesterday
Average Fill Price: 410.10`

	got := ParseOrder(text)
	if got.ID != "ord-7" {
		t.Errorf("ID = %q, want ord-7", got.ID)
	}
	if !got.Qty.Equal(brokerage.Q(3)) {
		t.Errorf("Qty = %v, want 3", got.Qty)
	}
	if got.SubmittedAt != "yesterday" {
		t.Errorf("SubmittedAt = %q, want yesterday", got.SubmittedAt)
	}
	if !got.FilledAvgPrice.Equal(brokerage.USD(410.10)) {
		t.Errorf("FilledAvgPrice = %v, want 410.10", got.FilledAvgPrice)
	}
}

func TestParseOrderDefaults(t *testing.T) {
	got := ParseOrder("garbage with no labels")
	if got.ID != "unknown" || got.Symbol != "unknown" {
		t.Errorf("ID/Symbol = %q/%q, want unknown/unknown", got.ID, got.Symbol)
	}
	if got.Type != brokerage.Market {
		t.Errorf("Type = %v, want market", got.Type)
	}
	if got.Status != brokerage.StatusNew {
		t.Errorf("Status = %v, want new", got.Status)
	}
	if got.Side != brokerage.Buy {
		t.Errorf("Side = %v, want buy", got.Side)
	}
}

func TestParseOrders(t *testing.T) {
	text := `Order ID: ord-1
Symbol: AAPL
Side: buy
Quantity: 10
Status: filled

Order ID: ord-2
Symbol: TSLA
Side: sell
Quantity: 5
Status: new`

	got := ParseOrders(text)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "ord-1" || got[1].ID != "ord-2" {
		t.Errorf("ids = %q, %q, want ord-1, ord-2", got[0].ID, got[1].ID)
	}
	if got[0].Symbol != "AAPL" || got[1].Symbol != "TSLA" {
		t.Errorf("symbols = %q, %q", got[0].Symbol, got[1].Symbol)
	}
	if got[1].Side != brokerage.Sell {
		t.Errorf("second side = %v, want sell", got[1].Side)
	}
}

func TestParseOrdersEmpty(t *testing.T) {
	for _, text := range []string{"", "   \n  ", "No open orders.", "There are no orders for this account."} {
		if got := ParseOrders(text); got != nil {
			t.Errorf("ParseOrders(%q) = %v, want nil", text, got)
		}
	}
}

func TestParsePositions(t *testing.T) {
	text := `Symbol: AAPL
Quantity: 10
Side: Long
Market Value: $1,852.00
Avg Entry Price: $180.00
Current Price: $185.20
Unrealized P/L: $52.00
---------------------
Symbol: BTC-USD
Quantity: 0.5
Side: long
Avg Entry Price: 42000
Current Price: 43000`

	got := ParsePositions(text)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Symbol != "AAPL" || got[1].Symbol != "BTC-USD" {
		t.Errorf("symbols = %q, %q", got[0].Symbol, got[1].Symbol)
	}
	if got[0].Side != "long" {
		t.Errorf("side = %q, want long (lowercased)", got[0].Side)
	}
	if !got[0].UnrealizedPL.Equal(brokerage.USD(52)) {
		t.Errorf("UnrealizedPL = %v, want 52", got[0].UnrealizedPL)
	}
	if !got[1].Qty.Equal(brokerage.Q(0.5)) {
		t.Errorf("Qty = %v, want 0.5", got[1].Qty)
	}
	if !got[1].AvgEntryPrice.Equal(brokerage.USD(42000)) {
		t.Errorf("AvgEntryPrice = %v, want 42000", got[1].AvgEntryPrice)
	}
}

func TestParsePositionsDiscardsSymbollessBlock(t *testing.T) {
	text := `Open positions for account abc-123
---------------------
Symbol: NVDA
Quantity: 2
Avg Entry Price: 600`

	got := ParsePositions(text)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Symbol != "NVDA" {
		t.Errorf("symbol = %q, want NVDA", got[0].Symbol)
	}
}

func TestParsePositionsEmpty(t *testing.T) {
	for _, text := range []string{"", "No open positions.", "This account has no positions right now."} {
		if got := ParsePositions(text); got != nil {
			t.Errorf("ParsePositions(%q) = %v, want nil", text, got)
		}
	}
}

func TestParseClock(t *testing.T) {
	text := `Market Status
Is Open: Yes
Current Time: 2024-01-10T10:00:00-05:00
Next Open: 2024-01-11T09:30:00-05:00
Next Close: 2024-01-10T16:00:00-05:00`

	got := ParseClock(text)
	if !got.IsOpen {
		t.Error("IsOpen = false, want true")
	}
	if got.NextClose != "2024-01-10T16:00:00-05:00" {
		t.Errorf("NextClose = %q", got.NextClose)
	}

	closed := ParseClock("Is Open: false")
	if closed.IsOpen {
		t.Error("IsOpen = true, want false")
	}
	if def := ParseClock("nothing useful"); def.IsOpen {
		t.Error("default IsOpen = true, want false")
	}
}
