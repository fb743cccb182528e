package alpaca

import (
	"strings"

	"github.com/hquant/brokerage"
)

// extractField scans text line by line and returns the value of the first
// line whose trimmed content starts with label, split on the first colon and
// trimmed. A line carrying the label but no colon is skipped. Returns def
// when no line matches.
func extractField(text, label, def string) string {
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, label) {
			if _, value, found := strings.Cut(stripped, ":"); found {
				return strings.TrimSpace(value)
			}
		}
	}
	return def
}

// field extracts label from text, trying each alternative label in order.
func field(text string, def string, labels ...string) string {
	for _, label := range labels {
		if v := extractField(text, label, ""); v != "" {
			return v
		}
	}
	return def
}

// percent coerces broker text into a Percent, degrading to zero.
func percent(s string) brokerage.Percent {
	return brokerage.Percent(brokerage.ParseMoney(s, brokerage.USD(0)).Decimal().InexactFloat64())
}

// ParseAccount parses an account summary from broker text. Every field has
// a default: id "unknown", monetary fields zero, currency "USD". The paper
// flag is set when the text mentions "paper" anywhere, in any casing.
func ParseAccount(text string) brokerage.AccountInfo {
	currency := extractField(text, "Currency", "USD")
	zero := brokerage.M(0, currency)
	return brokerage.AccountInfo{
		AccountID:      extractField(text, "Account ID", "unknown"),
		Cash:           brokerage.ParseMoney(extractField(text, "Cash", ""), zero),
		PortfolioValue: brokerage.ParseMoney(extractField(text, "Portfolio Value", ""), zero),
		BuyingPower:    brokerage.ParseMoney(extractField(text, "Buying Power", ""), zero),
		Equity:         brokerage.ParseMoney(extractField(text, "Equity", ""), zero),
		Currency:       currency,
		Paper:          strings.Contains(strings.ToLower(text), "paper"),
	}
}

// ParseOrder parses a single order from broker text. The id falls back from
// the "Order ID" label to a bare "ID" label, then to "unknown"; quantity and
// filled quantity each accept two labels; type and status go through the
// closed enumerations with their documented defaults. A zero fill price
// means the order has not filled.
func ParseOrder(text string) brokerage.Order {
	zeroQty := brokerage.Q(0)
	zeroUSD := brokerage.USD(0)
	return brokerage.Order{
		ID:             field(text, "unknown", "Order ID", "ID"),
		Symbol:         extractField(text, "Symbol", "unknown"),
		Side:           brokerage.ParseSide(extractField(text, "Side", "buy")),
		Qty:            brokerage.ParseQuantity(field(text, "0", "Quantity", "Qty"), zeroQty),
		FilledQty:      brokerage.ParseQuantity(field(text, "0", "Filled Qty", "Filled Quantity"), zeroQty),
		Type:           brokerage.ParseOrderType(extractField(text, "Type", "market")),
		Status:         brokerage.ParseOrderStatus(extractField(text, "Status", "new")),
		SubmittedAt:    field(text, "", "Submitted At", "Created At"),
		FilledAt:       extractField(text, "Filled At", ""),
		FilledAvgPrice: brokerage.ParseMoney(field(text, "0", "Filled Avg Price", "Average Fill Price"), zeroUSD),
	}
}

// ParseOrders parses a blob that may hold several concatenated order
// records. Text stating there are no orders (or blank text) short-circuits
// to an empty list. A line starting a new order id while a block is already
// accumulating finalizes the current block.
func ParseOrders(text string) []brokerage.Order {
	lower := strings.ToLower(text)
	if strings.TrimSpace(text) == "" || strings.Contains(lower, "no open orders") || strings.Contains(lower, "no orders") {
		return nil
	}

	var orders []brokerage.Order
	var block []string
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if (strings.HasPrefix(stripped, "Order ID:") || strings.HasPrefix(stripped, "ID:")) && len(block) > 0 {
			orders = append(orders, ParseOrder(strings.Join(block, "\n")))
			block = block[:0]
		}
		if stripped != "" {
			block = append(block, line)
		}
	}
	if len(block) > 0 {
		orders = append(orders, ParseOrder(strings.Join(block, "\n")))
	}
	return orders
}

// ParsePositions parses a blob of concatenated position records. Blocks
// start at a "Symbol:" line or a separator line of dashes; separator lines
// are dropped from block content. A block without a symbol field is not a
// position and is discarded.
func ParsePositions(text string) []brokerage.Position {
	lower := strings.ToLower(text)
	if strings.TrimSpace(text) == "" || strings.Contains(lower, "no open positions") || strings.Contains(lower, "no positions") {
		return nil
	}

	var positions []brokerage.Position
	var block []string
	flush := func() {
		blockText := strings.Join(block, "\n")
		if extractField(blockText, "Symbol", "") != "" {
			positions = append(positions, parsePosition(blockText))
		}
		block = block[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if (strings.HasPrefix(stripped, "Symbol:") || strings.HasPrefix(stripped, "---")) && len(block) > 0 {
			flush()
		}
		if stripped != "" && !strings.HasPrefix(stripped, "---") {
			block = append(block, line)
		}
	}
	if len(block) > 0 {
		flush()
	}
	return positions
}

// parsePosition parses one position block.
func parsePosition(text string) brokerage.Position {
	zero := brokerage.USD(0)
	return brokerage.Position{
		Symbol:         extractField(text, "Symbol", "unknown"),
		Qty:            brokerage.ParseQuantity(field(text, "0", "Quantity", "Qty"), brokerage.Q(0)),
		Side:           strings.ToLower(extractField(text, "Side", "long")),
		MarketValue:    brokerage.ParseMoney(extractField(text, "Market Value", ""), zero),
		AvgEntryPrice:  brokerage.ParseMoney(field(text, "0", "Avg Entry Price", "Average Entry"), zero),
		CurrentPrice:   brokerage.ParseMoney(extractField(text, "Current Price", ""), zero),
		UnrealizedPL:   brokerage.ParseMoney(field(text, "0", "Unrealized P/L", "Unrealized PL"), zero),
		UnrealizedPLPC: percent(field(text, "0", "Unrealized P/L %", "Unrealized PL %")),
	}
}

// ParseClock parses the broker's market clock. The market counts as open
// when the extracted field contains "yes" or "true" in any casing.
func ParseClock(text string) brokerage.MarketClock {
	isOpen := strings.ToLower(extractField(text, "Is Open", "No"))
	return brokerage.MarketClock{
		IsOpen:    strings.Contains(isOpen, "yes") || strings.Contains(isOpen, "true"),
		NextOpen:  extractField(text, "Next Open", ""),
		NextClose: extractField(text, "Next Close", ""),
		Timestamp: extractField(text, "Current Time", ""),
	}
}
