package brokerage

// Position is the normalized view of a current holding, derived on every
// read from ledger state (or broker text) and a current price. It is never
// persisted on its own.
type Position struct {
	Symbol         string
	Qty            Quantity
	Side           string // "long"
	MarketValue    Money
	AvgEntryPrice  Money
	CurrentPrice   Money
	UnrealizedPL   Money
	UnrealizedPLPC Percent
}

// AccountInfo is a trading account summary, constructed fresh on every
// query and never mutated afterwards.
type AccountInfo struct {
	AccountID      string
	Cash           Money
	PortfolioValue Money
	BuyingPower    Money
	Equity         Money
	Currency       string
	Paper          bool
}

// MarketClock reports whether a market is open and when it next changes
// state. The timestamps are opaque strings: the broker path carries them
// verbatim, the local path writes RFC3339.
type MarketClock struct {
	IsOpen    bool
	NextOpen  string
	NextClose string
	Timestamp string
}
