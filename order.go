package brokerage

import "strings"

// Side indicates whether an order buys or sells.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide maps broker text to a Side, defaulting to Buy on unknown input.
func ParseSide(s string) Side {
	if strings.ToLower(strings.TrimSpace(s)) == "sell" {
		return Sell
	}
	return Buy
}

// OrderType is the execution style of an order.
type OrderType string

const (
	Market       OrderType = "market"
	Limit        OrderType = "limit"
	Stop         OrderType = "stop"
	StopLimit    OrderType = "stop_limit"
	TrailingStop OrderType = "trailing_stop"
)

var orderTypes = map[string]OrderType{
	"market":        Market,
	"limit":         Limit,
	"stop":          Stop,
	"stop_limit":    StopLimit,
	"trailing_stop": TrailingStop,
}

// ParseOrderType maps broker text to an OrderType. Unknown strings map to
// Market.
func ParseOrderType(s string) OrderType {
	if t, ok := orderTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Market
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusNew             OrderStatus = "new"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCanceled        OrderStatus = "canceled"
	StatusExpired         OrderStatus = "expired"
	StatusRejected        OrderStatus = "rejected"
	StatusPendingNew      OrderStatus = "pending_new"
	StatusAccepted        OrderStatus = "accepted"
)

var orderStatuses = map[string]OrderStatus{
	"new":              StatusNew,
	"partially_filled": StatusPartiallyFilled,
	"filled":           StatusFilled,
	"canceled":         StatusCanceled,
	"cancelled":        StatusCanceled, // both spellings occur in broker text
	"expired":          StatusExpired,
	"rejected":         StatusRejected,
	"pending_new":      StatusPendingNew,
	"accepted":         StatusAccepted,
}

// ParseOrderStatus maps broker text to an OrderStatus. Unknown strings map
// to StatusNew.
func ParseOrderStatus(s string) OrderStatus {
	if st, ok := orderStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return StatusNew
}

// TimeInForce controls how long an order remains active.
type TimeInForce string

const (
	Day TimeInForce = "day"
	GTC TimeInForce = "gtc"
	IOC TimeInForce = "ioc"
	FOK TimeInForce = "fok"
)

// OrderRequest is the immutable input for an order submission. It is never
// persisted directly.
type OrderRequest struct {
	Symbol       string
	Side         Side
	Qty          Quantity
	Type         OrderType   // zero value means Market
	TimeInForce  TimeInForce // zero value means Day
	LimitPrice   Money       // zero means unset
	StopPrice    Money       // zero means unset
	TrailPercent Percent     // zero means unset
}

// normalize fills the request's defaulted fields.
func (r OrderRequest) normalize() OrderRequest {
	if r.Type == "" {
		r.Type = Market
	}
	if r.TimeInForce == "" {
		r.TimeInForce = Day
	}
	return r
}

// Order is a submitted or filled order. It is created once per submission;
// fields are set at most once, there is no amendment.
//
// Timestamps are opaque strings: the broker path carries them verbatim from
// the broker's text, the ledger path writes RFC3339.
type Order struct {
	ID             string
	Symbol         string
	Side           Side
	Qty            Quantity
	FilledQty      Quantity
	Type           OrderType
	Status         OrderStatus
	SubmittedAt    string
	FilledAt       string // empty until filled
	FilledAvgPrice Money  // zero until filled
	LimitPrice     Money
	StopPrice      Money
}
