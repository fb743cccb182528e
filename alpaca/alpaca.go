// Package alpaca wraps the external Alpaca broker integration. The broker is
// reached through a ToolCaller transport (a named tool plus an argument map)
// and answers with human-readable "Label: value" text; this package converts
// that text into the typed domain objects of package brokerage, so callers
// treat the broker-backed path and the simulated ledger uniformly.
//
// The text format is loose: labels vary in casing and spacing, some fields
// have several possible labels, several records may be concatenated in one
// blob. The parsers here never fail on malformed text; every missing or
// unparsable field degrades to a documented default. Record segmentation
// relies on the boundary labels the broker emits today ("Order ID:"/"ID:"
// for orders, "Symbol:" or a separator line for positions); if the upstream
// format drops those labels, adjacent records merge silently. That is a
// documented limitation of the protocol, not something this package tries
// to outsmart.
package alpaca

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hquant/brokerage"
)

// ErrTool wraps every transport failure reported by the ToolCaller. The
// transport is the caller-facing error boundary: parsers only ever see the
// text of successful calls.
var ErrTool = errors.New("broker tool failed")

// ToolCaller is the boundary to the broker integration: it invokes a named
// tool with string arguments and returns the tool's text output, or an error
// when the call failed or the tool flagged its result as an error.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]string) (string, error)
}

// Client exposes typed trading operations over a ToolCaller.
type Client struct {
	tools ToolCaller
}

// NewClient creates a broker client over the given transport.
func NewClient(tools ToolCaller) *Client {
	return &Client{tools: tools}
}

func (c *Client) call(ctx context.Context, name string, args map[string]string) (string, error) {
	text, err := c.tools.CallTool(ctx, name, args)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrTool, name, err)
	}
	return text, nil
}

// Account fetches and parses the account summary.
func (c *Client) Account(ctx context.Context) (brokerage.AccountInfo, error) {
	text, err := c.call(ctx, "get_account", nil)
	if err != nil {
		return brokerage.AccountInfo{}, err
	}
	return ParseAccount(text), nil
}

// SubmitOrder places a new order through the broker and parses the
// confirmation.
func (c *Client) SubmitOrder(ctx context.Context, req brokerage.OrderRequest) (brokerage.Order, error) {
	orderType := req.Type
	if orderType == "" {
		orderType = brokerage.Market
	}
	tif := req.TimeInForce
	if tif == "" {
		tif = brokerage.Day
	}
	args := map[string]string{
		"symbol":        req.Symbol,
		"side":          string(req.Side),
		"qty":           req.Qty.String(),
		"type":          string(orderType),
		"time_in_force": string(tif),
	}
	if !req.LimitPrice.IsZero() {
		args["limit_price"] = req.LimitPrice.Decimal().String()
	}
	if !req.StopPrice.IsZero() {
		args["stop_price"] = req.StopPrice.Decimal().String()
	}
	if req.TrailPercent != 0 {
		args["trail_percent"] = strconv.FormatFloat(float64(req.TrailPercent), 'f', -1, 64)
	}

	text, err := c.call(ctx, "place_order", args)
	if err != nil {
		return brokerage.Order{}, err
	}
	return ParseOrder(text), nil
}

// Orders fetches orders filtered by status ("open", "closed", "all").
func (c *Client) Orders(ctx context.Context, status string) ([]brokerage.Order, error) {
	text, err := c.call(ctx, "get_orders", map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	return ParseOrders(text), nil
}

// CancelOrder cancels a specific order by id and returns the broker's raw
// acknowledgment.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (string, error) {
	return c.call(ctx, "cancel_order_by_id", map[string]string{"order_id": orderID})
}

// CancelAllOrders cancels every open order.
func (c *Client) CancelAllOrders(ctx context.Context) (string, error) {
	return c.call(ctx, "cancel_all_orders", nil)
}

// Positions fetches and parses all open positions.
func (c *Client) Positions(ctx context.Context) ([]brokerage.Position, error) {
	text, err := c.call(ctx, "get_positions", nil)
	if err != nil {
		return nil, err
	}
	return ParsePositions(text), nil
}

// ClosePosition closes the position in one symbol and returns the broker's
// raw acknowledgment.
func (c *Client) ClosePosition(ctx context.Context, symbol string) (string, error) {
	return c.call(ctx, "close_position", map[string]string{"symbol_or_id": symbol})
}

// CloseAllPositions closes every open position.
func (c *Client) CloseAllPositions(ctx context.Context) (string, error) {
	return c.call(ctx, "close_all_positions", nil)
}

// Clock fetches and parses the broker's market clock. Unlike the local
// schedule heuristic, this one is holiday-aware.
func (c *Client) Clock(ctx context.Context) (brokerage.MarketClock, error) {
	text, err := c.call(ctx, "get_clock", nil)
	if err != nil {
		return brokerage.MarketClock{}, err
	}
	return ParseClock(text), nil
}
