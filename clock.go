package brokerage

import (
	"time"

	"github.com/hquant/brokerage/market"
)

// LocalClock synthesizes a MarketClock from the local schedule table, in the
// same shape the broker path parses from broker text. It inherits the
// schedule's limits: holidays are unknown, and 24/7 markets report empty
// next-open/next-close.
func LocalClock(m market.Market, now time.Time) MarketClock {
	clock := MarketClock{
		IsOpen:    market.IsOpen(m, now),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	if next := market.NextOpen(m, now); !next.IsZero() {
		clock.NextOpen = next.Format(time.RFC3339)
	}
	if next := market.NextClose(m, now); !next.IsZero() {
		clock.NextClose = next.Format(time.RFC3339)
	}
	return clock
}
