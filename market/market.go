// Package market classifies ticker symbols into markets and answers
// trading-window questions from an immutable schedule table.
//
// The schedule check is a fast local heuristic: it knows opening hours,
// timezones and trading weekdays, but not holidays. Callers needing
// authoritative state must consult the broker's clock endpoint.
package market

import (
	"strings"
	"time"
)

// Market enumerates the markets this system trades.
type Market string

const (
	USStocks Market = "us_stocks"
	UKStocks Market = "uk_stocks"
	Crypto   Market = "crypto"
)

// All lists every market in stable order.
var All = []Market{USStocks, UKStocks, Crypto}

// Classify determines which market a symbol belongs to. It is pure and
// total: suffix ".L" means London, a "-USD"/"-GBP"/"-EUR" pair suffix means
// crypto, everything else is a US stock.
func Classify(symbol string) Market {
	if strings.HasSuffix(symbol, ".L") {
		return UKStocks
	}
	if strings.HasSuffix(symbol, "-USD") || strings.HasSuffix(symbol, "-GBP") || strings.HasSuffix(symbol, "-EUR") {
		return Crypto
	}
	return USStocks
}

// clockTime is a time of day within a schedule's timezone.
type clockTime struct {
	hour, minute, second int
}

func (c clockTime) seconds() int { return (c.hour*60+c.minute)*60 + c.second }

// Schedule is the trading window of a market: open and close times in the
// market's own timezone, plus the set of trading weekdays. Schedules are
// process-wide constants, immutable after initialization.
type Schedule struct {
	Market      Market
	open, close clockTime
	loc         *time.Location
	days        map[time.Weekday]bool
	always      bool // 24/7 markets ignore the window entirely
}

// Location returns the schedule's timezone.
func (s *Schedule) Location() *time.Location { return s.loc }

// Always reports whether the market trades around the clock.
func (s *Schedule) Always() bool { return s.always }

var schedules map[Market]*Schedule

func init() {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
	weekdays := map[time.Weekday]bool{
		time.Monday: true, time.Tuesday: true, time.Wednesday: true,
		time.Thursday: true, time.Friday: true,
	}
	everyday := map[time.Weekday]bool{
		time.Monday: true, time.Tuesday: true, time.Wednesday: true,
		time.Thursday: true, time.Friday: true, time.Saturday: true,
		time.Sunday: true,
	}
	schedules = map[Market]*Schedule{
		USStocks: {
			Market: USStocks,
			open:   clockTime{9, 30, 0},
			close:  clockTime{16, 0, 0},
			loc:    eastern,
			days:   weekdays,
		},
		UKStocks: {
			Market: UKStocks,
			open:   clockTime{8, 0, 0},
			close:  clockTime{16, 30, 0},
			loc:    london,
			days:   weekdays,
		},
		Crypto: {
			Market: Crypto,
			open:   clockTime{0, 0, 0},
			close:  clockTime{23, 59, 59},
			loc:    time.UTC,
			days:   everyday,
			always: true,
		},
	}
}

// GetSchedule returns the trading schedule of a market.
func GetSchedule(m Market) *Schedule {
	return schedules[m]
}

// IsOpen reports whether a market is in its trading window at the given
// instant. Crypto is always open. For other markets, now is converted to
// the market's local timezone; the local weekday must be a trading day and
// the local time of day must lie within [open, close], inclusive on both
// bounds.
func IsOpen(m Market, now time.Time) bool {
	s := schedules[m]
	if s.always {
		return true
	}
	local := now.In(s.loc)
	if !s.days[local.Weekday()] {
		return false
	}
	since := (local.Hour()*60+local.Minute())*60 + local.Second()
	return since >= s.open.seconds() && since <= s.close.seconds()
}

// Open returns the markets whose trading window contains the given instant,
// in the stable order of All.
func Open(now time.Time) []Market {
	var open []Market
	for _, m := range All {
		if IsOpen(m, now) {
			open = append(open, m)
		}
	}
	return open
}
