package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/hquant/brokerage"
	"github.com/hquant/brokerage/market"
	"github.com/hquant/brokerage/renderer"
)

type positionsCmd struct {
	offline bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list open positions with current P&L" }
func (*positionsCmd) Usage() string {
	return `brok positions [-offline]

  Lists positions on the simulated ledger. Prices come from the quote
  source; with -offline each position is valued at its own entry price and
  P&L reads as zero.
`
}

func (p *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.offline, "offline", false, "Do not fetch quotes; value positions at entry price.")
}

func (p *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()

	var lookup map[string]brokerage.Money
	if !p.offline {
		var symbols []string
		for _, pos := range ledger.Positions(nil) {
			symbols = append(symbols, pos.Symbol)
		}
		lookup = quotes().Prices(ctx, symbols)
	}

	printMarkdown(renderer.Positions("Simulated positions", ledger.Positions(lookup)))
	return subcommands.ExitSuccess
}

type accountCmd struct{}

func (*accountCmd) Name() string             { return "account" }
func (*accountCmd) Synopsis() string         { return "show the simulated account summary" }
func (*accountCmd) SetFlags(f *flag.FlagSet) {}
func (*accountCmd) Usage() string {
	return `brok account

  Shows cash, portfolio value and buying power of the simulated ledger, in
  the same shape the broker path reports.
`
}

func (*accountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.Account(openLedger().Account()))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	tail int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the ledger's fill history" }
func (*historyCmd) Usage() string {
	return `brok history [-tail <n>]

  Lists recorded fills, oldest first.
`
}

func (p *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.tail, "tail", 0, "Show only the last N fills.")
}

func (p *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fills := openLedger().History()
	if p.tail > 0 && len(fills) > p.tail {
		fills = fills[len(fills)-p.tail:]
	}
	printMarkdown(renderer.History("Fill history", fills))
	return subcommands.ExitSuccess
}

type marketsCmd struct {
	at string
}

func (*marketsCmd) Name() string     { return "markets" }
func (*marketsCmd) Synopsis() string { return "show which markets are open" }
func (*marketsCmd) Usage() string {
	return `brok markets [-at <RFC3339 instant>]

  Shows the open/closed status of every known market from the local
  schedule table. This check is holiday-unaware.
`
}

func (p *marketsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.at, "at", "", "Evaluate at this instant instead of now (RFC3339).")
}

func (p *marketsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now := time.Now()
	if p.at != "" {
		parsed, err := time.Parse(time.RFC3339, p.at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -at: %v\n", err)
			return subcommands.ExitUsageError
		}
		now = parsed
	}

	statuses := make([]renderer.MarketStatus, 0, len(market.All))
	for _, m := range market.All {
		statuses = append(statuses, renderer.MarketStatus{
			Market: string(m),
			Clock:  brokerage.LocalClock(m, now),
		})
	}
	printMarkdown(renderer.Markets(statuses))
	return subcommands.ExitSuccess
}

type resetCmd struct{}

func (*resetCmd) Name() string             { return "reset" }
func (*resetCmd) Synopsis() string         { return "reset the ledger to its initial state" }
func (*resetCmd) SetFlags(f *flag.FlagSet) {}
func (*resetCmd) Usage() string {
	return `brok reset

  Discards all positions and history and restores the initial cash balance.
`
}

func (*resetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()
	if err := ledger.Reset(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Ledger reset. Cash: %s\n", ledger.Cash())
	return subcommands.ExitSuccess
}
