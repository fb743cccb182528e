package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/hquant/brokerage"
	"github.com/hquant/brokerage/renderer"
)

// tradeCmd holds the flags shared by buy and sell.
type tradeCmd struct {
	symbol string
	qty    float64
	price  float64
}

func (p *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.symbol, "s", "", "Ticker symbol (e.g. BARC.L).")
	f.Float64Var(&p.qty, "q", 0, "Quantity to trade.")
	f.Float64Var(&p.price, "p", 0, "Fill price. Fetched from the quote source when omitted.")
}

// execute fills the order on the ledger at the given or fetched price.
func (p *tradeCmd) execute(ctx context.Context, side brokerage.Side) subcommands.ExitStatus {
	if p.symbol == "" || p.qty <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -s <symbol> and a positive -q <qty> are required.")
		return subcommands.ExitUsageError
	}

	price := brokerage.USD(p.price)
	if p.price <= 0 {
		fetched, err := quotes().Price(ctx, p.symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		price = fetched
	}

	order, err := openLedger().SubmitOrder(brokerage.OrderRequest{
		Symbol: p.symbol,
		Side:   side,
		Qty:    brokerage.Q(p.qty),
	}, price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Order(order))
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy a quantity of a symbol on the simulated ledger" }
func (*buyCmd) Usage() string {
	return `brok buy -s <symbol> -q <qty> [-p <price>]

  Fills a buy instantly on the simulated ledger. Without -p the fill price
  is fetched from the quote source.
`
}

func (p *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.execute(ctx, brokerage.Buy)
}

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a quantity of a symbol on the simulated ledger" }
func (*sellCmd) Usage() string {
	return `brok sell -s <symbol> -q <qty> [-p <price>]

  Fills a sell instantly on the simulated ledger. Without -p the fill price
  is fetched from the quote source.
`
}

func (p *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return p.execute(ctx, brokerage.Sell)
}
