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

type closeCmd struct {
	symbol string
	all    bool
	price  float64
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close one position, or all of them" }
func (*closeCmd) Usage() string {
	return `brok close -s <symbol> [-p <price>] | brok close -all

  Sells the full held quantity. With -all, every position with an available
  quote is closed; symbols the quote source cannot price are skipped.
`
}

func (p *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.symbol, "s", "", "Symbol of the position to close.")
	f.BoolVar(&p.all, "all", false, "Close every position with an available quote.")
	f.Float64Var(&p.price, "p", 0, "Fill price. Fetched from the quote source when omitted.")
}

func (p *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger := openLedger()

	if p.all {
		var symbols []string
		for _, pos := range ledger.Positions(nil) {
			symbols = append(symbols, pos.Symbol)
		}
		orders, err := ledger.CloseAllPositions(quotes().Prices(ctx, symbols))
		for _, order := range orders {
			printMarkdown(renderer.Order(order))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Closed %d of %d positions.\n", len(orders), len(symbols))
		return subcommands.ExitSuccess
	}

	if p.symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s <symbol> or -all is required.")
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

	order, err := ledger.ClosePosition(p.symbol, price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Order(order))
	return subcommands.ExitSuccess
}
