// Package cmd implements the CLI application around the simulated ledger
// and the market scheduler.
package cmd

import (
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/hquant/brokerage"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")
	c.Register(&closeCmd{}, "trading")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&accountCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&marketsCmd{}, "reports")

	c.Register(&resetCmd{}, "ledger")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var ledgerFile = flag.String("ledger-file", "data/ledger.json", "Path to the simulated ledger snapshot (JSON)")

// openLedger opens the app's ledger. A missing or corrupt snapshot silently
// starts fresh.
func openLedger() *brokerage.SimulatedLedger {
	return brokerage.NewSimulatedLedger(*ledgerFile)
}

// quotes is the app's spot price source.
func quotes() *brokerage.HTTPQuotes {
	return brokerage.NewHTTPQuotes()
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
