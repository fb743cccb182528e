// Package renderer turns the brokerage read models into markdown reports.
// Each report is a template (embedded alongside the package) executed over a
// small report struct; the cmd package pipes the markdown through a terminal
// renderer.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/hquant/brokerage"
)

//go:embed templates/*.md
var templates embed.FS

// PositionsReport is the data behind the positions table.
type PositionsReport struct {
	Title     string
	Positions []brokerage.Position
	Total     brokerage.Money
}

// Positions renders a positions table with a market-value total.
func Positions(title string, positions []brokerage.Position) string {
	total := brokerage.USD(0)
	for _, p := range positions {
		total = total.Add(p.MarketValue)
	}
	return renderTemplate("positions", "templates/positions.md", &PositionsReport{
		Title:     title,
		Positions: positions,
		Total:     total,
	})
}

// Account renders an account summary.
func Account(info brokerage.AccountInfo) string {
	return renderTemplate("account", "templates/account.md", info)
}

// HistoryReport is the data behind the fill history table.
type HistoryReport struct {
	Title string
	Fills []brokerage.Fill
}

// History renders the ledger's fill history, oldest first.
func History(title string, fills []brokerage.Fill) string {
	return renderTemplate("history", "templates/history.md", &HistoryReport{Title: title, Fills: fills})
}

// MarketStatus is one row of the markets report.
type MarketStatus struct {
	Market string
	Clock  brokerage.MarketClock
}

// Markets renders the open/closed status of every known market.
func Markets(statuses []MarketStatus) string {
	return renderTemplate("markets", "templates/markets.md", statuses)
}

// Order renders a one-line confirmation of a filled order.
func Order(o brokerage.Order) string {
	return fmt.Sprintf("**%s** %s %s %s @ %s (order `%s`, %s)\n",
		strings.ToUpper(string(o.Side)), o.FilledQty, o.Symbol, o.Status, o.FilledAvgPrice, o.ID, o.FilledAt)
}

// renderTemplate is a generic utility to render one embedded template.
func renderTemplate(templateName, file string, data any) string {
	content, err := fs.ReadFile(templates, file)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", file, err)
	}
	tmpl, err := template.New(templateName).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
