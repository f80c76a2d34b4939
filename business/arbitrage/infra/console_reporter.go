package infra

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/arbscan/arbscan/business/arbitrage/app"
	"github.com/arbscan/arbscan/internal/currency"
)

var (
	colorProfit = lipgloss.Color("#10B981")
	colorMuted  = lipgloss.Color("#6B7280")
	colorAccent = lipgloss.Color("#3B82F6")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	profitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorProfit)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// ConsoleReporter renders scan results to a terminal. Empty cycles print a
// single muted line; sized trades get a styled box. Sizes are rounded to the
// currency's display precision, never for calculation.
type ConsoleReporter struct {
	out        io.Writer
	currencies *currency.Registry
}

// NewConsoleReporter writes to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout, currencies: currency.DefaultRegistry()}
}

// ReportCycle prints a one-line summary of a scan cycle.
func (r *ConsoleReporter) ReportCycle(report app.CycleReport) {
	line := fmt.Sprintf("[%s] %s: %d considered, %d above threshold, %d stale dropped",
		time.Now().Format("15:04:05"),
		report.Pair,
		report.Considered,
		len(report.Ranked),
		report.StaleDropped)
	if report.Decision == nil && report.SkipReason != "" {
		line += " (" + report.SkipReason + ")"
	}
	fmt.Fprintln(r.out, mutedStyle.Render(line))
}

// ReportTrade prints the selected, sized trade.
func (r *ConsoleReporter) ReportTrade(d app.TradeDecision) {
	opp := d.Opportunity
	body := fmt.Sprintf(
		"%s\n"+
			"Buy  %-10s @ %s\n"+
			"Sell %-10s @ %s\n"+
			"Return (raw/grs/net): %s / %s / %s\n"+
			"Size: %s %s  limited by %s\n"+
			"Net profit at size basis: %s",
		titleStyle.Render(fmt.Sprintf("TRADE  %s", opp.Pair)),
		opp.BuyVenue, opp.BuyLeg.Price,
		opp.SellVenue, opp.SellLeg.Price,
		percent(opp.ReturnRaw.InexactFloat64()),
		percent(opp.ReturnGrs.InexactFloat64()),
		profitStyle.Render(percent(opp.ReturnNet.InexactFloat64())),
		r.amount(d.Size, opp.Pair.Base), opp.Pair.Base, d.Limiting,
		r.amount(opp.ProfitNet, opp.Pair.Quote),
	)
	fmt.Fprintln(r.out, boxStyle.Render(body))
}

func (r *ConsoleReporter) amount(v decimal.Decimal, symbol string) string {
	if cur, ok := r.currencies.Get(symbol); ok {
		return v.StringFixed(int32(cur.Decimals()))
	}
	return v.String()
}

// percent formats a ratio for display only; all calculation stays decimal.
func percent(v float64) string {
	return fmt.Sprintf("%.4f%%", v*100)
}
