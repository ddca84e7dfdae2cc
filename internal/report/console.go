package report

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"EarningsSentinel/internal/model"
)

// Console renders scan results as tables on a writer.
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to stdout.
func NewConsole() *Console { return &Console{out: os.Stdout} }

// NewConsoleWriter creates a console reporter for tests.
func NewConsoleWriter(w io.Writer) *Console { return &Console{out: w} }

// PrintStraddle renders a straddle scan result.
func (c *Console) PrintStraddle(res *model.StraddleScanResult) {
	fmt.Fprintf(c.out, "\n[%s] pre-earnings straddle scan — universe:%d earnings:%d scanned:%d\n",
		res.Date, res.UniverseSize, res.EarningsFound, res.CandidatesScanned)

	if len(res.Opportunities) == 0 {
		fmt.Fprintln(c.out, "  no opportunities found")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Price", "Earnings", "Days", "Expiry", "DTE", "Strike", "Straddle", "Implied%", "Avg%", "Last%", "Score", "Rec")

	for _, o := range res.Opportunities {
		table.Append(
			o.Ticker,
			fmt.Sprintf("$%.2f", o.Price),
			o.EarningsDate,
			fmt.Sprintf("%d", o.DaysToEarnings),
			o.Expiry,
			fmt.Sprintf("%d", o.ExpiryDTE),
			fmt.Sprintf("%.1f", o.Strike),
			fmt.Sprintf("$%.2f", o.StraddleMid),
			fmt.Sprintf("%.2f", o.ImpliedMovePct),
			fmtPtr(o.RealizedMoveAvgPct, "%.2f"),
			fmtPtr(o.RealizedMoveLastPct, "%.2f"),
			fmtPtr(o.Score, "%.3f"),
			string(o.Recommendation),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  CANDIDATE:%d WATCH:%d PASS:%d\n",
		res.Summary.TotalCandidate, res.Summary.TotalWatch, res.Summary.TotalPass)
}

// PrintCrush renders an IV-crush scan result.
func (c *Console) PrintCrush(res *model.CrushScanResult) {
	fmt.Fprintf(c.out, "\n[%s] earnings IV-crush scan — scanned:%d earnings:%d\n",
		res.Date, res.TotalScanned, res.EarningsFound)

	if len(res.Opportunities) == 0 {
		fmt.Fprintln(c.out, "  no opportunities found")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Ticker", "Price", "Earnings", "Days", "FrontIV", "BackIV", "Slope%", "Move%", "Sell", "Buy", "Credit", "Rec")

	for _, o := range res.Opportunities {
		table.Append(
			o.Ticker,
			fmt.Sprintf("$%.2f", o.Price),
			o.EarningsDate,
			fmt.Sprintf("%d", o.DaysToEarnings),
			fmt.Sprintf("%.1f", o.IV),
			fmt.Sprintf("%.1f", o.BackIV),
			fmt.Sprintf("%+.1f", o.Criteria.IVSlopePct),
			fmt.Sprintf("±%.1f", o.ExpectedMovePct),
			o.SuggestedTrade.SellExpiration,
			o.SuggestedTrade.BuyExpiration,
			fmt.Sprintf("$%.2f", o.SuggestedTrade.NetCredit),
			string(o.Recommendation),
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  RECOMMENDED:%d CONSIDER:%d AVOID:%d | avg IV %.1f%% | avg move ±%.1f%%\n",
		res.Summary.TotalRecommended, res.Summary.TotalConsider, res.Summary.TotalAvoid,
		res.Summary.AvgIV, res.Summary.AvgExpectedMove)
}

func fmtPtr(p *float64, format string) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf(format, *p)
}
