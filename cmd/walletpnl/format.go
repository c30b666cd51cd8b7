package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/walletpnl/internal/usecase/pnl"
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(-math.MaxInt64)
)

// usd renders an amount as US dollars, rounded half away from zero to the cent.
// Amounts whose cents overflow int64 are printed as a plain fixed-point string.
func usd(amount decimal.Decimal) string {
	cur := money.GetCurrency("USD")
	factor := decimal.New(1, int32(cur.Fraction))
	cents := amount.Mul(factor).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return amount.StringFixed(int32(cur.Fraction)) + " " + cur.Code
	}
	return money.New(cents.IntPart(), cur.Code).Display()
}

// printPnL writes the series as an aligned table followed by a summary line
func printPnL(w io.Writer, result *pnl.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "TIMESTAMP\tPNL\tPNL (EXACT)\t\n")
	for _, p := range result.Points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", p.Timestamp.UTC().Format(time.RFC3339), usd(p.PnL), p.PnL.String())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s: %d points, %d assets", result.WalletAddress, len(result.Points), result.AssetsValued)
	if err != nil {
		return err
	}
	if result.MissingPrices > 0 {
		_, err = fmt.Fprintf(w, ", %d missing prices", result.MissingPrices)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}
