// Package render prints order book depth and trade history for humans.
// It only reads snapshots and never touches a live book.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
)

// PriceFormatter turns a tick price into display text.
type PriceFormatter func(ticks int64) string

// Ticks prints the raw integer price.
func Ticks(ticks int64) string { return strconv.FormatInt(ticks, 10) }

// printer remembers the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Book writes asks (lowest first) then bids (highest first), one line per
// level followed by its orders in queue order.
func Book(w io.Writer, d orderbook.Depth, price PriceFormatter) error {
	if price == nil {
		price = Ticks
	}
	p := &printer{w: w}
	p.printf("\n--- Order Book for %s ---\n", d.Symbol)
	p.printf("\n--- ASKS (Lowest Price) ---\n")
	levels(p, d.Asks, price)
	p.printf("\n--- BIDS (Highest Price) ---\n")
	levels(p, d.Bids, price)
	p.printf("---------------------------------\n\n")
	return p.err
}

func levels(p *printer, ls []orderbook.LevelSnapshot, price PriceFormatter) {
	if len(ls) == 0 {
		p.printf("(Empty)\n")
		return
	}
	for _, l := range ls {
		p.printf("  [Price: %s] Total Qty: %d (%d orders)\n", price(l.Price), l.Qty, len(l.Orders))
		for _, o := range l.Orders {
			p.printf("    -> %s\n", o)
		}
	}
}

// Trades writes the trade history, oldest first.
func Trades(w io.Writer, trades []orderbook.Trade) error {
	p := &printer{w: w}
	p.printf("\n--- All Executed Trades ---\n")
	if len(trades) == 0 {
		p.printf("No trades executed yet.\n")
	}
	for _, t := range trades {
		p.printf("%s\n", t)
	}
	p.printf("---------------------------\n\n")
	return p.err
}

// Fills writes the trades produced by a single submission.
func Fills(w io.Writer, trades []orderbook.Trade) error {
	p := &printer{w: w}
	if len(trades) == 0 {
		p.printf("No immediate match found. Order resting in book.\n")
		return p.err
	}
	p.printf("--- Executed Trades ---\n")
	for _, t := range trades {
		p.printf("  %s\n", t)
	}
	return p.err
}
