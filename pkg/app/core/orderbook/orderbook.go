// Package orderbook is a single-symbol limit order book with
// price-time priority matching.
//
// A book is not safe for concurrent mutation. Callers serialize access per
// symbol (see market.Registry); books for different symbols share nothing.
package orderbook

import "fmt"

// OrderBook holds the resting bids and asks for one symbol.
type OrderBook struct {
	symbol string

	bids *ladder // best = highest price
	asks *ladder // best = lowest price

	// Order index for O(1) cancellation
	index orderIndex
}

// NewOrderBook returns an empty book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		symbol: symbol,
		bids:   newLadder(Buy),
		asks:   newLadder(Sell),
		index:  make(orderIndex),
	}
}

func (ob *OrderBook) Symbol() string { return ob.symbol }

// ladderFor returns the ladder holding resting orders of side s.
func (ob *OrderBook) ladderFor(s Side) *ladder {
	switch s {
	case Buy:
		return ob.bids
	case Sell:
		return ob.asks
	default:
		panic(fmt.Sprintf("orderbook: invalid side %d", int8(s)))
	}
}

// Submit matches o against the opposite side and rests whatever is left.
// It returns the trades in execution order, oldest first. The caller
// guarantees o.Qty > 0 and a unique o.ID.
func (ob *OrderBook) Submit(o Order) []Trade {
	var trades []Trade
	taker := &o
	opposite := ob.ladderFor(taker.Side.Opposite())

	for taker.Qty > 0 {
		lvl := opposite.best()
		if lvl == nil {
			break // no liquidity
		}
		if !taker.Side.crosses(taker.Price, lvl.Price) {
			break
		}

		maker := lvl.PopFront()
		fill := min(taker.Qty, maker.Qty)
		trades = append(trades, newTrade(taker, maker, fill))

		taker.Qty -= fill
		maker.Qty -= fill

		if maker.Qty > 0 {
			// keeps its place ahead of later arrivals
			lvl.PushFront(maker)
		} else {
			ob.index.remove(maker.ID)
		}
		opposite.pruneIfEmpty(lvl)
	}

	if taker.Qty > 0 {
		ob.rest(taker)
	}
	return trades
}

// rest appends o to the back of its own level and indexes it.
func (ob *OrderBook) rest(o *Order) {
	ob.ladderFor(o.Side).upsert(o.Price).PushBack(o)
	ob.index.put(o)
}

// Cancel removes a resting order. It reports false, and changes nothing,
// when id is not resting in this book.
func (ob *OrderBook) Cancel(id OrderID) bool {
	e, ok := ob.index.lookup(id)
	if !ok {
		return false
	}

	side := ob.ladderFor(e.side)
	lvl := side.level(e.price)
	if lvl == nil {
		panic(fmt.Sprintf("orderbook %s: order %d indexed at %s %d but the level is gone",
			ob.symbol, id, e.side, e.price))
	}
	if _, removed := lvl.Remove(id); !removed {
		panic(fmt.Sprintf("orderbook %s: order %d indexed at %s %d but not queued there",
			ob.symbol, id, e.side, e.price))
	}
	ob.index.remove(id)
	side.pruneIfEmpty(lvl)
	return true
}

// Lookup returns a copy of a resting order.
func (ob *OrderBook) Lookup(id OrderID) (Order, bool) {
	e, ok := ob.index.lookup(id)
	if !ok {
		return Order{}, false
	}
	lvl := ob.ladderFor(e.side).level(e.price)
	if lvl == nil {
		return Order{}, false
	}
	for _, o := range lvl.Orders() {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// BestBid returns the highest resting buy price.
func (ob *OrderBook) BestBid() (int64, bool) {
	return ob.bids.heap.Peek()
}

// BestAsk returns the lowest resting sell price.
func (ob *OrderBook) BestAsk() (int64, bool) {
	return ob.asks.heap.Peek()
}

// Len returns the number of resting orders.
func (ob *OrderBook) Len() int { return len(ob.index) }

// Verify checks the structural invariants of the book: every queued order
// is indexed exactly once at its level, the index holds nothing else, no
// level is empty, quantities are positive, level totals add up, and the
// best bid is strictly below the best ask.
func (ob *OrderBook) Verify() error {
	seen := make(map[OrderID]struct{}, len(ob.index))
	for _, l := range []*ladder{ob.bids, ob.asks} {
		if l.heap.Len() != len(l.levels) {
			return fmt.Errorf("%s: heap has %d prices, map has %d levels", l.side, l.heap.Len(), len(l.levels))
		}
		for price, lvl := range l.levels {
			if lvl.Empty() {
				return fmt.Errorf("%s level %d is empty", l.side, price)
			}
			if lvl.Price != price {
				return fmt.Errorf("%s level keyed %d reports price %d", l.side, price, lvl.Price)
			}
			var total int64
			for _, o := range lvl.Orders() {
				if o.Qty <= 0 {
					return fmt.Errorf("order %d rests with qty %d", o.ID, o.Qty)
				}
				if o.Side != l.side || o.Price != price {
					return fmt.Errorf("order %d (%s %d) queued at %s %d", o.ID, o.Side, o.Price, l.side, price)
				}
				if _, dup := seen[o.ID]; dup {
					return fmt.Errorf("order %d queued twice", o.ID)
				}
				seen[o.ID] = struct{}{}
				e, ok := ob.index.lookup(o.ID)
				if !ok {
					return fmt.Errorf("order %d rests without an index entry", o.ID)
				}
				if e.side != l.side || e.price != price {
					return fmt.Errorf("order %d indexed at %s %d, queued at %s %d", o.ID, e.side, e.price, l.side, price)
				}
				total += o.Qty
			}
			if total != lvl.TotalQty() {
				return fmt.Errorf("%s level %d total %d, orders sum to %d", l.side, price, lvl.TotalQty(), total)
			}
		}
	}
	if len(seen) != len(ob.index) {
		return fmt.Errorf("index has %d entries, book has %d resting orders", len(ob.index), len(seen))
	}
	bid, hasBid := ob.BestBid()
	ask, hasAsk := ob.BestAsk()
	if hasBid && hasAsk && bid >= ask {
		return fmt.Errorf("book crossed: best bid %d >= best ask %d", bid, ask)
	}
	return nil
}
