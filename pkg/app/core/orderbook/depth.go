package orderbook

// LevelSnapshot is a read-only view of one price level.
type LevelSnapshot struct {
	Price  int64   `json:"price"`
	Qty    int64   `json:"qty"`    // aggregate resting quantity
	Orders []Order `json:"orders"` // oldest first
}

// Depth is a point-in-time copy of the whole book.
type Depth struct {
	Symbol string          `json:"symbol"`
	Bids   []LevelSnapshot `json:"bids"` // sorted high to low
	Asks   []LevelSnapshot `json:"asks"` // sorted low to high
}

// Depth snapshots both sides without touching book state.
func (ob *OrderBook) Depth() Depth {
	return Depth{
		Symbol: ob.symbol,
		Bids:   snapshotLadder(ob.bids),
		Asks:   snapshotLadder(ob.asks),
	}
}

func snapshotLadder(l *ladder) []LevelSnapshot {
	prices := l.prices()
	out := make([]LevelSnapshot, 0, len(prices))
	for _, p := range prices {
		lvl := l.levels[p]
		out = append(out, LevelSnapshot{
			Price:  p,
			Qty:    lvl.TotalQty(),
			Orders: lvl.Orders(),
		})
	}
	return out
}

// RestingQty sums the quantity resting on one side.
func (d Depth) RestingQty(s Side) int64 {
	levels := d.Bids
	if s == Sell {
		levels = d.Asks
	}
	var total int64
	for _, l := range levels {
		total += l.Qty
	}
	return total
}
