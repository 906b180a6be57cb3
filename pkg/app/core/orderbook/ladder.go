package orderbook

import (
	"container/heap"
	"sort"
)

// ladder is one side of the book: price levels keyed by price with the
// best price tracked by a heap.
type ladder struct {
	side   Side
	levels map[int64]*PriceLevel
	heap   *priceHeap
}

func newLadder(side Side) *ladder {
	h := newPriceHeap(side)
	heap.Init(h)
	return &ladder{
		side:   side,
		levels: make(map[int64]*PriceLevel),
		heap:   h,
	}
}

// best returns the level at the best price, or nil when the side is empty.
func (l *ladder) best() *PriceLevel {
	p, ok := l.heap.Peek()
	if !ok {
		return nil
	}
	return l.levels[p]
}

func (l *ladder) level(price int64) *PriceLevel {
	return l.levels[price]
}

// upsert returns the level at price, creating it if absent.
func (l *ladder) upsert(price int64) *PriceLevel {
	if lvl, ok := l.levels[price]; ok {
		return lvl
	}
	lvl := newPriceLevel(price)
	l.levels[price] = lvl
	heap.Push(l.heap, price)
	return lvl
}

// drop removes the price key. Callers only drop empty levels.
func (l *ladder) drop(price int64) {
	if _, ok := l.levels[price]; !ok {
		return
	}
	delete(l.levels, price)
	if i := l.heap.indexOf(price); i >= 0 {
		heap.Remove(l.heap, i)
	}
}

// pruneIfEmpty drops lvl when its last order has gone.
func (l *ladder) pruneIfEmpty(lvl *PriceLevel) {
	if lvl.Empty() {
		l.drop(lvl.Price)
	}
}

func (l *ladder) depth() int { return len(l.levels) }

// prices returns every price on this side, best first.
func (l *ladder) prices() []int64 {
	out := make([]int64, 0, len(l.levels))
	for p := range l.levels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return l.side.better(out[i], out[j]) })
	return out
}
