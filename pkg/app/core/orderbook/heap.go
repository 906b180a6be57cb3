package orderbook

// priceHeap implements heap.Interface over the prices of one ladder.
// The top is the best price for that side: highest for bids, lowest for asks.
// pos tracks each price's slot so an emptied level can be removed in O(log n).
// Use container/heap to manipulate it (Push, Pop, Remove, Fix).
type priceHeap struct {
	side   Side
	prices []int64
	pos    map[int64]int
}

func newPriceHeap(side Side) *priceHeap {
	return &priceHeap{side: side, pos: make(map[int64]int)}
}

func (h *priceHeap) Len() int           { return len(h.prices) }
func (h *priceHeap) Less(i, j int) bool { return h.side.better(h.prices[i], h.prices[j]) }

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
	h.pos[h.prices[i]] = i
	h.pos[h.prices[j]] = j
}

func (h *priceHeap) Push(x any) {
	p := x.(int64)
	h.pos[p] = len(h.prices)
	h.prices = append(h.prices, p)
}

func (h *priceHeap) Pop() any {
	old := h.prices
	n := len(old)
	p := old[n-1]
	h.prices = old[:n-1]
	delete(h.pos, p)
	return p
}

// Peek returns the top price without removing it.
func (h *priceHeap) Peek() (int64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// indexOf returns the heap slot holding price, or -1.
func (h *priceHeap) indexOf(price int64) int {
	if i, ok := h.pos[price]; ok {
		return i
	}
	return -1
}
