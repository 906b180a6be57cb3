package orderbook

import "github.com/gammazero/deque"

// PriceLevel is the FIFO queue of resting orders at one price.
// The front is the oldest order and the next one to fill.
type PriceLevel struct {
	Price  int64
	orders deque.Deque[*Order]
	qty    int64 // aggregate resting quantity
}

func newPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// PushBack queues a newly resting order behind everything already here.
func (l *PriceLevel) PushBack(o *Order) {
	l.orders.PushBack(o)
	l.qty += o.Qty
}

// PushFront puts a partially filled maker back ahead of later arrivals.
func (l *PriceLevel) PushFront(o *Order) {
	l.orders.PushFront(o)
	l.qty += o.Qty
}

// PopFront removes and returns the oldest order. The level must not be empty.
func (l *PriceLevel) PopFront() *Order {
	o := l.orders.PopFront()
	l.qty -= o.Qty
	return o
}

// Front returns the oldest order, or nil for an empty level.
func (l *PriceLevel) Front() *Order {
	if l.orders.Len() == 0 {
		return nil
	}
	return l.orders.Front()
}

// Remove takes the order with the given id out of the queue.
// Cost is linear in the number of orders at this price.
func (l *PriceLevel) Remove(id OrderID) (*Order, bool) {
	i := l.orders.Index(func(o *Order) bool { return o.ID == id })
	if i < 0 {
		return nil, false
	}
	o := l.orders.Remove(i)
	l.qty -= o.Qty
	return o, true
}

func (l *PriceLevel) Len() int { return l.orders.Len() }

func (l *PriceLevel) Empty() bool { return l.orders.Len() == 0 }

// TotalQty is the sum of remaining quantity over all orders at this price.
func (l *PriceLevel) TotalQty() int64 { return l.qty }

// Orders returns copies of the queued orders, oldest first.
func (l *PriceLevel) Orders() []Order {
	out := make([]Order, 0, l.orders.Len())
	for i := 0; i < l.orders.Len(); i++ {
		out = append(out, *l.orders.At(i))
	}
	return out
}
