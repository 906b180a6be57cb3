package orderbook

import "fmt"

// OrderID identifies an order. IDs are unique among resting orders.
type OrderID uint64

// Order is a limit order. Qty is the remaining quantity and is the only
// field the book changes. Timestamp is an arrival marker for humans; time
// priority inside a level is queue position, never Timestamp.
type Order struct {
	ID        OrderID `json:"id"`
	Symbol    string  `json:"symbol"`
	Side      Side    `json:"side"`
	Price     int64   `json:"price"` // integer ticks
	Qty       int64   `json:"qty"`   // integer lots
	Timestamp uint64  `json:"timestamp"`
}

func (o Order) String() string {
	return fmt.Sprintf("ID: %d, %s %s @ %d (Qty: %d) | TS: %d",
		o.ID, o.Side, o.Symbol, o.Price, o.Qty, o.Timestamp)
}

// Trade records one fill. Price is always the resting order's price.
type Trade struct {
	BuyOrderID  OrderID `json:"buyOrderId"`
	SellOrderID OrderID `json:"sellOrderId"`
	Symbol      string  `json:"symbol"`
	Price       int64   `json:"price"`
	Qty         int64   `json:"qty"`
}

func (t Trade) String() string {
	return fmt.Sprintf("%s | Executed %d @ %d | Buy ID: %d, Sell ID: %d",
		t.Symbol, t.Qty, t.Price, t.BuyOrderID, t.SellOrderID)
}

// newTrade assigns buy/sell ids according to which side was the taker.
func newTrade(taker, maker *Order, qty int64) Trade {
	t := Trade{Symbol: taker.Symbol, Price: maker.Price, Qty: qty}
	switch taker.Side {
	case Buy:
		t.BuyOrderID, t.SellOrderID = taker.ID, maker.ID
	case Sell:
		t.BuyOrderID, t.SellOrderID = maker.ID, taker.ID
	default:
		panic(fmt.Sprintf("orderbook: invalid side %d", int8(taker.Side)))
	}
	return t
}
