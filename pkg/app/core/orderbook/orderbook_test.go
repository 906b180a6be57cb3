package orderbook

import (
	"reflect"
	"testing"
)

const sym = "BTC-USD"

func limit(id OrderID, side Side, price, qty int64) Order {
	return Order{ID: id, Symbol: sym, Side: side, Price: price, Qty: qty, Timestamp: uint64(id) * 10}
}

func mustVerify(t *testing.T, ob *OrderBook) {
	t.Helper()
	if err := ob.Verify(); err != nil {
		t.Fatalf("invariant broken: %v", err)
	}
}

// seedBook builds the reference book:
// asks 50020x10 (1000), 50050x5 (1001), 50020x5 (1002)
// bids 49980x20 (1003), 49950x15 (1004), 49980x10 (1005)
func seedBook(t *testing.T) *OrderBook {
	t.Helper()
	ob := NewOrderBook(sym)
	seed := []Order{
		limit(1000, Sell, 50020, 10),
		limit(1001, Sell, 50050, 5),
		limit(1002, Sell, 50020, 5),
		limit(1003, Buy, 49980, 20),
		limit(1004, Buy, 49950, 15),
		limit(1005, Buy, 49980, 10),
	}
	for _, o := range seed {
		if trades := ob.Submit(o); len(trades) != 0 {
			t.Fatalf("seed order %d traded: %v", o.ID, trades)
		}
	}
	mustVerify(t, ob)
	return ob
}

func TestSubmit_RestsWithoutLiquidity(t *testing.T) {
	ob := NewOrderBook(sym)
	trades := ob.Submit(limit(1, Buy, 100, 5))
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %v", trades)
	}
	if bid, ok := ob.BestBid(); !ok || bid != 100 {
		t.Errorf("best bid = %d, %v; want 100, true", bid, ok)
	}
	if _, ok := ob.BestAsk(); ok {
		t.Error("expected empty ask side")
	}
	if ob.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ob.Len())
	}
	mustVerify(t, ob)
}

func TestSubmit_SeededDepth(t *testing.T) {
	ob := seedBook(t)
	d := ob.Depth()

	if len(d.Asks) != 2 || d.Asks[0].Price != 50020 || d.Asks[1].Price != 50050 {
		t.Fatalf("asks not sorted low to high: %+v", d.Asks)
	}
	if len(d.Bids) != 2 || d.Bids[0].Price != 49980 || d.Bids[1].Price != 49950 {
		t.Fatalf("bids not sorted high to low: %+v", d.Bids)
	}
	if d.Asks[0].Qty != 15 || len(d.Asks[0].Orders) != 2 {
		t.Errorf("ask 50020: qty %d orders %d, want 15 and 2", d.Asks[0].Qty, len(d.Asks[0].Orders))
	}
	if d.Asks[0].Orders[0].ID != 1000 || d.Asks[0].Orders[1].ID != 1002 {
		t.Errorf("ask 50020 not FIFO: %v", d.Asks[0].Orders)
	}
	if d.Bids[0].Qty != 30 {
		t.Errorf("bid 49980 qty = %d, want 30", d.Bids[0].Qty)
	}
	if got := d.RestingQty(Buy); got != 45 {
		t.Errorf("resting bid qty = %d, want 45", got)
	}
}

func TestSubmit_BuyCrossesTwoAsksAtSamePrice(t *testing.T) {
	ob := seedBook(t)

	trades := ob.Submit(limit(1006, Buy, 50020, 15))
	want := []Trade{
		{BuyOrderID: 1006, SellOrderID: 1000, Symbol: sym, Price: 50020, Qty: 10},
		{BuyOrderID: 1006, SellOrderID: 1002, Symbol: sym, Price: 50020, Qty: 5},
	}
	if !reflect.DeepEqual(trades, want) {
		t.Fatalf("trades = %v\nwant %v", trades, want)
	}
	if _, ok := ob.Lookup(1006); ok {
		t.Error("fully filled taker must not rest")
	}
	ask, _ := ob.BestAsk()
	if ask != 50050 {
		t.Errorf("best ask = %d, want 50050", ask)
	}
	if o, ok := ob.Lookup(1001); !ok || o.Qty != 5 {
		t.Errorf("ask 1001 = %+v, %v; want untouched qty 5", o, ok)
	}
	mustVerify(t, ob)
}

func TestSubmit_SellWalksBidsAndPartiallyFills(t *testing.T) {
	ob := seedBook(t)
	ob.Submit(limit(1006, Buy, 50020, 15))

	trades := ob.Submit(limit(1007, Sell, 49900, 35))
	want := []Trade{
		{BuyOrderID: 1003, SellOrderID: 1007, Symbol: sym, Price: 49980, Qty: 20},
		{BuyOrderID: 1005, SellOrderID: 1007, Symbol: sym, Price: 49980, Qty: 10},
		{BuyOrderID: 1004, SellOrderID: 1007, Symbol: sym, Price: 49950, Qty: 5},
	}
	if !reflect.DeepEqual(trades, want) {
		t.Fatalf("trades = %v\nwant %v", trades, want)
	}

	o, ok := ob.Lookup(1004)
	if !ok || o.Qty != 10 {
		t.Fatalf("bid 1004 = %+v, %v; want 10 remaining", o, ok)
	}
	if bid, _ := ob.BestBid(); bid != 49950 {
		t.Errorf("best bid = %d, want 49950", bid)
	}
	if _, ok := ob.Lookup(1007); ok {
		t.Error("fully filled taker must not rest")
	}
	mustVerify(t, ob)
}

func TestCancel_PrunesLevelAndFailsSecondTime(t *testing.T) {
	ob := seedBook(t)
	ob.Submit(limit(1006, Buy, 50020, 15))
	ob.Submit(limit(1007, Sell, 49900, 35))

	if !ob.Cancel(1004) {
		t.Fatal("first cancel of 1004 should succeed")
	}
	if _, ok := ob.BestBid(); ok {
		t.Error("bid side should be empty after cancelling the last bid")
	}
	if len(ob.Depth().Bids) != 0 {
		t.Error("49950 level should be pruned")
	}
	if ob.Cancel(1004) {
		t.Error("second cancel of 1004 should report not found")
	}
	mustVerify(t, ob)
}

func TestCancel_UnknownIDLeavesBookUntouched(t *testing.T) {
	ob := seedBook(t)
	before := ob.Depth()
	if ob.Cancel(42) {
		t.Fatal("cancel of unknown id reported success")
	}
	if !reflect.DeepEqual(before, ob.Depth()) {
		t.Error("failed cancel mutated the book")
	}
}

func TestCancel_MiddleOfLevelKeepsFIFO(t *testing.T) {
	ob := NewOrderBook(sym)
	ob.Submit(limit(1, Sell, 100, 1))
	ob.Submit(limit(2, Sell, 100, 1))
	ob.Submit(limit(3, Sell, 100, 1))

	if !ob.Cancel(2) {
		t.Fatal("cancel failed")
	}
	trades := ob.Submit(limit(4, Buy, 100, 2))
	if len(trades) != 2 || trades[0].SellOrderID != 1 || trades[1].SellOrderID != 3 {
		t.Fatalf("trades = %v, want fills against 1 then 3", trades)
	}
	mustVerify(t, ob)
}

func TestSubmit_PartiallyFilledMakerKeepsPriority(t *testing.T) {
	ob := NewOrderBook(sym)
	ob.Submit(limit(1, Sell, 100, 10))
	ob.Submit(limit(2, Sell, 100, 10))

	ob.Submit(limit(3, Buy, 100, 4))
	trades := ob.Submit(limit(4, Buy, 100, 8))

	want := []Trade{
		{BuyOrderID: 4, SellOrderID: 1, Symbol: sym, Price: 100, Qty: 6},
		{BuyOrderID: 4, SellOrderID: 2, Symbol: sym, Price: 100, Qty: 2},
	}
	if !reflect.DeepEqual(trades, want) {
		t.Fatalf("trades = %v\nwant %v", trades, want)
	}
	mustVerify(t, ob)
}

func TestSubmit_TradesAtMakerPrice(t *testing.T) {
	tests := []struct {
		name  string
		maker Order
		taker Order
		price int64
	}{
		{"buy lifts cheaper ask", limit(1, Sell, 95, 3), limit(2, Buy, 100, 3), 95},
		{"sell hits richer bid", limit(1, Buy, 105, 3), limit(2, Sell, 100, 3), 105},
		{"equal prices", limit(1, Buy, 100, 3), limit(2, Sell, 100, 3), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ob := NewOrderBook(sym)
			ob.Submit(tt.maker)
			trades := ob.Submit(tt.taker)
			if len(trades) != 1 {
				t.Fatalf("expected 1 trade, got %v", trades)
			}
			if trades[0].Price != tt.price {
				t.Errorf("price = %d, want %d", trades[0].Price, tt.price)
			}
			if ob.Len() != 0 {
				t.Errorf("Len() = %d, want 0", ob.Len())
			}
		})
	}
}

func TestSubmit_NoCrossRestsBothSides(t *testing.T) {
	ob := NewOrderBook(sym)
	ob.Submit(limit(1, Buy, 99, 5))
	if trades := ob.Submit(limit(2, Sell, 100, 5)); len(trades) != 0 {
		t.Fatalf("unexpected trades %v", trades)
	}
	bid, _ := ob.BestBid()
	ask, _ := ob.BestAsk()
	if bid != 99 || ask != 100 {
		t.Errorf("bid/ask = %d/%d, want 99/100", bid, ask)
	}
	mustVerify(t, ob)
}

func TestSubmit_TakerRestsResidualAfterSweep(t *testing.T) {
	ob := NewOrderBook(sym)
	ob.Submit(limit(1, Sell, 100, 2))
	ob.Submit(limit(2, Sell, 101, 2))
	ob.Submit(limit(3, Sell, 110, 2))

	trades := ob.Submit(limit(4, Buy, 105, 10))
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %v", trades)
	}
	o, ok := ob.Lookup(4)
	if !ok || o.Qty != 6 || o.Price != 105 {
		t.Fatalf("resting taker = %+v, %v; want 6 @ 105", o, ok)
	}
	ask, _ := ob.BestAsk()
	if ask != 110 {
		t.Errorf("best ask = %d, want 110", ask)
	}
	mustVerify(t, ob)
}

func TestCancel_BrokenIndexPanics(t *testing.T) {
	ob := NewOrderBook(sym)
	ob.Submit(limit(1, Buy, 100, 1))
	ob.index[99] = indexEntry{side: Buy, price: 100}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on index/book mismatch")
		}
	}()
	ob.Cancel(99)
}

func TestOrderAndTradeString(t *testing.T) {
	o := Order{ID: 1000, Symbol: sym, Side: Sell, Price: 50020, Qty: 10, Timestamp: 1700000000000}
	if got, want := o.String(), "ID: 1000, Sell BTC-USD @ 50020 (Qty: 10) | TS: 1700000000000"; got != want {
		t.Errorf("Order.String() = %q, want %q", got, want)
	}
	tr := Trade{BuyOrderID: 1006, SellOrderID: 1000, Symbol: sym, Price: 50020, Qty: 10}
	if got, want := tr.String(), "BTC-USD | Executed 10 @ 50020 | Buy ID: 1006, Sell ID: 1000"; got != want {
		t.Errorf("Trade.String() = %q, want %q", got, want)
	}
}
