package orderbook

import (
	"container/heap"
	"testing"
)

func TestPriceLevel_FIFOAndPushFront(t *testing.T) {
	lvl := newPriceLevel(100)
	a := &Order{ID: 1, Qty: 3}
	b := &Order{ID: 2, Qty: 4}
	lvl.PushBack(a)
	lvl.PushBack(b)

	if lvl.TotalQty() != 7 || lvl.Len() != 2 {
		t.Fatalf("total/len = %d/%d, want 7/2", lvl.TotalQty(), lvl.Len())
	}
	first := lvl.PopFront()
	if first.ID != 1 {
		t.Fatalf("PopFront = %d, want 1", first.ID)
	}
	first.Qty = 1
	lvl.PushFront(first)
	if lvl.Front().ID != 1 {
		t.Errorf("Front = %d, want 1 after PushFront", lvl.Front().ID)
	}
	if lvl.TotalQty() != 5 {
		t.Errorf("TotalQty = %d, want 5", lvl.TotalQty())
	}
}

func TestPriceLevel_Remove(t *testing.T) {
	lvl := newPriceLevel(100)
	for id := OrderID(1); id <= 3; id++ {
		lvl.PushBack(&Order{ID: id, Qty: 1})
	}
	if _, ok := lvl.Remove(7); ok {
		t.Error("removed an order that is not queued")
	}
	if o, ok := lvl.Remove(2); !ok || o.ID != 2 {
		t.Fatalf("Remove(2) = %v, %v", o, ok)
	}
	got := lvl.Orders()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("orders after remove = %v", got)
	}
	if lvl.TotalQty() != 2 {
		t.Errorf("TotalQty = %d, want 2", lvl.TotalQty())
	}
}

func TestPriceLevel_EmptyFront(t *testing.T) {
	if newPriceLevel(1).Front() != nil {
		t.Error("expected nil front on empty level")
	}
}

func TestPriceHeap_BestAndRemove(t *testing.T) {
	bids := newPriceHeap(Buy)
	asks := newPriceHeap(Sell)
	for _, p := range []int64{50, 70, 60} {
		heap.Push(bids, p)
		heap.Push(asks, p)
	}
	if p, _ := bids.Peek(); p != 70 {
		t.Errorf("bid top = %d, want 70", p)
	}
	if p, _ := asks.Peek(); p != 50 {
		t.Errorf("ask top = %d, want 50", p)
	}

	heap.Remove(bids, bids.indexOf(70))
	if p, _ := bids.Peek(); p != 60 {
		t.Errorf("bid top after remove = %d, want 60", p)
	}
	if bids.indexOf(70) != -1 {
		t.Error("removed price still tracked")
	}
}

func TestPriceHeap_EmptyPeek(t *testing.T) {
	if _, ok := newPriceHeap(Sell).Peek(); ok {
		t.Error("expected empty heap")
	}
}

func TestLadder_UpsertDropAndPrices(t *testing.T) {
	l := newLadder(Sell)
	l.upsert(102)
	l.upsert(100)
	same := l.upsert(101)
	if l.upsert(101) != same {
		t.Error("upsert must return the existing level")
	}

	got := l.prices()
	if len(got) != 3 || got[0] != 100 || got[2] != 102 {
		t.Fatalf("prices = %v, want ascending", got)
	}
	l.drop(100)
	l.drop(999)
	if b := l.best(); b == nil || b.Price != 101 {
		t.Errorf("best after drop = %v, want 101", b)
	}
	if l.depth() != 2 {
		t.Errorf("depth = %d, want 2", l.depth())
	}
}

func TestSide(t *testing.T) {
	if Buy.Opposite() != Sell || Sell.Opposite() != Buy {
		t.Error("Opposite mismatch")
	}
	if !Buy.crosses(100, 100) || Buy.crosses(99, 100) {
		t.Error("buy crossing comparator wrong")
	}
	if !Sell.crosses(100, 100) || Sell.crosses(101, 100) {
		t.Error("sell crossing comparator wrong")
	}
	if Side(0).Valid() || Side(0).String() != "Side(0)" {
		t.Error("zero side should be invalid")
	}
}
