// Package sequence hands out order ids and arrival timestamps.
// A Generator is passed to whoever builds orders; the book never owns one.
package sequence

import (
	"sync/atomic"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
	"github.com/uhyunpark/matchcore/pkg/util"
)

const (
	DefaultFirstOrderID   uint64 = 1000
	DefaultFirstTimestamp uint64 = 1_700_000_000_000 // unix ms
	DefaultTimestampStep  uint64 = 10
)

// Generator issues strictly increasing order ids and timestamps.
type Generator struct {
	nextID atomic.Uint64
	nextTS atomic.Uint64
	step   uint64
}

func NewGenerator(firstID, firstTimestamp, step uint64) *Generator {
	if step == 0 {
		step = 1
	}
	g := &Generator{step: step}
	g.nextID.Store(firstID)
	g.nextTS.Store(firstTimestamp)
	return g
}

// NewDefaultGenerator starts at id 1000 and timestamp 1_700_000_000_000,
// advancing the timestamp by 10 per call.
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultFirstOrderID, DefaultFirstTimestamp, DefaultTimestampStep)
}

// NewGeneratorFromClock seeds the timestamp counter from clock. Subsequent
// timestamps still advance by step, so they stay strictly increasing.
func NewGeneratorFromClock(firstID uint64, clock util.Clock, step uint64) *Generator {
	return NewGenerator(firstID, uint64(clock.Now().UnixMilli()), step)
}

func (g *Generator) NextOrderID() orderbook.OrderID {
	return orderbook.OrderID(g.nextID.Add(1) - 1)
}

func (g *Generator) NextTimestamp() uint64 {
	return g.nextTS.Add(g.step) - g.step
}

// NewOrder builds a limit order stamped with a fresh id and timestamp.
func (g *Generator) NewOrder(symbol string, side orderbook.Side, price, qty int64) orderbook.Order {
	return orderbook.Order{
		ID:        g.NextOrderID(),
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Qty:       qty,
		Timestamp: g.NextTimestamp(),
	}
}
