package storage

import (
	"sync"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
)

// TradeTape is the running trade history across all symbols, in execution
// order. Books never write to it; the registry appends each Submit's trades.
type TradeTape interface {
	Append(trades ...orderbook.Trade) error
	// All returns every trade, oldest first.
	All() ([]orderbook.Trade, error)
	// Recent returns up to limit trades for symbol, newest first.
	Recent(symbol string, limit int) ([]orderbook.Trade, error)
	Len() int
	Close() error
}

// MemoryTape is a TradeTape backed by a slice.
type MemoryTape struct {
	mu     sync.RWMutex
	trades []orderbook.Trade
}

// NewMemoryTape returns an empty in-memory tape.
func NewMemoryTape() *MemoryTape {
	return &MemoryTape{}
}

func (t *MemoryTape) Append(trades ...orderbook.Trade) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trades = append(t.trades, trades...)
	return nil
}

func (t *MemoryTape) All() ([]orderbook.Trade, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]orderbook.Trade, len(t.trades))
	copy(out, t.trades)
	return out, nil
}

func (t *MemoryTape) Recent(symbol string, limit int) ([]orderbook.Trade, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []orderbook.Trade
	for i := len(t.trades) - 1; i >= 0 && len(out) < limit; i-- {
		if t.trades[i].Symbol == symbol {
			out = append(out, t.trades[i])
		}
	}
	return out, nil
}

func (t *MemoryTape) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.trades)
}

func (t *MemoryTape) Close() error { return nil }
