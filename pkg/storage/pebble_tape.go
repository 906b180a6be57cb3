package storage

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
)

// PebbleTape keeps the trade history in a Pebble instance backed by an
// in-memory filesystem. Nothing reaches disk and nothing survives Close.
type PebbleTape struct {
	mu  sync.Mutex // serializes sequence assignment
	db  *pebble.DB
	seq uint64
}

func NewPebbleTape() (*PebbleTape, error) {
	db, err := pebble.Open("tape", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, fmt.Errorf("open trade tape: %w", err)
	}
	return &PebbleTape{db: db}, nil
}

func (t *PebbleTape) Close() error { return t.db.Close() }

// Append writes all trades in one batch so a Submit's fills land together.
func (t *PebbleTape) Append(trades ...orderbook.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.db.NewBatch()
	defer b.Close()

	seq := t.seq
	for _, tr := range trades {
		data, err := json.Marshal(tr)
		if err != nil {
			return fmt.Errorf("failed to marshal trade: %w", err)
		}
		seq++
		if err := b.Set(tradeKey(seq), data, nil); err != nil {
			return fmt.Errorf("failed to stage trade: %w", err)
		}
		if err := b.Set(symbolTradeKey(tr.Symbol, seq), data, nil); err != nil {
			return fmt.Errorf("failed to stage trade: %w", err)
		}
	}
	if err := b.Commit(pebble.NoSync); err != nil {
		return fmt.Errorf("failed to save trades: %w", err)
	}
	t.seq = seq
	return nil
}

func (t *PebbleTape) All() ([]orderbook.Trade, error) {
	prefix := []byte(prefixTrade)
	iter, err := t.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open iterator: %w", err)
	}
	defer iter.Close()

	var trades []orderbook.Trade
	for iter.First(); iter.Valid(); iter.Next() {
		var tr orderbook.Trade
		if err := json.Unmarshal(iter.Value(), &tr); err != nil {
			return nil, fmt.Errorf("failed to decode trade %q: %w", iter.Key(), err)
		}
		trades = append(trades, tr)
	}
	return trades, iter.Error()
}

// Recent loads the most recent limit trades for a symbol
func (t *PebbleTape) Recent(symbol string, limit int) ([]orderbook.Trade, error) {
	prefix := symbolTradePrefix(symbol)
	iter, err := t.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open iterator: %w", err)
	}
	defer iter.Close()

	var trades []orderbook.Trade
	for iter.Last(); iter.Valid() && len(trades) < limit; iter.Prev() {
		var tr orderbook.Trade
		if err := json.Unmarshal(iter.Value(), &tr); err != nil {
			return nil, fmt.Errorf("failed to decode trade %q: %w", iter.Key(), err)
		}
		trades = append(trades, tr)
	}
	return trades, iter.Error()
}

func (t *PebbleTape) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.seq)
}
