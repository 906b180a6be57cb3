package market

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
	"github.com/uhyunpark/matchcore/pkg/storage"
)

// bookEntry pairs a book with its market and the lock that makes it the
// single writer for that symbol.
type bookEntry struct {
	mu     sync.Mutex
	market *Market
	book   *orderbook.OrderBook
}

// Registry routes orders and cancels to one book per symbol and keeps the
// global trade history. Books for different symbols are matched in
// parallel; calls for the same symbol are serialized.
type Registry struct {
	mu    sync.RWMutex
	books map[string]*bookEntry // symbol -> book
	tape  storage.TradeTape

	Logger  *zap.SugaredLogger
	Metrics *Metrics
}

// NewRegistry creates an empty registry recording trades to tape.
// A nil tape means an in-memory slice.
func NewRegistry(tape storage.TradeTape) *Registry {
	if tape == nil {
		tape = storage.NewMemoryTape()
	}
	return &Registry{
		books:  make(map[string]*bookEntry),
		tape:   tape,
		Logger: zap.NewNop().Sugar(),
	}
}

func (r *Registry) log() *zap.SugaredLogger {
	if r.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return r.Logger
}

// RegisterMarket creates the book for m. It fails if the symbol already
// has a book.
func (r *Registry) RegisterMarket(m *Market) error {
	if m == nil {
		return fmt.Errorf("cannot register nil market")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid market params: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.books[m.Symbol]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMarket, m.Symbol)
	}
	r.books[m.Symbol] = &bookEntry{market: m, book: orderbook.NewOrderBook(m.Symbol)}
	r.log().Infow("market_registered", "symbol", m.Symbol, "tick_size", m.TickSize, "lot_size", m.LotSize)
	return nil
}

func (r *Registry) lookup(symbol string) (*bookEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.books[symbol]
	return e, ok
}

// getOrCreate returns the book for symbol, opening it with DefaultParams
// the first time the symbol is seen.
func (r *Registry) getOrCreate(symbol string) *bookEntry {
	if e, ok := r.lookup(symbol); ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.books[symbol]; ok {
		return e
	}
	m := &Market{
		Symbol:        symbol,
		Status:        Active,
		TickSize:      DefaultParams.TickSize,
		LotSize:       DefaultParams.LotSize,
		PriceDecimals: DefaultParams.PriceDecimals,
	}
	e := &bookEntry{market: m, book: orderbook.NewOrderBook(symbol)}
	r.books[symbol] = e
	r.log().Infow("book_created", "symbol", symbol)
	return e
}

// Submit validates o, matches it in the book for symbol and appends the
// resulting trades to the tape. Trades are returned oldest first.
//
// An order whose id is already resting is rejected with ErrDuplicateOrderID.
// If the tape append fails the book has still matched: the trades are
// returned together with the error and are missing from the history.
func (r *Registry) Submit(symbol string, o orderbook.Order) ([]orderbook.Trade, error) {
	if o.Symbol != symbol {
		err := fmt.Errorf("%w: order for %q routed to %q", ErrSymbolMismatch, o.Symbol, symbol)
		r.reject(o, err)
		return nil, err
	}

	e := r.getOrCreate(symbol)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.market.ValidateOrder(o); err != nil {
		r.reject(o, err)
		return nil, err
	}
	if _, dup := e.book.Lookup(o.ID); dup {
		err := fmt.Errorf("%w: %d", ErrDuplicateOrderID, o.ID)
		r.reject(o, err)
		return nil, err
	}

	start := time.Now()
	trades := e.book.Submit(o)
	took := time.Since(start)
	r.Metrics.observeSubmit(o, trades, e.book.Len(), took)

	for _, t := range trades {
		r.log().Infow("trade_executed",
			"symbol", t.Symbol,
			"price", t.Price,
			"qty", t.Qty,
			"buy_id", t.BuyOrderID,
			"sell_id", t.SellOrderID)
	}
	if rest, ok := e.book.Lookup(o.ID); ok {
		r.log().Infow("order_rested",
			"symbol", symbol,
			"id", o.ID,
			"side", o.Side.String(),
			"price", o.Price,
			"qty", rest.Qty)
	}

	if len(trades) > 0 {
		if err := r.tape.Append(trades...); err != nil {
			r.log().Errorw("trade_tape_append_failed", "symbol", symbol, "id", o.ID, "trades", len(trades), "err", err)
			return trades, fmt.Errorf("record trades for %s: %w", symbol, err)
		}
	}
	return trades, nil
}

func (r *Registry) reject(o orderbook.Order, err error) {
	r.Metrics.observeReject(err)
	r.log().Warnw("order_rejected", "symbol", o.Symbol, "id", o.ID, "err", err)
}

// Cancel removes a resting order. It returns (false, nil) when the order is
// not resting, and ErrUnknownSymbol when symbol has no book.
func (r *Registry) Cancel(symbol string, id orderbook.OrderID) (bool, error) {
	e, ok := r.lookup(symbol)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	found := e.book.Cancel(id)
	r.Metrics.observeCancel(symbol, found, e.book.Len())
	if found {
		r.log().Infow("order_cancelled", "symbol", symbol, "id", id)
	} else {
		r.log().Infow("cancel_not_found", "symbol", symbol, "id", id)
	}
	return found, nil
}

// Depth returns a snapshot of the book for symbol.
func (r *Registry) Depth(symbol string) (orderbook.Depth, error) {
	e, ok := r.lookup(symbol)
	if !ok {
		return orderbook.Depth{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Depth(), nil
}

// Market returns a copy of the parameters for symbol.
func (r *Registry) Market(symbol string) (Market, error) {
	e, ok := r.lookup(symbol)
	if !ok {
		return Market{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.market, nil
}

// SetStatus pauses or resumes trading on symbol. Cancels are accepted in
// either state.
func (r *Registry) SetStatus(symbol string, status MarketStatus) error {
	e, ok := r.lookup(symbol)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.market.Status = status
	r.log().Infow("market_status_changed", "symbol", symbol, "status", status.String())
	return nil
}

// Symbols lists every symbol with a book, sorted.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.books))
	for s := range r.books {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Trades returns the full trade history, oldest first.
func (r *Registry) Trades() ([]orderbook.Trade, error) {
	return r.tape.All()
}

// RecentTrades returns up to limit trades for symbol, newest first.
func (r *Registry) RecentTrades(symbol string, limit int) ([]orderbook.Trade, error) {
	return r.tape.Recent(symbol, limit)
}

func (r *Registry) Close() error {
	return r.tape.Close()
}
