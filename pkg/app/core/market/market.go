package market

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
)

// MarketStatus defines the trading status of a market
type MarketStatus int8

const (
	Active MarketStatus = iota // Trading enabled
	Paused                     // Trading halted; cancels still accepted
)

func (ms MarketStatus) String() string {
	switch ms {
	case Active:
		return "Active"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Market holds the static parameters of one symbol.
type Market struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string
	Status     MarketStatus

	// All prices are integer ticks and must be a multiple of TickSize.
	TickSize int64
	// All quantities are integer lots and must be a multiple of LotSize.
	LotSize int64
	// PriceDecimals is how many decimal places one tick unit carries when
	// rendered in quote currency (0 = ticks are whole units).
	PriceDecimals int32
}

// MarketParams separates config from the runtime Market struct
type MarketParams struct {
	TickSize      int64
	LotSize       int64
	PriceDecimals int32
}

// DefaultParams accepts any positive integer price and quantity.
var DefaultParams = MarketParams{TickSize: 1, LotSize: 1}

// NewMarket creates a new market with validation
func NewMarket(symbol, baseAsset, quoteAsset string, params MarketParams) (*Market, error) {
	m := &Market{
		Symbol:        symbol,
		BaseAsset:     baseAsset,
		QuoteAsset:    quoteAsset,
		Status:        Active,
		TickSize:      params.TickSize,
		LotSize:       params.LotSize,
		PriceDecimals: params.PriceDecimals,
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market params: %w", err)
	}
	return m, nil
}

// Validate checks market parameter sanity
func (m *Market) Validate() error {
	if m.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if m.TickSize <= 0 {
		return fmt.Errorf("tick size must be positive")
	}
	if m.LotSize <= 0 {
		return fmt.Errorf("lot size must be positive")
	}
	if m.PriceDecimals < 0 {
		return fmt.Errorf("price decimals cannot be negative")
	}
	return nil
}

// ValidateOrder rejects orders the matching core must never see.
func (m *Market) ValidateOrder(o orderbook.Order) error {
	if o.Symbol != m.Symbol {
		return fmt.Errorf("%w: order for %q routed to %q", ErrSymbolMismatch, o.Symbol, m.Symbol)
	}
	if m.Status != Active {
		return fmt.Errorf("%w: %s is %s", ErrMarketHalted, m.Symbol, m.Status)
	}
	if !o.Side.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSide, int8(o.Side))
	}
	if o.Price <= 0 {
		return fmt.Errorf("%w: price must be positive, got %d", ErrInvalidPrice, o.Price)
	}
	if o.Price%m.TickSize != 0 {
		return fmt.Errorf("%w: price %d not a multiple of tick size %d", ErrInvalidPrice, o.Price, m.TickSize)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, o.Qty)
	}
	if o.Qty%m.LotSize != 0 {
		return fmt.Errorf("%w: quantity %d not a multiple of lot size %d", ErrInvalidQuantity, o.Qty, m.LotSize)
	}
	return nil
}

// FormatPrice renders a tick price in quote units, e.g. 5002050 with two
// decimals becomes "50020.50".
func (m *Market) FormatPrice(ticks int64) string {
	return decimal.New(ticks, -m.PriceDecimals).StringFixed(m.PriceDecimals)
}
