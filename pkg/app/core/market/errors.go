package market

import "errors"

// Rejections raised at the registry boundary. The matching core itself
// never validates orders.
var (
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidSide      = errors.New("invalid side")
	ErrSymbolMismatch   = errors.New("symbol mismatch")
	ErrMarketHalted     = errors.New("market halted")
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrDuplicateMarket  = errors.New("market already registered")
	ErrDuplicateOrderID = errors.New("order id already resting")
)
