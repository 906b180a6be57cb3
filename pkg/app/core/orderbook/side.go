package orderbook

import "fmt"

// Side is the side of the book an order belongs to.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	default:
		return fmt.Sprintf("Side(%d)", int8(s))
	}
}

// Opposite returns the side an incoming order of side s trades against.
func (s Side) Opposite() Side {
	switch s {
	case Buy:
		return Sell
	case Sell:
		return Buy
	default:
		panic(fmt.Sprintf("orderbook: invalid side %d", int8(s)))
	}
}

// Valid reports whether s is one of the two defined sides.
func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// crosses reports whether an incoming order at price on side s can trade
// against resting liquidity quoted at best.
func (s Side) crosses(price, best int64) bool {
	switch s {
	case Buy:
		return price >= best
	case Sell:
		return price <= best
	default:
		panic(fmt.Sprintf("orderbook: invalid side %d", int8(s)))
	}
}

// better reports whether price a ranks ahead of price b on a ladder of side s.
func (s Side) better(a, b int64) bool {
	switch s {
	case Buy:
		return a > b
	case Sell:
		return a < b
	default:
		panic(fmt.Sprintf("orderbook: invalid side %d", int8(s)))
	}
}
