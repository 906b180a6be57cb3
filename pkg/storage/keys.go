package storage

import "fmt"

// Trade tape key schema:
//
//   trade:<seq>                → Trade (global execution order)
//   sym:<len>:<symbol>:<seq>   → Trade (per-symbol scans)
//
// Sequence numbers are zero-padded (20 digits) for lexicographic sorting.
// The symbol is length-prefixed so one symbol's range never contains
// another symbol that extends it (BTC vs BTC:PERP).
const (
	prefixTrade  = "trade:"
	prefixSymbol = "sym:"
)

func tradeKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefixTrade, seq))
}

func symbolTradeKey(symbol string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", symbolTradePrefix(symbol), seq))
}

func symbolTradePrefix(symbol string) []byte {
	return []byte(fmt.Sprintf("%s%04d:%s:", prefixSymbol, len(symbol), symbol))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
