package market

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
)

// Metrics are collected in-process only. Whoever owns the Registerer
// decides whether and how to expose them.
type Metrics struct {
	OrdersSubmitted *prometheus.CounterVec
	OrdersRejected  *prometheus.CounterVec
	Trades          *prometheus.CounterVec
	TradedQty       *prometheus.CounterVec
	Cancels         *prometheus.CounterVec
	RestingOrders   *prometheus.GaugeVec
	SubmitLatencyUs prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_submitted_total", Help: "Orders accepted into a book"}, []string{"symbol", "side"}),
		OrdersRejected:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orders_rejected_total", Help: "Orders rejected before matching"}, []string{"reason"}),
		Trades:          prometheus.NewCounterVec(prometheus.CounterOpts{Name: "trades_total", Help: "Fills executed"}, []string{"symbol"}),
		TradedQty:       prometheus.NewCounterVec(prometheus.CounterOpts{Name: "traded_quantity_total", Help: "Lots executed"}, []string{"symbol"}),
		Cancels:         prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cancels_total", Help: "Cancel requests by outcome"}, []string{"symbol", "result"}),
		RestingOrders:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "resting_orders", Help: "Orders resting per book"}, []string{"symbol"}),
		SubmitLatencyUs: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "submit_latency_us", Help: "Time spent matching one order", Buckets: prometheus.ExponentialBuckets(1, 2, 16)}),
	}
	if reg != nil {
		reg.MustRegister(m.OrdersSubmitted, m.OrdersRejected, m.Trades, m.TradedQty, m.Cancels, m.RestingOrders, m.SubmitLatencyUs)
	}
	return m
}

func (m *Metrics) observeSubmit(o orderbook.Order, trades []orderbook.Trade, resting int, took time.Duration) {
	if m == nil {
		return
	}
	m.OrdersSubmitted.WithLabelValues(o.Symbol, o.Side.String()).Inc()
	m.Trades.WithLabelValues(o.Symbol).Add(float64(len(trades)))
	var qty int64
	for _, t := range trades {
		qty += t.Qty
	}
	m.TradedQty.WithLabelValues(o.Symbol).Add(float64(qty))
	m.RestingOrders.WithLabelValues(o.Symbol).Set(float64(resting))
	m.SubmitLatencyUs.Observe(float64(took.Microseconds()))
}

func (m *Metrics) observeReject(err error) {
	if m == nil {
		return
	}
	m.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
}

func (m *Metrics) observeCancel(symbol string, found bool, resting int) {
	if m == nil {
		return
	}
	result := "not_found"
	if found {
		result = "cancelled"
	}
	m.Cancels.WithLabelValues(symbol, result).Inc()
	m.RestingOrders.WithLabelValues(symbol).Set(float64(resting))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInvalidSide):
		return "invalid_side"
	case errors.Is(err, ErrSymbolMismatch):
		return "symbol_mismatch"
	case errors.Is(err, ErrMarketHalted):
		return "market_halted"
	case errors.Is(err, ErrDuplicateOrderID):
		return "duplicate_order_id"
	default:
		return "other"
	}
}
