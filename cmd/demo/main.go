package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/uhyunpark/matchcore/params"
	"github.com/uhyunpark/matchcore/pkg/app/core/market"
	"github.com/uhyunpark/matchcore/pkg/app/core/orderbook"
	"github.com/uhyunpark/matchcore/pkg/app/core/sequence"
	"github.com/uhyunpark/matchcore/pkg/render"
	"github.com/uhyunpark/matchcore/pkg/storage"
	"github.com/uhyunpark/matchcore/pkg/util"
)

func main() {
	// Load config from .env file, MATCHCORE_CONFIG yaml and environment variables
	cfg, err := params.LoadFromEnv("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.Level, cfg.Log.File)
	} else {
		logger, err = util.NewLogger(cfg.Log.Level)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	sugar := logger.Sugar()

	code := 0
	if err := run(cfg, sugar); err != nil {
		sugar.Errorw("demo_failed", "err", err)
		code = 1
	}
	// Sync on a console sink reports EINVAL on some platforms
	if err := logger.Sync(); err != nil && cfg.Log.File != "" {
		fmt.Fprintf(os.Stderr, "logger sync: %v\n", err)
	}
	os.Exit(code)
}

// run wires the registry from cfg and plays the demo. The tape is closed
// on every return path.
func run(cfg params.Config, sugar *zap.SugaredLogger) (err error) {
	tape, err := newTape(cfg.Tape)
	if err != nil {
		return fmt.Errorf("tape init (%s): %w", cfg.Tape.Backend, err)
	}

	registry := market.NewRegistry(tape)
	registry.Logger = sugar
	registry.Metrics = market.NewMetrics(prometheus.NewRegistry())
	defer func() {
		if cerr := registry.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close registry: %w", cerr))
		}
	}()

	for _, mc := range cfg.Markets {
		m, err := market.NewMarket(mc.Symbol, mc.Base, mc.Quote, market.MarketParams{
			TickSize:      mc.TickSize,
			LotSize:       mc.LotSize,
			PriceDecimals: mc.PriceDecimals,
		})
		if err != nil {
			return fmt.Errorf("market %s: %w", mc.Symbol, err)
		}
		if err := registry.RegisterMarket(m); err != nil {
			return fmt.Errorf("register %s: %w", mc.Symbol, err)
		}
	}

	d := &demo{
		registry: registry,
		gen:      newGenerator(cfg.Sequence),
		symbol:   cfg.DemoSymbol,
		log:      sugar,
	}
	if err := d.run(); err != nil {
		return err
	}

	recent, err := registry.RecentTrades(cfg.DemoSymbol, cfg.Tape.RecentLimit)
	if err != nil {
		return fmt.Errorf("trade history: %w", err)
	}
	sugar.Infow("demo_finished",
		"symbol", cfg.DemoSymbol,
		"recent_trades", len(recent),
		"tape_backend", cfg.Tape.Backend)
	return nil
}

func newTape(cfg params.Tape) (storage.TradeTape, error) {
	switch cfg.Backend {
	case "pebble":
		return storage.NewPebbleTape()
	case "memory":
		return storage.NewMemoryTape(), nil
	default:
		return nil, fmt.Errorf("unknown tape backend %q", cfg.Backend)
	}
}

func newGenerator(cfg params.Sequence) *sequence.Generator {
	if cfg.FirstTimestamp == 0 {
		return sequence.NewGeneratorFromClock(cfg.FirstOrderID, util.RealClock{}, cfg.TimestampStep)
	}
	return sequence.NewGenerator(cfg.FirstOrderID, cfg.FirstTimestamp, cfg.TimestampStep)
}

type demo struct {
	registry *market.Registry
	gen      *sequence.Generator
	symbol   string
	log      *zap.SugaredLogger
}

func (d *demo) submit(side orderbook.Side, price, qty int64) (orderbook.Order, error) {
	o := d.gen.NewOrder(d.symbol, side, price, qty)
	fmt.Printf("\n--- New Incoming Order ---\nProcessing: %s\n", o)
	trades, err := d.registry.Submit(d.symbol, o)
	if err != nil {
		return o, err
	}
	return o, render.Fills(os.Stdout, trades)
}

func (d *demo) cancel(id orderbook.OrderID) error {
	fmt.Printf("\n--- Attempting Cancellation (ID: %d) ---\n", id)
	ok, err := d.registry.Cancel(d.symbol, id)
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("Cancellation successful for ID %d.\n", id)
	} else {
		fmt.Printf("Order ID %d not found in book.\n", id)
	}
	return nil
}

func (d *demo) printBook() error {
	depth, err := d.registry.Depth(d.symbol)
	if err != nil {
		return err
	}
	m, err := d.registry.Market(d.symbol)
	if err != nil {
		return err
	}
	return render.Book(os.Stdout, depth, m.FormatPrice)
}

func (d *demo) run() error {
	fmt.Printf("1. Establishing Initial %s Order Book\n", d.symbol)
	seed := []struct {
		side       orderbook.Side
		price, qty int64
	}{
		{orderbook.Sell, 50020, 10},
		{orderbook.Sell, 50050, 5},
		{orderbook.Sell, 50020, 5},
		{orderbook.Buy, 49980, 20},
		{orderbook.Buy, 49950, 15},
		{orderbook.Buy, 49980, 10},
	}
	var partial orderbook.OrderID
	for _, s := range seed {
		o, err := d.submit(s.side, s.price, s.qty)
		if err != nil {
			return err
		}
		if s.side == orderbook.Buy && s.price == 49950 {
			partial = o.ID
		}
	}
	if err := d.printBook(); err != nil {
		return err
	}

	fmt.Println("2. Test Matching (Incoming Buy Order)")
	if _, err := d.submit(orderbook.Buy, 50020, 15); err != nil {
		return err
	}
	if err := d.printBook(); err != nil {
		return err
	}

	fmt.Println("3. Test Matching (Incoming Sell Order - Price Crossing)")
	if _, err := d.submit(orderbook.Sell, 49900, 35); err != nil {
		return err
	}
	if err := d.printBook(); err != nil {
		return err
	}

	fmt.Printf("4. Test Cancellation of Remaining Order (ID %d)\n", partial)
	if err := d.cancel(partial); err != nil {
		return err
	}
	if err := d.printBook(); err != nil {
		return err
	}

	fmt.Println("5. Test Order with No Match (Resting Order)")
	if _, err := d.submit(orderbook.Sell, 50500, 50); err != nil {
		return err
	}
	if err := d.printBook(); err != nil {
		return err
	}

	trades, err := d.registry.Trades()
	if err != nil {
		return err
	}
	d.log.Infow("trade_history", "count", len(trades))
	return render.Trades(os.Stdout, trades)
}
