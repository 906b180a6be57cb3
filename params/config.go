package params

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Log struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = stdout only
}

type Sequence struct {
	FirstOrderID   uint64 `yaml:"first_order_id"`
	FirstTimestamp uint64 `yaml:"first_timestamp"` // unix ms; 0 = seed from the wall clock
	TimestampStep  uint64 `yaml:"timestamp_step"`
}

type Tape struct {
	// Backend selects the trade history store: "memory" or "pebble".
	// Both live in memory only.
	Backend     string `yaml:"backend"`
	RecentLimit int    `yaml:"recent_limit"`
}

type Market struct {
	Symbol        string `yaml:"symbol"`
	Base          string `yaml:"base"`
	Quote         string `yaml:"quote"`
	TickSize      int64  `yaml:"tick_size"`
	LotSize       int64  `yaml:"lot_size"`
	PriceDecimals int32  `yaml:"price_decimals"`
}

type Config struct {
	Log      Log      `yaml:"log"`
	Sequence Sequence `yaml:"sequence"`
	Tape     Tape     `yaml:"tape"`
	Markets  []Market `yaml:"markets"`
	// DemoSymbol is the symbol the demo driver trades.
	DemoSymbol string `yaml:"demo_symbol"`
}

func Default() Config {
	return Config{
		Log: Log{Level: "info"},
		Sequence: Sequence{
			FirstOrderID:   1000,
			FirstTimestamp: 1_700_000_000_000,
			TimestampStep:  10,
		},
		Tape: Tape{
			Backend:     "memory",
			RecentLimit: 20,
		},
		Markets: []Market{
			{Symbol: "BTC-USD", Base: "BTC", Quote: "USD", TickSize: 1, LotSize: 1},
		},
		DemoSymbol: "BTC-USD",
	}
}

// LoadFile overlays a YAML file onto cfg.
func LoadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from defaults, an optional YAML file
// named by MATCHCORE_CONFIG, a .env file (if exists) and environment variables.
// Priority: ENV > .env file > YAML > defaults
func LoadFromEnv(envPath string) (Config, error) {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if path := os.Getenv("MATCHCORE_CONFIG"); path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Tape.Backend = getEnv("TAPE_BACKEND", cfg.Tape.Backend)
	cfg.DemoSymbol = getEnv("DEMO_SYMBOL", cfg.DemoSymbol)

	if v := os.Getenv("TAPE_RECENT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tape.RecentLimit = n
		}
	}
	if v := os.Getenv("SEQ_FIRST_ORDER_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Sequence.FirstOrderID = n
		}
	}
	if v := os.Getenv("SEQ_FIRST_TIMESTAMP"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Sequence.FirstTimestamp = n
		}
	}
	if v := os.Getenv("SEQ_TIMESTAMP_STEP"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Sequence.TimestampStep = n
		}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Tape.Backend {
	case "memory", "pebble":
	default:
		return fmt.Errorf("unknown tape backend %q", c.Tape.Backend)
	}
	if c.Tape.RecentLimit <= 0 {
		return fmt.Errorf("tape recent limit must be positive")
	}
	seen := make(map[string]struct{}, len(c.Markets))
	for _, m := range c.Markets {
		if _, dup := seen[m.Symbol]; dup {
			return fmt.Errorf("market %s configured twice", m.Symbol)
		}
		seen[m.Symbol] = struct{}{}
	}
	return nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
