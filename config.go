package match

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultEventBufferSize sizes the event ring when the config leaves it
// unset.
const DefaultEventBufferSize = 65536

// SymbolConfig describes one tradable instrument. Tick and lot sizes
// are decimal strings ("0.01"); prices and sizes submitted through the
// exchange must be exact multiples.
type SymbolConfig struct {
	Name           string `yaml:"name"`
	TickSize       string `yaml:"tick_size"`
	LotSize        string `yaml:"lot_size"`
	MaxPriceLevels int32  `yaml:"max_price_levels"`
}

// Config is the process configuration, consumed once at construction
// and read-only afterwards.
type Config struct {
	Symbols         []SymbolConfig `yaml:"symbols"`
	EventBufferSize int            `yaml:"event_buffer_size"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns a single-symbol config usable without a file.
func DefaultConfig() Config {
	return Config{
		Symbols: []SymbolConfig{
			{Name: "AAPL", TickSize: "0.01", LotSize: "1", MaxPriceLevels: DefaultMaxPriceLevels},
		},
		EventBufferSize: DefaultEventBufferSize,
	}
}

// Validate checks the config and fills in defaults.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("config: no symbols configured")
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = DefaultEventBufferSize
	}

	seen := make(map[string]struct{}, len(c.Symbols))
	for i := range c.Symbols {
		sc := &c.Symbols[i]
		if sc.Name == "" {
			return fmt.Errorf("config: symbol %d has no name", i)
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("config: duplicate symbol %q: %w", sc.Name, ErrSymbolExists)
		}
		seen[sc.Name] = struct{}{}

		if sc.TickSize == "" {
			sc.TickSize = "0.01"
		}
		if sc.LotSize == "" {
			sc.LotSize = "1"
		}
		if sc.MaxPriceLevels <= 0 {
			sc.MaxPriceLevels = DefaultMaxPriceLevels
		}

		for _, field := range []struct{ name, value string }{
			{"tick_size", sc.TickSize},
			{"lot_size", sc.LotSize},
		} {
			d, err := decimal.NewFromString(field.value)
			if err != nil {
				return fmt.Errorf("config: symbol %q: bad %s: %w", sc.Name, field.name, err)
			}
			if d.Sign() <= 0 {
				return fmt.Errorf("config: symbol %q: %s must be positive", sc.Name, field.name)
			}
		}
	}
	return nil
}
