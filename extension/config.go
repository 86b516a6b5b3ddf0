package extension

import (
	"errors"
	"fmt"
	"time"

	fungible "github.com/xraph/fungible"
	"github.com/xraph/fungible/types"
)

// Store backends the extension can open on its own. Database-backed stores
// are passed in with WithStore.
const (
	StoreMemory = "memory"
	StoreBolt   = "bolt"
)

// Config holds the fungible extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.fungible" or "fungible" keys).
type Config struct {
	// Name is the human-readable token name.
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Symbol is the ticker symbol.
	Symbol string `json:"symbol" mapstructure:"symbol" yaml:"symbol"`

	// Decimals is the display scale of the token (default: 18).
	Decimals uint8 `json:"decimals" mapstructure:"decimals" yaml:"decimals"`

	// TotalSupply is the fixed issuance as a base-10 integer in smallest units.
	TotalSupply string `json:"total_supply" mapstructure:"total_supply" yaml:"total_supply"`

	// InitialHolder is the hex address credited with the whole supply.
	InitialHolder string `json:"initial_holder" mapstructure:"initial_holder" yaml:"initial_holder"`

	// Store selects the built-in backend, "memory" or "bolt" (default: "memory").
	// Ignored when a store is supplied with WithStore.
	Store string `json:"store" mapstructure:"store" yaml:"store"`

	// BoltPath is the database file used by the bolt backend (default: "fungible.db").
	BoltPath string `json:"bolt_path" mapstructure:"bolt_path" yaml:"bolt_path"`

	// DisableMigrate skips schema migration on start. The journal is still loaded.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// EnableMetrics registers the Prometheus metrics plugin with the default registerer.
	EnableMetrics bool `json:"enable_metrics" mapstructure:"enable_metrics" yaml:"enable_metrics"`

	// PluginTimeout bounds a single plugin hook call (default: 5s).
	PluginTimeout time.Duration `json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Decimals:      18,
		Store:         StoreMemory,
		BoltPath:      "fungible.db",
		PluginTimeout: 5 * time.Second,
	}
}

// TokenConfig converts the string-typed token fields into a ledger config
// and validates it.
func (c Config) TokenConfig() (fungible.Config, error) {
	var errs fungible.MultiError

	supply, err := types.ParseAmount(c.TotalSupply)
	if err != nil {
		errs.Add(fungible.ValidationError{Field: "total_supply", Message: err.Error()})
	}

	holder, err := types.ParseAddress(c.InitialHolder)
	if err != nil {
		errs.Add(fungible.ValidationError{Field: "initial_holder", Message: err.Error()})
	}

	cfg := fungible.Config{
		Name:          c.Name,
		Symbol:        c.Symbol,
		Decimals:      c.Decimals,
		TotalSupply:   supply,
		InitialHolder: holder,
	}
	if err := cfg.Validate(); err != nil {
		var multi fungible.MultiError
		if errors.As(err, &multi) {
			errs.Errors = append(errs.Errors, multi.Errors...)
		} else {
			errs.Add(err)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fungible.Config{}, fmt.Errorf("fungible: invalid token config: %w", err)
	}
	return cfg, nil
}
