package extension

import (
	"time"

	fungible "github.com/xraph/fungible"
	"github.com/xraph/fungible/plugin"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/types"
)

// Option configures the fungible Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger. It takes precedence over the
// configured built-in backend.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a fungible.Option through to the underlying ledger.
func WithLedgerOption(opt fungible.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, fungible.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithToken sets the token definition programmatically.
func WithToken(cfg fungible.Config) Option {
	return func(e *Extension) {
		e.config.Name = cfg.Name
		e.config.Symbol = cfg.Symbol
		e.config.Decimals = cfg.Decimals
		e.config.TotalSupply = cfg.TotalSupply.String()
		e.config.InitialHolder = cfg.InitialHolder.Hex()
	}
}

// WithInitialHolder sets the account credited with the supply.
func WithInitialHolder(holder types.Address) Option {
	return func(e *Extension) { e.config.InitialHolder = holder.Hex() }
}

// WithBoltStore selects the bolt backend at the given path.
func WithBoltStore(path string) Option {
	return func(e *Extension) {
		e.config.Store = StoreBolt
		e.config.BoltPath = path
	}
}

// WithDisableMigrate prevents schema migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithMetrics registers the Prometheus metrics plugin.
func WithMetrics() Option {
	return func(e *Extension) { e.config.EnableMetrics = true }
}

// WithPluginTimeout bounds a single plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
