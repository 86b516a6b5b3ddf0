// Package extension provides the Forge extension adapter for the token ledger.
//
// It implements the forge.Extension interface to integrate the ledger
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.fungible" or "fungible" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	fungible "github.com/xraph/fungible"
	"github.com/xraph/fungible/observability"
	"github.com/xraph/fungible/store"
	"github.com/xraph/fungible/store/boltdb"
	"github.com/xraph/fungible/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "fungible"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Fixed-supply fungible token ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the token ledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *fungible.Ledger
	store      store.Store
	ledgerOpts []fungible.Option
}

// New creates a new fungible Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Ledger instance.
// This is nil until Register is called.
func (e *Extension) Engine() *fungible.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// builds the ledger, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	tokenCfg, err := e.config.TokenConfig()
	if err != nil {
		return err
	}

	if e.store == nil {
		s, err := openStore(e.config)
		if err != nil {
			return err
		}
		e.store = s
	}

	e.engine = fungible.New(e.store, tokenCfg, e.buildLedgerOpts()...)

	return vessel.Provide(fapp.Container(), func() (*fungible.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("fungible: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("fungible: store not initialized")
	}
	return e.store.Ping(ctx)
}

// openStore builds the configured built-in backend.
func openStore(cfg Config) (store.Store, error) {
	switch cfg.Store {
	case "", StoreMemory:
		return memory.New(), nil
	case StoreBolt:
		s, err := boltdb.Open(cfg.BoltPath, 0o600)
		if err != nil {
			return nil, fmt.Errorf("fungible: open bolt store %q: %w", cfg.BoltPath, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("fungible: unknown store %q (want %q or %q)", cfg.Store, StoreMemory, StoreBolt)
	}
}

// buildLedgerOpts constructs fungible.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []fungible.Option {
	opts := make([]fungible.Option, 0, len(e.ledgerOpts)+3)

	if e.config.DisableMigrate {
		opts = append(opts, fungible.WithoutMigrations())
	}
	if e.config.PluginTimeout > 0 {
		opts = append(opts, fungible.WithPluginTimeout(e.config.PluginTimeout))
	}
	if e.config.EnableMetrics {
		factory := observability.NewPrometheusFactory(nil, "")
		opts = append(opts, fungible.WithPlugin(observability.NewMetricsExtension(factory)))
	}

	// Append any pass-through ledger options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("fungible: configuration is required but not found in config files; " +
				"ensure 'extensions.fungible' or 'fungible' key exists in your config")
		}

		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("fungible: configuration loaded",
		forge.F("symbol", e.config.Symbol),
		forge.F("decimals", e.config.Decimals),
		forge.F("store", e.config.Store),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("enable_metrics", e.config.EnableMetrics),
		forge.F("plugin_timeout", e.config.PluginTimeout),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.fungible", "fungible"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("fungible: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("fungible: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults. Decimals is left
// alone when the token fields are set, since zero decimals is a valid choice.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Decimals == 0 && cfg.TotalSupply == "" {
		cfg.Decimals = defaults.Decimals
	}
	if cfg.Store == "" {
		cfg.Store = defaults.Store
	}
	if cfg.BoltPath == "" {
		cfg.BoltPath = defaults.BoltPath
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.EnableMetrics {
		yamlConfig.EnableMetrics = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Name == "" {
		yamlConfig.Name = programmaticConfig.Name
	}
	if yamlConfig.Symbol == "" {
		yamlConfig.Symbol = programmaticConfig.Symbol
	}
	if yamlConfig.TotalSupply == "" {
		yamlConfig.TotalSupply = programmaticConfig.TotalSupply
		if yamlConfig.Decimals == 0 {
			yamlConfig.Decimals = programmaticConfig.Decimals
		}
	}
	if yamlConfig.InitialHolder == "" {
		yamlConfig.InitialHolder = programmaticConfig.InitialHolder
	}
	if yamlConfig.Store == "" {
		yamlConfig.Store = programmaticConfig.Store
	}
	if yamlConfig.BoltPath == "" {
		yamlConfig.BoltPath = programmaticConfig.BoltPath
	}

	if yamlConfig.PluginTimeout == 0 && programmaticConfig.PluginTimeout != 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}

	return mergeWithDefaults(yamlConfig)
}
