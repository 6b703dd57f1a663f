package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/config"
	"github.com/chemmaster/chemmaster/internal/gateway"
	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/llm"
	"github.com/chemmaster/chemmaster/internal/logging"
	"github.com/chemmaster/chemmaster/internal/profile"
	"github.com/chemmaster/chemmaster/internal/store"
)

// env is everything a command needs: config, storage, logger and, when
// a provider is configured, the model gateway.
type env struct {
	cfg      *config.Config
	store    *store.Store
	kv       store.KV
	logger   *zap.Logger
	registry *prometheus.Registry

	// gateway is nil when no LLM provider is configured.
	gateway *gateway.Gateway
	// gatewayErr explains why gateway is nil.
	gatewayErr error

	closers []func() error
}

type envOptions struct {
	// console tees logs to stderr.
	console bool
	// ai builds the gateway.
	ai bool
}

// openEnv loads configuration and opens the stores. Callers must Close
// the returned env.
func openEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	ctx := cmd.Context()
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, registry: prometheus.NewRegistry()}

	e.logger, err = logging.New(cfg.Logging(opts.console))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	e.closers = append(e.closers, func() error { _ = e.logger.Sync(); return nil })

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	e.store, err = store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.closers = append(e.closers, e.store.Close)

	switch cfg.Store.KVBackend {
	case "", "sqlite":
		e.kv = e.store.KV()
	case "redis":
		rkv, err := store.NewRedisKV(ctx, cfg.RedisKV())
		if err != nil {
			e.Close()
			return nil, err
		}
		e.kv = rkv
		e.closers = append(e.closers, rkv.Close)
	default:
		e.Close()
		return nil, fmt.Errorf("unknown kv backend %q", cfg.Store.KVBackend)
	}

	if opts.ai {
		e.gatewayErr = e.openGateway(cmd)
		if e.gatewayErr != nil {
			e.logger.Warn("AI features unavailable", zap.Error(e.gatewayErr))
		}
	}
	return e, nil
}

func (e *env) openGateway(cmd *cobra.Command) error {
	llmCfg := e.cfg.LLMProvider()
	if err := llmCfg.Validate(); err != nil {
		return err
	}
	provider, err := llm.NewProvider(cmd.Context(), llmCfg, e.store.EventRepo(), e.logger, e.registry)
	if err != nil {
		return err
	}
	e.gateway = gateway.New(provider, e.cfg.GatewayConfig(llmCfg.Provider), e.logger)
	return nil
}

func (e *env) board() *leaderboard.Store { return leaderboard.NewStore(e.kv) }

func (e *env) profile() *profile.Profile { return profile.New(e.kv) }

// requireGateway returns the gateway or the reason it is missing.
func (e *env) requireGateway() (*gateway.Gateway, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", e.gatewayErr)
	}
	return e.gateway, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	e.closers = nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then store.db_path from config, then CHEMMASTER_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Store.DBPath != "" {
		return cfg.Store.DBPath, store.EnsureDir(cfg.Store.DBPath)
	}
	return store.DefaultDBPath()
}
