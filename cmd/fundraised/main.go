package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"

	"fundchain/config"
	"fundchain/core"
	"fundchain/core/events"
	"fundchain/core/state"
	"fundchain/gateway/middleware"
	"fundchain/gateway/routes"
	"fundchain/observability/logging"
	telemetry "fundchain/observability/otel"
	"fundchain/services/eventstore"
	"fundchain/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fundraised: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("fundraised", pflag.ContinueOnError)
	cfgPath := flags.StringP("config", "c", "./fund.toml", "path to the node configuration (TOML or YAML)")
	listen := flags.String("listen", "", "override the gateway listen address")
	dataDir := flags.String("data-dir", "", "override the data directory")
	memory := flags.Bool("memory", false, "keep ledger state in memory only")
	faucet := flags.Bool("faucet", false, "DEV ONLY: enable the faucet call")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.ListenAddress = *listen
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *memory {
		cfg.Database = config.DatabaseMemory
	}
	if flags.Changed("faucet") {
		cfg.Faucet = *faucet
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	env := strings.TrimSpace(os.Getenv("FUND_ENV"))
	logger := logging.Setup("fundraised", env, cfg.Logging)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  "fundraised",
		Environment:  env,
		Network:      cfg.NetworkName,
		StoreBackend: cfg.Database,
		Faucet:       cfg.Faucet,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		Headers:      telemetry.ParseHeaders(cfg.Telemetry.Headers),
		Metrics:      cfg.Telemetry.Metrics,
		Traces:       cfg.Telemetry.Traces,
		SampleRatio:  cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := state.EnsureStateVersion(db); err != nil {
		return err
	}

	var sink events.Emitter = events.NoopEmitter{}
	var eventLog routes.EventLog
	if strings.TrimSpace(cfg.EventStore.DSN) != "" {
		if err := ensureDSNDir(cfg.EventStore.DSN); err != nil {
			return err
		}
		gdb, err := eventstore.Open(cfg.EventStore.DSN)
		if err != nil {
			return fmt.Errorf("open event store: %w", err)
		}
		store, err := eventstore.New(gdb, clockwork.NewRealClock(), logger)
		if err != nil {
			return err
		}
		defer store.Close()
		sink = store
		eventLog = store
	} else {
		logger.Warn("event store disabled; committed events are not persisted")
	}

	processor := core.NewProcessor(db,
		core.WithRent(cfg.Rent),
		core.WithEventSink(sink),
		core.WithLogger(logger),
		core.WithRewardRatio(cfg.RewardRatio),
		core.WithFaucet(cfg.Faucet),
	)

	secret := cfg.JWTSecret()
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("gateway secret missing: set %s", cfg.Gateway.JWTSecretEnv)
	}
	handler, err := routes.New(routes.Config{
		Ledger:        processor,
		Events:        eventLog,
		Authenticator: middleware.NewAuthenticator(middleware.AuthConfig{HMACSecret: secret, Issuer: cfg.Gateway.JWTIssuer}, logger),
		RateLimiter: middleware.NewRateLimiter(map[string]middleware.RateLimit{
			routes.RateLimitCalls:   {RatePerSecond: cfg.Gateway.RateLimitPerSecond, Burst: cfg.Gateway.RateLimitBurst},
			routes.RateLimitQueries: {RatePerSecond: cfg.Gateway.RateLimitPerSecond * 4, Burst: cfg.Gateway.RateLimitBurst * 4},
		}, clockwork.NewRealClock(), logger),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Gateway.ReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.Gateway.WriteTimeoutSecs) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", listenAttrs(cfg, secret)...)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("gateway: %w", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// listenAttrs describes the running configuration without leaking credentials.
func listenAttrs(cfg *config.Config, secret string) []any {
	return []any{
		slog.String("addr", cfg.ListenAddress),
		slog.String("database", cfg.Database),
		slog.String("network", cfg.NetworkName),
		slog.Bool("faucet", cfg.Faucet),
		logging.MaskDSN("event_store_dsn", cfg.EventStore.DSN),
		slog.String("jwt_secret_env", cfg.Gateway.JWTSecretEnv),
		logging.MaskField("jwt_secret", secret),
	}
}

func openDatabase(cfg *config.Config) (storage.Database, error) {
	if cfg.Database == config.DatabaseMemory {
		return storage.NewMemDB(), nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	db, err := storage.NewLevelDB(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return db, nil
}

// ensureDSNDir creates the parent directory of a plain SQLite file path.
func ensureDSNDir(dsn string) error {
	if strings.Contains(dsn, "://") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
