package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"cotsync/internal/application/port"
	"cotsync/internal/application/service"
	"cotsync/internal/infrastructure/config"
	"cotsync/internal/infrastructure/logger"
	"cotsync/internal/infrastructure/provider"
	"cotsync/internal/infrastructure/publish"
	"cotsync/internal/infrastructure/storage/memory"
	"cotsync/internal/infrastructure/storage/postgres"
	"cotsync/internal/infrastructure/storage/sqlite"
	"cotsync/internal/interfaces/console"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cotsync:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cotsync",
		Short:         "Reconcile regulatory positioning reports into per-instrument series",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.toml", "path to config.toml")

	root.AddCommand(newRunCmd(&configPath))
	root.AddCommand(newOnceCmd(&configPath))
	root.AddCommand(newInstrumentsCmd(&configPath))
	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run sync cycles on the configured interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().
				Str("config", *configPath).
				Int("instruments", app.syncer.Registry().Len()).
				Dur("interval", app.cfg.SyncInterval()).
				Str("storage", app.cfg.Storage.Backend).
				Msg("cotsync started")

			if err := app.syncer.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			log.Warn().Msg("exit")
			return nil
		},
	}
}

func newOnceCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single sync cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cycle := app.syncer.RunCycle(ctx)
			if cycle.Synced() == 0 && cycle.Failed() == len(cycle.Results) {
				return fmt.Errorf("cycle %s: all %d instruments failed", cycle.ID, len(cycle.Results))
			}
			return nil
		},
	}
}

func newInstrumentsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "Print the configured instrument registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			for _, inst := range cfg.Registry().Instruments() {
				fmt.Printf("%-12s code=%s  %s\n", inst.Name, inst.Code, inst.DisplayName)
			}
			return nil
		},
	}
}

type app struct {
	cfg    *config.Config
	store  port.SeriesStore
	syncer *service.Syncer
	rdb    *redis.Client
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.File)

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Backend, err)
	}

	a := &app{cfg: cfg, store: store}

	publisher := publish.NewNoop()
	if cfg.Redis.Enabled {
		a.rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		publisher = publish.NewRedis(a.rdb, cfg.Redis.Prefix, cfg.Redis.Stream)
	}

	fetcher := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.ProviderTimeout())

	a.syncer = service.NewSyncer(service.SyncerDeps{
		Registry:   cfg.Registry(),
		Fetcher:    fetcher,
		Reconciler: service.NewReconciler(store),
		Publisher:  publisher,
		Sink:       console.NewSink(),
		FetchDelay: cfg.FetchDelay(),
		Interval:   cfg.SyncInterval(),
	})
	return a, nil
}

func openStore(cfg *config.Config) (port.SeriesStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return postgres.New(cfg.Storage.DSN)
	default:
		return sqlite.New(cfg.Storage.Path)
	}
}
