package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbinitiative/zenbpm-importer/internal/log"
	"github.com/pbinitiative/zenbpm-importer/internal/otel"
	"github.com/pbinitiative/zenbpm-importer/internal/projection"
	"github.com/pbinitiative/zenbpm-importer/internal/resolver"
	"github.com/pbinitiative/zenbpm-importer/internal/rest"
	"github.com/pbinitiative/zenbpm-importer/internal/store"
	"github.com/pbinitiative/zenbpm-importer/internal/supervisor"
	"github.com/pbinitiative/zenbpm-importer/internal/transport"
	otelPkg "github.com/pbinitiative/zenbpm-importer/pkg/otel"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Consume the record streams until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}
}

func run(ctx context.Context, opts *rootOptions) error {
	conf := opts.conf
	logger := newLogger()
	log.Infof(ctx, "Starting with configuration:\n%s", conf.Dump())

	openTelemetry, err := otel.SetupOtel(conf.Tracing)
	if err != nil {
		return fmt.Errorf("failed to set up OTEL: %w", err)
	}
	defer openTelemetry.Stop(context.Background())

	metrics, err := otelPkg.NewMetrics(openTelemetry.Meter("zenbpm-importer"))
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	st, err := store.Open(conf.Store, logger.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", "err", err)
		}
	}()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	res, err := resolver.New(conf.Resolver.CacheSize, logger.Named("resolver"), metrics)
	if err != nil {
		return err
	}
	router := projection.NewRouter(st, res, logger.Named("projection"), metrics)
	sup := supervisor.New(conf.Consumer, transport.NewRedisDialer(conf.Redis), router, logger.Named("supervisor"), metrics)

	svr := rest.NewServer(sup, conf, logger.Named("rest"))
	if _, err := svr.Start(); err != nil {
		return fmt.Errorf("failed to start system server: %w", err)
	}
	defer svr.Stop(context.Background())

	err = sup.Run(ctx)
	log.Infof(ctx, "Shutting down")
	return err
}
