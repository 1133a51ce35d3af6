package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/logging"
	"github.com/gravitrone/roster/internal/server"
)

const defaultServeAddr = ":6868"

// ServeOptions configures the demo directory server.
type ServeOptions struct {
	Database string
	Seed     int
}

// RunServe opens the database, seeds it when empty and serves on ln until ctx is done.
func RunServe(ctx context.Context, ln net.Listener, opts ServeOptions, log zerolog.Logger) error {
	store, err := server.Open(ctx, opts.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	n, err := server.Seed(ctx, store, opts.Seed)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.Info().Str("backend", store.Backend()).Int("seeded", n).Msg("database ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	srv, err := server.NewServer(server.Config{Repo: store, Logger: log, Registry: reg})
	if err != nil {
		return err
	}
	return srv.Serve(ctx, ln)
}

// ServeCmd returns the `roster serve` command.
func ServeCmd() *cobra.Command {
	var (
		addr string
		opts ServeOptions
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo directory server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrDefault()
			if err != nil {
				return err
			}
			if opts.Database == "" {
				opts.Database = cfg.Database
			}
			log, err := logging.NewStderr(cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			return RunServe(ctx, ln, opts, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&opts.Database, "database", "", "sqlite file, :memory: or postgres:// URL (default from config)")
	cmd.Flags().IntVar(&opts.Seed, "seed", 100, "generated employees to insert into an empty database")
	return cmd
}
