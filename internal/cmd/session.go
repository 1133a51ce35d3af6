package cmd

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gravitrone/roster/internal/api"
	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/logging"
	"github.com/gravitrone/roster/internal/metrics"
)

// Directory is the remote employee collection the commands read and write.
type Directory interface {
	engine.Fetcher
	engine.Updater
}

// Session bundles the client, engine and metrics one command run uses.
type Session struct {
	Config   *config.Config
	Log      zerolog.Logger
	Client   *api.Client
	Engine   *engine.Engine
	Registry *prometheus.Registry
}

// NewSession wires a client and an engine for cfg.
func NewSession(cfg *config.Config, log zerolog.Logger) *Session {
	reg := prometheus.NewRegistry()
	return &Session{
		Config: cfg,
		Log:    log,
		Client: api.NewFromConfig(cfg, log),
		Engine: engine.New(
			engine.WithPageSize(cfg.PageSize),
			engine.WithLogger(log),
			engine.WithMetrics(metrics.NewEngine(reg)),
		),
		Registry: reg,
	}
}

// WriteMetrics dumps the engine counters in the Prometheus text format, for
// the node exporter textfile collector. An empty path does nothing.
func (s *Session) WriteMetrics(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, s.Registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// clientFlags are the connection overrides shared by list, edit and show.
type clientFlags struct {
	server      string
	metricsFile string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "", "directory server URL (overrides config)")
}

// registerMetrics adds --metrics-file for commands that drive the engine.
func (f *clientFlags) registerMetrics(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write engine counters to this file on exit")
}

func (f *clientFlags) session() (*Session, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	if f.server != "" {
		cfg.ServerURL = strings.TrimRight(strings.TrimSpace(f.server), "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	log, err := logging.NewStderr(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return NewSession(cfg, log), nil
}
