package api

import (
	"github.com/rs/zerolog"

	"github.com/gravitrone/roster/internal/config"
)

// NewFromConfig builds a client for the configured server.
func NewFromConfig(cfg *config.Config, log zerolog.Logger) *Client {
	return NewClient(cfg.ServerURL, cfg.APIKey,
		WithTimeout(cfg.Timeout),
		WithRetryMax(cfg.RetryMax),
		WithLogger(log),
	)
}
