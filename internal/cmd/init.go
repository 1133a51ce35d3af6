package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gravitrone/roster/internal/api"
	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/engine"
)

// RunInit prompts for the server URL and an optional API key, checks that the
// server answers and persists the config. Empty answers keep the current values.
func RunInit(ctx context.Context, in io.Reader, out io.Writer, skipCheck bool) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "server url [%s]: ", cfg.ServerURL)
	serverURL, _ := reader.ReadString('\n')
	if v := strings.TrimSpace(serverURL); v != "" {
		cfg.ServerURL = strings.TrimRight(v, "/")
	}

	fmt.Fprint(out, "api key (optional): ")
	apiKey, _ := reader.ReadString('\n')
	if v := strings.TrimSpace(apiKey); v != "" {
		cfg.APIKey = v
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if !skipCheck {
		client := api.NewFromConfig(cfg, zerolog.Nop())
		if _, err := client.FetchPage(ctx, engine.PageRequest{PageIndex: 0, PageSize: 1}); err != nil {
			return fmt.Errorf("server check failed: %w", err)
		}
		fmt.Fprintf(out, "connected to %s\n", cfg.ServerURL)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// InitCmd returns the `roster init` command.
func InitCmd() *cobra.Command {
	var skipCheck bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Configure the directory server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return RunInit(c.Context(), c.InOrStdin(), c.OutOrStdout(), skipCheck)
		},
	}
	cmd.Flags().BoolVar(&skipCheck, "offline", false, "save without contacting the server")
	return cmd
}
