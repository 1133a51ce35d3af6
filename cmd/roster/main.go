package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gravitrone/roster/internal/cmd"
	"github.com/gravitrone/roster/internal/config"
	"github.com/gravitrone/roster/internal/logging"
	"github.com/gravitrone/roster/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var metricsFile string
	root := &cobra.Command{
		Use:   "roster",
		Short: "Roster - employee directory",
		Long:  "Roster: browse, search and edit the employee directory from the terminal.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(metricsFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVar(&metricsFile, "metrics-file", "", "write engine counters to this file on exit")

	root.AddCommand(cmd.InitCmd())
	root.AddCommand(cmd.ListCmd())
	root.AddCommand(cmd.EditCmd())
	root.AddCommand(cmd.ShowCmd())
	root.AddCommand(cmd.ServeCmd())
	return root
}

func runTUI(metricsFile string) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return errors.New("not a terminal. use 'roster list' for scripted output")
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	log, closer, err := logging.OpenFile(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	session := cmd.NewSession(cfg, log)
	app := ui.NewApp(session.Engine, session.Client, cfg)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return session.WriteMetrics(metricsFile)
}

func isInteractiveTerminal(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}
