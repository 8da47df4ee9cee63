package cmd

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/prompt"
	"github.com/skyfleet/skymanager/internal/ui"
)

// errNoTerminal is returned when the TUI is started without a terminal.
var errNoTerminal = errors.New("the manager UI needs a terminal; use a subcommand such as 'skymanager routes list'")

var isTerminal = prompt.IsTerminal

// RootCmd returns the skymanager command tree. Without a subcommand it opens
// the terminal UI.
func RootCmd() *cobra.Command {
	flags := &connFlags{}
	root := &cobra.Command{
		Use:   "skymanager",
		Short: "skymanager - visor hypervisor manager",
		Long:  "skymanager: list and manage visors, routes, transports and apps through a hypervisor.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVar(&flags.hypervisor, "hypervisor", "", "hypervisor URL (overrides config)")
	root.Flags().StringVar(&flags.visor, "visor", "", "visor public key to open (overrides config)")

	root.AddCommand(VisorsCmd())
	root.AddCommand(RoutesCmd())
	root.AddCommand(TransportsCmd())
	root.AddCommand(AppsCmd())
	root.AddCommand(HistoryCmd())
	root.AddCommand(SetupCmd())
	return root
}

func runTUI(cmd *cobra.Command, flags *connFlags) error {
	if !isTerminal() {
		return errNoTerminal
	}
	e, err := loadEnv(cmd, flags)
	if err != nil {
		return err
	}
	defer e.Close()

	logger := e.logger.WithPrefix("tui")
	logger.Info("starting", "hypervisor", e.client.BaseURL(), "visor", e.visor)

	app := ui.NewApp(ui.Deps{
		Context: cmd.Context(),
		Client:  e.client,
		Config:  e.cfg,
		Logger:  logger,
		Sorts:   e.sorts,
		Visor:   e.visor,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
