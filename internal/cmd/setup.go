package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/config"
)

// RunInteractiveSetup asks for the hypervisor address, checks it answers,
// picks the default visor and persists the config.
func RunInteractiveSetup(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	cfg, err := config.Load()
	if err != nil {
		// Start over from defaults when the existing file is unusable.
		cfg = config.Default()
	}

	fmt.Fprintf(out, "hypervisor url [%s]: ", cfg.HypervisorURL)
	line, _ := reader.ReadString('\n')
	if u := strings.TrimSpace(line); u != "" {
		cfg.HypervisorURL = strings.TrimRight(u, "/")
	}

	client := api.NewClient(cfg.HypervisorURL, cfg.RequestTimeout)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("hypervisor not reachable: %w", err)
	}

	visors, err := client.Visors(ctx)
	if err != nil {
		return fmt.Errorf("list visors: %w", err)
	}

	switch len(visors) {
	case 0:
		fmt.Fprintln(out, "no visors connected; pass --visor later")
		cfg.Visor = ""
	case 1:
		cfg.Visor = visors[0].LocalPK
	default:
		for i, v := range visors {
			state := "offline"
			if v.Online {
				state = "online"
			}
			fmt.Fprintf(out, "  %d) %s (%s)\n", i+1, v.DisplayName(), state)
		}
		fmt.Fprint(out, "default visor [1]: ")
		line, _ := reader.ReadString('\n')
		choice := 1
		if s := strings.TrimSpace(line); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > len(visors) {
				return fmt.Errorf("choose a number between 1 and %d", len(visors))
			}
			choice = n
		}
		cfg.Visor = visors[choice-1].LocalPK
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if cfg.Visor != "" {
		fmt.Fprintf(out, "default visor: %s\n", cfg.Visor)
	}
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// SetupCmd returns the `skymanager setup` command.
func SetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Point the manager at a hypervisor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveSetup(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
