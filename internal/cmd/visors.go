package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/lists"
)

// VisorsCmd returns the `skymanager visors` command group.
func VisorsCmd() *cobra.Command {
	var conn connFlags
	cmd := &cobra.Command{
		Use:   "visors",
		Short: "List the visors of the hypervisor",
	}
	conn.register(cmd)
	cmd.AddCommand(visorsListCmd(&conn))
	cmd.AddCommand(visorsShowCmd(&conn))
	return cmd
}

func visorsListCmd(conn *connFlags) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			visors, err := fetch(cmd.Context(), e, "visors", e.client.Visors)
			if err != nil {
				return err
			}
			return printList[api.Visor, string](e, &lf, lists.Visors, visors)
		},
	}
	lf.register(cmd)
	return cmd
}

func visorsShowCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show [pk]",
		Short: "Show a visor with its routes, transports and apps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			pk := e.visor
			if len(args) == 1 {
				pk = args[0]
			}
			if pk == "" {
				return fmt.Errorf("no visor selected: pass a key, --visor or run 'skymanager setup'")
			}

			snap, err := fetch(cmd.Context(), e, "visor", func(ctx context.Context) (*api.Snapshot, error) {
				return e.client.Snapshot(ctx, pk)
			})
			if err != nil {
				return err
			}
			v := snap.Visor
			status := "offline"
			if v.Online {
				status = "online"
			}
			running := 0
			for _, a := range snap.Apps {
				if a.Status == api.AppRunning {
					running++
				}
			}
			fmt.Fprintf(e.out, "key:        %s\n", v.LocalPK)
			fmt.Fprintf(e.out, "label:      %s\n", v.DisplayName())
			fmt.Fprintf(e.out, "status:     %s\n", status)
			fmt.Fprintf(e.out, "address:    %s\n", v.TCPAddr)
			fmt.Fprintf(e.out, "version:    %s\n", v.Version)
			fmt.Fprintf(e.out, "routes:     %d\n", len(snap.Routes))
			fmt.Fprintf(e.out, "transports: %d\n", len(snap.Transports))
			fmt.Fprintf(e.out, "apps:       %d (%d running)\n", len(snap.Apps), running)
			return nil
		},
	}
}
