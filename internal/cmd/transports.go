package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/lists"
	"github.com/skyfleet/skymanager/internal/prompt"
)

// TransportsCmd returns the `skymanager transports` command group.
func TransportsCmd() *cobra.Command {
	var conn connFlags
	cmd := &cobra.Command{
		Use:   "transports",
		Short: "Manage the transports of a visor",
	}
	conn.register(cmd)
	cmd.AddCommand(transportsListCmd(&conn))
	cmd.AddCommand(transportsShowCmd(&conn))
	cmd.AddCommand(transportsTypesCmd(&conn))
	cmd.AddCommand(transportsCreateCmd(&conn))
	cmd.AddCommand(transportsRmCmd(&conn))
	return cmd
}

func transportsListCmd(conn *connFlags) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			tps, err := fetch(cmd.Context(), e, "transports", func(ctx context.Context) ([]api.Transport, error) {
				return e.client.Transports(ctx, pk)
			})
			if err != nil {
				return err
			}
			return printList(e, &lf, lists.Transports, tps)
		},
	}
	lf.register(cmd)
	return cmd
}

func transportsShowCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			tp, err := fetch(cmd.Context(), e, "transport", func(ctx context.Context) (*api.Transport, error) {
				return e.client.Transport(ctx, pk, args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "id:        %s\n", tp.ID)
			fmt.Fprintf(e.out, "local pk:  %s\n", tp.LocalPK)
			fmt.Fprintf(e.out, "remote pk: %s\n", tp.RemotePK)
			fmt.Fprintf(e.out, "type:      %s\n", tp.Type)
			fmt.Fprintf(e.out, "up:        %t\n", tp.IsUp)
			fmt.Fprintf(e.out, "sent:      %s\n", humanize.Bytes(tp.Log.Sent))
			fmt.Fprintf(e.out, "received:  %s\n", humanize.Bytes(tp.Log.Recv))
			return nil
		},
	}
}

func transportsTypesCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the transport types the visor supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			types, err := fetch(cmd.Context(), e, "transport types", func(ctx context.Context) ([]string, error) {
				return e.client.TransportTypes(ctx, pk)
			})
			if err != nil {
				return err
			}
			for _, t := range types {
				fmt.Fprintln(e.out, t)
			}
			return nil
		},
	}
}

func transportsCreateCmd(conn *connFlags) *cobra.Command {
	var (
		tpType string
		public bool
	)
	cmd := &cobra.Command{
		Use:   "create <remote-pk>",
		Short: "Create a transport to a remote visor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			input := api.CreateTransportInput{
				RemotePK: strings.TrimSpace(args[0]),
				Type:     tpType,
				Public:   public,
			}
			tp, err := e.client.CreateTransport(cmd.Context(), pk, input)
			if err != nil {
				return fmt.Errorf("create transport: %w", err)
			}
			e.logger.Info("transport created", "id", tp.ID, "type", tp.Type)
			fmt.Fprintf(e.out, "transport created: %s (%s)\n", tp.ID, tp.Type)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tpType, "type", "t", "dmsg", "transport type")
	cmd.Flags().BoolVar(&public, "public", false, "announce the transport publicly")
	return cmd
}

func transportsRmCmd(conn *connFlags) *cobra.Command {
	var rf rmFlags
	cmd := &cobra.Command{
		Use:   "rm [id...]",
		Short: "Delete transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !rf.all {
				return fmt.Errorf("pass transport ids or --all")
			}
			if len(args) > 0 && rf.all {
				return fmt.Errorf("pass transport ids or --all, not both")
			}
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			ids := args
			if rf.all {
				tps, err := fetch(ctx, e, "transports", func(ctx context.Context) ([]api.Transport, error) {
					return e.client.Transports(ctx, pk)
				})
				if err != nil {
					return err
				}
				ids, err = pageKeys(e, &rf.list, lists.Transports, tps)
				if err != nil {
					return err
				}
			}

			confirm := prompt.For(rf.assumeYes, cmd.InOrStdin(), e.out)
			return deleteAll(ctx, e, confirm, rf.deleteOptions, "transports", ids, lists.Transports.FormatKey,
				func(ctx context.Context, id string) error {
					return e.client.DeleteTransport(ctx, pk, id)
				})
		},
	}
	rf.register(cmd)
	return cmd
}

// visorEnv loads the env and the selected visor.
func visorEnv(cmd *cobra.Command, conn *connFlags) (*env, string, error) {
	e, err := loadEnv(cmd, conn)
	if err != nil {
		return nil, "", err
	}
	pk, err := e.requireVisor()
	if err != nil {
		e.Close()
		return nil, "", err
	}
	return e, pk, nil
}
