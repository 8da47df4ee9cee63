package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/lists"
	"github.com/skyfleet/skymanager/internal/prompt"
)

// RoutesCmd returns the `skymanager routes` command group.
func RoutesCmd() *cobra.Command {
	var conn connFlags
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect and delete routing rules",
	}
	conn.register(cmd)
	cmd.AddCommand(routesListCmd(&conn))
	cmd.AddCommand(routesShowCmd(&conn))
	cmd.AddCommand(routesRmCmd(&conn))
	return cmd
}

func routesListCmd(conn *connFlags) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List routing rules of the visor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			routes, err := fetch(cmd.Context(), e, "routes", func(ctx context.Context) ([]api.Route, error) {
				return e.client.Routes(ctx, pk)
			})
			if err != nil {
				return err
			}
			return printList(e, &lf, lists.Routes, routes)
		},
	}
	lf.register(cmd)
	return cmd
}

func routesShowCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show one routing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := lists.ParseRouteKeys(args)
			if err != nil {
				return err
			}
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			route, err := fetch(cmd.Context(), e, "route", func(ctx context.Context) (*api.Route, error) {
				return e.client.Route(ctx, pk, keys[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "key:  %d\n", route.Key)
			fmt.Fprintf(e.out, "rule: %s\n", route.Rule)
			return nil
		},
	}
}

// rmFlags are shared by the delete commands.
type rmFlags struct {
	deleteOptions
	all  bool
	list listFlags
}

func (f *rmFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.assumeYes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&f.continueOnError, "continue", false, "keep deleting after a failure")
	cmd.Flags().BoolVar(&f.all, "all", false, "delete every row of the listed page")
	f.list.register(cmd)
}

func routesRmCmd(conn *connFlags) *cobra.Command {
	var rf rmFlags
	cmd := &cobra.Command{
		Use:   "rm [key...]",
		Short: "Delete routing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !rf.all {
				return fmt.Errorf("pass route keys or --all")
			}
			if len(args) > 0 && rf.all {
				return fmt.Errorf("pass route keys or --all, not both")
			}
			keys, err := lists.ParseRouteKeys(args)
			if err != nil {
				return err
			}
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if rf.all {
				routes, err := fetch(ctx, e, "routes", func(ctx context.Context) ([]api.Route, error) {
					return e.client.Routes(ctx, pk)
				})
				if err != nil {
					return err
				}
				keys, err = pageKeys(e, &rf.list, lists.Routes, routes)
				if err != nil {
					return err
				}
			}

			confirm := prompt.For(rf.assumeYes, cmd.InOrStdin(), e.out)
			return deleteAll(ctx, e, confirm, rf.deleteOptions, "routes", keys, strconv.Itoa,
				func(ctx context.Context, key int) error {
					return e.client.DeleteRoute(ctx, pk, key)
				})
		},
	}
	rf.register(cmd)
	return cmd
}
