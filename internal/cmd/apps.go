package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/history"
	"github.com/skyfleet/skymanager/internal/lists"
)

// AppsCmd returns the `skymanager apps` command group.
func AppsCmd() *cobra.Command {
	var conn connFlags
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Manage the apps of a visor",
	}
	conn.register(cmd)
	cmd.AddCommand(appsListCmd(&conn))
	cmd.AddCommand(appsRunCmd(&conn, "start", true))
	cmd.AddCommand(appsRunCmd(&conn, "stop", false))
	cmd.AddCommand(appsAutostartCmd(&conn))
	cmd.AddCommand(appsLogsCmd(&conn))
	cmd.AddCommand(appsSetServerCmd(&conn))
	cmd.AddCommand(appsProxiesCmd(&conn))
	return cmd
}

func appsListCmd(conn *connFlags) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List apps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			apps, err := fetch(cmd.Context(), e, "apps", func(ctx context.Context) ([]api.App, error) {
				return e.client.Apps(ctx, pk)
			})
			if err != nil {
				return err
			}
			return printList(e, &lf, lists.Apps, apps)
		},
	}
	lf.register(cmd)
	return cmd
}

func appsRunCmd(conn *connFlags, verb string, running bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <app>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			app, err := e.client.SetAppRunning(cmd.Context(), pk, args[0], running)
			if err != nil {
				return fmt.Errorf("%s %s: %w", verb, args[0], err)
			}
			e.logger.Info("app status changed", "app", app.Name, "status", app.Status)
			fmt.Fprintf(e.out, "%s is %s\n", app.Name, app.Status)
			return nil
		},
	}
}

func appsAutostartCmd(conn *connFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "autostart <app> <on|off>",
		Short:     "Turn autostart of an app on or off",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(args[1]) {
			case "on", "true", "yes":
				enabled = true
			case "off", "false", "no":
			default:
				return fmt.Errorf("autostart must be on or off, got %q", args[1])
			}

			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			app, err := e.client.UpdateApp(cmd.Context(), pk, args[0], api.UpdateAppInput{Autostart: &enabled})
			if err != nil {
				return fmt.Errorf("autostart %s: %w", args[0], err)
			}
			fmt.Fprintf(e.out, "%s autostart: %s\n", app.Name, onOff(app.Autostart))
			return nil
		},
	}
}

func appsLogsCmd(conn *connFlags) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "logs <app>",
		Short: "Print the log of an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, ok := api.LookupLogWindow(days)
			if !ok {
				return fmt.Errorf("unsupported --days %d (use 7, 30, 90, 180, 365 or -1 for all)", days)
			}
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			since := window.Since(time.Now())
			logs, err := fetch(cmd.Context(), e, "logs", func(ctx context.Context) ([]string, error) {
				return e.client.AppLogs(ctx, pk, args[0], since)
			})
			if err != nil {
				return err
			}
			if len(logs) == 0 {
				fmt.Fprintf(e.out, "no log entries (%s)\n", window.Label)
				return nil
			}
			for _, line := range logs {
				fmt.Fprintln(e.out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "log window in days (7, 30, 90, 180, 365, -1 for all)")
	return cmd
}

func appsSetServerCmd(conn *connFlags) *cobra.Command {
	var location, note string
	cmd := &cobra.Command{
		Use:   "set-server <app> <server-pk>",
		Short: "Point a proxy client app at a server and remember it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, pk, err := visorEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			server := strings.TrimSpace(args[1])
			app, err := e.client.UpdateApp(ctx, pk, args[0], api.UpdateAppInput{ServerPK: &server})
			if err != nil {
				return fmt.Errorf("set server: %w", err)
			}

			book, closeStore, err := e.history()
			if err != nil {
				return err
			}
			defer closeStore()
			if _, err := book.Add(ctx, history.Entry{
				Key:             server,
				EnteredManually: location == "",
				Location:        location,
				Note:            note,
			}); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s now uses %s\n", app.Name, server)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "server location, as shown by proxies")
	cmd.Flags().StringVar(&note, "note", "", "personal note for the history")
	return cmd
}

func appsProxiesCmd(conn *connFlags) *cobra.Command {
	var (
		state string
		f     lists.ProxyFilter
	)
	cmd := &cobra.Command{
		Use:   "proxies",
		Short: "List proxy servers from the discovery service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := lists.ParseProxyState(state)
			if err != nil {
				return err
			}
			f.State = st

			e, err := loadEnv(cmd, conn)
			if err != nil {
				return err
			}
			defer e.Close()

			proxies, err := fetch(cmd.Context(), e, "proxies", e.client.Proxies)
			if err != nil {
				return err
			}
			matched := f.Apply(proxies)
			if len(matched) == 0 {
				fmt.Fprintln(e.out, "no proxies found")
				return nil
			}
			rows := make([][]string, len(matched))
			for i, p := range matched {
				rows[i] = lists.ProxyRow(p)
			}
			return writeTable(e.out, lists.ProxyHeaders, rows)
		},
	}
	cmd.Flags().StringVar(&state, "state", "any", "any, available or offline")
	cmd.Flags().StringVar(&f.Location, "location", "", "location substring")
	cmd.Flags().StringVar(&f.Key, "key", "", "public key substring")
	return cmd
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
