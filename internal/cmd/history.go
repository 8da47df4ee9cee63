package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/prompt"
)

// HistoryCmd returns the `skymanager history` command group.
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage remembered proxy servers",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyRmCmd())
	cmd.AddCommand(historyNoteCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remembered servers, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()
			book, closeStore, err := e.history()
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := book.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(e.out, "history is empty")
				return nil
			}
			rows := make([][]string, len(entries))
			for i, entry := range entries {
				source := "discovery"
				if entry.EnteredManually {
					source = "manual"
				}
				rows[i] = []string{entry.Key, source, entry.Location, entry.Note}
			}
			return writeTable(e.out, []string{"KEY", "SOURCE", "LOCATION", "NOTE"}, rows)
		},
	}
}

func historyRmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <key>",
		Short: "Forget a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			ok, err := prompt.For(yes, cmd.InOrStdin(), e.out).Confirm(ctx, prompt.Request{
				Title: fmt.Sprintf("Remove %s from the history?", args[0]),
			})
			if err != nil {
				return fmt.Errorf("confirm: %w", err)
			}
			if !ok {
				fmt.Fprintln(e.out, "canceled")
				return nil
			}

			book, closeStore, err := e.history()
			if err != nil {
				return err
			}
			defer closeStore()
			if _, err := book.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "removed")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func historyNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <key> <note...>",
		Short: "Set the personal note of a server",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()
			book, closeStore, err := e.history()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := book.SetNote(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "note saved")
			return nil
		},
	}
}
