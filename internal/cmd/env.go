package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/config"
	"github.com/skyfleet/skymanager/internal/history"
	"github.com/skyfleet/skymanager/internal/listview"
	"github.com/skyfleet/skymanager/internal/logging"
	"github.com/skyfleet/skymanager/internal/retry"
	"github.com/skyfleet/skymanager/internal/storage"
)

// fetchAttempts bounds CLI fetch retries; the TUI retries indefinitely.
const fetchAttempts = 3

// connFlags are shared by every command group.
type connFlags struct {
	hypervisor string
	visor      string
}

func (f *connFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.hypervisor, "hypervisor", "", "hypervisor URL (overrides config)")
	cmd.PersistentFlags().StringVar(&f.visor, "visor", "", "visor public key (overrides config)")
}

// env is what a command needs to talk to the hypervisor.
type env struct {
	cfg    *config.Config
	client *api.Client
	logger *log.Logger
	out    io.Writer
	errOut io.Writer
	closer io.Closer
	visor  string
	sorts  *listview.SortStore
}

func loadEnv(cmd *cobra.Command, flags *connFlags) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags != nil && flags.hypervisor != "" {
		cfg.HypervisorURL = strings.TrimRight(flags.hypervisor, "/")
	}

	logger, closer, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel, Prefix: "cli"})
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.HypervisorURL, cfg.RequestTimeout).
		WithDiscoveryURL(cfg.DiscoveryURL).
		WithLogger(logger)

	e := &env{
		cfg:    cfg,
		client: client,
		logger: logger,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		closer: closer,
		visor:  cfg.Visor,
		sorts:  listview.NewSortStore(),
	}
	if flags != nil && flags.visor != "" {
		e.visor = flags.visor
	}
	return e, nil
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

// requireVisor returns the selected visor key.
func (e *env) requireVisor() (string, error) {
	if e.visor == "" {
		return "", errors.New("no visor selected: pass --visor or run 'skymanager setup'")
	}
	return e.visor, nil
}

func (e *env) pageSizes() listview.PageSizes {
	return listview.PageSizes{Short: e.cfg.ShortPageSize, Full: e.cfg.FullPageSize}
}

func (e *env) policy() retry.Policy {
	return retry.Fixed(e.cfg.RetryDelay, fetchAttempts)
}

// permanentStatus reports whether a failed request is not worth repeating.
func permanentStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return status < http.StatusInternalServerError
}

// fetch runs fn with the retry policy. The first failure of a streak is
// printed to stderr; client errors are not retried.
func fetch[T any](ctx context.Context, e *env, what string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := retry.Do(ctx, e.policy(), func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			var se *api.StatusError
			if errors.As(err, &se) && permanentStatus(se.Status) {
				return retry.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}, func(err error) {
		e.logger.Warn("fetch failed, retrying", "what", what, "error", err)
		fmt.Fprintf(e.errOut, "could not load %s, retrying: %v\n", what, err)
	})
	if err != nil {
		return out, fmt.Errorf("load %s: %w", what, err)
	}
	return out, nil
}

// listFlags control sorting and paging of list output.
type listFlags struct {
	page    int
	full    bool
	sort    string
	reverse bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page to show")
	cmd.Flags().BoolVar(&f.full, "full", false, "use the full page size")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "sort column")
	cmd.Flags().BoolVarP(&f.reverse, "reverse", "r", false, "reverse the sort")
}

// apply configures p and loads items. Page is requested after the items so
// SetItems does not reset it.
func applyList[T any, K comparable](f *listFlags, p *listview.Pipeline[T, K], items []T) error {
	mode := listview.Short
	if f.full {
		mode = listview.Full
	}
	p.SetMode(mode)
	if f.sort != "" || f.reverse {
		column := f.sort
		if column == "" {
			column = p.Sort().Column
		}
		if err := p.SetSort(listview.SortSpec{Column: column, Reverse: f.reverse}); err != nil {
			return err
		}
	}
	p.SetItems(items)
	p.SetPage(f.page)
	return nil
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writePageFooter[T any](w io.Writer, page listview.Page[T], total int, spec listview.SortSpec) {
	dir := "asc"
	if spec.Reverse {
		dir = "desc"
	}
	fmt.Fprintf(w, "page %d/%d  (%d total, sorted by %s %s)\n", page.Current, page.Total, total, spec.Column, dir)
}

// history opens the connection history in the configured store.
func (e *env) history() (*history.Book, func(), error) {
	store, err := storage.OpenSQLite(e.cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return history.New(store), func() { _ = store.Close() }, nil
}
