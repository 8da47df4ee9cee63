package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/bulk"
	"github.com/skyfleet/skymanager/internal/config"
	"github.com/skyfleet/skymanager/internal/lists"
	"github.com/skyfleet/skymanager/internal/listview"
	"github.com/skyfleet/skymanager/internal/ui/components"
)

// --- Tab Constants ---

const (
	tabVisors = iota
	tabRoutes
	tabTransports
	tabApps
	tabCount
)

var tabNames = []string{"Visors", "Routes", "Transports", "Apps"}

const defaultToastTTL = 2500 * time.Millisecond

// --- Messages ---

type loadedMsg[T any] struct {
	visor string
	items []T
	err   error
}

type reloadMsg struct {
	tab   int
	visor string
}

type deletedMsg struct {
	tab    int
	kind   string
	report []components.TableRow
	err    error
}

type appChangedMsg struct {
	name   string
	action string
	err    error
}

type transportCreatedMsg struct {
	transport *api.Transport
	err       error
}

type copiedMsg struct {
	text string
	err  error
}

type clearToastMsg struct{ seq int }

// --- App Model ---

// Deps is what the TUI needs from the command layer.
type Deps struct {
	Context context.Context
	Client  *api.Client
	Config  *config.Config
	Logger  *log.Logger
	Sorts   *listview.SortStore
	// Visor preselects a visor; empty starts on the visor list.
	Visor string
	// Copy writes to the system clipboard. Nil uses the real clipboard.
	Copy func(string) error
}

type appToast struct {
	level string
	text  string
}

// pendingDelete is a delete waiting for confirmation.
type pendingDelete struct {
	tab     int
	message string
	run     tea.Cmd
}

type deleteReport struct {
	title string
	rows  []components.TableRow
}

// App is the root TUI model that routes between tabs.
type App struct {
	ctx        context.Context
	client     *api.Client
	logger     *log.Logger
	keys       keyMap
	copy       func(string) error
	policy     bulk.Policy
	retryDelay time.Duration
	toastTTL   time.Duration
	hypervisor string

	tab    int
	visor  string
	width  int
	height int

	visors     *listPane[api.Visor, string]
	routes     *listPane[api.Route, int]
	transports *listPane[api.Transport, string]
	apps       *listPane[api.App, string]

	spinner spinner.Model
	busy    string

	confirm  *pendingDelete
	form     *transportForm
	report   *deleteReport
	toast    *appToast
	toastSeq int
}

// NewApp creates the root application model.
func NewApp(deps Deps) App {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	client := deps.Client
	if client == nil {
		client = api.NewClient(cfg.HypervisorURL, cfg.RequestTimeout)
	}
	sorts := deps.Sorts
	if sorts == nil {
		sorts = listview.NewSortStore()
	}
	copyFn := deps.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	visor := deps.Visor
	if visor == "" {
		visor = cfg.Visor
	}

	opts := []listview.Option{
		listview.WithSortStore(sorts),
		listview.WithPageSizes(listview.PageSizes{Short: cfg.ShortPageSize, Full: cfg.FullPageSize}),
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	a := App{
		ctx:        ctx,
		client:     client,
		logger:     logger,
		keys:       keyMap{vim: cfg.VimKeys},
		copy:       copyFn,
		policy:     bulk.PolicyFor(cfg.ContinueOnError),
		retryDelay: cfg.RetryDelay,
		toastTTL:   defaultToastTTL,
		hypervisor: client.BaseURL(),
		tab:        tabVisors,
		visors:     newListPane(lists.Visors, opts...),
		routes:     newListPane(lists.Routes, opts...),
		transports: newListPane(lists.Transports, opts...),
		apps:       newListPane(lists.Apps, opts...),
		spinner:    spin,
	}
	a.bindVisor(visor)
	if visor != "" {
		a.tab = tabRoutes
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, a.loadTab(tabVisors)}
	if a.tab != tabVisors {
		cmds = append(cmds, a.loadTab(a.tab))
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case clearToastMsg:
		if msg.seq == a.toastSeq {
			a.toast = nil
		}
		return a, nil

	case loadedMsg[api.Visor]:
		cmd := handleLoaded(&a, a.visors, tabVisors, msg)
		return a, cmd
	case loadedMsg[api.Route]:
		cmd := handleLoaded(&a, a.routes, tabRoutes, msg)
		return a, cmd
	case loadedMsg[api.Transport]:
		cmd := handleLoaded(&a, a.transports, tabTransports, msg)
		return a, cmd
	case loadedMsg[api.App]:
		cmd := handleLoaded(&a, a.apps, tabApps, msg)
		return a, cmd

	case reloadMsg:
		if msg.visor != a.visor && msg.tab != tabVisors {
			return a, nil
		}
		return a, a.loadTab(msg.tab)

	case deletedMsg:
		a.busy = ""
		a.report = &deleteReport{title: "Delete " + msg.kind, rows: msg.report}
		level, text := "success", fmt.Sprintf("%s deleted", msg.kind)
		if msg.err != nil {
			level, text = "error", msg.err.Error()
			a.logger.Warn("bulk delete finished with errors", "kind", msg.kind, "err", msg.err)
		}
		cmd := tea.Batch(a.setToast(level, text), a.loadTab(msg.tab))
		return a, cmd

	case appChangedMsg:
		a.busy = ""
		if msg.err != nil {
			a.logger.Warn("app update failed", "app", msg.name, "action", msg.action, "err", msg.err)
			cmd := a.setToast("error", fmt.Sprintf("%s %s: %v", msg.action, msg.name, msg.err))
			return a, cmd
		}
		cmd := tea.Batch(a.setToast("success", fmt.Sprintf("%s: %s", msg.name, msg.action)), a.loadTab(tabApps))
		return a, cmd

	case transportCreatedMsg:
		a.busy = ""
		if msg.err != nil {
			if a.form != nil {
				a.form.submitting = false
				a.form.err = msg.err.Error()
			}
			return a, nil
		}
		a.form = nil
		cmd := tea.Batch(a.setToast("success", "transport "+msg.transport.ID+" created"), a.loadTab(tabTransports))
		return a, cmd

	case copiedMsg:
		level, text := "info", "copied "+msg.text
		if msg.err != nil {
			level, text = "error", fmt.Sprintf("copy: %v", msg.err)
		}
		cmd := a.setToast(level, text)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	if a.form != nil {
		submit, cancel, cmd := a.form.update(msg)
		switch {
		case cancel:
			a.form = nil
		case submit:
			a.busy = "creating transport"
			return a, tea.Batch(a.spinner.Tick, a.createTransport(a.form.input()))
		}
		return a, cmd
	}
	if a.confirm != nil {
		switch {
		case isKey(msg, "y", "Y"):
			run := a.confirm.run
			a.confirm = nil
			a.busy = "deleting"
			return a, tea.Batch(a.spinner.Tick, run)
		case isKey(msg, "n", "N"), isBack(msg):
			a.confirm = nil
		}
		return a, nil
	}
	if a.report != nil {
		if isEnter(msg) || isBack(msg) {
			a.report = nil
		}
		return a, nil
	}
	if a.busy != "" {
		return a, nil
	}

	switch {
	case isQuit(msg):
		return a, tea.Quit
	case isKey(msg, "tab"):
		return a.switchTab((a.tab + 1) % tabCount)
	case isKey(msg, "shift+tab"):
		return a.switchTab((a.tab + tabCount - 1) % tabCount)
	case isKey(msg, "r"):
		return a, a.loadTab(a.tab)
	}
	if idx, ok := tabForKey(msg); ok {
		return a.switchTab(idx)
	}
	if a.tab != tabVisors && a.visor == "" {
		return a, nil
	}

	switch a.tab {
	case tabVisors:
		return a.handleVisorKey(msg)
	case tabRoutes:
		return a.handleRouteKey(msg)
	case tabTransports:
		return a.handleTransportKey(msg)
	case tabApps:
		return a.handleAppKey(msg)
	}
	return a, nil
}

func (a App) handleVisorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isEnter(msg):
		v, ok := a.visors.focused()
		if !ok {
			return a, nil
		}
		a.bindVisor(v.LocalPK)
		var cmd tea.Cmd
		a, cmd = a.switchTab(tabRoutes)
		cmd = tea.Batch(cmd, a.setToast("info", "visor "+v.DisplayName()+" selected"))
		return a, cmd
	case isKey(msg, "c"):
		return a, copyFocused(a, a.visors)
	case isKey(msg, "d", "delete"):
		cmd := a.setToast("warning", "visors cannot be deleted from here")
		return a, cmd
	}
	a.visors.handleKey(a.keys, msg)
	return a, nil
}

func (a App) handleRouteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isKey(msg, "c"):
		return a, copyFocused(a, a.routes)
	case isKey(msg, "d", "delete"):
		visor := a.visor
		a.confirm = confirmDelete(a, a.routes, tabRoutes, func(ctx context.Context, key int) error {
			return a.client.DeleteRoute(ctx, visor, key)
		})
		return a, nil
	}
	a.routes.handleKey(a.keys, msg)
	return a, nil
}

func (a App) handleTransportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isKey(msg, "c"):
		return a, copyFocused(a, a.transports)
	case isKey(msg, "n"):
		a.form = newTransportForm()
		return a, nil
	case isKey(msg, "d", "delete"):
		visor := a.visor
		a.confirm = confirmDelete(a, a.transports, tabTransports, func(ctx context.Context, id string) error {
			return a.client.DeleteTransport(ctx, visor, id)
		})
		return a, nil
	}
	a.transports.handleKey(a.keys, msg)
	return a, nil
}

func (a App) handleAppKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isKey(msg, "c"):
		return a, copyFocused(a, a.apps)
	case isEnter(msg):
		app, ok := a.apps.focused()
		if !ok {
			return a, nil
		}
		run := app.Status != api.AppRunning
		action := "stopped"
		if run {
			action = "started"
		}
		a.busy = "updating " + app.Name
		return a, tea.Batch(a.spinner.Tick, a.updateApp(app.Name, action, func(ctx context.Context) error {
			_, err := a.client.SetAppRunning(ctx, a.visor, app.Name, run)
			return err
		}))
	case isKey(msg, "t"):
		app, ok := a.apps.focused()
		if !ok {
			return a, nil
		}
		autostart := !app.Autostart
		action := "autostart off"
		if autostart {
			action = "autostart on"
		}
		a.busy = "updating " + app.Name
		return a, tea.Batch(a.spinner.Tick, a.updateApp(app.Name, action, func(ctx context.Context) error {
			_, err := a.client.UpdateApp(ctx, a.visor, app.Name, api.UpdateAppInput{Autostart: &autostart})
			return err
		}))
	case isKey(msg, "d", "delete"):
		cmd := a.setToast("warning", "apps cannot be deleted, stop them with enter")
		return a, cmd
	}
	a.apps.handleKey(a.keys, msg)
	return a, nil
}

// bindVisor points the per-visor tabs at pk and drops their items.
func (a *App) bindVisor(pk string) {
	a.visor = pk
	a.routes.reset(pk)
	a.transports.reset(pk)
	a.apps.reset(pk)
}

func (a App) switchTab(tab int) (App, tea.Cmd) {
	a.tab = tab
	if tab != tabVisors && a.visor == "" {
		return a, nil
	}
	if a.tabLoaded(tab) {
		return a, nil
	}
	return a, a.loadTab(tab)
}

func (a App) tabLoaded(tab int) bool {
	switch tab {
	case tabVisors:
		return a.visors.loaded || a.visors.loading
	case tabRoutes:
		return a.routes.loaded || a.routes.loading
	case tabTransports:
		return a.transports.loaded || a.transports.loading
	case tabApps:
		return a.apps.loaded || a.apps.loading
	}
	return false
}

// loadTab fetches the list of a tab. Per-visor tabs need a selected visor.
func (a App) loadTab(tab int) tea.Cmd {
	ctx, client, visor := a.ctx, a.client, a.visor
	switch tab {
	case tabVisors:
		a.visors.loading = true
		return func() tea.Msg {
			items, err := client.Visors(ctx)
			return loadedMsg[api.Visor]{items: items, err: err}
		}
	}
	if visor == "" {
		return nil
	}
	switch tab {
	case tabRoutes:
		a.routes.loading = true
		return func() tea.Msg {
			items, err := client.Routes(ctx, visor)
			return loadedMsg[api.Route]{visor: visor, items: items, err: err}
		}
	case tabTransports:
		a.transports.loading = true
		return func() tea.Msg {
			items, err := client.Transports(ctx, visor)
			return loadedMsg[api.Transport]{visor: visor, items: items, err: err}
		}
	case tabApps:
		a.apps.loading = true
		return func() tea.Msg {
			items, err := client.Apps(ctx, visor)
			return loadedMsg[api.App]{visor: visor, items: items, err: err}
		}
	}
	return nil
}

// handleLoaded applies a fetch result. Failures are logged every time, shown
// once per failure streak and retried after the configured delay.
func handleLoaded[T any, K comparable](a *App, p *listPane[T, K], tab int, msg loadedMsg[T]) tea.Cmd {
	if msg.visor != p.visor {
		return nil
	}
	if msg.err != nil {
		p.failed(msg.err)
		a.logger.Warn("load failed", "list", p.view.Kind, "visor", msg.visor, "err", msg.err)
		retryCmd := tea.Tick(a.retryDelay, func(time.Time) tea.Msg {
			return reloadMsg{tab: tab, visor: msg.visor}
		})
		if p.notifier.Failed(msg.err) {
			return tea.Batch(retryCmd, a.setToast("error", fmt.Sprintf("could not load %s, retrying: %v", p.view.Kind, msg.err)))
		}
		return retryCmd
	}
	p.notifier.Succeeded()
	p.setItems(msg.items)
	a.logger.Debug("list loaded", "list", p.view.Kind, "visor", msg.visor, "count", len(msg.items))
	return nil
}

// confirmDelete prepares the confirmation for the targets of p, or nil when
// there is nothing to delete.
func confirmDelete[T any, K comparable](a App, p *listPane[T, K], tab int, del bulk.DeleteFunc[K]) *pendingDelete {
	ids := p.targets()
	if len(ids) == 0 {
		return nil
	}
	kind := p.view.Kind
	message := fmt.Sprintf("Delete %d %s?", len(ids), kind)
	if len(ids) == 1 {
		message = fmt.Sprintf("Delete %s %s?", strings.TrimSuffix(kind, "s"), p.view.FormatKey(ids[0]))
	}

	ctx, logger, policy := a.ctx, a.logger, a.policy
	run := func() tea.Msg {
		report := bulk.Run(ctx, ids, del, bulk.Options[K]{Policy: policy, Logger: logger})
		return deletedMsg{
			tab:  tab,
			kind: kind,
			report: []components.TableRow{
				{Label: "deleted", Value: strconv.Itoa(len(report.Deleted()))},
				{Label: "failed", Value: strconv.Itoa(len(report.Failed()))},
				{Label: "skipped", Value: strconv.Itoa(len(report.Skipped()))},
				{Label: "policy", Value: policy.String()},
			},
			err: report.Err(),
		}
	}
	return &pendingDelete{tab: tab, message: message, run: run}
}

func copyFocused[T any, K comparable](a App, p *listPane[T, K]) tea.Cmd {
	item, ok := p.focused()
	if !ok {
		return nil
	}
	text := p.view.FormatKey(p.view.Key(item))
	copyFn := a.copy
	return func() tea.Msg {
		return copiedMsg{text: text, err: copyFn(text)}
	}
}

func (a App) updateApp(name, action string, fn func(context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return appChangedMsg{name: name, action: action, err: fn(ctx)}
	}
}

func (a App) createTransport(input api.CreateTransportInput) tea.Cmd {
	ctx, client, visor := a.ctx, a.client, a.visor
	return func() tea.Msg {
		tp, err := client.CreateTransport(ctx, visor, input)
		return transportCreatedMsg{transport: tp, err: err}
	}
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toastSeq++
	seq := a.toastSeq
	a.toast = &appToast{level: level, text: components.SanitizeOneLine(text)}
	return tea.Tick(a.toastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

// --- View ---

func (a App) View() string {
	var b strings.Builder
	b.WriteString(RenderBanner(a.hypervisor))
	b.WriteString("\n\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch {
	case a.form != nil:
		b.WriteString(a.form.view())
	case a.confirm != nil:
		b.WriteString(components.ConfirmDialog("Confirm delete", a.confirm.message))
	case a.report != nil:
		b.WriteString(components.ReportDialog(a.report.title, a.report.rows, a.width))
	default:
		b.WriteString(a.renderContent())
	}

	if a.busy != "" {
		b.WriteString("\n\n  " + a.spinner.View() + " " + MutedStyle.Render(a.busy+"..."))
	}
	if toast := a.renderToast(); toast != "" {
		b.WriteString("\n\n" + toast)
	}
	b.WriteString("\n\n")
	b.WriteString(components.StatusBar(a.statusHints(), a.width))
	return b.String()
}

func (a App) renderTabs() string {
	tabs := make([]string, 0, tabCount+1)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == a.tab {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabInactiveStyle.Render(label))
		}
	}
	visor := "no visor"
	if a.visor != "" {
		visor = "visor " + shortKey(a.visor)
	}
	tabs = append(tabs, "  "+VisorStyle.Render(visor))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a App) renderContent() string {
	rowsHeight := 0
	if a.height > 0 {
		// Banner, tabs, table header, footer and status bar.
		rowsHeight = max(a.height-18, 3)
	}
	spin := a.spinner.View()
	if a.tab != tabVisors && a.visor == "" {
		return MutedStyle.Render("  select a visor on the Visors tab (press 1, then enter)")
	}
	switch a.tab {
	case tabVisors:
		return a.visors.render(a.width, rowsHeight, spin)
	case tabRoutes:
		return a.routes.render(a.width, rowsHeight, spin)
	case tabTransports:
		return a.transports.render(a.width, rowsHeight, spin)
	case tabApps:
		return a.apps.render(a.width, rowsHeight, spin)
	}
	return ""
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	switch a.toast.level {
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	case "warning":
		return components.TitledBox("Warning", a.toast.text, a.width)
	case "success":
		return components.TitledBox("Success", a.toast.text, a.width)
	}
	return components.TitledBox("Info", a.toast.text, a.width)
}

func (a App) statusHints() []string {
	switch {
	case a.form != nil:
		return []string{components.Hint("tab", "Next"), components.Hint("enter", "Create"), components.Hint("esc", "Cancel")}
	case a.confirm != nil:
		return []string{components.Hint("y", "Delete"), components.Hint("n", "Cancel")}
	case a.report != nil:
		return []string{components.Hint("enter", "Close")}
	}

	hints := []string{
		components.Hint("1-4", "Tabs"),
		components.Hint("↑/↓", "Move"),
		components.Hint("←/→", "Page"),
		components.Hint("s/S", "Sort"),
		components.Hint("f", "Full"),
		components.Hint("space", "Toggle"),
		components.Hint("a/A", "All/None"),
	}
	switch a.tab {
	case tabVisors:
		hints = append(hints, components.Hint("enter", "Select"))
	case tabRoutes:
		hints = append(hints, components.Hint("d", "Delete"))
	case tabTransports:
		hints = append(hints, components.Hint("n", "New"), components.Hint("d", "Delete"))
	case tabApps:
		hints = append(hints, components.Hint("enter", "Start/Stop"), components.Hint("t", "Autostart"))
	}
	return append(hints, components.Hint("c", "Copy"), components.Hint("r", "Refresh"), components.Hint("q", "Quit"))
}

func shortKey(pk string) string {
	if len(pk) <= 12 {
		return pk
	}
	return pk[:6] + "…" + pk[len(pk)-6:]
}
