package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/config"
	"github.com/skyfleet/skymanager/internal/listview"
	"github.com/skyfleet/skymanager/internal/ui/components"
)

func TestInitLoadsVisorsWithoutSelection(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), "")
	app = started(t, app)

	assert.Equal(t, tabVisors, app.tab)
	require.True(t, app.visors.loaded)
	rows := app.visors.rows()
	require.Len(t, rows, 2)
	assert.Equal(t, testPK, rows[0].LocalPK)
	assert.False(t, app.routes.loaded)
}

func TestInitWithVisorOpensRoutes(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(3, 1, 2), testPK)
	app = started(t, app)

	assert.Equal(t, tabRoutes, app.tab)
	require.True(t, app.routes.loaded)
	keys := make([]int, 0, 3)
	for _, r := range app.routes.rows() {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []int{1, 2, 3}, keys)
}

func TestEnterSelectsVisorAndLoadsRoutes(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(7), "")
	app = started(t, app)

	app = press(t, app, keyType(tea.KeyEnter))

	assert.Equal(t, testPK, app.visor)
	assert.Equal(t, tabRoutes, app.tab)
	require.True(t, app.routes.loaded)
	assert.Equal(t, 7, app.routes.rows()[0].Key)
	require.NotNil(t, app.toast)
	assert.Contains(t, app.toast.text, "visor home selected")
}

func TestPerVisorTabWithoutVisorShowsHint(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), "")
	app = started(t, app)

	app = press(t, app, typed("2"))

	assert.Equal(t, tabRoutes, app.tab)
	assert.False(t, app.routes.loading)
	assert.Contains(t, components.SanitizeText(app.View()), "select a visor on the Visors tab")
}

func TestTabKeysCycle(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), testPK)
	app = started(t, app)

	app = press(t, app, keyType(tea.KeyTab))
	assert.Equal(t, tabTransports, app.tab)
	assert.True(t, app.transports.loaded)

	app = press(t, app, keyType(tea.KeyTab), keyType(tea.KeyTab))
	assert.Equal(t, tabVisors, app.tab)

	app = press(t, app, keyType(tea.KeyShiftTab))
	assert.Equal(t, tabApps, app.tab)
}

func TestSortKeysCycleAndReverse(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(1, 2), testPK)
	app = started(t, app)

	app = press(t, app, typed("s"))
	assert.Equal(t, listview.SortSpec{Column: "Rule"}, app.routes.pipe.Sort())

	app = press(t, app, typed("S"))
	assert.Equal(t, listview.SortSpec{Column: "Rule", Reverse: true}, app.routes.pipe.Sort())
	assert.Equal(t, 2, app.routes.rows()[0].Key)

	app = press(t, app, typed("s"))
	assert.Equal(t, listview.SortSpec{Column: "Key"}, app.routes.pipe.Sort())
}

func TestPagingAndFullMode(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12), testPK)
	app = started(t, app)

	page := app.routes.pipe.Page()
	assert.Equal(t, 1, page.Current)
	assert.Equal(t, 3, page.Total)

	app = press(t, app, keyType(tea.KeyRight), keyType(tea.KeyRight), keyType(tea.KeyRight))
	assert.Equal(t, 3, app.routes.pipe.Page().Current)
	assert.Len(t, app.routes.rows(), 2)

	app = press(t, app, keyType(tea.KeyLeft))
	assert.Equal(t, 2, app.routes.pipe.Page().Current)

	app = press(t, app, typed("f"))
	assert.Equal(t, listview.Full, app.routes.pipe.Mode())
	assert.Equal(t, 1, app.routes.pipe.Page().Total)
	assert.Len(t, app.routes.rows(), 12)
}

func TestVimKeysMoveCursor(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(1, 2, 3), testPK)
	app = started(t, app)

	app = press(t, app, typed("j"), typed("j"), typed("k"))
	assert.Equal(t, 1, app.routes.cursor.Index)

	plain, _ := testApp(t, newFakeHypervisor(1, 2, 3), testPK, func(c *config.Config) { c.VimKeys = false })
	plain = started(t, plain)
	plain = press(t, plain, typed("j"))
	assert.Equal(t, 0, plain.routes.cursor.Index)
}

func TestDeleteSelectedRoutes(t *testing.T) {
	fake := newFakeHypervisor(3, 1, 2)
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	app = press(t, app, keyType(tea.KeySpace), keyType(tea.KeySpace), typed("d"))
	require.NotNil(t, app.confirm)
	assert.Equal(t, "Delete 2 routes?", app.confirm.message)
	assert.Contains(t, components.SanitizeText(app.View()), "Delete 2 routes?")

	app = press(t, app, typed("y"))

	assert.Equal(t, []int{1, 2}, fake.deleted)
	assert.Nil(t, app.confirm)
	assert.Empty(t, app.busy)
	require.NotNil(t, app.report)
	assert.Equal(t, components.TableRow{Label: "deleted", Value: "2"}, app.report.rows[0])
	assert.Equal(t, 1, app.routes.pipe.Len())
	assert.Equal(t, "success", app.toast.level)

	app = press(t, app, keyType(tea.KeyEnter))
	assert.Nil(t, app.report)
}

func TestDeleteFocusedRouteWhenNothingChecked(t *testing.T) {
	fake := newFakeHypervisor(4, 9)
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	app = press(t, app, keyType(tea.KeyDown), typed("d"))
	require.NotNil(t, app.confirm)
	assert.Equal(t, "Delete route 9?", app.confirm.message)

	app = press(t, app, typed("n"))
	assert.Nil(t, app.confirm)
	assert.Empty(t, fake.deleted)
}

func TestDeleteHaltsAtFirstFailure(t *testing.T) {
	fake := newFakeHypervisor(1, 2, 3)
	fake.failRoute[2] = true
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	app = press(t, app, typed("a"), typed("d"), typed("y"))

	assert.Equal(t, []int{1}, fake.deleted)
	require.NotNil(t, app.report)
	assert.Equal(t, []components.TableRow{
		{Label: "deleted", Value: "1"},
		{Label: "failed", Value: "1"},
		{Label: "skipped", Value: "1"},
		{Label: "policy", Value: "halt"},
	}, app.report.rows)
	require.NotNil(t, app.toast)
	assert.Equal(t, "error", app.toast.level)
	assert.Contains(t, app.toast.text, "route busy")
}

func TestDeleteContinuesWhenConfigured(t *testing.T) {
	fake := newFakeHypervisor(1, 2, 3)
	fake.failRoute[2] = true
	app, _ := testApp(t, fake, testPK, func(c *config.Config) { c.ContinueOnError = true })
	app = started(t, app)

	app = press(t, app, typed("a"), typed("d"), typed("y"))

	assert.Equal(t, []int{1, 3}, fake.deleted)
	assert.Equal(t, "continue", app.report.rows[3].Value)
	assert.Equal(t, []int{2}, []int{app.routes.rows()[0].Key})
}

func TestVisorsCannotBeDeleted(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), "")
	app = started(t, app)

	app = press(t, app, typed("d"))
	assert.Nil(t, app.confirm)
	require.NotNil(t, app.toast)
	assert.Equal(t, "warning", app.toast.level)
}

func TestCopyFocusedKey(t *testing.T) {
	app, copied := testApp(t, newFakeHypervisor(), "")
	app = started(t, app)

	app = press(t, app, typed("c"))

	assert.Equal(t, []string{testPK}, *copied)
	require.NotNil(t, app.toast)
	assert.Equal(t, "copied "+testPK, app.toast.text)
}

func TestLoadFailureIsShownOnceUntilSuccess(t *testing.T) {
	fake := newFakeHypervisor(5)
	fake.setFailing(true)
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	require.NotNil(t, app.toast)
	assert.Contains(t, app.toast.text, "visor offline")
	assert.True(t, app.routes.notifier.Failing())
	assert.False(t, app.routes.loaded)
	assert.Contains(t, components.SanitizeText(app.View()), "could not load routes, retrying")
	seq := app.toastSeq

	model, cmd := app.Update(reloadMsg{tab: tabRoutes, visor: testPK})
	app = drain(t, model.(App), cmd)
	assert.Equal(t, seq, app.toastSeq)

	fake.setFailing(false)
	model, cmd = app.Update(reloadMsg{tab: tabRoutes, visor: testPK})
	app = drain(t, model.(App), cmd)
	assert.True(t, app.routes.loaded)
	assert.False(t, app.routes.notifier.Failing())
	assert.Empty(t, app.routes.err)
}

func TestStaleLoadIsIgnored(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), testPK)

	model, _ := app.Update(loadedMsg[api.Route]{visor: otherPK, items: []api.Route{{Key: 1}}})
	app = model.(App)
	assert.False(t, app.routes.loaded)

	model, _ = app.Update(reloadMsg{tab: tabRoutes, visor: otherPK})
	app = model.(App)
	assert.False(t, app.routes.loading)
}

func TestAppStartStopAndAutostart(t *testing.T) {
	fake := newFakeHypervisor()
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	app = press(t, app, typed("4"))
	require.Len(t, app.apps.rows(), 2)

	app = press(t, app, keyType(tea.KeyDown), keyType(tea.KeyEnter))
	require.Len(t, fake.updates, 1)
	assert.Equal(t, "skysocks", fake.updates[0]["name"])
	assert.Equal(t, float64(api.AppRunning), fake.updates[0]["status"])
	assert.Equal(t, "skysocks: started", app.toast.text)

	app = press(t, app, keyType(tea.KeyUp), typed("t"))
	require.Len(t, fake.updates, 2)
	assert.Equal(t, "skychat", fake.updates[1]["name"])
	assert.Equal(t, false, fake.updates[1]["autostart"])
	assert.Empty(t, app.busy)
}

func TestTransportFormCreatesTransport(t *testing.T) {
	fake := newFakeHypervisor()
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	app = press(t, app, typed("3"), typed("n"))
	require.NotNil(t, app.form)

	app = press(t, app, typed(otherPK), keyType(tea.KeyTab), keyType(tea.KeyTab), keyType(tea.KeySpace))
	assert.True(t, app.form.public)

	app = press(t, app, keyType(tea.KeyEnter))

	require.Len(t, fake.created, 1)
	assert.Equal(t, api.CreateTransportInput{RemotePK: otherPK, Type: "dmsg", Public: true}, fake.created[0])
	assert.Nil(t, app.form)
	assert.Equal(t, 2, app.transports.pipe.Len())
	assert.Contains(t, app.toast.text, "created")
}

func TestTransportFormRejectsBadKey(t *testing.T) {
	fake := newFakeHypervisor()
	app, _ := testApp(t, fake, testPK)
	app = started(t, app)

	app = press(t, app, typed("3"), typed("n"), typed("abc"), keyType(tea.KeyEnter))

	require.NotNil(t, app.form)
	assert.Equal(t, "remote key must be 66 hex characters", app.form.err)
	assert.False(t, app.form.submitting)
	assert.Empty(t, fake.created)

	app = press(t, app, keyType(tea.KeyEsc))
	assert.Nil(t, app.form)
}

func TestQuitKey(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), "")

	_, cmd := app.Update(typed("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestViewRendersListAndHints(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(1, 2), testPK)
	app = started(t, app)

	out := components.SanitizeText(app.View())
	assert.Contains(t, out, "Visor Hypervisor Manager")
	assert.Contains(t, out, "2 Routes")
	assert.Contains(t, out, "rule-01")
	assert.Contains(t, out, "KEY ↑")
	assert.Contains(t, out, "page 1/1")
	assert.Contains(t, out, "Delete")
}

func TestWindowSizeIsStored(t *testing.T) {
	app, _ := testApp(t, newFakeHypervisor(), "")
	model, _ := app.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	app = model.(App)
	assert.Equal(t, 90, app.width)
	assert.Equal(t, 30, app.height)
}
