package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet/skymanager/internal/api"
	"github.com/skyfleet/skymanager/internal/config"
)

const (
	testPK          = "02a2d4c346dabd165fd555dfdba4a7f4d18786fe7e055e562397cd5102bdd7f8dd"
	otherPK         = "03b1c5d0e8a36c3f1f2a2b95cf2d6e8c1f90a7ad33d1f6d2b6e3c2a17f0c4e9a11"
	remotePK        = "031b80cd5773143a39d940dc0710b93dcccc262a85108018a7a95ab9af734f8055"
	testTransportID = "9c8b5a47-6a1c-4f10-9d45-3c0a5b7e2f11"
)

// fakeHypervisor serves two visors and mutable lists for testPK.
type fakeHypervisor struct {
	mu         sync.Mutex
	routes     []int
	failRoute  map[int]bool
	deleted    []int
	transports []api.Transport
	created    []api.CreateTransportInput
	apps       []api.App
	updates    []map[string]any
	failLists  bool
}

func newFakeHypervisor(routes ...int) *fakeHypervisor {
	return &fakeHypervisor{
		routes:    routes,
		failRoute: map[int]bool{},
		transports: []api.Transport{
			{ID: testTransportID, RemotePK: remotePK, Type: "dmsg", IsUp: true, Log: api.TransportLog{Sent: 2048, Recv: 512}},
		},
		apps: []api.App{
			{Name: "skychat", Port: 1, Status: api.AppRunning, Autostart: true},
			{Name: "skysocks", Port: 3, Status: api.AppStopped},
		},
	}
}

func (f *fakeHypervisor) setFailing(v bool) {
	f.mu.Lock()
	f.failLists = v
	f.mu.Unlock()
}

func (f *fakeHypervisor) handler(t *testing.T) http.HandlerFunc {
	base := "/api/visors/" + testPK
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failLists && r.Method == http.MethodGet {
			w.WriteHeader(http.StatusBadGateway)
			writeJSON(w, map[string]any{"error": "visor offline"})
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/visors":
			writeJSON(w, []map[string]any{
				{"local_pk": otherPK, "label": "edge", "online": false},
				{"local_pk": testPK, "label": "home", "online": true, "tcp_addr": "10.0.0.2:7777", "node_version": "1.3.0"},
			})
		case r.Method == http.MethodGet && r.URL.Path == base+"/routes":
			out := make([]map[string]any, len(f.routes))
			for i, k := range f.routes {
				out[i] = map[string]any{"key": k, "rule": fmt.Sprintf("rule-%02d", k)}
			}
			writeJSON(w, out)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, base+"/routes/"):
			k, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, base+"/routes/"))
			require.NoError(t, err)
			if f.failRoute[k] {
				w.WriteHeader(http.StatusInternalServerError)
				writeJSON(w, map[string]any{"error": "route busy"})
				return
			}
			f.deleted = append(f.deleted, k)
			kept := f.routes[:0]
			for _, key := range f.routes {
				if key != k {
					kept = append(kept, key)
				}
			}
			f.routes = kept
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == base+"/transports":
			writeJSON(w, f.transports)
		case r.Method == http.MethodPost && r.URL.Path == base+"/transports":
			var in api.CreateTransportInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			f.created = append(f.created, in)
			tp := api.Transport{ID: "5d1f0a2e-2f65-4c3a-9a0b-1f8e4c7d6b21", RemotePK: in.RemotePK, Type: in.Type}
			f.transports = append(f.transports, tp)
			writeJSON(w, tp)
		case r.Method == http.MethodGet && r.URL.Path == base+"/apps":
			writeJSON(w, f.apps)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, base+"/apps/"):
			name := strings.TrimPrefix(r.URL.Path, base+"/apps/")
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			body["name"] = name
			f.updates = append(f.updates, body)
			writeJSON(w, map[string]any{"name": name})
		default:
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"error": "not found"})
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// testApp builds an App against fake. visor may be empty.
func testApp(t *testing.T, fake *fakeHypervisor, visor string, edit ...func(*config.Config)) (App, *[]string) {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.HypervisorURL = srv.URL
	cfg.RetryDelay = time.Millisecond
	for _, fn := range edit {
		fn(cfg)
	}
	copied := &[]string{}
	app := NewApp(Deps{
		Client: api.NewClient(srv.URL),
		Config: cfg,
		Visor:  visor,
		Copy: func(s string) error {
			*copied = append(*copied, s)
			return nil
		},
	})
	app.toastTTL = time.Millisecond
	app.width = 120
	app.height = 40
	return app, copied
}

// drain runs cmd and feeds every resulting app message back into a. Timers
// for toasts, retries and the spinner are fired but their messages dropped.
func drain(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "command queue did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case spinner.TickMsg, clearToastMsg, reloadMsg, tea.QuitMsg:
		default:
			model, follow := a.Update(msg)
			a = model.(App)
			queue = append(queue, follow)
		}
	}
	return a
}

// press sends keys and drains what each returns.
func press(t *testing.T, a App, keys ...tea.KeyMsg) App {
	t.Helper()
	for _, k := range keys {
		model, cmd := a.Update(k)
		a = drain(t, model.(App), cmd)
	}
	return a
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// started returns the app after Init settled.
func started(t *testing.T, a App) App {
	t.Helper()
	return drain(t, a, a.Init())
}
