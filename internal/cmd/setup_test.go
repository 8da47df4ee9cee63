package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet/skymanager/internal/config"
)

func chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

func hypervisorWithVisors(visors ...map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/about":
			writeJSON(w, map[string]any{"public_key": testPK})
		case "/api/visors":
			writeJSON(w, visors)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestSetupPicksOnlyVisor(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := testServer(t, hypervisorWithVisors(map[string]any{"local_pk": testPK, "online": true}))

	out, _, err := run(t, SetupCmd(), srv.URL+"/\n")
	require.NoError(t, err)
	assert.Contains(t, out, "default visor: "+testPK)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, srv.URL, cfg.HypervisorURL)
	assert.Equal(t, testPK, cfg.Visor)
}

func TestSetupChoosesAmongVisors(t *testing.T) {
	other := "03" + testPK[2:]
	t.Setenv("HOME", t.TempDir())
	srv := testServer(t, hypervisorWithVisors(
		map[string]any{"local_pk": testPK, "online": true, "label": "home"},
		map[string]any{"local_pk": other, "online": false},
	))

	out, _, err := run(t, SetupCmd(), srv.URL+"\n2\n")
	require.NoError(t, err)
	assert.Contains(t, out, "1) home (online)")
	assert.Contains(t, out, "(offline)")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, other, cfg.Visor)
}

func TestSetupRejectsBadChoice(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := testServer(t, hypervisorWithVisors(
		map[string]any{"local_pk": testPK},
		map[string]any{"local_pk": "03" + testPK[2:]},
	))

	_, _, err := run(t, SetupCmd(), srv.URL+"\n9\n")
	require.Error(t, err)
	_, statErr := os.Stat(config.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSetupUnreachableHypervisor(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, _, err := run(t, SetupCmd(), "http://127.0.0.1:1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
	_, statErr := os.Stat(filepath.Join(home, ".skymanager", "config"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSetupKeepsDefaultURLOnEmptyInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := testServer(t, hypervisorWithVisors())
	cfg := config.Default()
	cfg.HypervisorURL = srv.URL
	require.NoError(t, cfg.Save())

	out, _, err := run(t, SetupCmd(), "\n")
	require.NoError(t, err)
	assert.Contains(t, out, "no visors connected")
	assert.Contains(t, out, "["+srv.URL+"]")
}
