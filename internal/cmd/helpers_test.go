package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet/skymanager/internal/config"
)

const testPK = "02a2d4c346dabd165fd555dfdba4a7f4d18786fe7e055e562397cd5102bdd7f8dd"

func testServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// setupHome points HOME at a temp dir and writes a config aimed at srv.
func setupHome(t *testing.T, srv *httptest.Server, edit ...func(*config.Config)) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Default()
	if srv != nil {
		cfg.HypervisorURL = srv.URL
		cfg.DiscoveryURL = srv.URL
	}
	cfg.Visor = testPK
	cfg.RetryDelay = 100 * time.Millisecond
	cfg.StorePath = filepath.Join(home, "store.db")
	cfg.LogFile = filepath.Join(home, "manager.log")
	for _, fn := range edit {
		fn(cfg)
	}
	require.NoError(t, cfg.Save())
	return home
}

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func visorPath(parts ...string) string {
	return "/api/visors/" + testPK + strings.Join(append([]string{""}, parts...), "/")
}
