package cmd

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tpA = "4e5f1b6a-3c2d-4a7b-9e8f-0a1b2c3d4e5f"
	tpB = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

func transportServer(t *testing.T, deleted *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == visorPath("transports"):
			writeJSON(w, []map[string]any{
				{"id": tpB, "remote_pk": testPK, "type": "stcp", "is_up": false, "log": map[string]any{"sent": 1500}},
				{"id": tpA, "remote_pk": testPK, "type": "dmsg", "is_up": true},
			})
		case r.Method == http.MethodGet && r.URL.Path == visorPath("transports", tpA):
			writeJSON(w, map[string]any{"id": tpA, "remote_pk": testPK, "type": "dmsg", "is_up": true, "log": map[string]any{"recv": 3000000}})
		case r.Method == http.MethodGet && r.URL.Path == visorPath("transport-types"):
			writeJSON(w, []string{"dmsg", "stcp"})
		case r.Method == http.MethodPost && r.URL.Path == visorPath("transports"):
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "stcp", body["transport_type"])
			assert.Equal(t, true, body["public"])
			writeJSON(w, map[string]any{"id": tpA, "type": "stcp"})
		case r.Method == http.MethodDelete:
			*deleted = append(*deleted, r.URL.Path)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestTransportsList(t *testing.T) {
	setupHome(t, testServer(t, transportServer(t, nil)))

	out, _, err := run(t, TransportsCmd(), "", "list", "--sort", "type")
	require.NoError(t, err)
	assert.Less(t, indexOf(out, "dmsg"), indexOf(out, "stcp"))
	assert.Contains(t, out, "1.5 kB")
	assert.Contains(t, out, "sorted by Type asc")
}

func TestTransportsShowAndTypes(t *testing.T) {
	setupHome(t, testServer(t, transportServer(t, nil)))

	out, _, err := run(t, TransportsCmd(), "", "show", tpA)
	require.NoError(t, err)
	assert.Contains(t, out, "type:      dmsg")
	assert.Contains(t, out, "received:  3.0 MB")

	out, _, err = run(t, TransportsCmd(), "", "types")
	require.NoError(t, err)
	assert.Equal(t, "dmsg\nstcp\n", out)
}

func TestTransportsShowRejectsBadID(t *testing.T) {
	setupHome(t, testServer(t, transportServer(t, nil)))

	_, _, err := run(t, TransportsCmd(), "", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport id")
}

func TestTransportsCreate(t *testing.T) {
	setupHome(t, testServer(t, transportServer(t, nil)))

	out, _, err := run(t, TransportsCmd(), "", "create", testPK, "--type", "stcp", "--public")
	require.NoError(t, err)
	assert.Contains(t, out, "transport created: "+tpA)
}

func TestTransportsCreateValidatesBeforeCalling(t *testing.T) {
	var calls atomic.Int32
	setupHome(t, testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, _, err := run(t, TransportsCmd(), "", "create", "short-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
	assert.Equal(t, int32(0), calls.Load())
}

func TestTransportsRmReportsBadIDs(t *testing.T) {
	var deleted []string
	setupHome(t, testServer(t, transportServer(t, &deleted)))

	out, _, err := run(t, TransportsCmd(), "", "rm", tpA, "bogus", tpB, "--yes", "--continue")
	require.Error(t, err)
	assert.Equal(t, []string{visorPath("transports", tpA), visorPath("transports", tpB)}, deleted)
	assert.Contains(t, out, "failed bogus")
	assert.Contains(t, out, "2 deleted, 1 failed, 0 skipped")
}

func TestTransportsRmAll(t *testing.T) {
	var deleted []string
	setupHome(t, testServer(t, transportServer(t, &deleted)))

	_, _, err := run(t, TransportsCmd(), "", "rm", "--all", "--yes")
	require.NoError(t, err)
	// Default column is ID.
	assert.Equal(t, []string{visorPath("transports", tpA), visorPath("transports", tpB)}, deleted)
}

func TestTransportsRmRejectsIDsWithAll(t *testing.T) {
	var deleted []string
	setupHome(t, testServer(t, transportServer(t, &deleted)))

	_, _, err := run(t, TransportsCmd(), "", "rm", tpA, "--all", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
	assert.Empty(t, deleted)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
