package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdRegistersGroups(t *testing.T) {
	root := RootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"visors", "routes", "transports", "apps", "history", "setup"} {
		assert.Contains(t, names, want)
	}
	require.NotNil(t, root.Flags().Lookup("hypervisor"))
	require.NotNil(t, root.Flags().Lookup("visor"))
}

func TestRootWithoutTerminalRefusesTUI(t *testing.T) {
	setupHome(t, nil)
	old := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = old })

	_, _, err := run(t, RootCmd(), "")
	assert.ErrorIs(t, err, errNoTerminal)
}

func TestRootRoutesSubcommand(t *testing.T) {
	fake := newFakeRoutes(2, 1)
	srv := testServer(t, fake.handler(t))
	setupHome(t, srv)

	out, _, err := run(t, RootCmd(), "", "routes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "rule-01")
}
