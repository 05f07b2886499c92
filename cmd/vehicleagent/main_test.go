package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicleagent/internal/chat"
	"vehicleagent/internal/config"
	"vehicleagent/internal/nlu"
)

// run executes the CLI in an isolated working directory and home.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VEHICLE_LLM_PROVIDER", "none")
	t.Setenv("VEHICLE_LOG_LEVEL", "error")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "vehicleagent dev\n", out)
}

func TestClassify(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "classify", "set", "temperature", "to", "25")
	require.NoError(t, err)
	assert.Equal(t, "climate/temperature_control 1.000 -> climate_agent\n", out)

	out, err = run(t, "", "classify", "hello there")
	require.NoError(t, err)
	assert.Equal(t, "general_conversation/unknown 0.000 -> master_agent\n", out)

	out, err = run(t, "", "classify", "--all", "where am i")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "location_query")

	out, err = run(t, "", "classify", "--explain", "lock the doors")
	require.NoError(t, err)
	assert.Contains(t, out, "Target Agent: vehicle_control_agent")

	_, err = run(t, "", "classify", "--all", "--explain", "x")
	assert.Error(t, err)
}

func TestCatalog_RoundTrip(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "catalog", "-o", "catalog.yaml")
	require.NoError(t, err)

	cat, err := nlu.LoadCatalog("catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, nlu.BuildCatalog().Agents(), cat.Agents())

	require.NoError(t, os.WriteFile("config.yaml", []byte("catalog:\n  path: catalog.yaml\n"), 0o644))
	out, err := run(t, "", "classify", "lock the doors")
	require.NoError(t, err)
	assert.Contains(t, out, "vehicle_control_agent")

	require.NoError(t, os.WriteFile("broken.yaml", []byte("categories: 7\n"), 0o644))
	require.NoError(t, os.WriteFile("config.yaml", []byte("catalog:\n  path: broken.yaml\n"), 0o644))
	_, err = run(t, "", "classify", "lock the doors")
	assert.ErrorIs(t, err, nlu.ErrMalformedConfig)
}

func TestAsk(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "ask", "lock", "the", "doors")
	require.NoError(t, err)
	assert.Equal(t, "All doors locked\nactions: lock_doors\n", out)

	out, err = run(t, "", "ask", "--json", "--lat", "16.7", "--lng", "81.1", "find a hotel near me")
	require.NoError(t, err)
	var msg chat.AgentMessage
	require.NoError(t, json.Unmarshal([]byte(out), &msg))
	assert.Equal(t, nlu.AgentNavigation, msg.AgentID)
	assert.Equal(t, []string{"search_places: lodging"}, msg.ActionsTaken)
}

func TestChat_Plain(t *testing.T) {
	isolate(t)

	out, err := run(t, "set temperature to 28\n/state\n/exit\n", "chat", "--plain", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "[climate]")
	assert.Contains(t, out, "28°C")
}

func TestSetup_Plain(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "new", "config.yaml")

	stdin := "6\n\n\n2\n0\n"
	out, err := run(t, stdin, "setup", "--plain", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, []string{nlu.AgentEntertainment}, cfg.Handlers.Disabled)
}

func TestBadLogLevel(t *testing.T) {
	isolate(t)
	_, err := run(t, "", "--log-level", "chatty", "ask", "hi")
	assert.Error(t, err)
}
