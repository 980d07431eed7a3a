package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/expandedstorage/pkg/embedded"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	embedded.Init(dataFS)

	cfgFile, catalogPath, verbose, memoryOnly = "", "", false, false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--memory"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInspectSampleCatalog(t *testing.T) {
	out, err := runCLI(t, "inspect", "216", "130")
	require.NoError(t, err)

	assert.Contains(t, out, "[216] Mini-Fridge")
	assert.Contains(t, out, "doorClose")
	assert.Contains(t, out, "[130] Chest: not managed")
}

func TestSimulate(t *testing.T) {
	out, err := runCLI(t, "simulate", "248", "--near", "20", "--away", "20")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, out, "frame=3")
	assert.Contains(t, out, "♪ shwip")
	assert.Contains(t, lines[len(lines)-1], "frame=0")

	_, err = runCLI(t, "simulate", "130")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := runCLI(t, "validate")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
items:
  "900":
    name: Bad Chest
    custom_fields:
      furyx639.ExpandedStorage/Enabled: "true"
      furyx639.ExpandedStorage/Frames: "0"
`), 0o644))

	out, err := runCLI(t, "--catalog", path, "validate")
	assert.Error(t, err)
	assert.Contains(t, out, "furyx639.ExpandedStorage/Frames is malformed")
}

// TestSimulateStaticChest 测试普通箱子只在打开时开盖，路过不会动
func TestSimulateStaticChest(t *testing.T) {
	out, err := runCLI(t, "simulate", "232", "--near", "10", "--away", "5")
	require.NoError(t, err)
	assert.NotContains(t, out, "frame=1")
	assert.NotContains(t, out, "♪")

	out, err = runCLI(t, "simulate", "232", "--near", "40", "--away", "40", "--open")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, out, "frame=4")
	assert.Contains(t, lines[len(lines)-1], "frame=0")
}
