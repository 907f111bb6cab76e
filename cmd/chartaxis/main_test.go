package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProject writes a chartaxis.yml and one chart file into a temp dir.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chartaxis.yml"), []byte("store: file\nstorePath: charts\n"), 0o644))

	store := chartstore.NewFileStore(filepath.Join(dir, "charts"))
	require.NoError(t, store.InitSchema(context.Background()))
	_, err := store.Put(context.Background(), &chart.Config{
		ID:                "sales",
		SelectedChartType: chart.Bar,
		Columns:           []string{"month", "region", "revenue"},
		BarAndLineAxis:    chart.AxisConfig{X: []string{"month"}, Y: []string{"revenue"}},
		ColumnLabelFormats: map[string]chart.ColumnLabelFormat{
			"revenue": {ColumnType: chart.TypeNumber, Style: chart.StyleNumber},
		},
	})
	require.NoError(t, err)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--dir", t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestList(t *testing.T) {
	dir := setupProject(t)
	out, err := execute(t, "--dir", dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "sales\tbar\trev 1\n", out)
}

func TestZones(t *testing.T) {
	dir := setupProject(t)
	out, err := execute(t, "--dir", dir, "zones", "sales")
	require.NoError(t, err)

	assert.Contains(t, out, "sales (bar)")
	assert.Contains(t, out, "X-Axis       month")
	assert.Contains(t, out, "Category     -")
	assert.Contains(t, out, "Available    region")
}

func TestZones_UnknownChart(t *testing.T) {
	dir := setupProject(t)
	_, err := execute(t, "--dir", dir, "zones", "nope")
	assert.ErrorIs(t, err, chartstore.ErrNotFound)
}

func TestExportJSON(t *testing.T) {
	dir := setupProject(t)
	out, err := execute(t, "--dir", dir, "export", "sales")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "sales", doc["chartId"])
	assert.Equal(t, "bar", doc["chartType"])
}

func TestExportMermaid(t *testing.T) {
	dir := setupProject(t)
	out, err := execute(t, "--dir", dir, "export", "sales", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
}

func TestExportUnknownFormat(t *testing.T) {
	dir := setupProject(t)
	_, err := execute(t, "--dir", dir, "export", "sales", "-f", "svg")
	assert.ErrorContains(t, err, "unknown format")
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chartaxis.yml"), []byte("store: redis\n"), 0o644))
	_, err := execute(t, "--dir", dir, "list")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcp.json"), []byte(`{"mcpServers":{"other":{"type":"stdio","command":"other"}}}`), 0o644))

	out, err := execute(t, "--dir", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "created ./chartaxis.yml")
	assert.Contains(t, out, "created ./charts/example.yml")
	assert.Contains(t, out, "updated .mcp.json")

	var mcp mcpConfig
	data, err := os.ReadFile(filepath.Join(dir, ".mcp.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &mcp))
	assert.Contains(t, mcp.MCPServers, "other")
	assert.Contains(t, mcp.MCPServers, "chartaxis")

	out, err = execute(t, "--dir", dir, "zones", "example")
	require.NoError(t, err)
	assert.Contains(t, out, "Available    region, orders")

	out, err = execute(t, "--dir", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped ./chartaxis.yml")
	assert.Contains(t, out, "skipped .mcp.json chartaxis entry")
}
