package chartstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_ReadsHandWrittenYAML(t *testing.T) {
	dir := t.TempDir()
	doc := `selectedChartType: scatter
columns: [a, b, c]
scatterAxis:
  x: [a]
  y: [b]
  size: [c]
columnLabelFormats:
  b: {columnType: number, style: percent}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hand.yml"), []byte(doc), 0o644))

	s := NewFileStore(dir)
	cfg, err := s.Get(context.Background(), "hand")
	require.NoError(t, err)

	assert.Equal(t, "hand", cfg.ID, "id comes from the file name")
	assert.Equal(t, chart.Scatter, cfg.SelectedChartType)
	assert.Equal(t, []string{"c"}, cfg.ScatterAxis.Size)
	assert.Equal(t, chart.StylePercent, cfg.ColumnMeta("b").Style)
}

func TestFileStore_PutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	_, err := s.Put(context.Background(), sampleChart("sales"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sales.yml", entries[0].Name())
}

func TestFileStore_ListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yml", ".hidden.yml", "notes.txt", "b.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yml"), 0o755))

	ids, err := NewFileStore(dir).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	ids, err := NewFileStore(filepath.Join(t.TempDir(), "absent")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_InvalidIDs(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	for _, id := range []string{"", "..", "a/b", `a\b`, ".hidden"} {
		_, err := s.Get(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidID, id)

		cfg := sampleChart(id)
		_, err = s.Put(ctx, cfg)
		assert.ErrorIs(t, err, ErrInvalidID, id)
	}
}

func TestIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		id   string
		ok   bool
	}{
		{"/x/sales.yml", "sales", true},
		{"sales.yml", "sales", true},
		{"/x/.sales.yml.tmp", "", false},
		{"/x/sales.yaml", "", false},
		{"/x/.yml", "", false},
	}
	for _, tt := range tests {
		id, ok := IDFromPath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.id, id, tt.path)
	}
}
