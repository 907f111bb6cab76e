package chartstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleChart(id string) *chart.Config {
	return &chart.Config{
		ID:                id,
		SelectedChartType: chart.Bar,
		Columns:           []string{"month", "region", "revenue", "units"},
		BarAndLineAxis: chart.AxisConfig{
			X:        []string{"month"},
			Y:        []string{"revenue"},
			Category: []string{"region"},
		},
		ScatterAxis: chart.AxisConfig{
			X:    []string{"revenue"},
			Y:    []string{"units"},
			Size: []string{"units"},
		},
		ColumnLabelFormats: map[string]chart.ColumnLabelFormat{
			"revenue": {ColumnType: chart.TypeNumber, Style: chart.StyleCurrency},
			"units":   {ColumnType: chart.TypeNumber, Style: chart.StyleNumber},
			"month":   {ColumnType: chart.TypeDate, Style: chart.StyleDate},
		},
	}
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)
		in := sampleChart("sales")

		stored, err := s.Put(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stored.Revision)
		assert.Zero(t, in.Revision, "input is not modified")

		got, err := s.Get(ctx, "sales")
		require.NoError(t, err)
		assert.Equal(t, chart.Bar, got.SelectedChartType)
		assert.Equal(t, in.Columns, got.Columns)
		assert.Equal(t, in.BarAndLineAxis.X, got.BarAndLineAxis.X)
		assert.Equal(t, in.BarAndLineAxis.Y, got.BarAndLineAxis.Y)
		assert.Equal(t, in.BarAndLineAxis.Category, got.BarAndLineAxis.Category)
		assert.Equal(t, in.ScatterAxis.Size, got.ScatterAxis.Size)
		assert.Equal(t, in.ColumnLabelFormats, got.ColumnLabelFormats)
		assert.Equal(t, chart.StyleString, got.ColumnMeta("region").Style)
	})

	t.Run("put bumps revision", func(t *testing.T) {
		s := newStore(t)
		cfg := sampleChart("sales")
		_, err := s.Put(ctx, cfg)
		require.NoError(t, err)

		cfg.BarAndLineAxis.Y = []string{"revenue", "units"}
		stored, err := s.Put(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.Revision)

		got, err := s.Get(ctx, "sales")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Revision)
		assert.Equal(t, []string{"revenue", "units"}, got.BarAndLineAxis.Y)
	})

	t.Run("put rejects invalid config", func(t *testing.T) {
		s := newStore(t)
		cfg := sampleChart("sales")
		cfg.BarAndLineAxis.Tooltip = []string{"ghost"}
		_, err := s.Put(ctx, cfg)
		assert.ErrorContains(t, err, "ghost")
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list sorted", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"b", "c", "a"} {
			_, err := s.Put(ctx, sampleChart(id))
			require.NoError(t, err)
		}
		ids, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Put(ctx, sampleChart("sales"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "sales"))
		_, err = s.Get(ctx, "sales")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "sales"), ErrNotFound)
	})

	t.Run("returned copies are independent", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Put(ctx, sampleChart("sales"))
		require.NoError(t, err)

		got, err := s.Get(ctx, "sales")
		require.NoError(t, err)
		got.BarAndLineAxis.X[0] = "mutated"

		again, err := s.Get(ctx, "sales")
		require.NoError(t, err)
		assert.Equal(t, []string{"month"}, again.BarAndLineAxis.X)
	})
}

func TestMemStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		s := NewMemStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestFileStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		s := NewFileStore(filepath.Join(t.TempDir(), "charts"))
		require.NoError(t, s.InitSchema(context.Background()))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &config.ProjectConfig{Store: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)
	require.NoError(t, s.Close())

	dir := filepath.Join(t.TempDir(), "charts")
	s, err = Open(ctx, &config.ProjectConfig{Store: config.StoreFile, StorePath: dir})
	require.NoError(t, err)
	assert.DirExists(t, dir)
	require.NoError(t, s.Close())

	_, err = Open(ctx, &config.ProjectConfig{Store: "postgres"})
	assert.ErrorIs(t, err, config.ErrUnknownStore)
}
