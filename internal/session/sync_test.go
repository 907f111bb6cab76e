package session

import (
	"fmt"
	"testing"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/zone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqIDs returns an id generator yielding id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestFromExternal_RoundTrip(t *testing.T) {
	ext := zone.Build(chart.Bar, chart.AxisConfig{
		X:        []string{"month"},
		Y:        []string{"revenue", "cost"},
		Category: []string{"region"},
	})

	internal := FromExternal(ext, seqIDs())
	assert.Equal(t, ext, ToExternal(internal))
	assert.True(t, Equivalent(internal, ext))
}

func TestFromExternal_AssignsUniqueIDs(t *testing.T) {
	ext := zone.Build(chart.Scatter, chart.AxisConfig{
		X:       []string{"a"},
		Y:       []string{"b", "c"},
		Tooltip: []string{"d"},
	})

	seen := make(map[string]bool)
	for _, z := range FromExternal(ext, seqIDs()) {
		for _, it := range z.Items {
			assert.False(t, seen[it.ID], "id %s reused", it.ID)
			seen[it.ID] = true
		}
	}
	assert.Len(t, seen, 4)
}

func TestEquivalent(t *testing.T) {
	base := zone.Build(chart.Bar, chart.AxisConfig{X: []string{"a"}, Y: []string{"b", "c"}})
	internal := FromExternal(base, seqIDs())

	tests := []struct {
		name string
		ext  []zone.Zone
		want bool
	}{
		{"same", zone.Build(chart.Bar, chart.AxisConfig{X: []string{"a"}, Y: []string{"b", "c"}}), true},
		{"order differs", zone.Build(chart.Bar, chart.AxisConfig{X: []string{"a"}, Y: []string{"c", "b"}}), false},
		{"member added", zone.Build(chart.Bar, chart.AxisConfig{X: []string{"a"}, Y: []string{"b", "c", "d"}}), false},
		{"zone layout differs", zone.Build(chart.Scatter, chart.AxisConfig{X: []string{"a"}, Y: []string{"b", "c"}}), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equivalent(internal, tt.ext))
		})
	}
}

func TestEquivalent_IgnoresTitles(t *testing.T) {
	ext := zone.Build(chart.Bar, chart.AxisConfig{X: []string{"a"}})
	internal := FromExternal(ext, seqIDs())
	internal[0].Title = "Horizontal"
	assert.True(t, Equivalent(internal, ext))
}

func TestNormalize_FirstOccurrenceWins(t *testing.T) {
	ext := []zone.Zone{
		{ID: zone.KindXAxis, Items: []string{"a", "b", "a"}},
		{ID: zone.KindYAxis, Items: []string{"b", "c"}},
	}

	got, dropped := Normalize(ext)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "b"}, got[0].Items)
	assert.Equal(t, []string{"c"}, got[1].Items)
	assert.Equal(t, []string{"a", "b"}, dropped)

	// input untouched
	assert.Equal(t, []string{"a", "b", "a"}, ext[0].Items)
}

func TestNormalize_CleanInputReturnedAsIs(t *testing.T) {
	ext := zone.Build(chart.Bar, chart.AxisConfig{X: []string{"a"}, Y: []string{"b"}})
	got, dropped := Normalize(ext)
	assert.Nil(t, dropped)
	assert.Equal(t, ext, got)
}
