package zone

import (
	"testing"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	numberCol = chart.ColumnMeta{Name: "revenue", Type: chart.TypeNumber, Style: chart.StyleNumber}
	stringCol = chart.ColumnMeta{Name: "region", Type: chart.TypeString, Style: chart.StyleString}
	dateCol   = chart.ColumnMeta{Name: "month", Type: chart.TypeDate, Style: chart.StyleDate}
	// numeric type rendered as text: passes the type check, fails the style check.
	textNumberCol = chart.ColumnMeta{Name: "zip", Type: chart.TypeNumber, Style: chart.StyleString}
)

func TestValidate_BarYAxisRejectsStringColumn(t *testing.T) {
	zones := Build(chart.Bar, chart.AxisConfig{})

	zerr := Validate(zones[1], stringCol.Name, stringCol, chart.Bar)
	require.NotNil(t, zerr)
	assert.True(t, zerr.Rejected)
	assert.Equal(t, KindYAxis, zerr.ZoneID)
	assert.Equal(t, ReasonYAxisType, zerr.Reason)

	assert.Nil(t, Validate(zones[0], stringCol.Name, stringCol, chart.Bar))
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		target Zone
		meta   chart.ColumnMeta
		want   string
	}{
		{"x accepts string", Zone{ID: KindXAxis}, stringCol, ""},
		{"x accepts date", Zone{ID: KindXAxis}, dateCol, ""},
		{"category accepts anything", Zone{ID: KindCategoryAxis}, numberCol, ""},
		{"tooltip accepts anything", Zone{ID: KindTooltip}, dateCol, ""},
		{"metric accepts anything", Zone{ID: KindMetric}, stringCol, ""},
		{"available accepts anything", Zone{ID: KindAvailable}, stringCol, ""},
		{"y accepts number", Zone{ID: KindYAxis}, numberCol, ""},
		{"y accepts currency", Zone{ID: KindYAxis}, chart.ColumnMeta{Name: "c", Type: chart.TypeNumber, Style: chart.StyleCurrency}, ""},
		{"y accepts percent", Zone{ID: KindYAxis}, chart.ColumnMeta{Name: "p", Type: chart.TypeNumber, Style: chart.StylePercent}, ""},
		{"y rejects date type", Zone{ID: KindYAxis}, dateCol, ReasonYAxisType},
		{"y rejects text style", Zone{ID: KindYAxis}, textNumberCol, ReasonYAxisStyle},
		{"y2 rejects string type", Zone{ID: KindY2Axis}, stringCol, ReasonY2AxisType},
		{"y2 rejects text style", Zone{ID: KindY2Axis}, textNumberCol, ReasonY2AxisStyle},
		{"empty size accepts string", Zone{ID: KindSizeAxis}, stringCol, ""},
		{"full size rejects number", Zone{ID: KindSizeAxis, Items: []string{"units"}}, numberCol, ReasonSizeCardinality},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zerr := Validate(tt.target, tt.meta.Name, tt.meta, chart.Scatter)
			if tt.want == "" {
				assert.Nil(t, zerr)
				return
			}
			require.NotNil(t, zerr)
			assert.Equal(t, tt.want, zerr.Reason)
			assert.Equal(t, tt.target.ID, zerr.ZoneID)
		})
	}
}

func TestValidate_DuplicateWinsOverZoneRule(t *testing.T) {
	target := Zone{ID: KindYAxis, Items: []string{"region"}}
	zerr := Validate(target, "region", stringCol, chart.Bar)
	require.NotNil(t, zerr)
	assert.Equal(t, ReasonDuplicate, zerr.Reason)
}

func TestValidate_DuplicateAppliesToEveryKind(t *testing.T) {
	for _, k := range []Kind{KindXAxis, KindYAxis, KindY2Axis, KindCategoryAxis, KindSizeAxis, KindTooltip, KindMetric} {
		target := Zone{ID: k, Items: []string{"revenue"}}
		zerr := Validate(target, "revenue", numberCol, chart.Combo)
		require.NotNil(t, zerr, string(k))
		assert.Equal(t, ReasonDuplicate, zerr.Reason, string(k))
	}
}

func TestValidate_ScatterSizeCardinality(t *testing.T) {
	zones := Build(chart.Scatter, chart.AxisConfig{Size: []string{"units"}})
	size := zones[3]
	require.Equal(t, KindSizeAxis, size.ID)

	for _, meta := range []chart.ColumnMeta{numberCol, stringCol, dateCol} {
		zerr := Validate(size, meta.Name, meta, chart.Scatter)
		require.NotNil(t, zerr)
		assert.Equal(t, ReasonSizeCardinality, zerr.Reason)
	}
}

func TestZoneError_Error(t *testing.T) {
	var err error = &ZoneError{Rejected: true, Reason: ReasonDuplicate, ZoneID: KindXAxis}
	assert.EqualError(t, err, ReasonDuplicate)

	err = &ZoneError{Rejected: true, ZoneID: KindSizeAxis}
	assert.Contains(t, err.Error(), "sizeAxis")
}
