package zone

import (
	"slices"

	"github.com/dusk-indust/chartaxis/internal/chart"
)

// Rejection reasons surfaced to the user.
const (
	ReasonDuplicate       = "Cannot add duplicate column"
	ReasonYAxisType       = "Y-axis must be numeric column type"
	ReasonYAxisStyle      = "Y-axis must be a number style (number, currency, percentage)"
	ReasonY2AxisType      = "Right Y-axis must be numeric column type"
	ReasonY2AxisStyle     = "Right Y-axis must be a number style (number, currency, percentage)"
	ReasonSizeCardinality = "Cannot add more than one size column"
)

// ZoneError describes why a column may not enter a zone.
type ZoneError struct {
	Rejected bool   `json:"error"`
	Reason   string `json:"reason"`
	ZoneID   Kind   `json:"zoneId"`
}

// Error implements error so a rejected drop can be returned as one.
func (e *ZoneError) Error() string {
	if e.Reason == "" {
		return "column rejected by zone " + string(e.ZoneID)
	}
	return e.Reason
}

// rule checks a zone-specific constraint. It returns a reason, or "" when
// the column is accepted.
type rule func(target Zone, meta chart.ColumnMeta, t chart.ChartType) string

func accept(Zone, chart.ColumnMeta, chart.ChartType) string { return "" }

func numericAxis(typeReason, styleReason string) rule {
	return func(_ Zone, meta chart.ColumnMeta, _ chart.ChartType) string {
		if !meta.Type.IsNumeric() {
			return typeReason
		}
		if !meta.Style.IsNumeric() {
			return styleReason
		}
		return ""
	}
}

var rules = map[Kind]rule{
	KindXAxis:        accept,
	KindCategoryAxis: accept,
	KindTooltip:      accept,
	KindMetric:       accept,
	KindAvailable:    accept,
	KindYAxis:        numericAxis(ReasonYAxisType, ReasonYAxisStyle),
	KindY2Axis:       numericAxis(ReasonY2AxisType, ReasonY2AxisStyle),
	KindSizeAxis: func(target Zone, _ chart.ColumnMeta, _ chart.ChartType) string {
		if len(target.Items) >= 1 {
			return ReasonSizeCardinality
		}
		return ""
	},
}

// Validate decides whether column may be dropped into target. Checks run in
// order and the first failure wins: duplicates, then the zone's own rule.
// It returns nil when the column is accepted. Same-zone reorders never reach
// Validate; the caller skips it when target is the drag's source.
func Validate(target Zone, column string, meta chart.ColumnMeta, t chart.ChartType) *ZoneError {
	if slices.Contains(target.Items, column) {
		return reject(target.ID, ReasonDuplicate)
	}
	check, ok := rules[target.ID]
	if !ok {
		return nil
	}
	if reason := check(target, meta, t); reason != "" {
		return reject(target.ID, reason)
	}
	return nil
}

func reject(k Kind, reason string) *ZoneError {
	return &ZoneError{Rejected: true, Reason: reason, ZoneID: k}
}
