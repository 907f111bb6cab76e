package chart

// ColumnType is the declared data type of a dataset column.
type ColumnType string

const (
	TypeNumber  ColumnType = "number"
	TypeString  ColumnType = "string"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// IsNumeric reports whether values of this type can be plotted on a
// numeric axis.
func (t ColumnType) IsNumeric() bool {
	return t == TypeNumber
}

// ColumnStyle is the display style applied to a column's values.
type ColumnStyle string

const (
	StyleNumber   ColumnStyle = "number"
	StyleCurrency ColumnStyle = "currency"
	StylePercent  ColumnStyle = "percent"
	StyleString   ColumnStyle = "string"
	StyleDate     ColumnStyle = "date"
)

// IsNumeric reports whether the style renders a number.
func (s ColumnStyle) IsNumeric() bool {
	switch s {
	case StyleNumber, StyleCurrency, StylePercent:
		return true
	}
	return false
}

// ColumnLabelFormat is the stored formatting for one column.
type ColumnLabelFormat struct {
	ColumnType ColumnType  `json:"columnType" yaml:"columnType"`
	Style      ColumnStyle `json:"style" yaml:"style"`
}

// ColumnMeta is what the zone validator needs to know about a column.
type ColumnMeta struct {
	Name  string      `json:"name"`
	Type  ColumnType  `json:"columnType"`
	Style ColumnStyle `json:"style"`
}
