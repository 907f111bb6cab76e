package mcptools

// --- MCP Tool Input Types ---
// The MCP Go SDK generates each tool's JSON schema from these struct tags.

// OpenSessionInput is the input for the open_session MCP tool.
type OpenSessionInput struct {
	ChartID string `json:"chartId" jsonschema:"id of the chart to edit"`
}

// SessionInput is the input for tools that only need a session.
type SessionInput struct {
	SessionID string `json:"sessionId" jsonschema:"session id returned by open_session"`
}

// MoveColumnInput is the input for the move_column MCP tool.
type MoveColumnInput struct {
	SessionID string `json:"sessionId" jsonschema:"session id returned by open_session"`
	Column    string `json:"column" jsonschema:"column name to move"`
	Zone      string `json:"zone" jsonschema:"target zone: xAxis, yAxis, y2Axis, categoryAxis, sizeAxis, tooltip, or available to unassign"`
}

// ColumnInput is the input for the remove_column MCP tool.
type ColumnInput struct {
	SessionID string `json:"sessionId" jsonschema:"session id returned by open_session"`
	Column    string `json:"column" jsonschema:"column name"`
}

// ReorderColumnInput is the input for the reorder_column MCP tool.
type ReorderColumnInput struct {
	SessionID string `json:"sessionId" jsonschema:"session id returned by open_session"`
	Column    string `json:"column" jsonschema:"column name, already assigned to a zone"`
	Position  int    `json:"position" jsonschema:"zero-based slot within the column's zone; past the end moves it last"`
}

// SetChartTypeInput is the input for the set_chart_type MCP tool.
type SetChartTypeInput struct {
	SessionID string `json:"sessionId" jsonschema:"session id returned by open_session"`
	ChartType string `json:"chartType" jsonschema:"bar, line, scatter, pie, combo, metric or table"`
}

// --- MCP Tool Output Types ---

// ZoneOutput is one zone and its columns in order.
type ZoneOutput struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
}

// SessionOutput describes a session's zones.
type SessionOutput struct {
	SessionID string       `json:"sessionId"`
	ChartID   string       `json:"chartId"`
	ChartType string       `json:"chartType"`
	State     string       `json:"state"`
	Zones     []ZoneOutput `json:"zones"`
	Available []string     `json:"available"`
}

// DropOutput is the result of a column edit.
type DropOutput struct {
	Path      string        `json:"path"`
	Committed bool          `json:"committed"`
	Reason    string        `json:"reason,omitempty"`
	Session   SessionOutput `json:"session"`
}

// CloseOutput is the result of the close_session MCP tool.
type CloseOutput struct {
	Closed bool `json:"closed"`
}
