package mcptools

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupServerClient wires an MCP server and client together over in-memory
// transports, backed by a memory store holding one sales chart.
func setupServerClient(t *testing.T) (*mcp.ClientSession, chartstore.Store) {
	t.Helper()

	store := chartstore.NewMemStore()
	_, err := store.Put(context.Background(), &chart.Config{
		ID:                "sales",
		SelectedChartType: chart.Bar,
		Columns:           []string{"month", "region", "revenue", "cost"},
		BarAndLineAxis:    chart.AxisConfig{X: []string{"month"}, Y: []string{"revenue", "cost"}},
		ColumnLabelFormats: map[string]chart.ColumnLabelFormat{
			"revenue": {ColumnType: chart.TypeNumber, Style: chart.StyleCurrency},
			"cost":    {ColumnType: chart.TypeNumber, Style: chart.StyleCurrency},
		},
	})
	require.NoError(t, err)

	ed := editor.New(store, editor.WithSettleDelay(0))
	server := NewAxisMCPServer(ed)

	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err = server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
		ed.Shutdown()
	})
	return session, store
}

// callTool calls name and decodes its structured output into out.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args, out any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	if result.IsError || out == nil {
		return result
	}
	require.NotNil(t, result.StructuredContent, "expected structured content from %s", name)
	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
	return result
}

func openSales(t *testing.T, session *mcp.ClientSession) SessionOutput {
	t.Helper()
	var out SessionOutput
	res := callTool(t, session, "open_session", OpenSessionInput{ChartID: "sales"}, &out)
	require.False(t, res.IsError)
	return out
}

func zoneColumns(s SessionOutput, id string) []string {
	for _, z := range s.Zones {
		if z.ID == id {
			return z.Columns
		}
	}
	return nil
}

func TestMCPListTools(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)

	assert.Equal(t, []string{
		"close_session",
		"get_zones",
		"move_column",
		"open_session",
		"remove_column",
		"reorder_column",
		"set_chart_type",
	}, names)
}

func TestMCPOpenSession(t *testing.T) {
	session, _ := setupServerClient(t)
	out := openSales(t, session)

	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "bar", out.ChartType)
	assert.Equal(t, "idle", out.State)
	require.Len(t, out.Zones, 4)
	assert.Equal(t, "X-Axis", out.Zones[0].Title)
	assert.Equal(t, []string{"revenue", "cost"}, zoneColumns(out, "yAxis"))
	assert.Equal(t, []string{"region"}, out.Available)
}

func TestMCPOpenSession_UnknownChart(t *testing.T) {
	session, _ := setupServerClient(t)
	res := callTool(t, session, "open_session", OpenSessionInput{ChartID: "nope"}, nil)
	assert.True(t, res.IsError)
}

func TestMCPMoveColumn(t *testing.T) {
	session, store := setupServerClient(t)
	s := openSales(t, session)

	var out DropOutput
	res := callTool(t, session, "move_column", MoveColumnInput{SessionID: s.SessionID, Column: "region", Zone: "categoryAxis"}, &out)
	require.False(t, res.IsError)
	assert.Equal(t, "moved", out.Path)
	assert.True(t, out.Committed)
	assert.Equal(t, []string{"region"}, zoneColumns(out.Session, "categoryAxis"))
	assert.Empty(t, out.Session.Available)

	cfg, err := store.Get(context.Background(), "sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"region"}, cfg.BarAndLineAxis.Category)
}

func TestMCPMoveColumn_Rejected(t *testing.T) {
	session, _ := setupServerClient(t)
	s := openSales(t, session)

	var out DropOutput
	res := callTool(t, session, "move_column", MoveColumnInput{SessionID: s.SessionID, Column: "region", Zone: "yAxis"}, &out)
	require.False(t, res.IsError, "a rejected drop is a result")
	assert.Equal(t, "rejected", out.Path)
	assert.False(t, out.Committed)
	assert.NotEmpty(t, out.Reason)
	assert.Equal(t, []string{"revenue", "cost"}, zoneColumns(out.Session, "yAxis"))
}

func TestMCPMoveColumn_ZoneNotOnChart(t *testing.T) {
	session, _ := setupServerClient(t)
	s := openSales(t, session)

	res := callTool(t, session, "move_column", MoveColumnInput{SessionID: s.SessionID, Column: "region", Zone: "sizeAxis"}, nil)
	assert.True(t, res.IsError)
}

func TestMCPRemoveColumn(t *testing.T) {
	session, _ := setupServerClient(t)
	s := openSales(t, session)

	var out DropOutput
	callTool(t, session, "remove_column", ColumnInput{SessionID: s.SessionID, Column: "cost"}, &out)
	assert.Equal(t, "deleted", out.Path)
	assert.Equal(t, []string{"revenue"}, zoneColumns(out.Session, "yAxis"))
	assert.ElementsMatch(t, []string{"region", "cost"}, out.Session.Available)
}

func TestMCPReorderColumn(t *testing.T) {
	session, store := setupServerClient(t)
	s := openSales(t, session)

	var out DropOutput
	callTool(t, session, "reorder_column", ReorderColumnInput{SessionID: s.SessionID, Column: "cost", Position: 0}, &out)
	assert.Equal(t, "reordered", out.Path)
	assert.Equal(t, []string{"cost", "revenue"}, zoneColumns(out.Session, "yAxis"))

	cfg, err := store.Get(context.Background(), "sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"cost", "revenue"}, cfg.BarAndLineAxis.Y)
}

func TestMCPSetChartType(t *testing.T) {
	session, _ := setupServerClient(t)
	s := openSales(t, session)

	var out SessionOutput
	callTool(t, session, "set_chart_type", SetChartTypeInput{SessionID: s.SessionID, ChartType: "pie"}, &out)
	assert.Equal(t, "pie", out.ChartType)
	require.Len(t, out.Zones, 3)
	assert.Empty(t, zoneColumns(out, "xAxis"), "pie reads its own axis block")

	res := callTool(t, session, "set_chart_type", SetChartTypeInput{SessionID: s.SessionID, ChartType: "radar"}, nil)
	assert.True(t, res.IsError)
}

func TestMCPGetZonesAndClose(t *testing.T) {
	session, _ := setupServerClient(t)
	s := openSales(t, session)

	var got SessionOutput
	callTool(t, session, "get_zones", SessionInput{SessionID: s.SessionID}, &got)
	assert.Equal(t, s.Zones, got.Zones)

	var closed CloseOutput
	callTool(t, session, "close_session", SessionInput{SessionID: s.SessionID}, &closed)
	assert.True(t, closed.Closed)

	res := callTool(t, session, "get_zones", SessionInput{SessionID: s.SessionID}, nil)
	assert.True(t, res.IsError)
}

func TestMCPCallUnknownTool(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "nonexistent_tool",
		Arguments: map[string]any{},
	})
	if err != nil {
		return
	}
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
