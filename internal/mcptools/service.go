package mcptools

import (
	"context"
	"fmt"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/dusk-indust/chartaxis/internal/session"
	"github.com/dusk-indust/chartaxis/internal/zone"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AxisService handles MCP tool calls by driving editor sessions.
type AxisService struct {
	editor *editor.Editor
}

// NewAxisService creates an AxisService over ed.
func NewAxisService(ed *editor.Editor) *AxisService {
	return &AxisService{editor: ed}
}

// OpenSession starts an editing session on a chart.
func (s *AxisService) OpenSession(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OpenSessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	if input.ChartID == "" {
		return nil, SessionOutput{}, fmt.Errorf("chartId is required")
	}
	v, err := s.editor.Open(ctx, input.ChartID)
	if err != nil {
		return nil, SessionOutput{}, err
	}
	return nil, sessionOutput(v), nil
}

// GetZones reports a session's zones and available columns.
func (s *AxisService) GetZones(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	v, err := s.editor.Get(input.SessionID)
	if err != nil {
		return nil, SessionOutput{}, err
	}
	return nil, sessionOutput(v), nil
}

// MoveColumn drops a column into a zone, or back into the available pool.
func (s *AxisService) MoveColumn(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input MoveColumnInput,
) (*mcp.CallToolResult, DropOutput, error) {
	v, err := s.editor.Get(input.SessionID)
	if err != nil {
		return nil, DropOutput{}, err
	}
	target := zone.Kind(input.Zone)
	if target != zone.KindAvailable && !zone.Supports(v.ChartType, target) {
		return nil, DropOutput{}, fmt.Errorf("zone %q is not on a %s chart", input.Zone, v.ChartType)
	}
	res, err := s.editor.Move(input.SessionID, input.Column, target)
	return s.drop(input.SessionID, res, err)
}

// RemoveColumn returns a column to the available pool.
func (s *AxisService) RemoveColumn(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ColumnInput,
) (*mcp.CallToolResult, DropOutput, error) {
	res, err := s.editor.Remove(input.SessionID, input.Column)
	return s.drop(input.SessionID, res, err)
}

// ReorderColumn moves a column to another slot in its zone.
func (s *AxisService) ReorderColumn(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReorderColumnInput,
) (*mcp.CallToolResult, DropOutput, error) {
	res, err := s.editor.Reorder(input.SessionID, input.Column, input.Position)
	return s.drop(input.SessionID, res, err)
}

// SetChartType switches the chart's selected type.
func (s *AxisService) SetChartType(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetChartTypeInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	t, err := chart.ParseChartType(input.ChartType)
	if err != nil {
		return nil, SessionOutput{}, err
	}
	v, err := s.editor.SetChartType(ctx, input.SessionID, t)
	if err != nil {
		return nil, SessionOutput{}, err
	}
	return nil, sessionOutput(v), nil
}

// CloseSession ends a session.
func (s *AxisService) CloseSession(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, CloseOutput, error) {
	if err := s.editor.Close(input.SessionID); err != nil {
		return nil, CloseOutput{}, err
	}
	return nil, CloseOutput{Closed: true}, nil
}

// drop reports a drop result with the session state after it. A rejected
// drop is a result, not a tool error.
func (s *AxisService) drop(sessionID string, res session.DropResult, err error) (*mcp.CallToolResult, DropOutput, error) {
	if err != nil {
		return nil, DropOutput{}, err
	}
	v, err := s.editor.Get(sessionID)
	if err != nil {
		return nil, DropOutput{}, err
	}
	out := DropOutput{
		Path:      res.Path.String(),
		Committed: res.Committed,
		Session:   sessionOutput(v),
	}
	if res.Error != nil {
		out.Reason = res.Error.Error()
	}
	return nil, out, nil
}

func sessionOutput(v editor.View) SessionOutput {
	out := SessionOutput{
		SessionID: v.SessionID,
		ChartID:   v.ChartID,
		ChartType: string(v.ChartType),
		State:     v.State.String(),
		Zones:     make([]ZoneOutput, len(v.Zones)),
		Available: make([]string, len(v.Available)),
	}
	for i, z := range v.Zones {
		cols := make([]string, len(z.Items))
		for j, it := range z.Items {
			cols[j] = it.OriginalID
		}
		out.Zones[i] = ZoneOutput{ID: string(z.ID), Title: z.Title, Columns: cols}
	}
	for i, it := range v.Available {
		out.Available[i] = it.OriginalID
	}
	return out
}
