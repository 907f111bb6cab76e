// Package mcptools exposes chart axis editing as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// version is set by the linker at build time.
var version = "dev"

// NewAxisMCPServer creates an MCP server with the axis editing tools
// registered.
func NewAxisMCPServer(ed *editor.Editor) *mcp.Server {
	svc := NewAxisService(ed)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "chartaxis",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "open_session",
		Description: "Open an editing session on a chart. Returns the session id, the chart's zones for its selected type and the columns not yet assigned.",
	}, svc.OpenSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_zones",
		Description: "Return a session's zones in display order with their columns, and the available columns.",
	}, svc.GetZones)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_column",
		Description: "Move a column into a zone, appending it. Numeric zones refuse non-numeric columns and the size zone holds one column; a refused move reports the reason and changes nothing.",
	}, svc.MoveColumn)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_column",
		Description: "Remove a column from its zone, returning it to the available columns.",
	}, svc.RemoveColumn)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reorder_column",
		Description: "Move a column to another position inside the zone it already belongs to.",
	}, svc.ReorderColumn)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_chart_type",
		Description: "Switch the chart's selected type. Zones are rebuilt from the axis block of the new type.",
	}, svc.SetChartType)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "close_session",
		Description: "Close an editing session.",
	}, svc.CloseSession)

	return server
}

// RunStdio runs server on stdio, blocking until stdin is closed or ctx is
// cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves server over streamable HTTP on addr until ctx is done.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
	httpServer := &http.Server{Handler: handler}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	logger.Info("mcp listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = httpServer.Shutdown(shutdownCtx)
	<-errCh
	return err
}
