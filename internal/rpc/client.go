package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/dusk-indust/chartaxis/internal/session"
)

// Client calls a chartaxis server.
type Client struct {
	baseURL   string
	http      *http.Client
	requestID atomic.Int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallError is a JSON-RPC error returned by the server.
type CallError struct {
	Method  string
	Code    int
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("rpc: %s: %s (code %d)", e.Method, e.Message, e.Code)
}

func (c *Client) OpenSession(ctx context.Context, chartID string) (*editor.View, error) {
	return invoke[editor.View](ctx, c, MethodOpenSession, OpenSessionParams{ChartID: chartID})
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*editor.View, error) {
	return invoke[editor.View](ctx, c, MethodGetSession, SessionParams{SessionID: sessionID})
}

func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	return c.call(ctx, MethodCloseSession, SessionParams{SessionID: sessionID}, nil)
}

func (c *Client) DragStart(ctx context.Context, sessionID, itemID string) (*editor.View, error) {
	return invoke[editor.View](ctx, c, MethodDragStart, DragStartParams{SessionID: sessionID, ItemID: itemID})
}

func (c *Client) DragOver(ctx context.Context, sessionID string, over session.Over) (*editor.View, error) {
	return invoke[editor.View](ctx, c, MethodDragOver, DragParams{SessionID: sessionID, Over: over})
}

func (c *Client) DragEnd(ctx context.Context, sessionID string, over session.Over) (*session.DropResult, error) {
	return invoke[session.DropResult](ctx, c, MethodDragEnd, DragParams{SessionID: sessionID, Over: over})
}

func (c *Client) Cancel(ctx context.Context, sessionID string) (bool, error) {
	res, err := invoke[CancelResult](ctx, c, MethodDragCancel, SessionParams{SessionID: sessionID})
	if err != nil {
		return false, err
	}
	return res.Cancelled, nil
}

func (c *Client) SetChartType(ctx context.Context, sessionID string, t chart.ChartType) (*editor.View, error) {
	return invoke[editor.View](ctx, c, MethodSetChartType, SetChartTypeParams{SessionID: sessionID, ChartType: t})
}

func invoke[R any](ctx context.Context, c *Client, method string, params any) (*R, error) {
	var out R
	if err := c.call(ctx, method, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Events opens the session's event stream. The first event is EventReady.
func (c *Client) Events(ctx context.Context, sessionID string) (<-chan StreamEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sessions/"+sessionID+"/events", nil)
	if err != nil {
		return nil, fmt.Errorf("rpc: create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// Streams outlive the client timeout.
	hc := *c.http
	hc.Timeout = 0
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc: events: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("rpc: events: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return ReadEvents(ctx, resp.Body), nil
}

// call performs a JSON-RPC 2.0 call over HTTP POST.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("rpc: marshal params: %w", err)
	}
	body, err := json.Marshal(Request{
		JSONRPC: JSONRPCVersion,
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  paramsJSON,
	})
	if err != nil {
		return fmt.Errorf("rpc: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("rpc: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("rpc: %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rpc: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc: %s: HTTP %d: %s", method, resp.StatusCode, string(respBody))
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("rpc: decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return &CallError{Method: method, Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("rpc: decode result: %w", err)
		}
	}
	return nil
}
