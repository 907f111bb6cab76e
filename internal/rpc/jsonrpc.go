// Package rpc exposes the editor over JSON-RPC 2.0 on HTTP, with session
// events streamed as Server-Sent Events.
package rpc

import (
	"encoding/json"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/session"
)

// JSONRPCVersion is the JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603

	// Editor error codes.
	ErrCodeSessionNotFound = -32001
	ErrCodeChartNotFound   = -32002
	ErrCodeDragState       = -32003
)

// Method names.
const (
	MethodOpenSession  = "session/open"
	MethodGetSession   = "session/get"
	MethodCloseSession = "session/close"
	MethodDragStart    = "drag/start"
	MethodDragOver     = "drag/over"
	MethodDragEnd      = "drag/end"
	MethodDragCancel   = "drag/cancel"
	MethodSetChartType = "chart/setType"
)

// ---------- Params and results ----------

type OpenSessionParams struct {
	ChartID string `json:"chartId"`
}

type SessionParams struct {
	SessionID string `json:"sessionId"`
}

type DragStartParams struct {
	SessionID string `json:"sessionId"`
	ItemID    string `json:"itemId"`
}

// DragParams carries the pointer target for drag/over and drag/end.
type DragParams struct {
	SessionID string       `json:"sessionId"`
	Over      session.Over `json:"over"`
}

type SetChartTypeParams struct {
	SessionID string          `json:"sessionId"`
	ChartType chart.ChartType `json:"chartType"`
}

type CloseResult struct {
	Closed bool `json:"closed"`
}

type CancelResult struct {
	Cancelled bool `json:"cancelled"`
}
