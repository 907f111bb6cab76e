package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/dusk-indust/chartaxis/internal/session"
	"go.uber.org/zap"
)

// Server serves an Editor over HTTP.
type Server struct {
	editor *editor.Editor
	logger *zap.Logger
	http   *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a server for ed.
func NewServer(ed *editor.Editor, opts ...ServerOption) *Server {
	s := &Server{editor: ed, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rpc", s.handleJSONRPC)
	mux.HandleFunc("GET /sessions/{id}/events", s.handleEvents)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Serve listens on addr until ctx is done, then shuts down. Request
// contexts derive from ctx so open event streams end with it.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("rpc: listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Serve(ln) }()
	s.logger.Info("rpc listening", zap.String("addr", ln.Addr().String()))

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
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("rpc: shutdown: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": len(s.editor.Sessions()),
	})
}

// handleJSONRPC decodes one request and dispatches it by method.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, ErrCodeParse, "Parse error: "+err.Error())
		return
	}
	if req.JSONRPC != JSONRPCVersion {
		writeError(w, req.ID, ErrCodeInvalidRequest, "Invalid request: jsonrpc must be \"2.0\"")
		return
	}

	ctx := r.Context()
	ed := s.editor
	s.logger.Debug("rpc call", zap.String("method", req.Method))

	switch req.Method {
	case MethodOpenSession:
		dispatch(w, &req, func(p OpenSessionParams) (any, error) {
			return ed.Open(ctx, p.ChartID)
		})
	case MethodGetSession:
		dispatch(w, &req, func(p SessionParams) (any, error) {
			return ed.Get(p.SessionID)
		})
	case MethodCloseSession:
		dispatch(w, &req, func(p SessionParams) (any, error) {
			if err := ed.Close(p.SessionID); err != nil {
				return nil, err
			}
			return CloseResult{Closed: true}, nil
		})
	case MethodDragStart:
		dispatch(w, &req, func(p DragStartParams) (any, error) {
			return ed.DragStart(p.SessionID, p.ItemID)
		})
	case MethodDragOver:
		dispatch(w, &req, func(p DragParams) (any, error) {
			return ed.DragOver(p.SessionID, p.Over)
		})
	case MethodDragEnd:
		dispatch(w, &req, func(p DragParams) (any, error) {
			return ed.DragEnd(p.SessionID, p.Over)
		})
	case MethodDragCancel:
		dispatch(w, &req, func(p SessionParams) (any, error) {
			ok, err := ed.Cancel(p.SessionID)
			return CancelResult{Cancelled: ok}, err
		})
	case MethodSetChartType:
		dispatch(w, &req, func(p SetChartTypeParams) (any, error) {
			if !p.ChartType.Valid() {
				return nil, &Error{Code: ErrCodeInvalidParams, Message: fmt.Sprintf("Invalid params: unknown chart type %q", p.ChartType)}
			}
			return ed.SetChartType(ctx, p.SessionID, p.ChartType)
		})
	default:
		writeError(w, req.ID, ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// dispatch unmarshals params into P, calls fn and writes its result.
func dispatch[P any](w http.ResponseWriter, req *Request, fn func(P) (any, error)) {
	var params P
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeError(w, req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
			return
		}
	}
	result, err := fn(params)
	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) {
			writeError(w, req.ID, rpcErr.Code, rpcErr.Message)
			return
		}
		writeError(w, req.ID, errorCode(err), err.Error())
		return
	}
	writeResult(w, req.ID, result)
}

// Error lets handlers return a JSON-RPC error directly.
func (e *Error) Error() string { return e.Message }

// errorCode maps editor errors onto JSON-RPC codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		return ErrCodeSessionNotFound
	case errors.Is(err, chartstore.ErrNotFound):
		return ErrCodeChartNotFound
	case errors.Is(err, session.ErrUnknownItem),
		errors.Is(err, session.ErrDragInProgress),
		errors.Is(err, editor.ErrColumnNotFound),
		errors.Is(err, editor.ErrNotInZone),
		errors.Is(err, editor.ErrBadPosition):
		return ErrCodeDragState
	default:
		return ErrCodeInternal
	}
}

func writeResult(w http.ResponseWriter, id any, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		writeError(w, id, ErrCodeInternal, "Failed to marshal result: "+err.Error())
		return
	}
	json.NewEncoder(w).Encode(Response{JSONRPC: JSONRPCVersion, ID: id, Result: data})
}

func writeError(w http.ResponseWriter, id any, code int, message string) {
	json.NewEncoder(w).Encode(Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	})
}
