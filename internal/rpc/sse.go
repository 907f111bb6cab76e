package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dusk-indust/chartaxis/internal/editor"
	"go.uber.org/zap"
)

// EventReady is the first event on every stream. It is sent once the
// subscription is live.
const EventReady editor.EventKind = "ready"

// SSEWriter writes Server-Sent Events to an http.ResponseWriter.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter wraps w. Without http.Flusher events may be buffered.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	f, _ := w.(http.Flusher)
	return &SSEWriter{w: w, flusher: f}
}

// Init sets the SSE response headers and flushes them to the client.
func (sw *SSEWriter) Init() {
	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	sw.w.WriteHeader(http.StatusOK)
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// WriteEvent writes ev as one frame named after its kind:
//
//	event: changed
//	data: {json}
func (sw *SSEWriter) WriteEvent(ev editor.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("sse: marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
		return fmt.Errorf("sse: write event: %w", err)
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}

// handleEvents streams one session's events until the client goes away or
// the session closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.editor.Get(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	events, cancel := s.editor.Subscribe(id)
	defer cancel()

	sw := NewSSEWriter(w)
	sw.Init()
	if err := sw.WriteEvent(editor.Event{Kind: EventReady, SessionID: id}); err != nil {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sw.WriteEvent(ev); err != nil {
				s.logger.Debug("event stream closed", zap.String("session", id), zap.Error(err))
				return
			}
			if ev.Kind == editor.EventClosed {
				return
			}
		}
	}
}

// StreamEvent is one event read from a stream, or a decode error.
type StreamEvent struct {
	editor.Event
	Err error `json:"-"`
}

// ReadEvents parses Server-Sent Events from body onto the returned channel.
// The channel closes when the body ends or ctx is done; body is closed when
// reading finishes. Comment lines and fields other than data are ignored;
// multiple data lines in one event are joined with newlines.
func ReadEvents(ctx context.Context, body io.ReadCloser) <-chan StreamEvent {
	ch := make(chan StreamEvent)
	go func() {
		defer close(ch)
		defer body.Close()

		stop := context.AfterFunc(ctx, func() { body.Close() })
		defer stop()

		scanner := bufio.NewScanner(body)
		var data strings.Builder
		flush := func() bool {
			if data.Len() == 0 {
				return true
			}
			var ev StreamEvent
			if err := json.Unmarshal([]byte(data.String()), &ev.Event); err != nil {
				ev.Err = fmt.Errorf("sse: unmarshal event: %w", err)
			}
			data.Reset()
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if !flush() {
					return
				}
			case strings.HasPrefix(line, ":"):
			case strings.HasPrefix(line, "data:"):
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			}
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
			select {
			case ch <- StreamEvent{Err: fmt.Errorf("sse: read: %w", err)}:
			case <-ctx.Done():
			}
			return
		}
		flush()
	}()
	return ch
}
