// Package editor is the form around drag sessions: it opens a session per
// chart, writes committed zones back to the chart store, replays store
// changes into open sessions and publishes session events.
package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/dusk-indust/chartaxis/internal/session"
	"github.com/dusk-indust/chartaxis/internal/zone"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrNotInZone       = errors.New("column is not assigned to a zone")
	ErrBadPosition     = errors.New("position out of range")
)

// View is a session as a client sees it.
type View struct {
	SessionID string `json:"sessionId"`
	ChartID   string `json:"chartId"`
	session.Snapshot
}

// Session is one open drag session over a chart.
type Session struct {
	ID      string
	ChartID string
	ctrl    *session.Controller

	syncMu   sync.Mutex
	revision int64 // newest store revision fed to ctrl
}

// Editor manages drag sessions over charts held in a Store.
type Editor struct {
	store        chartstore.Store
	logger       *zap.Logger
	bus          *Bus
	newID        func() string
	settleDelay  time.Duration
	syncDispatch bool
	ctrlOpts     []session.Option

	writeMu sync.Mutex // serializes read-modify-write of a chart

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSettleDelay sets the drop settle delay for new sessions.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Editor) { e.settleDelay = d }
}

// WithSyncDispatch makes new sessions deliver write-backs on the caller's
// goroutine.
func WithSyncDispatch(on bool) Option {
	return func(e *Editor) { e.syncDispatch = on }
}

// WithSessionIDs overrides the session id generator.
func WithSessionIDs(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithControllerOptions appends options passed to every new controller.
func WithControllerOptions(opts ...session.Option) Option {
	return func(e *Editor) { e.ctrlOpts = append(e.ctrlOpts, opts...) }
}

// New returns an Editor over store.
func New(store chartstore.Store, opts ...Option) *Editor {
	e := &Editor{
		store:       store,
		logger:      zap.NewNop(),
		bus:         NewBus(),
		newID:       uuid.NewString,
		settleDelay: session.DefaultSettleDelay,
		sessions:    make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the chart store the editor writes to.
func (e *Editor) Store() chartstore.Store { return e.store }

// Subscribe streams events for sessionID, or all sessions when empty.
func (e *Editor) Subscribe(sessionID string) (<-chan Event, func()) {
	return e.bus.Subscribe(sessionID)
}

// ---------- Session lifecycle ----------

// Open starts a session on chartID's selected chart type.
func (e *Editor) Open(ctx context.Context, chartID string) (View, error) {
	cfg, err := e.store.Get(ctx, chartID)
	if err != nil {
		return View{}, err
	}

	s := &Session{ID: e.newID(), ChartID: chartID, revision: cfg.Revision}
	opts := []session.Option{
		session.WithLogger(e.logger.With(zap.String("session", s.ID), zap.String("chart", chartID))),
		session.WithSettleDelay(e.settleDelay),
		session.WithOnChange(func(ch session.Change) { e.writeBack(s, ch) }),
		session.WithOnReject(func(zerr *zone.ZoneError) {
			e.bus.Emit(Event{Kind: EventRejected, SessionID: s.ID, ChartID: chartID, Error: zerr})
		}),
	}
	if e.syncDispatch {
		opts = append(opts, session.WithSyncDispatch())
	}
	opts = append(opts, e.ctrlOpts...)
	s.ctrl = session.New(cfg.SelectedChartType, cfg.SelectedAxis(), cfg.ColumnMetas(), opts...)

	e.mu.Lock()
	e.sessions[s.ID] = s
	e.mu.Unlock()

	e.logger.Info("session opened",
		zap.String("session", s.ID),
		zap.String("chart", chartID),
		zap.String("chartType", string(cfg.SelectedChartType)))
	return e.view(s), nil
}

// Get returns the current view of a session.
func (e *Editor) Get(sessionID string) (View, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return View{}, err
	}
	return e.view(s), nil
}

// Sessions lists open session ids in lexical order.
func (e *Editor) Sessions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close ends a session after delivering its pending write-backs.
func (e *Editor) Close(sessionID string) error {
	e.mu.Lock()
	s, ok := e.sessions[sessionID]
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("close %s: %w", sessionID, ErrSessionNotFound)
	}

	s.ctrl.Close()
	e.bus.Emit(Event{Kind: EventClosed, SessionID: s.ID, ChartID: s.ChartID})
	e.logger.Info("session closed", zap.String("session", s.ID))
	return nil
}

// Shutdown closes every session and every subscription.
func (e *Editor) Shutdown() {
	for _, id := range e.Sessions() {
		_ = e.Close(id)
	}
	e.bus.Close()
}

// ---------- Drag events ----------

// DragStart picks up an item by its session id.
func (e *Editor) DragStart(sessionID, itemID string) (View, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return View{}, err
	}
	if err := s.ctrl.DragStart(itemID); err != nil {
		return View{}, err
	}
	return e.view(s), nil
}

// DragOver moves the pointer. The view carries any hover error.
func (e *Editor) DragOver(sessionID string, over session.Over) (View, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return View{}, err
	}
	s.ctrl.DragOver(over)
	return e.view(s), nil
}

// DragEnd drops the dragged item and waits for the write-back.
func (e *Editor) DragEnd(sessionID string, over session.Over) (session.DropResult, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return session.DropResult{}, err
	}
	res := s.ctrl.DragEnd(over)
	s.ctrl.Flush()
	return res, nil
}

// Cancel abandons the drag in progress, if any.
func (e *Editor) Cancel(sessionID string) (bool, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return false, err
	}
	return s.ctrl.Cancel(), nil
}

// ---------- One-shot edits ----------

// Move drags column into target in one step. A target of KindAvailable
// removes the column from its zone.
func (e *Editor) Move(sessionID, column string, target zone.Kind) (session.DropResult, error) {
	over := session.OverZone(target)
	if target == zone.KindAvailable {
		over = session.OverAvailable()
	}
	return e.dragColumn(sessionID, column, func(*session.Controller, *session.Item, zone.Kind) (session.Over, error) {
		return over, nil
	})
}

// Remove returns column to the available pool.
func (e *Editor) Remove(sessionID, column string) (session.DropResult, error) {
	return e.Move(sessionID, column, zone.KindAvailable)
}

// Reorder moves column to position within its own zone. A position at or
// past the last slot moves it to the end.
func (e *Editor) Reorder(sessionID, column string, position int) (session.DropResult, error) {
	return e.dragColumn(sessionID, column, func(c *session.Controller, _ *session.Item, k zone.Kind) (session.Over, error) {
		if k == zone.KindAvailable {
			return session.Over{}, fmt.Errorf("reorder %s: %w", column, ErrNotInZone)
		}
		if position < 0 {
			return session.Over{}, fmt.Errorf("reorder %s to %d: %w", column, position, ErrBadPosition)
		}
		for _, z := range c.Zones() {
			if z.ID != k {
				continue
			}
			if position >= len(z.Items)-1 {
				return session.OverZone(k), nil
			}
			return session.OverItem(z.Items[position].ID), nil
		}
		return session.Over{}, fmt.Errorf("reorder %s: %w", column, ErrNotInZone)
	})
}

func (e *Editor) dragColumn(sessionID, column string, target func(*session.Controller, *session.Item, zone.Kind) (session.Over, error)) (session.DropResult, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return session.DropResult{}, err
	}
	item, k, ok := s.ctrl.Lookup(column)
	if !ok {
		return session.DropResult{}, fmt.Errorf("%s: %w", column, ErrColumnNotFound)
	}
	over, err := target(s.ctrl, item, k)
	if err != nil {
		return session.DropResult{}, err
	}
	if err := s.ctrl.DragStart(item.ID); err != nil {
		return session.DropResult{}, err
	}
	res := s.ctrl.DragEnd(over)
	s.ctrl.Flush()
	return res, nil
}

// SetChartType switches the session's chart to t. Every open session on the
// chart is rebuilt for the new type.
func (e *Editor) SetChartType(ctx context.Context, sessionID string, t chart.ChartType) (View, error) {
	if !t.Valid() {
		return View{}, fmt.Errorf("unknown chart type %q", t)
	}
	s, err := e.session(sessionID)
	if err != nil {
		return View{}, err
	}

	e.writeMu.Lock()
	cfg, err := e.store.Get(ctx, s.ChartID)
	if err != nil {
		e.writeMu.Unlock()
		return View{}, err
	}
	cfg.SelectedChartType = t
	stored, err := e.store.Put(ctx, cfg)
	e.writeMu.Unlock()
	if err != nil {
		return View{}, err
	}

	e.syncChart(stored)
	return e.view(s), nil
}

// ---------- Store sync ----------

// Reload re-reads chartID from the store and syncs every session on it.
// Sessions on a deleted chart are closed.
func (e *Editor) Reload(ctx context.Context, chartID string) error {
	cfg, err := e.store.Get(ctx, chartID)
	if errors.Is(err, chartstore.ErrNotFound) {
		for _, s := range e.sessionsFor(chartID) {
			_ = e.Close(s.ID)
		}
		return nil
	}
	if err != nil {
		return err
	}
	e.syncChart(cfg)
	return nil
}

// writeBack stores one committed zone list. It runs on the session's
// delivery goroutine.
func (e *Editor) writeBack(s *Session, ch session.Change) {
	ctx := context.Background()
	log := e.logger.With(zap.String("session", s.ID), zap.String("chart", s.ChartID))

	e.writeMu.Lock()
	stored, err := e.apply(ctx, s.ChartID, ch)
	e.writeMu.Unlock()
	if err != nil {
		log.Error("write back zones", zap.Error(err))
		e.bus.Emit(Event{Kind: EventFailed, SessionID: s.ID, ChartID: s.ChartID, Message: err.Error()})
		// The commit never reached the store; put the session back on
		// what the store holds.
		if cfg, gerr := e.store.Get(ctx, s.ChartID); gerr == nil {
			e.syncSession(s, cfg, true)
		}
		return
	}

	log.Debug("zones written", zap.Int64("revision", stored.Revision))
	e.bus.Emit(Event{
		Kind:      EventChanged,
		SessionID: s.ID,
		ChartID:   s.ChartID,
		Revision:  stored.Revision,
		Zones:     ch.Zones,
	})
	e.syncChart(stored)
}

func (e *Editor) apply(ctx context.Context, chartID string, ch session.Change) (*chart.Config, error) {
	cfg, err := e.store.Get(ctx, chartID)
	if err != nil {
		return nil, err
	}
	axis := zone.Apply(cfg.Axis(ch.ChartType), ch.Zones)
	if err := cfg.SetAxis(ch.ChartType, axis); err != nil {
		return nil, err
	}
	return e.store.Put(ctx, cfg)
}

// syncChart feeds cfg to every session open on it.
func (e *Editor) syncChart(cfg *chart.Config) {
	for _, s := range e.sessionsFor(cfg.ID) {
		e.syncSession(s, cfg, false)
	}
}

// syncSession feeds cfg to one session. A revision older than one the
// session has already seen is dropped: reads and write-backs race, and a
// late read must not roll the zones back. force skips that check.
func (e *Editor) syncSession(s *Session, cfg *chart.Config, force bool) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if !force && cfg.Revision < s.revision {
		e.logger.Debug("stale chart revision ignored",
			zap.String("session", s.ID),
			zap.Int64("revision", cfg.Revision),
			zap.Int64("seen", s.revision))
		return
	}
	s.revision = cfg.Revision

	res := s.ctrl.SyncExternal(cfg.SelectedChartType, cfg.SelectedAxis(), cfg.ColumnMetas())
	if !res.Rebuilt {
		return
	}
	if res.Abandoned {
		e.bus.Emit(Event{Kind: EventAbandoned, SessionID: s.ID, ChartID: s.ChartID, Revision: cfg.Revision})
	}
	e.bus.Emit(Event{
		Kind:      EventRebuilt,
		SessionID: s.ID,
		ChartID:   s.ChartID,
		Revision:  cfg.Revision,
		Zones:     s.ctrl.External(),
	})
}

// ---------- Helpers ----------

func (e *Editor) session(id string) (*Session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

func (e *Editor) sessionsFor(chartID string) []*Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*Session
	for _, s := range e.sessions {
		if s.ChartID == chartID {
			out = append(out, s)
		}
	}
	return out
}

func (e *Editor) view(s *Session) View {
	return View{SessionID: s.ID, ChartID: s.ChartID, Snapshot: s.ctrl.Snapshot()}
}
