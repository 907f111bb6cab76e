// Package session implements the drag session controller: the state machine
// that owns a chart's internal zone model while a user drags columns between
// zones, and keeps it in step with the externally owned chart config.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/zone"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the controller's drag state.
type State int

const (
	// Idle has no dragged item.
	Idle State = iota
	// Dragging has a dragged item whose target follows the pointer.
	Dragging
	// Settling has committed a drop from the available pool and is waiting
	// for the exit animation before clearing the dragged item.
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{Idle, Dragging, Settling} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown drag state %q", b)
}

// DefaultSettleDelay is how long a drop from the available pool keeps the
// dragged item around before cleanup.
const DefaultSettleDelay = 150 * time.Millisecond

var (
	ErrUnknownItem    = errors.New("item not found in session")
	ErrDragInProgress = errors.New("a drag is already in progress")
)

// DraggedItem is the item in flight. TargetZone is empty while the pointer
// is over nothing droppable.
type DraggedItem struct {
	ID         string    `json:"id"`
	OriginalID string    `json:"originalId"`
	SourceZone zone.Kind `json:"sourceZone"`
	TargetZone zone.Kind `json:"targetZone,omitempty"`
}

// Over describes what the pointer is over. Resolution priority is Zone, then
// ItemID, then Available; the zero value is "over nothing".
type Over struct {
	Zone      zone.Kind `json:"zone,omitempty"`
	ItemID    string    `json:"itemId,omitempty"`
	Available bool      `json:"available,omitempty"`
}

// OverZone targets a zone's own drop surface.
func OverZone(k zone.Kind) Over { return Over{Zone: k} }

// OverItem targets an item, which resolves to the zone holding it.
func OverItem(id string) Over { return Over{ItemID: id} }

// OverAvailable targets the available pool surface.
func OverAvailable() Over { return Over{Available: true} }

// DropPath names the outcome of DragEnd.
type DropPath int

const (
	DropIgnored   DropPath = iota // no drag in progress
	DropAborted                   // no valid target, or a drop that changes nothing
	DropRejected                  // target refused the column
	DropDeleted                   // item returned to the available pool
	DropReordered                 // item moved within its zone
	DropMoved                     // item moved to another zone
)

var dropPathNames = [...]string{"ignored", "aborted", "rejected", "deleted", "reordered", "moved"}

func (p DropPath) String() string {
	if int(p) < len(dropPathNames) {
		return dropPathNames[p]
	}
	return "unknown"
}

// MarshalText encodes the path by name.
func (p DropPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a path name.
func (p *DropPath) UnmarshalText(b []byte) error {
	i := slices.Index(dropPathNames[:], string(b))
	if i < 0 {
		return fmt.Errorf("unknown drop path %q", b)
	}
	*p = DropPath(i)
	return nil
}

// DropResult reports what a DragEnd did. Zones is the emitted external
// model when Committed is true.
type DropResult struct {
	Path      DropPath        `json:"path"`
	Committed bool            `json:"committed"`
	Error     *zone.ZoneError `json:"error,omitempty"`
	Zones     []zone.Zone     `json:"zones,omitempty"`
}

// SyncResult reports what SyncExternal did. Stale is set when the config
// was ignored because it predates commits not yet delivered to OnChange.
type SyncResult struct {
	Rebuilt   bool `json:"rebuilt"`
	Abandoned bool `json:"abandoned"`
	Stale     bool `json:"stale,omitempty"`
}

// Change is one committed zone list. ChartType is the chart type the zones
// were built for, which may differ from the controller's by delivery time.
type Change struct {
	ChartType chart.ChartType `json:"chartType"`
	Zones     []zone.Zone     `json:"zones"`
}

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. The default is time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Controller owns one chart's drag session. All methods are safe for
// concurrent use; callbacks run outside the controller's lock.
type Controller struct {
	mu sync.Mutex

	// sync-mode delivery order: batches take a ticket under mu and run
	// when emitTurn reaches it.
	emitMu     sync.Mutex
	emitCond   *sync.Cond
	emitTicket uint64
	emitTurn   uint64

	logger      *zap.Logger
	newID       func() string
	afterFunc   AfterFunc
	settleDelay time.Duration
	onChange    func(Change)
	onReject    func(*zone.ZoneError)
	dispatch    *Dispatcher
	syncMode    bool
	pending     []func()
	undelivered int // commits whose OnChange has not started yet

	chartType chart.ChartType
	columns   []string
	meta      map[string]chart.ColumnMeta
	zones     []Zone
	pool      map[string]*Item // id cache for unassigned columns, keyed by column

	state      State
	dragged    *DraggedItem
	activeZone zone.Kind
	overZone   zone.Kind
	zoneErr    *zone.ZoneError
	settleGen  uint64
	settle     Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDGenerator overrides the session-local id source (uuid v4).
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithSettleDelay sets the cleanup delay after a drop from the available
// pool. Zero cleans up immediately.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

// WithAfterFunc replaces the timer used for the settle delay.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// WithOnChange sets the callback receiving every committed zone list.
// Changes arrive one at a time in commit order. Until a change's callback
// starts, SyncExternal ignores configs that differ from the internal model,
// so an echo of an older change cannot roll the zones back. A callback that
// persists its change should feed the stored result back to SyncExternal
// before returning, which picks up anything ignored meanwhile.
func WithOnChange(fn func(Change)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithOnReject sets the callback receiving the reason a drop was refused.
func WithOnReject(fn func(*zone.ZoneError)) Option {
	return func(c *Controller) { c.onReject = fn }
}

// WithSyncDispatch delivers callbacks on the calling goroutine, right after
// the controller releases its lock, instead of on a dispatcher goroutine.
// Callbacks must not start or end drags on the same controller: a nested
// commit waits for the callback that caused it.
func WithSyncDispatch() Option {
	return func(c *Controller) { c.syncMode = true }
}

// New builds a controller for chartType from the external axis config.
// columns is the chart's full column list with metadata, in display order.
func New(chartType chart.ChartType, axis chart.AxisConfig, columns []chart.ColumnMeta, opts ...Option) *Controller {
	c := &Controller{
		logger:      zap.NewNop(),
		newID:       uuid.NewString,
		afterFunc:   systemAfterFunc,
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.syncMode {
		c.emitCond = sync.NewCond(&c.emitMu)
	} else {
		c.dispatch = NewDispatcher()
	}
	c.rebuildLocked(chartType, axis, columns)
	return c
}

// Close stops any pending settle timer and delivers queued callbacks.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.mu.Unlock()
	if c.dispatch != nil {
		c.dispatch.Close()
	}
}

// Flush waits until every callback queued so far has run.
func (c *Controller) Flush() {
	if c.dispatch != nil {
		c.dispatch.Flush()
	}
}

// ---------- Transitions ----------

// DragStart picks up the item with the given session id, from a zone or from
// the available pool. A pending settle is completed first.
func (c *Controller) DragStart(itemID string) error {
	c.mu.Lock()
	defer c.unlock()

	switch c.state {
	case Dragging:
		return ErrDragInProgress
	case Settling:
		c.cleanupLocked()
	}

	item, source, ok := c.findItemLocked(itemID)
	if !ok {
		return fmt.Errorf("drag start %s: %w", itemID, ErrUnknownItem)
	}

	c.state = Dragging
	c.activeZone = source
	c.overZone = ""
	c.zoneErr = nil
	c.dragged = &DraggedItem{
		ID:         item.ID,
		OriginalID: item.OriginalID,
		SourceZone: source,
	}
	c.logger.Debug("drag start",
		zap.String("column", item.OriginalID),
		zap.String("source", string(source)))
	return nil
}

// DragOver records the hover target and re-validates it. It returns the
// current advisory error, or nil. Events outside a drag are ignored.
func (c *Controller) DragOver(over Over) *zone.ZoneError {
	c.mu.Lock()
	defer c.unlock()

	if c.state != Dragging {
		return nil
	}

	target := c.resolveLocked(over)
	c.overZone = target
	switch {
	case target == "":
		// Over nothing: the last target and its error stand.
	case target == c.activeZone:
		c.dragged.TargetZone = target
		c.zoneErr = nil
	default:
		c.dragged.TargetZone = target
		c.zoneErr = c.validateLocked(target)
	}
	return copyZoneError(c.zoneErr)
}

// DragEnd drops the dragged item over the given target. Validation is
// repeated here and any failure refuses the drop, leaving the zones as they
// were before the drag started.
func (c *Controller) DragEnd(over Over) DropResult {
	c.mu.Lock()
	defer c.unlock()

	if c.state != Dragging {
		return DropResult{Path: DropIgnored}
	}

	source := c.activeZone
	target := c.resolveLocked(over)
	if target == "" {
		c.cleanupLocked()
		return DropResult{Path: DropAborted}
	}

	if target != source {
		if zerr := c.validateLocked(target); zerr != nil {
			c.cleanupLocked()
			c.logger.Debug("drop rejected",
				zap.String("zone", string(target)),
				zap.String("reason", zerr.Reason))
			if c.onReject != nil {
				c.emitLocked(func() { c.onReject(zerr) })
			}
			return DropResult{Path: DropRejected, Error: copyZoneError(zerr)}
		}
	}

	var (
		next []Zone
		path DropPath
	)
	switch {
	case target == zone.KindAvailable && source == zone.KindAvailable:
		path = DropAborted
	case target == zone.KindAvailable:
		next, path = c.removeLocked(c.dragged.OriginalID), DropDeleted
	case target == source:
		next, path = c.reorderLocked(source, over), DropReordered
	default:
		next, path = c.moveLocked(source, target), DropMoved
	}

	if next == nil {
		c.cleanupLocked()
		return DropResult{Path: DropAborted}
	}

	ext := c.commitLocked(next)
	if source == zone.KindAvailable && c.settleDelay > 0 {
		c.beginSettleLocked()
	} else {
		c.cleanupLocked()
	}
	return DropResult{Path: path, Committed: true, Zones: ext}
}

// Cancel abandons the current drag without committing. It reports whether a
// drag was in progress.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.unlock()
	if c.state != Dragging {
		return false
	}
	c.cleanupLocked()
	return true
}

// SyncExternal ingests a new external config. When the chart type, the
// column list and the zones all match the internal model the zones are left
// alone, so session ids and any in-flight drag survive. Otherwise the model
// is rebuilt and a drag in progress is abandoned without committing.
// Column metadata is always refreshed.
func (c *Controller) SyncExternal(chartType chart.ChartType, axis chart.AxisConfig, columns []chart.ColumnMeta) SyncResult {
	c.mu.Lock()
	defer c.unlock()

	ext, dropped := Normalize(zone.Build(chartType, axis))
	if len(dropped) > 0 {
		c.logger.Warn("external config repeats columns across zones",
			zap.Strings("dropped", dropped))
	}

	c.meta = metaIndex(columns)
	if chartType == c.chartType && slices.Equal(columnNames(columns), c.columns) && Equivalent(c.zones, ext) {
		return SyncResult{}
	}
	if c.undelivered > 0 {
		c.logger.Debug("external config predates pending commits, ignored",
			zap.Int("pending", c.undelivered))
		return SyncResult{Stale: true}
	}

	abandoned := c.state == Dragging
	c.rebuildLocked(chartType, axis, columns)
	c.logger.Debug("zones rebuilt from external config",
		zap.String("chartType", string(chartType)),
		zap.Bool("abandoned", abandoned))
	return SyncResult{Rebuilt: true, Abandoned: abandoned}
}

// ---------- Accessors ----------

// ChartType returns the chart type the zones were built for.
func (c *Controller) ChartType() chart.ChartType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chartType
}

// State returns the current drag state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Zones returns the internal zones. The slices are copies; the Items are
// the session's own and must not be modified.
func (c *Controller) Zones() []Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneZones(c.zones)
}

// External returns the zones in external shape.
func (c *Controller) External() []zone.Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ToExternal(c.zones)
}

// Available returns the pool: every column not assigned to a zone, in
// column order. Each keeps its session id until the next rebuild or until
// it is dropped into a zone.
func (c *Controller) Available() []*Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availableLocked()
}

// DraggedItem returns a copy of the item in flight, or nil.
func (c *Controller) DraggedItem() *DraggedItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dragged == nil {
		return nil
	}
	d := *c.dragged
	return &d
}

// ZoneError returns a copy of the current hover error, or nil.
func (c *Controller) ZoneError() *zone.ZoneError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyZoneError(c.zoneErr)
}

// ActiveZone returns the zone the current drag started in.
func (c *Controller) ActiveZone() zone.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeZone
}

// OverZone returns the zone currently under the pointer.
func (c *Controller) OverZone() zone.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overZone
}

// ZoneView is a zone as shown to a client: session ids included.
type ZoneView struct {
	ID    zone.Kind `json:"id"`
	Title string    `json:"title"`
	Items []Item    `json:"items"`
}

// Snapshot is a consistent copy of everything a client renders.
type Snapshot struct {
	ChartType  chart.ChartType `json:"chartType"`
	State      State           `json:"state"`
	Zones      []ZoneView      `json:"zones"`
	Available  []Item          `json:"available"`
	Dragged    *DraggedItem    `json:"dragged,omitempty"`
	ActiveZone zone.Kind       `json:"activeZone,omitempty"`
	OverZone   zone.Kind       `json:"overZone,omitempty"`
	ZoneError  *zone.ZoneError `json:"zoneError,omitempty"`
}

// Snapshot copies the controller's state under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		ChartType:  c.chartType,
		State:      c.state,
		Zones:      make([]ZoneView, len(c.zones)),
		ActiveZone: c.activeZone,
		OverZone:   c.overZone,
		ZoneError:  copyZoneError(c.zoneErr),
	}
	for i, z := range c.zones {
		items := make([]Item, len(z.Items))
		for j, it := range z.Items {
			items[j] = *it
		}
		s.Zones[i] = ZoneView{ID: z.ID, Title: z.Title, Items: items}
	}
	pool := c.availableLocked()
	s.Available = make([]Item, len(pool))
	for i, it := range pool {
		s.Available[i] = *it
	}
	if c.dragged != nil {
		d := *c.dragged
		s.Dragged = &d
	}
	return s
}

// Lookup finds the slot holding column, in a zone or in the pool.
func (c *Controller) Lookup(column string) (*Item, zone.Kind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, z := range c.zones {
		for _, it := range z.Items {
			if it.OriginalID == column {
				return it, z.ID, true
			}
		}
	}
	if !slices.Contains(c.columns, column) {
		return nil, "", false
	}
	return c.poolItemLocked(column), zone.KindAvailable, true
}

// ---------- Internals ----------

// unlock releases c.mu and delivers callbacks queued in sync mode. Each
// batch runs after every earlier batch and with no lock held, so callbacks
// may call SyncExternal or read the controller.
func (c *Controller) unlock() {
	pending := c.pending
	c.pending = nil
	if len(pending) == 0 {
		c.mu.Unlock()
		return
	}
	ticket := c.emitTicket
	c.emitTicket++
	c.mu.Unlock()

	c.emitMu.Lock()
	for c.emitTurn != ticket {
		c.emitCond.Wait()
	}
	c.emitMu.Unlock()

	defer func() {
		c.emitMu.Lock()
		c.emitTurn++
		c.emitCond.Broadcast()
		c.emitMu.Unlock()
	}()
	for _, fn := range pending {
		fn()
	}
}

func (c *Controller) emitLocked(fn func()) bool {
	if c.syncMode {
		c.pending = append(c.pending, fn)
		return true
	}
	if !c.dispatch.Submit(fn) {
		c.logger.Warn("dispatcher closed, dropping notification")
		return false
	}
	return true
}

func (c *Controller) commitLocked(next []Zone) []zone.Zone {
	c.zones = next
	ext := ToExternal(next)
	if c.onChange != nil {
		ch := Change{ChartType: c.chartType, Zones: ToExternal(next)}
		c.undelivered++
		queued := c.emitLocked(func() {
			c.mu.Lock()
			c.undelivered--
			c.mu.Unlock()
			c.onChange(ch)
		})
		if !queued {
			c.undelivered--
		}
	}
	return ext
}

func (c *Controller) rebuildLocked(chartType chart.ChartType, axis chart.AxisConfig, columns []chart.ColumnMeta) {
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	ext, _ := Normalize(zone.Build(chartType, axis))
	c.chartType = chartType
	c.columns = columnNames(columns)
	c.meta = metaIndex(columns)
	c.zones = FromExternal(ext, c.newID)
	c.pool = make(map[string]*Item)
	c.cleanupLocked()
}

func (c *Controller) cleanupLocked() {
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.state = Idle
	c.dragged = nil
	c.activeZone = ""
	c.overZone = ""
	c.zoneErr = nil
}

func (c *Controller) beginSettleLocked() {
	c.state = Settling
	c.zoneErr = nil
	c.overZone = ""
	c.settleGen++
	gen := c.settleGen
	c.settle = c.afterFunc(c.settleDelay, func() { c.finishSettle(gen) })
}

func (c *Controller) finishSettle(gen uint64) {
	c.mu.Lock()
	defer c.unlock()
	if c.state != Settling || c.settleGen != gen {
		return
	}
	c.settle = nil
	c.cleanupLocked()
}

// resolveLocked maps a pointer target to a zone kind present in the session,
// KindAvailable, or "" when nothing droppable is under the pointer.
func (c *Controller) resolveLocked(over Over) zone.Kind {
	if over.Zone != "" {
		if over.Zone == zone.KindAvailable || c.zoneIndexLocked(over.Zone) >= 0 {
			return over.Zone
		}
	}
	if over.ItemID != "" {
		for _, z := range c.zones {
			if slices.ContainsFunc(z.Items, func(it *Item) bool { return it.ID == over.ItemID }) {
				return z.ID
			}
		}
		for _, it := range c.pool {
			if it.ID == over.ItemID {
				return zone.KindAvailable
			}
		}
	}
	if over.Available {
		return zone.KindAvailable
	}
	return ""
}

func (c *Controller) validateLocked(target zone.Kind) *zone.ZoneError {
	tz := zone.Zone{ID: zone.KindAvailable, Title: zone.Titles[zone.KindAvailable]}
	if i := c.zoneIndexLocked(target); i >= 0 {
		tz = ToExternal(c.zones[i : i+1])[0]
	}
	col := c.dragged.OriginalID
	meta, ok := c.meta[col]
	if !ok {
		meta = chart.ColumnMeta{Name: col, Type: chart.TypeString, Style: chart.StyleString}
	}
	return zone.Validate(tz, col, meta, c.chartType)
}

func (c *Controller) removeLocked(column string) []Zone {
	next := cloneZones(c.zones)
	for i := range next {
		next[i].Items = slices.DeleteFunc(next[i].Items, func(it *Item) bool {
			return it.OriginalID == column
		})
	}
	return next
}

func (c *Controller) reorderLocked(k zone.Kind, over Over) []Zone {
	zi := c.zoneIndexLocked(k)
	if zi < 0 {
		return nil
	}
	items := c.zones[zi].Items
	from := slices.IndexFunc(items, func(it *Item) bool { return it.ID == c.dragged.ID })
	if from < 0 {
		return nil
	}
	to := len(items) - 1
	if over.Zone == "" && over.ItemID != "" {
		if i := slices.IndexFunc(items, func(it *Item) bool { return it.ID == over.ItemID }); i >= 0 {
			to = i
		}
	}
	if from == to {
		return nil
	}

	next := cloneZones(c.zones)
	next[zi].Items = arrayMove(next[zi].Items, from, to)
	return next
}

func (c *Controller) moveLocked(source, target zone.Kind) []Zone {
	ti := c.zoneIndexLocked(target)
	if ti < 0 {
		return nil
	}

	var item *Item
	next := cloneZones(c.zones)
	if source == zone.KindAvailable {
		item = c.pool[c.dragged.OriginalID]
		if item == nil || item.ID != c.dragged.ID {
			return nil
		}
		delete(c.pool, c.dragged.OriginalID)
	} else {
		si := c.zoneIndexLocked(source)
		if si < 0 {
			return nil
		}
		i := slices.IndexFunc(next[si].Items, func(it *Item) bool { return it.ID == c.dragged.ID })
		if i < 0 {
			return nil
		}
		item = next[si].Items[i]
		next[si].Items = slices.Delete(next[si].Items, i, i+1)
	}

	if slices.ContainsFunc(next[ti].Items, func(it *Item) bool { return it.OriginalID == item.OriginalID }) {
		return nil
	}
	next[ti].Items = append(next[ti].Items, item)
	return next
}

func (c *Controller) findItemLocked(id string) (*Item, zone.Kind, bool) {
	for _, z := range c.zones {
		for _, it := range z.Items {
			if it.ID == id {
				return it, z.ID, true
			}
		}
	}
	for _, it := range c.pool {
		if it.ID == id && !c.assignedLocked(it.OriginalID) {
			return it, zone.KindAvailable, true
		}
	}
	return nil, "", false
}

func (c *Controller) availableLocked() []*Item {
	assigned := make(map[string]bool)
	for _, z := range c.zones {
		for _, it := range z.Items {
			assigned[it.OriginalID] = true
		}
	}
	out := make([]*Item, 0, len(c.columns))
	for _, col := range c.columns {
		if assigned[col] {
			continue
		}
		out = append(out, c.poolItemLocked(col))
	}
	return out
}

func (c *Controller) poolItemLocked(column string) *Item {
	it, ok := c.pool[column]
	if !ok {
		it = &Item{ID: c.newID(), OriginalID: column}
		c.pool[column] = it
	}
	return it
}

func (c *Controller) assignedLocked(column string) bool {
	for _, z := range c.zones {
		for _, it := range z.Items {
			if it.OriginalID == column {
				return true
			}
		}
	}
	return false
}

func (c *Controller) zoneIndexLocked(k zone.Kind) int {
	return slices.IndexFunc(c.zones, func(z Zone) bool { return z.ID == k })
}

// arrayMove moves items[from] to index to, shifting the rest.
func arrayMove(items []*Item, from, to int) []*Item {
	it := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, it)
}

func copyZoneError(e *zone.ZoneError) *zone.ZoneError {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

func columnNames(columns []chart.ColumnMeta) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = col.Name
	}
	return out
}

func metaIndex(columns []chart.ColumnMeta) map[string]chart.ColumnMeta {
	out := make(map[string]chart.ColumnMeta, len(columns))
	for _, col := range columns {
		out[col.Name] = col
	}
	return out
}
