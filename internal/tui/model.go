// Package tui is a terminal editor for one drag session. Columns are picked
// up, carried between zones and dropped with the keyboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/dusk-indust/chartaxis/internal/session"
	"github.com/dusk-indust/chartaxis/internal/zone"
)

// settlePoll is how often the view refreshes while a drop settles.
const settlePoll = 50 * time.Millisecond

type (
	eventMsg   editor.Event
	closedMsg  struct{}
	refreshMsg struct{}
)

// pane is one column of the editor: the available pool or a zone.
type pane struct {
	kind  zone.Kind
	title string
	items []session.Item
}

// Model is the bubbletea model for one session.
type Model struct {
	editor      *editor.Editor
	sessionID   string
	events      <-chan editor.Event
	unsubscribe func()
	keys        keyMap

	view      editor.View
	pane      int // 0 is the available pool
	row       int
	status    string
	statusErr bool
	width     int
}

// New builds a model over an open session.
func New(ed *editor.Editor, sessionID string) (*Model, error) {
	v, err := ed.Get(sessionID)
	if err != nil {
		return nil, err
	}
	events, cancel := ed.Subscribe(sessionID)
	return &Model{
		editor:      ed,
		sessionID:   sessionID,
		events:      events,
		unsubscribe: cancel,
		keys:        defaultKeys,
		view:        v,
	}, nil
}

// Run shows the editor until the user quits, ctx is done or the session
// closes.
func Run(ctx context.Context, ed *editor.Editor, sessionID string) error {
	m, err := New(ed, sessionID)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// Close stops the model's event subscription.
func (m *Model) Close() {
	m.unsubscribe()
}

func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case eventMsg:
		return m, m.handleEvent(editor.Event(msg))

	case refreshMsg:
		m.refresh()
		if m.view.State == session.Settling {
			return m, tea.Tick(settlePoll, func(time.Time) tea.Msg { return refreshMsg{} })
		}
		return m, nil

	case closedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.dragging() {
		return m.handleDragKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.movePane(-1)
	case key.Matches(msg, m.keys.Right):
		m.movePane(1)
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.Pick):
		it, ok := m.cursorItem()
		if !ok {
			return nil
		}
		v, err := m.editor.DragStart(m.sessionID, it.ID)
		if err != nil {
			m.setError(err.Error())
			return nil
		}
		m.view = v
		m.setStatus("carrying " + it.OriginalID)
	case key.Matches(msg, m.keys.Remove):
		it, ok := m.cursorItem()
		if !ok || m.pane == 0 {
			return nil
		}
		res, err := m.editor.Remove(m.sessionID, it.OriginalID)
		return m.dropped(it.OriginalID, res, err)
	}
	return nil
}

func (m *Model) handleDragKey(msg tea.KeyMsg) tea.Cmd {
	dragged := m.view.Dragged
	switch {
	case key.Matches(msg, m.keys.Left):
		m.movePane(-1)
		m.hover()
	case key.Matches(msg, m.keys.Right):
		m.movePane(1)
		m.hover()
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
		m.hover()
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
		m.hover()
	case key.Matches(msg, m.keys.Drop):
		res, err := m.editor.DragEnd(m.sessionID, m.over())
		return m.dropped(dragged.OriginalID, res, err)
	case key.Matches(msg, m.keys.Remove):
		res, err := m.editor.DragEnd(m.sessionID, session.OverAvailable())
		return m.dropped(dragged.OriginalID, res, err)
	case key.Matches(msg, m.keys.Cancel):
		if _, err := m.editor.Cancel(m.sessionID); err != nil {
			m.setError(err.Error())
			return nil
		}
		m.refresh()
		m.setStatus("cancelled")
	}
	return nil
}

func (m *Model) handleEvent(ev editor.Event) tea.Cmd {
	switch ev.Kind {
	case editor.EventClosed:
		return tea.Quit
	case editor.EventAbandoned:
		m.setError("chart changed, drag abandoned")
	case editor.EventRebuilt:
		m.setStatus(fmt.Sprintf("chart reloaded (revision %d)", ev.Revision))
	case editor.EventFailed:
		m.setError("save failed: " + ev.Message)
	}
	m.refresh()
	return m.waitForEvent()
}

// hover reports the pointer position to the session and shows any
// rejection it predicts.
func (m *Model) hover() {
	v, err := m.editor.DragOver(m.sessionID, m.over())
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.view = v
	if v.ZoneError != nil {
		m.setError(v.ZoneError.Error())
		return
	}
	m.setStatus("carrying " + v.Dragged.OriginalID)
}

// over is the pointer target under the cursor. Inside the dragged item's own
// zone the cursor row picks the slot to reorder to.
func (m *Model) over() session.Over {
	p := m.panes()[m.pane]
	if p.kind == zone.KindAvailable {
		return session.OverAvailable()
	}
	if d := m.view.Dragged; d != nil && d.SourceZone == p.kind && m.row < len(p.items) {
		return session.OverItem(p.items[m.row].ID)
	}
	return session.OverZone(p.kind)
}

func (m *Model) dropped(column string, res session.DropResult, err error) tea.Cmd {
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	switch res.Path {
	case session.DropRejected:
		reason := "rejected"
		if res.Error != nil {
			reason = res.Error.Error()
		}
		m.setError(fmt.Sprintf("%s: %s", column, reason))
	case session.DropMoved:
		m.setStatus(fmt.Sprintf("moved %s", column))
	case session.DropReordered:
		m.setStatus(fmt.Sprintf("reordered %s", column))
	case session.DropDeleted:
		m.setStatus(fmt.Sprintf("removed %s", column))
	case session.DropAborted:
		m.setStatus("dropped in place")
	default:
		m.setStatus("nothing dropped")
	}
	m.refresh()
	if m.view.State == session.Settling {
		return tea.Tick(settlePoll, func(time.Time) tea.Msg { return refreshMsg{} })
	}
	return nil
}

func (m *Model) refresh() {
	v, err := m.editor.Get(m.sessionID)
	if err != nil {
		m.setError(err.Error())
		return
	}
	m.view = v
	m.clamp()
}

func (m *Model) dragging() bool {
	return m.view.State == session.Dragging
}

func (m *Model) panes() []pane {
	out := make([]pane, 0, len(m.view.Zones)+1)
	out = append(out, pane{kind: zone.KindAvailable, title: "Available", items: m.view.Available})
	for _, z := range m.view.Zones {
		out = append(out, pane{kind: z.ID, title: z.Title, items: z.Items})
	}
	return out
}

func (m *Model) cursorItem() (session.Item, bool) {
	p := m.panes()[m.pane]
	if m.row >= len(p.items) {
		return session.Item{}, false
	}
	return p.items[m.row], true
}

func (m *Model) movePane(delta int) {
	n := len(m.panes())
	m.pane = (m.pane + delta + n) % n
	m.clamp()
}

func (m *Model) moveRow(delta int) {
	m.row += delta
	m.clamp()
}

func (m *Model) clamp() {
	panes := m.panes()
	if m.pane >= len(panes) {
		m.pane = len(panes) - 1
	}
	last := len(panes[m.pane].items) - 1
	if m.row > last {
		m.row = last
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

// ---------- Rendering ----------

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(20)
	activeStyle = paneStyle.BorderForeground(lipgloss.Color("12"))
	rejectStyle = paneStyle.BorderForeground(lipgloss.Color("9"))
	cursorStyle = lipgloss.NewStyle().Bold(true)
	carryStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s · %s", m.view.ChartID, m.view.ChartType, m.view.State)))
	sb.WriteString("\n")

	panes := m.panes()
	if len(panes) == 1 {
		sb.WriteString(helpStyle.Render(fmt.Sprintf("%s charts have no axis zones", m.view.ChartType)))
		sb.WriteString("\n")
	}

	boxes := make([]string, len(panes))
	for i, p := range panes {
		boxes[i] = m.renderPane(i, p)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	sb.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			sb.WriteString(errorStyle.Render(m.status))
		} else {
			sb.WriteString(statusStyle.Render(m.status))
		}
		sb.WriteString("\n")
	}

	var help []string
	for _, b := range m.keys.help(m.dragging()) {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	sb.WriteString(helpStyle.Render(strings.Join(help, " · ")))
	return sb.String()
}

func (m *Model) renderPane(i int, p pane) string {
	var lines []string
	lines = append(lines, cursorStyle.Render(p.title))
	if len(p.items) == 0 {
		lines = append(lines, helpStyle.Render("(empty)"))
	}
	for j, it := range p.items {
		name := it.OriginalID
		if d := m.view.Dragged; d != nil && d.ID == it.ID {
			name = carryStyle.Render(name)
		}
		if i == m.pane && j == m.row {
			lines = append(lines, cursorStyle.Render("> "+name))
			continue
		}
		lines = append(lines, "  "+name)
	}

	style := paneStyle
	if i == m.pane {
		style = activeStyle
		if m.dragging() && m.view.ZoneError != nil {
			style = rejectStyle
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}
