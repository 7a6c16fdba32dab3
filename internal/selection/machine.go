// Package selection owns the active theme and mediates every change to
// it. Layout, framing and declutter react to the transitions it reports.
package selection

import "orbitview/internal/domain"

// State is the coarse selection state
type State string

const (
	StateIdle        State = "idle"
	StateThemeActive State = "theme_active"
)

// Snapshot is the full selection state at one instant
type Snapshot struct {
	State     State            `json:"state"`
	Selection domain.Selection `json:"selection"`
	DrillDown bool             `json:"drill_down"`
}

// Transition records one state change. From and To may be equal, for
// example when empty space is clicked while already idle.
type Transition struct {
	From Snapshot `json:"from"`
	To   Snapshot `json:"to"`
}

// Changed reports whether the active theme differs between From and To
func (t Transition) Changed() bool {
	return t.From.Selection.ActiveThemeID != t.To.Selection.ActiveThemeID
}

// Listener is notified once per transition
type Listener func(Transition)

// Machine is the selection state machine. It starts Idle and has no
// terminal state. It is not safe for concurrent use; the owning scene
// serializes access.
type Machine struct {
	sel       domain.Selection
	drill     bool
	mobile    bool
	toggleOff bool
	listeners []Listener
}

// Option configures a Machine
type Option func(*Machine)

// WithToggleOff sets whether reselecting the active theme deactivates it
func WithToggleOff(on bool) Option {
	return func(m *Machine) { m.toggleOff = on }
}

// WithMobile enables the drill-down flag
func WithMobile(mobile bool) Option {
	return func(m *Machine) { m.mobile = mobile }
}

// New creates an idle machine. Toggle-off is on by default.
func New(opts ...Option) *Machine {
	m := &Machine{toggleOff: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnThemeSelect registers a transition listener
func (m *Machine) OnThemeSelect(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Snapshot returns the current state
func (m *Machine) Snapshot() Snapshot {
	state := StateIdle
	if m.sel.HasActive() {
		state = StateThemeActive
	}
	return Snapshot{State: state, Selection: m.sel, DrillDown: m.drill}
}

// Selection returns the current selection value
func (m *Machine) Selection() domain.Selection {
	return m.sel
}

// ActiveThemeID returns the active theme, empty when idle
func (m *Machine) ActiveThemeID() string {
	return m.sel.ActiveThemeID
}

// DrilledDown reports whether the mobile card list is open
func (m *Machine) DrilledDown() bool {
	return m.drill
}

// SelectTheme activates id. Selecting the already active theme turns it
// off when toggle-off is enabled. Switching themes goes straight from one
// active theme to the other. An empty id behaves like ClickEmptySpace.
func (m *Machine) SelectTheme(id string) Transition {
	if id == "" {
		return m.ClickEmptySpace()
	}

	from := m.Snapshot()
	switch {
	case m.sel.ActiveThemeID == id && m.toggleOff:
		m.sel.ActiveThemeID = ""
		m.drill = false
	case m.sel.ActiveThemeID == id:
		// stay active
	default:
		m.sel.ActiveThemeID = id
		m.drill = false
	}
	return m.emit(from)
}

// ClickEmptySpace returns to Idle from any state
func (m *Machine) ClickEmptySpace() Transition {
	from := m.Snapshot()
	m.sel.ActiveThemeID = ""
	m.drill = false
	return m.emit(from)
}

// Hover marks a node as hovered. It never changes the active theme and
// does not notify listeners.
func (m *Machine) Hover(id string) {
	m.sel.HoveredID = id
}

// Unhover clears the hovered node
func (m *Machine) Unhover() {
	m.sel.HoveredID = ""
}

// SetMobile switches device class. Leaving mobile closes the card list.
func (m *Machine) SetMobile(mobile bool) {
	m.mobile = mobile
	if !mobile {
		m.drill = false
	}
}

// DrillDown opens the card list for the active theme. It only applies on
// mobile while a theme is active.
func (m *Machine) DrillDown() bool {
	if !m.mobile || !m.sel.HasActive() {
		return false
	}
	m.drill = true
	return true
}

// DrillUp closes the card list and keeps the theme active
func (m *Machine) DrillUp() bool {
	if !m.drill {
		return false
	}
	m.drill = false
	return true
}

// CanSelectSubgraph reports whether a subgraph card under parentID can be
// chosen: the card list must be open on that theme.
func (m *Machine) CanSelectSubgraph(parentID string) bool {
	return m.drill && parentID != "" && parentID == m.sel.ActiveThemeID
}

// Prune drops selection state that a new node snapshot no longer
// supports: the active theme when isTheme rejects it, the hover target
// when exists rejects it. It reports a transition when the active theme
// was dropped.
func (m *Machine) Prune(isTheme, exists func(id string) bool) (Transition, bool) {
	if m.sel.HoveredID != "" && !exists(m.sel.HoveredID) {
		m.sel.HoveredID = ""
	}
	if m.sel.HasActive() && !isTheme(m.sel.ActiveThemeID) {
		return m.ClickEmptySpace(), true
	}
	return Transition{}, false
}

func (m *Machine) emit(from Snapshot) Transition {
	tr := Transition{From: from, To: m.Snapshot()}
	for _, l := range m.listeners {
		l(tr)
	}
	return tr
}
