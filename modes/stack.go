package modes

import (
	"errors"
	"fmt"
	"io"

	"github.com/JeanRibes/ohm-surface/control"

	charmlog "github.com/charmbracelet/log"
)

// Mode is a named bundle of layers, applied and removed as a unit.
type Mode struct {
	name     string
	priority int
	entries  []*entry
	enabled  bool
}

func (m *Mode) Name() string  { return m.name }
func (m *Mode) Priority() int { return m.priority }
func (m *Mode) Enabled() bool { return m.enabled }

func (m *Mode) Layers() []*Layer {
	res := make([]*Layer, len(m.entries))
	for i, e := range m.entries {
		res[i] = e.layer
	}
	return res
}

// entry is a registered layer. seq grows with every registration and breaks
// priority ties: the later registration wins.
type entry struct {
	layer *Layer
	seq   int
	mode  *Mode
}

func (e *entry) enabled() bool {
	return e.mode == nil || e.mode.enabled
}

func (e *entry) beats(o *entry) bool {
	if e.layer.priority != o.layer.priority {
		return e.layer.priority > o.layer.priority
	}
	return e.seq > o.seq
}

// view is the resolved binding of one component.
type view struct {
	top   *entry
	order []string
	roles map[string][]control.ID
}

func (v *view) equal(o *view) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.top != o.top || len(v.order) != len(o.order) {
		return false
	}
	for i, role := range v.order {
		if o.order[i] != role {
			return false
		}
		a, b := v.roles[role], o.roles[role]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// locate finds id among the roles of the view. A control can be won by a
// layer whose role is shadowed by a higher layer of the same component; it
// is then not part of the view.
func (v *view) locate(id control.ID) (string, int, bool) {
	if v == nil {
		return "", 0, false
	}
	for _, role := range v.order {
		for i, c := range v.roles[role] {
			if c == id {
				return role, i, true
			}
		}
	}
	return "", 0, false
}

type resolution struct {
	winners map[control.ID]*entry
	views   map[string]*view
}

// Stack owns the modes of a surface and decides which layer, and so which
// component, owns every control.
type Stack struct {
	reg    *control.Registry
	logger *charmlog.Logger

	components map[string]Component
	compOrder  []string

	base      []*entry
	modes     map[string]*Mode
	modeOrder []string
	seq       int

	current resolution
}

func NewStack(reg *control.Registry, logger *charmlog.Logger) *Stack {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &Stack{
		reg:        reg,
		logger:     logger,
		components: map[string]Component{},
		modes:      map[string]*Mode{},
		current: resolution{
			winners: map[control.ID]*entry{},
			views:   map[string]*view{},
		},
	}
}

func (s *Stack) Registry() *control.Registry {
	return s.reg
}

func (s *Stack) RegisterComponent(c Component) error {
	if _, ok := s.components[c.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.Name())
	}
	s.components[c.Name()] = c
	s.compOrder = append(s.compOrder, c.Name())
	return nil
}

func (s *Stack) Component(name string) (Component, bool) {
	c, ok := s.components[name]
	return c, ok
}

func (s *Stack) check(l *Layer) error {
	if _, ok := s.components[l.component]; !ok {
		return fmt.Errorf("layer %s: %w: %s", l.name, ErrUnknownComponent, l.component)
	}
	for _, id := range l.Controls() {
		if _, ok := s.reg.Get(id); !ok {
			return fmt.Errorf("layer %s: %w: %s", l.name, control.ErrUnknownControl, id)
		}
	}
	return nil
}

func (s *Stack) register(l *Layer, m *Mode) *entry {
	s.seq++
	return &entry{layer: l, seq: s.seq, mode: m}
}

// AddBase registers always-enabled fallback layers. They take BasePriority
// whatever priority they were built with.
func (s *Stack) AddBase(layers ...*Layer) error {
	for _, l := range layers {
		if err := s.check(l); err != nil {
			return err
		}
	}
	for _, l := range layers {
		s.base = append(s.base, s.register(l.WithPriority(BasePriority), nil))
	}
	return s.apply()
}

// AddMode registers a disabled mode. Its layers take the mode priority.
func (s *Stack) AddMode(name string, priority int, layers ...*Layer) (*Mode, error) {
	if _, ok := s.modes[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMode, name)
	}
	if priority <= BasePriority {
		priority = BasePriority + 1
	}
	for _, l := range layers {
		if err := s.check(l); err != nil {
			return nil, fmt.Errorf("mode %s: %w", name, err)
		}
	}
	m := &Mode{name: name, priority: priority}
	for _, l := range layers {
		m.entries = append(m.entries, s.register(l.WithPriority(priority), m))
	}
	s.modes[name] = m
	s.modeOrder = append(s.modeOrder, name)
	s.logger.Debug("mode added", "mode", name, "priority", priority, "layers", len(layers))
	return m, nil
}

// ReplaceMode swaps the layer list of an existing mode. The new layers count
// as the latest registrations for tie-breaking.
func (s *Stack) ReplaceMode(name string, layers ...*Layer) error {
	m, ok := s.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	for _, l := range layers {
		if err := s.check(l); err != nil {
			return fmt.Errorf("mode %s: %w", name, err)
		}
	}
	entries := make([]*entry, 0, len(layers))
	for _, l := range layers {
		entries = append(entries, s.register(l.WithPriority(m.priority), m))
	}
	m.entries = entries
	s.logger.Debug("mode replaced", "mode", name, "layers", len(layers))
	if !m.enabled {
		return nil
	}
	return s.apply()
}

func (s *Stack) Mode(name string) (*Mode, bool) {
	m, ok := s.modes[name]
	return m, ok
}

func (s *Stack) Modes() []*Mode {
	res := make([]*Mode, 0, len(s.modeOrder))
	for _, name := range s.modeOrder {
		res = append(res, s.modes[name])
	}
	return res
}

// SetEnabled toggles a mode. Setting the state it already has changes
// nothing.
func (s *Stack) SetEnabled(name string, enabled bool) error {
	m, ok := s.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	if m.enabled == enabled {
		return nil
	}
	m.enabled = enabled
	s.logger.Debug("set mode", "mode", name, "enabled", enabled)
	return s.apply()
}

// Select enables one mode and disables every other one in a single apply.
// An empty name disables all modes.
func (s *Stack) Select(name string) error {
	if name != "" {
		if _, ok := s.modes[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMode, name)
		}
	}
	changed := false
	for _, m := range s.modes {
		want := m.name == name
		if m.enabled != want {
			m.enabled = want
			changed = true
		}
	}
	if !changed {
		return nil
	}
	s.logger.Debug("select mode", "mode", name)
	return s.apply()
}

// Selected returns the enabled modes in registration order.
func (s *Stack) Selected() []string {
	var res []string
	for _, name := range s.modeOrder {
		if s.modes[name].enabled {
			res = append(res, name)
		}
	}
	return res
}

// Resolve returns the layer that currently owns id.
func (s *Stack) Resolve(id control.ID) (*Layer, bool) {
	e, ok := s.current.winners[id]
	if !ok {
		return nil, false
	}
	return e.layer, true
}

// Dispatch forwards a value from the hardware to the component owning the
// control. It reports whether a component took it.
func (s *Stack) Dispatch(id control.ID, value int) bool {
	c, ok := s.reg.Get(id)
	if !ok {
		s.logger.Warn("input from unknown control", "control", id)
		return false
	}
	c.SetValue(value)
	e, ok := s.current.winners[id]
	if !ok {
		return false
	}
	comp := s.components[e.layer.component]
	if !comp.Enabled() {
		return false
	}
	role, index, ok := s.current.views[e.layer.component].locate(id)
	if !ok {
		return false
	}
	comp.HandleInput(role, index, value)
	return true
}

// Validate checks that every control of the registry is owned by a layer.
func (s *Stack) Validate() error {
	var missing []control.ID
	for _, c := range s.reg.All() {
		if _, ok := s.current.winners[c.ID()]; !ok {
			missing = append(missing, c.ID())
		}
	}
	if len(missing) > 0 {
		return &UnboundControlError{IDs: missing}
	}
	return nil
}

// Assignment is one row of Snapshot.
type Assignment struct {
	Control   control.ID
	Kind      control.Kind
	Layer     string
	Component string
	Mode      string
	Role      string
	Index     int
}

// Snapshot lists the owner of every control in declaration order. Unowned
// controls have an empty Layer.
func (s *Stack) Snapshot() []Assignment {
	res := make([]Assignment, 0, s.reg.Len())
	for _, c := range s.reg.All() {
		a := Assignment{Control: c.ID(), Kind: c.Kind()}
		if e, ok := s.current.winners[c.ID()]; ok {
			a.Layer = e.layer.name
			a.Component = e.layer.component
			if e.mode != nil {
				a.Mode = e.mode.name
			}
			a.Role, a.Index, _ = e.layer.locate(c.ID())
		}
		res = append(res, a)
	}
	return res
}

func (s *Stack) enabledEntries() []*entry {
	res := append([]*entry(nil), s.base...)
	for _, name := range s.modeOrder {
		m := s.modes[name]
		if m.enabled {
			res = append(res, m.entries...)
		}
	}
	return res
}

func (s *Stack) resolve() resolution {
	active := s.enabledEntries()
	r := resolution{
		winners: map[control.ID]*entry{},
		views:   map[string]*view{},
	}
	for _, e := range active {
		for _, id := range e.layer.Controls() {
			if w, ok := r.winners[id]; !ok || e.beats(w) {
				r.winners[id] = e
			}
		}
	}

	// Per component, every role comes from the highest ranked enabled layer
	// declaring it.
	sources := map[string]map[string]*entry{}
	for _, e := range active {
		comp := e.layer.component
		v, ok := r.views[comp]
		if !ok {
			v = &view{roles: map[string][]control.ID{}}
			r.views[comp] = v
			sources[comp] = map[string]*entry{}
		}
		if v.top == nil || e.beats(v.top) {
			v.top = e
		}
		for _, b := range e.layer.bindings {
			if cur, ok := sources[comp][b.Role]; !ok || e.beats(cur) {
				sources[comp][b.Role] = e
			}
		}
	}
	for comp, v := range r.views {
		for _, e := range active {
			if e.layer.component != comp {
				continue
			}
			for _, b := range e.layer.bindings {
				if sources[comp][b.Role] != e {
					continue
				}
				if _, ok := v.roles[b.Role]; ok {
					continue
				}
				ids := make([]control.ID, len(b.Controls))
				for i, id := range b.Controls {
					if r.winners[id] == e {
						ids[i] = id
					}
				}
				v.order = append(v.order, b.Role)
				v.roles[b.Role] = ids
			}
		}
	}
	return r
}

// apply recomputes the resolution and moves the components whose binding
// changed. Components are unbound against the old ownership, the new
// resolution is committed, then components are bound. Feedback is held
// until the end so the hardware never sees a half applied state.
func (s *Stack) apply() error {
	next := s.resolve()
	prev := s.current

	var changed []string
	for _, name := range s.compOrder {
		if !prev.views[name].equal(next.views[name]) {
			changed = append(changed, name)
		}
	}

	s.reg.Hold()
	for _, name := range changed {
		if prev.views[name] != nil {
			s.logger.Debug("unbind", "component", name, "layer", prev.views[name].top.layer.name)
			s.components[name].Unbind()
		}
	}

	for id, e := range prev.winners {
		s.reg.Release(id, e.layer.component)
	}
	var errs error
	for id, e := range next.winners {
		errs = errors.Join(errs, s.reg.Claim(id, e.layer.component))
	}
	s.current = next

	for _, name := range changed {
		v := next.views[name]
		if v == nil {
			continue
		}
		s.logger.Debug("bind", "component", name, "layer", v.top.layer.name)
		s.components[name].Bind(s.bound(name, v))
	}
	return errors.Join(errs, s.reg.Flush())
}

func (s *Stack) bound(name string, v *view) *Bound {
	b := &Bound{
		layer: v.top.layer,
		order: append([]string(nil), v.order...),
		roles: map[string][]*control.Control{},
		owner: name,
		reg:   s.reg,
	}
	for _, role := range v.order {
		ids := v.roles[role]
		cs := make([]*control.Control, len(ids))
		for i, id := range ids {
			if id != "" {
				cs[i], _ = s.reg.Get(id)
			}
		}
		b.roles[role] = cs
	}
	return b
}
