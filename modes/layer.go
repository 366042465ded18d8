package modes

import (
	"math"

	"github.com/JeanRibes/ohm-surface/control"
)

// BasePriority is the priority of base layers. It is lower than anything a
// mode can register.
const BasePriority = math.MinInt32

// Binding wires one role of a component to a list of controls. Single
// controls are one element lists; matrices keep their row-major order.
type Binding struct {
	Role     string
	Controls []control.ID
}

// Layer is an immutable set of bindings for one component.
type Layer struct {
	name      string
	component string
	priority  int
	bindings  []Binding
}

func NewLayer(name, component string, priority int, bindings ...Binding) *Layer {
	l := &Layer{
		name:      name,
		component: component,
		priority:  priority,
		bindings:  make([]Binding, len(bindings)),
	}
	for i, b := range bindings {
		l.bindings[i] = Binding{Role: b.Role, Controls: append([]control.ID(nil), b.Controls...)}
	}
	return l
}

// Bind is a shorthand for building a Binding.
func Bind(role string, ids ...control.ID) Binding {
	return Binding{Role: role, Controls: ids}
}

func (l *Layer) Name() string      { return l.name }
func (l *Layer) Component() string { return l.component }
func (l *Layer) Priority() int     { return l.priority }

func (l *Layer) Bindings() []Binding {
	res := make([]Binding, len(l.bindings))
	for i, b := range l.bindings {
		res[i] = Binding{Role: b.Role, Controls: append([]control.ID(nil), b.Controls...)}
	}
	return res
}

// Controls lists every control referenced by the layer, in binding order.
func (l *Layer) Controls() []control.ID {
	var ids []control.ID
	for _, b := range l.bindings {
		ids = append(ids, b.Controls...)
	}
	return ids
}

// WithPriority returns a copy of the layer with another priority.
func (l *Layer) WithPriority(priority int) *Layer {
	return NewLayer(l.name, l.component, priority, l.bindings...)
}

func (l *Layer) locate(id control.ID) (role string, index int, ok bool) {
	for _, b := range l.bindings {
		for i, c := range b.Controls {
			if c == id {
				return b.Role, i, true
			}
		}
	}
	return "", 0, false
}
