package modes

import "github.com/JeanRibes/ohm-surface/control"

// Component is a logical function of the surface (mixer, transport, ...)
// which receives controls from the stack.
type Component interface {
	Name() string
	// Bind is called when the set of controls wired to the component
	// changes. The previous binding, if any, has been removed with Unbind.
	Bind(b *Bound)
	// Unbind detaches the component and reverts the feedback it drove.
	Unbind()
	SetEnabled(enabled bool)
	Enabled() bool
	// HandleInput delivers a value from the control at position index of
	// role.
	HandleInput(role string, index int, value int)
}

// Bound is what a component sees of its active layer: every role with the
// controls the layer won. A nil entry marks a control taken by another
// layer.
type Bound struct {
	layer *Layer
	order []string
	roles map[string][]*control.Control
	owner string
	reg   *control.Registry
}

// Layer is the highest ranked enabled layer of the component.
func (b *Bound) Layer() *Layer {
	return b.layer
}

func (b *Bound) Roles() []string {
	return append([]string(nil), b.order...)
}

func (b *Bound) Controls(role string) []*control.Control {
	return append([]*control.Control(nil), b.roles[role]...)
}

// Control returns the first control of role, or nil.
func (b *Bound) Control(role string) *control.Control {
	cs := b.roles[role]
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// Feedback writes value on c on behalf of the bound component.
func (b *Bound) Feedback(c *control.Control, value int) error {
	if c == nil {
		return nil
	}
	return b.reg.Write(b.owner, c.ID(), value)
}
