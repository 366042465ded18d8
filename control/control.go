package control

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Button Kind = iota
	Rotary
	Fader
)

func (k Kind) String() string {
	switch k {
	case Button:
		return "button"
	case Rotary:
		return "rotary"
	case Fader:
		return "fader"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "button", "pad":
		*k = Button
	case "rotary", "encoder", "knob":
		*k = Rotary
	case "fader", "slider":
		*k = Fader
	default:
		return fmt.Errorf("unknown control kind %q", string(text))
	}
	return nil
}

// ID names a physical control. It is stable for the lifetime of the process.
type ID string

// Control is one addressable input/output unit of the hardware: the last
// value it reported and the feedback (LED / ring) value last written to it.
type Control struct {
	id       ID
	kind     Kind
	value    int
	feedback int
}

func New(id ID, kind Kind) *Control {
	return &Control{id: id, kind: kind}
}

func (c *Control) ID() ID        { return c.id }
func (c *Control) Kind() Kind    { return c.kind }
func (c *Control) Value() int    { return c.value }
func (c *Control) Feedback() int { return c.feedback }

// SetValue records the value reported by the hardware.
func (c *Control) SetValue(v int) {
	c.value = clamp(v)
}

func (c *Control) String() string {
	return fmt.Sprintf("%s(%s)", c.id, c.kind)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}
