// Package components holds the logical functions of the surface. Each of
// them implements modes.Component and only talks to the hardware through the
// controls the stack bound to it.
package components

import (
	"io"

	"github.com/JeanRibes/ohm-surface/control"
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

// Emitter receives the commands a component sends to the host.
type Emitter func(Message)

const (
	LEDOff = 0
	LEDOn  = 127
)

// Base carries the plumbing shared by every component: name, enable flag,
// the current binding and the feedback it drove, so it can be reverted.
type Base struct {
	name    string
	enabled bool
	bound   *modes.Bound
	driven  map[control.ID]*control.Control
	emit    Emitter
	logger  *charmlog.Logger
}

func NewBase(name string, emit Emitter, logger *charmlog.Logger) Base {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return Base{
		name:    name,
		enabled: true,
		driven:  map[control.ID]*control.Control{},
		emit:    emit,
		logger:  logger.WithPrefix(name),
	}
}

func (b *Base) Name() string              { return b.name }
func (b *Base) Enabled() bool             { return b.enabled }
func (b *Base) SetEnabled(enabled bool)   { b.enabled = enabled }
func (b *Base) Bound() *modes.Bound       { return b.bound }
func (b *Base) Logger() *charmlog.Logger  { return b.logger }
func (b *Base) IsBound() bool             { return b.bound != nil }
func (b *Base) Active() bool              { return b.enabled && b.bound != nil }
func (b *Base) Attach(bound *modes.Bound) { b.bound = bound }

func (b *Base) Control(role string) *control.Control {
	if b.bound == nil {
		return nil
	}
	return b.bound.Control(role)
}

func (b *Base) Controls(role string) []*control.Control {
	if b.bound == nil {
		return nil
	}
	return b.bound.Controls(role)
}

// Detach turns off everything the component lit and forgets the binding.
func (b *Base) Detach() {
	if b.bound != nil {
		for _, c := range b.driven {
			if err := b.bound.Feedback(c, LEDOff); err != nil {
				b.logger.Debug("revert feedback", "control", c.ID(), "err", err)
			}
		}
	}
	b.driven = map[control.ID]*control.Control{}
	b.bound = nil
}

// Feedback writes value on c. Nil controls are absent slots and are skipped.
func (b *Base) Feedback(c *control.Control, value int) {
	if b.bound == nil || c == nil {
		return
	}
	if err := b.bound.Feedback(c, value); err != nil {
		b.logger.Warn("feedback", "control", c.ID(), "err", err)
		return
	}
	b.driven[c.ID()] = c
}

// Light is Feedback for on/off LEDs.
func (b *Base) Light(c *control.Control, on bool) {
	if on {
		b.Feedback(c, LEDOn)
	} else {
		b.Feedback(c, LEDOff)
	}
}

func (b *Base) Send(msg Message) {
	b.logger.Debug("send", "type", msg.Type, "number", msg.Number, "number2", msg.Number2)
	if b.emit != nil {
		b.emit(msg)
	}
}

func pressed(value int) bool {
	return value > 0
}

func unit(value int) float64 {
	if value <= 0 {
		return 0
	}
	if value >= 127 {
		return 1
	}
	return float64(value) / 127
}

func toValue(f float64) int {
	return int(f*127 + 0.5)
}
