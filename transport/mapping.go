// Package transport moves control values between the surface and the
// hardware, over MIDI ports or a serial line.
package transport

import (
	"errors"
	"fmt"

	"github.com/JeanRibes/ohm-surface/config"
	"github.com/JeanRibes/ohm-surface/control"

	"gitlab.com/gomidi/midi/v2"
)

var ErrUnmapped = errors.New("control has no MIDI address")

// Address is where a control lives on the MIDI wire.
type Address struct {
	Channel uint8
	Type    config.MessageType
	Number  uint8
}

// Mapping translates between control ids and MIDI messages.
type Mapping struct {
	byID   map[control.ID]Address
	byAddr map[Address]control.ID
}

func NewMapping(layout []config.Control) *Mapping {
	m := &Mapping{
		byID:   map[control.ID]Address{},
		byAddr: map[Address]control.ID{},
	}
	for _, c := range layout {
		a := Address{Channel: c.Channel, Type: c.Type, Number: c.Number}
		m.byID[control.ID(c.ID)] = a
		m.byAddr[a] = control.ID(c.ID)
	}
	return m
}

func (m *Mapping) Address(id control.ID) (Address, bool) {
	a, ok := m.byID[id]
	return a, ok
}

// Encode builds the feedback message for id. Notes carry the value as
// velocity, which the OhmRGB reads as a LED color.
func (m *Mapping) Encode(id control.ID, value int) (midi.Message, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnmapped, id)
	}
	v := uint8(min(max(value, 0), 127))
	if a.Type == config.Note {
		return midi.NoteOn(a.Channel, a.Number, v), nil
	}
	return midi.ControlChange(a.Channel, a.Number, v), nil
}

// Decode finds the control a channel message comes from and the value it
// reports. Note offs report 0.
func (m *Mapping) Decode(msg midi.Message) (control.ID, int, bool) {
	var ch, key, vel, cc, val uint8
	var a Address
	var value int
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		a, value = Address{ch, config.Note, key}, int(vel)
	case msg.GetNoteEnd(&ch, &key):
		a, value = Address{ch, config.Note, key}, 0
	case msg.GetControlChange(&ch, &cc, &val):
		a, value = Address{ch, config.CC, cc}, int(val)
	default:
		return "", 0, false
	}
	id, ok := m.byAddr[a]
	if !ok {
		return "", 0, false
	}
	return id, value, true
}
