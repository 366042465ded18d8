package main

import (
	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

// bridge turns key frames into MIDI. Repeated presses are dropped and
// controller keys toggle between 0 and 64.
type bridge struct {
	keymap      map[int]int
	held        [256]bool
	controllers [256]bool
	logger      *charmlog.Logger
}

func newBridge(keymap map[int]int, logger *charmlog.Logger) *bridge {
	return &bridge{keymap: keymap, logger: logger}
}

func (b *bridge) frame(code int, pressed bool) (midi.Message, bool) {
	if b.held[code] && pressed {
		return nil, false
	}
	b.held[code] = pressed

	note, ok := b.keymap[code]
	if !ok {
		if pressed {
			b.logger.Debug("unassigned", "code", code)
		}
		return nil, false
	}
	if note < 0 {
		if !pressed {
			return nil, false
		}
		b.controllers[code] = !b.controllers[code]
		value := uint8(0)
		if b.controllers[code] {
			value = 64
		}
		b.logger.Debug("controller", "number", -note, "value", value)
		return midi.ControlChange(0, uint8(-note), value), true
	}
	b.logger.Debug("note", "note", note, "on", pressed)
	if pressed {
		return midi.NoteOn(0, uint8(note), 64), true
	}
	return midi.NoteOff(0, uint8(note)), true
}
