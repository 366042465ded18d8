package transport

import (
	"errors"
	"io"
	"time"

	"github.com/JeanRibes/ohm-surface/control"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ErrInputOnly = errors.New("transport has no output")

// MIDI talks to the surface over a pair of MIDI ports.
type MIDI struct {
	mapping *Mapping
	send    func(midi.Message) error
	stop    func()
	logger  *charmlog.Logger
}

func NewMIDI(out drivers.Out, mapping *Mapping, logger *charmlog.Logger) (*MIDI, error) {
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, err
	}
	return newMIDI(send, mapping, logger), nil
}

// NewInput creates a transport that only listens. The host clock comes in
// this way.
func NewInput(mapping *Mapping, logger *charmlog.Logger) *MIDI {
	return newMIDI(nil, mapping, logger)
}

func newMIDI(send func(midi.Message) error, mapping *Mapping, logger *charmlog.Logger) *MIDI {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &MIDI{mapping: mapping, send: send, logger: logger.WithPrefix("midi")}
}

// SetFeedback sends value to the LED or ring of id.
func (m *MIDI) SetFeedback(id control.ID, value int) error {
	if m.send == nil {
		return ErrInputOnly
	}
	msg, err := m.mapping.Encode(id, value)
	if err != nil {
		return err
	}
	return m.send(msg)
}

// Listen forwards input from in to events until Close. Realtime clock
// messages are forwarded too, stamped with their arrival time.
func (m *MIDI) Listen(in drivers.In, events chan<- Message) error {
	stop, err := midi.ListenTo(in, func(msg midi.Message, absms int32) {
		if ev, ok := m.translate(msg, time.Now()); ok {
			events <- ev
		}
	}, midi.UseTimeCode(), midi.HandleError(func(err error) {
		m.logger.Error("listen", "err", err)
	}))
	if err != nil {
		return err
	}
	m.stop = stop
	return nil
}

func (m *MIDI) translate(msg midi.Message, now time.Time) (Message, bool) {
	switch {
	case msg.IsOneOf(midi.TimingClockMsg):
		return Message{Type: ClockTick, Time: now}, true
	case msg.IsOneOf(midi.StartMsg):
		return Message{Type: ClockStart, Time: now}, true
	case msg.IsOneOf(midi.StopMsg):
		return Message{Type: ClockStop, Time: now}, true
	case msg.IsOneOf(midi.ContinueMsg):
		return Message{Type: ClockContinue, Time: now}, true
	}
	id, value, ok := m.mapping.Decode(msg)
	if !ok {
		m.logger.Debug("unmapped input", "msg", msg.String())
		return Message{}, false
	}
	return Message{Type: ControlInput, String: string(id), Number: value}, true
}

func (m *MIDI) Close() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}
