package transport

import (
	"context"
	"io"
	"time"

	"github.com/JeanRibes/ohm-surface/control"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
	"go.bug.st/serial"
)

const readTimeout = 100 * time.Millisecond

// DecodeFrame reads a two-byte frame of the serial controller: the top bit
// of the status byte is clear on press and set on release, the second byte
// is the key code.
func DecodeFrame(frame [2]byte) (code int, pressed bool) {
	return int(frame[1]), frame[0]>>7 == 0
}

// Serial reads a DIY controller from a serial line. Key codes are turned
// into control ids through a keymap; feedback is written back as raw MIDI.
type Serial struct {
	port    io.ReadWriteCloser
	keymap  map[int]control.ID
	mapping *Mapping
	logger  *charmlog.Logger
	held    [256]bool
}

// OpenSerial opens name at baud bauds.
func OpenSerial(name string, baud int, keymap map[int]string, mapping *Mapping, logger *charmlog.Logger) (*Serial, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, err
	}
	port.ResetInputBuffer()
	return NewSerial(port, keymap, mapping, logger), nil
}

func NewSerial(port io.ReadWriteCloser, keymap map[int]string, mapping *Mapping, logger *charmlog.Logger) *Serial {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	s := &Serial{
		port:    port,
		keymap:  map[int]control.ID{},
		mapping: mapping,
		logger:  logger.WithPrefix("serial"),
	}
	for code, id := range keymap {
		s.keymap[code] = control.ID(id)
	}
	return s
}

func (s *Serial) SetFeedback(id control.ID, value int) error {
	msg, err := s.mapping.Encode(id, value)
	if err != nil {
		return err
	}
	_, err = s.port.Write(msg.Bytes())
	return err
}

// Listen reads frames until ctx is done or the port fails. Repeated presses
// of a held key are dropped.
func (s *Serial) Listen(ctx context.Context, events chan<- Message) error {
	var frame [2]byte
	n := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r, err := s.port.Read(frame[n:])
		if err != nil {
			return err
		}
		n += r
		if n < len(frame) {
			continue
		}
		n = 0
		if ev, ok := s.translate(frame); ok {
			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (s *Serial) translate(frame [2]byte) (Message, bool) {
	code, pressed := DecodeFrame(frame)
	if s.held[code] && pressed {
		return Message{}, false
	}
	s.held[code] = pressed
	id, ok := s.keymap[code]
	if !ok {
		s.logger.Debug("unassigned", "code", code)
		return Message{}, false
	}
	value := 0
	if pressed {
		value = 127
	}
	return Message{Type: ControlInput, String: string(id), Number: value}, true
}

func (s *Serial) Close() error {
	return s.port.Close()
}
