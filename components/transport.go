package components

import (
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

const (
	RolePlay   = "play_button"
	RoleStop   = "stop_button"
	RoleRecord = "record_button"
)

// Transport drives the play, stop and record buttons. The play LED follows
// the host playing state, not the button.
type Transport struct {
	Base
	playing   bool
	recording bool
}

func NewTransport(emit Emitter, logger *charmlog.Logger) *Transport {
	return &Transport{Base: NewBase("transport", emit, logger)}
}

func (t *Transport) Playing() bool   { return t.playing }
func (t *Transport) Recording() bool { return t.recording }

// SetPlaying mirrors the host playing state on the LEDs.
func (t *Transport) SetPlaying(playing bool) {
	t.playing = playing
	t.refresh()
}

func (t *Transport) Bind(b *modes.Bound) {
	t.Attach(b)
	t.refresh()
}

func (t *Transport) Unbind() {
	t.Detach()
}

func (t *Transport) HandleInput(role string, index int, value int) {
	if !t.Active() || !pressed(value) {
		return
	}
	switch role {
	case RolePlay:
		t.Send(Message{Type: TransportPlay})
	case RoleStop:
		t.Send(Message{Type: TransportStop})
	case RoleRecord:
		t.recording = !t.recording
		t.Send(Message{Type: TransportRecord, Boolean: t.recording})
		t.refresh()
	}
}

func (t *Transport) refresh() {
	t.Light(t.Control(RolePlay), t.playing)
	t.Light(t.Control(RoleStop), !t.playing)
	t.Light(t.Control(RoleRecord), t.recording)
}
