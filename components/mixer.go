package components

import (
	"github.com/JeanRibes/ohm-surface/control"
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

const (
	RoleVolume = "volume_sliders"
	RolePan    = "pan_encoders"
	RoleSends  = "send_encoders"
	RoleSelect = "select_buttons"
	RoleMute   = "mute_buttons"
	RoleSolo   = "solo_buttons"
	RoleArm    = "arm_buttons"
)

// Strip is the state of one mixer channel strip.
type Strip struct {
	Volume float64
	Pan    float64
	Send   float64
	Mute   bool
	Solo   bool
	Arm    bool
}

type Mixer struct {
	Base
	ring     *Ring
	strips   []Strip
	selected int
	router   *SendRouter
}

// NewMixer creates a mixer with one strip per ring track. sends is the
// number of send encoders the hardware offers.
func NewMixer(ring *Ring, sends int, emit Emitter, logger *charmlog.Logger) *Mixer {
	m := &Mixer{
		Base:     NewBase("mixer", emit, logger),
		ring:     ring,
		strips:   make([]Strip, ring.Tracks),
		selected: -1,
		router:   NewSendRouter(ring.Tracks, sends),
	}
	for i := range m.strips {
		m.strips[i].Pan = 0.5
	}
	ring.OnMove(m.refresh)
	return m
}

func (m *Mixer) Router() *SendRouter {
	return m.router
}

func (m *Mixer) Strip(i int) Strip {
	return m.strips[i]
}

// SetSendIndex forwards to the send router. Out of range indexes are
// clamped and only logged.
func (m *Mixer) SetSendIndex(i int) {
	if err := m.router.SetSendIndex(i); err != nil {
		m.Logger().Warn("send index", "err", err)
	}
}

func (m *Mixer) Bind(b *modes.Bound) {
	m.Attach(b)
	m.router.SetSendControls(b.Controls(RoleSends))
	m.refresh()
}

func (m *Mixer) Unbind() {
	m.Detach()
	m.router.SetSendControls(nil)
}

func (m *Mixer) track(strip int) int {
	return m.ring.TrackOffset() + strip
}

func (m *Mixer) HandleInput(role string, index int, value int) {
	if !m.Active() {
		return
	}
	switch role {
	case RoleVolume:
		if index >= len(m.strips) {
			return
		}
		m.strips[index].Volume = unit(value)
		m.Send(Message{Type: TrackVolume, Number: m.track(index), Float: m.strips[index].Volume})
	case RolePan:
		if index >= len(m.strips) {
			return
		}
		m.strips[index].Pan = unit(value)
		m.Feedback(at(m.Controls(RolePan), index), value)
		m.Send(Message{Type: TrackPan, Number: m.track(index), Float: m.strips[index].Pan})
	case RoleSends:
		c := at(m.Controls(RoleSends), index)
		if c == nil {
			return
		}
		strip, slot, ok := m.router.Locate(c.ID())
		if !ok {
			return
		}
		send := slot
		if i, ok := m.router.SendIndex(); ok {
			send = i
		}
		m.strips[strip].Send = unit(value)
		m.Feedback(c, value)
		m.Send(Message{Type: TrackSend, Number: m.track(strip), Number2: send, Float: m.strips[strip].Send})
	case RoleSelect:
		if !pressed(value) || index >= len(m.strips) {
			return
		}
		m.selected = index
		m.Send(Message{Type: TrackSelect, Number: m.track(index)})
		m.refresh()
	case RoleMute, RoleSolo, RoleArm:
		if !pressed(value) || index >= len(m.strips) {
			return
		}
		s := &m.strips[index]
		var state bool
		var ev Event
		switch role {
		case RoleMute:
			s.Mute = !s.Mute
			state, ev = s.Mute, TrackMute
		case RoleSolo:
			s.Solo = !s.Solo
			state, ev = s.Solo, TrackSolo
		default:
			s.Arm = !s.Arm
			state, ev = s.Arm, TrackArm
		}
		m.Light(at(m.Controls(role), index), state)
		m.Send(Message{Type: ev, Number: m.track(index), Boolean: state})
	}
}

// refresh redraws every LED and encoder ring the mixer owns.
func (m *Mixer) refresh() {
	if !m.IsBound() {
		return
	}
	for i, s := range m.strips {
		m.Light(at(m.Controls(RoleSelect), i), i == m.selected)
		m.Light(at(m.Controls(RoleMute), i), s.Mute)
		m.Light(at(m.Controls(RoleSolo), i), s.Solo)
		m.Light(at(m.Controls(RoleArm), i), s.Arm)
		if c := at(m.Controls(RolePan), i); c != nil && c.Kind() == control.Rotary {
			m.Feedback(c, toValue(s.Pan))
		}
		for _, c := range m.router.Strip(i) {
			if c != nil && c.Kind() == control.Rotary {
				m.Feedback(c, toValue(s.Send))
			}
		}
	}
}

func at(cs []*control.Control, i int) *control.Control {
	if i < 0 || i >= len(cs) {
		return nil
	}
	return cs[i]
}
