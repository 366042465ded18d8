package components

import (
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

const (
	RoleClipLaunch = "clip_launch_buttons"
	RoleTrackLeft  = "track_bank_left"
	RoleTrackRight = "track_bank_right"
	RoleSceneUp    = "scene_bank_up"
	RoleSceneDown  = "scene_bank_down"

	RoleNavUp    = "nav_up"
	RoleNavDown  = "nav_down"
	RoleNavLeft  = "nav_left"
	RoleNavRight = "nav_right"
)

type ClipState int

const (
	ClipEmpty ClipState = iota
	ClipStopped
	ClipPlaying
	ClipRecording
)

// LED values per clip state.
var clipColors = [...]int{
	ClipEmpty:     LEDOff,
	ClipStopped:   32,
	ClipPlaying:   LEDOn,
	ClipRecording: 64,
}

type slot struct{ track, scene int }

// SessionGrid shows the clips inside the session ring on the launch
// buttons. Button i is track i%Tracks, scene i/Tracks of the ring.
type SessionGrid struct {
	Base
	ring  *Ring
	clips map[slot]ClipState
}

func NewSessionGrid(ring *Ring, emit Emitter, logger *charmlog.Logger) *SessionGrid {
	s := &SessionGrid{
		Base:  NewBase("session", emit, logger),
		ring:  ring,
		clips: map[slot]ClipState{},
	}
	ring.OnMove(s.moved)
	return s
}

// SetClip records the state of the clip at absolute track and scene.
func (s *SessionGrid) SetClip(track, scene int, state ClipState) {
	s.clips[slot{track, scene}] = state
	s.refresh()
}

func (s *SessionGrid) Clip(track, scene int) ClipState {
	return s.clips[slot{track, scene}]
}

func (s *SessionGrid) Bind(b *modes.Bound) {
	s.Attach(b)
	s.refresh()
}

func (s *SessionGrid) Unbind() {
	s.Detach()
}

func (s *SessionGrid) cell(i int) (track, scene int) {
	return s.ring.TrackOffset() + i%s.ring.Tracks, s.ring.SceneOffset() + i/s.ring.Tracks
}

func (s *SessionGrid) HandleInput(role string, index int, value int) {
	if !s.Active() || !pressed(value) {
		return
	}
	switch role {
	case RoleClipLaunch:
		track, scene := s.cell(index)
		s.Send(Message{Type: ClipLaunch, Number: track, Number2: scene})
	case RoleTrackLeft:
		s.ring.Move(-1, 0)
	case RoleTrackRight:
		s.ring.Move(1, 0)
	case RoleSceneUp:
		s.ring.Move(0, -1)
	case RoleSceneDown:
		s.ring.Move(0, 1)
	}
}

func (s *SessionGrid) moved() {
	s.Send(Message{Type: SessionOffset, Number: s.ring.TrackOffset(), Number2: s.ring.SceneOffset()})
	s.refresh()
}

func (s *SessionGrid) refresh() {
	for i, c := range s.Controls(RoleClipLaunch) {
		track, scene := s.cell(i)
		s.Feedback(c, clipColors[s.clips[slot{track, scene}]])
	}
	s.Light(s.Control(RoleTrackLeft), s.ring.TrackOffset() > 0)
	s.Light(s.Control(RoleTrackRight), true)
	s.Light(s.Control(RoleSceneUp), s.ring.SceneOffset() > 0)
	s.Light(s.Control(RoleSceneDown), true)
}

// SessionOverview pages the session ring by whole ring widths.
type SessionOverview struct {
	Base
	ring *Ring
}

func NewSessionOverview(ring *Ring, emit Emitter, logger *charmlog.Logger) *SessionOverview {
	o := &SessionOverview{
		Base: NewBase("overview", emit, logger),
		ring: ring,
	}
	ring.OnMove(o.refresh)
	return o
}

func (o *SessionOverview) Bind(b *modes.Bound) {
	o.Attach(b)
	o.refresh()
}

func (o *SessionOverview) Unbind() {
	o.Detach()
}

func (o *SessionOverview) HandleInput(role string, index int, value int) {
	if !o.Active() || !pressed(value) {
		return
	}
	switch role {
	case RoleNavUp:
		o.ring.Move(0, -o.ring.Scenes)
	case RoleNavDown:
		o.ring.Move(0, o.ring.Scenes)
	case RoleNavLeft:
		o.ring.Move(-o.ring.Tracks, 0)
	case RoleNavRight:
		o.ring.Move(o.ring.Tracks, 0)
	}
}

func (o *SessionOverview) refresh() {
	o.Light(o.Control(RoleNavUp), o.ring.SceneOffset() > 0)
	o.Light(o.Control(RoleNavDown), true)
	o.Light(o.Control(RoleNavLeft), o.ring.TrackOffset() > 0)
	o.Light(o.Control(RoleNavRight), true)
}
