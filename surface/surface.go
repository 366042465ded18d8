// Package surface assembles a control surface from its config and runs its
// event loop.
package surface

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JeanRibes/ohm-surface/components"
	"github.com/JeanRibes/ohm-surface/config"
	"github.com/JeanRibes/ohm-surface/control"
	"github.com/JeanRibes/ohm-surface/host"
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"
	"github.com/JeanRibes/ohm-surface/tempo"

	charmlog "github.com/charmbracelet/log"
)

var ErrDisconnected = errors.New("surface disconnected")

type Surface struct {
	Mixer     *components.Mixer
	Session   *components.SessionGrid
	Overview  *components.SessionOverview
	Drum      *components.DrumGrid
	Transport *components.Transport
	Device    *components.Device
	Selector  *components.ModeSelector
	Tempo     *tempo.Sync

	cfg    *config.Config
	reg    *control.Registry
	stack  *modes.Stack
	ring   *components.Ring
	song   *host.Song
	clock  *host.ClockFollower
	subs   []*host.Subscription
	logger *charmlog.Logger
	closed bool
}

// New builds the registry, the components, the base layers and the modes
// described by cfg. Every control must end up owned by a layer: an
// unbound control is a fatal *modes.UnboundControlError.
func New(cfg *config.Config, sink control.FeedbackSink, emit components.Emitter, logger *charmlog.Logger) (*Surface, error) {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	reg, err := cfg.Registry(sink)
	if err != nil {
		return nil, err
	}
	set := cfg.Settings
	s := &Surface{
		cfg:    cfg,
		reg:    reg,
		stack:  modes.NewStack(reg, logger.WithPrefix("modes")),
		ring:   components.NewRing(set.Tracks, set.Scenes),
		song:   host.NewSong(set.Tempo, set.Numerator),
		logger: logger,
	}
	s.clock = host.NewClockFollower(s.song, logger)

	s.Mixer = components.NewMixer(s.ring, roleSize(cfg, "mixer", components.RoleSends), emit, logger)
	s.Session = components.NewSessionGrid(s.ring, emit, logger)
	s.Overview = components.NewSessionOverview(s.ring, emit, logger)
	s.Drum = components.NewDrumGrid(emit, logger)
	s.Transport = components.NewTransport(emit, logger)
	s.Device = components.NewDevice(set.DeviceBanks, emit, logger)
	s.Selector = components.NewModeSelector(s.stack, set.Selector.Modes, set.Selector.Exclusive, emit, logger)
	s.Tempo = tempo.New(logger)
	for _, c := range []modes.Component{s.Mixer, s.Session, s.Overview, s.Drum, s.Transport, s.Device, s.Selector, s.Tempo} {
		if err := s.stack.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	if set.SendIndex != nil {
		s.Mixer.SetSendIndex(*set.SendIndex)
	}

	base := make([]*modes.Layer, len(cfg.Base))
	for i, l := range cfg.Base {
		base[i] = l.Build()
	}
	if err := s.stack.AddBase(base...); err != nil {
		return nil, err
	}
	for _, m := range cfg.Modes {
		layers := make([]*modes.Layer, len(m.Layers))
		for i, l := range m.Layers {
			layers[i] = l.Build()
		}
		if _, err := s.stack.AddMode(m.Name, m.Priority, layers...); err != nil {
			return nil, err
		}
	}
	for _, name := range set.Selector.Modes {
		if _, ok := s.stack.Mode(name); !ok {
			return nil, fmt.Errorf("selector: %w: %s", modes.ErrUnknownMode, name)
		}
	}
	if err := s.stack.Validate(); err != nil {
		return nil, err
	}

	s.Tempo.Attach(s.song)
	s.subs = append(s.subs, s.song.OnPlaying(s.Transport.SetPlaying))
	logger.Info("surface ready", "name", cfg.Name, "controls", reg.Len(), "modes", len(cfg.Modes))
	return s, nil
}

// roleSize is the largest number of controls a layer of component gives
// to role.
func roleSize(cfg *config.Config, component, role string) int {
	n := 0
	layers := append([]config.Layer(nil), cfg.Base...)
	for _, m := range cfg.Modes {
		layers = append(layers, m.Layers...)
	}
	for _, l := range layers {
		if l.Component != component {
			continue
		}
		for _, b := range l.Bindings {
			if b.Role == role {
				n = max(n, len(b.Controls))
			}
		}
	}
	return n
}

func (s *Surface) Config() *config.Config      { return s.cfg }
func (s *Surface) Stack() *modes.Stack         { return s.stack }
func (s *Surface) Registry() *control.Registry { return s.reg }
func (s *Surface) Song() *host.Song            { return s.song }
func (s *Surface) Ring() *components.Ring      { return s.ring }

// Bindings lists the current owner of every control.
func (s *Surface) Bindings() []modes.Assignment {
	return s.stack.Snapshot()
}

// Run handles events one at a time, in arrival order, until ctx is done,
// events is closed or a Quit message arrives. Errors of single events are
// logged and do not stop the loop.
func (s *Surface) Run(ctx context.Context, events <-chan Message) {
	logger := s.logger
	if l, ok := ctx.Value(charmlog.ContextKey).(*charmlog.Logger); ok {
		logger = l
	}
	logger = logger.WithPrefix("loop")
	logger.Info("start")
	defer logger.Info("stop")
	for {
		select {
		case <-ctx.Done():
			logger.Debug("context done")
			return
		case msg, ok := <-events:
			if !ok || msg.Type == Quit {
				return
			}
			if err := s.Handle(msg); err != nil {
				logger.Error("event", "type", msg.Type, "err", err)
			}
		}
	}
}

// Handle applies one event.
func (s *Surface) Handle(msg Message) error {
	if s.closed {
		return ErrDisconnected
	}
	switch msg.Type {
	case ControlInput:
		if !s.stack.Dispatch(control.ID(msg.String), msg.Number) {
			s.logger.Debug("input dropped", "control", msg.String, "value", msg.Number)
		}
	case ModeToggle:
		err := s.stack.SetEnabled(msg.String, msg.Boolean)
		s.Selector.Refresh()
		return err
	case ModeSelect:
		err := s.stack.Select(msg.String)
		s.Selector.Refresh()
		return err
	case TempoChanged:
		s.song.SetTempo(msg.Float)
	case TimeSignatureChanged:
		s.song.SetSignatureNumerator(msg.Number)
	case PlayingChanged:
		s.song.SetPlaying(msg.Boolean)
	case ClockTick:
		s.clock.Tick(msg.Time)
	case ClockStart:
		s.clock.Start()
	case ClockStop:
		s.clock.Stop()
	case ClockContinue:
		s.clock.Continue()
	case SessionOffset:
		s.ring.Move(msg.Number-s.ring.TrackOffset(), msg.Number2-s.ring.SceneOffset())
	default:
		s.logger.Debug("ignored event", "type", msg.Type)
	}
	return nil
}

// Disconnect detaches the surface from the song and the hardware. Later
// host notifications are dropped and no feedback is written anymore.
func (s *Surface) Disconnect() {
	if s.closed {
		return
	}
	s.closed = true
	s.Tempo.Disconnect()
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
	s.reg.Close()
	s.logger.Info("disconnected")
}
