package components

import (
	"slices"

	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

// ModeSwitch is the part of the mode stack the selector drives.
// *modes.Stack implements it.
type ModeSwitch interface {
	SetEnabled(name string, enabled bool) error
	Select(name string) error
	Selected() []string
}

// ModeSelector turns buttons into mode switches. Button i drives the mode
// Modes[i]. In exclusive mode a press selects the mode, or clears the
// selection when it is already the selected one; otherwise a press toggles
// the mode on its own.
type ModeSelector struct {
	Base
	modes     []string
	exclusive bool
	stack     ModeSwitch
}

func NewModeSelector(stack ModeSwitch, modeNames []string, exclusive bool, emit Emitter, logger *charmlog.Logger) *ModeSelector {
	return &ModeSelector{
		Base:      NewBase("selector", emit, logger),
		modes:     append([]string(nil), modeNames...),
		exclusive: exclusive,
		stack:     stack,
	}
}

func (s *ModeSelector) Modes() []string {
	return append([]string(nil), s.modes...)
}

func (s *ModeSelector) Bind(b *modes.Bound) {
	s.Attach(b)
	s.Refresh()
}

func (s *ModeSelector) Unbind() {
	s.Detach()
}

func (s *ModeSelector) HandleInput(role string, index int, value int) {
	if !s.Active() || role != RoleModeButtons || !pressed(value) {
		return
	}
	if index < 0 || index >= len(s.modes) {
		return
	}
	name := s.modes[index]
	on := slices.Contains(s.stack.Selected(), name)
	var err error
	if s.exclusive {
		target := name
		if on {
			target = ""
		}
		err = s.stack.Select(target)
		s.Send(Message{Type: ModeSelect, String: target})
	} else {
		err = s.stack.SetEnabled(name, !on)
		s.Send(Message{Type: ModeToggle, String: name, Boolean: !on})
	}
	if err != nil {
		s.Logger().Error("switch mode", "mode", name, "err", err)
	}
	s.Refresh()
}

// Refresh lights the buttons of the enabled modes.
func (s *ModeSelector) Refresh() {
	selected := s.stack.Selected()
	for i, c := range s.Controls(RoleModeButtons) {
		if i >= len(s.modes) {
			s.Light(c, false)
			continue
		}
		s.Light(c, slices.Contains(selected, s.modes[i]))
	}
}
