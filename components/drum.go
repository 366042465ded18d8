package components

import (
	"github.com/JeanRibes/ohm-surface/modes"
	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
)

const (
	RolePads        = "pads"
	RoleFaders      = "faders"
	RoleModeButtons = "mode_buttons"

	// DrumRoot is the note of the first pad in the first bank.
	DrumRoot = 36
)

// DrumGrid plays notes from the pads. The mode buttons pick the pad bank;
// each bank shifts the pads by the pad count.
type DrumGrid struct {
	Base
	bank int
	held map[int]int
}

func NewDrumGrid(emit Emitter, logger *charmlog.Logger) *DrumGrid {
	return &DrumGrid{
		Base: NewBase("drum", emit, logger),
		held: map[int]int{},
	}
}

func (g *DrumGrid) Bank() int { return g.bank }

func (g *DrumGrid) Bind(b *modes.Bound) {
	g.Attach(b)
	g.refresh()
}

// Unbind releases the notes still held so the host does not hang them.
func (g *DrumGrid) Unbind() {
	for pad, note := range g.held {
		g.Send(Message{Type: DrumNote, Number: note, Number2: 0})
		delete(g.held, pad)
	}
	g.Detach()
}

// Note returns the note played by pad in the current bank.
func (g *DrumGrid) Note(pad int) int {
	return DrumRoot + g.bank*len(g.Controls(RolePads)) + pad
}

func (g *DrumGrid) HandleInput(role string, index int, value int) {
	if !g.Active() {
		return
	}
	switch role {
	case RolePads:
		if pressed(value) {
			note := g.Note(index)
			g.held[index] = note
			g.Light(at(g.Controls(RolePads), index), true)
			g.Send(Message{Type: DrumNote, Number: note, Number2: value})
			return
		}
		note, ok := g.held[index]
		if !ok {
			note = g.Note(index)
		}
		delete(g.held, index)
		g.Light(at(g.Controls(RolePads), index), false)
		g.Send(Message{Type: DrumNote, Number: note, Number2: 0})
	case RoleFaders:
		g.Send(Message{Type: DrumFader, Number: index, Float: unit(value)})
	case RoleModeButtons:
		if pressed(value) && index != g.bank {
			g.bank = index
			g.refresh()
		}
	}
}

func (g *DrumGrid) refresh() {
	for i, c := range g.Controls(RoleModeButtons) {
		g.Light(c, i == g.bank)
	}
}
