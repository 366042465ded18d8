// Package tempo shows the song tempo on the tempo encoders.
package tempo

import (
	"math"

	"github.com/JeanRibes/ohm-surface/components"
	"github.com/JeanRibes/ohm-surface/host"
	"github.com/JeanRibes/ohm-surface/modes"

	charmlog "github.com/charmbracelet/log"
)

const (
	Top    = 200.0
	Bottom = 60.0

	RoleEncoders = "tempo_encoders"
)

// Normalize maps a tempo to a feedback value. Tempos outside [Bottom, Top]
// are clamped and NaN counts as Bottom; the fraction is truncated.
func Normalize(bpm float64) int {
	if math.IsNaN(bpm) {
		bpm = Bottom
	}
	bpm = min(max(bpm, Bottom), Top)
	norm := (bpm - Bottom) / (Top - Bottom)
	return int(norm * 127)
}

// Sync is the component owning the tempo encoders. It writes the normalized
// song tempo to all of them whenever the tempo changes.
type Sync struct {
	components.Base
	tempo     float64
	numerator int
	subs      []*host.Subscription
	closed    bool
}

func New(logger *charmlog.Logger) *Sync {
	return &Sync{Base: components.NewBase("tempo", nil, logger)}
}

// Attach follows song until Disconnect.
func (s *Sync) Attach(song *host.Song) {
	s.subs = append(s.subs,
		song.OnTempo(s.OnTempoChanged),
		song.OnSignatureNumerator(s.OnTimeSignatureChanged),
	)
	s.OnTempoChanged(song.Tempo())
}

// Disconnect cancels the song subscriptions. Later notifications write
// nothing.
func (s *Sync) Disconnect() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
	s.closed = true
}

func (s *Sync) Tempo() float64 {
	return s.tempo
}

func (s *Sync) Numerator() int {
	return s.numerator
}

func (s *Sync) OnTempoChanged(bpm float64) {
	if s.closed {
		return
	}
	s.tempo = bpm
	s.update()
}

// OnTimeSignatureChanged only records the numerator; the encoders do not
// show it.
func (s *Sync) OnTimeSignatureChanged(numerator int) {
	if s.closed {
		return
	}
	s.numerator = numerator
}

func (s *Sync) Bind(b *modes.Bound) {
	s.Base.Attach(b)
	s.update()
}

func (s *Sync) Unbind() {
	s.Detach()
}

// HandleInput ignores the encoders: they only display the tempo.
func (s *Sync) HandleInput(role string, index int, value int) {}

func (s *Sync) update() {
	if s.closed || !s.IsBound() {
		return
	}
	v := Normalize(s.tempo)
	for _, c := range s.Controls(RoleEncoders) {
		s.Feedback(c, v)
	}
}
