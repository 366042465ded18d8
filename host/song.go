// Package host models the parts of the host song the surface follows: tempo,
// time signature and transport state.
package host

// Subscription is a registered listener. Cancel stops further deliveries,
// also while a delivery is in progress.
type Subscription struct {
	cancelled bool
	remove    func()
}

func (s *Subscription) Cancel() {
	if s == nil || s.cancelled {
		return
	}
	s.cancelled = true
	s.remove()
}

func (s *Subscription) Cancelled() bool {
	return s == nil || s.cancelled
}

type listener[T any] struct {
	sub *Subscription
	fn  func(T)
}

// listeners is an ordered list of callbacks for one property.
type listeners[T any] struct {
	list []*listener[T]
}

func (l *listeners[T]) add(fn func(T)) *Subscription {
	entry := &listener[T]{fn: fn}
	entry.sub = &Subscription{remove: func() {
		for i, e := range l.list {
			if e == entry {
				l.list = append(l.list[:i:i], l.list[i+1:]...)
				return
			}
		}
	}}
	l.list = append(l.list, entry)
	return entry.sub
}

func (l *listeners[T]) notify(v T) {
	for _, e := range append([]*listener[T](nil), l.list...) {
		if !e.sub.cancelled {
			e.fn(v)
		}
	}
}

func (l *listeners[T]) len() int {
	return len(l.list)
}

// Song holds the host state. Listeners run synchronously, in subscription
// order, and only when a value actually changes.
type Song struct {
	tempo     float64
	numerator int
	playing   bool

	onTempo     listeners[float64]
	onNumerator listeners[int]
	onPlaying   listeners[bool]
}

func NewSong(tempo float64, numerator int) *Song {
	return &Song{tempo: tempo, numerator: numerator}
}

func (s *Song) Tempo() float64          { return s.tempo }
func (s *Song) SignatureNumerator() int { return s.numerator }
func (s *Song) Playing() bool           { return s.playing }

func (s *Song) SetTempo(bpm float64) {
	if bpm == s.tempo {
		return
	}
	s.tempo = bpm
	s.onTempo.notify(bpm)
}

func (s *Song) SetSignatureNumerator(n int) {
	if n == s.numerator {
		return
	}
	s.numerator = n
	s.onNumerator.notify(n)
}

func (s *Song) SetPlaying(playing bool) {
	if playing == s.playing {
		return
	}
	s.playing = playing
	s.onPlaying.notify(playing)
}

func (s *Song) OnTempo(fn func(bpm float64)) *Subscription {
	return s.onTempo.add(fn)
}

func (s *Song) OnSignatureNumerator(fn func(numerator int)) *Subscription {
	return s.onNumerator.add(fn)
}

func (s *Song) OnPlaying(fn func(playing bool)) *Subscription {
	return s.onPlaying.add(fn)
}

// Listeners returns the number of live subscriptions.
func (s *Song) Listeners() int {
	return s.onTempo.len() + s.onNumerator.len() + s.onPlaying.len()
}
