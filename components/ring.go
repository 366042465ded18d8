package components

// Ring is the window of tracks and scenes the surface shows. The session
// grid, the overview and the mixer share one.
type Ring struct {
	Tracks, Scenes int

	trackOffset int
	sceneOffset int
	listeners   []func()
}

func NewRing(tracks, scenes int) *Ring {
	return &Ring{Tracks: tracks, Scenes: scenes}
}

func (r *Ring) TrackOffset() int { return r.trackOffset }
func (r *Ring) SceneOffset() int { return r.sceneOffset }

// Move shifts the ring. Offsets never go below zero. It reports whether
// anything moved.
func (r *Ring) Move(tracks, scenes int) bool {
	t := max(r.trackOffset+tracks, 0)
	s := max(r.sceneOffset+scenes, 0)
	if t == r.trackOffset && s == r.sceneOffset {
		return false
	}
	r.trackOffset, r.sceneOffset = t, s
	for _, fn := range r.listeners {
		fn()
	}
	return true
}

// OnMove registers fn to run after every move.
func (r *Ring) OnMove(fn func()) {
	r.listeners = append(r.listeners, fn)
}
