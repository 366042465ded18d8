package components

import (
	"errors"
	"fmt"
	"slices"

	"github.com/JeanRibes/ohm-surface/control"
)

var ErrSendIndexOutOfRange = errors.New("send index out of range")

// SendRouter spreads a pool of send encoders over the mixer channel strips.
// A nil slot is an explicit "no send control" marker.
type SendRouter struct {
	strips    [][]*control.Control
	available int
	sendIndex int
	hasIndex  bool
	controls  []*control.Control
}

// NewSendRouter creates a router for strips channel strips fed by at most
// available send encoders.
func NewSendRouter(strips, available int) *SendRouter {
	r := &SendRouter{
		strips:    make([][]*control.Control, strips),
		available: available,
	}
	r.SetSendControls(nil)
	return r
}

// SetSendIndex selects the send driven by the encoders. An index above the
// number of available encoders is clamped, a negative one clears the
// selection; both are reported with ErrSendIndexOutOfRange but the router
// stays usable.
func (r *SendRouter) SetSendIndex(i int) error {
	var err error
	switch {
	case i < 0:
		r.hasIndex = false
		r.sendIndex = 0
		err = fmt.Errorf("%w: %d", ErrSendIndexOutOfRange, i)
	case i > r.available:
		r.hasIndex = true
		r.sendIndex = r.available
		err = fmt.Errorf("%w: %d > %d, using %d", ErrSendIndexOutOfRange, i, r.available, r.available)
	default:
		r.hasIndex = true
		r.sendIndex = i
	}
	r.SetSendControls(r.controls)
	return err
}

func (r *SendRouter) ClearSendIndex() {
	r.hasIndex = false
	r.sendIndex = 0
	r.SetSendControls(r.controls)
}

func (r *SendRouter) SendIndex() (int, bool) {
	return r.sendIndex, r.hasIndex
}

// SetSendControls pairs strip i with controls[i]. Strips past the end of
// controls get a single absent slot. With no controls at all, or only
// absent ones, every strip gets send index absent slots, or one when no
// index is set, so consumers indexing sends by position keep the same arity.
func (r *SendRouter) SetSendControls(controls []*control.Control) {
	if !slices.ContainsFunc(controls, func(c *control.Control) bool { return c != nil }) {
		controls = nil
	}
	r.controls = append([]*control.Control(nil), controls...)
	if len(controls) > 0 {
		for i := range r.strips {
			if i < len(controls) {
				r.strips[i] = []*control.Control{controls[i]}
			} else {
				r.strips[i] = []*control.Control{nil}
			}
		}
		return
	}
	slots := 1
	if r.hasIndex {
		slots = r.sendIndex
	}
	for i := range r.strips {
		r.strips[i] = make([]*control.Control, slots)
	}
}

func (r *SendRouter) Strips() int {
	return len(r.strips)
}

// Strip returns the send slots of strip i.
func (r *SendRouter) Strip(i int) []*control.Control {
	if i < 0 || i >= len(r.strips) {
		return nil
	}
	return append([]*control.Control(nil), r.strips[i]...)
}

// Locate finds the strip and slot a send control is assigned to.
func (r *SendRouter) Locate(id control.ID) (strip, slot int, ok bool) {
	for i, s := range r.strips {
		for j, c := range s {
			if c != nil && c.ID() == id {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
