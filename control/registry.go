package control

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateControl = errors.New("duplicate control")
	ErrUnknownControl   = errors.New("unknown control")
	ErrNotOwner         = errors.New("control is owned by another component")
)

// FeedbackSink is the hardware side of the registry: it receives every
// feedback value that has to be shown on a control.
type FeedbackSink interface {
	SetFeedback(id ID, value int) error
}

// Registry holds the fixed set of controls of a surface. Feedback writes are
// only accepted from the current owner of a control, and ownership is only
// changed by the mode stack.
type Registry struct {
	controls map[ID]*Control
	order    []ID
	owners   map[ID]string
	sink     FeedbackSink

	holds   int
	pending []ID
	dirty   map[ID]bool
	closed  bool
}

func NewRegistry(sink FeedbackSink) *Registry {
	return &Registry{
		controls: map[ID]*Control{},
		owners:   map[ID]string{},
		dirty:    map[ID]bool{},
		sink:     sink,
	}
}

func (r *Registry) Add(id ID, kind Kind) (*Control, error) {
	if _, ok := r.controls[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateControl, id)
	}
	c := New(id, kind)
	r.controls[id] = c
	r.order = append(r.order, id)
	return c, nil
}

func (r *Registry) Get(id ID) (*Control, bool) {
	c, ok := r.controls[id]
	return c, ok
}

// All returns the controls in declaration order.
func (r *Registry) All() []*Control {
	res := make([]*Control, 0, len(r.order))
	for _, id := range r.order {
		res = append(res, r.controls[id])
	}
	return res
}

func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) SetSink(sink FeedbackSink) {
	r.sink = sink
}

func (r *Registry) Owner(id ID) (string, bool) {
	o, ok := r.owners[id]
	return o, ok
}

func (r *Registry) Claim(id ID, owner string) error {
	if _, ok := r.controls[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}
	r.owners[id] = owner
	return nil
}

// Release drops the claim of owner on id. Releasing a control owned by
// somebody else does nothing.
func (r *Registry) Release(id ID, owner string) {
	if r.owners[id] == owner {
		delete(r.owners, id)
	}
}

// Write stores a feedback value on behalf of owner. After Close every write
// is silently dropped.
func (r *Registry) Write(owner string, id ID, value int) error {
	if r.closed {
		return nil
	}
	c, ok := r.controls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}
	if o, ok := r.owners[id]; !ok || o != owner {
		return fmt.Errorf("%w: %s written by %q", ErrNotOwner, id, owner)
	}
	c.feedback = clamp(value)
	if r.holds > 0 {
		if !r.dirty[id] {
			r.dirty[id] = true
			r.pending = append(r.pending, id)
		}
		return nil
	}
	return r.emit(c)
}

// Hold starts a batch: writes are kept until the matching Flush, so the
// transport only ever sees the state at the end of the batch.
func (r *Registry) Hold() {
	r.holds++
}

// Flush ends a batch started with Hold. The outermost Flush forwards the
// last value of every control written during the batch.
func (r *Registry) Flush() error {
	if r.holds == 0 {
		return nil
	}
	r.holds--
	if r.holds > 0 {
		return nil
	}
	pending := r.pending
	r.pending = nil
	r.dirty = map[ID]bool{}
	if r.closed {
		return nil
	}
	var errs error
	for _, id := range pending {
		errs = errors.Join(errs, r.emit(r.controls[id]))
	}
	return errs
}

func (r *Registry) emit(c *Control) error {
	if r.sink == nil {
		return nil
	}
	return r.sink.SetFeedback(c.id, c.feedback)
}

// Close tears the registry down. Late writes become no-ops.
func (r *Registry) Close() {
	r.closed = true
	r.pending = nil
	r.dirty = map[ID]bool{}
}

func (r *Registry) Closed() bool {
	return r.closed
}
