package components

import (
	"errors"
	"testing"

	"github.com/JeanRibes/ohm-surface/control"
)

func slots(r *SendRouter) [][]control.ID {
	res := make([][]control.ID, r.Strips())
	for i := range res {
		for _, c := range r.Strip(i) {
			if c == nil {
				res[i] = append(res[i], "")
			} else {
				res[i] = append(res[i], c.ID())
			}
		}
	}
	return res
}

func sameSlots(a, b [][]control.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestSendRouterPositional(t *testing.T) {
	r := NewSendRouter(8, 4)
	c1 := control.New("c1", control.Rotary)
	c2 := control.New("c2", control.Rotary)
	r.SetSendControls([]*control.Control{c1, c2})

	got := slots(r)
	want := [][]control.ID{{"c1"}, {"c2"}, {""}, {""}, {""}, {""}, {""}, {""}}
	if !sameSlots(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
	strip, slot, ok := r.Locate("c2")
	if !ok || strip != 1 || slot != 0 {
		t.Errorf("Locate(c2) = %d, %d, %v", strip, slot, ok)
	}
	if _, _, ok := r.Locate("c3"); ok {
		t.Error("Locate found an unknown control")
	}
}

func TestSendRouterEmpty(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"no index", -1, 1},
		{"index 2", 2, 2},
		{"index 0", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSendRouter(8, 4)
			if tt.index >= 0 {
				if err := r.SetSendIndex(tt.index); err != nil {
					t.Fatal(err)
				}
			}
			r.SetSendControls(nil)
			for i := 0; i < r.Strips(); i++ {
				s := r.Strip(i)
				if len(s) != tt.want {
					t.Fatalf("strip %d has %d slots, want %d", i, len(s), tt.want)
				}
				for _, c := range s {
					if c != nil {
						t.Fatalf("strip %d has a control", i)
					}
				}
			}
		})
	}
}

func TestSendRouterIdempotent(t *testing.T) {
	r := NewSendRouter(4, 4)
	cs := []*control.Control{control.New("a", control.Rotary), control.New("b", control.Rotary)}
	r.SetSendControls(cs)
	first := slots(r)
	r.SetSendControls(cs)
	if !sameSlots(first, slots(r)) {
		t.Fatalf("second call changed the slots: %v -> %v", first, slots(r))
	}
}

func TestSendRouterClamp(t *testing.T) {
	r := NewSendRouter(2, 4)
	err := r.SetSendIndex(9)
	if !errors.Is(err, ErrSendIndexOutOfRange) {
		t.Fatalf("err = %v", err)
	}
	if i, ok := r.SendIndex(); !ok || i != 4 {
		t.Fatalf("SendIndex() = %d, %v, want 4, true", i, ok)
	}
	if got := len(r.Strip(0)); got != 4 {
		t.Errorf("strip has %d slots after clamping, want 4", got)
	}

	if err := r.SetSendIndex(-3); !errors.Is(err, ErrSendIndexOutOfRange) {
		t.Fatalf("negative index err = %v", err)
	}
	if _, ok := r.SendIndex(); ok {
		t.Error("negative index did not clear the selection")
	}

	r.SetSendIndex(1)
	r.ClearSendIndex()
	if _, ok := r.SendIndex(); ok {
		t.Error("ClearSendIndex kept the index")
	}
}

func TestSendRouterOnlyAbsentControls(t *testing.T) {
	r := NewSendRouter(4, 4)
	r.SetSendIndex(3)
	r.SetSendControls([]*control.Control{nil, nil})
	absent := slots(r)
	r.SetSendControls(nil)
	if !sameSlots(absent, slots(r)) {
		t.Fatalf("all absent = %v, none = %v", absent, slots(r))
	}
	if len(absent[0]) != 3 {
		t.Errorf("strip 0 has %d slots, want 3", len(absent[0]))
	}
}
