package control

import (
	"errors"
	"testing"
)

type write struct {
	id    ID
	value int
}

type recordingSink struct {
	writes []write
}

func (s *recordingSink) SetFeedback(id ID, value int) error {
	s.writes = append(s.writes, write{id, value})
	return nil
}

func TestKindText(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"button", Button},
		{"Pad", Button},
		{"rotary", Rotary},
		{"encoder", Rotary},
		{"fader", Fader},
	}
	for _, tt := range tests {
		var k Kind
		if err := k.UnmarshalText([]byte(tt.in)); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if k != tt.want {
			t.Errorf("%s: got %v, want %v", tt.in, k, tt.want)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("trackball")); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Add("a", Button); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Add("a", Fader); !errors.Is(err, ErrDuplicateControl) {
		t.Fatalf("got %v, want ErrDuplicateControl", err)
	}
	if r.Len() != 1 {
		t.Errorf("len = %d", r.Len())
	}
}

func TestRegistrySingleWriter(t *testing.T) {
	sink := &recordingSink{}
	r := NewRegistry(sink)
	r.Add("play", Button)

	if err := r.Write("transport", "play", 127); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("unclaimed write: got %v, want ErrNotOwner", err)
	}
	r.Claim("play", "transport")
	if err := r.Write("mixer", "play", 127); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign write: got %v, want ErrNotOwner", err)
	}
	if err := r.Write("transport", "play", 200); err != nil {
		t.Fatal(err)
	}
	if len(sink.writes) != 1 || sink.writes[0] != (write{"play", 127}) {
		t.Errorf("writes = %v", sink.writes)
	}
	r.Release("play", "mixer")
	if o, _ := r.Owner("play"); o != "transport" {
		t.Errorf("release by non-owner changed owner to %q", o)
	}
}

func TestRegistryBatch(t *testing.T) {
	sink := &recordingSink{}
	r := NewRegistry(sink)
	r.Add("a", Button)
	r.Add("b", Button)
	r.Claim("a", "x")
	r.Claim("b", "x")

	r.Hold()
	r.Write("x", "a", 1)
	r.Write("x", "b", 2)
	r.Write("x", "a", 3)
	r.Hold()
	r.Flush()
	if len(sink.writes) != 0 {
		t.Fatalf("writes leaked out of the batch: %v", sink.writes)
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []write{{"a", 3}, {"b", 2}}
	if len(sink.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", sink.writes, want)
	}
	for i := range want {
		if sink.writes[i] != want[i] {
			t.Errorf("write %d = %v, want %v", i, sink.writes[i], want[i])
		}
	}
}

func TestRegistryClosed(t *testing.T) {
	sink := &recordingSink{}
	r := NewRegistry(sink)
	r.Add("a", Rotary)
	r.Claim("a", "tempo")
	r.Close()
	if err := r.Write("tempo", "a", 10); err != nil {
		t.Fatal(err)
	}
	if err := r.Write("nobody", "missing", 10); err != nil {
		t.Fatal(err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("writes after close: %v", sink.writes)
	}
}
