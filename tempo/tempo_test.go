package tempo

import (
	"math"
	"testing"

	"github.com/JeanRibes/ohm-surface/control"
	"github.com/JeanRibes/ohm-surface/host"
	"github.com/JeanRibes/ohm-surface/modes"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		bpm  float64
		want int
	}{
		{60, 0},
		{130, 63},
		{200, 127},
		{20, 0},
		{999, 127},
		{95, 31},
		{math.NaN(), 0},
		{math.Inf(1), 127},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := Normalize(tt.bpm); got != tt.want {
			t.Errorf("Normalize(%v) = %d, want %d", tt.bpm, got, tt.want)
		}
	}
}

func TestNormalizeMonotonic(t *testing.T) {
	prev := Normalize(0)
	for bpm := 0.0; bpm <= 260; bpm += 0.25 {
		v := Normalize(bpm)
		if v < prev {
			t.Fatalf("Normalize(%v) = %d < %d", bpm, v, prev)
		}
		if v < 0 || v > 127 {
			t.Fatalf("Normalize(%v) = %d out of range", bpm, v)
		}
		prev = v
	}
}

type sink struct {
	writes []int
	last   map[control.ID]int
}

func (s *sink) SetFeedback(id control.ID, value int) error {
	s.writes = append(s.writes, value)
	s.last[id] = value
	return nil
}

func setup(t *testing.T) (*Sync, *sink, *control.Registry) {
	t.Helper()
	out := &sink{last: map[control.ID]int{}}
	reg := control.NewRegistry(out)
	reg.Add("t0", control.Rotary)
	reg.Add("t1", control.Rotary)
	sync := New(nil)
	stack := modes.NewStack(reg, nil)
	if err := stack.RegisterComponent(sync); err != nil {
		t.Fatal(err)
	}
	if err := stack.AddBase(modes.NewLayer("tempo", "tempo", 0, modes.Bind(RoleEncoders, "t0", "t1"))); err != nil {
		t.Fatal(err)
	}
	return sync, out, reg
}

func TestSyncFollowsSong(t *testing.T) {
	sync, out, _ := setup(t)
	song := host.NewSong(130, 4)
	sync.Attach(song)
	if out.last["t0"] != 63 || out.last["t1"] != 63 {
		t.Fatalf("feedback = %v", out.last)
	}
	song.SetTempo(200)
	if out.last["t0"] != 127 || out.last["t1"] != 127 {
		t.Fatalf("feedback = %v", out.last)
	}

	n := len(out.writes)
	song.SetSignatureNumerator(3)
	if len(out.writes) != n {
		t.Error("time signature change wrote feedback")
	}
	if sync.Numerator() != 3 {
		t.Errorf("numerator = %d", sync.Numerator())
	}
}

func TestSyncSilentAfterDisconnect(t *testing.T) {
	sync, out, _ := setup(t)
	song := host.NewSong(120, 4)
	sync.Attach(song)
	sync.Disconnect()
	n := len(out.writes)

	// the registry stays open: only the sync itself keeps quiet
	song.SetTempo(60)
	sync.OnTempoChanged(90)
	sync.OnTimeSignatureChanged(7)
	if len(out.writes) != n {
		t.Errorf("wrote %v after disconnect", out.writes[n:])
	}
	if sync.Tempo() != 120 || sync.Numerator() == 7 {
		t.Errorf("tempo = %v, numerator = %d after disconnect", sync.Tempo(), sync.Numerator())
	}
	if song.Listeners() != 0 {
		t.Errorf("song still has %d listeners", song.Listeners())
	}
}

func TestSyncSilentAfterRegistryClose(t *testing.T) {
	sync, out, reg := setup(t)
	song := host.NewSong(120, 4)
	sync.Attach(song)
	reg.Close()
	n := len(out.writes)

	song.SetTempo(60)
	if len(out.writes) != n {
		t.Errorf("wrote %v after close", out.writes[n:])
	}
}
