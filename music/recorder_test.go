package music

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/JeanRibes/ohm-surface/shared"

	"gitlab.com/gomidi/midi/v2/smf"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(func() float64 { return 120 }, nil)
	at := time.Unix(100, 0)

	r.Handle(Message{Type: DrumNote, Number: 36, Number2: 100}, at)
	if r.Notes() != 0 {
		t.Fatal("recorded while not recording")
	}

	r.Handle(Message{Type: TransportRecord, Boolean: true}, at)
	r.Handle(Message{Type: DrumNote, Number: 36, Number2: 100}, at.Add(500*time.Millisecond))
	r.Handle(Message{Type: DrumNote, Number: 36}, at.Add(750*time.Millisecond))
	r.Handle(Message{Type: TrackVolume, Number: 1, Float: 1}, at.Add(time.Second))
	r.Handle(Message{Type: TransportRecord, Boolean: false}, at.Add(time.Second))
	r.Handle(Message{Type: DrumNote, Number: 38, Number2: 100}, at.Add(2*time.Second))

	if r.Notes() != 1 || r.Recording() {
		t.Fatalf("notes = %d, recording = %v", r.Notes(), r.Recording())
	}
	tr := r.Track()
	// tempo, note on, note off, end of track
	if len(tr) != 4 {
		t.Fatalf("track has %d events", len(tr))
	}
	// half a beat at 120 bpm is 960 ticks
	if tr[1].Delta != 960 || tr[2].Delta != 480 {
		t.Errorf("deltas = %d, %d", tr[1].Delta, tr[2].Delta)
	}
	var ch, key, vel uint8
	if !tr[1].Message.GetNoteOn(&ch, &key, &vel) || ch != DrumChannel || key != 36 || vel != 100 {
		t.Errorf("note on = %v", tr[1].Message)
	}

	name := filepath.Join(t.TempDir(), "drums.mid")
	if err := r.SaveToFile(name); err != nil {
		t.Fatal(err)
	}
	f, err := smf.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumTracks() != 1 {
		t.Errorf("file has %d tracks", f.NumTracks())
	}
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder(func() float64 { return 120 }, nil)
	if err := r.SaveToFile(filepath.Join(t.TempDir(), "x.mid")); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v", err)
	}
}

func TestRecorderQuantize(t *testing.T) {
	r := NewRecorder(func() float64 { return 120 }, nil)
	r.SetQuantize(true)
	at := time.Unix(100, 0)
	r.Handle(Message{Type: TransportRecord, Boolean: true}, at)
	r.Handle(Message{Type: DrumNote, Number: 36, Number2: 100}, at.Add(510*time.Millisecond))
	r.Handle(Message{Type: DrumNote, Number: 36}, at.Add(740*time.Millisecond))

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	f, err := smf.ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumTracks() == 0 {
		t.Error("quantized file has no tracks")
	}
}
