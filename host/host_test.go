package host

import (
	"testing"
	"time"
)

func TestSongNotifiesChanges(t *testing.T) {
	s := NewSong(120, 4)
	var tempos []float64
	var nums []int
	s.OnTempo(func(bpm float64) { tempos = append(tempos, bpm) })
	s.OnSignatureNumerator(func(n int) { nums = append(nums, n) })

	s.SetTempo(120)
	s.SetTempo(130)
	s.SetTempo(130)
	s.SetTempo(90)
	s.SetSignatureNumerator(3)

	if len(tempos) != 2 || tempos[0] != 130 || tempos[1] != 90 {
		t.Errorf("tempos = %v", tempos)
	}
	if len(nums) != 1 || nums[0] != 3 {
		t.Errorf("numerators = %v", nums)
	}
}

func TestSubscriptionCancel(t *testing.T) {
	s := NewSong(120, 4)
	var order []string
	var second *Subscription
	first := s.OnTempo(func(float64) {
		order = append(order, "first")
		second.Cancel()
	})
	second = s.OnTempo(func(float64) { order = append(order, "second") })
	s.OnPlaying(func(bool) {})

	s.SetTempo(100)
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("order = %v", order)
	}
	if !second.Cancelled() || s.Listeners() != 2 {
		t.Fatalf("listeners = %d", s.Listeners())
	}

	first.Cancel()
	first.Cancel()
	s.SetTempo(110)
	if len(order) != 1 {
		t.Errorf("cancelled listener ran: %v", order)
	}
	if s.Listeners() != 1 {
		t.Errorf("listeners = %d, want 1", s.Listeners())
	}
}

func TestClockFollower(t *testing.T) {
	s := NewSong(120, 4)
	f := NewClockFollower(s, nil)
	var got []float64
	s.OnTempo(func(bpm float64) { got = append(got, bpm) })

	f.Start()
	if !s.Playing() {
		t.Fatal("start did not set playing")
	}
	// 125 bpm is a clock every 20ms
	now := time.Unix(0, 0)
	for i := 0; i < 48; i++ {
		f.Tick(now)
		now = now.Add(20 * time.Millisecond)
	}
	if f.Tempo() != 125 || s.Tempo() != 125 {
		t.Fatalf("tempo = %v, song = %v", f.Tempo(), s.Tempo())
	}
	if len(got) != 1 {
		t.Errorf("tempo notified %d times, want 1", len(got))
	}

	// jitter below the tolerance is ignored
	for i := 0; i < 6; i++ {
		f.Tick(now)
		now = now.Add(20*time.Millisecond + 20*time.Microsecond)
	}
	if s.Tempo() != 125 {
		t.Errorf("jitter moved the tempo to %v", s.Tempo())
	}

	f.Stop()
	if s.Playing() || f.Running() {
		t.Error("stop did not clear playing")
	}
}
