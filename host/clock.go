package host

import (
	"io"
	"math"
	"time"

	charmlog "github.com/charmbracelet/log"
)

const (
	ClocksPerQuarterNote = 24

	// the tempo is measured over this many clocks
	measureClocks = 6
	// changes smaller than this are jitter
	tempoTolerance = 0.5

	minClockTempo = 20
	maxClockTempo = 400
)

// ClockFollower derives the song tempo and transport state from the MIDI
// realtime messages of the host.
type ClockFollower struct {
	song   *Song
	logger *charmlog.Logger

	count   int
	last    time.Time
	tempo   float64
	running bool
}

func NewClockFollower(song *Song, logger *charmlog.Logger) *ClockFollower {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &ClockFollower{song: song, logger: logger.WithPrefix("clock")}
}

// Tempo is the last measured tempo, 0 before the first measure.
func (f *ClockFollower) Tempo() float64 {
	return f.tempo
}

// Tick handles one timing clock received at now.
func (f *ClockFollower) Tick(now time.Time) {
	f.count++
	if f.count == 1 {
		f.last = now
		return
	}
	if f.count%measureClocks != 1 {
		return
	}
	elapsed := now.Sub(f.last)
	f.last = now
	if elapsed <= 0 {
		return
	}
	quarter := elapsed * ClocksPerQuarterNote / measureClocks
	bpm := float64(time.Minute) / float64(quarter)
	if bpm < minClockTempo || bpm > maxClockTempo {
		f.logger.Debug("ignored clock tempo", "bpm", bpm)
		return
	}
	if f.tempo != 0 && math.Abs(bpm-f.tempo) <= tempoTolerance {
		return
	}
	f.tempo = math.Round(bpm*10) / 10
	f.logger.Debug("tempo", "bpm", f.tempo)
	f.song.SetTempo(f.tempo)
}

// Start restarts the measure and marks the song playing.
func (f *ClockFollower) Start() {
	f.count = 0
	f.running = true
	f.song.SetPlaying(true)
}

func (f *ClockFollower) Continue() {
	f.running = true
	f.song.SetPlaying(true)
}

func (f *ClockFollower) Stop() {
	f.running = false
	f.song.SetPlaying(false)
}

func (f *ClockFollower) Running() bool {
	return f.running
}
