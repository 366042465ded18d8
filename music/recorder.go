// Package music records what is played on the drum grid into a standard
// MIDI file.
package music

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	. "github.com/JeanRibes/ohm-surface/shared"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer/lib/quantizer"
)

const TICKS = smf.MetricTicks(960)

// DrumChannel is the General MIDI percussion channel.
const DrumChannel = 9

var ErrEmpty = errors.New("nothing recorded")

// Recorder follows the host commands of the surface. While the transport
// record button is on, drum notes are appended to a track.
type Recorder struct {
	tempo     func() float64
	logger    *charmlog.Logger
	track     smf.Track
	recording bool
	started   bool
	last      time.Time
	notes     int
	quantize  bool
}

// NewRecorder creates a recorder; tempo returns the current song tempo.
func NewRecorder(tempo func() float64, logger *charmlog.Logger) *Recorder {
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}
	return &Recorder{tempo: tempo, logger: logger.WithPrefix("recorder")}
}

func (r *Recorder) Recording() bool { return r.recording }
func (r *Recorder) Notes() int      { return r.notes }

// SetQuantize snaps the saved notes to the grid.
func (r *Recorder) SetQuantize(on bool) { r.quantize = on }

// Handle takes one host command received at.
func (r *Recorder) Handle(msg Message, at time.Time) {
	switch msg.Type {
	case TransportRecord:
		r.recording = msg.Boolean
		r.logger.Debug("record", "on", r.recording)
		if r.recording && !r.started {
			r.started = true
			r.last = at
			r.track = smf.Track{}
			r.track.Add(0, smf.MetaTempo(r.tempo()))
		}
	case DrumNote:
		if !r.recording {
			return
		}
		delta := TICKS.Ticks(r.tempo(), at.Sub(r.last))
		r.last = at
		if msg.Number2 > 0 {
			r.track.Add(delta, midi.NoteOn(DrumChannel, uint8(msg.Number), uint8(min(msg.Number2, 127))))
			r.notes++
		} else {
			r.track.Add(delta, midi.NoteOff(DrumChannel, uint8(msg.Number)))
		}
	}
}

// Track returns the recording, closed.
func (r *Recorder) Track() smf.Track {
	tr := append(smf.Track(nil), r.track...)
	tr.Close(0)
	return tr
}

// WriteTo writes the recording as a standard MIDI file.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	if r.notes == 0 {
		return 0, ErrEmpty
	}
	f := smf.New()
	f.TimeFormat = TICKS
	if err := f.Add(r.Track()); err != nil {
		return 0, err
	}
	if !r.quantize {
		return f.WriteTo(w)
	}
	var raw, quantized bytes.Buffer
	if _, err := f.WriteTo(&raw); err != nil {
		return 0, err
	}
	r.logger.Debug("quantize", "tempo", r.tempo())
	if err := quantizer.Quantize(&raw, &quantized); err != nil {
		return 0, err
	}
	return quantized.WriteTo(w)
}

func (r *Recorder) SaveToFile(filepath string) (errs error) {
	if r.notes == 0 {
		return ErrEmpty
	}
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	if _, err := r.WriteTo(file); err != nil {
		errs = errors.Join(errs, err)
	}
	if err := file.Close(); err != nil {
		errs = errors.Join(errs, err)
	}
	return errs
}
