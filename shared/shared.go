package shared

import (
	"fmt"
	"time"
)

type Event int

const (
	Quit Event = iota
	Error

	// from the hardware and the host, consumed by the surface loop
	ControlInput
	ModeToggle
	ModeSelect
	TempoChanged
	TimeSignatureChanged
	PlayingChanged
	ClockTick
	ClockStart
	ClockStop
	ClockContinue

	// commands for the host
	TrackVolume
	TrackPan
	TrackSend
	TrackSelect
	TrackMute
	TrackSolo
	TrackArm
	ClipLaunch
	SessionOffset
	TransportPlay
	TransportStop
	TransportRecord
	DeviceParameter
	DeviceLock
	DeviceBank
	DrumNote
	DrumFader
)

var eventNames = [...]string{
	Quit:                 "quit",
	Error:                "error",
	ControlInput:         "control-input",
	ModeToggle:           "mode-toggle",
	ModeSelect:           "mode-select",
	TempoChanged:         "tempo-changed",
	TimeSignatureChanged: "time-signature-changed",
	PlayingChanged:       "playing-changed",
	ClockTick:            "clock-tick",
	ClockStart:           "clock-start",
	ClockStop:            "clock-stop",
	ClockContinue:        "clock-continue",
	TrackVolume:          "track-volume",
	TrackPan:             "track-pan",
	TrackSend:            "track-send",
	TrackSelect:          "track-select",
	TrackMute:            "track-mute",
	TrackSolo:            "track-solo",
	TrackArm:             "track-arm",
	ClipLaunch:           "clip-launch",
	SessionOffset:        "session-offset",
	TransportPlay:        "transport-play",
	TransportStop:        "transport-stop",
	TransportRecord:      "transport-record",
	DeviceParameter:      "device-parameter",
	DeviceLock:           "device-lock",
	DeviceBank:           "device-bank",
	DrumNote:             "drum-note",
	DrumFader:            "drum-fader",
}

func (e Event) String() string {
	if e >= 0 && int(e) < len(eventNames) && eventNames[e] != "" {
		return eventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Message carries an event and its payload. Which fields are meaningful
// depends on Type:
//
//	ControlInput          String=control id, Number=value
//	ModeToggle            String=mode, Boolean=enabled
//	ModeSelect            String=mode ("" for none)
//	TempoChanged          Float=bpm
//	TimeSignatureChanged  Number=numerator
//	PlayingChanged        Boolean=playing
//	Clock*                Time=arrival
//	Track*                Number=track, Number2=send (TrackSend), Float/Boolean=value
//	ClipLaunch            Number=track, Number2=scene
//	SessionOffset         Number=track offset, Number2=scene offset
//	DeviceParameter       Number=parameter, Float=value
//	DrumNote              Number=note, Number2=velocity
//
// The surface also emits ModeToggle and ModeSelect to tell the host which
// modes the selector switched.
type Message struct {
	Type    Event
	Number  int
	Number2 int
	Float   float64
	Boolean bool
	String  string
	Time    time.Time
}
