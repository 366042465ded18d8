package transport

import (
	. "github.com/JeanRibes/ohm-surface/shared"

	"gitlab.com/gomidi/midi/v2"
)

// Host command layout. Track commands use one channel per track, the rest
// live on the global channel.
const (
	GlobalChannel = 15
	ClipChannel   = 14
	DrumChannel   = 9

	ccVolume = 7
	ccPan    = 10
	ccSend   = 12 // + send index
	ccSelect = 20
	ccMute   = 21
	ccSolo   = 22
	ccArm    = 23

	ccDeviceLock  = 28
	ccDeviceBank  = 29
	ccDeviceParam = 30 // + parameter
	ccRecord      = 118
	ccDrumFader   = 40 // + fader
)

func seven(f float64) uint8 {
	return uint8(min(max(f, 0), 1)*127 + 0.5)
}

func flag(b bool) uint8 {
	if b {
		return 127
	}
	return 0
}

func cc(channel int, controller int, value uint8) midi.Message {
	return midi.ControlChange(uint8(channel), uint8(min(controller, 127)), value)
}

// EncodeCommand turns a host command of the surface into MIDI. Commands
// without a MIDI form give nil.
func EncodeCommand(msg Message) []midi.Message {
	track := msg.Number % 16
	switch msg.Type {
	case TrackVolume:
		return []midi.Message{cc(track, ccVolume, seven(msg.Float))}
	case TrackPan:
		return []midi.Message{cc(track, ccPan, seven(msg.Float))}
	case TrackSend:
		return []midi.Message{cc(track, ccSend+msg.Number2, seven(msg.Float))}
	case TrackSelect:
		return []midi.Message{cc(track, ccSelect, 127)}
	case TrackMute:
		return []midi.Message{cc(track, ccMute, flag(msg.Boolean))}
	case TrackSolo:
		return []midi.Message{cc(track, ccSolo, flag(msg.Boolean))}
	case TrackArm:
		return []midi.Message{cc(track, ccArm, flag(msg.Boolean))}
	case ClipLaunch:
		key := min(msg.Number2*16+msg.Number, 127)
		return []midi.Message{midi.NoteOn(ClipChannel, uint8(key), 127)}
	case TransportPlay:
		return []midi.Message{midi.Start()}
	case TransportStop:
		return []midi.Message{midi.Stop()}
	case TransportRecord:
		return []midi.Message{cc(GlobalChannel, ccRecord, flag(msg.Boolean))}
	case DeviceParameter:
		return []midi.Message{cc(GlobalChannel, ccDeviceParam+msg.Number, seven(msg.Float))}
	case DeviceLock:
		return []midi.Message{cc(GlobalChannel, ccDeviceLock, flag(msg.Boolean))}
	case DeviceBank:
		return []midi.Message{cc(GlobalChannel, ccDeviceBank, uint8(min(msg.Number, 127)))}
	case DrumNote:
		if msg.Number2 > 0 {
			return []midi.Message{midi.NoteOn(DrumChannel, uint8(msg.Number), uint8(min(msg.Number2, 127)))}
		}
		return []midi.Message{midi.NoteOff(DrumChannel, uint8(msg.Number))}
	case DrumFader:
		return []midi.Message{cc(DrumChannel, ccDrumFader+msg.Number, seven(msg.Float))}
	}
	return nil
}
