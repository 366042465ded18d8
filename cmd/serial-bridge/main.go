// Command serial-bridge plays a serial key matrix as a plain MIDI keyboard,
// without the surface layers.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/JeanRibes/ohm-surface/transport"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
	"go.bug.st/serial"
)

func main() {
	portName := flag.String("port", "", "serial port, e.g. /dev/ttyUSB0 (default: first port found)")
	baud := flag.Int("baud", 115200, "serial baud rate")
	keymapFile := flag.String("keymap", "keymap.txt", "path of keymap file (format: one 'keycode:note' per line)")
	outPort := flag.String("output", "", "MIDI output port name")
	debug := flag.Bool("debug", false, "print notes")
	flag.Parse()

	level := charmlog.InfoLevel
	if *debug {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "serial-bridge",
	})

	keymap, err := LoadKeymap(*keymapFile)
	if err != nil {
		logger.Fatal("keymap", "file", *keymapFile, "err", err)
	}

	if *portName == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			logger.Fatal("serial ports", "err", err)
		}
		if len(ports) == 0 {
			logger.Fatal("no serial ports found")
		}
		for _, port := range ports {
			logger.Info("found port", "port", port)
		}
		*portName = ports[0]
	}
	port, err := serial.Open(*portName, &serial.Mode{BaudRate: *baud})
	if err != nil {
		logger.Fatal("serial", "port", *portName, "err", err)
	}
	defer port.Close()
	port.ResetInputBuffer()

	defer midi.CloseDriver()
	out, err := midi.FindOutPort(*outPort)
	if err != nil {
		logger.Warn("can't find output, opening a virtual one", "port", *outPort)
		out, err = drivers.Get().(*rtmididrv.Driver).OpenVirtualOut("serial-bridge")
		if err != nil {
			logger.Fatal("output", "err", err)
		}
	}
	logger.Info("output", "port", out.String())
	send, err := midi.SendTo(out)
	if err != nil {
		logger.Fatal("output", "err", err)
	}

	b := newBridge(keymap, logger)
	var frame [2]byte
	for {
		if _, err := io.ReadFull(port, frame[:]); err != nil {
			logger.Fatal("serial", "err", err)
		}
		code, pressed := transport.DecodeFrame(frame)
		if msg, ok := b.frame(code, pressed); ok {
			if err := send(msg); err != nil {
				logger.Error("send", "err", err)
			}
		}
	}
}
