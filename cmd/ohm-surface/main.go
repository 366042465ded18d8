package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/JeanRibes/ohm-surface/config"
	"github.com/JeanRibes/ohm-surface/control"
	"github.com/JeanRibes/ohm-surface/music"
	. "github.com/JeanRibes/ohm-surface/shared"
	"github.com/JeanRibes/ohm-surface/surface"
	"github.com/JeanRibes/ohm-surface/transport"

	charmlog "github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func main() {
	configFile := flag.String("config", "", "config file (default: built-in OhmRGB layout)")
	inPort := flag.String("input", "", "surface MIDI input port name (overrides the config)")
	outPort := flag.String("output", "", "surface MIDI output port name (overrides the config)")
	serialPort := flag.String("serial", "", "read the surface from this serial port instead of MIDI")
	recordFile := flag.String("record", "", "save the drum notes recorded with the record button to this MIDI file")
	quantize := flag.Bool("quantize", false, "quantize the recording before saving it")
	dump := flag.Bool("dump", false, "print the control bindings and exit")
	debug := flag.Bool("debug", false, "debug logs")
	flag.Parse()

	level := charmlog.InfoLevel
	if *debug {
		level = charmlog.DebugLevel
	}
	logger := charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		Level:           level,
		ReportCaller:    *debug,
		ReportTimestamp: true,
		Prefix:          "ohm-surface",
	})

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logger.Fatal("config", "err", err)
		}
	}
	if *inPort != "" {
		cfg.MIDI.Input = *inPort
	}
	if *outPort != "" {
		cfg.MIDI.Output = *outPort
	}

	if *dump {
		s, err := surface.New(cfg, nil, nil, logger.WithPrefix("dump"))
		if err != nil {
			logger.Fatal("surface", "err", err)
		}
		fmt.Println(renderBindings(cfg.Name, s.Bindings()))
		return
	}

	defer midi.CloseDriver()
	drv := drivers.Get().(*rtmididrv.Driver)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = charmlog.WithContext(ctx, logger)

	events := make(chan Message, 64)
	mapping := transport.NewMapping(cfg.Layout())

	// surface side
	var sink control.FeedbackSink
	if *serialPort != "" {
		port, err := transport.OpenSerial(*serialPort, cfg.Serial.BaudRate, cfg.Serial.Keymap, mapping, logger)
		if err != nil {
			logger.Fatal("serial", "port", *serialPort, "err", err)
		}
		defer port.Close()
		go func() {
			if err := port.Listen(ctx, events); err != nil && ctx.Err() == nil {
				logger.Error("serial", "err", err)
				events <- Message{Type: Quit}
			}
		}()
		sink = port
	} else {
		in, err := midi.FindInPort(cfg.MIDI.Input)
		if err != nil {
			logger.Warn("can't find input, opening a virtual one", "port", cfg.MIDI.Input)
			in, err = drv.OpenVirtualIn(cfg.MIDI.Virtual)
			if err != nil {
				logger.Fatal("input", "err", err)
			}
		}
		logger.Info("connecting to", "input", in.String())
		out, err := midi.FindOutPort(cfg.MIDI.Output)
		if err != nil {
			logger.Warn("can't find output, opening a virtual one", "port", cfg.MIDI.Output)
			out, err = drv.OpenVirtualOut(cfg.MIDI.Virtual)
			if err != nil {
				logger.Fatal("output", "err", err)
			}
		}
		logger.Info("connecting to", "output", out.String())
		hw, err := transport.NewMIDI(out, mapping, logger)
		if err != nil {
			logger.Fatal("output", "err", err)
		}
		if err := hw.Listen(in, events); err != nil {
			logger.Fatal("input", "err", err)
		}
		defer hw.Close()
		sink = hw
	}

	// host side: commands out, clock in
	hostOut, err := drv.OpenVirtualOut(cfg.MIDI.Virtual + " host")
	if err != nil {
		logger.Fatal("host output", "err", err)
	}
	hostSend, err := midi.SendTo(hostOut)
	if err != nil {
		logger.Fatal("host output", "err", err)
	}
	hostIn, err := drv.OpenVirtualIn(cfg.MIDI.Virtual + " host")
	if err != nil {
		logger.Fatal("host input", "err", err)
	}
	hostListener := transport.NewInput(transport.NewMapping(nil), logger.WithPrefix("host"))
	if err := hostListener.Listen(hostIn, events); err != nil {
		logger.Fatal("host input", "err", err)
	}
	defer hostListener.Close()

	var recorder *music.Recorder
	hostLogger := logger.WithPrefix("host")
	emit := func(msg Message) {
		hostLogger.Debug("command", "type", msg.Type, "number", msg.Number, "number2", msg.Number2, "value", msg.Float)
		for _, m := range transport.EncodeCommand(msg) {
			if err := hostSend(m); err != nil {
				hostLogger.Error("send", "err", err)
			}
		}
		if recorder != nil {
			recorder.Handle(msg, time.Now())
		}
	}
	s, err := surface.New(cfg, sink, emit, logger)
	if err != nil {
		logger.Fatal("surface", "err", err)
	}
	if *recordFile != "" {
		recorder = music.NewRecorder(s.Song().Tempo, logger)
		recorder.SetQuantize(*quantize)
	}

	go func() {
		signalCh := make(chan os.Signal, 1)
		signal.Notify(signalCh, os.Interrupt)
		<-signalCh
		logger.Info("interrupt")
		events <- Message{Type: Quit}
	}()

	s.Run(ctx, events)
	s.Disconnect()
	if recorder != nil {
		if err := recorder.SaveToFile(*recordFile); err != nil {
			logger.Error("save recording", "file", *recordFile, "err", err)
		} else {
			logger.Info("recording saved", "file", *recordFile, "notes", recorder.Notes())
		}
	}
}
