package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/leandrodaf/piano/internal/logger"
	"github.com/leandrodaf/piano/sdk/contracts"
	"github.com/leandrodaf/piano/sdk/piano"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"golang.org/x/sync/errgroup"
)

func main() {
	samples := flag.String("samples", "samples", "directory with one WAV file per key, named after the note (C4.wav, C#4.wav)")
	script := flag.String("script", "", "JSON auto-play script played once the samples are loaded")
	midiOut := flag.String("midi-out", "", "MIDI output port that echoes pressed keys")
	midiIn := flag.Int("midi-in", -1, "index of the MIDI keyboard to play from")
	flag.Parse()

	log := logger.NewStandardLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var entities []contracts.AutoPlayEntity
	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			log.Error("Failed to open auto-play script", log.Field().Error("error", err))
			return
		}
		entities, err = piano.LoadScript(f, contracts.WithLogger(log))
		f.Close()
		if err != nil {
			log.Error("Failed to parse auto-play script", log.Field().Error("error", err))
			return
		}
	}

	audio, err := piano.NewAudioService(os.DirFS(*samples), contracts.WithLogger(log))
	if err != nil {
		log.Error("Failed to open audio device", log.Field().Error("error", err))
		return
	}

	var keyboard contracts.Piano
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithViewportWidth(1200),
		contracts.WithListener(contracts.ListenerFuncs{
			OnLoadProgress: func(progress int) {
				log.Info("Loading samples", log.Field().Int("progress", progress))
			},
			OnLoadFinish: func() {
				log.Info("Samples loaded")
				if len(entities) > 0 {
					keyboard.AutoPlay(entities)
				}
			},
			OnLoadError: func(err error) {
				log.Error("Sample loading failed", log.Field().Error("error", err))
			},
			OnKeyClicked: func(_ contracts.KeyType, voice string, _, _ int) {
				log.Info("Key clicked", log.Field().String("voice", voice))
			},
			OnScrolled: func(origin int) {
				log.Debug("Scrolled", log.Field().Int("origin", origin))
			},
		}),
	}

	if *midiOut != "" {
		defer gomidi.CloseDriver()
		port, err := gomidi.FindOutPort(*midiOut)
		if err != nil {
			log.Error("MIDI output not found", log.Field().String("port", *midiOut), log.Field().Error("error", err))
			return
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			log.Error("Failed to open MIDI output", log.Field().Error("error", err))
			return
		}
		opts = append(opts, contracts.WithMIDIEcho(contracts.MIDIEchoConfig{
			Send: func(msg []byte) error { return send(msg) },
		}))
	}

	keyboard, err = piano.NewPiano(nil, audio, opts...)
	if err != nil {
		log.Error("Failed to create piano", log.Field().Error("error", err))
		return
	}
	defer keyboard.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return keyboard.Run(ctx) })

	if *midiIn >= 0 {
		input, err := piano.NewMIDIInput(
			contracts.WithLogger(log),
			contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
				Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff},
			}),
		)
		if err != nil {
			log.Error("Failed to initialize MIDI input", log.Field().Error("error", err))
			return
		}
		if err := input.SelectDevice(*midiIn); err != nil {
			log.Error("Failed to select MIDI keyboard", log.Field().Error("error", err))
			return
		}
		g.Go(func() error { return piano.ListenMIDI(ctx, input, keyboard, contracts.WithLogger(log)) })
	}

	log.Info("Piano running, press Ctrl+C to exit")
	if err := g.Wait(); err != nil {
		log.Error("Piano stopped with error", log.Field().Error("error", err))
	}
}
