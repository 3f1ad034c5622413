//go:build darwin
// +build darwin

package mididarwin

import (
	"sync"
	"testing"

	"github.com/leandrodaf/piano/internal/logger"
	"github.com/leandrodaf/piano/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

func TestNothingIsDeliveredAfterStop(t *testing.T) {
	for round := 0; round < 100; round++ {
		m := &Input{logger: logger.NewNopLogger()}
		events := make(chan contracts.MIDI, 1024)
		m.StartCapture(events)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					m.handlePacket(coremidi.Source{}, coremidi.Packet{Data: []byte{0x90, 60, 100}})
				}
			}()
		}
		if err := m.Stop(); err != nil {
			t.Fatalf("stop: %v", err)
		}
		delivered := len(events)
		wg.Wait()
		if n := len(events); n != delivered {
			t.Fatalf("round %d: %d events delivered after stop", round, n-delivered)
		}
	}
}

func TestPacketsAreSplitIntoMessages(t *testing.T) {
	m := &Input{logger: logger.NewNopLogger()}
	events := make(chan contracts.MIDI, 4)
	m.StartCapture(events)

	m.handlePacket(coremidi.Source{}, coremidi.Packet{Data: []byte{0x90, 60, 100, 0x80, 60, 0}})
	m.handlePacket(coremidi.Source{}, coremidi.Packet{Data: []byte{0x90}})
	if n := len(events); n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}
	if ev := <-events; ev.Command != 0x90 || ev.Note != 60 || ev.Velocity != 100 {
		t.Fatalf("unexpected note on %+v", ev)
	}
}
