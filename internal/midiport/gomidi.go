package midiport

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// GoMIDIPort is a Port backed by a real system MIDI output, opened through
// gomidi/midi/v2's driver registry (mirrors how the sequencer TUI in the
// wider example pack opens a port: GetOutPorts + SendTo for output,
// a Listen-style callback for input).
type GoMIDIPort struct {
	out  drivers.Out
	send func(midi.Message) error

	in     drivers.In
	stopFn func()
}

// Open establishes a connection to the named output port, or to the first
// available output port when name is empty (matching context.cc's "no
// desired port: use any available" fallback).
func Open(name string) (*GoMIDIPort, error) {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return nil, fmt.Errorf("midiport: no MIDI output ports available")
	}

	out := outs[0]
	if name != "" {
		found := false
		for _, o := range outs {
			if o.String() == name {
				out = o
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("midiport: no output port named %q", name)
		}
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("midiport: opening %q: %w", out.String(), err)
	}

	return &GoMIDIPort{out: out, send: send}, nil
}

func (p *GoMIDIPort) SupportsOutput() bool { return p.send != nil }

func (p *GoMIDIPort) SendNoteOn(channel, note, velocity uint8) error {
	return p.send(midi.NoteOn(channel, note, velocity))
}

func (p *GoMIDIPort) SendNoteOff(channel, note, velocity uint8) error {
	// gomidi's NoteOff message carries no velocity field; velocity is
	// accepted here only to satisfy the Port interface's uniform shape.
	return p.send(midi.NoteOff(channel, note))
}

func (p *GoMIDIPort) SendProgramChange(channel, program uint8) error {
	return p.send(midi.ProgramChange(channel, program))
}

func (p *GoMIDIPort) SendControllerChange(channel, controller, value uint8) error {
	return p.send(midi.ControlChange(channel, controller, value))
}

// Listen opens the first available input port and dispatches incoming
// note-on/off messages to cb, reshaping each into (channel, note, velocity,
// on) per spec.md §6's incoming-MIDI contract.
func (p *GoMIDIPort) Listen(cb InputCallback) error {
	ins := midi.GetInPorts()
	if len(ins) == 0 {
		return fmt.Errorf("midiport: no MIDI input ports available")
	}
	p.in = ins[0]

	stop, err := midi.ListenTo(p.in, func(msg midi.Message, _ int32) {
		var channel, note, velocity uint8
		if msg.GetNoteOn(&channel, &note, &velocity) {
			cb(channel, note, velocity, true)
			return
		}
		if msg.GetNoteOff(&channel, &note, &velocity) {
			cb(channel, note, velocity, false)
		}
	})
	if err != nil {
		return fmt.Errorf("midiport: listening on %q: %w", p.in.String(), err)
	}
	p.stopFn = stop
	return nil
}

func (p *GoMIDIPort) Close() error {
	if p.stopFn != nil {
		p.stopFn()
	}
	if p.in != nil {
		p.in.Close()
	}
	if p.out != nil {
		return p.out.Close()
	}
	return nil
}
