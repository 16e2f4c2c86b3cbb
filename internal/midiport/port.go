// Package midiport defines the abstract MIDI connection the evaluator plays
// notes through (spec.md §6), plus concrete backends: a real one over
// gitlab.com/gomidi/midi/v2, an in-memory one for tests, and stub seams for
// the backends original_source/ names but does not ship a portable Go
// binding for (ALSA sequencer, Ableton Link, serial).
package midiport

// InputCallback receives an incoming note-on/off event: the channel, the
// raw MIDI note number, and the velocity. on is true for note-on, false for
// note-off. Nothing in internal/interp registers such a callback or turns
// the note number into a Chord.
type InputCallback func(channel uint8, note uint8, velocity uint8, on bool)

// Port is the connection the interpreter sends performance messages to and,
// optionally, receives incoming note events from.
type Port interface {
	SendNoteOn(channel, note, velocity uint8) error
	SendNoteOff(channel, note, velocity uint8) error
	SendProgramChange(channel, program uint8) error
	SendControllerChange(channel, controller, value uint8) error

	// SupportsOutput reports whether this Port can actually send messages
	// (a stub backend reports false, matching
	// ensure_midi_connection_available's supports_output() check).
	SupportsOutput() bool

	Close() error
}

// InputPort is implemented by backends that can also deliver incoming MIDI
// events to a registered callback.
type InputPort interface {
	Port
	Listen(cb InputCallback) error
}
