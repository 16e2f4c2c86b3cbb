package midiport

import "fmt"

// stubPort backs the "named but not vendored" connection kinds
// original_source/ ships as compile-time-selectable backends behind the same
// Connection interface (ALSA sequencer, Ableton Link, a serial-port bridge).
// Rather than omit them or fake a hardware SDK, musique keeps the seam: each
// reports SupportsOutput()==false so ensure_midi_connection_available's
// check correctly refuses to play through it instead of silently no-opping.
type stubPort struct {
	kind string
}

// NewALSAPort, NewLinkPort, and NewSerialPort return stub Ports for backends
// that exist in original_source/ but have no portable Go binding in the
// example pack; wiring a real one is future work, not a silent omission.
func NewALSAPort() Port   { return &stubPort{kind: "ALSA sequencer"} }
func NewLinkPort() Port   { return &stubPort{kind: "Ableton Link"} }
func NewSerialPort() Port { return &stubPort{kind: "serial"} }

func (p *stubPort) SupportsOutput() bool { return false }

func (p *stubPort) unsupported() error {
	return fmt.Errorf("midiport: %s backend is not implemented in this build", p.kind)
}

func (p *stubPort) SendNoteOn(channel, note, velocity uint8) error      { return p.unsupported() }
func (p *stubPort) SendNoteOff(channel, note, velocity uint8) error     { return p.unsupported() }
func (p *stubPort) SendProgramChange(channel, program uint8) error      { return p.unsupported() }
func (p *stubPort) SendControllerChange(channel, cc, value uint8) error { return p.unsupported() }
func (p *stubPort) Close() error                                        { return nil }
