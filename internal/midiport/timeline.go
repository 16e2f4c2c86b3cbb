package midiport

import (
	"sync"
	"time"
)

// TimelineEvent is a single message recorded by TimelinePort, timestamped by
// elapsed wall-clock time since the port was opened.
type TimelineEvent struct {
	At                   time.Duration
	Kind                 string // "note_on", "note_off", "program_change", "controller_change"
	Channel              uint8
	NoteOrController     uint8
	VelocityOrProgramVal uint8
}

// TimelinePort is a Port that records every message against wall-clock time
// rather than sending it anywhere, so a full performance (driven through
// the same Play/Sleep pacing as a live MIDI port) can be captured and later
// rendered to a Standard MIDI File — the role the teacher's
// midi/generator.go filled by building an smf.SMF directly from a parsed
// BTML track's chord/bass/drum generators, here filled by replaying an
// actual musique evaluation instead.
type TimelinePort struct {
	mu     sync.Mutex
	start  time.Time
	events []TimelineEvent
}

// NewTimelinePort returns a ready-to-use recording port, with its clock
// starting now.
func NewTimelinePort() *TimelinePort {
	return &TimelinePort{start: time.Now()}
}

func (p *TimelinePort) record(e TimelineEvent) {
	e.At = time.Since(p.start)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *TimelinePort) SendNoteOn(channel, note, velocity uint8) error {
	p.record(TimelineEvent{Kind: "note_on", Channel: channel, NoteOrController: note, VelocityOrProgramVal: velocity})
	return nil
}

func (p *TimelinePort) SendNoteOff(channel, note, velocity uint8) error {
	p.record(TimelineEvent{Kind: "note_off", Channel: channel, NoteOrController: note, VelocityOrProgramVal: velocity})
	return nil
}

func (p *TimelinePort) SendProgramChange(channel, program uint8) error {
	p.record(TimelineEvent{Kind: "program_change", Channel: channel, VelocityOrProgramVal: program})
	return nil
}

func (p *TimelinePort) SendControllerChange(channel, controller, value uint8) error {
	p.record(TimelineEvent{Kind: "controller_change", Channel: channel, NoteOrController: controller, VelocityOrProgramVal: value})
	return nil
}

func (p *TimelinePort) SupportsOutput() bool { return true }

func (p *TimelinePort) Close() error { return nil }

// Events returns every message recorded so far, in send order.
func (p *TimelinePort) Events() []TimelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]TimelineEvent(nil), p.events...)
}
