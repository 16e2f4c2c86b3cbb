package main

import (
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"musique/internal/builtin"
	"musique/internal/interp"
	"musique/internal/midiport"
)

// exportTicksPerQuarter matches the teacher's 480-ticks-per-quarter-note
// resolution (midi/generator.go's smf.MetricTicks(480)).
const exportTicksPerQuarter = 480

// exportFile implements the `export` subcommand: evaluate filename to
// completion against a TimelinePort instead of a real MIDI connection, then
// render the recorded note trace to a Standard MIDI File at outPath.
// Grounded on midi/generator.go's GenerateFromTrack (smf.New, a tempo-only
// track 0, MetricTicks(480), delta-time events sorted by absolute tick);
// here every event of every channel goes into one track 1, and the trace
// is adapted to convert a live musique performance's wall-clock
// trace into ticks at the Context's starting BPM, rather than generating
// ticks algorithmically from a BTML chord/rhythm grammar. Like the
// teacher's single `track.Info.Tempo` MetaTempo event, this assumes one
// tempo for the whole file; a `bpm` call partway through a program shifts
// the exported file's pacing away from real time from that point on, the
// same simplification the teacher's single-tempo track makes for BTML's
// per-track (not per-event) tempo.
func exportFile(filename, outPath string, opts options) int {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
		return exitRecoverable
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitRecoverable
	}

	port := midiport.NewTimelinePort()
	it := interp.New(filename)
	it.Port = port
	builtin.Register(it)
	applyConfigDefaults(it, cfg)
	bpm := it.Context.BPM

	defer it.TurnOffAllActiveNotes()
	if err := evalSource(it, filename, string(source)); err != nil {
		reportError(err, string(source))
		return exitRecoverable
	}

	if err := writeSMF(port.Events(), bpm, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		return exitRecoverable
	}
	fmt.Printf("%s: wrote %s\n", filename, outPath)
	return exitSuccess
}

// writeSMF renders a recorded performance trace to a two-track Standard
// MIDI File: track 0 carries a single MetaTempo event at bpm, track 1
// carries every note-on/off/program-change/controller-change event,
// converted from wall-clock elapsed time to delta ticks and sorted by
// absolute tick before being re-expressed as deltas (mirrors
// GenerateFromTrack's own sort-then-delta pass over its chord/bass/drum
// event lists).
func writeSMF(events []midiport.TimelineEvent, bpm int, outPath string) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(exportTicksPerQuarter)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(float64(bpm)))
	tempoTrack.Close(0)
	s.Add(tempoTrack)

	type tickEvent struct {
		tick uint32
		msg  midi.Message
	}
	ticks := make([]tickEvent, 0, len(events))
	ticksPerSecond := float64(exportTicksPerQuarter) * float64(bpm) / 60.0
	for _, e := range events {
		tick := uint32(e.At.Seconds() * ticksPerSecond)
		var msg midi.Message
		switch e.Kind {
		case "note_on":
			msg = midi.NoteOn(e.Channel, e.NoteOrController, e.VelocityOrProgramVal)
		case "note_off":
			msg = midi.NoteOff(e.Channel, e.NoteOrController)
		case "program_change":
			msg = midi.ProgramChange(e.Channel, e.VelocityOrProgramVal)
		case "controller_change":
			msg = midi.ControlChange(e.Channel, e.NoteOrController, e.VelocityOrProgramVal)
		default:
			continue
		}
		ticks = append(ticks, tickEvent{tick, msg})
	}
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].tick < ticks[j].tick })

	var notes smf.Track
	prevTick := uint32(0)
	for _, te := range ticks {
		notes.Add(te.tick-prevTick, te.msg)
		prevTick = te.tick
	}
	notes.Close(0)
	s.Add(notes)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.WriteTo(f)
	return err
}
