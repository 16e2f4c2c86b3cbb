// play.go implements musique's timed MIDI scheduler (spec.md §4.7): the
// chord-playing procedure shared by `play`/`par`/`sim`, the three musical
// entry points themselves, and the active-notes bookkeeping an interrupt
// has to unwind. Grounded on
// original_source/musique/interpreter/interpreter.cc's
// play/turn_off_all_active_notes, generalized to the cumulative-boundary
// note-off schedule spec.md §4.7 describes explicitly (the legacy C++
// instead re-sleeps each note's full length in sequence, which only
// happens to match for a single-note chord — not carried forward here).
package interp

import (
	"sort"

	"musique/internal/muserr"
	"musique/internal/number"
	"musique/internal/value"
)

// EnsureMIDIConnection returns an Operation-Requires-Midi-Connection error
// naming op unless a usable output port is wired in.
func (it *Interpreter) EnsureMIDIConnection(op string) error {
	if it.Port == nil || !it.Port.SupportsOutput() {
		return muserr.New(muserr.OperationRequiresMidiConnection, "%s requires a MIDI connection", op)
	}
	return nil
}

func (it *Interpreter) noteOn(channel uint8, midiNote int) error {
	it.activeMu.Lock()
	it.activeNotes[activeNoteKey{channel, uint8(midiNote)}] = struct{}{}
	it.activeMu.Unlock()
	return it.Port.SendNoteOn(channel, uint8(midiNote), 127)
}

func (it *Interpreter) noteOff(channel uint8, midiNote int) error {
	it.activeMu.Lock()
	delete(it.activeNotes, activeNoteKey{channel, uint8(midiNote)})
	it.activeMu.Unlock()
	return it.Port.SendNoteOff(channel, uint8(midiNote), 127)
}

// TurnOffAllActiveNotes drains the active-notes set, sending note-off for
// everything still sounding — the recovery action run after a keyboard
// interrupt during play/par/sim.
func (it *Interpreter) TurnOffAllActiveNotes() {
	if it.Port == nil || !it.Port.SupportsOutput() {
		return
	}
	it.activeMu.Lock()
	keys := make([]activeNoteKey, 0, len(it.activeNotes))
	for k := range it.activeNotes {
		keys = append(keys, k)
	}
	it.activeNotes = make(map[activeNoteKey]struct{})
	it.activeMu.Unlock()

	for _, k := range keys {
		it.Port.SendNoteOff(k.channel, k.note, 0)
	}
}

// Play is the chord-playing procedure: fill notes from context, sort
// ascending by length, sound every voiced note at time zero, then release
// notes at each cumulative length boundary.
func (it *Interpreter) Play(chord value.Chord) error {
	if err := it.EnsureMIDIConnection("play"); err != nil {
		return err
	}
	if err := it.HandlePotentialInterrupt(); err != nil {
		it.TurnOffAllActiveNotes()
		return err
	}

	if len(chord.Notes) == 0 {
		return it.Sleep(it.Context.LengthToDuration(nil))
	}

	notes := make([]value.Note, len(chord.Notes))
	for i, n := range chord.Notes {
		notes[i] = it.Context.Fill(n)
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Length.Cmp(*notes[j].Length) < 0
	})

	for _, n := range notes {
		if n.IsPause() {
			continue
		}
		midiNote, err := n.MidiNote(it.Context.Octave)
		if err != nil {
			return err
		}
		if err := it.noteOn(0, midiNote); err != nil {
			return err
		}
	}

	elapsed := number.New(0, 1)
	i := 0
	for i < len(notes) {
		j := i
		for j < len(notes) && notes[j].Length.Equal(*notes[i].Length) {
			j++
		}
		delta := notes[i].Length.Sub(elapsed)
		if err := it.Sleep(it.Context.LengthToDuration(&delta)); err != nil {
			it.TurnOffAllActiveNotes()
			return err
		}
		elapsed = *notes[i].Length
		for k := i; k < j; k++ {
			if notes[k].IsPause() {
				continue
			}
			midiNote, err := notes[k].MidiNote(it.Context.Octave)
			if err != nil {
				return err
			}
			if err := it.noteOff(0, midiNote); err != nil {
				return err
			}
		}
		i = j
	}
	return nil
}

// PlayValue walks v per spec.md §4.7's `play` procedure: arrays recurse
// element-wise, blocks are called and their result recursed into, chords
// sound via Play, and anything else is ignored.
func (it *Interpreter) PlayValue(v value.Value) error {
	switch v.Kind {
	case value.KArray:
		for _, e := range v.Array {
			if err := it.PlayValue(e); err != nil {
				return err
			}
		}
		return nil
	case value.KBlock:
		result, err := it.CallBlock(v.Block, nil)
		if err != nil {
			return err
		}
		return it.PlayValue(result)
	case value.KChord:
		return it.Play(v.Chord)
	default:
		return nil
	}
}

// RunPlay installs the default action and a scoped child context for the
// duration of playing v, restoring both on every exit path — this is the
// `play` builtin's outermost entry point.
func (it *Interpreter) RunPlay(v value.Value) error {
	if err := it.EnsureMIDIConnection("play"); err != nil {
		return err
	}
	prevAction := it.DefaultAction
	prevContext := it.Context
	it.DefaultAction = func(inner *Interpreter, iv value.Value) error { return inner.PlayValue(iv) }
	it.Context = it.Context.Child()
	defer func() {
		it.DefaultAction = prevAction
		it.Context = prevContext
	}()
	return it.PlayValue(v)
}

// Par treats args[0] as a sustaining chord played under the remaining
// arguments, per spec.md §4.7's `par`.
func (it *Interpreter) Par(args []value.Value) error {
	if len(args) == 0 {
		return muserr.New(muserr.WrongArityOf, "par expects at least 1 argument")
	}
	if len(args) == 1 {
		return it.RunPlay(args[0])
	}
	if args[0].Kind != value.KChord {
		return muserr.UnsupportedTypes("par", []string{args[0].TypeName()}, []string{"(music, music...)"})
	}
	if err := it.EnsureMIDIConnection("par"); err != nil {
		return err
	}

	sustained := make([]value.Note, len(args[0].Chord.Notes))
	for i, n := range args[0].Chord.Notes {
		sustained[i] = it.Context.Fill(n)
	}
	for _, n := range sustained {
		if n.IsPause() {
			continue
		}
		midiNote, err := n.MidiNote(it.Context.Octave)
		if err != nil {
			return err
		}
		if err := it.noteOn(0, midiNote); err != nil {
			return err
		}
	}

	var playErr error
	for _, rest := range args[1:] {
		if playErr = it.RunPlay(rest); playErr != nil {
			break
		}
	}

	for _, n := range sustained {
		if n.IsPause() {
			continue
		}
		midiNote, err := n.MidiNote(it.Context.Octave)
		if err != nil {
			continue
		}
		it.noteOff(0, midiNote)
	}
	return playErr
}

// simInstruction is one scheduled note-on/note-off event, timestamped by
// its absolute position (in beats) along its track.
type simInstruction struct {
	at      number.Number
	channel uint8
	note    int
	on      bool
}

// flattenToChords recurses into v collecting every Chord it contains, in
// order, per sim's step 1.
func flattenToChords(v value.Value, out *[]value.Chord) error {
	switch v.Kind {
	case value.KChord:
		*out = append(*out, v.Chord)
		return nil
	case value.KArray:
		for _, e := range v.Array {
			if err := flattenToChords(e, out); err != nil {
				return err
			}
		}
		return nil
	case value.KSet:
		n := v.Set.Len()
		for i := 0; i < n; i++ {
			e, _ := v.Set.At(i)
			if err := flattenToChords(e, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return muserr.UnsupportedTypes("sim", []string{v.TypeName()}, []string{"music", "array of music"})
	}
}

// Sim plays every argument as an independent timeline in parallel, per
// spec.md §4.7's `sim`.
func (it *Interpreter) Sim(args []value.Value) error {
	if err := it.EnsureMIDIConnection("sim"); err != nil {
		return err
	}

	var instructions []simInstruction
	for _, track := range args {
		var chords []value.Chord
		if err := flattenToChords(track, &chords); err != nil {
			return err
		}

		cursor := number.New(0, 1)
		for _, chord := range chords {
			notes := make([]value.Note, len(chord.Notes))
			for i, n := range chord.Notes {
				notes[i] = it.Context.Fill(n)
			}
			chordLen := number.New(0, 1)
			for _, n := range notes {
				if n.Length.Cmp(chordLen) > 0 {
					chordLen = *n.Length
				}
			}
			for _, n := range notes {
				if n.IsPause() {
					continue
				}
				midiNote, err := n.MidiNote(it.Context.Octave)
				if err != nil {
					return err
				}
				off := cursor.Add(*n.Length)
				instructions = append(instructions,
					simInstruction{at: cursor, channel: 0, note: midiNote, on: true},
					simInstruction{at: off, channel: 0, note: midiNote, on: false},
				)
			}
			cursor = cursor.Add(chordLen)
		}
	}

	sort.SliceStable(instructions, func(i, j int) bool {
		return instructions[i].at.Cmp(instructions[j].at) < 0
	})

	prev := number.New(0, 1)
	for _, instr := range instructions {
		delta := instr.at.Sub(prev)
		if err := it.Sleep(it.Context.LengthToDuration(&delta)); err != nil {
			it.TurnOffAllActiveNotes()
			return err
		}
		prev = instr.at
		if instr.on {
			if err := it.noteOn(instr.channel, instr.note); err != nil {
				return err
			}
		} else {
			if err := it.noteOff(instr.channel, instr.note); err != nil {
				return err
			}
		}
	}
	return nil
}
