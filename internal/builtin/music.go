package builtin

import (
	"musique/internal/interp"
	"musique/internal/number"
	"musique/internal/value"
)

func registerMusic(it *interp.Interpreter) {
	define(it, "chord", chordBuiltin)
	define(it, "set_len", setLenBuiltin)
	define(it, "set_oct", setOctBuiltin)
	define(it, "duration", durationBuiltin)
	define(it, "play", playBuiltin)
	define(it, "par", parBuiltin)
	define(it, "sim", simBuiltin)
	define(it, "note_on", noteOnBuiltin)
	define(it, "note_off", noteOffBuiltin)

	programChange := programChangeBuiltin
	define(it, "program_change", programChange)
	define(it, "pgmchange", programChange)
	define(it, "instrument", programChange)
}

// collectNotes flattens args into a single note list, dropping pauses from
// nested Chords and descending into nested collections, per create_chord.
func collectNotes(args []value.Value) ([]value.Note, error) {
	var notes []value.Note
	for _, a := range args {
		switch a.Kind {
		case value.KChord:
			for _, n := range a.Chord.Notes {
				if !n.IsPause() {
					notes = append(notes, n)
				}
			}
		case value.KArray:
			sub, err := collectNotes(a.Array)
			if err != nil {
				return nil, err
			}
			notes = append(notes, sub...)
		case value.KSet:
			elems := make([]value.Value, a.Size())
			for i := range elems {
				elems[i], _ = a.Index(i)
			}
			sub, err := collectNotes(elems)
			if err != nil {
				return nil, err
			}
			notes = append(notes, sub...)
		default:
			return nil, arityError("chord", "(...music) -> music")
		}
	}
	return notes, nil
}

func chordBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	notes, err := collectNotes(args)
	if err != nil {
		return value.Nil, err
	}
	return value.NewChord(value.Chord{Notes: notes}), nil
}

// traverseSetLength rewrites every note's length in place across nested
// collections, preserving shape, per traverse/builtin_set_len.
func traverseSetLength(v value.Value, length number.Number) value.Value {
	if isCollection(v) && v.Kind != value.KChord {
		n := v.Size()
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			e, _ := v.Index(i)
			out[i] = traverseSetLength(e, length)
		}
		return value.NewArray(out)
	}
	if v.Kind == value.KChord {
		notes := make([]value.Note, len(v.Chord.Notes))
		for i, note := range v.Chord.Notes {
			l := length
			note.Length = &l
			notes[i] = note
		}
		return value.NewChord(value.Chord{Notes: notes})
	}
	return v
}

func setLenBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) < 2 || args[0].Kind != value.KNumber {
		return value.Nil, arityError("set_len", "(number, ...music) -> music")
	}
	if len(args) == 2 {
		return traverseSetLength(args[1], args[0].Num), nil
	}
	out := make([]value.Value, len(args)-1)
	for i, a := range args[1:] {
		out[i] = traverseSetLength(a, args[0].Num)
	}
	return value.NewArray(out), nil
}

// traverseSetOctave rewrites every note's octave in place across nested
// collections, preserving shape, per traverse/builtin_set_oct.
func traverseSetOctave(v value.Value, octave int) value.Value {
	if isCollection(v) && v.Kind != value.KChord {
		n := v.Size()
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			e, _ := v.Index(i)
			out[i] = traverseSetOctave(e, octave)
		}
		return value.NewArray(out)
	}
	if v.Kind == value.KChord {
		notes := make([]value.Note, len(v.Chord.Notes))
		for i, note := range v.Chord.Notes {
			o := octave
			note.Octave = &o
			notes[i] = note
		}
		return value.NewChord(value.Chord{Notes: notes})
	}
	return v
}

func setOctBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) < 2 || args[0].Kind != value.KNumber {
		return value.Nil, arityError("set_oct", "(number, ...music) -> music")
	}
	octave := int(args[0].Num.Round().Num)
	if len(args) == 2 {
		return traverseSetOctave(args[1], octave), nil
	}
	out := make([]value.Value, len(args)-1)
	for i, a := range args[1:] {
		out[i] = traverseSetOctave(a, octave)
	}
	return value.NewArray(out), nil
}

// sumDuration accumulates every note's length (or the context default when
// a note carries none) across nested collections, per builtin_duration.
func sumDuration(it *interp.Interpreter, v value.Value, total number.Number) number.Number {
	if isCollection(v) && v.Kind != value.KChord {
		for i := 0; i < v.Size(); i++ {
			e, _ := v.Index(i)
			total = sumDuration(it, e, total)
		}
		return total
	}
	if v.Kind == value.KChord {
		for _, n := range v.Chord.Notes {
			l := it.Context.Length
			if n.Length != nil {
				l = *n.Length
			}
			total = total.Add(l)
		}
	}
	return total
}

func durationBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	total := number.Int(0)
	for _, a := range args {
		total = sumDuration(it, a, total)
	}
	return value.NewNumber(total), nil
}

func playBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	var result value.Value
	for _, a := range args {
		result = value.Nil
		if err := it.RunPlay(a); err != nil {
			return value.Nil, err
		}
	}
	return result, nil
}

func parBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if err := it.Par(args); err != nil {
		return value.Nil, err
	}
	return value.Nil, nil
}

func simBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if err := it.Sim(args); err != nil {
		return value.Nil, err
	}
	return value.Nil, nil
}

func noteOnBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if err := it.EnsureMIDIConnection("note_on"); err != nil {
		return value.Nil, err
	}
	if len(args) == 3 && args[0].Kind == value.KNumber && args[1].Kind == value.KNumber && args[2].Kind == value.KNumber {
		chan_, _ := asInt(args[0])
		note, _ := asInt(args[1])
		vel, _ := asInt(args[2])
		return value.Nil, it.Port.SendNoteOn(uint8(chan_), uint8(note), uint8(vel))
	}
	if len(args) == 3 && args[0].Kind == value.KNumber && args[1].Kind == value.KChord && args[2].Kind == value.KNumber {
		chan_, _ := asInt(args[0])
		vel, _ := asInt(args[2])
		for _, n := range args[1].Chord.Notes {
			filled := it.Context.Fill(n)
			midi, err := filled.MidiNote(it.Context.Octave)
			if err != nil {
				return value.Nil, err
			}
			if err := it.Port.SendNoteOn(uint8(chan_), uint8(midi), uint8(vel)); err != nil {
				return value.Nil, err
			}
		}
		return value.Nil, nil
	}
	return value.Nil, arityError("note_on", "(number, number, number) -> nil", "(number, music, number) -> nil")
}

func noteOffBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if err := it.EnsureMIDIConnection("note_off"); err != nil {
		return value.Nil, err
	}
	if len(args) == 2 && args[0].Kind == value.KNumber && args[1].Kind == value.KNumber {
		chan_, _ := asInt(args[0])
		note, _ := asInt(args[1])
		return value.Nil, it.Port.SendNoteOff(uint8(chan_), uint8(note), 127)
	}
	if len(args) == 2 && args[0].Kind == value.KNumber && args[1].Kind == value.KChord {
		chan_, _ := asInt(args[0])
		for _, n := range args[1].Chord.Notes {
			filled := it.Context.Fill(n)
			midi, err := filled.MidiNote(it.Context.Octave)
			if err != nil {
				return value.Nil, err
			}
			if err := it.Port.SendNoteOff(uint8(chan_), uint8(midi), 127); err != nil {
				return value.Nil, err
			}
		}
		return value.Nil, nil
	}
	return value.Nil, arityError("note_off", "(number, number) -> nil", "(number, music) -> nil")
}

func programChangeBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if err := it.EnsureMIDIConnection("program_change"); err != nil {
		return value.Nil, err
	}
	if len(args) == 1 && args[0].Kind == value.KNumber {
		program, _ := asInt(args[0])
		return value.Nil, it.Port.SendProgramChange(0, uint8(program))
	}
	if len(args) == 2 && args[0].Kind == value.KNumber && args[1].Kind == value.KNumber {
		chan_, _ := asInt(args[0])
		program, _ := asInt(args[1])
		return value.Nil, it.Port.SendProgramChange(uint8(chan_), uint8(program))
	}
	return value.Nil, arityError("program_change", "(number) -> nil", "(number, number) -> nil")
}
