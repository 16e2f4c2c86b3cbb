package value

import (
	"strconv"
	"strings"

	"musique/internal/muserr"
	"musique/internal/number"
)

// noteIndex maps a base letter to its pitch class, per
// original_source/musique/value/note.cc's note_index: `h` is the European
// spelling of `b` (both map to 11); plain `b` is kept too since the lexer
// accepts either.
var noteIndex = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'h': 11, 'b': 11,
}

var noteNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// Note is one note or pause: Base is the pitch class relative to C (nil for
// a pause), Octave is the MIDI octave (nil meaning "use the caller's
// default"), Length is the note's duration as a fraction of a whole note
// (nil meaning "use the caller's default").
type Note struct {
	Base   *int
	Octave *int
	Length *number.Number
}

// ParseNote builds a Note from one chord/note literal's text, per
// note.cc's Note::from: a leading `p` is a pause; otherwise a base letter
// is followed by zero or more accidentals (`#`/`s` raises a semitone,
// `b`/`f` lowers one) and an optional trailing octave number.
func ParseNote(text string) (Note, error) {
	if strings.HasPrefix(text, "p") {
		return Note{}, nil
	}
	if text == "" {
		return Note{}, muserr.New(muserr.FailedNumericParsing, "empty note literal")
	}
	idx, ok := noteIndex[text[0]]
	if !ok {
		return Note{}, muserr.New(muserr.FailedNumericParsing, "%q is not a note letter", text[0])
	}
	base := idx
	i := 1
loop:
	for i < len(text) {
		switch text[i] {
		case '#', 's':
			base++
			i++
		case 'b', 'f':
			base--
			i++
		default:
			break loop
		}
	}

	n := Note{Base: &base}
	if rest := text[i:]; rest != "" {
		octave, err := strconv.Atoi(rest)
		if err != nil {
			return Note{}, muserr.New(muserr.FailedNumericParsing, "invalid octave %q in note %q", rest, text)
		}
		n.Octave = &octave
	}
	return n, nil
}

// floorDivMod returns the floor-division quotient and the non-negative
// remainder of a/b (b > 0), used by Simplify to carry a base past an
// octave boundary correctly in both directions. This replaces the
// truncating `base/12`/`base%=12` arithmetic in note.cc's
// simplify_inplace, which leaves a negative base understating the octave
// carry (e.g. base=-4 truncates to quotient 0 instead of -1) — spec.md §9
// flags the Note model as having diverged between two legacy sources and
// says to prefer the more complete/canonical tree; floor division is the
// one that actually round-trips through into_midi_note correctly.
func floorDivMod(a, b int) (q, r int) {
	q = a / b
	r = a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

// Simplify folds Base outside [0,12) into Octave, in place.
func (n *Note) Simplify() {
	if n.Base == nil || n.Octave == nil {
		return
	}
	carry, base := floorDivMod(*n.Base, 12)
	octave := *n.Octave + carry
	if octave < -1 {
		octave = -1
	}
	if octave > 9 {
		octave = 9
	}
	n.Base = &base
	n.Octave = &octave
}

// IsPause reports whether n has no pitch.
func (n Note) IsPause() bool { return n.Base == nil }

// MidiNote converts n to a MIDI note number 0-127, using defaultOctave when
// n carries none, per note.cc's formula `(octave+1)*12 + base`.
func (n Note) MidiNote(defaultOctave int) (int, error) {
	if n.IsPause() {
		return 0, muserr.New(muserr.UnsupportedTypesFor, "a pause has no MIDI note number")
	}
	octave := defaultOctave
	if n.Octave != nil {
		octave = *n.Octave
	}
	return (octave+1)*12 + *n.Base, nil
}

// String renders n in the bare `c#4` form that spec.md §9 says to prefer
// over the legacy `:oct=` spelling.
func (n Note) String() string {
	n.Simplify()
	if n.IsPause() {
		return "p"
	}
	out := noteNames[((*n.Base)%12+12)%12]
	if n.Octave != nil {
		out += strconv.Itoa(*n.Octave)
	}
	if n.Length != nil {
		out += " " + n.Length.String()
	}
	return out
}

// Equal compares two Notes field-by-field, per note.cc's operator==.
func (n Note) Equal(o Note) bool {
	return intPtrEqual(n.Base, o.Base) && intPtrEqual(n.Octave, o.Octave) && numPtrEqual(n.Length, o.Length)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func numPtrEqual(a, b *number.Number) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Compare implements Note's partial order from note.cc's operator<=>: two
// pauses compare by length if both carry one, otherwise pauses are
// unordered against anything; two notes with octaves compare by absolute
// MIDI-ish position, without by base alone.
func (n Note) Compare(o Note) (cmp int, ok bool) {
	if n.IsPause() != o.IsPause() {
		return 0, false
	}
	if n.IsPause() {
		if n.Length != nil && o.Length != nil {
			return n.Length.Cmp(*o.Length), true
		}
		return 0, false
	}
	if (n.Octave != nil) != (o.Octave != nil) {
		return 0, false
	}
	if n.Octave != nil {
		a := 12*(*n.Octave) + *n.Base
		b := 12*(*o.Octave) + *o.Base
		return cmpInt(a, b), true
	}
	return cmpInt(*n.Base, *o.Base), true
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
