package value

import (
	"strings"

	"musique/internal/muserr"
	"musique/internal/number"
)

// Chord is one or more Notes meant to sound together, per
// original_source/musique/chord.hh.
type Chord struct {
	Notes []Note
}

// ParseChord builds a single-note Chord from one lexer Chord-token's text.
func ParseChord(text string) (Chord, error) {
	n, err := ParseNote(text)
	if err != nil {
		return Chord{}, err
	}
	return Chord{Notes: []Note{n}}, nil
}

// String renders a single-note Chord as its bare note, and a multi-note
// Chord as `chord (a; b; c)`, per chord.cc's operator<<.
func (c Chord) String() string {
	if len(c.Notes) == 1 {
		return c.Notes[0].String()
	}
	var b strings.Builder
	b.WriteString("chord (")
	for i, n := range c.Notes {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(n.String())
	}
	b.WriteString(")")
	return b.String()
}

// Equal compares two Chords note-by-note in order.
func (c Chord) Equal(o Chord) bool {
	if len(c.Notes) != len(o.Notes) {
		return false
	}
	for i := range c.Notes {
		if !c.Notes[i].Equal(o.Notes[i]) {
			return false
		}
	}
	return true
}

var chordCallSignatures = []string{"(note:music [duration:number])+"}

// Call implements a chord literal's callable builder contract from
// chord.cc's Chord::operator(): arguments alternate length-setters and
// chord-starters. A bare Number (or an Array of Numbers, ring-expanded
// across the current group) sets the Length of every note in the group(s)
// currently being built; a Chord argument closes the current group(s) off
// into the result and starts a new one. At most one result chord yields a
// bare Chord Value; more than one yields an Array of Chords.
func (c Chord) Call(args []Value) (Value, error) {
	const (
		waitingForLength = iota
		waitingForNote
	)
	state := waitingForLength
	current := []Chord{c}
	var result []Value

	setLength := func(group *Chord, n number.Number) error {
		if state != waitingForLength {
			return muserr.UnsupportedTypes("note creation", []string{"Number"}, chordCallSignatures)
		}
		for i := range group.Notes {
			length := n
			group.Notes[i].Length = &length
		}
		return nil
	}

	for _, arg := range args {
		switch arg.Kind {
		case KArray:
			if state != waitingForLength {
				return Nil, muserr.UnsupportedTypes("note creation", []string{"Array"}, chordCallSignatures)
			}
			ringSize := len(current)
			if ringSize == 0 {
				return Nil, muserr.New(muserr.WrongArityOf, "note creation received an array with no chord to apply it to")
			}
			for i := 0; len(current) < len(arg.Array); i++ {
				current = append(current, current[i%ringSize])
			}
			for i := range current {
				if elem := arg.Array[i%len(arg.Array)]; elem.Kind == KNumber {
					if err := setLength(&current[i], elem.Num); err != nil {
						return Nil, err
					}
				}
			}
			state = waitingForNote

		case KNumber:
			for i := range current {
				if err := setLength(&current[i], arg.Num); err != nil {
					return Nil, err
				}
			}
			state = waitingForNote

		case KChord:
			for _, group := range current {
				result = append(result, NewChord(group))
			}
			current = []Chord{arg.Chord}
			state = waitingForLength

		default:
			return Nil, muserr.UnsupportedTypes("note creation", []string{arg.TypeName()}, chordCallSignatures)
		}
	}

	for _, group := range current {
		result = append(result, NewChord(group))
	}

	if len(result) == 1 {
		return result[0], nil
	}
	return NewArray(result), nil
}
