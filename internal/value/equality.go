package value

// Equal implements Value::operator== from value.hh: equal Kind and equal
// payload. Values of different Kind are never equal (no cross-kind
// coercion, matching the variant's exact-alternative comparison).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KNil:
		return true
	case KBool:
		return a.Bool == b.Bool
	case KNumber:
		return a.Num.Equal(b.Num)
	case KSymbol:
		return a.Sym == b.Sym
	case KChord:
		return a.Chord.Equal(b.Chord)
	case KArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KSet:
		return a.Set.Equal(b.Set)
	case KBlock:
		return a.Block == b.Block
	case KIntrinsic:
		return a.Intrinsic.Name == b.Intrinsic.Name
	case KMacro:
		return a.Macro.Name == b.Macro.Name
	}
	return false
}

// Compare implements Value's partial order from value.hh's operator<=>:
// only same-kind Numbers, Bools (false < true), Symbols (by string) and
// one-note Chords (by their Note) are ordered; anything else reports
// unordered (ok=false), matching Note's own partial order for
// pauses-versus-notes.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case KNumber:
		return a.Num.Cmp(b.Num), true
	case KBool:
		if a.Bool == b.Bool {
			return 0, true
		}
		if !a.Bool {
			return -1, true
		}
		return 1, true
	case KSymbol:
		switch {
		case a.Sym < b.Sym:
			return -1, true
		case a.Sym > b.Sym:
			return 1, true
		default:
			return 0, true
		}
	case KChord:
		return compareChords(a.Chord, b.Chord)
	}
	return 0, false
}

func compareChords(a, b Chord) (int, bool) {
	if len(a.Notes) != 1 || len(b.Notes) != 1 {
		return 0, false
	}
	return a.Notes[0].Compare(b.Notes[0])
}
