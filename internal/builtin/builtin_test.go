package builtin

import (
	"testing"

	"musique/internal/interp"
	"musique/internal/midiport"
	"musique/internal/parser"
	"musique/internal/value"
)

func newTestInterpreter(t *testing.T) *interp.Interpreter {
	t.Helper()
	it := interp.New("test")
	it.Port = midiport.NewMemoryPort()
	Register(it)
	return it
}

func eval(t *testing.T, it *interp.Interpreter, src string) value.Value {
	t.Helper()
	n, err := parser.Parse("test", src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	v, err := it.Eval(n)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func TestBpmOctLenReadWrite(t *testing.T) {
	it := newTestInterpreter(t)
	if v := eval(t, it, "bpm()"); v.Num.String() != "120" {
		t.Fatalf("default bpm: got %v", v.String())
	}
	eval(t, it, "bpm 144")
	if v := eval(t, it, "bpm()"); v.Num.String() != "144" {
		t.Fatalf("after write: got %v", v.String())
	}
	if v := eval(t, it, "len(flat(1, 2, 3))"); v.Num.String() != "3" {
		t.Fatalf("len of array: got %v", v.String())
	}
}

func TestFloorCeilRound(t *testing.T) {
	it := newTestInterpreter(t)
	if v := eval(t, it, "floor(3/2)"); v.Num.String() != "1" {
		t.Fatalf("got %v", v.String())
	}
	if v := eval(t, it, "ceil(3/2)"); v.Num.String() != "2" {
		t.Fatalf("got %v", v.String())
	}
	if v := eval(t, it, "round(3/2)"); v.Num.String() != "2" {
		t.Fatalf("got %v", v.String())
	}
}

func TestRangeUpDown(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "up(3)")
	if v.Kind != value.KArray || len(v.Array) != 3 {
		t.Fatalf("got %v", v.String())
	}
	v = eval(t, it, "down(3)")
	if v.Kind != value.KArray || len(v.Array) != 3 || v.Array[0].Num.String() != "2" {
		t.Fatalf("got %v", v.String())
	}
}

func TestNPrimes(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "nprimes(5)")
	if v.Kind != value.KArray || len(v.Array) != 5 {
		t.Fatalf("got %v", v.String())
	}
	want := []string{"2", "3", "5", "7", "11"}
	for i, w := range want {
		if v.Array[i].Num.String() != w {
			t.Fatalf("prime %d: got %v, want %v", i, v.Array[i].String(), w)
		}
	}
}

func TestNPrimesBoundary(t *testing.T) {
	it := newTestInterpreter(t)
	for _, n := range []string{"0", "1"} {
		v := eval(t, it, "nprimes("+n+")")
		if v.Kind != value.KArray || len(v.Array) != 0 {
			t.Fatalf("nprimes(%s): got %v, want empty array", n, v.String())
		}
	}
}

func TestFlatSortReverse(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "sort(3, 1, 2)")
	if v.String() != "[1, 2, 3]" {
		t.Fatalf("got %v", v.String())
	}
	v = eval(t, it, "reverse(1, 2, 3)")
	if v.String() != "[3, 2, 1]" {
		t.Fatalf("got %v", v.String())
	}
}

func TestUniqueAndUniq(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "unique(1, 2, 1, 3, 2)")
	if v.String() != "[1, 2, 3]" {
		t.Fatalf("unique: got %v", v.String())
	}
	v = eval(t, it, "uniq(1, 1, 2, 2, 1)")
	if v.String() != "[1, 2, 1]" {
		t.Fatalf("uniq: got %v", v.String())
	}
}

func TestMinMax(t *testing.T) {
	it := newTestInterpreter(t)
	if v := eval(t, it, "min(3, 1, 2)"); v.Num.String() != "1" {
		t.Fatalf("got %v", v.String())
	}
	if v := eval(t, it, "max(3, 1, 2)"); v.Num.String() != "3" {
		t.Fatalf("got %v", v.String())
	}
}

func TestRotate(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "rotate(1, 1, 2, 3)")
	if v.String() != "[2, 3, 1]" {
		t.Fatalf("got %v", v.String())
	}
}

func TestMapAndFold(t *testing.T) {
	it := newTestInterpreter(t)
	eval(t, it, "double = (x | x * 2)")
	v := eval(t, it, "map double (flat(1, 2, 3))")
	if v.String() != "[2, 4, 6]" {
		t.Fatalf("map: got %v", v.String())
	}
	eval(t, it, "add = (a, b | a + b)")
	v = eval(t, it, "fold add (flat(1, 2, 3, 4))")
	if v.Num.String() != "10" {
		t.Fatalf("fold: got %v", v.String())
	}
}

func TestForAccumulatesLastResult(t *testing.T) {
	it := newTestInterpreter(t)
	eval(t, it, "total = 0")
	eval(t, it, "accumulate = (x | total += x)")
	v := eval(t, it, "for (flat(1, 2, 3)) accumulate")
	if v.Num.String() != "6" {
		t.Fatalf("got %v", v.String())
	}
}

func TestWhileAsFunctionCall(t *testing.T) {
	it := newTestInterpreter(t)
	eval(t, it, "i = 0")
	eval(t, it, "while (i < 5) (i += 1)")
	if v := eval(t, it, "i"); v.Num.String() != "5" {
		t.Fatalf("got %v", v.String())
	}
}

func TestTryFallsBackToLastOnFailure(t *testing.T) {
	it := newTestInterpreter(t)
	eval(t, it, "fails = (| undefined_name)")
	eval(t, it, "fallback = (| 42)")
	v := eval(t, it, "try(fails, fallback)")
	if v.Num.String() != "42" {
		t.Fatalf("got %v", v.String())
	}
}

func TestChordBuiltinDropsPauses(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "chord(c, p, e)")
	if v.Kind != value.KChord || len(v.Chord.Notes) != 2 {
		t.Fatalf("got %v", v.String())
	}
}

func TestSetLenSetOct(t *testing.T) {
	it := newTestInterpreter(t)
	v := eval(t, it, "set_len(1/8, c)")
	if v.Kind != value.KChord || v.Chord.Notes[0].Length.String() != "1/8" {
		t.Fatalf("set_len: got %v", v.String())
	}
	v = eval(t, it, "set_oct(5, c)")
	if v.Kind != value.KChord || *v.Chord.Notes[0].Octave != 5 {
		t.Fatalf("set_oct: got %v", v.String())
	}
}

func TestTypeofAndHash(t *testing.T) {
	it := newTestInterpreter(t)
	if v := eval(t, it, "typeof(1)"); v.Kind != value.KSymbol || v.Sym != "Number" {
		t.Fatalf("got %v", v.String())
	}
	a := eval(t, it, "hash(1, 2)")
	b := eval(t, it, "hash(1, 2)")
	if !a.Num.Equal(b.Num) {
		t.Fatalf("hash not deterministic: %v vs %v", a.String(), b.String())
	}
}
