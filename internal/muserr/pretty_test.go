package muserr

import (
	"strings"
	"testing"

	"musique/internal/srcrange"
)

func TestPrettyIncludesLineAndCaret(t *testing.T) {
	source := "let x = 1\nlet y = ~\n"
	r := srcrange.Range{Filename: "t", Start: 18, Stop: 19}
	e := At(r, UnrecognizedCharacter, "invalid byte")
	out := Pretty(e, source)
	if !strings.Contains(out, "ERROR at t:18") {
		t.Fatalf("missing location header: %s", out)
	}
	if !strings.Contains(out, "let y = ~") {
		t.Fatalf("missing source line: %s", out)
	}
	if !strings.Contains(out, "|         ^") {
		t.Fatalf("missing caret under column 8: %s", out)
	}
	if !strings.Contains(out, "this byte does not start any valid token") {
		t.Fatalf("missing advice line: %s", out)
	}
}

func TestPrettyWithoutRangeOmitsSourceLine(t *testing.T) {
	e := New(MissingVariable, "x")
	out := Pretty(e, "")
	if !strings.Contains(out, "<unknown location>") {
		t.Fatalf("got %s", out)
	}
}

func TestLineAtFindsLineAndColumn(t *testing.T) {
	source := "abc\ndef\nghi"
	line, col, text := lineAt(source, 5)
	if line != 2 || col != 1 || text != "def" {
		t.Fatalf("got line=%d col=%d text=%q", line, col, text)
	}
}
