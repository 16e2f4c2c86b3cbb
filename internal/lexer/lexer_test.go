package lexer

import "testing"

func types(toks []Token) []Type {
	out := make([]Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestBasicPunctuation(t *testing.T) {
	toks, err := All("t", "(1, 2)\n")
	if err != nil {
		t.Fatal(err)
	}
	want := []Type{LeftParen, Numeric, Comma, Numeric, RightParen, Newline, EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestNumericTrailingDot(t *testing.T) {
	toks, err := All("t", "120.")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Type != Numeric || toks[0].Text != "120" {
		t.Fatalf("got %+v, want Numeric 120", toks[0])
	}
	if toks[1].Type != Operator || toks[1].Text != "." {
		t.Fatalf("got %+v, want Operator '.'", toks[1])
	}
}

func TestNumericFraction(t *testing.T) {
	toks, err := All("t", ".75")
	if err != nil {
		t.Fatal(err)
	}
	// A leading '.' with no integer part is not a numeric literal start;
	// it lexes as an operator followed by a numeric.
	if toks[0].Type != Operator {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestChordLiteral(t *testing.T) {
	toks, err := All("t", "c4")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Type != Chord || toks[0].Text != "c4" {
		t.Fatalf("got %+v, want Chord c4", toks[0])
	}
}

func TestChordReclassifiedAsSymbol(t *testing.T) {
	toks, err := All("t", "cello")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Type != Symbol || toks[0].Text != "cello" {
		t.Fatalf("got %+v, want Symbol cello", toks[0])
	}
}

func TestKeyword(t *testing.T) {
	toks, err := All("t", "if true then 1 else 2 end")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Type != Keyword || toks[0].Text != "if" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Type != Keyword || toks[1].Text != "true" {
		t.Fatalf("got %+v", toks[1])
	}
}

func TestQuotedSymbolNotKeyword(t *testing.T) {
	toks, err := All("t", "'if")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Type != Symbol {
		t.Fatalf("quoted keyword should stay a Symbol, got %+v", toks[0])
	}
}

func TestOperatorRun(t *testing.T) {
	toks, err := All("t", "a += b")
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Type != Operator || toks[1].Text != "+=" {
		t.Fatalf("got %+v, want Operator +=", toks[1])
	}
}

func TestLineComment(t *testing.T) {
	toks, err := All("t", "1 -- comment\n2")
	if err != nil {
		t.Fatal(err)
	}
	want := []Type{Numeric, Newline, Numeric, EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestBlockComment(t *testing.T) {
	toks, err := All("t", "1 ---- a - b -- comment ---- 2")
	if err != nil {
		t.Fatal(err)
	}
	want := []Type{Numeric, Numeric, EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := All("t", "1 --- never closed")
	if err == nil {
		t.Fatal("expected an error for unterminated block comment")
	}
}

func TestUnrecognizedCharacter(t *testing.T) {
	_, err := All("t", "1 ~ 2")
	if err == nil {
		t.Fatal("expected unrecognized character error")
	}
}

func TestParameterSeparator(t *testing.T) {
	toks, err := All("t", "(i | i + 1)")
	if err != nil {
		t.Fatal(err)
	}
	want := []Type{LeftParen, Symbol, Bar, Symbol, Operator, Numeric, RightParen, EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
