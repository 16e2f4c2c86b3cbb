package interp

import (
	"testing"

	"musique/internal/muserr"
	"musique/internal/parser"
	"musique/internal/value"
)

func evalSource(t *testing.T, it *Interpreter, src string) value.Value {
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

func TestArithmeticLiteral(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "1 + 2 * 3")
	if v.Kind != value.KNumber || v.Num.String() != "7" {
		t.Fatalf("got %v", v.String())
	}
}

func TestVarDeclAndLookup(t *testing.T) {
	it := New("test")
	evalSource(t, it, "x = 5")
	v := evalSource(t, it, "x + 1")
	if v.Num.String() != "6" {
		t.Fatalf("got %v", v.String())
	}
}

func TestMissingVariableErrors(t *testing.T) {
	it := New("test")
	n, err := parser.Parse("test", "undefined_name")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := it.Eval(n); err == nil {
		t.Fatal("expected an error for an undefined name")
	}
}

func TestIfTrueBranch(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "if true then 1 else 2 end")
	if v.Num.String() != "1" {
		t.Fatalf("got %v", v.String())
	}
}

func TestIfFalseBranch(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "if false then 1 else 2 end")
	if v.Num.String() != "2" {
		t.Fatalf("got %v", v.String())
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "false and (1/0)")
	if v.Truthy() {
		t.Fatalf("got %v, want falsy without evaluating the right side", v.String())
	}
	v = evalSource(t, it, "true or (1/0)")
	if !v.Truthy() {
		t.Fatalf("got %v, want truthy without evaluating the right side", v.String())
	}
}

func TestBlockCallBindsParameters(t *testing.T) {
	it := New("test")
	evalSource(t, it, "double = (x | x * 2)")
	v := evalSource(t, it, "double(21)")
	if v.Num.String() != "42" {
		t.Fatalf("got %v", v.String())
	}
}

func TestCompoundAssignment(t *testing.T) {
	it := New("test")
	evalSource(t, it, "x = 10")
	v := evalSource(t, it, "x += 5")
	if v.Num.String() != "15" {
		t.Fatalf("got %v", v.String())
	}
}

func TestAssignToNonSymbolReportsLiteralAsIdentifier(t *testing.T) {
	it := New("test")
	n, err := parser.Parse("test", "1 = 2")
	if err != nil {
		t.Fatal(err)
	}
	_, evalErr := it.Eval(n)
	e, ok := muserr.As(evalErr)
	if !ok || e.Kind != muserr.LiteralAsIdentifier {
		t.Fatalf("got %v, want a LiteralAsIdentifier error", evalErr)
	}
}

func TestCompoundAssignToNonSymbolReportsLiteralAsIdentifier(t *testing.T) {
	it := New("test")
	n, err := parser.Parse("test", "1 += 2")
	if err != nil {
		t.Fatal(err)
	}
	_, evalErr := it.Eval(n)
	e, ok := muserr.As(evalErr)
	if !ok || e.Kind != muserr.LiteralAsIdentifier {
		t.Fatalf("got %v, want a LiteralAsIdentifier error", evalErr)
	}
}

func TestCompoundAssignmentOnMissingVariableErrors(t *testing.T) {
	it := New("test")
	n, err := parser.Parse("test", "y += 5")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := it.Eval(n); err == nil {
		t.Fatal("expected a missing-variable error")
	}
}

func TestNoteLengthConstantsArePreregistered(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "qn")
	if v.Kind != value.KNumber || v.Num.String() != "1/4" {
		t.Fatalf("got %v", v.String())
	}
}

func TestQuotedOperatorYieldsIntrinsic(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "'+")
	if v.Kind != value.KIntrinsic || v.Intrinsic.Name != "+" {
		t.Fatalf("got %v", v.String())
	}
}

func TestSequenceReturnsLastValue(t *testing.T) {
	it := New("test")
	v := evalSource(t, it, "1\n2\n3")
	if v.Num.String() != "3" {
		t.Fatalf("got %v", v.String())
	}
}
