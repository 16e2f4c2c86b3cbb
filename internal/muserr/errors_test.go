package muserr

import (
	"errors"
	"testing"

	"musique/internal/srcrange"
)

func TestAttachOnlySetsOnceInnermostWins(t *testing.T) {
	e := New(MissingVariable, "x")
	inner := srcrange.Range{Filename: "f", Start: 5, Stop: 6}
	outer := srcrange.Range{Filename: "f", Start: 0, Stop: 10}
	e.Attach(inner)
	e.Attach(outer)
	if e.Range != inner {
		t.Fatalf("got %+v, want innermost range %+v", e.Range, inner)
	}
}

func TestHasRange(t *testing.T) {
	e := New(MissingVariable, "x")
	if e.HasRange() {
		t.Fatal("fresh error should have no range")
	}
	e.Attach(srcrange.Range{Filename: "f", Start: 1, Stop: 2})
	if !e.HasRange() {
		t.Fatal("after Attach, HasRange should be true")
	}
}

func TestAsAndIsKind(t *testing.T) {
	var err error = At(srcrange.Zero, NotCallable, "cannot call %s", "nil")
	e, ok := As(err)
	if !ok || e.Kind != NotCallable {
		t.Fatalf("got %+v, %v", e, ok)
	}
	if !IsKind(err, NotCallable) {
		t.Fatal("IsKind should report true for a matching kind")
	}
	if IsKind(err, MissingVariable) {
		t.Fatal("IsKind should report false for a mismatched kind")
	}
	if IsKind(errors.New("plain"), NotCallable) {
		t.Fatal("IsKind should report false for a non-*Error")
	}
}

func TestUnsupportedTypesMessage(t *testing.T) {
	e := UnsupportedTypes("+", []string{"Chord", "Bool"}, []string{"(Number, Number)", "(Array, Array)"})
	if e.Kind != UnsupportedTypesFor {
		t.Fatalf("got %v", e.Kind)
	}
	if len(e.Signatures) != 2 {
		t.Fatalf("got %+v", e.Signatures)
	}
}

func TestErrorStringIncludesKindAndDetails(t *testing.T) {
	e := New(OutOfRange, "index 5 of length 3")
	s := e.Error()
	if s != "out of range: index 5 of length 3" {
		t.Fatalf("Error() = %q, want kind and details", s)
	}
}
