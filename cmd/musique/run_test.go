package main

import (
	"testing"

	"musique/internal/builtin"
	"musique/internal/interp"
	"musique/internal/midiport"
)

func newTestInterpreter() *interp.Interpreter {
	it := interp.New("<test>")
	it.Port = midiport.NewMemoryPort()
	builtin.Register(it)
	return it
}

func TestEvalSourceValueArithmetic(t *testing.T) {
	it := newTestInterpreter()
	v, err := evalSourceValue(it, "<test>", "1 + 2")
	if err != nil {
		t.Fatalf("evalSourceValue: %v", err)
	}
	if v.String() != "3" {
		t.Errorf("got %q, want %q", v.String(), "3")
	}
}

func TestEvalSourceValueMissingVariableReportsError(t *testing.T) {
	it := newTestInterpreter()
	_, err := evalSourceValue(it, "<test>", "nope")
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
	msg := reportErrorString(err, "nope")
	if msg == "" {
		t.Fatal("expected a non-empty pretty-printed message")
	}
}

func TestEvalSourceValuePlaysThroughMemoryPort(t *testing.T) {
	it := newTestInterpreter()
	port := it.Port.(*midiport.MemoryPort)

	if _, err := evalSourceValue(it, "<test>", "play c"); err != nil {
		t.Fatalf("evalSourceValue(play c): %v", err)
	}

	msgs := port.Messages()
	var sawOn, sawOff bool
	for _, m := range msgs {
		if m.Kind == "note_on" && m.NoteOrController == 60 {
			sawOn = true
		}
		if m.Kind == "note_off" && m.NoteOrController == 60 {
			sawOff = true
		}
	}
	if !sawOn || !sawOff {
		t.Errorf("expected note_on/note_off for MIDI note 60, got %+v", msgs)
	}
}
