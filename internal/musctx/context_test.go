package musctx

import (
	"testing"
	"time"

	"musique/internal/number"
	"musique/internal/value"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.Octave != 4 || c.BPM != 120 || !c.Length.Equal(number.New(1, 4)) {
		t.Fatalf("got %+v", c)
	}
}

func TestChildInheritsThenDiverges(t *testing.T) {
	c := New()
	child := c.Child()
	child.Octave = 5
	if c.Octave != 4 {
		t.Fatalf("mutating child leaked into parent: %+v", c)
	}
	if child.Parent != c {
		t.Fatal("child should record its parent")
	}
}

func TestFillPopulatesMissingFields(t *testing.T) {
	c := New()
	base := 0
	n := value.Note{Base: &base}
	filled := c.Fill(n)
	if filled.Octave == nil || *filled.Octave != 4 {
		t.Fatalf("got %+v", filled)
	}
	if filled.Length == nil || !filled.Length.Equal(number.New(1, 4)) {
		t.Fatalf("got %+v", filled)
	}
}

func TestFillLeavesPresentFieldsAlone(t *testing.T) {
	c := New()
	base, oct := 0, 6
	n := value.Note{Base: &base, Octave: &oct}
	filled := c.Fill(n)
	if *filled.Octave != 6 {
		t.Fatalf("got octave %d, want 6", *filled.Octave)
	}
}

func TestLengthToDurationQuarterNoteAt120BPM(t *testing.T) {
	c := New()
	d := c.LengthToDuration(nil)
	// quarter note at 120bpm = 0.5s
	if d < 490*time.Millisecond || d > 510*time.Millisecond {
		t.Fatalf("got %v, want ~500ms", d)
	}
}

func TestLengthToDurationWholeNote(t *testing.T) {
	c := New()
	whole := number.New(1, 1)
	d := c.LengthToDuration(&whole)
	if d < 1990*time.Millisecond || d > 2010*time.Millisecond {
		t.Fatalf("got %v, want ~2s", d)
	}
}
