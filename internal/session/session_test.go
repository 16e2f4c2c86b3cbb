package session

import (
	"path/filepath"
	"testing"

	"musique/internal/musctx"
	"musique/internal/number"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := musctx.New()
	ctx.Octave = 5
	ctx.Length = number.New(1, 8)
	ctx.BPM = 140

	snap := FromContext([]string{"play c", "bpm 140"}, ctx)
	path := filepath.Join(t.TempDir(), "session.yaml")

	if err := Save(path, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.History) != 2 || loaded.History[1] != "bpm 140" {
		t.Errorf("History = %v", loaded.History)
	}

	restored := musctx.New()
	if err := loaded.Apply(restored); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if restored.Octave != 5 || restored.BPM != 140 {
		t.Errorf("restored context = %+v", restored)
	}
	if restored.Length.Num != 1 || restored.Length.Den != 8 {
		t.Errorf("restored length = %v", restored.Length)
	}
}
