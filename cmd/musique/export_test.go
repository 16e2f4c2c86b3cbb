package main

import (
	"os"
	"path/filepath"
	"testing"

	"musique/internal/midiport"
)

func TestWriteSMFProducesNonEmptyFile(t *testing.T) {
	events := []midiport.TimelineEvent{
		{Kind: "note_on", Channel: 0, NoteOrController: 60, VelocityOrProgramVal: 100},
		{Kind: "note_off", Channel: 0, NoteOrController: 60, VelocityOrProgramVal: 0},
	}
	out := filepath.Join(t.TempDir(), "out.mid")
	if err := writeSMF(events, 120, out); err != nil {
		t.Fatalf("writeSMF: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat %s: %v", out, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", out)
	}
}

func TestExportFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "song.mq")
	if err := os.WriteFile(src, []byte("play c\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	out := filepath.Join(dir, "song.mid")

	code := exportFile(src, out, options{})
	if code != exitSuccess {
		t.Fatalf("exportFile = %d, want %d", code, exitSuccess)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat %s: %v", out, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", out)
	}
}
