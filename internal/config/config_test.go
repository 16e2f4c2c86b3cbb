package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	contents := `
[midi]
port = IAC Driver Bus 1

[defaults]
octave = 5
length = 1/8
bpm = 96

[repl]
history_file = ~/.musique_history
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MIDIPort != "IAC Driver Bus 1" {
		t.Errorf("MIDIPort = %q", cfg.MIDIPort)
	}
	if cfg.DefaultOctave != 5 {
		t.Errorf("DefaultOctave = %d", cfg.DefaultOctave)
	}
	if cfg.DefaultLength != "1/8" {
		t.Errorf("DefaultLength = %q", cfg.DefaultLength)
	}
	if cfg.DefaultBPM != 96 {
		t.Errorf("DefaultBPM = %d", cfg.DefaultBPM)
	}
	if cfg.HistoryFile != "~/.musique_history" {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
}
