// Package config loads musique's INI configuration file (spec.md §6): a
// `[section]`/`key = value` file with `#` trailing comments, resolved from a
// platform default directory. There is no config file in the teacher repo
// (ako-backing-tracks takes all its input from BTML track files), so this
// package is enrichment from the wider ecosystem rather than a direct port —
// see DESIGN.md for why gopkg.in/ini.v1 is named, not grounded.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config holds the settings musique's CLI/REPL read at startup: the
// preferred MIDI output port name, and the context defaults a session
// starts with (spec.md §3's Context, before any in-program `bpm`/`oct`/`len`
// call overrides them).
type Config struct {
	MIDIPort string

	DefaultOctave int
	DefaultLength string // e.g. "1/4", parsed by internal/number
	DefaultBPM    int

	HistoryFile string
}

// Default returns the built-in defaults, used when no config file exists.
func Default() Config {
	return Config{
		DefaultOctave: 4,
		DefaultLength: "1/4",
		DefaultBPM:    120,
	}
}

// DirPath resolves the platform-specific directory musique's config and
// session files live in: XDG on Unix, roaming AppData on Windows,
// Application Support on macOS — exactly what os.UserConfigDir documents,
// matching spec.md §6's three-OS bullet without hand-rolling the XDG spec.
func DirPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "musique"), nil
}

// FilePath is DirPath joined with "config.ini", musique's conventional
// config filename.
func FilePath() (string, error) {
	dir, err := DirPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.ini"), nil
}

// Load reads path as an INI file and overlays it on Default(). A missing
// file is not an error: Load returns the defaults unchanged, matching the
// teacher's SOUNDFONT-env-var-or-flag "optional override" posture in
// main.go's parseArgs rather than demanding the file exist.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, err
	}

	if sec, err := f.GetSection("midi"); err == nil {
		if k, err := sec.GetKey("port"); err == nil {
			cfg.MIDIPort = k.String()
		}
	}

	if sec, err := f.GetSection("defaults"); err == nil {
		if k, err := sec.GetKey("octave"); err == nil {
			if v, err := k.Int(); err == nil {
				cfg.DefaultOctave = v
			}
		}
		if k, err := sec.GetKey("length"); err == nil {
			cfg.DefaultLength = k.String()
		}
		if k, err := sec.GetKey("bpm"); err == nil {
			if v, err := k.Int(); err == nil {
				cfg.DefaultBPM = v
			}
		}
	}

	if sec, err := f.GetSection("repl"); err == nil {
		if k, err := sec.GetKey("history_file"); err == nil {
			cfg.HistoryFile = k.String()
		}
	}

	return cfg, nil
}

// LoadDefaultPath locates the platform config file and loads it, returning
// Default() if none exists.
func LoadDefaultPath() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Default(), err
	}
	return Load(path)
}
