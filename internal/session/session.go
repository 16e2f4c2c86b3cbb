// Package session implements the REPL's `:save`/`:load` meta-commands: a
// YAML snapshot of input history and the current Context defaults, using
// the same struct-tag unmarshal style parser/parser.go uses for BTML
// tracks. It deliberately does not attempt to serialize live Blocks or
// Environments — spec.md's Non-goals exclude persisting program state, and
// this stays within "convenience re-run of prior input," not arbitrary
// interpreter-state resurrection.
package session

import (
	"os"

	"gopkg.in/yaml.v3"

	"musique/internal/musctx"
	"musique/internal/number"
)

// Snapshot is the on-disk session format.
type Snapshot struct {
	History []string `yaml:"history"`

	Octave int    `yaml:"octave"`
	Length string `yaml:"length"`
	BPM    int    `yaml:"bpm"`
}

// FromContext captures history and ctx's current defaults into a Snapshot.
func FromContext(history []string, ctx *musctx.Context) Snapshot {
	return Snapshot{
		History: append([]string(nil), history...),
		Octave:  ctx.Octave,
		Length:  ctx.Length.String(),
		BPM:     ctx.BPM,
	}
}

// Apply overlays s's defaults onto ctx, matching whatever `oct`/`len`/`bpm`
// calls would have produced had the history been replayed from scratch.
func (s Snapshot) Apply(ctx *musctx.Context) error {
	ctx.Octave = s.Octave
	ctx.BPM = s.BPM
	if s.Length != "" {
		n, err := number.ParseFraction(s.Length)
		if err != nil {
			return err
		}
		ctx.Length = n
	}
	return nil
}

// Save writes s to path as YAML.
func Save(path string, s Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a Snapshot from path.
func Load(path string) (Snapshot, error) {
	var s Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}
