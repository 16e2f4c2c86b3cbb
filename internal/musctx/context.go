// Package musctx implements the Context defaults that drive note playback,
// per spec.md §4.7: default octave/length/bpm, filling in a Note's missing
// fields, and converting a length into a wall-clock duration.
package musctx

import (
	"time"

	"musique/internal/number"
	"musique/internal/value"
)

// Context holds default values for music related actions. It forms a parent
// chain: pushing a child context (e.g. for the duration of a `play` call)
// lets mutations of octave/length/bpm made inside that call fall away when
// the call returns, exactly the scoping `play` installs in the evaluator.
type Context struct {
	Octave int
	Length number.Number
	BPM    int

	Parent *Context
}

// New returns the top-level default context: octave 4, a quarter note, 120bpm
// — the same defaults context.hh hard-codes.
func New() *Context {
	return &Context{Octave: 4, Length: number.New(1, 4), BPM: 120}
}

// Child pushes a new context inheriting c's current defaults, so the callee
// can freely mutate its own octave/length/bpm without affecting c.
func (c *Context) Child() *Context {
	return &Context{Octave: c.Octave, Length: c.Length, BPM: c.BPM, Parent: c}
}

// Fill populates a Note's missing octave/length from c's defaults.
func (c *Context) Fill(n value.Note) value.Note {
	if n.Octave == nil {
		oct := c.Octave
		n.Octave = &oct
	}
	if n.Length == nil {
		l := c.Length
		n.Length = &l
	}
	return n
}

// LengthToDuration converts a note length into real time at c's current bpm:
// length.num * (60 / (bpm/4)) / length.den seconds, i.e. a length of 1 (a
// whole note) lasts four beats. A nil length uses c.Length.
func (c *Context) LengthToDuration(length *number.Number) time.Duration {
	l := c.Length
	if length != nil {
		l = *length
	}
	beatsPerSecond := float64(c.BPM) / 4.0
	seconds := l.Float64() * (60.0 / beatsPerSecond)
	return time.Duration(seconds * float64(time.Second))
}
