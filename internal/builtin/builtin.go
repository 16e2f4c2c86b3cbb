// Package builtin registers musique's standard library of intrinsics and
// macros (spec.md §4.8) onto an *interp.Interpreter. It depends on
// internal/interp (never the reverse): builtins that need more than the
// value.Caller contract type-assert back to *interp.Interpreter at the call
// site, grounded on
// original_source/musique/interpreter/builtin_functions.cc's
// Interpreter::register_builtin_functions.
package builtin

import (
	"musique/internal/interp"
	"musique/internal/muserr"
	"musique/internal/value"
)

// Register defines every builtin name in it's global environment.
func Register(it *interp.Interpreter) {
	registerContext(it)
	registerMath(it)
	registerCollection(it)
	registerHigherOrder(it)
	registerMusic(it)
	registerMeta(it)
}

func define(it *interp.Interpreter, name string, fn value.IntrinsicFunc) {
	it.Global.Define(name, value.NewIntrinsic(value.Intrinsic{Name: name, Fn: fn}))
}

func defineMacro(it *interp.Interpreter, name string, fn value.MacroFunc) {
	it.Global.Define(name, value.NewMacro(value.Macro{Name: name, Fn: fn}))
}

// self resolves c back to the concrete Interpreter; every builtin in this
// package needs at least Eval, Env, or Context, so there is no useful
// degraded path when the assertion fails (it never should, since
// internal/interp is the only value.Caller implementation musique wires
// up).
func self(c value.Caller) *interp.Interpreter {
	it, ok := c.(*interp.Interpreter)
	if !ok {
		panic("builtin: Caller is not *interp.Interpreter")
	}
	return it
}

func isCollection(v value.Value) bool {
	return v.Kind == value.KArray || v.Kind == value.KChord || v.Kind == value.KSet
}

// flatten expands one level of Array/Block/Set/Chord-of-notes structure,
// per into_flat_array: collections contribute their elements, a Block is
// called with no arguments then indexed over its body's result, everything
// else is appended as-is.
func flatten(it *interp.Interpreter, args []value.Value) ([]value.Value, error) {
	var out []value.Value
	for _, a := range args {
		switch {
		case a.Kind == value.KArray:
			out = append(out, a.Array...)
		case a.Kind == value.KBlock:
			v, err := it.CallBlock(a.Block, nil)
			if err != nil {
				return nil, err
			}
			if isCollection(v) {
				for i := 0; i < v.Size(); i++ {
					e, err := v.Index(i)
					if err != nil {
						return nil, err
					}
					out = append(out, e)
				}
			} else {
				out = append(out, v)
			}
		case isCollection(a):
			for i := 0; i < a.Size(); i++ {
				e, err := a.Index(i)
				if err != nil {
					return nil, err
				}
				out = append(out, e)
			}
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

// deepFlat recursively expands every Array/Set argument and every Chord of
// more than one note, per deep_flat — used by min/max/digits where nested
// structure must collapse all the way to scalars (a one-note Chord is kept
// as a scalar).
func deepFlat(args []value.Value) []value.Value {
	var out []value.Value
	for _, a := range args {
		if isCollection(a) && !(a.Kind == value.KChord && a.Size() == 1) {
			n := a.Size()
			sub := make([]value.Value, n)
			for i := 0; i < n; i++ {
				sub[i], _ = a.Index(i)
			}
			out = append(out, deepFlat(sub)...)
		} else {
			out = append(out, a)
		}
	}
	return out
}

func asInt(n value.Value) (int, bool) {
	if n.Kind != value.KNumber {
		return 0, false
	}
	return int(n.Num.Floor().Num), true
}

func arityError(name string, signatures ...string) error {
	return muserr.UnsupportedTypes(name, nil, signatures)
}
