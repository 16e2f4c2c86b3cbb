package value

import (
	"musique/internal/ast"
	"musique/internal/env"
	"musique/internal/muserr"
)

// Env is the name environment a Block closes over. It is an instantiation
// of the generic internal/env.Environment, parameterized on Value, so that
// internal/env never has to import internal/value (which would cycle back
// through Block's closure field) — see DESIGN.md for the full rationale.
type Env = env.Environment[Value]

// Block is a parameterized, lexically-scoped chunk of code: the
// `(params | body)` lambda form, a bare `(body)` group (zero params), and
// the implicit top-level program all become Blocks at evaluation time.
type Block struct {
	Params  []string
	Body    *ast.Node
	Closure *Env
}

// Caller is the minimal interface internal/value needs back from the
// evaluator to invoke a Block's body or a Macro's unevaluated arguments,
// without internal/value importing internal/interp (which imports
// internal/value for its evaluation results — importing it back would
// cycle).
type Caller interface {
	CallBlock(b *Block, args []Value) (Value, error)
	CallMacro(m Macro, args []*ast.Node, callEnv *Env) (Value, error)
}

// IntrinsicFunc is a built-in function implemented in Go, receiving its
// already-evaluated arguments.
type IntrinsicFunc func(c Caller, args []Value) (Value, error)

// Intrinsic names and wraps an IntrinsicFunc so error messages and `doc`
// output can refer to it by name.
type Intrinsic struct {
	Name string
	Fn   IntrinsicFunc
}

// MacroFunc is a built-in that receives its arguments unevaluated, for
// control-flow forms like `while` that must decide whether and
// how many times to evaluate each argument themselves.
type MacroFunc func(c Caller, args []*ast.Node, callEnv *Env) (Value, error)

// Macro names and wraps a MacroFunc.
type Macro struct {
	Name string
	Fn   MacroFunc
}

var callSignatures = []string{"Block(...)", "Intrinsic(...)", "Chord(...)"}

// Call dispatches v's callable protocol (spec.md §4.5's "operator()"),
// matching value.hh's per-kind Value::operator() overloads: Blocks recurse
// back into the evaluator via Caller, Intrinsics call straight into Go,
// Chords run their own builder logic, and everything else is not callable.
func (v Value) Call(c Caller, args []Value) (Value, error) {
	switch v.Kind {
	case KBlock:
		return c.CallBlock(v.Block, args)
	case KIntrinsic:
		return v.Intrinsic.Fn(c, args)
	case KChord:
		return v.Chord.Call(args)
	default:
		return Nil, muserr.UnsupportedTypes("call", []string{v.TypeName()}, callSignatures)
	}
}

var indexSignatures = []string{"(Array, Number)", "(Chord, Number)", "(Set, Number)"}

// Index implements positional indexing for the collection kinds, per
// Value::index in value.hh.
func (v Value) Index(i int) (Value, error) {
	switch v.Kind {
	case KArray:
		if i < 0 || i >= len(v.Array) {
			return Nil, muserr.New(muserr.OutOfRange, "index %d out of range for array of length %d", i, len(v.Array))
		}
		return v.Array[i], nil
	case KChord:
		if i < 0 || i >= len(v.Chord.Notes) {
			return Nil, muserr.New(muserr.OutOfRange, "index %d out of range for chord of %d notes", i, len(v.Chord.Notes))
		}
		return NewChord(Chord{Notes: []Note{v.Chord.Notes[i]}}), nil
	case KSet:
		e, ok := v.Set.At(i)
		if !ok {
			return Nil, muserr.New(muserr.OutOfRange, "index %d out of range for set of size %d", i, v.Set.Len())
		}
		return e, nil
	default:
		return Nil, muserr.UnsupportedTypes("index", []string{v.TypeName()}, indexSignatures)
	}
}

// Size returns v's element count for the collection kinds, and 1 for any
// scalar (matching chord.cc's "a single note is a chord of size one"
// convention generalized to every non-collection kind), 0 for Nil.
func (v Value) Size() int {
	switch v.Kind {
	case KNil:
		return 0
	case KArray:
		return len(v.Array)
	case KChord:
		return len(v.Chord.Notes)
	case KSet:
		return v.Set.Len()
	default:
		return 1
	}
}
