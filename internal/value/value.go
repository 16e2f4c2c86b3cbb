// Package value implements musique's runtime Value protocol from spec.md
// §4.5: a single tagged Value holding one of Nil, Bool, Number, Symbol,
// Chord, Array, Set, Block, Intrinsic, or Macro, plus the shared
// truthiness/equality/ordering/size/call/index operations every kind
// supports. The tagged-struct shape (one Kind field, one payload per case)
// mirrors internal/ast.Node rather than a sum-of-interfaces hierarchy, and
// is grounded on original_source/musique/value/value.hh's single
// `std::variant`-backed Value type.
package value

import (
	"fmt"

	"musique/internal/number"
)

// Kind tags which alternative a Value currently holds.
type Kind int

const (
	KNil Kind = iota
	KBool
	KNumber
	KSymbol
	KChord
	KArray
	KSet
	KBlock
	KIntrinsic
	KMacro
)

func (k Kind) String() string {
	switch k {
	case KNil:
		return "Nil"
	case KBool:
		return "Bool"
	case KNumber:
		return "Number"
	case KSymbol:
		return "Symbol"
	case KChord:
		return "Chord"
	case KArray:
		return "Array"
	case KSet:
		return "Set"
	case KBlock:
		return "Block"
	case KIntrinsic:
		return "Intrinsic"
	case KMacro:
		return "Macro"
	}
	return "Unknown"
}

// Value is musique's single runtime value representation. Exactly one of
// the payload fields is meaningful, selected by Kind.
type Value struct {
	Kind      Kind
	Bool      bool
	Num       number.Number
	Sym       string
	Chord     Chord
	Array     []Value
	Set       *Set
	Block     *Block
	Intrinsic Intrinsic
	Macro     Macro
}

// Nil is the single absent value, also musique's falsy default.
var Nil = Value{Kind: KNil}

func NewBool(b bool) Value            { return Value{Kind: KBool, Bool: b} }
func NewNumber(n number.Number) Value { return Value{Kind: KNumber, Num: n} }
func NewSymbol(s string) Value        { return Value{Kind: KSymbol, Sym: s} }
func NewChord(c Chord) Value          { return Value{Kind: KChord, Chord: c} }
func NewArray(vs []Value) Value       { return Value{Kind: KArray, Array: vs} }
func NewSet(s *Set) Value             { return Value{Kind: KSet, Set: s} }
func NewBlock(b *Block) Value         { return Value{Kind: KBlock, Block: b} }
func NewIntrinsic(i Intrinsic) Value  { return Value{Kind: KIntrinsic, Intrinsic: i} }
func NewMacro(m Macro) Value          { return Value{Kind: KMacro, Macro: m} }

// TypeName returns the name used in error messages and `doc` output.
func (v Value) TypeName() string { return v.Kind.String() }

// Truthy implements spec.md's truthiness rule: Nil and Bool-false are
// falsy; everything else, including the number zero, is truthy (matching
// Value::truthy()/falsy() in value.hh, which special-case only Nil and
// Bool rather than treating zero or empty collections as false).
func (v Value) Truthy() bool {
	switch v.Kind {
	case KNil:
		return false
	case KBool:
		return v.Bool
	default:
		return true
	}
}

// String renders v the way musique's REPL and `print` builtin would.
func (v Value) String() string {
	switch v.Kind {
	case KNil:
		return "nil"
	case KBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KNumber:
		return v.Num.String()
	case KSymbol:
		return v.Sym
	case KChord:
		return v.Chord.String()
	case KArray:
		out := "["
		for i, e := range v.Array {
			if i > 0 {
				out += ", "
			}
			out += e.String()
		}
		return out + "]"
	case KSet:
		return v.Set.String()
	case KBlock:
		return "block"
	case KIntrinsic:
		return fmt.Sprintf("intrinsic %s", v.Intrinsic.Name)
	case KMacro:
		return fmt.Sprintf("macro %s", v.Macro.Name)
	}
	return "?"
}
