package interp

import (
	"musique/internal/muserr"
	"musique/internal/number"
	"musique/internal/value"
)

// registerOperators builds the global operator table, grounded on
// original_source/musique/interpreter/builtin_operators.cc's Operators
// array: one Intrinsic per token, a shared vectorization fallback, and a
// `matchChordNumber` helper for the Number/Chord overloads of `+`, `-`, and
// `*`.
//
// Generalization beyond the C++ source: there, collection-op-collection
// falls straight to the unsupported-types error for every operator except
// `&`; here, per spec.md §4.6's explicit "if both are collections but sizes
// differ, the operator error is reported" (implying same-size collections
// DO map pairwise), same-size collections of any kinds are vectorized
// elementwise for every arithmetic and comparison operator. This is a
// deliberate widening of the stated spec rule over the narrower legacy
// overload list, recorded in DESIGN.md.
func (it *Interpreter) registerOperators() {
	it.Operators["+"] = value.Intrinsic{Name: "+", Fn: plusMinus(it, "+", func(a, b int) int { return a + b }, func(a, b number.Number) number.Number { return a.Add(b) })}
	it.Operators["-"] = value.Intrinsic{Name: "-", Fn: plusMinus(it, "-", func(a, b int) int { return a - b }, func(a, b number.Number) number.Number { return a.Sub(b) })}
	it.Operators["*"] = value.Intrinsic{Name: "*", Fn: it.multiplication()}
	it.Operators["/"] = value.Intrinsic{Name: "/", Fn: binaryNumeric(it, "/", 1, func(a, b number.Number) (number.Number, error) { return a.Div(b) })}
	it.Operators["%"] = value.Intrinsic{Name: "%", Fn: binaryNumeric(it, "%", 1, func(a, b number.Number) (number.Number, error) { return a.Mod(b) })}
	it.Operators["**"] = value.Intrinsic{Name: "**", Fn: binaryNumeric(it, "**", 1, func(a, b number.Number) (number.Number, error) { return a.Pow(b) })}

	it.Operators["=="] = value.Intrinsic{Name: "==", Fn: comparison(it, "==", func(a, b value.Value) bool { return value.Equal(a, b) })}
	it.Operators["!="] = value.Intrinsic{Name: "!=", Fn: comparison(it, "!=", func(a, b value.Value) bool { return !value.Equal(a, b) })}
	it.Operators["<"] = value.Intrinsic{Name: "<", Fn: orderedComparison(it, "<", func(c int) bool { return c < 0 })}
	it.Operators["<="] = value.Intrinsic{Name: "<=", Fn: orderedComparison(it, "<=", func(c int) bool { return c <= 0 })}
	it.Operators[">"] = value.Intrinsic{Name: ">", Fn: orderedComparison(it, ">", func(c int) bool { return c > 0 })}
	it.Operators[">="] = value.Intrinsic{Name: ">=", Fn: orderedComparison(it, ">=", func(c int) bool { return c >= 0 })}

	it.Operators["."] = value.Intrinsic{Name: ".", Fn: indexOperator}
	it.Operators["&"] = value.Intrinsic{Name: "&", Fn: concatOperator}
}

func isCollection(v value.Value) bool {
	return v.Kind == value.KArray || v.Kind == value.KChord || v.Kind == value.KSet
}

// vectorize maps a two-argument intrinsic over a scalar/collection or
// matching-size collection/collection pair.
func (it *Interpreter) vectorize(op value.IntrinsicFunc, lhs, rhs value.Value) (value.Value, error) {
	lc, rc := isCollection(lhs), isCollection(rhs)
	switch {
	case lc && rc:
		n := lhs.Size()
		if n != rhs.Size() {
			return value.Nil, muserr.New(muserr.UnsupportedTypesFor, "mismatched collection sizes %d and %d", n, rhs.Size())
		}
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			le, _ := lhs.Index(i)
			re, _ := rhs.Index(i)
			v, err := op(it, []value.Value{le, re})
			if err != nil {
				return value.Nil, err
			}
			out[i] = v
		}
		return value.NewArray(out), nil
	case lc:
		n := lhs.Size()
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			le, _ := lhs.Index(i)
			v, err := op(it, []value.Value{le, rhs})
			if err != nil {
				return value.Nil, err
			}
			out[i] = v
		}
		return value.NewArray(out), nil
	case rc:
		n := rhs.Size()
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			re, _ := rhs.Index(i)
			v, err := op(it, []value.Value{lhs, re})
			if err != nil {
				return value.Nil, err
			}
			out[i] = v
		}
		return value.NewArray(out), nil
	default:
		return value.Nil, muserr.New(muserr.UnsupportedTypesFor, "neither operand is a collection")
	}
}

var arithmeticSignatures = []string{"(number, number) -> number", "(array, number) -> array", "(number, array) -> array"}

// binaryNumeric folds args left-to-right through fn, vectorizing whenever
// exactly one operand (or two matching-size collections) are involved.
// identity is returned for a zero-arity call, matching binary_operator's
// empty-args convention.
func binaryNumeric(it *Interpreter, name string, identity int64, fn func(a, b number.Number) (number.Number, error)) value.IntrinsicFunc {
	step := func(c value.Caller, pair []value.Value) (value.Value, error) {
		lhs, rhs := pair[0], pair[1]
		if lhs.Kind == value.KNumber && rhs.Kind == value.KNumber {
			res, err := fn(lhs.Num, rhs.Num)
			if err != nil {
				return value.Nil, muserr.New(muserr.Arithmetic, "%s", err)
			}
			return value.NewNumber(res), nil
		}
		if isCollection(lhs) || isCollection(rhs) {
			return it.vectorize(step, lhs, rhs)
		}
		return value.Nil, muserr.UnsupportedTypes(name, []string{lhs.TypeName(), rhs.TypeName()}, arithmeticSignatures)
	}
	var fnOuter value.IntrinsicFunc
	fnOuter = func(c value.Caller, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewNumber(number.Int(identity)), nil
		}
		acc := args[0]
		for _, rhs := range args[1:] {
			var err error
			acc, err = step(c, []value.Value{acc, rhs})
			if err != nil {
				return value.Nil, err
			}
		}
		return acc, nil
	}
	return fnOuter
}

var plusMinusSignatures = []string{
	"(number, number) -> number",
	"(music, number) -> music",
	"(number, music) -> music",
	"(array, number|music) -> array",
	"(number|music, array) -> array",
}

// plusMinus implements `+`/`-`: Number arithmetic, Number<->Chord semitone
// shift (re-normalizing each shifted note), and vectorization otherwise.
func plusMinus(it *Interpreter, name string, intOp func(a, b int) int, numOp func(a, b number.Number) number.Number) value.IntrinsicFunc {
	var step value.IntrinsicFunc
	step = func(c value.Caller, pair []value.Value) (value.Value, error) {
		lhs, rhs := pair[0], pair[1]
		if lhs.Kind == value.KNumber && rhs.Kind == value.KNumber {
			return value.NewNumber(numOp(lhs.Num, rhs.Num)), nil
		}
		if chord, num, ok := matchChordNumber(lhs, rhs); ok {
			return value.NewChord(shiftChord(chord, num, intOp)), nil
		}
		if isCollection(lhs) || isCollection(rhs) {
			return it.vectorize(step, lhs, rhs)
		}
		return value.Nil, muserr.UnsupportedTypes(name, []string{lhs.TypeName(), rhs.TypeName()}, plusMinusSignatures)
	}
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewNumber(number.Int(0)), nil
		}
		acc := args[0]
		for _, rhs := range args[1:] {
			var err error
			acc, err = step(c, []value.Value{acc, rhs})
			if err != nil {
				return value.Nil, err
			}
		}
		return acc, nil
	}
}

// matchChordNumber recognizes a (Chord, Number) pair in either order,
// matching builtin_operators.cc's `symetric<Chord, Number>` helper.
func matchChordNumber(lhs, rhs value.Value) (value.Chord, number.Number, bool) {
	if lhs.Kind == value.KChord && rhs.Kind == value.KNumber {
		return lhs.Chord, rhs.Num, true
	}
	if rhs.Kind == value.KChord && lhs.Kind == value.KNumber {
		return rhs.Chord, lhs.Num, true
	}
	return value.Chord{}, number.Number{}, false
}

func shiftChord(c value.Chord, n number.Number, intOp func(a, b int) int) value.Chord {
	semitones := int(n.Floor().Num)
	notes := make([]value.Note, len(c.Notes))
	for i, note := range c.Notes {
		if note.Base != nil {
			shifted := intOp(*note.Base, semitones)
			note.Base = &shifted
			note.Simplify()
		}
		notes[i] = note
	}
	return value.Chord{Notes: notes}
}

var multiplySignatures = append(append([]string{}, arithmeticSignatures...),
	"(repeat: number, what: music) -> array of music",
	"(what: music, repeat: number) -> array of music")

// multiplication implements `*`: Number arithmetic, Number<->Chord repeat
// (builds an array of `floor(n)` copies of the chord), and vectorization
// otherwise.
func (it *Interpreter) multiplication() value.IntrinsicFunc {
	var step value.IntrinsicFunc
	step = func(c value.Caller, pair []value.Value) (value.Value, error) {
		lhs, rhs := pair[0], pair[1]
		if lhs.Kind == value.KNumber && rhs.Kind == value.KNumber {
			return value.NewNumber(lhs.Num.Mul(rhs.Num)), nil
		}
		if chord, n, ok := matchChordNumber(lhs, rhs); ok {
			count := int(n.Floor().Num)
			if count < 0 {
				count = 0
			}
			out := make([]value.Value, count)
			for i := range out {
				out[i] = value.NewChord(chord)
			}
			return value.NewArray(out), nil
		}
		if isCollection(lhs) || isCollection(rhs) {
			return it.vectorize(step, lhs, rhs)
		}
		return value.Nil, muserr.UnsupportedTypes("*", []string{lhs.TypeName(), rhs.TypeName()}, multiplySignatures)
	}
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewNumber(number.Int(1)), nil
		}
		acc := args[0]
		for _, rhs := range args[1:] {
			var err error
			acc, err = step(c, []value.Value{acc, rhs})
			if err != nil {
				return value.Nil, err
			}
		}
		return acc, nil
	}
}

// comparison implements `==`/`!=`: whole-value comparison, vectorized when
// exactly one operand is a collection (or pairwise over matching-size
// collections), per spec.md §4.6.
func comparison(it *Interpreter, name string, pred func(a, b value.Value) bool) value.IntrinsicFunc {
	var step value.IntrinsicFunc
	step = func(c value.Caller, pair []value.Value) (value.Value, error) {
		lhs, rhs := pair[0], pair[1]
		if isCollection(lhs) || isCollection(rhs) {
			return it.vectorize(step, lhs, rhs)
		}
		return value.NewBool(pred(lhs, rhs)), nil
	}
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return pairwiseAll(args, pred)
		}
		return step(c, args)
	}
}

// orderedComparison implements `<`,`<=`,`>`,`>=`: only same-kind ordered
// values compare; anything else is Unsupported-Types-For.
func orderedComparison(it *Interpreter, name string, accept func(cmp int) bool) value.IntrinsicFunc {
	var step value.IntrinsicFunc
	step = func(c value.Caller, pair []value.Value) (value.Value, error) {
		lhs, rhs := pair[0], pair[1]
		if isCollection(lhs) || isCollection(rhs) {
			return it.vectorize(step, lhs, rhs)
		}
		cmp, ok := value.Compare(lhs, rhs)
		if !ok {
			return value.Nil, muserr.UnsupportedTypes(name, []string{lhs.TypeName(), rhs.TypeName()}, []string{"(number, number)", "(symbol, symbol)", "(music, music)"})
		}
		return value.NewBool(accept(cmp)), nil
	}
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return pairwiseAllOrdered(args, accept)
		}
		return step(c, args)
	}
}

// pairwiseAll implements algo::pairwise_all: true iff pred holds between
// every adjacent pair in args.
func pairwiseAll(args []value.Value, pred func(a, b value.Value) bool) (value.Value, error) {
	for i := 0; i+1 < len(args); i++ {
		if !pred(args[i], args[i+1]) {
			return value.NewBool(false), nil
		}
	}
	return value.NewBool(true), nil
}

func pairwiseAllOrdered(args []value.Value, accept func(cmp int) bool) (value.Value, error) {
	for i := 0; i+1 < len(args); i++ {
		cmp, ok := value.Compare(args[i], args[i+1])
		if !ok || !accept(cmp) {
			return value.NewBool(false), nil
		}
	}
	return value.NewBool(true), nil
}

var indexSignatures = []string{"array . bool -> bool", "array . number -> any", "array . (array of numbers) -> array"}

// indexOperator implements `.`: Collection.Number -> element,
// Collection.Bool -> element 0/1, Collection.(Collection of indices) ->
// gathered array.
func indexOperator(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Nil, muserr.New(muserr.UnsupportedTypesFor, "%s", "index operator expects exactly two arguments")
	}
	coll, idx := args[0], args[1]
	if !isCollection(coll) {
		return value.Nil, muserr.UnsupportedTypes(".", []string{coll.TypeName(), idx.TypeName()}, indexSignatures)
	}
	switch idx.Kind {
	case value.KNumber:
		return coll.Index(int(idx.Num.Floor().Num))
	case value.KBool:
		if idx.Bool {
			return coll.Index(1)
		}
		return coll.Index(0)
	default:
		if isCollection(idx) {
			n := idx.Size()
			out := make([]value.Value, 0, n)
			for i := 0; i < n; i++ {
				iv, err := idx.Index(i)
				if err != nil {
					return value.Nil, err
				}
				var at int
				switch iv.Kind {
				case value.KNumber:
					at = int(iv.Num.Floor().Num)
				case value.KBool:
					if iv.Bool {
						at = 1
					}
				default:
					continue
				}
				ev, err := coll.Index(at)
				if err != nil {
					return value.Nil, err
				}
				out = append(out, ev)
			}
			return value.NewArray(out), nil
		}
	}
	return value.Nil, muserr.UnsupportedTypes(".", []string{coll.TypeName(), idx.TypeName()}, indexSignatures)
}

var concatSignatures = []string{"(array, array) -> array", "(music, music) -> music"}

// concatOperator implements `&`: Chord×Chord unions their notes; any other
// collection pair concatenates into a flat array.
func concatOperator(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) == 2 && args[0].Kind == value.KChord && args[1].Kind == value.KChord {
		notes := append(append([]value.Note{}, args[0].Chord.Notes...), args[1].Chord.Notes...)
		return value.NewChord(value.Chord{Notes: notes}), nil
	}
	var out []value.Value
	for _, a := range args {
		if !isCollection(a) {
			return value.Nil, muserr.UnsupportedTypes("&", []string{a.TypeName()}, concatSignatures)
		}
		n := a.Size()
		for i := 0; i < n; i++ {
			v, err := a.Index(i)
			if err != nil {
				return value.Nil, err
			}
			out = append(out, v)
		}
	}
	return value.NewArray(out), nil
}
