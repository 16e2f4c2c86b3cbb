package builtin

import (
	"musique/internal/ast"
	"musique/internal/interp"
	"musique/internal/value"
)

func registerHigherOrder(it *interp.Interpreter) {
	define(it, "for", forBuiltin)
	define(it, "map", mapBuiltin)
	define(it, "fold", foldBuiltin)
	define(it, "scan", scanBuiltin)
	define(it, "call", callBuiltin)
	defineMacro(it, "while", whileMacro)
	define(it, "try", tryBuiltin)
}

// forBuiltin applies a callback to every element of a collection in turn,
// returning the callback's last result, per builtin_for.
func forBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) != 2 || !isCollection(args[0]) || !isCallable(args[1]) {
		return value.Nil, arityError("for", "(array, callback) -> any")
	}
	collection, fn := args[0], args[1]
	var result value.Value
	for i := 0; i < collection.Size(); i++ {
		e, err := collection.Index(i)
		if err != nil {
			return value.Nil, err
		}
		result, err = fn.Call(it, []value.Value{e})
		if err != nil {
			return value.Nil, err
		}
	}
	return result, nil
}

// mapBuiltin applies its callback to every flattened element across the
// remaining arguments, flattening one level of collection structure first
// and calling the callback on bare scalars directly, per builtin_map.
func mapBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) == 0 || !isCallable(args[0]) {
		return value.Nil, arityError("map", "(callback, array...) -> array")
	}
	fn := args[0]

	var out []value.Value
	for _, a := range args[1:] {
		if isCollection(a) {
			for i := 0; i < a.Size(); i++ {
				e, err := a.Index(i)
				if err != nil {
					return value.Nil, err
				}
				r, err := fn.Call(it, []value.Value{e})
				if err != nil {
					return value.Nil, err
				}
				out = append(out, r)
			}
		} else {
			r, err := fn.Call(it, []value.Value{a})
			if err != nil {
				return value.Nil, err
			}
			out = append(out, r)
		}
	}
	return value.NewArray(out), nil
}

// foldBuiltin reduces a flattened argument list left to right, seeding the
// accumulator with the first element, per builtin_fold.
func foldBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) == 0 || !isCallable(args[0]) {
		return value.Nil, arityError("fold", "(callback, ...values) -> any")
	}
	fn := args[0]
	xs, err := flatten(it, args[1:])
	if err != nil {
		return value.Nil, err
	}
	if len(xs) == 0 {
		return value.Nil, nil
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc, err = fn.Call(it, []value.Value{acc, x})
		if err != nil {
			return value.Nil, err
		}
	}
	return acc, nil
}

// scanBuiltin computes an inclusive running fold over a flattened argument
// list, replacing each element in place with the callback applied to the
// previous result and itself, per builtin_scan.
func scanBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) == 0 || !isCallable(args[0]) {
		return value.Nil, arityError("scan", "(callback, ...array) -> array")
	}
	fn := args[0]
	xs, err := flatten(it, args[1:])
	if err != nil {
		return value.Nil, err
	}
	for i := 1; i < len(xs); i++ {
		xs[i], err = fn.Call(it, []value.Value{xs[i-1], xs[i]})
		if err != nil {
			return value.Nil, err
		}
	}
	return value.NewArray(xs), nil
}

// callBuiltin invokes its first argument with the rest as arguments, per
// builtin_call.
func callBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) == 0 || !isCallable(args[0]) {
		return value.Nil, arityError("call", "(function, ...any) -> any")
	}
	return args[0].Call(it, args[1:])
}

// whileMacro repeatedly evaluates body while cond stays truthy, per
// builtin_while.
func whileMacro(c value.Caller, args []*ast.Node, callEnv *value.Env) (value.Value, error) {
	it := self(c)
	if len(args) != 2 {
		return value.Nil, arityError("while", "(any, function) -> any")
	}
	for {
		cond, err := it.Eval(args[0])
		if err != nil {
			return value.Nil, err
		}
		if !cond.Truthy() {
			return value.Nil, nil
		}
		if _, err := it.Eval(branchBody(args[1])); err != nil {
			return value.Nil, err
		}
	}
}

func branchBody(n *ast.Node) *ast.Node {
	if n.Type == ast.Block {
		return n.Body()
	}
	return n
}

// tryBuiltin calls every argument but the last, falling back to the last
// if any earlier call fails; a lone argument is called with its error, if
// any, swallowed, per builtin_try.
func tryBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) == 0 {
		return value.Nil, arityError("try", "(...function) -> any")
	}
	for _, a := range args {
		if !isCallable(a) {
			return value.Nil, arityError("try", "(...function) -> any")
		}
	}

	if len(args) == 1 {
		v, err := args[0].Call(it, nil)
		if err != nil {
			return value.Nil, nil
		}
		return v, nil
	}

	var success value.Value
	for i := 0; i+1 < len(args); i++ {
		v, err := args[i].Call(it, nil)
		if err != nil {
			return args[len(args)-1].Call(it, nil)
		}
		success = v
	}
	return success, nil
}
