package builtin

import (
	"musique/internal/interp"
	"musique/internal/number"
	"musique/internal/value"
)

// registerContext wires `bpm`, `oct`, and `len`'s context-accessor
// behavior: zero arguments reads the current value, one Number argument
// assigns it.
func registerContext(it *interp.Interpreter) {
	define(it, "bpm", func(c value.Caller, args []value.Value) (value.Value, error) {
		return ctxIntProperty(self(c), args, "bpm",
			func(ctx *interp.Interpreter) int { return ctx.Context.BPM },
			func(ctx *interp.Interpreter, v int) { ctx.Context.BPM = v })
	})
	define(it, "oct", func(c value.Caller, args []value.Value) (value.Value, error) {
		return ctxIntProperty(self(c), args, "oct",
			func(ctx *interp.Interpreter) int { return ctx.Context.Octave },
			func(ctx *interp.Interpreter, v int) { ctx.Context.Octave = v })
	})
	define(it, "len", func(c value.Caller, args []value.Value) (value.Value, error) {
		it := self(c)
		if len(args) == 1 && isCollection(args[0]) {
			return value.NewNumber(number.Int(int64(args[0].Size()))), nil
		}
		return ctxNumberProperty(it, args, "len",
			func(ctx *interp.Interpreter) number.Number { return ctx.Context.Length },
			func(ctx *interp.Interpreter, v number.Number) { ctx.Context.Length = v })
	})
}

func ctxIntProperty(it *interp.Interpreter, args []value.Value, name string, get func(*interp.Interpreter) int, set func(*interp.Interpreter, int)) (value.Value, error) {
	if len(args) == 0 {
		return value.NewNumber(number.Int(int64(get(it)))), nil
	}
	n, ok := asInt(args[0])
	if !ok {
		return value.Nil, arityError(name, "() -> number", "(number) -> number")
	}
	set(it, n)
	return value.NewNumber(number.Int(int64(n))), nil
}

func ctxNumberProperty(it *interp.Interpreter, args []value.Value, name string, get func(*interp.Interpreter) number.Number, set func(*interp.Interpreter, number.Number)) (value.Value, error) {
	if len(args) == 0 {
		return value.NewNumber(get(it)), nil
	}
	if args[0].Kind != value.KNumber {
		return value.Nil, arityError(name, "() -> number", "(number) -> number")
	}
	set(it, args[0].Num)
	return args[0], nil
}
