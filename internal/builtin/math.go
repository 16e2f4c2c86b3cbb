package builtin

import (
	"math"

	"musique/internal/interp"
	"musique/internal/number"
	"musique/internal/value"
)

func registerMath(it *interp.Interpreter) {
	define(it, "floor", numericTransform("floor", number.Number.Floor))
	define(it, "ceil", numericTransform("ceil", number.Number.Ceil))
	define(it, "round", numericTransform("round", number.Number.Round))

	define(it, "range", rangeBuiltin(true))
	define(it, "up", rangeBuiltin(true))
	define(it, "down", rangeBuiltin(false))

	define(it, "nprimes", nprimes)
}

// numericTransform applies fn to a lone Number argument, or element-wise
// across a flattened argument list, per apply_numeric_transform.
func numericTransform(name string, fn func(number.Number) number.Number) value.IntrinsicFunc {
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		it := self(c)
		if len(args) == 1 && args[0].Kind == value.KNumber {
			return value.NewNumber(fn(args[0].Num)), nil
		}
		flat, err := flatten(it, args)
		if err != nil {
			return value.Nil, err
		}
		out := make([]value.Value, len(flat))
		for i, v := range flat {
			if v.Kind != value.KNumber {
				return value.Nil, arityError(name, "(number | array of number...) -> number")
			}
			out[i] = value.NewNumber(fn(v.Num))
		}
		return value.NewArray(out), nil
	}
}

// rangeBuiltin implements `range`/`up`/`down`, per range<Range_Direction>.
func rangeBuiltin(ascending bool) value.IntrinsicFunc {
	return func(c value.Caller, args []value.Value) (value.Value, error) {
		start, stop, step := number.Int(0), number.Int(0), number.Int(1)
		switch len(args) {
		case 1:
			if args[0].Kind != value.KNumber {
				return value.Nil, arityError("range", "(stop: number) -> array")
			}
			stop = args[0].Num
		case 2:
			if args[0].Kind != value.KNumber || args[1].Kind != value.KNumber {
				return value.Nil, arityError("range", "(start, stop: number) -> array")
			}
			start, stop = args[0].Num, args[1].Num
		case 3:
			if args[0].Kind != value.KNumber || args[1].Kind != value.KNumber || args[2].Kind != value.KNumber {
				return value.Nil, arityError("range", "(start, stop, step: number) -> array")
			}
			start, stop, step = args[0].Num, args[1].Num, args[2].Num
		default:
			return value.Nil, arityError("range",
				"(stop: number) -> array of number",
				"(start, stop: number) -> array of number",
				"(start, stop, step: number) -> array of number")
		}

		var out []value.Value
		if ascending {
			for start.Cmp(stop) < 0 {
				out = append(out, value.NewNumber(start))
				start = start.Add(step)
			}
		} else {
			for stop.Cmp(start) > 0 {
				stop = stop.Sub(step)
				out = append(out, value.NewNumber(stop))
			}
		}
		return value.NewArray(out), nil
	}
}

// upperSieveBound estimates a sieve size guaranteed to contain n primes,
// per upper_sieve_bound_to_yield_n_primes's x ≈ n·ln(x) refinement.
func upperSieveBound(n int) int {
	if n < 4 {
		return 10
	}
	nf := float64(n)
	xprev := 0.0
	x := nf * math.Log(nf)
	for x-xprev > 0.5 {
		xprev = x
		x = nf * math.Log(x)
	}
	return int(math.Ceil(x))
}

// nprimes generates the first n primes via a Sieve of Eratosthenes, per
// builtin_primes.
func nprimes(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind != value.KNumber {
		return value.Nil, arityError("nprimes", "(number) -> array of number")
	}
	n := int(args[0].Num.Floor().Num)
	if n <= 1 {
		return value.NewArray(nil), nil
	}

	size := upperSieveBound(n)
	composite := make([]bool, size)
	for i := 2; i*i < size; i++ {
		if !composite[i] {
			for j := i * i; j < size; j += i {
				composite[j] = true
			}
		}
	}

	var out []value.Value
	for i := 2; i < size && len(out) < n; i++ {
		if !composite[i] {
			out = append(out, value.NewNumber(number.Int(int64(i))))
		}
	}
	return value.NewArray(out), nil
}
