package builtin

import (
	"sort"

	"musique/internal/interp"
	"musique/internal/number"
	"musique/internal/value"
)

func registerCollection(it *interp.Interpreter) {
	define(it, "flat", flatBuiltin)
	define(it, "sort", sortBuiltin)
	define(it, "reverse", reverseBuiltin)
	define(it, "shuffle", shuffleBuiltin)
	define(it, "permute", permuteBuiltin)
	define(it, "pick", pickBuiltin)
	define(it, "rotate", rotateBuiltin)
	define(it, "unique", uniqueBuiltin)
	define(it, "uniq", uniqBuiltin)
	define(it, "min", minBuiltin)
	define(it, "max", maxBuiltin)
	define(it, "partition", partitionBuiltin)
	define(it, "update", updateBuiltin)
	define(it, "mix", mixBuiltin)
	define(it, "digits", digitsBuiltin)
}

func flatBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	return value.NewArray(flat), nil
}

func sortBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	sort.SliceStable(flat, func(i, j int) bool {
		cmp, ok := value.Compare(flat[i], flat[j])
		return ok && cmp < 0
	})
	return value.NewArray(flat), nil
}

func reverseBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	for i, j := 0, len(flat)-1; i < j; i, j = i+1, j-1 {
		flat[i], flat[j] = flat[j], flat[i]
	}
	return value.NewArray(flat), nil
}

// shuffleBuiltin performs an in-place Fisher-Yates shuffle, drawing its
// swap indices from processRand's manual uniform sampler rather than
// math/rand.Shuffle.
func shuffleBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	for i := len(flat) - 1; i > 0; i-- {
		j := processRand.uniformIntn(i + 1)
		flat[i], flat[j] = flat[j], flat[i]
	}
	return value.NewArray(flat), nil
}

// permuteBuiltin advances its flattened argument list to the lexicographic
// next permutation, per std::next_permutation — cycling back to ascending
// order once the last permutation is reached.
func permuteBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	nextPermutation(flat)
	return value.NewArray(flat), nil
}

func nextPermutation(a []value.Value) {
	n := len(a)
	if n < 2 {
		return
	}
	i := n - 2
	for i >= 0 {
		cmp, ok := value.Compare(a[i], a[i+1])
		if ok && cmp < 0 {
			break
		}
		i--
	}
	if i < 0 {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			a[l], a[r] = a[r], a[l]
		}
		return
	}
	j := n - 1
	for {
		cmp, ok := value.Compare(a[i], a[j])
		if ok && cmp < 0 {
			break
		}
		j--
	}
	a[i], a[j] = a[j], a[i]
	for l, r := i+1, n-1; l < r; l, r = l+1, r-1 {
		a[l], a[r] = a[r], a[l]
	}
}

func pickBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	if len(flat) == 0 {
		return value.NewArray(nil), nil
	}
	return flat[processRand.uniformIntn(len(flat))], nil
}

func rotateBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) == 0 || args[0].Kind != value.KNumber {
		return value.Nil, arityError("rotate", "(number, ...array) -> array")
	}
	offset := int(args[0].Num.Floor().Num)
	flat, err := flatten(self(c), args[1:])
	if err != nil {
		return value.Nil, err
	}
	n := len(flat)
	if n == 0 {
		return value.NewArray(flat), nil
	}
	offset = ((offset % n) + n) % n
	rotated := make([]value.Value, n)
	for i := range flat {
		rotated[i] = flat[(i+offset)%n]
	}
	return value.NewArray(rotated), nil
}

func uniqueBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	var out []value.Value
	for _, v := range flat {
		seen := false
		for _, s := range out {
			if value.Equal(s, v) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return value.NewArray(out), nil
}

func uniqBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat, err := flatten(self(c), args)
	if err != nil {
		return value.Nil, err
	}
	var out []value.Value
	for i, v := range flat {
		if i > 0 && value.Equal(flat[i-1], v) {
			continue
		}
		out = append(out, v)
	}
	return value.NewArray(out), nil
}

func minBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat := deepFlat(args)
	if len(flat) == 0 {
		return value.Nil, nil
	}
	best := flat[0]
	for _, v := range flat[1:] {
		if cmp, ok := value.Compare(v, best); ok && cmp < 0 {
			best = v
		}
	}
	return best, nil
}

func maxBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	flat := deepFlat(args)
	if len(flat) == 0 {
		return value.Nil, nil
	}
	best := flat[0]
	for _, v := range flat[1:] {
		if cmp, ok := value.Compare(v, best); ok && cmp > 0 {
			best = v
		}
	}
	return best, nil
}

func partitionBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) == 0 || !isCallable(args[0]) {
		return value.Nil, arityError("partition", "(function, ...array) -> array")
	}
	predicate := args[0]
	flat, err := flatten(it, args[1:])
	if err != nil {
		return value.Nil, err
	}
	var yes, no []value.Value
	for _, v := range flat {
		result, err := predicate.Call(it, []value.Value{v})
		if err != nil {
			return value.Nil, err
		}
		if result.Truthy() {
			yes = append(yes, v)
		} else {
			no = append(no, v)
		}
	}
	return value.NewArray([]value.Value{value.NewArray(yes), value.NewArray(no)}), nil
}

func updateBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	it := self(c)
	if len(args) != 3 || args[1].Kind != value.KNumber {
		return value.Nil, arityError("update", "(array, index: number, value) -> array")
	}
	idx := int(args[1].Num.Floor().Num)

	var elems []value.Value
	switch args[0].Kind {
	case value.KArray:
		elems = append([]value.Value{}, args[0].Array...)
	case value.KBlock:
		flat, err := flatten(it, []value.Value{args[0]})
		if err != nil {
			return value.Nil, err
		}
		elems = flat
	default:
		return value.Nil, arityError("update", "(array, index: number, value) -> array")
	}

	if idx < 0 || idx >= len(elems) {
		return value.Nil, arityError("update", "(array, index: number, value) -> array")
	}
	elems[idx] = args[2]
	return value.NewArray(elems), nil
}

// mixBuiltin round-robin interleaves its arguments, cycling each collection
// argument over and continuing until every collection argument has been
// exhausted at least once, per builtin_mix.
func mixBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	var out []value.Value
	cursor := make([]int, len(args))
	remaining := 0
	for _, a := range args {
		if isCollection(a) {
			remaining++
		}
	}
	if remaining == 0 {
		return value.NewArray(append([]value.Value{}, args...)), nil
	}
	for remaining > 0 {
		for i, a := range args {
			if !isCollection(a) {
				out = append(out, a)
				continue
			}
			n := a.Size()
			e, err := a.Index(cursor[i] % n)
			if err != nil {
				return value.Nil, err
			}
			out = append(out, e)
			cursor[i]++
			if cursor[i] == n {
				remaining--
			}
		}
	}
	return value.NewArray(out), nil
}

// digitsBuiltin converts each flattened Number argument to base-10 digits,
// following repeating fractional digits via a seen-value guard, per
// append_digits.
func digitsBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	const base = 10
	var digits []int64

	for _, v := range deepFlat(args) {
		if v.Kind != value.KNumber {
			continue
		}
		n := v.Num
		integerPart := n.Num / n.Den
		frac := number.New(n.Num-integerPart*n.Den, n.Den)

		start := len(digits)
		ip := integerPart
		if ip == 0 {
			digits = append(digits, 0)
		}
		for ip != 0 {
			digits = append(digits, ip%base)
			ip /= base
		}
		for l, r := start, len(digits)-1; l < r; l, r = l+1, r-1 {
			digits[l], digits[r] = digits[r], digits[l]
		}

		if frac.Den != 1 {
			seen := map[number.Number]bool{}
			for !frac.IsZero() && !seen[frac] {
				seen[frac] = true
				frac = number.New(frac.Num*base, frac.Den)
				digit := frac.Floor().Num
				digits = append(digits, digit)
				frac = number.New(frac.Num-digit*frac.Den, frac.Den)
			}
		}
	}

	out := make([]value.Value, len(digits))
	for i, d := range digits {
		out[i] = value.NewNumber(number.Int(d))
	}
	return value.NewArray(out), nil
}

func isCallable(v value.Value) bool {
	return v.Kind == value.KBlock || v.Kind == value.KIntrinsic || v.Kind == value.KMacro || v.Kind == value.KChord
}
