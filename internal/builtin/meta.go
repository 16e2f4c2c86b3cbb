package builtin

import (
	"hash/fnv"

	"musique/internal/interp"
	"musique/internal/number"
	"musique/internal/value"
)

func registerMeta(it *interp.Interpreter) {
	define(it, "typeof", typeofBuiltin)
	define(it, "hash", hashBuiltin)
}

func typeofBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Nil, arityError("typeof", "(any) -> symbol")
	}
	return value.NewSymbol(args[0].TypeName()), nil
}

// hashBuiltin combines each argument's FNV-1a hash with a boost-style
// hash_combine, per builtin_hash.
func hashBuiltin(c value.Caller, args []value.Value) (value.Value, error) {
	var h uint64
	for _, a := range args {
		sum := fnv.New64a()
		sum.Write([]byte(a.String()))
		h = hashCombine(h, sum.Sum64())
	}
	return value.NewNumber(number.Int(int64(h))), nil
}

func hashCombine(seed, v uint64) uint64 {
	const golden = 0x9e3779b97f4a7c15
	return seed ^ (v + golden + (seed << 6) + (seed >> 2))
}
