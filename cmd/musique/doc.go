package main

import (
	"fmt"
	"os"
	"sort"
)

// docEntries mirrors spec.md §4.8's grouping of the builtin library; each
// entry is the one-line summary `doc <name>` prints, grounded directly on
// the contract-level descriptions in that section rather than invented
// prose.
var docEntries = map[string]string{
	"bpm":            "bpm [n] — with no args, returns the current BPM; with a Number, sets and returns it.",
	"oct":            "oct [n] — with no args, returns the current default octave; with a Number, sets and returns it.",
	"len":            "len [n] — with no args, returns the current default length; with a Number, sets and returns it.",
	"floor":          "floor x — round x down to an integer-valued Number.",
	"ceil":           "ceil x — round x up to an integer-valued Number.",
	"round":          "round x — round x to the nearest integer, half away from zero.",
	"range":          "range start stop step — array of Numbers from start to stop (exclusive) by step.",
	"up":             "up n — alias for range 0 n 1.",
	"down":           "down n — descending array from n-1 down to 0.",
	"nprimes":        "nprimes n — array of the first n primes for n >= 2 (empty for n <= 1), via a sieve with an analytic upper bound.",
	"flat":           "flat xs... — flattens one level of Array/Block/Set/Chord structure into a single Array.",
	"sort":           "sort xs — a sorted copy of the collection.",
	"reverse":        "reverse xs — a reversed copy of the collection.",
	"shuffle":        "shuffle xs — a randomly permuted copy, using musique's portable deterministic RNG.",
	"permute":        "permute xs — the next lexicographic permutation of xs, wrapping back to ascending order after the last one.",
	"rotate":         "rotate n xs — xs rotated left by n positions.",
	"unique":         "unique xs — xs with every repeated element removed, keeping first occurrences.",
	"uniq":           "uniq xs — xs with consecutive duplicate elements collapsed.",
	"partition":      "partition pred xs — splits xs into (matching, non-matching) arrays by pred.",
	"min":            "min xs... — the smallest element across all (deeply flattened) arguments.",
	"max":            "max xs... — the largest element across all (deeply flattened) arguments.",
	"update":         "update xs i v — a copy of xs with index i replaced by v.",
	"mix":            "mix xs ys... — round-robin interleave of the given collections.",
	"digits":         "digits n — base-10 digits of n, with repeating-fraction detection.",
	"for":            "for xs f — call f on each element of xs in order, for side effects.",
	"map":            "map f xs... — elementwise application of f across one or more collections.",
	"fold":           "fold f init xs... — left fold of f over xs, starting from init.",
	"scan":           "scan f xs... — like fold, but returns every intermediate accumulator.",
	"call":           "call f args... — apply f to the given argument list.",
	"while":          "while cond body — repeat body while cond is truthy (macro: cond/body stay unevaluated between iterations).",
	"try":            "try body... handler — call each body in order; if one raises, call handler (with no arguments) and return its result; otherwise return the last body's result.",
	"chord":          "chord notes... — build a Chord from the given Notes.",
	"set_len":        "set_len n xs — a copy of xs (Chord or collection of Notes) with length n.",
	"set_oct":        "set_oct n xs — a copy of xs with octave n.",
	"duration":       "duration xs — sum of the lengths of every note in xs, chord members included; a note without a length counts as the current default length.",
	"play":           "play x — play x sequentially through the current MIDI port (spec.md §4.7).",
	"par":            "par sustain rest... — sustain a chord while playing the remaining arguments, then release it.",
	"sim":            "sim a b... — play every argument as an independent timeline in parallel, merged by time.",
	"program_change": "program_change [chan] prog — send a MIDI program change.",
	"pgmchange":      "pgmchange — alias for program_change.",
	"instrument":     "instrument [chan] prog — alias for program_change.",
	"note_on":        "note_on chan note/chord vel — send a raw MIDI note-on.",
	"note_off":       "note_off chan note/chord — send a raw MIDI note-off.",
	"typeof":         "typeof x — a Symbol naming x's variant (Number, Chord, Array, Block, ...).",
	"hash":           "hash xs... — a stable hash across every supported variant.",
	"pick":           "pick xs — one random element of xs, using musique's portable deterministic RNG.",
}

func showDoc(name string) int {
	if doc, ok := docEntries[name]; ok {
		fmt.Println(doc)
		return exitSuccess
	}
	fmt.Fprintf(os.Stderr, "no documentation for %q\n", name)
	fmt.Fprintln(os.Stderr, "known builtins:")
	names := make([]string, 0, len(docEntries))
	for n := range docEntries {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", n)
	}
	return exitRecoverable
}
