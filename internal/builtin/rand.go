package builtin

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"
)

// splitmix64 is a small, fully self-contained generator used in place of
// math/rand for shuffle/pick: spec.md §4.8/§9 require a portable manual
// uniform-integer sampler rather than a host library's distribution (the
// original's builtin_shuffle/builtin_pick reach for std::mt19937 +
// std::uniform_int_distribution/std::shuffle, exactly the host-distribution
// dependency spec.md calls out by name). Its generation algorithm is the
// entire point: given the same 64-bit state, it produces the same sequence
// on every platform, independent of whatever the standard library's own
// generator happens to do release to release.
type splitmix64 struct {
	state uint64
}

// processRand is seeded once per process from real entropy, mirroring the
// original's `static std::mt19937 rnd{std::random_device{}()}` — entropy
// for the seed is fine to draw from the host; it's the distribution built
// on top of it that must be ours.
var processRand = &splitmix64{state: seedFromEntropy()}

func seedFromEntropy() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err == nil {
		return binary.LittleEndian.Uint64(buf[:])
	}
	return uint64(time.Now().UnixNano())
}

// next draws the generator's next raw 64-bit output.
func (r *splitmix64) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// uniformIntn draws a uniformly distributed int in [0, n) by rejection
// sampling: raw draws below 2^64 mod n are discarded and redrawn, so a
// plain `next() % n` on the rest does not over-represent low values.
func (r *splitmix64) uniformIntn(n int) int {
	if n <= 0 {
		return 0
	}
	limit := uint64(n)
	threshold := -limit % limit
	for {
		v := r.next()
		if v >= threshold {
			return int(v % limit)
		}
	}
}
