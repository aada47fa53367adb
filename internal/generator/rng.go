package generator

import "hash/fnv"

// Rand is a small xorshift64* generator seeded from a string. It is not safe
// for concurrent use; every generation pass owns its own instance.
type Rand struct {
	state uint64
}

// NewRand hashes seed into the initial state. The same seed always yields the
// same sequence.
func NewRand(seed string) *Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	state := h.Sum64()
	if state == 0 {
		state = 0x9E3779B97F4A7C15
	}
	r := &Rand{state: state}
	for i := 0; i < 4; i++ {
		r.Uint64()
	}
	return r
}

// Uint64 returns the next value in the sequence.
func (r *Rand) Uint64() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 2685821657736338717
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

// Pick returns a random element, or "" for an empty list.
func (r *Rand) Pick(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[r.Intn(len(list))]
}
