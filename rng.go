package kangaroo

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// newWalkRNG builds the per-worker generator: a fast non-cryptographic
// PRNG seeded from OS entropy XORed with the worker id, never shared
// across goroutines. The algorithm's correctness does not depend on the
// quality of this seeding.
func newWalkRNG(worker int) *mrand.Rand {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// Entropy failure degrades walk diversity, nothing else.
		binary.LittleEndian.PutUint64(seed[:8], 0x9E3779B97F4A7C15)
	}
	s1 := binary.LittleEndian.Uint64(seed[:8]) ^ uint64(worker)
	s2 := binary.LittleEndian.Uint64(seed[8:])
	return mrand.New(mrand.NewPCG(s1, s2))
}

// randInRange returns start + (rand64 mod (end - start)). The modulo
// bias is tolerated: it only reduces walk diversity slightly.
func randInRange(rng *mrand.Rand, start, end *Scalar) *Scalar {
	size := NewScalar().Sub(end, start)
	k := ScalarFromUint64(rng.Uint64())
	k.Mod(k, size)
	return k.Add(k, start)
}
