package kangaroo

// jumpTableSize is the number of precomputed jumps. The jump index is a
// single byte of the x-coordinate, so 256 covers the selector exactly.
const jumpTableSize = 256

// jumpEntry pairs a jump distance with its precomputed step [delta]G.
type jumpEntry struct {
	delta *Scalar
	step  *Point
}

// jumpTable is the pseudorandom stepping function of the walk. It is
// built once at Initialize and immutable afterwards.
type jumpTable struct {
	entries [jumpTableSize]jumpEntry
}

// newJumpTable precomputes the jump set for the interval [start, end).
// With r the bit length of the interval, deltas are 2^max(1, r/2-8)+(i+1)
// so the mean jump is near sqrt(|range|)/256, the classical lambda
// trade-off.
func newJumpTable(start, end *Scalar) *jumpTable {
	size := NewScalar().Sub(end, start)
	rangeBits := size.BitLen()
	baseBits := rangeBits/2 - 8
	if baseBits < 1 {
		baseBits = 1
	}

	t := new(jumpTable)
	g := Generator()
	for i := 0; i < jumpTableSize; i++ {
		delta := NewScalar().Lsh(ScalarFromUint64(1), uint(baseBits))
		delta.Add(delta, ScalarFromUint64(uint64(i+1)))
		t.entries[i] = jumpEntry{
			delta: delta,
			step:  ScalarMult(delta, g),
		}
	}
	return t
}

// index selects the jump for the current point: the least significant
// byte of the x-coordinate. Equal points always yield equal indices.
func (t *jumpTable) index(p *Point) int {
	return int(p.x.low64() & 0xFF)
}

// at returns the i'th jump entry.
func (t *jumpTable) at(i int) jumpEntry {
	return t.entries[i]
}
