package kangaroo

import "sync"

// isDistinguished reports whether the low dpBits of the x-coordinate are
// zero. mask is (1 << dpBits) - 1; dpBits is clamped to [8, 32] at
// configuration time, so inspecting the low 32 bits is sufficient.
func isDistinguished(p *Point, mask uint64) bool {
	return uint64(uint32(p.x.low64()))&mask == 0
}

// PublishOutcome is the result of offering a distinguished point to the
// table.
type PublishOutcome int

const (
	// PublishStored means the point was new and has been recorded.
	PublishStored PublishOutcome = iota

	// PublishDuplicate means an entry of the same kind already holds the
	// point; the table is unchanged.
	PublishDuplicate

	// PublishFalsePositive means an opposite-kind entry collided but the
	// derived key failed verification; the existing entry is kept.
	PublishFalsePositive

	// PublishSolved means an opposite-kind collision produced a verified
	// private key.
	PublishSolved
)

// dpEntry is one distinguished point with its walk lineage.
type dpEntry struct {
	point    *Point
	distance *Scalar
	tame     bool
	seenAt   uint64 // seconds into the run
}

// dpTable maps point identity to the first walk that reached it. A
// single mutex covers the whole publish transaction: lookup, conditional
// insert, and solution verification. Publishes occur with probability
// 2^-dpBits per step, so the coarse lock sees negligible contention.
type dpTable struct {
	mu      sync.Mutex
	entries map[string]*dpEntry
}

func newDPTable() *dpTable {
	return &dpTable{entries: make(map[string]*dpEntry)}
}

// publish offers (p, distance, tame) to the table. On an opposite-kind
// collision it derives the candidate key (tame distance minus wild
// distance, modulo the group order) and hands it to verify while still
// holding the lock, so the solved transition is atomic with respect to
// every other publisher. The stored entry owns copies of the caller's
// point and distance, which the walker keeps mutating.
func (t *dpTable) publish(p *Point, distance *Scalar, tame bool, seenAt uint64, verify func(candidate *Scalar) bool) (PublishOutcome, *Scalar) {
	key := p.Key()

	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.entries[key]
	if !ok {
		t.entries[key] = &dpEntry{
			point:    p.Clone(),
			distance: distance.Clone(),
			tame:     tame,
			seenAt:   seenAt,
		}
		return PublishStored, nil
	}
	if existing.tame == tame {
		return PublishDuplicate, nil
	}

	candidate := NewScalar()
	if tame {
		candidate.Sub(distance, existing.distance)
	} else {
		candidate.Sub(existing.distance, distance)
	}
	candidate.Mod(candidate, CurveN)

	if verify != nil && verify(candidate) {
		return PublishSolved, candidate
	}
	return PublishFalsePositive, nil
}

// size returns the number of stored entries.
func (t *dpTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// clear drops every entry.
func (t *dpTable) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]*dpEntry)
}

// snapshot returns a copy of every entry, in map order.
func (t *dpTable) snapshot() []dpEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]dpEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, dpEntry{
			point:    e.point.Clone(),
			distance: e.distance.Clone(),
			tame:     e.tame,
			seenAt:   e.seenAt,
		})
	}
	return out
}

// restore replaces the table contents with the given entries. Later
// duplicates of a key are dropped, preserving the at-most-one invariant.
func (t *dpTable) restore(entries []dpEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]*dpEntry, len(entries))
	for i := range entries {
		e := entries[i]
		key := e.point.Key()
		if _, ok := t.entries[key]; ok {
			continue
		}
		t.entries[key] = &e
	}
}
