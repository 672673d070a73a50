package kangaroo

import (
	"github.com/ethereum/go-ethereum/log"
)

const (
	// counterBatch is how many local steps a walker accumulates before
	// adding them to the shared jump counter.
	counterBatch = 10000

	// wildDistanceCapBits bounds a wild walk: once the accumulated
	// offset reaches 2^80 (bit length above 80) the walk restarts from
	// the target.
	wildDistanceCapBits = 80
)

// runWorker hosts one walker goroutine. Even ids walk tame, odd ids
// wild, which splits the pool evenly (one extra tame walker when the
// count is odd). A panic is confined to the worker so a single crash
// cannot poison the pool.
func (s *Solver) runWorker(id int) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error("Kangaroo worker crashed", "worker", id, "err", r)
		}
	}()

	if id%2 == 0 {
		s.tameWalk(id)
	} else {
		s.wildWalk(id)
	}
}

// tameWalk starts at a random offset k0 in the configured interval, so
// its cursor always knows the absolute scalar of the current point. When
// the distance leaves the productive window the walk reseeds.
func (s *Solver) tameWalk(id int) {
	rng := newWalkRNG(id)

	k0 := randInRange(rng, s.rangeStart, s.rangeEnd)
	cur := ScalarBaseMult(k0)
	dist := k0.Clone()

	var local uint64
	for s.running.Load() && !s.solved.Load() {
		if isDistinguished(cur, s.dpMask) {
			if s.offer(cur, dist, true) {
				break
			}
		}

		e := s.jumps.at(s.jumps.index(cur))
		cur = Add(cur, e.step)
		dist.Add(dist, e.delta)

		local++
		if local%counterBatch == 0 {
			s.totalJumps.Add(counterBatch)
		}

		if dist.Cmp(s.rangeEnd) > 0 {
			k0 = randInRange(rng, s.rangeStart, s.rangeEnd)
			cur = ScalarBaseMult(k0)
			dist = k0.Clone()
		}
	}
	s.totalJumps.Add(local % counterBatch)
}

// wildWalk starts at the target with offset zero, so its cursor tracks
// the distance relative to the unknown key. The walk restarts when the
// offset grows past the fixed cap.
func (s *Solver) wildWalk(id int) {
	cur := s.target.Clone()
	dist := NewScalar()

	var local uint64
	for s.running.Load() && !s.solved.Load() {
		if isDistinguished(cur, s.dpMask) {
			if s.offer(cur, dist, false) {
				break
			}
		}

		e := s.jumps.at(s.jumps.index(cur))
		cur = Add(cur, e.step)
		dist.Add(dist, e.delta)

		local++
		if local%counterBatch == 0 {
			s.totalJumps.Add(counterBatch)
		}

		if dist.BitLen() > wildDistanceCapBits {
			cur = s.target.Clone()
			dist = NewScalar()
		}
	}
	s.totalJumps.Add(local % counterBatch)
}
