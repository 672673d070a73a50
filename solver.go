package kangaroo

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Thread and distinguished-bit bounds. Out-of-range requests are clamped
// with a warning rather than rejected.
const (
	MinThreads = 1
	MaxThreads = 64
	MinDPBits  = 8
	MaxDPBits  = 32
)

// Solver coordinates a pool of tame and wild kangaroo walks over a
// bounded interval of the secp256k1 scalar field. Configure it with
// Initialize, run it with Start/Stop, observe it with Stats.
type Solver struct {
	mu sync.Mutex // lifecycle: Initialize, Start, Stop, checkpoints

	// Frozen at Initialize.
	target     *Point
	rangeStart *Scalar
	rangeEnd   *Scalar
	threads    int
	dpBits     int
	dpMask     uint64
	jumps      *jumpTable

	table *dpTable

	totalJumps     atomic.Uint64
	dpCount        atomic.Uint64
	collisions     atomic.Uint64
	falsePositives atomic.Uint64
	running        atomic.Bool
	solved         atomic.Bool

	solution *Scalar // guarded by table.mu; written once, before solved

	startedAt   time.Time
	wg          sync.WaitGroup
	initialized bool
	restored    bool // a checkpoint was loaded; next Start keeps its state
}

// NewSolver returns an unconfigured solver.
func NewSolver() *Solver {
	return &Solver{table: newDPTable()}
}

// Initialize parses and validates the target public key and search
// interval, clamps the worker and distinguished-point parameters, and
// precomputes the jump table. The configuration is frozen afterwards;
// reconfiguring requires a stopped solver and another Initialize.
func (s *Solver) Initialize(pubkeyHex, startHex, endHex string, threads, dpBits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrAlreadyRunning
	}

	target, err := ParsePoint(pubkeyHex)
	if err != nil {
		return err
	}
	if target.IsInfinity() {
		return fmt.Errorf("%w: point at infinity", ErrInvalidPubKey)
	}
	start, err := ScalarFromHex(startHex)
	if err != nil {
		return fmt.Errorf("%w: bad start %q", ErrInvalidRange, startHex)
	}
	end, err := ScalarFromHex(endHex)
	if err != nil {
		return fmt.Errorf("%w: bad end %q", ErrInvalidRange, endHex)
	}
	if start.Cmp(end) >= 0 {
		return fmt.Errorf("%w: start >= end", ErrInvalidRange)
	}

	if threads < MinThreads || threads > MaxThreads {
		clamped := clamp(threads, MinThreads, MaxThreads)
		log.Warn("Thread count out of bounds, clamped", "requested", threads, "using", clamped)
		threads = clamped
	}
	if dpBits < MinDPBits || dpBits > MaxDPBits {
		clamped := clamp(dpBits, MinDPBits, MaxDPBits)
		log.Warn("Distinguished bits out of bounds, clamped", "requested", dpBits, "using", clamped)
		dpBits = clamped
	}

	s.target = target
	s.rangeStart = start
	s.rangeEnd = end
	s.threads = threads
	s.dpBits = dpBits
	s.dpMask = (1 << uint(dpBits)) - 1
	s.jumps = newJumpTable(start, end)
	s.initialized = true
	s.restored = false

	log.Info("Kangaroo solver initialized",
		"rangeStart", start.Hex(), "rangeEnd", end.Hex(),
		"threads", threads, "dpBits", dpBits, "jumps", jumpTableSize)
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Start spawns the worker pool: even-numbered workers walk tame,
// odd-numbered wild. It fails when the solver is unconfigured or already
// running. Counters and the distinguished-point table are reset unless
// the state was just restored from a checkpoint.
func (s *Solver) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if s.running.Load() {
		return ErrAlreadyRunning
	}

	if s.restored {
		// Keep the loaded DP table and counters; walkers reseed.
		s.restored = false
	} else {
		s.table.clear()
		s.totalJumps.Store(0)
		s.dpCount.Store(0)
		s.collisions.Store(0)
		s.falsePositives.Store(0)
	}
	s.setSolution(nil)
	s.solved.Store(false)
	s.startedAt = time.Now()
	s.running.Store(true)

	s.wg.Add(s.threads)
	for i := 0; i < s.threads; i++ {
		go s.runWorker(i)
	}

	log.Info("Kangaroo solver started", "threads", s.threads)
	return nil
}

// Stop flips the running flag and joins every worker. It is idempotent
// and returns once no worker goroutine is left.
func (s *Solver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return
	}
	s.running.Store(false)
	s.wg.Wait()
	log.Info("Kangaroo solver stopped", "totalJumps", s.totalJumps.Load(), "dps", s.dpCount.Load())
}

// Close stops the solver. It exists so owners with teardown semantics
// (the flat C interface, defer chains) have an explicit destructor.
func (s *Solver) Close() {
	s.Stop()
}

// IsRunning reports whether Start has been called without a matching
// Stop.
func (s *Solver) IsRunning() bool {
	return s.running.Load()
}

// IsSolved reports whether a verified solution has been found.
func (s *Solver) IsSolved() bool {
	return s.solved.Load()
}

// Solution returns the verified private key, or nil while unsolved.
func (s *Solver) Solution() *Scalar {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()
	if s.solution == nil {
		return nil
	}
	return s.solution.Clone()
}

func (s *Solver) setSolution(k *Scalar) {
	s.table.mu.Lock()
	s.solution = k
	s.table.mu.Unlock()
}

// offer publishes a distinguished point and reacts to the outcome. It
// returns true when the walk proved a solution and should exit. The
// point at infinity is never distinguished.
func (s *Solver) offer(p *Point, distance *Scalar, tame bool) bool {
	if p.IsInfinity() {
		return false
	}
	outcome, key := s.table.publish(p, distance, tame, s.elapsedSeconds(), s.verifyCandidate)
	switch outcome {
	case PublishStored:
		n := s.dpCount.Add(1)
		if n%10000 == 0 {
			log.Debug("Distinguished points accumulated", "count", n)
		}
	case PublishSolved:
		s.collisions.Add(1)
		s.solved.Store(true)
		log.Info("Collision verified, key found", "key", key.Hex())
		return true
	case PublishFalsePositive:
		s.collisions.Add(1)
		s.falsePositives.Add(1)
		log.Debug("Collision failed verification", "point", p.Key())
	}
	return false
}

// verifyCandidate runs under the DP-table lock: it checks the derived
// key against the target and records the first verified solution, so the
// solution write happens before any observer can see solved == true.
func (s *Solver) verifyCandidate(candidate *Scalar) bool {
	if !ScalarBaseMult(candidate).Equal(s.target) {
		return false
	}
	if s.solution == nil {
		s.solution = candidate.Clone()
	}
	return true
}

func (s *Solver) elapsedSeconds() uint64 {
	if s.startedAt.IsZero() {
		return 0
	}
	return uint64(time.Since(s.startedAt).Seconds())
}

// Stats returns a snapshot of the run. Counters are read individually;
// progress reporting only needs eventual visibility.
func (s *Solver) Stats() Stats {
	st := Stats{
		TotalJumps:          s.totalJumps.Load(),
		DistinguishedPoints: s.dpCount.Load(),
		CollisionsFound:     s.collisions.Load(),
		ElapsedSeconds:      s.elapsedSeconds(),
		Solved:              s.solved.Load(),
	}
	if s.rangeStart != nil {
		st.RangeStart = s.rangeStart.Hex()
		st.RangeEnd = s.rangeEnd.Hex()
	}
	if s.running.Load() {
		st.ThreadsActive = s.threads
	}
	if st.Solved {
		if k := s.Solution(); k != nil {
			st.FoundKey = k.Hex()
		}
	}
	return st
}
