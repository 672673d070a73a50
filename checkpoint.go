package kangaroo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// CheckpointVersion is the format version written into every snapshot.
const CheckpointVersion = "1.0.0"

// CheckpointDP is one serialized distinguished point. Point is the
// colon-joined canonical coordinate pair, Distance the hex walk offset.
type CheckpointDP struct {
	Point     string `json:"point"`
	Distance  string `json:"distance"`
	IsTame    bool   `json:"is_tame"`
	Timestamp uint64 `json:"timestamp"`
}

// Checkpoint is the self-describing on-disk snapshot of a run.
type Checkpoint struct {
	Version             string         `json:"version"`
	Timestamp           uint64         `json:"timestamp"`
	TotalJumps          uint64         `json:"total_jumps"`
	DistinguishedCount  uint64         `json:"distinguished_points_count"`
	RangeStart          string         `json:"range_start"`
	RangeEnd            string         `json:"range_end"`
	NumThreads          int            `json:"num_threads"`
	DistinguishedBits   int            `json:"distinguished_bits"`
	DistinguishedPoints []CheckpointDP `json:"distinguished_points"`
}

// SaveCheckpoint writes the current run state to path as indented JSON.
// Any prior file at path is first copied aside as
// <path>.backup.<unix-seconds>.
func (s *Solver) SaveCheckpoint(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}

	entries := s.table.snapshot()
	cp := Checkpoint{
		Version:             CheckpointVersion,
		Timestamp:           uint64(time.Now().Unix()),
		TotalJumps:          s.totalJumps.Load(),
		DistinguishedCount:  s.dpCount.Load(),
		RangeStart:          s.rangeStart.Hex(),
		RangeEnd:            s.rangeEnd.Hex(),
		NumThreads:          s.threads,
		DistinguishedBits:   s.dpBits,
		DistinguishedPoints: make([]CheckpointDP, 0, len(entries)),
	}
	for _, e := range entries {
		cp.DistinguishedPoints = append(cp.DistinguishedPoints, CheckpointDP{
			Point:     e.point.Key(),
			Distance:  e.distance.Hex(),
			IsTame:    e.tame,
			Timestamp: e.seenAt,
		})
	}

	data, err := json.MarshalIndent(&cp, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCheckpoint, err)
	}

	if prior, err := os.ReadFile(path); err == nil {
		backup := fmt.Sprintf("%s.backup.%d", path, time.Now().Unix())
		if err := os.WriteFile(backup, prior, 0o644); err != nil {
			log.Warn("Could not back up prior checkpoint", "path", backup, "err", err)
		} else {
			log.Info("Backed up prior checkpoint", "path", backup)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrCheckpoint, path, err)
	}
	log.Info("Checkpoint saved", "path", path, "dps", len(cp.DistinguishedPoints))
	return nil
}

// LoadCheckpoint reads a snapshot from path, validates it against the
// configured range and repopulates the DP table and counters. Walker
// cursors are not part of a snapshot; walkers reseed on the next Start.
// Loading a snapshot of a different range fails: the table is not
// portable across range changes.
func (s *Solver) LoadCheckpoint(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	if s.running.Load() {
		return ErrAlreadyRunning
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrCheckpoint, path, err)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrCheckpoint, path, err)
	}
	if cp.Version == "" {
		return fmt.Errorf("%w: missing version", ErrCheckpoint)
	}
	if !strings.EqualFold(cp.RangeStart, s.rangeStart.Hex()) ||
		!strings.EqualFold(cp.RangeEnd, s.rangeEnd.Hex()) {
		return fmt.Errorf("%w: range mismatch (snapshot %s-%s, configured %s-%s)",
			ErrCheckpoint, cp.RangeStart, cp.RangeEnd, s.rangeStart.Hex(), s.rangeEnd.Hex())
	}

	entries := make([]dpEntry, 0, len(cp.DistinguishedPoints))
	for i, dp := range cp.DistinguishedPoints {
		p, err := parsePointKey(dp.Point)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCheckpoint, i, err)
		}
		dist, err := ScalarFromHex(dp.Distance)
		if err != nil {
			return fmt.Errorf("%w: entry %d: bad distance %q", ErrCheckpoint, i, dp.Distance)
		}
		entries = append(entries, dpEntry{
			point:    p,
			distance: dist,
			tame:     dp.IsTame,
			seenAt:   dp.Timestamp,
		})
	}

	s.table.restore(entries)
	s.totalJumps.Store(cp.TotalJumps)
	s.dpCount.Store(cp.DistinguishedCount)
	s.collisions.Store(0)
	s.falsePositives.Store(0)
	s.restored = true

	log.Info("Checkpoint loaded", "path", path, "version", cp.Version,
		"totalJumps", cp.TotalJumps, "dps", len(entries))
	return nil
}

// parsePointKey reverses Point.Key: "X:Y" with canonical hex halves.
func parsePointKey(key string) (*Point, error) {
	x, y, ok := strings.Cut(key, ":")
	if !ok {
		return nil, fmt.Errorf("malformed point %q", key)
	}
	xs, err := ScalarFromHex(x)
	if err != nil {
		return nil, fmt.Errorf("bad point x %q", x)
	}
	ys, err := ScalarFromHex(y)
	if err != nil {
		return nil, fmt.Errorf("bad point y %q", y)
	}
	return NewPoint(xs, ys), nil
}
