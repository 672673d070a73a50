// Package main builds the flat C-compatible interface as a shared
// library (go build -buildmode=c-shared). It owns a process-wide solver:
// kangaroo_init tears down any prior instance, and every call collapses
// typed errors to a boolean, with diagnostics on the process's standard
// error stream. Concurrent kangaroo_init calls are undefined, matching
// the documented contract.
package main

/*
#include <stdbool.h>
#include <stdint.h>

typedef struct {
	uint64_t total_jumps;
	uint64_t distinguished_points;
	uint64_t collisions_found;
	uint64_t elapsed_seconds;
	int32_t  threads_active;
	char     range_start[65];
	char     range_end[65];
	char     found_key[65];
	bool     is_solved;
} KangarooStats;
*/
import "C"

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/ecdlp/kangaroo"
)

var solver *kangaroo.Solver

// setHexField copies a hex string into a zero-terminated char[65].
func setHexField(dst *[65]C.char, s string) {
	n := len(s)
	if n > 64 {
		n = 64
	}
	for i := 0; i < n; i++ {
		dst[i] = C.char(s[i])
	}
	dst[n] = 0
}

//export kangaroo_init
func kangaroo_init(pubkey, rangeStart, rangeEnd *C.char, threads, distBits C.int) C.bool {
	if pubkey == nil || rangeStart == nil || rangeEnd == nil {
		return false
	}
	if solver != nil {
		solver.Close()
	}
	solver = kangaroo.NewSolver()
	err := solver.Initialize(C.GoString(pubkey), C.GoString(rangeStart), C.GoString(rangeEnd),
		int(threads), int(distBits))
	if err != nil {
		log.Error("kangaroo_init failed", "err", err)
		return false
	}
	return true
}

//export kangaroo_start
func kangaroo_start() C.bool {
	if solver == nil {
		return false
	}
	if err := solver.Start(); err != nil {
		log.Error("kangaroo_start failed", "err", err)
		return false
	}
	return true
}

//export kangaroo_stop
func kangaroo_stop() {
	if solver != nil {
		solver.Stop()
	}
}

//export kangaroo_get_stats
func kangaroo_get_stats(out *C.KangarooStats) C.bool {
	if solver == nil || out == nil {
		return false
	}
	st := solver.Stats()
	out.total_jumps = C.uint64_t(st.TotalJumps)
	out.distinguished_points = C.uint64_t(st.DistinguishedPoints)
	out.collisions_found = C.uint64_t(st.CollisionsFound)
	out.elapsed_seconds = C.uint64_t(st.ElapsedSeconds)
	out.threads_active = C.int32_t(st.ThreadsActive)
	setHexField(&out.range_start, st.RangeStart)
	setHexField(&out.range_end, st.RangeEnd)
	setHexField(&out.found_key, st.FoundKey)
	out.is_solved = C.bool(st.Solved)
	return true
}

//export kangaroo_save_checkpoint
func kangaroo_save_checkpoint(path *C.char) C.bool {
	if solver == nil || path == nil {
		return false
	}
	if err := solver.SaveCheckpoint(C.GoString(path)); err != nil {
		log.Error("kangaroo_save_checkpoint failed", "err", err)
		return false
	}
	return true
}

//export kangaroo_load_checkpoint
func kangaroo_load_checkpoint(path *C.char) C.bool {
	if solver == nil || path == nil {
		return false
	}
	if err := solver.LoadCheckpoint(C.GoString(path)); err != nil {
		log.Error("kangaroo_load_checkpoint failed", "err", err)
		return false
	}
	return true
}

func main() {}
