package address

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/willf/bloom"
)

// watchFalsePositiveRate sizes the bloom filter; filter hits are
// confirmed against the exact set anyway.
const watchFalsePositiveRate = 1e-9

// WatchSet holds the addresses being hunted. A bloom filter answers the
// common negative case cheaply; an exact map confirms hits.
type WatchSet struct {
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// LoadWatchSet reads one address per line from path. Blank lines and
// lines starting with '#' are skipped.
func LoadWatchSet(path string) (*WatchSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("watch list: %w", err)
	}
	defer f.Close()

	var addrs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addrs = append(addrs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("watch list: %w", err)
	}
	return NewWatchSet(addrs), nil
}

// NewWatchSet builds a watch set over the given addresses.
func NewWatchSet(addrs []string) *WatchSet {
	n := uint(len(addrs))
	if n == 0 {
		n = 1
	}
	w := &WatchSet{
		filter: bloom.NewWithEstimates(n, watchFalsePositiveRate),
		exact:  make(map[string]struct{}, len(addrs)),
	}
	for _, a := range addrs {
		w.filter.Add([]byte(a))
		w.exact[a] = struct{}{}
	}
	return w
}

// Len returns the number of watched addresses.
func (w *WatchSet) Len() int {
	return len(w.exact)
}

// Contains reports whether addr is watched.
func (w *WatchSet) Contains(addr string) bool {
	if !w.filter.Test([]byte(addr)) {
		return false
	}
	_, ok := w.exact[addr]
	return ok
}

// Match returns the first derived address of a that is watched, or "".
func (w *WatchSet) Match(a *KeyAddresses) string {
	for _, addr := range a.All() {
		if w.Contains(addr) {
			return addr
		}
	}
	return ""
}
