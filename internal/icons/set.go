package icons

import (
	"sort"
	"sync"
)

// Set is the learned reference set of augment icons, keyed by augment name.
// Entries are only added or overwritten; the last write for a name wins.
type Set struct {
	mu      sync.RWMutex
	entries map[string]Fingerprint
	version uint64
}

// NewSet creates a set seeded with the given entries.
func NewSet(entries map[string]Fingerprint) *Set {
	s := &Set{entries: make(map[string]Fingerprint, len(entries))}
	for name, fp := range entries {
		s.entries[name] = fp
	}
	return s
}

// Learn stores fp under name, replacing any previous entry, and returns the new version.
func (s *Set) Learn(name string, fp Fingerprint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = fp
	s.version++
	return s.version
}

// Merge learns every entry in other and returns how many were applied.
func (s *Set) Merge(other map[string]Fingerprint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, fp := range other {
		s.entries[name] = fp
	}
	if len(other) > 0 {
		s.version++
	}
	return len(other)
}

// Reset drops every entry.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Fingerprint)
	s.version++
}

// Len returns the number of learned icons.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns an immutable copy for matching.
func (s *Set) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	entries := make(map[string]Fingerprint, len(s.entries))
	for name, fp := range s.entries {
		names = append(names, name)
		entries[name] = fp
	}
	sort.Strings(names)
	return Snapshot{Version: s.version, names: names, entries: entries}
}

// Snapshot is a point-in-time view of a Set.
type Snapshot struct {
	Version uint64
	names   []string
	entries map[string]Fingerprint
}

// Names returns the augment names in sorted order.
func (s Snapshot) Names() []string {
	return append([]string(nil), s.names...)
}

// Get returns the fingerprint stored for name.
func (s Snapshot) Get(name string) (Fingerprint, bool) {
	fp, ok := s.entries[name]
	return fp, ok
}

// Entries returns a copy of the mapping.
func (s Snapshot) Entries() map[string]Fingerprint {
	out := make(map[string]Fingerprint, len(s.entries))
	for name, fp := range s.entries {
		out[name] = fp
	}
	return out
}

// Len returns the number of entries.
func (s Snapshot) Len() int {
	return len(s.names)
}

// Find returns the closest similar entry. Ties go to the alphabetically first name.
func (s Snapshot) Find(fp Fingerprint, sim Similarity) (string, bool) {
	best, bestScore, found := "", 0, false
	for _, name := range s.names {
		score, ok := sim.Compare(fp, s.entries[name])
		if !ok {
			continue
		}
		if !found || score < bestScore {
			best, bestScore, found = name, score, true
		}
	}
	return best, found
}
