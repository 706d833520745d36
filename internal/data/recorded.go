package data

import (
	"context"
	"strconv"
	"sync"

	"augmentstats/internal/session"

	"github.com/bits-and-blooms/bloom/v3"
)

// RecordedFilter remembers which sessions were already saved, keyed by class and start
// time. It may report false positives, so callers only use it to flag sessions.
type RecordedFilter struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewRecordedFilter creates a filter sized for n games.
func NewRecordedFilter(n uint) *RecordedFilter {
	if n < 1000 {
		n = 1000
	}
	return &RecordedFilter{filter: bloom.NewWithEstimates(n, 0.001)}
}

// LoadRecordedFilter builds a filter from everything already in the store.
func LoadRecordedFilter(ctx context.Context, s Store) (*RecordedFilter, error) {
	games, err := AllGames(ctx, s)
	if err != nil {
		return nil, err
	}
	f := NewRecordedFilter(uint(len(games)) * 4)
	for _, g := range games {
		f.Add(g.Class, g.Date)
	}
	return f, nil
}

// Add marks a session start as recorded.
func (f *RecordedFilter) Add(class session.Class, start int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.AddString(recordedKey(class, start))
}

// Seen reports whether a session with this start was probably recorded before.
func (f *RecordedFilter) Seen(class session.Class, start int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter.TestString(recordedKey(class, start))
}

// Reset forgets every recorded session.
func (f *RecordedFilter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.ClearAll()
}

func recordedKey(class session.Class, start int64) string {
	return string(class) + ":" + strconv.FormatInt(start, 10)
}
