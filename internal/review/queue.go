package review

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"augmentstats/internal/data"
	"augmentstats/internal/icons"
	"augmentstats/internal/session"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ErrNoSession is returned for an index outside the pending list.
var ErrNoSession = errors.New("no pending session at that index")

// Queue holds processed sessions until a person has checked them and saves them.
type Queue struct {
	mu       sync.Mutex
	pending  []*session.Session
	icons    *icons.Set
	store    data.Store
	recorded *data.RecordedFilter
}

// NewQueue creates an empty queue. Named icons are learned into set and persisted to store.
func NewQueue(store data.Store, set *icons.Set, recorded *data.RecordedFilter) *Queue {
	return &Queue{store: store, icons: set, recorded: recorded}
}

// Add takes ownership of freshly processed sessions, flagging those that look already
// recorded. It returns copies of the queued sessions that callers may read freely.
func (q *Queue) Add(sessions []*session.Session) []*session.Session {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, s := range sessions {
		if q.recorded != nil && q.recorded.Seen(s.Class, s.StartTime) {
			s.PossibleDuplicate = true
			log.Warn().Str("session", s.ID).Str("group", s.Group).Msg("[Review] session may already be recorded")
		}
		q.pending = append(q.pending, s)
	}
	return cloneAll(sessions)
}

// Pending returns copies of the sessions awaiting review in processing order.
// Edits go through the queue methods, not the copies.
func (q *Queue) Pending() []*session.Session {
	q.mu.Lock()
	defer q.mu.Unlock()
	return cloneAll(q.pending)
}

func cloneAll(sessions []*session.Session) []*session.Session {
	return lo.Map(sessions, func(s *session.Session, _ int) *session.Session {
		return s.Clone()
	})
}

// Len returns the number of pending sessions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// SetPlacement records the final placement of pending session i.
func (q *Queue) SetPlacement(i, placement int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, err := q.at(i)
	if err != nil {
		return err
	}
	return s.SetPlacement(placement)
}

// NameAugment renames one augment slot of pending session i. When the slot held an
// unrecognized icon, the icon is learned under the new name so later batches match it.
func (q *Queue) NameAugment(ctx context.Context, i, slot int, name string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, err := q.at(i)
	if err != nil {
		return err
	}
	fp, learn, err := s.NameAugment(slot, name)
	if err != nil {
		return err
	}
	if !learn {
		return nil
	}

	if err := q.store.SaveIcons(ctx, map[string]icons.Fingerprint{name: fp}); err != nil {
		return fmt.Errorf("failed to save learned icon: %w", err)
	}
	version := q.icons.Learn(name, fp)
	log.Info().Str("augment", name).Uint64("version", version).Msg("[Review] learned augment icon")
	return nil
}

// Remove drops pending session i without saving it.
func (q *Queue) Remove(i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, err := q.at(i); err != nil {
		return err
	}
	q.pending = append(q.pending[:i], q.pending[i+1:]...)
	return nil
}

// Save writes every pending session to its collection in one transaction and empties
// the queue. Nothing is removed when the write fails.
func (q *Queue) Save(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return 0, nil
	}

	games := lo.Map(q.pending, func(s *session.Session, _ int) session.Game {
		return s.Record()
	})
	if err := q.store.AddGames(ctx, games); err != nil {
		return 0, err
	}
	if q.recorded != nil {
		for _, g := range games {
			q.recorded.Add(g.Class, g.Date)
		}
	}

	n := len(q.pending)
	q.pending = nil
	log.Info().Int("games", n).Msg("[Review] sessions saved")
	return n, nil
}

// Clear drops every pending session.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}

func (q *Queue) at(i int) (*session.Session, error) {
	if i < 0 || i >= len(q.pending) {
		return nil, fmt.Errorf("%w: %d", ErrNoSession, i)
	}
	return q.pending[i], nil
}
