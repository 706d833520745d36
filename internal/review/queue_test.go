package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"augmentstats/internal/data"
	"augmentstats/internal/icons"
	"augmentstats/internal/session"

	"github.com/bytedance/sonic"
)

func newTestQueue(t *testing.T) (*Queue, *data.GameDB, *icons.Set) {
	t.Helper()
	db, err := data.OpenGameDB(":memory:")
	if err != nil {
		t.Fatalf("OpenGameDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	set := icons.NewSet(nil)
	return NewQueue(db, set, data.NewRecordedFilter(0)), db, set
}

func newSession(t *testing.T, name string, start int64) *session.Session {
	t.Helper()
	s, err := session.New([]session.Screenshot{{Name: name, Timestamp: start}}, session.PeriodAssigner{Location: time.UTC})
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	return s
}

func TestQueueSetPlacement(t *testing.T) {
	q, _, _ := newTestQueue(t)
	q.Add([]*session.Session{newSession(t, "a.png", 1_735_000_000_000)})

	if err := q.SetPlacement(0, 2); err != nil {
		t.Fatalf("SetPlacement() error = %v", err)
	}
	if got := q.Pending()[0].Placement; got != 2 {
		t.Errorf("Placement = %d, want 2", got)
	}

	tests := []struct {
		name      string
		index     int
		placement int
		want      error
	}{
		{"placement too low", 0, 0, session.ErrInvalidPlacement},
		{"placement too high", 0, 9, session.ErrInvalidPlacement},
		{"index out of range", 1, 3, ErrNoSession},
		{"negative index", -1, 3, ErrNoSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := q.SetPlacement(tt.index, tt.placement); !errors.Is(err, tt.want) {
				t.Errorf("SetPlacement(%d, %d) error = %v, want %v", tt.index, tt.placement, err, tt.want)
			}
		})
	}
	if got := q.Pending()[0].Placement; got != 2 {
		t.Errorf("Placement after rejected updates = %d, want 2", got)
	}
}

func TestQueueNameAugmentLearnsUnknownIcon(t *testing.T) {
	ctx := context.Background()
	q, db, set := newTestQueue(t)

	unknown := icons.Fingerprint{Hash: 0xABCD, Thumb: []byte("thumb")}
	s := newSession(t, "a.png", 1_735_000_000_000)
	s.ApplyIcons([]icons.Match{
		{Name: "Featherweights", Fingerprint: icons.Fingerprint{Hash: 1}},
		{Fingerprint: unknown},
	})
	q.Add([]*session.Session{s})

	// naming a recognized slot only renames it
	if err := q.NameAugment(ctx, 0, 0, "Jeweled Lotus"); err != nil {
		t.Fatalf("NameAugment() error = %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("recognized slot was learned, set has %d entries", set.Len())
	}

	if err := q.NameAugment(ctx, 0, 1, "Cybernetic Bulk"); err != nil {
		t.Fatalf("NameAugment() error = %v", err)
	}
	got, ok := set.Snapshot().Get("Cybernetic Bulk")
	if !ok || got.Hash != unknown.Hash {
		t.Errorf("learned icon = %+v, %v; want hash %x", got, ok, unknown.Hash)
	}

	stored, err := db.Icons(ctx)
	if err != nil {
		t.Fatalf("Icons() error = %v", err)
	}
	if stored["Cybernetic Bulk"].Hash != unknown.Hash {
		t.Errorf("stored icon = %+v, want hash %x", stored["Cybernetic Bulk"], unknown.Hash)
	}

	want := []string{"Jeweled Lotus", "Cybernetic Bulk"}
	augments := q.Pending()[0].Augments
	for i := range want {
		if augments[i] != want[i] {
			t.Errorf("Augments = %v, want %v", augments, want)
			break
		}
	}

	if err := q.NameAugment(ctx, 0, 5, "Anything"); err == nil {
		t.Error("NameAugment() with bad slot expected error")
	}
}

func TestQueueRemoveAndSave(t *testing.T) {
	ctx := context.Background()
	q, db, _ := newTestQueue(t)

	live := newSession(t, "live_1.png", 1_735_000_000_000)
	pbe := newSession(t, "PBE_1.png", 1_735_100_000_000)
	dropped := newSession(t, "live_2.png", 1_735_200_000_000)
	q.Add([]*session.Session{live, dropped, pbe})

	if err := q.Remove(1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := q.Remove(5); !errors.Is(err, ErrNoSession) {
		t.Errorf("Remove(5) error = %v, want ErrNoSession", err)
	}

	n, err := q.Save(ctx)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Save() = %d, want 2", n)
	}
	if q.Len() != 0 {
		t.Errorf("Len() after Save = %d, want 0", q.Len())
	}

	liveGames, _ := db.Games(ctx, session.ClassLive)
	pbeGames, _ := db.Games(ctx, session.ClassPBE)
	if len(liveGames) != 1 || liveGames[0].ID != live.ID {
		t.Errorf("live games = %+v, want only %s", liveGames, live.ID)
	}
	if len(pbeGames) != 1 || pbeGames[0].ID != pbe.ID {
		t.Errorf("pbe games = %+v, want only %s", pbeGames, pbe.ID)
	}

	// a re-import of the same game is flagged but kept
	again := newSession(t, "live_1.png", 1_735_000_000_000)
	q.Add([]*session.Session{again})
	if !q.Pending()[0].PossibleDuplicate {
		t.Error("re-imported session not flagged as possible duplicate")
	}
}

func TestQueueSaveFailureKeepsPending(t *testing.T) {
	ctx := context.Background()
	q, db, _ := newTestQueue(t)

	s := newSession(t, "a.png", 1_735_000_000_000)
	q.Add([]*session.Session{s})
	if _, err := q.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// the same id violates the primary key, so the whole batch must roll back
	fresh := newSession(t, "b.png", 1_736_000_000_000)
	q.Add([]*session.Session{fresh, s})
	if _, err := q.Save(ctx); err == nil {
		t.Fatal("Save() with duplicate id expected error")
	}
	if q.Len() != 2 {
		t.Errorf("Len() after failed Save = %d, want 2", q.Len())
	}
	games, _ := db.Games(ctx, session.ClassLive)
	if len(games) != 1 {
		t.Errorf("stored games = %d, want 1 after rollback", len(games))
	}
}

func TestQueueSaveEmpty(t *testing.T) {
	q, _, _ := newTestQueue(t)
	n, err := q.Save(context.Background())
	if err != nil || n != 0 {
		t.Errorf("Save() on empty queue = %d, %v; want 0, nil", n, err)
	}
}

func TestQueuePendingReturnsCopies(t *testing.T) {
	q, _, _ := newTestQueue(t)
	s := newSession(t, "a.png", 1_735_000_000_000)
	s.ApplyIcons([]icons.Match{{Name: "Featherweights", Fingerprint: icons.Fingerprint{Hash: 1}}})
	added := q.Add([]*session.Session{s})

	if added[0] == s {
		t.Fatal("Add() returned the queued session itself")
	}
	view := q.Pending()
	view[0].Placement = 8
	view[0].Augments[0] = "Jeweled Lotus"
	added[0].Augments[0] = "Cybernetic Bulk"

	got := q.Pending()[0]
	if got.Placement != session.DefaultPlacement || got.Augments[0] != "Featherweights" {
		t.Errorf("queued session changed through a copy: placement %d, augments %v", got.Placement, got.Augments)
	}
}

// Run with -race: readers encode pending sessions while placements change.
func TestQueueConcurrentReadAndEdit(t *testing.T) {
	q, _, _ := newTestQueue(t)
	s := newSession(t, "a.png", 1_735_000_000_000)
	s.ApplyIcons([]icons.Match{{Fingerprint: icons.Fingerprint{Hash: 7}}})
	q.Add([]*session.Session{s})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			q.SetPlacement(0, i%8+1)
			q.NameAugment(context.Background(), 0, 0, fmt.Sprintf("Augment %d", i%3))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := sonic.Marshal(q.Pending()); err != nil {
				t.Errorf("Marshal() error = %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if p := q.Pending()[0].Placement; p < session.MinPlacement || p > session.MaxPlacement {
		t.Errorf("Placement = %d after concurrent edits", p)
	}
}
