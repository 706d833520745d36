package data

import (
	"context"
	"testing"

	"augmentstats/internal/session"
)

func TestRecordedFilter(t *testing.T) {
	f := NewRecordedFilter(0)
	f.Add(session.ClassLive, 1_735_000_000_000)

	if !f.Seen(session.ClassLive, 1_735_000_000_000) {
		t.Error("Seen() = false for a recorded session")
	}
	if f.Seen(session.ClassPBE, 1_735_000_000_000) {
		t.Error("Seen() = true for the same start in another class")
	}

	f.Reset()
	if f.Seen(session.ClassLive, 1_735_000_000_000) {
		t.Error("Seen() = true after Reset")
	}
}

func TestLoadRecordedFilter(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if err := db.AddGames(ctx, testGames()); err != nil {
		t.Fatal(err)
	}

	f, err := LoadRecordedFilter(ctx, db)
	if err != nil {
		t.Fatalf("LoadRecordedFilter() error = %v", err)
	}
	for _, g := range testGames() {
		if !f.Seen(g.Class, g.Date) {
			t.Errorf("game %s not in filter", g.ID)
		}
	}
}
