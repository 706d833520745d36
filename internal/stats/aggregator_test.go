package stats

import (
	"math"
	"testing"

	"augmentstats/internal/session"
)

func game(placement int, augments ...string) session.Game {
	return session.Game{Placement: placement, Augments: augments}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate(t *testing.T) {
	games := []session.Game{
		game(1, "Featherweights", "Jeweled Lotus"),
		game(4, "Featherweights"),
		game(8, "Featherweights", "Cybernetic Bulk"),
	}

	got := Aggregate(games)
	if len(got) != 3 {
		t.Fatalf("Aggregate() returned %d stats, want 3", len(got))
	}

	fw := got[0]
	if fw.Name != "Featherweights" || fw.Count != 3 || fw.TotalPlacement != 13 || fw.Wins != 1 {
		t.Errorf("Featherweights = %+v", fw)
	}
	if !approx(fw.AvgPlace, 13.0/3) || !approx(fw.WinRate, 1.0/3) || !approx(fw.PickRate, 1) {
		t.Errorf("Featherweights ratios = %.4f %.4f %.4f", fw.AvgPlace, fw.WinRate, fw.PickRate)
	}

	// equal counts fall back to name order
	if got[1].Name != "Cybernetic Bulk" || got[2].Name != "Jeweled Lotus" {
		t.Errorf("order = %s, %s; want Cybernetic Bulk, Jeweled Lotus", got[1].Name, got[2].Name)
	}
	if !approx(got[2].WinRate, 1) || !approx(got[2].PickRate, 1.0/3) || !approx(got[2].AvgPlace, 1) {
		t.Errorf("Jeweled Lotus = %+v", got[2])
	}
}

func TestAggregateCountsRepeats(t *testing.T) {
	got := Aggregate([]session.Game{game(2, "Featherweights", "Featherweights")})
	if len(got) != 1 || got[0].Count != 2 || got[0].TotalPlacement != 4 {
		t.Errorf("Aggregate() = %+v, want one stat counted twice", got)
	}
	// a repeated pick can push pick rate above 1
	if !approx(got[0].PickRate, 2) {
		t.Errorf("PickRate = %f, want 2", got[0].PickRate)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %+v", got)
	}
	// games without augments still count toward totals but add no stats
	if got := Aggregate([]session.Game{game(3)}); len(got) != 0 {
		t.Errorf("Aggregate(no augments) = %+v", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		games   []session.Game
		total   int
		avg     float64
		winRate float64
	}{
		{"no games", nil, 0, 0, 0},
		{"mixed", []session.Game{game(1), game(4), game(8), game(1)}, 4, 3.5, 0.5},
		{"no wins", []session.Game{game(2), game(3)}, 2, 2.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalGames(tt.games); got != tt.total {
				t.Errorf("TotalGames() = %d, want %d", got, tt.total)
			}
			if got := OverallAvgPlacement(tt.games); !approx(got, tt.avg) {
				t.Errorf("OverallAvgPlacement() = %f, want %f", got, tt.avg)
			}
			if got := OverallWinRate(tt.games); !approx(got, tt.winRate) {
				t.Errorf("OverallWinRate() = %f, want %f", got, tt.winRate)
			}
		})
	}
}
