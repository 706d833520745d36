package stats

import (
	"sort"

	"augmentstats/internal/session"

	"github.com/samber/lo"
)

// AugmentStat holds aggregated results for one augment.
type AugmentStat struct {
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	TotalPlacement int     `json:"totalPlace"`
	Wins           int     `json:"wins"`
	AvgPlace       float64 `json:"avgPlace"`
	WinRate        float64 `json:"winRate"`
	PickRate       float64 `json:"pickRate"`
}

// Aggregate folds games into per-augment statistics, most picked first.
// An augment listed twice in one game counts twice.
func Aggregate(games []session.Game) []AugmentStat {
	byName := make(map[string]*AugmentStat)
	for _, g := range games {
		for _, aug := range g.Augments {
			stat, ok := byName[aug]
			if !ok {
				stat = &AugmentStat{Name: aug}
				byName[aug] = stat
			}
			stat.Count++
			stat.TotalPlacement += g.Placement
			if g.Won() {
				stat.Wins++
			}
		}
	}

	total := len(games)
	result := make([]AugmentStat, 0, len(byName))
	for _, stat := range byName {
		stat.AvgPlace = ratio(stat.TotalPlacement, stat.Count)
		stat.WinRate = ratio(stat.Wins, stat.Count)
		stat.PickRate = ratio(stat.Count, total)
		result = append(result, *stat)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// TotalGames returns the number of games in scope.
func TotalGames(games []session.Game) int {
	return len(games)
}

// OverallAvgPlacement is the mean placement over all games, 0 when there are none.
func OverallAvgPlacement(games []session.Game) float64 {
	sum := lo.SumBy(games, func(g session.Game) int { return g.Placement })
	return ratio(sum, len(games))
}

// OverallWinRate is the share of first place finishes, 0 when there are no games.
func OverallWinRate(games []session.Game) float64 {
	wins := lo.CountBy(games, func(g session.Game) bool { return g.Won() })
	return ratio(wins, len(games))
}

// ratio divides, returning 0 for an empty denominator.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
