package stats

import (
	"augmentstats/internal/session"

	"github.com/samber/lo"
)

// Report is everything the dashboard shows for one scope.
type Report struct {
	Scope        session.Class `json:"scope"`
	TotalGames   int           `json:"totalGames"`
	AvgPlacement float64       `json:"avgPlacement"`
	WinRate      float64       `json:"winRate"`
	Augments     []AugmentStat `json:"augments"`
}

// BuildReport aggregates the games of one scope.
func BuildReport(scope session.Class, games []session.Game) Report {
	return Report{
		Scope:        scope,
		TotalGames:   TotalGames(games),
		AvgPlacement: OverallAvgPlacement(games),
		WinRate:      OverallWinRate(games),
		Augments:     Aggregate(games),
	}
}

// ByGroup splits games by their period key, keeping each group's games in input order.
func ByGroup(games []session.Game) map[string][]session.Game {
	return lo.GroupBy(games, func(g session.Game) string { return g.Group })
}
