package session

import (
	"fmt"
	"time"
)

// Live patches rotate every two weeks on Tuesday; LiveReference is one such boundary.
var LiveReference = time.Date(2024, time.December, 24, 0, 0, 0, 0, time.UTC)

// LivePeriod is the length of one live reporting period.
const LivePeriod = 14 * 24 * time.Hour

// PeriodAssigner maps a game's start time to its reporting group key.
type PeriodAssigner struct {
	// Location is used for the PBE day boundary. Nil means time.Local.
	Location *time.Location
}

// AssignGroup returns the group key for a game starting at start (ms since epoch).
func (p PeriodAssigner) AssignGroup(start int64, class Class) string {
	if class == ClassPBE {
		return p.pbeGroup(start)
	}
	return liveGroup(start)
}

// pbeGroup buckets by test day: anything before local noon belongs to the previous day.
func (p PeriodAssigner) pbeGroup(start int64) string {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	t := time.UnixMilli(start).In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
	if t.Hour() < 12 {
		day = day.AddDate(0, 0, -1)
	}
	return fmt.Sprintf("PBE_%s", day.Format("2006-01-02"))
}

func liveGroup(start int64) string {
	ref := LiveReference.UnixMilli()
	period := LivePeriod.Milliseconds()
	index := floorDiv(start-ref, period)
	periodStart := time.UnixMilli(ref + index*period).UTC()
	return fmt.Sprintf("Live_%s", periodStart.Format("2006-01-02"))
}

// floorDiv rounds toward negative infinity so games before the reference land in
// the right earlier period.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
