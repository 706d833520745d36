package session

import (
	"testing"
	"time"
)

func TestAssignGroupLive(t *testing.T) {
	ref := LiveReference.UnixMilli()
	day := 24 * time.Hour
	tests := []struct {
		name  string
		start int64
		want  string
	}{
		{"reference instant is period zero", ref, "Live_2024-12-24"},
		{"one millisecond before the reference", ref - 1, "Live_2024-12-10"},
		{"last millisecond of period zero", ref + LivePeriod.Milliseconds() - 1, "Live_2024-12-24"},
		{"first millisecond of period one", ref + LivePeriod.Milliseconds(), "Live_2025-01-07"},
		{"mid period", ref + (20 * day).Milliseconds(), "Live_2025-01-07"},
		{"two periods back", ref - (15 * day).Milliseconds(), "Live_2024-11-26"},
		{"far future", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), "Live_2025-05-27"},
	}
	var p PeriodAssigner
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.AssignGroup(tt.start, ClassLive); got != tt.want {
				t.Errorf("AssignGroup(%d, live) = %s, want %s", tt.start, got, tt.want)
			}
		})
	}
}

func TestAssignGroupPBE(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	tests := []struct {
		name  string
		loc   *time.Location
		start time.Time
		want  string
	}{
		{"just before noon belongs to the previous day", time.UTC,
			time.Date(2025, 3, 10, 11, 59, 59, 999_000_000, time.UTC), "PBE_2025-03-09"},
		{"noon starts a new day", time.UTC,
			time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), "PBE_2025-03-10"},
		{"late evening", time.UTC,
			time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC), "PBE_2025-03-10"},
		{"after midnight", time.UTC,
			time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), "PBE_2025-03-10"},
		{"month boundary", time.UTC,
			time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), "PBE_2025-02-28"},
		// 18:00 UTC is 10:00 in Los Angeles, still the previous test day there
		{"local noon, not UTC noon", la,
			time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC), "PBE_2025-03-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PeriodAssigner{Location: tt.loc}
			if got := p.AssignGroup(tt.start.UnixMilli(), ClassPBE); got != tt.want {
				t.Errorf("AssignGroup(%s, pbe) = %s, want %s", tt.start, got, tt.want)
			}
		})
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{-1, 14, -1},
		{-14, 14, -1},
		{0, 14, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
