package session

import "time"

// DefaultGapThreshold is the largest pause between two screenshots of the same game.
const DefaultGapThreshold = 3 * time.Minute

// Segment splits screenshots into games wherever two neighbours are more than gap apart.
// The input must already be sorted by timestamp; equal timestamps never split a game.
func Segment(shots []Screenshot, gap time.Duration) [][]Screenshot {
	var games [][]Screenshot
	if len(shots) == 0 {
		return games
	}

	gapMs := gap.Milliseconds()
	current := []Screenshot{shots[0]}
	for _, shot := range shots[1:] {
		prev := current[len(current)-1]
		if shot.Timestamp-prev.Timestamp > gapMs {
			games = append(games, current)
			current = []Screenshot{shot}
			continue
		}
		current = append(current, shot)
	}
	return append(games, current)
}
