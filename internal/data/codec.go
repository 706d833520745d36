package data

import (
	"fmt"
	"sort"

	"augmentstats/internal/session"

	"github.com/bytedance/sonic"
)

// encodeAugments stores an augment list as a JSON array.
func encodeAugments(augments []string) (string, error) {
	if augments == nil {
		augments = []string{}
	}
	b, err := sonic.Marshal(augments)
	if err != nil {
		return "", fmt.Errorf("failed to encode augments: %w", err)
	}
	return string(b), nil
}

func decodeAugments(raw string) ([]string, error) {
	augments := []string{}
	if raw == "" {
		return augments, nil
	}
	if err := sonic.UnmarshalString(raw, &augments); err != nil {
		return nil, fmt.Errorf("failed to decode augments: %w", err)
	}
	return augments, nil
}

func sortNewestFirst(games []session.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date > games[j].Date
	})
}
