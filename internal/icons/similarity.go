package icons

import (
	"bytes"
	"fmt"
	"strings"
)

// Similarity decides whether two fingerprints show the same icon. Lower scores are
// closer; ok is false when the pair is not similar at all.
type Similarity interface {
	Compare(a, b Fingerprint) (score int, ok bool)
}

// PrefixSimilarity treats thumbnails as equal when they have the same length and
// share the same leading bytes. It misses near-identical crops and can confuse icons
// that share a header, so it is only kept for reference sets built with it.
type PrefixSimilarity struct {
	Prefix int
}

func (p PrefixSimilarity) Compare(a, b Fingerprint) (int, bool) {
	if len(a.Thumb) != len(b.Thumb) {
		return 0, false
	}
	n := p.Prefix
	if n <= 0 || n > len(a.Thumb) {
		n = len(a.Thumb)
	}
	return 0, bytes.Equal(a.Thumb[:n], b.Thumb[:n])
}

// DefaultHashThreshold allows a few flipped bits from compression and scaling noise.
const DefaultHashThreshold = 6

// HashSimilarity compares difference hashes by Hamming distance.
type HashSimilarity struct {
	Threshold int
}

func (h HashSimilarity) Compare(a, b Fingerprint) (int, bool) {
	d := Distance(a.Hash, b.Hash)
	return d, d <= h.Threshold
}

// ParseSimilarity builds a Similarity from a mode name ("hash" or "prefix").
func ParseSimilarity(mode string, threshold int) (Similarity, error) {
	switch strings.ToLower(mode) {
	case "", "hash":
		if threshold < 0 {
			threshold = DefaultHashThreshold
		}
		return HashSimilarity{Threshold: threshold}, nil
	case "prefix":
		if threshold <= 0 {
			threshold = 100
		}
		return PrefixSimilarity{Prefix: threshold}, nil
	default:
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
}
