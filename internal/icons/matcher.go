package icons

import (
	"context"
	"errors"
	"fmt"
	"image"

	"augmentstats/internal/vision"
)

// Slot is the normalized center of one augment icon in the left panel.
type Slot struct {
	X, Y float64
}

// Slots are the icon positions, top to bottom.
var Slots = []Slot{
	{X: 0.05, Y: 0.30},
	{X: 0.05, Y: 0.38},
	{X: 0.05, Y: 0.46},
	{X: 0.05, Y: 0.54},
	{X: 0.05, Y: 0.62},
}

const (
	DefaultSlotCount = 3
	// IconSize is the side of an icon crop as a fraction of the frame width.
	IconSize = 0.03
)

// ErrFrameTooSmall is returned when a frame is too small to hold an icon crop.
var ErrFrameTooSmall = errors.New("frame too small for icon crops")

// Match is the result for one icon slot. An empty Name means the icon is unknown.
type Match struct {
	Name        string      `json:"name"`
	Fingerprint Fingerprint `json:"fingerprint"`
	// Blank marks a crop with too little contrast to be an icon. It is never matched
	// or learned.
	Blank bool `json:"blank,omitempty"`
}

// Known reports whether the slot matched a reference icon.
func (m Match) Known() bool {
	return m.Name != ""
}

// Matcher crops augment icons from a frame and looks them up in a reference snapshot.
type Matcher struct {
	Similarity Similarity
	SlotCount  int
}

// NewMatcher returns a matcher using hash similarity and the default slot count.
func NewMatcher() *Matcher {
	return &Matcher{
		Similarity: HashSimilarity{Threshold: DefaultHashThreshold},
		SlotCount:  DefaultSlotCount,
	}
}

func (m *Matcher) slotCount() int {
	n := m.SlotCount
	if n <= 0 {
		n = DefaultSlotCount
	}
	if n > len(Slots) {
		n = len(Slots)
	}
	return n
}

// ExtractIcons crops every slot and matches it against ref. Unknown icons come back
// with an empty name and their fingerprint.
func (m *Matcher) ExtractIcons(ctx context.Context, frame image.Image, ref Snapshot) ([]Match, error) {
	bounds := frame.Bounds()
	if float64(bounds.Dx())*IconSize < 1 {
		return nil, ErrFrameTooSmall
	}

	sim := m.Similarity
	if sim == nil {
		sim = HashSimilarity{Threshold: DefaultHashThreshold}
	}
	n := m.slotCount()
	matches := make([]Match, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slot := Slots[i]
		region := vision.SquareAt(bounds, slot.X, slot.Y, IconSize)
		crop := vision.CropScaled(frame, region, CanonicalSize)

		fp, err := NewFingerprint(crop)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		match := Match{Fingerprint: fp, Blank: Contrast(crop) < MinContrast}
		if !match.Blank {
			if name, ok := ref.Find(fp, sim); ok {
				match.Name = name
			}
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// FingerprintIcon fingerprints a standalone icon image of any size, as when an icon
// is learned from a saved crop instead of a screenshot.
func FingerprintIcon(img image.Image) (Fingerprint, error) {
	return NewFingerprint(vision.CropScaled(img, img.Bounds(), CanonicalSize))
}
