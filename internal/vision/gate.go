package vision

import (
	"context"
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// StageRegion is the top-center band that holds the stage label.
var StageRegion = Rect{X: 0.425, Y: 0.01, W: 0.15, H: 0.05}

// AugmentStages are the stages right after each augment choice.
var AugmentStages = []string{"4-3", "4-5", "5-1"}

var stagePattern = regexp.MustCompile(`\d-\d`)

// StageGate decides whether a frame was captured right after an augment choice.
type StageGate struct {
	ocr    Recognizer
	region Rect
	stages map[string]struct{}
}

// NewStageGate builds a gate around the given recognizer using the default
// region and stage list.
func NewStageGate(ocr Recognizer) *StageGate {
	stages := make(map[string]struct{}, len(AugmentStages))
	for _, s := range AugmentStages {
		stages[s] = struct{}{}
	}
	return &StageGate{ocr: ocr, region: StageRegion, stages: stages}
}

// ParseStage pulls the first "N-N" token out of noisy OCR text.
// It returns "" when there is none.
func ParseStage(text string) string {
	return stagePattern.FindString(strings.TrimSpace(text))
}

// Stage reads the stage label from a frame. Unreadable labels come back as "".
func (g *StageGate) Stage(ctx context.Context, frame image.Image) (string, error) {
	region := g.region.Pixels(frame.Bounds())
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return "", nil
	}
	text, err := g.ocr.Recognize(ctx, Crop(frame, region))
	if err != nil {
		return "", fmt.Errorf("failed to read stage: %w", err)
	}
	return ParseStage(text), nil
}

// ShouldExtract reports whether the frame shows one of the augment stages.
// Errors are only returned when the OCR engine itself fails.
func (g *StageGate) ShouldExtract(ctx context.Context, frame image.Image) (bool, error) {
	stage, err := g.Stage(ctx, frame)
	if err != nil {
		return false, err
	}
	_, ok := g.stages[stage]
	log.Debug().Str("stage", stage).Bool("extract", ok).Msg("[StageGate] stage read")
	return ok, nil
}
