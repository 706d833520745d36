package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"augmentstats/internal/icons"
	"augmentstats/internal/session"
	"augmentstats/internal/vision"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Gate decides whether a frame is worth icon extraction.
type Gate interface {
	ShouldExtract(ctx context.Context, frame image.Image) (bool, error)
}

// Extractor reads augment icons from a frame.
type Extractor interface {
	ExtractIcons(ctx context.Context, frame image.Image, ref icons.Snapshot) ([]icons.Match, error)
}

// Processor turns a batch of screenshots into reviewed-ready sessions.
type Processor struct {
	Decoder   vision.Decoder
	Gate      Gate
	Extractor Extractor
	Assigner  session.PeriodAssigner
	Gap       time.Duration
	// Workers bounds how many screenshots of one game are analysed at once.
	Workers int
}

// Result is the output of one batch.
type Result struct {
	Sessions []*session.Session `json:"sessions"`
	Outcomes []Outcome          `json:"outcomes"`
}

// Failed counts screenshots that could not be analysed.
func (r *Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Process sorts and segments files into sessions, then analyses every screenshot in
// order. A screenshot that fails is tagged in the outcomes and the batch carries on;
// only context cancellation aborts the batch.
func (p *Processor) Process(ctx context.Context, files []session.Screenshot, ref icons.Snapshot, onProgress ProgressFunc) (*Result, error) {
	shots := append([]session.Screenshot(nil), files...)
	session.SortByTime(shots)

	gap := p.Gap
	if gap <= 0 {
		gap = session.DefaultGapThreshold
	}
	games := session.Segment(shots, gap)
	log.Info().Int("files", len(shots)).Int("games", len(games)).Dur("gap", gap).Msg("[Pipeline] batch segmented")

	result := &Result{Sessions: make([]*session.Session, 0, len(games))}
	rep := &reporter{total: len(shots), fn: onProgress}

	for i, group := range games {
		sess, err := session.New(group, p.Assigner)
		if err != nil {
			return nil, err
		}
		stage := fmt.Sprintf("Processing game %d/%d", i+1, len(games))

		outcomes, err := p.processSession(ctx, sess, ref, stage, rep)
		if err != nil {
			return nil, err
		}
		result.Sessions = append(result.Sessions, sess)
		result.Outcomes = append(result.Outcomes, outcomes...)

		log.Info().Str("session", sess.ID).Str("type", sess.Class.String()).Str("group", sess.Group).
			Int("screenshots", len(group)).Strs("augments", sess.Augments).Msg("[Pipeline] game processed")
	}
	return result, nil
}

func (p *Processor) processSession(ctx context.Context, sess *session.Session, ref icons.Snapshot, stage string, rep *reporter) ([]Outcome, error) {
	outcomes := make([]Outcome, len(sess.Screenshots))

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, shot := range sess.Screenshots {
		i, shot := i, shot
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processShot(gctx, shot, ref)
			outcomes[i].SessionID = sess.ID
			rep.done(stage, shot.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// errgroup only sees errors returned by workers; a cancel between files lands here
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The last screenshot in order with a successful extraction decides the augments.
	for _, o := range outcomes {
		if o.Status == StatusExtracted && len(o.matches) > 0 {
			sess.ApplyIcons(o.matches)
		}
	}
	return outcomes, nil
}

func (p *Processor) processShot(ctx context.Context, shot session.Screenshot, ref icons.Snapshot) Outcome {
	out := Outcome{File: shot.Name, Status: StatusSkipped}

	frame, err := p.Decoder.Decode(ctx, shot)
	if err != nil {
		return failed(out, err)
	}

	ok, err := p.Gate.ShouldExtract(ctx, frame)
	if err != nil {
		return failed(out, err)
	}
	if !ok {
		return out
	}

	matches, err := p.Extractor.ExtractIcons(ctx, frame, ref)
	if err != nil {
		// An unreadable icon panel is a soft miss, not a failed file.
		log.Warn().Err(err).Str("file", shot.Name).Msg("[Pipeline] icon extraction failed")
		return out
	}
	out.Status = StatusExtracted
	out.matches = matches
	return out
}

func failed(out Outcome, err error) Outcome {
	log.Warn().Err(err).Str("file", out.File).Msg("[Pipeline] screenshot failed")
	out.Status = StatusFailed
	out.Error = err.Error()
	return out
}
