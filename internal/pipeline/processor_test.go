package pipeline

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"augmentstats/internal/icons"
	"augmentstats/internal/session"
	"augmentstats/internal/vision"
)

// fakeDecoder hands back an empty frame, failing for names listed in fail.
type fakeDecoder struct {
	fail map[string]bool
}

func (d fakeDecoder) Decode(ctx context.Context, src vision.Source) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shot := src.(session.Screenshot)
	if d.fail[shot.Name] {
		return nil, errors.New("corrupt file")
	}
	return &namedFrame{Gray: image.NewGray(image.Rect(0, 0, 100, 100)), name: shot.Name}, nil
}

// namedFrame lets fakes see which screenshot a frame came from.
type namedFrame struct {
	*image.Gray
	name string
}

type fakeGate struct {
	hits   map[string]bool
	broken map[string]bool
}

func (g fakeGate) ShouldExtract(ctx context.Context, frame image.Image) (bool, error) {
	name := frame.(*namedFrame).name
	if g.broken[name] {
		return false, errors.New("tesseract failed")
	}
	return g.hits[name], nil
}

type fakeExtractor struct {
	augments map[string][]string
	soft     map[string]bool
}

func (e fakeExtractor) ExtractIcons(ctx context.Context, frame image.Image, ref icons.Snapshot) ([]icons.Match, error) {
	name := frame.(*namedFrame).name
	if e.soft[name] {
		return nil, icons.ErrFrameTooSmall
	}
	var matches []icons.Match
	for i, aug := range e.augments[name] {
		matches = append(matches, icons.Match{Name: aug, Fingerprint: icons.Fingerprint{Hash: uint64(i + 1)}})
	}
	return matches, nil
}

var base = time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)

func shot(name string, offset time.Duration) session.Screenshot {
	return session.Screenshot{Name: name, Timestamp: base.Add(offset).UnixMilli()}
}

// sixShots is two games ten minutes apart, deliberately out of order.
func sixShots() []session.Screenshot {
	return []session.Screenshot{
		shot("g2_c.png", 14*time.Minute),
		shot("g1_a.png", 0),
		shot("g1_c.png", 2*time.Minute),
		shot("g2_a.png", 12*time.Minute),
		shot("g1_b.png", time.Minute),
		shot("g2_b.png", 13*time.Minute),
	}
}

func newProcessor(gate fakeGate, ext fakeExtractor, dec fakeDecoder, workers int) *Processor {
	return &Processor{
		Decoder:   dec,
		Gate:      gate,
		Extractor: ext,
		Assigner:  session.PeriodAssigner{Location: time.UTC},
		Gap:       session.DefaultGapThreshold,
		Workers:   workers,
	}
}

func TestProcess_EndToEnd(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run("workers", func(t *testing.T) {
			gate := fakeGate{hits: map[string]bool{"g1_b.png": true, "g1_c.png": true, "g2_a.png": true}}
			ext := fakeExtractor{augments: map[string][]string{
				"g1_b.png": {"Featherweights"},
				"g1_c.png": {"Featherweights", "Jeweled Lotus"},
				"g2_a.png": {"Cybernetic Bulk", ""},
			}}
			p := newProcessor(gate, ext, fakeDecoder{}, workers)

			var mu sync.Mutex
			var updates []Progress
			result, err := p.Process(context.Background(), sixShots(), icons.Snapshot{}, func(pr Progress) {
				mu.Lock()
				defer mu.Unlock()
				updates = append(updates, pr)
			})
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}

			if len(result.Sessions) != 2 {
				t.Fatalf("Process() returned %d sessions, want 2", len(result.Sessions))
			}
			g1, g2 := result.Sessions[0], result.Sessions[1]
			if g1.StartTime != base.UnixMilli() || len(g1.Screenshots) != 3 {
				t.Errorf("game 1 = start %d with %d screenshots", g1.StartTime, len(g1.Screenshots))
			}
			if g1.Group != "Live_2025-01-07" || g1.Placement != session.DefaultPlacement {
				t.Errorf("game 1 group/placement = %s/%d", g1.Group, g1.Placement)
			}
			// the later extraction replaces the earlier one
			assertAugments(t, g1.Augments, "Featherweights", "Jeweled Lotus")
			assertAugments(t, g2.Augments, "Cybernetic Bulk", session.UnknownAugment)

			if len(result.Outcomes) != 6 || result.Failed() != 0 {
				t.Errorf("outcomes = %+v", result.Outcomes)
			}
			for _, o := range result.Outcomes {
				want := StatusSkipped
				if gate.hits[o.File] {
					want = StatusExtracted
				}
				if o.Status != want {
					t.Errorf("%s status = %s, want %s", o.File, o.Status, want)
				}
			}

			if len(updates) != 6 {
				t.Fatalf("got %d progress updates, want 6", len(updates))
			}
			for i, u := range updates {
				if u.Current != i+1 || u.Total != 6 {
					t.Errorf("update %d = %d/%d", i, u.Current, u.Total)
				}
			}
			last := updates[5]
			if last.Percent != 100 || last.Stage != "Processing game 2/2" {
				t.Errorf("last update = %+v", last)
			}
			if updates[0].Stage != "Processing game 1/2" {
				t.Errorf("first stage = %q", updates[0].Stage)
			}
		})
	}
}

func TestProcess_LastExtractionWinsEvenIfShorter(t *testing.T) {
	shots := []session.Screenshot{shot("a.png", 0), shot("b.png", time.Minute)}
	gate := fakeGate{hits: map[string]bool{"a.png": true, "b.png": true}}
	ext := fakeExtractor{augments: map[string][]string{
		"a.png": {"Featherweights", "Jeweled Lotus", "Tiny Titans"},
		"b.png": {"Cybernetic Bulk"},
	}}

	result, err := newProcessor(gate, ext, fakeDecoder{}, 2).Process(context.Background(), shots, icons.Snapshot{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	assertAugments(t, result.Sessions[0].Augments, "Cybernetic Bulk")
}

func TestProcess_FailuresAreTagged(t *testing.T) {
	shots := []session.Screenshot{
		shot("broken.png", 0),
		shot("ocr.png", time.Minute),
		shot("soft.png", 2*time.Minute),
		shot("good.png", 3*time.Minute),
	}
	gate := fakeGate{
		hits:   map[string]bool{"soft.png": true, "good.png": true},
		broken: map[string]bool{"ocr.png": true},
	}
	ext := fakeExtractor{
		augments: map[string][]string{"good.png": {"Featherweights"}},
		soft:     map[string]bool{"soft.png": true},
	}
	dec := fakeDecoder{fail: map[string]bool{"broken.png": true}}

	result, err := newProcessor(gate, ext, dec, 1).Process(context.Background(), shots, icons.Snapshot{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want := map[string]Status{
		"broken.png": StatusFailed,
		"ocr.png":    StatusFailed,
		"soft.png":   StatusSkipped,
		"good.png":   StatusExtracted,
	}
	for _, o := range result.Outcomes {
		if o.Status != want[o.File] {
			t.Errorf("%s status = %s, want %s", o.File, o.Status, want[o.File])
		}
		if o.Status == StatusFailed && o.Error == "" {
			t.Errorf("%s failed without an error message", o.File)
		}
		if o.SessionID != result.Sessions[0].ID {
			t.Errorf("%s session id = %q", o.File, o.SessionID)
		}
	}
	if result.Failed() != 2 {
		t.Errorf("Failed() = %d, want 2", result.Failed())
	}
	assertAugments(t, result.Sessions[0].Augments, "Featherweights")
}

func TestProcess_Empty(t *testing.T) {
	result, err := newProcessor(fakeGate{}, fakeExtractor{}, fakeDecoder{}, 1).Process(context.Background(), nil, icons.Snapshot{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(result.Sessions) != 0 || len(result.Outcomes) != 0 {
		t.Errorf("Process(nil) = %+v, want empty result", result)
	}
}

func TestProcess_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	p := newProcessor(fakeGate{}, fakeExtractor{}, fakeDecoder{}, 1)
	_, err := p.Process(ctx, sixShots(), icons.Snapshot{}, func(pr Progress) {
		calls++
		if pr.Current == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Process() error = %v, want context.Canceled", err)
	}
	if calls >= 6 {
		t.Errorf("processing continued after cancel: %d progress updates", calls)
	}
}

func TestProcess_ClassFromFirstScreenshot(t *testing.T) {
	shots := []session.Screenshot{shot("PBE_001.png", 0), shot("other.png", time.Minute)}
	result, err := newProcessor(fakeGate{}, fakeExtractor{}, fakeDecoder{}, 1).Process(context.Background(), shots, icons.Snapshot{}, nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	s := result.Sessions[0]
	if s.Class != session.ClassPBE || s.Group != "PBE_2025-01-10" {
		t.Errorf("session class/group = %s/%s, want pbe/PBE_2025-01-10", s.Class, s.Group)
	}
}

func assertAugments(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("augments = %v, want %v", got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("augments = %v, want %v", got, want)
			return
		}
	}
}
