package session

import (
	"errors"
	"fmt"

	"augmentstats/internal/icons"

	"github.com/google/uuid"
)

const (
	// DefaultPlacement is the median outcome, used until someone enters the real one.
	DefaultPlacement = 4
	MinPlacement     = 1
	MaxPlacement     = 8

	// UnknownAugment is shown for icon slots that matched nothing in the reference set.
	UnknownAugment = "Unknown Augment"
)

var ErrInvalidPlacement = errors.New("placement must be between 1 and 8")

// Session is one reconstructed game awaiting review.
type Session struct {
	ID          string       `json:"id"`
	Class       Class        `json:"type"`
	StartTime   int64        `json:"startTime"`
	Screenshots []Screenshot `json:"screenshots"`
	Placement   int          `json:"placement"`
	Augments    []string     `json:"augments"`
	Group       string       `json:"group"`

	// Icons holds the slot matches behind Augments so unknown slots can be named.
	Icons []icons.Match `json:"-"`
	// PossibleDuplicate is set when a game with the same class and start time may
	// already be recorded.
	PossibleDuplicate bool `json:"possibleDuplicate"`
}

// New creates a session from a non-empty, time-ordered group of screenshots.
func New(shots []Screenshot, assigner PeriodAssigner) (*Session, error) {
	if len(shots) == 0 {
		return nil, errors.New("session needs at least one screenshot")
	}
	class := ClassFromName(shots[0].Name)
	start := shots[0].Timestamp
	return &Session{
		ID:          uuid.New().String(),
		Class:       class,
		StartTime:   start,
		Screenshots: shots,
		Placement:   DefaultPlacement,
		Augments:    []string{},
		Group:       assigner.AssignGroup(start, class),
	}, nil
}

// SetPlacement records the final placement.
func (s *Session) SetPlacement(placement int) error {
	if placement < MinPlacement || placement > MaxPlacement {
		return fmt.Errorf("%w: got %d", ErrInvalidPlacement, placement)
	}
	s.Placement = placement
	return nil
}

// ApplyIcons replaces the augment list with the given slot matches.
func (s *Session) ApplyIcons(matches []icons.Match) {
	augments := make([]string, len(matches))
	for i, m := range matches {
		augments[i] = m.Name
		if !m.Known() {
			augments[i] = UnknownAugment
		}
	}
	s.Augments = augments
	s.Icons = append([]icons.Match(nil), matches...)
}

// NameAugment sets the name of one augment slot. It returns the slot's fingerprint
// when the slot came from an unrecognized icon, so the caller can learn it.
func (s *Session) NameAugment(slot int, name string) (icons.Fingerprint, bool, error) {
	if slot < 0 || slot >= len(s.Augments) {
		return icons.Fingerprint{}, false, fmt.Errorf("augment slot %d out of range", slot)
	}
	if name == "" {
		return icons.Fingerprint{}, false, errors.New("augment name is empty")
	}
	s.Augments[slot] = name
	if slot >= len(s.Icons) || s.Icons[slot].Known() || s.Icons[slot].Blank {
		return icons.Fingerprint{}, false, nil
	}
	return s.Icons[slot].Fingerprint, true, nil
}

// Clone returns a deep copy that shares no slices with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Screenshots = append([]Screenshot(nil), s.Screenshots...)
	c.Augments = append([]string(nil), s.Augments...)
	c.Icons = append([]icons.Match(nil), s.Icons...)
	return &c
}

// Record converts the session into its persisted form.
func (s *Session) Record() Game {
	return Game{
		ID:        s.ID,
		Class:     s.Class,
		Date:      s.StartTime,
		Placement: s.Placement,
		Augments:  append([]string(nil), s.Augments...),
		Group:     s.Group,
	}
}

// Game is a recorded session as stored in a collection.
type Game struct {
	ID        string   `json:"id"`
	Class     Class    `json:"type"`
	Date      int64    `json:"date"`
	Placement int      `json:"placement"`
	Augments  []string `json:"augments"`
	Group     string   `json:"group"`
}

// Won reports whether the game was a first place finish.
func (g Game) Won() bool {
	return g.Placement == 1
}
