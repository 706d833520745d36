package session

import (
	"errors"
	"fmt"
	"strings"
)

// Class tells live games apart from pre-release (PBE) test games.
type Class string

const (
	ClassLive Class = "live"
	ClassPBE  Class = "pbe"
)

// ErrUnknownScope is returned when a scope string names neither collection.
var ErrUnknownScope = errors.New("unknown scope")

// Classes lists every class in display order.
var Classes = []Class{ClassLive, ClassPBE}

// ClassFromName derives the class from a screenshot's display name.
func ClassFromName(name string) Class {
	if strings.Contains(strings.ToLower(name), "pbe") {
		return ClassPBE
	}
	return ClassLive
}

// ParseClass converts a scope such as "live" or "PBE" into a Class.
func ParseClass(scope string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "live", "":
		return ClassLive, nil
	case "pbe":
		return ClassPBE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
}

func (c Class) String() string {
	return string(c)
}
