package sequence

import (
	"strings"

	apperrors "github.com/kbukum/lazyseq/errors"
)

// Mode selects how a Chain is evaluated.
type Mode int

const (
	// Lazy pulls one element at a time through every stage.
	Lazy Mode = iota
	// Eager materializes each stage in full before running the next.
	Eager
)

// Mode names as accepted by ParseMode.
const (
	ModeLazy  = "lazy"
	ModeEager = "eager"
)

func (m Mode) String() string {
	if m == Eager {
		return ModeEager
	}
	return ModeLazy
}

// ParseMode parses "lazy" or "eager", ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ModeLazy:
		return Lazy, nil
	case ModeEager:
		return Eager, nil
	default:
		return Lazy, apperrors.InvalidFormat("mode", ModeLazy+"|"+ModeEager)
	}
}
