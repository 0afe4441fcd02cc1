package domain

// dueEpochCutoff separates the two encodings squeezed into the due column:
// values above it are absolute epoch seconds (intraday learning), values at
// or below it are ordinal day offsets. The threshold is inherited from the
// storage format.
const dueEpochCutoff = 1_000_000_000

// DueKind tags which encoding a due value uses.
type DueKind int

const (
	// DueDayOffset means the value counts logical days relative to
	// collection creation.
	DueDayOffset DueKind = iota
	// DueAbsolute means the value is an epoch-second instant.
	DueAbsolute
)

func (k DueKind) String() string {
	switch k {
	case DueDayOffset:
		return "day offset"
	case DueAbsolute:
		return "absolute"
	default:
		return "unknown"
	}
}

// Due is a card's effective due value with its encoding resolved. The
// magnitude heuristic is applied exactly once, here; everything downstream
// switches on Kind.
type Due struct {
	Kind  DueKind
	Value int64
}

// EffectiveDue picks the due value that currently governs the card (the
// original due while the card is on loan to a filtered deck) and resolves
// its encoding.
func (c Card) EffectiveDue() Due {
	value := c.Due
	if c.InFilteredDeck() {
		value = c.OriginalDue
	}
	kind := DueDayOffset
	if value > dueEpochCutoff {
		kind = DueAbsolute
	}
	return Due{Kind: kind, Value: value}
}
