package rules

import "errors"

// Placement rule failures. Each one is a distinct sub-reason reported to the caller.
var (
	ErrUnknownTile       = errors.New("unknown tile")
	ErrOccupied          = errors.New("cell is already occupied")
	ErrNotAdjacent       = errors.New("tile must touch an existing line")
	ErrAttributeMismatch = errors.New("tile must share exactly one attribute with its neighbor")
	ErrLineMismatch      = errors.New("tile does not match the line's shared attribute")
	ErrLineFull          = errors.New("line already holds the maximum number of tiles")
	ErrDuplicateTile     = errors.New("line already contains this tile")
	ErrNotInLine         = errors.New("tiles placed in one turn must share a row or a column")
	ErrGap               = errors.New("tiles placed in one turn must be contiguous")
)

// ErrMalformedLine means the board already holds a line with no common
// attribute. Validation never lets one form, so this is an invariant failure.
var ErrMalformedLine = errors.New("board line has no common attribute")

// IsViolation reports whether err is a rule failure a player can cause.
func IsViolation(err error) bool {
	for _, target := range []error{
		ErrUnknownTile, ErrOccupied, ErrNotAdjacent, ErrAttributeMismatch, ErrLineMismatch,
		ErrLineFull, ErrDuplicateTile, ErrNotInLine, ErrGap,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
