package services

import (
	"errors"
	"fmt"

	"qwirkle-server/rules"
)

// Kind classifies an error for callers; handlers map it to a status code.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidInput    Kind = "invalid_input"
	KindRuleViolation   Kind = "rule_violation"
	KindInternal        Kind = "internal"
)

// Error is the error type returned by every service operation.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // sub-reason or cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind != KindInternal {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Reason returns the sub-reason message for rule violations, "" otherwise.
func (e *Error) Reason() string {
	if e.Kind == KindRuleViolation && e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func invalidInput(msg string) *Error { return newError(KindInvalidInput, msg) }

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

var (
	ErrUnauthenticated = newError(KindUnauthenticated, "invalid or missing token")
	ErrBadCredentials  = newError(KindUnauthenticated, "invalid login or password")
	ErrForbidden       = newError(KindForbidden, "not your player")
	ErrNotCreator      = newError(KindForbidden, "only the game creator can delete the game")

	ErrGameNotFound   = newError(KindNotFound, "game not found")
	ErrPlayerNotFound = newError(KindNotFound, "player not found")
	ErrTileNotInRack  = newError(KindNotFound, "tile not in your rack")

	ErrNotYourTurn      = newError(KindConflict, "not your turn")
	ErrCellOccupied     = newError(KindConflict, "cell occupied")
	ErrGameNotFull      = newError(KindConflict, "game is still waiting for players")
	ErrGameFull         = newError(KindConflict, "game is full")
	ErrGameFinished     = newError(KindConflict, "game already finished")
	ErrAlreadySwapped   = newError(KindConflict, "already swapped this turn")
	ErrPlacedBeforeSwap = newError(KindConflict, "cannot swap after placing tiles this turn")
	ErrLoginTaken       = newError(KindConflict, "login already taken")
)

// placementError maps a rules failure onto the service taxonomy.
func placementError(err error) error {
	switch {
	case errors.Is(err, rules.ErrOccupied):
		return ErrCellOccupied
	case errors.Is(err, rules.ErrUnknownTile):
		return &Error{Kind: KindNotFound, Msg: "unknown tile", Err: err}
	case errors.Is(err, rules.ErrMalformedLine):
		return internal("board invariant violated", err)
	case rules.IsViolation(err):
		return &Error{Kind: KindRuleViolation, Msg: "illegal placement", Err: err}
	}
	return internal("placement check failed", err)
}
