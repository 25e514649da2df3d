package usecase

import (
	"errors"
)

// Service-level sentinels. Handlers map these (and the ledger's own
// sentinels) onto HTTP statuses with errors.Is.
var (
	// ErrNotFound covers unknown reservation, theatre, movie, screen and
	// timing ids.
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps malformed input: failed struct validation, bad
	// dates or prices, seat counts outside the per-request limit.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState rejects an operation attempted from the wrong
	// reservation state, e.g. cancelling a confirmed reservation.
	ErrInvalidState = errors.New("invalid reservation state")

	// ErrHoldExpired rejects a confirm whose hold lapsed first.
	ErrHoldExpired = errors.New("hold expired")

	// ErrScreenConflict rejects scheduling a show whose timings would
	// double-book a screen already engaged by another show.
	ErrScreenConflict = errors.New("screen conflict")
)
