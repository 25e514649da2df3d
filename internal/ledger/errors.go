package ledger

import (
	"errors"
)

var (
	// ErrNotFound means the timing id was never registered.
	ErrNotFound = errors.New("timing not registered in ledger")

	// ErrInvalidCount rejects zero or negative seat counts before any
	// state is touched.
	ErrInvalidCount = errors.New("seat count must be positive")

	// ErrInsufficientSeats means the requested count exceeds the seats
	// currently available.
	ErrInsufficientSeats = errors.New("not enough seats available")

	// ErrFrozen means the timing was frozen after a detected invariant
	// violation and refuses further mutations.
	ErrFrozen = errors.New("timing frozen pending investigation")

	// ErrCorrupted reports an attempted mutation that would violate the
	// capacity invariant. The timing is frozen, never silently repaired.
	ErrCorrupted = errors.New("ledger corruption detected")
)
