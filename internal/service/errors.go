package service

import "errors"

// Engine errors are sentinels so callers can branch with errors.Is and map
// them to transport-level responses. None of them are fatal to the process.
var (
	// ErrAuthRequired is returned when an operation is invoked without a
	// user id. Callers treat "no user" as a normal, checkable condition.
	ErrAuthRequired = errors.New("authentication required")

	// ErrDailyLimitReached blocks new sessions once today's completed-quiz
	// count hits the daily limit.
	ErrDailyLimitReached = errors.New("daily quiz limit reached")

	// ErrLoadFailed wraps Question Source or Session Store failures during
	// initialization. No partial session is persisted when it is returned.
	ErrLoadFailed = errors.New("quiz load failed")

	// ErrPersistFailed wraps Session Store write failures after answering
	// or finalizing. The engine does not retry; the in-memory state the
	// caller holds may drift from the stored state until the next
	// successful write.
	ErrPersistFailed = errors.New("quiz persist failed")

	// ErrSessionNotFound is returned when answering or finalizing a
	// (user, topic) pair with no resumable session.
	ErrSessionNotFound = errors.New("quiz session not found")

	// ErrSubmitPending rejects a second answer submission while one is
	// still in flight for the same session.
	ErrSubmitPending = errors.New("answer submission already in flight")

	// ErrInvalidOption is returned when the chosen answer is not one of
	// the current question's options.
	ErrInvalidOption = errors.New("chosen answer is not an option")

	// ErrProfileNotFound is returned when no profile document exists for
	// the user.
	ErrProfileNotFound = errors.New("user profile not found")
)
