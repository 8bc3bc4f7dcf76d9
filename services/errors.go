package services

import "errors"

// Business errors shared across services and mapped at the boundaries
// (HTTP status codes, Discord replies). Anything a service returns that is
// not one of these is a storage failure and is propagated as-is.
var (
	// Missing references
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Invalid input
	ErrMatchIndexOutOfRange = errors.New("match number out of range")
	ErrInvalidOutcome       = errors.New("outcome must be team1 or team2")

	// Business rules
	ErrPredictionsClosed = errors.New("predictions are closed for this round")
)
