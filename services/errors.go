package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	// Not found
	ErrNotFound            = errors.New("requested resource not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrUserNotFound        = errors.New("user not found")

	// Validation and business rules
	ErrValidationFailed          = errors.New("validation failed")
	ErrTournamentNameRequired    = errors.New("tournament name is required")
	ErrTournamentInvalidType     = errors.New("invalid tournament type provided")
	ErrTournamentInvalidFormat   = errors.New("invalid tournament format provided")
	ErrTournamentInvalidRules    = errors.New("tournament points to win must be positive")
	ErrParticipantNameRequired   = errors.New("participant name is required")
	ErrParticipantInvalidPlayers = errors.New("participant player count does not match the tournament type")
	ErrScoreNegative             = errors.New("match scores must be non-negative")
	ErrScoresEqual               = errors.New("match cannot be completed with equal scores")
	ErrMatchSlotUnresolved       = errors.New("match has an unresolved participant slot")
	ErrRoundNameTaken            = errors.New("a round with this name already exists")

	// State conflicts
	ErrMatchAlreadyCompleted    = errors.New("match is already completed")
	ErrMatchCancelled           = errors.New("cancelled match must be reactivated before scoring")
	ErrMatchNotCancelled        = errors.New("only a cancelled match can be reactivated")
	ErrRoundLocked              = errors.New("round is locked: its results have been consumed by progression")
	ErrFixturesAlreadyGenerated = errors.New("fixtures have already been generated for this tournament")
	ErrParticipantInMatches     = errors.New("participant is referenced by existing matches")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
)
