package brackets

import (
	"context"
	"errors"

	"github.com/courtside/pickleball-system/models"
)

// Validation failures shared by the generators. Services wrap these so the
// HTTP layer can map them to 400 responses.
var (
	ErrNotEnoughParticipants = errors.New("not enough participants to generate fixtures")
	ErrInvalidGroupBounds    = errors.New("group size bounds are invalid")
	ErrGroupSizeOutOfBounds  = errors.New("group distribution falls outside the allowed size bounds")
	ErrInvalidBracketSize    = errors.New("knockout bracket requires 2, 4 or 8 qualified participants")
)

// FixtureMatch is a match produced by a generator before it is persisted.
// A nil participant pointer is a TBD slot.
type FixtureMatch struct {
	Round          string
	Kind           models.RoundKind
	OrderInRound   int
	ParticipantAID *int
	ParticipantBID *int
}

type GenerateFixturesParams struct {
	Tournament   *models.Tournament
	Participants []*models.Participant

	// Group stage options.
	NumGroups   int
	MinPerGroup int
	MaxPerGroup int

	// Custom round options. ParticipantIDs nil means pair everyone.
	RoundName      string
	ParticipantIDs []int
}

type FixtureGenerator interface {
	GenerateFixtures(ctx context.Context, params GenerateFixturesParams) ([]*FixtureMatch, error)

	GetName() string
}
