package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/pickleball-system/models"
)

const roundRobinLabel = "Round Robin"

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() FixtureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateFixtures creates one match per unordered pair of participants,
// n*(n-1)/2 in total. An odd participant count simply means one entry sits
// out per rotation; no match row is created for a bye.
func (g *RoundRobinGenerator) GenerateFixtures(_ context.Context, params GenerateFixturesParams) ([]*FixtureMatch, error) {
	if len(params.Participants) < 2 {
		return nil, fmt.Errorf("%w: found %d, minimum 2", ErrNotEnoughParticipants, len(params.Participants))
	}
	return pairAllVersusAll(params.Participants, roundRobinLabel, models.RoundKindCustom, 0), nil
}

// pairAllVersusAll emits one match per unordered pair under the given round
// label, with OrderInRound continuing from orderOffset.
func pairAllVersusAll(participants []*models.Participant, label string, kind models.RoundKind, orderOffset int) []*FixtureMatch {
	matches := make([]*FixtureMatch, 0, len(participants)*(len(participants)-1)/2)
	order := orderOffset
	for i := 0; i < len(participants); i++ {
		for j := i + 1; j < len(participants); j++ {
			aID := participants[i].ID
			bID := participants[j].ID
			order++
			matches = append(matches, &FixtureMatch{
				Round:          label,
				Kind:           kind,
				OrderInRound:   order,
				ParticipantAID: &aID,
				ParticipantBID: &bID,
			})
		}
	}
	return matches
}
