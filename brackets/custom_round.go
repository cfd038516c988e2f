package brackets

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/courtside/pickleball-system/models"
)

type CustomRoundGenerator struct{}

func NewCustomRoundGenerator() FixtureGenerator {
	return &CustomRoundGenerator{}
}

func (g *CustomRoundGenerator) GetName() string {
	return "CustomRound"
}

// GenerateFixtures builds an ad-hoc round. When ParticipantIDs is nil every
// available participant is paired randomly; otherwise only the listed ones
// are used, in the given order. An odd participant ends up in a match with a
// TBD opponent that must be resolved before scoring.
func (g *CustomRoundGenerator) GenerateFixtures(_ context.Context, params GenerateFixturesParams) ([]*FixtureMatch, error) {
	if params.RoundName == "" {
		return nil, fmt.Errorf("custom round requires a round name")
	}

	pool := make([]*models.Participant, 0, len(params.Participants))
	if params.ParticipantIDs == nil {
		pool = append(pool, params.Participants...)
		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
	} else {
		byID := make(map[int]*models.Participant, len(params.Participants))
		for _, p := range params.Participants {
			byID[p.ID] = p
		}
		for _, id := range params.ParticipantIDs {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("participant %d is not registered in tournament %d", id, params.Tournament.ID)
			}
			pool = append(pool, p)
		}
	}

	if len(pool) < 2 {
		return nil, fmt.Errorf("%w: found %d, minimum 2", ErrNotEnoughParticipants, len(pool))
	}

	matches := make([]*FixtureMatch, 0, (len(pool)+1)/2)
	order := 0
	for i := 0; i < len(pool); i += 2 {
		aID := pool[i].ID
		order++
		fm := &FixtureMatch{
			Round:          params.RoundName,
			Kind:           models.RoundKindCustom,
			OrderInRound:   order,
			ParticipantAID: &aID,
		}
		if i+1 < len(pool) {
			bID := pool[i+1].ID
			fm.ParticipantBID = &bID
		}
		matches = append(matches, fm)
	}
	return matches, nil
}
