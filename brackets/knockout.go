package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/pickleball-system/models"
)

type KnockoutGenerator struct{}

func NewKnockoutGenerator() FixtureGenerator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) GetName() string {
	return "Knockout"
}

// GenerateFixtures pairs the qualified participants sequentially into the
// entry round of a clean bracket: 8 participants start at the Quarterfinal,
// 4 at the Semifinal, 2 go straight to the Final. Any other count is
// rejected with a diagnostic naming the nearest bracket sizes; byes are not
// invented for ragged counts.
func (g *KnockoutGenerator) GenerateFixtures(_ context.Context, params GenerateFixturesParams) ([]*FixtureMatch, error) {
	qualified := params.Participants
	n := len(qualified)

	kind, ok := KnockoutEntryRound(n)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBracketSize, bracketSizeDiagnostic(n))
	}

	return PairWinners(qualified, kind), nil
}

// KnockoutEntryRound maps a qualified-participant count onto the round a
// clean bracket starts at.
func KnockoutEntryRound(n int) (models.RoundKind, bool) {
	switch n {
	case 2:
		return models.RoundKindFinal, true
	case 4:
		return models.RoundKindSemifinal, true
	case 8:
		return models.RoundKindQuarterfinal, true
	}
	return "", false
}

// PairWinners pairs participants consecutively ([0] vs [1], [2] vs [3], ...)
// into matches of the given knockout round. An odd leftover participant gets
// a TBD opponent slot that must be resolved manually.
func PairWinners(participants []*models.Participant, kind models.RoundKind) []*FixtureMatch {
	label := kind.Label()
	matches := make([]*FixtureMatch, 0, (len(participants)+1)/2)
	order := 0
	for i := 0; i < len(participants); i += 2 {
		aID := participants[i].ID
		order++
		fm := &FixtureMatch{
			Round:          label,
			Kind:           kind,
			OrderInRound:   order,
			ParticipantAID: &aID,
		}
		if i+1 < len(participants) {
			bID := participants[i+1].ID
			fm.ParticipantBID = &bID
		}
		matches = append(matches, fm)
	}
	return matches
}

func bracketSizeDiagnostic(n int) string {
	switch {
	case n < 2:
		return fmt.Sprintf("got %d qualified participants, at least 2 required", n)
	case n > 8:
		return fmt.Sprintf("got %d qualified participants, %d over the largest supported bracket of 8", n, n-8)
	default:
		var next int
		for _, size := range []int{4, 8} {
			if size > n {
				next = size
				break
			}
		}
		return fmt.Sprintf("got %d qualified participants, %d short of a %d-bracket", n, next-n, next)
	}
}
