package brackets

import (
	"context"
	"fmt"

	"github.com/courtside/pickleball-system/models"
)

type GroupStageGenerator struct{}

func NewGroupStageGenerator() FixtureGenerator {
	return &GroupStageGenerator{}
}

func (g *GroupStageGenerator) GetName() string {
	return "GroupStage"
}

// GenerateFixtures partitions the participants into NumGroups groups with
// sizes as equal as possible (the remainder goes to the first groups), then
// generates a round robin inside each group under the label "Group <Letter>".
// The resulting distribution is rejected if any group falls outside
// [MinPerGroup, MaxPerGroup].
func (g *GroupStageGenerator) GenerateFixtures(_ context.Context, params GenerateFixturesParams) ([]*FixtureMatch, error) {
	participants := params.Participants
	numGroups := params.NumGroups

	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: found %d, minimum 2", ErrNotEnoughParticipants, len(participants))
	}
	if numGroups < 1 {
		return nil, fmt.Errorf("%w: number of groups must be at least 1, got %d", ErrInvalidGroupBounds, numGroups)
	}
	if params.MinPerGroup < 2 || params.MaxPerGroup < params.MinPerGroup {
		return nil, fmt.Errorf("%w: min=%d max=%d", ErrInvalidGroupBounds, params.MinPerGroup, params.MaxPerGroup)
	}
	if numGroups > len(participants) {
		return nil, fmt.Errorf("%w: %d groups for %d participants", ErrInvalidGroupBounds, numGroups, len(participants))
	}

	sizes := GroupDistribution(len(participants), numGroups)
	smallest := sizes[len(sizes)-1]
	largest := sizes[0]
	if smallest < params.MinPerGroup || largest > params.MaxPerGroup {
		return nil, fmt.Errorf("%w: distribution %v with bounds [%d, %d]",
			ErrGroupSizeOutOfBounds, sizes, params.MinPerGroup, params.MaxPerGroup)
	}

	matches := make([]*FixtureMatch, 0)
	offset := 0
	for i, size := range sizes {
		group := participants[offset : offset+size]
		offset += size
		label := fmt.Sprintf("Group %c", 'A'+i)
		matches = append(matches, pairAllVersusAll(group, label, models.RoundKindGroup, 0)...)
	}
	return matches, nil
}

// GroupDistribution splits n participants into g group sizes that sum to n
// and differ by at most one, larger groups first.
func GroupDistribution(n, g int) []int {
	base := n / g
	rem := n % g
	sizes := make([]int, g)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}
