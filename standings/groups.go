package standings

import (
	"sort"

	"github.com/courtside/pickleball-system/models"
)

// CalculateGroups runs the calculator independently per group-stage group.
// A group's participants are the ones appearing in its matches; each group's
// matches are the ones carrying its round label. Groups come back in label
// order.
func CalculateGroups(participants []*models.Participant, matches []*models.Match) []*models.GroupStandings {
	matchesByGroup := make(map[string][]*models.Match)
	for _, m := range matches {
		if m.RoundKind != models.RoundKindGroup {
			continue
		}
		matchesByGroup[m.Round] = append(matchesByGroup[m.Round], m)
	}

	labels := make([]string, 0, len(matchesByGroup))
	for label := range matchesByGroup {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]*models.GroupStandings, 0, len(labels))
	for _, label := range labels {
		groupMatches := matchesByGroup[label]

		members := make(map[int]bool)
		for _, m := range groupMatches {
			if m.ParticipantAID != nil {
				members[*m.ParticipantAID] = true
			}
			if m.ParticipantBID != nil {
				members[*m.ParticipantBID] = true
			}
		}

		// Preserve the caller's participant order for stable tie-breaking.
		groupParticipants := make([]*models.Participant, 0, len(members))
		for _, p := range participants {
			if members[p.ID] {
				groupParticipants = append(groupParticipants, p)
			}
		}

		groups = append(groups, &models.GroupStandings{
			GroupName: label,
			Standings: Calculate(groupParticipants, groupMatches),
		})
	}
	return groups
}

// QualifyTopK selects the top k participants from every group, concatenated
// in group order then rank order, as the seeding list for the knockout stage.
func QualifyTopK(groups []*models.GroupStandings, k int) []*models.Participant {
	qualified := make([]*models.Participant, 0, len(groups)*k)
	for _, g := range groups {
		limit := k
		if limit > len(g.Standings) {
			limit = len(g.Standings)
		}
		for _, s := range g.Standings[:limit] {
			qualified = append(qualified, s.Participant)
		}
	}
	return qualified
}
