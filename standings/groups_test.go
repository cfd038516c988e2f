package standings

import (
	"testing"

	"github.com/courtside/pickleball-system/models"
)

func groupMatch(id int, label string, aID, bID, scoreA, scoreB int) *models.Match {
	m := completedMatch(id, aID, bID, scoreA, scoreB)
	m.Round = label
	m.RoundKind = models.RoundKindGroup
	return m
}

func TestCalculateGroupsIsolatesGroups(t *testing.T) {
	ps := participants(t, 6)
	matches := []*models.Match{
		// Group A: 1, 2, 3
		groupMatch(1, "Group A", 1, 2, 11, 5),
		groupMatch(2, "Group A", 1, 3, 11, 6),
		groupMatch(3, "Group A", 2, 3, 11, 7),
		// Group B: 4, 5, 6
		groupMatch(4, "Group B", 5, 4, 11, 2),
		groupMatch(5, "Group B", 5, 6, 11, 4),
		groupMatch(6, "Group B", 6, 4, 11, 9),
	}

	groups := CalculateGroups(ps, matches)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].GroupName != "Group A" || groups[1].GroupName != "Group B" {
		t.Fatalf("groups out of label order: %q, %q", groups[0].GroupName, groups[1].GroupName)
	}

	if len(groups[0].Standings) != 3 {
		t.Fatalf("Group A should hold 3 participants, got %d", len(groups[0].Standings))
	}
	if groups[0].Standings[0].Participant.ID != 1 {
		t.Errorf("Group A winner should be participant 1, got %d", groups[0].Standings[0].Participant.ID)
	}
	if groups[1].Standings[0].Participant.ID != 5 {
		t.Errorf("Group B winner should be participant 5, got %d", groups[1].Standings[0].Participant.ID)
	}

	// Group A results must not leak into Group B stats.
	for _, s := range groups[1].Standings {
		if s.MatchesPlayed != 2 {
			t.Errorf("participant %d in Group B: expected 2 matches, got %d", s.Participant.ID, s.MatchesPlayed)
		}
	}
}

func TestCalculateGroupsIgnoresNonGroupMatches(t *testing.T) {
	ps := participants(t, 4)
	matches := []*models.Match{
		groupMatch(1, "Group A", 1, 2, 11, 5),
		completedMatch(2, 3, 4, 11, 5), // custom kind, must not create a group
	}

	groups := CalculateGroups(ps, matches)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].GroupName != "Group A" {
		t.Errorf("unexpected group: %q", groups[0].GroupName)
	}
}

func TestQualifyTopK(t *testing.T) {
	ps := participants(t, 6)
	matches := []*models.Match{
		groupMatch(1, "Group A", 1, 2, 11, 5),
		groupMatch(2, "Group A", 1, 3, 11, 6),
		groupMatch(3, "Group A", 2, 3, 11, 7),
		groupMatch(4, "Group B", 5, 4, 11, 2),
		groupMatch(5, "Group B", 5, 6, 11, 4),
		groupMatch(6, "Group B", 6, 4, 11, 9),
	}

	groups := CalculateGroups(ps, matches)
	qualified := QualifyTopK(groups, 2)

	want := []int{1, 2, 5, 6}
	if len(qualified) != len(want) {
		t.Fatalf("expected %d qualifiers, got %d", len(want), len(qualified))
	}
	for i, p := range qualified {
		if p.ID != want[i] {
			t.Errorf("qualifier %d: expected participant %d, got %d", i, want[i], p.ID)
		}
	}
}

func TestQualifyTopKClampsSmallGroups(t *testing.T) {
	ps := participants(t, 2)
	matches := []*models.Match{
		groupMatch(1, "Group A", 1, 2, 11, 5),
	}

	groups := CalculateGroups(ps, matches)
	qualified := QualifyTopK(groups, 3)
	if len(qualified) != 2 {
		t.Fatalf("k beyond group size must clamp, got %d qualifiers", len(qualified))
	}
}
