package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/courtside/pickleball-system/models"
)

func TestGroupDistribution(t *testing.T) {
	cases := []struct {
		n, g int
		want []int
	}{
		{10, 2, []int{5, 5}},
		{10, 3, []int{4, 3, 3}},
		{11, 3, []int{4, 4, 3}},
		{12, 4, []int{3, 3, 3, 3}},
		{7, 2, []int{4, 3}},
	}

	for _, tc := range cases {
		got := GroupDistribution(tc.n, tc.g)
		if len(got) != len(tc.want) {
			t.Fatalf("n=%d g=%d: expected %v, got %v", tc.n, tc.g, tc.want, got)
		}
		sum := 0
		for i, size := range got {
			sum += size
			if size != tc.want[i] {
				t.Errorf("n=%d g=%d: expected %v, got %v", tc.n, tc.g, tc.want, got)
				break
			}
		}
		if sum != tc.n {
			t.Errorf("n=%d g=%d: sizes %v sum to %d", tc.n, tc.g, got, sum)
		}
	}
}

func TestGroupStageLabelsAndIsolation(t *testing.T) {
	gen := NewGroupStageGenerator()
	fixtures, err := gen.GenerateFixtures(context.Background(), GenerateFixturesParams{
		Participants: testParticipants(7),
		NumGroups:    2,
		MinPerGroup:  3,
		MaxPerGroup:  4,
	})
	if err != nil {
		t.Fatal(err)
	}

	// 4 participants in Group A (6 matches), 3 in Group B (3 matches).
	byLabel := make(map[string]int)
	for _, fm := range fixtures {
		byLabel[fm.Round]++
		if fm.Kind != models.RoundKindGroup {
			t.Errorf("expected group kind, got %q", fm.Kind)
		}
	}
	if byLabel["Group A"] != 6 || byLabel["Group B"] != 3 {
		t.Fatalf("unexpected match distribution: %v", byLabel)
	}

	// Group A holds participants 1..4; no cross-group match may exist.
	inA := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, fm := range fixtures {
		aInA, bInA := inA[*fm.ParticipantAID], inA[*fm.ParticipantBID]
		if aInA != bInA {
			t.Errorf("cross-group match between %d and %d in %q", *fm.ParticipantAID, *fm.ParticipantBID, fm.Round)
		}
	}
}

func TestGroupStageRejectsOutOfBoundsDistribution(t *testing.T) {
	gen := NewGroupStageGenerator()
	_, err := gen.GenerateFixtures(context.Background(), GenerateFixturesParams{
		Participants: testParticipants(9),
		NumGroups:    2,
		MinPerGroup:  2,
		MaxPerGroup:  4,
	})
	if !errors.Is(err, ErrGroupSizeOutOfBounds) {
		t.Fatalf("expected ErrGroupSizeOutOfBounds for 9 participants in 2 groups capped at 4, got %v", err)
	}
}

func TestGroupStageRejectsInvalidBounds(t *testing.T) {
	gen := NewGroupStageGenerator()

	cases := []GenerateFixturesParams{
		{Participants: testParticipants(6), NumGroups: 0, MinPerGroup: 2, MaxPerGroup: 4},
		{Participants: testParticipants(6), NumGroups: 2, MinPerGroup: 1, MaxPerGroup: 4},
		{Participants: testParticipants(6), NumGroups: 2, MinPerGroup: 4, MaxPerGroup: 3},
		{Participants: testParticipants(3), NumGroups: 4, MinPerGroup: 2, MaxPerGroup: 4},
	}
	for i, params := range cases {
		if _, err := gen.GenerateFixtures(context.Background(), params); !errors.Is(err, ErrInvalidGroupBounds) {
			t.Errorf("case %d: expected ErrInvalidGroupBounds, got %v", i, err)
		}
	}
}
