package models

import "testing"

func TestRoundKindNext(t *testing.T) {
	cases := []struct {
		kind RoundKind
		next RoundKind
		ok   bool
	}{
		{RoundKindQuarterfinal, RoundKindSemifinal, true},
		{RoundKindSemifinal, RoundKindFinal, true},
		{RoundKindFinal, "", false},
		{RoundKindGroup, "", false},
		{RoundKindCustom, "", false},
	}
	for _, tc := range cases {
		next, ok := tc.kind.Next()
		if next != tc.next || ok != tc.ok {
			t.Errorf("%q.Next() = (%q, %v), want (%q, %v)", tc.kind, next, ok, tc.next, tc.ok)
		}
	}
}

func TestParseRoundLabel(t *testing.T) {
	cases := []struct {
		label string
		want  RoundKind
	}{
		{"Group A", RoundKindGroup},
		{"Group B", RoundKindGroup},
		{"Quarterfinal", RoundKindQuarterfinal},
		{"Quarter-Finals", RoundKindQuarterfinal},
		{"Semifinal", RoundKindSemifinal},
		{"Semi Final", RoundKindSemifinal},
		{"Final", RoundKindFinal},
		{"Round Robin", RoundKindCustom},
		{"Consolation", RoundKindCustom},
	}
	for _, tc := range cases {
		if got := ParseRoundLabel(tc.label); got != tc.want {
			t.Errorf("ParseRoundLabel(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestGroupLetter(t *testing.T) {
	if got := GroupLetter("Group A"); got != "A" {
		t.Errorf("expected A, got %q", got)
	}
	if got := GroupLetter("Semifinal"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestRoundComplete(t *testing.T) {
	cases := []struct {
		round Round
		want  bool
	}{
		{Round{Total: 0}, false},
		{Round{Total: 3, Completed: 3}, true},
		{Round{Total: 3, Completed: 2, Cancelled: 1}, true},
		{Round{Total: 3, Completed: 2, Live: 1}, false},
		{Round{Total: 3, Upcoming: 3}, false},
	}
	for i, tc := range cases {
		if got := tc.round.Complete(); got != tc.want {
			t.Errorf("case %d: Complete() = %v, want %v", i, got, tc.want)
		}
	}
}

func TestBuildRounds(t *testing.T) {
	one, two := 1, 2
	matches := []*Match{
		{Round: "Group B", RoundKind: RoundKindGroup, Status: MatchStatusCompleted, ParticipantAID: &one, ParticipantBID: &two},
		{Round: "Group A", RoundKind: RoundKindGroup, Status: MatchStatusLive, ParticipantAID: &one, ParticipantBID: &two},
		{Round: "Group A", RoundKind: RoundKindGroup, Status: MatchStatusUpcoming, ParticipantAID: &one, ParticipantBID: &two},
	}

	rounds := BuildRounds(matches)
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].Label != "Group A" || rounds[1].Label != "Group B" {
		t.Fatalf("rounds should come back in label order: %q, %q", rounds[0].Label, rounds[1].Label)
	}
	a := rounds[0]
	if a.Total != 2 || a.Live != 1 || a.Upcoming != 1 {
		t.Errorf("unexpected Group A stats: %+v", a)
	}
	b := rounds[1]
	if b.Total != 1 || b.Completed != 1 || !b.Complete() {
		t.Errorf("unexpected Group B stats: %+v", b)
	}
}

func TestMatchResolved(t *testing.T) {
	one, two := 1, 2
	if (&Match{ParticipantAID: &one}).Resolved() {
		t.Error("match with a TBD slot must not be resolved")
	}
	if !(&Match{ParticipantAID: &one, ParticipantBID: &two}).Resolved() {
		t.Error("match with both slots filled must be resolved")
	}
}
