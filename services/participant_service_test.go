package services

import (
	"context"
	"errors"
	"testing"

	"github.com/courtside/pickleball-system/models"
)

func newParticipantEnv(t *testing.T, tournamentType models.TournamentType) (ParticipantService, *models.Tournament, *fakeMatchRepo) {
	t.Helper()
	tournamentRepo := newFakeTournamentRepo()
	participantRepo := newFakeParticipantRepo()
	matchRepo := newFakeMatchRepo()

	tournament := &models.Tournament{
		Name:   "Entry Open",
		Type:   tournamentType,
		Format: models.FormatRoundRobin,
	}
	if err := tournamentRepo.Create(context.Background(), nil, tournament); err != nil {
		t.Fatal(err)
	}

	return NewParticipantService(participantRepo, tournamentRepo, matchRepo), tournament, matchRepo
}

func TestCreateParticipantSingles(t *testing.T) {
	svc, tournament, _ := newParticipantEnv(t, models.TypeSingles)

	p, err := svc.Create(context.Background(), tournament.ID, CreateParticipantInput{
		Name:    "Alice",
		Players: []string{"Alice Smith"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 || p.TournamentID != tournament.ID {
		t.Errorf("unexpected participant: %+v", p)
	}
}

func TestCreateParticipantPlayerCountMatchesType(t *testing.T) {
	svc, tournament, _ := newParticipantEnv(t, models.TypeDoubles)

	// One name for a doubles tournament.
	_, err := svc.Create(context.Background(), tournament.ID, CreateParticipantInput{
		Name:    "Solo",
		Players: []string{"Alice Smith"},
	})
	if !errors.Is(err, ErrParticipantInvalidPlayers) {
		t.Fatalf("expected ErrParticipantInvalidPlayers, got %v", err)
	}

	// Two names pass.
	if _, err := svc.Create(context.Background(), tournament.ID, CreateParticipantInput{
		Name:    "Smith/Jones",
		Players: []string{"Alice Smith", "Bob Jones"},
	}); err != nil {
		t.Fatal(err)
	}
}

func TestCreateParticipantRequiresName(t *testing.T) {
	svc, tournament, _ := newParticipantEnv(t, models.TypeSingles)

	_, err := svc.Create(context.Background(), tournament.ID, CreateParticipantInput{
		Players: []string{"Alice Smith"},
	})
	if !errors.Is(err, ErrParticipantNameRequired) {
		t.Fatalf("expected ErrParticipantNameRequired, got %v", err)
	}
}

func TestDeleteParticipantBlockedByMatches(t *testing.T) {
	svc, tournament, matchRepo := newParticipantEnv(t, models.TypeSingles)

	a, err := svc.Create(context.Background(), tournament.ID, CreateParticipantInput{
		Name: "Alice", Players: []string{"Alice Smith"},
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := svc.Create(context.Background(), tournament.ID, CreateParticipantInput{
		Name: "Bob", Players: []string{"Bob Jones"},
	})
	if err != nil {
		t.Fatal(err)
	}

	m := &models.Match{
		TournamentID:   tournament.ID,
		Round:          "Round Robin",
		RoundKind:      models.RoundKindCustom,
		ParticipantAID: &a.ID,
		ParticipantBID: &b.ID,
		Status:         models.MatchStatusUpcoming,
	}
	if err := matchRepo.Create(context.Background(), nil, m); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), a.ID); !errors.Is(err, ErrParticipantInMatches) {
		t.Fatalf("expected ErrParticipantInMatches, got %v", err)
	}

	// Once the match is gone the participant can be removed.
	if err := matchRepo.Delete(context.Background(), nil, m.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteUnknownParticipant(t *testing.T) {
	svc, _, _ := newParticipantEnv(t, models.TypeSingles)
	if err := svc.Delete(context.Background(), 404); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}
}
