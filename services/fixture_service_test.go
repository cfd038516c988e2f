package services

import (
	"context"
	"errors"
	"testing"

	"github.com/courtside/pickleball-system/brackets"
	"github.com/courtside/pickleball-system/models"
)

type fixtureEnv struct {
	tournamentRepo  *fakeTournamentRepo
	participantRepo *fakeParticipantRepo
	matchRepo       *fakeMatchRepo
	service         FixtureService
}

func newFixtureEnv(t *testing.T) *fixtureEnv {
	t.Helper()
	env := &fixtureEnv{
		tournamentRepo:  newFakeTournamentRepo(),
		participantRepo: newFakeParticipantRepo(),
		matchRepo:       newFakeMatchRepo(),
	}
	env.service = NewFixtureService(
		&fakeTxRunner{},
		env.tournamentRepo,
		env.participantRepo,
		env.matchRepo,
		nil,
		nil,
		nil,
	)
	return env
}

func (env *fixtureEnv) seed(t *testing.T, format models.TournamentFormat, participants int) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Name:   "Fixture Open",
		Type:   models.TypeSingles,
		Format: format,
		Rules:  models.TournamentRules{PointsToWin: 11},
		Status: models.StatusDraft,
	}
	if err := env.tournamentRepo.Create(context.Background(), nil, tournament); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < participants; i++ {
		p := &models.Participant{
			TournamentID: tournament.ID,
			Name:         "P",
			Players:      []string{"P"},
		}
		if err := env.participantRepo.Create(context.Background(), nil, p); err != nil {
			t.Fatal(err)
		}
	}
	return tournament
}

func TestGenerateFixturesRoundRobin(t *testing.T) {
	env := newFixtureEnv(t)
	tournament := env.seed(t, models.FormatRoundRobin, 5)

	result, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if result.MatchesCreated != 10 {
		t.Errorf("expected 10 matches for 5 participants, got %d", result.MatchesCreated)
	}
	if len(result.ByRound["Round Robin"]) != 10 {
		t.Errorf("all matches should sit in the Round Robin round: %v", result.ByRound)
	}

	stored, err := env.tournamentRepo.GetByID(context.Background(), tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.CurrentRound == nil || *stored.CurrentRound != "Round Robin" {
		t.Errorf("current round should point at the generated round, got %v", stored.CurrentRound)
	}
}

func TestGenerateFixturesGroupFormat(t *testing.T) {
	env := newFixtureEnv(t)
	tournament := env.seed(t, models.FormatGroup, 7)

	result, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{
		NumGroups:   2,
		MinPerGroup: 3,
		MaxPerGroup: 4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.ByRound) != 2 {
		t.Fatalf("expected 2 group rounds, got %v", result.ByRound)
	}
	if len(result.ByRound["Group A"]) != 6 || len(result.ByRound["Group B"]) != 3 {
		t.Errorf("unexpected group distribution: %v", result.ByRound)
	}
}

func TestGenerateFixturesKnockoutFormat(t *testing.T) {
	env := newFixtureEnv(t)
	tournament := env.seed(t, models.FormatKnockout, 8)

	result, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if result.MatchesCreated != 4 {
		t.Errorf("8 participants should produce 4 quarterfinals, got %d", result.MatchesCreated)
	}
	if len(result.ByRound["Quarterfinal"]) != 4 {
		t.Errorf("expected a Quarterfinal round: %v", result.ByRound)
	}
}

func TestGenerateFixturesKnockoutRejectsRaggedField(t *testing.T) {
	env := newFixtureEnv(t)
	tournament := env.seed(t, models.FormatKnockout, 5)

	_, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{})
	if !errors.Is(err, brackets.ErrInvalidBracketSize) {
		t.Fatalf("expected ErrInvalidBracketSize for 5 participants, got %v", err)
	}
}

func TestGenerateFixturesStructuredFormatsRunOnce(t *testing.T) {
	env := newFixtureEnv(t)
	tournament := env.seed(t, models.FormatRoundRobin, 4)

	if _, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{}); err != nil {
		t.Fatal(err)
	}
	_, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{})
	if !errors.Is(err, ErrFixturesAlreadyGenerated) {
		t.Fatalf("expected ErrFixturesAlreadyGenerated, got %v", err)
	}
}

func TestGenerateFixturesCustomFormatAddsRounds(t *testing.T) {
	env := newFixtureEnv(t)
	tournament := env.seed(t, models.FormatCustom, 4)

	if _, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{RoundName: "Warmup"}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{RoundName: "Main Draw"}); err != nil {
		t.Fatal(err)
	}

	// Reusing a round name collides.
	_, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{RoundName: "Warmup"})
	if !errors.Is(err, ErrRoundNameTaken) {
		t.Fatalf("expected ErrRoundNameTaken, got %v", err)
	}
}

func TestGenerateFixturesUnknownTournament(t *testing.T) {
	env := newFixtureEnv(t)
	_, err := env.service.GenerateFixtures(context.Background(), 42, GenerateFixturesInput{})
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestGenerateFixturesUsesSharedLocker(t *testing.T) {
	locker := NewTournamentLocker()
	env := &fixtureEnv{
		tournamentRepo:  newFakeTournamentRepo(),
		participantRepo: newFakeParticipantRepo(),
		matchRepo:       newFakeMatchRepo(),
	}
	env.service = NewFixtureService(
		&fakeTxRunner{},
		env.tournamentRepo,
		env.participantRepo,
		env.matchRepo,
		locker,
		nil,
		nil,
	)
	tournament := env.seed(t, models.FormatRoundRobin, 3)

	// Generation must wait behind whoever holds the tournament's lock.
	released := false
	unlock := locker.Lock(tournament.ID)

	done := make(chan error, 1)
	go func() {
		_, err := env.service.GenerateFixtures(context.Background(), tournament.ID, GenerateFixturesInput{})
		if !released {
			t.Error("fixture generation ran while the tournament lock was held")
		}
		done <- err
	}()

	released = true
	unlock()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestFixtureAndProgressionShareOneLocker(t *testing.T) {
	locker := NewTournamentLocker()
	tournamentRepo := newFakeTournamentRepo()
	participantRepo := newFakeParticipantRepo()
	matchRepo := newFakeMatchRepo()

	fs := NewFixtureService(&fakeTxRunner{}, tournamentRepo, participantRepo, matchRepo, locker, nil, nil)
	ps := NewProgressionService(&fakeTxRunner{}, tournamentRepo, participantRepo, matchRepo, locker, nil, nil, 2)

	if fs.(*fixtureService).locker != locker {
		t.Error("fixture service must use the injected locker")
	}
	if ps.(*progressionService).locker != locker {
		t.Error("progression service must use the injected locker")
	}
}
