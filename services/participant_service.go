package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
)

type CreateParticipantInput struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Seed    *int     `json:"seed"`
}

type ParticipantService interface {
	Create(ctx context.Context, tournamentID int, input CreateParticipantInput) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	Delete(ctx context.Context, id int) error
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	matchRepo       repositories.MatchRepository
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		matchRepo:       matchRepo,
	}
}

func (s *participantService) Create(ctx context.Context, tournamentID int, input CreateParticipantInput) (*models.Participant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	if input.Name == "" {
		return nil, ErrParticipantNameRequired
	}
	if err := validatePlayers(tournament.Type, input.Players); err != nil {
		return nil, err
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		Name:         input.Name,
		Players:      input.Players,
		Seed:         input.Seed,
	}
	if err := s.participantRepo.Create(ctx, nil, participant); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return participant, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.participantRepo.ListByTournament(ctx, tournamentID)
}

func (s *participantService) Delete(ctx context.Context, id int) error {
	participant, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, participant.TournamentID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list matches for tournament %d: %w", participant.TournamentID, err)
	}
	for _, m := range matches {
		if (m.ParticipantAID != nil && *m.ParticipantAID == id) ||
			(m.ParticipantBID != nil && *m.ParticipantBID == id) {
			return ErrParticipantInMatches
		}
	}

	if err := s.participantRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	return nil
}

func validatePlayers(tt models.TournamentType, players []string) error {
	expected := tt.PlayersPerSide()
	if len(players) != expected {
		return fmt.Errorf("%w: expected %d player(s) for %s, got %d",
			ErrParticipantInvalidPlayers, expected, tt, len(players))
	}
	for _, p := range players {
		if p == "" {
			return fmt.Errorf("%w: empty player name", ErrParticipantInvalidPlayers)
		}
	}
	return nil
}
