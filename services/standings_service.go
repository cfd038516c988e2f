package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
	"github.com/courtside/pickleball-system/standings"
	"golang.org/x/sync/errgroup"
)

// StandingsService exposes the pure standings calculator over stored state.
// There is no caching: clients poll and always get a table derived from the
// current matches.
type StandingsService interface {
	GetStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error)
	GetGroupStandings(ctx context.Context, tournamentID int) ([]*models.GroupStandings, error)
}

type standingsService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	participants, matches, err := s.loadState(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standings.Calculate(participants, matches), nil
}

func (s *standingsService) GetGroupStandings(ctx context.Context, tournamentID int) ([]*models.GroupStandings, error) {
	participants, matches, err := s.loadState(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standings.CalculateGroups(participants, matches), nil
}

func (s *standingsService) loadState(ctx context.Context, tournamentID int) ([]*models.Participant, []*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	var (
		participants []*models.Participant
		matches      []*models.Match
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, tournamentID, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return participants, matches, nil
}
