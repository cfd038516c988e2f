package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/courtside/pickleball-system/brackets"
	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
)

// GenerateFixturesInput carries the per-format options.
type GenerateFixturesInput struct {
	// Group stage
	NumGroups   int `json:"num_groups"`
	MinPerGroup int `json:"min_per_group"`
	MaxPerGroup int `json:"max_per_group"`

	// Custom round. ParticipantIDs nil pairs every participant randomly.
	RoundName      string `json:"round_name"`
	ParticipantIDs []int  `json:"participant_ids"`
}

type FixtureResult struct {
	MatchesCreated int                        `json:"matches_created"`
	ByRound        map[string][]*models.Match `json:"by_round"`
}

type FixtureService interface {
	GenerateFixtures(ctx context.Context, tournamentID int, input GenerateFixturesInput) (*FixtureResult, error)
}

type fixtureService struct {
	txRunner        repositories.TxRunner
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	locker          *TournamentLocker
	hub             EventBroadcaster
	logger          *slog.Logger
}

func NewFixtureService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	locker *TournamentLocker,
	hub EventBroadcaster,
	logger *slog.Logger,
) FixtureService {
	if locker == nil {
		locker = NewTournamentLocker()
	}
	if hub == nil {
		hub = noopBroadcaster{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &fixtureService{
		txRunner:        txRunner,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		locker:          locker,
		hub:             hub,
		logger:          logger,
	}
}

func (s *fixtureService) GenerateFixtures(ctx context.Context, tournamentID int, input GenerateFixturesInput) (*FixtureResult, error) {
	unlock := s.locker.Lock(tournamentID)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}

	existing, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}

	var generator brackets.FixtureGenerator
	switch tournament.Format {
	case models.FormatRoundRobin:
		generator = brackets.NewRoundRobinGenerator()
	case models.FormatGroup:
		generator = brackets.NewGroupStageGenerator()
	case models.FormatKnockout:
		generator = brackets.NewKnockoutGenerator()
	case models.FormatCustom:
		generator = brackets.NewCustomRoundGenerator()
	default:
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidFormat, tournament.Format)
	}

	// A custom-format tournament can add rounds at any time; the structured
	// formats generate their fixture set exactly once.
	if tournament.Format == models.FormatCustom {
		for _, m := range existing {
			if m.Round == input.RoundName {
				return nil, ErrRoundNameTaken
			}
		}
	} else if len(existing) > 0 {
		return nil, ErrFixturesAlreadyGenerated
	}

	fixtures, err := generator.GenerateFixtures(ctx, brackets.GenerateFixturesParams{
		Tournament:     tournament,
		Participants:   participants,
		NumGroups:      input.NumGroups,
		MinPerGroup:    input.MinPerGroup,
		MaxPerGroup:    input.MaxPerGroup,
		RoundName:      input.RoundName,
		ParticipantIDs: input.ParticipantIDs,
	})
	if err != nil {
		return nil, err
	}
	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%s generated no matches for %d participants", generator.GetName(), len(participants))
	}

	newMatches := fixturesToMatches(tournamentID, fixtures)
	firstRound := firstRoundLabel(newMatches)

	err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, m := range newMatches {
			if err := s.matchRepo.Create(ctx, exec, m); err != nil {
				return fmt.Errorf("failed to create match for round %q: %w", m.Round, err)
			}
		}
		if tournament.CurrentRound == nil || tournament.Format != models.FormatCustom {
			if err := s.tournamentRepo.UpdateCurrentRound(ctx, exec, tournamentID, &firstRound); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byRound := make(map[string][]*models.Match)
	for _, m := range newMatches {
		byRound[m.Round] = append(byRound[m.Round], m)
	}

	s.logger.Info("fixtures generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("generator", generator.GetName()),
		slog.Int("matches", len(newMatches)))

	s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Event{
		Type:    brackets.EventFixturesGenerated,
		Payload: byRound,
		RoomID:  tournamentRoom(tournamentID),
	})

	return &FixtureResult{MatchesCreated: len(newMatches), ByRound: byRound}, nil
}

func firstRoundLabel(matches []*models.Match) string {
	labels := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m.Round] {
			seen[m.Round] = true
			labels = append(labels, m.Round)
		}
	}
	sort.Strings(labels)
	return labels[0]
}
