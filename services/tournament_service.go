package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
	"github.com/courtside/pickleball-system/storage"
)

const (
	defaultPointsToWin   = 11
	defaultScoringSystem = "traditional"
)

type CreateTournamentInput struct {
	Name          string                  `json:"name"`
	Type          models.TournamentType   `json:"type"`
	Format        models.TournamentFormat `json:"format"`
	PointsToWin   int                     `json:"points_to_win"`
	ScoringSystem string                  `json:"scoring_system"`
	IsPublic      bool                    `json:"is_public"`
}

type UpdateTournamentInput struct {
	Name        *string                  `json:"name"`
	Status      *models.TournamentStatus `json:"status"`
	PointsToWin *int                     `json:"points_to_win"`
	IsPublic    *bool                    `json:"is_public"`
}

type TournamentService interface {
	Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, publicOnly bool) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	ListRounds(ctx context.Context, id int) ([]models.Round, error)
	UploadBanner(ctx context.Context, id int, contentType string, r io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	banners        storage.BannerStore
	locker         *TournamentLocker
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	banners storage.BannerStore,
	locker *TournamentLocker,
) TournamentService {
	if locker == nil {
		locker = NewTournamentLocker()
	}
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		banners:        banners,
		locker:         locker,
	}
}

func (s *tournamentService) Create(ctx context.Context, creatorID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if !models.ValidTournamentType(input.Type) {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidType, input.Type)
	}
	if !models.ValidTournamentFormat(input.Format) {
		return nil, fmt.Errorf("%w: %q", ErrTournamentInvalidFormat, input.Format)
	}
	if input.PointsToWin < 0 {
		return nil, ErrTournamentInvalidRules
	}
	if input.PointsToWin == 0 {
		input.PointsToWin = defaultPointsToWin
	}
	if input.ScoringSystem == "" {
		input.ScoringSystem = defaultScoringSystem
	}

	tournament := &models.Tournament{
		Name:   input.Name,
		Type:   input.Type,
		Format: input.Format,
		Rules: models.TournamentRules{
			PointsToWin:   input.PointsToWin,
			ScoringSystem: input.ScoringSystem,
		},
		Status:       models.StatusDraft,
		IsPublic:     input.IsPublic,
		LockedRounds: []string{},
		CreatorID:    creatorID,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	s.attachBannerURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, publicOnly bool) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, publicOnly)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		s.attachBannerURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTournamentNameRequired
		}
		tournament.Name = *input.Name
	}
	if input.Status != nil {
		switch *input.Status {
		case models.StatusDraft, models.StatusComingSoon, models.StatusLive,
			models.StatusDelayed, models.StatusCompleted, models.TournamentStatusCancelled:
			tournament.Status = *input.Status
		default:
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidationFailed, *input.Status)
		}
	}
	if input.PointsToWin != nil {
		if *input.PointsToWin <= 0 {
			return nil, ErrTournamentInvalidRules
		}
		tournament.Rules.PointsToWin = *input.PointsToWin
	}
	if input.IsPublic != nil {
		tournament.IsPublic = *input.IsPublic
	}

	if err := s.tournamentRepo.Update(ctx, nil, tournament); err != nil {
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	unlock := s.locker.Lock(id)
	defer unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	if s.banners != nil && tournament.BannerKey != nil {
		// The row is gone either way; a leaked object only wastes bucket space.
		_ = s.banners.DeleteBanner(ctx, *tournament.BannerKey)
	}

	s.locker.Forget(id)
	return nil
}

func (s *tournamentService) ListRounds(ctx context.Context, id int) ([]models.Round, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, id, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", id, err)
	}
	return models.BuildRounds(matches), nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, id int, contentType string, r io.Reader) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.banners == nil {
		return nil, fmt.Errorf("banner storage is not configured")
	}

	banner, err := s.banners.UploadBanner(ctx, id, contentType, r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to upload banner for tournament %d: %w", id, err)
	}

	if old := tournament.BannerKey; old != nil && *old != banner.Key {
		// A re-upload with a different image type lands under a new key.
		_ = s.banners.DeleteBanner(ctx, *old)
	}

	if err := s.tournamentRepo.UpdateBannerKey(ctx, id, &banner.Key); err != nil {
		return nil, err
	}
	tournament.BannerKey = &banner.Key
	tournament.BannerURL = &banner.URL
	return tournament, nil
}

func (s *tournamentService) attachBannerURL(t *models.Tournament) {
	if s.banners == nil || t.BannerKey == nil {
		return
	}
	url := s.banners.PublicURL(*t.BannerKey)
	t.BannerURL = &url
}
