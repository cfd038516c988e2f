package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/courtside/pickleball-system/models"
	"github.com/courtside/pickleball-system/repositories"
)

// ImportRowError reports one rejected CSV line; valid lines still import.
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported     int                   `json:"imported"`
	Participants []*models.Participant `json:"participants"`
	Errors       []ImportRowError      `json:"errors,omitempty"`
}

// ImportService bulk-loads participants from a CSV upload with columns
// name,player1[,player2]. player2 is required for doubles tournaments.
type ImportService interface {
	ImportParticipantsCSV(ctx context.Context, tournamentID int, r io.Reader) (*ImportResult, error)
}

type importService struct {
	txRunner        repositories.TxRunner
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
}

func NewImportService(
	txRunner repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	logger *slog.Logger,
) ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		txRunner:        txRunner,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		logger:          logger,
	}
}

func (s *importService) ImportParticipantsCSV(ctx context.Context, tournamentID int, r io.Reader) (*ImportResult, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read CSV header: %v", ErrValidationFailed, err)
	}
	nameIdx, playerIdx, err := resolveImportColumns(header)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Participants: make([]*models.Participant, 0)}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: err.Error()})
			continue
		}

		participant, rowErr := buildImportedParticipant(tournament, record, nameIdx, playerIdx)
		if rowErr != "" {
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: rowErr})
			continue
		}
		result.Participants = append(result.Participants, participant)
	}

	if len(result.Participants) > 0 {
		err = s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			return s.participantRepo.BatchCreate(ctx, exec, result.Participants)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to import participants: %w", err)
		}
	}
	result.Imported = len(result.Participants)

	s.logger.Info("participants imported",
		slog.Int("tournament_id", tournamentID),
		slog.Int("imported", result.Imported),
		slog.Int("rejected", len(result.Errors)))
	return result, nil
}

func resolveImportColumns(header []string) (nameIdx int, playerIdx []int, err error) {
	nameIdx = -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameIdx = i
		case "player1", "player2":
			playerIdx = append(playerIdx, i)
		}
	}
	if nameIdx == -1 || len(playerIdx) == 0 {
		return 0, nil, fmt.Errorf("%w: CSV header must contain name and player1 columns", ErrValidationFailed)
	}
	return nameIdx, playerIdx, nil
}

func buildImportedParticipant(tournament *models.Tournament, record []string, nameIdx int, playerIdx []int) (*models.Participant, string) {
	get := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	name := get(nameIdx)
	if name == "" {
		return nil, "missing participant name"
	}

	players := make([]string, 0, len(playerIdx))
	for _, i := range playerIdx {
		if v := get(i); v != "" {
			players = append(players, v)
		}
	}
	if err := validatePlayers(tournament.Type, players); err != nil {
		return nil, err.Error()
	}

	return &models.Participant{
		TournamentID: tournament.ID,
		Name:         name,
		Players:      players,
	}, ""
}
