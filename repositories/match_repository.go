package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtside/pickleball-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchTournamentInvalid  = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchWinnerInvalid      = errors.New("match winner conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *string, status *models.MatchStatus) ([]*models.Match, error)
	UpdateScoreStatusWinner(ctx context.Context, exec SQLExecutor, id int, scoreA, scoreB int, status models.MatchStatus, winnerID *int) error
	UpdateParticipants(ctx context.Context, exec SQLExecutor, id int, participantAID, participantBID *int) error
	UpdateCourtNumber(ctx context.Context, id int, courtNumber *int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round, round_kind, participant_a_id, participant_b_id,
	       status, score_a, score_b, court_number, match_order, winner_id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, round, round_kind, participant_a_id, participant_b_id,
			 status, score_a, score_b, court_number, match_order, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		m.TournamentID,
		m.Round,
		m.RoundKind,
		m.ParticipantAID,
		m.ParticipantBID,
		m.Status,
		m.ScoreA,
		m.ScoreB,
		m.CourtNumber,
		m.Order,
		m.WinnerID,
	).Scan(&m.ID, &m.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := rowScanner.Scan(
		&m.ID,
		&m.TournamentID,
		&m.Round,
		&m.RoundKind,
		&m.ParticipantAID,
		&m.ParticipantBID,
		&m.Status,
		&m.ScoreA,
		&m.ScoreB,
		&m.CourtNumber,
		&m.Order,
		&m.WinnerID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, roundFilter *string, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_order ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScoreStatusWinner(ctx context.Context, exec SQLExecutor, id int, scoreA, scoreB int, status models.MatchStatus, winnerID *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET score_a = $1, score_b = $2, status = $3, winner_id = $4
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query, scoreA, scoreB, status, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateParticipants(ctx context.Context, exec SQLExecutor, id int, participantAID, participantBID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET participant_a_id = $1, participant_b_id = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, participantAID, participantBID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateCourtNumber(ctx context.Context, id int, courtNumber *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET court_number = $1 WHERE id = $2`, courtNumber, id)
	if err != nil {
		return fmt.Errorf("failed to update court number for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_participant_a_id_fkey", "matches_participant_b_id_fkey":
			return ErrMatchParticipantInvalid
		case "matches_winner_id_fkey":
			return ErrMatchWinnerInvalid
		}
	}
	return err
}
