package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/pickleball-system/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound          = errors.New("participant not found")
	ErrParticipantTournamentInvalid = errors.New("participant tournament conflict or invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	BatchCreate(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO participants (tournament_id, name, players, seed)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		p.TournamentID,
		p.Name,
		pq.Array(p.Players),
		p.Seed,
	).Scan(&p.ID, &p.CreatedAt)

	return r.handleParticipantError(err)
}

func (r *postgresParticipantRepository) BatchCreate(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	for _, p := range participants {
		query := `
			INSERT INTO participants (tournament_id, name, players, seed)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`
		err := executor.QueryRowContext(ctx, query,
			p.TournamentID, p.Name, pq.Array(p.Players), p.Seed,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("batch create failed for participant %q: %w", p.Name, r.handleParticipantError(err))
		}
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	p := &models.Participant{}
	var players pq.StringArray
	err := rowScanner.Scan(
		&p.ID,
		&p.TournamentID,
		&p.Name,
		&players,
		&p.Seed,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	p.Players = []string(players)
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, name, players, seed, created_at
		FROM participants
		WHERE id = $1`
	p, err := r.scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan participant by id %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `
		SELECT id, tournament_id, name, players, seed, created_at
		FROM participants
		WHERE tournament_id = $1
		ORDER BY seed ASC NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, scanErr := r.scanParticipant(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) handleParticipantError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "participants_tournament_id_fkey":
			return ErrParticipantTournamentInvalid
		}
	}
	return err
}
