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
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentNameConflict   = errors.New("tournament name already exists")
	ErrTournamentCreatorInvalid = errors.New("tournament creator conflict or invalid")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, publicOnly bool) ([]*models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateCurrentRound(ctx context.Context, exec SQLExecutor, id int, round *string) error
	AddLockedRounds(ctx context.Context, exec SQLExecutor, id int, rounds []string) error
	UpdateBannerKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, type, format, points_to_win, scoring_system, status,
	       current_round, is_public, locked_rounds, creator_id, banner_key, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments
			(name, type, format, points_to_win, scoring_system, status,
			 current_round, is_public, locked_rounds, creator_id, banner_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		t.Name,
		t.Type,
		t.Format,
		t.Rules.PointsToWin,
		t.Rules.ScoringSystem,
		t.Status,
		t.CurrentRound,
		t.IsPublic,
		pq.Array(t.LockedRounds),
		t.CreatorID,
		t.BannerKey,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	var locked pq.StringArray
	err := rowScanner.Scan(
		&t.ID,
		&t.Name,
		&t.Type,
		&t.Format,
		&t.Rules.PointsToWin,
		&t.Rules.ScoringSystem,
		&t.Status,
		&t.CurrentRound,
		&t.IsPublic,
		&locked,
		&t.CreatorID,
		&t.BannerKey,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.LockedRounds = []string(locked)
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := r.scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, publicOnly bool) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	if publicOnly {
		query += ` WHERE is_public = TRUE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments SET
			name = $1, type = $2, format = $3, points_to_win = $4, scoring_system = $5,
			status = $6, current_round = $7, is_public = $8
		WHERE id = $9`
	result, err := executor.ExecContext(ctx, query,
		t.Name, t.Type, t.Format, t.Rules.PointsToWin, t.Rules.ScoringSystem,
		t.Status, t.CurrentRound, t.IsPublic, t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateCurrentRound(ctx context.Context, exec SQLExecutor, id int, round *string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET current_round = $1 WHERE id = $2`, round, id)
	if err != nil {
		return fmt.Errorf("failed to update current round for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AddLockedRounds(ctx context.Context, exec SQLExecutor, id int, rounds []string) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET locked_rounds = ARRAY(SELECT DISTINCT unnest(locked_rounds || $1::text[]))
		WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, pq.Array(rounds), id)
	if err != nil {
		return fmt.Errorf("failed to lock rounds for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET banner_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update banner key for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_name_key":
			return ErrTournamentNameConflict
		case "tournaments_creator_id_fkey":
			return ErrTournamentCreatorInvalid
		}
	}
	return err
}
