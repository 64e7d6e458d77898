package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchGroupInvalid      = errors.New("match group conflict or invalid")
)

const matchColumns = `uuid, tournament_uuid, home_team_uuid, away_team_uuid, court, scheduled_at,
		round, seed_index, group_uuid, status, home_score, away_score, game_scores,
		winner_team_uuid, category, created_at, deleted_at, deleted_by`

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Match, error)
	// GetByUUIDForUpdate locks the match row for the rest of the transaction.
	GetByUUIDForUpdate(ctx context.Context, exec SQLExecutor, uuid string) (*models.Match, error)
	GetBySeed(ctx context.Context, exec SQLExecutor, tournamentUUID string, round, seedIndex int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentUUID string) ([]*models.Match, error)
	ListGroupStage(ctx context.Context, exec SQLExecutor, tournamentUUID string) ([]*models.Match, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, uuid string, status models.MatchStatus) error
	UpdateSlot(ctx context.Context, exec SQLExecutor, uuid, side, teamUUID string, status models.MatchStatus) error
	UpdateGroupMatch(ctx context.Context, exec SQLExecutor, match *models.Match) error
	SoftDelete(ctx context.Context, exec SQLExecutor, uuid, deletedBy string) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(uuid, tournament_uuid, home_team_uuid, away_team_uuid, court, scheduled_at,
			 round, seed_index, group_uuid, status, home_score, away_score, game_scores,
			 winner_team_uuid, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`

	err := r.executor(exec).QueryRowContext(ctx, query,
		match.UUID,
		match.TournamentUUID,
		match.HomeTeamUUID,
		match.AwayTeamUUID,
		match.Court,
		match.ScheduledAt,
		match.Round,
		match.SeedIndex,
		match.GroupUUID,
		match.Status,
		match.HomeScore,
		match.AwayScore,
		match.GameScores,
		match.WinnerTeamUUID,
		match.Category,
	).Scan(&match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) getByUUID(ctx context.Context, exec SQLExecutor, uuid string, forUpdate bool) (*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE uuid = $1 AND deleted_at IS NULL`, matchColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}

	match, err := scanMatch(r.executor(exec).QueryRowContext(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", uuid, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Match, error) {
	return r.getByUUID(ctx, exec, uuid, false)
}

func (r *postgresMatchRepository) GetByUUIDForUpdate(ctx context.Context, exec SQLExecutor, uuid string) (*models.Match, error) {
	return r.getByUUID(ctx, exec, uuid, true)
}

func (r *postgresMatchRepository) GetBySeed(ctx context.Context, exec SQLExecutor, tournamentUUID string, round, seedIndex int) (*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE tournament_uuid = $1 AND round = $2 AND seed_index = $3 AND deleted_at IS NULL`, matchColumns)

	match, err := scanMatch(r.executor(exec).QueryRowContext(ctx, query, tournamentUUID, round, seedIndex))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match at round %d seed %d: %w", round, seedIndex, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentUUID string) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE tournament_uuid = $1 AND deleted_at IS NULL
		ORDER BY round ASC, seed_index ASC, created_at ASC`, matchColumns)

	return r.list(ctx, exec, query, tournamentUUID)
}

func (r *postgresMatchRepository) ListGroupStage(ctx context.Context, exec SQLExecutor, tournamentUUID string) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM matches
		WHERE tournament_uuid = $1 AND round = -1 AND deleted_at IS NULL
		ORDER BY created_at ASC`, matchColumns)

	return r.list(ctx, exec, query, tournamentUUID)
}

func (r *postgresMatchRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.executor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2, game_scores = $3, status = $4, winner_team_uuid = $5
		WHERE uuid = $6 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query,
		match.HomeScore,
		match.AwayScore,
		match.GameScores,
		match.Status,
		match.WinnerTeamUUID,
		match.UUID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, uuid string, status models.MatchStatus) error {
	query := `
		UPDATE matches
		SET status = $1
		WHERE uuid = $2 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query, status, uuid)
	if err != nil {
		return err
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) UpdateSlot(ctx context.Context, exec SQLExecutor, uuid, side, teamUUID string, status models.MatchStatus) error {
	column := "home_team_uuid"
	if side == "away" {
		column = "away_team_uuid"
	}
	query := fmt.Sprintf(`
		UPDATE matches
		SET %s = $1, status = $2
		WHERE uuid = $3 AND deleted_at IS NULL`, column)

	result, err := r.executor(exec).ExecContext(ctx, query, teamUUID, status, uuid)
	if err != nil {
		return r.handleMatchError(err)
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) UpdateGroupMatch(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET home_team_uuid = $1, away_team_uuid = $2, court = $3, scheduled_at = $4, group_uuid = $5
		WHERE uuid = $6 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query,
		match.HomeTeamUUID,
		match.AwayTeamUUID,
		match.Court,
		match.ScheduledAt,
		match.GroupUUID,
		match.UUID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) SoftDelete(ctx context.Context, exec SQLExecutor, uuid, deletedBy string) error {
	query := `
		UPDATE matches
		SET deleted_at = NOW(), deleted_by = $1
		WHERE uuid = $2 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query, deletedBy, uuid)
	if err != nil {
		return err
	}
	return r.requireRow(result)
}

func (r *postgresMatchRepository) requireRow(result sql.Result) error {
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_tournament_uuid_fkey":
				return ErrMatchTournamentInvalid
			case "matches_group_uuid_fkey":
				return ErrMatchGroupInvalid
			}
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.UUID,
		&match.TournamentUUID,
		&match.HomeTeamUUID,
		&match.AwayTeamUUID,
		&match.Court,
		&match.ScheduledAt,
		&match.Round,
		&match.SeedIndex,
		&match.GroupUUID,
		&match.Status,
		&match.HomeScore,
		&match.AwayScore,
		&match.GameScores,
		&match.WinnerTeamUUID,
		&match.Category,
		&match.CreatedAt,
		&match.DeletedAt,
		&match.DeletedBy,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}
