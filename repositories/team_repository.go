package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Team, error)
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	// SetGroup updates the team's group association; nil clears it.
	SetGroup(ctx context.Context, exec SQLExecutor, teamUUID string, groupUUID *string) error
	SoftDelete(ctx context.Context, exec SQLExecutor, uuid, deletedBy string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Team, error) {
	query := `
		SELECT uuid, name, tournament_uuid, group_uuid, created_at, deleted_at, deleted_by
		FROM teams
		WHERE uuid = $1 AND deleted_at IS NULL`

	team := &models.Team{}
	err := r.executor(exec).QueryRowContext(ctx, query, uuid).Scan(
		&team.UUID,
		&team.Name,
		&team.TournamentUUID,
		&team.GroupUUID,
		&team.CreatedAt,
		&team.DeletedAt,
		&team.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team %s: %w", uuid, err)
	}
	return team, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (uuid, name, tournament_uuid, group_uuid)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		team.UUID,
		team.Name,
		team.TournamentUUID,
		team.GroupUUID,
	).Scan(&team.CreatedAt)
}

func (r *postgresTeamRepository) SetGroup(ctx context.Context, exec SQLExecutor, teamUUID string, groupUUID *string) error {
	query := `
		UPDATE teams
		SET group_uuid = $1
		WHERE uuid = $2 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query, groupUUID, teamUUID)
	if err != nil {
		return err
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) SoftDelete(ctx context.Context, exec SQLExecutor, uuid, deletedBy string) error {
	query := `
		UPDATE teams
		SET deleted_at = NOW(), deleted_by = $1
		WHERE uuid = $2 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query, deletedBy, uuid)
	if err != nil {
		return err
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}
