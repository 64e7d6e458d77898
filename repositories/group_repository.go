package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

var ErrGroupNotFound = errors.New("tournament group not found")

type GroupRepository interface {
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentUUID string) ([]*models.TournamentGroup, error)
	Create(ctx context.Context, exec SQLExecutor, group *models.TournamentGroup) error
	Update(ctx context.Context, exec SQLExecutor, group *models.TournamentGroup) error
	SoftDelete(ctx context.Context, exec SQLExecutor, uuid, deletedBy string) error

	ListTeams(ctx context.Context, exec SQLExecutor, groupUUID string) ([]*models.TournamentGroupTeam, error)
	AddTeam(ctx context.Context, exec SQLExecutor, membership *models.TournamentGroupTeam) error
	RemoveTeam(ctx context.Context, exec SQLExecutor, groupUUID, teamUUID, deletedBy string) error
	// RemoveTeamFromAll clears every active group membership of a team.
	RemoveTeamFromAll(ctx context.Context, exec SQLExecutor, teamUUID, deletedBy string) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentUUID string) ([]*models.TournamentGroup, error) {
	query := `
		SELECT uuid, tournament_uuid, group_key, name, created_at, deleted_at, deleted_by
		FROM tournament_groups
		WHERE tournament_uuid = $1 AND deleted_at IS NULL
		ORDER BY group_key ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, tournamentUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*models.TournamentGroup, 0)
	for rows.Next() {
		group := &models.TournamentGroup{}
		if scanErr := rows.Scan(
			&group.UUID,
			&group.TournamentUUID,
			&group.GroupKey,
			&group.Name,
			&group.CreatedAt,
			&group.DeletedAt,
			&group.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		groups = append(groups, group)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.TournamentGroup) error {
	query := `
		INSERT INTO tournament_groups (uuid, tournament_uuid, group_key, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		group.UUID,
		group.TournamentUUID,
		group.GroupKey,
		group.Name,
	).Scan(&group.CreatedAt)
}

func (r *postgresGroupRepository) Update(ctx context.Context, exec SQLExecutor, group *models.TournamentGroup) error {
	query := `
		UPDATE tournament_groups
		SET group_key = $1, name = $2
		WHERE uuid = $3 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query, group.GroupKey, group.Name, group.UUID)
	if err != nil {
		return err
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *postgresGroupRepository) SoftDelete(ctx context.Context, exec SQLExecutor, uuid, deletedBy string) error {
	query := `
		UPDATE tournament_groups
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
		return ErrGroupNotFound
	}
	return nil
}

func (r *postgresGroupRepository) ListTeams(ctx context.Context, exec SQLExecutor, groupUUID string) ([]*models.TournamentGroupTeam, error) {
	query := `
		SELECT uuid, group_uuid, team_uuid, created_at, deleted_at, deleted_by
		FROM tournament_group_teams
		WHERE group_uuid = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, groupUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]*models.TournamentGroupTeam, 0)
	for rows.Next() {
		m := &models.TournamentGroupTeam{}
		if scanErr := rows.Scan(
			&m.UUID,
			&m.GroupUUID,
			&m.TeamUUID,
			&m.CreatedAt,
			&m.DeletedAt,
			&m.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *postgresGroupRepository) AddTeam(ctx context.Context, exec SQLExecutor, membership *models.TournamentGroupTeam) error {
	query := `
		INSERT INTO tournament_group_teams (uuid, group_uuid, team_uuid)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		membership.UUID,
		membership.GroupUUID,
		membership.TeamUUID,
	).Scan(&membership.CreatedAt)
}

func (r *postgresGroupRepository) RemoveTeam(ctx context.Context, exec SQLExecutor, groupUUID, teamUUID, deletedBy string) error {
	query := `
		UPDATE tournament_group_teams
		SET deleted_at = NOW(), deleted_by = $1
		WHERE group_uuid = $2 AND team_uuid = $3 AND deleted_at IS NULL`

	result, err := r.executor(exec).ExecContext(ctx, query, deletedBy, groupUUID, teamUUID)
	if err != nil {
		return err
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("team %s is not a member of group %s", teamUUID, groupUUID)
	}
	return nil
}

func (r *postgresGroupRepository) RemoveTeamFromAll(ctx context.Context, exec SQLExecutor, teamUUID, deletedBy string) error {
	query := `
		UPDATE tournament_group_teams
		SET deleted_at = NOW(), deleted_by = $1
		WHERE team_uuid = $2 AND deleted_at IS NULL`

	_, err := r.executor(exec).ExecContext(ctx, query, deletedBy, teamUUID)
	return err
}
