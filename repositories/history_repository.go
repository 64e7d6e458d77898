package repositories

import (
	"context"
	"database/sql"

	"github.com/courtside/tournament-engine/models"
)

type HistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.MatchHistory) error
	ListActiveByMatch(ctx context.Context, exec SQLExecutor, matchUUID string) ([]*models.MatchHistory, error)
	SoftDeleteByMatch(ctx context.Context, exec SQLExecutor, matchUUID, deletedBy string) error
}

type postgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) HistoryRepository {
	return &postgresHistoryRepository{db: db}
}

func (r *postgresHistoryRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHistoryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.MatchHistory) error {
	query := `
		INSERT INTO match_histories (uuid, match_uuid, type, player_uuid, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		entry.UUID,
		entry.MatchUUID,
		entry.Type,
		entry.PlayerUUID,
		entry.Notes,
	).Scan(&entry.CreatedAt)
}

func (r *postgresHistoryRepository) ListActiveByMatch(ctx context.Context, exec SQLExecutor, matchUUID string) ([]*models.MatchHistory, error) {
	query := `
		SELECT uuid, match_uuid, type, player_uuid, notes, created_at, deleted_at, deleted_by
		FROM match_histories
		WHERE match_uuid = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, matchUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.MatchHistory, 0)
	for rows.Next() {
		entry := &models.MatchHistory{}
		if scanErr := rows.Scan(
			&entry.UUID,
			&entry.MatchUUID,
			&entry.Type,
			&entry.PlayerUUID,
			&entry.Notes,
			&entry.CreatedAt,
			&entry.DeletedAt,
			&entry.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *postgresHistoryRepository) SoftDeleteByMatch(ctx context.Context, exec SQLExecutor, matchUUID, deletedBy string) error {
	query := `
		UPDATE match_histories
		SET deleted_at = NOW(), deleted_by = $1
		WHERE match_uuid = $2 AND deleted_at IS NULL`

	_, err := r.executor(exec).ExecContext(ctx, query, deletedBy, matchUUID)
	return err
}
