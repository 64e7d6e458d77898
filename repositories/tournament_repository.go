package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Tournament, error) {
	query := `
		SELECT uuid, name, point_config_uuid, created_at, deleted_at, deleted_by
		FROM tournaments
		WHERE uuid = $1 AND deleted_at IS NULL`

	tournament := &models.Tournament{}
	err := r.executor(exec).QueryRowContext(ctx, query, uuid).Scan(
		&tournament.UUID,
		&tournament.Name,
		&tournament.PointConfigUUID,
		&tournament.CreatedAt,
		&tournament.DeletedAt,
		&tournament.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %s: %w", uuid, err)
	}
	return tournament, nil
}
