package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Player, error)
	// ListByTeam returns the active roster of a team.
	ListByTeam(ctx context.Context, exec SQLExecutor, teamUUID string) ([]*models.Player, error)
	// AdjustBalances applies point/coin deltas to the player's running
	// balances and returns the resulting values.
	AdjustBalances(ctx context.Context, exec SQLExecutor, playerUUID string, pointDelta, coinDelta int) (pointAfter, coinAfter int, err error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) GetByUUID(ctx context.Context, exec SQLExecutor, uuid string) (*models.Player, error) {
	query := `
		SELECT uuid, name, point, coin, created_at, deleted_at, deleted_by
		FROM players
		WHERE uuid = $1 AND deleted_at IS NULL`

	player := &models.Player{}
	err := r.executor(exec).QueryRowContext(ctx, query, uuid).Scan(
		&player.UUID,
		&player.Name,
		&player.Point,
		&player.Coin,
		&player.CreatedAt,
		&player.DeletedAt,
		&player.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %s: %w", uuid, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamUUID string) ([]*models.Player, error) {
	query := `
		SELECT p.uuid, p.name, p.point, p.coin, p.created_at, p.deleted_at, p.deleted_by
		FROM players p
		JOIN player_teams pt ON pt.player_uuid = p.uuid
		WHERE pt.team_uuid = $1 AND pt.deleted_at IS NULL AND p.deleted_at IS NULL
		ORDER BY p.created_at ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, teamUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player := &models.Player{}
		if scanErr := rows.Scan(
			&player.UUID,
			&player.Name,
			&player.Point,
			&player.Coin,
			&player.CreatedAt,
			&player.DeletedAt,
			&player.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, player)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) AdjustBalances(ctx context.Context, exec SQLExecutor, playerUUID string, pointDelta, coinDelta int) (int, int, error) {
	query := `
		UPDATE players
		SET point = point + $1, coin = coin + $2
		WHERE uuid = $3 AND deleted_at IS NULL
		RETURNING point, coin`

	var pointAfter, coinAfter int
	err := r.executor(exec).QueryRowContext(ctx, query, pointDelta, coinDelta, playerUUID).Scan(&pointAfter, &coinAfter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrPlayerNotFound
		}
		return 0, 0, fmt.Errorf("failed to adjust balances for player %s: %w", playerUUID, err)
	}
	return pointAfter, coinAfter, nil
}
