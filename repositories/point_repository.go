package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

var ErrPlayerMatchPointNotFound = errors.New("player match point not found")

type PointRepository interface {
	// GetTournamentRound returns the tournament-specific reward row for a
	// round, or nil when the tournament has no override for it.
	GetTournamentRound(ctx context.Context, exec SQLExecutor, tournamentUUID string, round int) (*models.TournamentMatchPoint, error)
	// GetConfigRound returns the reward row of a point config for a round.
	// A nil configUUID resolves against the club-wide default config.
	// Returns nil when no row matches.
	GetConfigRound(ctx context.Context, exec SQLExecutor, configUUID *string, round int) (*models.MatchPoint, error)

	HasActiveMatchRewards(ctx context.Context, exec SQLExecutor, matchUUID string) (bool, error)
	CreatePlayerMatchPoint(ctx context.Context, exec SQLExecutor, pmp *models.PlayerMatchPoint) error
	ListActiveByMatch(ctx context.Context, exec SQLExecutor, matchUUID string) ([]*models.PlayerMatchPoint, error)
	SoftDeleteByMatch(ctx context.Context, exec SQLExecutor, matchUUID, deletedBy string) error

	CreatePointLog(ctx context.Context, exec SQLExecutor, log *models.PointLog) error
	CreateCoinLog(ctx context.Context, exec SQLExecutor, log *models.CoinLog) error
}

type postgresPointRepository struct {
	db *sql.DB
}

func NewPostgresPointRepository(db *sql.DB) PointRepository {
	return &postgresPointRepository{db: db}
}

func (r *postgresPointRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPointRepository) GetTournamentRound(ctx context.Context, exec SQLExecutor, tournamentUUID string, round int) (*models.TournamentMatchPoint, error) {
	query := `
		SELECT uuid, tournament_uuid, round, win_point, lose_point, win_coin, lose_coin, created_at, deleted_at, deleted_by
		FROM tournament_match_points
		WHERE tournament_uuid = $1 AND round = $2 AND deleted_at IS NULL`

	tmp := &models.TournamentMatchPoint{}
	err := r.executor(exec).QueryRowContext(ctx, query, tournamentUUID, round).Scan(
		&tmp.UUID,
		&tmp.TournamentUUID,
		&tmp.Round,
		&tmp.WinPoint,
		&tmp.LosePoint,
		&tmp.WinCoin,
		&tmp.LoseCoin,
		&tmp.CreatedAt,
		&tmp.DeletedAt,
		&tmp.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan tournament match point: %w", err)
	}
	return tmp, nil
}

func (r *postgresPointRepository) GetConfigRound(ctx context.Context, exec SQLExecutor, configUUID *string, round int) (*models.MatchPoint, error) {
	var (
		query string
		args  []interface{}
	)
	if configUUID != nil {
		query = `
			SELECT mp.uuid, mp.point_config_uuid, mp.round, mp.win_point, mp.lose_point, mp.win_coin, mp.lose_coin,
			       mp.created_at, mp.deleted_at, mp.deleted_by
			FROM match_points mp
			WHERE mp.point_config_uuid = $1 AND mp.round = $2 AND mp.deleted_at IS NULL`
		args = []interface{}{*configUUID, round}
	} else {
		query = `
			SELECT mp.uuid, mp.point_config_uuid, mp.round, mp.win_point, mp.lose_point, mp.win_coin, mp.lose_coin,
			       mp.created_at, mp.deleted_at, mp.deleted_by
			FROM match_points mp
			JOIN point_configs pc ON pc.uuid = mp.point_config_uuid
			WHERE pc.is_default AND pc.deleted_at IS NULL AND mp.round = $1 AND mp.deleted_at IS NULL`
		args = []interface{}{round}
	}

	mp := &models.MatchPoint{}
	err := r.executor(exec).QueryRowContext(ctx, query, args...).Scan(
		&mp.UUID,
		&mp.PointConfigUUID,
		&mp.Round,
		&mp.WinPoint,
		&mp.LosePoint,
		&mp.WinCoin,
		&mp.LoseCoin,
		&mp.CreatedAt,
		&mp.DeletedAt,
		&mp.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan match point: %w", err)
	}
	return mp, nil
}

func (r *postgresPointRepository) HasActiveMatchRewards(ctx context.Context, exec SQLExecutor, matchUUID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM player_match_points
			WHERE match_uuid = $1 AND deleted_at IS NULL
		)`

	var exists bool
	if err := r.executor(exec).QueryRowContext(ctx, query, matchUUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check match rewards: %w", err)
	}
	return exists, nil
}

func (r *postgresPointRepository) CreatePlayerMatchPoint(ctx context.Context, exec SQLExecutor, pmp *models.PlayerMatchPoint) error {
	query := `
		INSERT INTO player_match_points (uuid, match_uuid, player_uuid, point, coin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		pmp.UUID,
		pmp.MatchUUID,
		pmp.PlayerUUID,
		pmp.Point,
		pmp.Coin,
	).Scan(&pmp.CreatedAt)
}

func (r *postgresPointRepository) ListActiveByMatch(ctx context.Context, exec SQLExecutor, matchUUID string) ([]*models.PlayerMatchPoint, error) {
	query := `
		SELECT uuid, match_uuid, player_uuid, point, coin, created_at, deleted_at, deleted_by
		FROM player_match_points
		WHERE match_uuid = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, matchUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]*models.PlayerMatchPoint, 0)
	for rows.Next() {
		pmp := &models.PlayerMatchPoint{}
		if scanErr := rows.Scan(
			&pmp.UUID,
			&pmp.MatchUUID,
			&pmp.PlayerUUID,
			&pmp.Point,
			&pmp.Coin,
			&pmp.CreatedAt,
			&pmp.DeletedAt,
			&pmp.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		points = append(points, pmp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func (r *postgresPointRepository) SoftDeleteByMatch(ctx context.Context, exec SQLExecutor, matchUUID, deletedBy string) error {
	query := `
		UPDATE player_match_points
		SET deleted_at = NOW(), deleted_by = $1
		WHERE match_uuid = $2 AND deleted_at IS NULL`

	_, err := r.executor(exec).ExecContext(ctx, query, deletedBy, matchUUID)
	return err
}

func (r *postgresPointRepository) CreatePointLog(ctx context.Context, exec SQLExecutor, log *models.PointLog) error {
	query := `
		INSERT INTO point_logs (uuid, player_uuid, match_uuid, amount, before, after, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		log.UUID,
		log.PlayerUUID,
		log.MatchUUID,
		log.Amount,
		log.Before,
		log.After,
		log.Note,
	).Scan(&log.CreatedAt)
}

func (r *postgresPointRepository) CreateCoinLog(ctx context.Context, exec SQLExecutor, log *models.CoinLog) error {
	query := `
		INSERT INTO coin_logs (uuid, player_uuid, match_uuid, amount, before, after, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		log.UUID,
		log.PlayerUUID,
		log.MatchUUID,
		log.Amount,
		log.Before,
		log.After,
		log.Note,
	).Scan(&log.CreatedAt)
}
