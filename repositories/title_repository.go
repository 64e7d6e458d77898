package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtside/tournament-engine/models"
)

var ErrTitleNotFound = errors.New("title not found")

type TitleRepository interface {
	// FindByRefAndRank returns the active title for (refID, rank), or nil
	// when none exists.
	FindByRefAndRank(ctx context.Context, exec SQLExecutor, refID string, rank int) (*models.Title, error)
	Create(ctx context.Context, exec SQLExecutor, title *models.Title) error
	ListActiveByRef(ctx context.Context, exec SQLExecutor, refID string) ([]*models.Title, error)

	CreatePlayerTitle(ctx context.Context, exec SQLExecutor, pt *models.PlayerTitle) error
	ListActivePlayerTitles(ctx context.Context, exec SQLExecutor, titleUUID string) ([]*models.PlayerTitle, error)
	SoftDeletePlayerTitlesByTitleAndMatch(ctx context.Context, exec SQLExecutor, titleUUID, matchUUID, deletedBy string) error
	SoftDeletePlayerTitlesByMatch(ctx context.Context, exec SQLExecutor, matchUUID, deletedBy string) error
}

type postgresTitleRepository struct {
	db *sql.DB
}

func NewPostgresTitleRepository(db *sql.DB) TitleRepository {
	return &postgresTitleRepository{db: db}
}

func (r *postgresTitleRepository) executor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTitleRepository) FindByRefAndRank(ctx context.Context, exec SQLExecutor, refID string, rank int) (*models.Title, error) {
	query := `
		SELECT uuid, ref_id, rank, name, created_at, deleted_at, deleted_by
		FROM titles
		WHERE ref_id = $1 AND rank = $2 AND deleted_at IS NULL`

	title := &models.Title{}
	err := r.executor(exec).QueryRowContext(ctx, query, refID, rank).Scan(
		&title.UUID,
		&title.RefID,
		&title.Rank,
		&title.Name,
		&title.CreatedAt,
		&title.DeletedAt,
		&title.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan title: %w", err)
	}
	return title, nil
}

func (r *postgresTitleRepository) Create(ctx context.Context, exec SQLExecutor, title *models.Title) error {
	query := `
		INSERT INTO titles (uuid, ref_id, rank, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		title.UUID,
		title.RefID,
		title.Rank,
		title.Name,
	).Scan(&title.CreatedAt)
}

func (r *postgresTitleRepository) ListActiveByRef(ctx context.Context, exec SQLExecutor, refID string) ([]*models.Title, error) {
	query := `
		SELECT uuid, ref_id, rank, name, created_at, deleted_at, deleted_by
		FROM titles
		WHERE ref_id = $1 AND deleted_at IS NULL
		ORDER BY rank ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make([]*models.Title, 0)
	for rows.Next() {
		title := &models.Title{}
		if scanErr := rows.Scan(
			&title.UUID,
			&title.RefID,
			&title.Rank,
			&title.Name,
			&title.CreatedAt,
			&title.DeletedAt,
			&title.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		titles = append(titles, title)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *postgresTitleRepository) CreatePlayerTitle(ctx context.Context, exec SQLExecutor, pt *models.PlayerTitle) error {
	query := `
		INSERT INTO player_titles (uuid, title_uuid, player_uuid, team_uuid, match_uuid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.executor(exec).QueryRowContext(ctx, query,
		pt.UUID,
		pt.TitleUUID,
		pt.PlayerUUID,
		pt.TeamUUID,
		pt.MatchUUID,
	).Scan(&pt.CreatedAt)
}

func (r *postgresTitleRepository) ListActivePlayerTitles(ctx context.Context, exec SQLExecutor, titleUUID string) ([]*models.PlayerTitle, error) {
	query := `
		SELECT uuid, title_uuid, player_uuid, team_uuid, match_uuid, created_at, deleted_at, deleted_by
		FROM player_titles
		WHERE title_uuid = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.executor(exec).QueryContext(ctx, query, titleUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playerTitles := make([]*models.PlayerTitle, 0)
	for rows.Next() {
		pt := &models.PlayerTitle{}
		if scanErr := rows.Scan(
			&pt.UUID,
			&pt.TitleUUID,
			&pt.PlayerUUID,
			&pt.TeamUUID,
			&pt.MatchUUID,
			&pt.CreatedAt,
			&pt.DeletedAt,
			&pt.DeletedBy,
		); scanErr != nil {
			return nil, scanErr
		}
		playerTitles = append(playerTitles, pt)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return playerTitles, nil
}

func (r *postgresTitleRepository) SoftDeletePlayerTitlesByTitleAndMatch(ctx context.Context, exec SQLExecutor, titleUUID, matchUUID, deletedBy string) error {
	query := `
		UPDATE player_titles
		SET deleted_at = NOW(), deleted_by = $1
		WHERE title_uuid = $2 AND match_uuid = $3 AND deleted_at IS NULL`

	_, err := r.executor(exec).ExecContext(ctx, query, deletedBy, titleUUID, matchUUID)
	return err
}

func (r *postgresTitleRepository) SoftDeletePlayerTitlesByMatch(ctx context.Context, exec SQLExecutor, matchUUID, deletedBy string) error {
	query := `
		UPDATE player_titles
		SET deleted_at = NOW(), deleted_by = $1
		WHERE match_uuid = $2 AND deleted_at IS NULL`

	_, err := r.executor(exec).ExecContext(ctx, query, deletedBy, matchUUID)
	return err
}
