package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/google/uuid"
)

// TitleAssigner awards tournament titles when semifinals and finals end,
// and removes them again when such a match is reset. Assignment is
// idempotent per match: the previous player-title set of the same
// (title, match) pair is soft-deleted before the new one is inserted.
type TitleAssigner interface {
	AssignForMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string) error
	RemoveForMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string) error
}

type titleAssigner struct {
	titleRepo  repositories.TitleRepository
	playerRepo repositories.PlayerRepository
	logger     *slog.Logger
}

func NewTitleAssigner(
	titleRepo repositories.TitleRepository,
	playerRepo repositories.PlayerRepository,
	logger *slog.Logger,
) TitleAssigner {
	return &titleAssigner{
		titleRepo:  titleRepo,
		playerRepo: playerRepo,
		logger:     logger,
	}
}

func (a *titleAssigner) AssignForMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string) error {
	if match.TournamentUUID == nil || match.WinnerTeamUUID == nil {
		return nil
	}

	tournamentUUID := *match.TournamentUUID
	winner := *match.WinnerTeamUUID
	loser := match.LoserTeamUUID()

	switch match.Category {
	case models.CategorySemifinal:
		// The semifinal loser takes third place.
		return a.award(ctx, exec, tournamentUUID, models.RankThirdPlace, loser, match, actor)
	case models.CategoryFinal:
		if err := a.award(ctx, exec, tournamentUUID, models.RankWinner, winner, match, actor); err != nil {
			return err
		}
		return a.award(ctx, exec, tournamentUUID, models.RankRunnerUp, loser, match, actor)
	}
	return nil
}

func (a *titleAssigner) award(ctx context.Context, exec repositories.SQLExecutor, tournamentUUID string, rank int, teamUUID string, match *models.Match, actor string) error {
	if !models.IsRealTeam(teamUUID) {
		return nil
	}

	title, err := a.titleRepo.FindByRefAndRank(ctx, exec, tournamentUUID, rank)
	if err != nil {
		return err
	}
	if title == nil {
		title = &models.Title{
			UUID:  uuid.NewString(),
			RefID: tournamentUUID,
			Rank:  rank,
			Name:  models.TitleRankName(rank),
		}
		if err := a.titleRepo.Create(ctx, exec, title); err != nil {
			return fmt.Errorf("failed to create rank %d title for tournament %s: %w", rank, tournamentUUID, err)
		}
	}

	// Re-running for the same match (a score correction) must not leave
	// the previous holders attached.
	if err := a.titleRepo.SoftDeletePlayerTitlesByTitleAndMatch(ctx, exec, title.UUID, match.UUID, actor); err != nil {
		return err
	}

	roster, err := a.playerRepo.ListByTeam(ctx, exec, teamUUID)
	if err != nil {
		return fmt.Errorf("failed to load roster of team %s: %w", teamUUID, err)
	}
	for _, player := range roster {
		pt := &models.PlayerTitle{
			UUID:       uuid.NewString(),
			TitleUUID:  title.UUID,
			PlayerUUID: player.UUID,
			TeamUUID:   teamUUID,
			MatchUUID:  match.UUID,
		}
		if err := a.titleRepo.CreatePlayerTitle(ctx, exec, pt); err != nil {
			return err
		}
	}

	a.logger.Info("title assigned",
		slog.String("tournament_uuid", tournamentUUID),
		slog.Int("rank", rank),
		slog.String("team_uuid", teamUUID),
		slog.String("match_uuid", match.UUID),
	)
	return nil
}

func (a *titleAssigner) RemoveForMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string) error {
	return a.titleRepo.SoftDeletePlayerTitlesByMatch(ctx, exec, match.UUID, actor)
}
