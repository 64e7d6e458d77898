package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/google/uuid"
)

// RewardCalculator resolves and applies the point/coin rewards of an ended
// match, and reverses them on reset. Both operations run on the caller's
// transaction executor so they commit or roll back with the match mutation.
type RewardCalculator interface {
	ApplyRewards(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error
	ReverseRewards(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string) error
}

type rewardCalculator struct {
	pointRepo      repositories.PointRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewRewardCalculator(
	pointRepo repositories.PointRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) RewardCalculator {
	return &rewardCalculator{
		pointRepo:      pointRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

// rewardValues is the resolved reward independent of its source table.
type rewardValues struct {
	winPoint  int
	losePoint int
	winCoin   int
	loseCoin  int
}

func (c *rewardCalculator) ApplyRewards(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if match.WinnerTeamUUID == nil {
		return fmt.Errorf("cannot apply rewards: match %s has no winner", match.UUID)
	}

	// Guard against double application: one active reward set per match.
	exists, err := c.pointRepo.HasActiveMatchRewards(ctx, exec, match.UUID)
	if err != nil {
		return err
	}
	if exists {
		c.logger.Info("rewards already applied, skipping", slog.String("match_uuid", match.UUID))
		return nil
	}

	reward, err := c.resolveReward(ctx, exec, match)
	if err != nil {
		return err
	}
	if reward == nil {
		// Unscored matches are valid, nothing to do.
		return nil
	}

	winner := *match.WinnerTeamUUID
	for _, teamUUID := range []string{match.HomeTeamUUID, match.AwayTeamUUID} {
		if !models.IsRealTeam(teamUUID) {
			continue
		}
		point, coin := reward.losePoint, reward.loseCoin
		if teamUUID == winner {
			point, coin = reward.winPoint, reward.winCoin
		}
		if err := c.rewardRoster(ctx, exec, match, teamUUID, point, coin); err != nil {
			return err
		}
	}
	return nil
}

func (c *rewardCalculator) rewardRoster(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, teamUUID string, point, coin int) error {
	roster, err := c.playerRepo.ListByTeam(ctx, exec, teamUUID)
	if err != nil {
		return fmt.Errorf("failed to load roster of team %s: %w", teamUUID, err)
	}

	note := "match reward"
	for _, player := range roster {
		pmp := &models.PlayerMatchPoint{
			UUID:       uuid.NewString(),
			MatchUUID:  match.UUID,
			PlayerUUID: player.UUID,
			Point:      point,
			Coin:       coin,
		}
		if err := c.pointRepo.CreatePlayerMatchPoint(ctx, exec, pmp); err != nil {
			return err
		}

		pointAfter, coinAfter, err := c.playerRepo.AdjustBalances(ctx, exec, player.UUID, point, coin)
		if err != nil {
			return err
		}

		if err := c.pointRepo.CreatePointLog(ctx, exec, &models.PointLog{
			UUID:       uuid.NewString(),
			PlayerUUID: player.UUID,
			MatchUUID:  &match.UUID,
			Amount:     point,
			Before:     pointAfter - point,
			After:      pointAfter,
			Note:       &note,
		}); err != nil {
			return err
		}
		if err := c.pointRepo.CreateCoinLog(ctx, exec, &models.CoinLog{
			UUID:       uuid.NewString(),
			PlayerUUID: player.UUID,
			MatchUUID:  &match.UUID,
			Amount:     coin,
			Before:     coinAfter - coin,
			After:      coinAfter,
			Note:       &note,
		}); err != nil {
			return err
		}
	}
	return nil
}

// resolveReward picks the applicable reward row: the tournament's per-round
// override when present, else the point config attached to the tournament
// (or the club default) at round 1. Returns nil when nothing resolves.
func (c *rewardCalculator) resolveReward(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (*rewardValues, error) {
	var configUUID *string

	if match.TournamentUUID != nil {
		if match.Round > 0 {
			tmp, err := c.pointRepo.GetTournamentRound(ctx, exec, *match.TournamentUUID, match.Round)
			if err != nil {
				return nil, err
			}
			if tmp != nil {
				return &rewardValues{
					winPoint:  tmp.WinPoint,
					losePoint: tmp.LosePoint,
					winCoin:   tmp.WinCoin,
					loseCoin:  tmp.LoseCoin,
				}, nil
			}
		}

		tournament, err := c.tournamentRepo.GetByUUID(ctx, exec, *match.TournamentUUID)
		if err != nil {
			return nil, err
		}
		configUUID = tournament.PointConfigUUID
	}

	mp, err := c.pointRepo.GetConfigRound(ctx, exec, configUUID, 1)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		return nil, nil
	}
	return &rewardValues{
		winPoint:  mp.WinPoint,
		losePoint: mp.LosePoint,
		winCoin:   mp.WinCoin,
		loseCoin:  mp.LoseCoin,
	}, nil
}

func (c *rewardCalculator) ReverseRewards(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string) error {
	rewards, err := c.pointRepo.ListActiveByMatch(ctx, exec, match.UUID)
	if err != nil {
		return err
	}

	note := "match reward reversal"
	for _, pmp := range rewards {
		pointAfter, coinAfter, err := c.playerRepo.AdjustBalances(ctx, exec, pmp.PlayerUUID, -pmp.Point, -pmp.Coin)
		if err != nil {
			return err
		}
		if err := c.pointRepo.CreatePointLog(ctx, exec, &models.PointLog{
			UUID:       uuid.NewString(),
			PlayerUUID: pmp.PlayerUUID,
			MatchUUID:  &match.UUID,
			Amount:     -pmp.Point,
			Before:     pointAfter + pmp.Point,
			After:      pointAfter,
			Note:       &note,
		}); err != nil {
			return err
		}
		if err := c.pointRepo.CreateCoinLog(ctx, exec, &models.CoinLog{
			UUID:       uuid.NewString(),
			PlayerUUID: pmp.PlayerUUID,
			MatchUUID:  &match.UUID,
			Amount:     -pmp.Coin,
			Before:     coinAfter + pmp.Coin,
			After:      coinAfter,
			Note:       &note,
		}); err != nil {
			return err
		}
	}

	return c.pointRepo.SoftDeleteByMatch(ctx, exec, match.UUID, actor)
}
