package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtside/tournament-engine/brackets"
	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/google/uuid"
)

// WinThreshold is the score at which a side wins the match outright.
// Single-set racquet rule; candidate for per-tournament configuration.
const WinThreshold = 6

// SignalReset asks the engine to reverse an ended match back to UPCOMING.
// It is a command, never a stored status.
const SignalReset = "RESET"

// SideBoth in the player reference of an incident fans the history entry
// out to every roster member of both teams.
const SideBoth = "BOTH"

// ScoreUpdateInput is the body of a score update. Both scores are required;
// zero is a legitimate value, which is why they are pointers.
type ScoreUpdateInput struct {
	HomeScore  *int    `json:"home_team_score"`
	AwayScore  *int    `json:"away_team_score"`
	GameScores *string `json:"game_scores,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Status     *string `json:"status,omitempty"`
	PlayerUUID *string `json:"player_uuid,omitempty"`
	Actor      string  `json:"-"`
}

// ScoreResult is the outcome of ApplyScore. Reload is set when the match
// was already ended and no reset was requested: the caller holds stale
// state and should refetch.
type ScoreResult struct {
	Match  *models.Match
	Reload bool
}

type MatchScoreService interface {
	ApplyScore(ctx context.Context, matchUUID string, in ScoreUpdateInput) (*ScoreResult, error)
	UpdateStatus(ctx context.Context, matchUUID string, status models.MatchStatus, notes *string, actor string) (*models.Match, error)
	AdvanceRound(ctx context.Context, matchUUID string, actor string) (*models.Match, error)
	ListHistory(ctx context.Context, matchUUID string) ([]*models.MatchHistory, error)
}

type matchScoreService struct {
	txm         repositories.TxManager
	matchRepo   repositories.MatchRepository
	playerRepo  repositories.PlayerRepository
	historyRepo repositories.HistoryRepository
	rewards     RewardCalculator
	titles      TitleAssigner
	hub         *brackets.Hub
	archiver    ResultArchiver
	logger      *slog.Logger
}

// NewMatchScoreService wires the state machine. hub and archiver may be nil,
// both are out-of-band side channels.
func NewMatchScoreService(
	txm repositories.TxManager,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	historyRepo repositories.HistoryRepository,
	rewards RewardCalculator,
	titles TitleAssigner,
	hub *brackets.Hub,
	archiver ResultArchiver,
	logger *slog.Logger,
) MatchScoreService {
	return &matchScoreService{
		txm:         txm,
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		rewards:     rewards,
		titles:      titles,
		hub:         hub,
		archiver:    archiver,
		logger:      logger,
	}
}

func (s *matchScoreService) ApplyScore(ctx context.Context, matchUUID string, in ScoreUpdateInput) (*ScoreResult, error) {
	if in.HomeScore == nil || in.AwayScore == nil {
		return nil, ErrScoresRequired
	}

	signal := ""
	if in.Status != nil {
		signal = *in.Status
	}
	incidentType, isIncident := incidentSignal(signal)
	if signal != "" && signal != SignalReset && !isIncident {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatusSignal, signal)
	}

	actor := actorOrSystem(in.Actor)
	result := &ScoreResult{}

	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByUUIDForUpdate(ctx, exec, matchUUID)
		if err != nil {
			return mapMatchRepoError(err)
		}

		// Optimistic guard against concurrent double-scoring: an ended
		// match only accepts a reset. No writes happen on this path.
		if match.Status == models.MatchStatusEnded && signal != SignalReset {
			result.Match = match
			result.Reload = true
			return nil
		}

		if isIncident {
			if err := s.recordIncident(ctx, exec, match, incidentType, in.PlayerUUID, in.Notes); err != nil {
				return err
			}
		}

		if signal == SignalReset {
			return s.resetMatch(ctx, exec, match, actor, result)
		}
		return s.scoreMatch(ctx, exec, match, in, result)
	})
	if err != nil {
		return nil, err
	}

	if !result.Reload {
		s.notifyScoreUpdated(result.Match)
	}
	return result, nil
}

func (s *matchScoreService) scoreMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, in ScoreUpdateInput, result *ScoreResult) error {
	match.HomeScore = *in.HomeScore
	match.AwayScore = *in.AwayScore
	match.GameScores = in.GameScores

	winner := winnerSide(match)
	if winner != "" {
		match.WinnerTeamUUID = &winner
		match.Status = models.MatchStatusEnded
	} else if match.Status == models.MatchStatusUpcoming {
		// A score arriving for an upcoming match means play has started.
		match.Status = models.MatchStatusOngoing
	}

	if err := s.matchRepo.UpdateScore(ctx, exec, match); err != nil {
		return mapMatchRepoError(err)
	}

	if match.Status == models.MatchStatusEnded {
		if err := s.rewards.ApplyRewards(ctx, exec, match); err != nil {
			return err
		}
		s.logger.Info("match ended",
			slog.String("match_uuid", match.UUID),
			slog.String("winner_team_uuid", *match.WinnerTeamUUID),
			slog.Int("home_score", match.HomeScore),
			slog.Int("away_score", match.AwayScore),
		)
	}

	result.Match = match
	return nil
}

// winnerSide returns the team uuid of the winning side, or "" while the
// match is still undecided. The first side at WinThreshold wins; when a
// single update carries both sides past the threshold the higher score
// decides, and a tie stays undecided.
func winnerSide(match *models.Match) string {
	if match.HomeScore >= WinThreshold && match.HomeScore > match.AwayScore {
		return match.HomeTeamUUID
	}
	if match.AwayScore >= WinThreshold && match.AwayScore > match.HomeScore {
		return match.AwayTeamUUID
	}
	return ""
}

func (s *matchScoreService) resetMatch(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, actor string, result *ScoreResult) error {
	if err := s.rewards.ReverseRewards(ctx, exec, match, actor); err != nil {
		return err
	}
	if match.Category == models.CategorySemifinal || match.Category == models.CategoryFinal {
		if err := s.titles.RemoveForMatch(ctx, exec, match, actor); err != nil {
			return err
		}
	}
	if err := s.historyRepo.SoftDeleteByMatch(ctx, exec, match.UUID, actor); err != nil {
		return err
	}

	match.HomeScore = 0
	match.AwayScore = 0
	match.GameScores = nil
	match.WinnerTeamUUID = nil
	match.Status = models.MatchStatusUpcoming

	if err := s.matchRepo.UpdateScore(ctx, exec, match); err != nil {
		return mapMatchRepoError(err)
	}

	s.logger.Info("match reset", slog.String("match_uuid", match.UUID), slog.String("actor", actor))
	result.Match = match
	return nil
}

func (s *matchScoreService) recordIncident(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, incidentType models.MatchHistoryType, playerRef, notes *string) error {
	if playerRef != nil && *playerRef == SideBoth {
		for _, teamUUID := range []string{match.HomeTeamUUID, match.AwayTeamUUID} {
			if !models.IsRealTeam(teamUUID) {
				continue
			}
			roster, err := s.playerRepo.ListByTeam(ctx, exec, teamUUID)
			if err != nil {
				return err
			}
			for _, player := range roster {
				playerUUID := player.UUID
				if err := s.historyRepo.Create(ctx, exec, &models.MatchHistory{
					UUID:       uuid.NewString(),
					MatchUUID:  match.UUID,
					Type:       incidentType,
					PlayerUUID: &playerUUID,
					Notes:      notes,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return s.historyRepo.Create(ctx, exec, &models.MatchHistory{
		UUID:       uuid.NewString(),
		MatchUUID:  match.UUID,
		Type:       incidentType,
		PlayerUUID: playerRef,
		Notes:      notes,
	})
}

func (s *matchScoreService) UpdateStatus(ctx context.Context, matchUUID string, status models.MatchStatus, notes *string, actor string) (*models.Match, error) {
	if !models.ValidMatchStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMatchStatus, status)
	}
	if status == models.MatchStatusEnded {
		return nil, ErrEndedStatusForbidden
	}

	var updated *models.Match
	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByUUIDForUpdate(ctx, exec, matchUUID)
		if err != nil {
			return mapMatchRepoError(err)
		}

		transition := fmt.Sprintf("%s -> %s", match.Status, status)
		if notes != nil && *notes != "" {
			transition += ": " + *notes
		}
		if err := s.historyRepo.Create(ctx, exec, &models.MatchHistory{
			UUID:      uuid.NewString(),
			MatchUUID: match.UUID,
			Type:      models.HistoryStatusChange,
			Notes:     &transition,
		}); err != nil {
			return err
		}

		if err := s.matchRepo.UpdateStatus(ctx, exec, match.UUID, status); err != nil {
			return mapMatchRepoError(err)
		}
		match.Status = status
		updated = match
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *matchScoreService) AdvanceRound(ctx context.Context, matchUUID string, actor string) (*models.Match, error) {
	var ended *models.Match
	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.GetByUUIDForUpdate(ctx, exec, matchUUID)
		if err != nil {
			return mapMatchRepoError(err)
		}
		if match.Status != models.MatchStatusEnded {
			return ErrMatchNotEnded
		}

		if err := s.titles.AssignForMatch(ctx, exec, match, actorOrSystem(actor)); err != nil {
			return err
		}

		if match.InBracket() {
			if err := s.propagateWinner(ctx, exec, match); err != nil {
				return err
			}
		}
		ended = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ended.Category == models.CategoryFinal && s.archiver != nil {
		// Best-effort, out of band.
		go s.archiver.ArchiveFinal(context.Background(), ended)
	}
	return ended, nil
}

func (s *matchScoreService) propagateWinner(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	slot := brackets.NextSeed(match.Round, match.SeedIndex)

	next, err := s.matchRepo.GetBySeed(ctx, exec, *match.TournamentUUID, slot.Round, slot.SeedIndex)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			// No dependent match: this was the final.
			return nil
		}
		return err
	}

	winner := *match.WinnerTeamUUID
	home, away := next.HomeTeamUUID, next.AwayTeamUUID
	if slot.Side == brackets.SideHome {
		home = winner
	} else {
		away = winner
	}

	status := brackets.SlotStatus(home, away)
	if err := s.matchRepo.UpdateSlot(ctx, exec, next.UUID, string(slot.Side), winner, status); err != nil {
		return mapMatchRepoError(err)
	}

	s.logger.Info("winner advanced",
		slog.String("match_uuid", match.UUID),
		slog.String("next_match_uuid", next.UUID),
		slog.Int("round", slot.Round),
		slog.Int("seed_index", slot.SeedIndex),
		slog.String("side", string(slot.Side)),
	)
	return nil
}

func (s *matchScoreService) ListHistory(ctx context.Context, matchUUID string) ([]*models.MatchHistory, error) {
	if _, err := s.matchRepo.GetByUUID(ctx, nil, matchUUID); err != nil {
		return nil, mapMatchRepoError(err)
	}
	entries, err := s.historyRepo.ListActiveByMatch(ctx, nil, matchUUID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ScoreBroadcast is one entry of the match_score_updated payload.
type ScoreBroadcast struct {
	MatchUUID string `json:"matchUuid"`
	Score     string `json:"score"`
}

func (s *matchScoreService) notifyScoreUpdated(match *models.Match) {
	if s.hub == nil || match == nil || match.TournamentUUID == nil {
		return
	}
	roomID := "tournament_" + *match.TournamentUUID
	s.hub.BroadcastToRoom(roomID, brackets.WebSocketMessage{
		Type:   brackets.EventMatchScoreUpdated,
		RoomID: roomID,
		Payload: []ScoreBroadcast{{
			MatchUUID: match.UUID,
			Score:     fmt.Sprintf("%d-%d", match.HomeScore, match.AwayScore),
		}},
	})
}

func incidentSignal(signal string) (models.MatchHistoryType, bool) {
	t := models.MatchHistoryType(signal)
	return t, models.IncidentType(t)
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}

func mapMatchRepoError(err error) error {
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}
