package services

import (
	"context"
	"log/slog"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// GroupOverview is one group with its member teams resolved.
type GroupOverview struct {
	Group *models.TournamentGroup `json:"group"`
	Teams []*models.Team          `json:"teams"`
}

// TitleOverview is one title with its current holders.
type TitleOverview struct {
	Title   *models.Title         `json:"title"`
	Holders []*models.PlayerTitle `json:"holders"`
}

// TournamentOverview aggregates everything a scoreboard needs in one response.
type TournamentOverview struct {
	Tournament *models.Tournament `json:"tournament"`
	Matches    []*models.Match    `json:"matches"`
	Groups     []GroupOverview    `json:"groups"`
	Titles     []TitleOverview    `json:"titles"`
}

type TournamentOverviewService interface {
	GetOverview(ctx context.Context, tournamentUUID string) (*TournamentOverview, error)
}

type tournamentOverviewService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	groupRepo      repositories.GroupRepository
	teamRepo       repositories.TeamRepository
	titleRepo      repositories.TitleRepository
	logger         *slog.Logger
}

func NewTournamentOverviewService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	groupRepo repositories.GroupRepository,
	teamRepo repositories.TeamRepository,
	titleRepo repositories.TitleRepository,
	logger *slog.Logger,
) TournamentOverviewService {
	return &tournamentOverviewService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		groupRepo:      groupRepo,
		teamRepo:       teamRepo,
		titleRepo:      titleRepo,
		logger:         logger,
	}
}

func (s *tournamentOverviewService) GetOverview(ctx context.Context, tournamentUUID string) (*TournamentOverview, error) {
	tournament, err := s.tournamentRepo.GetByUUID(ctx, nil, tournamentUUID)
	if err != nil {
		return nil, mapGroupRepoError(err)
	}

	overview := &TournamentOverview{Tournament: tournament}

	// The three sections are independent reads, fetch them concurrently.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, nil, tournamentUUID)
		if err != nil {
			return err
		}
		overview.Matches = matches
		return nil
	})

	g.Go(func() error {
		groups, err := s.loadGroups(gctx, tournamentUUID)
		if err != nil {
			return err
		}
		overview.Groups = groups
		return nil
	})

	g.Go(func() error {
		titles, err := s.loadTitles(gctx, tournamentUUID)
		if err != nil {
			return err
		}
		overview.Titles = titles
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *tournamentOverviewService) loadGroups(ctx context.Context, tournamentUUID string) ([]GroupOverview, error) {
	groups, err := s.groupRepo.ListByTournament(ctx, nil, tournamentUUID)
	if err != nil {
		return nil, err
	}

	result := make([]GroupOverview, 0, len(groups))
	for _, group := range groups {
		memberships, err := s.groupRepo.ListTeams(ctx, nil, group.UUID)
		if err != nil {
			return nil, err
		}
		teams := make([]*models.Team, 0, len(memberships))
		for _, m := range memberships {
			team, err := s.teamRepo.GetByUUID(ctx, nil, m.TeamUUID)
			if err != nil {
				// A membership can outlive its soft-deleted team briefly;
				// skip rather than fail the whole overview.
				s.logger.Warn("skipping unresolvable group member",
					slog.String("group_uuid", group.UUID),
					slog.String("team_uuid", m.TeamUUID),
				)
				continue
			}
			teams = append(teams, team)
		}
		result = append(result, GroupOverview{Group: group, Teams: teams})
	}
	return result, nil
}

func (s *tournamentOverviewService) loadTitles(ctx context.Context, tournamentUUID string) ([]TitleOverview, error) {
	titles, err := s.titleRepo.ListActiveByRef(ctx, nil, tournamentUUID)
	if err != nil {
		return nil, err
	}

	result := make([]TitleOverview, 0, len(titles))
	for _, title := range titles {
		holders, err := s.titleRepo.ListActivePlayerTitles(ctx, nil, title.UUID)
		if err != nil {
			return nil, err
		}
		result = append(result, TitleOverview{Title: title, Holders: holders})
	}
	return result, nil
}
