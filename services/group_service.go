package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/google/uuid"
)

// GroupTeamSpec references an existing team inside a group payload.
type GroupTeamSpec struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// GroupSpec is the desired state of one group. A nil UUID means "create".
type GroupSpec struct {
	UUID     *string         `json:"uuid,omitempty"`
	GroupKey int             `json:"group_key"`
	Name     string          `json:"name"`
	Teams    []GroupTeamSpec `json:"teams"`
}

// GroupMatchSpec is the desired state of one group-stage match. The group
// is resolved by explicit uuid, or by group key when the uuid is absent.
type GroupMatchSpec struct {
	UUID         *string    `json:"uuid,omitempty"`
	HomeTeamUUID string     `json:"home_team_uuid"`
	AwayTeamUUID string     `json:"away_team_uuid"`
	GroupUUID    *string    `json:"group_uuid,omitempty"`
	GroupKey     *int       `json:"group_key,omitempty"`
	Court        *string    `json:"court,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
}

type GroupSyncInput struct {
	Groups  []GroupSpec      `json:"groups"`
	Matches []GroupMatchSpec `json:"matches"`
}

type GroupSyncResult struct {
	Groups  []*models.TournamentGroup `json:"groups"`
	Matches []*models.Match           `json:"matches"`
}

// GroupStandingsService reconciles the desired group-stage state of a
// tournament against the database: groups, team memberships and
// group-scoped matches, all within one transaction.
type GroupStandingsService interface {
	SyncGroups(ctx context.Context, tournamentUUID string, in GroupSyncInput, actor string) (*GroupSyncResult, error)
	// UpdateTeamGroup moves a team into another group (or out of any,
	// when groupUUID is nil).
	UpdateTeamGroup(ctx context.Context, teamUUID string, groupUUID *string, actor string) error
}

type groupStandingsService struct {
	txm            repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	groupRepo      repositories.GroupRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewGroupStandingsService(
	txm repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	groupRepo repositories.GroupRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) GroupStandingsService {
	return &groupStandingsService{
		txm:            txm,
		tournamentRepo: tournamentRepo,
		groupRepo:      groupRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *groupStandingsService) SyncGroups(ctx context.Context, tournamentUUID string, in GroupSyncInput, actor string) (*GroupSyncResult, error) {
	for _, spec := range in.Groups {
		if spec.Name == "" && (spec.GroupKey < 0 || spec.GroupKey > 25) {
			return nil, ErrGroupNameRequired
		}
		for _, team := range spec.Teams {
			if team.UUID == "" {
				return nil, ErrGroupTeamRequired
			}
		}
	}
	actor = actorOrSystem(actor)

	result := &GroupSyncResult{}
	err := s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetByUUID(ctx, exec, tournamentUUID); err != nil {
			return mapGroupRepoError(err)
		}

		groups, memberships, err := s.reconcileGroups(ctx, exec, tournamentUUID, in.Groups, actor)
		if err != nil {
			return err
		}
		result.Groups = groups

		matches, err := s.reconcileMatches(ctx, exec, tournamentUUID, in.Matches, groups, memberships, actor)
		if err != nil {
			return err
		}
		result.Matches = matches
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reconcileGroups brings groups and memberships to the desired state and
// returns the surviving groups plus their member sets.
func (s *groupStandingsService) reconcileGroups(
	ctx context.Context,
	exec repositories.SQLExecutor,
	tournamentUUID string,
	specs []GroupSpec,
	actor string,
) ([]*models.TournamentGroup, map[string]map[string]bool, error) {
	current, err := s.groupRepo.ListByTournament(ctx, exec, tournamentUUID)
	if err != nil {
		return nil, nil, err
	}

	specByUUID := make(map[string]*GroupSpec)
	desiredTeams := make(map[string]bool)
	for i := range specs {
		if specs[i].UUID != nil {
			specByUUID[*specs[i].UUID] = &specs[i]
		}
		for _, team := range specs[i].Teams {
			desiredTeams[team.UUID] = true
		}
	}

	// memberships[groupUUID] is the set of team uuids currently attached.
	memberships := make(map[string]map[string]bool)
	currentByUUID := make(map[string]*models.TournamentGroup)

	for _, group := range current {
		members, err := s.groupRepo.ListTeams(ctx, exec, group.UUID)
		if err != nil {
			return nil, nil, err
		}

		spec, kept := specByUUID[group.UUID]
		if !kept {
			// Group dropped from the payload: dissolve it. Teams that
			// appear in no desired group are retired entirely.
			for _, m := range members {
				if err := s.groupRepo.RemoveTeam(ctx, exec, group.UUID, m.TeamUUID, actor); err != nil {
					return nil, nil, err
				}
				if err := s.teamRepo.SetGroup(ctx, exec, m.TeamUUID, nil); err != nil {
					return nil, nil, mapGroupRepoError(err)
				}
				if !desiredTeams[m.TeamUUID] {
					if err := s.teamRepo.SoftDelete(ctx, exec, m.TeamUUID, actor); err != nil {
						return nil, nil, mapGroupRepoError(err)
					}
				}
			}
			if err := s.groupRepo.SoftDelete(ctx, exec, group.UUID, actor); err != nil {
				return nil, nil, err
			}
			continue
		}

		memberSet := make(map[string]bool)
		specTeams := make(map[string]bool)
		for _, team := range spec.Teams {
			specTeams[team.UUID] = true
		}
		for _, m := range members {
			if specTeams[m.TeamUUID] {
				memberSet[m.TeamUUID] = true
				continue
			}
			if err := s.groupRepo.RemoveTeam(ctx, exec, group.UUID, m.TeamUUID, actor); err != nil {
				return nil, nil, err
			}
			if err := s.teamRepo.SetGroup(ctx, exec, m.TeamUUID, nil); err != nil {
				return nil, nil, mapGroupRepoError(err)
			}
			if !desiredTeams[m.TeamUUID] {
				if err := s.teamRepo.SoftDelete(ctx, exec, m.TeamUUID, actor); err != nil {
					return nil, nil, mapGroupRepoError(err)
				}
			}
		}

		name := groupName(spec)
		if group.Name != name || group.GroupKey != spec.GroupKey {
			group.Name = name
			group.GroupKey = spec.GroupKey
			if err := s.groupRepo.Update(ctx, exec, group); err != nil {
				return nil, nil, err
			}
		}
		memberships[group.UUID] = memberSet
		currentByUUID[group.UUID] = group
	}

	// Upsert pass: create missing groups and attach missing teams.
	resultGroups := make([]*models.TournamentGroup, 0, len(specs))
	for i := range specs {
		spec := &specs[i]

		var group *models.TournamentGroup
		if spec.UUID != nil {
			group = currentByUUID[*spec.UUID]
		}
		if group == nil {
			group = &models.TournamentGroup{
				UUID:           uuid.NewString(),
				TournamentUUID: tournamentUUID,
				GroupKey:       spec.GroupKey,
				Name:           groupName(spec),
			}
			if err := s.groupRepo.Create(ctx, exec, group); err != nil {
				return nil, nil, err
			}
			memberships[group.UUID] = make(map[string]bool)
		}

		for _, team := range spec.Teams {
			if memberships[group.UUID][team.UUID] {
				continue
			}
			if _, err := s.teamRepo.GetByUUID(ctx, exec, team.UUID); err != nil {
				return nil, nil, mapGroupRepoError(err)
			}
			if err := s.groupRepo.AddTeam(ctx, exec, &models.TournamentGroupTeam{
				UUID:      uuid.NewString(),
				GroupUUID: group.UUID,
				TeamUUID:  team.UUID,
			}); err != nil {
				return nil, nil, err
			}
			if err := s.teamRepo.SetGroup(ctx, exec, team.UUID, &group.UUID); err != nil {
				return nil, nil, mapGroupRepoError(err)
			}
			memberships[group.UUID][team.UUID] = true
		}
		resultGroups = append(resultGroups, group)
	}

	return resultGroups, memberships, nil
}

func (s *groupStandingsService) reconcileMatches(
	ctx context.Context,
	exec repositories.SQLExecutor,
	tournamentUUID string,
	specs []GroupMatchSpec,
	groups []*models.TournamentGroup,
	memberships map[string]map[string]bool,
	actor string,
) ([]*models.Match, error) {
	existing, err := s.matchRepo.ListGroupStage(ctx, exec, tournamentUUID)
	if err != nil {
		return nil, err
	}
	existingByUUID := make(map[string]*models.Match, len(existing))
	for _, m := range existing {
		existingByUUID[m.UUID] = m
	}

	specUUIDs := make(map[string]bool)
	for _, ms := range specs {
		if ms.UUID != nil {
			specUUIDs[*ms.UUID] = true
		}
	}
	for _, m := range existing {
		if !specUUIDs[m.UUID] {
			if err := s.matchRepo.SoftDelete(ctx, exec, m.UUID, actor); err != nil {
				return nil, err
			}
		}
	}

	groupByUUID := make(map[string]*models.TournamentGroup)
	groupByKey := make(map[int]*models.TournamentGroup)
	for _, g := range groups {
		groupByUUID[g.UUID] = g
		groupByKey[g.GroupKey] = g
	}

	result := make([]*models.Match, 0, len(specs))
	for _, ms := range specs {
		if ms.HomeTeamUUID == "" || ms.AwayTeamUUID == "" {
			return nil, ErrMatchTeamsRequired
		}

		group, err := resolveGroup(ms, groupByUUID, groupByKey)
		if err != nil {
			return nil, err
		}

		if ms.UUID != nil {
			if match, ok := existingByUUID[*ms.UUID]; ok {
				match.HomeTeamUUID = ms.HomeTeamUUID
				match.AwayTeamUUID = ms.AwayTeamUUID
				match.Court = ms.Court
				match.ScheduledAt = ms.ScheduledAt
				match.GroupUUID = &group.UUID
				if err := s.matchRepo.UpdateGroupMatch(ctx, exec, match); err != nil {
					return nil, err
				}
				result = append(result, match)
				continue
			}
		}

		match := &models.Match{
			UUID:           uuid.NewString(),
			TournamentUUID: &tournamentUUID,
			HomeTeamUUID:   ms.HomeTeamUUID,
			AwayTeamUUID:   ms.AwayTeamUUID,
			Court:          ms.Court,
			ScheduledAt:    ms.ScheduledAt,
			Round:          -1,
			SeedIndex:      -1,
			GroupUUID:      &group.UUID,
			Status:         models.MatchStatusUpcoming,
			Category:       models.CategoryGroup,
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return nil, err
		}
		result = append(result, match)
	}
	return result, nil
}

func resolveGroup(ms GroupMatchSpec, byUUID map[string]*models.TournamentGroup, byKey map[int]*models.TournamentGroup) (*models.TournamentGroup, error) {
	if ms.GroupUUID != nil {
		if g, ok := byUUID[*ms.GroupUUID]; ok {
			return g, nil
		}
		return nil, ErrGroupUnresolved
	}
	if ms.GroupKey != nil {
		if g, ok := byKey[*ms.GroupKey]; ok {
			return g, nil
		}
	}
	return nil, ErrGroupUnresolved
}

func groupName(spec *GroupSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return models.GroupKeyName(spec.GroupKey)
}

func (s *groupStandingsService) UpdateTeamGroup(ctx context.Context, teamUUID string, groupUUID *string, actor string) error {
	actor = actorOrSystem(actor)
	return s.txm.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.teamRepo.GetByUUID(ctx, exec, teamUUID); err != nil {
			return mapGroupRepoError(err)
		}
		if err := s.groupRepo.RemoveTeamFromAll(ctx, exec, teamUUID, actor); err != nil {
			return err
		}
		if groupUUID != nil {
			if err := s.groupRepo.AddTeam(ctx, exec, &models.TournamentGroupTeam{
				UUID:      uuid.NewString(),
				GroupUUID: *groupUUID,
				TeamUUID:  teamUUID,
			}); err != nil {
				return err
			}
		}
		return s.teamRepo.SetGroup(ctx, exec, teamUUID, groupUUID)
	})
}

func mapGroupRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrGroupNotFound):
		return ErrGroupNotFound
	}
	return err
}
