package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
)

// The fakes below back the service tests with plain maps and slices. They
// implement the repository interfaces faithfully enough for the state
// machine: soft deletes, not-found errors, and the round/seed lookups.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	m.calls++
	return fn(nil)
}

// --- matches ---

type fakeMatchRepo struct {
	matches map[string]*models.Match
	writes  int
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[string]*models.Match)}
	for _, m := range matches {
		cp := *m
		repo.matches[m.UUID] = &cp
	}
	return repo
}

func copyMatch(m *models.Match) *models.Match {
	cp := *m
	return &cp
}

func (f *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	f.writes++
	match.CreatedAt = time.Now()
	f.matches[match.UUID] = copyMatch(match)
	return nil
}

func (f *fakeMatchRepo) GetByUUID(_ context.Context, _ repositories.SQLExecutor, uuid string) (*models.Match, error) {
	m, ok := f.matches[uuid]
	if !ok || m.DeletedAt != nil {
		return nil, repositories.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (f *fakeMatchRepo) GetByUUIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, uuid string) (*models.Match, error) {
	return f.GetByUUID(ctx, exec, uuid)
}

func (f *fakeMatchRepo) GetBySeed(_ context.Context, _ repositories.SQLExecutor, tournamentUUID string, round, seedIndex int) (*models.Match, error) {
	for _, m := range f.matches {
		if m.DeletedAt != nil || m.TournamentUUID == nil || *m.TournamentUUID != tournamentUUID {
			continue
		}
		if m.Round == round && m.SeedIndex == seedIndex {
			return copyMatch(m), nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentUUID string) ([]*models.Match, error) {
	var result []*models.Match
	for _, m := range f.matches {
		if m.DeletedAt == nil && m.TournamentUUID != nil && *m.TournamentUUID == tournamentUUID {
			result = append(result, copyMatch(m))
		}
	}
	return result, nil
}

func (f *fakeMatchRepo) ListGroupStage(_ context.Context, _ repositories.SQLExecutor, tournamentUUID string) ([]*models.Match, error) {
	var result []*models.Match
	for _, m := range f.matches {
		if m.DeletedAt == nil && m.Round == -1 && m.TournamentUUID != nil && *m.TournamentUUID == tournamentUUID {
			result = append(result, copyMatch(m))
		}
	}
	return result, nil
}

func (f *fakeMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	stored, ok := f.matches[match.UUID]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	f.writes++
	stored.HomeScore = match.HomeScore
	stored.AwayScore = match.AwayScore
	stored.GameScores = match.GameScores
	stored.WinnerTeamUUID = match.WinnerTeamUUID
	stored.Status = match.Status
	return nil
}

func (f *fakeMatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, uuid string, status models.MatchStatus) error {
	stored, ok := f.matches[uuid]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	f.writes++
	stored.Status = status
	return nil
}

func (f *fakeMatchRepo) UpdateSlot(_ context.Context, _ repositories.SQLExecutor, uuid, side, teamUUID string, status models.MatchStatus) error {
	stored, ok := f.matches[uuid]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	f.writes++
	if side == "home" {
		stored.HomeTeamUUID = teamUUID
	} else {
		stored.AwayTeamUUID = teamUUID
	}
	stored.Status = status
	return nil
}

func (f *fakeMatchRepo) UpdateGroupMatch(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	stored, ok := f.matches[match.UUID]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	f.writes++
	stored.HomeTeamUUID = match.HomeTeamUUID
	stored.AwayTeamUUID = match.AwayTeamUUID
	stored.Court = match.Court
	stored.ScheduledAt = match.ScheduledAt
	stored.GroupUUID = match.GroupUUID
	return nil
}

func (f *fakeMatchRepo) SoftDelete(_ context.Context, _ repositories.SQLExecutor, uuid, deletedBy string) error {
	stored, ok := f.matches[uuid]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrMatchNotFound
	}
	f.writes++
	now := time.Now()
	stored.DeletedAt = &now
	stored.DeletedBy = &deletedBy
	return nil
}

func (f *fakeMatchRepo) stored(uuid string) *models.Match {
	return f.matches[uuid]
}

// --- players ---

type fakePlayerRepo struct {
	players map[string]*models.Player
	rosters map[string][]string
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{
		players: make(map[string]*models.Player),
		rosters: make(map[string][]string),
	}
}

func (f *fakePlayerRepo) addPlayer(teamUUID, playerUUID string) {
	f.players[playerUUID] = &models.Player{UUID: playerUUID, Name: playerUUID}
	f.rosters[teamUUID] = append(f.rosters[teamUUID], playerUUID)
}

func (f *fakePlayerRepo) GetByUUID(_ context.Context, _ repositories.SQLExecutor, uuid string) (*models.Player, error) {
	p, ok := f.players[uuid]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlayerRepo) ListByTeam(_ context.Context, _ repositories.SQLExecutor, teamUUID string) ([]*models.Player, error) {
	var roster []*models.Player
	for _, uuid := range f.rosters[teamUUID] {
		cp := *f.players[uuid]
		roster = append(roster, &cp)
	}
	return roster, nil
}

func (f *fakePlayerRepo) AdjustBalances(_ context.Context, _ repositories.SQLExecutor, playerUUID string, pointDelta, coinDelta int) (int, int, error) {
	p, ok := f.players[playerUUID]
	if !ok {
		return 0, 0, repositories.ErrPlayerNotFound
	}
	p.Point += pointDelta
	p.Coin += coinDelta
	return p.Point, p.Coin, nil
}

// --- points ---

type fakePointRepo struct {
	tournamentRounds map[string]*models.TournamentMatchPoint
	configRounds     map[string]*models.MatchPoint
	defaultConfig    string

	matchPoints []*models.PlayerMatchPoint
	pointLogs   []*models.PointLog
	coinLogs    []*models.CoinLog
}

func newFakePointRepo() *fakePointRepo {
	return &fakePointRepo{
		tournamentRounds: make(map[string]*models.TournamentMatchPoint),
		configRounds:     make(map[string]*models.MatchPoint),
	}
}

func roundKey(id string, round int) string {
	return fmt.Sprintf("%s/%d", id, round)
}

func (f *fakePointRepo) setTournamentRound(tournamentUUID string, round, winPoint, losePoint, winCoin, loseCoin int) {
	f.tournamentRounds[roundKey(tournamentUUID, round)] = &models.TournamentMatchPoint{
		TournamentUUID: tournamentUUID,
		Round:          round,
		WinPoint:       winPoint,
		LosePoint:      losePoint,
		WinCoin:        winCoin,
		LoseCoin:       loseCoin,
	}
}

func (f *fakePointRepo) setConfigRound(configUUID string, round, winPoint, losePoint, winCoin, loseCoin int) {
	f.configRounds[roundKey(configUUID, round)] = &models.MatchPoint{
		PointConfigUUID: configUUID,
		Round:           round,
		WinPoint:        winPoint,
		LosePoint:       losePoint,
		WinCoin:         winCoin,
		LoseCoin:        loseCoin,
	}
}

func (f *fakePointRepo) GetTournamentRound(_ context.Context, _ repositories.SQLExecutor, tournamentUUID string, round int) (*models.TournamentMatchPoint, error) {
	return f.tournamentRounds[roundKey(tournamentUUID, round)], nil
}

func (f *fakePointRepo) GetConfigRound(_ context.Context, _ repositories.SQLExecutor, configUUID *string, round int) (*models.MatchPoint, error) {
	id := f.defaultConfig
	if configUUID != nil {
		id = *configUUID
	}
	if id == "" {
		return nil, nil
	}
	return f.configRounds[roundKey(id, round)], nil
}

func (f *fakePointRepo) HasActiveMatchRewards(_ context.Context, _ repositories.SQLExecutor, matchUUID string) (bool, error) {
	for _, pmp := range f.matchPoints {
		if pmp.MatchUUID == matchUUID && pmp.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePointRepo) CreatePlayerMatchPoint(_ context.Context, _ repositories.SQLExecutor, pmp *models.PlayerMatchPoint) error {
	cp := *pmp
	f.matchPoints = append(f.matchPoints, &cp)
	return nil
}

func (f *fakePointRepo) ListActiveByMatch(_ context.Context, _ repositories.SQLExecutor, matchUUID string) ([]*models.PlayerMatchPoint, error) {
	var result []*models.PlayerMatchPoint
	for _, pmp := range f.matchPoints {
		if pmp.MatchUUID == matchUUID && pmp.DeletedAt == nil {
			cp := *pmp
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakePointRepo) SoftDeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchUUID, deletedBy string) error {
	now := time.Now()
	for _, pmp := range f.matchPoints {
		if pmp.MatchUUID == matchUUID && pmp.DeletedAt == nil {
			pmp.DeletedAt = &now
			pmp.DeletedBy = &deletedBy
		}
	}
	return nil
}

func (f *fakePointRepo) CreatePointLog(_ context.Context, _ repositories.SQLExecutor, log *models.PointLog) error {
	cp := *log
	f.pointLogs = append(f.pointLogs, &cp)
	return nil
}

func (f *fakePointRepo) CreateCoinLog(_ context.Context, _ repositories.SQLExecutor, log *models.CoinLog) error {
	cp := *log
	f.coinLogs = append(f.coinLogs, &cp)
	return nil
}

func (f *fakePointRepo) activeRewards(matchUUID string) []*models.PlayerMatchPoint {
	var result []*models.PlayerMatchPoint
	for _, pmp := range f.matchPoints {
		if pmp.MatchUUID == matchUUID && pmp.DeletedAt == nil {
			result = append(result, pmp)
		}
	}
	return result
}

// --- titles ---

type fakeTitleRepo struct {
	titles       []*models.Title
	playerTitles []*models.PlayerTitle
}

func newFakeTitleRepo() *fakeTitleRepo {
	return &fakeTitleRepo{}
}

func (f *fakeTitleRepo) FindByRefAndRank(_ context.Context, _ repositories.SQLExecutor, refID string, rank int) (*models.Title, error) {
	for _, t := range f.titles {
		if t.RefID == refID && t.Rank == rank && t.DeletedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTitleRepo) Create(_ context.Context, _ repositories.SQLExecutor, title *models.Title) error {
	cp := *title
	f.titles = append(f.titles, &cp)
	return nil
}

func (f *fakeTitleRepo) ListActiveByRef(_ context.Context, _ repositories.SQLExecutor, refID string) ([]*models.Title, error) {
	var result []*models.Title
	for _, t := range f.titles {
		if t.RefID == refID && t.DeletedAt == nil {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeTitleRepo) CreatePlayerTitle(_ context.Context, _ repositories.SQLExecutor, pt *models.PlayerTitle) error {
	cp := *pt
	f.playerTitles = append(f.playerTitles, &cp)
	return nil
}

func (f *fakeTitleRepo) ListActivePlayerTitles(_ context.Context, _ repositories.SQLExecutor, titleUUID string) ([]*models.PlayerTitle, error) {
	var result []*models.PlayerTitle
	for _, pt := range f.playerTitles {
		if pt.TitleUUID == titleUUID && pt.DeletedAt == nil {
			cp := *pt
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeTitleRepo) SoftDeletePlayerTitlesByTitleAndMatch(_ context.Context, _ repositories.SQLExecutor, titleUUID, matchUUID, deletedBy string) error {
	now := time.Now()
	for _, pt := range f.playerTitles {
		if pt.TitleUUID == titleUUID && pt.MatchUUID == matchUUID && pt.DeletedAt == nil {
			pt.DeletedAt = &now
			pt.DeletedBy = &deletedBy
		}
	}
	return nil
}

func (f *fakeTitleRepo) SoftDeletePlayerTitlesByMatch(_ context.Context, _ repositories.SQLExecutor, matchUUID, deletedBy string) error {
	now := time.Now()
	for _, pt := range f.playerTitles {
		if pt.MatchUUID == matchUUID && pt.DeletedAt == nil {
			pt.DeletedAt = &now
			pt.DeletedBy = &deletedBy
		}
	}
	return nil
}

func (f *fakeTitleRepo) activeHolders(rank int) []*models.PlayerTitle {
	var title *models.Title
	for _, t := range f.titles {
		if t.Rank == rank && t.DeletedAt == nil {
			title = t
			break
		}
	}
	if title == nil {
		return nil
	}
	var result []*models.PlayerTitle
	for _, pt := range f.playerTitles {
		if pt.TitleUUID == title.UUID && pt.DeletedAt == nil {
			result = append(result, pt)
		}
	}
	return result
}

// --- history ---

type fakeHistoryRepo struct {
	entries []*models.MatchHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) Create(_ context.Context, _ repositories.SQLExecutor, entry *models.MatchHistory) error {
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeHistoryRepo) ListActiveByMatch(_ context.Context, _ repositories.SQLExecutor, matchUUID string) ([]*models.MatchHistory, error) {
	var result []*models.MatchHistory
	for _, e := range f.entries {
		if e.MatchUUID == matchUUID && e.DeletedAt == nil {
			cp := *e
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeHistoryRepo) SoftDeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchUUID, deletedBy string) error {
	now := time.Now()
	for _, e := range f.entries {
		if e.MatchUUID == matchUUID && e.DeletedAt == nil {
			e.DeletedAt = &now
			e.DeletedBy = &deletedBy
		}
	}
	return nil
}

func (f *fakeHistoryRepo) active(matchUUID string) []*models.MatchHistory {
	var result []*models.MatchHistory
	for _, e := range f.entries {
		if e.MatchUUID == matchUUID && e.DeletedAt == nil {
			result = append(result, e)
		}
	}
	return result
}

// --- groups ---

type fakeGroupRepo struct {
	groups      map[string]*models.TournamentGroup
	memberships []*models.TournamentGroupTeam
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*models.TournamentGroup)}
}

func (f *fakeGroupRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentUUID string) ([]*models.TournamentGroup, error) {
	var result []*models.TournamentGroup
	for _, g := range f.groups {
		if g.TournamentUUID == tournamentUUID && g.DeletedAt == nil {
			cp := *g
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeGroupRepo) Create(_ context.Context, _ repositories.SQLExecutor, group *models.TournamentGroup) error {
	cp := *group
	f.groups[group.UUID] = &cp
	return nil
}

func (f *fakeGroupRepo) Update(_ context.Context, _ repositories.SQLExecutor, group *models.TournamentGroup) error {
	stored, ok := f.groups[group.UUID]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrGroupNotFound
	}
	stored.GroupKey = group.GroupKey
	stored.Name = group.Name
	return nil
}

func (f *fakeGroupRepo) SoftDelete(_ context.Context, _ repositories.SQLExecutor, uuid, deletedBy string) error {
	stored, ok := f.groups[uuid]
	if !ok || stored.DeletedAt != nil {
		return repositories.ErrGroupNotFound
	}
	now := time.Now()
	stored.DeletedAt = &now
	stored.DeletedBy = &deletedBy
	return nil
}

func (f *fakeGroupRepo) ListTeams(_ context.Context, _ repositories.SQLExecutor, groupUUID string) ([]*models.TournamentGroupTeam, error) {
	var result []*models.TournamentGroupTeam
	for _, m := range f.memberships {
		if m.GroupUUID == groupUUID && m.DeletedAt == nil {
			cp := *m
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeGroupRepo) AddTeam(_ context.Context, _ repositories.SQLExecutor, membership *models.TournamentGroupTeam) error {
	cp := *membership
	f.memberships = append(f.memberships, &cp)
	return nil
}

func (f *fakeGroupRepo) RemoveTeam(_ context.Context, _ repositories.SQLExecutor, groupUUID, teamUUID, deletedBy string) error {
	now := time.Now()
	for _, m := range f.memberships {
		if m.GroupUUID == groupUUID && m.TeamUUID == teamUUID && m.DeletedAt == nil {
			m.DeletedAt = &now
			m.DeletedBy = &deletedBy
		}
	}
	return nil
}

func (f *fakeGroupRepo) RemoveTeamFromAll(_ context.Context, _ repositories.SQLExecutor, teamUUID, deletedBy string) error {
	now := time.Now()
	for _, m := range f.memberships {
		if m.TeamUUID == teamUUID && m.DeletedAt == nil {
			m.DeletedAt = &now
			m.DeletedBy = &deletedBy
		}
	}
	return nil
}

func (f *fakeGroupRepo) activeGroups() []*models.TournamentGroup {
	var result []*models.TournamentGroup
	for _, g := range f.groups {
		if g.DeletedAt == nil {
			result = append(result, g)
		}
	}
	return result
}

func (f *fakeGroupRepo) activeMembers(groupUUID string) []string {
	var result []string
	for _, m := range f.memberships {
		if m.GroupUUID == groupUUID && m.DeletedAt == nil {
			result = append(result, m.TeamUUID)
		}
	}
	return result
}

// --- teams ---

type fakeTeamRepo struct {
	teams map[string]*models.Team
}

func newFakeTeamRepo(teamUUIDs ...string) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[string]*models.Team)}
	for _, uuid := range teamUUIDs {
		repo.teams[uuid] = &models.Team{UUID: uuid, Name: uuid}
	}
	return repo
}

func (f *fakeTeamRepo) GetByUUID(_ context.Context, _ repositories.SQLExecutor, uuid string) (*models.Team, error) {
	t, ok := f.teams[uuid]
	if !ok || t.DeletedAt != nil {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	cp := *team
	f.teams[team.UUID] = &cp
	return nil
}

func (f *fakeTeamRepo) SetGroup(_ context.Context, _ repositories.SQLExecutor, teamUUID string, groupUUID *string) error {
	t, ok := f.teams[teamUUID]
	if !ok || t.DeletedAt != nil {
		return repositories.ErrTeamNotFound
	}
	t.GroupUUID = groupUUID
	return nil
}

func (f *fakeTeamRepo) SoftDelete(_ context.Context, _ repositories.SQLExecutor, uuid, deletedBy string) error {
	t, ok := f.teams[uuid]
	if !ok || t.DeletedAt != nil {
		return repositories.ErrTeamNotFound
	}
	now := time.Now()
	t.DeletedAt = &now
	t.DeletedBy = &deletedBy
	return nil
}

func (f *fakeTeamRepo) isDeleted(uuid string) bool {
	t, ok := f.teams[uuid]
	return ok && t.DeletedAt != nil
}

// --- tournaments ---

type fakeTournamentRepo struct {
	tournaments map[string]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[string]*models.Tournament)}
	for _, t := range tournaments {
		cp := *t
		repo.tournaments[t.UUID] = &cp
	}
	return repo
}

func (f *fakeTournamentRepo) GetByUUID(_ context.Context, _ repositories.SQLExecutor, uuid string) (*models.Tournament, error) {
	t, ok := f.tournaments[uuid]
	if !ok || t.DeletedAt != nil {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}
