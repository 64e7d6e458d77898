package models

import "time"

type MatchStatus string

const (
	MatchStatusUpcoming MatchStatus = "UPCOMING"
	MatchStatusOngoing  MatchStatus = "ONGOING"
	MatchStatusPaused   MatchStatus = "PAUSED"
	MatchStatusEnded    MatchStatus = "ENDED"
)

// ValidMatchStatus reports whether s is one of the stored match statuses.
// The RESET signal is deliberately not part of this set: it is a command
// accepted by the score endpoint, never a value persisted on a match.
func ValidMatchStatus(s MatchStatus) bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusOngoing, MatchStatusPaused, MatchStatusEnded:
		return true
	}
	return false
}

type MatchCategory string

const (
	CategoryRegular   MatchCategory = "REGULAR"
	CategoryGroup     MatchCategory = "GROUP"
	CategorySemifinal MatchCategory = "SEMIFINAL"
	CategoryFinal     MatchCategory = "FINAL"
	CategoryChallenge MatchCategory = "CHALLENGE"
)

// Placeholder team markers used in bracket slots before the feeding matches
// have produced a winner.
const (
	TeamTBD = "TBD"
	TeamBYE = "BYE"
)

// IsRealTeam reports whether a slot holds an actual team reference rather
// than a placeholder.
func IsRealTeam(teamUUID string) bool {
	return teamUUID != "" && teamUUID != TeamTBD && teamUUID != TeamBYE
}

// Match is a single fixture. Knockout matches carry a 1-based Round and
// SeedIndex; group-stage and challenge matches use -1 for both and carry a
// GroupUUID instead.
type Match struct {
	UUID           string        `json:"uuid"`
	TournamentUUID *string       `json:"tournament_uuid,omitempty"`
	HomeTeamUUID   string        `json:"home_team_uuid"`
	AwayTeamUUID   string        `json:"away_team_uuid"`
	Court          *string       `json:"court,omitempty"`
	ScheduledAt    *time.Time    `json:"scheduled_at,omitempty"`
	Round          int           `json:"round"`
	SeedIndex      int           `json:"seed_index"`
	GroupUUID      *string       `json:"group_uuid,omitempty"`
	Status         MatchStatus   `json:"status"`
	HomeScore      int           `json:"home_team_score"`
	AwayScore      int           `json:"away_team_score"`
	GameScores     *string       `json:"game_scores,omitempty"`
	WinnerTeamUUID *string       `json:"winner_team_uuid,omitempty"`
	Category       MatchCategory `json:"category"`
	CreatedAt      time.Time     `json:"created_at"`
	DeletedAt      *time.Time    `json:"deleted_at,omitempty"`
	DeletedBy      *string       `json:"deleted_by,omitempty"`
}

// LoserTeamUUID returns the side that did not win an ended match, or ""
// when no winner is set.
func (m *Match) LoserTeamUUID() string {
	if m.WinnerTeamUUID == nil {
		return ""
	}
	if *m.WinnerTeamUUID == m.HomeTeamUUID {
		return m.AwayTeamUUID
	}
	return m.HomeTeamUUID
}

// InBracket reports whether the match occupies a seed-based bracket slot.
func (m *Match) InBracket() bool {
	return m.TournamentUUID != nil && m.Round > 0 && m.SeedIndex > 0
}
