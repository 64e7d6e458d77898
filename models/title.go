package models

import "time"

const (
	RankWinner     = 1
	RankRunnerUp   = 2
	RankThirdPlace = 3
)

// TitleRankName returns the display name for a title rank.
func TitleRankName(rank int) string {
	switch rank {
	case RankWinner:
		return "Winner"
	case RankRunnerUp:
		return "Runner-up"
	case RankThirdPlace:
		return "Third place"
	}
	return "Unknown"
}

// Title is an awarded ranking scoped to a tournament. At most one active
// title exists per (RefID, Rank).
type Title struct {
	UUID      string     `json:"uuid"`
	RefID     string     `json:"ref_id"`
	Rank      int        `json:"rank"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`
}

// PlayerTitle attaches a player to a Title together with the team and match
// that earned it.
type PlayerTitle struct {
	UUID       string     `json:"uuid"`
	TitleUUID  string     `json:"title_uuid"`
	PlayerUUID string     `json:"player_uuid"`
	TeamUUID   string     `json:"team_uuid"`
	MatchUUID  string     `json:"match_uuid"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *string    `json:"deleted_by,omitempty"`
}
