package models

import "time"

// TournamentGroup is a round-robin group within a tournament.
type TournamentGroup struct {
	UUID           string     `json:"uuid"`
	TournamentUUID string     `json:"tournament_uuid"`
	GroupKey       int        `json:"group_key"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      *string    `json:"deleted_by,omitempty"`
}

// TournamentGroupTeam links a team into a group. A team belongs to at most
// one active group per tournament.
type TournamentGroupTeam struct {
	UUID      string     `json:"uuid"`
	GroupUUID string     `json:"group_uuid"`
	TeamUUID  string     `json:"team_uuid"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`
}

// GroupKeyName maps a zero-based group key to the conventional letter name
// (0 -> "A", 1 -> "B", ...).
func GroupKeyName(key int) string {
	if key < 0 || key > 25 {
		return "?"
	}
	return string(rune('A' + key))
}
