package models

import "time"

type Player struct {
	UUID      string     `json:"uuid"`
	Name      string     `json:"name"`
	Point     int        `json:"point"`
	Coin      int        `json:"coin"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`
}

// PlayerTeam links a player to a team roster.
type PlayerTeam struct {
	UUID       string     `json:"uuid"`
	TeamUUID   string     `json:"team_uuid"`
	PlayerUUID string     `json:"player_uuid"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *string    `json:"deleted_by,omitempty"`
}
