package models

import "time"

type Team struct {
	UUID           string     `json:"uuid"`
	Name           string     `json:"name"`
	TournamentUUID *string    `json:"tournament_uuid,omitempty"`
	GroupUUID      *string    `json:"group_uuid,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      *string    `json:"deleted_by,omitempty"`
}
