package models

import "time"

type Tournament struct {
	UUID            string     `json:"uuid"`
	Name            string     `json:"name"`
	PointConfigUUID *string    `json:"point_config_uuid,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	DeletedBy       *string    `json:"deleted_by,omitempty"`
}
