package models

import "time"

type MatchHistoryType string

const (
	HistoryStatusChange MatchHistoryType = "STATUS"
	HistoryInjury       MatchHistoryType = "INJURY"
	HistoryNoShow       MatchHistoryType = "NO_SHOW"
	HistoryOther        MatchHistoryType = "OTHER"
)

// IncidentType reports whether t records an in-match incident rather than a
// plain status change.
func IncidentType(t MatchHistoryType) bool {
	switch t {
	case HistoryInjury, HistoryNoShow, HistoryOther:
		return true
	}
	return false
}

// MatchHistory is an audit row attached to a match: status changes and
// reported incidents.
type MatchHistory struct {
	UUID       string           `json:"uuid"`
	MatchUUID  string           `json:"match_uuid"`
	Type       MatchHistoryType `json:"type"`
	PlayerUUID *string          `json:"player_uuid,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	DeletedAt  *time.Time       `json:"deleted_at,omitempty"`
	DeletedBy  *string          `json:"deleted_by,omitempty"`
}
