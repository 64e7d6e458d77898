package models

import "time"

// PointConfig is a named set of per-round reward values. Exactly one config
// may be flagged as the club-wide default.
type PointConfig struct {
	UUID      string     `json:"uuid"`
	Name      string     `json:"name"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty"`
}

// MatchPoint is one per-round row of a PointConfig.
type MatchPoint struct {
	UUID            string     `json:"uuid"`
	PointConfigUUID string     `json:"point_config_uuid"`
	Round           int        `json:"round"`
	WinPoint        int        `json:"win_point"`
	LosePoint       int        `json:"lose_point"`
	WinCoin         int        `json:"win_coin"`
	LoseCoin        int        `json:"lose_coin"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	DeletedBy       *string    `json:"deleted_by,omitempty"`
}

// TournamentMatchPoint overrides the global config for one tournament round.
type TournamentMatchPoint struct {
	UUID           string     `json:"uuid"`
	TournamentUUID string     `json:"tournament_uuid"`
	Round          int        `json:"round"`
	WinPoint       int        `json:"win_point"`
	LosePoint      int        `json:"lose_point"`
	WinCoin        int        `json:"win_coin"`
	LoseCoin       int        `json:"lose_coin"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedBy      *string    `json:"deleted_by,omitempty"`
}

// PlayerMatchPoint records the point/coin delta applied to one player for
// one ended match. Rows are append-only and are soft-deleted when the match
// is reset, so they double as the reversal ledger.
type PlayerMatchPoint struct {
	UUID       string     `json:"uuid"`
	MatchUUID  string     `json:"match_uuid"`
	PlayerUUID string     `json:"player_uuid"`
	Point      int        `json:"point"`
	Coin       int        `json:"coin"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *string    `json:"deleted_by,omitempty"`
}

// PointLog is an append-only audit row for a point balance mutation.
type PointLog struct {
	UUID       string     `json:"uuid"`
	PlayerUUID string     `json:"player_uuid"`
	MatchUUID  *string    `json:"match_uuid,omitempty"`
	Amount     int        `json:"amount"`
	Before     int        `json:"before"`
	After      int        `json:"after"`
	Note       *string    `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *string    `json:"deleted_by,omitempty"`
}

// CoinLog is the coin counterpart of PointLog.
type CoinLog struct {
	UUID       string     `json:"uuid"`
	PlayerUUID string     `json:"player_uuid"`
	MatchUUID  *string    `json:"match_uuid,omitempty"`
	Amount     int        `json:"amount"`
	Before     int        `json:"before"`
	After      int        `json:"after"`
	Note       *string    `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	DeletedBy  *string    `json:"deleted_by,omitempty"`
}
