package services

import "errors"

// Errors shared between services and the HTTP error mapping.
var (
	// Validation / business rules
	ErrScoresRequired       = errors.New("both home and away scores are required")
	ErrInvalidStatusSignal  = errors.New("invalid status signal")
	ErrInvalidMatchStatus   = errors.New("invalid match status")
	ErrEndedStatusForbidden = errors.New("a match cannot be ended through a direct status change, submit a score instead")
	ErrGroupNameRequired    = errors.New("group name is required")
	ErrGroupTeamRequired    = errors.New("group team uuid is required")
	ErrMatchTeamsRequired   = errors.New("match home and away team uuids are required")
	ErrGroupUnresolved      = errors.New("match group could not be resolved")

	// State machine preconditions
	ErrMatchNotEnded = errors.New("match is not ended")

	// Entity lookups
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrGroupNotFound      = errors.New("tournament group not found")

	// Auth
	ErrInvalidCredentials = errors.New("invalid operator name or password")
)
