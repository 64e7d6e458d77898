package brackets

import "github.com/courtside/tournament-engine/models"

// Side identifies the slot of a match a team occupies.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// SeedSlot is the bracket position a match winner advances into.
type SeedSlot struct {
	Round     int
	SeedIndex int
	Side      Side
}

// NextSeed computes the slot the winner of (round, seedIndex) feeds into in
// a single-elimination bracket. Rounds and seed indexes are 1-based
// throughout the engine: sibling seeds (2k-1, 2k) of round R feed seed k of
// round R+1, the odd seed taking the home slot.
func NextSeed(round, seedIndex int) SeedSlot {
	side := SideAway
	if seedIndex%2 == 1 {
		side = SideHome
	}
	return SeedSlot{
		Round:     round + 1,
		SeedIndex: (seedIndex + 1) / 2,
		Side:      side,
	}
}

// SlotStatus returns the status a bracket match should hold given its two
// slots: ONGOING once both hold real teams, UPCOMING while either is still
// a TBD/BYE placeholder.
func SlotStatus(homeTeamUUID, awayTeamUUID string) models.MatchStatus {
	if models.IsRealTeam(homeTeamUUID) && models.IsRealTeam(awayTeamUUID) {
		return models.MatchStatusOngoing
	}
	return models.MatchStatusUpcoming
}
