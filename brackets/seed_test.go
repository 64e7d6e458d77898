package brackets

import (
	"testing"

	"github.com/courtside/tournament-engine/models"
)

func TestNextSeedEightTeamBracket(t *testing.T) {
	// Quarterfinals (round 1, seeds 1-4) feed semifinals (round 2, seeds
	// 1-2), which feed the final (round 3, seed 1).
	cases := []struct {
		round, seedIndex int
		want             SeedSlot
	}{
		{1, 1, SeedSlot{Round: 2, SeedIndex: 1, Side: SideHome}},
		{1, 2, SeedSlot{Round: 2, SeedIndex: 1, Side: SideAway}},
		{1, 3, SeedSlot{Round: 2, SeedIndex: 2, Side: SideHome}},
		{1, 4, SeedSlot{Round: 2, SeedIndex: 2, Side: SideAway}},
		{2, 1, SeedSlot{Round: 3, SeedIndex: 1, Side: SideHome}},
		{2, 2, SeedSlot{Round: 3, SeedIndex: 1, Side: SideAway}},
	}

	for _, tc := range cases {
		got := NextSeed(tc.round, tc.seedIndex)
		if got != tc.want {
			t.Errorf("NextSeed(%d, %d) = %+v, want %+v", tc.round, tc.seedIndex, got, tc.want)
		}
	}
}

func TestNextSeedSixteenTeamFirstRound(t *testing.T) {
	for seed := 1; seed <= 8; seed++ {
		homeGot := NextSeed(1, 2*seed-1)
		awayGot := NextSeed(1, 2*seed)

		if homeGot.Round != 2 || homeGot.SeedIndex != seed || homeGot.Side != SideHome {
			t.Errorf("seed %d home feeder: got %+v", seed, homeGot)
		}
		if awayGot.Round != 2 || awayGot.SeedIndex != seed || awayGot.Side != SideAway {
			t.Errorf("seed %d away feeder: got %+v", seed, awayGot)
		}
	}
}

func TestSlotStatus(t *testing.T) {
	cases := []struct {
		home, away string
		want       models.MatchStatus
	}{
		{"team-1", "team-2", models.MatchStatusOngoing},
		{"team-1", models.TeamTBD, models.MatchStatusUpcoming},
		{models.TeamTBD, "team-2", models.MatchStatusUpcoming},
		{models.TeamBYE, models.TeamTBD, models.MatchStatusUpcoming},
		{"", "team-2", models.MatchStatusUpcoming},
	}

	for _, tc := range cases {
		if got := SlotStatus(tc.home, tc.away); got != tc.want {
			t.Errorf("SlotStatus(%q, %q) = %s, want %s", tc.home, tc.away, got, tc.want)
		}
	}
}
