package services

import (
	"context"
	"testing"

	"github.com/courtside/tournament-engine/models"
)

func titleFixture(t *testing.T) (*fakeTitleRepo, *fakePlayerRepo, TitleAssigner) {
	t.Helper()
	titleRepo := newFakeTitleRepo()
	playerRepo := newFakePlayerRepo()
	return titleRepo, playerRepo, NewTitleAssigner(titleRepo, playerRepo, testLogger())
}

func finalMatch() *models.Match {
	tournament := testTournament
	winner := "t-1"
	return &models.Match{
		UUID:           "final",
		TournamentUUID: &tournament,
		HomeTeamUUID:   "t-1",
		AwayTeamUUID:   "t-2",
		Round:          3,
		SeedIndex:      1,
		WinnerTeamUUID: &winner,
		Status:         models.MatchStatusEnded,
		Category:       models.CategoryFinal,
	}
}

func TestFinalAwardsWinnerAndRunnerUp(t *testing.T) {
	titles, players, assigner := titleFixture(t)
	players.addPlayer("t-1", "p-1")
	players.addPlayer("t-1", "p-2")
	players.addPlayer("t-2", "p-3")

	if err := assigner.AssignForMatch(context.Background(), nil, finalMatch(), "operator"); err != nil {
		t.Fatalf("AssignForMatch: %v", err)
	}

	if got := titles.activeHolders(models.RankWinner); len(got) != 2 {
		t.Errorf("winner holders = %d, want the full roster of t-1 (2)", len(got))
	}
	runnerUp := titles.activeHolders(models.RankRunnerUp)
	if len(runnerUp) != 1 {
		t.Fatalf("runner-up holders = %d, want 1", len(runnerUp))
	}
	if runnerUp[0].TeamUUID != "t-2" {
		t.Errorf("runner-up team = %s, want t-2", runnerUp[0].TeamUUID)
	}
}

func TestReassignmentReplacesHolders(t *testing.T) {
	titles, players, assigner := titleFixture(t)
	players.addPlayer("t-1", "p-1")
	players.addPlayer("t-2", "p-2")

	match := finalMatch()
	if err := assigner.AssignForMatch(context.Background(), nil, match, "operator"); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	// Score correction: the other side actually won.
	winner := "t-2"
	match.WinnerTeamUUID = &winner
	if err := assigner.AssignForMatch(context.Background(), nil, match, "operator"); err != nil {
		t.Fatalf("reassignment: %v", err)
	}

	winnerHolders := titles.activeHolders(models.RankWinner)
	if len(winnerHolders) != 1 {
		t.Fatalf("winner holders = %d, want 1 after reassignment", len(winnerHolders))
	}
	if winnerHolders[0].TeamUUID != "t-2" {
		t.Errorf("winner team = %s, want corrected t-2", winnerHolders[0].TeamUUID)
	}

	// Only one Title row per rank must ever exist.
	active, _ := titles.ListActiveByRef(context.Background(), nil, testTournament)
	ranks := map[int]int{}
	for _, title := range active {
		ranks[title.Rank]++
	}
	for rank, count := range ranks {
		if count != 1 {
			t.Errorf("rank %d has %d active titles, want 1", rank, count)
		}
	}
}

func TestSemifinalAwardsThirdPlaceToLoser(t *testing.T) {
	titles, players, assigner := titleFixture(t)
	players.addPlayer("t-1", "p-1")
	players.addPlayer("t-2", "p-2")

	match := finalMatch()
	match.UUID = "sf-1"
	match.Round = 2
	match.Category = models.CategorySemifinal

	if err := assigner.AssignForMatch(context.Background(), nil, match, "operator"); err != nil {
		t.Fatalf("AssignForMatch: %v", err)
	}

	if got := titles.activeHolders(models.RankWinner); len(got) != 0 {
		t.Error("semifinal must not award the winner title")
	}
	third := titles.activeHolders(models.RankThirdPlace)
	if len(third) != 1 || third[0].TeamUUID != "t-2" {
		t.Errorf("third place holders = %+v, want losing team t-2", third)
	}
}

func TestRegularMatchAwardsNothing(t *testing.T) {
	titles, players, assigner := titleFixture(t)
	players.addPlayer("t-1", "p-1")

	match := finalMatch()
	match.Category = models.CategoryRegular

	if err := assigner.AssignForMatch(context.Background(), nil, match, "operator"); err != nil {
		t.Fatalf("AssignForMatch: %v", err)
	}
	if len(titles.titles) != 0 {
		t.Errorf("titles created for a regular match: %d", len(titles.titles))
	}
}

func TestRemoveForMatchClearsHolders(t *testing.T) {
	titles, players, assigner := titleFixture(t)
	players.addPlayer("t-1", "p-1")
	players.addPlayer("t-2", "p-2")

	match := finalMatch()
	if err := assigner.AssignForMatch(context.Background(), nil, match, "operator"); err != nil {
		t.Fatalf("AssignForMatch: %v", err)
	}
	if err := assigner.RemoveForMatch(context.Background(), nil, match, "operator"); err != nil {
		t.Fatalf("RemoveForMatch: %v", err)
	}

	if got := titles.activeHolders(models.RankWinner); len(got) != 0 {
		t.Errorf("winner holders after removal = %d, want 0", len(got))
	}
	if got := titles.activeHolders(models.RankRunnerUp); len(got) != 0 {
		t.Errorf("runner-up holders after removal = %d, want 0", len(got))
	}
}
