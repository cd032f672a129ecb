package brackets_test

import (
	"testing"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func played(p1, p2, winner, g1, g2 int) *models.Match {
	return &models.Match{
		Phase:               models.MatchPhaseGroup,
		P1ParticipantID:     &p1,
		P2ParticipantID:     &p2,
		WinnerParticipantID: &winner,
		P1Games:             g1,
		P2Games:             g2,
		Status:              models.MatchStatusCompleted,
	}
}

func TestComputeStandingsBasic(t *testing.T) {
	members := []int{1, 2, 3, 4}
	matches := []*models.Match{
		played(1, 2, 1, 6, 2),
		played(1, 3, 1, 6, 3),
		played(1, 4, 1, 6, 1),
		played(2, 3, 2, 6, 4),
		played(2, 4, 2, 7, 5),
		played(3, 4, 3, 6, 0),
	}

	rows := brackets.ComputeStandings(members, matches)
	require.Len(t, rows, 4)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{
		rows[0].ParticipantID, rows[1].ParticipantID,
		rows[2].ParticipantID, rows[3].ParticipantID,
	})
	assert.Equal(t, 6, rows[0].Points)
	assert.Equal(t, 3, rows[0].Played)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 4, rows[3].Rank)
	assert.Equal(t, 0, rows[3].Wins)
}

func TestComputeStandingsHeadToHeadBreaksTwoWayTie(t *testing.T) {
	// 1 and 2 finish level on points; 1 has the far better games
	// difference but lost the direct meeting, so 2 ranks first.
	members := []int{1, 2, 3, 4}
	matches := []*models.Match{
		played(2, 1, 2, 7, 6),
		played(1, 3, 1, 6, 0),
		played(1, 4, 1, 6, 0),
		played(2, 3, 2, 6, 4),
		played(4, 2, 4, 6, 4),
		played(3, 4, 3, 6, 3),
	}

	rows := brackets.ComputeStandings(members, matches)
	require.Len(t, rows, 4)
	assert.Equal(t, 2, rows[0].ParticipantID)
	assert.Equal(t, 1, rows[1].ParticipantID)
	assert.Equal(t, rows[0].Points, rows[1].Points)
}

func TestComputeStandingsThreeWayTieUsesGames(t *testing.T) {
	// Circular results: 1 beats 2, 2 beats 3, 3 beats 1. Head-to-head
	// cannot order three entrants, so the games criteria decide.
	members := []int{1, 2, 3}
	matches := []*models.Match{
		played(1, 2, 1, 6, 0),
		played(2, 3, 2, 6, 4),
		played(3, 1, 3, 6, 5),
	}

	rows := brackets.ComputeStandings(members, matches)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, 2, row.Points)
	}
	// Games diff: 1 → +5, 2 → -4, 3 → -1.
	assert.Equal(t, []int{1, 3, 2}, []int{
		rows[0].ParticipantID, rows[1].ParticipantID, rows[2].ParticipantID,
	})
}

func TestComputeStandingsIgnoresUnplayedMatches(t *testing.T) {
	members := []int{1, 2, 3}
	matches := []*models.Match{
		played(1, 2, 1, 6, 2),
		{
			Phase:           models.MatchPhaseGroup,
			P1ParticipantID: intPtr(2),
			P2ParticipantID: intPtr(3),
			Status:          models.MatchStatusScheduled,
		},
	}

	rows := brackets.ComputeStandings(members, matches)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].ParticipantID)
	assert.Equal(t, 0, rows[1].Played+rows[2].Played-1) // only the completed match counted
}

func TestQualifiersSeedWinnersAboveRunnersUp(t *testing.T) {
	groupA := []models.GroupStanding{
		{ParticipantID: 11, Rank: 1},
		{ParticipantID: 12, Rank: 2},
		{ParticipantID: 13, Rank: 3},
	}
	groupB := []models.GroupStanding{
		{ParticipantID: 21, Rank: 1},
		{ParticipantID: 22, Rank: 2},
		{ParticipantID: 23, Rank: 3},
	}

	got := brackets.Qualifiers([][]models.GroupStanding{groupA, groupB}, 2)
	assert.Equal(t, []int{11, 21, 12, 22}, got)
}

func intPtr(v int) *int { return &v }
