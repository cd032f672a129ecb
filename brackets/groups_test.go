package brackets_test

import (
	"testing"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsEliminationGroupPhase(t *testing.T) {
	gen := brackets.NewGroupsEliminationGenerator()
	cfg := models.TournamentConfig{
		Type: models.TypeGroupsElimination, MaxParticipants: 8,
		NumGroups: 2, TeamsPerGroup: 4, TeamsAdvancing: 2,
	}

	structure, err := gen.Generate(brackets.GenerateParams{
		Config:       cfg,
		Participants: seededField(8),
	})
	require.NoError(t, err)

	// 2 groups × C(4,2) fixtures, no elimination matches yet.
	require.Len(t, structure.Matches, 12)
	for _, m := range structure.Matches {
		assert.Equal(t, models.MatchPhaseGroup, m.Phase)
	}

	// Seeds are dealt across the groups round-robin so strength stays
	// balanced: A gets 1,3,5,7 and B gets 2,4,6,8.
	require.Len(t, structure.Groups, 2)
	assert.Equal(t, "A", structure.Groups[0].Label)
	assert.Equal(t, "B", structure.Groups[1].Label)
	assert.Equal(t, []int{1, 3, 5, 7}, structure.Groups[0].ParticipantIDs)
	assert.Equal(t, []int{2, 4, 6, 8}, structure.Groups[1].ParticipantIDs)

	perGroup := map[string]int{}
	for _, m := range structure.Matches {
		perGroup[m.GroupLabel]++
	}
	assert.Equal(t, map[string]int{"A": 6, "B": 6}, perGroup)
}

func TestGroupsEliminationRejectsWrongFieldSize(t *testing.T) {
	gen := brackets.NewGroupsEliminationGenerator()
	cfg := models.TournamentConfig{
		Type: models.TypeGroupsElimination, MaxParticipants: 8,
		NumGroups: 2, TeamsPerGroup: 4, TeamsAdvancing: 2,
	}

	_, err := gen.Generate(brackets.GenerateParams{
		Config:       cfg,
		Participants: seededField(6),
	})
	assert.Error(t, err)
}

func TestForType(t *testing.T) {
	for _, typ := range []models.TournamentType{
		models.TypeSingleElimination,
		models.TypeGroupsElimination,
		models.TypeRoundRobin,
	} {
		gen, err := brackets.ForType(typ)
		require.NoError(t, err)
		require.NotNil(t, gen)
	}

	_, err := brackets.ForType("padel")
	var unknownErr *brackets.UnknownTypeError
	require.ErrorAs(t, err, &unknownErr)
}
