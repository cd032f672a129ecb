package brackets_test

import (
	"fmt"
	"testing"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededField returns n participants with IDs 1..n seeded in ID order.
func seededField(n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := 0; i < n; i++ {
		seed := i + 1
		out[i] = &models.Participant{
			ID:          i + 1,
			DisplayName: fmt.Sprintf("Player %d", i+1),
			Seed:        &seed,
		}
	}
	return out
}

func TestSingleEliminationFullDraw(t *testing.T) {
	gen := brackets.NewSingleEliminationGenerator()

	structure, err := gen.Generate(brackets.GenerateParams{
		Config:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 8},
		Participants: seededField(8),
	})
	require.NoError(t, err)

	// N-1 matches, log2(N) rounds: 4 + 2 + 1.
	require.Len(t, structure.Matches, 7)
	perRound := map[int]int{}
	for _, m := range structure.Matches {
		perRound[m.Round]++
		assert.Equal(t, models.MatchPhaseElimination, m.Phase)
	}
	assert.Equal(t, map[int]int{1: 4, 2: 2, 3: 1}, perRound)

	byUID := make(map[string]*brackets.Match)
	for _, m := range structure.Matches {
		byUID[m.UID] = m
	}

	// Snake seeding: 1v8, 4v5, 2v7, 3v6 with the 1-2 meeting deferred to
	// the final.
	wantPairs := map[string][2]int{
		"R1M1": {1, 8},
		"R1M2": {4, 5},
		"R1M3": {2, 7},
		"R1M4": {3, 6},
	}
	for uid, want := range wantPairs {
		m := byUID[uid]
		require.NotNil(t, m, uid)
		require.NotNil(t, m.Participant1ID)
		require.NotNil(t, m.Participant2ID)
		assert.Equal(t, want[0], *m.Participant1ID, uid)
		assert.Equal(t, want[1], *m.Participant2ID, uid)
		assert.Equal(t, models.MatchStatusScheduled, m.Status, uid)
	}

	// Later rounds are pure placeholders referencing their sources.
	semifinal := byUID["R2M1"]
	require.NotNil(t, semifinal)
	assert.Equal(t, models.MatchStatusPending, semifinal.Status)
	require.NotNil(t, semifinal.SourceMatch1UID)
	require.NotNil(t, semifinal.SourceMatch2UID)
	assert.Equal(t, "R1M1", *semifinal.SourceMatch1UID)
	assert.Equal(t, "R1M2", *semifinal.SourceMatch2UID)

	final := byUID["R3M1"]
	require.NotNil(t, final)
	require.NotNil(t, final.SourceMatch1UID)
	require.NotNil(t, final.SourceMatch2UID)
	assert.Equal(t, "R2M1", *final.SourceMatch1UID)
	assert.Equal(t, "R2M2", *final.SourceMatch2UID)
}

func TestSingleEliminationByesForQualifiers(t *testing.T) {
	// Six qualifiers pad to a bracket of eight; the two byes must go to
	// the top two seeds and auto-advance them.
	gen := brackets.NewSingleEliminationGenerator()

	structure, err := gen.Generate(brackets.GenerateParams{
		Config:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 8},
		Participants: seededField(6),
	})
	require.NoError(t, err)
	require.Len(t, structure.Matches, 7)

	byes := make(map[int]bool)
	for _, m := range structure.Matches {
		if m.IsBye {
			require.NotNil(t, m.ByeParticipantID)
			assert.Equal(t, models.MatchStatusBye, m.Status)
			byes[*m.ByeParticipantID] = true
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, byes)

	// The bye winners sit as concrete participants in the second round.
	for _, m := range structure.Matches {
		if m.Round != 2 {
			continue
		}
		switch m.UID {
		case "R2M1":
			require.NotNil(t, m.Participant1ID)
			assert.Equal(t, 1, *m.Participant1ID)
			require.NotNil(t, m.SourceMatch2UID)
		case "R2M2":
			require.NotNil(t, m.Participant1ID)
			assert.Equal(t, 2, *m.Participant1ID)
			require.NotNil(t, m.SourceMatch2UID)
		}
	}
}

func TestSingleEliminationUnseededKeepRegistrationOrder(t *testing.T) {
	gen := brackets.NewSingleEliminationGenerator()

	// Two seeded entrants and two unseeded; the unseeded pair keeps
	// registration order behind the seeds.
	one, two := 1, 2
	participants := []*models.Participant{
		{ID: 10, DisplayName: "Unseeded A"},
		{ID: 11, DisplayName: "Unseeded B"},
		{ID: 12, DisplayName: "Seed two", Seed: &two},
		{ID: 13, DisplayName: "Seed one", Seed: &one},
	}

	structure, err := gen.Generate(brackets.GenerateParams{
		Config:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 4},
		Participants: participants,
	})
	require.NoError(t, err)
	require.Len(t, structure.Matches, 3)

	// Placement order is 13, 12, 10, 11; slots for size 4 are 1,4,2,3.
	first := structure.Matches[0]
	require.NotNil(t, first.Participant1ID)
	require.NotNil(t, first.Participant2ID)
	assert.Equal(t, 13, *first.Participant1ID)
	assert.Equal(t, 11, *first.Participant2ID)

	second := structure.Matches[1]
	require.NotNil(t, second.Participant1ID)
	require.NotNil(t, second.Participant2ID)
	assert.Equal(t, 12, *second.Participant1ID)
	assert.Equal(t, 10, *second.Participant2ID)
}

func TestSingleEliminationDeterministic(t *testing.T) {
	gen := brackets.NewSingleEliminationGenerator()
	params := brackets.GenerateParams{
		Config:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 16},
		Participants: seededField(16),
	}

	first, err := gen.Generate(params)
	require.NoError(t, err)
	second, err := gen.Generate(params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSingleEliminationTooFewParticipants(t *testing.T) {
	gen := brackets.NewSingleEliminationGenerator()
	_, err := gen.Generate(brackets.GenerateParams{
		Config:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 2},
		Participants: seededField(1),
	})
	assert.Error(t, err)
}
