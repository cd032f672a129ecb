package brackets_test

import (
	"testing"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinSchedule(t *testing.T) {
	tests := []struct {
		name        string
		entrants    int
		wantMatches int
		wantRounds  int
	}{
		{name: "even field", entrants: 4, wantMatches: 6, wantRounds: 3},
		{name: "odd field", entrants: 5, wantMatches: 10, wantRounds: 5},
		{name: "league of eight", entrants: 8, wantMatches: 28, wantRounds: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := brackets.NewRoundRobinGenerator()
			structure, err := gen.Generate(brackets.GenerateParams{
				Config:       models.TournamentConfig{Type: models.TypeRoundRobin, MaxParticipants: tt.entrants},
				Participants: seededField(tt.entrants),
			})
			require.NoError(t, err)

			// k(k-1)/2 matches overall, each entrant in exactly k-1.
			require.Len(t, structure.Matches, tt.wantMatches)

			appearances := map[int]int{}
			rounds := map[int]map[int]bool{}
			maxRound := 0
			for _, m := range structure.Matches {
				require.NotNil(t, m.Participant1ID)
				require.NotNil(t, m.Participant2ID)
				assert.Equal(t, models.MatchPhaseGroup, m.Phase)
				assert.Equal(t, models.MatchStatusScheduled, m.Status)

				appearances[*m.Participant1ID]++
				appearances[*m.Participant2ID]++

				if rounds[m.Round] == nil {
					rounds[m.Round] = map[int]bool{}
				}
				// Circle method: nobody plays twice in the same round.
				assert.False(t, rounds[m.Round][*m.Participant1ID], "participant %d twice in round %d", *m.Participant1ID, m.Round)
				assert.False(t, rounds[m.Round][*m.Participant2ID], "participant %d twice in round %d", *m.Participant2ID, m.Round)
				rounds[m.Round][*m.Participant1ID] = true
				rounds[m.Round][*m.Participant2ID] = true

				if m.Round > maxRound {
					maxRound = m.Round
				}
			}
			assert.Equal(t, tt.wantRounds, maxRound)
			for id, count := range appearances {
				assert.Equal(t, tt.entrants-1, count, "participant %d", id)
			}

			// The league is a single pseudo-group holding everyone.
			require.Len(t, structure.Groups, 1)
			assert.Equal(t, "A", structure.Groups[0].Label)
			assert.Len(t, structure.Groups[0].ParticipantIDs, tt.entrants)
		})
	}
}

func TestRoundRobinDeterministic(t *testing.T) {
	gen := brackets.NewRoundRobinGenerator()
	params := brackets.GenerateParams{
		Config:       models.TournamentConfig{Type: models.TypeRoundRobin, MaxParticipants: 7},
		Participants: seededField(7),
	}

	first, err := gen.Generate(params)
	require.NoError(t, err)
	second, err := gen.Generate(params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
