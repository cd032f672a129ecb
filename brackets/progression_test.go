package brackets_test

import (
	"testing"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/stretchr/testify/assert"
)

func TestAllSettled(t *testing.T) {
	tests := []struct {
		name     string
		statuses []models.MatchStatus
		want     bool
	}{
		{"empty", nil, false},
		{"all completed", []models.MatchStatus{models.MatchStatusCompleted, models.MatchStatusCompleted}, true},
		{"completed and byes", []models.MatchStatus{models.MatchStatusCompleted, models.MatchStatusBye}, true},
		{"one scheduled", []models.MatchStatus{models.MatchStatusCompleted, models.MatchStatusScheduled}, false},
		{"one pending", []models.MatchStatus{models.MatchStatusBye, models.MatchStatusPending}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := make([]*models.Match, 0, len(tt.statuses))
			for i, status := range tt.statuses {
				matches = append(matches, &models.Match{ID: i + 1, Status: status})
			}
			assert.Equal(t, tt.want, brackets.AllSettled(matches))
		})
	}
}

func TestFinalMatch(t *testing.T) {
	next := 5
	matches := []*models.Match{
		{ID: 1, Phase: models.MatchPhaseElimination, Round: 1, NextMatchID: &next, Status: models.MatchStatusCompleted},
		{ID: 2, Phase: models.MatchPhaseElimination, Round: 1, NextMatchID: &next, Status: models.MatchStatusBye},
		{ID: 5, Phase: models.MatchPhaseElimination, Round: 2, Status: models.MatchStatusScheduled},
		{ID: 9, Phase: models.MatchPhaseGroup, Round: 3, Status: models.MatchStatusScheduled},
	}

	final := brackets.FinalMatch(matches)
	if assert.NotNil(t, final) {
		assert.Equal(t, 5, final.ID)
	}
}

func TestFinalMatchNoElimination(t *testing.T) {
	matches := []*models.Match{
		{ID: 1, Phase: models.MatchPhaseGroup, Round: 1, Status: models.MatchStatusCompleted},
	}
	assert.Nil(t, brackets.FinalMatch(matches))
}
