package brackets_test

import (
	"errors"
	"testing"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       models.TournamentConfig
		wantField string
		wantErr   error
		unknown   bool
	}{
		{
			name: "valid single elimination",
			cfg:  models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 8},
		},
		{
			name: "valid single elimination max size",
			cfg:  models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 128},
		},
		{
			name:      "single elimination non power of two",
			cfg:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 6},
			wantField: "max_participants",
		},
		{
			name:      "single elimination too large",
			cfg:       models.TournamentConfig{Type: models.TypeSingleElimination, MaxParticipants: 256},
			wantField: "max_participants",
		},
		{
			name: "valid groups elimination",
			cfg: models.TournamentConfig{
				Type: models.TypeGroupsElimination, MaxParticipants: 8,
				NumGroups: 2, TeamsPerGroup: 4, TeamsAdvancing: 2,
			},
		},
		{
			name: "groups capacity mismatch",
			cfg: models.TournamentConfig{
				Type: models.TypeGroupsElimination, MaxParticipants: 13,
				NumGroups: 3, TeamsPerGroup: 4, TeamsAdvancing: 2,
			},
			wantErr: brackets.ErrInconsistentCapacity,
		},
		{
			name: "groups single group rejected",
			cfg: models.TournamentConfig{
				Type: models.TypeGroupsElimination, MaxParticipants: 4,
				NumGroups: 1, TeamsPerGroup: 4, TeamsAdvancing: 2,
			},
			wantField: "num_groups",
		},
		{
			name: "groups too small",
			cfg: models.TournamentConfig{
				Type: models.TypeGroupsElimination, MaxParticipants: 4,
				NumGroups: 2, TeamsPerGroup: 2, TeamsAdvancing: 1,
			},
			wantField: "teams_per_group",
		},
		{
			name: "advancing everyone rejected",
			cfg: models.TournamentConfig{
				Type: models.TypeGroupsElimination, MaxParticipants: 8,
				NumGroups: 2, TeamsPerGroup: 4, TeamsAdvancing: 4,
			},
			wantField: "teams_advancing",
		},
		{
			name: "advancing zero rejected",
			cfg: models.TournamentConfig{
				Type: models.TypeGroupsElimination, MaxParticipants: 8,
				NumGroups: 2, TeamsPerGroup: 4, TeamsAdvancing: 0,
			},
			wantField: "teams_advancing",
		},
		{
			name: "valid campionato",
			cfg:  models.TournamentConfig{Type: models.TypeRoundRobin, MaxParticipants: 3},
		},
		{
			name:      "campionato too small",
			cfg:       models.TournamentConfig{Type: models.TypeRoundRobin, MaxParticipants: 2},
			wantField: "max_participants",
		},
		{
			name:    "unknown type",
			cfg:     models.TournamentConfig{Type: "doppio_misto", MaxParticipants: 8},
			unknown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := brackets.ValidateConfig(tt.cfg)

			switch {
			case tt.unknown:
				var unknownErr *brackets.UnknownTypeError
				require.ErrorAs(t, err, &unknownErr)
				assert.Equal(t, "doppio_misto", unknownErr.Type)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var fieldErr *brackets.FieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, tt.wantField, fieldErr.Field)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateConfigFirstFailureWins(t *testing.T) {
	// Both num_groups and the capacity identity are wrong; the field
	// check runs first.
	cfg := models.TournamentConfig{
		Type: models.TypeGroupsElimination, MaxParticipants: 10,
		NumGroups: 1, TeamsPerGroup: 4, TeamsAdvancing: 2,
	}

	var fieldErr *brackets.FieldError
	require.ErrorAs(t, brackets.ValidateConfig(cfg), &fieldErr)
	assert.Equal(t, "num_groups", fieldErr.Field)
	assert.False(t, errors.Is(brackets.ValidateConfig(cfg), brackets.ErrInconsistentCapacity))
}
