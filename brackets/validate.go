package brackets

import (
	"errors"
	"fmt"

	"github.com/gpozzoni/tennis-academy-api/models"
)

// ErrInconsistentCapacity is returned when num_groups × teams_per_group
// does not reconcile with max_participants.
var ErrInconsistentCapacity = errors.New("num_groups multiplied by teams_per_group must equal max_participants")

// UnknownTypeError reports a tournament type outside the three the
// academy runs.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown tournament type %q", e.Type)
}

// FieldError reports the first configuration field that violates its
// bounds for the chosen tournament type.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// eliminationSizes are the bracket sizes the academy allows for a pure
// knockout draw.
var eliminationSizes = map[int]bool{2: true, 4: true, 8: true, 16: true, 32: true, 64: true, 128: true}

// ValidateConfig checks a proposed tournament configuration for internal
// consistency. Pure: it touches no persisted state. Rules run in order
// and the first failure wins.
func ValidateConfig(cfg models.TournamentConfig) error {
	switch cfg.Type {
	case models.TypeSingleElimination:
		if !eliminationSizes[cfg.MaxParticipants] {
			return &FieldError{Field: "max_participants", Reason: "must be a power of two between 2 and 128"}
		}
	case models.TypeGroupsElimination:
		if cfg.MaxParticipants <= 0 {
			return &FieldError{Field: "max_participants", Reason: "must be positive"}
		}
		if cfg.NumGroups < 2 {
			return &FieldError{Field: "num_groups", Reason: "must be at least 2"}
		}
		if cfg.TeamsPerGroup < 3 {
			return &FieldError{Field: "teams_per_group", Reason: "must be at least 3"}
		}
		if cfg.TeamsAdvancing < 1 || cfg.TeamsAdvancing >= cfg.TeamsPerGroup {
			return &FieldError{Field: "teams_advancing", Reason: "must be between 1 and teams_per_group-1"}
		}
		if cfg.NumGroups*cfg.TeamsPerGroup != cfg.MaxParticipants {
			return ErrInconsistentCapacity
		}
	case models.TypeRoundRobin:
		if cfg.MaxParticipants < 3 {
			return &FieldError{Field: "max_participants", Reason: "must be at least 3"}
		}
	default:
		return &UnknownTypeError{Type: string(cfg.Type)}
	}
	return nil
}
