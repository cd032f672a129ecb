package brackets

import (
	"fmt"
	"sort"

	"github.com/gpozzoni/tennis-academy-api/models"
)

// Match is the in-memory form of a fixture produced by a generator,
// before it is persisted and gets a database ID. Elimination matches are
// chained through SourceMatch1UID/SourceMatch2UID; the persistence layer
// resolves those into next_match_id/winner_to_slot links in a second
// pass.
type Match struct {
	UID        string
	Phase      models.MatchPhase
	Round      int
	Slot       int
	GroupLabel string

	Participant1ID *int
	Participant2ID *int

	SourceMatch1UID *string
	SourceMatch2UID *string

	Status models.MatchStatus

	IsBye            bool
	ByeParticipantID *int
}

// GroupPlan is a generated group: a label plus its members in seeding
// order.
type GroupPlan struct {
	Label          string
	ParticipantIDs []int
}

// Structure is the complete output of a generator for one phase. It is
// built entirely in memory so the caller can persist it atomically.
type Structure struct {
	Groups  []GroupPlan
	Matches []*Match
}

type GenerateParams struct {
	Config       models.TournamentConfig
	Participants []*models.Participant
}

// StructureGenerator turns a validated configuration plus a frozen
// participant list into the initial structure for its tournament type.
// Generation is deterministic: the same config and participant order
// always produce an identical structure.
type StructureGenerator interface {
	Generate(params GenerateParams) (*Structure, error)
	Name() string
}

// ForType returns the generator for a tournament type. The type must
// already have passed ValidateConfig.
func ForType(t models.TournamentType) (StructureGenerator, error) {
	switch t {
	case models.TypeSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.TypeGroupsElimination:
		return NewGroupsEliminationGenerator(), nil
	case models.TypeRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, &UnknownTypeError{Type: string(t)}
	}
}

// orderForSeeding returns the participants in placement order: seeded
// entrants first by ascending seed, unseeded ones after in registration
// order. No randomness, so regeneration is reproducible.
func orderForSeeding(participants []*models.Participant) []*models.Participant {
	ordered := make([]*models.Participant, len(participants))
	copy(ordered, participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := ordered[i].Seed, ordered[j].Seed
		switch {
		case si != nil && sj != nil:
			return *si < *sj
		case si != nil:
			return true
		default:
			return false
		}
	})
	return ordered
}

func groupLabel(index int) string {
	if index < 26 {
		return string(rune('A' + index))
	}
	return fmt.Sprintf("A%d", index+1)
}
