package brackets

import (
	"fmt"

	"github.com/gpozzoni/tennis-academy-api/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() StructureGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate builds a campionato: one league table holding every entrant,
// scheduled with the circle method so nobody plays twice in the same
// round. The league is modeled as a single group so it shares the
// standings machinery with the group phase.
func (g *RoundRobinGenerator) Generate(params GenerateParams) (*Structure, error) {
	participants := orderForSeeding(params.Participants)
	if len(participants) < 3 {
		return nil, fmt.Errorf("campionato requires at least 3 participants, got %d", len(participants))
	}

	ids := make([]int, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	label := groupLabel(0)
	return &Structure{
		Groups:  []GroupPlan{{Label: label, ParticipantIDs: ids}},
		Matches: groupSchedule(label, ids),
	}, nil
}

// roundRobinPairings returns the circle-method schedule for ids:
// len(ids)-1 rounds for an even field (one more when odd, where the
// entrant paired with the ghost sits out), k(k-1)/2 pairings in total.
func roundRobinPairings(ids []int) [][][2]int {
	players := make([]int, len(ids))
	copy(players, ids)
	if len(players)%2 != 0 {
		players = append(players, 0) // ghost opponent marks the sit-out
	}

	n := len(players)
	half := n / 2
	schedule := make([][][2]int, 0, n-1)

	for r := 0; r < n-1; r++ {
		pairs := make([][2]int, 0, half)
		for i := 0; i < half; i++ {
			a, b := players[i], players[n-1-i]
			if a != 0 && b != 0 {
				pairs = append(pairs, [2]int{a, b})
			}
		}
		schedule = append(schedule, pairs)

		// Rotate every position but the first.
		rotated := make([]int, n)
		rotated[0] = players[0]
		rotated[1] = players[n-1]
		copy(rotated[2:], players[1:n-1])
		players = rotated
	}

	return schedule
}

// groupSchedule expands the circle-method pairings of one group into
// addressed fixtures.
func groupSchedule(label string, memberIDs []int) []*Match {
	rounds := roundRobinPairings(memberIDs)
	matches := make([]*Match, 0, len(memberIDs)*(len(memberIDs)-1)/2)

	for r, pairs := range rounds {
		for i, pair := range pairs {
			p1, p2 := pair[0], pair[1]
			matches = append(matches, &Match{
				UID:            fmt.Sprintf("G%s-R%dM%d", label, r+1, i+1),
				Phase:          models.MatchPhaseGroup,
				Round:          r + 1,
				Slot:           i + 1,
				GroupLabel:     label,
				Participant1ID: &p1,
				Participant2ID: &p2,
				Status:         models.MatchStatusScheduled,
			})
		}
	}

	return matches
}
