package brackets

import (
	"fmt"
	"sort"

	"github.com/gpozzoni/tennis-academy-api/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() StructureGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// seedingOrder returns the seed rank occupying each first-round slot of
// a bracket, arranged so that the top two seeds can only meet in the
// final and every pair of adjacent slots forms a first-round fixture.
// For size 8: 1 8 4 5 2 7 3 6.
func seedingOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		doubled := make([]int, 0, len(order)*2)
		for _, s := range order {
			doubled = append(doubled, s, len(order)*2+1-s)
		}
		order = doubled
	}
	return order
}

type bracketNode struct {
	participantID  *int
	sourceMatchUID *string
	isBye          bool
}

// Generate builds a full knockout draw. The bracket is padded to the
// next power of two; unfilled slots become byes which resolve at
// generation time, advancing their seed into the next round. Fixtures
// whose slots reference winners of earlier matches start as pending
// placeholders.
func (g *SingleEliminationGenerator) Generate(params GenerateParams) (*Structure, error) {
	participants := orderForSeeding(params.Participants)
	n := len(participants)
	if n < 2 {
		return nil, fmt.Errorf("single elimination requires at least 2 participants, got %d", n)
	}

	numRounds := 0
	for (1 << numRounds) < n {
		numRounds++
	}
	size := 1 << numRounds

	order := seedingOrder(size)
	current := make([]*bracketNode, size)
	for slot, rank := range order {
		if rank <= n {
			pid := participants[rank-1].ID
			current[slot] = &bracketNode{participantID: &pid}
		} else {
			current[slot] = &bracketNode{isBye: true}
		}
	}

	matches := make([]*Match, 0, size-1)

	for r := 1; r <= numRounds; r++ {
		next := make([]*bracketNode, 0, len(current)/2)

		for i := 0; i < len(current); i += 2 {
			n1, n2 := current[i], current[i+1]
			uid := fmt.Sprintf("R%dM%d", r, i/2+1)

			m := &Match{
				UID:   uid,
				Phase: models.MatchPhaseElimination,
				Round: r,
				Slot:  i/2 + 1,
			}

			switch {
			case n1.isBye && n2.isBye:
				// Seeding never leaves two empty slots adjacent as long
				// as the field is more than half the bracket size.
				return nil, fmt.Errorf("two byes paired in round %d match %d", r, i/2+1)

			case n2.isBye:
				m.IsBye = true
				m.ByeParticipantID = n1.participantID
				m.Participant1ID = n1.participantID
				m.Status = models.MatchStatusBye
				next = append(next, &bracketNode{participantID: n1.participantID})

			case n1.isBye:
				m.IsBye = true
				m.ByeParticipantID = n2.participantID
				m.Participant1ID = n2.participantID
				m.Status = models.MatchStatusBye
				next = append(next, &bracketNode{participantID: n2.participantID})

			default:
				if n1.participantID != nil {
					m.Participant1ID = n1.participantID
				} else {
					m.SourceMatch1UID = n1.sourceMatchUID
				}
				if n2.participantID != nil {
					m.Participant2ID = n2.participantID
				} else {
					m.SourceMatch2UID = n2.sourceMatchUID
				}
				if m.Participant1ID != nil && m.Participant2ID != nil {
					m.Status = models.MatchStatusScheduled
				} else {
					m.Status = models.MatchStatusPending
				}
				winnerOf := uid
				next = append(next, &bracketNode{sourceMatchUID: &winnerOf})
			}

			matches = append(matches, m)
		}

		current = next
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Slot < matches[j].Slot
	})

	return &Structure{Matches: matches}, nil
}
