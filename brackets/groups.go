package brackets

import (
	"fmt"
)

type GroupsEliminationGenerator struct{}

func NewGroupsEliminationGenerator() StructureGenerator {
	return &GroupsEliminationGenerator{}
}

func (g *GroupsEliminationGenerator) Name() string {
	return "GroupsElimination"
}

// Generate builds the group phase of a girone_eliminazione tournament:
// participants are dealt across the groups in seeding order (group A
// gets entrants 1, g+1, 2g+1, ...) so seed strength stays balanced, and
// every group receives a full circle-method schedule. Elimination
// fixtures are deliberately absent; they are generated from the final
// standings once the last group match completes.
func (g *GroupsEliminationGenerator) Generate(params GenerateParams) (*Structure, error) {
	cfg := params.Config
	participants := orderForSeeding(params.Participants)

	if len(participants) != cfg.NumGroups*cfg.TeamsPerGroup {
		return nil, fmt.Errorf("expected %d participants for %d groups of %d, got %d",
			cfg.NumGroups*cfg.TeamsPerGroup, cfg.NumGroups, cfg.TeamsPerGroup, len(participants))
	}

	groups := make([]GroupPlan, cfg.NumGroups)
	for i := range groups {
		groups[i] = GroupPlan{
			Label:          groupLabel(i),
			ParticipantIDs: make([]int, 0, cfg.TeamsPerGroup),
		}
	}
	for i, p := range participants {
		gi := i % cfg.NumGroups
		groups[gi].ParticipantIDs = append(groups[gi].ParticipantIDs, p.ID)
	}

	matches := make([]*Match, 0, cfg.NumGroups*cfg.TeamsPerGroup*(cfg.TeamsPerGroup-1)/2)
	for _, gp := range groups {
		matches = append(matches, groupSchedule(gp.Label, gp.ParticipantIDs)...)
	}

	return &Structure{Groups: groups, Matches: matches}, nil
}
