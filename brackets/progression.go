package brackets

import "github.com/gpozzoni/tennis-academy-api/models"

// AllSettled reports whether every fixture has reached a terminal state,
// which is the prerequisite for a phase transition.
func AllSettled(matches []*models.Match) bool {
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusBye {
			return false
		}
	}
	return len(matches) > 0
}

// FinalMatch returns the designated final of an elimination phase: the
// fixture no other fixture consumes. Nil when the phase has no
// elimination matches.
func FinalMatch(matches []*models.Match) *models.Match {
	var final *models.Match
	for _, m := range matches {
		if m.Phase != models.MatchPhaseElimination {
			continue
		}
		if m.NextMatchID == nil && m.Status != models.MatchStatusBye {
			if final == nil || m.Round > final.Round {
				final = m
			}
		}
	}
	return final
}
