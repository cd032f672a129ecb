package brackets

import (
	"sort"

	"github.com/gpozzoni/tennis-academy-api/models"
)

// ComputeStandings ranks the members of one group from its fixtures.
// Only completed matches count. A win is worth 2 points; ties are broken
// by the head-to-head result when exactly two entrants share the points,
// then games difference, games won, and finally participant ID so the
// order is total and deterministic.
func ComputeStandings(memberIDs []int, matches []*models.Match) []models.GroupStanding {
	byID := make(map[int]*models.GroupStanding, len(memberIDs))
	rows := make([]*models.GroupStanding, 0, len(memberIDs))
	for _, id := range memberIDs {
		row := &models.GroupStanding{ParticipantID: id}
		byID[id] = row
		rows = append(rows, row)
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerParticipantID == nil {
			continue
		}
		if m.P1ParticipantID == nil || m.P2ParticipantID == nil {
			continue
		}
		p1, p2 := byID[*m.P1ParticipantID], byID[*m.P2ParticipantID]
		if p1 == nil || p2 == nil {
			continue
		}

		p1.Played++
		p2.Played++
		p1.GamesWon += m.P1Games
		p1.GamesLost += m.P2Games
		p2.GamesWon += m.P2Games
		p2.GamesLost += m.P1Games

		if *m.WinnerParticipantID == *m.P1ParticipantID {
			p1.Wins++
			p2.Losses++
		} else {
			p2.Wins++
			p1.Losses++
		}
	}

	for _, row := range rows {
		row.Points = row.Wins * 2
		row.GamesDiff = row.GamesWon - row.GamesLost
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GamesDiff != b.GamesDiff {
			return a.GamesDiff > b.GamesDiff
		}
		if a.GamesWon != b.GamesWon {
			return a.GamesWon > b.GamesWon
		}
		return a.ParticipantID < b.ParticipantID
	})

	// Head-to-head applies only between exactly two entrants level on
	// points; larger ties stay on the games criteria above.
	for i := 0; i+1 < len(rows); i++ {
		if rows[i].Points != rows[i+1].Points {
			continue
		}
		tiedThree := (i > 0 && rows[i-1].Points == rows[i].Points) ||
			(i+2 < len(rows) && rows[i+2].Points == rows[i].Points)
		if tiedThree {
			continue
		}
		if w, ok := headToHeadWinner(rows[i].ParticipantID, rows[i+1].ParticipantID, matches); ok && w == rows[i+1].ParticipantID {
			rows[i], rows[i+1] = rows[i+1], rows[i]
		}
	}

	out := make([]models.GroupStanding, len(rows))
	for i, row := range rows {
		row.Rank = i + 1
		out[i] = *row
	}
	return out
}

func headToHeadWinner(a, b int, matches []*models.Match) (int, bool) {
	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerParticipantID == nil {
			continue
		}
		if m.HasParticipant(a) && m.HasParticipant(b) {
			return *m.WinnerParticipantID, true
		}
	}
	return 0, false
}

// Qualifiers returns the participant IDs advancing from the group phase
// in elimination seeding order: every group winner first (in group
// order), then every runner-up, and so on down to the advancing cutoff.
func Qualifiers(groupStandings [][]models.GroupStanding, advancing int) []int {
	out := make([]int, 0, len(groupStandings)*advancing)
	for rank := 0; rank < advancing; rank++ {
		for _, standings := range groupStandings {
			if rank < len(standings) {
				out = append(out, standings[rank].ParticipantID)
			}
		}
	}
	return out
}
