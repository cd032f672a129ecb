package models

import "time"

// Group is a round-robin pool inside the group phase. campionato
// tournaments are modeled as a single group holding every entrant, so
// the league shares the standings machinery. Groups become read-only
// once the elimination phase has been generated.
type Group struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Label        string    `json:"label" db:"label"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Members   []Participant   `json:"members,omitempty" db:"-"`
	Standings []GroupStanding `json:"standings,omitempty" db:"-"`
}
