package models

import "time"

// Participant is an entrant of one tournament. Seed is optional; seeded
// entrants are placed by rank, the rest keep registration order.
// Rows are frozen once the tournament structure has been generated.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	UserID       *int      `json:"user_id,omitempty" db:"user_id"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Seed         *int      `json:"seed,omitempty" db:"seed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
