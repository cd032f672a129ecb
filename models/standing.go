package models

import "time"

// GroupStanding is the persisted standings projection for one entrant in
// one group. It is rewritten inside the same transaction as every group
// result, so readers always see a consistent table.
type GroupStanding struct {
	ID            int  `json:"id" db:"id"`
	TournamentID  int  `json:"tournament_id" db:"tournament_id"`
	GroupID       int  `json:"group_id" db:"group_id"`
	ParticipantID int  `json:"participant_id" db:"participant_id"`
	Rank          int  `json:"rank" db:"rank"`
	Points        int  `json:"points" db:"points"`
	Played        int  `json:"played" db:"played"`
	Wins          int  `json:"wins" db:"wins"`
	Losses        int  `json:"losses" db:"losses"`
	GamesWon      int  `json:"games_won" db:"games_won"`
	GamesLost     int  `json:"games_lost" db:"games_lost"`
	GamesDiff     int  `json:"games_diff" db:"games_diff"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Participant *Participant `json:"participant,omitempty" db:"-"`
}
