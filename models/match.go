package models

import "time"

type MatchStatus string

const (
	// MatchStatusPending marks a placeholder fixture still waiting for
	// one or both source matches to produce a winner.
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
	// MatchStatusBye is terminal: the fixture resolved at generation time
	// and its winner advanced without anyone playing.
	MatchStatusBye MatchStatus = "bye"
)

type MatchPhase string

const (
	MatchPhaseGroup       MatchPhase = "group"
	MatchPhaseElimination MatchPhase = "elimination"
)

// Match is a single fixture. Every match has a deterministic
// (phase, round, slot) address and a BracketUID assigned by the
// generator; elimination matches are chained through NextMatchID and
// WinnerToSlot so the progression engine can advance winners without
// re-deriving the bracket shape.
type Match struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	GroupID      *int       `json:"group_id,omitempty" db:"group_id"`
	Phase        MatchPhase `json:"phase" db:"phase"`
	Round        int        `json:"round" db:"round"`
	Slot         int        `json:"slot" db:"slot"`
	BracketUID   string     `json:"bracket_uid" db:"bracket_uid"`

	P1ParticipantID *int `json:"p1_participant_id,omitempty" db:"p1_participant_id"`
	P2ParticipantID *int `json:"p2_participant_id,omitempty" db:"p2_participant_id"`

	// Weak links to the matches whose winners fill the corresponding
	// slot; nil for concrete slots and for group fixtures.
	SourceMatch1UID *string `json:"source_match1_uid,omitempty" db:"source_match1_uid"`
	SourceMatch2UID *string `json:"source_match2_uid,omitempty" db:"source_match2_uid"`

	NextMatchID  *int `json:"next_match_id,omitempty" db:"next_match_id"`
	WinnerToSlot *int `json:"winner_to_slot,omitempty" db:"winner_to_slot"`

	Status              MatchStatus `json:"status" db:"status"`
	WinnerParticipantID *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`

	// Score is opaque to the engine ("6-3 4-6 7-5"); the games counters
	// exist only to feed the group standings tiebreaks.
	Score   *string `json:"score,omitempty" db:"score"`
	P1Games int     `json:"p1_games" db:"p1_games"`
	P2Games int     `json:"p2_games" db:"p2_games"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasParticipant reports whether id occupies one of the two slots.
func (m *Match) HasParticipant(id int) bool {
	if m.P1ParticipantID != nil && *m.P1ParticipantID == id {
		return true
	}
	return m.P2ParticipantID != nil && *m.P2ParticipantID == id
}

// ReadyForResult reports whether both slots hold concrete participants.
func (m *Match) ReadyForResult() bool {
	return m.P1ParticipantID != nil && m.P2ParticipantID != nil
}
