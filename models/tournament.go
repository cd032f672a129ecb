package models

import "time"

// TournamentType mirrors the ENUM values used by the academy site.
type TournamentType string

const (
	TypeSingleElimination TournamentType = "eliminazione_diretta"
	TypeGroupsElimination TournamentType = "girone_eliminazione"
	TypeRoundRobin        TournamentType = "campionato"
)

type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Phase is a named stage of a tournament. girone_eliminazione tournaments
// move from PhaseGroup to PhaseElimination exactly once; the other two
// types live in a single phase for their whole life.
type Phase string

const (
	PhaseGroup       Phase = "group_phase"
	PhaseElimination Phase = "elimination_phase"
)

// TournamentConfig is the declared shape of a competition. Only the
// fields relevant to Type are meaningful; brackets.ValidateConfig rejects
// every other combination before a tournament row is written, and the
// config is immutable once participants exist.
type TournamentConfig struct {
	Type            TournamentType `json:"tournament_type" db:"tournament_type"`
	MaxParticipants int            `json:"max_participants" db:"max_participants"`
	NumGroups       int            `json:"num_groups,omitempty" db:"num_groups"`
	TeamsPerGroup   int            `json:"teams_per_group,omitempty" db:"teams_per_group"`
	TeamsAdvancing  int            `json:"teams_advancing,omitempty" db:"teams_advancing"`
}

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Title       string           `json:"title" db:"title"`
	Description *string          `json:"description,omitempty" db:"description"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Config      TournamentConfig `json:"config"`
	Status      TournamentStatus `json:"status" db:"status"`

	// CurrentPhase is nil until the structure is generated. It is the
	// single pointer the progression engine advances with a
	// compare-and-swap UPDATE, never by ambient assignment.
	CurrentPhase *Phase `json:"current_phase,omitempty" db:"current_phase"`

	WinnerParticipantID *int      `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	StartDate           time.Time `json:"start_date" db:"start_date"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	PosterKey           *string   `json:"-" db:"poster_key"`
	PosterURL           *string   `json:"poster_url,omitempty" db:"-"`

	// Loaded on demand by the snapshot projection, never mapped directly.
	Participants []Participant   `json:"participants,omitempty" db:"-"`
	Groups       []Group         `json:"groups,omitempty" db:"-"`
	Matches      []Match         `json:"matches,omitempty" db:"-"`
	Standings    []GroupStanding `json:"standings,omitempty" db:"-"`
}
