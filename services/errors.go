package services

import "errors"

// Sentinel errors shared between the service layer and the HTTP error
// mapping. Everything here is local to one tournament or operation;
// nothing is fatal to the process.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrRegistrationNotOpen   = errors.New("tournament registration is not open")
	ErrTournamentFull        = errors.New("tournament registration is full")
	ErrParticipantFrozen     = errors.New("participants cannot change once the structure is generated")
	ErrStructureExists       = errors.New("tournament structure has already been generated")
	ErrParticipantCountShort = errors.New("participant count does not match the declared capacity")

	// Progression
	ErrMatchAlreadyCompleted = errors.New("match result has already been recorded")
	ErrMatchNotReady         = errors.New("match is still waiting for its participants")
	ErrInvalidWinner         = errors.New("winner is not one of the match participants")
	ErrMatchNotCompleted     = errors.New("match has no recorded result to unwind")
	ErrPhaseClosed           = errors.New("phase is read-only after the elimination bracket was generated")

	// Conflicts
	ErrTournamentTitleConflict = errors.New("tournament title already exists")
	ErrRegistrationConflict    = errors.New("user is already registered for this tournament")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found variants
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("match not found")
)
