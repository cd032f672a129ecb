package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/gpozzoni/tennis-academy-api/repositories"
)

type RegisterParticipantInput struct {
	DisplayName string `json:"display_name"`
	Seed        *int   `json:"seed,omitempty"`
	UserID      *int   `json:"user_id,omitempty"`
}

type ParticipantService interface {
	Register(ctx context.Context, tournamentID int, input RegisterParticipantInput) (*models.Participant, error)
	Withdraw(ctx context.Context, tournamentID, participantID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
}

type participantService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
}

func NewParticipantService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		logger:          logger,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID int, input RegisterParticipantInput) (*models.Participant, error) {
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, fmt.Errorf("%w: display_name is required", ErrValidationFailed)
	}

	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}
	if input.Seed != nil && (*input.Seed < 1 || *input.Seed > tournament.Config.MaxParticipants) {
		return nil, fmt.Errorf("%w: seed must be between 1 and %d", ErrValidationFailed, tournament.Config.MaxParticipants)
	}

	count, err := s.participantRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants for tournament %d: %w", tournamentID, err)
	}
	if count >= tournament.Config.MaxParticipants {
		return nil, ErrTournamentFull
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		UserID:       input.UserID,
		DisplayName:  displayName,
		Seed:         input.Seed,
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, repositories.ErrParticipantAlreadyRegistered) {
			return nil, ErrRegistrationConflict
		}
		if errors.Is(err, repositories.ErrParticipantTournamentInvalid) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to register participant: %w", err)
	}

	s.logger.Info("participant registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participant_id", participant.ID),
		slog.Int("entrants", count+1))

	return participant, nil
}

func (s *participantService) Withdraw(ctx context.Context, tournamentID, participantID int) error {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	// Entrants are frozen the moment the structure exists.
	if tournament.Status != models.StatusRegistration {
		return ErrParticipantFrozen
	}

	participant, err := s.participantRepo.GetByID(ctx, nil, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to get participant %d: %w", participantID, err)
	}
	if participant.TournamentID != tournamentID {
		return ErrParticipantNotFound
	}

	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("failed to withdraw participant %d: %w", participantID, err)
	}

	s.logger.Info("participant withdrawn",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participant_id", participantID))
	return nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.getTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	return participants, nil
}

func (s *participantService) getTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	return tournament, nil
}
