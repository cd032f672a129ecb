package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/gpozzoni/tennis-academy-api/repositories"
	"github.com/gpozzoni/tennis-academy-api/storage"
)

type CreateTournamentInput struct {
	Title       string                  `json:"title"`
	Description *string                 `json:"description,omitempty"`
	Config      models.TournamentConfig `json:"config"`
	StartDate   time.Time               `json:"start_date"`
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	Cancel(ctx context.Context, id int) (*models.Tournament, error)
	UploadPoster(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if input.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date is required", ErrValidationFailed)
	}
	if err := brackets.ValidateConfig(input.Config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	tournament := &models.Tournament{
		Title:       title,
		Description: input.Description,
		OrganizerID: organizerID,
		Config:      input.Config,
		Status:      models.StatusRegistration,
		StartDate:   input.StartDate,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentTitleConflict) {
			return nil, ErrTournamentTitleConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("type", string(tournament.Config.Type)),
		slog.Int("max_participants", tournament.Config.MaxParticipants))

	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	s.populatePosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range tournaments {
		s.populatePosterURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Cancel(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.StatusCompleted {
		return nil, fmt.Errorf("%w: a completed tournament cannot be canceled", ErrValidationFailed)
	}
	if tournament.Status == models.StatusCanceled {
		return tournament, nil
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, models.StatusCanceled); err != nil {
		return nil, fmt.Errorf("failed to cancel tournament %d: %w", id, err)
	}
	tournament.Status = models.StatusCanceled

	s.logger.Info("tournament canceled", slog.Int("tournament_id", id))
	return tournament, nil
}

func (s *tournamentService) UploadPoster(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext, err := posterExtension(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := tournament.PosterKey
	key := fmt.Sprintf("tournaments/%d/poster-%d%s", id, time.Now().UnixNano(), ext)

	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload poster for tournament %d: %w", id, err)
	}

	if err := s.tournamentRepo.UpdatePosterKey(ctx, id, &result.Key); err != nil {
		// The row update failed, so the freshly uploaded object is orphaned.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Warn("failed to clean up orphaned poster",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to store poster key for tournament %d: %w", id, err)
	}

	if oldKey != nil && *oldKey != "" && *oldKey != result.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous poster",
				slog.String("key", *oldKey), slog.Any("error", delErr))
		}
	}

	tournament.PosterKey = &result.Key
	s.populatePosterURL(tournament)
	return tournament, nil
}

func (s *tournamentService) populatePosterURL(t *models.Tournament) {
	if t == nil || t.PosterKey == nil || *t.PosterKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*t.PosterKey); url != "" {
		t.PosterURL = &url
	}
}
