package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gpozzoni/tennis-academy-api/brackets"
	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/gpozzoni/tennis-academy-api/repositories"
	"github.com/gpozzoni/tennis-academy-api/storage"
	"golang.org/x/sync/errgroup"
)

type BracketService interface {
	// GenerateStructure freezes the entrant list and materializes the
	// initial structure for the tournament's type. It is idempotent at
	// the database level: a concurrent duplicate request loses the phase
	// compare-and-swap and reports ErrStructureExists.
	GenerateStructure(ctx context.Context, tournamentID int) (*models.Tournament, error)

	// GetSnapshot loads the full tournament projection: entrants, groups
	// with members and standings, and every match.
	GetSnapshot(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type bracketService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	groupRepo       repositories.GroupRepository
	standingRepo    repositories.GroupStandingRepository
	userRepo        repositories.UserRepository
	uploader        storage.FileUploader
	email           *EmailService
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.GroupStandingRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	email *EmailService,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		groupRepo:       groupRepo,
		standingRepo:    standingRepo,
		userRepo:        userRepo,
		uploader:        uploader,
		email:           email,
		hub:             hub,
		logger:          logger,
	}
}

// initialPhase is where a freshly generated tournament starts.
// girone_eliminazione and campionato open in the group phase; a pure
// knockout has only the elimination phase.
func initialPhase(t models.TournamentType) models.Phase {
	if t == models.TypeSingleElimination {
		return models.PhaseElimination
	}
	return models.PhaseGroup
}

func (s *bracketService) GenerateStructure(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var title string

	err := withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := repositories.AcquireTournamentLock(ctx, tx, tournamentID); err != nil {
			return err
		}

		tournament, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
		}
		title = tournament.Title

		if tournament.CurrentPhase != nil {
			return ErrStructureExists
		}
		if tournament.Status != models.StatusRegistration {
			return ErrRegistrationNotOpen
		}

		participants, err := s.participantRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
		}
		if len(participants) != tournament.Config.MaxParticipants {
			return fmt.Errorf("%w: have %d of %d entrants",
				ErrParticipantCountShort, len(participants), tournament.Config.MaxParticipants)
		}

		generator, err := brackets.ForType(tournament.Config.Type)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}

		structure, err := generator.Generate(brackets.GenerateParams{
			Config:       tournament.Config,
			Participants: participants,
		})
		if err != nil {
			return fmt.Errorf("failed to generate structure for tournament %d: %w", tournamentID, err)
		}

		persister := &structurePersister{
			matchRepo:    s.matchRepo,
			groupRepo:    s.groupRepo,
			standingRepo: s.standingRepo,
		}
		if _, err := persister.persist(ctx, tx, tournamentID, structure); err != nil {
			return err
		}

		if err := s.tournamentRepo.CompareAndSwapPhase(ctx, tx, tournamentID, nil, initialPhase(tournament.Config.Type)); err != nil {
			if errors.Is(err, repositories.ErrPhaseConflict) {
				return ErrStructureExists
			}
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusActive)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament structure generated", slog.Int("tournament_id", tournamentID))

	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), brackets.Message{
			Type:    brackets.EventStructureGenerated,
			Payload: map[string]int{"tournament_id": tournamentID},
		})
	}
	s.notifyEntrants(tournamentID, title)

	return s.GetSnapshot(ctx, tournamentID)
}

// notifyEntrants emails every registered entrant that the draw is out.
// Best effort: delivery failures are logged, never surfaced.
func (s *bracketService) notifyEntrants(tournamentID int, title string) {
	if s.email == nil {
		return
	}
	go func() {
		ctx := context.Background()
		emails, err := s.userRepo.ListParticipantEmails(ctx, tournamentID)
		if err != nil {
			s.logger.Warn("failed to load entrant emails",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
			return
		}
		if len(emails) == 0 {
			return
		}
		if err := s.email.SendStructurePublishedEmail(emails, title, tournamentID); err != nil {
			s.logger.Warn("failed to send structure notification",
				slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
	}()
}

func (s *bracketService) GetSnapshot(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		tournament   *models.Tournament
		participants []*models.Participant
		groups       []*models.Group
		matches      []*models.Match
		standings    []*models.GroupStanding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(gctx, nil, tournamentID)
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, nil, tournamentID, repositories.MatchFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		standings, err = s.standingRepo.ListByTournament(gctx, nil, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	participantByID := make(map[int]models.Participant, len(participants))
	tournament.Participants = make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		participantByID[p.ID] = *p
		tournament.Participants = append(tournament.Participants, *p)
	}

	standingsByGroup := make(map[int][]models.GroupStanding)
	tournament.Standings = make([]models.GroupStanding, 0, len(standings))
	for _, st := range standings {
		row := *st
		if p, ok := participantByID[row.ParticipantID]; ok {
			participant := p
			row.Participant = &participant
		}
		standingsByGroup[row.GroupID] = append(standingsByGroup[row.GroupID], row)
		tournament.Standings = append(tournament.Standings, row)
	}

	tournament.Groups = make([]models.Group, 0, len(groups))
	for _, grp := range groups {
		group := *grp
		memberIDs, err := s.groupRepo.ListMemberIDs(ctx, nil, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = make([]models.Participant, 0, len(memberIDs))
		for _, id := range memberIDs {
			if p, ok := participantByID[id]; ok {
				group.Members = append(group.Members, p)
			}
		}
		group.Standings = standingsByGroup[group.ID]
		tournament.Groups = append(tournament.Groups, group)
	}

	tournament.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		tournament.Matches = append(tournament.Matches, *m)
	}

	if s.uploader != nil && tournament.PosterKey != nil && *tournament.PosterKey != "" {
		if url := s.uploader.GetPublicURL(*tournament.PosterKey); url != "" {
			tournament.PosterURL = &url
		}
	}
	return tournament, nil
}

// structurePersister writes a generated structure inside the caller's
// transaction. Matches are written in two passes: rows first, then the
// next_match_id/winner_to_slot links once every row has a database ID.
type structurePersister struct {
	matchRepo    repositories.MatchRepository
	groupRepo    repositories.GroupRepository
	standingRepo repositories.GroupStandingRepository
}

func (p *structurePersister) persist(ctx context.Context, tx *sql.Tx, tournamentID int, structure *brackets.Structure) (map[string]*models.Match, error) {
	groupIDByLabel := make(map[string]int, len(structure.Groups))
	for _, plan := range structure.Groups {
		group := &models.Group{TournamentID: tournamentID, Label: plan.Label}
		if err := p.groupRepo.Create(ctx, tx, group); err != nil {
			return nil, err
		}
		groupIDByLabel[plan.Label] = group.ID

		if err := p.groupRepo.AddMembers(ctx, tx, group.ID, plan.ParticipantIDs); err != nil {
			return nil, err
		}
		// Zeroed standings so the table is readable before a ball is hit.
		initial := brackets.ComputeStandings(plan.ParticipantIDs, nil)
		if err := p.standingRepo.ReplaceForGroup(ctx, tx, tournamentID, group.ID, initial); err != nil {
			return nil, err
		}
	}

	byUID := make(map[string]*models.Match, len(structure.Matches))
	for _, gm := range structure.Matches {
		match := &models.Match{
			TournamentID:    tournamentID,
			Phase:           gm.Phase,
			Round:           gm.Round,
			Slot:            gm.Slot,
			BracketUID:      gm.UID,
			P1ParticipantID: gm.Participant1ID,
			P2ParticipantID: gm.Participant2ID,
			SourceMatch1UID: gm.SourceMatch1UID,
			SourceMatch2UID: gm.SourceMatch2UID,
			Status:          gm.Status,
		}
		if gm.GroupLabel != "" {
			groupID, ok := groupIDByLabel[gm.GroupLabel]
			if !ok {
				return nil, fmt.Errorf("generated match %s references unknown group %q", gm.UID, gm.GroupLabel)
			}
			match.GroupID = &groupID
		}
		if gm.IsBye {
			match.WinnerParticipantID = gm.ByeParticipantID
		}
		if err := p.matchRepo.Create(ctx, tx, match); err != nil {
			return nil, err
		}
		byUID[match.BracketUID] = match
	}

	for _, match := range byUID {
		if match.SourceMatch1UID != nil {
			feeder, ok := byUID[*match.SourceMatch1UID]
			if !ok {
				return nil, fmt.Errorf("match %s references unknown source %s", match.BracketUID, *match.SourceMatch1UID)
			}
			if err := p.matchRepo.UpdateNextMatchInfo(ctx, tx, feeder.ID, &match.ID, intPtr(1)); err != nil {
				return nil, err
			}
		}
		if match.SourceMatch2UID != nil {
			feeder, ok := byUID[*match.SourceMatch2UID]
			if !ok {
				return nil, fmt.Errorf("match %s references unknown source %s", match.BracketUID, *match.SourceMatch2UID)
			}
			if err := p.matchRepo.UpdateNextMatchInfo(ctx, tx, feeder.ID, &match.ID, intPtr(2)); err != nil {
				return nil, err
			}
		}
	}
	return byUID, nil
}
