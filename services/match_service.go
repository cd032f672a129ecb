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
)

type RecordResultInput struct {
	WinnerParticipantID int    `json:"winner_participant_id"`
	Score               string `json:"score,omitempty"`
	P1Games             int    `json:"p1_games"`
	P2Games             int    `json:"p2_games"`
}

type MatchService interface {
	GetByID(ctx context.Context, matchID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error)

	// RecordResult completes a fixture and runs every consequence of that
	// result in the same transaction: standings refresh, winner
	// advancement, phase transition, tournament completion.
	RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error)

	// UnwindResult reverts a recorded result. Downstream elimination
	// results that consumed the winner are reverted first, so the bracket
	// never holds a participant whose source result no longer exists.
	UnwindResult(ctx context.Context, matchID int) (*models.Match, error)
}

type matchService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	groupRepo       repositories.GroupRepository
	standingRepo    repositories.GroupStandingRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	groupRepo repositories.GroupRepository,
	standingRepo repositories.GroupStandingRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		groupRepo:       groupRepo,
		standingRepo:    standingRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// pendingEvent is a websocket broadcast deferred until after commit, so
// clients never observe state the transaction later rolled back.
type pendingEvent struct {
	eventType string
	payload   interface{}
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error) {
	if input.P1Games < 0 || input.P2Games < 0 {
		return nil, fmt.Errorf("%w: games counters cannot be negative", ErrValidationFailed)
	}

	probe, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournamentID := probe.TournamentID

	var events []pendingEvent

	err = withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := repositories.AcquireTournamentLock(ctx, tx, tournamentID); err != nil {
			return err
		}

		// Reload under the lock; the probe may be stale.
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return err
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		if tournament.Status == models.StatusCanceled || tournament.Status == models.StatusRegistration {
			return fmt.Errorf("%w: tournament is not in play", ErrValidationFailed)
		}

		switch match.Status {
		case models.MatchStatusCompleted, models.MatchStatusBye:
			return ErrMatchAlreadyCompleted
		case models.MatchStatusPending:
			return ErrMatchNotReady
		}
		if !match.ReadyForResult() {
			return ErrMatchNotReady
		}
		if match.Phase == models.MatchPhaseGroup &&
			tournament.CurrentPhase != nil && *tournament.CurrentPhase == models.PhaseElimination {
			return ErrPhaseClosed
		}
		if !match.HasParticipant(input.WinnerParticipantID) {
			return ErrInvalidWinner
		}

		winner := input.WinnerParticipantID
		var score *string
		if input.Score != "" {
			score = &input.Score
		}
		if err := s.matchRepo.SetResult(ctx, tx, matchID, &winner, score, input.P1Games, input.P2Games, models.MatchStatusCompleted); err != nil {
			return err
		}
		match.WinnerParticipantID = &winner
		match.Score = score
		match.P1Games = input.P1Games
		match.P2Games = input.P2Games
		match.Status = models.MatchStatusCompleted

		events = append(events, pendingEvent{
			eventType: brackets.EventMatchUpdated,
			payload:   map[string]int{"tournament_id": tournamentID, "match_id": matchID},
		})

		if match.Phase == models.MatchPhaseGroup {
			return s.afterGroupResult(ctx, tx, tournament, match, &events)
		}
		return s.afterEliminationResult(ctx, tx, tournament, match, &events)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(tournamentID, events)
	return s.GetByID(ctx, matchID)
}

// afterGroupResult refreshes the group's standings and, once the whole
// group phase is settled, either closes the league or seeds the
// elimination bracket from the qualifiers.
func (s *matchService) afterGroupResult(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match, events *[]pendingEvent) error {
	if match.GroupID == nil {
		return fmt.Errorf("group match %d has no group", match.ID)
	}
	if err := s.refreshGroupStandings(ctx, tx, tournament.ID, *match.GroupID); err != nil {
		return err
	}

	groupPhase := models.MatchPhaseGroup
	groupMatches, err := s.matchRepo.ListByTournament(ctx, tx, tournament.ID, repositories.MatchFilter{Phase: &groupPhase})
	if err != nil {
		return err
	}
	if !brackets.AllSettled(groupMatches) {
		return nil
	}

	switch tournament.Config.Type {
	case models.TypeRoundRobin:
		return s.completeRoundRobin(ctx, tx, tournament, events)
	case models.TypeGroupsElimination:
		return s.openEliminationPhase(ctx, tx, tournament, events)
	default:
		return nil
	}
}

func (s *matchService) completeRoundRobin(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, events *[]pendingEvent) error {
	standings, err := s.standingRepo.ListByTournament(ctx, tx, tournament.ID)
	if err != nil {
		return err
	}
	if len(standings) == 0 {
		return fmt.Errorf("tournament %d has no standings to settle", tournament.ID)
	}

	winnerID := standings[0].ParticipantID
	if err := s.tournamentRepo.SetWinner(ctx, tx, tournament.ID, &winnerID); err != nil {
		return err
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusCompleted); err != nil {
		return err
	}

	*events = append(*events, pendingEvent{
		eventType: brackets.EventTournamentCompleted,
		payload:   map[string]int{"tournament_id": tournament.ID, "winner_participant_id": winnerID},
	})
	s.logger.Info("round robin completed",
		slog.Int("tournament_id", tournament.ID), slog.Int("winner_participant_id", winnerID))
	return nil
}

// openEliminationPhase advances the tournament to the elimination phase
// and materializes the bracket from the group qualifiers. The phase
// compare-and-swap guards against double generation.
func (s *matchService) openEliminationPhase(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, events *[]pendingEvent) error {
	groupPhase := models.PhaseGroup
	if err := s.tournamentRepo.CompareAndSwapPhase(ctx, tx, tournament.ID, &groupPhase, models.PhaseElimination); err != nil {
		if errors.Is(err, repositories.ErrPhaseConflict) {
			// Another writer already opened the bracket.
			return nil
		}
		return err
	}

	groups, err := s.groupRepo.ListByTournament(ctx, tx, tournament.ID)
	if err != nil {
		return err
	}

	allStandings := make([][]models.GroupStanding, 0, len(groups))
	for _, group := range groups {
		standings, err := s.standingRepo.ListByGroup(ctx, tx, group.ID)
		if err != nil {
			return err
		}
		rows := make([]models.GroupStanding, len(standings))
		for i, st := range standings {
			rows[i] = *st
		}
		allStandings = append(allStandings, rows)
	}

	qualifierIDs := brackets.Qualifiers(allStandings, tournament.Config.TeamsAdvancing)
	if len(qualifierIDs) < 2 {
		return fmt.Errorf("tournament %d produced %d qualifiers, need at least 2", tournament.ID, len(qualifierIDs))
	}

	// Qualifier order is the elimination seeding order.
	qualifiers := make([]*models.Participant, 0, len(qualifierIDs))
	for i, participantID := range qualifierIDs {
		participant, err := s.participantRepo.GetByID(ctx, tx, participantID)
		if err != nil {
			return err
		}
		seed := i + 1
		participant.Seed = &seed
		qualifiers = append(qualifiers, participant)
	}

	structure, err := brackets.NewSingleEliminationGenerator().Generate(brackets.GenerateParams{
		Config: models.TournamentConfig{
			Type:            models.TypeSingleElimination,
			MaxParticipants: len(qualifiers),
		},
		Participants: qualifiers,
	})
	if err != nil {
		return fmt.Errorf("failed to generate elimination bracket for tournament %d: %w", tournament.ID, err)
	}

	persister := &structurePersister{
		matchRepo:    s.matchRepo,
		groupRepo:    s.groupRepo,
		standingRepo: s.standingRepo,
	}
	if _, err := persister.persist(ctx, tx, tournament.ID, structure); err != nil {
		return err
	}

	*events = append(*events, pendingEvent{
		eventType: brackets.EventPhaseTransition,
		payload: map[string]interface{}{
			"tournament_id": tournament.ID,
			"phase":         models.PhaseElimination,
		},
	})
	s.logger.Info("elimination phase opened",
		slog.Int("tournament_id", tournament.ID), slog.Int("qualifiers", len(qualifiers)))
	return nil
}

// afterEliminationResult advances the winner into the next fixture, or
// closes the tournament when the final was just decided.
func (s *matchService) afterEliminationResult(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match, events *[]pendingEvent) error {
	winnerID := *match.WinnerParticipantID

	if match.NextMatchID == nil {
		if err := s.tournamentRepo.SetWinner(ctx, tx, tournament.ID, &winnerID); err != nil {
			return err
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusCompleted); err != nil {
			return err
		}
		*events = append(*events, pendingEvent{
			eventType: brackets.EventTournamentCompleted,
			payload:   map[string]int{"tournament_id": tournament.ID, "winner_participant_id": winnerID},
		})
		s.logger.Info("tournament completed",
			slog.Int("tournament_id", tournament.ID), slog.Int("winner_participant_id", winnerID))
		return nil
	}

	if match.WinnerToSlot == nil {
		return fmt.Errorf("match %d has a next match but no winner slot", match.ID)
	}
	if err := s.matchRepo.SetParticipantSlot(ctx, tx, *match.NextMatchID, *match.WinnerToSlot, &winnerID); err != nil {
		return err
	}

	next, err := s.matchRepo.GetByID(ctx, tx, *match.NextMatchID)
	if err != nil {
		return err
	}
	if next.Status == models.MatchStatusPending && next.ReadyForResult() {
		if err := s.matchRepo.UpdateStatus(ctx, tx, next.ID, models.MatchStatusScheduled); err != nil {
			return err
		}
		*events = append(*events, pendingEvent{
			eventType: brackets.EventMatchUpdated,
			payload:   map[string]int{"tournament_id": tournament.ID, "match_id": next.ID},
		})
	}
	return nil
}

func (s *matchService) UnwindResult(ctx context.Context, matchID int) (*models.Match, error) {
	probe, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	tournamentID := probe.TournamentID

	var events []pendingEvent

	err = withTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := repositories.AcquireTournamentLock(ctx, tx, tournamentID); err != nil {
			return err
		}

		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return err
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if err != nil {
			return err
		}

		if match.Status != models.MatchStatusCompleted {
			return ErrMatchNotCompleted
		}

		if match.Phase == models.MatchPhaseGroup {
			// Group results are immutable once the bracket has been seeded
			// from them.
			if tournament.Config.Type == models.TypeGroupsElimination &&
				tournament.CurrentPhase != nil && *tournament.CurrentPhase == models.PhaseElimination {
				return ErrPhaseClosed
			}
			if err := s.clearResult(ctx, tx, match.ID); err != nil {
				return err
			}
			if match.GroupID == nil {
				return fmt.Errorf("group match %d has no group", match.ID)
			}
			if err := s.refreshGroupStandings(ctx, tx, tournamentID, *match.GroupID); err != nil {
				return err
			}
			// A settled league reopens when one of its results is pulled.
			if tournament.Status == models.StatusCompleted {
				if err := s.reopenTournament(ctx, tx, tournamentID); err != nil {
					return err
				}
			}
		} else {
			if err := s.unwindEliminationMatch(ctx, tx, match); err != nil {
				return err
			}
			// Unwinding the final reopens a completed tournament.
			if tournament.Status == models.StatusCompleted {
				elimPhase := models.MatchPhaseElimination
				elims, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, repositories.MatchFilter{Phase: &elimPhase})
				if err != nil {
					return err
				}
				if final := brackets.FinalMatch(elims); final != nil && final.ID == match.ID {
					if err := s.reopenTournament(ctx, tx, tournamentID); err != nil {
						return err
					}
				}
			}
		}

		events = append(events, pendingEvent{
			eventType: brackets.EventMatchUpdated,
			payload:   map[string]int{"tournament_id": tournamentID, "match_id": matchID},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match result unwound",
		slog.Int("tournament_id", tournamentID), slog.Int("match_id", matchID))

	s.broadcast(tournamentID, events)
	return s.GetByID(ctx, matchID)
}

// unwindEliminationMatch reverts one elimination result, first unwinding
// any downstream result that consumed its winner. The recursion is
// bounded by the bracket depth.
func (s *matchService) unwindEliminationMatch(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	if match.NextMatchID != nil {
		next, err := s.matchRepo.GetByID(ctx, tx, *match.NextMatchID)
		if err != nil {
			return err
		}
		if next.Status == models.MatchStatusCompleted {
			if err := s.unwindEliminationMatch(ctx, tx, next); err != nil {
				return err
			}
		}
		if match.WinnerToSlot == nil {
			return fmt.Errorf("match %d has a next match but no winner slot", match.ID)
		}
		if err := s.matchRepo.SetParticipantSlot(ctx, tx, next.ID, *match.WinnerToSlot, nil); err != nil {
			return err
		}
		// With a slot emptied the fixture is a placeholder again.
		if err := s.matchRepo.UpdateStatus(ctx, tx, next.ID, models.MatchStatusPending); err != nil {
			return err
		}
	}
	return s.clearResult(ctx, tx, match.ID)
}

func (s *matchService) clearResult(ctx context.Context, tx *sql.Tx, matchID int) error {
	return s.matchRepo.SetResult(ctx, tx, matchID, nil, nil, 0, 0, models.MatchStatusScheduled)
}

func (s *matchService) reopenTournament(ctx context.Context, tx *sql.Tx, tournamentID int) error {
	if err := s.tournamentRepo.SetWinner(ctx, tx, tournamentID, nil); err != nil {
		return err
	}
	return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusActive)
}

func (s *matchService) refreshGroupStandings(ctx context.Context, tx *sql.Tx, tournamentID, groupID int) error {
	memberIDs, err := s.groupRepo.ListMemberIDs(ctx, tx, groupID)
	if err != nil {
		return err
	}
	groupMatches, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID, repositories.MatchFilter{GroupID: &groupID})
	if err != nil {
		return err
	}
	standings := brackets.ComputeStandings(memberIDs, groupMatches)
	return s.standingRepo.ReplaceForGroup(ctx, tx, tournamentID, groupID, standings)
}

func (s *matchService) broadcast(tournamentID int, events []pendingEvent) {
	if s.hub == nil {
		return
	}
	room := tournamentRoom(tournamentID)
	for _, ev := range events {
		s.hub.BroadcastToRoom(room, brackets.Message{Type: ev.eventType, Payload: ev.payload})
	}
}
