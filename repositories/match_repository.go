package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchTournamentInvalid  = errors.New("match tournament conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchSlotInvalid        = errors.New("match slot must be 1 or 2")
)

type MatchFilter struct {
	Phase   *models.MatchPhase
	GroupID *int
	Status  *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID *int, winnerToSlot *int) error
	SetResult(ctx context.Context, exec SQLExecutor, matchID int, winnerParticipantID *int, score *string, p1Games, p2Games int, status models.MatchStatus) error
	SetParticipantSlot(ctx context.Context, exec SQLExecutor, matchID int, slot int, participantID *int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, matchID int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, group_id, phase, round, slot, bracket_uid,
	p1_participant_id, p2_participant_id, source_match1_uid, source_match2_uid,
	next_match_id, winner_to_slot, status, winner_participant_id,
	score, p1_games, p2_games, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, group_id, phase, round, slot, bracket_uid,
			 p1_participant_id, p2_participant_id, source_match1_uid, source_match2_uid,
			 status, winner_participant_id, score, p1_games, p2_games)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID,
		match.GroupID,
		match.Phase,
		match.Round,
		match.Slot,
		match.BracketUID,
		match.P1ParticipantID,
		match.P2ParticipantID,
		match.SourceMatch1UID,
		match.SourceMatch2UID,
		match.Status,
		match.WinnerParticipantID,
		match.Score,
		match.P1Games,
		match.P2Games,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleError(err)
}

func (r *postgresMatchRepository) scan(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.GroupID, &m.Phase, &m.Round, &m.Slot, &m.BracketUID,
		&m.P1ParticipantID, &m.P2ParticipantID, &m.SourceMatch1UID, &m.SourceMatch2UID,
		&m.NextMatchID, &m.WinnerToSlot, &m.Status, &m.WinnerParticipantID,
		&m.Score, &m.P1Games, &m.P2Games, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scan(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if filter.Phase != nil {
		args = append(args, *filter.Phase)
		queryBuilder.WriteString(" AND phase = $" + strconv.Itoa(len(args)))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		queryBuilder.WriteString(" AND group_id = $" + strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)))
	}
	queryBuilder.WriteString(" ORDER BY phase ASC, round ASC, slot ASC, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scan(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateNextMatchInfo(ctx context.Context, exec SQLExecutor, matchID int, nextMatchID *int, winnerToSlot *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET next_match_id = $1, winner_to_slot = $2 WHERE id = $3`,
		nextMatchID, winnerToSlot, matchID)
	if err != nil {
		return fmt.Errorf("UpdateNextMatchInfo: failed for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetResult(ctx context.Context, exec SQLExecutor, matchID int, winnerParticipantID *int, score *string, p1Games, p2Games int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `
		UPDATE matches
		SET winner_participant_id = $1, score = $2, p1_games = $3, p2_games = $4, status = $5
		WHERE id = $6`,
		winnerParticipantID, score, p1Games, p2Games, status, matchID)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetParticipantSlot(ctx context.Context, exec SQLExecutor, matchID int, slot int, participantID *int) error {
	executor := r.getExecutor(exec)

	var column string
	switch slot {
	case 1:
		column = "p1_participant_id"
	case 2:
		column = "p2_participant_id"
	default:
		return ErrMatchSlotInvalid
	}

	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET `+column+` = $1 WHERE id = $2`, participantID, matchID)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, matchID int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET status = $1 WHERE id = $2`, status, matchID)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_p1_participant_id_fkey", "matches_p2_participant_id_fkey", "matches_winner_participant_id_fkey":
			return ErrMatchParticipantInvalid
		}
	}
	return err
}
