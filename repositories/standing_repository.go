package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gpozzoni/tennis-academy-api/models"
)

var ErrStandingNotFound = errors.New("group standing not found")

// GroupStandingRepository persists the standings projection. The table
// for a group is rewritten wholesale inside the transaction that records
// each group result, so it is always consistent with the matches.
type GroupStandingRepository interface {
	ReplaceForGroup(ctx context.Context, exec SQLExecutor, tournamentID, groupID int, standings []models.GroupStanding) error
	ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupStanding, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.GroupStanding, error)
}

type postgresGroupStandingRepository struct {
	db *sql.DB
}

func NewPostgresGroupStandingRepository(db *sql.DB) GroupStandingRepository {
	return &postgresGroupStandingRepository{db: db}
}

func (r *postgresGroupStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupStandingRepository) ReplaceForGroup(ctx context.Context, exec SQLExecutor, tournamentID, groupID int, standings []models.GroupStanding) error {
	executor := r.getExecutor(exec)

	if _, err := executor.ExecContext(ctx,
		`DELETE FROM group_standings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear standings for group %d: %w", groupID, err)
	}

	now := time.Now()
	for _, s := range standings {
		_, err := executor.ExecContext(ctx, `
			INSERT INTO group_standings
				(tournament_id, group_id, participant_id, rank, points, played,
				 wins, losses, games_won, games_lost, games_diff, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			tournamentID, groupID, s.ParticipantID, s.Rank, s.Points, s.Played,
			s.Wins, s.Losses, s.GamesWon, s.GamesLost, s.GamesDiff, now)
		if err != nil {
			return fmt.Errorf("failed to insert standing for participant %d in group %d: %w", s.ParticipantID, groupID, err)
		}
	}
	return nil
}

const standingColumns = `
	id, tournament_id, group_id, participant_id, rank, points, played,
	wins, losses, games_won, games_lost, games_diff, updated_at`

func (r *postgresGroupStandingRepository) scan(row interface{ Scan(...interface{}) error }) (*models.GroupStanding, error) {
	var s models.GroupStanding
	err := row.Scan(
		&s.ID, &s.TournamentID, &s.GroupID, &s.ParticipantID, &s.Rank, &s.Points,
		&s.Played, &s.Wins, &s.Losses, &s.GamesWon, &s.GamesLost, &s.GamesDiff,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, fmt.Errorf("failed to scan group standing: %w", err)
	}
	return &s, nil
}

func (r *postgresGroupStandingRepository) list(ctx context.Context, executor SQLExecutor, query string, arg int) ([]*models.GroupStanding, error) {
	rows, err := executor.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query group standings: %w", err)
	}
	defer rows.Close()

	standings := make([]*models.GroupStanding, 0)
	for rows.Next() {
		s, scanErr := r.scan(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}

func (r *postgresGroupStandingRepository) ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupStanding, error) {
	query := `SELECT` + standingColumns + ` FROM group_standings WHERE group_id = $1 ORDER BY rank ASC`
	return r.list(ctx, r.getExecutor(exec), query, groupID)
}

func (r *postgresGroupStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.GroupStanding, error) {
	query := `SELECT` + standingColumns + ` FROM group_standings WHERE tournament_id = $1 ORDER BY group_id ASC, rank ASC`
	return r.list(ctx, r.getExecutor(exec), query, tournamentID)
}
