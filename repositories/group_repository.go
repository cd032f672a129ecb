package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gpozzoni/tennis-academy-api/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Group, error)
	// AddMembers stores the group's members with their seeding position
	// preserved, which keeps regeneration and standings deterministic.
	AddMembers(ctx context.Context, exec SQLExecutor, groupID int, participantIDs []int) error
	ListMemberIDs(ctx context.Context, exec SQLExecutor, groupID int) ([]int, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_groups (tournament_id, label)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, group.TournamentID, group.Label).
		Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group %q for tournament %d: %w", group.Label, group.TournamentID, err)
	}
	return nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Group, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, label, created_at
		FROM tournament_groups
		WHERE tournament_id = $1
		ORDER BY label ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var g models.Group
		if scanErr := rows.Scan(&g.ID, &g.TournamentID, &g.Label, &g.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", scanErr)
		}
		groups = append(groups, &g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) AddMembers(ctx context.Context, exec SQLExecutor, groupID int, participantIDs []int) error {
	executor := r.getExecutor(exec)
	for position, participantID := range participantIDs {
		_, err := executor.ExecContext(ctx, `
			INSERT INTO group_members (group_id, participant_id, position)
			VALUES ($1, $2, $3)`,
			groupID, participantID, position+1)
		if err != nil {
			return fmt.Errorf("failed to add participant %d to group %d: %w", participantID, groupID, err)
		}
	}
	return nil
}

func (r *postgresGroupRepository) ListMemberIDs(ctx context.Context, exec SQLExecutor, groupID int) ([]int, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx, `
		SELECT participant_id
		FROM group_members
		WHERE group_id = $1
		ORDER BY position ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members of group %d: %w", groupID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group member row: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group member rows iteration: %w", err)
	}
	return ids, nil
}
