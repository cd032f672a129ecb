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
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentTitleConflict    = errors.New("tournament title already in use")
	ErrTournamentOrganizerInvalid = errors.New("tournament organizer conflict or invalid")

	// ErrPhaseConflict is the compare-and-swap failure: the tournament's
	// current_phase was not the expected value, meaning another writer
	// already moved it.
	ErrPhaseConflict = errors.New("tournament phase changed concurrently")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	CompareAndSwapPhase(ctx context.Context, exec SQLExecutor, id int, from *models.Phase, to models.Phase) error
	SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerParticipantID *int) error
	UpdatePosterKey(ctx context.Context, id int, key *string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, title, description, organizer_id, tournament_type, max_participants,
	num_groups, teams_per_group, teams_advancing, status, current_phase,
	winner_participant_id, start_date, poster_key, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(title, description, organizer_id, tournament_type, max_participants,
			 num_groups, teams_per_group, teams_advancing, status, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Title,
		tournament.Description,
		tournament.OrganizerID,
		tournament.Config.Type,
		tournament.Config.MaxParticipants,
		tournament.Config.NumGroups,
		tournament.Config.TeamsPerGroup,
		tournament.Config.TeamsAdvancing,
		tournament.Status,
		tournament.StartDate,
	).Scan(&tournament.ID, &tournament.CreatedAt)

	return r.handleError(err)
}

func (r *postgresTournamentRepository) scan(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.OrganizerID, &t.Config.Type,
		&t.Config.MaxParticipants, &t.Config.NumGroups, &t.Config.TeamsPerGroup,
		&t.Config.TeamsAdvancing, &t.Status, &t.CurrentPhase,
		&t.WinnerParticipantID, &t.StartDate, &t.PosterKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scan(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT` + tournamentColumns + ` FROM tournaments`)

	args := []interface{}{}
	if status != nil {
		queryBuilder.WriteString(" WHERE status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY start_date DESC, id DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := r.scan(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// CompareAndSwapPhase advances current_phase only when it still holds
// the expected value. Zero affected rows means another request already
// performed the transition; callers treat that as "skip, do not
// generate again".
func (r *postgresTournamentRepository) CompareAndSwapPhase(ctx context.Context, exec SQLExecutor, id int, from *models.Phase, to models.Phase) error {
	executor := r.getExecutor(exec)

	var (
		result sql.Result
		err    error
	)
	if from == nil {
		result, err = executor.ExecContext(ctx,
			`UPDATE tournaments SET current_phase = $1 WHERE id = $2 AND current_phase IS NULL`, to, id)
	} else {
		result, err = executor.ExecContext(ctx,
			`UPDATE tournaments SET current_phase = $1 WHERE id = $2 AND current_phase = $3`, to, id, *from)
	}
	if err != nil {
		return fmt.Errorf("CompareAndSwapPhase: failed for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPhaseConflict)
}

func (r *postgresTournamentRepository) SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerParticipantID *int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE tournaments SET winner_participant_id = $1 WHERE id = $2`, winnerParticipantID, id)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdatePosterKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET poster_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_title_key":
			return ErrTournamentTitleConflict
		case "tournaments_organizer_id_fkey":
			return ErrTournamentOrganizerInvalid
		}
	}
	return err
}
