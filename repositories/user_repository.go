package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gpozzoni/tennis-academy-api/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListParticipantEmails returns the addresses of every registered
	// entrant of a tournament that is backed by a user account.
	ListParticipantEmails(ctx context.Context, tournamentID int) ([]string, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (public_id, first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.PublicID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "users_email_key" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) scan(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.PublicID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, public_id, first_name, last_name, email, password_hash, role, created_at
		FROM users WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, public_id, first_name, last_name, email, password_hash, role, created_at
		FROM users WHERE email = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresUserRepository) ListParticipantEmails(ctx context.Context, tournamentID int) ([]string, error) {
	query := `
		SELECT u.email
		FROM users u
		JOIN participants p ON p.user_id = u.id
		WHERE p.tournament_id = $1
		ORDER BY u.email ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant emails for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if scanErr := rows.Scan(&email); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant email: %w", scanErr)
		}
		emails = append(emails, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during email rows iteration: %w", err)
	}
	return emails, nil
}
