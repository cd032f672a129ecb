package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx so services can
// run repository calls inside their own transactions.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// AcquireTournamentLock takes the per-tournament advisory lock, held
// until the surrounding transaction ends. Every writer that can touch a
// tournament's matches or phase takes this first, so phase-transition
// detection always runs against a consistent snapshot.
func AcquireTournamentLock(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	if _, err := exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(tournamentID)); err != nil {
		return fmt.Errorf("failed to acquire tournament lock %d: %w", tournamentID, err)
	}
	return nil
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
