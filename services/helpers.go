package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gpozzoni/tennis-academy-api/brackets"
)

// withTransaction runs fn inside a transaction, rolling back on error or
// panic and committing otherwise. Services use this for every write that
// touches more than one table.
func withTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// tournamentRoom is the websocket room name for one tournament.
func tournamentRoom(tournamentID int) string {
	return brackets.TournamentRoom(tournamentID)
}

func intPtr(v int) *int {
	return &v
}

// posterExtension maps an image content type to a file extension for the
// object store key.
func posterExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
