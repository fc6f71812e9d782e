package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foosdev/foosball-tracker/models"
)

type AuditRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.GameAuditLog) error
	ListByGame(ctx context.Context, gameID int) ([]*models.GameAuditLog, error)
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.GameAuditLog) error {
	query := `
		INSERT INTO game_audit_logs (game_id, editor_ip, changes, summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, edited_at`

	err := exec.QueryRowContext(ctx, query,
		entry.GameID, entry.EditorIP, entry.Changes, entry.Summary,
	).Scan(&entry.ID, &entry.EditedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry for game %d: %w", entry.GameID, err)
	}
	return nil
}

func (r *postgresAuditRepository) ListByGame(ctx context.Context, gameID int) ([]*models.GameAuditLog, error) {
	query := `
		SELECT id, game_id, edited_at, editor_ip, changes, summary
		FROM game_audit_logs
		WHERE game_id = $1
		ORDER BY edited_at DESC`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log for game %d: %w", gameID, err)
	}
	defer rows.Close()

	entries := make([]*models.GameAuditLog, 0)
	for rows.Next() {
		entry := &models.GameAuditLog{}
		if err := rows.Scan(&entry.ID, &entry.GameID, &entry.EditedAt, &entry.EditorIP, &entry.Changes, &entry.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during audit log rows iteration: %w", err)
	}
	return entries, nil
}
