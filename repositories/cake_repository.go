package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foosdev/foosball-tracker/models"
)

type CakeRepository interface {
	Increment(ctx context.Context, exec SQLExecutor, seasonID, debtorID, creditorID, delta int) error
	DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error
	List(ctx context.Context, seasonID *int) ([]*models.CakeBalance, error)
}

type postgresCakeRepository struct {
	db *sql.DB
}

func NewPostgresCakeRepository(db *sql.DB) CakeRepository {
	return &postgresCakeRepository{db: db}
}

// Increment bumps the directed balance, creating the row on first debt.
func (r *postgresCakeRepository) Increment(ctx context.Context, exec SQLExecutor, seasonID, debtorID, creditorID, delta int) error {
	query := `
		INSERT INTO cake_balances (season_id, debtor_id, creditor_id, balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season_id, debtor_id, creditor_id)
		DO UPDATE SET balance = cake_balances.balance + EXCLUDED.balance`

	if _, err := exec.ExecContext(ctx, query, seasonID, debtorID, creditorID, delta); err != nil {
		return fmt.Errorf("failed to increment cake balance %d->%d in season %d: %w", debtorID, creditorID, seasonID, err)
	}
	return nil
}

func (r *postgresCakeRepository) DeleteBySeason(ctx context.Context, exec SQLExecutor, seasonID int) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM cake_balances WHERE season_id = $1`, seasonID); err != nil {
		return fmt.Errorf("failed to delete cake balances for season %d: %w", seasonID, err)
	}
	return nil
}

func (r *postgresCakeRepository) List(ctx context.Context, seasonID *int) ([]*models.CakeBalance, error) {
	query := `
		SELECT cb.id, cb.season_id, cb.debtor_id, cb.creditor_id, cb.balance, d.name, c.name
		FROM cake_balances cb
		JOIN players d ON d.id = cb.debtor_id
		JOIN players c ON c.id = cb.creditor_id
		WHERE cb.balance > 0`

	args := []interface{}{}
	if seasonID != nil {
		query += ` AND cb.season_id = $1`
		args = append(args, *seasonID)
	}
	query += ` ORDER BY cb.balance DESC, cb.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cake balances: %w", err)
	}
	defer rows.Close()

	balances := make([]*models.CakeBalance, 0)
	for rows.Next() {
		cb := &models.CakeBalance{}
		if err := rows.Scan(&cb.ID, &cb.SeasonID, &cb.DebtorID, &cb.CreditorID, &cb.Balance, &cb.DebtorName, &cb.CreditorName); err != nil {
			return nil, fmt.Errorf("failed to scan cake balance row: %w", err)
		}
		balances = append(balances, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during cake balance rows iteration: %w", err)
	}
	return balances, nil
}
