package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/lms/internal/domain/model"
)

// AccountTransactionRepo implements port.AccountTransactionRepository.
type AccountTransactionRepo struct {
	pool *pgxpool.Pool
}

// NewAccountTransactionRepo creates a new PostgreSQL-backed account feed.
func NewAccountTransactionRepo(pool *pgxpool.Pool) *AccountTransactionRepo {
	return &AccountTransactionRepo{pool: pool}
}

// Record appends a transaction.
func (r *AccountTransactionRepo) Record(ctx context.Context, tx model.AccountTransaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account_transactions (id, national_id, type, amount, occurred_at)
		VALUES ($1,$2,$3,$4,$5)`,
		tx.ID, tx.NationalID, tx.Type.String(), tx.Amount, tx.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert account transaction: %w", err)
	}
	return nil
}

// TotalsByNationalID sums credits and debits. An unknown national id has zero
// totals.
func (r *AccountTransactionRepo) TotalsByNationalID(ctx context.Context, nationalID string) (model.AccountTotals, error) {
	var totals model.AccountTotals
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'CREDIT'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'DEBIT'), 0)
		FROM account_transactions
		WHERE national_id = $1`, nationalID,
	).Scan(&totals.Credits, &totals.Debits)
	if err != nil {
		return model.AccountTotals{}, fmt.Errorf("sum account transactions: %w", err)
	}
	return totals, nil
}
