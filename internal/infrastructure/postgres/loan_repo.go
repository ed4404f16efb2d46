package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/lms/pkg/postgres"
)

const loansOneActiveIndex = "loans_one_active_per_borrower"

const selectLoan = `
	SELECT id, borrower_id, category, principal, annual_rate, term_months,
	       disbursal_date, start_date, end_date,
	       monthly_emi, total_recoverable, remaining_balance,
	       next_due_date, next_due_amount, installments_remaining, last_payment_date,
	       version, created_at, updated_at
	FROM loans
	WHERE id = $1`

// LoanRepo implements port.LoanRepository and port.PaymentRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Create persists a new loan and its installments in one transaction.
func (r *LoanRepo) Create(ctx context.Context, loan model.Loan) error {
	err := pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		s := loan.Schedule()
		_, err := tx.Exec(ctx, `
			INSERT INTO loans (
				id, borrower_id, category, principal, annual_rate, term_months,
				disbursal_date, start_date, end_date,
				monthly_emi, total_recoverable, remaining_balance,
				next_due_date, next_due_amount, installments_remaining, last_payment_date,
				active, version, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
			loan.ID(), loan.BorrowerID(), loan.Category().String(), loan.Principal(), loan.AnnualRate(), loan.TermMonths(),
			loan.DisbursalDate(), loan.StartDate(), loan.EndDate(),
			loan.MonthlyEMI(), loan.TotalRecoverable(), loan.RemainingBalance(),
			s.NextDueDate, s.NextDueAmount, s.InstallmentsRemaining, s.LastPaymentDate,
			loan.IsActive(), loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
		)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, inst := range loan.Installments() {
			batch.Queue(`
				INSERT INTO loan_installments (loan_id, number, due_date, amount)
				VALUES ($1,$2,$3,$4)`,
				loan.ID(), inst.Number, inst.DueDate, inst.Amount,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert installments: %w", err)
		}
		return nil
	})
	if pkgpostgres.IsUniqueViolation(err, loansOneActiveIndex) {
		return model.ErrDuplicateLoan
	}
	if err != nil {
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

// FindByID retrieves a loan with its schedule and installments.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	return findLoan(ctx, r.pool, selectLoan, id)
}

// HasActiveLoan reports whether the borrower holds an ACTIVE loan.
func (r *LoanRepo) HasActiveLoan(ctx context.Context, borrowerID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE borrower_id = $1 AND active)`, borrowerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query active loan: %w", err)
	}
	return exists, nil
}

// ApplyPayment locks the loan row, runs fn on the locked state and writes the
// new loan state together with the payment. If fn fails nothing is written and
// fn's error is returned as is.
func (r *LoanRepo) ApplyPayment(ctx context.Context, loanID string, fn port.PaymentMutation) (model.Loan, model.Payment, error) {
	var (
		next    model.Loan
		payment model.Payment
	)
	err := pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := findLoan(ctx, tx, selectLoan+" FOR UPDATE", loanID)
		if err != nil {
			return err
		}

		next, payment, err = fn(current)
		if err != nil {
			return err
		}

		s := next.Schedule()
		tag, err := tx.Exec(ctx, `
			UPDATE loans SET
				remaining_balance      = $2,
				next_due_date          = $3,
				next_due_amount        = $4,
				installments_remaining = $5,
				last_payment_date      = $6,
				active                 = $7,
				version                = $8,
				updated_at             = $9
			WHERE id = $1 AND version = $10`,
			next.ID(), next.RemainingBalance(),
			s.NextDueDate, s.NextDueAmount, s.InstallmentsRemaining, s.LastPaymentDate,
			next.IsActive(), next.Version(), next.UpdatedAt(), current.Version(),
		)
		if err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrConcurrentUpdate
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (id, loan_id, borrower_id, amount, paid_at, balance_before, balance_after)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			payment.ID(), payment.LoanID(), payment.BorrowerID(), payment.Amount(),
			payment.PaidAt(), payment.BalanceBefore(), payment.BalanceAfter(),
		)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, model.Payment{}, err
	}
	return next, payment, nil
}

// ListByLoanID returns the ledger in recording order.
func (r *LoanRepo) ListByLoanID(ctx context.Context, loanID string) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, loan_id, borrower_id, amount, paid_at, balance_before, balance_after
		FROM payments
		WHERE loan_id = $1
		ORDER BY seq`, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var (
			id, lID, borrowerID   string
			amount, before, after decimal.Decimal
			paidAt                time.Time
		)
		if err := rows.Scan(&id, &lID, &borrowerID, &amount, &paidAt, &before, &after); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, model.ReconstructPayment(id, lID, borrowerID, amount, paidAt.UTC(), before, after))
	}
	return payments, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func findLoan(ctx context.Context, q pkgpostgres.Querier, query, id string) (model.Loan, error) {
	loan, err := scanLoanRow(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, model.ErrLoanNotFound
	}
	if err != nil {
		return model.Loan{}, fmt.Errorf("query loan: %w", err)
	}

	installments, err := loadInstallments(ctx, q, id)
	if err != nil {
		return model.Loan{}, err
	}

	return model.ReconstructLoan(
		loan.ID(), loan.BorrowerID(), loan.Category(),
		loan.Principal(), loan.AnnualRate(), loan.TermMonths(),
		loan.DisbursalDate(), loan.StartDate(), loan.EndDate(),
		loan.MonthlyEMI(), loan.TotalRecoverable(), loan.RemainingBalance(),
		installments, loan.Schedule(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	), nil
}

func loadInstallments(ctx context.Context, q pkgpostgres.Querier, loanID string) ([]model.Installment, error) {
	rows, err := q.Query(ctx, `
		SELECT number, due_date, amount
		FROM loan_installments
		WHERE loan_id = $1
		ORDER BY number`, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var out []model.Installment
	for rows.Next() {
		var inst model.Installment
		if err := rows.Scan(&inst.Number, &inst.DueDate, &inst.Amount); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, borrowerID, categoryStr             string
		principal, annualRate                   decimal.Decimal
		termMonths, installmentsRemaining       int
		disbursalDate, startDate, endDate       time.Time
		emi, totalRecoverable, remainingBalance decimal.Decimal
		nextDueDate, lastPaymentDate            *time.Time
		nextDueAmount                           decimal.NullDecimal
		version                                 int
		createdAt, updatedAt                    time.Time
	)

	err := s.Scan(
		&id, &borrowerID, &categoryStr, &principal, &annualRate, &termMonths,
		&disbursalDate, &startDate, &endDate,
		&emi, &totalRecoverable, &remainingBalance,
		&nextDueDate, &nextDueAmount, &installmentsRemaining, &lastPaymentDate,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, err
	}

	category, err := valueobject.NewLoanCategory(categoryStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, err)
	}

	schedule := model.LoanSchedule{
		NextDueDate:           nextDueDate,
		InstallmentsRemaining: installmentsRemaining,
		LastPaymentDate:       lastPaymentDate,
	}
	if lastPaymentDate != nil {
		utc := lastPaymentDate.UTC()
		schedule.LastPaymentDate = &utc
	}
	if nextDueAmount.Valid {
		amt := nextDueAmount.Decimal
		schedule.NextDueAmount = &amt
	}

	return model.ReconstructLoan(
		id, borrowerID, category, principal, annualRate, termMonths,
		disbursalDate, startDate, endDate,
		emi, totalRecoverable, remainingBalance,
		nil, schedule,
		version, createdAt, updatedAt,
	), nil
}
