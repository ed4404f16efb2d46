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
	"github.com/bibbank/lms/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/lms/pkg/postgres"
)

const borrowerNationalIDKey = "borrowers_national_id_key"

// BorrowerRepo implements port.BorrowerRepository.
type BorrowerRepo struct {
	pool *pgxpool.Pool
}

// NewBorrowerRepo creates a new PostgreSQL-backed borrower repository.
func NewBorrowerRepo(pool *pgxpool.Pool) *BorrowerRepo {
	return &BorrowerRepo{pool: pool}
}

// Create inserts a borrower.
func (r *BorrowerRepo) Create(ctx context.Context, b model.Borrower) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO borrowers (
			id, name, email, national_id, annual_income, credit_score,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID(), b.Name(), b.Email(), b.NationalID(), b.AnnualIncome(), b.CreditScore().Ptr(),
		b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
	if pkgpostgres.IsUniqueViolation(err, borrowerNationalIDKey) {
		return model.ErrDuplicateNationalID
	}
	if err != nil {
		return fmt.Errorf("insert borrower: %w", err)
	}
	return nil
}

// FindByID retrieves a borrower.
func (r *BorrowerRepo) FindByID(ctx context.Context, id string) (model.Borrower, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, national_id, annual_income, credit_score,
		       version, created_at, updated_at
		FROM borrowers
		WHERE id = $1`, id)

	b, err := scanBorrower(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Borrower{}, model.ErrBorrowerNotFound
	}
	if err != nil {
		return model.Borrower{}, fmt.Errorf("query borrower: %w", err)
	}
	return b, nil
}

// UpdateCreditScore stores the score carried by b. The row must still be at
// the version b was derived from.
func (r *BorrowerRepo) UpdateCreditScore(ctx context.Context, b model.Borrower) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE borrowers
		SET credit_score = $2, version = $3, updated_at = $4
		WHERE id = $1 AND version = $5`,
		b.ID(), b.CreditScore().Ptr(), b.Version(), b.UpdatedAt(), b.Version()-1,
	)
	if err != nil {
		return fmt.Errorf("update credit score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConcurrentUpdate
	}
	return nil
}

func scanBorrower(s scannable) (model.Borrower, error) {
	var (
		id, name, email, nationalID string
		income                      decimal.Decimal
		score                       *int
		version                     int
		createdAt, updatedAt        time.Time
	)
	if err := s.Scan(&id, &name, &email, &nationalID, &income, &score, &version, &createdAt, &updatedAt); err != nil {
		return model.Borrower{}, err
	}

	cs, err := valueobject.CreditScoreFromNullable(score)
	if err != nil {
		return model.Borrower{}, fmt.Errorf("borrower %s: %w", id, err)
	}
	return model.ReconstructBorrower(id, name, email, nationalID, income, cs, version, createdAt, updatedAt), nil
}
