package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/valueobject"
)

const testNationalID = "7d1b6a52-9a43-4d6e-9f1c-2b0c3a4e5f60"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func scoredBorrower(t *testing.T, income string, score int) model.Borrower {
	t.Helper()
	cs, err := valueobject.NewCreditScore(score)
	require.NoError(t, err)
	now := time.Now().UTC()
	return model.ReconstructBorrower("borrower-1", "Asha Rao", "asha@example.com", testNationalID, d(income), cs, 2, now, now)
}

func borrowerRepoWith(b model.Borrower) *mockBorrowerRepository {
	return &mockBorrowerRepository{
		findByIDFunc: func(_ context.Context, id string) (model.Borrower, error) {
			if id != b.ID() {
				return model.Borrower{}, model.ErrBorrowerNotFound
			}
			return b, nil
		},
	}
}

// activeLoan is a 500000 at 15% over 12 months, disbursed 15 Jan 2024, so the
// first installment of 45129.16 is due 1 Feb 2024.
func activeLoan(t *testing.T) model.Loan {
	t.Helper()
	disbursal := date(2024, time.January, 15)
	plan, err := model.GenerateAmortizationPlan(d("500000"), d("15"), 12, disbursal)
	require.NoError(t, err)
	loan, err := model.NewLoan("borrower-1", valueobject.LoanCategoryPersonal, d("500000"), d("15"), 12, disbursal, plan, disbursal)
	require.NoError(t, err)
	return loan.ClearEvents()
}
