package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/application/usecase"
	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/service"
)

func applyRequest() dto.ApplyLoanRequest {
	return dto.ApplyLoanRequest{
		BorrowerID:    "borrower-1",
		Category:      "PERSONAL",
		Principal:     d("500000"),
		AnnualRate:    d("15"),
		TermMonths:    12,
		DisbursalDate: date(2024, time.January, 15),
	}
}

func TestApplyLoanUseCase_Execute(t *testing.T) {
	t.Run("successfully approves a loan and returns its due dates", func(t *testing.T) {
		loanRepo := newMockLoanRepository()
		publisher := &mockEventPublisher{}
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "1000000", 750)),
			loanRepo, service.NewEligibilityEvaluator(), publisher, testLogger(),
		)

		resp, err := uc.Execute(context.Background(), applyRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.LoanID)
		assert.True(t, d("45129.16").Equal(resp.MonthlyEMI), "emi %s", resp.MonthlyEMI)
		assert.True(t, d("541549.92").Equal(resp.TotalRecoverable), "total %s", resp.TotalRecoverable)
		require.Len(t, resp.DueDates, 12)
		assert.Equal(t, date(2024, time.February, 1), resp.DueDates[0].Date)
		assert.Equal(t, date(2025, time.January, 1), resp.DueDates[11].Date)
		assert.True(t, d("45129.16").Equal(resp.DueDates[0].AmountDue))
		assert.True(t, d("45129.16").Equal(resp.DueDates[11].AmountDue))

		require.Len(t, loanRepo.created, 1)
		assert.Equal(t, resp.LoanID, loanRepo.created[0].ID())
		assert.True(t, loanRepo.created[0].RemainingBalance().Equal(resp.TotalRecoverable))
		assert.Equal(t, []string{event.TypeLoanApproved}, publisher.types())
	})

	t.Run("rejects a borrower that already holds an active loan", func(t *testing.T) {
		loanRepo := newMockLoanRepository(activeLoan(t))
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "1000000", 750)),
			loanRepo, service.NewEligibilityEvaluator(), &mockEventPublisher{}, testLogger(),
		)

		_, err := uc.Execute(context.Background(), applyRequest())
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrDuplicateLoan)
		assert.Empty(t, loanRepo.created)
	})

	t.Run("rejects a low credit score", func(t *testing.T) {
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "1000000", 440)),
			newMockLoanRepository(), service.NewEligibilityEvaluator(), &mockEventPublisher{}, testLogger(),
		)

		_, err := uc.Execute(context.Background(), applyRequest())
		assert.ErrorIs(t, err, model.ErrLowCredit)
		assert.Equal(t, model.KindBusinessRule, model.KindOf(err))
	})

	t.Run("rejects when total interest is below the minimum", func(t *testing.T) {
		req := applyRequest()
		req.Principal = d("100000")
		req.AnnualRate = d("14")
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "1000000", 750)),
			newMockLoanRepository(), service.NewEligibilityEvaluator(), &mockEventPublisher{}, testLogger(),
		)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrInterestTooLow)
		assert.Contains(t, err.Error(), "acceptance")
	})

	t.Run("rejects an EMI above the income cap", func(t *testing.T) {
		// 0.6 * 150000 = 90000 and a 5,000,000 HOME loan at 15% over 12 months
		// needs 451291.56 a month.
		req := applyRequest()
		req.Category = "HOME"
		req.Principal = d("5000000")
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "150000", 750)),
			newMockLoanRepository(), service.NewEligibilityEvaluator(), &mockEventPublisher{}, testLogger(),
		)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrEmiExceedsIncomeCap)
	})

	t.Run("returns error when the borrower is missing", func(t *testing.T) {
		uc := usecase.NewApplyLoanUseCase(
			&mockBorrowerRepository{}, newMockLoanRepository(),
			service.NewEligibilityEvaluator(), &mockEventPublisher{}, testLogger(),
		)

		_, err := uc.Execute(context.Background(), applyRequest())
		assert.ErrorIs(t, err, model.ErrBorrowerNotFound)
		assert.Contains(t, err.Error(), "find borrower")
	})

	t.Run("returns the repository conflict when a concurrent application won", func(t *testing.T) {
		loanRepo := newMockLoanRepository()
		loanRepo.createFunc = func(context.Context, model.Loan) error {
			return model.ErrDuplicateLoan
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "1000000", 750)),
			loanRepo, service.NewEligibilityEvaluator(), publisher, testLogger(),
		)

		_, err := uc.Execute(context.Background(), applyRequest())
		assert.ErrorIs(t, err, model.ErrDuplicateLoan)
		assert.Contains(t, err.Error(), "save loan")
		assert.Empty(t, publisher.types())
	})

	t.Run("still succeeds when publishing fails", func(t *testing.T) {
		uc := usecase.NewApplyLoanUseCase(
			borrowerRepoWith(scoredBorrower(t, "1000000", 750)),
			newMockLoanRepository(), service.NewEligibilityEvaluator(),
			&mockEventPublisher{publishErr: errors.New("broker down")}, testLogger(),
		)

		_, err := uc.Execute(context.Background(), applyRequest())
		require.NoError(t, err)
	})
}
