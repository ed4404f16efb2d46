package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/service"
	"github.com/bibbank/lms/internal/domain/valueobject"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newLoan(t *testing.T, principal string, term int) model.Loan {
	t.Helper()
	disbursal := date(2024, 3, 15)
	plan, err := model.GenerateAmortizationPlan(d(principal), d("15"), term, disbursal)
	require.NoError(t, err)
	loan, err := model.NewLoan("borrower-1", valueobject.LoanCategoryPersonal, d(principal), d("15"), term, disbursal, plan, testNow)
	require.NoError(t, err)
	return loan
}

func TestPaymentReconciler_Reconcile(t *testing.T) {
	r := service.NewPaymentReconciler()

	t.Run("first payment is never rejected for timing", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)

		// Far in the future: no previous payment to compare against.
		updated, payment, err := r.Reconcile(loan, d("45129.16"), date(2026, 1, 20), testNow)
		require.NoError(t, err)
		assert.True(t, payment.BalanceAfter().Equal(payment.BalanceBefore().Sub(d("45129.16"))))
		assert.Equal(t, 11, updated.InstallmentsRemaining())
	})

	t.Run("second payment in the same month is a duplicate", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		loan, _, err := r.Reconcile(loan, d("45129.16"), date(2024, 4, 2), testNow)
		require.NoError(t, err)

		_, _, err = r.Reconcile(loan, d("45129.16"), date(2024, 4, 28), testNow)
		assert.ErrorIs(t, err, model.ErrDuplicatePayment)
	})

	t.Run("duplicate is reported even for an earlier day", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		loan, _, err := r.Reconcile(loan, d("45129.16"), date(2024, 4, 20), testNow)
		require.NoError(t, err)

		_, _, err = r.Reconcile(loan, d("45129.16"), date(2024, 4, 1), testNow)
		assert.ErrorIs(t, err, model.ErrDuplicatePayment)
	})

	t.Run("payment dated before the last one is rejected", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		loan, _, err := r.Reconcile(loan, d("45129.16"), date(2024, 5, 3), testNow)
		require.NoError(t, err)

		_, _, err = r.Reconcile(loan, d("45129.16"), date(2024, 4, 3), testNow)
		assert.ErrorIs(t, err, model.ErrInvalidPaymentDate)
	})

	t.Run("next month is accepted", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		loan, _, err := r.Reconcile(loan, d("45129.16"), date(2024, 4, 15), testNow)
		require.NoError(t, err)

		// One full month and 29 days later is still in time.
		loan, _, err = r.Reconcile(loan, d("45129.16"), date(2024, 6, 14), testNow)
		require.NoError(t, err)
		assert.Equal(t, 10, loan.InstallmentsRemaining())
	})

	t.Run("two full months elapsed is overdue", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		loan, _, err := r.Reconcile(loan, d("45129.16"), date(2024, 4, 15), testNow)
		require.NoError(t, err)

		before := loan
		_, _, err = r.Reconcile(loan, d("45129.16"), date(2024, 6, 15), testNow)
		assert.ErrorIs(t, err, model.ErrOverdueRejection)
		assert.Equal(t, before.InstallmentsRemaining(), loan.InstallmentsRemaining(), "rejected payment changes nothing")
	})

	t.Run("closed loan is rejected", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		loan, _, err := r.Reconcile(loan, loan.RemainingBalance(), date(2024, 4, 1), testNow)
		require.NoError(t, err)

		_, _, err = r.Reconcile(loan, d("1"), date(2024, 5, 1), testNow)
		assert.ErrorIs(t, err, model.ErrLoanNotActive)
	})

	t.Run("full lifecycle closes after the last installment", func(t *testing.T) {
		loan := newLoan(t, "500000", 12)
		paidAt := date(2024, 4, 1)
		for i := 0; i < 12; i++ {
			require.True(t, loan.IsActive())
			amount := loan.MonthlyEMI()
			if loan.RemainingBalance().LessThan(amount) {
				amount = loan.RemainingBalance()
			}
			var err error
			loan, _, err = r.Reconcile(loan, amount, paidAt, testNow)
			require.NoError(t, err, "installment %d", i+1)
			paidAt = model.AddMonthsPinned(paidAt, 1)
		}
		assert.False(t, loan.IsActive())
		assert.True(t, loan.RemainingBalance().IsZero())
	})
}

func TestPaymentReconciler_OverdueBoundary(t *testing.T) {
	r := service.NewPaymentReconciler()

	tests := []struct {
		name    string
		paidAt  time.Time
		wantErr error
	}{
		{"day before the second anniversary is in time", date(2025, 3, 14), nil},
		{"second anniversary is overdue", date(2025, 3, 15), model.ErrOverdueRejection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := newLoan(t, "500000", 12)
			loan, _, err := r.Reconcile(loan, d("45129.16"), date(2025, 1, 15), testNow)
			require.NoError(t, err)

			updated, _, err := r.Reconcile(loan, d("45129.16"), tt.paidAt, testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 10, updated.InstallmentsRemaining())
		})
	}
}
