package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/model"
)

// ---------------------------------------------------------------------------
// PaymentReconciler – applies one payment to a loan
// ---------------------------------------------------------------------------

// PaymentReconciler enforces payment timing and delegates the balance and
// schedule mutation to the loan aggregate. It holds no state and performs no
// I/O, so the caller decides how the result is persisted.
type PaymentReconciler struct{}

// NewPaymentReconciler returns a new reconciler instance.
func NewPaymentReconciler() *PaymentReconciler {
	return &PaymentReconciler{}
}

// Reconcile applies a payment of amount made at paidAt. The first payment on
// a loan is never rejected for timing. Afterwards a payment is rejected when
// one was already made in the same calendar month, or when more than one full
// month has passed since the previous payment.
func (r *PaymentReconciler) Reconcile(loan model.Loan, amount decimal.Decimal, paidAt, now time.Time) (model.Loan, model.Payment, error) {
	if !loan.IsActive() {
		return loan, model.Payment{}, model.ErrLoanNotActive
	}

	if last, ok := loan.LastPaymentDate(); ok {
		if err := checkTiming(last, paidAt); err != nil {
			return loan, model.Payment{}, err
		}
	}

	return loan.ApplyPayment(amount, paidAt, now)
}

func checkTiming(last, paidAt time.Time) error {
	if model.SameMonth(last, paidAt) {
		return fmt.Errorf("%w: last payment %s", model.ErrDuplicatePayment, last.Format(time.DateOnly))
	}
	if model.DateOnly(paidAt).Before(model.DateOnly(last)) {
		return fmt.Errorf("%w: last payment %s", model.ErrInvalidPaymentDate, last.Format(time.DateOnly))
	}
	if months := model.FullMonthsBetween(last, paidAt); months > 1 {
		return fmt.Errorf("%w: %d months since last payment", model.ErrOverdueRejection, months)
	}
	return nil
}
