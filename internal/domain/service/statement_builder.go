package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/pkg/money"
)

// PastTransaction is one reconciled payment as shown on a statement.
type PastTransaction struct {
	Date         time.Time
	AmountPaid   decimal.Decimal
	InterestRate decimal.Decimal
	BalanceAfter decimal.Decimal
}

// UpcomingInstallment is a projected future payment.
type UpcomingInstallment struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

// Statement is the borrower-facing view of a loan.
type Statement struct {
	LoanID     string
	BorrowerID string
	Past       []PastTransaction
	Upcoming   []UpcomingInstallment
}

// StatementBuilder renders statements for active loans.
type StatementBuilder struct{}

// NewStatementBuilder returns a new builder instance.
func NewStatementBuilder() *StatementBuilder {
	return &StatementBuilder{}
}

// Build lists the payments recorded against loan, in ledger order, followed by
// the installments still owed. Each upcoming installment is the remaining
// balance split evenly over the installments remaining, dated monthly from the
// next due date. Closed loans have no statement.
func (b *StatementBuilder) Build(loan model.Loan, payments []model.Payment) (Statement, error) {
	if !loan.IsActive() {
		return Statement{}, model.ErrLoanNotActive
	}

	past := make([]PastTransaction, 0, len(payments))
	for _, p := range payments {
		past = append(past, PastTransaction{
			Date:         p.PaidAt(),
			AmountPaid:   p.Amount(),
			InterestRate: loan.AnnualRate(),
			BalanceAfter: p.BalanceAfter(),
		})
	}

	return Statement{
		LoanID:     loan.ID(),
		BorrowerID: loan.BorrowerID(),
		Past:       past,
		Upcoming:   upcoming(loan.Schedule(), loan.RemainingBalance()),
	}, nil
}

func upcoming(s model.LoanSchedule, balance decimal.Decimal) []UpcomingInstallment {
	n := s.InstallmentsRemaining
	if n <= 0 || s.NextDueDate == nil {
		return []UpcomingInstallment{}
	}

	amount := money.Round(balance.Div(decimal.NewFromInt(int64(n))))
	out := make([]UpcomingInstallment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, UpcomingInstallment{
			DueDate: model.AddMonthsPinned(*s.NextDueDate, i),
			Amount:  amount,
		})
	}
	return out
}
