package port

import (
	"context"

	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// BorrowerRepository persists and retrieves borrowers.
type BorrowerRepository interface {
	// Create inserts a new borrower. A national id that is already registered
	// yields model.ErrDuplicateNationalID.
	Create(ctx context.Context, borrower model.Borrower) error
	FindByID(ctx context.Context, id string) (model.Borrower, error)
	// UpdateCreditScore stores the borrower's score, guarded by its version.
	UpdateCreditScore(ctx context.Context, borrower model.Borrower) error
}

// PaymentMutation derives the next loan state and the payment that produced
// it from the current, locked loan.
type PaymentMutation func(current model.Loan) (model.Loan, model.Payment, error)

// LoanRepository persists and retrieves loans with their schedules.
type LoanRepository interface {
	// Create inserts a loan, its schedule and its installments atomically. A
	// borrower that already holds an active loan yields model.ErrDuplicateLoan.
	Create(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	HasActiveLoan(ctx context.Context, borrowerID string) (bool, error)
	// ApplyPayment locks the loan, runs fn against its current state and
	// persists the resulting loan and payment in a single transaction. Nothing
	// is written when fn fails.
	ApplyPayment(ctx context.Context, loanID string, fn PaymentMutation) (model.Loan, model.Payment, error)
}

// PaymentRepository reads the append-only payment ledger.
type PaymentRepository interface {
	// ListByLoanID returns payments in the order they were recorded.
	ListByLoanID(ctx context.Context, loanID string) ([]model.Payment, error)
}

// AccountTransactionRepository stores the account feed used for credit scoring.
type AccountTransactionRepository interface {
	Record(ctx context.Context, tx model.AccountTransaction) error
	TotalsByNationalID(ctx context.Context, nationalID string) (model.AccountTotals, error)
}

// ---------------------------------------------------------------------------
// Messaging ports
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// CreditScoreQueue schedules asynchronous credit score computation. Delivery
// is at-least-once, so handlers must be idempotent.
type CreditScoreQueue interface {
	Enqueue(ctx context.Context, borrowerID string) error
}

// ---------------------------------------------------------------------------
// Coordination ports
// ---------------------------------------------------------------------------

// LoanLocker serialises payment processing per loan across processes.
type LoanLocker interface {
	// Lock blocks until the loan is held or ctx is done. The returned func
	// releases the lock.
	Lock(ctx context.Context, loanID string) (unlock func(), err error)
}
