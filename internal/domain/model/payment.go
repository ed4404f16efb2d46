package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger entry. Payments are only ever appended.
type Payment struct {
	id            string
	loanID        string
	borrowerID    string
	amount        decimal.Decimal
	paidAt        time.Time
	balanceBefore decimal.Decimal
	balanceAfter  decimal.Decimal
}

// NewPayment creates a ledger entry with a generated ID.
func NewPayment(loanID, borrowerID string, amount decimal.Decimal, paidAt time.Time, before, after decimal.Decimal) Payment {
	return ReconstructPayment(uuid.New().String(), loanID, borrowerID, amount, paidAt, before, after)
}

// ReconstructPayment rebuilds a Payment from persistence.
func ReconstructPayment(id, loanID, borrowerID string, amount decimal.Decimal, paidAt time.Time, before, after decimal.Decimal) Payment {
	return Payment{
		id:            id,
		loanID:        loanID,
		borrowerID:    borrowerID,
		amount:        amount,
		paidAt:        paidAt,
		balanceBefore: before,
		balanceAfter:  after,
	}
}

func (p Payment) ID() string                     { return p.id }
func (p Payment) LoanID() string                 { return p.loanID }
func (p Payment) BorrowerID() string             { return p.borrowerID }
func (p Payment) Amount() decimal.Decimal        { return p.amount }
func (p Payment) PaidAt() time.Time              { return p.paidAt }
func (p Payment) BalanceBefore() decimal.Decimal { return p.balanceBefore }
func (p Payment) BalanceAfter() decimal.Decimal  { return p.balanceAfter }
