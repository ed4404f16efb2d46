package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/valueobject"
	"github.com/bibbank/lms/pkg/money"
)

// AccountTransaction is an append-only credit or debit on a borrower's bank
// account, keyed by national id. The credit scorer sums these.
type AccountTransaction struct {
	ID         string
	NationalID string
	Type       valueobject.TransactionType
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// NewAccountTransaction validates a transaction before it is recorded.
func NewAccountTransaction(nationalID string, txType valueobject.TransactionType, amount decimal.Decimal, occurredAt time.Time) (AccountTransaction, error) {
	if _, err := uuid.Parse(nationalID); err != nil {
		return AccountTransaction{}, fmt.Errorf("%w: national id must be a UUID", ErrValidation)
	}
	if txType.IsZero() {
		return AccountTransaction{}, fmt.Errorf("%w: transaction type is required", ErrValidation)
	}
	if !money.IsPositive(amount) {
		return AccountTransaction{}, fmt.Errorf("%w: transaction amount must be positive", ErrValidation)
	}
	if !money.FitsScale(amount) {
		return AccountTransaction{}, fmt.Errorf("%w: transaction amount has more than two decimal places", ErrValidation)
	}
	return AccountTransaction{
		ID:         uuid.New().String(),
		NationalID: nationalID,
		Type:       txType,
		Amount:     amount,
		OccurredAt: occurredAt,
	}, nil
}

// AccountTotals holds the summed credits and debits for one national id.
type AccountTotals struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
}

// NetBalance is credits minus debits.
func (t AccountTotals) NetBalance() decimal.Decimal {
	return t.Credits.Sub(t.Debits)
}
