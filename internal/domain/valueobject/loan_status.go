package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan. A loan is created
// ACTIVE and becomes CLOSED once its last installment is reconciled. CLOSED is
// terminal.
type LoanStatus struct {
	value string
}

const (
	loanStatusActive = "ACTIVE"
	loanStatusClosed = "CLOSED"
)

var (
	LoanStatusActive = LoanStatus{value: loanStatusActive}
	LoanStatusClosed = LoanStatus{value: loanStatusClosed}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusActive: LoanStatusActive,
	loanStatusClosed: LoanStatusClosed,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// StatusFromActive maps the persisted active flag onto a status.
func StatusFromActive(active bool) LoanStatus {
	if active {
		return LoanStatusActive
	}
	return LoanStatusClosed
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsActive reports whether payments may still be applied.
func (s LoanStatus) IsActive() bool { return s.value == loanStatusActive }

// ---------------------------------------------------------------------------
// TransactionType – immutable value object
// ---------------------------------------------------------------------------

// TransactionType classifies an account transaction feeding the credit scorer.
type TransactionType struct {
	value string
}

const (
	transactionTypeCredit = "CREDIT"
	transactionTypeDebit  = "DEBIT"
)

var (
	TransactionTypeCredit = TransactionType{value: transactionTypeCredit}
	TransactionTypeDebit  = TransactionType{value: transactionTypeDebit}
)

var validTransactionTypes = map[string]TransactionType{
	transactionTypeCredit: TransactionTypeCredit,
	transactionTypeDebit:  TransactionTypeDebit,
}

// NewTransactionType creates a TransactionType from a raw string. Lower-case
// input is accepted.
func NewTransactionType(s string) (TransactionType, error) {
	v, ok := validTransactionTypes[upper(s)]
	if !ok {
		return TransactionType{}, fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
	return v, nil
}

// String returns the string representation.
func (t TransactionType) String() string { return t.value }

// IsZero returns true when not initialised.
func (t TransactionType) IsZero() bool { return t.value == "" }

// Equal returns true when both types match.
func (t TransactionType) Equal(other TransactionType) bool { return t.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidCategory        = errors.New("invalid loan category")
	ErrCreditScoreOutOfRange  = errors.New("credit score out of range")
)
