package model

import "errors"

// Kind classifies domain errors so that transports can map them onto status
// codes without knowing every sentinel.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusinessRule
	KindPaymentTiming
	KindState
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindPaymentTiming:
		return "payment_timing"
	case KindState:
		return "state"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// DomainError is a sentinel error carrying a stable machine-readable code.
type DomainError struct {
	kind    Kind
	code    string
	message string
}

func newDomainError(kind Kind, code, message string) *DomainError {
	return &DomainError{kind: kind, code: code, message: message}
}

func (e *DomainError) Error() string { return e.message }

// Kind returns the error classification.
func (e *DomainError) Kind() Kind { return e.kind }

// Code returns the stable error code exposed to API clients.
func (e *DomainError) Code() string { return e.code }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	// Eligibility.
	ErrDuplicateLoan         = newDomainError(KindBusinessRule, "DUPLICATE_LOAN", "borrower already has an active loan")
	ErrRateTooLow            = newDomainError(KindBusinessRule, "RATE_TOO_LOW", "interest rate is below the minimum of 14%")
	ErrLowCredit             = newDomainError(KindBusinessRule, "LOW_CREDIT", "credit score is missing or below 450")
	ErrLowIncome             = newDomainError(KindBusinessRule, "LOW_INCOME", "annual income is below 150000")
	ErrInvalidCategory       = newDomainError(KindValidation, "INVALID_CATEGORY", "unknown loan category")
	ErrPrincipalExceedsLimit = newDomainError(KindBusinessRule, "PRINCIPAL_EXCEEDS_LIMIT", "principal exceeds the category limit")

	// Amortization acceptance.
	ErrEmiExceedsIncomeCap = newDomainError(KindBusinessRule, "EMI_EXCEEDS_INCOME_CAP", "monthly installment exceeds 60% of annual income")
	ErrInterestTooLow      = newDomainError(KindBusinessRule, "INTEREST_TOO_LOW", "total interest is below 10000")

	// Payment timing.
	ErrDuplicatePayment   = newDomainError(KindPaymentTiming, "DUPLICATE_PAYMENT", "a payment was already made this month")
	ErrOverdueRejection   = newDomainError(KindPaymentTiming, "OVERDUE", "payment is overdue and cannot be accepted")
	ErrInvalidPaymentDate = newDomainError(KindValidation, "INVALID_PAYMENT_DATE", "payment date precedes the last recorded payment")

	// State.
	ErrLoanNotActive = newDomainError(KindState, "LOAN_NOT_ACTIVE", "loan is not active")

	// Validation.
	ErrValidation           = newDomainError(KindValidation, "VALIDATION_ERROR", "validation failed")
	ErrInvalidPaymentAmount = newDomainError(KindValidation, "INVALID_PAYMENT_AMOUNT", "payment amount must be positive, have at most two decimal places and not exceed the remaining balance")
	ErrDuplicateNationalID  = newDomainError(KindValidation, "DUPLICATE_NATIONAL_ID", "a borrower with this national id is already registered")

	// Lookup and concurrency.
	ErrNotFound         = newDomainError(KindNotFound, "NOT_FOUND", "not found")
	ErrBorrowerNotFound = newDomainError(KindNotFound, "BORROWER_NOT_FOUND", "borrower not found")
	ErrLoanNotFound     = newDomainError(KindNotFound, "LOAN_NOT_FOUND", "loan not found")
	ErrConcurrentUpdate = newDomainError(KindConflict, "CONCURRENT_UPDATE", "loan was modified concurrently")
)

// KindOf returns the Kind of the first DomainError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.kind
	}
	return KindInternal
}

// CodeOf returns the code of the first DomainError in err's chain.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.code
	}
	return "INTERNAL"
}
