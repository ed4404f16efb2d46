package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	TypeBorrowerRegistered   = "lms.borrower.registered"
	TypeBorrowerCreditScored = "lms.borrower.credit_scored"
	TypeLoanApproved         = "lms.loan.approved"
	TypePaymentReceived      = "lms.loan.payment_received"
	TypeLoanClosed           = "lms.loan.closed"
)

// ---------------------------------------------------------------------------
// Borrower Events
// ---------------------------------------------------------------------------

// BorrowerRegistered is raised when a new borrower is onboarded.
type BorrowerRegistered struct {
	events.BaseEvent
	NationalID   string          `json:"national_id"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
}

func NewBorrowerRegistered(borrowerID, nationalID string, annualIncome decimal.Decimal) BorrowerRegistered {
	return BorrowerRegistered{
		BaseEvent:    events.NewBaseEvent(TypeBorrowerRegistered, borrowerID, "Borrower"),
		NationalID:   nationalID,
		AnnualIncome: annualIncome,
	}
}

// BorrowerCreditScored is raised when the asynchronous scorer stores a score.
type BorrowerCreditScored struct {
	events.BaseEvent
	CreditScore int             `json:"credit_score"`
	NetBalance  decimal.Decimal `json:"net_balance"`
}

func NewBorrowerCreditScored(borrowerID string, score int, netBalance decimal.Decimal) BorrowerCreditScored {
	return BorrowerCreditScored{
		BaseEvent:   events.NewBaseEvent(TypeBorrowerCreditScored, borrowerID, "Borrower"),
		CreditScore: score,
		NetBalance:  netBalance,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanApproved is raised when an application passes eligibility and the
// amortization checks and a loan is created.
type LoanApproved struct {
	FirstDueDate time.Time `json:"first_due_date"`
	events.BaseEvent
	BorrowerID       string          `json:"borrower_id"`
	Category         string          `json:"category"`
	Principal        decimal.Decimal `json:"principal"`
	AnnualRate       decimal.Decimal `json:"annual_rate"`
	TermMonths       int             `json:"term_months"`
	MonthlyEMI       decimal.Decimal `json:"monthly_emi"`
	TotalRecoverable decimal.Decimal `json:"total_recoverable"`
}

func NewLoanApproved(
	loanID, borrowerID, category string,
	principal, annualRate decimal.Decimal,
	termMonths int,
	emi, total decimal.Decimal,
	firstDue time.Time,
) LoanApproved {
	return LoanApproved{
		BaseEvent:        events.NewBaseEvent(TypeLoanApproved, loanID, "Loan"),
		BorrowerID:       borrowerID,
		Category:         category,
		Principal:        principal,
		AnnualRate:       annualRate,
		TermMonths:       termMonths,
		MonthlyEMI:       emi,
		TotalRecoverable: total,
		FirstDueDate:     firstDue,
	}
}

// PaymentReceived is raised when a payment is reconciled against a loan.
type PaymentReceived struct {
	PaymentDate time.Time `json:"payment_date"`
	events.BaseEvent
	PaymentID             string           `json:"payment_id"`
	Amount                decimal.Decimal  `json:"amount"`
	RemainingBalance      decimal.Decimal  `json:"remaining_balance"`
	InstallmentsRemaining int              `json:"installments_remaining"`
	NextDueAmount         *decimal.Decimal `json:"next_due_amount,omitempty"`
}

func NewPaymentReceived(
	loanID, paymentID string,
	amount, remaining decimal.Decimal,
	installmentsRemaining int,
	nextDueAmount *decimal.Decimal,
	paidAt time.Time,
) PaymentReceived {
	return PaymentReceived{
		BaseEvent:             events.NewBaseEvent(TypePaymentReceived, loanID, "Loan"),
		PaymentID:             paymentID,
		Amount:                amount,
		RemainingBalance:      remaining,
		InstallmentsRemaining: installmentsRemaining,
		NextDueAmount:         nextDueAmount,
		PaymentDate:           paidAt,
	}
}

// LoanClosed is raised when the final installment is reconciled.
type LoanClosed struct {
	events.BaseEvent
	BorrowerID       string          `json:"borrower_id"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

func NewLoanClosed(loanID, borrowerID string, remaining decimal.Decimal) LoanClosed {
	return LoanClosed{
		BaseEvent:        events.NewBaseEvent(TypeLoanClosed, loanID, "Loan"),
		BorrowerID:       borrowerID,
		RemainingBalance: remaining,
	}
}
