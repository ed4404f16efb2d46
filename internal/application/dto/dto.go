package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterBorrowerRequest carries the data needed to onboard a borrower.
type RegisterBorrowerRequest struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	NationalID   string          `json:"national_id"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
}

// RecordAccountTransactionRequest carries one credit or debit for the scorer feed.
type RecordAccountTransactionRequest struct {
	NationalID string          `json:"national_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ComputeCreditScoreRequest identifies the borrower to score.
type ComputeCreditScoreRequest struct {
	BorrowerID string `json:"borrower_id"`
}

// ApplyLoanRequest carries a loan application.
type ApplyLoanRequest struct {
	BorrowerID    string          `json:"borrower_id"`
	Category      string          `json:"category"`
	Principal     decimal.Decimal `json:"principal"`
	AnnualRate    decimal.Decimal `json:"annual_rate"`
	TermMonths    int             `json:"term_months"`
	DisbursalDate time.Time       `json:"disbursal_date"`
}

// MakePaymentRequest carries the data for a loan payment. PaymentDate
// defaults to the current time when nil.
type MakePaymentRequest struct {
	LoanID      string          `json:"loan_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

// GetStatementRequest identifies a loan statement. When BorrowerID is set it
// must own the loan.
type GetStatementRequest struct {
	BorrowerID string `json:"borrower_id,omitempty"`
	LoanID     string `json:"loan_id"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// BorrowerResponse is the external representation of a borrower.
type BorrowerResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	NationalID   string          `json:"national_id"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
	CreditScore  *int            `json:"credit_score"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AccountTransactionResponse acknowledges a recorded transaction.
type AccountTransactionResponse struct {
	ID         string          `json:"id"`
	NationalID string          `json:"national_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// CreditScoreResponse reports a computed score.
type CreditScoreResponse struct {
	BorrowerID  string          `json:"borrower_id"`
	CreditScore int             `json:"credit_score"`
	NetBalance  decimal.Decimal `json:"net_balance"`
}

// DueDateResponse is one scheduled installment.
type DueDateResponse struct {
	Date      time.Time       `json:"date"`
	AmountDue decimal.Decimal `json:"amount_due"`
}

// ApplyLoanResponse is returned when a loan is approved.
type ApplyLoanResponse struct {
	LoanID           string            `json:"loan_id"`
	MonthlyEMI       decimal.Decimal   `json:"monthly_emi"`
	TotalRecoverable decimal.Decimal   `json:"total_recoverable"`
	DueDates         []DueDateResponse `json:"due_dates"`
}

// PaymentResponse reports the loan state after a payment.
type PaymentResponse struct {
	LoanID                string           `json:"loan_id"`
	PaymentID             string           `json:"payment_id"`
	AmountPaid            decimal.Decimal  `json:"amount_paid"`
	RemainingBalance      decimal.Decimal  `json:"remaining_balance"`
	InstallmentsRemaining int              `json:"installments_remaining"`
	NextDueDate           *time.Time       `json:"next_due_date"`
	NextDueAmount         *decimal.Decimal `json:"next_due_amount"`
	LoanStatus            string           `json:"loan_status"`
	Message               string           `json:"message"`
}

// PastTransactionResponse is one reconciled payment on a statement.
type PastTransactionResponse struct {
	Date         time.Time       `json:"date"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Balance      decimal.Decimal `json:"balance"`
}

// UpcomingTransactionResponse is one projected installment on a statement.
type UpcomingTransactionResponse struct {
	Date      time.Time       `json:"date"`
	AmountDue decimal.Decimal `json:"amount_due"`
}

// StatementResponse is the external representation of a loan statement.
type StatementResponse struct {
	LoanID               string                        `json:"loan_id"`
	PastTransactions     []PastTransactionResponse     `json:"past_transactions"`
	UpcomingTransactions []UpcomingTransactionResponse `json:"upcoming_transactions"`
}

// LoanResponse is the external representation of a loan and its schedule state.
type LoanResponse struct {
	ID                    string           `json:"id"`
	BorrowerID            string           `json:"borrower_id"`
	Category              string           `json:"category"`
	Principal             decimal.Decimal  `json:"principal"`
	AnnualRate            decimal.Decimal  `json:"annual_rate"`
	TermMonths            int              `json:"term_months"`
	DisbursalDate         time.Time        `json:"disbursal_date"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	MonthlyEMI            decimal.Decimal  `json:"monthly_emi"`
	TotalRecoverable      decimal.Decimal  `json:"total_recoverable"`
	RemainingBalance      decimal.Decimal  `json:"remaining_balance"`
	InstallmentsRemaining int              `json:"installments_remaining"`
	NextDueDate           *time.Time       `json:"next_due_date"`
	NextDueAmount         *decimal.Decimal `json:"next_due_amount"`
	LastPaymentDate       *time.Time       `json:"last_payment_date"`
	Status                string           `json:"status"`
	Version               int              `json:"version"`
}
