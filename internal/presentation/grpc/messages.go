package grpc

import "github.com/bibbank/lms/internal/application/dto"

// Amounts travel as decimal strings and dates as DD-MM-YYYY.

type RegisterBorrowerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	NationalID   string `json:"national_id"`
	AnnualIncome string `json:"annual_income"`
}

type RegisterBorrowerResponse struct {
	Borrower dto.BorrowerResponse `json:"borrower"`
}

type RecordAccountTransactionRequest struct {
	NationalID      string `json:"national_id"`
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
	Date            string `json:"date,omitempty"`
}

type RecordAccountTransactionResponse struct {
	Transaction dto.AccountTransactionResponse `json:"transaction"`
}

type ApplyLoanRequest struct {
	BorrowerID       string `json:"borrower_id"`
	LoanType         string `json:"loan_type"`
	LoanAmount       string `json:"loan_amount"`
	InterestRate     string `json:"interest_rate"`
	TermPeriod       int32  `json:"term_period"`
	DisbursementDate string `json:"disbursement_date"`
}

type ApplyLoanResponse struct {
	Loan dto.ApplyLoanResponse `json:"loan"`
}

type MakePaymentRequest struct {
	LoanID      string `json:"loan_id"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"payment_date,omitempty"`
}

type MakePaymentResponse struct {
	Payment dto.PaymentResponse `json:"payment"`
}

type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

type GetLoanResponse struct {
	Loan dto.LoanResponse `json:"loan"`
}

type GetStatementRequest struct {
	LoanID     string `json:"loan_id"`
	BorrowerID string `json:"borrower_id,omitempty"`
}

type GetStatementResponse struct {
	Statement dto.StatementResponse `json:"statement"`
}
