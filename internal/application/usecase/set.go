package usecase

import (
	"context"

	"github.com/bibbank/lms/internal/application/dto"
)

// Executor is the shape shared by every use case in this package.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Execute calls f.
func (f ExecutorFunc[Req, Resp]) Execute(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Set groups the use cases exposed by the transport layers.
type Set struct {
	RegisterBorrower         Executor[dto.RegisterBorrowerRequest, dto.BorrowerResponse]
	RecordAccountTransaction Executor[dto.RecordAccountTransactionRequest, dto.AccountTransactionResponse]
	ApplyLoan                Executor[dto.ApplyLoanRequest, dto.ApplyLoanResponse]
	MakePayment              Executor[dto.MakePaymentRequest, dto.PaymentResponse]
	GetLoan                  Executor[dto.GetLoanRequest, dto.LoanResponse]
	GetStatement             Executor[dto.GetStatementRequest, dto.StatementResponse]
}

var (
	_ Executor[dto.RegisterBorrowerRequest, dto.BorrowerResponse]                   = (*RegisterBorrowerUseCase)(nil)
	_ Executor[dto.RecordAccountTransactionRequest, dto.AccountTransactionResponse] = (*RecordAccountTransactionUseCase)(nil)
	_ Executor[dto.ComputeCreditScoreRequest, dto.CreditScoreResponse]              = (*ComputeCreditScoreUseCase)(nil)
	_ Executor[dto.ApplyLoanRequest, dto.ApplyLoanResponse]                         = (*ApplyLoanUseCase)(nil)
	_ Executor[dto.MakePaymentRequest, dto.PaymentResponse]                         = (*MakePaymentUseCase)(nil)
	_ Executor[dto.GetLoanRequest, dto.LoanResponse]                                = (*GetLoanUseCase)(nil)
	_ Executor[dto.GetStatementRequest, dto.StatementResponse]                      = (*GetStatementUseCase)(nil)
)
