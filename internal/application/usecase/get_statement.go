package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/internal/domain/service"
)

// GetStatementUseCase renders a loan statement.
type GetStatementUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	builder     *service.StatementBuilder
	logger      *slog.Logger
}

// NewGetStatementUseCase wires dependencies.
func NewGetStatementUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	builder *service.StatementBuilder,
	logger *slog.Logger,
) *GetStatementUseCase {
	return &GetStatementUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		builder:     builder,
		logger:      logger,
	}
}

// Execute returns past payments and upcoming installments for an active loan.
func (uc *GetStatementUseCase) Execute(ctx context.Context, req dto.GetStatementRequest) (resp dto.StatementResponse, err error) {
	ctx, span := startSpan(ctx, "GetStatement")
	defer func() { endSpan(span, err) }()

	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.StatementResponse{}, fmt.Errorf("find loan: %w", err)
	}
	if req.BorrowerID != "" && req.BorrowerID != loan.BorrowerID() {
		// Do not reveal loans that belong to someone else.
		return dto.StatementResponse{}, fmt.Errorf("find loan: %w", model.ErrLoanNotFound)
	}

	payments, err := uc.paymentRepo.ListByLoanID(ctx, loan.ID())
	if err != nil {
		return dto.StatementResponse{}, fmt.Errorf("list payments: %w", err)
	}

	statement, err := uc.builder.Build(loan, payments)
	if err != nil {
		return dto.StatementResponse{}, fmt.Errorf("build statement: %w", err)
	}

	return toStatementResponse(statement), nil
}
