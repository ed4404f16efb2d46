package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/application/usecase"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/pkg/auth"
	"github.com/bibbank/lms/pkg/money"
)

const dateLayout = "02-01-2006"

// LoanHandler implements LoanServiceServer on top of the use cases.
type LoanHandler struct {
	UnimplementedLoanServiceServer

	uc     usecase.Set
	logger *slog.Logger
}

// NewLoanHandler creates a new handler with all use-case dependencies.
func NewLoanHandler(uc usecase.Set, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, logger: logger}
}

// RegisterBorrower onboards a borrower.
func (h *LoanHandler) RegisterBorrower(ctx context.Context, req *RegisterBorrowerRequest) (*RegisterBorrowerResponse, error) {
	income, err := parseAmount("annual_income", req.AnnualIncome)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	resp, err := h.uc.RegisterBorrower.Execute(ctx, dto.RegisterBorrowerRequest{
		Name:         req.Name,
		Email:        req.Email,
		NationalID:   req.NationalID,
		AnnualIncome: income,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &RegisterBorrowerResponse{Borrower: resp}, nil
}

// RecordAccountTransaction appends to the scoring feed.
func (h *LoanHandler) RecordAccountTransaction(ctx context.Context, req *RecordAccountTransactionRequest) (*RecordAccountTransactionResponse, error) {
	if _, ok := auth.BorrowerScope(ctx); ok {
		return nil, status.Error(codes.PermissionDenied, "account transactions are recorded by staff only")
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	occurredAt, err := parseOptionalDate("date", req.Date)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	in := dto.RecordAccountTransactionRequest{
		NationalID: req.NationalID,
		Type:       req.TransactionType,
		Amount:     amount,
	}
	if occurredAt != nil {
		in.OccurredAt = *occurredAt
	}

	resp, err := h.uc.RecordAccountTransaction.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &RecordAccountTransactionResponse{Transaction: resp}, nil
}

// ApplyLoan evaluates and, when eligible, creates a loan.
func (h *LoanHandler) ApplyLoan(ctx context.Context, req *ApplyLoanRequest) (*ApplyLoanResponse, error) {
	if scoped, ok := auth.BorrowerScope(ctx); ok && scoped != req.BorrowerID {
		return nil, status.Error(codes.PermissionDenied, "cannot apply on behalf of another borrower")
	}

	principal, err := parseAmount("loan_amount", req.LoanAmount)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	rate, err := parseAmount("interest_rate", req.InterestRate)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	disbursal, err := parseOptionalDate("disbursement_date", req.DisbursementDate)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if disbursal == nil {
		return nil, status.Error(codes.InvalidArgument, "disbursement_date is required")
	}

	resp, err := h.uc.ApplyLoan.Execute(ctx, dto.ApplyLoanRequest{
		BorrowerID:    req.BorrowerID,
		Category:      req.LoanType,
		Principal:     principal,
		AnnualRate:    rate,
		TermMonths:    int(req.TermPeriod),
		DisbursalDate: *disbursal,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &ApplyLoanResponse{Loan: resp}, nil
}

// MakePayment reconciles a payment against a loan.
func (h *LoanHandler) MakePayment(ctx context.Context, req *MakePaymentRequest) (*MakePaymentResponse, error) {
	if err := h.checkOwner(ctx, req.LoanID); err != nil {
		return nil, err
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	paidAt, err := parseOptionalDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	resp, err := h.uc.MakePayment.Execute(ctx, dto.MakePaymentRequest{
		LoanID:      req.LoanID,
		Amount:      amount,
		PaymentDate: paidAt,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &MakePaymentResponse{Payment: resp}, nil
}

// GetLoan retrieves a loan by ID.
func (h *LoanHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	resp, err := h.uc.GetLoan.Execute(ctx, dto.GetLoanRequest{LoanID: req.LoanID})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if scoped, ok := auth.BorrowerScope(ctx); ok && scoped != resp.BorrowerID {
		return nil, h.toStatus(ctx, model.ErrLoanNotFound)
	}
	return &GetLoanResponse{Loan: resp}, nil
}

// GetStatement returns past and upcoming transactions for a loan.
func (h *LoanHandler) GetStatement(ctx context.Context, req *GetStatementRequest) (*GetStatementResponse, error) {
	in := dto.GetStatementRequest{LoanID: req.LoanID, BorrowerID: req.BorrowerID}
	if scoped, ok := auth.BorrowerScope(ctx); ok {
		in.BorrowerID = scoped
	}

	resp, err := h.uc.GetStatement.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &GetStatementResponse{Statement: resp}, nil
}

func (h *LoanHandler) checkOwner(ctx context.Context, loanID string) error {
	scoped, ok := auth.BorrowerScope(ctx)
	if !ok {
		return nil
	}
	loan, err := h.uc.GetLoan.Execute(ctx, dto.GetLoanRequest{LoanID: loanID})
	if err == nil && loan.BorrowerID != scoped {
		err = model.ErrLoanNotFound
	}
	if err != nil {
		return h.toStatus(ctx, err)
	}
	return nil
}

// toStatus maps domain errors onto gRPC status codes. Internal errors are
// logged and replaced with a generic message.
func (h *LoanHandler) toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch model.KindOf(err) {
	case model.KindValidation:
		code = codes.InvalidArgument
	case model.KindBusinessRule, model.KindPaymentTiming, model.KindState:
		code = codes.FailedPrecondition
	case model.KindNotFound:
		code = codes.NotFound
	case model.KindConflict:
		code = codes.Aborted
	default:
		h.logger.ErrorContext(ctx, "rpc failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Errorf(code, "%s: %v", model.CodeOf(err), err)
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", model.ErrValidation, field, err)
	}
	return d, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be DD-MM-YYYY", model.ErrValidation, field)
	}
	return &t, nil
}
