package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/internal/domain/service"
)

// MakePaymentUseCase reconciles a payment against a loan.
type MakePaymentUseCase struct {
	loanRepo   port.LoanRepository
	locker     port.LoanLocker
	reconciler *service.PaymentReconciler
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewMakePaymentUseCase wires dependencies.
func NewMakePaymentUseCase(
	loanRepo port.LoanRepository,
	locker port.LoanLocker,
	reconciler *service.PaymentReconciler,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *MakePaymentUseCase {
	return &MakePaymentUseCase{
		loanRepo:   loanRepo,
		locker:     locker,
		reconciler: reconciler,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute processes a payment. Payments on the same loan are serialised by the
// locker, and the ledger entry and loan update are committed together.
func (uc *MakePaymentUseCase) Execute(ctx context.Context, req dto.MakePaymentRequest) (resp dto.PaymentResponse, err error) {
	ctx, span := startSpan(ctx, "MakePayment", attribute.String("loan_id", req.LoanID))
	defer func() {
		paymentOutcomes.Add(ctx, 1, metricAttrs(outcome(err)))
		endSpan(span, err)
	}()

	now := time.Now().UTC()
	paidAt := now
	if req.PaymentDate != nil {
		paidAt = req.PaymentDate.UTC()
	}

	// 1. Serialise with other payments on this loan.
	unlock, err := uc.locker.Lock(ctx, req.LoanID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("lock loan: %w", err)
	}
	defer unlock()

	// 2. Reconcile and persist atomically.
	loan, payment, err := uc.loanRepo.ApplyPayment(ctx, req.LoanID, func(current model.Loan) (model.Loan, model.Payment, error) {
		return uc.reconciler.Reconcile(current, req.Amount, paidAt, now)
	})
	if err != nil {
		uc.logger.InfoContext(ctx, "payment rejected",
			"loan_id", req.LoanID,
			"reason", model.CodeOf(err),
		)
		return dto.PaymentResponse{}, fmt.Errorf("apply payment: %w", err)
	}

	uc.logger.InfoContext(ctx, "payment received",
		"loan_id", loan.ID(),
		"payment_id", payment.ID(),
		"remaining_balance", loan.RemainingBalance().String(),
		"installments_remaining", loan.InstallmentsRemaining(),
	)

	// 3. Publish events.
	publishAfterCommit(ctx, uc.publisher, uc.logger, loan.DomainEvents())

	sched := loan.Schedule()
	return dto.PaymentResponse{
		LoanID:                loan.ID(),
		PaymentID:             payment.ID(),
		AmountPaid:            payment.Amount(),
		RemainingBalance:      loan.RemainingBalance(),
		InstallmentsRemaining: sched.InstallmentsRemaining,
		NextDueDate:           sched.NextDueDate,
		NextDueAmount:         sched.NextDueAmount,
		LoanStatus:            loan.Status().String(),
		Message:               "Payment successfully received",
	}, nil
}
