package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
)

// RegisterBorrowerUseCase onboards a borrower and schedules their credit score.
type RegisterBorrowerUseCase struct {
	borrowerRepo port.BorrowerRepository
	scoreQueue   port.CreditScoreQueue
	publisher    port.EventPublisher
	logger       *slog.Logger
}

// NewRegisterBorrowerUseCase wires dependencies.
func NewRegisterBorrowerUseCase(
	borrowerRepo port.BorrowerRepository,
	scoreQueue port.CreditScoreQueue,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RegisterBorrowerUseCase {
	return &RegisterBorrowerUseCase{
		borrowerRepo: borrowerRepo,
		scoreQueue:   scoreQueue,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute persists a new borrower and enqueues credit scoring. The borrower is
// returned without a score; a failed enqueue is logged and not surfaced.
func (uc *RegisterBorrowerUseCase) Execute(ctx context.Context, req dto.RegisterBorrowerRequest) (resp dto.BorrowerResponse, err error) {
	ctx, span := startSpan(ctx, "RegisterBorrower")
	defer func() { endSpan(span, err) }()

	now := time.Now().UTC()

	// 1. Validate and build the aggregate.
	borrower, err := model.NewBorrower(req.Name, req.Email, req.NationalID, req.AnnualIncome, now)
	if err != nil {
		return dto.BorrowerResponse{}, fmt.Errorf("register borrower: %w", err)
	}

	// 2. Persist.
	if err := uc.borrowerRepo.Create(ctx, borrower); err != nil {
		return dto.BorrowerResponse{}, fmt.Errorf("save borrower: %w", err)
	}

	uc.logger.InfoContext(ctx, "borrower registered", "borrower_id", borrower.ID())

	// 3. Schedule the credit score.
	if uc.scoreQueue != nil {
		if err := uc.scoreQueue.Enqueue(ctx, borrower.ID()); err != nil {
			uc.logger.ErrorContext(ctx, "failed to enqueue credit score computation",
				"error", err,
				"borrower_id", borrower.ID(),
			)
		}
	}

	// 4. Publish events.
	publishAfterCommit(ctx, uc.publisher, uc.logger, borrower.DomainEvents())

	return toBorrowerResponse(borrower), nil
}
