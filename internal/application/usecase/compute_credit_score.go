package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/lms/internal/application/dto"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/internal/domain/service"
)

// ComputeCreditScoreUseCase is the handler behind the credit score work queue.
type ComputeCreditScoreUseCase struct {
	borrowerRepo port.BorrowerRepository
	txRepo       port.AccountTransactionRepository
	scorer       *service.CreditScorer
	publisher    port.EventPublisher
	logger       *slog.Logger
}

// NewComputeCreditScoreUseCase wires dependencies.
func NewComputeCreditScoreUseCase(
	borrowerRepo port.BorrowerRepository,
	txRepo port.AccountTransactionRepository,
	scorer *service.CreditScorer,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ComputeCreditScoreUseCase {
	return &ComputeCreditScoreUseCase{
		borrowerRepo: borrowerRepo,
		txRepo:       txRepo,
		scorer:       scorer,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute sums the borrower's account transactions and stores the resulting
// score. Running it twice for the same data stores the same score.
func (uc *ComputeCreditScoreUseCase) Execute(ctx context.Context, req dto.ComputeCreditScoreRequest) (resp dto.CreditScoreResponse, err error) {
	ctx, span := startSpan(ctx, "ComputeCreditScore", attribute.String("borrower_id", req.BorrowerID))
	defer func() {
		scoreComputations.Add(ctx, 1, metricAttrs(outcome(err)))
		endSpan(span, err)
	}()

	// 1. Load the borrower.
	borrower, err := uc.borrowerRepo.FindByID(ctx, req.BorrowerID)
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("find borrower: %w", err)
	}

	// 2. Sum the account feed.
	totals, err := uc.txRepo.TotalsByNationalID(ctx, borrower.NationalID())
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("sum account transactions: %w", err)
	}

	// 3. Score and persist.
	score := uc.scorer.Score(totals)
	scored := borrower.WithCreditScore(score, totals.NetBalance(), time.Now().UTC())
	if err := uc.borrowerRepo.UpdateCreditScore(ctx, scored); err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("save credit score: %w", err)
	}

	value, _ := score.Value()
	uc.logger.InfoContext(ctx, "credit score computed",
		"borrower_id", borrower.ID(),
		"credit_score", value,
	)

	// 4. Publish events.
	publishAfterCommit(ctx, uc.publisher, uc.logger, scored.DomainEvents())

	return dto.CreditScoreResponse{
		BorrowerID:  borrower.ID(),
		CreditScore: value,
		NetBalance:  totals.NetBalance(),
	}, nil
}
