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

// ApplyLoanUseCase evaluates an application and, when it passes, creates the
// loan with its amortization schedule.
type ApplyLoanUseCase struct {
	borrowerRepo port.BorrowerRepository
	loanRepo     port.LoanRepository
	evaluator    *service.EligibilityEvaluator
	publisher    port.EventPublisher
	logger       *slog.Logger
}

// NewApplyLoanUseCase wires dependencies.
func NewApplyLoanUseCase(
	borrowerRepo port.BorrowerRepository,
	loanRepo port.LoanRepository,
	evaluator *service.EligibilityEvaluator,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ApplyLoanUseCase {
	return &ApplyLoanUseCase{
		borrowerRepo: borrowerRepo,
		loanRepo:     loanRepo,
		evaluator:    evaluator,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute runs eligibility, computes the plan, applies the acceptance checks
// and persists the loan.
func (uc *ApplyLoanUseCase) Execute(ctx context.Context, req dto.ApplyLoanRequest) (resp dto.ApplyLoanResponse, err error) {
	ctx, span := startSpan(ctx, "ApplyLoan", attribute.String("borrower_id", req.BorrowerID))
	defer func() {
		loanDecisions.Add(ctx, 1, metricAttrs(outcome(err)))
		endSpan(span, err)
	}()

	now := time.Now().UTC()

	// 1. Load the borrower.
	borrower, err := uc.borrowerRepo.FindByID(ctx, req.BorrowerID)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("find borrower: %w", err)
	}

	// 2. Eligibility.
	hasActive, err := uc.loanRepo.HasActiveLoan(ctx, borrower.ID())
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("check active loans: %w", err)
	}
	category, err := uc.evaluator.Evaluate(service.EligibilityInput{
		Category:      req.Category,
		Principal:     req.Principal,
		AnnualRate:    req.AnnualRate,
		AnnualIncome:  borrower.AnnualIncome(),
		CreditScore:   borrower.CreditScore(),
		HasActiveLoan: hasActive,
	})
	if err != nil {
		uc.logger.InfoContext(ctx, "loan application rejected",
			"borrower_id", borrower.ID(),
			"reason", model.CodeOf(err),
		)
		return dto.ApplyLoanResponse{}, fmt.Errorf("eligibility: %w", err)
	}

	// 3. Amortization and acceptance checks.
	plan, err := model.GenerateAmortizationPlan(req.Principal, req.AnnualRate, req.TermMonths, req.DisbursalDate)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("amortization: %w", err)
	}
	if err := plan.CheckAcceptance(req.Principal, borrower.AnnualIncome()); err != nil {
		uc.logger.InfoContext(ctx, "loan application rejected",
			"borrower_id", borrower.ID(),
			"reason", model.CodeOf(err),
		)
		return dto.ApplyLoanResponse{}, fmt.Errorf("acceptance: %w", err)
	}

	// 4. Create and persist the loan.
	loan, err := model.NewLoan(borrower.ID(), category, req.Principal, req.AnnualRate, req.TermMonths, req.DisbursalDate, plan, now)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("create loan: %w", err)
	}
	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	uc.logger.InfoContext(ctx, "loan approved",
		"loan_id", loan.ID(),
		"borrower_id", borrower.ID(),
		"category", category.String(),
		"monthly_emi", plan.EMI.String(),
	)

	// 5. Publish events.
	publishAfterCommit(ctx, uc.publisher, uc.logger, loan.DomainEvents())

	dueDates := make([]dto.DueDateResponse, 0, len(plan.Installments))
	for _, inst := range plan.Installments {
		dueDates = append(dueDates, dto.DueDateResponse{Date: inst.DueDate, AmountDue: inst.Amount})
	}

	return dto.ApplyLoanResponse{
		LoanID:           loan.ID(),
		MonthlyEMI:       plan.EMI,
		TotalRecoverable: plan.TotalRecoverable,
		DueDates:         dueDates,
	}, nil
}
