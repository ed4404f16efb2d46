package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/valueobject"
	"github.com/bibbank/lms/pkg/money"
)

// ---------------------------------------------------------------------------
// EligibilityEvaluator – gates loan creation
// ---------------------------------------------------------------------------

var (
	MinAnnualRate   = decimal.NewFromInt(14)
	MinCreditScore  = 450
	MinAnnualIncome = decimal.NewFromInt(150_000)
)

// EligibilityInput is everything the rules look at. Category is the raw
// requested value so that an unknown category is reported in rule order.
type EligibilityInput struct {
	Category      string
	Principal     decimal.Decimal
	AnnualRate    decimal.Decimal
	AnnualIncome  decimal.Decimal
	CreditScore   valueobject.CreditScore
	HasActiveLoan bool
}

// EligibilityEvaluator applies the lending rules in a fixed order and stops at
// the first failure.
type EligibilityEvaluator struct{}

// NewEligibilityEvaluator returns a new evaluator instance.
func NewEligibilityEvaluator() *EligibilityEvaluator {
	return &EligibilityEvaluator{}
}

// Evaluate returns the accepted category, or the error of the first rule that
// fails:
//
//	active loan held            -> ErrDuplicateLoan
//	rate < 14                   -> ErrRateTooLow
//	score missing or < 450      -> ErrLowCredit
//	income < 150000             -> ErrLowIncome
//	unknown category            -> ErrInvalidCategory
//	principal > category limit  -> ErrPrincipalExceedsLimit
func (e *EligibilityEvaluator) Evaluate(in EligibilityInput) (valueobject.LoanCategory, error) {
	if in.HasActiveLoan {
		return valueobject.LoanCategory{}, model.ErrDuplicateLoan
	}
	if in.AnnualRate.LessThan(MinAnnualRate) {
		return valueobject.LoanCategory{}, fmt.Errorf("%w: got %s%%", model.ErrRateTooLow, in.AnnualRate)
	}
	if !in.CreditScore.AtLeast(MinCreditScore) {
		return valueobject.LoanCategory{}, fmt.Errorf("%w: got %s", model.ErrLowCredit, in.CreditScore)
	}
	if in.AnnualIncome.LessThan(MinAnnualIncome) {
		return valueobject.LoanCategory{}, fmt.Errorf("%w: got %s", model.ErrLowIncome, money.Format(in.AnnualIncome))
	}

	category, err := valueobject.NewLoanCategory(in.Category)
	if err != nil {
		return valueobject.LoanCategory{}, fmt.Errorf("%w: %q", model.ErrInvalidCategory, in.Category)
	}
	limit, _ := category.MaxPrincipal()
	if in.Principal.GreaterThan(limit) {
		return valueobject.LoanCategory{}, fmt.Errorf("%w: %s limit is %s",
			model.ErrPrincipalExceedsLimit, category, money.Format(limit))
	}

	return category, nil
}
