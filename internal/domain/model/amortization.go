package model

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/pkg/money"
)

var (
	// IncomeCapRatio is the largest share of annual income a single EMI may take.
	IncomeCapRatio = decimal.RequireFromString("0.6")
	// MinTotalInterest is the least interest a loan must earn over its term.
	MinTotalInterest = decimal.NewFromInt(10_000)
)

// Installment is an immutable value object representing one scheduled payment.
type Installment struct {
	Number  int
	DueDate time.Time
	Amount  decimal.Decimal
}

// AmortizationPlan is the output of the calculator: the fixed EMI, the total
// amount recoverable over the term, and the dated installment list.
type AmortizationPlan struct {
	EMI              decimal.Decimal
	TotalRecoverable decimal.Decimal
	Installments     []Installment
}

// CalculateEMI returns the equated monthly installment for a principal at an
// annual percentage rate over termMonths, rounded half-up to two places.
//
//	r   = annualRate / 12 / 100
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The power is evaluated in float64 and the result converted back to decimal.
func CalculateEMI(principal, annualRatePct decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !money.IsPositive(principal) {
		return decimal.Zero
	}

	monthlyRate := annualRatePct.InexactFloat64() / 12.0 / 100.0
	if monthlyRate == 0 {
		// Zero-interest: even split.
		return money.Round(principal.Div(decimal.NewFromInt(int64(termMonths))))
	}

	factor := math.Pow(1+monthlyRate, float64(termMonths))
	emi := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return money.FromFloat(emi)
}

// GenerateAmortizationPlan computes the EMI, total recoverable and the
// installment schedule for a loan disbursed on disbursalDate. The first
// installment falls due on the first day of the month after disbursal.
func GenerateAmortizationPlan(
	principal, annualRatePct decimal.Decimal,
	termMonths int,
	disbursalDate time.Time,
) (AmortizationPlan, error) {
	if !money.IsPositive(principal) {
		return AmortizationPlan{}, fmt.Errorf("%w: principal must be positive", ErrValidation)
	}
	if !money.FitsScale(principal) {
		return AmortizationPlan{}, fmt.Errorf("%w: principal has more than two decimal places", ErrValidation)
	}
	if termMonths <= 0 {
		return AmortizationPlan{}, fmt.Errorf("%w: term months must be positive", ErrValidation)
	}
	if annualRatePct.IsNegative() {
		return AmortizationPlan{}, fmt.Errorf("%w: interest rate must not be negative", ErrValidation)
	}
	if !money.FitsScale(annualRatePct) {
		return AmortizationPlan{}, fmt.Errorf("%w: interest rate has more than two decimal places", ErrValidation)
	}

	emi := CalculateEMI(principal, annualRatePct, termMonths)
	total := emi.Mul(decimal.NewFromInt(int64(termMonths)))

	return AmortizationPlan{
		EMI:              emi,
		TotalRecoverable: total,
		Installments:     BuildInstallments(emi, total, termMonths, FirstOfNextMonth(disbursalDate)),
	}, nil
}

// BuildInstallments lays out termMonths installments starting at firstDue. The
// first termMonths-1 installments equal the EMI; the final one is the residual
// total - emi*(termMonths-1). A non-positive residual is dropped, leaving
// termMonths-1 installments.
func BuildInstallments(emi, total decimal.Decimal, termMonths int, firstDue time.Time) []Installment {
	if termMonths <= 0 {
		return nil
	}

	out := make([]Installment, 0, termMonths)
	paid := decimal.Zero
	for i := 0; i < termMonths-1; i++ {
		out = append(out, Installment{
			Number:  i + 1,
			DueDate: AddMonthsPinned(firstDue, i),
			Amount:  emi,
		})
		paid = paid.Add(emi)
	}

	residual := total.Sub(paid)
	if money.IsPositive(residual) {
		out = append(out, Installment{
			Number:  termMonths,
			DueDate: AddMonthsPinned(firstDue, termMonths-1),
			Amount:  residual,
		})
	}
	return out
}

// CheckAcceptance applies the affordability and profitability checks to a plan.
func (p AmortizationPlan) CheckAcceptance(principal, annualIncome decimal.Decimal) error {
	if p.EMI.GreaterThan(annualIncome.Mul(IncomeCapRatio)) {
		return fmt.Errorf("%w: emi %s, income %s", ErrEmiExceedsIncomeCap, money.Format(p.EMI), money.Format(annualIncome))
	}
	if p.TotalInterest(principal).LessThan(MinTotalInterest) {
		return fmt.Errorf("%w: interest %s", ErrInterestTooLow, money.Format(p.TotalInterest(principal)))
	}
	return nil
}

// TotalInterest is the amount recovered above principal.
func (p AmortizationPlan) TotalInterest(principal decimal.Decimal) decimal.Decimal {
	return p.TotalRecoverable.Sub(principal)
}

// FirstDueDate returns the due date of the first installment, or the zero time
// for an empty plan.
func (p AmortizationPlan) FirstDueDate() time.Time {
	if len(p.Installments) == 0 {
		return time.Time{}
	}
	return p.Installments[0].DueDate
}

// LastDueDate returns the due date of the final installment.
func (p AmortizationPlan) LastDueDate() time.Time {
	if len(p.Installments) == 0 {
		return time.Time{}
	}
	return p.Installments[len(p.Installments)-1].DueDate
}
