package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// CreditScorer – maps an account balance onto a score band
// ---------------------------------------------------------------------------

var (
	scoreCeilingBalance = decimal.NewFromInt(1_000_000)
	scoreFloorBalance   = decimal.NewFromInt(100_000)
	scoreStepBalance    = decimal.NewFromInt(15_000)
)

const scoreStepPoints = 10

// CreditScorer derives a credit score from the net balance of a borrower's
// account transactions.
type CreditScorer struct{}

// NewCreditScorer returns a new scorer instance.
func NewCreditScorer() *CreditScorer {
	return &CreditScorer{}
}

// Score maps totals onto [300, 900]:
//
//	balance >= 1,000,000  -> 900
//	balance <=   100,000  -> 300
//	otherwise             -> 300 + floor((balance - 100,000) / 15,000) * 10
func (s *CreditScorer) Score(totals model.AccountTotals) valueobject.CreditScore {
	balance := totals.NetBalance()

	var v int
	switch {
	case balance.GreaterThanOrEqual(scoreCeilingBalance):
		v = valueobject.MaxCreditScore
	case balance.LessThanOrEqual(scoreFloorBalance):
		v = valueobject.MinCreditScore
	default:
		steps := balance.Sub(scoreFloorBalance).Div(scoreStepBalance).Floor().IntPart()
		v = valueobject.MinCreditScore + int(steps)*scoreStepPoints
	}

	score, _ := valueobject.NewCreditScore(v)
	return score
}
