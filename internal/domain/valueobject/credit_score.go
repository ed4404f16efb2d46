package valueobject

import "fmt"

const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

// CreditScore is a borrower's score in [300, 900]. The zero value means the
// score has not been computed yet.
type CreditScore struct {
	value int
	set   bool
}

// NewCreditScore validates and wraps a score.
func NewCreditScore(v int) (CreditScore, error) {
	if v < MinCreditScore || v > MaxCreditScore {
		return CreditScore{}, fmt.Errorf("%w: %d", ErrCreditScoreOutOfRange, v)
	}
	return CreditScore{value: v, set: true}, nil
}

// CreditScoreFromNullable rebuilds a score from a nullable column.
func CreditScoreFromNullable(v *int) (CreditScore, error) {
	if v == nil {
		return CreditScore{}, nil
	}
	return NewCreditScore(*v)
}

// Value returns the score and whether it has been computed.
func (c CreditScore) Value() (int, bool) { return c.value, c.set }

// IsZero reports whether the score is absent.
func (c CreditScore) IsZero() bool { return !c.set }

// Ptr returns the score as a nullable int for persistence and transport.
func (c CreditScore) Ptr() *int {
	if !c.set {
		return nil
	}
	v := c.value
	return &v
}

// AtLeast reports whether the score is present and >= threshold.
func (c CreditScore) AtLeast(threshold int) bool {
	return c.set && c.value >= threshold
}

func (c CreditScore) String() string {
	if !c.set {
		return "unscored"
	}
	return fmt.Sprintf("%d", c.value)
}
