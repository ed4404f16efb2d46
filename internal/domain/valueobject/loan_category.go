package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LoanCategory is the closed set of loan products. Each category carries the
// maximum principal that may be lent under it.
type LoanCategory struct {
	value string
}

const (
	loanCategoryCar       = "CAR"
	loanCategoryHome      = "HOME"
	loanCategoryEducation = "EDUCATION"
	loanCategoryPersonal  = "PERSONAL"
)

var (
	LoanCategoryCar       = LoanCategory{value: loanCategoryCar}
	LoanCategoryHome      = LoanCategory{value: loanCategoryHome}
	LoanCategoryEducation = LoanCategory{value: loanCategoryEducation}
	LoanCategoryPersonal  = LoanCategory{value: loanCategoryPersonal}
)

var validLoanCategories = map[string]LoanCategory{
	loanCategoryCar:       LoanCategoryCar,
	loanCategoryHome:      LoanCategoryHome,
	loanCategoryEducation: LoanCategoryEducation,
	"EDUCATIONAL":         LoanCategoryEducation,
	loanCategoryPersonal:  LoanCategoryPersonal,
}

var principalCeilings = map[string]decimal.Decimal{
	loanCategoryCar:       decimal.NewFromInt(750_000),
	loanCategoryHome:      decimal.NewFromInt(8_500_000),
	loanCategoryEducation: decimal.NewFromInt(5_000_000),
	loanCategoryPersonal:  decimal.NewFromInt(1_000_000),
}

// NewLoanCategory parses a category name case-insensitively.
func NewLoanCategory(s string) (LoanCategory, error) {
	v, ok := validLoanCategories[upper(s)]
	if !ok {
		return LoanCategory{}, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return v, nil
}

// MaxPrincipal returns the principal ceiling for the category. The zero
// category has no ceiling entry and reports false.
func (c LoanCategory) MaxPrincipal() (decimal.Decimal, bool) {
	limit, ok := principalCeilings[c.value]
	return limit, ok
}

// String returns the string representation.
func (c LoanCategory) String() string { return c.value }

// IsZero returns true when not initialised.
func (c LoanCategory) IsZero() bool { return c.value == "" }

// Equal returns true when both categories match.
func (c LoanCategory) Equal(other LoanCategory) bool { return c.value == other.value }

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
