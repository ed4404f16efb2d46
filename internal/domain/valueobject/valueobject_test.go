package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/lms/internal/domain/valueobject"
)

func TestNewLoanCategory(t *testing.T) {
	tests := []struct {
		input string
		want  valueobject.LoanCategory
		limit int64
	}{
		{"car", valueobject.LoanCategoryCar, 750_000},
		{"HOME", valueobject.LoanCategoryHome, 8_500_000},
		{" Education ", valueobject.LoanCategoryEducation, 5_000_000},
		{"educational", valueobject.LoanCategoryEducation, 5_000_000},
		{"personal", valueobject.LoanCategoryPersonal, 1_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := valueobject.NewLoanCategory(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))

			limit, ok := got.MaxPrincipal()
			assert.True(t, ok)
			assert.True(t, limit.Equal(decimal.NewFromInt(tt.limit)))
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		_, err := valueobject.NewLoanCategory("boat")
		assert.ErrorIs(t, err, valueobject.ErrInvalidCategory)
	})

	t.Run("zero category has no limit", func(t *testing.T) {
		_, ok := valueobject.LoanCategory{}.MaxPrincipal()
		assert.False(t, ok)
	})
}

func TestLoanStatus(t *testing.T) {
	s, err := valueobject.NewLoanStatus("CLOSED")
	require.NoError(t, err)
	assert.False(t, s.IsActive())

	_, err = valueobject.NewLoanStatus("PAID_OFF")
	assert.Error(t, err)

	assert.True(t, valueobject.StatusFromActive(true).Equal(valueobject.LoanStatusActive))
	assert.True(t, valueobject.StatusFromActive(false).Equal(valueobject.LoanStatusClosed))
}

func TestNewTransactionType(t *testing.T) {
	got, err := valueobject.NewTransactionType("credit")
	require.NoError(t, err)
	assert.True(t, got.Equal(valueobject.TransactionTypeCredit))

	_, err = valueobject.NewTransactionType("refund")
	assert.ErrorIs(t, err, valueobject.ErrInvalidTransactionType)
}

func TestCreditScore(t *testing.T) {
	t.Run("bounds", func(t *testing.T) {
		_, err := valueobject.NewCreditScore(299)
		assert.ErrorIs(t, err, valueobject.ErrCreditScoreOutOfRange)
		_, err = valueobject.NewCreditScore(901)
		assert.ErrorIs(t, err, valueobject.ErrCreditScoreOutOfRange)
	})

	t.Run("absent score is never at least anything", func(t *testing.T) {
		var s valueobject.CreditScore
		assert.True(t, s.IsZero())
		assert.False(t, s.AtLeast(0))
		assert.Nil(t, s.Ptr())
	})

	t.Run("nullable round trip", func(t *testing.T) {
		v := 450
		s, err := valueobject.CreditScoreFromNullable(&v)
		require.NoError(t, err)
		assert.True(t, s.AtLeast(450))
		assert.False(t, s.AtLeast(451))
		require.NotNil(t, s.Ptr())
		assert.Equal(t, 450, *s.Ptr())

		empty, err := valueobject.CreditScoreFromNullable(nil)
		require.NoError(t, err)
		assert.True(t, empty.IsZero())
	})
}
