package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/lms/internal/domain/model"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsPinned(t *testing.T) {
	assert.Equal(t, date(2024, 2, 1), model.AddMonthsPinned(date(2024, 1, 31), 1))
	assert.Equal(t, date(2025, 1, 1), model.AddMonthsPinned(date(2024, 12, 15), 1))
	assert.Equal(t, date(2024, 12, 1), model.AddMonthsPinned(date(2024, 12, 15), 0))
	assert.Equal(t, date(2025, 3, 1), model.FirstOfNextMonth(date(2025, 2, 28)))
}

func TestSameMonth(t *testing.T) {
	assert.True(t, model.SameMonth(date(2024, 3, 1), date(2024, 3, 31)))
	assert.False(t, model.SameMonth(date(2024, 3, 31), date(2024, 4, 1)))
	assert.False(t, model.SameMonth(date(2023, 3, 10), date(2024, 3, 10)))
}

func TestFullMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same day", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"one day short of a month", date(2024, 1, 15), date(2024, 2, 14), 0},
		{"exactly one month", date(2024, 1, 15), date(2024, 2, 15), 1},
		{"one day short of two months", date(2024, 1, 15), date(2024, 3, 14), 1},
		{"exactly two months", date(2024, 1, 15), date(2024, 3, 15), 2},
		{"across a year", date(2023, 11, 20), date(2024, 2, 19), 2},
		{"end of month does not complete early", date(2024, 1, 31), date(2024, 2, 29), 0},
		{"reversed", date(2024, 3, 15), date(2024, 1, 15), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.FullMonthsBetween(tt.from, tt.to))
		})
	}

	t.Run("ignores time of day", func(t *testing.T) {
		from := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 15, 1, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, model.FullMonthsBetween(from, to))
	})
}
