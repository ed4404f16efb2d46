package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/domain/valueobject"
	"github.com/bibbank/lms/pkg/events"
	"github.com/bibbank/lms/pkg/money"
)

// ---------------------------------------------------------------------------
// Borrower aggregate root
// ---------------------------------------------------------------------------

// Borrower is an immutable aggregate. Mutations return a new copy.
type Borrower struct {
	id           string
	name         string
	email        string
	nationalID   string
	annualIncome decimal.Decimal
	creditScore  valueobject.CreditScore
	version      int
	createdAt    time.Time
	updatedAt    time.Time
	collector    events.EventCollector
}

// NewBorrower validates and creates a borrower with no credit score.
func NewBorrower(name, email, nationalID string, annualIncome decimal.Decimal, now time.Time) (Borrower, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Borrower{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Borrower{}, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	if _, err := uuid.Parse(nationalID); err != nil {
		return Borrower{}, fmt.Errorf("%w: national id must be a UUID", ErrValidation)
	}
	if annualIncome.IsNegative() {
		return Borrower{}, fmt.Errorf("%w: annual income must not be negative", ErrValidation)
	}
	if !money.FitsScale(annualIncome) {
		return Borrower{}, fmt.Errorf("%w: annual income has more than two decimal places", ErrValidation)
	}

	b := Borrower{
		id:           uuid.New().String(),
		name:         name,
		email:        strings.ToLower(strings.TrimSpace(email)),
		nationalID:   strings.ToLower(nationalID),
		annualIncome: annualIncome,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}
	b.collector.Record(event.NewBorrowerRegistered(b.id, b.nationalID, b.annualIncome))
	return b, nil
}

// ReconstructBorrower rebuilds a Borrower aggregate from persistence.
func ReconstructBorrower(
	id, name, email, nationalID string,
	annualIncome decimal.Decimal,
	creditScore valueobject.CreditScore,
	version int,
	createdAt, updatedAt time.Time,
) Borrower {
	return Borrower{
		id:           id,
		name:         name,
		email:        email,
		nationalID:   nationalID,
		annualIncome: annualIncome,
		creditScore:  creditScore,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// WithCreditScore returns a copy carrying the computed score.
func (b Borrower) WithCreditScore(score valueobject.CreditScore, netBalance decimal.Decimal, now time.Time) Borrower {
	next := b
	next.creditScore = score
	next.updatedAt = now
	next.version = b.version + 1
	next.collector = b.collector.Fork()
	if v, ok := score.Value(); ok {
		next.collector.Record(event.NewBorrowerCreditScored(b.id, v, netBalance))
	}
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (b Borrower) ID() string                           { return b.id }
func (b Borrower) Name() string                         { return b.name }
func (b Borrower) Email() string                        { return b.email }
func (b Borrower) NationalID() string                   { return b.nationalID }
func (b Borrower) AnnualIncome() decimal.Decimal        { return b.annualIncome }
func (b Borrower) CreditScore() valueobject.CreditScore { return b.creditScore }
func (b Borrower) Version() int                         { return b.version }
func (b Borrower) CreatedAt() time.Time                 { return b.createdAt }
func (b Borrower) UpdatedAt() time.Time                 { return b.updatedAt }
func (b Borrower) DomainEvents() []event.DomainEvent    { return b.collector.Events() }

// ClearEvents returns a copy with an empty event list.
func (b Borrower) ClearEvents() Borrower {
	next := b
	next.collector = events.EventCollector{}
	return next
}
