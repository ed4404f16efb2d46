package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/domain/valueobject"
	"github.com/bibbank/lms/pkg/events"
	"github.com/bibbank/lms/pkg/money"
)

// ---------------------------------------------------------------------------
// LoanSchedule – repayment state owned by a Loan
// ---------------------------------------------------------------------------

// LoanSchedule tracks where a loan is in its repayment. NextDueDate and
// NextDueAmount are nil exactly when InstallmentsRemaining is zero.
type LoanSchedule struct {
	NextDueDate           *time.Time
	NextDueAmount         *decimal.Decimal
	InstallmentsRemaining int
	LastPaymentDate       *time.Time
}

// Active reports whether installments are still owed.
func (s LoanSchedule) Active() bool { return s.InstallmentsRemaining > 0 }

func (s LoanSchedule) clone() LoanSchedule {
	out := LoanSchedule{InstallmentsRemaining: s.InstallmentsRemaining}
	if s.NextDueDate != nil {
		d := *s.NextDueDate
		out.NextDueDate = &d
	}
	if s.NextDueAmount != nil {
		a := *s.NextDueAmount
		out.NextDueAmount = &a
	}
	if s.LastPaymentDate != nil {
		p := *s.LastPaymentDate
		out.LastPaymentDate = &p
	}
	return out
}

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	id               string
	borrowerID       string
	category         valueobject.LoanCategory
	principal        decimal.Decimal
	annualRate       decimal.Decimal
	termMonths       int
	disbursalDate    time.Time
	startDate        time.Time
	endDate          time.Time
	monthlyEMI       decimal.Decimal
	totalRecoverable decimal.Decimal
	remainingBalance decimal.Decimal
	installments     []Installment
	schedule         LoanSchedule
	status           valueobject.LoanStatus
	version          int
	createdAt        time.Time
	updatedAt        time.Time
	collector        events.EventCollector
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan creates an ACTIVE loan from an accepted amortization plan. The
// remaining balance starts at the plan's total recoverable and the schedule
// points at the first installment.
func NewLoan(
	borrowerID string,
	category valueobject.LoanCategory,
	principal, annualRate decimal.Decimal,
	termMonths int,
	disbursalDate time.Time,
	plan AmortizationPlan,
	now time.Time,
) (Loan, error) {
	if borrowerID == "" {
		return Loan{}, fmt.Errorf("%w: borrower ID is required", ErrValidation)
	}
	if category.IsZero() {
		return Loan{}, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if !money.IsPositive(principal) {
		return Loan{}, fmt.Errorf("%w: principal must be positive", ErrValidation)
	}
	if !money.FitsScale(principal) {
		return Loan{}, fmt.Errorf("%w: principal has more than two decimal places", ErrValidation)
	}
	if termMonths <= 0 {
		return Loan{}, fmt.Errorf("%w: term months must be positive", ErrValidation)
	}
	if len(plan.Installments) == 0 {
		return Loan{}, fmt.Errorf("%w: amortization plan has no installments", ErrValidation)
	}

	firstDue := plan.FirstDueDate()
	firstAmount := plan.Installments[0].Amount

	loan := Loan{
		id:               uuid.New().String(),
		borrowerID:       borrowerID,
		category:         category,
		principal:        principal,
		annualRate:       annualRate,
		termMonths:       termMonths,
		disbursalDate:    DateOnly(disbursalDate),
		startDate:        DateOnly(now),
		endDate:          plan.LastDueDate(),
		monthlyEMI:       plan.EMI,
		totalRecoverable: plan.TotalRecoverable,
		remainingBalance: plan.TotalRecoverable,
		installments:     append([]Installment(nil), plan.Installments...),
		schedule: LoanSchedule{
			NextDueDate:           &firstDue,
			NextDueAmount:         &firstAmount,
			InstallmentsRemaining: len(plan.Installments),
		},
		status:    valueobject.LoanStatusActive,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}

	loan.collector.Record(event.NewLoanApproved(
		loan.id, borrowerID, category.String(),
		principal, annualRate, termMonths,
		plan.EMI, plan.TotalRecoverable, firstDue,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, borrowerID string,
	category valueobject.LoanCategory,
	principal, annualRate decimal.Decimal,
	termMonths int,
	disbursalDate, startDate, endDate time.Time,
	monthlyEMI, totalRecoverable, remainingBalance decimal.Decimal,
	installments []Installment,
	schedule LoanSchedule,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:               id,
		borrowerID:       borrowerID,
		category:         category,
		principal:        principal,
		annualRate:       annualRate,
		termMonths:       termMonths,
		disbursalDate:    disbursalDate,
		startDate:        startDate,
		endDate:          endDate,
		monthlyEMI:       monthlyEMI,
		totalRecoverable: totalRecoverable,
		remainingBalance: remainingBalance,
		installments:     installments,
		schedule:         schedule,
		status:           valueobject.StatusFromActive(schedule.Active()),
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyPayment records a payment of amount made at paidAt and advances the
// schedule by one installment:
//
//  1. snapshot the balance into a Payment
//  2. reduce the remaining balance
//  3. if amount differs from the amount due, re-derive the next installment
//     from the new balance at the original rate and original term
//  4. move the next due date one month on, pinned to day 1
//  5. decrement the installments remaining, closing the loan at zero
//
// Settling the whole balance early also closes the loan. Timing rules are not
// checked here; see service.PaymentReconciler.
func (l Loan) ApplyPayment(amount decimal.Decimal, paidAt, now time.Time) (Loan, Payment, error) {
	if !l.status.IsActive() {
		return l, Payment{}, ErrLoanNotActive
	}
	if !money.IsPositive(amount) || !money.FitsScale(amount) || amount.GreaterThan(l.remainingBalance) {
		return l, Payment{}, fmt.Errorf("%w: amount %s, balance %s",
			ErrInvalidPaymentAmount, money.Format(amount), money.Format(l.remainingBalance))
	}

	newBalance := l.remainingBalance.Sub(amount)
	payment := NewPayment(l.id, l.borrowerID, amount, paidAt, l.remainingBalance, newBalance)

	next := l
	next.remainingBalance = newBalance
	next.schedule = l.schedule.clone()
	next.updatedAt = now
	next.version = l.version + 1
	next.collector = l.collector.Fork()

	paid := paidAt
	next.schedule.LastPaymentDate = &paid

	if next.schedule.NextDueAmount == nil || !amount.Equal(*next.schedule.NextDueAmount) {
		recomputed := CalculateEMI(newBalance, l.annualRate, l.termMonths)
		next.schedule.NextDueAmount = &recomputed
	}
	if next.schedule.NextDueDate != nil {
		due := AddMonthsPinned(*next.schedule.NextDueDate, 1)
		next.schedule.NextDueDate = &due
	}
	next.schedule.InstallmentsRemaining--

	if next.schedule.InstallmentsRemaining <= 0 || newBalance.IsZero() {
		next = next.close()
	}

	next.collector.Record(event.NewPaymentReceived(
		l.id, payment.ID(), amount, newBalance,
		next.schedule.InstallmentsRemaining, next.schedule.NextDueAmount, paidAt,
	))
	if !next.status.IsActive() {
		next.collector.Record(event.NewLoanClosed(l.id, l.borrowerID, newBalance))
	}

	return next, payment, nil
}

func (l Loan) close() Loan {
	l.status = valueobject.LoanStatusClosed
	l.schedule.InstallmentsRemaining = 0
	l.schedule.NextDueDate = nil
	l.schedule.NextDueAmount = nil
	return l
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                          { return l.id }
func (l Loan) BorrowerID() string                  { return l.borrowerID }
func (l Loan) Category() valueobject.LoanCategory  { return l.category }
func (l Loan) Principal() decimal.Decimal          { return l.principal }
func (l Loan) AnnualRate() decimal.Decimal         { return l.annualRate }
func (l Loan) TermMonths() int                     { return l.termMonths }
func (l Loan) DisbursalDate() time.Time            { return l.disbursalDate }
func (l Loan) StartDate() time.Time                { return l.startDate }
func (l Loan) EndDate() time.Time                  { return l.endDate }
func (l Loan) MonthlyEMI() decimal.Decimal         { return l.monthlyEMI }
func (l Loan) TotalRecoverable() decimal.Decimal   { return l.totalRecoverable }
func (l Loan) RemainingBalance() decimal.Decimal   { return l.remainingBalance }
func (l Loan) Status() valueobject.LoanStatus      { return l.status }
func (l Loan) IsActive() bool                      { return l.status.IsActive() }
func (l Loan) Version() int                        { return l.version }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent   { return l.collector.Events() }
func (l Loan) Schedule() LoanSchedule              { return l.schedule.clone() }
func (l Loan) InstallmentsRemaining() int          { return l.schedule.InstallmentsRemaining }
func (l Loan) LastPaymentDate() (time.Time, bool)  { return derefTime(l.schedule.LastPaymentDate) }

// Installments returns a copy of the schedule generated at approval.
func (l Loan) Installments() []Installment {
	if l.installments == nil {
		return nil
	}
	out := make([]Installment, len(l.installments))
	copy(out, l.installments)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.collector = events.EventCollector{}
	return next
}

func derefTime(t *time.Time) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}
