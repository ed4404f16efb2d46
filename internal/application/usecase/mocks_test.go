package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
	"github.com/bibbank/lms/pkg/events"
)

// --- Mock implementations ---

type mockBorrowerRepository struct {
	createFunc      func(ctx context.Context, b model.Borrower) error
	findByIDFunc    func(ctx context.Context, id string) (model.Borrower, error)
	updateScoreFunc func(ctx context.Context, b model.Borrower) error
	created         []model.Borrower
	updated         []model.Borrower
}

func (m *mockBorrowerRepository) Create(ctx context.Context, b model.Borrower) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	m.created = append(m.created, b)
	return nil
}

func (m *mockBorrowerRepository) FindByID(ctx context.Context, id string) (model.Borrower, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Borrower{}, model.ErrBorrowerNotFound
}

func (m *mockBorrowerRepository) UpdateCreditScore(ctx context.Context, b model.Borrower) error {
	if m.updateScoreFunc != nil {
		return m.updateScoreFunc(ctx, b)
	}
	m.updated = append(m.updated, b)
	return nil
}

// mockLoanRepository keeps loans in memory and applies payment mutations the
// way the real store does: nothing is written when the mutation fails.
type mockLoanRepository struct {
	mu            sync.Mutex
	createFunc    func(ctx context.Context, loan model.Loan) error
	hasActiveFunc func(ctx context.Context, borrowerID string) (bool, error)
	loans         map[string]model.Loan
	payments      []model.Payment
	created       []model.Loan
}

func newMockLoanRepository(loans ...model.Loan) *mockLoanRepository {
	m := &mockLoanRepository{loans: map[string]model.Loan{}}
	for _, l := range loans {
		m.loans[l.ID()] = l
	}
	return m
}

func (m *mockLoanRepository) Create(ctx context.Context, loan model.Loan) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID()] = loan.ClearEvents()
	m.created = append(m.created, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(_ context.Context, id string) (model.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return model.Loan{}, model.ErrLoanNotFound
	}
	return loan, nil
}

func (m *mockLoanRepository) HasActiveLoan(ctx context.Context, borrowerID string) (bool, error) {
	if m.hasActiveFunc != nil {
		return m.hasActiveFunc(ctx, borrowerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.loans {
		if l.BorrowerID() == borrowerID && l.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLoanRepository) ApplyPayment(_ context.Context, loanID string, fn port.PaymentMutation) (model.Loan, model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.loans[loanID]
	if !ok {
		return model.Loan{}, model.Payment{}, model.ErrLoanNotFound
	}
	next, payment, err := fn(current)
	if err != nil {
		return model.Loan{}, model.Payment{}, err
	}
	m.loans[loanID] = next.ClearEvents()
	m.payments = append(m.payments, payment)
	return next, payment, nil
}

func (m *mockLoanRepository) ListByLoanID(_ context.Context, loanID string) ([]model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Payment
	for _, p := range m.payments {
		if p.LoanID() == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockAccountTransactionRepository struct {
	recordFunc func(ctx context.Context, tx model.AccountTransaction) error
	totalsFunc func(ctx context.Context, nationalID string) (model.AccountTotals, error)
	recorded   []model.AccountTransaction
}

func (m *mockAccountTransactionRepository) Record(ctx context.Context, tx model.AccountTransaction) error {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, tx)
	}
	m.recorded = append(m.recorded, tx)
	return nil
}

func (m *mockAccountTransactionRepository) TotalsByNationalID(ctx context.Context, nationalID string) (model.AccountTotals, error) {
	if m.totalsFunc != nil {
		return m.totalsFunc(ctx, nationalID)
	}
	return model.AccountTotals{}, nil
}

type mockEventPublisher struct {
	publishErr error
	collector  events.EventCollector
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...event.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	for _, e := range evts {
		m.collector.Record(e)
	}
	return nil
}

func (m *mockEventPublisher) types() []string {
	var out []string
	for _, e := range m.collector.Events() {
		out = append(out, e.EventType())
	}
	return out
}

type mockScoreQueue struct {
	enqueueErr error
	enqueued   []string
}

func (m *mockScoreQueue) Enqueue(_ context.Context, borrowerID string) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueued = append(m.enqueued, borrowerID)
	return nil
}

type mockLocker struct {
	lockErr  error
	locked   int
	unlocked int
}

func (m *mockLocker) Lock(_ context.Context, _ string) (func(), error) {
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.locked++
	return func() { m.unlocked++ }, nil
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
