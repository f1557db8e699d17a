package mocks

import (
	"context"
	"time"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListByCSO(ctx context.Context, csoID string) ([]*domain.Loan, error) {
	args := m.Called(ctx, csoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListActiveCSOIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Record(ctx context.Context, payment *domain.Payment) (*domain.Loan, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockPaymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetLatestPayment(ctx context.Context, loanID string) (*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockRemittanceRepository struct {
	mock.Mock
}

func (m *MockRemittanceRepository) Create(ctx context.Context, remittance *domain.Remittance) error {
	args := m.Called(ctx, remittance)
	return args.Error(0)
}

func (m *MockRemittanceRepository) GetByCSOAndDate(ctx context.Context, csoID string, date time.Time) (*domain.Remittance, error) {
	args := m.Called(ctx, csoID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Remittance), args.Error(1)
}

func (m *MockRemittanceRepository) ListByCSOSince(ctx context.Context, csoID string, since time.Time) ([]domain.Remittance, error) {
	args := m.Called(ctx, csoID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Remittance), args.Error(1)
}

func (m *MockRemittanceRepository) Update(ctx context.Context, remittance *domain.Remittance) error {
	args := m.Called(ctx, remittance)
	return args.Error(0)
}
