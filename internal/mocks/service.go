package mocks

import (
	"context"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) ApproveLoan(ctx context.Context, loanID string, adminID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) RejectLoan(ctx context.Context, loanID string, reason string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) DisburseLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanService) RecordPayment(ctx context.Context, loanID string, request *domain.MakePaymentRequest) (*domain.PaymentResponse, error) {
	args := m.Called(ctx, loanID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResponse), args.Error(1)
}

func (m *MockLoanService) GetPayments(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockLoanService) GetLoanMetrics(ctx context.Context, loanID string) (*domain.LoanWithMetrics, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanWithMetrics), args.Error(1)
}

func (m *MockLoanService) ListCSOLoans(ctx context.Context, csoID string) ([]*domain.LoanWithMetrics, error) {
	args := m.Called(ctx, csoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanWithMetrics), args.Error(1)
}

type MockRemittanceService struct {
	mock.Mock
}

func (m *MockRemittanceService) GetOutstanding(ctx context.Context, csoID string) (*domain.OutstandingRemittance, error) {
	args := m.Called(ctx, csoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingRemittance), args.Error(1)
}

func (m *MockRemittanceService) SubmitRemittance(ctx context.Context, csoID string, request *domain.SubmitRemittanceRequest) (*domain.Remittance, error) {
	args := m.Called(ctx, csoID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Remittance), args.Error(1)
}

func (m *MockRemittanceService) PayRemainder(ctx context.Context, csoID string, date string, request *domain.PayRemainderRequest) (*domain.Remittance, error) {
	args := m.Called(ctx, csoID, date, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Remittance), args.Error(1)
}

func (m *MockRemittanceService) ResolveRemittance(ctx context.Context, csoID string, date string, request *domain.ResolveRemittanceRequest) (*domain.Remittance, error) {
	args := m.Called(ctx, csoID, date, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Remittance), args.Error(1)
}
