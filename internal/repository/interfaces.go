package repository

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/loan-ops/internal/domain"
)

// ErrDuplicate is returned when a unique constraint rejects an insert
var ErrDuplicate = errors.New("duplicate record")

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListByCSO retrieves every loan originated by a CSO, newest first
	ListByCSO(ctx context.Context, csoID string) ([]*domain.Loan, error)

	// ListActiveCSOIDs returns the CSOs that currently have active loans
	ListActiveCSOIDs(ctx context.Context) ([]string, error)

	// Update persists status changes. A disbursement date, once stored, is never overwritten.
	Update(ctx context.Context, loan *domain.Loan) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Record stores a payment and adds it to the loan's running total in one transaction
	Record(ctx context.Context, payment *domain.Payment) (*domain.Loan, error)

	// GetByLoanID retrieves all payments for a loan
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)

	// GetLatestPayment gets the most recent payment for a loan
	GetLatestPayment(ctx context.Context, loanID string) (*domain.Payment, error)
}

// RemittanceRepository defines the interface for CSO remittance records
type RemittanceRepository interface {
	// Create stores a new remittance; ErrDuplicate if the CSO already has one for the day
	Create(ctx context.Context, remittance *domain.Remittance) error

	// GetByCSOAndDate retrieves the remittance for a CSO on a calendar day
	GetByCSOAndDate(ctx context.Context, csoID string, date time.Time) (*domain.Remittance, error)

	// ListByCSOSince retrieves a CSO's remittances from since onwards, newest first
	ListByCSOSince(ctx context.Context, csoID string, since time.Time) ([]domain.Remittance, error)

	// Update persists amounts and resolution fields
	Update(ctx context.Context, remittance *domain.Remittance) error
}
