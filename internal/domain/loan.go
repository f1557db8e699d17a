package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusRejected  = "rejected"
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
)

// Customer is the borrower a CSO originates a loan for
type Customer struct {
	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`
	BVN   string `json:"bvn" db:"bvn"`
}

// LoanDetails holds the money side of a loan
type LoanDetails struct {
	Principal       decimal.Decimal `json:"principal" db:"principal"`
	InterestRate    decimal.Decimal `json:"interestRate" db:"interest_rate"`
	AmountToBePaid  decimal.Decimal `json:"amountToBePaid" db:"amount_to_be_paid"`
	DailyAmount     decimal.Decimal `json:"dailyAmount" db:"daily_amount"`
	AmountPaidSoFar decimal.Decimal `json:"amountPaidSoFar" db:"amount_paid_so_far"`
}

// Loan represents a loan entity
type Loan struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	LoanID          string      `json:"loanId" db:"loan_id"`
	CSOID           string      `json:"csoId" db:"cso_id"`
	Customer        Customer    `json:"customer" db:"customer"`
	LoanDetails     LoanDetails `json:"loanDetails" db:"loan_details"`
	Status          string      `json:"status" db:"status"`
	ApprovedBy      *string     `json:"approvedBy,omitempty" db:"approved_by"`
	RejectionReason *string     `json:"rejectionReason,omitempty" db:"rejection_reason"`
	DisbursedAt     *time.Time  `json:"disbursedAt,omitempty" db:"disbursed_at"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// IsDisbursed reports whether the disbursement timestamp has been set
func (l *Loan) IsDisbursed() bool {
	return l.DisbursedAt != nil && !l.DisbursedAt.IsZero()
}

// DTOs for requests and responses

type CustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	BVN   string `json:"bvn" validate:"required,len=11,numeric"`
}

type CreateLoanRequest struct {
	LoanID       string          `json:"loanId" validate:"required"`
	CSOID        string          `json:"csoId" validate:"required"`
	Customer     CustomerRequest `json:"customer"`
	Principal    decimal.Decimal `json:"principal" validate:"decimal_gt=0"`
	InterestRate decimal.Decimal `json:"interestRate" validate:"decimal_gte=0"`
}

type ApproveLoanRequest struct {
	AdminID string `json:"adminId" validate:"required"`
}

type RejectLoanRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type MakePaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
	RecordedBy string          `json:"recordedBy" validate:"required"`
}

type LoanWithMetrics struct {
	Loan          *Loan       `json:"loan"`
	Metrics       LoanMetrics `json:"metrics"`
	LastPaymentAt *time.Time  `json:"lastPaymentAt,omitempty"`
}
