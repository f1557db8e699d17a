package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a single repayment recorded against a loan
type Payment struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	LoanID     string          `json:"loanId" db:"loan_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	RecordedBy string          `json:"recordedBy" db:"recorded_by"`
	PaidAt     time.Time       `json:"paidAt" db:"paid_at"`
}

type PaymentResponse struct {
	Payment *Payment `json:"payment"`
	Loan    *Loan    `json:"loan"`
}
