package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RemittanceState classifies a CSO's remittance for the reference day
type RemittanceState string

const (
	// RemittanceNone means nothing was remitted; the CSO must contact an admin
	RemittanceNone RemittanceState = "none"
	// RemittanceResolved means an admin cleared the day manually
	RemittanceResolved RemittanceState = "resolved"
	// RemittancePartial means less was paid in than was collected
	RemittancePartial RemittanceState = "partial"
	// RemittanceComplete means everything collected was paid in
	RemittanceComplete RemittanceState = "complete"
)

// DateLayout is the calendar-day format used for remittance dates in URLs and JSON
const DateLayout = "2006-01-02"

// Remittance is a CSO's end-of-day transfer of collected cash
type Remittance struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	CSOID           string          `json:"csoId" db:"cso_id"`
	Date            time.Time       `json:"date" db:"remittance_date"`
	AmountCollected decimal.Decimal `json:"amountCollected" db:"amount_collected"`
	AmountPaid      decimal.Decimal `json:"amountPaid" db:"amount_paid"`
	Resolved        bool            `json:"resolved" db:"resolved"`
	ResolvedBy      *string         `json:"resolvedBy,omitempty" db:"resolved_by"`
	ResolutionNote  *string         `json:"resolutionNote,omitempty" db:"resolution_note"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty" db:"resolved_at"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OutstandingRemittance is the detector's verdict for a CSO
type OutstandingRemittance struct {
	CSOID           string          `json:"csoId"`
	Status          RemittanceState `json:"status"`
	ReferenceDate   time.Time       `json:"referenceDate"`
	Blocking        bool            `json:"blocking"`
	AmountRemaining decimal.Decimal `json:"amountRemaining"`
	Remittance      *Remittance     `json:"remittance,omitempty"`
}

type SubmitRemittanceRequest struct {
	Date            string          `json:"date" validate:"required,datetime=2006-01-02"`
	AmountCollected decimal.Decimal `json:"amountCollected" validate:"decimal_gte=0"`
	AmountPaid      decimal.Decimal `json:"amountPaid" validate:"decimal_gte=0"`
}

type PayRemainderRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt=0"`
}

type ResolveRemittanceRequest struct {
	AdminID string `json:"adminId" validate:"required"`
	Note    string `json:"note"`
}
