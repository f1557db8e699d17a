package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanMetrics is derived from a loan on every read and never persisted.
// Disbursed is false when the loan has no disbursement date yet; the
// zero-valued fields then mean "not ready" rather than "nothing due".
type LoanMetrics struct {
	Disbursed                     bool            `json:"disbursed"`
	ProjectedEndDate              *time.Time      `json:"projectedEndDate"`
	BusinessDaysSinceDisbursement int             `json:"businessDaysSinceDisbursement"`
	ExpectedRepaymentsByNow       decimal.Decimal `json:"expectedRepaymentsByNow"`
	OutstandingDue                decimal.Decimal `json:"outstandingDue"`
	BalanceRemaining              decimal.Decimal `json:"balanceRemaining"`
}
