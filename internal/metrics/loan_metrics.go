package metrics

import (
	"time"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/shopspring/decimal"
)

// InstallmentBusinessDays is the contractual number of daily installments
// used to project a loan's end date. It is applied to every loan product.
const InstallmentBusinessDays = 22

// ComputeLoanMetrics derives repayment figures for a loan as of now.
// It never fails: a nil loan or a missing disbursement date yields zero values.
func ComputeLoanMetrics(loan *domain.Loan, now time.Time) domain.LoanMetrics {
	m := domain.LoanMetrics{
		ExpectedRepaymentsByNow: decimal.Zero,
		OutstandingDue:          decimal.Zero,
		BalanceRemaining:        decimal.Zero,
	}
	if loan == nil {
		return m
	}

	details := loan.LoanDetails
	m.BalanceRemaining = utils.MaxZero(details.AmountToBePaid.Sub(details.AmountPaidSoFar))

	if !loan.IsDisbursed() {
		return m
	}
	// calendar days are judged in now's zone; stored timestamps come back in the session zone
	disbursedAt := loan.DisbursedAt.In(now.Location())
	m.Disbursed = true

	if end := utils.AddBusinessDays(disbursedAt, InstallmentBusinessDays); !end.IsZero() {
		m.ProjectedEndDate = &end
	}

	// the disbursement day itself is not a repayment day
	days := utils.CountBusinessDays(disbursedAt.AddDate(0, 0, 1), now)
	if days < 0 {
		days = 0
	}
	m.BusinessDaysSinceDisbursement = days

	m.ExpectedRepaymentsByNow = details.DailyAmount.Mul(decimal.NewFromInt(int64(days)))
	m.OutstandingDue = utils.MaxZero(m.ExpectedRepaymentsByNow.Sub(details.AmountPaidSoFar))

	return m
}

// Calculator computes loan metrics against an injected clock
type Calculator struct {
	clock utils.Clock
}

func NewCalculator(clock utils.Clock) *Calculator {
	return &Calculator{clock: clock}
}

func (c *Calculator) Compute(loan *domain.Loan) domain.LoanMetrics {
	return ComputeLoanMetrics(loan, c.clock.Now())
}

// Now exposes the calculator's notion of the current time
func (c *Calculator) Now() time.Time {
	return c.clock.Now()
}
