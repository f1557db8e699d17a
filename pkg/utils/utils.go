package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateTotalRepayable calculates the amount owed over the life of a loan
// Formula: Principal + (Principal * Rate)
func CalculateTotalRepayable(principal decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return principal.Add(principal.Mul(rate)).Round(2)
}

// CalculateDailyPayment splits the repayable total into equal business-day installments
func CalculateDailyPayment(total decimal.Decimal, installments int) decimal.Decimal {
	if installments <= 0 {
		return decimal.Zero
	}

	// Round to 2 decimal places for currency
	return total.Div(decimal.NewFromInt(int64(installments))).Round(2)
}

// MaxZero floors a decimal at zero
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Clock abstracts the current time so "today" can be injected
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}
