package remittance

import (
	"time"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/shopspring/decimal"
)

// ReferenceDate returns the collection day a remittance is expected for.
// Field collection does not happen at weekends, so Monday looks back to Friday.
func ReferenceDate(now time.Time) time.Time {
	today := utils.StartOfDay(now)

	switch today.Weekday() {
	case time.Monday:
		return today.AddDate(0, 0, -3)
	case time.Sunday:
		return today.AddDate(0, 0, -2)
	default:
		return today.AddDate(0, 0, -1)
	}
}

// SameDay reports whether a and b carry the same calendar date.
// Each is read in its own location; DATE columns come back as UTC midnight.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Find returns the record for ref's calendar day, if any
func Find(history []domain.Remittance, ref time.Time) *domain.Remittance {
	for i := range history {
		if SameDay(ref, history[i].Date) {
			return &history[i]
		}
	}
	return nil
}

// ClassifyRecord returns the state of a single (possibly missing) record
func ClassifyRecord(r *domain.Remittance) domain.RemittanceState {
	switch {
	case r == nil:
		return domain.RemittanceNone
	case r.Resolved:
		return domain.RemittanceResolved
	case r.AmountPaid.LessThan(r.AmountCollected):
		return domain.RemittancePartial
	default:
		return domain.RemittanceComplete
	}
}

// Classify returns the state of the remittance recorded for ref's day
func Classify(history []domain.Remittance, ref time.Time) domain.RemittanceState {
	return ClassifyRecord(Find(history, ref))
}

// IsBlocking reports whether the dashboard must stop the CSO until the state is fixed
func IsBlocking(state domain.RemittanceState) bool {
	return state == domain.RemittanceNone || state == domain.RemittancePartial
}

// Detect classifies the CSO's remittance for the reference day derived from now
func Detect(csoID string, history []domain.Remittance, now time.Time) domain.OutstandingRemittance {
	ref := ReferenceDate(now)
	record := Find(history, ref)
	state := ClassifyRecord(record)

	out := domain.OutstandingRemittance{
		CSOID:           csoID,
		Status:          state,
		ReferenceDate:   ref,
		Blocking:        IsBlocking(state),
		AmountRemaining: decimal.Zero,
		Remittance:      record,
	}
	if state == domain.RemittancePartial {
		out.AmountRemaining = utils.MaxZero(record.AmountCollected.Sub(record.AmountPaid))
	}

	return out
}

// Detector runs Detect against an injected clock
type Detector struct {
	clock utils.Clock
}

func NewDetector(clock utils.Clock) *Detector {
	return &Detector{clock: clock}
}

func (d *Detector) ReferenceDate() time.Time {
	return ReferenceDate(d.clock.Now())
}

func (d *Detector) Detect(csoID string, history []domain.Remittance) domain.OutstandingRemittance {
	return Detect(csoID, history, d.clock.Now())
}
