package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postgresDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests using it are skipped when the variable is unset.
func postgresDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	cleanupTestData(db)
	return db
}

func cleanupTestData(db *sqlx.DB) {
	db.MustExec("DELETE FROM payments")
	db.MustExec("DELETE FROM loans")
	db.MustExec("DELETE FROM remittances")
}

func newApprovedLoan(loanID string) *domain.Loan {
	now := time.Now().UTC().Truncate(time.Microsecond)
	adminID := "admin-1"
	return &domain.Loan{
		ID:       uuid.New(),
		LoanID:   loanID,
		CSOID:    "CSO-1",
		Customer: domain.Customer{Name: "Ada Obi", Phone: "08030000000", BVN: "12345678901"},
		LoanDetails: domain.LoanDetails{
			Principal:       decimal.NewFromInt(20000),
			InterestRate:    decimal.NewFromFloat(0.1),
			AmountToBePaid:  decimal.NewFromInt(22000),
			DailyAmount:     decimal.NewFromInt(1000),
			AmountPaidSoFar: decimal.Zero,
		},
		Status:     domain.LoanStatusApproved,
		ApprovedBy: &adminID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestPostgres_LoanLifecycle(t *testing.T) {
	db := postgresDB(t)
	loans := NewLoanRepository(db)
	payments := NewPaymentRepository(db)
	ctx := context.Background()

	require.NoError(t, loans.Create(ctx, newApprovedLoan("LN-PG-1")))
	assert.ErrorIs(t, loans.Create(ctx, newApprovedLoan("LN-PG-1")), ErrDuplicate)

	got, err := loans.GetByLoanID(ctx, "LN-PG-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", got.Customer.Name)
	assert.True(t, got.LoanDetails.DailyAmount.Equal(decimal.NewFromInt(1000)))
	assert.Nil(t, got.DisbursedAt)

	ids, err := loans.ListActiveCSOIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// first disbursement is stored
	disbursed := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	got.DisbursedAt = &disbursed
	got.Status = domain.LoanStatusActive
	require.NoError(t, loans.Update(ctx, got))

	got, err = loans.GetByLoanID(ctx, "LN-PG-1")
	require.NoError(t, err)
	require.NotNil(t, got.DisbursedAt)
	assert.True(t, got.DisbursedAt.Equal(disbursed))
	assert.Equal(t, domain.LoanStatusActive, got.Status)

	// a later disbursement date never replaces the first
	later := disbursed.AddDate(0, 0, 5)
	got.DisbursedAt = &later
	require.NoError(t, loans.Update(ctx, got))

	got, err = loans.GetByLoanID(ctx, "LN-PG-1")
	require.NoError(t, err)
	require.NotNil(t, got.DisbursedAt)
	assert.True(t, got.DisbursedAt.Equal(disbursed))

	ids, err = loans.ListActiveCSOIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CSO-1"}, ids)

	paidAt := time.Now().UTC().Truncate(time.Microsecond)
	updated, err := payments.Record(ctx, &domain.Payment{
		ID: uuid.New(), LoanID: "LN-PG-1", Amount: decimal.NewFromInt(7000), RecordedBy: "CSO-1", PaidAt: paidAt.Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, updated.LoanDetails.AmountPaidSoFar.Equal(decimal.NewFromInt(7000)))
	assert.Equal(t, domain.LoanStatusActive, updated.Status)

	updated, err = payments.Record(ctx, &domain.Payment{
		ID: uuid.New(), LoanID: "LN-PG-1", Amount: decimal.NewFromInt(15000), RecordedBy: "CSO-1", PaidAt: paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusCompleted, updated.Status)
	assert.True(t, updated.LoanDetails.AmountPaidSoFar.Equal(decimal.NewFromInt(22000)))

	latest, err := payments.GetLatestPayment(ctx, "LN-PG-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.PaidAt.Equal(paidAt))

	list, err := payments.GetByLoanID(ctx, "LN-PG-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPostgres_Remittances(t *testing.T) {
	db := postgresDB(t)
	repo := NewRemittanceRepository(db)
	ctx := context.Background()

	lagos := time.FixedZone("WAT", 3600)
	day := time.Date(2024, time.January, 26, 0, 0, 0, 0, lagos)
	now := time.Now().UTC()

	record := &domain.Remittance{
		ID: uuid.New(), CSOID: "CSO-1", Date: day,
		AmountCollected: decimal.NewFromInt(5000), AmountPaid: decimal.NewFromInt(3500),
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, record))

	dup := *record
	dup.ID = uuid.New()
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicate)

	got, err := repo.GetByCSOAndDate(ctx, "CSO-1", day)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-26", got.Date.Format(domain.DateLayout))

	got.AmountPaid = decimal.NewFromInt(5000)
	require.NoError(t, repo.Update(ctx, got))

	history, err := repo.ListByCSOSince(ctx, "CSO-1", day.AddDate(0, 0, -14))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].AmountPaid.Equal(decimal.NewFromInt(5000)))
}
