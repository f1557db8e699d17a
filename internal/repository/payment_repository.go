package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/jmoiron/sqlx"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Record(ctx context.Context, payment *domain.Payment) (*domain.Loan, error) {
	insert := `
		INSERT INTO payments (id, loan_id, amount, recorded_by, paid_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	// amount_paid_so_far only ever grows; the loan completes once it covers amount_to_be_paid
	update := `
		UPDATE loans
		SET amount_paid_so_far = amount_paid_so_far + $2,
			status = CASE
				WHEN amount_paid_so_far + $2 >= amount_to_be_paid THEN '` + domain.LoanStatusCompleted + `'
				ELSE status
			END,
			updated_at = $3
		WHERE loan_id = $1
		RETURNING ` + loanColumns

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insert,
		payment.ID,
		payment.LoanID,
		payment.Amount,
		payment.RecordedBy,
		payment.PaidAt,
	)
	if err != nil {
		return nil, err
	}

	var loan domain.Loan
	if err = tx.GetContext(ctx, &loan, update, payment.LoanID, payment.Amount, payment.PaidAt); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, loan_id, amount, recorded_by, paid_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Payment
	err := r.db.SelectContext(ctx, &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) GetLatestPayment(ctx context.Context, loanID string) (*domain.Payment, error) {
	query := `
		SELECT id, loan_id, amount, recorded_by, paid_at
		FROM payments
		WHERE loan_id = $1
		ORDER BY paid_at DESC
		LIMIT 1
	`

	var payment domain.Payment
	err := r.db.GetContext(ctx, &payment, query, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &payment, nil
}
