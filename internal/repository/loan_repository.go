package repository

import (
	"context"

	"github.com/segyhp/loan-ops/internal/domain"

	"github.com/jmoiron/sqlx"
)

const loanColumns = `
	id, loan_id, cso_id,
	customer_name AS "customer.name",
	customer_phone AS "customer.phone",
	customer_bvn AS "customer.bvn",
	principal AS "loan_details.principal",
	interest_rate AS "loan_details.interest_rate",
	amount_to_be_paid AS "loan_details.amount_to_be_paid",
	daily_amount AS "loan_details.daily_amount",
	amount_paid_so_far AS "loan_details.amount_paid_so_far",
	status, approved_by, rejection_reason, disbursed_at, created_at, updated_at`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (
			id, loan_id, cso_id, customer_name, customer_phone, customer_bvn,
			principal, interest_rate, amount_to_be_paid, daily_amount, amount_paid_so_far,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.CSOID,
		loan.Customer.Name,
		loan.Customer.Phone,
		loan.Customer.BVN,
		loan.LoanDetails.Principal,
		loan.LoanDetails.InterestRate,
		loan.LoanDetails.AmountToBePaid,
		loan.LoanDetails.DailyAmount,
		loan.LoanDetails.AmountPaidSoFar,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return translate(err)
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE loan_id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanID)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByCSO(ctx context.Context, csoID string) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE cso_id = $1
		ORDER BY created_at DESC
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, csoID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListActiveCSOIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT cso_id
		FROM loans
		WHERE status = $1
		ORDER BY cso_id
	`

	var ids []string
	err := r.db.SelectContext(ctx, &ids, query, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET status = $2,
			approved_by = $3,
			rejection_reason = $4,
			disbursed_at = COALESCE(disbursed_at, $5),
			updated_at = $6
		WHERE loan_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.LoanID,
		loan.Status,
		loan.ApprovedBy,
		loan.RejectionReason,
		loan.DisbursedAt,
		loan.UpdatedAt,
	)

	return err
}
