package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/segyhp/loan-ops/internal/config"
	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/internal/metrics"
	"github.com/segyhp/loan-ops/internal/repository"
	customError "github.com/segyhp/loan-ops/pkg/errors"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LoanService struct {
	LoanRepo    repository.LoanRepository
	PaymentRepo repository.PaymentRepository
	cache       cached
	calculator  *metrics.Calculator
	config      *config.Config
	log         *zap.Logger
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	store Cache,
	clock utils.Clock,
	config *config.Config,
	log *zap.Logger,
) *LoanService {
	return &LoanService{
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		cache:       cached{store: store, log: log},
		calculator:  metrics.NewCalculator(clock),
		config:      config,
		log:         log,
	}
}

func metricsKey(loanID, day string) string {
	return fmt.Sprintf("loan:metrics:%s:%s", loanID, day)
}

func (s *LoanService) today() string {
	return s.calculator.Now().Format(domain.DateLayout)
}

// CreateLoan originates a pending loan with its daily installment
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	// Check if loan already exists
	existingLoan, err := s.LoanRepo.GetByLoanID(ctx, request.LoanID)
	if err == nil && existingLoan != nil {
		return nil, customError.WrapLoanAlreadyExists(request.LoanID)
	}

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	total := utils.CalculateTotalRepayable(request.Principal, request.InterestRate)
	daily := utils.CalculateDailyPayment(total, s.config.Business.InstallmentDays)
	now := s.calculator.Now()

	loan := &domain.Loan{
		ID:     uuid.New(),
		LoanID: request.LoanID,
		CSOID:  request.CSOID,
		Customer: domain.Customer{
			Name:  request.Customer.Name,
			Phone: request.Customer.Phone,
			BVN:   request.Customer.BVN,
		},
		LoanDetails: domain.LoanDetails{
			Principal:       request.Principal,
			InterestRate:    request.InterestRate,
			AmountToBePaid:  total,
			DailyAmount:     daily,
			AmountPaidSoFar: decimal.Zero,
		},
		Status:    domain.LoanStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.LoanRepo.Create(ctx, loan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapLoanAlreadyExists(request.LoanID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info("loan created",
		zap.String("loan_id", loan.LoanID),
		zap.String("cso_id", loan.CSOID),
		zap.String("amount_to_be_paid", total.String()),
	)

	return loan, nil
}

// GetLoan returns a loan or LOAN_NOT_FOUND
func (s *LoanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByLoanID(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanID)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// ApproveLoan moves a pending loan to approved
func (s *LoanService) ApproveLoan(ctx context.Context, loanID string, adminID string) (*domain.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanStatusPending {
		return nil, customError.WrapInvalidLoanState(loanID, loan.Status, "approved")
	}

	loan.Status = domain.LoanStatusApproved
	loan.ApprovedBy = &adminID
	loan.UpdatedAt = s.calculator.Now()

	if err = s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.invalidate(ctx, metricsKey(loanID, s.today()))
	s.log.Info("loan approved", zap.String("loan_id", loanID), zap.String("admin_id", adminID))
	return loan, nil
}

// RejectLoan moves a pending loan to rejected
func (s *LoanService) RejectLoan(ctx context.Context, loanID string, reason string) (*domain.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanStatusPending {
		return nil, customError.WrapInvalidLoanState(loanID, loan.Status, "rejected")
	}

	loan.Status = domain.LoanStatusRejected
	loan.RejectionReason = &reason
	loan.UpdatedAt = s.calculator.Now()

	if err = s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.invalidate(ctx, metricsKey(loanID, s.today()))
	s.log.Info("loan rejected", zap.String("loan_id", loanID))
	return loan, nil
}

// DisburseLoan stamps the disbursement time on an approved loan. It happens once.
func (s *LoanService) DisburseLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.IsDisbursed() {
		return nil, customError.WrapLoanAlreadyDisbursed(loanID)
	}

	if loan.Status != domain.LoanStatusApproved {
		return nil, customError.WrapInvalidLoanState(loanID, loan.Status, "disbursed")
	}

	now := s.calculator.Now()
	loan.DisbursedAt = &now
	loan.Status = domain.LoanStatusActive
	loan.UpdatedAt = now

	if err = s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.invalidate(ctx, metricsKey(loanID, s.today()))
	s.log.Info("loan disbursed", zap.String("loan_id", loanID), zap.Time("disbursed_at", now))

	return loan, nil
}

// RecordPayment adds a repayment to an active loan
func (s *LoanService) RecordPayment(ctx context.Context, loanID string, request *domain.MakePaymentRequest) (*domain.PaymentResponse, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Status != domain.LoanStatusActive {
		return nil, customError.WrapInvalidLoanState(loanID, loan.Status, "repaid")
	}

	payment := &domain.Payment{
		ID:         uuid.New(),
		LoanID:     loanID,
		Amount:     request.Amount,
		RecordedBy: request.RecordedBy,
		PaidAt:     s.calculator.Now(),
	}

	updated, err := s.PaymentRepo.Record(ctx, payment)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.invalidate(ctx, metricsKey(loanID, s.today()))
	s.log.Info("payment recorded",
		zap.String("loan_id", loanID),
		zap.String("amount", request.Amount.String()),
		zap.String("amount_paid_so_far", updated.LoanDetails.AmountPaidSoFar.String()),
		zap.String("status", updated.Status),
	)

	return &domain.PaymentResponse{Payment: payment, Loan: updated}, nil
}

// GetPayments lists the repayments recorded against a loan
func (s *LoanService) GetPayments(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	if _, err := s.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if payments == nil {
		payments = []*domain.Payment{}
	}

	return payments, nil
}

// GetLoanMetrics returns the loan with its derived repayment figures for today
func (s *LoanService) GetLoanMetrics(ctx context.Context, loanID string) (*domain.LoanWithMetrics, error) {
	key := metricsKey(loanID, s.today())

	var hit domain.LoanWithMetrics
	if s.cache.get(ctx, key, &hit) {
		return &hit, nil
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	result := &domain.LoanWithMetrics{Loan: loan, Metrics: s.calculator.Compute(loan)}

	latest, err := s.PaymentRepo.GetLatestPayment(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if latest != nil {
		result.LastPaymentAt = &latest.PaidAt
	}

	s.cache.set(ctx, key, result, s.config.GetMetricsTTL())

	return result, nil
}

// ListCSOLoans returns every loan a CSO originated, each with its metrics
func (s *LoanService) ListCSOLoans(ctx context.Context, csoID string) ([]*domain.LoanWithMetrics, error) {
	loans, err := s.LoanRepo.ListByCSO(ctx, csoID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	out := make([]*domain.LoanWithMetrics, 0, len(loans))
	for _, loan := range loans {
		out = append(out, &domain.LoanWithMetrics{Loan: loan, Metrics: s.calculator.Compute(loan)})
	}

	return out, nil
}
