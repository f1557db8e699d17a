package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/loan-ops/internal/config"
	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/internal/remittance"
	"github.com/segyhp/loan-ops/internal/repository"
	customError "github.com/segyhp/loan-ops/pkg/errors"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RemittanceService struct {
	RemittanceRepo repository.RemittanceRepository
	LoanRepo       repository.LoanRepository
	cache          cached
	detector       *remittance.Detector
	clock          utils.Clock
	config         *config.Config
	log            *zap.Logger
}

func NewRemittanceService(
	remittanceRepo repository.RemittanceRepository,
	loanRepo repository.LoanRepository,
	store Cache,
	clock utils.Clock,
	config *config.Config,
	log *zap.Logger,
) *RemittanceService {
	return &RemittanceService{
		RemittanceRepo: remittanceRepo,
		LoanRepo:       loanRepo,
		cache:          cached{store: store, log: log},
		detector:       remittance.NewDetector(clock),
		clock:          clock,
		config:         config,
		log:            log,
	}
}

func outstandingKey(csoID string, day time.Time) string {
	return fmt.Sprintf("remittance:outstanding:%s:%s", csoID, day.Format(domain.DateLayout))
}

func (s *RemittanceService) parseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(domain.DateLayout, value, s.config.Location())
	if err != nil {
		return time.Time{}, customError.WrapInvalidRemittance(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value))
	}
	return d, nil
}

func (s *RemittanceService) getRecord(ctx context.Context, csoID string, date time.Time) (*domain.Remittance, error) {
	record, err := s.RemittanceRepo.GetByCSOAndDate(ctx, csoID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapRemittanceNotFound(csoID, date.Format(domain.DateLayout))
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return record, nil
}

// GetOutstanding classifies the CSO's remittance for the reference day
func (s *RemittanceService) GetOutstanding(ctx context.Context, csoID string) (*domain.OutstandingRemittance, error) {
	ref := s.detector.ReferenceDate()
	key := outstandingKey(csoID, ref)

	var hit domain.OutstandingRemittance
	if s.cache.get(ctx, key, &hit) {
		return &hit, nil
	}

	since := ref.AddDate(0, 0, -s.config.Business.HistoryDays)
	history, err := s.RemittanceRepo.ListByCSOSince(ctx, csoID, since)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	out := s.detector.Detect(csoID, history)
	s.cache.set(ctx, key, out, s.config.GetMetricsTTL())

	return &out, nil
}

// SubmitRemittance records a CSO's end-of-day remittance. One per CSO per business day.
func (s *RemittanceService) SubmitRemittance(ctx context.Context, csoID string, request *domain.SubmitRemittanceRequest) (*domain.Remittance, error) {
	date, err := s.parseDate(request.Date)
	if err != nil {
		return nil, err
	}

	if utils.IsWeekend(date) {
		return nil, customError.WrapInvalidRemittance("remittance date must be a business day")
	}

	now := s.clock.Now()
	if date.After(utils.StartOfDay(now)) {
		return nil, customError.WrapInvalidRemittance("remittance date cannot be in the future")
	}

	if request.AmountCollected.IsNegative() || request.AmountPaid.IsNegative() {
		return nil, customError.WrapInvalidRemittance("amounts cannot be negative")
	}

	if request.AmountPaid.GreaterThan(request.AmountCollected) {
		return nil, customError.WrapInvalidRemittance("amount paid cannot exceed amount collected")
	}

	record := &domain.Remittance{
		ID:              uuid.New(),
		CSOID:           csoID,
		Date:            date,
		AmountCollected: request.AmountCollected,
		AmountPaid:      request.AmountPaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.RemittanceRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapRemittanceAlreadyExists(csoID, request.Date)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.invalidate(ctx, outstandingKey(csoID, date))
	s.log.Info("remittance submitted",
		zap.String("cso_id", csoID),
		zap.String("date", request.Date),
		zap.String("state", string(remittance.ClassifyRecord(record))),
	)

	return record, nil
}

// PayRemainder tops up a partial remittance
func (s *RemittanceService) PayRemainder(ctx context.Context, csoID string, dateValue string, request *domain.PayRemainderRequest) (*domain.Remittance, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	date, err := s.parseDate(dateValue)
	if err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, csoID, date)
	if err != nil {
		return nil, err
	}

	if remittance.ClassifyRecord(record) != domain.RemittancePartial {
		return nil, customError.WrapRemittanceNotPartial(csoID, dateValue)
	}

	remaining := record.AmountCollected.Sub(record.AmountPaid)
	if request.Amount.GreaterThan(remaining) {
		return nil, customError.WrapRemainderExceeded(remaining.String(), request.Amount.String())
	}

	record.AmountPaid = record.AmountPaid.Add(request.Amount)
	record.UpdatedAt = s.clock.Now()

	if err = s.RemittanceRepo.Update(ctx, record); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cache.invalidate(ctx, outstandingKey(csoID, date))
	s.log.Info("remittance remainder paid",
		zap.String("cso_id", csoID),
		zap.String("date", dateValue),
		zap.String("amount", request.Amount.String()),
	)

	return record, nil
}

// ResolveRemittance lets an admin clear a day, creating an empty record if none exists
func (s *RemittanceService) ResolveRemittance(ctx context.Context, csoID string, dateValue string, request *domain.ResolveRemittanceRequest) (*domain.Remittance, error) {
	date, err := s.parseDate(dateValue)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	note := request.Note
	adminID := request.AdminID

	record, err := s.getRecord(ctx, csoID, date)
	if errors.Is(err, customError.ErrRemittanceNotFound) {
		record = &domain.Remittance{
			ID:              uuid.New(),
			CSOID:           csoID,
			Date:            date,
			AmountCollected: decimal.Zero,
			AmountPaid:      decimal.Zero,
			Resolved:        true,
			ResolvedBy:      &adminID,
			ResolutionNote:  &note,
			ResolvedAt:      &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		err = s.RemittanceRepo.Create(ctx, record)
		if err == nil {
			s.afterResolve(ctx, csoID, date, adminID)
			return record, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, customError.WrapDatabaseError(err)
		}
		// a concurrent submission created the row first; resolve that one instead
		record, err = s.getRecord(ctx, csoID, date)
	}
	if err != nil {
		return nil, err
	}

	record.Resolved = true
	record.ResolvedBy = &adminID
	record.ResolutionNote = &note
	record.ResolvedAt = &now
	record.UpdatedAt = now
	if err = s.RemittanceRepo.Update(ctx, record); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.afterResolve(ctx, csoID, date, adminID)
	return record, nil
}

func (s *RemittanceService) afterResolve(ctx context.Context, csoID string, date time.Time, adminID string) {
	s.cache.invalidate(ctx, outstandingKey(csoID, date))
	s.log.Info("remittance resolved",
		zap.String("cso_id", csoID),
		zap.String("date", date.Format(domain.DateLayout)),
		zap.String("admin_id", adminID),
	)
}

// SweepOutstanding checks every CSO with active loans and returns those currently blocked
func (s *RemittanceService) SweepOutstanding(ctx context.Context) ([]domain.OutstandingRemittance, error) {
	csoIDs, err := s.LoanRepo.ListActiveCSOIDs(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	blocked := make([]domain.OutstandingRemittance, 0)
	for _, csoID := range csoIDs {
		out, err := s.GetOutstanding(ctx, csoID)
		if err != nil {
			s.log.Error("remittance sweep failed for CSO", zap.String("cso_id", csoID), zap.Error(err))
			continue
		}
		if !out.Blocking {
			continue
		}

		s.log.Warn("CSO remittance outstanding",
			zap.String("cso_id", csoID),
			zap.String("status", string(out.Status)),
			zap.String("reference_date", out.ReferenceDate.Format(domain.DateLayout)),
			zap.String("amount_remaining", out.AmountRemaining.String()),
		)
		blocked = append(blocked, *out)
	}

	s.log.Info("remittance sweep finished", zap.Int("csos_checked", len(csoIDs)), zap.Int("blocked", len(blocked)))
	return blocked, nil
}
