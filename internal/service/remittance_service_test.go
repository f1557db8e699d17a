package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/internal/mocks"
	"github.com/segyhp/loan-ops/internal/repository"
	customError "github.com/segyhp/loan-ops/pkg/errors"
	"github.com/segyhp/loan-ops/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testNow is a Wednesday, so the reference day is Tuesday 2024-01-30
var refDay = time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC)

func newRemittanceService(remRepo *mocks.MockRemittanceRepository, loanRepo *mocks.MockLoanRepository, store Cache) *RemittanceService {
	return NewRemittanceService(remRepo, loanRepo, store, utils.FixedClock{T: testNow}, testConfig(), zap.NewNop())
}

func remittanceOn(date time.Time, collected, paid int64) domain.Remittance {
	return domain.Remittance{
		CSOID:           "CSO-1",
		Date:            date,
		AmountCollected: decimal.NewFromInt(collected),
		AmountPaid:      decimal.NewFromInt(paid),
	}
}

func TestGetOutstanding(t *testing.T) {
	tests := []struct {
		name      string
		history   []domain.Remittance
		status    domain.RemittanceState
		blocking  bool
		remaining decimal.Decimal
	}{
		{
			name:      "nothing remitted",
			history:   []domain.Remittance{remittanceOn(refDay.AddDate(0, 0, -1), 5000, 5000)},
			status:    domain.RemittanceNone,
			blocking:  true,
			remaining: decimal.Zero,
		},
		{
			name:      "partial remittance",
			history:   []domain.Remittance{remittanceOn(refDay, 5000, 3500)},
			status:    domain.RemittancePartial,
			blocking:  true,
			remaining: decimal.NewFromInt(1500),
		},
		{
			name:      "complete remittance",
			history:   []domain.Remittance{remittanceOn(refDay, 5000, 5000)},
			status:    domain.RemittanceComplete,
			remaining: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remRepo := new(mocks.MockRemittanceRepository)
			remRepo.On("ListByCSOSince", mock.Anything, "CSO-1", refDay.AddDate(0, 0, -14)).Return(tt.history, nil)

			out, err := newRemittanceService(remRepo, nil, nil).GetOutstanding(context.Background(), "CSO-1")
			require.NoError(t, err)
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, tt.blocking, out.Blocking)
			assert.True(t, out.AmountRemaining.Equal(tt.remaining))
			assert.True(t, out.ReferenceDate.Equal(refDay))
			remRepo.AssertExpectations(t)
		})
	}
}

func TestGetOutstanding_Cached(t *testing.T) {
	store, srv := newTestStore(t)
	remRepo := new(mocks.MockRemittanceRepository)
	remRepo.On("ListByCSOSince", mock.Anything, "CSO-1", mock.Anything).
		Return([]domain.Remittance{remittanceOn(refDay, 5000, 4000)}, nil).Once()

	svc := newRemittanceService(remRepo, nil, store)
	ctx := context.Background()

	first, err := svc.GetOutstanding(ctx, "CSO-1")
	require.NoError(t, err)
	assert.True(t, srv.Exists("test:remittance:outstanding:CSO-1:2024-01-30"))

	second, err := svc.GetOutstanding(ctx, "CSO-1")
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.True(t, second.AmountRemaining.Equal(decimal.NewFromInt(1000)))
	remRepo.AssertExpectations(t)
}

func TestSubmitRemittance(t *testing.T) {
	tests := []struct {
		name          string
		request       domain.SubmitRemittanceRequest
		setupMocks    func(*mocks.MockRemittanceRepository)
		expectedError error
	}{
		{
			name:    "Success - partial remittance stored",
			request: domain.SubmitRemittanceRequest{Date: "2024-01-30", AmountCollected: decimal.NewFromInt(5000), AmountPaid: decimal.NewFromInt(4000)},
			setupMocks: func(remRepo *mocks.MockRemittanceRepository) {
				remRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Remittance) bool {
					return r.CSOID == "CSO-1" && r.Date.Equal(refDay) && r.AmountPaid.Equal(decimal.NewFromInt(4000))
				})).Return(nil)
			},
		},
		{
			name:          "Failure - weekend date",
			request:       domain.SubmitRemittanceRequest{Date: "2024-01-27", AmountCollected: decimal.NewFromInt(5000), AmountPaid: decimal.NewFromInt(5000)},
			setupMocks:    func(*mocks.MockRemittanceRepository) {},
			expectedError: customError.ErrInvalidRemittance,
		},
		{
			name:          "Failure - future date",
			request:       domain.SubmitRemittanceRequest{Date: "2024-02-01", AmountCollected: decimal.NewFromInt(5000), AmountPaid: decimal.NewFromInt(5000)},
			setupMocks:    func(*mocks.MockRemittanceRepository) {},
			expectedError: customError.ErrInvalidRemittance,
		},
		{
			name:          "Failure - paid exceeds collected",
			request:       domain.SubmitRemittanceRequest{Date: "2024-01-30", AmountCollected: decimal.NewFromInt(5000), AmountPaid: decimal.NewFromInt(6000)},
			setupMocks:    func(*mocks.MockRemittanceRepository) {},
			expectedError: customError.ErrInvalidRemittance,
		},
		{
			name:          "Failure - malformed date",
			request:       domain.SubmitRemittanceRequest{Date: "30/01/2024", AmountCollected: decimal.NewFromInt(5000)},
			setupMocks:    func(*mocks.MockRemittanceRepository) {},
			expectedError: customError.ErrInvalidRemittance,
		},
		{
			name:    "Failure - duplicate day",
			request: domain.SubmitRemittanceRequest{Date: "2024-01-30", AmountCollected: decimal.NewFromInt(5000), AmountPaid: decimal.NewFromInt(5000)},
			setupMocks: func(remRepo *mocks.MockRemittanceRepository) {
				remRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
			},
			expectedError: customError.ErrRemittanceAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remRepo := new(mocks.MockRemittanceRepository)
			tt.setupMocks(remRepo)

			record, err := newRemittanceService(remRepo, nil, nil).SubmitRemittance(context.Background(), "CSO-1", &tt.request)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, record)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "CSO-1", record.CSOID)
			}
			remRepo.AssertExpectations(t)
		})
	}
}

func TestPayRemainder(t *testing.T) {
	partial := func() *domain.Remittance {
		r := remittanceOn(refDay, 5000, 3500)
		return &r
	}

	tests := []struct {
		name          string
		amount        decimal.Decimal
		setupMocks    func(*mocks.MockRemittanceRepository)
		expectedError error
	}{
		{
			name:   "Success - clears remainder",
			amount: decimal.NewFromInt(1500),
			setupMocks: func(remRepo *mocks.MockRemittanceRepository) {
				remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(partial(), nil)
				remRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Remittance) bool {
					return r.AmountPaid.Equal(decimal.NewFromInt(5000))
				})).Return(nil)
			},
		},
		{
			name:   "Failure - exceeds remainder",
			amount: decimal.NewFromInt(2000),
			setupMocks: func(remRepo *mocks.MockRemittanceRepository) {
				remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(partial(), nil)
			},
			expectedError: customError.ErrRemainderExceeded,
		},
		{
			name:   "Failure - already complete",
			amount: decimal.NewFromInt(100),
			setupMocks: func(remRepo *mocks.MockRemittanceRepository) {
				complete := remittanceOn(refDay, 5000, 5000)
				remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(&complete, nil)
			},
			expectedError: customError.ErrRemittanceNotPartial,
		},
		{
			name:   "Failure - no record",
			amount: decimal.NewFromInt(100),
			setupMocks: func(remRepo *mocks.MockRemittanceRepository) {
				remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(nil, sql.ErrNoRows)
			},
			expectedError: customError.ErrRemittanceNotFound,
		},
		{
			name:          "Failure - negative amount",
			amount:        decimal.NewFromInt(-5),
			setupMocks:    func(*mocks.MockRemittanceRepository) {},
			expectedError: customError.ErrInvalidPaymentAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remRepo := new(mocks.MockRemittanceRepository)
			tt.setupMocks(remRepo)

			record, err := newRemittanceService(remRepo, nil, nil).PayRemainder(context.Background(), "CSO-1", "2024-01-30",
				&domain.PayRemainderRequest{Amount: tt.amount})
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				remRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.True(t, record.AmountPaid.Equal(decimal.NewFromInt(5000)))
			}
			remRepo.AssertExpectations(t)
		})
	}
}

func TestResolveRemittance(t *testing.T) {
	t.Run("creates a resolved record when none exists", func(t *testing.T) {
		remRepo := new(mocks.MockRemittanceRepository)
		remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(nil, sql.ErrNoRows)
		remRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Remittance) bool {
			return r.Resolved && r.AmountCollected.IsZero() && *r.ResolvedBy == "admin-1"
		})).Return(nil)

		record, err := newRemittanceService(remRepo, nil, nil).ResolveRemittance(context.Background(), "CSO-1", "2024-01-30",
			&domain.ResolveRemittanceRequest{AdminID: "admin-1", Note: "market closed"})
		require.NoError(t, err)
		assert.True(t, record.Resolved)
		assert.Equal(t, "market closed", *record.ResolutionNote)
		remRepo.AssertExpectations(t)
	})

	t.Run("marks an existing partial record resolved", func(t *testing.T) {
		existing := remittanceOn(refDay, 5000, 1000)
		remRepo := new(mocks.MockRemittanceRepository)
		remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(&existing, nil)
		remRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		record, err := newRemittanceService(remRepo, nil, nil).ResolveRemittance(context.Background(), "CSO-1", "2024-01-30",
			&domain.ResolveRemittanceRequest{AdminID: "admin-1"})
		require.NoError(t, err)
		assert.True(t, record.Resolved)
		assert.True(t, record.AmountPaid.Equal(decimal.NewFromInt(1000)))
		require.NotNil(t, record.ResolvedAt)
		assert.True(t, record.ResolvedAt.Equal(testNow))
		remRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("resolves the row a concurrent submission created first", func(t *testing.T) {
		existing := remittanceOn(refDay, 5000, 2000)
		remRepo := new(mocks.MockRemittanceRepository)
		remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(nil, sql.ErrNoRows).Once()
		remRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
		remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(&existing, nil).Once()
		remRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Remittance) bool {
			return r.AmountCollected.Equal(decimal.NewFromInt(5000)) && r.Resolved
		})).Return(nil).Once()

		record, err := newRemittanceService(remRepo, nil, nil).ResolveRemittance(context.Background(), "CSO-1", "2024-01-30",
			&domain.ResolveRemittanceRequest{AdminID: "admin-1", Note: "late deposit"})
		require.NoError(t, err)
		assert.True(t, record.Resolved)
		assert.True(t, record.AmountPaid.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, "late deposit", *record.ResolutionNote)
		remRepo.AssertExpectations(t)
	})

	t.Run("other create failures surface as database errors", func(t *testing.T) {
		remRepo := new(mocks.MockRemittanceRepository)
		remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(nil, sql.ErrNoRows)
		remRepo.On("Create", mock.Anything, mock.Anything).Return(sql.ErrConnDone)

		_, err := newRemittanceService(remRepo, nil, nil).ResolveRemittance(context.Background(), "CSO-1", "2024-01-30",
			&domain.ResolveRemittanceRequest{AdminID: "admin-1"})
		require.Error(t, err)
		assert.Equal(t, customError.ErrCodeDatabaseError, customError.Code(err))
		remRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalidates the cached verdict", func(t *testing.T) {
		store, srv := newTestStore(t)
		remRepo := new(mocks.MockRemittanceRepository)
		remRepo.On("ListByCSOSince", mock.Anything, "CSO-1", mock.Anything).Return([]domain.Remittance{}, nil)
		remRepo.On("GetByCSOAndDate", mock.Anything, "CSO-1", refDay).Return(nil, sql.ErrNoRows)
		remRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newRemittanceService(remRepo, nil, store)
		ctx := context.Background()
		_, err := svc.GetOutstanding(ctx, "CSO-1")
		require.NoError(t, err)
		require.True(t, srv.Exists("test:remittance:outstanding:CSO-1:2024-01-30"))

		_, err = svc.ResolveRemittance(ctx, "CSO-1", "2024-01-30", &domain.ResolveRemittanceRequest{AdminID: "admin-1"})
		require.NoError(t, err)
		assert.False(t, srv.Exists("test:remittance:outstanding:CSO-1:2024-01-30"))
	})
}

func TestSweepOutstanding(t *testing.T) {
	loanRepo := new(mocks.MockLoanRepository)
	remRepo := new(mocks.MockRemittanceRepository)
	loanRepo.On("ListActiveCSOIDs", mock.Anything).Return([]string{"CSO-1", "CSO-2", "CSO-3"}, nil)
	remRepo.On("ListByCSOSince", mock.Anything, "CSO-1", mock.Anything).Return([]domain.Remittance{remittanceOn(refDay, 5000, 5000)}, nil)
	remRepo.On("ListByCSOSince", mock.Anything, "CSO-2", mock.Anything).Return([]domain.Remittance{}, nil)
	remRepo.On("ListByCSOSince", mock.Anything, "CSO-3", mock.Anything).Return(nil, sql.ErrConnDone)

	blocked, err := newRemittanceService(remRepo, loanRepo, nil).SweepOutstanding(context.Background())
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "CSO-2", blocked[0].CSOID)
	assert.Equal(t, domain.RemittanceNone, blocked[0].Status)
	loanRepo.AssertExpectations(t)
	remRepo.AssertExpectations(t)
}
