package handler

import (
	"context"
	"net/http"

	"github.com/segyhp/loan-ops/internal/domain"
	"github.com/segyhp/loan-ops/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// LoanService is what the loan endpoints need from the service layer
type LoanService interface {
	CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error)
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	ApproveLoan(ctx context.Context, loanID string, adminID string) (*domain.Loan, error)
	RejectLoan(ctx context.Context, loanID string, reason string) (*domain.Loan, error)
	DisburseLoan(ctx context.Context, loanID string) (*domain.Loan, error)
	RecordPayment(ctx context.Context, loanID string, request *domain.MakePaymentRequest) (*domain.PaymentResponse, error)
	GetPayments(ctx context.Context, loanID string) ([]*domain.Payment, error)
	GetLoanMetrics(ctx context.Context, loanID string) (*domain.LoanWithMetrics, error)
	ListCSOLoans(ctx context.Context, csoID string) ([]*domain.LoanWithMetrics, error)
}

type LoanHandler struct {
	service   LoanService
	validator *validator.Validate
	log       *zap.Logger
}

func NewLoanHandler(service LoanService, log *zap.Logger) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: NewValidator(),
		log:       log,
	}
}

func (h *LoanHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if response.StatusFor(err) == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	response.FromError(w, err)
}

// CreateLoan handles POST /loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, loan)
}

// GetLoan handles GET /loans/{loanId}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetLoan(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, loan)
}

// ApproveLoan handles POST /loans/{loanId}/approve
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.ApproveLoanRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	loan, err := h.service.ApproveLoan(r.Context(), mux.Vars(r)["loanId"], req.AdminID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, loan)
}

// RejectLoan handles POST /loans/{loanId}/reject
func (h *LoanHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.RejectLoanRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	loan, err := h.service.RejectLoan(r.Context(), mux.Vars(r)["loanId"], req.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, loan)
}

// DisburseLoan handles POST /loans/{loanId}/disburse
func (h *LoanHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.DisburseLoan(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, loan)
}

// RecordPayment handles POST /loans/{loanId}/payments
func (h *LoanHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.MakePaymentRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	result, err := h.service.RecordPayment(r.Context(), mux.Vars(r)["loanId"], &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, result)
}

// GetPayments handles GET /loans/{loanId}/payments
func (h *LoanHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.GetPayments(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, payments)
}

// GetLoanMetrics handles GET /loans/{loanId}/metrics
func (h *LoanHandler) GetLoanMetrics(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetLoanMetrics(r.Context(), mux.Vars(r)["loanId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, result)
}

// ListCSOLoans handles GET /csos/{csoId}/loans
func (h *LoanHandler) ListCSOLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListCSOLoans(r.Context(), mux.Vars(r)["csoId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, loans)
}
