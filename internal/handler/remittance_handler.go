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

type RemittanceService interface {
	GetOutstanding(ctx context.Context, csoID string) (*domain.OutstandingRemittance, error)
	SubmitRemittance(ctx context.Context, csoID string, request *domain.SubmitRemittanceRequest) (*domain.Remittance, error)
	PayRemainder(ctx context.Context, csoID string, date string, request *domain.PayRemainderRequest) (*domain.Remittance, error)
	ResolveRemittance(ctx context.Context, csoID string, date string, request *domain.ResolveRemittanceRequest) (*domain.Remittance, error)
}

type RemittanceHandler struct {
	service   RemittanceService
	validator *validator.Validate
	log       *zap.Logger
}

func NewRemittanceHandler(service RemittanceService, log *zap.Logger) *RemittanceHandler {
	return &RemittanceHandler{
		service:   service,
		validator: NewValidator(),
		log:       log,
	}
}

func (h *RemittanceHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if response.StatusFor(err) == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	response.FromError(w, err)
}

// GetOutstanding handles GET /csos/{csoId}/remittances/outstanding
func (h *RemittanceHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.GetOutstanding(r.Context(), mux.Vars(r)["csoId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, out)
}

// SubmitRemittance handles POST /csos/{csoId}/remittances
func (h *RemittanceHandler) SubmitRemittance(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitRemittanceRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	record, err := h.service.SubmitRemittance(r.Context(), mux.Vars(r)["csoId"], &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Created(w, record)
}

// PayRemainder handles POST /csos/{csoId}/remittances/{date}/pay
func (h *RemittanceHandler) PayRemainder(w http.ResponseWriter, r *http.Request) {
	var req domain.PayRemainderRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	vars := mux.Vars(r)
	record, err := h.service.PayRemainder(r.Context(), vars["csoId"], vars["date"], &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, record)
}

// ResolveRemittance handles POST /csos/{csoId}/remittances/{date}/resolve
func (h *RemittanceHandler) ResolveRemittance(w http.ResponseWriter, r *http.Request) {
	var req domain.ResolveRemittanceRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	vars := mux.Vars(r)
	record, err := h.service.ResolveRemittance(r.Context(), vars["csoId"], vars["date"], &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, record)
}
