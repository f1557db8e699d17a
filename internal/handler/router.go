package handler

import (
	"net/http"

	"github.com/segyhp/loan-ops/pkg/response"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint under /api/v1 plus the health endpoints
func NewRouter(loans *LoanHandler, remittances *RemittanceHandler, health *HealthHandler, log *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware, response.LoggingMiddleware(log))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})

	if health != nil {
		router.HandleFunc("/health", health.Health).Methods(http.MethodGet)
		router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", loans.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}", loans.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/approve", loans.ApproveLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/reject", loans.RejectLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/disburse", loans.DisburseLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/payments", loans.RecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loanId}/payments", loans.GetPayments).Methods(http.MethodGet)
	api.HandleFunc("/loans/{loanId}/metrics", loans.GetLoanMetrics).Methods(http.MethodGet)
	api.HandleFunc("/csos/{csoId}/loans", loans.ListCSOLoans).Methods(http.MethodGet)

	api.HandleFunc("/csos/{csoId}/remittances", remittances.SubmitRemittance).Methods(http.MethodPost)
	api.HandleFunc("/csos/{csoId}/remittances/outstanding", remittances.GetOutstanding).Methods(http.MethodGet)
	api.HandleFunc("/csos/{csoId}/remittances/{date}/pay", remittances.PayRemainder).Methods(http.MethodPost)
	api.HandleFunc("/csos/{csoId}/remittances/{date}/resolve", remittances.ResolveRemittance).Methods(http.MethodPost)

	return router
}
