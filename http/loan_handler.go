package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"loan-simulator/amortization"
	"loan-simulator/domain"
	"loan-simulator/logging"
	"loan-simulator/service"
)

const maxBodyBytes = 1 << 20

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

func (h *LoanHandler) SimulateLoan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req domain.SimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	sim, err := h.service.Simulate(r.Context(), req)
	if err != nil {
		h.writeSimulateError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newSimulationResponse(sim, true))
}

func (h *LoanHandler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sims, err := h.service.RecentSimulations(r.Context(), limit)
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Error listing simulations",
			logging.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]simulationResponse, len(sims))
	for i, sim := range sims {
		out[i] = newSimulationResponse(sim, false)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *LoanHandler) writeSimulateError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request", Fields: verr.Fields})
	case amortization.IsValidationError(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCompanyNotFound):
		writeError(w, r, http.StatusNotFound, "finance company not found")
	default:
		// Computation failures are logged with their inputs by the service.
		writeError(w, r, http.StatusInternalServerError, "could not compute the repayment schedule")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "Error decoding request body",
			logging.FieldError, err)
		return err
	}
	return nil
}
