package http

import (
	"errors"
	"net/http"
	"strconv"

	"loan-simulator/domain"
	"loan-simulator/logging"
	"loan-simulator/service"
)

type CompanyHandler struct {
	service *service.CompanyService
}

func NewCompanyHandler(service *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// Companies serves the catalogue: GET lists, POST registers.
func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, r, http.StatusBadRequest, "invalid company id")
		return
	}

	company, err := h.service.GetCompany(r.Context(), id)
	if errors.Is(err, service.ErrCompanyNotFound) {
		writeError(w, r, http.StatusNotFound, "finance company not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "Error loading company", err)
		return
	}

	writeJSON(w, r, http.StatusOK, newCompanyResponse(company))
}

func (h *CompanyHandler) list(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context(), domain.ParseCompanySort(r.URL.Query().Get("sort")))
	if err != nil {
		h.internalError(w, r, "Error listing companies", err)
		return
	}

	out := make([]companyResponse, len(companies))
	for i, c := range companies {
		out[i] = newCompanyResponse(c)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *CompanyHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.NewCompany
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.service.AddCompany(r.Context(), in)
	var verr *service.ValidationError
	switch {
	case err == nil:
		w.Header().Set("Location", "/companies/"+strconv.FormatInt(created.ID, 10))
		writeJSON(w, r, http.StatusCreated, newCompanyResponse(created))
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request", Fields: verr.Fields})
	case errors.Is(err, service.ErrDuplicateCode):
		writeError(w, r, http.StatusConflict, "a company with this code already exists")
	case errors.Is(err, service.ErrDuplicateTaxID):
		writeError(w, r, http.StatusConflict, "a company with this tax id already exists")
	default:
		h.internalError(w, r, "Error adding company", err)
	}
}

func (h *CompanyHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.FromContext(r.Context()).ErrorContext(r.Context(), msg,
		logging.FieldError, err,
		logging.FieldErrorType, logging.ErrorTypeInternal)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
