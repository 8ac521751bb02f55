package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-simulator/domain"
	"loan-simulator/logging"
	"loan-simulator/repository"
	"loan-simulator/service"
)

type testAPI struct {
	handler   http.Handler
	companies *repository.CompanyRepositoryMemory
	limiter   *RateLimiter
}

func newTestAPI(t *testing.T, capacity int, trustedProxies ...string) testAPI {
	t.Helper()
	logger := logging.Discard()
	companies := repository.NewCompanyRepositoryMemory()

	companyService := service.NewCompanyService(companies, logger)
	_, err := companyService.SeedDefaults(context.Background())
	require.NoError(t, err)

	loanService := service.NewLoanService(
		companies,
		repository.NewSimulationRepositoryMemory(service.MaxHistoryLimit),
		repository.NewMemoryCache(time.Minute),
		nil,
		logger,
	)

	limiter := NewRateLimiter(capacity, time.Minute)
	t.Cleanup(limiter.Stop)

	clients, err := NewClientIPResolver(trustedProxies)
	require.NoError(t, err)

	return testAPI{
		handler:   NewRouter(NewLoanHandler(loanService), NewCompanyHandler(companyService), limiter, clients, logger),
		companies: companies,
		limiter:   limiter,
	}
}

func (a testAPI) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func TestSimulateLoanHandler_OK(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/loan/simulate", []byte(`{
		"company_id": 1,
		"principal": 100000,
		"years": 10
	}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp simulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Banco Alpha", resp.CompanyName)
	assert.Equal(t, 1.2, resp.AnnualInterestRatePercent)
	assert.Equal(t, 120, resp.Months)
	assert.Equal(t, "884.75", resp.FirstPayment)
	assert.Equal(t, "100000.00", resp.TotalPrincipal)
	require.Len(t, resp.Schedule, 120)
	assert.Equal(t, "100.00", resp.Schedule[0].Interest)
	assert.Equal(t, "0.00", resp.Schedule[119].Balance)
}

func TestSimulateLoanHandler_ExtraAmortization(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/loan/simulate", []byte(`{
		"company_id": 1,
		"principal": 100000,
		"years": 10,
		"extra_amortization": 1000
	}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp simulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Less(t, resp.Months, 120)
	assert.Equal(t, "1000.00", resp.ExtraAmortization)
	assert.Equal(t, "0.00", resp.Schedule[len(resp.Schedule)-1].Balance)
}

func TestSimulateLoanHandler_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodGet, "/loan/simulate", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSimulateLoanHandler_BadRequest(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/loan/simulate", []byte(`{invalid-json}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulateLoanHandler_ValidationErrors(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/loan/simulate", []byte(`{
		"company_id": 1,
		"principal": 50,
		"years": 40,
		"extra_amortization": -5
	}`))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"principal", "years", "extra_amortization"}, fields)
}

func TestSimulateLoanHandler_UnknownCompany(t *testing.T) {
	api := newTestAPI(t, 100)

	w := api.do(http.MethodPost, "/loan/simulate", []byte(`{"company_id": 99, "principal": 1000, "years": 1}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimulateLoanHandler_ComputationFailure(t *testing.T) {
	api := newTestAPI(t, 100)
	bad, err := api.companies.Create(context.Background(), domain.FinanceCompany{
		Name: "Overflow", Code: "OVF01", TaxID: "00.000.000/0000-00", BasicInterestRate: 1e308,
	})
	require.NoError(t, err)

	body, err := json.Marshal(domain.SimulationRequest{CompanyID: bad.ID, Principal: 1000000, TermYears: 1})
	require.NoError(t, err)

	w := api.do(http.MethodPost, "/loan/simulate", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListSimulationsHandler(t *testing.T) {
	api := newTestAPI(t, 100)

	for _, id := range []int{1, 2, 3} {
		body, err := json.Marshal(domain.SimulationRequest{CompanyID: int64(id), Principal: 5000, TermYears: 2})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/loan/simulate", body).Code)
	}

	w := api.do(http.MethodGet, "/loan/simulations?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []simulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int64(3), resp[0].CompanyID, "newest first")
	assert.Empty(t, resp[0].Schedule, "history is summarised")

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/loan/simulations?limit=abc", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, api.do(http.MethodPost, "/loan/simulations", nil).Code)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", money(0))
	assert.Equal(t, "888.49", money(888.4878867834161))
	assert.Equal(t, "10.01", money(10.005))
	assert.Equal(t, "100000.00", money(99999.999999999))
}
