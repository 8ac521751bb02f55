package http

import (
	"net/http"

	"loan-simulator/logging"
)

// NewRouter registers every API route. Loan and company routes share the
// per-client rate limiter; the whole mux sits behind the request logger.
func NewRouter(
	loanHandler *LoanHandler,
	companyHandler *CompanyHandler,
	limiter *RateLimiter,
	clients *ClientIPResolver,
	logger *logging.Logger,
) http.Handler {
	mux := http.NewServeMux()

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, clients, h)
	}

	mux.Handle("/loan/simulate", limited(loanHandler.SimulateLoan))
	mux.Handle("/loan/simulations", limited(loanHandler.ListSimulations))
	mux.Handle("/companies", limited(companyHandler.Companies))
	mux.Handle("/companies/{id}", limited(companyHandler.GetCompany))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return RequestLogger(logger, clients, mux)
}
