package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"loan-simulator/amortization"
	"loan-simulator/domain"
	"loan-simulator/events"
	"loan-simulator/logging"
	"loan-simulator/repository"
)

type LoanService struct {
	companies repository.CompanyRepository
	history   repository.SimulationRepository
	cache     repository.CacheRepository
	publisher events.Publisher
	logger    *logging.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// NewLoanService wires the simulation flow. A nil publisher disables events.
func NewLoanService(
	companies repository.CompanyRepository,
	history repository.SimulationRepository,
	cache repository.CacheRepository,
	publisher events.Publisher,
	logger *logging.Logger,
) *LoanService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &LoanService{
		companies: companies,
		history:   history,
		cache:     cache,
		publisher: publisher,
		logger:    logger.WithComponent(logging.ComponentSimulation),
		validate:  newValidator(),
		now:       time.Now,
	}
}

// Simulate computes the repayment schedule for req using the basic rate of
// the selected finance company.
func (s *LoanService) Simulate(
	ctx context.Context,
	req domain.SimulationRequest,
) (domain.Simulation, error) {

	if err := validateStruct(s.validate, req); err != nil {
		return domain.Simulation{}, err
	}

	company, err := s.companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		return domain.Simulation{}, fmt.Errorf("resolve company %d: %w", req.CompanyID, err)
	}

	input := domain.LoanInput{
		Principal:                 req.Principal,
		AnnualInterestRatePercent: company.BasicInterestRate,
		TermYears:                 req.TermYears,
		ExtraAmortization:         req.ExtraAmortization,
	}

	result, cached := s.cachedResult(ctx, input)
	if !cached {
		result, err = amortization.Compute(input)
		if err != nil {
			s.logComputeFailure(ctx, input, err)
			return domain.Simulation{}, err
		}
		s.storeResult(ctx, input, result)
	}

	sim := domain.Simulation{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Input:       input,
		Result:      result,
		CreatedAt:   s.now().UTC(),
	}

	// History and events are not critical to the caller.
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if id, err := s.history.Save(sideCtx, sim); err != nil {
		s.logger.WarnContext(ctx, "Failed to save loan simulation", logging.FieldError, err)
	} else {
		sim.ID = id
	}

	if err := s.publisher.PublishSimulation(sideCtx, events.NewSimulationCompleted(sim)); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish simulation event", logging.FieldError, err)
	}

	s.logger.InfoContext(ctx, "Loan simulation completed",
		logging.NewFields().
			WithOperation(logging.OpSimulate).
			WithLoan(input.Principal, input.AnnualInterestRatePercent, input.TermYears, input.ExtraAmortization).
			With(logging.FieldCompanyID, company.ID).
			With(logging.FieldMonths, result.Months()).
			With(logging.FieldCacheHit, cached).
			ToSlice()...)

	return sim, nil
}

// RecentSimulations returns the latest simulations, newest first. limit is
// clamped to [1, MaxHistoryLimit]; zero means DefaultHistoryLimit.
func (s *LoanService) RecentSimulations(ctx context.Context, limit int) ([]domain.Simulation, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	sims, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	return sims, nil
}

func (s *LoanService) logComputeFailure(ctx context.Context, in domain.LoanInput, err error) {
	fields := logging.NewFields().
		WithOperation(logging.OpSimulate).
		WithLoan(in.Principal, in.AnnualInterestRatePercent, in.TermYears, in.ExtraAmortization).
		WithError(err)

	var compErr *amortization.ComputationError
	if errors.As(err, &compErr) {
		fields.WithErrorType(logging.ErrorTypeComputation).With(logging.FieldMonths, compErr.Month)
		s.logger.ErrorContext(ctx, "Amortization computation failed", fields.ToSlice()...)
		return
	}
	s.logger.WarnContext(ctx, "Amortization input rejected", fields.WithErrorType(logging.ErrorTypeValidation).ToSlice()...)
}

func cacheKey(in domain.LoanInput) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return "amortization:" + f(in.Principal) + ":" + f(in.AnnualInterestRatePercent) + ":" +
		strconv.Itoa(in.TermYears) + ":" + f(in.ExtraAmortization)
}

func (s *LoanService) cachedResult(ctx context.Context, in domain.LoanInput) (domain.AmortizationResult, bool) {
	raw, ok := s.cache.Get(ctx, cacheKey(in))
	if !ok {
		return domain.AmortizationResult{}, false
	}
	var result domain.AmortizationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.WarnContext(ctx, "Discarding unreadable cached schedule", logging.FieldError, err)
		return domain.AmortizationResult{}, false
	}
	return result, true
}

func (s *LoanService) storeResult(ctx context.Context, in domain.LoanInput, result domain.AmortizationResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to encode schedule for cache", logging.FieldError, err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey(in), string(raw)); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache schedule", logging.FieldError, err)
	}
}
