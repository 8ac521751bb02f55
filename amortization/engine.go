// Package amortization builds fixed-installment (Price) repayment schedules.
//
// A schedule re-amortizes after every month with a positive balance: the
// installment is recomputed for the remaining balance over the remaining
// months, so a recurring extra payment lowers future installments and ends
// the loan early instead of leaving oversized payments in place.
package amortization

import (
	"fmt"
	"math"

	"loan-simulator/domain"
)

const (
	monthsPerYear = domain.MonthsPerYear

	// Relative to the principal. A remaining balance at or below this is
	// settled in the current month instead of producing a dust row.
	settleTolerance = 1e-12

	maxPreallocRows = 360
)

// Compute is ComputeSchedule for a LoanInput.
func Compute(in domain.LoanInput) (domain.AmortizationResult, error) {
	return ComputeSchedule(in.Principal, in.AnnualInterestRatePercent, in.TermYears, in.ExtraAmortization)
}

// ComputeSchedule returns the month-by-month schedule and totals for a loan
// repaid under the fixed-installment method with a recurring extra
// amortization (zero for none). Inputs are checked before any computation.
func ComputeSchedule(
	principal float64,
	annualInterestRatePercent float64,
	termYears int,
	extraAmortization float64,
) (domain.AmortizationResult, error) {

	if err := validate(principal, annualInterestRatePercent, termYears, extraAmortization); err != nil {
		return domain.AmortizationResult{}, err
	}

	fail := func(month int, reason string) error {
		return &ComputationError{
			Principal:                 principal,
			AnnualInterestRatePercent: annualInterestRatePercent,
			TermYears:                 termYears,
			ExtraAmortization:         extraAmortization,
			Month:                     month,
			Reason:                    reason,
		}
	}

	in := domain.LoanInput{
		Principal:                 principal,
		AnnualInterestRatePercent: annualInterestRatePercent,
		TermYears:                 termYears,
		ExtraAmortization:         extraAmortization,
	}
	monthlyRate := MonthlyRate(in.AnnualInterestRatePercent)
	totalMonths := in.TotalMonths()

	payment := Installment(principal, monthlyRate, totalMonths)
	if !isFinite(payment) {
		return domain.AmortizationResult{}, fail(0, "initial installment is not finite")
	}

	result := domain.AmortizationResult{
		Schedule: make([]domain.ScheduleRow, 0, min(totalMonths, maxPreallocRows)),
	}
	balance := principal
	dust := principal * settleTolerance

	for month := 1; month <= totalMonths && balance > 0; month++ {
		interest := balance * monthlyRate
		if !isFinite(interest) {
			return domain.AmortizationResult{}, fail(month, "interest is not finite")
		}

		fixedPrincipal := payment - interest

		// Never let the extra push the month's reduction past the balance.
		extra := math.Max(0, math.Min(extraAmortization, balance-fixedPrincipal))
		monthPrincipal := fixedPrincipal + extra

		if balance-monthPrincipal <= dust || month == totalMonths {
			monthPrincipal = balance
			balance = 0
		} else {
			balance = math.Max(0, balance-monthPrincipal)
		}

		row := domain.ScheduleRow{
			Month:     month,
			Payment:   interest + monthPrincipal,
			Interest:  interest,
			Principal: monthPrincipal,
			Balance:   balance,
		}
		result.Schedule = append(result.Schedule, row)
		result.TotalInterest += row.Interest
		result.TotalPrincipal += row.Principal
		result.TotalPaid += row.Payment

		if balance > 0 && month < totalMonths {
			payment = Installment(balance, monthlyRate, totalMonths-month)
			if !isFinite(payment) {
				return domain.AmortizationResult{}, fail(month, "re-amortized installment is not finite")
			}
		}
	}

	return result, nil
}

// MonthlyRate converts a nominal annual percentage to a monthly fraction.
func MonthlyRate(annualInterestRatePercent float64) float64 {
	return (annualInterestRatePercent / 100) / monthsPerYear
}

// Installment is the annuity payment that repays balance over months
// installments at monthlyRate. A zero rate splits the balance evenly.
//
// The discount term 1-(1+r)^-n is evaluated with Log1p and Expm1 so that
// rates far below float64 epsilon keep full precision. When it still
// underflows the rate is indistinguishable from zero.
func Installment(balance, monthlyRate float64, months int) float64 {
	n := float64(months)
	if monthlyRate == 0 {
		return balance / n
	}
	discount := -math.Expm1(-n * math.Log1p(monthlyRate))
	if discount == 0 {
		return balance / n
	}
	return balance * monthlyRate / discount
}

func validate(principal, rate float64, termYears int, extra float64) error {
	if !(principal > 0) || math.IsInf(principal, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidPrincipal, principal)
	}
	if !(rate >= 0) || math.IsInf(rate, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidRate, rate)
	}
	if termYears <= 0 || termYears > math.MaxInt/monthsPerYear {
		return fmt.Errorf("%w: got %d", ErrInvalidTerm, termYears)
	}
	if !(extra >= 0) || math.IsInf(extra, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidExtraAmortization, extra)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
