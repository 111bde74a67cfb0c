package service

import (
	"math"

	"github.com/shopspring/decimal"

	"clearmoney/domain"
)

// RequiredPayment returns the fixed monthly payment that amortizes a single
// balance over input.TermMonths at the given annual rate. MonthlyPayment is
// rounded up to the cent and the totals are what TermMonths payments of that
// amount add up to.
func RequiredPayment(input domain.RequiredPaymentInput) (domain.RequiredPaymentResult, error) {
	if !isFinite(input.Balance) || input.Balance <= 0 {
		return domain.RequiredPaymentResult{}, invalidf("balance must be a positive amount")
	}
	if input.Balance > MaxDebtAmount {
		return domain.RequiredPaymentResult{}, invalidf("balance exceeds the maximum of %s", formatUSD(MaxDebtAmount))
	}
	if !isFinite(input.InterestRate) || input.InterestRate < 0 {
		return domain.RequiredPaymentResult{}, invalidf("interest rate must be a non-negative percentage")
	}
	if input.InterestRate > MaxInterestRate {
		return domain.RequiredPaymentResult{}, invalidf("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	if input.TermMonths < MinTermMonths {
		return domain.RequiredPaymentResult{}, invalidf("term must be at least %d month", MinTermMonths)
	}
	if input.TermMonths > MaxTermMonths {
		return domain.RequiredPaymentResult{}, invalidf("term exceeds the maximum of %d months", MaxTermMonths)
	}

	n := float64(input.TermMonths)
	var payment float64
	if input.InterestRate == 0 {
		payment = input.Balance / n
	} else {
		r := input.InterestRate / 100 / 12
		payment = input.Balance * (r / (1 - math.Pow(1+r, -n)))
	}

	quoted := decimal.NewFromFloat(ceilCents(payment))
	total := quoted.Mul(decimal.NewFromInt(int64(input.TermMonths)))
	return domain.RequiredPaymentResult{
		MonthlyPayment: quoted.InexactFloat64(),
		TotalPaid:      total.InexactFloat64(),
		TotalInterest:  total.Sub(decimal.NewFromFloat(input.Balance)).Round(2).InexactFloat64(),
	}, nil
}
