package service

import "clearmoney/domain"

// Compare runs both strategies on the same input.
//
// MonthsDifference is measured on the first debt extinguished, not on the
// whole portfolio: it is how many months earlier snowball delivers its first
// payoff than avalanche does. It is 0 when either run pays nothing off.
func Compare(input domain.PayoffInput, opts SimulationOptions) domain.ComparisonResult {
	snowball := Simulate(input.Debts, input.ExtraPayment, domain.Snowball, opts)
	avalanche := Simulate(input.Debts, input.ExtraPayment, domain.Avalanche, opts)

	interestSaved := roundCents(snowball.TotalInterest - avalanche.TotalInterest)

	monthsDifference := 0
	if len(snowball.PayoffOrder) > 0 && len(avalanche.PayoffOrder) > 0 {
		monthsDifference = avalanche.PayoffOrder[0].Month - snowball.PayoffOrder[0].Month
	}

	return domain.ComparisonResult{
		Snowball:         snowball,
		Avalanche:        avalanche,
		InterestSaved:    interestSaved,
		MonthsDifference: monthsDifference,
		Recommendation:   recommend(interestSaved),
	}
}

func recommend(interestSaved float64) string {
	switch {
	case interestSaved < MarginalSavingsThreshold:
		return RecommendationEitherWorks
	case interestSaved < SignificantSavingsThreshold:
		return RecommendationMarginal
	default:
		return RecommendationSignificant
	}
}
