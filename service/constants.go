package service

const (
	MaxDebtAmount        = 100_000_000.0 // 100 million
	MaxInterestRate      = 1000.0        // 1000% annual
	MaxDebtsPerRequest   = 50
	DefaultMaxMonths     = 360 // 30 years
	MaxSimulationMonths  = 600 // hard ceiling for configured caps
	DebtBalanceTolerance = 0.01

	MaxTermMonths = 600
	MinTermMonths = 1

	// Recommendation tiers, in dollars of interest saved by avalanche.
	MarginalSavingsThreshold    = 100.0
	SignificantSavingsThreshold = 500.0
)

const (
	RecommendationEitherWorks = "Either method works: the interest difference is under $100, so pick the one you will stick with."
	RecommendationMarginal    = "Avalanche saves a marginal amount of interest; snowball's quicker early wins may be worth the cost."
	RecommendationSignificant = "Avalanche saves a significant amount of interest, so consider avalanche."
)
