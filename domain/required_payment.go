package domain

type RequiredPaymentInput struct {
	Balance      float64 `json:"balance"`
	InterestRate float64 `json:"interestRate"`
	TermMonths   int     `json:"termMonths"`
}

type RequiredPaymentResult struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
}
