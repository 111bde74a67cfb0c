package domain

// Debt is a single liability as entered by the user. InterestRate is an
// annual nominal percentage (18.5 means 18.5%/yr).
type Debt struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interestRate"`
	MinimumPayment float64 `json:"minimumPayment"`
}

type PayoffInput struct {
	Debts        []Debt  `json:"debts"`
	ExtraPayment float64 `json:"extraPayment"` // monthly surplus beyond minimums
}

type Strategy string

const (
	Snowball  Strategy = "snowball"  // smallest balance first
	Avalanche Strategy = "avalanche" // highest rate first
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == Snowball || s == Avalanche
}

type DebtSnapshot struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
	Payment float64 `json:"payment"`
}

type MonthlySnapshot struct {
	Month        int            `json:"month"`
	Debts        []DebtSnapshot `json:"debts"`
	TotalBalance float64        `json:"totalBalance"`
}

type PayoffEvent struct {
	Month           int     `json:"month"`
	DebtID          string  `json:"debtId"`
	DebtName        string  `json:"debtName"`
	TotalPaidToDate float64 `json:"totalPaidToDate"`
}

// MethodResult is the outcome of one strategy run. Completed is false when
// the month cap was hit with debts still outstanding; RemainingBalance then
// holds what was left.
type MethodResult struct {
	Strategy         Strategy          `json:"strategy"`
	TotalMonths      int               `json:"totalMonths"`
	TotalInterest    float64           `json:"totalInterest"`
	TotalPaid        float64           `json:"totalPaid"`
	Completed        bool              `json:"completed"`
	RemainingBalance float64           `json:"remainingBalance"`
	PayoffOrder      []PayoffEvent     `json:"payoffOrder"`
	MonthlySchedule  []MonthlySnapshot `json:"monthlySchedule"`
}

type ComparisonResult struct {
	Snowball         MethodResult `json:"snowball"`
	Avalanche        MethodResult `json:"avalanche"`
	InterestSaved    float64      `json:"interestSaved"`
	MonthsDifference int          `json:"monthsDifference"`
	Recommendation   string       `json:"recommendation"`
}
