package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"clearmoney/domain"
)

// ErrInvalidInput is wrapped by every sanitization failure.
var ErrInvalidInput = errors.New("invalid input")

var debtIDNamespace = uuid.MustParse("7d1f0f4e-6c1a-4f0e-9a43-5b8e1c2d3a10")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Limits bounds what SanitizeInput accepts.
type Limits struct {
	MaxDebts int
}

func (l Limits) maxDebts() int {
	if l.MaxDebts <= 0 {
		return MaxDebtsPerRequest
	}
	return l.MaxDebts
}

// SanitizeInput validates a payoff request before it reaches the simulator
// and returns a normalized copy: names are trimmed, blank names become
// "Debt N" and blank IDs get a name-based UUID derived from the position and
// name, so identical requests always normalize identically. An empty debt
// list is valid. Balances, minimums and the extra payment are rounded to
// whole cents.
func SanitizeInput(input domain.PayoffInput, limits Limits) (domain.PayoffInput, error) {
	if len(input.Debts) > limits.maxDebts() {
		return domain.PayoffInput{}, invalidf("number of debts exceeds the maximum of %d", limits.maxDebts())
	}
	if !isFinite(input.ExtraPayment) || input.ExtraPayment < 0 {
		return domain.PayoffInput{}, invalidf("extra payment must be a finite, non-negative amount")
	}

	out := domain.PayoffInput{
		Debts:        make([]domain.Debt, 0, len(input.Debts)),
		ExtraPayment: roundCents(input.ExtraPayment),
	}
	seen := make(map[string]bool, len(input.Debts))

	for i, debt := range input.Debts {
		debt.ID = strings.TrimSpace(debt.ID)
		debt.Name = strings.TrimSpace(debt.Name)
		if debt.Name == "" {
			debt.Name = fmt.Sprintf("Debt %d", i+1)
		}
		if debt.ID == "" {
			debt.ID = uuid.NewSHA1(debtIDNamespace, []byte(fmt.Sprintf("%d/%s", i, debt.Name))).String()
		}
		if seen[debt.ID] {
			return domain.PayoffInput{}, invalidf("duplicate debt id: %s", debt.ID)
		}
		seen[debt.ID] = true

		if !isFinite(debt.Balance) || debt.Balance < 0 {
			return domain.PayoffInput{}, invalidf("balance of %s must be a finite, non-negative amount", debt.Name)
		}
		if debt.Balance > MaxDebtAmount {
			return domain.PayoffInput{}, invalidf("balance of %s exceeds the maximum of %s", debt.Name, formatUSD(MaxDebtAmount))
		}
		if !isFinite(debt.InterestRate) || debt.InterestRate < 0 {
			return domain.PayoffInput{}, invalidf("interest rate of %s must be a finite, non-negative percentage", debt.Name)
		}
		if debt.InterestRate > MaxInterestRate {
			return domain.PayoffInput{}, invalidf("interest rate of %s exceeds the maximum of %.2f%%", debt.Name, MaxInterestRate)
		}
		if !isFinite(debt.MinimumPayment) || debt.MinimumPayment < 0 {
			return domain.PayoffInput{}, invalidf("minimum payment of %s must be a finite, non-negative amount", debt.Name)
		}

		debt.Balance = roundCents(debt.Balance)
		debt.MinimumPayment = roundCents(debt.MinimumPayment)
		out.Debts = append(out.Debts, debt)
	}

	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
