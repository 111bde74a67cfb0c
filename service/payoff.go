package service

import (
	"cmp"
	"slices"

	"clearmoney/domain"
)

// SimulationOptions tunes a simulation run. The zero value uses
// DefaultMaxMonths.
type SimulationOptions struct {
	MaxMonths int
}

func (o SimulationOptions) maxMonths() int {
	if o.MaxMonths <= 0 {
		return DefaultMaxMonths
	}
	return o.MaxMonths
}

// ValidateMaxMonths checks a configured month cap against
// 1..MaxSimulationMonths.
func ValidateMaxMonths(months int) error {
	if months < 1 || months > MaxSimulationMonths {
		return invalidf("month cap must be between 1 and %d, got %d", MaxSimulationMonths, months)
	}
	return nil
}

// activeDebt is the simulation's working copy of a debt; index is the
// position in the caller's slice and breaks every ordering tie.
type activeDebt struct {
	debt    domain.Debt
	index   int
	balance float64
}

func strategyOrder(strategy domain.Strategy) func(a, b *activeDebt) int {
	if strategy == domain.Snowball {
		return func(a, b *activeDebt) int {
			if c := cmp.Compare(a.balance, b.balance); c != 0 {
				return c
			}
			return cmp.Compare(a.index, b.index)
		}
	}
	return func(a, b *activeDebt) int {
		if c := cmp.Compare(b.debt.InterestRate, a.debt.InterestRate); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	}
}

func byInputOrder(a, b *activeDebt) int {
	return cmp.Compare(a.index, b.index)
}

// Simulate amortizes debts month by month under strategy until every debt is
// paid off or the month cap is reached. The top-priority debt receives its
// minimum plus extraPayment, every other debt its minimum. Priority is
// recomputed each month, so the snowball order follows shrinking balances
// while the avalanche order never changes.
//
// debts is not modified. Snapshot entries are listed in the month's priority
// order; payoff events within a month are listed in input order.
func Simulate(
	debts []domain.Debt,
	extraPayment float64,
	strategy domain.Strategy,
	opts SimulationOptions,
) domain.MethodResult {

	result := domain.MethodResult{
		Strategy:        strategy,
		PayoffOrder:     []domain.PayoffEvent{},
		MonthlySchedule: []domain.MonthlySnapshot{},
	}
	if len(debts) == 0 {
		result.Completed = true
		return result
	}

	active := make([]*activeDebt, len(debts))
	for i, d := range debts {
		active[i] = &activeDebt{debt: d, index: i, balance: d.Balance}
	}

	order := strategyOrder(strategy)
	maxMonths := opts.maxMonths()

	var totalInterest, totalPaid float64
	month := 0

	for len(active) > 0 && month < maxMonths {
		month++
		slices.SortStableFunc(active, order)

		for _, a := range active {
			interest := a.balance * (a.debt.InterestRate / 100 / 12)
			a.balance += interest
			totalInterest += interest
		}

		snapshot := domain.MonthlySnapshot{
			Month: month,
			Debts: make([]domain.DebtSnapshot, 0, len(active)),
		}
		for i, a := range active {
			payment := a.debt.MinimumPayment
			if i == 0 {
				payment += extraPayment
			}
			// A payment that would leave no more than the payoff tolerance
			// settles the whole balance.
			if payment > a.balance || a.balance-payment <= DebtBalanceTolerance {
				payment = a.balance
			}
			a.balance -= payment
			if a.balance < 0 {
				a.balance = 0
			}
			totalPaid += payment

			snapshot.Debts = append(snapshot.Debts, domain.DebtSnapshot{
				ID:      a.debt.ID,
				Balance: roundCents(a.balance),
				Payment: roundCents(payment),
			})
		}

		remaining := make([]*activeDebt, 0, len(active))
		var paidOff []*activeDebt
		for _, a := range active {
			if a.balance <= DebtBalanceTolerance {
				paidOff = append(paidOff, a)
				continue
			}
			remaining = append(remaining, a)
		}
		slices.SortFunc(paidOff, byInputOrder)
		for _, a := range paidOff {
			result.PayoffOrder = append(result.PayoffOrder, domain.PayoffEvent{
				Month:           month,
				DebtID:          a.debt.ID,
				DebtName:        a.debt.Name,
				TotalPaidToDate: roundCents(totalPaid),
			})
		}
		active = remaining

		snapshot.TotalBalance = roundCents(sumBalances(active))
		result.MonthlySchedule = append(result.MonthlySchedule, snapshot)
	}

	result.TotalMonths = month
	result.TotalInterest = roundCents(totalInterest)
	result.TotalPaid = roundCents(totalPaid)
	result.Completed = len(active) == 0
	result.RemainingBalance = roundCents(sumBalances(active))

	return result
}

func sumBalances(debts []*activeDebt) float64 {
	total := 0.0
	for _, a := range debts {
		total += a.balance
	}
	return total
}
