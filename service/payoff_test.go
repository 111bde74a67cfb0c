package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearmoney/domain"
)

func TestSimulate_EmptyDebts(t *testing.T) {
	result := Simulate(nil, 100, domain.Snowball, SimulationOptions{})

	assert.Equal(t, 0, result.TotalMonths)
	assert.Zero(t, result.TotalInterest)
	assert.Zero(t, result.TotalPaid)
	assert.True(t, result.Completed)
	assert.Empty(t, result.PayoffOrder)
	assert.NotNil(t, result.PayoffOrder)
	assert.Empty(t, result.MonthlySchedule)
}

func TestSimulate_ZeroRateTwelveMonths(t *testing.T) {
	debts := []domain.Debt{
		{ID: "card", Name: "Card", Balance: 1200, InterestRate: 0, MinimumPayment: 100},
	}

	result := Simulate(debts, 0, domain.Avalanche, SimulationOptions{})

	assert.Equal(t, 12, result.TotalMonths)
	assert.Zero(t, result.TotalInterest)
	assert.Equal(t, 1200.0, result.TotalPaid)
	assert.True(t, result.Completed)
	assert.Zero(t, result.RemainingBalance)

	require.Len(t, result.PayoffOrder, 1)
	assert.Equal(t, domain.PayoffEvent{Month: 12, DebtID: "card", DebtName: "Card", TotalPaidToDate: 1200}, result.PayoffOrder[0])

	require.Len(t, result.MonthlySchedule, 12)
	assert.Equal(t, 1100.0, result.MonthlySchedule[0].TotalBalance)
	assert.Equal(t, 100.0, result.MonthlySchedule[0].Debts[0].Payment)
	assert.Zero(t, result.MonthlySchedule[11].TotalBalance)
}

func TestSimulate_BalanceEqualToMinimumPaysOffInOneMonth(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "Store card", Balance: 500, InterestRate: 0, MinimumPayment: 500},
	}

	result := Simulate(debts, 0, domain.Snowball, SimulationOptions{})

	assert.Equal(t, 1, result.TotalMonths)
	assert.Zero(t, result.TotalInterest)
	require.Len(t, result.PayoffOrder, 1)
	assert.Equal(t, 1, result.PayoffOrder[0].Month)
}

func TestSimulate_AccruesInterestBeforePayment(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "Loan", Balance: 1000, InterestRate: 12, MinimumPayment: 0},
	}

	result := Simulate(debts, 1010, domain.Avalanche, SimulationOptions{})

	assert.Equal(t, 1, result.TotalMonths)
	assert.Equal(t, 10.0, result.TotalInterest)
	assert.Equal(t, 1010.0, result.TotalPaid)
	assert.True(t, result.Completed)
}

func TestSimulate_PaymentClampedToBalance(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "Small", Balance: 40, MinimumPayment: 25},
	}

	result := Simulate(debts, 500, domain.Snowball, SimulationOptions{})

	assert.Equal(t, 40.0, result.TotalPaid)
	assert.Equal(t, 40.0, result.MonthlySchedule[0].Debts[0].Payment)
	assert.Zero(t, result.MonthlySchedule[0].Debts[0].Balance)
}

func TestSimulate_UnpayableStopsAtCap(t *testing.T) {
	debts := []domain.Debt{
		{ID: "u", Name: "Growing", Balance: 1000, InterestRate: 20, MinimumPayment: 0},
	}

	result := Simulate(debts, 0, domain.Snowball, SimulationOptions{})

	assert.Equal(t, DefaultMaxMonths, result.TotalMonths)
	assert.False(t, result.Completed)
	assert.Greater(t, result.RemainingBalance, 1000.0)
	assert.Empty(t, result.PayoffOrder)
	assert.Len(t, result.MonthlySchedule, DefaultMaxMonths)
}

func TestSimulate_CustomMonthCap(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "Card", Balance: 1200, MinimumPayment: 100},
	}

	result := Simulate(debts, 0, domain.Snowball, SimulationOptions{MaxMonths: 6})

	assert.Equal(t, 6, result.TotalMonths)
	assert.False(t, result.Completed)
	assert.Equal(t, 600.0, result.RemainingBalance)
	assert.Equal(t, 600.0, result.TotalPaid)
}

func TestSimulate_SnowballReordersAsBalancesShrink(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "A", Balance: 1000, MinimumPayment: 0},
		{ID: "b", Name: "B", Balance: 1100, MinimumPayment: 200},
	}

	result := Simulate(debts, 100, domain.Snowball, SimulationOptions{})

	require.GreaterOrEqual(t, len(result.MonthlySchedule), 3)
	// Month 1: a is smaller. Month 2: tied at 900, input order wins.
	// Month 3: b has dropped below a and takes the extra payment.
	assert.Equal(t, "a", result.MonthlySchedule[0].Debts[0].ID)
	assert.Equal(t, "a", result.MonthlySchedule[1].Debts[0].ID)
	assert.Equal(t, "b", result.MonthlySchedule[2].Debts[0].ID)
	assert.Equal(t, 300.0, result.MonthlySchedule[2].Debts[0].Payment)

	require.Len(t, result.PayoffOrder, 2)
	assert.Equal(t, "b", result.PayoffOrder[0].DebtID)
	assert.Equal(t, 5, result.PayoffOrder[0].Month)
	assert.Equal(t, 13, result.TotalMonths)
}

func TestSimulate_AvalancheOrderIsStatic(t *testing.T) {
	debts := []domain.Debt{
		{ID: "low", Name: "Low", Balance: 300, InterestRate: 5, MinimumPayment: 50},
		{ID: "high", Name: "High", Balance: 3000, InterestRate: 24, MinimumPayment: 50},
	}

	result := Simulate(debts, 200, domain.Avalanche, SimulationOptions{})

	for _, snap := range result.MonthlySchedule {
		if len(snap.Debts) == 2 {
			assert.Equal(t, "high", snap.Debts[0].ID, "month %d", snap.Month)
		}
	}
}

func TestSimulate_SameMonthPayoffsInInputOrder(t *testing.T) {
	debts := []domain.Debt{
		{ID: "x", Name: "X", Balance: 100, MinimumPayment: 100},
		{ID: "y", Name: "Y", Balance: 50, MinimumPayment: 50},
	}

	result := Simulate(debts, 0, domain.Snowball, SimulationOptions{})

	require.Len(t, result.PayoffOrder, 2)
	assert.Equal(t, "x", result.PayoffOrder[0].DebtID)
	assert.Equal(t, "y", result.PayoffOrder[1].DebtID)
	assert.Equal(t, 1, result.PayoffOrder[1].Month)
	assert.Equal(t, 150.0, result.PayoffOrder[1].TotalPaidToDate)
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "A", Balance: 5000, InterestRate: 10, MinimumPayment: 100},
		{ID: "b", Name: "B", Balance: 1000, InterestRate: 20, MinimumPayment: 50},
	}
	before := append([]domain.Debt(nil), debts...)

	Simulate(debts, 200, domain.Snowball, SimulationOptions{})

	if diff := cmp.Diff(before, debts); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSimulate_PaysAtLeastPrincipal(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "A", Balance: 2500, InterestRate: 18.5, MinimumPayment: 75},
		{ID: "b", Name: "B", Balance: 800, InterestRate: 7, MinimumPayment: 25},
		{ID: "c", Name: "C", Balance: 12000, InterestRate: 4.5, MinimumPayment: 150},
	}
	principal := 2500.0 + 800 + 12000

	for _, strategy := range []domain.Strategy{domain.Snowball, domain.Avalanche} {
		result := Simulate(debts, 400, strategy, SimulationOptions{})

		require.True(t, result.Completed, strategy)
		assert.GreaterOrEqual(t, result.TotalInterest, 0.0, strategy)
		assert.GreaterOrEqual(t, result.TotalPaid, principal, strategy)
		assert.InDelta(t, principal+result.TotalInterest, result.TotalPaid, 0.05, strategy)
		assert.Len(t, result.MonthlySchedule, result.TotalMonths, strategy)
		assert.Len(t, result.PayoffOrder, len(debts), strategy)
	}
}

func TestSimulate_SubCentResidualSettledWithFinalPayment(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "Card", Balance: 100, InterestRate: 0, MinimumPayment: 99.991},
	}

	result := Simulate(debts, 0, domain.Avalanche, SimulationOptions{})

	require.True(t, result.Completed)
	assert.Equal(t, 1, result.TotalMonths)
	assert.Equal(t, 100.0, result.TotalPaid)
	require.Len(t, result.PayoffOrder, 1)
	assert.Equal(t, 100.0, result.PayoffOrder[0].TotalPaidToDate)
}

func TestSimulate_CentResidualStillPaid(t *testing.T) {
	debts := []domain.Debt{
		{ID: "a", Name: "Card", Balance: 100, InterestRate: 0, MinimumPayment: 99.99},
	}

	result := Simulate(debts, 0, domain.Snowball, SimulationOptions{})

	require.True(t, result.Completed)
	assert.GreaterOrEqual(t, result.TotalPaid, 100.0)
	assert.Equal(t, 100.0, result.TotalPaid)
}

func TestValidateMaxMonths(t *testing.T) {
	assert.NoError(t, ValidateMaxMonths(1))
	assert.NoError(t, ValidateMaxMonths(DefaultMaxMonths))
	assert.NoError(t, ValidateMaxMonths(MaxSimulationMonths))

	for _, months := range []int{0, -1, MaxSimulationMonths + 1} {
		err := ValidateMaxMonths(months)
		assert.ErrorIs(t, err, ErrInvalidInput, months)
	}
}
