package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearmoney/domain"
)

func TestRequiredPayment_WithInterest(t *testing.T) {
	result, err := RequiredPayment(domain.RequiredPaymentInput{
		Balance:      10000,
		InterestRate: 12,
		TermMonths:   24,
	})
	require.NoError(t, err)

	assert.Equal(t, 470.74, result.MonthlyPayment)
	assert.Equal(t, 11297.76, result.TotalPaid)
	assert.Equal(t, 1297.76, result.TotalInterest)
}

func TestRequiredPayment_ZeroInterest(t *testing.T) {
	result, err := RequiredPayment(domain.RequiredPaymentInput{
		Balance:    1200,
		TermMonths: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.MonthlyPayment)
	assert.Equal(t, 1200.0, result.TotalPaid)
	assert.Zero(t, result.TotalInterest)
}

func TestRequiredPayment_PaysOffInSimulation(t *testing.T) {
	result, err := RequiredPayment(domain.RequiredPaymentInput{Balance: 5000, InterestRate: 18, TermMonths: 36})
	require.NoError(t, err)

	sim := Simulate([]domain.Debt{
		{ID: "a", Name: "A", Balance: 5000, InterestRate: 18, MinimumPayment: result.MonthlyPayment},
	}, 0, domain.Avalanche, SimulationOptions{})

	assert.True(t, sim.Completed)
	assert.Equal(t, 36, sim.TotalMonths)
}

func TestRequiredPayment_TotalsMatchQuotedPayment(t *testing.T) {
	result, err := RequiredPayment(domain.RequiredPaymentInput{Balance: 5000, InterestRate: 18, TermMonths: 36})
	require.NoError(t, err)

	assert.Equal(t, 180.77, result.MonthlyPayment)
	assert.Equal(t, 6507.72, result.TotalPaid)
	assert.Equal(t, 1507.72, result.TotalInterest)
}

func TestRequiredPayment_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input domain.RequiredPaymentInput
	}{
		{"zero balance", domain.RequiredPaymentInput{Balance: 0, InterestRate: 10, TermMonths: 12}},
		{"negative rate", domain.RequiredPaymentInput{Balance: 1000, InterestRate: -1, TermMonths: 12}},
		{"zero term", domain.RequiredPaymentInput{Balance: 1000, InterestRate: 10, TermMonths: 0}},
		{"term too long", domain.RequiredPaymentInput{Balance: 1000, InterestRate: 10, TermMonths: MaxTermMonths + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RequiredPayment(tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
