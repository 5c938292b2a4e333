package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeMin_SentinelWhenUpperBoundNegative(t *testing.T) {
	start := DefaultStartingPrices()
	// corto en futuros sin cobertura: a ETH 7500 pierde mucho
	p := Portfolio{ETHQuantoContractsShorted: 1000}

	got := RangeMin(start, p, 0, DefaultGrid().BTCPrices, DefaultGrid().ETHPrices, DefaultBounds())
	assert.Equal(t, RangeMinSentinel, got)
}

func TestRangeMin_SentinelWhenLowerBoundNegative(t *testing.T) {
	start := DefaultStartingPrices()
	// spot largo: a ETH 600 pierde
	p := Portfolio{ETHSpotAmount: 1}

	got := RangeMin(start, p, 0, []float64{50000}, []float64{1600}, DefaultBounds())
	assert.Equal(t, RangeMinSentinel, got, "no recorre el grid aunque el grid sea todo positivo")
}

func TestRangeMin_ReturnsGridMinimum(t *testing.T) {
	start := DefaultStartingPrices()
	// put ETH que paga en la frontera baja y no pierde en la alta salvo la prima
	p := Portfolio{ETHPuts: OptionLeg{Amount: 1, Strike: 1600, Premium: 0}}

	btc := []float64{10000, 50000, 90000}
	eth := []float64{500, 1600, 3000}

	got := RangeMin(start, p, 0, btc, eth, DefaultBounds())
	assert.Equal(t, 0.0, got)
}

func TestRangeMin_NegativeInteriorIsReported(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{
		ETHPuts:  OptionLeg{Amount: 1, Strike: 1000, Premium: 10},
		ETHCalls: OptionLeg{Amount: 1, Strike: 5000, Premium: 10},
	}
	// fronteras: ETH 7500 → +2500-20, ETH 600 → +400-20, ambas positivas
	got := RangeMin(start, p, 0, []float64{50000}, []float64{600, 2000, 7500}, DefaultBounds())
	assert.InDelta(t, -20.0, got, 1e-9)
}

func TestRangeMin_ZeroPortfolioIsZero(t *testing.T) {
	g := NewGrid(20, 200000, 10000)
	got := RangeMin(DefaultStartingPrices(), Portfolio{}, 0, g.BTCPrices, g.ETHPrices, DefaultBounds())
	assert.Equal(t, 0.0, got)
}
