package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_DefaultResolution(t *testing.T) {
	g := DefaultGrid()
	require.Len(t, g.BTCPrices, 101)
	require.Len(t, g.ETHPrices, 101)

	assert.Equal(t, 0.0, g.BTCPrices[0])
	assert.Equal(t, 200000.0, g.BTCPrices[100])
	assert.Equal(t, 2000.0, g.BTCPrices[1])
	assert.Equal(t, 10000.0, g.ETHPrices[100])
	assert.Equal(t, 100.0, g.ETHPrices[1])
}

func TestNewGrid_InvalidResolutionFallsBack(t *testing.T) {
	g := NewGrid(0, 1000, 100)
	assert.Len(t, g.BTCPrices, DefaultResolution+1)
}

func TestBuildSurface_MatchesPnL(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{
		ETHSpotAmount:             1,
		BTCAmountBitmex:           1,
		ETHQuantoContractsShorted: 800,
		ETHPuts:                   OptionLeg{Amount: 1, Strike: 1500, Premium: 40},
	}
	g := NewGrid(10, 100000, 5000)

	s := BuildSurface(start, p, 0.02, g)
	require.Len(t, s.PnL, 11)
	require.Len(t, s.PnL[0], 11)
	require.Len(t, s.LiquidationCurve, 11)

	want := PnL(start, p, ExitPrices{ETHExitPrice: g.ETHPrices[3], BTCExitPrice: g.BTCPrices[7], PremiumExit: 0.02})
	assert.Equal(t, want, s.At(3, 7))

	assert.Equal(t, float64(NeverLiquidated), s.LiquidationCurve[0], "btc=0 no liquida")
	assert.InDelta(t, LiquidationPrice(start, p, g.BTCPrices[5]), s.LiquidationCurve[5], 1e-9)

	assert.Equal(t, 50000.0, s.References.BTCStart)
	assert.Equal(t, 2200.0, s.References.ETHFuturesStart)
	assert.Equal(t, 1600.0, s.References.ETHSpotStart)
	assert.Equal(t, -50000.0, s.ContourStart)
	assert.Equal(t, 50000.0, s.ContourEnd)
}

func TestBuildSurface_ContoursWithoutBitmexBTC(t *testing.T) {
	p := DefaultPortfolio()
	p.BTCAmountBitmex = 0

	surf := BuildSurface(DefaultStartingPrices(), p, 0, NewGrid(2, 100, 100))
	assert.Equal(t, 0.0, surf.ContourStart)
	assert.False(t, math.Signbit(surf.ContourStart), "sin -0")
	assert.Equal(t, 0.0, surf.ContourEnd)

	p.BTCAmountBitmex = 1
	surf = BuildSurface(DefaultStartingPrices(), p, 0, NewGrid(2, 100, 100))
	assert.Equal(t, -50000.0, surf.ContourStart)
}

func TestSurface_Min(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{ETHSpotAmount: 1}
	s := BuildSurface(start, p, 0, NewGrid(4, 100, 4000))

	pnl, _, eth := s.Min()
	assert.Equal(t, 0.0, eth)
	assert.InDelta(t, -1600.0, pnl, 1e-9)
}

func TestStartingPrices_StrikesSortedAndPremium(t *testing.T) {
	start := DefaultStartingPrices()
	start.ETHCalls = []OptionQuote{
		{Strike: 2400, UnderlyingPrice: 1650, BestAskPrice: 0.02},
		{Strike: 1800, UnderlyingPrice: 1650, BestAskPrice: 0.08},
		{Strike: 2000, UnderlyingPrice: 1650, BestAskPrice: 0.05},
	}

	assert.Equal(t, []float64{1800, 2000, 2400}, start.Strikes(LegETHCall))
	assert.Empty(t, start.Strikes(LegBTCPut))

	q, ok := start.FindQuote(LegETHCall, 2000)
	require.True(t, ok)
	assert.InDelta(t, 82.5, q.PremiumUSD(), 1e-9)

	_, ok = start.FindQuote(LegETHCall, 2100)
	assert.False(t, ok)

	// (2200 / 1600 - 1) × 100 = 37.5 → 38
	assert.Equal(t, 38.0, start.StartingPremium())
}

func TestParseLegKind(t *testing.T) {
	for _, k := range AllLegs {
		got, err := ParseLegKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseLegKind("sol-call")
	assert.ErrorIs(t, err, ErrUnknownLeg)

	assert.Equal(t, "BTC", LegBTCPut.Currency())
	assert.Equal(t, "ETH", LegETHCall.Currency())
	assert.True(t, LegETHCall.IsCall())
	assert.False(t, LegBTCPut.IsCall())
}
