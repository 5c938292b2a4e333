package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func zeroPortfolio() Portfolio {
	return Portfolio{}
}

func TestPnL_ZeroPortfolioIsAlwaysZero(t *testing.T) {
	start := DefaultStartingPrices()
	scenarios := []ExitPrices{
		{ETHExitPrice: 0, BTCExitPrice: 0},
		{ETHExitPrice: 1800, BTCExitPrice: 50000},
		{ETHExitPrice: 10000, BTCExitPrice: 200000, PremiumExit: 0.3},
		{ETHExitPrice: 300, BTCExitPrice: 8000, PremiumExit: -0.1},
	}
	for _, exit := range scenarios {
		assert.Equal(t, 0.0, PnL(start, zeroPortfolio(), exit))
	}
}

func TestPnL_DefaultPortfolioIsZero(t *testing.T) {
	// 1 BTC en BitMEX se asume cubierto y las calls por defecto están muy OTM
	assert.Equal(t, 0.0, PnL(DefaultStartingPrices(), DefaultPortfolio(), DefaultExitPrices()))
}

func TestPnL_Deterministic(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{
		ETHSpotAmount:             2,
		BTCAmountBitmex:           1,
		ETHQuantoContractsShorted: 500,
		ETHCalls:                  OptionLeg{Amount: 1, Strike: 2000, Premium: 50},
		BTCPuts:                   OptionLeg{Amount: 0.5, Strike: 40000, Premium: 900},
	}
	exit := ExitPrices{ETHExitPrice: 2300, BTCExitPrice: 35000, PremiumExit: 0.05}

	first := PnL(start, p, exit)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, PnL(start, p, exit))
	}
}

func TestPnL_SpotScenario(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{ETHSpotAmount: 1}
	exit := ExitPrices{ETHExitPrice: 1800, BTCExitPrice: 50000}

	// 1 × (1800 - 1600) = 200
	assert.InDelta(t, 200.0, PnL(start, p, exit), 1e-9)
}

func TestPnL_ETHCallScenario(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{ETHCalls: OptionLeg{Amount: 1, Strike: 2000, Premium: 50}}
	exit := ExitPrices{ETHExitPrice: 2500, BTCExitPrice: 50000}

	// payoff 1 × (2500 - 2000) = 500, menos prima 50
	assert.InDelta(t, 450.0, PnL(start, p, exit), 1e-9)
}

func TestPnL_CallBoundaryIsStrict(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{
		ETHCalls: OptionLeg{Amount: 3, Strike: 2000, Premium: 10},
		BTCCalls: OptionLeg{Amount: 1, Strike: 60000, Premium: 100},
	}

	atStrike := ExitPrices{ETHExitPrice: 2000, BTCExitPrice: 60000}
	assert.InDelta(t, -p.CostOfCalls(), PnL(start, p, atStrike), 1e-9, "exit == strike no paga")

	below := ExitPrices{ETHExitPrice: 1500, BTCExitPrice: 30000}
	assert.InDelta(t, -p.CostOfCalls(), PnL(start, p, below), 1e-9)

	above := ExitPrices{ETHExitPrice: 2001, BTCExitPrice: 60010}
	// 3 × 1 + 1 × 10 - 130
	assert.InDelta(t, 13.0-130.0, PnL(start, p, above), 1e-9)
}

func TestPnL_PutBoundaryIsStrict(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{
		ETHPuts: OptionLeg{Amount: 2, Strike: 1400, Premium: 20},
		BTCPuts: OptionLeg{Amount: 1, Strike: 40000, Premium: 500},
	}

	atStrike := ExitPrices{ETHExitPrice: 1400, BTCExitPrice: 40000}
	assert.InDelta(t, -p.CostOfPuts(), PnL(start, p, atStrike), 1e-9, "exit == strike no paga")

	above := ExitPrices{ETHExitPrice: 3000, BTCExitPrice: 90000}
	assert.InDelta(t, -p.CostOfPuts(), PnL(start, p, above), 1e-9)

	below := ExitPrices{ETHExitPrice: 1300, BTCExitPrice: 39000}
	// 2 × 100 + 1 × 1000 - 540
	assert.InDelta(t, 1200.0-540.0, PnL(start, p, below), 1e-9)
}

func TestPnL_ShortQuantoFutures(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{ETHQuantoContractsShorted: 1000}

	// futuro cae de 2200 a 1800 (sin prima): 1000 × 400 × 1e-6 = 0.4 BTC × 50000 = 20000
	exit := ExitPrices{ETHExitPrice: 1800, BTCExitPrice: 50000}
	assert.InDelta(t, 20000.0, PnL(start, p, exit), 1e-6)

	// con 10% de prima restante el futuro sale a 1980: 1000 × 220 × 1e-6 × 50000 = 11000
	exit.PremiumExit = 0.10
	assert.InDelta(t, 11000.0, PnL(start, p, exit), 1e-6)

	// futuro sube: pérdida convertida al BTC de salida
	exit = ExitPrices{ETHExitPrice: 3200, BTCExitPrice: 20000}
	assert.InDelta(t, -1000*1000*QuantoMultiplier*20000, PnL(start, p, exit), 1e-6)
}

func TestPnL_BTCHoldingContributesNothing(t *testing.T) {
	start := DefaultStartingPrices()
	p := Portfolio{BTCAmountBitmex: 7}
	assert.Equal(t, 0.0, PnL(start, p, ExitPrices{ETHExitPrice: 5000, BTCExitPrice: 150000}))
}

func TestValuationHelpers(t *testing.T) {
	start := StartingPrices{BTCStartPrice: 40000, ETHSpotStartPrice: 1555.555, ETHQuantoFuturesStartPrice: 2000}
	p := Portfolio{ETHSpotAmount: 2, BTCAmountBitmex: 1.5, ETHQuantoContractsShorted: 300}

	assert.InDelta(t, 3111.11, ETHSpotValue(start, p), 1e-9)
	assert.InDelta(t, 0.6, QuantoFuturesBTCValue(start, p), 1e-12)
	assert.InDelta(t, 24000.0, QuantoFuturesUSDValue(start, p), 1e-6)
	assert.InDelta(t, 60000.0, BitmexStartingValue(start, p), 1e-9)
}

func TestPortfolio_Costs(t *testing.T) {
	p := Portfolio{
		ETHCalls: OptionLeg{Amount: 2, Premium: 30},
		BTCCalls: OptionLeg{Amount: 0.5, Premium: 1000},
		ETHPuts:  OptionLeg{Amount: 1, Premium: 45},
		BTCPuts:  OptionLeg{Amount: 0.25, Premium: 800},
	}
	assert.InDelta(t, 560.0, p.CostOfCalls(), 1e-9)
	assert.InDelta(t, 245.0, p.CostOfPuts(), 1e-9)
}

func TestPortfolio_WithLegsRoundTrip(t *testing.T) {
	p := DefaultPortfolio()
	legs := [4]OptionLeg{
		{Amount: 1, Strike: 60000, Premium: 2000},
		{Amount: 0.5, Strike: 40000, Premium: 1500},
		{Amount: 2, Strike: 2400, Premium: 80},
		{Amount: 0.75, Strike: 1400, Premium: 60},
	}
	q := p.WithLegs(legs)

	assert.Equal(t, legs, q.Legs())
	assert.Equal(t, legs[0], q.BTCCalls)
	assert.Equal(t, legs[3], q.ETHPuts)
	// la copia de entrada no cambia
	assert.Equal(t, float64(noCallStrike), p.BTCCalls.Strike)
}
