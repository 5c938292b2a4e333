package domain

// PnL calcula el profit en USD del portfolio en el escenario de salida dado.
// Es una función pura de (start, portfolio, exit).
//
// Componentes:
//
//	spot     = ethSpot × (ethExit - ethSpotStart)
//	futuros  = contratos × -(futExit - futStart) × multiplier × btcExit
//	calls    = Σ amount × (exit - strike) si exit > strike, menos lo pagado
//	puts     = Σ amount × (strike - exit) si exit < strike, menos lo pagado
//
// El BTC depositado en BitMEX se asume cubierto al inicio y aporta 0.
func PnL(start StartingPrices, p Portfolio, exit ExitPrices) float64 {
	spot := p.ETHSpotAmount * (exit.ETHExitPrice - start.ETHSpotStartPrice)

	futuresMove := exit.FuturesExitPrice() - start.ETHQuantoFuturesStartPrice
	futuresBTC := p.ETHQuantoContractsShorted * (futuresMove * -1 * QuantoMultiplier)
	futures := futuresBTC * exit.BTCExitPrice

	calls := callPayoff(p.ETHCalls, exit.ETHExitPrice) + callPayoff(p.BTCCalls, exit.BTCExitPrice)
	puts := putPayoff(p.ETHPuts, exit.ETHExitPrice) + putPayoff(p.BTCPuts, exit.BTCExitPrice)

	return spot + futures + calls - p.CostOfCalls() + puts - p.CostOfPuts()
}

// callPayoff es el valor intrínseco de la pata call; 0 si exit <= strike.
func callPayoff(leg OptionLeg, exit float64) float64 {
	if exit > leg.Strike {
		return leg.Amount * (exit - leg.Strike)
	}
	return 0
}

// putPayoff es el valor intrínseco de la pata put; 0 si exit >= strike.
func putPayoff(leg OptionLeg, exit float64) float64 {
	if exit < leg.Strike {
		return leg.Amount * (leg.Strike - exit)
	}
	return 0
}

// ETHSpotValue devuelve el valor en USD del ETH en spot al precio de inicio.
func ETHSpotValue(start StartingPrices, p Portfolio) float64 {
	return Round2(p.ETHSpotAmount * start.ETHSpotStartPrice)
}

// QuantoFuturesBTCValue devuelve el nocional en BTC de los contratos en corto.
func QuantoFuturesBTCValue(start StartingPrices, p Portfolio) float64 {
	return p.ETHQuantoContractsShorted * start.ETHQuantoFuturesStartPrice * QuantoMultiplier
}

// QuantoFuturesUSDValue devuelve el nocional en USD de los contratos en corto.
func QuantoFuturesUSDValue(start StartingPrices, p Portfolio) float64 {
	return QuantoFuturesBTCValue(start, p) * start.BTCStartPrice
}

// BitmexStartingValue devuelve el valor en USD del BTC depositado en BitMEX.
func BitmexStartingValue(start StartingPrices, p Portfolio) float64 {
	return p.BTCAmountBitmex * start.BTCStartPrice
}
