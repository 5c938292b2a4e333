package domain

import "math"

// RangeMinSentinel es el score de un portfolio inaceptable: pierde dinero en
// alguno de los escenarios frontera.
const RangeMinSentinel = -1e18

// Bounds son los dos escenarios frontera que se comprueban antes de recorrer el grid.
// Están fijados a mano y no dependen del grid.
type Bounds struct {
	Upper ExitPrices
	Lower ExitPrices
}

// DefaultBounds devuelve BTC=160000/ETH=7500 y BTC=32000/ETH=600.
func DefaultBounds() Bounds {
	return Bounds{
		Upper: ExitPrices{BTCExitPrice: 160000, ETHExitPrice: 7500},
		Lower: ExitPrices{BTCExitPrice: 32000, ETHExitPrice: 600},
	}
}

// RangeMin devuelve el peor PnL del portfolio sobre el producto cartesiano
// btcPrices × ethPrices.
//
// Si cualquiera de los escenarios frontera da PnL negativo devuelve
// RangeMinSentinel sin recorrer el grid.
func RangeMin(start StartingPrices, p Portfolio, premiumExit float64, btcPrices, ethPrices []float64, bounds Bounds) float64 {
	upper, lower := bounds.Upper, bounds.Lower
	upper.PremiumExit = premiumExit
	lower.PremiumExit = premiumExit
	if PnL(start, p, upper) < 0 || PnL(start, p, lower) < 0 {
		return RangeMinSentinel
	}

	worst := math.Inf(1)
	exit := ExitPrices{PremiumExit: premiumExit}
	for _, btc := range btcPrices {
		exit.BTCExitPrice = btc
		for _, eth := range ethPrices {
			exit.ETHExitPrice = eth
			if v := PnL(start, p, exit); v < worst {
				worst = v
			}
		}
	}
	return worst
}
