package domain

// ExitPrices es un escenario hipotético de cierre. Es transitorio: se sobreescribe
// en cada evaluación del grid.
type ExitPrices struct {
	ETHExitPrice float64
	BTCExitPrice float64
	PremiumExit  float64 // prima que queda en el futuro al cerrar (0.05 = 5%)
}

// DefaultExitPrices devuelve el escenario inicial: ETH 1800, BTC 50000, sin prima.
func DefaultExitPrices() ExitPrices {
	return ExitPrices{ETHExitPrice: 1800, BTCExitPrice: 50000}
}

// FuturesExitPrice devuelve el precio del futuro quanto al cerrar: ETH × (1 + prima).
func (e ExitPrices) FuturesExitPrice() float64 {
	return e.ETHExitPrice * (1 + e.PremiumExit)
}
