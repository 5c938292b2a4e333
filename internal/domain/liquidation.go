package domain

// NeverLiquidated es el precio de liquidación que se devuelve cuando no hay
// contratos en corto: la posición nunca se liquida.
const NeverLiquidated = 1000000

// LiquidationPrice devuelve el precio del futuro quanto ETH al que el margen en BTC
// se agota, para un precio hipotético de BTC.
//
//	btcDisponible = btcBitmex × btcStart / btcPrice
//	liq           = futStart + btcDisponible / multiplier / contratos
//
// Con 0 contratos (o btcPrice 0) la división no tiene sentido y se devuelve NeverLiquidated.
func LiquidationPrice(start StartingPrices, p Portfolio, btcPrice float64) float64 {
	if p.ETHQuantoContractsShorted == 0 || btcPrice == 0 {
		return NeverLiquidated
	}
	btcAvailable := p.BTCAmountBitmex * start.BTCStartPrice / btcPrice
	return start.ETHQuantoFuturesStartPrice + btcAvailable/QuantoMultiplier/p.ETHQuantoContractsShorted
}
