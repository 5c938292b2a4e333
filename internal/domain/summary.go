package domain

// LegSummary es una fila de pata de opciones tal como se presenta al usuario.
type LegSummary struct {
	Kind    LegKind
	Amount  float64
	Strike  float64
	Premium float64
	Cost    float64
}

// Summary agrupa los textos de la sesión: precios de inicio, valor de cada
// posición, coste de las patas y los strikes disponibles.
type Summary struct {
	Prices          StartingPrices
	StartingPremium float64

	BTCAmountBitmex float64
	BitmexValue     float64
	ETHSpotAmount   float64
	ETHSpotValue    float64
	Contracts       float64
	FuturesBTCValue float64
	FuturesUSDValue float64
	PremiumExit     float64
	Legs            [4]LegSummary
	Strikes         map[LegKind][]float64
}

// NewSummary calcula el resumen para el estado dado.
func NewSummary(start StartingPrices, p Portfolio, exit ExitPrices) Summary {
	s := Summary{
		Prices:          start,
		StartingPremium: start.StartingPremium(),
		BTCAmountBitmex: p.BTCAmountBitmex,
		BitmexValue:     BitmexStartingValue(start, p),
		ETHSpotAmount:   p.ETHSpotAmount,
		ETHSpotValue:    ETHSpotValue(start, p),
		Contracts:       p.ETHQuantoContractsShorted,
		FuturesBTCValue: QuantoFuturesBTCValue(start, p),
		FuturesUSDValue: QuantoFuturesUSDValue(start, p),
		PremiumExit:     exit.PremiumExit,
		Strikes:         make(map[LegKind][]float64, len(AllLegs)),
	}
	for i, k := range AllLegs {
		leg := *p.Leg(k)
		s.Legs[i] = LegSummary{
			Kind:    k,
			Amount:  leg.Amount,
			Strike:  leg.Strike,
			Premium: leg.Premium,
			Cost:    leg.Cost(),
		}
		s.Strikes[k] = start.Strikes(k)
	}
	return s
}
