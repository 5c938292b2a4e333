package domain

import (
	"math"
	"sort"
	"time"
)

// QuantoMultiplier es el multiplicador BTC por USD del contrato quanto ETH de BitMEX.
const QuantoMultiplier = 0.000001

// StartingPrices son los precios de referencia al abrir la estrategia.
// Solo se reemplazan con un refresh; el resto de la sesión son de solo lectura.
type StartingPrices struct {
	BTCStartPrice              float64 // bid de XBTUSD
	ETHSpotStartPrice          float64 // ETHUSDT en Binance
	ETHQuantoFuturesStartPrice float64 // bid del futuro quanto ETH

	BTCCalls []OptionQuote
	BTCPuts  []OptionQuote
	ETHCalls []OptionQuote
	ETHPuts  []OptionQuote

	QueriedAt time.Time // cero = valores por defecto, nunca consultados
}

// OptionQuote es una opción de Deribit con los campos que consume el modelo.
type OptionQuote struct {
	InstrumentName  string
	Strike          float64
	UnderlyingPrice float64 // USD
	BestAskPrice    float64 // en unidades del subyacente
	BestBidPrice    float64
	MarkPrice       float64
}

// PremiumUSD devuelve la prima a pagar en USD por una opción: underlying × best ask.
func (q OptionQuote) PremiumUSD() float64 {
	return q.UnderlyingPrice * q.BestAskPrice
}

// DefaultStartingPrices devuelve los precios usados antes del primer refresh.
func DefaultStartingPrices() StartingPrices {
	return StartingPrices{
		BTCStartPrice:              50000,
		ETHSpotStartPrice:          1600,
		ETHQuantoFuturesStartPrice: 2200,
	}
}

// StartingPremium devuelve la prima del futuro sobre el spot en porcentaje, redondeada.
func (p StartingPrices) StartingPremium() float64 {
	if p.ETHSpotStartPrice == 0 {
		return 0
	}
	return math.Round((p.ETHQuantoFuturesStartPrice/p.ETHSpotStartPrice - 1) * 100)
}

// Chain devuelve la cadena de opciones de la pata dada.
func (p StartingPrices) Chain(kind LegKind) []OptionQuote {
	switch kind {
	case LegBTCCall:
		return p.BTCCalls
	case LegBTCPut:
		return p.BTCPuts
	case LegETHCall:
		return p.ETHCalls
	case LegETHPut:
		return p.ETHPuts
	default:
		return nil
	}
}

// FindQuote busca la opción con el strike exacto en la cadena de la pata.
func (p StartingPrices) FindQuote(kind LegKind, strike float64) (OptionQuote, bool) {
	for _, q := range p.Chain(kind) {
		if q.Strike == strike {
			return q, true
		}
	}
	return OptionQuote{}, false
}

// Strikes devuelve los strikes disponibles de la pata ordenados de menor a mayor.
func (p StartingPrices) Strikes(kind LegKind) []float64 {
	chain := p.Chain(kind)
	strikes := make([]float64, 0, len(chain))
	for _, q := range chain {
		strikes = append(strikes, q.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// Round2 redondea a 2 decimales, como se muestran los precios de exchange.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
