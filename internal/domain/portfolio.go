package domain

import "fmt"

// LegKind identifica una de las cuatro patas de opciones de Deribit.
type LegKind int

const (
	LegBTCCall LegKind = iota
	LegBTCPut
	LegETHCall
	LegETHPut
)

// AllLegs es el orden fijo en el que se enumeran las patas.
var AllLegs = [4]LegKind{LegBTCCall, LegBTCPut, LegETHCall, LegETHPut}

func (k LegKind) String() string {
	switch k {
	case LegBTCCall:
		return "btc-call"
	case LegBTCPut:
		return "btc-put"
	case LegETHCall:
		return "eth-call"
	case LegETHPut:
		return "eth-put"
	default:
		return fmt.Sprintf("leg(%d)", int(k))
	}
}

// Currency devuelve el subyacente de la pata tal como lo nombra Deribit.
func (k LegKind) Currency() string {
	if k == LegBTCCall || k == LegBTCPut {
		return "BTC"
	}
	return "ETH"
}

// IsCall devuelve true para las patas call.
func (k LegKind) IsCall() bool {
	return k == LegBTCCall || k == LegETHCall
}

// MarshalText permite usar LegKind como clave en JSON.
func (k LegKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseLegKind convierte "btc-call", "eth-put", etc. a LegKind.
func ParseLegKind(s string) (LegKind, error) {
	for _, k := range AllLegs {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLeg, s)
}

// OptionLeg es una posición comprada en opciones: cantidad, strike y prima en USD por unidad.
type OptionLeg struct {
	Amount  float64
	Strike  float64
	Premium float64
}

// Cost devuelve lo pagado por la pata: amount × premium.
func (l OptionLeg) Cost() float64 {
	return l.Amount * l.Premium
}

// noCallStrike deja las calls fuera del dinero hasta que el usuario elija un strike.
const noCallStrike = 1000000

// Portfolio son los tamaños de posición y las cuatro patas de opciones.
// Las cantidades deberían ser no negativas; no se valida.
type Portfolio struct {
	ETHSpotAmount             float64 // ETH en spot
	BTCAmountBitmex           float64 // BTC depositado en BitMEX, cubierto a USD sintético
	ETHQuantoContractsShorted float64 // contratos quanto ETH en corto

	ETHCalls OptionLeg
	BTCCalls OptionLeg
	ETHPuts  OptionLeg
	BTCPuts  OptionLeg
}

// DefaultPortfolio devuelve el portfolio inicial: 1 BTC en BitMEX y sin opciones.
func DefaultPortfolio() Portfolio {
	return Portfolio{
		BTCAmountBitmex: 1,
		ETHCalls:        OptionLeg{Strike: noCallStrike},
		BTCCalls:        OptionLeg{Strike: noCallStrike},
	}
}

// Leg devuelve un puntero a la pata indicada para mutarla en sitio.
func (p *Portfolio) Leg(kind LegKind) *OptionLeg {
	switch kind {
	case LegBTCCall:
		return &p.BTCCalls
	case LegBTCPut:
		return &p.BTCPuts
	case LegETHCall:
		return &p.ETHCalls
	case LegETHPut:
		return &p.ETHPuts
	default:
		return nil
	}
}

// CostOfCalls devuelve el coste total de las calls ETH y BTC.
func (p Portfolio) CostOfCalls() float64 {
	return p.ETHCalls.Cost() + p.BTCCalls.Cost()
}

// CostOfPuts devuelve el coste total de las puts ETH y BTC.
func (p Portfolio) CostOfPuts() float64 {
	return p.ETHPuts.Cost() + p.BTCPuts.Cost()
}

// WithLegs devuelve una copia del portfolio con las cuatro patas reemplazadas.
// El orden de legs sigue AllLegs.
func (p Portfolio) WithLegs(legs [4]OptionLeg) Portfolio {
	for i, k := range AllLegs {
		*p.Leg(k) = legs[i]
	}
	return p
}

// Legs devuelve las cuatro patas en el orden de AllLegs.
func (p Portfolio) Legs() [4]OptionLeg {
	var out [4]OptionLeg
	for i, k := range AllLegs {
		out[i] = *p.Leg(k)
	}
	return out
}
