package optimizer

import "github.com/alejandrodnm/quantohedge/internal/domain"

// space es el espacio de búsqueda: para cada pata (en el orden de domain.AllLegs)
// la lista de configuraciones posibles {amount, strike, premium}.
//
// Los candidatos no se materializan: el índice i se decodifica en base mixta,
// con la call BTC como dígito más significativo. Recorrer i de 0 a size-1 da
// el mismo orden que los bucles anidados call BTC → put BTC → call ETH → put ETH.
type space struct {
	choices [4][]domain.OptionLeg
	size    int
}

// fractions devuelve 0, 1/steps, ..., 1 multiplicado por maxAmount.
func fractions(steps int, maxAmount float64) []float64 {
	out := make([]float64, steps+1)
	for i := range out {
		out[i] = float64(i) * maxAmount / float64(steps)
	}
	return out
}

// newSpace construye las opciones de cada pata. Una pata sin cadena de opciones
// conserva el strike y la prima actuales del portfolio y solo varía la cantidad.
func newSpace(start domain.StartingPrices, current domain.Portfolio, amounts []float64) space {
	var s space
	s.size = 1
	for i, kind := range domain.AllLegs {
		chain := start.Chain(kind)
		leg := *current.Leg(kind)

		var opts []domain.OptionLeg
		if len(chain) == 0 {
			for _, a := range amounts {
				opts = append(opts, domain.OptionLeg{Amount: a, Strike: leg.Strike, Premium: leg.Premium})
			}
		} else {
			for _, a := range amounts {
				for _, q := range chain {
					opts = append(opts, domain.OptionLeg{Amount: a, Strike: q.Strike, Premium: q.PremiumUSD()})
				}
			}
		}
		s.choices[i] = opts
		s.size *= len(opts)
	}
	return s
}

// at devuelve las cuatro patas del candidato idx.
func (s space) at(idx int) [4]domain.OptionLeg {
	var legs [4]domain.OptionLeg
	for i := len(s.choices) - 1; i >= 0; i-- {
		n := len(s.choices[i])
		legs[i] = s.choices[i][idx%n]
		idx /= n
	}
	return legs
}
