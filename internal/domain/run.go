package domain

import "time"

// OptimizationRun es el resultado de una búsqueda maximin sobre las patas de opciones.
type OptimizationRun struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration

	Candidates int // tamaño del espacio de búsqueda
	Evaluated  int // candidatos puntuados (menor que Candidates si se canceló)

	BestScore     float64 // peor PnL del grid para el portfolio ganador
	BaselineScore float64 // peor PnL sin opciones (todas las cantidades a 0)
	Legs          [4]OptionLeg

	// contexto del portfolio y del mercado en el momento de la búsqueda
	ETHSpotAmount             float64
	BTCAmountBitmex           float64
	ETHQuantoContractsShorted float64
	PremiumExit               float64
	BTCStartPrice             float64
	ETHSpotStartPrice         float64
	ETHQuantoFuturesStart     float64
}

// Acceptable devuelve true si el ganador no pierde en los escenarios frontera.
func (r OptimizationRun) Acceptable() bool {
	return r.BestScore > RangeMinSentinel
}

// Improvement devuelve cuánto mejora el ganador al portfolio sin opciones.
// 0 si alguno de los dos es inaceptable.
func (r OptimizationRun) Improvement() float64 {
	if !r.Acceptable() || r.BaselineScore <= RangeMinSentinel {
		return 0
	}
	return r.BestScore - r.BaselineScore
}
