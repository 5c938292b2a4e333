package domain

// Grid son los precios hipotéticos de BTC y ETH sobre los que se evalúa el PnL.
type Grid struct {
	BTCPrices []float64
	ETHPrices []float64
}

// Valores por defecto del grid: 101 puntos por eje.
const (
	DefaultResolution = 100
	DefaultBTCMax     = 200000
	DefaultETHMax     = 10000
)

// NewGrid genera resolution+1 puntos equiespaciados en [0, max] para cada eje.
func NewGrid(resolution int, btcMax, ethMax float64) Grid {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return Grid{
		BTCPrices: linspace(resolution, btcMax),
		ETHPrices: linspace(resolution, ethMax),
	}
}

// DefaultGrid devuelve el grid 101×101 hasta BTC 200000 y ETH 10000.
func DefaultGrid() Grid {
	return NewGrid(DefaultResolution, DefaultBTCMax, DefaultETHMax)
}

func linspace(resolution int, max float64) []float64 {
	out := make([]float64, resolution+1)
	for i := range out {
		out[i] = float64(i) * max / float64(resolution)
	}
	return out
}

// ReferenceLines son las tres líneas de referencia del gráfico.
type ReferenceLines struct {
	BTCStart        float64 // vertical
	ETHFuturesStart float64 // horizontal
	ETHSpotStart    float64 // horizontal
}

// Surface es la superficie de PnL indexada por (ETH, BTC), más la curva de
// liquidación por precio de BTC y las referencias para pintarla.
type Surface struct {
	Grid             Grid
	PnL              [][]float64 // PnL[ethIdx][btcIdx]
	LiquidationCurve []float64   // por btcIdx
	References       ReferenceLines
	ContourStart     float64 // -BitmexStartingValue
	ContourEnd       float64 // +BitmexStartingValue
	ContourSize      float64
}

// BuildSurface evalúa el PnL en todos los puntos del grid con la prima de salida dada.
func BuildSurface(start StartingPrices, p Portfolio, premiumExit float64, grid Grid) Surface {
	table := make([][]float64, len(grid.ETHPrices))
	exit := ExitPrices{PremiumExit: premiumExit}
	for i, eth := range grid.ETHPrices {
		row := make([]float64, len(grid.BTCPrices))
		exit.ETHExitPrice = eth
		for j, btc := range grid.BTCPrices {
			exit.BTCExitPrice = btc
			row[j] = PnL(start, p, exit)
		}
		table[i] = row
	}

	liq := make([]float64, len(grid.BTCPrices))
	for j, btc := range grid.BTCPrices {
		liq[j] = LiquidationPrice(start, p, btc)
	}

	bitmex := BitmexStartingValue(start, p)
	contourStart := -bitmex
	if contourStart == 0 {
		contourStart = 0 // sin BTC en BitMEX: evitar -0
	}
	return Surface{
		Grid:             grid,
		PnL:              table,
		LiquidationCurve: liq,
		References: ReferenceLines{
			BTCStart:        start.BTCStartPrice,
			ETHFuturesStart: start.ETHQuantoFuturesStartPrice,
			ETHSpotStart:    start.ETHSpotStartPrice,
		},
		ContourStart: contourStart,
		ContourEnd:   bitmex,
		ContourSize:  bitmex,
	}
}

// At devuelve el PnL en el punto (ethIdx, btcIdx).
func (s Surface) At(ethIdx, btcIdx int) float64 {
	return s.PnL[ethIdx][btcIdx]
}

// Min devuelve el peor PnL de la superficie y sus precios.
func (s Surface) Min() (pnl, btc, eth float64) {
	first := true
	for i, row := range s.PnL {
		for j, v := range row {
			if first || v < pnl {
				pnl, btc, eth = v, s.Grid.BTCPrices[j], s.Grid.ETHPrices[i]
				first = false
			}
		}
	}
	return
}
