// Package optimizer busca la combinación de patas de opciones que maximiza el
// peor PnL del portfolio sobre el grid de escenarios (maximin).
package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

const (
	defaultSteps     = 4
	defaultMaxAmount = 1
)

// Config parametriza la búsqueda.
type Config struct {
	// Steps divide MaxAmount en fracciones: 4 → 0, 1/4, 2/4, 3/4, 1.
	Steps     int
	MaxAmount float64
	Grid      domain.Grid
	Bounds    domain.Bounds
	// Workers <= 0 usa runtime.NumCPU().
	Workers int
}

// DefaultConfig devuelve la configuración por defecto: cantidades de 0 a 1 en
// cuartos, el grid del surface y los escenarios frontera fijos.
func DefaultConfig() Config {
	return Config{
		Steps:     defaultSteps,
		MaxAmount: defaultMaxAmount,
		Grid:      domain.DefaultGrid(),
		Bounds:    domain.DefaultBounds(),
	}
}

// Optimizer ejecuta búsquedas maximin. No guarda estado entre ejecuciones.
type Optimizer struct {
	cfg Config
}

// New crea un Optimizer. Los campos a cero de cfg toman el valor por defecto.
func New(cfg Config) *Optimizer {
	def := DefaultConfig()
	if cfg.Steps <= 0 {
		cfg.Steps = def.Steps
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = def.MaxAmount
	}
	if len(cfg.Grid.BTCPrices) == 0 || len(cfg.Grid.ETHPrices) == 0 {
		cfg.Grid = def.Grid
	}
	if cfg.Bounds == (domain.Bounds{}) {
		cfg.Bounds = def.Bounds
	}
	return &Optimizer{cfg: cfg}
}

// Config devuelve la configuración efectiva.
func (o *Optimizer) Config() Config {
	return o.cfg
}

// Candidates devuelve el tamaño del espacio de búsqueda para start y p.
func (o *Optimizer) Candidates(start domain.StartingPrices, p domain.Portfolio) int {
	return newSpace(start, p, fractions(o.cfg.Steps, o.cfg.MaxAmount)).size
}

// Run puntúa cada combinación de patas con domain.RangeMin y devuelve la mejor.
// p no se modifica: aplicar el ganador (run.Legs) es responsabilidad del llamador.
//
// Si ctx se cancela devuelve error y un run con lo evaluado hasta entonces.
func (o *Optimizer) Run(ctx context.Context, start domain.StartingPrices, p domain.Portfolio, premiumExit float64) (domain.OptimizationRun, error) {
	began := time.Now()
	grid, bounds := o.cfg.Grid, o.cfg.Bounds

	eval := func(legs [4]domain.OptionLeg) float64 {
		return domain.RangeMin(start, p.WithLegs(legs), premiumExit, grid.BTCPrices, grid.ETHPrices, bounds)
	}

	baselineLegs := p.Legs()
	for i := range baselineLegs {
		baselineLegs[i].Amount = 0
	}

	sp := newSpace(start, p, fractions(o.cfg.Steps, o.cfg.MaxAmount))
	run := domain.OptimizationRun{
		StartedAt:                 began.UTC(),
		Candidates:                sp.size,
		BaselineScore:             eval(baselineLegs),
		ETHSpotAmount:             p.ETHSpotAmount,
		BTCAmountBitmex:           p.BTCAmountBitmex,
		ETHQuantoContractsShorted: p.ETHQuantoContractsShorted,
		PremiumExit:               premiumExit,
		BTCStartPrice:             start.BTCStartPrice,
		ETHSpotStartPrice:         start.ETHSpotStartPrice,
		ETHQuantoFuturesStart:     start.ETHQuantoFuturesStartPrice,
	}

	slog.Info("optimization started",
		"candidates", sp.size,
		"grid_points", len(grid.BTCPrices)*len(grid.ETHPrices),
		"workers", o.cfg.Workers,
	)

	best, evaluated, err := scoreConcurrent(ctx, eval, sp, o.cfg.Workers)
	run.Evaluated = evaluated
	run.Duration = time.Since(began)
	if best.idx >= 0 {
		run.BestScore = best.score
		run.Legs = sp.at(best.idx)
	}
	if err != nil {
		return run, fmt.Errorf("optimizer.Run: cancelled after %d/%d candidates: %w", evaluated, sp.size, err)
	}

	slog.Info("optimization complete",
		"best", run.BestScore,
		"baseline", run.BaselineScore,
		"evaluated", run.Evaluated,
		"duration", run.Duration.Round(time.Millisecond),
	)
	return run, nil
}
