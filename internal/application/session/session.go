// Package session mantiene el estado de trabajo del usuario: precios de inicio,
// escenario de salida y portfolio. Cada comando de la CLI opera sobre una Session
// en lugar de un estado global.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/alejandrodnm/quantohedge/internal/application/optimizer"
	"github.com/alejandrodnm/quantohedge/internal/domain"
	"github.com/alejandrodnm/quantohedge/internal/ports"
)

// Session es el estado de una sesión de modelado.
//
// mu protege start, exit y portfolio. running serializa Optimize: solo puede
// haber una búsqueda activa a la vez.
type Session struct {
	quotes    ports.QuoteProvider
	storage   ports.RunStorage // opcional
	optimizer *optimizer.Optimizer

	mu        sync.Mutex
	start     domain.StartingPrices
	exit      domain.ExitPrices
	portfolio domain.Portfolio

	running atomic.Bool
}

// New crea una Session con los valores por defecto del modelo.
// storage puede ser nil: en ese caso no se persisten snapshots ni runs.
func New(quotes ports.QuoteProvider, storage ports.RunStorage, opt *optimizer.Optimizer) *Session {
	if opt == nil {
		opt = optimizer.New(optimizer.DefaultConfig())
	}
	return &Session{
		quotes:    quotes,
		storage:   storage,
		optimizer: opt,
		start:     domain.DefaultStartingPrices(),
		exit:      domain.DefaultExitPrices(),
		portfolio: domain.DefaultPortfolio(),
	}
}

// Refresh consulta los precios de inicio y reemplaza los de la sesión.
// Si la consulta falla el estado no cambia.
func (s *Session) Refresh(ctx context.Context) error {
	prices, err := s.quotes.FetchStartingPrices(ctx)
	if err != nil {
		return fmt.Errorf("session.Refresh: %w", err)
	}

	s.mu.Lock()
	s.start = prices
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.SaveSnapshot(ctx, prices); err != nil {
			slog.Warn("failed to save price snapshot", "err", err)
		}
	}
	return nil
}

// LoadLatest carga el último snapshot guardado. Devuelve false si no hay ninguno
// o la sesión no tiene storage.
func (s *Session) LoadLatest(ctx context.Context) (bool, error) {
	if s.storage == nil {
		return false, nil
	}
	prices, ok, err := s.storage.LatestSnapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("session.LoadLatest: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	s.start = prices
	s.mu.Unlock()

	slog.Debug("loaded price snapshot", "queried_at", prices.QueriedAt)
	return true, nil
}

// SetBTCAmountBitmex fija los BTC depositados en BitMEX.
func (s *Session) SetBTCAmountBitmex(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolio.BTCAmountBitmex = v
}

// SetETHSpotAmount fija los ETH spot.
func (s *Session) SetETHSpotAmount(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolio.ETHSpotAmount = v
}

// SetContractsToShort fija los contratos quanto ETH en corto.
func (s *Session) SetContractsToShort(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolio.ETHQuantoContractsShorted = v
}

// SetPremiumLeftPct fija la prima del futuro que queda al salir, en porcentaje.
func (s *Session) SetPremiumLeftPct(pct float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exit.PremiumExit = pct / 100
}

// SetExitPrices fija el escenario de salida puntual (BTC y ETH).
func (s *Session) SetExitPrices(btc, eth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exit.BTCExitPrice = btc
	s.exit.ETHExitPrice = eth
}

// SelectLeg fija la cantidad de una pata. Si la cadena tiene una cotización con
// ese strike también actualiza strike y prima; si no, se mantienen los anteriores.
func (s *Session) SelectLeg(kind domain.LegKind, amount, strike float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	leg := s.portfolio.Leg(kind)
	if leg == nil {
		return fmt.Errorf("session.SelectLeg: %w", domain.ErrUnknownLeg)
	}
	leg.Amount = amount

	q, ok := s.start.FindQuote(kind, strike)
	if !ok {
		slog.Debug("strike not in chain, keeping previous quote",
			"leg", kind.String(),
			"strike", strike,
			"previous_strike", leg.Strike,
		)
		return nil
	}
	leg.Strike = strike
	leg.Premium = q.PremiumUSD()
	return nil
}

// StrikeOptions devuelve los strikes disponibles para la pata, ordenados.
func (s *Session) StrikeOptions(kind domain.LegKind) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start.Strikes(kind)
}

// Surface calcula la superficie de PnL del estado actual sobre grid.
func (s *Session) Surface(grid domain.Grid) domain.Surface {
	s.mu.Lock()
	start, p, premiumExit := s.start, s.portfolio, s.exit.PremiumExit
	s.mu.Unlock()
	return domain.BuildSurface(start, p, premiumExit, grid)
}

// Summary devuelve el resumen de precios y posiciones.
func (s *Session) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewSummary(s.start, s.portfolio, s.exit)
}

// PnL evalúa el portfolio en el escenario de salida actual.
func (s *Session) PnL() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.PnL(s.start, s.portfolio, s.exit)
}

// Portfolio devuelve una copia del portfolio.
func (s *Session) Portfolio() domain.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio
}

// StartingPrices devuelve una copia de los precios de inicio.
func (s *Session) StartingPrices() domain.StartingPrices {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start
}

// Optimize busca las patas que maximizan el peor PnL del grid y las aplica al
// portfolio. Solo se modifican los doce campos de las patas.
//
// Devuelve domain.ErrOptimizeRunning si ya hay una búsqueda en curso. Si ctx se
// cancela el portfolio no cambia.
func (s *Session) Optimize(ctx context.Context) (domain.OptimizationRun, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.OptimizationRun{}, fmt.Errorf("session.Optimize: %w", domain.ErrOptimizeRunning)
	}
	defer s.running.Store(false)

	s.mu.Lock()
	start, p, premiumExit := s.start, s.portfolio, s.exit.PremiumExit
	s.mu.Unlock()

	run, err := s.optimizer.Run(ctx, start, p, premiumExit)
	if err != nil {
		return run, fmt.Errorf("session.Optimize: %w", err)
	}
	run.ID = uuid.New().String()

	s.mu.Lock()
	s.portfolio = s.portfolio.WithLegs(run.Legs)
	s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.SaveRun(ctx, run); err != nil {
			slog.Warn("failed to save optimization run", "run_id", run.ID, "err", err)
		}
	}
	return run, nil
}
