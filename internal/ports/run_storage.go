package ports

import (
	"context"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// RunStorage persiste los snapshots de precios y las ejecuciones del optimizador.
type RunStorage interface {
	// SaveSnapshot guarda los precios de inicio y las cadenas de opciones.
	SaveSnapshot(ctx context.Context, prices domain.StartingPrices) error

	// LatestSnapshot devuelve el último snapshot guardado.
	// ok=false si la base de datos está vacía.
	LatestSnapshot(ctx context.Context) (prices domain.StartingPrices, ok bool, err error)

	// SaveRun guarda el resultado de una optimización.
	SaveRun(ctx context.Context, run domain.OptimizationRun) error

	// ListRuns devuelve las últimas ejecuciones, más recientes primero.
	ListRuns(ctx context.Context, limit int) ([]domain.OptimizationRun, error)

	Close() error
}
