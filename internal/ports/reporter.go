package ports

import "github.com/alejandrodnm/quantohedge/internal/domain"

// Reporter presenta el estado de la sesión al usuario.
type Reporter interface {
	Summary(s domain.Summary)
	Surface(s domain.Surface, step int)
	Optimization(run domain.OptimizationRun)
	History(runs []domain.OptimizationRun)
}
