package optimizer

// concurrent.go: worker pool para puntuar candidatos en paralelo.
//
// Cada candidato se puntúa sobre su propia copia del portfolio, así que los
// workers no comparten estado mutable. El índice del candidato viaja con el
// score para que el desempate sea el mismo que en la búsqueda secuencial.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// scored es el mejor candidato visto por un worker.
type scored struct {
	idx   int
	score float64
}

// better devuelve true si a gana a b: mayor score, y a igualdad el índice menor.
func (a scored) better(b scored) bool {
	if b.idx < 0 {
		return true
	}
	if a.score != b.score {
		return a.score > b.score
	}
	return a.idx < b.idx
}

// scoreConcurrent puntúa todos los candidatos de sp con RangeMin y devuelve el
// ganador y cuántos candidatos se evaluaron.
//
// Si workers <= 0 usa runtime.NumCPU(). Si ctx se cancela antes de evaluar todos
// los candidatos devuelve lo evaluado hasta ese momento junto con ctx.Err().
func scoreConcurrent(
	ctx context.Context,
	eval func(legs [4]domain.OptionLeg) float64,
	sp space,
	workers int,
) (scored, int, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > sp.size {
		workers = sp.size
	}

	workCh := make(chan int, workers*4)
	resultCh := make(chan scored, workers)
	var evaluated atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			best := scored{idx: -1}
			for idx := range workCh {
				s := scored{idx: idx, score: eval(sp.at(idx))}
				evaluated.Add(1)
				if s.better(best) {
					best = s
				}
			}
			resultCh <- best
		}()
	}

	// Alimentar el work channel en orden; se corta si se cancela el contexto.
	go func() {
		defer close(workCh)
		for idx := 0; idx < sp.size; idx++ {
			select {
			case workCh <- idx:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	best := scored{idx: -1}
	for s := range resultCh {
		if s.idx >= 0 && s.better(best) {
			best = s
		}
	}

	n := int(evaluated.Load())
	slog.Debug("concurrent scoring complete",
		"candidates", sp.size,
		"evaluated", n,
		"workers", workers,
	)

	// Una cancelación que llega con todo evaluado no invalida el resultado.
	if err := ctx.Err(); err != nil && n < sp.size {
		return best, n, err
	}
	return best, n, nil
}
