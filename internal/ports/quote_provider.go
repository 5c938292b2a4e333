package ports

import (
	"context"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// QuoteProvider obtiene los precios de inicio de BitMEX, Binance y Deribit.
type QuoteProvider interface {
	// FetchStartingPrices consulta todos los upstreams y devuelve un snapshot completo.
	// Si falla cualquier consulta devuelve error y ningún precio parcial.
	FetchStartingPrices(ctx context.Context) (domain.StartingPrices, error)
}
