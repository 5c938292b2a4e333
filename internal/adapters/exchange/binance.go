package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

const binanceTickerPath = "/api/v3/ticker/price"

// FetchBinancePrice devuelve el último precio del par spot de Binance, redondeado a 2 decimales.
func (c *Client) FetchBinancePrice(ctx context.Context, symbol string) (float64, error) {
	u := c.cfg.BinanceBase + binanceTickerPath + "?symbol=" + url.QueryEscape(symbol)

	var resp binanceTicker
	if err := c.get(ctx, c.binanceLimiter, u, &resp); err != nil {
		return 0, fmt.Errorf("binance.FetchBinancePrice %s: %w", symbol, err)
	}
	if resp.Price == "" {
		return 0, fmt.Errorf("binance.FetchBinancePrice %s: %w", symbol, domain.ErrNoPrices)
	}
	price, err := resp.Price.Float64()
	if err != nil {
		return 0, fmt.Errorf("binance.FetchBinancePrice %s: parse price %q: %w", symbol, resp.Price, err)
	}
	return domain.Round2(price), nil
}
