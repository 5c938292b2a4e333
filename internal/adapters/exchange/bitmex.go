package exchange

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

const bitmexQuotePath = "/api/v1/quote"

// FetchBitmexBid devuelve el último bid del símbolo de BitMEX, redondeado a 2 decimales.
func (c *Client) FetchBitmexBid(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("count", "1")
	q.Set("reverse", "true")
	u := c.cfg.BitmexBase + bitmexQuotePath + "?" + q.Encode()

	var resp []bitmexQuote
	if err := c.get(ctx, c.bitmexLimiter, u, &resp); err != nil {
		return 0, fmt.Errorf("bitmex.FetchBitmexBid %s: %w", symbol, err)
	}
	if len(resp) == 0 {
		return 0, fmt.Errorf("bitmex.FetchBitmexBid %s: %w", symbol, domain.ErrNoPrices)
	}
	return domain.Round2(resp[0].BidPrice), nil
}
