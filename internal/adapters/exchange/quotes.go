package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/quantohedge/internal/domain"
)

// FetchStartingPrices implementa ports.QuoteProvider.
//
// Primero se consultan los tres precios de referencia, porque el filtro de strikes
// de Deribit depende de ellos: BTC se filtra contra el bid de XBTUSD y ETH contra
// el spot de Binance.
func (c *Client) FetchStartingPrices(ctx context.Context) (domain.StartingPrices, error) {
	start := time.Now()
	var p domain.StartingPrices
	var err error

	if p.BTCStartPrice, err = c.FetchBitmexBid(ctx, c.cfg.BTCSymbol); err != nil {
		return domain.StartingPrices{}, fmt.Errorf("exchange.FetchStartingPrices: %w", err)
	}
	if p.ETHQuantoFuturesStartPrice, err = c.FetchBitmexBid(ctx, c.cfg.QuantoSymbol); err != nil {
		return domain.StartingPrices{}, fmt.Errorf("exchange.FetchStartingPrices: %w", err)
	}
	if p.ETHSpotStartPrice, err = c.FetchBinancePrice(ctx, c.cfg.SpotSymbol); err != nil {
		return domain.StartingPrices{}, fmt.Errorf("exchange.FetchStartingPrices: %w", err)
	}

	if p.BTCCalls, p.BTCPuts, err = c.FetchOptionChain(ctx, "BTC", p.BTCStartPrice, c.cfg.BTCWindow); err != nil {
		return domain.StartingPrices{}, fmt.Errorf("exchange.FetchStartingPrices: %w", err)
	}
	if p.ETHCalls, p.ETHPuts, err = c.FetchOptionChain(ctx, "ETH", p.ETHSpotStartPrice, c.cfg.ETHWindow); err != nil {
		return domain.StartingPrices{}, fmt.Errorf("exchange.FetchStartingPrices: %w", err)
	}

	p.QueriedAt = time.Now().UTC()

	slog.Info("starting prices fetched",
		"btc", p.BTCStartPrice,
		"eth_spot", p.ETHSpotStartPrice,
		"eth_quanto", p.ETHQuantoFuturesStartPrice,
		"btc_calls", len(p.BTCCalls),
		"btc_puts", len(p.BTCPuts),
		"eth_calls", len(p.ETHCalls),
		"eth_puts", len(p.ETHPuts),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return p, nil
}
